package detection

// BlendConfidence floors the classifier's confidence using the heuristic risk score
//
// The classifier only sees lexical, DNS and age columns; when the heuristics are
// strongly one-sided its own probability is lifted to at least the tier floor.
// Probabilities are (legitimate, phishing).
func BlendConfidence(probabilities [2]float64, riskScore int) float64 {
	confidence := max(probabilities[0], probabilities[1])

	switch {
	case riskScore > 60:
		return max(confidence, 0.85)
	case riskScore > 40:
		return max(confidence, 0.70)
	case riskScore < 20:
		return max(confidence, 0.80)
	default:
		return confidence
	}
}
