package detection

import (
	"github.com/stoik/phishing-detection/internal/domain"
)

const (
	minRiskScore = 0
	maxRiskScore = 100
)

// RiskScorer turns a feature vector into a bounded, explained risk assessment
//
// The scorer holds two fixed, ordered lists: weighted signals that build the
// score, and findings that produce the explanation strings. Both are read-only
// after construction, so one scorer can be shared by concurrent requests.
type RiskScorer struct {
	signals  []RiskSignal
	findings []Finding
}

// NewRiskScorer creates a scorer with the standard signals and findings
func NewRiskScorer() *RiskScorer {
	return &RiskScorer{
		signals:  StandardSignals(),
		findings: StandardFindings(),
	}
}

var defaultScorer = NewRiskScorer()

// ComputeRiskAssessment scores a vector with the standard scorer
func ComputeRiskAssessment(f domain.FeatureVector) domain.RiskAssessment {
	return defaultScorer.Assess(f)
}

// Assess computes score, level and explanations for a feature vector
func (s *RiskScorer) Assess(f domain.FeatureVector) domain.RiskAssessment {
	score := s.Score(f)
	return domain.RiskAssessment{
		Score:        score,
		Level:        domain.LevelForScore(score),
		Explanations: s.Explain(f),
	}
}

// Score sums the weights of every applying signal and clamps to [0, 100]
func (s *RiskScorer) Score(f domain.FeatureVector) int {
	score := 0
	for _, signal := range s.signals {
		if signal.Applies(f) {
			score += signal.Weight()
		}
	}
	return max(minRiskScore, min(maxRiskScore, score))
}

// Explain returns the message of every finding that holds, in check-list order
func (s *RiskScorer) Explain(f domain.FeatureVector) []string {
	explanations := make([]string, 0)
	for _, finding := range s.findings {
		if finding.Holds(f) {
			explanations = append(explanations, finding.Message)
		}
	}
	return explanations
}
