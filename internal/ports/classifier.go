package ports

// LabelPhishing is the class label a Classifier returns for phishing URLs
const LabelPhishing = 1

// Classifier is the opaque statistical scorer consuming a fixed-order numeric vector
type Classifier interface {
	// Columns returns the feature keys the model was trained on, in order
	Columns() []string

	// Predict returns the class label (1 = phishing) and the (legitimate, phishing) probabilities
	Predict(columns []float64) (int, [2]float64, error)
}
