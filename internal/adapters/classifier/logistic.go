package classifier

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/stoik/phishing-detection/internal/domain"
	"github.com/stoik/phishing-detection/internal/ports"
)

//go:embed model.json
var defaultModelJSON []byte

// LabelPhishing is the class label predicted for phishing URLs
const LabelPhishing = ports.LabelPhishing

// modelFile is the on-disk model format
type modelFile struct {
	Name      string    `json:"name"`
	Columns   []string  `json:"columns"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Logistic is a binary logistic regression model over named feature columns
//
// It implements ports.Classifier. The column order is part of the model and
// must match the order the weights were fitted in.
type Logistic struct {
	name      string
	columns   []string
	weights   []float64
	intercept float64
}

// Default returns the bundled model over the 18 basic columns
func Default() (*Logistic, error) {
	return Parse(defaultModelJSON)
}

// Load reads a model file; an empty path selects the bundled model
func Load(path string) (*Logistic, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON model
func Parse(data []byte) (*Logistic, error) {
	var f modelFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid model %q: %w", f.Name, err)
	}
	return &Logistic{
		name:      f.Name,
		columns:   f.Columns,
		weights:   f.Weights,
		intercept: f.Intercept,
	}, nil
}

func (f modelFile) validate() error {
	if len(f.Columns) == 0 {
		return errors.New("model has no columns")
	}
	if len(f.Columns) != len(f.Weights) {
		return fmt.Errorf("%d columns but %d weights", len(f.Columns), len(f.Weights))
	}
	return domain.ValidateColumns(f.Columns)
}

// Name identifies the loaded model
func (m *Logistic) Name() string {
	return m.name
}

// Columns returns the feature keys in model order
func (m *Logistic) Columns() []string {
	return append([]string(nil), m.columns...)
}

// Predict scores one column vector
func (m *Logistic) Predict(columns []float64) (int, [2]float64, error) {
	if len(columns) != len(m.weights) {
		return 0, [2]float64{}, fmt.Errorf("expected %d columns, got %d", len(m.weights), len(columns))
	}

	z := m.intercept
	for i, x := range columns {
		z += m.weights[i] * x
	}
	p := 1 / (1 + math.Exp(-z))

	label := 0
	if p >= 0.5 {
		label = LabelPhishing
	}
	return label, [2]float64{1 - p, p}, nil
}
