package application

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/stoik/phishing-detection/internal/domain"
	"github.com/stoik/phishing-detection/internal/domain/detection"
	"github.com/stoik/phishing-detection/internal/ports"
)

const (
	labelPhishing   = "Phishing"
	labelLegitimate = "Legitimate"
)

// PredictRequest is the input of a single URL assessment
type PredictRequest struct {
	URL      string `json:"url"`
	Advanced *bool  `json:"advanced,omitempty"` // defaults to true
}

// Mode returns the extraction mode requested
func (r PredictRequest) Mode() Mode {
	if r.Advanced != nil && !*r.Advanced {
		return ModeBasic
	}
	return ModeAdvanced
}

// AssessmentService orchestrates feature extraction, classification and risk scoring
type AssessmentService struct {
	extractor  *FeatureExtractor
	classifier ports.Classifier
	scorer     *detection.RiskScorer
	storage    ports.Storage
	now        func() time.Time
}

// NewAssessmentService creates a new assessment service with dependency injection
func NewAssessmentService(
	extractor *FeatureExtractor,
	classifier ports.Classifier,
	scorer *detection.RiskScorer,
	storage ports.Storage,
) *AssessmentService {
	if scorer == nil {
		scorer = detection.NewRiskScorer()
	}
	return &AssessmentService{
		extractor:  extractor,
		classifier: classifier,
		scorer:     scorer,
		storage:    storage,
		now:        time.Now,
	}
}

// ModelLoaded reports whether a classifier is wired in
func (s *AssessmentService) ModelLoaded() bool {
	return s.classifier != nil
}

// Predict assesses one URL
//
// Error handling strategy:
//   - A missing or unparseable URL returns an error wrapping domain.ErrInvalidURL
//   - Collector failures never surface here, they degrade their feature group
//   - Classifier failures are returned to the caller
//   - Storage failures are logged: the caller still gets its answer
func (s *AssessmentService) Predict(ctx context.Context, req PredictRequest) (*domain.Prediction, error) {
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return nil, fmt.Errorf("%w: URL is required", domain.ErrInvalidURL)
	}
	if s.classifier == nil {
		return nil, fmt.Errorf("failed to classify: no model loaded")
	}

	mode := req.Mode()
	extraction, err := s.extractor.Extract(ctx, domain.EnsureScheme(raw), mode)
	if err != nil {
		return nil, err
	}

	columns, err := extraction.Features.Columns(s.classifier.Columns())
	if err != nil {
		return nil, fmt.Errorf("failed to build model input: %w", err)
	}
	label, probabilities, err := s.classifier.Predict(columns)
	if err != nil {
		return nil, fmt.Errorf("failed to classify: %w", err)
	}

	prediction := &domain.Prediction{
		ID:                    uuid.New(),
		URL:                   extraction.URL.Raw,
		RegistrableDomain:     extraction.URL.RegistrableDomain,
		Label:                 labelLegitimate,
		IsPhishing:            label == ports.LabelPhishing,
		PhishingProbability:   percent(probabilities[1]),
		LegitimateProbability: percent(probabilities[0]),
		Advanced:              mode == ModeAdvanced,
		Features:              extraction.Features,
		AssessedAt:            s.now().UTC(),
	}
	if prediction.IsPhishing {
		prediction.Label = labelPhishing
	}

	if mode == ModeAdvanced {
		assessment := s.scorer.Assess(extraction.Features)
		prediction.Assessment = &assessment
		prediction.Confidence = percent(detection.BlendConfidence(probabilities, assessment.Score))
	} else {
		prediction.Confidence = percent(max(probabilities[0], probabilities[1]))
	}

	if s.storage != nil {
		if err := s.storage.CreateAssessment(ctx, prediction); err != nil {
			log.WithField("id", prediction.ID).Errorf("Failed to store assessment for %s: %v", prediction.URL, err)
		}
	}

	// In production this would also notify the security team (webhook, chat alert)
	if prediction.IsHighRisk() {
		logHighRisk(prediction)
	}

	return prediction, nil
}

// GetAssessment retrieves a stored assessment
func (s *AssessmentService) GetAssessment(ctx context.Context, id uuid.UUID) (*domain.Prediction, error) {
	return s.storage.GetAssessment(ctx, id)
}

// GetHighRiskSummary retrieves the most recent high-risk assessments
func (s *AssessmentService) GetHighRiskSummary(ctx context.Context, limit int) ([]domain.Prediction, error) {
	return s.storage.GetHighRiskAssessments(ctx, limit)
}

func logHighRisk(p *domain.Prediction) {
	log.Warn("🚨 HIGH RISK URL DETECTED:")
	log.Warnf("  URL: %s", p.URL)
	log.Warnf("  Domain: %s", p.RegistrableDomain)
	log.Warnf("  Prediction: %s (%.2f%% confidence)", p.Label, p.Confidence)
	if p.Assessment != nil {
		log.Warnf("  Risk Score: %d (%s)", p.Assessment.Score, p.Assessment.Level)
		log.Warnf("  Findings: %d", len(p.Assessment.Explanations))
		for _, explanation := range p.Assessment.Explanations {
			log.Warnf("    - %s", explanation)
		}
	}
}

// percent converts a probability to a percentage rounded to two decimals
func percent(p float64) float64 {
	return math.Round(p*10000) / 100
}
