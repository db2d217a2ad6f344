package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/stoik/phishing-detection/internal/domain"
)

// Storage defines the contract for persisting and querying URL assessments
type Storage interface {
	// CreateAssessment stores a prediction; the ID must already be set
	CreateAssessment(ctx context.Context, prediction *domain.Prediction) error

	// GetAssessment returns ErrNotFound when no assessment has the ID
	GetAssessment(ctx context.Context, id uuid.UUID) (*domain.Prediction, error)

	// GetHighRiskAssessments returns the most recent High/Critical assessments first
	GetHighRiskAssessments(ctx context.Context, limit int) ([]domain.Prediction, error)

	// Lifecycle
	Close() error
}
