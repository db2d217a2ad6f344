package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/stoik/phishing-detection/internal/domain"
	"github.com/stoik/phishing-detection/internal/ports"
)

// MemoryStore implements ports.Storage in process memory
//
// Used when no DATABASE_URL is configured and by the CLI. Contents are lost on
// restart.
type MemoryStore struct {
	mu          sync.RWMutex
	assessments map[uuid.UUID]domain.Prediction
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{assessments: make(map[uuid.UUID]domain.Prediction)}
}

// CreateAssessment stores a copy of the prediction
func (s *MemoryStore) CreateAssessment(_ context.Context, p *domain.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assessments[p.ID] = clonePrediction(*p)
	return nil
}

// GetAssessment retrieves an assessment by ID
func (s *MemoryStore) GetAssessment(_ context.Context, id uuid.UUID) (*domain.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.assessments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	p = clonePrediction(p)
	return &p, nil
}

// GetHighRiskAssessments returns high-risk predictions, newest first
func (s *MemoryStore) GetHighRiskAssessments(_ context.Context, limit int) ([]domain.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	predictions := make([]domain.Prediction, 0)
	for _, p := range s.assessments {
		if p.IsHighRisk() {
			predictions = append(predictions, clonePrediction(p))
		}
	}

	sort.Slice(predictions, func(i, j int) bool {
		return predictions[i].AssessedAt.After(predictions[j].AssessedAt)
	})
	if limit >= 0 && len(predictions) > limit {
		predictions = predictions[:limit]
	}
	return predictions, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func clonePrediction(p domain.Prediction) domain.Prediction {
	if p.Assessment != nil {
		a := *p.Assessment
		a.Explanations = append([]string(nil), a.Explanations...)
		p.Assessment = &a
	}
	return p
}
