package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoik/phishing-detection/internal/domain"
	"github.com/stoik/phishing-detection/internal/ports"
)

func newPrediction(level domain.RiskLevel, at time.Time) *domain.Prediction {
	return &domain.Prediction{
		ID:         uuid.New(),
		URL:        "https://example.com",
		Label:      "Legitimate",
		Advanced:   true,
		Assessment: &domain.RiskAssessment{Level: level, Explanations: []string{"x"}},
		Features:   domain.DefaultFeatureVector(),
		AssessedAt: at,
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := newPrediction(domain.RiskLow, time.Now())
	require.NoError(t, store.CreateAssessment(ctx, p))

	got, err := store.GetAssessment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.URL, got.URL)
	assert.Equal(t, domain.RiskLow, got.Assessment.Level)

	// Stored copies are isolated from caller mutation
	p.Assessment.Explanations[0] = "mutated"
	got, err = store.GetAssessment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got.Assessment.Explanations)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	_, err := NewMemoryStore().GetAssessment(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestMemoryStore_GetHighRiskAssessments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	oldCritical := newPrediction(domain.RiskCritical, now.Add(-2*time.Hour))
	newHigh := newPrediction(domain.RiskHigh, now.Add(-time.Hour))
	medium := newPrediction(domain.RiskMedium, now)
	basicPhishing := &domain.Prediction{ID: uuid.New(), IsPhishing: true, AssessedAt: now}

	for _, p := range []*domain.Prediction{oldCritical, newHigh, medium, basicPhishing} {
		require.NoError(t, store.CreateAssessment(ctx, p))
	}

	results, err := store.GetHighRiskAssessments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, basicPhishing.ID, results[0].ID)
	assert.Equal(t, newHigh.ID, results[1].ID)
	assert.Equal(t, oldCritical.ID, results[2].ID)

	limited, err := store.GetHighRiskAssessments(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
