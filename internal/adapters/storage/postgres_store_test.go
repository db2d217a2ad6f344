package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoik/phishing-detection/internal/domain"
)

// fakeRow copies its values into the scan destinations, column by column
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, v := range r.values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

func assessmentRow(t *testing.T, id uuid.UUID, explanations []byte) fakeRow {
	t.Helper()
	features, err := json.Marshal(domain.DefaultFeatureVector())
	require.NoError(t, err)

	return fakeRow{values: []any{
		id, "https://secure-login-paypal.tk", "secure-login-paypal.tk", "Phishing", true, 85.0,
		70.0, 30.0, true,
		sql.NullInt64{Int64: 90, Valid: true}, sql.NullString{String: "Critical", Valid: true},
		explanations, features, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
}

func TestScanPrediction(t *testing.T) {
	id := uuid.New()

	p, err := scanPrediction(assessmentRow(t, id, []byte(`["⚠️ Domain uses a free TLD commonly abused for phishing"]`)))
	require.NoError(t, err)

	assert.Equal(t, id, p.ID)
	assert.Equal(t, "secure-login-paypal.tk", p.RegistrableDomain)
	assert.Equal(t, -1, p.Features.DomainAgeDays)
	require.NotNil(t, p.Assessment)
	assert.Equal(t, 90, p.Assessment.Score)
	assert.Equal(t, domain.RiskCritical, p.Assessment.Level)
	assert.Equal(t, []string{"⚠️ Domain uses a free TLD commonly abused for phishing"}, p.Assessment.Explanations)
}

func TestScanPrediction_EmptyExplanations(t *testing.T) {
	p, err := scanPrediction(assessmentRow(t, uuid.New(), nil))
	require.NoError(t, err)

	require.NotNil(t, p.Assessment)
	assert.Empty(t, p.Assessment.Explanations)
	assert.NotNil(t, p.Assessment.Explanations)
}

func TestScanPrediction_CorruptExplanations(t *testing.T) {
	_, err := scanPrediction(assessmentRow(t, uuid.New(), []byte(`{"not": "a list"}`)))
	assert.ErrorContains(t, err, "failed to unmarshal explanations")
}

func TestScanPrediction_BasicModeHasNoAssessment(t *testing.T) {
	row := assessmentRow(t, uuid.New(), nil)
	row.values[9] = sql.NullInt64{}
	row.values[10] = sql.NullString{}

	p, err := scanPrediction(row)
	require.NoError(t, err)
	assert.Nil(t, p.Assessment)
}

func TestScanPrediction_ScanError(t *testing.T) {
	_, err := scanPrediction(fakeRow{err: sql.ErrNoRows})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
