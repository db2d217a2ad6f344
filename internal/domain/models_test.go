package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected RiskLevel
	}{
		{100, RiskCritical},
		{70, RiskCritical},
		{69, RiskHigh},
		{50, RiskHigh},
		{49, RiskMedium},
		{30, RiskMedium},
		{29, RiskLow},
		{10, RiskLow},
		{9, RiskVeryLow},
		{0, RiskVeryLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelForScore(tt.score), "score %d", tt.score)
		})
	}
}

func TestPrediction_IsHighRisk(t *testing.T) {
	tests := []struct {
		name       string
		prediction Prediction
		expected   bool
	}{
		{"Basic phishing", Prediction{IsPhishing: true}, true},
		{"Basic legitimate", Prediction{}, false},
		{"Critical assessment", Prediction{Assessment: &RiskAssessment{Level: RiskCritical}}, true},
		{"High assessment", Prediction{Assessment: &RiskAssessment{Level: RiskHigh}}, true},
		{"Medium assessment overrides label", Prediction{IsPhishing: true, Assessment: &RiskAssessment{Level: RiskMedium}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.prediction.IsHighRisk())
		})
	}
}

func TestReferenceTables_Merge(t *testing.T) {
	defaults := DefaultReferenceTables()

	merged := defaults.Merge(ReferenceTables{
		PopularDomains: []string{"example.com"},
	})

	assert.Equal(t, []string{"example.com"}, merged.PopularDomains)
	assert.Equal(t, defaults.SuspiciousTLDs, merged.SuspiciousTLDs)
	assert.Len(t, defaults.PopularDomains, 15, "defaults must not be mutated")
	assert.Len(t, defaults.SuspiciousKeywords, 11)
}
