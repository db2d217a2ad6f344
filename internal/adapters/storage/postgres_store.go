package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/stoik/phishing-detection/internal/domain"
	"github.com/stoik/phishing-detection/internal/ports"
)

// PostgresStore implements ports.Storage for PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage instance
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Assessments are small single-row writes; a modest pool is enough
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// InitSchema creates database tables if they don't exist
// In production, use proper migration tools
func (s *PostgresStore) InitSchema() error {
	schema := `
	-- ============================================================================
	-- URL_ASSESSMENTS TABLE
	-- ============================================================================
	-- One row per /predict call. Assessments are immutable once written: a URL
	-- assessed twice gets two rows, since every signal is collected live.
	--
	-- features holds the full feature vector as JSONB. It is only read back
	-- with its parent row, and keeping it flat avoids a 53-column table that
	-- must be migrated whenever a feature is added.
	--
	-- risk_score/risk_level are NULL for basic-mode predictions, which run the
	-- classifier only.
	CREATE TABLE IF NOT EXISTS url_assessments (
		id UUID PRIMARY KEY,
		url TEXT NOT NULL,
		registrable_domain VARCHAR(253) NOT NULL,
		prediction VARCHAR(12) NOT NULL CHECK (prediction IN ('Phishing', 'Legitimate')),
		is_phishing BOOLEAN NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		phishing_probability DOUBLE PRECISION NOT NULL,
		legitimate_probability DOUBLE PRECISION NOT NULL,
		advanced BOOLEAN NOT NULL DEFAULT TRUE,
		risk_score SMALLINT CHECK (risk_score BETWEEN 0 AND 100),
		risk_level VARCHAR(10),
		explanations JSONB,
		features JSONB NOT NULL,
		assessed_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Backs GetHighRiskAssessments: filters on risk_level, newest first
	CREATE INDEX IF NOT EXISTS idx_assessments_risk ON url_assessments(risk_level, assessed_at DESC);
	-- Investigation: "every assessment of this domain"
	CREATE INDEX IF NOT EXISTS idx_assessments_domain ON url_assessments(registrable_domain, assessed_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

const assessmentColumns = `
	id, url, registrable_domain, prediction, is_phishing, confidence,
	phishing_probability, legitimate_probability, advanced,
	risk_score, risk_level, explanations, features, assessed_at
`

// CreateAssessment inserts a prediction
func (s *PostgresStore) CreateAssessment(ctx context.Context, p *domain.Prediction) error {
	featuresJSON, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}

	var (
		riskScore    sql.NullInt64
		riskLevel    sql.NullString
		explanations []byte
	)
	if p.Assessment != nil {
		riskScore = sql.NullInt64{Int64: int64(p.Assessment.Score), Valid: true}
		riskLevel = sql.NullString{String: string(p.Assessment.Level), Valid: true}
		explanations, err = json.Marshal(p.Assessment.Explanations)
		if err != nil {
			return fmt.Errorf("failed to marshal explanations: %w", err)
		}
	}

	query := `INSERT INTO url_assessments (` + assessmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.URL, p.RegistrableDomain, p.Label, p.IsPhishing, p.Confidence,
		p.PhishingProbability, p.LegitimateProbability, p.Advanced,
		riskScore, riskLevel, explanations, featuresJSON, p.AssessedAt,
	)
	return err
}

// GetAssessment retrieves an assessment by ID
func (s *PostgresStore) GetAssessment(ctx context.Context, id uuid.UUID) (*domain.Prediction, error) {
	query := `SELECT ` + assessmentColumns + ` FROM url_assessments WHERE id = $1`

	p, err := scanPrediction(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetHighRiskAssessments retrieves High/Critical assessments, and basic-mode
// phishing predictions, newest first
func (s *PostgresStore) GetHighRiskAssessments(ctx context.Context, limit int) ([]domain.Prediction, error) {
	query := `SELECT ` + assessmentColumns + `
		FROM url_assessments
		WHERE risk_level IN ('High', 'Critical')
		   OR (risk_level IS NULL AND is_phishing)
		ORDER BY assessed_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := make([]domain.Prediction, 0)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, *p)
	}

	return predictions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (*domain.Prediction, error) {
	var (
		p                          domain.Prediction
		riskScore                  sql.NullInt64
		riskLevel                  sql.NullString
		explanationsJSON, features []byte
	)

	err := row.Scan(
		&p.ID, &p.URL, &p.RegistrableDomain, &p.Label, &p.IsPhishing, &p.Confidence,
		&p.PhishingProbability, &p.LegitimateProbability, &p.Advanced,
		&riskScore, &riskLevel, &explanationsJSON, &features, &p.AssessedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(features, &p.Features); err != nil {
		return nil, fmt.Errorf("failed to unmarshal features: %w", err)
	}

	if riskScore.Valid {
		p.Assessment = &domain.RiskAssessment{
			Score:        int(riskScore.Int64),
			Level:        domain.RiskLevel(riskLevel.String),
			Explanations: make([]string, 0),
		}
		if len(explanationsJSON) > 0 {
			if err := json.Unmarshal(explanationsJSON, &p.Assessment.Explanations); err != nil {
				return nil, fmt.Errorf("failed to unmarshal explanations: %w", err)
			}
		}
	}

	return &p, nil
}
