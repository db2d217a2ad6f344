package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/stoik/phishing-detection/internal/application"
	"github.com/stoik/phishing-detection/internal/domain"
	"github.com/stoik/phishing-detection/internal/ports"
)

const (
	maxBodyBytes     = 64 << 10
	defaultListLimit = 10
	maxListLimit     = 100
)

// AssessmentService is the use case the HTTP boundary drives
type AssessmentService interface {
	Predict(ctx context.Context, req application.PredictRequest) (*domain.Prediction, error)
	GetAssessment(ctx context.Context, id uuid.UUID) (*domain.Prediction, error)
	GetHighRiskSummary(ctx context.Context, limit int) ([]domain.Prediction, error)
	ModelLoaded() bool
}

// Options configures the boundary concerns of the server
type Options struct {
	RateLimitRPS   float64 // 0 disables rate limiting on /predict
	RateLimitBurst int
	AllowedOrigins []string
}

// Server exposes the assessment service over HTTP
type Server struct {
	service        AssessmentService
	limiter        *rate.Limiter
	allowedOrigins []string
}

// New creates a server for service
func New(service AssessmentService, opts Options) *Server {
	s := &Server{service: service, allowedOrigins: opts.AllowedOrigins}
	if opts.RateLimitRPS > 0 {
		burst := max(opts.RateLimitBurst, 1)
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}
	return s
}

// Routes returns the chi router serving the API
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.With(s.rateLimit).Post("/predict", s.handlePredict)

	r.Route("/assessments", func(r chi.Router) {
		r.Get("/high-risk", s.handleHighRisk)
		r.Get("/{id}", s.handleGetAssessment)
	})

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Phishing Detection API",
		"status":       "running",
		"model_loaded": s.service.ModelLoaded(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"model_loaded": s.service.ModelLoaded(),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req application.PredictRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	prediction, err := s.service.Predict(r.Context(), req)
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		log.WithField("url", req.URL).Infof("Rejected URL: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.WithField("url", req.URL).Errorf("Prediction failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, prediction)
}

func (s *Server) handleHighRisk(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}

	predictions, err := s.service.GetHighRiskSummary(r.Context(), limit)
	if err != nil {
		log.Errorf("Failed to fetch high-risk assessments: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch assessments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(predictions),
		"assessments": predictions,
	})
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	prediction, err := s.service.GetAssessment(r.Context(), id)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	case err != nil:
		log.WithField("id", id).Errorf("Failed to fetch assessment: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch assessment")
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
