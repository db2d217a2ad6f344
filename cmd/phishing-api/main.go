package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/stoik/phishing-detection/internal/adapters"
	"github.com/stoik/phishing-detection/internal/adapters/classifier"
	"github.com/stoik/phishing-detection/internal/adapters/httpapi"
	"github.com/stoik/phishing-detection/internal/adapters/storage"
	"github.com/stoik/phishing-detection/internal/application"
	"github.com/stoik/phishing-detection/internal/config"
	"github.com/stoik/phishing-detection/internal/domain/detection"
	"github.com/stoik/phishing-detection/internal/ports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ConfigureLogging(); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	log.Println("Starting Phishing Detection API...")

	// Reference tables are loaded once and shared read-only by every request
	tables, err := config.LoadReferenceTables(cfg.ReferenceTablesPath)
	if err != nil {
		log.Fatalf("Failed to load reference tables: %v", err)
	}

	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	log.Printf("Loaded model %s (%d columns)", model.Name(), len(model.Columns()))

	// Initialize storage adapter (driven port implementation)
	store, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Hexagonal wiring: main builds the adapters and injects them into the
	// application layer
	extractor := application.NewFeatureExtractor(adapters.NewCollectors(cfg, tables), tables, adapters.Timeouts(cfg))
	service := application.NewAssessmentService(extractor, model, detection.NewRiskScorer(), store)

	api := httpapi.New(service, httpapi.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// Long enough for the slowest collector plus classification
		WriteTimeout: cfg.HTTPTimeout + 20*time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()
	log.Printf("Listening on %s", cfg.ListenAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Shutting down on %s", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Errorf("Graceful shutdown failed: %v", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Server error: %v", err)
		}
	}

	log.Println("Phishing Detection API stopped")
}

func openStorage(cfg config.Config) (ports.Storage, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set: assessments are kept in memory only")
		return storage.NewMemoryStore(), nil
	}

	store, err := storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to PostgreSQL")

	// In production, use proper migration tools
	if err := store.InitSchema(); err != nil {
		store.Close()
		return nil, err
	}
	log.Println("Database schema initialized")

	return store, nil
}
