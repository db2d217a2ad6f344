package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stoik/phishing-detection/internal/adapters"
	"github.com/stoik/phishing-detection/internal/adapters/classifier"
	"github.com/stoik/phishing-detection/internal/adapters/storage"
	"github.com/stoik/phishing-detection/internal/application"
	"github.com/stoik/phishing-detection/internal/config"
	"github.com/stoik/phishing-detection/internal/domain"
	"github.com/stoik/phishing-detection/internal/domain/detection"
)

type scanOptions struct {
	basic   bool
	json    bool
	timeout time.Duration
}

// predictor is the part of the assessment service the CLI needs
type predictor interface {
	Predict(ctx context.Context, req application.PredictRequest) (*domain.Prediction, error)
}

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command; a nil service is built from the environment
func newRootCmd(service predictor) *cobra.Command {
	opts := scanOptions{}

	cmd := &cobra.Command{
		Use:   "urlscan [url...]",
		Short: "Assess URLs for phishing risk",
		Long: `urlscan collects lexical, DNS, WHOIS, TLS, page content and reputation
signals for each URL, scores them and prints the verdict.

URLs are read from the arguments, or one per line from stdin when none are given.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			targets := args
			if len(targets) == 0 {
				var err error
				if targets, err = readTargets(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if len(targets) == 0 {
				return cmd.Help()
			}

			if service == nil {
				svc, err := buildService()
				if err != nil {
					return err
				}
				service = svc
			}

			return scan(ctx, service, targets, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.basic, "basic", false, "Only collect lexical, WHOIS and DNS signals")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print one JSON document per URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Upper bound for assessing a single URL")

	return cmd
}

func buildService() (*application.AssessmentService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// Logs go to stderr so stdout stays parseable
	log.SetOutput(os.Stderr)
	if err := cfg.ConfigureLogging(); err != nil {
		return nil, err
	}

	tables, err := config.LoadReferenceTables(cfg.ReferenceTablesPath)
	if err != nil {
		return nil, err
	}
	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		return nil, err
	}

	extractor := application.NewFeatureExtractor(adapters.NewCollectors(cfg, tables), tables, adapters.Timeouts(cfg))
	return application.NewAssessmentService(extractor, model, detection.NewRiskScorer(), storage.NewMemoryStore()), nil
}

func scan(ctx context.Context, service predictor, targets []string, opts scanOptions, out io.Writer) error {
	advanced := !opts.basic
	failed := 0

	for _, target := range targets {
		if ctx.Err() != nil {
			break
		}

		urlCtx, cancel := context.WithTimeout(ctx, opts.timeout)
		prediction, err := service.Predict(urlCtx, application.PredictRequest{URL: target, Advanced: &advanced})
		cancel()

		if err != nil {
			failed++
			log.Errorf("Failed to assess %s: %v", target, err)
			continue
		}

		if opts.json {
			if err := json.NewEncoder(out).Encode(prediction); err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			continue
		}
		writeReport(out, prediction)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URL(s) could not be assessed", failed, len(targets))
	}
	return nil
}

func readTargets(r io.Reader) ([]string, error) {
	if f, ok := r.(*os.File); ok {
		// Interactive terminal: nothing is piped in
		if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return nil, nil
		}
	}

	var targets []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read targets: %w", err)
	}
	return targets, nil
}
