package main

import (
	"fmt"
	"io"

	"github.com/stoik/phishing-detection/internal/domain"
)

// writeReport prints a human-readable verdict for one prediction
func writeReport(w io.Writer, p *domain.Prediction) {
	marker := "✓"
	if p.IsHighRisk() {
		marker = "🚨"
	}

	fmt.Fprintf(w, "%s %s\n", marker, p.URL)
	fmt.Fprintf(w, "  Domain:     %s\n", p.RegistrableDomain)
	fmt.Fprintf(w, "  Prediction: %s (%.2f%% confidence)\n", p.Label, p.Confidence)

	if p.Assessment == nil {
		fmt.Fprintln(w, "  Risk:       not scored (basic mode)")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "  Risk:       %d/100 (%s)\n", p.Assessment.Score, p.Assessment.Level)
	if len(p.Assessment.Explanations) > 0 {
		fmt.Fprintln(w, "  Findings:")
		for _, explanation := range p.Assessment.Explanations {
			fmt.Fprintf(w, "    %s\n", explanation)
		}
	}
	fmt.Fprintln(w)
}
