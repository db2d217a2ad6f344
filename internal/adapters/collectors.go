// Package adapters wires the concrete signal collectors from configuration.
package adapters

import (
	"time"

	"github.com/stoik/phishing-detection/internal/adapters/dnsresolver"
	"github.com/stoik/phishing-detection/internal/adapters/tlsprobe"
	"github.com/stoik/phishing-detection/internal/adapters/webcontent"
	"github.com/stoik/phishing-detection/internal/adapters/whois"
	"github.com/stoik/phishing-detection/internal/application"
	"github.com/stoik/phishing-detection/internal/config"
	"github.com/stoik/phishing-detection/internal/domain"
	"github.com/stoik/phishing-detection/internal/domain/detection"
)

// deadlineGrace lets a collector report its own timeout before the extractor
// gives up on it
const deadlineGrace = 500 * time.Millisecond

// NewCollectors builds the network collectors and the heuristic reputation provider
func NewCollectors(cfg config.Config, tables *domain.ReferenceTables) application.Collectors {
	return application.Collectors{
		// A and MX are queried one after the other inside the DNS budget
		DNS: dnsresolver.New(
			dnsresolver.WithServer(cfg.DNSServer),
			dnsresolver.WithTimeout(cfg.DNSTimeout/2),
		),
		Whois:      whois.New(tables, whois.WithTimeout(cfg.WhoisTimeout)),
		TLS:        tlsprobe.New(tables, tlsprobe.WithTimeout(cfg.TLSTimeout)),
		Content:    webcontent.New(tables, webcontent.WithTimeout(cfg.HTTPTimeout)),
		Reputation: detection.NewHeuristicReputation(tables),
	}
}

// Timeouts returns the extractor deadlines matching the collector timeouts
func Timeouts(cfg config.Config) application.Timeouts {
	return application.Timeouts{
		DNS:     cfg.DNSTimeout + deadlineGrace,
		Whois:   cfg.WhoisTimeout + deadlineGrace,
		TLS:     cfg.TLSTimeout + deadlineGrace,
		Content: cfg.HTTPTimeout + deadlineGrace,
	}
}
