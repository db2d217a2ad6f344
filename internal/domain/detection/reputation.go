package detection

import (
	"context"
	"strings"

	"github.com/stoik/phishing-detection/internal/domain"
)

// HeuristicReputation is the built-in reputation provider
//
// It does not query any threat feed or ASN database: the IP group uses static
// prefix lists and the blacklist group only flags free TLDs. It satisfies
// ports.ReputationProvider so a real provider can replace it.
type HeuristicReputation struct {
	tables *domain.ReferenceTables
}

// NewHeuristicReputation creates a provider over the given reference tables
func NewHeuristicReputation(tables *domain.ReferenceTables) *HeuristicReputation {
	if tables == nil {
		tables = domain.DefaultReferenceTables()
	}
	return &HeuristicReputation{tables: tables}
}

// Name returns the provider name
func (r *HeuristicReputation) Name() string {
	return "Heuristic Reputation"
}

// IPReputation classifies an IPv4 address by its leading octets
func (r *HeuristicReputation) IPReputation(_ context.Context, ip string) domain.IPReputation {
	rep := domain.IPReputation{IPAddress: ip}
	if ip == "" {
		return rep
	}

	firstOctet, _, _ := strings.Cut(ip, ".")
	for _, octet := range r.tables.PrivateIPFirstOctets {
		if firstOctet == octet {
			rep.IsPrivateIP = true
			break
		}
	}
	rep.HostingProviderSuspicious = hasPrefixAny(ip, r.tables.SuspiciousIPPrefixes)
	return rep
}

// Blacklist scores a URL against the free-TLD list
func (r *HeuristicReputation) Blacklist(_ context.Context, parsed domain.ParsedURL) domain.BlacklistResult {
	var result domain.BlacklistResult

	tld := parsed.TLD()
	for _, suspicious := range r.tables.SuspiciousTLDs {
		if strings.EqualFold(tld, suspicious) {
			result.Score++
			break
		}
	}
	return result
}
