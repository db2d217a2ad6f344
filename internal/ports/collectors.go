package ports

import (
	"context"

	"github.com/stoik/phishing-detection/internal/domain"
)

// The collectors below query failure-prone external systems. None of them
// returns an error: a failed lookup is reported as a degraded result carrying
// the group defaults, and implementations must honor ctx cancellation.

// DNSResolver looks up A and MX records for a registrable domain
type DNSResolver interface {
	Resolve(ctx context.Context, domainName string) domain.DNSResult
}

// WhoisLookup fetches registration data for a registrable domain
type WhoisLookup interface {
	Lookup(ctx context.Context, domainName string) domain.WhoisResult
}

// TLSInspector describes the certificate a host presents on port 443
type TLSInspector interface {
	Inspect(ctx context.Context, host string) domain.TLSResult
}

// ContentAnalyzer fetches the page and records its DOM and redirect signals
type ContentAnalyzer interface {
	Analyze(ctx context.Context, parsed domain.ParsedURL) domain.ContentResult
}

// ReputationProvider supplies the IP/ASN and blacklist groups
//
// The built-in implementation is heuristic; threat-feed backed providers plug in here.
type ReputationProvider interface {
	Name() string
	IPReputation(ctx context.Context, ip string) domain.IPReputation
	Blacklist(ctx context.Context, parsed domain.ParsedURL) domain.BlacklistResult
}
