package application

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/stoik/phishing-detection/internal/domain"
	"github.com/stoik/phishing-detection/internal/domain/detection"
	"github.com/stoik/phishing-detection/internal/ports"
)

// Mode selects which signal groups an extraction collects
type Mode int

const (
	// ModeAdvanced collects every group
	ModeAdvanced Mode = iota
	// ModeBasic collects the lexical, WHOIS and DNS groups only
	ModeBasic
)

func (m Mode) String() string {
	if m == ModeBasic {
		return "basic"
	}
	return "advanced"
}

const literalIPReason = "literal IP host"

// Collectors groups the external signal sources used by the extractor
//
// A nil collector is skipped and its group keeps the vector defaults.
type Collectors struct {
	DNS        ports.DNSResolver
	Whois      ports.WhoisLookup
	TLS        ports.TLSInspector
	Content    ports.ContentAnalyzer
	Reputation ports.ReputationProvider
}

// Timeouts bounds each collector independently
type Timeouts struct {
	DNS        time.Duration
	Whois      time.Duration
	TLS        time.Duration
	Content    time.Duration
	Reputation time.Duration
	Local      time.Duration // lexical and typosquatting
}

// DefaultTimeouts returns the per-collector deadlines used when none are configured
func DefaultTimeouts() Timeouts {
	return Timeouts{
		DNS:        3 * time.Second,
		Whois:      5 * time.Second,
		TLS:        5 * time.Second,
		Content:    10 * time.Second,
		Reputation: 2 * time.Second,
		Local:      time.Second,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	pick := func(v *time.Duration, def time.Duration) {
		if *v <= 0 {
			*v = def
		}
	}
	pick(&t.DNS, d.DNS)
	pick(&t.Whois, d.Whois)
	pick(&t.TLS, d.TLS)
	pick(&t.Content, d.Content)
	pick(&t.Reputation, d.Reputation)
	pick(&t.Local, d.Local)
	return t
}

// Extraction is the outcome of one extraction: the normalized URL, the raw
// per-group results and the aggregated vector
type Extraction struct {
	URL      domain.ParsedURL
	Mode     Mode
	Signals  domain.SignalSet
	Features domain.FeatureVector
}

// FeatureExtractor runs the signal collectors for a URL and aggregates their results
//
// Collectors are dispatched concurrently, each under its own deadline. The only
// error Extract returns is domain.ErrInvalidURL; every other failure becomes a
// degraded group.
type FeatureExtractor struct {
	collectors Collectors
	tables     *domain.ReferenceTables
	timeouts   Timeouts
}

// NewFeatureExtractor creates an extractor over the given collectors and tables
func NewFeatureExtractor(collectors Collectors, tables *domain.ReferenceTables, timeouts Timeouts) *FeatureExtractor {
	if tables == nil {
		tables = domain.DefaultReferenceTables()
	}
	if collectors.Reputation == nil {
		collectors.Reputation = detection.NewHeuristicReputation(tables)
	}
	return &FeatureExtractor{
		collectors: collectors,
		tables:     tables,
		timeouts:   timeouts.withDefaults(),
	}
}

// ExtractAllFeatures returns the complete feature vector for rawURL
func (e *FeatureExtractor) ExtractAllFeatures(ctx context.Context, rawURL string) (domain.FeatureVector, error) {
	extraction, err := e.Extract(ctx, rawURL, ModeAdvanced)
	if err != nil {
		return domain.FeatureVector{}, err
	}
	return extraction.Features, nil
}

// ExtractBasicFeatures returns a vector where only the lexical, WHOIS and DNS
// groups were collected
func (e *FeatureExtractor) ExtractBasicFeatures(ctx context.Context, rawURL string) (domain.FeatureVector, error) {
	extraction, err := e.Extract(ctx, rawURL, ModeBasic)
	if err != nil {
		return domain.FeatureVector{}, err
	}
	return extraction.Features, nil
}

// Extract parses rawURL, fans out to the collectors for mode and joins their results
func (e *FeatureExtractor) Extract(ctx context.Context, rawURL string, mode Mode) (*Extraction, error) {
	parsed, err := domain.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	// Network collectors see the punycode names, lexical and brand checks the Unicode ones
	target := parsed.ASCIIRegistrable
	t := e.timeouts

	// Fan out
	lexicalCh := collect(ctx, t.Local, func(context.Context) domain.LexicalFeatures {
		return detection.ExtractLexical(parsed, e.tables)
	}, func(string) domain.LexicalFeatures { return domain.LexicalFeatures{} })

	var (
		dnsCh     <-chan domain.DNSResult
		whoisCh   <-chan domain.WhoisResult
		tlsCh     <-chan domain.TLSResult
		contentCh <-chan domain.ContentResult
		typoCh    <-chan domain.TyposquatResult
	)

	if parsed.IsLiteralIP {
		// Neither DNS nor WHOIS has anything to say about a bare address
		dnsCh = ready(degradedDNS(literalIPReason))
		whoisCh = ready(domain.DegradedWhois(literalIPReason))
	} else {
		if e.collectors.DNS != nil {
			dnsCh = collect(ctx, t.DNS, func(ctx context.Context) domain.DNSResult {
				return e.collectors.DNS.Resolve(ctx, target)
			}, degradedDNS)
		}
		if e.collectors.Whois != nil {
			whoisCh = collect(ctx, t.Whois, func(ctx context.Context) domain.WhoisResult {
				return e.collectors.Whois.Lookup(ctx, target)
			}, domain.DegradedWhois)
		}
	}

	if mode == ModeAdvanced {
		if e.collectors.TLS != nil {
			tlsCh = collect(ctx, t.TLS, func(ctx context.Context) domain.TLSResult {
				return e.collectors.TLS.Inspect(ctx, parsed.ASCIIHost)
			}, domain.DegradedTLS)
		}
		if e.collectors.Content != nil {
			contentCh = collect(ctx, t.Content, func(ctx context.Context) domain.ContentResult {
				return e.collectors.Content.Analyze(ctx, parsed)
			}, degradedContent)
		}
		typoCh = collect(ctx, t.Local, func(context.Context) domain.TyposquatResult {
			return detection.DetectTyposquatting(target, e.tables)
		}, func(string) domain.TyposquatResult {
			return domain.TyposquatResult{MinEditDistance: domain.NoBrandMatchDistance}
		})
	}

	// Fan in
	var signals domain.SignalSet
	lexical := <-lexicalCh
	signals.Lexical = &lexical

	if dnsCh != nil {
		r := <-dnsCh
		logDegraded("dns", target, r.Status, r.Reason)
		signals.DNS = &r
	}
	if whoisCh != nil {
		r := <-whoisCh
		logDegraded("whois", target, r.Status, r.Reason)
		signals.Whois = &r
	}
	if tlsCh != nil {
		r := <-tlsCh
		logDegraded("tls", parsed.ASCIIHost, r.Status, r.Reason)
		signals.TLS = &r
	}
	if contentCh != nil {
		r := <-contentCh
		logDegraded("content", parsed.Host, r.Status, r.Reason)
		signals.Content = &r
	}
	if typoCh != nil {
		r := <-typoCh
		signals.Typosquat = &r
	}

	// The IP group needs the resolved address, so reputation runs after the join
	if mode == ModeAdvanced {
		e.collectReputation(ctx, parsed, &signals)
	}

	extraction := &Extraction{
		URL:      parsed,
		Mode:     mode,
		Signals:  signals,
		Features: domain.Aggregate(signals),
	}

	log.WithFields(log.Fields{
		"domain":   target,
		"mode":     mode.String(),
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Debug("Feature extraction complete")

	return extraction, nil
}

func (e *FeatureExtractor) collectReputation(ctx context.Context, parsed domain.ParsedURL, signals *domain.SignalSet) {
	provider := e.collectors.Reputation

	ip := ""
	switch {
	case parsed.IsLiteralIP:
		ip = parsed.Host
	case signals.DNS != nil && len(signals.DNS.Addresses) > 0:
		ip = signals.DNS.Addresses[0]
	}

	ipCh := collect(ctx, e.timeouts.Reputation, func(ctx context.Context) domain.IPReputation {
		return provider.IPReputation(ctx, ip)
	}, func(reason string) domain.IPReputation {
		logDegraded("ip_reputation", parsed.RegistrableDomain, domain.ProbeDegraded, reason)
		return domain.IPReputation{IPAddress: ip}
	})
	blacklistCh := collect(ctx, e.timeouts.Reputation, func(ctx context.Context) domain.BlacklistResult {
		return provider.Blacklist(ctx, parsed)
	}, func(reason string) domain.BlacklistResult {
		logDegraded("blacklist", parsed.RegistrableDomain, domain.ProbeDegraded, reason)
		return domain.BlacklistResult{}
	})

	ipRep := <-ipCh
	blacklist := <-blacklistCh
	signals.IP = &ipRep
	signals.Blacklist = &blacklist
}

// collect runs fn in its own goroutine under a deadline and delivers exactly
// one value on the returned channel
//
// When fn overruns its deadline or panics, fallback supplies the degraded
// result. A late value from fn lands in a buffered channel nobody reads, so the
// straggling goroutine can still exit.
func collect[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) T, fallback func(reason string) T) <-chan T {
	out := make(chan T, 1)

	go func() {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		result := make(chan T, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					result <- fallback(fmt.Sprintf("collector panic: %v", r))
				}
			}()
			result <- fn(ctx)
		}()

		select {
		case r := <-result:
			out <- r
		case <-ctx.Done():
			out <- fallback(fmt.Sprintf("deadline exceeded after %s", timeout))
		}
	}()

	return out
}

func ready[T any](v T) <-chan T {
	ch := make(chan T, 1)
	ch <- v
	return ch
}

func degradedDNS(reason string) domain.DNSResult {
	return domain.DNSResult{Status: domain.ProbeDegraded, Reason: reason}
}

func degradedContent(reason string) domain.ContentResult {
	return domain.ContentResult{Status: domain.ProbeDegraded, Reason: reason}
}

func logDegraded(collector, target string, status domain.ProbeStatus, reason string) {
	if status != domain.ProbeDegraded {
		return
	}
	log.WithFields(log.Fields{
		"collector": collector,
		"domain":    target,
		"reason":    reason,
	}).Warn("Collector degraded to defaults")
}
