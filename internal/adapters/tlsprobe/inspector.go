package tlsprobe

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"github.com/stoik/phishing-detection/internal/domain"
)

const (
	defaultTimeout = 5 * time.Second
	httpsPort      = "443"
)

// Inspector implements ports.TLSInspector
//
// It describes the leaf certificate a host presents; it never validates the
// chain, so expired, self-signed and mismatched certificates are all reported.
type Inspector struct {
	tables  *domain.ReferenceTables
	timeout time.Duration
	port    string
	now     func() time.Time
}

// Option configures an Inspector
type Option func(*Inspector)

// WithTimeout bounds the TCP connect and TLS handshake
func WithTimeout(t time.Duration) Option {
	return func(i *Inspector) { i.timeout = t }
}

// WithPort overrides the probed port (443); used by tests
func WithPort(port string) Option {
	return func(i *Inspector) { i.port = port }
}

// WithClock sets the time source used for expiry computation
func WithClock(now func() time.Time) Option {
	return func(i *Inspector) { i.now = now }
}

// New creates an inspector that checks issuers against the reference tables
func New(tables *domain.ReferenceTables, opts ...Option) *Inspector {
	if tables == nil {
		tables = domain.DefaultReferenceTables()
	}
	i := &Inspector{
		tables:  tables,
		timeout: defaultTimeout,
		port:    httpsPort,
		now:     time.Now,
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Inspect performs one handshake with host and summarizes its certificate
//
// Any explicit port on host is ignored. Connection or handshake failures
// yield the "no certificate" defaults.
func (i *Inspector) Inspect(ctx context.Context, host string) domain.TLSResult {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = domain.ASCIIName(host)

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: i.timeout},
		Config: &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: true,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, i.port))
	if err != nil {
		return domain.DegradedTLS(fmt.Sprintf("tls handshake failed: %v", err))
	}
	defer conn.Close()

	certs := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return domain.DegradedTLS("no peer certificate presented")
	}

	return domain.TLSResult{
		Status:      domain.ProbeOK,
		Certificate: Summarize(certs[0], host, i.now(), i.tables),
	}
}

// Summarize describes a leaf certificate as seen from host at the given instant
func Summarize(cert *x509.Certificate, host string, now time.Time, tables *domain.ReferenceTables) domain.CertificateSummary {
	issuer := cert.Issuer.String()

	return domain.CertificateSummary{
		Present:         true,
		Issuer:          issuer,
		IssuerTrusted:   issuerTrusted(issuer, tables.TrustedIssuers),
		SelfSigned:      bytes.Equal(cert.RawIssuer, cert.RawSubject),
		DaysToExpiry:    int(math.Floor(cert.NotAfter.Sub(now).Hours() / 24)),
		HostnameMatches: MatchesHostname(cert, host),
	}
}

func issuerTrusted(issuer string, trusted []string) bool {
	issuer = strings.ToLower(issuer)
	for _, name := range trusted {
		if name != "" && strings.Contains(issuer, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

// MatchesHostname compares host against the certificate's SAN entries and its
// Common Name
//
// Matching is case-insensitive; a wildcard covers exactly one leftmost label.
func MatchesHostname(cert *x509.Certificate, host string) bool {
	host = strings.ToLower(host)

	if ip := net.ParseIP(host); ip != nil {
		for _, candidate := range cert.IPAddresses {
			if candidate.Equal(ip) {
				return true
			}
		}
	}

	names := append([]string{cert.Subject.CommonName}, cert.DNSNames...)
	for _, name := range names {
		if matchName(strings.ToLower(name), host) {
			return true
		}
	}
	return false
}

func matchName(pattern, host string) bool {
	pattern = strings.TrimSuffix(pattern, ".")
	if pattern == "" {
		return false
	}
	if pattern == host {
		return true
	}

	suffix, ok := strings.CutPrefix(pattern, "*.")
	if !ok {
		return false
	}
	label, rest, found := strings.Cut(host, ".")
	return found && label != "" && rest == suffix
}
