package dnsresolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/stoik/phishing-detection/internal/domain"
)

const (
	defaultTimeout = 3 * time.Second
	fallbackServer = "8.8.8.8:53"
	resolvConfPath = "/etc/resolv.conf"
)

// Resolver implements ports.DNSResolver with direct queries to one nameserver
type Resolver struct {
	server  string
	timeout time.Duration
	client  *dns.Client
}

// Option configures a Resolver
type Option func(*Resolver)

// WithServer sets the nameserver address (host:port, port defaults to 53)
func WithServer(server string) Option {
	return func(r *Resolver) {
		if server == "" {
			return
		}
		if _, _, err := net.SplitHostPort(server); err != nil {
			server = net.JoinHostPort(server, "53")
		}
		r.server = server
	}
}

// WithTimeout bounds each individual query
func WithTimeout(t time.Duration) Option {
	return func(r *Resolver) { r.timeout = t }
}

// New creates a resolver using the system nameserver unless WithServer is given
func New(opts ...Option) *Resolver {
	r := &Resolver{
		server:  systemServer(),
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(r)
	}
	r.client = &dns.Client{Net: "udp", Timeout: r.timeout}
	return r
}

// Server returns the nameserver queried
func (r *Resolver) Server() string {
	return r.server
}

// Resolve looks up A and MX records for a registrable domain
//
// Any failure (NXDOMAIN, SERVFAIL, timeout) means the record type is absent.
// The result is degraded only when the A lookup itself could not complete.
// Internationalized names are queried in their punycode form.
func (r *Resolver) Resolve(ctx context.Context, domainName string) domain.DNSResult {
	result := domain.DNSResult{Status: domain.ProbeOK}
	domainName = domain.ASCIIName(domainName)

	answers, err := r.query(ctx, domainName, dns.TypeA)
	if err != nil {
		result.Status = domain.ProbeDegraded
		result.Reason = err.Error()
	}
	for _, ans := range answers {
		if a, ok := ans.(*dns.A); ok {
			result.Addresses = append(result.Addresses, a.A.String())
		}
	}
	result.ARecordCount = len(result.Addresses)
	result.HasA = result.ARecordCount > 0

	// MX is independent of A: a parked domain may accept mail only
	answers, err = r.query(ctx, domainName, dns.TypeMX)
	if err == nil {
		for _, ans := range answers {
			if _, ok := ans.(*dns.MX); ok {
				result.HasMX = true
				break
			}
		}
	}

	return result
}

func (r *Resolver) query(ctx context.Context, domainName string, qtype uint16) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domainName), qtype)
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, fmt.Errorf("%s lookup failed: %w", dns.TypeToString[qtype], err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%s lookup failed: %s", dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
	}
	return resp.Answer, nil
}

func systemServer() string {
	conf, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil || len(conf.Servers) == 0 {
		return fallbackServer
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}
