package whois

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/stoik/phishing-detection/internal/domain"
)

const defaultTimeout = 5 * time.Second

// newlyRegisteredDays is the age below which a domain counts as newly registered
const newlyRegisteredDays = 30

// QueryFunc returns the raw WHOIS text for a domain
type QueryFunc func(domainName string) (string, error)

// Client implements ports.WhoisLookup on top of likexian/whois
type Client struct {
	tables  *domain.ReferenceTables
	timeout time.Duration
	query   QueryFunc
	now     func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds the network query
func WithTimeout(t time.Duration) Option {
	return func(c *Client) { c.timeout = t }
}

// WithQueryFunc replaces the network query, mainly for tests
func WithQueryFunc(q QueryFunc) Option {
	return func(c *Client) { c.query = q }
}

// WithClock sets the time source used to compute ages
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a WHOIS client evaluating records against the reference tables
func New(tables *domain.ReferenceTables, opts ...Option) *Client {
	if tables == nil {
		tables = domain.DefaultReferenceTables()
	}
	c := &Client{
		tables:  tables,
		timeout: defaultTimeout,
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	if c.query == nil {
		wc := whois.NewClient().SetTimeout(c.timeout)
		c.query = func(domainName string) (string, error) {
			return wc.Whois(domainName)
		}
	}
	return c
}

type queryResult struct {
	raw string
	err error
}

// Lookup queries and evaluates registration data for a registrable domain
//
// WHOIS is best effort: any failure, including a parser panic, yields the
// degraded defaults. Internationalized names are sent in punycode.
func (c *Client) Lookup(ctx context.Context, domainName string) (result domain.WhoisResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.DegradedWhois(fmt.Sprintf("recovered from panic in whois parser: %v", r))
		}
	}()

	// buffered so the query goroutine never blocks once we stop waiting
	resultChan := make(chan queryResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultChan <- queryResult{err: fmt.Errorf("recovered from panic in whois query: %v", r)}
			}
		}()
		raw, err := c.query(domain.ASCIIName(domainName))
		resultChan <- queryResult{raw: raw, err: err}
	}()

	var res queryResult
	select {
	case <-ctx.Done():
		return domain.DegradedWhois(fmt.Sprintf("whois lookup aborted: %v", ctx.Err()))
	case res = <-resultChan:
	}

	if res.err != nil {
		return domain.DegradedWhois(fmt.Sprintf("whois lookup failed: %v", res.err))
	}

	record, err := ParseRecord(res.raw, c.tables.PrivacyIndicators)
	if err != nil {
		return domain.DegradedWhois(err.Error())
	}

	return Evaluate(record, c.now(), c.tables)
}

// ParseRecord extracts the DomainRecord fields from raw WHOIS text
func ParseRecord(raw string, privacyIndicators []string) (domain.DomainRecord, error) {
	info, err := whoisparser.Parse(raw)
	if err != nil {
		if errors.Is(err, whoisparser.ErrNotFoundDomain) {
			return domain.DomainRecord{}, fmt.Errorf("domain not found in whois")
		}
		return domain.DomainRecord{}, fmt.Errorf("failed to parse whois response: %w", err)
	}

	var record domain.DomainRecord
	if info.Domain != nil {
		if created, ok := ParseDate(info.Domain.CreatedDate); ok {
			record.CreationDate = &created
		}
		if expires, ok := ParseDate(info.Domain.ExpirationDate); ok {
			record.ExpiryDate = &expires
		}
	}
	if info.Registrar != nil {
		record.Registrar = info.Registrar.Name
	}
	if info.Registrant != nil {
		record.RegistrantName = info.Registrant.Name
		if record.RegistrantName == "" {
			record.RegistrantName = info.Registrant.Organization
		}
	}
	record.RegistrantPrivacyFlag = containsFold(record.RegistrantName, privacyIndicators)

	return record, nil
}

// Evaluate derives the WHOIS signals from a record at the given instant
func Evaluate(record domain.DomainRecord, now time.Time, tables *domain.ReferenceTables) domain.WhoisResult {
	result := domain.WhoisResult{
		Status:     domain.ProbeOK,
		Record:     record,
		AgeDays:    -1,
		ExpiryDays: -1,
	}

	if record.CreationDate != nil {
		// a creation date in the future is implausible, not a negative age
		if age := daysBetween(*record.CreationDate, now); age >= 0 {
			result.AgeDays = age
			result.NewlyRegistered = age < newlyRegisteredDays
		}
	}
	if record.ExpiryDate != nil {
		// negative means already expired
		result.ExpiryDays = daysBetween(now, *record.ExpiryDate)
	}

	result.TrustedRegistrar = record.Registrar != "" && containsFold(record.Registrar, tables.TrustedRegistrars)
	return result
}

func daysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

func containsFold(text string, needles []string) bool {
	text = strings.ToLower(text)
	for _, needle := range needles {
		if needle != "" && strings.Contains(text, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
