package application

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/stoik/phishing-detection/internal/domain"
)

type fakeDNS struct {
	calls   atomic.Int32
	resolve func(ctx context.Context, name string) domain.DNSResult
}

func (f *fakeDNS) Resolve(ctx context.Context, name string) domain.DNSResult {
	f.calls.Add(1)
	return f.resolve(ctx, name)
}

type fakeWhois struct {
	calls  atomic.Int32
	lookup func(ctx context.Context, name string) domain.WhoisResult
}

func (f *fakeWhois) Lookup(ctx context.Context, name string) domain.WhoisResult {
	f.calls.Add(1)
	return f.lookup(ctx, name)
}

type fakeTLS struct {
	calls   atomic.Int32
	inspect func(ctx context.Context, host string) domain.TLSResult
}

func (f *fakeTLS) Inspect(ctx context.Context, host string) domain.TLSResult {
	f.calls.Add(1)
	return f.inspect(ctx, host)
}

type fakeContent struct {
	calls   atomic.Int32
	analyze func(ctx context.Context, parsed domain.ParsedURL) domain.ContentResult
}

func (f *fakeContent) Analyze(ctx context.Context, parsed domain.ParsedURL) domain.ContentResult {
	f.calls.Add(1)
	return f.analyze(ctx, parsed)
}

type fakeClassifier struct {
	columns       []string
	label         int
	probabilities [2]float64
	err           error
	lastInput     []float64
}

func (f *fakeClassifier) Columns() []string { return f.columns }

func (f *fakeClassifier) Predict(columns []float64) (int, [2]float64, error) {
	f.lastInput = columns
	return f.label, f.probabilities, f.err
}

// failingStore rejects every write
type failingStore struct{}

func (failingStore) CreateAssessment(context.Context, *domain.Prediction) error {
	return errors.New("connection reset")
}

func (failingStore) GetAssessment(context.Context, uuid.UUID) (*domain.Prediction, error) {
	return nil, errors.New("connection reset")
}

func (failingStore) GetHighRiskAssessments(context.Context, int) ([]domain.Prediction, error) {
	return nil, errors.New("connection reset")
}

func (failingStore) Close() error { return nil }

// testFakes is a set of collectors describing a freshly registered phishing
// site: resolvable, five days old, no TLS, and a login form posting elsewhere
type testFakes struct {
	dns     *fakeDNS
	whois   *fakeWhois
	tls     *fakeTLS
	content *fakeContent
}

func newPhishingSiteFakes() *testFakes {
	return &testFakes{
		dns: &fakeDNS{resolve: func(context.Context, string) domain.DNSResult {
			return domain.DNSResult{
				Status:       domain.ProbeOK,
				HasA:         true,
				ARecordCount: 1,
				Addresses:    []string{"203.0.113.7"},
			}
		}},
		whois: &fakeWhois{lookup: func(context.Context, string) domain.WhoisResult {
			created := time.Now().Add(-5 * 24 * time.Hour)
			return domain.WhoisResult{
				Status:          domain.ProbeOK,
				Record:          domain.DomainRecord{CreationDate: &created, Registrar: "Freenom"},
				AgeDays:         5,
				ExpiryDays:      360,
				NewlyRegistered: true,
			}
		}},
		tls: &fakeTLS{inspect: func(context.Context, string) domain.TLSResult {
			return domain.DegradedTLS("connection refused")
		}},
		content: &fakeContent{analyze: func(context.Context, domain.ParsedURL) domain.ContentResult {
			return domain.ContentResult{
				Status: domain.ProbeOK,
				Page: domain.PageSignals{
					HasLoginForm:      true,
					HasPasswordField:  true,
					FormPostsExternal: true,
					NumExternalLinks:  1,
				},
			}
		}},
	}
}

func (f *testFakes) collectors() Collectors {
	return Collectors{DNS: f.dns, Whois: f.whois, TLS: f.tls, Content: f.content}
}

func phishingTables() *domain.ReferenceTables {
	return domain.DefaultReferenceTables().Merge(domain.ReferenceTables{
		PopularDomains: []string{"secure-login-paypal.tk"},
	})
}
