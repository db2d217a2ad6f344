package whois

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoik/phishing-detection/internal/domain"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const verisignResponse = `   Domain Name: PAYPA1.COM
   Registry Domain ID: 2870148239_DOMAIN_COM-VRSN
   Registrar WHOIS Server: whois.godaddy.com
   Registrar URL: http://www.godaddy.com
   Updated Date: 2025-05-27T10:00:00Z
   Creation Date: 2025-05-27T10:00:00Z
   Registry Expiry Date: 2026-05-27T10:00:00Z
   Registrar: GoDaddy.com, LLC
   Registrar IANA ID: 146
   Domain Status: clientTransferProhibited https://icann.org/epp#clientTransferProhibited
   Name Server: NS1.EXAMPLE.NET
   Name Server: NS2.EXAMPLE.NET
   DNSSEC: unsigned
>>> Last update of whois database: 2025-06-01T12:00:00Z <<<
`

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestEvaluate(t *testing.T) {
	tables := domain.DefaultReferenceTables()

	tests := []struct {
		name            string
		record          domain.DomainRecord
		expectedAge     int
		expectedExpiry  int
		expectedNew     bool
		expectedTrusted bool
	}{
		{
			name:           "Empty record",
			record:         domain.DomainRecord{},
			expectedAge:    -1,
			expectedExpiry: -1,
		},
		{
			name: "Five day old domain",
			record: domain.DomainRecord{
				CreationDate: timePtr(fixedNow.Add(-5 * 24 * time.Hour)),
				ExpiryDate:   timePtr(fixedNow.Add(360 * 24 * time.Hour)),
			},
			expectedAge:    5,
			expectedExpiry: 360,
			expectedNew:    true,
		},
		{
			name: "Boundary: 30 days is no longer new",
			record: domain.DomainRecord{
				CreationDate: timePtr(fixedNow.Add(-30 * 24 * time.Hour)),
			},
			expectedAge:    30,
			expectedExpiry: -1,
		},
		{
			name: "Future creation date is unknown age",
			record: domain.DomainRecord{
				CreationDate: timePtr(fixedNow.Add(48 * time.Hour)),
			},
			expectedAge:    -1,
			expectedExpiry: -1,
		},
		{
			name: "Expired domain keeps negative expiry",
			record: domain.DomainRecord{
				CreationDate: timePtr(fixedNow.AddDate(-3, 0, 0)),
				ExpiryDate:   timePtr(fixedNow.Add(-10 * 24 * time.Hour)),
				Registrar:    "NAMECHEAP INC",
			},
			expectedAge:     1096,
			expectedExpiry:  -10,
			expectedTrusted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.record, fixedNow, tables)
			assert.Equal(t, domain.ProbeOK, result.Status)
			assert.Equal(t, tt.expectedAge, result.AgeDays)
			assert.Equal(t, tt.expectedExpiry, result.ExpiryDays)
			assert.Equal(t, tt.expectedNew, result.NewlyRegistered)
			assert.Equal(t, tt.expectedTrusted, result.TrustedRegistrar)
		})
	}
}

func TestClient_Lookup(t *testing.T) {
	client := New(nil,
		WithClock(func() time.Time { return fixedNow }),
		WithQueryFunc(func(string) (string, error) { return verisignResponse, nil }),
	)

	result := client.Lookup(context.Background(), "paypa1.com")

	require.Equal(t, domain.ProbeOK, result.Status, result.Reason)
	require.NotNil(t, result.Record.CreationDate)
	assert.Equal(t, 5, result.AgeDays)
	assert.Equal(t, 359, result.ExpiryDays)
	assert.True(t, result.NewlyRegistered)
	assert.True(t, result.TrustedRegistrar)
	assert.False(t, result.Record.RegistrantPrivacyFlag)
}

func TestClient_LookupFailures(t *testing.T) {
	t.Run("Query error", func(t *testing.T) {
		client := New(nil, WithQueryFunc(func(string) (string, error) {
			return "", errors.New("no whois server is known for this kind of object")
		}))

		result := client.Lookup(context.Background(), "example.zz")
		assert.Equal(t, domain.DegradedWhois(result.Reason), result)
		assert.Contains(t, result.Reason, "no whois server")
	})

	t.Run("Hung server", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		client := New(nil, WithQueryFunc(func(string) (string, error) {
			<-release
			return "", nil
		}))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		result := client.Lookup(ctx, "slow.example")
		assert.Equal(t, domain.ProbeDegraded, result.Status)
		assert.Equal(t, -1, result.AgeDays)
		assert.Equal(t, -1, result.ExpiryDays)
	})

	t.Run("Panicking query", func(t *testing.T) {
		client := New(nil, WithQueryFunc(func(string) (string, error) {
			panic("index out of range")
		}))

		var result domain.WhoisResult
		assert.NotPanics(t, func() {
			result = client.Lookup(context.Background(), "example.com")
		})
		assert.Equal(t, domain.ProbeDegraded, result.Status)
		assert.Contains(t, result.Reason, "panic")
	})

	t.Run("Unparseable response", func(t *testing.T) {
		client := New(nil, WithQueryFunc(func(string) (string, error) {
			return "No match for \"NOPE-NOT-REGISTERED.COM\".\n", nil
		}))

		result := client.Lookup(context.Background(), "nope-not-registered.com")
		assert.Equal(t, domain.ProbeDegraded, result.Status)
		assert.Equal(t, -1, result.AgeDays)
	})
}

func TestParseRecord_Privacy(t *testing.T) {
	indicators := domain.DefaultReferenceTables().PrivacyIndicators
	raw := verisignResponse + "   Registrant Organization: Privacy Protect, LLC\n   Registrant Name: REDACTED FOR PRIVACY\n"

	record, err := ParseRecord(raw, indicators)
	require.NoError(t, err)
	assert.True(t, record.RegistrantPrivacyFlag)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw      string
		expected time.Time
		ok       bool
	}{
		{"2025-05-27T10:00:00Z", time.Date(2025, 5, 27, 10, 0, 0, 0, time.UTC), true},
		{"1997-09-15T07:00:00+0000", time.Date(1997, 9, 15, 7, 0, 0, 0, time.UTC), true},
		{"1997-09-15", time.Date(1997, 9, 15, 0, 0, 0, 0, time.UTC), true},
		{"15-Sep-1997", time.Date(1997, 9, 15, 0, 0, 0, 0, time.UTC), true},
		{"2020-01-01, 2021-01-01", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			parsed, ok := ParseDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(parsed), "got %s", parsed)
			}
		})
	}
}
