package tlsprobe

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoik/phishing-detection/internal/domain"
)

var fixedNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type certSpec struct {
	subject  pkix.Name
	dnsNames []string
	ips      []net.IP
	notAfter time.Time
}

// issueCert signs a leaf with parent, or self-signs it when parent is nil
func issueCert(t *testing.T, spec certSpec, parent *x509.Certificate, parentKey *ecdsa.PrivateKey) (*x509.Certificate, *ecdsa.PrivateKey) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               spec.subject,
		DNSNames:              spec.dnsNames,
		IPAddresses:           spec.ips,
		NotBefore:             fixedNow.Add(-24 * time.Hour),
		NotAfter:              spec.notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  parent == nil,
	}

	signer, signerKey := template, key
	if parent != nil {
		signer, signerKey = parent, parentKey
	}

	der, err := x509.CreateCertificate(rand.Reader, template, signer, &key.PublicKey, signerKey)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert, key
}

func TestSummarize(t *testing.T) {
	tables := domain.DefaultReferenceTables()

	ca, caKey := issueCert(t, certSpec{
		subject:  pkix.Name{Organization: []string{"Let's Encrypt"}, CommonName: "R3"},
		notAfter: fixedNow.AddDate(5, 0, 0),
	}, nil, nil)

	trusted, _ := issueCert(t, certSpec{
		subject:  pkix.Name{CommonName: "example.com"},
		dnsNames: []string{"example.com", "*.example.com"},
		notAfter: fixedNow.Add(90 * 24 * time.Hour),
	}, ca, caKey)

	selfSigned, _ := issueCert(t, certSpec{
		subject:  pkix.Name{Organization: []string{"Phish Kit"}, CommonName: "paypa1.com"},
		notAfter: fixedNow.Add(12 * time.Hour),
	}, nil, nil)

	t.Run("Trusted issuer with SAN match", func(t *testing.T) {
		summary := Summarize(trusted, "example.com", fixedNow, tables)
		assert.True(t, summary.Present)
		assert.True(t, summary.IssuerTrusted)
		assert.False(t, summary.SelfSigned)
		assert.Equal(t, 90, summary.DaysToExpiry)
		assert.True(t, summary.HostnameMatches)
		assert.Contains(t, summary.Issuer, "Let's Encrypt")
	})

	t.Run("Self-signed matched by CN", func(t *testing.T) {
		summary := Summarize(selfSigned, "PAYPA1.com", fixedNow, tables)
		assert.False(t, summary.IssuerTrusted)
		assert.True(t, summary.SelfSigned)
		assert.Equal(t, 0, summary.DaysToExpiry)
		assert.True(t, summary.HostnameMatches)
	})

	t.Run("Expired certificate", func(t *testing.T) {
		summary := Summarize(trusted, "example.com", fixedNow.Add(100*24*time.Hour), tables)
		assert.Equal(t, -10, summary.DaysToExpiry)
	})
}

func TestMatchesHostname(t *testing.T) {
	withSAN := &x509.Certificate{
		Subject:     pkix.Name{CommonName: "login.example.net"},
		DNSNames:    []string{"example.com", "*.example.com"},
		IPAddresses: []net.IP{net.ParseIP("10.0.0.1")},
	}
	cnOnly := &x509.Certificate{Subject: pkix.Name{CommonName: "legacy.example.org"}}

	tests := []struct {
		name     string
		cert     *x509.Certificate
		host     string
		expected bool
	}{
		{"Exact SAN", withSAN, "example.com", true},
		{"Case-insensitive SAN", withSAN, "EXAMPLE.com", true},
		{"Wildcard covers one label", withSAN, "www.example.com", true},
		{"Wildcard does not cover two labels", withSAN, "a.b.example.com", false},
		{"Different domain", withSAN, "example.org", false},
		{"CN matches alongside SAN", withSAN, "login.example.net", true},
		{"CN is not a wildcard for SAN domain", withSAN, "www.example.net", false},
		{"IP SAN", withSAN, "10.0.0.1", true},
		{"Other IP", withSAN, "10.0.0.2", false},
		{"CN only", cnOnly, "legacy.example.org", true},
		{"CN only mismatch", cnOnly, "example.org", false},
		{"Lookalike host", withSAN, "examp1e.com", false},
		{"Punycode SAN", &x509.Certificate{DNSNames: []string{"xn--pypal-4ve.com"}}, "xn--pypal-4ve.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesHostname(tt.cert, tt.host))
		})
	}
}

func TestInspector_Inspect(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	_, port, err := net.SplitHostPort(server.Listener.Addr().String())
	require.NoError(t, err)

	inspector := New(nil, WithPort(port), WithTimeout(2*time.Second))

	// explicit ports on the host are dropped in favor of the probe port
	result := inspector.Inspect(context.Background(), "127.0.0.1:8443")

	require.Equal(t, domain.ProbeOK, result.Status, result.Reason)
	assert.True(t, result.Certificate.Present)
	assert.True(t, result.Certificate.SelfSigned, "httptest certificates are self-signed")
	assert.False(t, result.Certificate.IssuerTrusted)
	assert.True(t, result.Certificate.HostnameMatches)
	assert.Greater(t, result.Certificate.DaysToExpiry, 0)
}

func TestInspector_Degraded(t *testing.T) {
	t.Run("Connection refused", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		_, port, _ := net.SplitHostPort(listener.Addr().String())
		listener.Close()

		result := New(nil, WithPort(port), WithTimeout(time.Second)).Inspect(context.Background(), "127.0.0.1")
		assertNoCertificate(t, result)
	})

	t.Run("Plain HTTP endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()
		_, port, _ := net.SplitHostPort(server.Listener.Addr().String())

		result := New(nil, WithPort(port), WithTimeout(time.Second)).Inspect(context.Background(), "127.0.0.1")
		assertNoCertificate(t, result)
	})

	t.Run("Silent endpoint times out", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer listener.Close()
		go func() {
			var conns []net.Conn
			defer func() {
				for _, c := range conns {
					c.Close()
				}
			}()
			for {
				conn, err := listener.Accept()
				if err != nil {
					return
				}
				conns = append(conns, conn)
			}
		}()
		_, port, _ := net.SplitHostPort(listener.Addr().String())

		start := time.Now()
		result := New(nil, WithPort(port), WithTimeout(200*time.Millisecond)).Inspect(context.Background(), "127.0.0.1")
		assert.Less(t, time.Since(start), 2*time.Second)
		assertNoCertificate(t, result)
	})
}

func assertNoCertificate(t *testing.T, result domain.TLSResult) {
	t.Helper()
	assert.Equal(t, domain.ProbeDegraded, result.Status)
	assert.NotEmpty(t, result.Reason)
	assert.False(t, result.Certificate.Present)
	assert.Equal(t, -1, result.Certificate.DaysToExpiry)
}
