package dnsresolver

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoik/phishing-detection/internal/domain"
)

// startServer runs an in-process UDP nameserver and returns its address
func startServer(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	var started sync.WaitGroup
	started.Add(1)
	server := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: started.Done}
	go server.ActivateAndServe()
	started.Wait()

	t.Cleanup(func() { server.Shutdown() })
	return pc.LocalAddr().String()
}

func zone(w dns.ResponseWriter, req *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(req)

	q := req.Question[0]
	switch q.Name {
	case "example.com.":
		switch q.Qtype {
		case dns.TypeA:
			m.Answer = append(m.Answer,
				mustRR("example.com. 300 IN A 93.184.216.34"),
				mustRR("example.com. 300 IN A 93.184.216.35"),
			)
		case dns.TypeMX:
			m.Answer = append(m.Answer, mustRR("example.com. 300 IN MX 10 mail.example.com."))
		}
	case "xn--pypal-4ve.com.":
		if q.Qtype == dns.TypeA {
			m.Answer = append(m.Answer, mustRR("xn--pypal-4ve.com. 300 IN A 203.0.113.9"))
		}
	case "mailonly.test.":
		if q.Qtype == dns.TypeMX {
			m.Answer = append(m.Answer, mustRR("mailonly.test. 300 IN MX 10 mx.mailonly.test."))
		}
	case "hang.test.":
		return
	default:
		m.SetRcode(req, dns.RcodeNameError)
	}

	w.WriteMsg(m)
}

func mustRR(s string) dns.RR {
	rr, err := dns.NewRR(s)
	if err != nil {
		panic(err)
	}
	return rr
}

func TestResolver_Resolve(t *testing.T) {
	addr := startServer(t, zone)
	resolver := New(WithServer(addr), WithTimeout(500*time.Millisecond))

	tests := []struct {
		name          string
		domain        string
		expectedA     int
		expectedMX    bool
		expectedState domain.ProbeStatus
	}{
		{"A and MX records", "example.com", 2, true, domain.ProbeOK},
		{"MX only", "mailonly.test", 0, true, domain.ProbeOK},
		{"NXDOMAIN", "secure-login-paypa1.tk", 0, false, domain.ProbeDegraded},
		{"Unicode name queried as punycode", "p\u0430ypal.com", 1, false, domain.ProbeOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resolver.Resolve(context.Background(), tt.domain)
			assert.Equal(t, tt.expectedState, result.Status)
			assert.Equal(t, tt.expectedA, result.ARecordCount)
			assert.Equal(t, tt.expectedA > 0, result.HasA)
			assert.Equal(t, tt.expectedMX, result.HasMX)
		})
	}
}

func TestResolver_Addresses(t *testing.T) {
	addr := startServer(t, zone)
	resolver := New(WithServer(addr))

	result := resolver.Resolve(context.Background(), "example.com")
	assert.Equal(t, []string{"93.184.216.34", "93.184.216.35"}, result.Addresses)
}

func TestResolver_Timeout(t *testing.T) {
	addr := startServer(t, zone)
	resolver := New(WithServer(addr), WithTimeout(5*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	result := resolver.Resolve(ctx, "hang.test")

	assert.Less(t, time.Since(start), 2*time.Second, "context deadline must bound the lookup")
	assert.Equal(t, domain.ProbeDegraded, result.Status)
	assert.False(t, result.HasA)
	assert.False(t, result.HasMX)
	assert.NotEmpty(t, result.Reason)
}

func TestWithServer_DefaultPort(t *testing.T) {
	assert.Equal(t, "1.1.1.1:53", New(WithServer("1.1.1.1")).Server())
	assert.Equal(t, "127.0.0.1:5353", New(WithServer("127.0.0.1:5353")).Server())
	assert.NotEmpty(t, New(WithServer("")).Server())
}
