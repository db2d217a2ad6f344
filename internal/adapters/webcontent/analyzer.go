package webcontent

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/stoik/phishing-detection/internal/domain"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxRedirects = 10
	maxBodyBytes        = 5 << 20

	// more hidden inputs than this in one form is a harvesting-kit pattern
	hiddenFieldThreshold = 3

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

var errTooManyRedirects = errors.New("stopped after too many redirects")

// Analyzer implements ports.ContentAnalyzer
type Analyzer struct {
	tables       *domain.ReferenceTables
	client       *http.Client
	userAgent    string
	maxRedirects int
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithTimeout bounds the whole fetch, redirects and body included
func WithTimeout(t time.Duration) Option {
	return func(a *Analyzer) { a.client.Timeout = t }
}

// WithUserAgent overrides the browser User-Agent
func WithUserAgent(ua string) Option {
	return func(a *Analyzer) { a.userAgent = ua }
}

// WithMaxRedirects caps the number of redirects followed
func WithMaxRedirects(n int) Option {
	return func(a *Analyzer) { a.maxRedirects = n }
}

// New creates an analyzer
//
// The transport accepts any certificate: a phishing page behind a self-signed
// certificate must still be fetched and inspected.
func New(tables *domain.ReferenceTables, opts ...Option) *Analyzer {
	if tables == nil {
		tables = domain.DefaultReferenceTables()
	}
	a := &Analyzer{
		tables: tables,
		client: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
				MaxIdleConns:        20,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		userAgent:    DefaultUserAgent,
		maxRedirects: defaultMaxRedirects,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze fetches the page once and extracts DOM and redirect signals
//
// Network errors and non-2xx responses degrade the whole group, redirect
// data included.
func (a *Analyzer) Analyze(ctx context.Context, parsed domain.ParsedURL) domain.ContentResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.Raw, nil)
	if err != nil {
		return degraded(fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	// per-request copy so the redirect chain is not shared between requests
	client := *a.client
	var chain []string
	client.CheckRedirect = func(next *http.Request, via []*http.Request) error {
		if len(via) > a.maxRedirects {
			return errTooManyRedirects
		}
		chain = append(chain, next.URL.String())
		return nil
	}

	resp, err := client.Do(req)
	if err != nil {
		return degraded(fmt.Sprintf("fetch failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return degraded(fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return degraded(fmt.Sprintf("failed to parse page: %v", err))
	}

	final := resp.Request.URL
	finalHost := strings.ToLower(final.Hostname())

	return domain.ContentResult{
		Status: domain.ProbeOK,
		Page:   a.pageSignals(doc, final),
		Redirect: domain.RedirectTrace{
			Hops:               len(chain),
			CrossDomainLanding: finalHost != parsed.Host,
			FinalURL:           final.String(),
			Chain:              chain,
		},
	}
}

func degraded(reason string) domain.ContentResult {
	return domain.ContentResult{Status: domain.ProbeDegraded, Reason: reason}
}

// pageSignals inspects the DOM of the landing page at final
func (a *Analyzer) pageSignals(doc *goquery.Document, final *url.URL) domain.PageSignals {
	var signals domain.PageSignals
	pageHost := strings.ToLower(final.Hostname())

	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		hidden := 0
		form.Find("input").Each(func(_ int, input *goquery.Selection) {
			switch strings.ToLower(strings.TrimSpace(input.AttrOr("type", ""))) {
			case "password":
				signals.HasLoginForm = true
				signals.HasPasswordField = true
			case "hidden":
				hidden++
			}
		})
		if hidden > hiddenFieldThreshold {
			signals.HasHiddenFields = true
		}

		if action, ok := form.Attr("action"); ok && isExternal(action, pageHost) {
			signals.FormPostsExternal = true
		}
	})

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		if isExternal(link.AttrOr("href", ""), pageHost) {
			signals.NumExternalLinks++
		}
	})

	signals.HasIframes = doc.Find("iframe").Length() > 0

	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		if containsAny(script.Text(), a.tables.SuspiciousJSPatterns) {
			signals.HasSuspiciousJS = true
			return false
		}
		return true
	})

	signals.PageTitleMismatch = a.titleMismatch(doc.Find("title").First().Text(), final)

	return signals
}

// isExternal reports whether ref is an absolute URL pointing at another host
func isExternal(ref, pageHost string) bool {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.ToLower(u.Hostname()) != pageHost
}

// titleMismatch reports whether the page title names a reference brand that
// the landing domain is not
func (a *Analyzer) titleMismatch(title string, final *url.URL) bool {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return false
	}

	landing, err := domain.ParseURL(final.String())
	if err != nil {
		return false
	}

	for _, brand := range a.tables.PopularDomains {
		label, _, _ := strings.Cut(strings.ToLower(brand), ".")
		if label == "" || !strings.Contains(title, label) {
			continue
		}
		if !strings.EqualFold(landing.RegistrableDomain, brand) {
			return true
		}
	}
	return false
}

func containsAny(text string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}
