package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProbeStatus tells whether a signal collector produced real data or fell back to defaults
type ProbeStatus string

const (
	ProbeOK       ProbeStatus = "ok"
	ProbeDegraded ProbeStatus = "degraded"
)

// ParsedURL is the normalized form of a URL under assessment
//
// It is derived once per request and never mutated afterwards; every collector
// receives a copy.
type ParsedURL struct {
	Raw               string `json:"raw"`
	Scheme            string `json:"scheme"`
	Host              string `json:"host"`       // hostname without port, lowercased
	ASCIIHost         string `json:"ascii_host"` // punycode form of Host, used on the wire
	Port              string `json:"port,omitempty"`
	Netloc            string `json:"netloc"` // [userinfo@]host[:port] as written in the URL
	Path              string `json:"path"`
	Query             string `json:"query"`
	RegistrableDomain string `json:"registrable_domain"`
	ASCIIRegistrable  string `json:"ascii_registrable"` // punycode form of RegistrableDomain
	Subdomain         string `json:"subdomain"`
	IsLiteralIP       bool   `json:"is_literal_ip"`
}

// DNSResult holds the outcome of the A/MX lookups for a registrable domain
type DNSResult struct {
	Status       ProbeStatus `json:"status"`
	Reason       string      `json:"reason,omitempty"`
	HasA         bool        `json:"has_a"`
	ARecordCount int         `json:"a_record_count"`
	HasMX        bool        `json:"has_mx"`
	Addresses    []string    `json:"addresses,omitempty"`
}

// DomainRecord is the subset of WHOIS registration data the engine cares about
//
// Every field is optional: registries redact, rate-limit or simply omit data, and
// an empty record is a normal outcome.
type DomainRecord struct {
	CreationDate          *time.Time `json:"creation_date,omitempty"`
	ExpiryDate            *time.Time `json:"expiry_date,omitempty"`
	Registrar             string     `json:"registrar,omitempty"`
	RegistrantName        string     `json:"registrant_name,omitempty"`
	RegistrantPrivacyFlag bool       `json:"registrant_privacy"`
}

// WhoisResult carries the WHOIS derived signals
type WhoisResult struct {
	Status           ProbeStatus  `json:"status"`
	Reason           string       `json:"reason,omitempty"`
	Record           DomainRecord `json:"record"`
	AgeDays          int          `json:"age_days"`    // -1 when unknown
	ExpiryDays       int          `json:"expiry_days"` // -1 when unknown, negative when expired
	NewlyRegistered  bool         `json:"newly_registered"`
	TrustedRegistrar bool         `json:"trusted_registrar"`
}

// DegradedWhois returns the documented WHOIS defaults
func DegradedWhois(reason string) WhoisResult {
	return WhoisResult{
		Status:     ProbeDegraded,
		Reason:     reason,
		AgeDays:    -1,
		ExpiryDays: -1,
	}
}

// CertificateSummary describes the leaf certificate presented by a host
//
// It is built from a live handshake for every request and never cached.
type CertificateSummary struct {
	Present         bool   `json:"present"`
	Issuer          string `json:"issuer,omitempty"`
	IssuerTrusted   bool   `json:"issuer_trusted"`
	SelfSigned      bool   `json:"self_signed"`
	DaysToExpiry    int    `json:"days_to_expiry"`
	HostnameMatches bool   `json:"hostname_matches"`
}

// TLSResult wraps a CertificateSummary with its probe status
type TLSResult struct {
	Status      ProbeStatus        `json:"status"`
	Reason      string             `json:"reason,omitempty"`
	Certificate CertificateSummary `json:"certificate"`
}

// DegradedTLS returns the "no certificate" defaults
func DegradedTLS(reason string) TLSResult {
	return TLSResult{
		Status:      ProbeDegraded,
		Reason:      reason,
		Certificate: CertificateSummary{DaysToExpiry: -1},
	}
}

// PageSignals are the DOM level indicators found on a fetched page
type PageSignals struct {
	HasLoginForm      bool `json:"has_login_form"`
	HasPasswordField  bool `json:"has_password_field"`
	NumExternalLinks  int  `json:"num_external_links"`
	HasHiddenFields   bool `json:"has_hidden_fields"`
	HasSuspiciousJS   bool `json:"has_suspicious_js"`
	HasIframes        bool `json:"has_iframes"`
	FormPostsExternal bool `json:"form_posts_external"`
	PageTitleMismatch bool `json:"page_title_mismatch"`
}

// RedirectTrace records the redirects the transport followed
type RedirectTrace struct {
	Hops               int      `json:"hops"`
	CrossDomainLanding bool     `json:"cross_domain_landing"`
	FinalURL           string   `json:"final_url,omitempty"`
	Chain              []string `json:"chain,omitempty"`
}

// ContentResult is the output of the HTTP content and redirect analyzer
type ContentResult struct {
	Status   ProbeStatus   `json:"status"`
	Reason   string        `json:"reason,omitempty"`
	Page     PageSignals   `json:"page"`
	Redirect RedirectTrace `json:"redirect"`
}

// LexicalFeatures are pure string statistics of the URL
type LexicalFeatures struct {
	URLLength          int  `json:"url_length"`
	DomainLength       int  `json:"domain_length"`
	HostLength         int  `json:"host_length"`
	NumDots            int  `json:"num_dots"`
	NumHyphens         int  `json:"num_hyphens"`
	NumUnderscores     int  `json:"num_underscores"`
	NumSlashes         int  `json:"num_slashes"`
	NumQuestion        int  `json:"num_question"`
	NumEqual           int  `json:"num_equal"`
	NumAt              int  `json:"num_at"`
	NumAmpersand       int  `json:"num_ampersand"`
	NumDigits          int  `json:"num_digits"`
	HasHTTPS           bool `json:"has_https"`
	HasIP              bool `json:"has_ip"`
	SubdomainLevel     int  `json:"subdomain_level"`
	PathLength         int  `json:"path_length"`
	QueryLength        int  `json:"query_length"`
	HasSuspiciousWords bool `json:"has_suspicious_words"`
}

// TyposquatResult is the output of the brand similarity engine
type TyposquatResult struct {
	Score           int    `json:"score"`
	MinEditDistance int    `json:"min_edit_distance"`
	ClosestBrand    string `json:"closest_brand,omitempty"`
	HasUnicodeChars bool   `json:"has_unicode_chars"`
	HomographScore  int    `json:"homograph_score"`
}

// IPReputation is the placeholder IP/ASN group
type IPReputation struct {
	IPAddress                 string `json:"ip_address"`
	IsPrivateIP               bool   `json:"is_private_ip"`
	ASNReputation             int    `json:"asn_reputation"`
	HostingProviderSuspicious bool   `json:"hosting_provider_suspicious"`
}

// BlacklistResult is the placeholder threat-feed group
type BlacklistResult struct {
	InPhishTank          bool `json:"in_phishtank"`
	InGoogleSafeBrowsing bool `json:"in_google_safebrowsing"`
	Score                int  `json:"score"`
}

// RiskLevel is the qualitative bucket of a risk score
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "Very Low"
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// LevelForScore converts a 0-100 risk score to its level (inclusive lower bounds)
func LevelForScore(score int) RiskLevel {
	switch {
	case score >= 70:
		return RiskCritical
	case score >= 50:
		return RiskHigh
	case score >= 30:
		return RiskMedium
	case score >= 10:
		return RiskLow
	default:
		return RiskVeryLow
	}
}

// RiskAssessment is derived purely from a FeatureVector
type RiskAssessment struct {
	Score        int       `json:"risk_score"` // 0 to 100
	Level        RiskLevel `json:"risk_level"`
	Explanations []string  `json:"explanations"`
}

// Prediction is the full answer returned by the boundary for one URL
type Prediction struct {
	ID                    uuid.UUID       `json:"id"`
	URL                   string          `json:"url"`
	RegistrableDomain     string          `json:"registrable_domain"`
	Label                 string          `json:"prediction"` // "Phishing" or "Legitimate"
	IsPhishing            bool            `json:"is_phishing"`
	Confidence            float64         `json:"confidence"` // percentage
	PhishingProbability   float64         `json:"phishing_probability"`
	LegitimateProbability float64         `json:"legitimate_probability"`
	Advanced              bool            `json:"advanced"`
	Assessment            *RiskAssessment `json:"assessment,omitempty"`
	Features              FeatureVector   `json:"features"`
	AssessedAt            time.Time       `json:"assessed_at"`
}

// IsHighRisk reports whether the prediction should raise an alert
func (p Prediction) IsHighRisk() bool {
	if p.Assessment == nil {
		return p.IsPhishing
	}
	return p.Assessment.Level == RiskHigh || p.Assessment.Level == RiskCritical
}
