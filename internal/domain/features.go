package domain

import "fmt"

// FeatureVector is the flat, fixed-schema output of feature extraction
//
// Every field always holds a value: groups whose collector failed carry the
// defaults from DefaultFeatureVector, so consumers never test for absence.
// JSON keys are the wire names shared with the scorer's column list.
type FeatureVector struct {
	// Lexical
	URLLength          int `json:"url_length"`
	DomainLength       int `json:"domain_length"`
	HostLength         int `json:"host_length"`
	NumDots            int `json:"num_dots"`
	NumHyphens         int `json:"num_hyphens"`
	NumUnderscores     int `json:"num_underscores"`
	NumSlashes         int `json:"num_slashes"`
	NumQuestion        int `json:"num_question"`
	NumEqual           int `json:"num_equal"`
	NumAt              int `json:"num_at"`
	NumAmpersand       int `json:"num_ampersand"`
	NumDigits          int `json:"num_digits"`
	HasHTTPS           int `json:"has_https"`
	HasIP              int `json:"has_ip"`
	SubdomainLevel     int `json:"subdomain_level"`
	PathLength         int `json:"path_length"`
	QueryLength        int `json:"query_length"`
	HasSuspiciousWords int `json:"has_suspicious_words"`

	// WHOIS
	DomainAgeDays       int `json:"domain_age_days"`
	DomainExpiryDays    int `json:"domain_expiry_days"`
	RegistrarReputation int `json:"registrar_reputation"`
	WhoisPrivacy        int `json:"whois_privacy"`
	IsNewlyRegistered   int `json:"is_newly_registered"`

	// TLS
	HasValidSSL       int `json:"has_valid_ssl"`
	SSLIssuerTrusted  int `json:"ssl_issuer_trusted"`
	SSLSelfSigned     int `json:"ssl_self_signed"`
	SSLDaysToExpiry   int `json:"ssl_days_to_expiry"`
	SSLDomainMismatch int `json:"ssl_domain_mismatch"`

	// IP / ASN
	IPAddress                 string `json:"ip_address"`
	IsPrivateIP               int    `json:"is_private_ip"`
	ASNReputation             int    `json:"asn_reputation"`
	HostingProviderSuspicious int    `json:"hosting_provider_suspicious"`

	// Blacklist
	InPhishTank          int `json:"in_phishtank"`
	InGoogleSafeBrowsing int `json:"in_google_safebrowsing"`
	BlacklistScore       int `json:"blacklist_score"`

	// Page content
	HasLoginForm      int `json:"has_login_form"`
	HasPasswordField  int `json:"has_password_field"`
	NumExternalLinks  int `json:"num_external_links"`
	HasHiddenFields   int `json:"has_hidden_fields"`
	HasSuspiciousJS   int `json:"has_suspicious_js"`
	HasIframes        int `json:"has_iframes"`
	FormPostsExternal int `json:"form_posts_external"`
	PageTitleMismatch int `json:"page_title_mismatch"`

	// Redirects
	NumRedirects              int `json:"num_redirects"`
	RedirectToDifferentDomain int `json:"redirect_to_different_domain"`
	RedirectChainLength       int `json:"redirect_chain_length"`

	// Typosquatting
	TyposquattingScore int `json:"typosquatting_score"`
	MinEditDistance    int `json:"min_edit_distance"`
	HasUnicodeChars    int `json:"has_unicode_chars"`
	HomographScore     int `json:"homograph_score"`

	// DNS
	DNSRecordExists int `json:"dns_record_exists"`
	HasMXRecord     int `json:"has_mx_record"`
	NumDNSRecords   int `json:"num_dns_records"`
}

// NoBrandMatchDistance is the edit distance reported when no reference brand was compared
const NoBrandMatchDistance = 100

// DefaultFeatureVector returns the vector every failed group falls back to
func DefaultFeatureVector() FeatureVector {
	return FeatureVector{
		DomainAgeDays:    -1,
		DomainExpiryDays: -1,
		SSLDaysToExpiry:  -1,
		MinEditDistance:  NoBrandMatchDistance,
	}
}

// Field is one named entry of a FeatureVector
type Field struct {
	Key   string
	Value any
}

// Fields lists every feature in a fixed order
//
// The order is stable and the key set is total; it is the canonical list of
// feature names.
func (f FeatureVector) Fields() []Field {
	return []Field{
		{"url_length", f.URLLength},
		{"domain_length", f.DomainLength},
		{"host_length", f.HostLength},
		{"num_dots", f.NumDots},
		{"num_hyphens", f.NumHyphens},
		{"num_underscores", f.NumUnderscores},
		{"num_slashes", f.NumSlashes},
		{"num_question", f.NumQuestion},
		{"num_equal", f.NumEqual},
		{"num_at", f.NumAt},
		{"num_ampersand", f.NumAmpersand},
		{"num_digits", f.NumDigits},
		{"has_https", f.HasHTTPS},
		{"has_ip", f.HasIP},
		{"subdomain_level", f.SubdomainLevel},
		{"path_length", f.PathLength},
		{"query_length", f.QueryLength},
		{"has_suspicious_words", f.HasSuspiciousWords},
		{"domain_age_days", f.DomainAgeDays},
		{"domain_expiry_days", f.DomainExpiryDays},
		{"registrar_reputation", f.RegistrarReputation},
		{"whois_privacy", f.WhoisPrivacy},
		{"is_newly_registered", f.IsNewlyRegistered},
		{"has_valid_ssl", f.HasValidSSL},
		{"ssl_issuer_trusted", f.SSLIssuerTrusted},
		{"ssl_self_signed", f.SSLSelfSigned},
		{"ssl_days_to_expiry", f.SSLDaysToExpiry},
		{"ssl_domain_mismatch", f.SSLDomainMismatch},
		{"ip_address", f.IPAddress},
		{"is_private_ip", f.IsPrivateIP},
		{"asn_reputation", f.ASNReputation},
		{"hosting_provider_suspicious", f.HostingProviderSuspicious},
		{"in_phishtank", f.InPhishTank},
		{"in_google_safebrowsing", f.InGoogleSafeBrowsing},
		{"blacklist_score", f.BlacklistScore},
		{"has_login_form", f.HasLoginForm},
		{"has_password_field", f.HasPasswordField},
		{"num_external_links", f.NumExternalLinks},
		{"has_hidden_fields", f.HasHiddenFields},
		{"has_suspicious_js", f.HasSuspiciousJS},
		{"has_iframes", f.HasIframes},
		{"form_posts_external", f.FormPostsExternal},
		{"page_title_mismatch", f.PageTitleMismatch},
		{"num_redirects", f.NumRedirects},
		{"redirect_to_different_domain", f.RedirectToDifferentDomain},
		{"redirect_chain_length", f.RedirectChainLength},
		{"typosquatting_score", f.TyposquattingScore},
		{"min_edit_distance", f.MinEditDistance},
		{"has_unicode_chars", f.HasUnicodeChars},
		{"homograph_score", f.HomographScore},
		{"dns_record_exists", f.DNSRecordExists},
		{"has_mx_record", f.HasMXRecord},
		{"num_dns_records", f.NumDNSRecords},
	}
}

// columnAliases maps the basic model's historical column names to feature keys
var columnAliases = map[string]string{
	"domain_age": "domain_age_days",
	"dns_record": "dns_record_exists",
}

// Column returns the numeric value of a feature by key (or known alias)
func (f FeatureVector) Column(name string) (float64, error) {
	if alias, ok := columnAliases[name]; ok {
		name = alias
	}
	for _, field := range f.Fields() {
		if field.Key != name {
			continue
		}
		v, ok := field.Value.(int)
		if !ok {
			return 0, fmt.Errorf("feature %q is not numeric", name)
		}
		return float64(v), nil
	}
	return 0, fmt.Errorf("unknown feature %q", name)
}

// Columns builds an ordered numeric vector for the given column names
func (f FeatureVector) Columns(names []string) ([]float64, error) {
	out := make([]float64, 0, len(names))
	for _, name := range names {
		v, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ValidateColumns checks that every name resolves to a numeric feature
func ValidateColumns(names []string) error {
	_, err := DefaultFeatureVector().Columns(names)
	return err
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
