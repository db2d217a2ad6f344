package domain

// ReferenceTables holds the static lists the engine compares against
//
// Tables are built once at process start (defaults, optionally overridden by a
// config file) and only read afterwards, so a single instance is shared by all
// concurrent extractions without locking.
type ReferenceTables struct {
	PopularDomains       []string `yaml:"popular_domains"`
	SuspiciousTLDs       []string `yaml:"suspicious_tlds"`
	TrustedIssuers       []string `yaml:"trusted_issuers"`
	TrustedRegistrars    []string `yaml:"trusted_registrars"`
	PrivacyIndicators    []string `yaml:"privacy_indicators"`
	SuspiciousKeywords   []string `yaml:"suspicious_keywords"`
	SuspiciousIPPrefixes []string `yaml:"suspicious_ip_prefixes"`
	PrivateIPFirstOctets []string `yaml:"private_ip_first_octets"`
	SuspiciousJSPatterns []string `yaml:"suspicious_js_patterns"`
}

// DefaultReferenceTables returns the built-in lists
func DefaultReferenceTables() *ReferenceTables {
	return &ReferenceTables{
		PopularDomains: []string{
			"google.com", "facebook.com", "amazon.com", "apple.com", "microsoft.com",
			"paypal.com", "netflix.com", "instagram.com", "twitter.com", "linkedin.com",
			"ebay.com", "walmart.com", "chase.com", "bankofamerica.com", "wellsfargo.com",
		},
		// Free TLDs heavily used for throwaway phishing domains
		SuspiciousTLDs: []string{"tk", "ml", "ga", "cf", "gq"},
		TrustedIssuers: []string{
			"Let's Encrypt", "DigiCert", "Comodo", "GeoTrust", "Thawte", "GlobalSign", "Sectigo",
		},
		TrustedRegistrars: []string{"GoDaddy", "Namecheap", "Google", "Amazon", "Cloudflare"},
		PrivacyIndicators: []string{"privacy", "protected", "redacted", "whoisguard"},
		SuspiciousKeywords: []string{
			"login", "verify", "account", "update", "secure", "banking",
			"confirm", "signin", "password", "credential", "suspend",
		},
		SuspiciousIPPrefixes: []string{"185.", "194.", "46."},
		PrivateIPFirstOctets: []string{"10", "172", "192"},
		SuspiciousJSPatterns: []string{"eval(", "unescape(", "fromCharCode", "document.write"},
	}
}

// Merge returns a copy of t where every non-empty list of override replaces the default
func (t *ReferenceTables) Merge(override ReferenceTables) *ReferenceTables {
	merged := *t
	pick := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = append([]string(nil), src...)
		}
	}
	pick(&merged.PopularDomains, override.PopularDomains)
	pick(&merged.SuspiciousTLDs, override.SuspiciousTLDs)
	pick(&merged.TrustedIssuers, override.TrustedIssuers)
	pick(&merged.TrustedRegistrars, override.TrustedRegistrars)
	pick(&merged.PrivacyIndicators, override.PrivacyIndicators)
	pick(&merged.SuspiciousKeywords, override.SuspiciousKeywords)
	pick(&merged.SuspiciousIPPrefixes, override.SuspiciousIPPrefixes)
	pick(&merged.PrivateIPFirstOctets, override.PrivateIPFirstOctets)
	pick(&merged.SuspiciousJSPatterns, override.SuspiciousJSPatterns)
	return &merged
}
