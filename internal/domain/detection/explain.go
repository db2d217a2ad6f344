package detection

import (
	"github.com/stoik/phishing-detection/internal/domain"
)

// Severity grades how a finding is phrased to the reader
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityPositive Severity = "positive"
)

// Finding is one named condition of the explanation check list
type Finding struct {
	Name     string
	Severity Severity
	Message  string
	Holds    func(f domain.FeatureVector) bool
}

// StandardFindings is the fixed, ordered explanation check list
//
// Order matters: explanations are emitted in this order whatever the scoring
// order, so identical vectors always produce identical lists.
func StandardFindings() []Finding {
	return []Finding{
		{
			Name:     "NEWLY_REGISTERED",
			Severity: SeverityWarning,
			Message:  "⚠️ Domain was registered within the last 30 days (high risk)",
			Holds:    func(f domain.FeatureVector) bool { return f.IsNewlyRegistered == 1 },
		},
		{
			Name:     "SELF_SIGNED_CERTIFICATE",
			Severity: SeverityWarning,
			Message:  "⚠️ Site presents a self-signed TLS certificate",
			Holds:    func(f domain.FeatureVector) bool { return f.SSLSelfSigned == 1 },
		},
		{
			Name:     "CREDENTIAL_HARVESTING",
			Severity: SeverityCritical,
			Message:  "🚨 Login form submits credentials to an external host (critical risk)",
			Holds: func(f domain.FeatureVector) bool {
				return f.HasLoginForm == 1 && f.FormPostsExternal == 1
			},
		},
		{
			Name:     "EXTERNAL_FORM_TARGET",
			Severity: SeverityWarning,
			Message:  "⚠️ A form on the page submits to an external host",
			Holds: func(f domain.FeatureVector) bool {
				return f.HasLoginForm == 0 && f.FormPostsExternal == 1
			},
		},
		{
			Name:     "TYPOSQUATTING",
			Severity: SeverityWarning,
			Message:  "⚠️ Domain closely resembles a popular brand (possible typosquatting)",
			Holds:    func(f domain.FeatureVector) bool { return f.TyposquattingScore >= 2 },
		},
		{
			Name:     "HOMOGRAPH",
			Severity: SeverityWarning,
			Message:  "⚠️ Domain contains non-ASCII characters (homograph attack risk)",
			Holds:    func(f domain.FeatureVector) bool { return f.HasUnicodeChars == 1 },
		},
		{
			Name:     "LITERAL_IP",
			Severity: SeverityWarning,
			Message:  "⚠️ URL uses an IP address instead of a domain name",
			Holds:    func(f domain.FeatureVector) bool { return f.HasIP == 1 },
		},
		{
			Name:     "CROSS_DOMAIN_REDIRECT",
			Severity: SeverityWarning,
			Message:  "⚠️ URL redirects to a different domain",
			Holds:    func(f domain.FeatureVector) bool { return f.RedirectToDifferentDomain == 1 },
		},
		{
			Name:     "SUSPICIOUS_SCRIPT",
			Severity: SeverityWarning,
			Message:  "⚠️ Page runs obfuscation-style inline JavaScript",
			Holds:    func(f domain.FeatureVector) bool { return f.HasSuspiciousJS == 1 },
		},
		{
			Name:     "BLACKLIST",
			Severity: SeverityWarning,
			Message:  "⚠️ Domain uses a free TLD commonly abused for phishing",
			Holds:    func(f domain.FeatureVector) bool { return f.BlacklistScore > 0 },
		},
		{
			Name:     "NO_DNS",
			Severity: SeverityWarning,
			Message:  "⚠️ Domain has no DNS A record",
			Holds: func(f domain.FeatureVector) bool {
				return f.DNSRecordExists == 0 && f.HasIP == 0
			},
		},
		{
			Name:     "TRUSTED_CERTIFICATE",
			Severity: SeverityPositive,
			Message:  "✓ Valid TLS certificate from a trusted issuer",
			Holds: func(f domain.FeatureVector) bool {
				return f.HasValidSSL == 1 && f.SSLIssuerTrusted == 1
			},
		},
		{
			Name:     "ESTABLISHED_DOMAIN",
			Severity: SeverityPositive,
			Message:  "✓ Domain was registered over a year ago",
			Holds:    func(f domain.FeatureVector) bool { return f.DomainAgeDays > 365 },
		},
		{
			Name:     "TRUSTED_REGISTRAR",
			Severity: SeverityPositive,
			Message:  "✓ Registered with a reputable registrar",
			Holds:    func(f domain.FeatureVector) bool { return f.RegistrarReputation == 1 },
		},
	}
}
