package detection

import (
	"github.com/stoik/phishing-detection/internal/domain"
)

// RiskSignal is one weighted condition contributing to the risk score
//
// Each signal inspects the feature vector only, which keeps scoring a pure
// function: the same vector always produces the same score.
type RiskSignal interface {
	// Name returns the human-readable name of this signal
	Name() string

	// Weight is the signed contribution added to the score when the signal applies
	Weight() int

	// Applies reports whether the signal holds for the vector
	Applies(f domain.FeatureVector) bool
}

// weightedSignal is the table-driven RiskSignal implementation
type weightedSignal struct {
	name   string
	weight int
	when   func(f domain.FeatureVector) bool
}

func (s weightedSignal) Name() string { return s.name }
func (s weightedSignal) Weight() int { return s.weight }
func (s weightedSignal) Applies(f domain.FeatureVector) bool { return s.when(f) }

// StandardSignals returns the risk signals and their weights
//
// Positive weights raise the score, negative weights are reassuring evidence.
func StandardSignals() []RiskSignal {
	return []RiskSignal{
		// Critical risk factors
		weightedSignal{"Newly registered domain", 20, func(f domain.FeatureVector) bool { return f.IsNewlyRegistered == 1 }},
		weightedSignal{"Self-signed TLS certificate", 15, func(f domain.FeatureVector) bool { return f.SSLSelfSigned == 1 }},
		weightedSignal{"Form posts to external host", 25, func(f domain.FeatureVector) bool { return f.FormPostsExternal == 1 }},
		weightedSignal{"Literal IP host", 15, func(f domain.FeatureVector) bool { return f.HasIP == 1 }},
		weightedSignal{"Brand typosquatting", 20, func(f domain.FeatureVector) bool { return f.TyposquattingScore >= 2 }},

		// Medium risk factors
		weightedSignal{"Login form", 10, func(f domain.FeatureVector) bool { return f.HasLoginForm == 1 }},
		weightedSignal{"Suspicious inline script", 10, func(f domain.FeatureVector) bool { return f.HasSuspiciousJS == 1 }},
		weightedSignal{"Cross-domain redirect", 10, func(f domain.FeatureVector) bool { return f.RedirectToDifferentDomain == 1 }},
		weightedSignal{"Non-ASCII domain", 10, func(f domain.FeatureVector) bool { return f.HasUnicodeChars == 1 }},
		weightedSignal{"Blacklist hit", 15, func(f domain.FeatureVector) bool { return f.BlacklistScore > 0 }},

		// Reassuring factors
		weightedSignal{"Trusted TLS certificate", -10, func(f domain.FeatureVector) bool {
			return f.HasValidSSL == 1 && f.SSLIssuerTrusted == 1
		}},
		weightedSignal{"Established domain", -15, func(f domain.FeatureVector) bool { return f.DomainAgeDays > 365 }},
		weightedSignal{"Trusted registrar", -5, func(f domain.FeatureVector) bool { return f.RegistrarReputation == 1 }},
	}
}
