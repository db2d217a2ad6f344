package detection

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stoik/phishing-detection/internal/domain"
)

// ExtractLexical computes the character statistics of a URL
//
// Pure and total: it never fails and performs no I/O. Counts are taken over the
// full URL string as submitted (scheme included).
func ExtractLexical(parsed domain.ParsedURL, tables *domain.ReferenceTables) domain.LexicalFeatures {
	raw := parsed.Raw

	var keywords []string
	if tables != nil {
		keywords = tables.SuspiciousKeywords
	}

	return domain.LexicalFeatures{
		URLLength:          utf8.RuneCountInString(raw),
		DomainLength:       utf8.RuneCountInString(parsed.RegistrableDomain),
		HostLength:         utf8.RuneCountInString(parsed.Netloc),
		NumDots:            strings.Count(raw, "."),
		NumHyphens:         strings.Count(raw, "-"),
		NumUnderscores:     strings.Count(raw, "_"),
		NumSlashes:         strings.Count(raw, "/"),
		NumQuestion:        strings.Count(raw, "?"),
		NumEqual:           strings.Count(raw, "="),
		NumAt:              strings.Count(raw, "@"),
		NumAmpersand:       strings.Count(raw, "&"),
		NumDigits:          countDigits(raw),
		HasHTTPS:           parsed.Scheme == "https",
		HasIP:              parsed.IsLiteralIP,
		SubdomainLevel:     parsed.SubdomainLevel(),
		PathLength:         utf8.RuneCountInString(parsed.Path),
		QueryLength:        utf8.RuneCountInString(parsed.Query),
		HasSuspiciousWords: containsAnyFold(raw, keywords),
	}
}

// countDigits counts Unicode decimal digits
func countDigits(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
