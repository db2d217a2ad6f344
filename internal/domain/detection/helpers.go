package detection

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// editDistance returns the case-insensitive Levenshtein distance between two strings
func editDistance(s1, s2 string) int {
	return levenshtein.ComputeDistance(strings.ToLower(s1), strings.ToLower(s2))
}

// containsAnyFold checks if text contains any of the keywords, ignoring case
func containsAnyFold(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// isASCII reports whether s is encodable as plain ASCII
func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// hasPrefixAny reports whether s starts with one of the prefixes
func hasPrefixAny(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
