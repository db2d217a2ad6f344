package detection

import (
	"strings"

	"golang.org/x/net/idna"

	"github.com/stoik/phishing-detection/internal/domain"
)

// DetectTyposquatting compares a registrable domain with the popular brand list
//
// The minimum edit distance over all brands wins, whichever brand produced it.
// Score tiers: distance <=2 -> 3, <=4 -> 2, <=6 -> 1, otherwise 0. An empty
// brand list yields the sentinel distance and a zero score.
func DetectTyposquatting(registrable string, tables *domain.ReferenceTables) domain.TyposquatResult {
	result := domain.TyposquatResult{MinEditDistance: domain.NoBrandMatchDistance}

	var brands []string
	if tables != nil {
		brands = tables.PopularDomains
	}

	for _, brand := range brands {
		distance := editDistance(registrable, brand)
		if distance < result.MinEditDistance {
			result.MinEditDistance = distance
			result.ClosestBrand = brand
		}
	}
	result.Score = typosquattingTier(result.MinEditDistance)

	if isHomograph(registrable) {
		result.HasUnicodeChars = true
		result.HomographScore = 1
	}

	return result
}

func typosquattingTier(distance int) int {
	switch {
	case distance <= 2:
		return 3
	case distance <= 4:
		return 2
	case distance <= 6:
		return 1
	default:
		return 0
	}
}

// isHomograph flags domains that are not plain ASCII, including punycode
// labels that decode to non-ASCII text.
func isHomograph(name string) bool {
	if !isASCII(name) {
		return true
	}
	if !strings.Contains(name, "xn--") {
		return false
	}
	decoded, err := idna.ToUnicode(name)
	return err == nil && !isASCII(decoded)
}
