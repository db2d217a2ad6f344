package whois

import (
	"strings"
	"time"
)

// Registries disagree on date formats; these cover the common gTLD and ccTLD servers.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.0Z",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02",
	"02-Jan-2006",
	"2006/01/02",
	"2006.01.02",
	"02.01.2006",
	"02/01/2006",
	"20060102",
	"Mon Jan 2 15:04:05 MST 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// ParseDate parses a WHOIS date field
//
// Fields that list several dates keep the first one.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if t, ok := parseLayouts(raw); ok {
		return t, true
	}
	if first, _, found := strings.Cut(raw, ","); found {
		return parseLayouts(strings.TrimSpace(first))
	}
	return time.Time{}, false
}

func parseLayouts(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
