package domain

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// ErrInvalidURL is the only fatal extraction error: nothing can be collected
// without a host.
var ErrInvalidURL = errors.New("invalid url")

// Pattern match only: 999.999.999.999 is flagged as a literal IP as well.
// IPv6 literals are not detected.
var dottedQuadRe = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// EnsureScheme prepends https:// when the input carries no http(s) scheme
func EnsureScheme(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// IsDottedQuad reports whether host looks like a literal IPv4 address
func IsDottedQuad(host string) bool {
	return dottedQuadRe.MatchString(host)
}

// ParseURL splits a raw URL into its normalized parts
//
// The raw string must already carry a scheme (see EnsureScheme).
func ParseURL(raw string) (ParsedURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ParsedURL{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" {
		return ParsedURL{}, fmt.Errorf("%w: missing scheme in %q", ErrInvalidURL, raw)
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" {
		return ParsedURL{}, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
	}

	netloc := u.Host
	if u.User != nil {
		netloc = u.User.String() + "@" + netloc
	}

	parsed := ParsedURL{
		Raw:         raw,
		Scheme:      strings.ToLower(u.Scheme),
		Host:        host,
		ASCIIHost:   ASCIIName(host),
		Port:        u.Port(),
		Netloc:      netloc,
		Path:        u.EscapedPath(),
		Query:       u.RawQuery,
		IsLiteralIP: IsDottedQuad(host),
	}

	parsed.RegistrableDomain, parsed.Subdomain = splitRegistrable(host, parsed.IsLiteralIP)
	parsed.ASCIIRegistrable = ASCIIName(parsed.RegistrableDomain)
	return parsed, nil
}

// ASCIIName returns the punycode (xn--) form of a domain name
//
// Resolvers, WHOIS servers and TLS peers only know this form. Names that are
// already ASCII, or that idna rejects, are returned lowercased but otherwise
// unchanged.
func ASCIIName(name string) string {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	if ascii, err := idna.Lookup.ToASCII(name); err == nil && ascii != "" {
		return ascii
	}
	return name
}

// splitRegistrable derives the registrable domain (public suffix + one label)
// and the subdomain labels in front of it.
func splitRegistrable(host string, literalIP bool) (string, string) {
	if literalIP {
		return host, ""
	}

	// Suffix lookup needs the ASCII form; labels are mapped back onto the
	// original host so Unicode domains keep their Unicode spelling.
	registrable, err := publicsuffix.EffectiveTLDPlusOne(ASCIIName(host))
	if err != nil {
		return host, ""
	}

	labels := strings.Split(host, ".")
	n := strings.Count(registrable, ".") + 1
	if n > len(labels) {
		return host, ""
	}
	return strings.Join(labels[len(labels)-n:], "."), strings.Join(labels[:len(labels)-n], ".")
}

// SubdomainLevel returns the number of labels in the subdomain part
func (p ParsedURL) SubdomainLevel() int {
	if p.Subdomain == "" {
		return 0
	}
	return strings.Count(p.Subdomain, ".") + 1
}

// TLD returns the last label of the registrable domain
func (p ParsedURL) TLD() string {
	if i := strings.LastIndex(p.RegistrableDomain, "."); i >= 0 {
		return p.RegistrableDomain[i+1:]
	}
	return p.RegistrableDomain
}
