package domain

// SignalSet gathers the per-group results of one extraction
//
// Nil groups were not collected (basic mode) and contribute their defaults.
type SignalSet struct {
	Lexical   *LexicalFeatures
	Whois     *WhoisResult
	TLS       *TLSResult
	DNS       *DNSResult
	Content   *ContentResult
	Typosquat *TyposquatResult
	IP        *IPReputation
	Blacklist *BlacklistResult
}

// Aggregate merges collector outputs into one complete FeatureVector
//
// Degraded groups already carry their defaults, so they are merged like any
// other result; missing groups leave DefaultFeatureVector values in place.
func Aggregate(s SignalSet) FeatureVector {
	f := DefaultFeatureVector()

	if l := s.Lexical; l != nil {
		f.URLLength = l.URLLength
		f.DomainLength = l.DomainLength
		f.HostLength = l.HostLength
		f.NumDots = l.NumDots
		f.NumHyphens = l.NumHyphens
		f.NumUnderscores = l.NumUnderscores
		f.NumSlashes = l.NumSlashes
		f.NumQuestion = l.NumQuestion
		f.NumEqual = l.NumEqual
		f.NumAt = l.NumAt
		f.NumAmpersand = l.NumAmpersand
		f.NumDigits = l.NumDigits
		f.HasHTTPS = flag(l.HasHTTPS)
		f.HasIP = flag(l.HasIP)
		f.SubdomainLevel = l.SubdomainLevel
		f.PathLength = l.PathLength
		f.QueryLength = l.QueryLength
		f.HasSuspiciousWords = flag(l.HasSuspiciousWords)
	}

	if w := s.Whois; w != nil {
		f.DomainAgeDays = w.AgeDays
		f.DomainExpiryDays = w.ExpiryDays
		f.RegistrarReputation = flag(w.TrustedRegistrar)
		f.WhoisPrivacy = flag(w.Record.RegistrantPrivacyFlag)
		f.IsNewlyRegistered = flag(w.NewlyRegistered)
	}

	if t := s.TLS; t != nil {
		c := t.Certificate
		f.HasValidSSL = flag(c.Present)
		f.SSLIssuerTrusted = flag(c.IssuerTrusted)
		f.SSLSelfSigned = flag(c.SelfSigned)
		f.SSLDaysToExpiry = c.DaysToExpiry
		// a missing certificate is not a mismatch
		f.SSLDomainMismatch = flag(c.Present && !c.HostnameMatches)
	}

	if ip := s.IP; ip != nil {
		f.IPAddress = ip.IPAddress
		f.IsPrivateIP = flag(ip.IsPrivateIP)
		f.ASNReputation = ip.ASNReputation
		f.HostingProviderSuspicious = flag(ip.HostingProviderSuspicious)
	}

	if b := s.Blacklist; b != nil {
		f.InPhishTank = flag(b.InPhishTank)
		f.InGoogleSafeBrowsing = flag(b.InGoogleSafeBrowsing)
		f.BlacklistScore = b.Score
	}

	if c := s.Content; c != nil {
		p := c.Page
		f.HasLoginForm = flag(p.HasLoginForm)
		f.HasPasswordField = flag(p.HasPasswordField)
		f.NumExternalLinks = p.NumExternalLinks
		f.HasHiddenFields = flag(p.HasHiddenFields)
		f.HasSuspiciousJS = flag(p.HasSuspiciousJS)
		f.HasIframes = flag(p.HasIframes)
		f.FormPostsExternal = flag(p.FormPostsExternal)
		f.PageTitleMismatch = flag(p.PageTitleMismatch)

		f.NumRedirects = c.Redirect.Hops
		f.RedirectChainLength = c.Redirect.Hops
		f.RedirectToDifferentDomain = flag(c.Redirect.CrossDomainLanding)
	}

	if t := s.Typosquat; t != nil {
		f.TyposquattingScore = t.Score
		f.MinEditDistance = t.MinEditDistance
		f.HasUnicodeChars = flag(t.HasUnicodeChars)
		f.HomographScore = t.HomographScore
	}

	if d := s.DNS; d != nil {
		f.DNSRecordExists = flag(d.HasA)
		f.HasMXRecord = flag(d.HasMX)
		f.NumDNSRecords = d.ARecordCount
	}

	return f
}
