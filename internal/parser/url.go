package parser

import (
	"strings"
	"unicode"
)

// Scheme prefixes stripped before hostname/path extraction.
const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// allowedDomains is the coarse TLD allowlist. A hostname is accepted when it
// ends with one of these suffixes. This is not a registrable-domain check;
// "evil.com.invalid" fails and "a.co" passes, which is good enough for
// steering the crawl toward ordinary websites.
var allowedDomains = []string{".com", ".pk", ".edu", ".net", ".co", ".org", ".me"}

// forbiddenTypes rejects asset and document URLs. Matching is substring, not
// suffix: a query string containing ".pdf" also rejects. Cheap and tolerant
// of URLs like "/style.css?v=2".
var forbiddenTypes = []string{".css", ".js", ".pdf", ".png", ".jpeg", ".jpg", ".ico"}

// stripScheme removes an optional http:// or https:// prefix.
func stripScheme(url string) string {
	if strings.HasPrefix(url, schemeHTTPS) {
		return url[len(schemeHTTPS):]
	}
	if strings.HasPrefix(url, schemeHTTP) {
		return url[len(schemeHTTP):]
	}
	return url
}

// Hostname extracts the hostname from a URL: everything after the optional
// scheme up to (not including) the next '/', or the whole remainder when the
// URL has no path.
func Hostname(url string) string {
	rest := stripScheme(url)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// Path extracts the path from a URL including its leading '/'. A URL without
// a path segment yields "/". A run of leading slashes collapses down to one.
func Path(url string) string {
	rest := stripScheme(url)
	i := strings.IndexByte(rest, '/')
	if i < 0 {
		return "/"
	}

	path := rest[i:]
	j := 0
	for j < len(path) && path[j] == '/' {
		j++
	}
	if j == len(path) {
		return "/"
	}
	return path[j-1:]
}

// AllowedDomain reports whether the hostname ends with one of the allowed
// TLD suffixes.
func AllowedDomain(hostname string) bool {
	for _, suffix := range allowedDomains {
		if strings.HasSuffix(hostname, suffix) {
			return true
		}
	}
	return false
}

// AllowedType reports whether the URL avoids every forbidden asset
// extension. The check is a substring match anywhere in the URL.
func AllowedType(url string) bool {
	for _, ext := range forbiddenTypes {
		if strings.Contains(url, ext) {
			return false
		}
	}
	return true
}

// ValidLink reports whether a candidate URL is worth crawling: non-empty,
// with a hostname in an allowed domain, not a forbidden asset type, and not
// a mailto link.
func ValidLink(url string) bool {
	if url == "" {
		return false
	}
	hostname := Hostname(url)
	if hostname == "" || !AllowedDomain(hostname) {
		return false
	}
	if !AllowedType(url) {
		return false
	}
	if strings.Contains(url, "mailto:") {
		return false
	}
	return true
}

// normalizeKeep is the character allowlist for Normalize. Characters outside
// this set (other than newline) are dropped entirely.
const normalizeKeep = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.,/\":#?+-_= "

// normalizeTable maps each byte to its normalized form, or -1 to drop it.
var normalizeTable = func() [256]rune {
	var table [256]rune
	for i := range table {
		table[i] = -1
	}
	for _, ch := range normalizeKeep {
		table[byte(ch)] = unicode.ToLower(ch)
	}
	table['\n'] = ' '
	return table
}()

// Normalize filters raw response text down to the character allowlist:
// newlines become spaces, kept characters are lower-cased, and everything
// else is dropped. Dropping (rather than replacing) means tokens separated
// only by a dropped character are concatenated; the extractor's marker set
// depends on this exact behavior, so it must not be "fixed".
//
// Normalize is idempotent: running it on its own output returns the input
// unchanged.
func Normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if mapped := normalizeTable[text[i]]; mapped >= 0 {
			sb.WriteByte(byte(mapped))
		}
	}
	return sb.String()
}
