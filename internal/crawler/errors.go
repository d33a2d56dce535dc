package crawler

import "errors"

// Construction errors. These are the only failures that abort a whole site
// crawl; everything that happens per page is recorded in the statistics and
// never propagated.
var (
	// ErrEmptyHostname is returned when NewSite is given an empty hostname.
	ErrEmptyHostname = errors.New("hostname must not be empty")

	// ErrMalformedHostname is returned when the hostname contains a path
	// separator or whitespace. Callers should extract the hostname with
	// parser.Hostname before constructing a Site.
	ErrMalformedHostname = errors.New("hostname must not contain '/' or whitespace")

	// ErrInvalidPort is returned when the configured port is outside 1-65535.
	ErrInvalidPort = errors.New("port must be between 1 and 65535")
)
