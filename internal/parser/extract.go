package parser

import "strings"

// urlMarkers are the substrings that introduce a candidate URL in normalized
// response text. Note that href markers and scheme markers overlap: a fully
// qualified href matches twice and is emitted twice. Deduplication belongs to
// the caller.
var urlMarkers = []string{`href="`, `href = "`, "http://", "https://"}

// urlTerminators are the characters that end a candidate URL.
const urlTerminators = `"#?, `

// Link is a candidate link split into its hostname and path components.
// Hostname is empty for relative links.
type Link struct {
	Hostname string
	Path     string
}

// Extract scans raw HTTP response text for candidate URLs and returns the
// valid ones split into (hostname, path) pairs in scan order.
//
// The text is normalized first, then each marker is scanned independently:
// every occurrence yields the substring up to the next terminator character.
// A candidate with no terminator before the end of the text ends that
// marker's pass; partial URLs truncated by the end of the response are not
// worth guessing at.
func Extract(httpText string) []Link {
	normalized := Normalize(httpText)
	links := make([]Link, 0)

	for _, marker := range urlMarkers {
		pos := 0
		for {
			i := strings.Index(normalized[pos:], marker)
			if i < 0 {
				break
			}
			pos += i + len(marker)

			end := strings.IndexAny(normalized[pos:], urlTerminators)
			if end < 0 {
				break
			}

			url := normalized[pos : pos+end]
			if ValidLink(url) {
				links = append(links, Link{Hostname: Hostname(url), Path: Path(url)})
			}
			pos += end
		}
	}

	return links
}
