// Package parser provides URL processing and link extraction for Web Reaper.
//
// # Components
//
//   - URL helpers: Hostname, Path, and the validation predicates that decide
//     whether a candidate link is worth crawling
//   - Normalize: the lossy character filter applied to raw HTTP responses
//   - Extract: the marker scan that pulls candidate URLs out of a response
//
// Design decision: We deliberately do NOT use an HTML parser. The extractor
// is a tolerant token scan over the entire raw response (headers included)
// because:
//  1. The crawler treats the wire bytes as opaque text; there is no
//     content-type negotiation or chunked-encoding handling to produce a
//     clean HTML document in the first place
//  2. False positives are acceptable: every candidate still has to pass
//     validation, and the crawler deduplicates
//  3. The scan is resilient to arbitrarily broken markup
//
// The scan semantics (four start markers, five terminator characters, the
// drop-not-replace normalize filter) are load-bearing: a URL may legitimately
// be emitted once per matching marker, and deduplication is the caller's
// responsibility.
package parser
