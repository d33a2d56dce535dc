// Package crawler implements the per-site breadth-first page crawler.
//
// # Architecture
//
// The crawler is built around the Site type. One Site owns one host's
// traversal: a FIFO frontier of pending page paths, a visited-path set, and
// one outbound TCP connection used for a single page at a time. Crawls of
// different sites never share state, so everything in this package is free
// of locking; concurrency across sites belongs to the scheduler package.
//
// Design decision: We speak HTTP/1.1 over a raw TCP connection (one
// connection per request, "Connection: close") rather than using net/http
// because:
//  1. The response time we report is the latency to the first byte on the
//     wire, measured from the moment the request is written; net/http's
//     transport pooling and buffering sit in the way of that measurement
//  2. The response is treated as opaque text for link scanning, headers and
//     body alike; there is nothing for a real HTTP client to parse for us
//  3. Redirects, chunked decoding, and keep-alive are all explicitly out of
//     scope
//
// # Politeness
//
// A configurable delay is applied before every request except the first,
// and both connect and read/write operations carry bounded timeouts so a
// stuck server can only cost one timeout per page.
package crawler
