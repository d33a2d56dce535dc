// Package main provides the entry point for the Web Reaper CLI.
//
// Web Reaper is a multi-site web crawler. Starting from seed hostnames it
// fetches pages over plain HTTP, measures response times, and follows
// links to other sites up to a configurable depth.
//
// Usage:
//
//	webreaper crawl example.com
//	webreaper crawl --depth 3 --workers 4 example.com example.org
//
// See --help for all available options.
package main

// main is the entry point for Web Reaper.
func main() {
	Execute()
}
