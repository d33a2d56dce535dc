// Package config defines the crawl configuration, its defaults, validation,
// and the optional YAML configuration file.
package config
