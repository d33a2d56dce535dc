// Package metrics bundles the Prometheus collectors for Web Reaper.
//
// All collectors live on a dedicated registry so tests can create isolated
// instances and the CLI can decide whether to expose them at all. Every
// method is safe to call on a nil *Metrics, which lets the crawler and
// scheduler treat instrumentation as strictly optional.
package metrics
