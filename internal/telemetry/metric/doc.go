// Package metric provides Prometheus metrics for termsh.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: the metric registry and its recording helpers
//   - collector.go: a custom collector for live session state
//
// Metrics include:
//
//   - Command counters by kind and outcome
//   - Command latency histograms
//   - Completion request counters
//   - Degraded-mode notice counters
//   - History size and session uptime
//
// A shell has no scrape endpoint; when a textfile path is configured the
// registry is written in Prometheus text format at exit, ready for the
// node_exporter textfile collector.
package metric
