package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SessionSource reports live session state.
type SessionSource interface {
	HistoryLen() int
	Started() time.Time
}

// Collector collects session state at gather time.
type Collector struct {
	source SessionSource

	historyEntries *prometheus.Desc
	uptime         *prometheus.Desc
}

// NewCollector creates a collector reading from source.
func NewCollector(source SessionSource) *Collector {
	return &Collector{
		source: source,
		historyEntries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "history_entries"),
			"Lines currently held in command history.",
			nil, nil,
		),
		uptime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "uptime_seconds"),
			"Seconds since the shell session started.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.historyEntries
	ch <- c.uptime
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.historyEntries, prometheus.GaugeValue, float64(c.source.HistoryLen()))
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, time.Since(c.source.Started()).Seconds())
}
