package metric

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "termsh"

// Command kinds used as label values.
const (
	KindBuiltin  = "builtin"
	KindExternal = "external"
)

// Command outcomes used as label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	CommandsTotal      *prometheus.CounterVec
	CommandDuration    *prometheus.HistogramVec
	SyntaxErrors       prometheus.Counter
	CompletionRequests *prometheus.CounterVec
	DegradedNotices    *prometheus.CounterVec
}

// NewRegistry creates a registry with the shell metrics and the Go runtime
// and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands dispatched, by kind and outcome.",
		}, []string{"kind", "command", "outcome"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Wall time spent executing a command.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"kind"}),
		SyntaxErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "syntax_errors_total",
			Help:      "Input lines rejected by the tokenizer.",
		}),
		CompletionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_requests_total",
			Help:      "Completion queries, by word position.",
		}, []string{"position"}),
		DegradedNotices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_notices_total",
			Help:      "Times a component fell back to reduced functionality.",
		}, []string{"source"}),
	}

	reg.MustRegister(
		r.CommandsTotal,
		r.CommandDuration,
		r.SyntaxErrors,
		r.CompletionRequests,
		r.DegradedNotices,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Register adds a custom collector.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// RecordCommand counts one dispatched command and its duration.
// Builtin commands are labelled by name; external commands share the
// "external" label to keep cardinality bounded.
func (r *Registry) RecordCommand(kind, command string, failed bool, seconds float64) {
	if kind == KindExternal {
		command = KindExternal
	}
	outcome := OutcomeOK
	if failed {
		outcome = OutcomeError
	}
	r.CommandsTotal.WithLabelValues(kind, command, outcome).Inc()
	r.CommandDuration.WithLabelValues(kind).Observe(seconds)
}

// IncSyntaxError counts one rejected input line.
func (r *Registry) IncSyntaxError() {
	r.SyntaxErrors.Inc()
}

// RecordCompletion counts one completion query.
func (r *Registry) RecordCompletion(position string) {
	r.CompletionRequests.WithLabelValues(position).Inc()
}

// RecordDegraded counts one degraded-mode fallback.
func (r *Registry) RecordDegraded(source string) {
	r.DegradedNotices.WithLabelValues(source).Inc()
}

// WriteTextfile writes every metric to path in Prometheus text format.
// The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
