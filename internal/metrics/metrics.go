package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Document statuses.
const (
	StatusOK         = "ok"
	StatusUnreadable = "unreadable"
	StatusFailed     = "failed"
)

// Metrics holds the converter collectors on a private registry. It
// implements parser.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	Tokens        *prometheus.CounterVec
	Commits       *prometheus.CounterVec
	Documents     *prometheus.CounterVec
	ParseDuration prometheus.Histogram
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a new registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phonebill",
			Subsystem: "parser",
			Name:      "tokens_total",
			Help:      "Tokens classified, by outcome.",
		}, []string{"outcome"}),
		Commits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phonebill",
			Subsystem: "parser",
			Name:      "records_total",
			Help:      "Records committed, by kind (call, sms, group, sum).",
		}, []string{"kind"}),
		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phonebill",
			Name:      "documents_total",
			Help:      "Documents processed, by status.",
		}, []string{"status"}),
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "phonebill",
			Name:      "document_duration_seconds",
			Help:      "Time to extract and parse one document.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) Token(outcome string) { m.Tokens.WithLabelValues(outcome).Inc() }

func (m *Metrics) Commit(kind string) { m.Commits.WithLabelValues(kind).Inc() }

// Document counts one processed document and, for successful ones, its duration.
func (m *Metrics) Document(status string, elapsed time.Duration) {
	m.Documents.WithLabelValues(status).Inc()
	if status == StatusOK {
		m.ParseDuration.Observe(elapsed.Seconds())
	}
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
