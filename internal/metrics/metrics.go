// Package metrics records run counters on a private prometheus registry.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Row outcomes.
const (
	OutcomeAccepted  = "accepted"
	OutcomeMalformed = "malformed"
	OutcomeRejected  = "rejected"
)

// Row kinds.
const (
	KindAssociation = "association"
	KindEdge        = "edge"
)

// Recorder receives engine measurements.
type Recorder interface {
	// Observe records an operation outcome and its duration.
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
	// Row counts one ingested row.
	Row(kind, outcome string)
	// Relaxation counts a phenotype moved to a shorter distance.
	Relaxation()
}

// Prometheus implements Recorder with prometheus collectors.
type Prometheus struct {
	registry    *prometheus.Registry
	rows        *prometheus.CounterVec
	relaxations prometheus.Counter
	durations   *prometheus.HistogramVec
}

// NewPrometheus registers the genepri collectors plus the Go runtime
// collectors on a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)
	return &Prometheus{
		registry: reg,
		rows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "genepri_rows_total",
			Help: "Rows ingested from the knowledge base by kind and outcome",
		}, []string{"kind", "outcome"}),
		relaxations: factory.NewCounter(prometheus.CounterOpts{
			Name: "genepri_phenotype_relaxations_total",
			Help: "Phenotypes moved to a shorter distance during expansion",
		}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "genepri_operation_duration_seconds",
			Help:    "Duration of engine operations",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		}, []string{"operation", "status"}),
	}
}

// Observe implements Recorder.
func (p *Prometheus) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	p.durations.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// Row implements Recorder.
func (p *Prometheus) Row(kind, outcome string) { p.rows.WithLabelValues(kind, outcome).Inc() }

// Relaxation implements Recorder.
func (p *Prometheus) Relaxation() { p.relaxations.Inc() }

// Registry exposes the registry for tests and custom exporters.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Noop discards every measurement.
type Noop struct{}

// Observe implements Recorder.
func (Noop) Observe(context.Context, string, bool, time.Duration) {}

// Row implements Recorder.
func (Noop) Row(string, string) {}

// Relaxation implements Recorder.
func (Noop) Relaxation() {}

// OrNoop returns r, or Noop when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return Noop{}
	}
	return r
}
