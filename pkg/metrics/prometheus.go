package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	eventsTotal    *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	visibleSignals prometheus.Gauge
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		eventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldash_events_applied_total",
				Help: "Total number of events applied to dashboard state",
			},
			[]string{"kind"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldash_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signaldash_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		visibleSignals: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "signaldash_visible_signals",
				Help: "Number of signals currently in the visible window",
			},
		),
	}
}

// RecordEvent records an applied event (push or pull result).
func (r *Recorder) RecordEvent(kind string) {
	r.eventsTotal.WithLabelValues(kind).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordVisibleSignals(n int) {
	r.visibleSignals.Set(float64(n))
}

// Nop discards all measurements.
type Nop struct{}

func (Nop) RecordEvent(string)            {}
func (Nop) RecordError(string)            {}
func (Nop) RecordLatency(string, float64) {}
func (Nop) RecordVisibleSignals(int)      {}
