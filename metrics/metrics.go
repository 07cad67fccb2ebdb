// Package metrics exposes Prometheus instrumentation for providers, the
// request coalescer and the position simulator.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "yatriq"

// Coalescer lookup outcomes
const (
	LookupHit     = "hit"
	LookupMiss    = "miss"
	LookupShared  = "shared"
	LookupExpired = "expired"
)

// Recorder holds the collectors. A nil *Recorder records nothing.
type Recorder struct {
	providerCalls   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	coalescer       *prometheus.CounterVec
	simulatorSteps  prometheus.Counter
	activeSessions  prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		providerCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Provider adapter invocations by capability and outcome.",
		}, []string{"capability", "outcome"}),
		providerLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "latency_seconds",
			Help:      "Provider adapter latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"capability"}),
		coalescer: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coalescer",
			Name:      "lookups_total",
			Help:      "Coalescer lookups by capability and result (hit, miss, shared, expired).",
		}, []string{"capability", "result"}),
		simulatorSteps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "steps_total",
			Help:      "Station advances performed by tracking sessions.",
		}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "active_sessions",
			Help:      "Tracking sessions currently running.",
		}),
	}
}

// ProviderCall records one adapter call.
func (r *Recorder) ProviderCall(capability, outcome string, took time.Duration) {
	if r == nil {
		return
	}
	r.providerCalls.WithLabelValues(capability, outcome).Inc()
	r.providerLatency.WithLabelValues(capability).Observe(took.Seconds())
}

// Lookup records a coalescer lookup result.
func (r *Recorder) Lookup(capability, result string) {
	if r == nil {
		return
	}
	r.coalescer.WithLabelValues(capability, result).Inc()
}

// Step records one simulator advance.
func (r *Recorder) Step() {
	if r == nil {
		return
	}
	r.simulatorSteps.Inc()
}

// SessionStarted and SessionEnded track running sessions.
func (r *Recorder) SessionStarted() {
	if r == nil {
		return
	}
	r.activeSessions.Inc()
}

func (r *Recorder) SessionEnded() {
	if r == nil {
		return
	}
	r.activeSessions.Dec()
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
