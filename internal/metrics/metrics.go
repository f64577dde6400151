package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-churnform/pkg/lifecycle"
	"github.com/goliatone/go-churnform/pkg/predict"
)

const namespace = "churnform"

// Outcome labels for the submissions counter.
const (
	OutcomeChurn     = "churn"
	OutcomeStay      = "stay"
	OutcomeNetwork   = string(predict.FailureNetwork)
	OutcomeStatus    = string(predict.FailureStatus)
	OutcomeMalformed = string(predict.FailureMalformed)
)

// Metrics owns a private registry with the prediction and session
// collectors.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	latency     prometheus.Histogram
	rejected    prometheus.Counter
	inFlight    prometheus.Gauge
	sessions    prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Completed prediction requests by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Round-trip time of prediction requests.",
			Buckets:   prometheus.DefBuckets,
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_rejected_total",
			Help:      "Submissions refused because one was already in flight.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "predictions_in_flight",
			Help:      "Prediction requests currently awaiting a reply.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Form sessions currently held by the server.",
		}),
	}
	m.registry.MustRegister(m.submissions, m.latency, m.rejected, m.inFlight, m.sessions)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Observer returns a lifecycle observer that feeds these collectors.
func (m *Metrics) Observer() lifecycle.Observer {
	return observer{m: m}
}

// SessionOpened and SessionClosed track the session gauge.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

func (m *Metrics) SessionClosed() { m.sessions.Dec() }

type observer struct {
	m *Metrics
}

func (o observer) Submitted() {
	o.m.inFlight.Inc()
}

func (o observer) Completed(result predict.Result, kind predict.FailureKind, elapsed time.Duration) {
	o.m.inFlight.Dec()
	o.m.latency.Observe(elapsed.Seconds())
	switch {
	case kind != predict.FailureNone:
		o.m.submissions.WithLabelValues(string(kind)).Inc()
	case result.Churn():
		o.m.submissions.WithLabelValues(OutcomeChurn).Inc()
	default:
		o.m.submissions.WithLabelValues(OutcomeStay).Inc()
	}
}

func (o observer) Rejected() {
	o.m.rejected.Inc()
}
