// Package metrics holds the Prometheus collectors for deployments.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Deployment outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder observes deployment activity.
type Recorder struct {
	deployments   *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	callbacks     *prometheus.CounterVec
	lastSuccessTS prometheus.Gauge
}

// NewRecorder registers the deployment collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		deployments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lighthouse_hook",
			Name:      "deployments_total",
			Help:      "Deployments attempted, by outcome.",
		}, []string{"outcome"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lighthouse_hook",
			Name:      "deployment_step_duration_seconds",
			Help:      "Duration of each deployment step.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"step"}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lighthouse_hook",
			Name:      "callbacks_total",
			Help:      "Callback notifications sent, by outcome.",
		}, []string{"outcome"}),
		lastSuccessTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lighthouse_hook",
			Name:      "last_successful_deployment_timestamp_seconds",
			Help:      "Unix time of the last successful deployment.",
		}),
	}
	reg.MustRegister(r.deployments, r.stepDuration, r.callbacks, r.lastSuccessTS)
	return r
}

// Deployment counts a finished deployment.
func (r *Recorder) Deployment(outcome string) {
	if r == nil {
		return
	}
	r.deployments.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		r.lastSuccessTS.SetToCurrentTime()
	}
}

// Step records how long a workflow step took.
func (r *Recorder) Step(step string, d time.Duration) {
	if r == nil {
		return
	}
	r.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// Callback counts a callback notification.
func (r *Recorder) Callback(outcome string) {
	if r == nil {
		return
	}
	r.callbacks.WithLabelValues(outcome).Inc()
}
