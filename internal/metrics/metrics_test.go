package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.Deployment(OutcomeSuccess)
	r.Deployment(OutcomeFailure)
	r.Deployment(OutcomeSuccess)
	r.Callback(OutcomeFailure)
	r.Step("fetch", 2*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.deployments.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.deployments.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.callbacks.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.stepDuration))
	assert.Greater(t, testutil.ToFloat64(r.lastSuccessTS), 0.0)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Deployment(OutcomeSuccess)
		r.Step("run", time.Second)
		r.Callback(OutcomeSuccess)
	})
}
