package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ProviderCall("seat", "ok", 400*time.Millisecond)
	r.ProviderCall("seat", "ok", 300*time.Millisecond)
	r.ProviderCall("seat", "provider_unavailable", time.Second)
	r.Lookup("seat", LookupMiss)
	r.Lookup("seat", LookupHit)
	r.Lookup("seat", LookupHit)
	r.Step()
	r.SessionStarted()
	r.SessionStarted()
	r.SessionEnded()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.providerCalls.WithLabelValues("seat", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.providerCalls.WithLabelValues("seat", "provider_unavailable")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.coalescer.WithLabelValues("seat", LookupHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.simulatorSteps))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.activeSessions))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ProviderCall("seat", "ok", time.Millisecond)
		r.Lookup("seat", LookupHit)
		r.Step()
		r.SessionStarted()
		r.SessionEnded()
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)
	r.Step()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "yatriq_simulator_steps_total 1")
}
