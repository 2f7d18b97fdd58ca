package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.ObserveRegistration(OutcomeSuccess)
	a.ObserveRegistration(OutcomeDuplicate)
	a.ObserveRegistration(OutcomeDuplicate)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.RegistrationsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.RegistrationsTotal.WithLabelValues(OutcomeDuplicate)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RegistrationsTotal.WithLabelValues(OutcomeDuplicate)))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRegistration(OutcomeSuccess)
		m.ObserveDrop(OutcomeNotFound)
		m.IncrementResultsRecorded()
		m.ObserveProjection("dashboard", time.Now())
		m.ObserveHTTPRequest("GET", "/health", "200", time.Now())
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncrementResultsRecorded()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "unirecords_results_recorded_total 1")
}
