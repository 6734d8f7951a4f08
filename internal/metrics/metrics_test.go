package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersCollectors(t *testing.T) {
	m := New()

	m.PipelineRuns.WithLabelValues("completed").Inc()
	m.PipelineRuns.WithLabelValues("failed").Add(2)
	m.UploadsReceived.Inc()
	m.StageDuration.WithLabelValues("thumbnail").Observe(0.25)

	if got := testutil.ToFloat64(m.PipelineRuns.WithLabelValues("completed")); got != 1 {
		t.Errorf("completed runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PipelineRuns.WithLabelValues("failed")); got != 2 {
		t.Errorf("failed runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.UploadsReceived); got != 1 {
		t.Errorf("uploads = %v, want 1", got)
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.UploadsReceived.Inc()

	if got := testutil.ToFloat64(b.UploadsReceived); got != 0 {
		t.Errorf("registries are shared: b.UploadsReceived = %v, want 0", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.UploadsReceived.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "uploads_received_total 1") {
		t.Errorf("exposition missing counter, body:\n%s", body)
	}
}
