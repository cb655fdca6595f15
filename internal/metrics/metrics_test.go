package metrics_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/task-api/internal/health"
	"github.com/ErlanBelekov/task-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type stubChecker struct {
	ready health.HealthResult
}

func (s stubChecker) Liveness(context.Context) health.HealthResult {
	return health.HealthResult{Status: "up"}
}

func (s stubChecker) Readiness(context.Context) health.HealthResult {
	return s.ready
}

func TestRegister_AllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.Register(reg)

	metrics.TasksCreatedTotal.Inc()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "taskapi_tasks_created_total" {
			found = true
		}
	}
	if !found {
		t.Error("taskapi_tasks_created_total not registered")
	}
}

func TestServer_Readiness(t *testing.T) {
	cases := []struct {
		name   string
		ready  health.HealthResult
		status int
	}{
		{"up", health.HealthResult{Status: "up"}, http.StatusOK},
		{"down", health.HealthResult{Status: "down", Checks: map[string]health.CheckResult{
			"postgres": {Status: "down", Error: "refused"},
		}}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := metrics.NewServer(":0", stubChecker{ready: tc.ready})

			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tc.status {
				t.Errorf("status = %d, want %d", w.Code, tc.status)
			}
			var got health.HealthResult
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Status != tc.ready.Status {
				t.Errorf("body status = %q, want %q", got.Status, tc.ready.Status)
			}
		})
	}
}

func TestServer_Liveness(t *testing.T) {
	srv := metrics.NewServer(":0", stubChecker{})

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
