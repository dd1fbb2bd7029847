package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNew(t *testing.T) {
	m := New()
	if m == nil {
		t.Fatal("New() returned nil")
	}
	if m.Registry() == nil {
		t.Error("Registry() returned nil")
	}

	if m.RunsTotal == nil {
		t.Error("RunsTotal is nil")
	}
	if m.ContactsProcessedTotal == nil {
		t.Error("ContactsProcessedTotal is nil")
	}
	if m.ContactsByStatus == nil {
		t.Error("ContactsByStatus is nil")
	}
	if m.LogEntriesTotal == nil {
		t.Error("LogEntriesTotal is nil")
	}
	if m.APIRequestsTotal == nil {
		t.Error("APIRequestsTotal is nil")
	}
	if m.APIRequestDurationSeconds == nil {
		t.Error("APIRequestDurationSeconds is nil")
	}
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("get counter: %v", err)
	}
	metric := &dto.Metric{}
	if err := c.Write(metric); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func TestObserveRun(t *testing.T) {
	m := New()

	m.ObserveRun("SEND", "COMPLETED", map[string]int{"SENT": 3, "ERRORED": 1})
	m.ObserveRun("SEND", "COMPLETED", nil)
	m.ObserveRun("DRY_RUN", "CANCELLED", map[string]int{"DRAFTED": 2})

	if got := counterValue(t, m.RunsTotal, "SEND", "COMPLETED"); got != 2 {
		t.Errorf("runs{SEND,COMPLETED} = %v, want 2", got)
	}
	if got := counterValue(t, m.RunsTotal, "DRY_RUN", "CANCELLED"); got != 1 {
		t.Errorf("runs{DRY_RUN,CANCELLED} = %v, want 1", got)
	}
	if got := counterValue(t, m.ContactsProcessedTotal, "SENT"); got != 3 {
		t.Errorf("contacts{SENT} = %v, want 3", got)
	}
	if got := counterValue(t, m.ContactsProcessedTotal, "DRAFTED"); got != 2 {
		t.Errorf("contacts{DRAFTED} = %v, want 2", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRun("SEND", "COMPLETED", map[string]int{"SENT": 1})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "reachly_runs_total") {
		t.Error("exposition is missing reachly_runs_total")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("exposition is missing the Go collector")
	}
}
