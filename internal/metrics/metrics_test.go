package metrics

import (
	"net/http/httptest"
	"testing"
)

func TestCollector_RecordsWithoutPanicking(t *testing.T) {
	c := New()
	c.ObserveRequest("/api/datasets", "GET", "2xx", 0.012)
	c.ObserveCacheLookup("api", true)
	c.ObserveCacheLookup("stats", false)
	c.ObserveStoreQuery("fast", nil)
	c.ObserveStoreQuery("slow", errBoom)
}

func TestCollector_HandlerServesMetrics(t *testing.T) {
	c := New()
	c.ObserveRequest("/health", "GET", "2xx", 0.001)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("expected non-empty metrics body")
	}
}

var errBoom = &stubErr{}

type stubErr struct{}

func (e *stubErr) Error() string { return "boom" }
