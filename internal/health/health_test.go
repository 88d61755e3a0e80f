package health

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
)

type stubChecker struct {
	name   string
	result CheckResult
}

func (s stubChecker) Name() string                          { return s.name }
func (s stubChecker) Check(ctx context.Context) CheckResult { return s.result }

func TestHandler_AllHealthy(t *testing.T) {
	h := Handler(stubChecker{"store", CheckResult{Name: "store", Status: StatusHealthy}})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != 200 {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
}

func TestHandler_UnhealthyReturns503(t *testing.T) {
	h := Handler(stubChecker{"store", CheckResult{Name: "store", Status: StatusUnhealthy, Message: "store closed"}})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != 503 {
		t.Fatalf("code = %d, want 503", rec.Code)
	}
}

func TestStoreChecker(t *testing.T) {
	ok := NewStoreChecker(func(ctx context.Context) error { return nil })
	if ok.Check(context.Background()).Status != StatusHealthy {
		t.Fatal("expected healthy when ping succeeds")
	}

	bad := NewStoreChecker(func(ctx context.Context) error { return errors.New("closed") })
	if bad.Check(context.Background()).Status != StatusUnhealthy {
		t.Fatal("expected unhealthy when ping fails")
	}
}
