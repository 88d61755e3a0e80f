package logging

import (
	"context"
	"testing"
)

func TestWithRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	if got := GetRequestID(ctx); got != "req-123" {
		t.Fatalf("GetRequestID() = %q, want %q", got, "req-123")
	}
}

func TestGetRequestID_Absent(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("GetRequestID() = %q, want empty", got)
	}
}

func TestNewNop_DoesNotPanic(t *testing.T) {
	logger := NewNop()
	ctx := WithRequestID(context.Background(), "req-1")

	logger.Info(ctx, "hello", String("k", "v"))
	logger.With(String("component", "store")).Warn(ctx, "slow query", Int64("ms", 42))

	if err := logger.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
}

func TestNewProduction_BuildsSuccessfully(t *testing.T) {
	logger, err := NewProduction(LevelInfo)
	if err != nil {
		t.Fatalf("NewProduction() error = %v", err)
	}
	logger.Info(context.Background(), "engine started", String("version", "test"))
}
