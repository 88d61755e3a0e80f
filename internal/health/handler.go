package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Response is the body returned by GET /health.
type Response struct {
	Status    Status        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks,omitempty"`
}

// Handler runs every checker and reports the worst aggregate status,
// composing any number of independent Checkers into one endpoint.
func Handler(checkers ...Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		results := make([]CheckResult, 0, len(checkers))
		overall := StatusHealthy
		for _, checker := range checkers {
			result := checker.Check(checkCtx)
			results = append(results, result)
			if result.IsUnhealthy() {
				overall = StatusUnhealthy
			} else if result.IsDegraded() && overall == StatusHealthy {
				overall = StatusDegraded
			}
		}

		resp := Response{Status: overall, Timestamp: time.Now().UTC(), Checks: results}

		w.Header().Set("Content-Type", "application/json")
		statusCode := http.StatusOK
		if overall == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
