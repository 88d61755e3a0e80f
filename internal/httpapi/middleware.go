// Package httpapi wires the query engine's internal/* components into
// the HTTP surface described in the documented contract: routing, the CACHE/COND
// read-through wrapper, and one status-code mapping every handler
// shares.
//
// The middleware stack splits what is often a single
// logger+metrics+request-context bundle into request-ID propagation,
// access logging with status-aware metrics (one middleware), the query
// budget, CORS, and panic recovery, so each can be composed
// independently.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/luarss/cea-live/internal/config"
	"github.com/luarss/cea-live/internal/logging"
	"github.com/luarss/cea-live/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// responseWriter wraps http.ResponseWriter to capture the status code
// and byte count for access logging and metrics, following the
// teacher's observability.responseWriter.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// requestID attaches an incoming or freshly minted request identifier
// to both the response header and the request context.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logging.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessLog logs every request's outcome and records it against the
// route/method/status-class metrics in one request/response logging pass.
func accessLog(log logging.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			route := routeTemplate(r)
			collector.ObserveRequest(route, r.Method, statusClass(rw.statusCode), duration)

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", rw.statusCode),
				logging.Float64("duration_sec", duration),
				logging.Int("bytes_written", int(rw.written)),
			}
			if rw.statusCode >= 500 {
				log.Error(r.Context(), "request failed", fields...)
			} else {
				log.Info(r.Context(), "request completed", fields...)
			}
		})
	}
}

// queryBudget bounds every request's context to the configured
// per-request wall-clock budget (the documented contract); aggregations that read
// ctx.Err() past the deadline surface as apperr.ErrQueryBudgetExceeded
// via WriteError.
func queryBudget(budget time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), budget)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// corsMiddleware builds the rs/cors handler from the configured
// allow-list; an empty list permits every origin, matching a
// development-mode default.
func corsMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "If-None-Match", requestIDHeader},
		ExposedHeaders: []string{"ETag", "X-Cache", requestIDHeader},
	})
	return c.Handler
}

// recoverMiddleware converts a panic in any handler into a 500
// response instead of taking down the server process.
func recoverMiddleware(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(r.Context(), "panic recovered", logging.Any("panic", rec))
					WriteError(w, apperrInternalFrom(rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
