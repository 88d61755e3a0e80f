package logging

import "context"

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID attaches a per-request identifier to ctx so every log
// line emitted while handling that request carries it automatically.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request identifier previously attached by
// WithRequestID, or "" if none is present.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func extractContextFields(ctx context.Context) []Field {
	if requestID := GetRequestID(ctx); requestID != "" {
		return []Field{String("request_id", requestID)}
	}
	return nil
}
