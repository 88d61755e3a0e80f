// Package agg implements the aggregation kernels the service exposes:
// single/two-dimension cross-tabs, time-series bucketing, a
// market-insights composite, a top-agents roll-up immune to the N+1
// query trap, per-agent profiles, and paginated raw-row access. Every
// kernel is a method on Kernels, which holds the *store.Store; kernels
// that take an internal/filter.Filter bind its values as query
// parameters, never by string concatenation.
package agg

import (
	"context"

	"github.com/luarss/cea-live/internal/apperr"
	"github.com/luarss/cea-live/internal/store"
)

// Kernels bundles a Store handle so HTTP handlers can call kernels
// without threading a *store.Store through every function signature.
type Kernels struct {
	Store *store.Store
}

// New constructs a Kernels bound to the given store.
func New(s *store.Store) *Kernels { return &Kernels{Store: s} }

// unknownProjection maps empty/null dimension values to the literal
// "Unknown" string, per the documented contract's cross-tab/time-series semantics.
func unknownProjection(v any) string {
	s, _ := v.(string)
	if s == "" {
		return "Unknown"
	}
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func filterFieldError(field string) error {
	return apperr.ErrUnknownField.WithDetail("field", field)
}

// run is a small helper shared by every kernel: prepare, execute, and
// close the statement, so callers don't repeat the boilerplate.
func (k *Kernels) run(ctx context.Context, query string, args []any) ([]map[string]any, error) {
	stmt, err := k.Store.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	return stmt.All(ctx, args...)
}
