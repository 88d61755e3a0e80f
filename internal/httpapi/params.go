package httpapi

import (
	"net/http"
	"strconv"

	"github.com/luarss/cea-live/internal/apperr"
	"github.com/luarss/cea-live/internal/filter"
	"github.com/luarss/cea-live/internal/period"
)

// Defaults and caps per the documented external interface.
const (
	defaultPageLimit  = 50
	maxPageLimit      = 500
	defaultTopLimit   = 50
	capTopLimit       = 250
	defaultStatsLimit = 100
)

func parseFilter(r *http.Request) (filter.Filter, error) {
	return filter.Parse(r.URL.Query().Get("filters"))
}

// parseIntParam reads an integer query parameter, falling back to
// def when absent, and rejecting non-numeric input as invalid-argument.
func parseIntParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.ErrOutOfRange.WithDetail("field", name).WithDetail("value", raw)
	}
	return v, nil
}

func parsePage(r *http.Request) (page, limit int, err error) {
	page, err = parseIntParam(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	limit, err = parseIntParam(r, "limit", defaultPageLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit <= 0 || limit > maxPageLimit {
		return 0, 0, apperr.ErrOutOfRange.WithDetail("field", "limit").WithDetail("value", limit)
	}
	return page, limit, nil
}

func parseTopLimit(r *http.Request) (int, error) {
	limit, err := parseIntParam(r, "limit", defaultTopLimit)
	if err != nil {
		return 0, err
	}
	if limit <= 0 || limit > capTopLimit {
		return 0, apperr.ErrOutOfRange.WithDetail("field", "limit").WithDetail("value", limit)
	}
	return limit, nil
}

func parseStatsLimit(r *http.Request) (int, error) {
	return parseIntParam(r, "limit", defaultStatsLimit)
}

// parseGranularity reads the `period` query parameter ("month" or
// "year"), defaulting to month.
func parseGranularity(r *http.Request) (period.Granularity, error) {
	raw := r.URL.Query().Get("period")
	switch raw {
	case "", "month":
		return period.Month, nil
	case "year":
		return period.Year, nil
	default:
		return "", apperr.ErrOutOfRange.WithDetail("field", "period").WithDetail("value", raw)
	}
}

func requireField(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", apperr.ErrMissingField.WithDetail("field", name)
	}
	return v, nil
}
