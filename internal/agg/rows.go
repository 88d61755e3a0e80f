package agg

import (
	"context"
	"fmt"

	"github.com/luarss/cea-live/internal/apperr"
	"github.com/luarss/cea-live/internal/filter"
)

// DefaultPageLimit and MaxPageLimit bound the `limit` query parameter.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// Row is a single transaction record as returned over the API.
type Row map[string]any

// Page is the paginated response envelope.
type Page struct {
	Rows       []Row `json:"rows"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// Rows returns rows [(page-1)*limit, page*limit) matching f, plus
// pagination metadata. total is obtained via a separate COUNT(*)
// against the same filter expression.
func (k *Kernels) Rows(ctx context.Context, page, limit int, f filter.Filter) (Page, error) {
	if page < 1 {
		return Page{}, apperr.ErrOutOfRange.WithDetail("page", page)
	}
	if limit <= 0 || limit > MaxPageLimit {
		return Page{}, apperr.ErrOutOfRange.WithDetail("limit", limit)
	}

	b := filter.NewBuilder(f)
	where, args := b.WhereClause()

	total, err := k.scalarCount(ctx, where, args)
	if err != nil {
		return Page{}, err
	}

	offset := (page - 1) * limit
	query := fmt.Sprintf("SELECT * FROM transactions %s LIMIT ? OFFSET ?", where)
	pageArgs := append(append([]any{}, args...), limit, offset)

	rawRows, err := k.run(ctx, query, pageArgs)
	if err != nil {
		return Page{}, err
	}

	rows := make([]Row, len(rawRows))
	for i, r := range rawRows {
		rows[i] = Row(r)
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	return Page{Rows: rows, Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}
