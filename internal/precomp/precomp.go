// Package precomp materializes the pre-computed aggregate tables
// (top_agents, monthly_stats, monthly_stats_by_dim,
// property_type_stats, transaction_type_stats, town_stats) from the
// raw transactions table in a single transaction, then runs ANALYZE
// so the fast paths in internal/plan have accurate planner statistics
// from the moment the store opens for serving.
package precomp

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/luarss/cea-live/internal/apperr"
	"github.com/luarss/cea-live/internal/logging"
)

// groupByDimensions are the columns monthly_stats_by_dim materializes
// one partition per, matching filter.AllowedFields.
var groupByDimensions = []string{"property_type", "transaction_type", "represented", "town", "district"}

// tableRow is one materialized row ready for batch insert.
type tableRow []any

// buildResult is the in-memory row set for one aggregate table,
// computed concurrently by Run before any INSERT touches the database.
type buildResult struct {
	table string
	rows  []tableRow
}

// Run rebuilds every aggregate table inside one transaction. The five
// (six, counting the grouped time-series table) row-sets are computed
// concurrently by reading the same snapshot of transactions; only the
// sequential INSERT phase holds the write transaction, since SQLite
// serializes writers regardless.
func Run(ctx context.Context, db *sql.DB, log logging.Logger) error {
	if log == nil {
		log = logging.NewNop()
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([]*buildResult, 6)

	g.Go(func() error { return computeInto(gctx, db, results, 0, buildTopAgents) })
	g.Go(func() error { return computeInto(gctx, db, results, 1, buildMonthlyStats) })
	g.Go(func() error { return computeInto(gctx, db, results, 2, buildMonthlyStatsByDim) })
	g.Go(func() error { return computeInto(gctx, db, results, 3, buildPropertyTypeStats) })
	g.Go(func() error { return computeInto(gctx, db, results, 4, buildTransactionTypeStats) })
	g.Go(func() error { return computeInto(gctx, db, results, 5, buildTownStats) })

	if err := g.Wait(); err != nil {
		return apperr.Wrap(err, "compute aggregate tables")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Wrap(err, "begin precompute transaction")
	}
	defer tx.Rollback()

	for _, r := range results {
		if err := replaceTable(ctx, tx, r); err != nil {
			return apperr.Wrap(err, "replace table: "+r.table)
		}
		log.Info(ctx, "precomputed table", logging.String("table", r.table), logging.Int("rows", len(r.rows)))
	}

	if err := writeMetadata(ctx, tx); err != nil {
		return apperr.Wrap(err, "write metadata")
	}

	if _, err := tx.ExecContext(ctx, "ANALYZE"); err != nil {
		return apperr.Wrap(err, "analyze after precompute")
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(err, "commit precompute transaction")
	}
	return nil
}

func computeInto(ctx context.Context, db *sql.DB, results []*buildResult, slot int, fn func(context.Context, *sql.DB) (*buildResult, error)) error {
	r, err := fn(ctx, db)
	if err != nil {
		return err
	}
	results[slot] = r
	return nil
}

func replaceTable(ctx context.Context, tx *sql.Tx, r *buildResult) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", r.table)); err != nil {
		return err
	}
	if len(r.rows) == 0 {
		return nil
	}

	cols := len(r.rows[0])
	placeholders := make([]string, cols)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf("INSERT INTO %s VALUES (%s)", r.table, strings.Join(placeholders, ", "))

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range r.rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return err
		}
	}
	return nil
}
