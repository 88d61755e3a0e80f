// Package store wraps the embedded SQLite file that backs every query
// this engine serves, following a connection-pool-and-prepared-statement idiom
// (storage/postgres.go) from a key/value table to arbitrary
// aggregation result sets, scanned generically instead of
// column-by-column.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/luarss/cea-live/internal/apperr"
)

// Mode selects how the underlying file is opened.
type Mode int

const (
	// ReadOnly opens the database for serving traffic: mode=ro,
	// query_only=1, relaxed durability pragmas for read throughput.
	ReadOnly Mode = iota
	// ReadWrite opens the database for PRECOMP's build-time rebuild.
	ReadWrite
)

// Store is a handle to one dataset's SQLite file.
type Store struct {
	db   *sql.DB
	path string
	mode Mode
}

// Open opens the SQLite file at path in the given mode and, for
// ReadOnly stores, runs ANALYZE once to warm the query planner's
// statistics before serving traffic.
func Open(ctx context.Context, path string, mode Mode) (*Store, error) {
	dsn := buildDSN(path, mode)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperr.Wrap(err, "open store: "+path)
	}
	db.SetMaxOpenConns(1)
	if mode == ReadOnly {
		db.SetMaxOpenConns(4)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperr.Wrap(err, "ping store: "+path)
	}

	s := &Store{db: db, path: path, mode: mode}

	if mode == ReadWrite {
		if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
			db.Close()
			return nil, apperr.Wrap(err, "apply schema: "+path)
		}
	} else {
		if err := s.warmPlanner(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

func buildDSN(path string, mode Mode) string {
	switch mode {
	case ReadOnly:
		return fmt.Sprintf(
			"file:%s?mode=ro&_pragma=cache_size(-10000)&_pragma=mmap_size(31457280)&_pragma=synchronous(OFF)&_pragma=query_only(1)",
			path,
		)
	default:
		return fmt.Sprintf("file:%s?mode=rwc&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	}
}

// warmPlanner runs ANALYZE so the query planner has fresh statistics
// for the fast-path aggregate tables before the first request arrives.
func (s *Store) warmPlanner(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return apperr.Wrap(err, "warm planner: "+s.path)
	}
	return nil
}

// Ping reports whether the underlying connection is alive; wired
// directly into the health checker.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperr.Wrap(err, "store ping")
	}
	return nil
}

// Close releases the underlying connection. Safe to call more than
// once.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Raw exposes the underlying *sql.DB for PRECOMP's bulk-load path,
// which needs transactions and batched inserts that don't fit the
// Statement.All/Get contract.
func (s *Store) Raw() *sql.DB { return s.db }

// Prepare compiles a statement for repeated execution.
func (s *Store) Prepare(ctx context.Context, query string) (*Statement, error) {
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(err, "prepare statement")
	}
	return &Statement{stmt: stmt, query: query}, nil
}

// Exec runs a one-off statement outside the Statement contract,
// mainly used by PRECOMP for DDL and bulk inserts.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction for PRECOMP's transactional rebuild.
func (s *Store) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// Statement is a prepared query, scanned generically into column
// maps so callers never hand-write Scan(&a, &b, &c...) call sites.
type Statement struct {
	stmt  *sql.Stmt
	query string
}

// All runs the statement and returns every row as a column map.
func (st *Statement) All(ctx context.Context, args ...any) ([]map[string]any, error) {
	rows, err := st.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, apperr.Wrap(err, "query: "+st.query)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Get runs the statement and returns the first row, or a nil row
// with a nil error if there are none.
func (st *Statement) Get(ctx context.Context, args ...any) (map[string]any, error) {
	rows, err := st.All(ctx, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Close releases the prepared statement.
func (st *Statement) Close() error { return st.stmt.Close() }

// QueryTimeout bounds a single STORE call, enforced by the caller via
// context.WithTimeout; exported as a default for callers that don't
// have a more specific budget from config.
const QueryTimeout = 30 * time.Second
