package precomp

import (
	"context"
	"database/sql"
	"strconv"
)

// schemaVersion is bumped whenever the aggregate table layout changes
// in a way that requires re-running PRECOMP against existing data.
const schemaVersion = "2"

// writeMetadata records the bookkeeping fields row_count,
// column_count, schema_version and precomputed_at. source_timestamp
// is rewritten with its existing value when the loader recorded one;
// when it is absent, it stays absent.
func writeMetadata(ctx context.Context, tx *sql.Tx) error {
	var rowCount int64
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&rowCount); err != nil {
		return err
	}

	var sourceTimestamp sql.NullString
	if err := tx.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = 'source_timestamp'").Scan(&sourceTimestamp); err != nil && err != sql.ErrNoRows {
		return err
	}

	entries := map[string]string{
		"row_count":      strconv.FormatInt(rowCount, 10),
		"column_count":   "9",
		"schema_version": schemaVersion,
	}
	if sourceTimestamp.Valid {
		entries["source_timestamp"] = sourceTimestamp.String
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range entries {
		if _, err := stmt.ExecContext(ctx, key, value); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO metadata (key, value) VALUES ('precomputed_at', datetime('now')) ON CONFLICT(key) DO UPDATE SET value = excluded.value"); err != nil {
		return err
	}

	return nil
}
