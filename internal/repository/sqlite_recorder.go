package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"MarketScan/internal/domain/models"
)

const scanHistorySchema = `
CREATE TABLE IF NOT EXISTS scan_history (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	ts            INTEGER NOT NULL,
	vs            TEXT    NOT NULL,
	asset_limit   INTEGER NOT NULL,
	asset_count   INTEGER NOT NULL,
	avg_stability REAL    NOT NULL,
	top_symbol    TEXT    NOT NULL,
	duration_ms   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scan_history_ts ON scan_history (ts);
`

// SQLiteRecorder appends one row per completed scan to a local database.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder opens (creating if needed) the history database at path.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// The driver is in-process; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(scanHistorySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &SQLiteRecorder{db: db}, nil
}

// Record inserts one history row.
func (r *SQLiteRecorder) Record(ctx context.Context, rec models.ScanRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scan_history (ts, vs, asset_limit, asset_count, avg_stability, top_symbol, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.TS.UnixMilli(), rec.VS, rec.Limit, rec.AssetCount, rec.AvgStability, rec.TopSymbol, rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert scan record: %w", err)
	}
	return nil
}

// Close closes the database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

// NoopRecorder discards all records; used when history is disabled.
type NoopRecorder struct{}

func (NoopRecorder) Record(ctx context.Context, rec models.ScanRecord) error { return nil }
func (NoopRecorder) Close() error                                            { return nil }
