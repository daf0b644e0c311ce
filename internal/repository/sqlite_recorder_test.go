package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"MarketScan/internal/domain/models"
)

func TestSQLiteRecorder(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "scans.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	defer rec.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		err := rec.Record(ctx, models.ScanRecord{
			TS:           time.Now(),
			VS:           "eur",
			Limit:        50,
			AssetCount:   50,
			AvgStability: 61.5,
			TopSymbol:    "BTC",
			Duration:     420 * time.Millisecond,
		})
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	var n int
	if err := rec.db.QueryRow("SELECT COUNT(*) FROM scan_history").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("got %d rows, want 3", n)
	}

	var vs, top string
	var durMS int64
	err = rec.db.QueryRow("SELECT vs, top_symbol, duration_ms FROM scan_history ORDER BY id LIMIT 1").
		Scan(&vs, &top, &durMS)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if vs != "eur" || top != "BTC" || durMS != 420 {
		t.Fatalf("row = %s %s %d", vs, top, durMS)
	}
}
