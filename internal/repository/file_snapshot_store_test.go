package repository

import (
	"context"
	"path/filepath"
	"testing"

	"MarketScan/internal/domain/models"
)

func TestFileSnapshotStoreEmpty(t *testing.T) {
	store := NewFileSnapshotStore(filepath.Join(t.TempDir(), "state.json"))
	ctx := context.Background()

	snap, err := store.LoadPrev(ctx)
	if err != nil {
		t.Fatalf("LoadPrev on missing file: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot, got %+v", snap)
	}

	assets, ts, err := store.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("LoadLatest on missing file: %v", err)
	}
	if assets != nil || ts != 0 {
		t.Fatalf("expected empty latest, got %d assets ts=%d", len(assets), ts)
	}
}

func TestFileSnapshotStoreRoundTrip(t *testing.T) {
	store := NewFileSnapshotStore(filepath.Join(t.TempDir(), "state.json"))
	ctx := context.Background()

	in := &models.Snapshot{
		TS: 1700000000000,
		BySymbol: map[string]models.SnapshotEntry{
			"BTC": {StabilityScore: 88, Regime: models.RegimeStable},
			"ETH": {StabilityScore: 52, Regime: models.RegimeVolatile},
		},
	}
	if err := store.SavePrev(ctx, in); err != nil {
		t.Fatalf("SavePrev: %v", err)
	}

	out, err := store.LoadPrev(ctx)
	if err != nil {
		t.Fatalf("LoadPrev: %v", err)
	}
	if out == nil || out.TS != in.TS {
		t.Fatalf("snapshot ts mismatch: %+v", out)
	}
	if e := out.BySymbol["BTC"]; e.StabilityScore != 88 || e.Regime != models.RegimeStable {
		t.Fatalf("BTC entry mismatch: %+v", e)
	}
}

func TestFileSnapshotStoreLatestSurvivesPrevWrite(t *testing.T) {
	store := NewFileSnapshotStore(filepath.Join(t.TempDir(), "state.json"))
	ctx := context.Background()

	assets := []models.Asset{{Symbol: "BTC", Name: "Bitcoin", SignalScore: 91}}
	if err := store.SaveLatest(ctx, assets, 42); err != nil {
		t.Fatalf("SaveLatest: %v", err)
	}
	if err := store.SavePrev(ctx, &models.Snapshot{TS: 7, BySymbol: map[string]models.SnapshotEntry{}}); err != nil {
		t.Fatalf("SavePrev: %v", err)
	}

	got, ts, err := store.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if ts != 42 || len(got) != 1 || got[0].Symbol != "BTC" || got[0].SignalScore != 91 {
		t.Fatalf("latest payload mismatch: ts=%d assets=%+v", ts, got)
	}
}
