package repository

import (
	"context"

	"MarketScan/internal/domain/models"
)

// MarketSource fetches raw market rows from the upstream data provider.
type MarketSource interface {
	Markets(ctx context.Context, vs string, limit int) ([]models.MarketRecord, error)
}

// SnapshotStore persists scan state between runs. LoadPrev returning
// (nil, nil) means no previous snapshot exists; that is not an error.
type SnapshotStore interface {
	LoadPrev(ctx context.Context) (*models.Snapshot, error)
	SavePrev(ctx context.Context, s *models.Snapshot) error
	LoadLatest(ctx context.Context) ([]models.Asset, int64, error)
	SaveLatest(ctx context.Context, assets []models.Asset, ts int64) error
}

// Recorder appends one row per completed scan to durable history.
type Recorder interface {
	Record(ctx context.Context, rec models.ScanRecord) error
	Close() error
}
