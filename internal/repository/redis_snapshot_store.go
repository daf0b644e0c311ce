package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"MarketScan/internal/domain/models"
)

const (
	keyPrevSnapshot = "scan:prev"
	keyLatestScan   = "scan:latest"
)

// latestPayload is the stored shape of the most recent full scan.
type latestPayload struct {
	Assets []models.Asset `json:"assets"`
	TS     int64          `json:"ts"`
}

// RedisSnapshotStore persists scan state in Redis under fixed keys.
type RedisSnapshotStore struct {
	rdb *redis.Client
}

// NewRedisSnapshotStore creates a Redis-backed snapshot store.
func NewRedisSnapshotStore(addr, password string, db int) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping verifies connectivity at startup.
func (s *RedisSnapshotStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *RedisSnapshotStore) Close() error {
	return s.rdb.Close()
}

// LoadPrev returns the previous scan's snapshot, or (nil, nil) when the
// key does not exist.
func (s *RedisSnapshotStore) LoadPrev(ctx context.Context) (*models.Snapshot, error) {
	b, err := s.rdb.Get(ctx, keyPrevSnapshot).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load prev snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode prev snapshot: %w", err)
	}
	return &snap, nil
}

// SavePrev overwrites the previous-scan snapshot.
func (s *RedisSnapshotStore) SavePrev(ctx context.Context, snap *models.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode prev snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrevSnapshot, b, 0).Err(); err != nil {
		return fmt.Errorf("save prev snapshot: %w", err)
	}
	return nil
}

// LoadLatest returns the most recent full payload and its timestamp.
func (s *RedisSnapshotStore) LoadLatest(ctx context.Context) ([]models.Asset, int64, error) {
	b, err := s.rdb.Get(ctx, keyLatestScan).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("load latest scan: %w", err)
	}

	var p latestPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, 0, fmt.Errorf("decode latest scan: %w", err)
	}
	return p.Assets, p.TS, nil
}

// SaveLatest overwrites the most recent full payload.
func (s *RedisSnapshotStore) SaveLatest(ctx context.Context, assets []models.Asset, ts int64) error {
	b, err := json.Marshal(latestPayload{Assets: assets, TS: ts})
	if err != nil {
		return fmt.Errorf("encode latest scan: %w", err)
	}
	if err := s.rdb.Set(ctx, keyLatestScan, b, 0).Err(); err != nil {
		return fmt.Errorf("save latest scan: %w", err)
	}
	return nil
}
