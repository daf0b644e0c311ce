package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"MarketScan/internal/domain/models"
)

// stateFile is the on-disk layout: previous-scan diff state plus the
// latest full payload, kept together so a single rename updates both.
type stateFile struct {
	Prev     *models.Snapshot `json:"prev,omitempty"`
	Latest   []models.Asset   `json:"latest,omitempty"`
	LatestTS int64            `json:"latest_ts,omitempty"`
}

// FileSnapshotStore persists scan state as a single JSON file.
type FileSnapshotStore struct {
	mu   sync.Mutex
	path string
}

// NewFileSnapshotStore creates a file-backed snapshot store at path.
func NewFileSnapshotStore(path string) *FileSnapshotStore {
	return &FileSnapshotStore{path: path}
}

// LoadPrev returns the previous scan's snapshot, or (nil, nil) when none
// has been written yet.
func (s *FileSnapshotStore) LoadPrev(ctx context.Context) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, nil
	}
	return st.Prev, nil
}

// SavePrev overwrites the previous-scan snapshot.
func (s *FileSnapshotStore) SavePrev(ctx context.Context, snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		return err
	}
	if st == nil {
		st = &stateFile{}
	}
	st.Prev = snap
	return s.write(st)
}

// LoadLatest returns the most recent full payload and its timestamp.
func (s *FileSnapshotStore) LoadLatest(ctx context.Context) ([]models.Asset, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		return nil, 0, err
	}
	if st == nil {
		return nil, 0, nil
	}
	return st.Latest, st.LatestTS, nil
}

// SaveLatest overwrites the most recent full payload.
func (s *FileSnapshotStore) SaveLatest(ctx context.Context, assets []models.Asset, ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		return err
	}
	if st == nil {
		st = &stateFile{}
	}
	st.Latest = assets
	st.LatestTS = ts
	return s.write(st)
}

func (s *FileSnapshotStore) read() (*stateFile, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var st stateFile
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode snapshot file: %w", err)
	}
	return &st, nil
}

// write replaces the file atomically via a temp file and rename.
func (s *FileSnapshotStore) write(st *stateFile) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode snapshot file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}
