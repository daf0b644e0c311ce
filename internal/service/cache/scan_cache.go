package cache

import (
	"strconv"
	"sync"
	"time"

	"MarketScan/internal/domain/models"
)

// State classifies a cache entry's age.
type State string

const (
	StateFresh State = "fresh"
	StateStale State = "stale"
	StateMiss  State = "miss"
)

type entry struct {
	result   models.ScanResult
	storedAt time.Time
}

// ScanCache maps a scan key (currency+limit) to its last result with
// age-based fresh/stale/miss states. Entries are replaced wholesale on each
// successful fetch and never proactively evicted: the key space is bounded to
// one entry per currency/limit combination.
type ScanCache struct {
	mu       sync.RWMutex
	m        map[string]entry
	freshTTL time.Duration
	staleTTL time.Duration
	now      func() time.Time
}

// NewScanCache creates a cache with the given fresh and stale windows.
func NewScanCache(freshTTL, staleTTL time.Duration) *ScanCache {
	return &ScanCache{
		m:        make(map[string]entry),
		freshTTL: freshTTL,
		staleTTL: staleTTL,
		now:      time.Now,
	}
}

// Get returns the cached result for key and its state. State is StateMiss
// when the key was never set or the entry aged past the stale window.
func (c *ScanCache) Get(key string) (models.ScanResult, State) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return models.ScanResult{}, StateMiss
	}

	age := c.now().Sub(e.storedAt)
	switch {
	case age < c.freshTTL:
		return e.result, StateFresh
	case age < c.staleTTL:
		return e.result, StateStale
	default:
		return models.ScanResult{}, StateMiss
	}
}

// Set stores a result under key, replacing any previous entry.
func (c *ScanCache) Set(key string, result models.ScanResult) {
	c.mu.Lock()
	c.m[key] = entry{result: result, storedAt: c.now()}
	c.mu.Unlock()
}

// Len reports the number of entries, expired ones included.
func (c *ScanCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Key builds the cache key for a currency/limit pair.
func Key(vs string, limit int) string {
	return vs + ":" + strconv.Itoa(limit)
}
