package cache

import (
	"testing"
	"time"

	"MarketScan/internal/domain/models"
)

func testResult() models.ScanResult {
	return models.ScanResult{
		Assets:    []models.Asset{{Symbol: "BTC", StabilityScore: 90}},
		UpdatedAt: time.Now(),
	}
}

func TestScanCacheFreshStaleMiss(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewScanCache(45*time.Second, 10*time.Minute)
	c.now = func() time.Time { return now }

	key := Key("eur", 50)
	res := testResult()
	c.Set(key, res)

	got, state := c.Get(key)
	if state != StateFresh {
		t.Fatalf("expected fresh, got %s", state)
	}
	if len(got.Assets) != 1 || got.Assets[0].Symbol != "BTC" {
		t.Fatalf("fresh data mismatch: %+v", got.Assets)
	}

	now = now.Add(46 * time.Second)
	got, state = c.Get(key)
	if state != StateStale {
		t.Fatalf("expected stale after fresh TTL, got %s", state)
	}
	if len(got.Assets) != 1 {
		t.Fatalf("stale read must still return data")
	}

	now = now.Add(10 * time.Minute)
	_, state = c.Get(key)
	if state != StateMiss {
		t.Fatalf("expected miss after stale TTL, got %s", state)
	}
}

func TestScanCacheMissOnUnknownKey(t *testing.T) {
	c := NewScanCache(45*time.Second, 10*time.Minute)
	if _, state := c.Get(Key("usd", 250)); state != StateMiss {
		t.Fatalf("expected miss, got %s", state)
	}
}

func TestScanCacheOverwrite(t *testing.T) {
	c := NewScanCache(45*time.Second, 10*time.Minute)
	key := Key("eur", 50)

	c.Set(key, models.ScanResult{Assets: []models.Asset{{Symbol: "OLD"}}})
	c.Set(key, models.ScanResult{Assets: []models.Asset{{Symbol: "NEW"}}})

	got, state := c.Get(key)
	if state != StateFresh {
		t.Fatalf("expected fresh, got %s", state)
	}
	if got.Assets[0].Symbol != "NEW" {
		t.Fatalf("expected wholesale replacement, got %s", got.Assets[0].Symbol)
	}
	if c.Len() != 1 {
		t.Fatalf("expected single entry, got %d", c.Len())
	}
}
