package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window request counter per client identity. Each
// client's timestamps are pruned to the window on every check, so per-client
// memory tracks recent activity; the outer map itself is never pruned.
type Limiter struct {
	mu     sync.Mutex
	m      map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		m:      make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow reports whether one more request for key fits the window, and
// records it if so.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.m[key][:0]
	for _, t := range l.m[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.m[key] = kept
		return false
	}

	l.m[key] = append(kept, now)
	return true
}

// Remaining reports how many requests are left in the current window.
func (l *Limiter) Remaining(key string) int {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, t := range l.m[key] {
		if t.After(cutoff) {
			count++
		}
	}
	if count >= l.limit {
		return 0
	}
	return l.limit - count
}
