package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterExactLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(30, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 30; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Fatalf("request 31 should be rejected")
	}
	if l.Remaining("1.2.3.4") != 0 {
		t.Fatalf("expected 0 remaining")
	}
}

func TestLimiterWindowReset(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(5, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		l.Allow("client")
	}
	if l.Allow("client") {
		t.Fatalf("should be rejected inside window")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("client") {
		t.Fatalf("should be admitted after window elapses")
	}
}

func TestLimiterIsolatesClients(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Allow("a") {
		t.Fatalf("first request for a should pass")
	}
	if !l.Allow("b") {
		t.Fatalf("a's quota must not affect b")
	}
	if l.Allow("a") {
		t.Fatalf("a should now be limited")
	}
}

func TestLimiterSlidingWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("c")
	now = now.Add(40 * time.Second)
	l.Allow("c")

	// first timestamp falls out of the window, second is still inside
	now = now.Add(30 * time.Second)
	if !l.Allow("c") {
		t.Fatalf("expected admit once oldest timestamp expires")
	}
	if l.Allow("c") {
		t.Fatalf("window still holds two requests")
	}
}
