package util

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(120, 0, 100); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
	if got := Clamp(-3, 0, 100); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := Clamp(42.5, 0, 100); got != 42.5 {
		t.Fatalf("expected passthrough, got %v", got)
	}
}

func TestParseFloatDefault(t *testing.T) {
	if got := ParseFloatDefault("1.25", 0); got != 1.25 {
		t.Fatalf("unexpected %v", got)
	}
	if got := ParseFloatDefault("", 7); got != 7 {
		t.Fatalf("expected default, got %v", got)
	}
	if got := ParseFloatDefault("nope", 7); got != 7 {
		t.Fatalf("expected default, got %v", got)
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("50", 10); got != 50 {
		t.Fatalf("unexpected %v", got)
	}
	if got := ParseIntDefault("x", 10); got != 10 {
		t.Fatalf("expected default, got %v", got)
	}
}
