package scoring

import (
	"strings"
	"testing"

	"MarketScan/internal/domain/models"
)

func TestConfidenceScoreNoHistory(t *testing.T) {
	got := ConfidenceScore(90, models.RegimeStable, nil)
	if got.Score != 90 {
		t.Fatalf("expected 90, got %d", got.Score)
	}
	if got.Label != models.ConfidenceGood {
		t.Fatalf("expected GOOD, got %s", got.Label)
	}
	if got.DeltaScore != nil || got.RegimeChange != nil {
		t.Fatalf("no history should leave debug fields nil: %+v", got)
	}
	if got.Reason != "Stable context." {
		t.Fatalf("unexpected reason %q", got.Reason)
	}
}

func TestConfidenceScoreAllPenalties(t *testing.T) {
	prev := &models.SnapshotEntry{StabilityScore: 90, Regime: models.RegimeStable}

	got := ConfidenceScore(70, models.RegimeVolatile, prev)

	// 70 - 25 (volatile) - 5 (|70-90| >= 8) - 10 (regime change) = 30
	if got.Score != 30 {
		t.Fatalf("expected 30, got %d", got.Score)
	}
	if got.Label != models.ConfidenceBad {
		t.Fatalf("expected BAD, got %s", got.Label)
	}
	if got.DeltaScore == nil || *got.DeltaScore != -20 {
		t.Fatalf("expected delta -20, got %v", got.DeltaScore)
	}
	if got.RegimeChange == nil || !*got.RegimeChange {
		t.Fatalf("expected regime change flag")
	}
	if !strings.Contains(got.Reason, "Recent regime change.") {
		t.Fatalf("reason missing regime change: %q", got.Reason)
	}
	if !strings.Contains(got.Reason, "Recent abrupt variation.") {
		t.Fatalf("reason missing abrupt variation: %q", got.Reason)
	}
}

func TestConfidenceScoreRegimePenalties(t *testing.T) {
	if got := ConfidenceScore(80, models.RegimeTransition, nil); got.Score != 70 {
		t.Fatalf("transition penalty: expected 70, got %d", got.Score)
	}
	if got := ConfidenceScore(80, models.RegimeChaotic, nil); got.Score != 55 {
		t.Fatalf("chaotic treated as volatile: expected 55, got %d", got.Score)
	}
}

func TestConfidenceScoreClamped(t *testing.T) {
	prev := &models.SnapshotEntry{StabilityScore: 95, Regime: models.RegimeStable}
	got := ConfidenceScore(10, models.RegimeChaotic, prev)
	if got.Score != 0 {
		t.Fatalf("expected clamp to 0, got %d", got.Score)
	}
}

func TestConfidenceScoreSmallDeltaNoPenalty(t *testing.T) {
	prev := &models.SnapshotEntry{StabilityScore: 85, Regime: models.RegimeStable}
	got := ConfidenceScore(80, models.RegimeStable, prev)
	if got.Score != 80 {
		t.Fatalf("delta below threshold must not penalize: got %d", got.Score)
	}
	if got.DeltaScore == nil || *got.DeltaScore != -5 {
		t.Fatalf("expected delta -5, got %v", got.DeltaScore)
	}
}
