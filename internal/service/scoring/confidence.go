package scoring

import (
	"strings"

	"MarketScan/internal/domain/models"
	"MarketScan/pkg/util"
)

const abruptDelta = 8

// Confidence adjusts a stability score for regime risk and recent change.
type Confidence struct {
	Score        int
	Label        string
	Reason       string
	DeltaScore   *int
	RegimeChange *bool
}

// ConfidenceScore enriches a stability score with regime penalties and, when a
// previous snapshot entry exists for the symbol, memory penalties for abrupt
// variation and regime changes.
func ConfidenceScore(stability int, regime string, prev *models.SnapshotEntry) Confidence {
	score := float64(stability)

	switch regime {
	case models.RegimeTransition:
		score -= 10
	case models.RegimeVolatile, models.RegimeChaotic:
		score -= 25
	}

	var deltaScore *int
	var regimeChange *bool

	if prev != nil {
		d := stability - prev.StabilityScore
		deltaScore = &d
		if abs(d) >= abruptDelta {
			score -= 5
		}

		changed := prev.Regime != regime
		regimeChange = &changed
		if changed {
			score -= 10
		}
	}

	final := util.Round(util.Clamp(score, 0, 100))

	return Confidence{
		Score:        final,
		Label:        confidenceLabel(final),
		Reason:       confidenceReason(regime, deltaScore, regimeChange),
		DeltaScore:   deltaScore,
		RegimeChange: regimeChange,
	}
}

func confidenceLabel(score int) string {
	switch {
	case score >= 80:
		return models.ConfidenceGood
	case score >= 60:
		return models.ConfidenceMid
	default:
		return models.ConfidenceBad
	}
}

func confidenceReason(regime string, deltaScore *int, regimeChange *bool) string {
	parts := make([]string, 0, 3)

	switch regime {
	case models.RegimeStable:
		parts = append(parts, "Stable context.")
	case models.RegimeTransition:
		parts = append(parts, "Transition detected.")
	case models.RegimeVolatile:
		parts = append(parts, "Unstable context.")
	case models.RegimeChaotic:
		parts = append(parts, "Chaotic context.")
	}

	if regimeChange != nil && *regimeChange {
		parts = append(parts, "Recent regime change.")
	}
	if deltaScore != nil && abs(*deltaScore) >= abruptDelta {
		parts = append(parts, "Recent abrupt variation.")
	}

	if len(parts) == 0 {
		return "Context evaluated."
	}
	return strings.Join(parts, " ")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
