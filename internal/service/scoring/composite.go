package scoring

import "MarketScan/pkg/util"

// Composite ratings.
const (
	RatingStrong = "STRONG"
	RatingGood   = "GOOD"
	RatingWeak   = "WEAK"
	RatingAvoid  = "AVOID"
)

// CompositeRankScore is an additive momentum score with a market-cap rank
// bonus. Deliberately unbounded: a hard rally can exceed 100 and a crash can
// go negative, and the rating thresholds rely on that.
func CompositeRankScore(chg24, chg7, chg30 float64, rank int) int {
	score := 50 + chg24*0.4 + chg7*0.3 + chg30*0.3

	// rank <= 0 means unranked, which counts as deep in the tail
	switch {
	case rank >= 1 && rank <= 10:
		score += 10
	case rank >= 1 && rank <= 25:
		score += 5
	case rank >= 150 || rank <= 0:
		score -= 5
	}

	return util.Round(score)
}

// CompositeRating maps a composite score to its rating.
func CompositeRating(score int) string {
	switch {
	case score >= 120:
		return RatingStrong
	case score >= 90:
		return RatingGood
	case score >= 60:
		return RatingWeak
	default:
		return RatingAvoid
	}
}
