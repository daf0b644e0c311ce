package scoring

import (
	"math"

	"MarketScan/internal/domain/models"
	"MarketScan/pkg/util"
)

// Trend labels for the daily-series variant.
const (
	TrendUp       = "Uptrend"
	TrendDown     = "Downtrend"
	TrendSideways = "Sideways"
)

// Market states for the daily-series variant.
const (
	StateStable     = "Stable"
	StateTransition = "Transition"
	StateVolatile   = "Volatile"
)

const minSeriesReturns = 10

// SeriesStability is the result of scoring a daily close-price series.
type SeriesStability struct {
	Score  int
	Rating string
	State  string
	Trend  string
	Breaks int
}

// PctStability is the result of the percentage-change variant used for live
// feeds that only carry 24h/7d/30d deltas.
type PctStability struct {
	Score       int
	Rating      string
	Regime      string
	RuptureRate int
	Similarity  int
}

// SeriesStabilityScore scores a daily close series on volatility, trend
// coherence, and structural breaks. Series with fewer than 10 usable returns
// get a neutral default.
func SeriesStabilityScore(closes []float64) SeriesStability {
	returns := dailyReturns(closes)
	if len(returns) < minSeriesReturns {
		return SeriesStability{Score: 50, Rating: "C", State: StateTransition, Trend: TrendSideways, Breaks: 0}
	}

	sigma := stddev(returns)
	volScore := 100 * util.Clamp((0.05-sigma)/(0.05-0.01), 0, 1)

	trend := trendLabel(closes)
	cohScore := 100 * coherence(returns, trend)

	breakLimit := math.Max(2*sigma, 0.03)
	breaks := 0
	for _, r := range returns {
		if math.Abs(r) > breakLimit {
			breaks++
		}
	}
	breakRate := float64(breaks) / float64(len(returns))
	breakScore := 100 * util.Clamp(1-breakRate/0.25, 0, 1)

	score := util.Round(util.Clamp(0.40*volScore+0.30*cohScore+0.30*breakScore, 0, 100))

	return SeriesStability{
		Score:  score,
		Rating: seriesRating(score),
		State:  marketState(score, breakRate),
		Trend:  trend,
		Breaks: breaks,
	}
}

// PctChangeStabilityScore derives stability from absolute percentage moves.
func PctChangeStabilityScore(chg24, chg7, chg30 float64) PctStability {
	penalty := math.Abs(chg24)*1.5 + math.Abs(chg7)*0.8 + math.Abs(chg30)*0.5
	stability := 100 - util.Clamp(penalty, 0, 100)

	score := util.Round(stability)

	return PctStability{
		Score:       score,
		Rating:      pctRating(score),
		Regime:      pctRegime(score),
		RuptureRate: util.Round(100 - stability),
		Similarity:  util.Round(stability),
	}
}

func dailyReturns(closes []float64) []float64 {
	returns := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	return returns
}

// stddev is the population standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	varsum := 0.0
	for _, x := range xs {
		d := x - mean
		varsum += d * d
	}
	return math.Sqrt(varsum / float64(len(xs)))
}

func trendLabel(closes []float64) string {
	first, last := closes[0], closes[len(closes)-1]
	if first == 0 {
		return TrendSideways
	}
	change := (last - first) / first * 100
	switch {
	case change > 3:
		return TrendUp
	case change < -3:
		return TrendDown
	default:
		return TrendSideways
	}
}

// coherence in [0,1]: for trending series, the fraction of returns whose sign
// matches the trend; for sideways, how small the mean absolute move is.
func coherence(returns []float64, trend string) float64 {
	if trend == TrendSideways {
		meanAbs := 0.0
		for _, r := range returns {
			meanAbs += math.Abs(r)
		}
		meanAbs /= float64(len(returns))
		return util.Clamp((0.02-meanAbs)/0.02, 0, 1)
	}

	matching := 0
	for _, r := range returns {
		if (trend == TrendUp && r > 0) || (trend == TrendDown && r < 0) {
			matching++
		}
	}
	return float64(matching) / float64(len(returns))
}

func seriesRating(score int) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 65:
		return "B"
	case score >= 45:
		return "C"
	default:
		return "D"
	}
}

func marketState(score int, breakRate float64) string {
	if score >= 75 && breakRate < 0.10 {
		return StateStable
	}
	if score < 55 || breakRate >= 0.20 {
		return StateVolatile
	}
	return StateTransition
}

func pctRating(score int) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 60:
		return "B"
	case score >= 40:
		return "C"
	default:
		return "D"
	}
}

func pctRegime(score int) string {
	switch {
	case score >= 70:
		return models.RegimeStable
	case score >= 40:
		return models.RegimeVolatile
	default:
		return models.RegimeChaotic
	}
}
