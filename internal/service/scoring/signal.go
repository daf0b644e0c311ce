package scoring

import (
	"math"
	"strings"

	"MarketScan/pkg/util"
)

// Signal score weights: liquidity, turnover, size, momentum.
const (
	wLiquidity = 0.35
	wTurnover  = 0.25
	wSize      = 0.25
	wMomentum  = 0.15

	liquidityMin = 5_000_000
	liquidityMax = 30_000_000_000
	sizeMin      = 50_000_000
	sizeMax      = 300_000_000_000

	turnoverCap = 0.25

	stablecoinFactor = 0.15
)

var stablecoinSymbols = map[string]bool{
	"USDT": true, "USDC": true, "DAI": true, "TUSD": true,
	"FDUSD": true, "USDE": true, "USDP": true, "BUSD": true,
	"FRAX": true, "PYUSD": true, "USDD": true,
}

// LogNorm maps x into [0,1] on a log10 scale between min and max.
// Returns 0 for x <= 0.
func LogNorm(x, min, max float64) float64 {
	if x <= 0 {
		return 0
	}
	return util.Clamp((math.Log10(x)-math.Log10(min))/(math.Log10(max)-math.Log10(min)), 0, 1)
}

// IsStablecoin reports whether the asset is a known stablecoin, either by
// symbol allow-list or by a USD symbol whose name marks it as stable.
func IsStablecoin(symbol, name string) bool {
	s := strings.ToUpper(symbol)
	if stablecoinSymbols[s] {
		return true
	}
	n := strings.ToUpper(name)
	return strings.Contains(s, "USD") && strings.Contains(n, "STABLE")
}

// SignalScore estimates how notable an asset's current activity is, 0-100.
// Known stablecoins are scaled down hard.
func SignalScore(symbol, name string, marketCap, volume24h, change24h float64) int {
	liquidity := LogNorm(volume24h, liquidityMin, liquidityMax)
	size := LogNorm(marketCap, sizeMin, sizeMax)

	turnover := 0.0
	if marketCap > 0 {
		turnover = volume24h / marketCap
	}
	turnoverScore := util.Clamp(turnover/turnoverCap, 0, 1)

	momentum := util.Clamp((change24h+10)/20, 0, 1)

	score := 100 * (wLiquidity*liquidity +
		wTurnover*turnoverScore +
		wSize*size +
		wMomentum*momentum)

	if IsStablecoin(symbol, name) {
		score *= stablecoinFactor
	}

	return util.Round(util.Clamp(score, 0, 100))
}
