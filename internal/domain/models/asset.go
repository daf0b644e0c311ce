package models

import "time"

// Regime labels derived from the numeric scores.
const (
	RegimeStable     = "STABLE"
	RegimeTransition = "TRANSITION"
	RegimeVolatile   = "VOLATILE"
	RegimeChaotic    = "CHAOTIC"
)

// Confidence labels.
const (
	ConfidenceGood = "GOOD"
	ConfidenceMid  = "MID"
	ConfidenceBad  = "BAD"
)

// MarketRecord is one raw row from the upstream markets endpoint.
type MarketRecord struct {
	ID            string   `json:"id"`
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	CurrentPrice  float64  `json:"current_price"`
	Change24h     *float64 `json:"price_change_percentage_24h"`
	Change7d      *float64 `json:"price_change_percentage_7d_in_currency"`
	Change30d     *float64 `json:"price_change_percentage_30d_in_currency"`
	TotalVolume   float64  `json:"total_volume"`
	MarketCap     float64  `json:"market_cap"`
	MarketCapRank int      `json:"market_cap_rank"`
}

// Asset is one scored instrument in a scan payload.
type Asset struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Rank         int     `json:"rank"`
	Price        float64 `json:"price"`
	Change24hPct float64 `json:"chg_24h_pct"`
	Change7dPct  float64 `json:"chg_7d_pct"`
	Change30dPct float64 `json:"chg_30d_pct"`
	MarketCap    float64 `json:"market_cap"`
	Volume24h    float64 `json:"volume_24h"`

	SignalScore    int    `json:"signal_score"`
	StabilityScore int    `json:"stability_score"`
	Rating         string `json:"rating"`
	Regime         string `json:"regime"`
	RuptureRate    int    `json:"rupture_rate"`
	Similarity     int    `json:"similarity"`

	CompositeScore  int    `json:"composite_score"`
	CompositeRating string `json:"composite_rating"`

	ConfidenceScore  int    `json:"confidence_score"`
	ConfidenceLabel  string `json:"confidence_label"`
	ConfidenceReason string `json:"confidence_reason"`
	DeltaScore       *int   `json:"delta_score,omitempty"`
	RegimeChange     *bool  `json:"regime_change,omitempty"`

	TradeURL string `json:"trade_url,omitempty"`
}

// SnapshotEntry is the per-symbol summary kept between scans to compute
// deltas and regime-change penalties.
type SnapshotEntry struct {
	StabilityScore int    `json:"stability_score"`
	Regime         string `json:"regime"`
}

// Snapshot is the previous scan's state, overwritten wholesale after each run.
type Snapshot struct {
	TS       int64                    `json:"ts"`
	BySymbol map[string]SnapshotEntry `json:"by_symbol"`
}

// NewSnapshot builds a snapshot from a scored asset list.
func NewSnapshot(ts time.Time, assets []Asset) *Snapshot {
	s := &Snapshot{
		TS:       ts.UnixMilli(),
		BySymbol: make(map[string]SnapshotEntry, len(assets)),
	}
	for _, a := range assets {
		s.BySymbol[a.Symbol] = SnapshotEntry{
			StabilityScore: a.StabilityScore,
			Regime:         a.Regime,
		}
	}
	return s
}

// ScanResult is a completed scan: the scored assets plus when they were built.
type ScanResult struct {
	Assets    []Asset
	UpdatedAt time.Time
}

// ScanRecord summarizes a completed scan for the history recorder.
type ScanRecord struct {
	TS           time.Time
	VS           string
	Limit        int
	AssetCount   int
	AvgStability float64
	TopSymbol    string
	Duration     time.Duration
}
