package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"MarketScan/internal/domain/models"
	domrepo "MarketScan/internal/domain/repository"
	"MarketScan/internal/service/cache"
	"MarketScan/internal/service/metrics"
	"MarketScan/internal/service/ratelimit"
	"MarketScan/internal/service/scoring"
	pkghttp "MarketScan/pkg/http"
	"MarketScan/pkg/logger"
	"MarketScan/pkg/util"
)

// Broadcaster pushes completed scan payloads to connected dashboards.
type Broadcaster interface {
	Broadcast(v interface{})
}

// ScannerDeps wires the scan pipeline's collaborators.
type ScannerDeps struct {
	Source      domrepo.MarketSource
	Store       domrepo.SnapshotStore
	Recorder    domrepo.Recorder
	Cache       *cache.ScanCache
	Limiter     *ratelimit.Limiter
	Broadcaster Broadcaster
	Logger      *logger.Logger
	RefCode     string
	StateSource string // reported by the state endpoint, e.g. "kv" or "file"
}

// ScannerUseCase runs the fetch-score-cache pipeline behind the scan endpoints.
type ScannerUseCase struct {
	src       domrepo.MarketSource
	store     domrepo.SnapshotStore
	recorder  domrepo.Recorder
	cache     *cache.ScanCache
	limiter   *ratelimit.Limiter
	broadcast Broadcaster
	log       *logger.Logger
	refCode   string
	stateSrc  string
	startedAt time.Time

	now func() time.Time
}

func NewScannerUseCase(deps ScannerDeps) *ScannerUseCase {
	return &ScannerUseCase{
		src:       deps.Source,
		store:     deps.Store,
		recorder:  deps.Recorder,
		cache:     deps.Cache,
		limiter:   deps.Limiter,
		broadcast: deps.Broadcaster,
		log:       deps.Logger,
		refCode:   deps.RefCode,
		stateSrc:  deps.StateSource,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// ScanOutput is one serve-able scan: the payload plus where it came from.
type ScanOutput struct {
	Result     models.ScanResult
	CacheState string
}

// Scan serves a scored market list for (vs, limit), applying the per-client
// rate limit, the fresh/stale cache, and the stale-on-upstream-failure
// fallback, in that order.
func (uc *ScannerUseCase) Scan(ctx context.Context, vs string, limit int, clientKey string) (*ScanOutput, error) {
	if !uc.limiter.Allow(clientKey) {
		metrics.RateLimited.Inc()
		return nil, pkghttp.RateLimitedError("too many requests, retry later")
	}

	key := cache.Key(vs, limit)
	cached, state := uc.cache.Get(key)
	metrics.CacheResults.WithLabelValues(string(state)).Inc()

	if state == cache.StateFresh {
		return &ScanOutput{Result: cached, CacheState: string(state)}, nil
	}

	result, err := uc.runScan(ctx, vs, limit, "request")
	if err != nil {
		if state == cache.StateStale {
			uc.log.Warn("serving stale scan after upstream failure",
				logger.String("vs", vs),
				logger.Int("limit", limit),
				logger.Error(err))
			return &ScanOutput{Result: cached, CacheState: string(cache.StateStale)}, nil
		}
		return nil, err
	}

	return &ScanOutput{Result: *result, CacheState: string(cache.StateMiss)}, nil
}

// Rebuild forces a fresh scan, bypassing the cache and the rate limiter.
// It is triggered by the authenticated rebuild endpoint and the cron job.
func (uc *ScannerUseCase) Rebuild(ctx context.Context, vs string, limit int) (*models.RebuildResult, error) {
	result, err := uc.runScan(ctx, vs, limit, "rebuild")
	if err != nil {
		return nil, err
	}
	return &models.RebuildResult{
		OK:      true,
		Written: true,
		Count:   len(result.Assets),
		TS:      result.UpdatedAt.UnixMilli(),
	}, nil
}

// State returns the last persisted payload, for dashboards that want data
// without triggering a scan.
func (uc *ScannerUseCase) State(ctx context.Context) (*models.StatePayload, error) {
	assets, ts, err := uc.store.LoadLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load latest scan: %w", err)
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	src := uc.stateSrc
	if src == "" {
		src = "store"
	}
	return &models.StatePayload{Assets: assets, TS: ts, Source: src}, nil
}

// Health reports process uptime and cache occupancy.
func (uc *ScannerUseCase) Health() models.HealthStatus {
	return models.HealthStatus{
		Status:       "ok",
		Uptime:       int64(uc.now().Sub(uc.startedAt).Seconds()),
		CacheEntries: uc.cache.Len(),
		Timestamp:    uc.now().UnixMilli(),
	}
}

// runScan fetches, scores, caches, and asynchronously persists one scan.
func (uc *ScannerUseCase) runScan(ctx context.Context, vs string, limit int, trigger string) (*models.ScanResult, error) {
	start := uc.now()

	records, err := uc.src.Markets(ctx, vs, limit)
	if err != nil {
		var appErr *pkghttp.AppError
		if errors.As(err, &appErr) {
			metrics.UpstreamErrors.WithLabelValues(appErr.Code).Inc()
			return nil, err
		}
		metrics.UpstreamErrors.WithLabelValues("fetch").Inc()
		return nil, pkghttp.UpstreamError("market data provider unavailable").WithError(err)
	}

	prev, err := uc.store.LoadPrev(ctx)
	if err != nil {
		// Scoring still works without history; confidence just loses its
		// delta and regime-change penalties.
		uc.log.Warn("previous snapshot unavailable", logger.Error(err))
		prev = nil
	}

	assets := uc.score(records, prev)
	sort.SliceStable(assets, func(i, j int) bool {
		if assets[i].SignalScore != assets[j].SignalScore {
			return assets[i].SignalScore > assets[j].SignalScore
		}
		return assets[i].Symbol < assets[j].Symbol
	})

	result := models.ScanResult{Assets: assets, UpdatedAt: uc.now()}
	uc.cache.Set(cache.Key(vs, limit), result)

	elapsed := uc.now().Sub(start)
	metrics.ScanLatency.WithLabelValues(trigger).Observe(elapsed.Seconds())
	uc.log.Info("scan completed",
		logger.String("trigger", trigger),
		logger.String("vs", vs),
		logger.Int("limit", limit),
		logger.Int("assets", len(assets)),
		logger.Duration("elapsed_ms", elapsed))

	uc.persistAsync(result, vs, limit, elapsed)

	if uc.broadcast != nil {
		uc.broadcast.Broadcast(models.StatePayload{
			Assets: assets,
			TS:     result.UpdatedAt.UnixMilli(),
			Source: "scan",
		})
	}

	return &result, nil
}

// score turns raw market rows into fully scored assets. prev may be nil.
func (uc *ScannerUseCase) score(records []models.MarketRecord, prev *models.Snapshot) []models.Asset {
	assets := make([]models.Asset, 0, len(records))

	for _, rec := range records {
		symbol := strings.ToUpper(rec.Symbol)
		chg24 := deref(rec.Change24h)
		chg7 := deref(rec.Change7d)
		chg30 := deref(rec.Change30d)

		stab := scoring.PctChangeStabilityScore(chg24, chg7, chg30)

		var prevEntry *models.SnapshotEntry
		if prev != nil {
			if e, ok := prev.BySymbol[symbol]; ok {
				prevEntry = &e
			}
		}
		conf := scoring.ConfidenceScore(stab.Score, stab.Regime, prevEntry)

		composite := scoring.CompositeRankScore(chg24, chg7, chg30, rec.MarketCapRank)

		a := models.Asset{
			Symbol:       symbol,
			Name:         rec.Name,
			Rank:         rec.MarketCapRank,
			Price:        rec.CurrentPrice,
			Change24hPct: chg24,
			Change7dPct:  chg7,
			Change30dPct: chg30,
			MarketCap:    rec.MarketCap,
			Volume24h:    rec.TotalVolume,

			SignalScore:    scoring.SignalScore(rec.Symbol, rec.Name, rec.MarketCap, rec.TotalVolume, chg24),
			StabilityScore: stab.Score,
			Rating:         stab.Rating,
			Regime:         stab.Regime,
			RuptureRate:    stab.RuptureRate,
			Similarity:     stab.Similarity,

			CompositeScore:  composite,
			CompositeRating: scoring.CompositeRating(composite),

			ConfidenceScore:  conf.Score,
			ConfidenceLabel:  conf.Label,
			ConfidenceReason: conf.Reason,
			DeltaScore:       conf.DeltaScore,
			RegimeChange:     conf.RegimeChange,
		}
		a.TradeURL = fmt.Sprintf("https://www.binance.com/en/trade/%s_USDT?type=spot", symbol)
		if uc.refCode != "" {
			a.TradeURL += "&ref=" + uc.refCode
		}

		assets = append(assets, a)
	}

	return assets
}

// persistAsync writes the snapshot, the latest payload, and the history row
// without blocking the response. Failures are counted and logged, never
// surfaced to the caller.
func (uc *ScannerUseCase) persistAsync(result models.ScanResult, vs string, limit int, elapsed time.Duration) {
	assets := result.Assets
	snap := models.NewSnapshot(result.UpdatedAt, assets)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := uc.store.SavePrev(ctx, snap); err != nil {
			metrics.SnapshotErrors.Inc()
			uc.log.Error("persist prev snapshot failed", logger.Error(err))
		}
		if err := uc.store.SaveLatest(ctx, assets, result.UpdatedAt.UnixMilli()); err != nil {
			metrics.SnapshotErrors.Inc()
			uc.log.Error("persist latest scan failed", logger.Error(err))
		}

		rec := models.ScanRecord{
			TS:         result.UpdatedAt,
			VS:         vs,
			Limit:      limit,
			AssetCount: len(assets),
			Duration:   elapsed,
		}
		if len(assets) > 0 {
			rec.TopSymbol = assets[0].Symbol
			sum := 0.0
			for _, a := range assets {
				sum += float64(a.StabilityScore)
			}
			rec.AvgStability = sum / float64(len(assets))
		}
		if err := uc.recorder.Record(ctx, rec); err != nil {
			uc.log.Error("record scan history failed", logger.Error(err))
		}
	}()
}

// deref unwraps optional percentage fields, treating missing and non-finite
// values as zero change.
func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return util.SafeNum(*p, 0)
}
