package di

import (
	"context"
	"fmt"
	"time"

	domrepo "MarketScan/internal/domain/repository"
	"MarketScan/internal/handler/api"
	"MarketScan/internal/handler/ws"
	internalrepo "MarketScan/internal/repository"
	"MarketScan/internal/service/cache"
	"MarketScan/internal/service/coingecko"
	"MarketScan/internal/service/ratelimit"
	"MarketScan/internal/usecase"
	"MarketScan/pkg/config"
	"MarketScan/pkg/logger"
	"MarketScan/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMarketSource creates the CoinGecko client.
func ProvideMarketSource(cfg *config.Config) domrepo.MarketSource {
	return coingecko.NewClient(
		cfg.CoinGecko.BaseURL,
		cfg.CoinGecko.Timeout.D(),
		coingecko.WithUserAgent(cfg.CoinGecko.UserAgent),
	)
}

// ProvideSnapshotStore creates the configured snapshot backend. Redis
// connectivity is verified at startup so misconfiguration fails fast.
func ProvideSnapshotStore(cfg *config.Config) (domrepo.SnapshotStore, error) {
	switch cfg.Snapshot.Backend {
	case "redis":
		store := internalrepo.NewRedisSnapshotStore(
			cfg.Snapshot.Redis.Addr,
			cfg.Snapshot.Redis.Password,
			cfg.Snapshot.Redis.DB,
		)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis snapshot store: %w", err)
		}
		return store, nil
	case "file", "":
		return internalrepo.NewFileSnapshotStore(cfg.Snapshot.File), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}

// ProvideRecorder creates the scan-history recorder, or a no-op when
// history is disabled.
func ProvideRecorder(cfg *config.Config) (domrepo.Recorder, error) {
	if !cfg.Recorder.Enabled {
		return internalrepo.NoopRecorder{}, nil
	}
	rec, err := internalrepo.NewSQLiteRecorder(cfg.Recorder.Path)
	if err != nil {
		return nil, fmt.Errorf("scan recorder: %w", err)
	}
	return rec, nil
}

// ProvideScanCache creates the result cache.
func ProvideScanCache(cfg *config.Config) *cache.ScanCache {
	return cache.NewScanCache(cfg.Cache.FreshTTL.D(), cfg.Cache.StaleTTL.D())
}

// ProvideLimiter creates the per-client rate limiter.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Limit, cfg.RateLimit.Window.D())
}

// ProvideHub creates the websocket broadcast hub.
func ProvideHub(l *logger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvideScanner creates the scan pipeline use case.
func ProvideScanner(
	cfg *config.Config,
	l *logger.Logger,
	src domrepo.MarketSource,
	store domrepo.SnapshotStore,
	rec domrepo.Recorder,
	c *cache.ScanCache,
	rl *ratelimit.Limiter,
	hub *ws.Hub,
) *usecase.ScannerUseCase {
	stateSource := "file"
	if cfg.Snapshot.Backend == "redis" {
		stateSource = "kv"
	}
	return usecase.NewScannerUseCase(usecase.ScannerDeps{
		Source:      src,
		Store:       store,
		Recorder:    rec,
		Cache:       c,
		Limiter:     rl,
		Broadcaster: hub,
		Logger:      l,
		RefCode:     cfg.Trade.RefCode,
		StateSource: stateSource,
	})
}

// ProvideScanHandler creates the HTTP API handler.
func ProvideScanHandler(cfg *config.Config, l *logger.Logger, scanner *usecase.ScannerUseCase) *api.ScanHandler {
	return api.NewScanHandler(l, scanner, cfg.Rebuild.Token)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	scanner *usecase.ScannerUseCase,
	h *api.ScanHandler,
	hub *ws.Hub,
	rec domrepo.Recorder,
) *server.App {
	return server.New(cfg, l, scanner, h, hub, rec)
}
