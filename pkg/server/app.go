package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"MarketScan/internal/domain/repository"
	"MarketScan/internal/handler/api"
	"MarketScan/internal/handler/ws"
	"MarketScan/internal/usecase"
	"MarketScan/pkg/config"
	xhttp "MarketScan/pkg/http"
	applogger "MarketScan/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	scanner    *usecase.ScannerUseCase
	handler    *api.ScanHandler
	hub        *ws.Hub
	recorder   repository.Recorder
	httpServer *xhttp.Server
	cron       *cron.Cron
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	scanner *usecase.ScannerUseCase,
	handler *api.ScanHandler,
	hub *ws.Hub,
	recorder repository.Recorder,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		scanner:  scanner,
		handler:  handler,
		hub:      hub,
		recorder: recorder,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(
		[]xhttp.Handler{a.handler, a.hub},
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout.D(), a.cfg.Server.WriteTimeout.D(), a.cfg.Server.ShutdownTimeout.D()),
		xhttp.WithMetricsPath(metricsPath),
	)

	if err := a.startCron(ctx); err != nil {
		return err
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("scanner up",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("env", a.cfg.Environment))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// startCron schedules periodic rebuilds so the persisted state stays warm
// even without inbound traffic. An empty cron spec disables it.
func (a *App) startCron(ctx context.Context) error {
	if a.cfg.Rebuild.Cron == "" {
		return nil
	}

	c := cron.New()
	vs := a.cfg.CoinGecko.DefaultVS
	limit := a.cfg.CoinGecko.DefaultLimit

	_, err := c.AddFunc(a.cfg.Rebuild.Cron, func() {
		if _, err := a.scanner.Rebuild(ctx, vs, limit); err != nil {
			a.log.Error("scheduled rebuild failed", applogger.Error(err))
		}
	})
	if err != nil {
		a.log.Error("invalid rebuild cron spec",
			applogger.String("spec", a.cfg.Rebuild.Cron),
			applogger.Error(err))
		return err
	}

	c.Start()
	a.cron = c
	a.log.Info("rebuild scheduler started", applogger.String("spec", a.cfg.Rebuild.Cron))
	return nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.cron != nil {
		stopCtx := a.cron.Stop()
		<-stopCtx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout.D())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	a.hub.Close()

	if err := a.recorder.Close(); err != nil {
		a.log.Warn("recorder close error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}
