package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"MarketScan/internal/domain/models"
	"MarketScan/internal/service/metrics"
	"MarketScan/internal/usecase"
	xhttp "MarketScan/pkg/http"
	xlogger "MarketScan/pkg/logger"
)

// ScanHandler exposes the scan pipeline over HTTP.
type ScanHandler struct {
	logger       *xlogger.Logger
	scanner      *usecase.ScannerUseCase
	rebuildToken string
}

func NewScanHandler(logger *xlogger.Logger, scanner *usecase.ScannerUseCase, rebuildToken string) *ScanHandler {
	metrics.Register()
	return &ScanHandler{logger: logger, scanner: scanner, rebuildToken: rebuildToken}
}

func (h *ScanHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/scan", h.Scan)
	g.POST("/rebuild", h.Rebuild)
	g.GET("/state", h.State)

	e.GET("/health", h.Health)
}

// Scan serves the scored market list. The cache disposition of the response
// (fresh, stale, or miss) is reported in the X-Cache header and in meta.
func (h *ScanHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out, err := h.scanner.Scan(c.Request().Context(), req.VS, req.Limit, xhttp.ClientIP(c))
	if err != nil {
		h.logger.Error("scan failed", xlogger.Error(err))
		return xhttp.ErrorResponse(c, err)
	}

	c.Response().Header().Set("X-Cache", out.CacheState)
	return xhttp.OKResponse(c, out.Result.Assets, models.ScanMeta{
		Count:     len(out.Result.Assets),
		UpdatedAt: out.Result.UpdatedAt.UnixMilli(),
		Cache:     out.CacheState,
		VS:        req.VS,
		Limit:     req.Limit,
	})
}

// Rebuild forces a fresh scan. It requires the configured bearer token and
// is refused outright when no token is configured.
func (h *ScanHandler) Rebuild(c echo.Context) error {
	if err := h.authorize(c); err != nil {
		return xhttp.ErrorResponse(c, err)
	}

	req := &models.RebuildRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.scanner.Rebuild(c.Request().Context(), req.VS, req.Limit)
	if err != nil {
		h.logger.Error("rebuild failed", xlogger.Error(err))
		return xhttp.ErrorResponse(c, err)
	}
	// Flat body, not the envelope: clients read written/count at the top level.
	return c.JSON(http.StatusOK, res)
}

// State serves the last persisted payload without touching the provider.
func (h *ScanHandler) State(c echo.Context) error {
	p, err := h.scanner.State(c.Request().Context())
	if err != nil {
		h.logger.Error("state load failed", xlogger.Error(err))
		return xhttp.ErrorResponse(c, err)
	}
	return xhttp.OKResponse(c, p, nil)
}

// Health reports liveness, uptime, and cache occupancy as a flat body.
func (h *ScanHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scanner.Health())
}

func (h *ScanHandler) authorize(c echo.Context) error {
	if h.rebuildToken == "" {
		return xhttp.UnauthorizedError("rebuild is disabled")
	}

	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return xhttp.UnauthorizedError("missing bearer token")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.rebuildToken)) != 1 {
		return xhttp.UnauthorizedError("invalid token")
	}
	return nil
}
