package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"MarketScan/internal/domain/models"
	"MarketScan/internal/service/cache"
	"MarketScan/internal/service/ratelimit"
	"MarketScan/internal/usecase"
	xlogger "MarketScan/pkg/logger"
)

type staticSource struct {
	records []models.MarketRecord
}

func (s staticSource) Markets(ctx context.Context, vs string, limit int) ([]models.MarketRecord, error) {
	return s.records, nil
}

type nullStore struct{}

func (nullStore) LoadPrev(ctx context.Context) (*models.Snapshot, error) { return nil, nil }
func (nullStore) SavePrev(ctx context.Context, s *models.Snapshot) error { return nil }
func (nullStore) LoadLatest(ctx context.Context) ([]models.Asset, int64, error) {
	return []models.Asset{{Symbol: "BTC"}}, 123, nil
}
func (nullStore) SaveLatest(ctx context.Context, assets []models.Asset, ts int64) error { return nil }

type nullRecorder struct{}

func (nullRecorder) Record(ctx context.Context, rec models.ScanRecord) error { return nil }
func (nullRecorder) Close() error                                            { return nil }

func pf(v float64) *float64 { return &v }

func newTestHandler(t *testing.T, token string, rateLimit int) (*ScanHandler, *echo.Echo) {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	src := staticSource{records: []models.MarketRecord{
		{Symbol: "btc", Name: "Bitcoin", CurrentPrice: 60000, MarketCap: 1.2e12,
			TotalVolume: 3.5e10, MarketCapRank: 1, Change24h: pf(1.0), Change7d: pf(2.0), Change30d: pf(3.0)},
		{Symbol: "eth", Name: "Ethereum", CurrentPrice: 3000, MarketCap: 4e11,
			TotalVolume: 1.5e10, MarketCapRank: 2, Change24h: pf(-2.0), Change7d: pf(1.0), Change30d: pf(5.0)},
	}}

	scanner := usecase.NewScannerUseCase(usecase.ScannerDeps{
		Source:   src,
		Store:    nullStore{},
		Recorder: nullRecorder{},
		Cache:    cache.NewScanCache(45*time.Second, 10*time.Minute),
		Limiter:  ratelimit.New(rateLimit, time.Minute),
		Logger:   log,
	})

	h := NewScanHandler(log, scanner, token)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

type envelope struct {
	OK    bool            `json:"ok"`
	TS    int64           `json:"ts"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func TestScanEndpoint(t *testing.T) {
	_, e := newTestHandler(t, "", 30)

	req := httptest.NewRequest(http.MethodGet, "/api/scan?vs=eur&limit=10", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Cache"); got != "miss" {
		t.Fatalf("X-Cache = %q, want miss", got)
	}

	env := decodeEnvelope(t, rec)
	if !env.OK || env.Error != nil {
		t.Fatalf("envelope not ok: %+v", env)
	}

	var assets []models.Asset
	if err := json.Unmarshal(env.Data, &assets); err != nil {
		t.Fatalf("decode assets: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("got %d assets", len(assets))
	}
	var meta models.ScanMeta
	if err := json.Unmarshal(env.Meta, &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.Count != 2 || meta.Cache != "miss" || meta.VS != "eur" || meta.Limit != 10 {
		t.Fatalf("meta = %+v", meta)
	}

	// second request is served from cache
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/scan?vs=eur&limit=10", nil))
	if got := rec2.Header().Get("X-Cache"); got != "fresh" {
		t.Fatalf("second X-Cache = %q, want fresh", got)
	}
}

func TestScanEndpointDefaults(t *testing.T) {
	_, e := newTestHandler(t, "", 30)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scan", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var meta models.ScanMeta
	if err := json.Unmarshal(env.Meta, &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.VS != "eur" || meta.Limit != 50 {
		t.Fatalf("defaults not applied: %+v", meta)
	}
}

func TestScanEndpointRejectsBadLimit(t *testing.T) {
	_, e := newTestHandler(t, "", 30)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scan?limit=9999", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.OK || env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestScanEndpointRateLimited(t *testing.T) {
	_, e := newTestHandler(t, "", 1)

	// distinct limits dodge the cache so the second request reaches the limiter
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scan?limit=10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scan?limit=20", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.OK || env.Error == nil || env.Error.Code != "RATE_LIMITED" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestRebuildEndpointAuth(t *testing.T) {
	_, e := newTestHandler(t, "sekret", 30)

	// no token
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d", rec.Code)
	}

	// wrong token
	req := httptest.NewRequest(http.MethodPost, "/api/rebuild", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer nope")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token status = %d", rec.Code)
	}

	// right token
	req = httptest.NewRequest(http.MethodPost, "/api/rebuild", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer sekret")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, body %s", rec.Code, rec.Body.String())
	}

	// the rebuild body is flat, so written/count sit at the top level
	var res models.RebuildResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode rebuild result: %v", err)
	}
	if !res.OK || !res.Written || res.Count != 2 || res.TS == 0 {
		t.Fatalf("rebuild result = %+v", res)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode raw rebuild body: %v", err)
	}
	if _, wrapped := raw["data"]; wrapped {
		t.Fatalf("rebuild body is enveloped: %s", rec.Body.String())
	}
	for _, key := range []string{"ok", "written", "count", "ts"} {
		if _, present := raw[key]; !present {
			t.Fatalf("rebuild body missing %q: %s", key, rec.Body.String())
		}
	}
}

func TestRebuildDisabledWithoutToken(t *testing.T) {
	_, e := newTestHandler(t, "", 30)

	req := httptest.NewRequest(http.MethodPost, "/api/rebuild", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer anything")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestStateEndpoint(t *testing.T) {
	_, e := newTestHandler(t, "", 30)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	var p models.StatePayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if p.TS != 123 || len(p.Assets) != 1 {
		t.Fatalf("state = %+v", p)
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, e := newTestHandler(t, "", 30)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	// the health body is flat, so status sits at the top level
	var hs models.HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &hs); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if hs.Status != "ok" || hs.Timestamp == 0 {
		t.Fatalf("health = %+v", hs)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode raw health body: %v", err)
	}
	if _, wrapped := raw["data"]; wrapped {
		t.Fatalf("health body is enveloped: %s", rec.Body.String())
	}
	if _, present := raw["cacheEntries"]; !present {
		t.Fatalf("health body missing cacheEntries: %s", rec.Body.String())
	}
}
