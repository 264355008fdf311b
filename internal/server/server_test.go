package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"BorsaLens/internal/calculator"
	"BorsaLens/internal/collector"
	"BorsaLens/internal/model"
	"BorsaLens/internal/preference"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	f := &collector.MockFetcher{DailyData: map[string][]model.Bar{
		"GARAN.IS": collector.GenerateMockBars(100, 300),
		"AKBNK.IS": collector.GenerateMockBars(50, 120),
		"SHORT.IS": collector.GenerateMockBars(10, 10),
	}}
	col := collector.NewCollector(f, calculator.DefaultParams(), collector.DefaultRange)
	col.Limiter = nil
	col.RetryInterval = time.Millisecond
	return NewServer(col, preference.NewMemoryStore(model.KindNone), model.DefaultStocks)
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestGetStock(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/stock?symbol=garan", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var one stockResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	assert.Equal(t, "GARAN.IS", one.Symbol)
	assert.Equal(t, "2y", one.Range)
	assert.Len(t, one.Bars, 300)

	w = do(s, http.MethodGet, "/api/stock?symbols=garan,akbnk.is&period=1y", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var many []stockResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &many))
	require.Len(t, many, 2)
	assert.Equal(t, "AKBNK.IS", many[1].Symbol)
	assert.Equal(t, "1y", many[1].Range)
	assert.Len(t, many[1].Bars, 120)
}

func TestGetStock_Errors(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, do(s, http.MethodGet, "/api/stock", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(s, http.MethodGet, "/api/stock?symbol=garan&period=10y", "").Code)

	w := do(s, http.MethodGet, "/api/stock?symbol=nope", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w)["error"], "unknown symbol")

	assert.Equal(t, http.StatusInternalServerError, do(s, http.MethodGet, "/api/stock?symbols=garan,nope", "").Code)
}

func TestGetIndicators(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/indicators/garan?kind=rsi&period=9", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "RSI", body["kind"])
	assert.Equal(t, 9.0, body["period"])
	assert.Len(t, body["points"], 300)
	assert.Len(t, body["timestamps"], 300)
	first := body["points"].([]any)[0].(map[string]any)
	assert.Nil(t, first["value"])

	w = do(s, http.MethodGet, "/api/indicators/garan?kind=ma", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20.0, decode(t, w)["period"])

	w = do(s, http.MethodGet, "/api/indicators/garan?kind=macd", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["macd"], 300)

	w = do(s, http.MethodGet, "/api/indicators/garan?kind=none", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Contains(t, body, "kind")
	assert.Nil(t, body["kind"])
	assert.NotContains(t, body, "points")
}

func TestGetIndicators_UsesPreference(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.Preferences.Save(context.Background(), model.KindMACD))
	w := do(s, http.MethodGet, "/api/indicators/garan", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MACD", decode(t, w)["kind"])
}

func TestGetIndicators_BadRequests(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{
		"/api/indicators/garan?kind=boll",
		"/api/indicators/garan?kind=rsi&period=x",
		"/api/indicators/garan?kind=rsi&period=-1",
		"/api/indicators/garan?kind=ma&range=7y",
		"/api/indicators/short?kind=macd",
		"/api/indicators/short?kind=rsi",
	} {
		w := do(s, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.NotEmpty(t, decode(t, w)["error"], target)
	}
}

func TestGetAnalysisAndQuote(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/analysis/garan", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "GARAN.IS", body["symbol"])
	assert.Contains(t, body["summary"], "rsi")

	w = do(s, http.MethodGet, "/api/quote/akbnk", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(s, http.MethodGet, "/api/stocks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "THYAO.IS")
}

func TestPreferenceEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.DefaultKind = model.KindMA
	s.Preferences = mustFileStore(t)

	w := do(s, http.MethodGet, "/api/preference", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MA", decode(t, w)["kind"])

	w = do(s, http.MethodPut, "/api/preference", `{"kind":"rsi"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "RSI", decode(t, w)["kind"])

	w = do(s, http.MethodGet, "/api/preference", "")
	assert.Equal(t, "RSI", decode(t, w)["kind"])

	w = do(s, http.MethodPut, "/api/preference", `{"kind":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(s, http.MethodGet, "/api/preference", "")
	assert.Nil(t, decode(t, w)["kind"])

	assert.Equal(t, http.StatusBadRequest, do(s, http.MethodPut, "/api/preference", `{"kind":"BOLL"}`).Code)

	assert.Equal(t, http.StatusNoContent, do(s, http.MethodDelete, "/api/preference", "").Code)
	w = do(s, http.MethodGet, "/api/preference", "")
	assert.Equal(t, "MA", decode(t, w)["kind"])
}

func TestDeletePreference_MemoryStoreRestoresDefault(t *testing.T) {
	s := newTestServer(t)
	s.DefaultKind = model.KindRSI
	require.NoError(t, s.Preferences.Save(context.Background(), model.KindMACD))

	assert.Equal(t, http.StatusNoContent, do(s, http.MethodDelete, "/api/preference", "").Code)
	w := do(s, http.MethodGet, "/api/preference", "")
	assert.Equal(t, "RSI", decode(t, w)["kind"])

	w = do(s, http.MethodGet, "/api/indicators/garan", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "RSI", decode(t, w)["kind"])
}

func mustFileStore(t *testing.T) preference.Store {
	t.Helper()
	fs, err := preference.NewFileStore(t.TempDir() + "/pref.json")
	require.NoError(t, err)
	return fs
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(newIPLimiters(rate.Limit(1), 1)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestIPLimiters_EvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newIPLimiters(rate.Limit(1), 1)
	l.now = func() time.Time { return now }

	first := l.get("10.0.0.1")
	l.get("10.0.0.2")
	assert.Equal(t, 2, l.size())

	now = now.Add(limiterIdleTTL / 2)
	assert.Same(t, first, l.get("10.0.0.1"))

	now = now.Add(limiterIdleTTL)
	l.get("10.0.0.3")
	assert.Equal(t, 1, l.size(), "both earlier clients idle for a full ttl")

	now = now.Add(limiterIdleTTL / 2)
	l.get("10.0.0.4")
	assert.Equal(t, 2, l.size(), "no sweep before another ttl has passed")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(s, http.MethodGet, "/health", "")
	w := do(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "borsalens_http_requests_total")
}
