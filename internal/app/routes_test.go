// internal/app/routes_test.go

package app_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppkg "dca-reserves/internal/app"
	"dca-reserves/internal/config"
	"dca-reserves/internal/middleware"
)

const evalBody = `{
  "well_id": "W-7",
  "economic_limit": 40,
  "cumulative_basis": "running_sum",
  "observations": [
    {"date": "2023-01-01", "rate": 100},
    {"date": "2023-02-01", "rate": 90},
    {"date": "2023-03-01", "rate": 81},
    {"date": "2023-04-01", "rate": 73}
  ]
}`

func newApp(t *testing.T, cfg *config.Config) *apppkg.App {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.Admin.JWTSecret = "test-secret"
	log := logrus.New()
	log.SetOutput(io.Discard)
	return apppkg.New(cfg, log)
}

func do(a *apppkg.App, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

// Pastikan /admin/* diproteksi (tanpa auth tidak boleh 200)
func TestAdminRoutesProtected(t *testing.T) {
	a := newApp(t, nil)
	rec := do(a, http.MethodDelete, "/admin/reserves/W-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Sanity check: public endpoints tetap 200
func TestPublicRoutesHealthy(t *testing.T) {
	a := newApp(t, nil)
	for _, p := range []string{"/healthz", "/readyz", "/metrics", "/debug/repos", "/api/healthz"} {
		rec := do(a, http.MethodGet, p, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, p)
	}
	assert.NotEmpty(t, do(a, http.MethodGet, "/healthz", "", nil).Header().Get("X-Request-ID"))
}

func TestEvaluateLedgerAndAdminDelete(t *testing.T) {
	a := newApp(t, nil)

	rec := do(a, http.MethodPost, "/api/reserves/evaluate", evalBody, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var ev struct {
		Estimate struct {
			WellID string `json:"well_id"`
			Status string `json:"status"`
		} `json:"estimate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ev))
	assert.Equal(t, "W-7", ev.Estimate.WellID)
	assert.Equal(t, "resolved", ev.Estimate.Status)

	rec = do(a, http.MethodGet, "/api/reserves/ledger", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"well_id":"W-7"`)

	rec = do(a, http.MethodGet, "/api/reserves/ledger.csv", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "well_id,"))

	tok, _, err := middleware.GenerateAdminToken("test-secret", "admin", time.Hour)
	require.NoError(t, err)
	auth := map[string]string{"Authorization": "Bearer " + tok}

	rec = do(a, http.MethodDelete, "/admin/reserves/W-7", "", auth)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(a, http.MethodDelete, "/admin/reserves/W-7", "", auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, a.Reserves.Ledger.Len())
}

func TestForecastEndpointDoesNotTouchLedger(t *testing.T) {
	a := newApp(t, nil)
	body := strings.Replace(evalBody, `"economic_limit": 40,`, `"economic_limit": 40, "b": 0.5, "horizon_months": 12,`, 1)

	rec := do(a, http.MethodPost, "/api/decline/forecast", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var fc struct {
		Forecast struct {
			Model  string            `json:"model"`
			Points []json.RawMessage `json:"points"`
		} `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "hyperbolic", fc.Forecast.Model)
	assert.Len(t, fc.Forecast.Points, 13)
	assert.Zero(t, a.Reserves.Ledger.Len())
}

func TestEngineErrorsMapToStatus(t *testing.T) {
	a := newApp(t, nil)

	one := `{"well_id":"W-1","cumulative_basis":"running_sum","observations":[{"date":"2023-01-01","rate":100}]}`
	rec := do(a, http.MethodPost, "/api/decline/fit", one, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_data")

	badB := strings.Replace(evalBody, `"economic_limit": 40,`, `"economic_limit": 40, "b": 1.5,`, 1)
	rec = do(a, http.MethodPost, "/api/decline/forecast", badB, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_model_parameter")

	// tanpa DB & tanpa observasi inline
	rec = do(a, http.MethodGet, "/api/decline/fit?well_id=W-1", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAPIKeyGuardsAPI(t *testing.T) {
	a := newApp(t, &config.Config{APIKey: "k"})

	assert.Equal(t, http.StatusUnauthorized, do(a, http.MethodGet, "/api/reserves/ledger", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(a, http.MethodGet, "/api/reserves/ledger", "", map[string]string{"X-API-Key": "k"}).Code)
	assert.Equal(t, http.StatusOK, do(a, http.MethodGet, "/healthz", "", nil).Code)
}
