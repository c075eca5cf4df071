// internal/app/evaluate_modes_test.go

package app_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-reserves/internal/decline"
	mysqlrepo "dca-reserves/internal/repositories/mysql"
)

// memRates sumber histori in-memory pengganti ProductionRepo.
type memRates map[string][]decline.RateObservation

func monthly(rates ...float64) []decline.RateObservation {
	out := make([]decline.RateObservation, len(rates))
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range rates {
		out[i] = decline.RateObservation{Date: start.AddDate(0, i, 0), Rate: r, Cumulative: math.NaN()}
	}
	return out
}

func (m memRates) ListRates(_ context.Context, f mysqlrepo.RateFilter) ([]decline.RateObservation, error) {
	return m[f.WellID], nil
}

func (m memRates) ListPlatformRates(_ context.Context, wells []string, _ mysqlrepo.Phase, _, _ *time.Time) ([]decline.RateObservation, error) {
	var out []decline.RateObservation
	for _, w := range wells {
		for i, o := range m[w] {
			if i < len(out) {
				out[i].Rate += o.Rate
				continue
			}
			out = append(out, o)
		}
	}
	return out, nil
}

func (m memRates) ListWells(context.Context) ([]string, error) {
	return []string{"A", "B"}, nil
}

func withRates(t *testing.T) memRates {
	t.Helper()
	return memRates{
		"A": monthly(100, 90, 81, 73),
		"B": monthly(50, 45, 40, 36),
	}
}

func TestEvaluateUnresolvedCutoffIsWarning(t *testing.T) {
	a := newApp(t, nil)
	body := strings.Replace(evalBody, `"economic_limit": 40,`, `"economic_limit": 0, "horizon_months": 12,`, 1)

	rec := do(a, http.MethodPost, "/api/reserves/evaluate", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var ev struct {
		Estimate struct {
			Status string `json:"status"`
		} `json:"estimate"`
		Warning *struct {
			Code string `json:"error"`
		} `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ev))
	assert.Equal(t, "unresolved_cutoff", ev.Estimate.Status)
	require.NotNil(t, ev.Warning)
	assert.Equal(t, "unresolved_cutoff", ev.Warning.Code)

	rec = do(a, http.MethodGet, "/api/reserves/ledger.csv", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "W-7,")
	assert.Contains(t, rec.Body.String(), "not reached")
}

func TestEvaluatePlatformBody(t *testing.T) {
	a := newApp(t, nil)
	a.Reserves.Rates = withRates(t)

	rec := do(a, http.MethodPost, "/api/reserves/evaluate",
		`{"platform":"PLT-1","wells":["A","B"],"economic_limit":10,"horizon_months":24}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ev struct {
		Entry struct {
			WellID string `json:"well_id"`
		} `json:"entry"`
		Estimate struct {
			Qi                float64 `json:"qi"`
			CumulativeAtStart float64 `json:"cumulative_at_start"`
		} `json:"estimate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ev))
	assert.Equal(t, "PLT-1", ev.Entry.WellID)
	assert.InDelta(t, 109.0, ev.Estimate.Qi, 1e-9) // 73 + 36

	_, ok := a.Reserves.Ledger.Get("PLT-1")
	assert.True(t, ok)
	_, ok = a.Reserves.Ledger.Get("A")
	assert.False(t, ok)
}

func TestEvaluateBatchFromQuery(t *testing.T) {
	a := newApp(t, nil)
	a.Reserves.Rates = withRates(t)

	rec := do(a, http.MethodPost, "/api/reserves/evaluate?wells=A,B,C&economic_limit=10&cumulative_basis=running_sum", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Results []struct {
			WellID string `json:"well_id"`
			Error  string `json:"error"`
		} `json:"results"`
		Failed int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Results, 3)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, "C", out.Results[2].WellID)
	assert.NotEmpty(t, out.Results[2].Error)
	assert.Equal(t, 2, a.Reserves.Ledger.Len())
}

func TestForecastQueryFallback(t *testing.T) {
	a := newApp(t, nil)
	a.Reserves.Rates = withRates(t)

	rec := do(a, http.MethodGet,
		"/api/decline/forecast?well=A&b=0&horizon_months=6&economic_limit=10&forecast_start=2020-06-15&basis=running_sum", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var fc struct {
		Forecast struct {
			WellID string            `json:"well_id"`
			Start  string            `json:"start"`
			Model  string            `json:"model"`
			Points []json.RawMessage `json:"points"`
		} `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "A", fc.Forecast.WellID)
	assert.Equal(t, "2020-06-01", fc.Forecast.Start)
	assert.Equal(t, "exponential", fc.Forecast.Model)
	assert.Len(t, fc.Forecast.Points, 7)
	assert.Zero(t, a.Reserves.Ledger.Len())
}
