// internal/mcp/router_test.go

package mcp_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppkg "dca-reserves/internal/app"
	"dca-reserves/internal/config"
	"dca-reserves/internal/mcp"
)

var observations = []map[string]any{
	{"date": "2023-01-01", "rate": 100},
	{"date": "2023-02-01", "rate": 90},
	{"date": "2023-03-01", "rate": 81},
	{"date": "2023-04-01", "rate": 73},
}

func newApp(t *testing.T) *apppkg.App {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return apppkg.New(&config.Config{}, log)
}

func route(t *testing.T, a *apppkg.App, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/mcp/route", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

// Pastikan /mcp/route menjalankan tool terdaftar (evaluate_reserves)
func TestMCPRouteExecutesRegisteredTool(t *testing.T) {
	a := newApp(t)

	rec := route(t, a, map[string]any{
		"tool": "evaluate_reserves",
		"params": map[string]any{
			"well_id":          "W-3",
			"economic_limit":   40,
			"cumulative_basis": "running_sum",
			"observations":     observations,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, json.Valid(rec.Body.Bytes()))
	_, ok := a.Reserves.Ledger.Get("W-3")
	assert.True(t, ok)
}

func TestMCPRouteKeywordFallback(t *testing.T) {
	a := newApp(t)

	rec := route(t, a, map[string]any{"question": "tampilkan ranking ledger reserves"})
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Count int               `json:"count"`
		Rows  []json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Zero(t, out.Count)
}

func TestMCPRouteDefaultsToLedgerWithoutLLM(t *testing.T) {
	a := newApp(t)
	rec := route(t, a, map[string]any{"question": "halo apa kabar"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count"`)
}

func TestMCPRouteUnknownTool(t *testing.T) {
	a := newApp(t)
	rec := route(t, a, map[string]any{"tool": "get_po_status"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMCPRouteExecutesPlanInOrder(t *testing.T) {
	a := newApp(t)

	rec := route(t, a, map[string]any{
		"question": "evaluasi cadangan sumur W-9 lalu tampilkan ledger",
		"plan": map[string]any{
			"routes": []map[string]any{
				{"tool": "evaluate", "params": map[string]any{
					"economic_limit": 40, "cumulative_basis": "running_sum", "observations": observations,
				}},
				{"kind": "mcp", "tool": "ledger"},
				{"tool": "get_po_status"},
			},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		RoutesExecuted int              `json:"routes_executed"`
		Items          []mcp.ExecResult `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, 3, out.RoutesExecuted)

	assert.Equal(t, "evaluate_reserves", out.Items[0].Route.Tool)
	assert.Empty(t, out.Items[0].Error)
	assert.Equal(t, "reserves_ledger", out.Items[1].Route.Tool)
	ledger, ok := out.Items[1].Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, ledger["count"])
	assert.Equal(t, http.StatusNotFound, out.Items[2].Status)

	_, found := a.Reserves.Ledger.Get("W-9")
	assert.True(t, found)
}
