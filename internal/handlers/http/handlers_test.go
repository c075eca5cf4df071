// internal/handlers/http/handlers_test.go
package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"dca-reserves/internal/config"
	hh "dca-reserves/internal/handlers/http"
	mcphandlers "dca-reserves/internal/handlers/mcp"
)

func TestReadyReportsDependencyFailure(t *testing.T) {
	hh.SetReadyCheck(func(context.Context) error { return errors.New("db down") })
	defer hh.SetReadyCheck(nil)

	rec := httptest.NewRecorder()
	hh.ReadyHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "db down")

	hh.SetReadyCheck(nil)
	rec = httptest.NewRecorder()
	hh.ReadyHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsIncludesLedgerGauge(t *testing.T) {
	hh.SetLedgerGauge(func() int { return 7 })
	defer hh.SetLedgerGauge(nil)

	rec := httptest.NewRecorder()
	hh.MetricsHandler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, "app_up 1")
	assert.Contains(t, body, "dca_ledger_rows 7")
	assert.Contains(t, body, `dca_dependency_ready{name="production"}`)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	h := hh.NewLoginHandler(config.Admin{User: "admin", PassHash: string(hash), JWTSecret: "s"})

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))
		return rec
	}

	assert.Equal(t, http.StatusBadRequest, post("{").Code)
	assert.Equal(t, http.StatusUnauthorized, post(`{"username":"admin","password":"nope"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(`{"username":"root","password":"pw"}`).Code)

	rec := post(`{"username":"admin","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "admin", out.Role)

	off := hh.NewLoginHandler(config.Admin{})
	rec = httptest.NewRecorder()
	off(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"a","password":"b"}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReposStatusReportsLedgerAndLLM(t *testing.T) {
	hh.SetLedgerGauge(func() int { return 3 })
	defer hh.SetLedgerGauge(nil)
	mcphandlers.SetLLMReady(true)
	defer mcphandlers.SetLLMReady(false)

	rec := httptest.NewRecorder()
	hh.ReposStatusHandler(rec, httptest.NewRequest(http.MethodGet, "/debug/repos", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Dependencies map[string]bool `json:"dependencies"`
		LedgerRows   int             `json:"ledger_rows"`
		Persisted    bool            `json:"ledger_persisted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 3, out.LedgerRows)
	assert.True(t, out.Dependencies["llm"])
	assert.Contains(t, out.Dependencies, "ledger_store")
	assert.Equal(t, out.Dependencies["ledger_store"], out.Persisted)
}

func TestPreflightCachesResult(t *testing.T) {
	rec := httptest.NewRecorder()
	hh.PreflightHandler(rec, httptest.NewRequest(http.MethodOptions, "/api/reserves/evaluate", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Contains(t, rec.Header().Values("Vary"), "Access-Control-Request-Method")
}
