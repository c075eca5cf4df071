// internal/app/routes.go
package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"dca-reserves/internal/config"
	hh "dca-reserves/internal/handlers/http"
	mcphandlers "dca-reserves/internal/handlers/mcp"
	"dca-reserves/internal/mcp"
	"dca-reserves/internal/middleware"
)

// RegisterRoutes menambahkan semua route HTTP ke r.
func RegisterRoutes(r *mux.Router, cfg *config.Config) {
	r.Use(middleware.RequestID)

	// --- no prefix ---
	r.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", hh.ReadyHandler).Methods(http.MethodGet)
	r.HandleFunc("/metrics", hh.MetricsHandler).Methods(http.MethodGet)
	r.HandleFunc("/login", hh.NewLoginHandler(cfg.Admin)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/debug/repos", hh.ReposStatusHandler).Methods(http.MethodGet)

	// Endpoint router MCP (explicit tool / plan / keyword / LLM)
	r.HandleFunc("/mcp/route", mcp.RouterHandler).Methods(http.MethodPost)

	// --- /api prefix (API key kalau API_KEY diisi) ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.APIKey))
	api.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	api.HandleFunc("/readyz", hh.ReadyHandler).Methods(http.MethodGet)
	api.HandleFunc("/login", hh.NewLoginHandler(cfg.Admin)).Methods(http.MethodPost, http.MethodOptions)

	// Domain endpoints (MCP tools exposed via HTTP)
	api.HandleFunc("/production", mcphandlers.GetProductionHandler).
		Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/decline/fit", mcphandlers.FitDeclineHandler).
		Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/decline/forecast", mcphandlers.ForecastDeclineHandler).
		Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/reserves/evaluate", mcphandlers.EvaluateReservesHandler).
		Methods(http.MethodPost)
	api.HandleFunc("/reserves/ledger", mcphandlers.ReservesLedgerHandler).
		Methods(http.MethodGet)
	api.HandleFunc("/reserves/ledger.csv", mcphandlers.LedgerCSVHandler).
		Methods(http.MethodGet)

	// Preflight catch-all
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(hh.PreflightHandler)

	// Admin (JWT protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminJWTAuth(cfg.Admin.JWTSecret), middleware.RequireRole("admin"))
	admin.HandleFunc("/reserves/{well_id}", mcphandlers.RemoveReservesHandler).Methods(http.MethodDelete)
}
