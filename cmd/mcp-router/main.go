// cmd/mcp-router/main.go
// Router MCP standalone: tool dieksekusi in-process, ledger dibagi dengan worker lewat DB.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"dca-reserves/internal/app"
	"dca-reserves/internal/config"
	"dca-reserves/internal/mcp"
	"dca-reserves/internal/middleware"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	// app.New mendaftarkan semua tool ke registry default
	a := app.New(cfg, log)
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a.Restore(ctx)
	cancel()

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/tools", func(w http.ResponseWriter, _ *http.Request) {
		defs, err := mcp.LoadToolDefs()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(defs)
	})
	r.Get("/tools/{name}", func(w http.ResponseWriter, req *http.Request) {
		d, ok := mcp.FindToolDef(chi.URLParam(req, "name"))
		if !ok {
			http.Error(w, "tool not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(d)
	})
	r.With(middleware.Auth(cfg.APIKey)).Post("/route", mcp.RouterHandler)

	addr := ":" + cfg.MCPPort
	log.WithField("addr", addr).WithField("tools", mcp.List()).Info("MCP Router listening")
	srv := &http.Server{Addr: addr, Handler: r, ReadTimeout: 15 * time.Second, WriteTimeout: 60 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		log.WithError(err).Fatal("mcp router stopped")
	}
}
