// internal/handlers/http/health_handler.go
// Handler health (liveness) & readiness

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	mcphandlers "dca-reserves/internal/handlers/mcp"
)

// inject dari app; nil = selalu siap (mode tanpa DB)
var readyCheck func(ctx context.Context) error

func SetReadyCheck(fn func(ctx context.Context) error) { readyCheck = fn }

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
}

// ReadyHandler 503 kalau dependency (DB) tidak bisa di-ping.
func ReadyHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
		"repos":  mcphandlers.ReposStatus(),
	}
	code := http.StatusOK
	if readyCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := readyCheck(ctx); err != nil {
			resp["status"] = "unavailable"
			resp["error"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
