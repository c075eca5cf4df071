// internal/handlers/http/cors_handler.go
package http

import "net/http"

// preflightMaxAge detik; browser cache hasil preflight evaluate/ledger.
const preflightMaxAge = "600"

// PreflightHandler mengembalikan 204 untuk OPTIONS (catch-all /api/*).
// Header Allow-* sudah diisi middleware CORS.
func PreflightHandler(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Max-Age", preflightMaxAge)
	h.Add("Vary", "Access-Control-Request-Method")
	w.WriteHeader(http.StatusNoContent)
}
