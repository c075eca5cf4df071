// internal/handlers/http/metrics_handler.go
// Handler untuk metrics Prometheus format sederhana

package http

import (
	"fmt"
	"net/http"
	"sort"

	mcphandlers "dca-reserves/internal/handlers/mcp"
)

// inject dari app
var ledgerRows func() int

func SetLedgerGauge(fn func() int) { ledgerRows = fn }

func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP app_up 1 if the app is up\n# TYPE app_up gauge\napp_up 1\n")

	if ledgerRows != nil {
		fmt.Fprintf(w, "# HELP dca_ledger_rows wells currently in the reserves ledger\n# TYPE dca_ledger_rows gauge\ndca_ledger_rows %d\n", ledgerRows())
	}

	status := mcphandlers.ReposStatus()
	names := make([]string, 0, len(status))
	for k := range status {
		names = append(names, k)
	}
	sort.Strings(names)
	fmt.Fprintf(w, "# HELP dca_dependency_ready 1 if the dependency is wired\n# TYPE dca_dependency_ready gauge\n")
	for _, n := range names {
		v := 0
		if status[n] {
			v = 1
		}
		fmt.Fprintf(w, "dca_dependency_ready{name=%q} %d\n", n, v)
	}
}
