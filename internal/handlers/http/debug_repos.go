// internal/handlers/http/debug_repos.go
package http

import (
	"encoding/json"
	"net/http"

	mcphandlers "dca-reserves/internal/handlers/mcp"
)

// reposStatus: Persisted false = ledger hanya di memori, hilang saat restart.
type reposStatus struct {
	Dependencies map[string]bool `json:"dependencies"`
	LedgerRows   int             `json:"ledger_rows"`
	Persisted    bool            `json:"ledger_persisted"`
}

// ReposStatusHandler: dependency yang ter-wire + isi ledger reserves saat ini.
func ReposStatusHandler(w http.ResponseWriter, r *http.Request) {
	deps := mcphandlers.ReposStatus()
	out := reposStatus{Dependencies: deps, Persisted: deps["ledger_store"]}
	if ledgerRows != nil {
		out.LedgerRows = ledgerRows()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
