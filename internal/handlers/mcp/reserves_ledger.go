// internal/handlers/mcp/reserves_ledger.go
// MCP Tool: reserves_ledger - daftar hasil evaluasi (urut reserves menurun), JSON atau CSV

package mcp

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"dca-reserves/internal/ledger"
)

type ledgerReq struct {
	Limit  int    `json:"limit,omitempty"`
	Format string `json:"format,omitempty"`
}

type ledgerResp struct {
	Count int                `json:"count"`
	Rows  []ledger.ExportRow `json:"rows"`
}

func ReservesLedgerHandler(w http.ResponseWriter, r *http.Request) {
	if !serviceReady(w) {
		return
	}
	in := ledgerReq{Format: r.URL.Query().Get("format")}
	if v := r.URL.Query().Get("limit"); v != "" {
		in.Limit, _ = strconv.Atoi(v)
	}
	if r.Method == http.MethodPost && r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&in)
	}
	if strings.EqualFold(in.Format, "csv") {
		LedgerCSVHandler(w, r)
		return
	}

	rows := reservesSvc.Ledger.Export()
	if in.Limit > 0 && in.Limit < len(rows) {
		rows = rows[:in.Limit]
	}
	writeJSON(w, http.StatusOK, ledgerResp{Count: len(rows), Rows: rows})
}

// LedgerCSVHandler menulis ledger sebagai text/csv.
func LedgerCSVHandler(w http.ResponseWriter, r *http.Request) {
	if !serviceReady(w) {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="reserves_ledger.csv"`)
	if err := reservesSvc.Ledger.WriteCSV(w); err != nil {
		reservesSvc.Log.WithError(err).Error("write ledger csv")
	}
}
