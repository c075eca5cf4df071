// internal/handlers/mcp/remove_reserves.go
// MCP Tool: remove_reserves - hapus baris ledger satu sumur (admin)

package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"dca-reserves/internal/util"
)

type removeReq struct {
	WellID string `json:"well_id"`
}

func RemoveReservesHandler(w http.ResponseWriter, r *http.Request) {
	if !serviceReady(w) {
		return
	}

	// path var (/admin/reserves/{well_id}) > query > body
	in := removeReq{WellID: mux.Vars(r)["well_id"]}
	if in.WellID == "" {
		in.WellID = r.URL.Query().Get("well_id")
	}
	if in.WellID == "" && r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&in)
	}
	in.WellID = strings.TrimSpace(in.WellID)
	if in.WellID == "" {
		writeError(w, util.BadInput("well_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 6*time.Second)
	defer cancel()

	ok, err := reservesSvc.Remove(ctx, in.WellID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, util.NotFound("well "+in.WellID+" not in ledger"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": in.WellID})
}
