// internal/handlers/mcp/get_production.go
// MCP Tool: get_production - ambil data produksi harian (oil/gas/water)

package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	mysqlrepo "dca-reserves/internal/repositories/mysql"
	"dca-reserves/internal/util"
)

// inject dari app
var productionRepo *mysqlrepo.ProductionRepo

func SetProductionRepo(r *mysqlrepo.ProductionRepo) {
	productionRepo = r
	readyProduction = r != nil
}

type ProductionRow struct {
	Date      string   `json:"date"` // YYYY-MM-DD
	WellID    string   `json:"well_id"`
	OilBOPD   *float64 `json:"oil_bopd,omitempty"`
	GasMMSCFD *float64 `json:"gas_mmscfd,omitempty"`
	WaterBWPD *float64 `json:"water_bwpd,omitempty"`
}

type prodReq struct {
	WellID string `json:"well_id,omitempty"`
	Start  string `json:"start,omitempty"` // "2025-09-01"
	End    string `json:"end,omitempty"`   // "2025-09-20" (exclusive)
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

func GetProductionHandler(w http.ResponseWriter, r *http.Request) {
	if productionRepo == nil {
		writeError(w, util.Unavailable("production repo not configured"))
		return
	}

	q := r.URL.Query()

	// Terima well_id dan well (alias)
	in := prodReq{
		WellID: strings.TrimSpace(q.Get("well_id")),
		Start:  strings.TrimSpace(q.Get("start")),
		End:    strings.TrimSpace(q.Get("end")),
	}
	if in.WellID == "" {
		in.WellID = strings.TrimSpace(q.Get("well"))
	}
	if v := q.Get("limit"); v != "" {
		if n, _ := strconv.Atoi(v); n > 0 {
			in.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, _ := strconv.Atoi(v); n >= 0 {
			in.Offset = n
		}
	}

	if r.Method == http.MethodPost && in.WellID == "" && in.Start == "" && in.End == "" {
		_ = json.NewDecoder(r.Body).Decode(&in)
		in.WellID = strings.TrimSpace(in.WellID)
		in.Start = strings.TrimSpace(in.Start)
		in.End = strings.TrimSpace(in.End)
	}

	// Default: 30 hari terakhir jika kosong
	if in.Start == "" && in.End == "" {
		now := time.Now().UTC()
		in.End = now.Format("2006-01-02")
		in.Start = now.AddDate(0, 0, -30).Format("2006-01-02")
	}

	start, err := parseDate(in.Start)
	if err != nil {
		writeError(w, util.BadInput("start must be YYYY-MM-DD"))
		return
	}
	end, err := parseDate(in.End)
	if err != nil {
		writeError(w, util.BadInput("end must be YYYY-MM-DD"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 6*time.Second)
	defer cancel()

	rows, err := productionRepo.ListDaily(ctx, mysqlrepo.ProdFilter{
		WellID: in.WellID,
		Start:  start,
		End:    end,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   "db_error",
			"message": err.Error(),
			"input":   in,
		})
		return
	}

	out := make([]ProductionRow, 0, len(rows))
	for _, rr := range rows {
		rec := ProductionRow{
			Date:   rr.ProdDate.Format("2006-01-02"),
			WellID: rr.WellID,
		}
		if rr.OilBOPD.Valid {
			rec.OilBOPD = &rr.OilBOPD.Float64
		}
		if rr.GasMMSCFD.Valid {
			rec.GasMMSCFD = &rr.GasMMSCFD.Float64
		}
		if rr.WaterBWPD.Valid {
			rec.WaterBWPD = &rr.WaterBWPD.Float64
		}
		out = append(out, rec)
	}
	writeJSON(w, http.StatusOK, out)
}

// parseDate "" -> nil.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
