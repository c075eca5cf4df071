// internal/handlers/mcp/respond.go
// Helper decode input & tulis respons JSON untuk semua tool

package mcp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"dca-reserves/internal/services"
	"dca-reserves/internal/util"
)

// inject dari app
var reservesSvc *services.ReservesService

func SetReservesService(s *services.ReservesService) {
	reservesSvc = s
	readyReserves = s != nil
	readyLedgerStore = s != nil && s.Store != nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError memetakan error engine/layanan ke AppError + HTTP status.
func writeError(w http.ResponseWriter, err error) {
	ae := util.FromDecline(err)
	writeJSON(w, ae.HTTPStatus(), ae)
}

func serviceReady(w http.ResponseWriter) bool {
	if reservesSvc == nil {
		writeError(w, util.Unavailable("reserves service not configured"))
		return false
	}
	return true
}

// decodeRequest: POST JSON body kalau ada, kalau tidak dari query string.
func decodeRequest(r *http.Request, in *services.EvaluateRequest) error {
	if r.Method == http.MethodPost && r.Body != nil {
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(in); err != nil && !errors.Is(err, io.EOF) {
			return util.BadInput("invalid json: " + err.Error())
		}
	}
	q := r.URL.Query()
	setStr := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v := strings.TrimSpace(q.Get(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setStr(&in.WellID, "well_id", "well")
	setStr(&in.Phase, "phase")
	setStr(&in.Start, "start")
	setStr(&in.End, "end")
	setStr(&in.ForecastStart, "forecast_start")
	setStr(&in.Basis, "cumulative_basis", "basis")

	if in.HorizonMonths == 0 {
		if n, err := strconv.Atoi(q.Get("horizon_months")); err == nil {
			in.HorizonMonths = n
		}
	}
	if in.Intervention == 0 {
		if v, err := strconv.ParseFloat(q.Get("intervention"), 64); err == nil {
			in.Intervention = v
		}
	}
	if in.B == nil {
		if v, err := strconv.ParseFloat(q.Get("b"), 64); err == nil {
			in.B = &v
		}
	}
	if in.EconomicLimit == nil {
		if v, err := strconv.ParseFloat(q.Get("economic_limit"), 64); err == nil {
			in.EconomicLimit = &v
		}
	}
	in.WellID = strings.TrimSpace(in.WellID)
	return nil
}
