// internal/handlers/mcp/forecast_decline.go
// MCP Tool: forecast_decline - proyeksi bulanan + estimasi reserves (tanpa menyentuh ledger)

package mcp

import (
	"context"
	"net/http"
	"time"

	"dca-reserves/internal/decline"
	"dca-reserves/internal/services"
)

type forecastResp struct {
	Fit      services.FitView        `json:"fit"`
	Forecast services.ForecastView   `json:"forecast"`
	Estimate decline.ReserveEstimate `json:"estimate"`
}

func ForecastDeclineHandler(w http.ResponseWriter, r *http.Request) {
	if !serviceReady(w) {
		return
	}
	var in services.EvaluateRequest
	if err := decodeRequest(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := reservesSvc.Run(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forecastResp{
		Fit:      services.NewFitView(res.Fit),
		Forecast: services.NewForecastView(res.Forecast),
		Estimate: res.Estimate,
	})
}
