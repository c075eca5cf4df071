// internal/handlers/mcp/fit_decline.go
// MCP Tool: fit_decline - fitting exp/harmonic/hyperbolic atas window histori

package mcp

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"dca-reserves/internal/services"
)

const defaultMinZ = 2.5

func FitDeclineHandler(w http.ResponseWriter, r *http.Request) {
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

	fit, series, err := reservesSvc.Fit(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}

	view := services.NewFitView(fit)
	view.Curves = fit.Curves(series)

	// residual terhadap keluarga yang dipilih b (default best_b)
	b := fit.BestB
	if in.B != nil {
		b = *in.B
	}
	if vs, err := services.FitVariance(series, fit, b); err == nil {
		minZ := defaultMinZ
		if v, err := strconv.ParseFloat(r.URL.Query().Get("min_zscore"), 64); err == nil && v > 0 {
			minZ = v
		}
		view.Variance = vs
		view.Anomalies = services.ResidualOutliers(vs, minZ)
	} else {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
