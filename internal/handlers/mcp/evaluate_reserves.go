// internal/handlers/mcp/evaluate_reserves.go
// MCP Tool: evaluate_reserves - pipeline penuh + upsert ledger.
// Mode: satu sumur (well_id), platform (platform + wells), atau batch (wells / all).

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"dca-reserves/internal/decline"
	"dca-reserves/internal/ledger"
	"dca-reserves/internal/services"
	"dca-reserves/internal/util"
)

type evaluateReq struct {
	Platform string   `json:"platform,omitempty"`
	Wells    []string `json:"wells,omitempty"`
	All      bool     `json:"all,omitempty"`
}

type evaluateResp struct {
	Entry    ledger.Entry            `json:"entry"`
	Estimate decline.ReserveEstimate `json:"estimate"`
	Warning  *util.AppError          `json:"warning,omitempty"`
}

type batchResp struct {
	Results []services.BatchResult `json:"results"`
	Failed  int                    `json:"failed"`
}

func EvaluateReservesHandler(w http.ResponseWriter, r *http.Request) {
	if !serviceReady(w) {
		return
	}

	// body dibaca sekali lalu dipakai untuk dua bentuk request
	var raw []byte
	if r.Method == http.MethodPost && r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, util.BadInput("read body error"))
			return
		}
		raw = b
		r.Body = io.NopCloser(bytes.NewReader(raw))
	}
	var mode evaluateReq
	if len(bytes.TrimSpace(raw)) > 0 {
		_ = json.Unmarshal(raw, &mode)
	}
	if mode.Platform == "" {
		mode.Platform = strings.TrimSpace(r.URL.Query().Get("platform"))
	}
	if len(mode.Wells) == 0 {
		if v := strings.TrimSpace(r.URL.Query().Get("wells")); v != "" {
			mode.Wells = strings.Split(v, ",")
		}
	}

	var in services.EvaluateRequest
	if err := decodeRequest(r, &in); err != nil {
		writeError(w, err)
		return
	}

	switch {
	case mode.Platform != "":
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()
		_, e, err := reservesSvc.EvaluatePlatform(ctx, mode.Platform, mode.Wells, in)
		writeEvaluated(w, e, err)

	case mode.All || (len(mode.Wells) > 0 && in.WellID == ""):
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
		defer cancel()
		res, err := reservesSvc.EvaluateAll(ctx, mode.Wells, in)
		if err != nil && res == nil {
			writeError(w, err)
			return
		}
		out := batchResp{Results: res}
		for _, br := range res {
			if br.Err != nil {
				out.Failed++
			}
		}
		writeJSON(w, http.StatusOK, out)

	default:
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		_, e, err := reservesSvc.Evaluate(ctx, in)
		writeEvaluated(w, e, err)
	}
}

// writeEvaluated: baris ledger sudah ter-upsert walau persist gagal; unresolved cutoff
// dilaporkan sebagai warning, bukan error.
func writeEvaluated(w http.ResponseWriter, e ledger.Entry, err error) {
	if err != nil && e.WellID == "" {
		writeError(w, err)
		return
	}
	resp := evaluateResp{Entry: e, Estimate: e.Estimate}
	if err != nil {
		ae := util.FromDecline(err)
		resp.Warning = &ae
	} else if werr := e.Estimate.Err(); werr != nil {
		ae := util.FromDecline(werr)
		resp.Warning = &ae
	}
	writeJSON(w, http.StatusOK, resp)
}
