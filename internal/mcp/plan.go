// internal/mcp/plan.go
package mcp

import (
	"encoding/json"
	"os"
	"regexp"
	"strconv"
	"strings"
)

type RouteKind string

const RouteMCP RouteKind = "mcp"

type Route struct {
	Kind   RouteKind       `json:"kind"`             // "mcp"
	Tool   string          `json:"tool,omitempty"`   // nama tool di registry
	Params json.RawMessage `json:"params,omitempty"` // payload JSON utk handler tool (RAW)
}

type Plan struct {
	Mode     string  `json:"mode"`               // "mcp"
	Routes   []Route `json:"routes"`             // dieksekusi berurutan
	Reason   string  `json:"reason,omitempty"`   // penjelasan singkat
	Fallback bool    `json:"fallback,omitempty"` // true jika fallback
}

var maxRoutes = func() int {
	if v := os.Getenv("PLAN_MAX_ROUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 8
}()

// alias nama tool yang sering dipakai planner/LLM
var toolAliases = map[string]string{
	"production":      "get_production",
	"fit":             "fit_decline",
	"decline":         "fit_decline",
	"forecast":        "forecast_decline",
	"evaluate":        "evaluate_reserves",
	"reserves":        "evaluate_reserves",
	"ledger":          "reserves_ledger",
	"ledger:list":     "reserves_ledger",
	"reserves:remove": "remove_reserves",
}

// ------------------------------
// Plan Normalizer & Helpers
// ------------------------------

// NormalizePlan memastikan rute dari planner/user bisa dieksekusi:
// kind default "mcp", alias tool di-resolve, well_id diisi dari pertanyaan kalau
// rute per-sumur belum menyebutnya, rute duplikat dibuang, jumlah dibatasi maxRoutes.
func NormalizePlan(question string, p Plan) Plan {
	if strings.TrimSpace(p.Mode) == "" {
		p.Mode = string(RouteMCP)
	}
	well := ExtractWellID(question)

	seen := map[string]bool{}
	out := make([]Route, 0, len(p.Routes))
	for _, r := range p.Routes {
		if strings.TrimSpace(string(r.Kind)) == "" {
			r.Kind = RouteMCP
		}
		r.Kind = RouteKind(strings.ToLower(strings.TrimSpace(string(r.Kind))))

		tool := strings.ToLower(strings.TrimSpace(r.Tool))
		if alias, ok := toolAliases[tool]; ok {
			tool = alias
		}
		r.Tool = tool

		if well != "" && needsWell(tool) {
			r.Params = withDefault(r.Params, "well_id", well)
		}

		key := string(r.Kind) + "|" + r.Tool + "|" + string(r.Params)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}

	if len(out) > maxRoutes {
		out = out[:maxRoutes]
	}
	p.Routes = out
	return p
}

func needsWell(tool string) bool {
	switch tool {
	case "get_production", "fit_decline", "forecast_decline", "evaluate_reserves", "remove_reserves":
		return true
	}
	return false
}

// withDefault menambahkan key=val kalau key belum ada di params JSON object.
func withDefault(raw json.RawMessage, key string, val any) json.RawMessage {
	m := map[string]any{}
	if !isJSONNullOrEmpty(raw) {
		if err := json.Unmarshal(raw, &m); err != nil {
			return raw
		}
	}
	if v, ok := m[key]; ok && v != nil && v != "" {
		return raw
	}
	// platform / batch tidak butuh well_id
	if key == "well_id" && (m["platform"] != nil || m["wells"] != nil || m["all"] == true) {
		return raw
	}
	m[key] = val
	b, _ := json.Marshal(m)
	return b
}

// ID sumur: huruf + opsional tanda hubung + angka, mis. "W-12", "PLT-A03", "BRG07".
var reWellID = regexp.MustCompile(`\b([A-Za-z]{1,5}-?[A-Za-z]?\d{1,4}[A-Za-z]?)\b`)

// ExtractWellID mengambil kandidat ID sumur pertama dari teks bebas.
func ExtractWellID(q string) string {
	for _, m := range reWellID.FindAllStringSubmatch(q, -1) {
		cand := m[1]
		// abaikan token seperti "Q3" atau "h1" yang bukan ID sumur
		if len(cand) < 3 {
			continue
		}
		return strings.ToUpper(cand)
	}
	return ""
}

var reHorizon = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(bulan|months?|bln)\b`)

// extractHorizon "proyeksi 60 bulan" -> 60.
func extractHorizon(q string) int {
	m := reHorizon.FindStringSubmatch(q)
	if len(m) >= 2 {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}

// Util: cek apakah Params = null / {} / whitespace
func isJSONNullOrEmpty(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "{}"
}
