// internal/mcp/router.go
// Router MCP: menerima request lalu memilih & mengeksekusi tool.

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dca-reserves/internal/mcp/llm"
	"dca-reserves/internal/middleware"
)

// inject dari app
var (
	chooser llm.Client
	logger  = logrus.StandardLogger()
)

// SetLLM memasang client untuk memilih tool dari pertanyaan bebas. nil = keyword saja.
func SetLLM(c llm.Client) { chooser = c }

func SetLogger(l *logrus.Logger) {
	if l != nil {
		logger = l
	}
}

// ====== Structured log payload ======

type routeLog struct {
	RequestID   string
	Question    string
	RequestTool string
	ChosenTool  string
	DecisionBy  string // explicit|keyword|llm|default|explicit-plan
	Routes      int
	Duration    time.Duration
	Err         string
}

func logRoute(level logrus.Level, l routeLog) {
	f := logrus.Fields{
		"event":            "mcp.route",
		"request_id":       l.RequestID,
		"decision_by":      l.DecisionBy,
		"catalog_count":    catalogCount(),
		"registered_count": len(List()),
		"has_llm":          chooser != nil,
		"duration_ms":      l.Duration.Milliseconds(),
	}
	if l.Question != "" {
		f["question"] = l.Question
	}
	if l.RequestTool != "" {
		f["request_tool"] = l.RequestTool
	}
	if l.ChosenTool != "" {
		f["chosen_tool"] = l.ChosenTool
	}
	if l.Routes > 0 {
		f["routes"] = l.Routes
	}
	if l.Err != "" {
		f["error"] = l.Err
	}
	logger.WithFields(f).Log(level, "mcp.route")
}

func catalogCount() int {
	defs, _ := LoadToolDefs()
	return len(defs)
}

// ====== Keyword heuristik ======
//
// Urutan penting: "hapus ... ledger" harus ke remove_reserves, bukan reserves_ledger.
var keywordRoutes = []struct {
	re   *regexp.Regexp
	tool string
}{
	{regexp.MustCompile(`\b(hapus|remove|delete)\b`), "remove_reserves"},
	{regexp.MustCompile(`\b(ledger|ranking|peringkat|csv)\b`), "reserves_ledger"},
	{regexp.MustCompile(`\b(reserves?|cadangan|eur|economic limit|batas ekonomi)\b`), "evaluate_reserves"},
	{regexp.MustCompile(`\b(forecast|proyeksi|prediksi|ramal)`), "forecast_decline"},
	{regexp.MustCompile(`\b(fit|fitting|decline|b[- ]?factor|arps)\b`), "fit_decline"},
	{regexp.MustCompile(`\b(produksi|production|bopd|mmscfd)\b`), "get_production"},
}

func keywordTool(question string) string {
	q := strings.ToLower(question)
	for _, k := range keywordRoutes {
		if k.re.MatchString(q) {
			return k.tool
		}
	}
	return ""
}

// ====== Router Handler ======

func RouterHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := middleware.RequestIDFrom(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body error", http.StatusBadRequest)
		logRoute(logrus.ErrorLevel, routeLog{RequestID: reqID, Err: fmt.Sprintf("read body: %v", err)})
		return
	}
	defer r.Body.Close()

	var req ToolRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		logRoute(logrus.ErrorLevel, routeLog{RequestID: reqID, Err: fmt.Sprintf("unmarshal: %v", err)})
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		question = extractQuestion(req.Params)
	}

	// ===== 0) plan.routes (atau routes di root) -> eksekusi multi-route =====
	var planWrapper struct {
		Plan   *Plan   `json:"plan"`
		Routes []Route `json:"routes"`
	}
	_ = json.Unmarshal(raw, &planWrapper)

	var p Plan
	switch {
	case planWrapper.Plan != nil && len(planWrapper.Plan.Routes) > 0:
		p = *planWrapper.Plan
	case len(planWrapper.Routes) > 0:
		p = Plan{Mode: string(RouteMCP), Routes: planWrapper.Routes}
	}
	if len(p.Routes) > 0 {
		p = NormalizePlan(question, p)
		items := reg.ExecuteRoutes(r.Context(), p.Routes, forwardHeader(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"mode":            p.Mode,
			"routes_executed": len(p.Routes),
			"items":           items,
		})
		logRoute(logrus.InfoLevel, routeLog{
			RequestID:  reqID,
			Question:   question,
			DecisionBy: "explicit-plan",
			Routes:     len(p.Routes),
			Duration:   time.Since(start),
		})
		return
	}

	// 1) Explicit tool?
	tool := strings.ToLower(strings.TrimSpace(req.Tool))
	if alias, ok := toolAliases[tool]; ok {
		tool = alias
	}
	decision := "explicit"

	// 2) Keyword dulu (deterministik), baru LLM
	if tool == "" {
		decision = ""
		if question != "" {
			if tool = keywordTool(question); tool != "" {
				decision = "keyword"
			} else if chosen := chooseToolWithLLM(r.Context(), question); chosen != "" {
				tool = chosen
				decision = "llm"
			}
		}
	}

	// 3) Default final: ledger (read-only)
	if tool == "" {
		tool = "reserves_ledger"
		decision = "default"
	}

	// 4) Enrich params (well_id / horizon dari pertanyaan)
	pm := paramsMap(req.Params)
	delete(pm, "question")
	if question != "" {
		if _, ok := pm["well_id"]; !ok && needsWell(tool) {
			if id := ExtractWellID(question); id != "" {
				pm["well_id"] = id
			}
		}
		if _, ok := pm["horizon_months"]; !ok && (tool == "forecast_decline" || tool == "evaluate_reserves") {
			if n := extractHorizon(question); n > 0 {
				pm["horizon_months"] = n
			}
		}
	}

	// 5) Execute (single tool)
	h, ok := Get(tool)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ToolResponse{Success: false, Error: "tool not found: " + tool})
		logRoute(logrus.WarnLevel, routeLog{
			RequestID:   reqID,
			Question:    question,
			RequestTool: req.Tool,
			ChosenTool:  tool,
			DecisionBy:  decision,
			Duration:    time.Since(start),
			Err:         "tool not found",
		})
		return
	}

	// Forward: handler menerima hanya Params JSON (tanpa envelope)
	forward, _ := json.Marshal(pm)
	r2 := r.Clone(r.Context())
	r2.Method = http.MethodPost
	r2.Body = io.NopCloser(bytes.NewReader(forward))
	r2.ContentLength = int64(len(forward))
	r2.Header.Set("Content-Type", "application/json")

	h.ServeHTTP(w, r2)

	logRoute(logrus.InfoLevel, routeLog{
		RequestID:   reqID,
		Question:    question,
		RequestTool: req.Tool,
		ChosenTool:  tool,
		DecisionBy:  decision,
		Duration:    time.Since(start),
	})
}

func forwardHeader(r *http.Request) http.Header {
	h := http.Header{}
	for _, k := range []string{"X-Request-ID", "Authorization", "X-API-Key"} {
		if v := r.Header.Get(k); v != "" {
			h.Set(k, v)
		}
	}
	return h
}

// ====== Chooser helpers ======

func paramsMap(params any) map[string]any {
	switch p := params.(type) {
	case map[string]any:
		return p
	case json.RawMessage:
		m := map[string]any{}
		_ = json.Unmarshal(p, &m)
		return m
	}
	return map[string]any{}
}

func extractQuestion(params any) string {
	if q, ok := paramsMap(params)["question"].(string); ok {
		return strings.TrimSpace(q)
	}
	return ""
}

func chooseToolWithLLM(ctx context.Context, question string) string {
	if chooser == nil {
		return ""
	}
	defs, err := LoadToolDefs()
	if err != nil || len(defs) == 0 {
		return ""
	}

	// hanya tool yang terdaftar di registry runtime
	regNames := map[string]struct{}{}
	for _, name := range List() {
		regNames[name] = struct{}{}
	}
	var filtered []ToolDef
	for _, d := range defs {
		if _, ok := regNames[d.Name]; ok {
			filtered = append(filtered, d)
		}
	}
	if len(filtered) == 0 {
		return ""
	}

	// timeout singkat agar responsif
	ctx, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	out, err := chooser.Complete(ctx, chooserSystemPrompt, buildChooserUserPrompt(question, filtered))
	if err != nil {
		logger.WithError(err).Warn("llm tool chooser failed")
		return ""
	}

	out = sanitizeToolToken(out)
	for _, d := range filtered {
		if strings.EqualFold(out, d.Name) {
			return d.Name
		}
	}
	return ""
}

const chooserSystemPrompt = `Anda adalah agen router untuk layanan decline curve analysis & reserves.
- Pilih tepat SATU nama tool dari daftar.
- Balas hanya dengan nama tool (misal: evaluate_reserves).
- Jika ragu, pilih "reserves_ledger".`

func buildChooserUserPrompt(question string, defs []ToolDef) string {
	var b strings.Builder
	b.WriteString("Pertanyaan user:\n")
	b.WriteString(question)
	b.WriteString("\n\nDaftar tool tersedia:\n")
	for i, d := range defs {
		desc := strings.TrimSpace(d.Description)
		if len(desc) > 300 {
			desc = desc[:300] + "..."
		}
		fmt.Fprintf(&b, "%d) %s: %s\n", i+1, d.Name, desc)
	}
	b.WriteString("\nBalas hanya dengan nama tool.")
	return b.String()
}

var nonWord = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

func sanitizeToolToken(s string) string {
	s = nonWord.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.ToLower(s)
}
