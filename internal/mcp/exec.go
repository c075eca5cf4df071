// internal/mcp/exec.go
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ExecResult struct {
	Route  Route  `json:"route"`
	Status int    `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ExecuteRoutes menjalankan rute MCP in-process secara berurutan (urutan penting:
// evaluate lalu ledger harus melihat hasil evaluate).
func (g *Registry) ExecuteRoutes(ctx context.Context, routes []Route, header http.Header) []ExecResult {
	out := make([]ExecResult, 0, len(routes))
	for _, r := range routes {
		if r.Kind != RouteMCP {
			out = append(out, ExecResult{Route: r, Status: http.StatusBadRequest, Error: "unsupported kind: " + string(r.Kind)})
			continue
		}
		h, ok := g.Get(r.Tool)
		if !ok {
			out = append(out, ExecResult{Route: r, Status: http.StatusNotFound, Error: "tool not found: " + r.Tool})
			continue
		}

		// Body: default {}
		body := []byte("{}")
		if !isJSONNullOrEmpty(r.Params) {
			body = r.Params
		}
		req, _ := http.NewRequestWithContext(ctx, http.MethodPost, "/mcp/internal/"+r.Tool, bytes.NewReader(body))
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("Content-Type", "application/json")

		rr := newMemRecorder()
		h.ServeHTTP(rr, req)

		res := ExecResult{Route: r, Status: rr.status}
		if rr.status >= 200 && rr.status < 300 {
			if len(rr.buf) == 0 {
				res.Data = map[string]any{}
			} else {
				var anyData any
				if err := json.Unmarshal(rr.buf, &anyData); err != nil {
					res.Data = string(rr.buf) // fallback non-JSON (mis. CSV)
				} else {
					res.Data = anyData
				}
			}
		} else {
			msg := strings.TrimSpace(string(rr.buf))
			if msg == "" {
				msg = fmt.Sprintf("status %d", rr.status)
			}
			res.Error = msg
		}
		out = append(out, res)
	}
	return out
}

// ExecuteRoutes memakai registry default.
func ExecuteRoutes(ctx context.Context, routes []Route) []ExecResult {
	return reg.ExecuteRoutes(ctx, routes, nil)
}

// ---- mini response recorder (in-memory) ----
type memRecorder struct {
	buf    []byte
	status int
	header http.Header
}

func newMemRecorder() *memRecorder { return &memRecorder{header: http.Header{}, status: http.StatusOK} }

func (m *memRecorder) Header() http.Header { return m.header }
func (m *memRecorder) Write(b []byte) (int, error) {
	m.buf = append(m.buf, b...)
	return len(b), nil
}
func (m *memRecorder) WriteHeader(code int) { m.status = code }
