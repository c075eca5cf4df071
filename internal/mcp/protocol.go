// internal/mcp/protocol.go
// Struktur dasar request/response MCP

package mcp

// ToolRequest envelope untuk /mcp/route. Tool kosong = pilih dari Question.
type ToolRequest struct {
	Tool     string `json:"tool,omitempty"`
	Question string `json:"question,omitempty"`
	Params   any    `json:"params,omitempty"`
}

type ToolResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
