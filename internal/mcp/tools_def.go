// internal/mcp/tools_def.go
package mcp

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed mcp-tools.json
var toolsJSON []byte

type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
}

type ToolCatalog struct {
	Tools []ToolDef `json:"tools"`
}

var (
	toolDefs     []ToolDef
	toolDefsOnce sync.Once
	toolDefsErr  error
)

// LoadToolDefs mem-parse katalog tool yang di-embed (sekali).
func LoadToolDefs() ([]ToolDef, error) {
	toolDefsOnce.Do(func() {
		toolDefs, toolDefsErr = parseCatalog(toolsJSON)
	})
	return toolDefs, toolDefsErr
}

// parseCatalog menolak nama kosong/duplikat dan input_schema yang bukan object JSON.
func parseCatalog(raw []byte) ([]ToolDef, error) {
	var cat ToolCatalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("mcp-tools.json: %w", err)
	}
	seen := make(map[string]bool, len(cat.Tools))
	for i, d := range cat.Tools {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("mcp-tools.json: tools[%d] has no name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("mcp-tools.json: duplicate tool %q", name)
		}
		seen[name] = true
		if len(d.InputSchema) > 0 {
			var schema map[string]any
			if err := json.Unmarshal(d.InputSchema, &schema); err != nil {
				return nil, fmt.Errorf("mcp-tools.json: %s input_schema: %w", name, err)
			}
		}
	}
	return cat.Tools, nil
}

// FindToolDef definisi satu tool dari katalog.
func FindToolDef(name string) (ToolDef, bool) {
	defs, err := LoadToolDefs()
	if err != nil {
		return ToolDef{}, false
	}
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return ToolDef{}, false
}
