// internal/handlers/mcp/ready_flags.go
package mcp

// Flag readiness per domain; diset dari Set*(..) masing-masing handler.
var (
	readyProduction  bool
	readyReserves    bool
	readyLedgerStore bool
	readyLLM         bool
)

// SetLLMReady dipanggil app setelah client LLM tool chooser terpasang.
func SetLLMReady(ok bool) { readyLLM = ok }

// ReposStatus mengembalikan status siap/tidaknya setiap dependency domain.
func ReposStatus() map[string]bool {
	return map[string]bool{
		"production":   readyProduction,
		"reserves":     readyReserves,
		"ledger_store": readyLedgerStore,
		"llm":          readyLLM,
	}
}
