// internal/mcp/registry.go
// Registri mapping nama tool ke handler function

package mcp

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
)

// Registry menyimpan peta nama tool -> http.Handler secara thread-safe.
type Registry struct {
	mu   sync.RWMutex
	data map[string]http.Handler
}

func NewRegistry() *Registry {
	return &Registry{data: make(map[string]http.Handler)}
}

// registry default dipakai app, router, dan cmd/mcp-router
var reg = NewRegistry()

// Default mengembalikan registry global.
func Default() *Registry { return reg }

// Register mendaftarkan handler; nama yang sama ditimpa.
func (g *Registry) Register(name string, h http.Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.data[name] = h
}

func (g *Registry) Get(name string) (http.Handler, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	h, ok := g.data[name]
	return h, ok
}

// List nama tool terurut.
func (g *Registry) List() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := make([]string, 0, len(g.data))
	for k := range g.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Serve mengeksekusi handler tool 'name'; 404 kalau tidak ada.
func (g *Registry) Serve(w http.ResponseWriter, r *http.Request, name string) {
	if h, ok := g.Get(name); ok {
		h.ServeHTTP(w, r)
		return
	}
	http.Error(w, "tool not found: "+name, http.StatusNotFound)
}

func Register(name string, h http.Handler) { reg.Register(name, h) }

// RegisterFunc mendaftarkan handler function biasa (http.HandlerFunc).
func RegisterFunc(name string, fn func(http.ResponseWriter, *http.Request)) {
	reg.Register(name, http.HandlerFunc(fn))
}

func Get(name string) (http.Handler, bool) { return reg.Get(name) }

// MustGet seperti Get namun panic jika tidak ditemukan (fail-fast saat startup).
func MustGet(name string) http.Handler {
	if h, ok := reg.Get(name); ok {
		return h
	}
	panic(fmt.Sprintf("mcp: tool not found: %s", name))
}

func List() []string { return reg.List() }

func Serve(w http.ResponseWriter, r *http.Request, name string) { reg.Serve(w, r, name) }
