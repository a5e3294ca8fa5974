// Package module keeps the process wide module registry
package module

import (
	"fmt"
	"sort"
	"sync"

	phttp "bear/internal/platform/net/http"
)

// Module mirrors modkit.Module so callers need not import modkit
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register records the ports a module exposes under its name
// registering a name again replaces the earlier entry
func Register(name string, ports any) {
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// Lookup returns the ports registered for name as T
func Lookup[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	out, ok2 := v.(T)
	return out, ok && ok2
}

// Names lists registered modules in order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Reset clears the registry
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}

// MustPortsOf returns m's ports as T, panicking when they are another type
func MustPortsOf[T any](m Module) T {
	if v, ok := m.Ports().(T); ok {
		return v
	}
	panic(fmt.Sprintf("module %s: ports are %T, not the requested type", m.Name(), m.Ports()))
}
