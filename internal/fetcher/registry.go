package fetcher

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Vodeneev/tipsbot/internal/pkg/config"
)

// Factory builds a fetcher from the loaded config.
type Factory func(cfg *config.Config) (Fetcher, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a factory under a case-insensitive name. Provider packages
// call it from init. It panics on an empty name, a nil factory or a duplicate.
func Register(name string, f Factory) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		panic("fetcher: empty name in Register")
	}
	if f == nil {
		panic("fetcher: nil factory in Register for " + n)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[n]; exists {
		panic("fetcher: duplicate registration for " + n)
	}
	registry[n] = f
}

// FactoryByName looks up a registered factory, ignoring case and surrounding
// spaces.
func FactoryByName(name string) (Factory, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[n]
	return f, ok
}

// AvailableNames returns the registered source names, sorted.
func AvailableNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New builds the fetcher selected by cfg.Source.
func New(cfg *config.Config) (Fetcher, error) {
	f, ok := FactoryByName(cfg.Source)
	if !ok {
		return nil, fmt.Errorf("unknown source %q (available: %v)", cfg.Source, AvailableNames())
	}
	return f(cfg)
}
