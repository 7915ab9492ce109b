package check

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/sofmeright/soundcheck/src/pyproject"
)

// Module is the interface every audit check implements.
type Module interface {
	Name() string
	Check(ctx context.Context, file FileInfo) ([]Finding, error)
	DefaultEnabled() bool
	AutoDetect() []string // glob patterns that trigger auto-enable
}

// ConfigurableModule is implemented by modules that accept options from
// the config file.
type ConfigurableModule interface {
	Module
	Configure(opts map[string]any) error
}

// ProfileAware is implemented by modules that compare settings against
// the curated profile.
type ProfileAware interface {
	Module
	SetProfile(p pyproject.Profile)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Module{}
)

// Register adds a module constructor under its name. Module files call
// this from init; registering a name twice is a programmer error.
func Register(name string, constructor func() Module) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("check: duplicate module registration: %s", name))
	}
	registry[name] = constructor
}

// Get builds a fresh instance of the named module.
func Get(name string) (Module, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("check: unknown module: %s", name)
	}
	return ctor(), nil
}

// All returns every registered module name, sorted.
func All() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}
