package llm

import (
	"fmt"
	"sync"

	"github.com/sethtw/saga-sub000/internal/config"
)

// Factory builds one adapter instance from its descriptor.
type Factory func(cfg config.ProviderConfig) (Provider, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register installs a factory under a provider type key. Adapter packages
// call this from init(); importing an adapter package is what makes its
// type constructible.
func Register(providerType string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[providerType]; exists {
		panic(fmt.Sprintf("provider factory %s already registered", providerType))
	}
	factories[providerType] = f
}

// Build looks up the factory for cfg.Type and constructs the adapter.
func Build(cfg config.ProviderConfig) (Provider, error) {
	mu.RLock()
	f, ok := factories[cfg.Type]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider factory not found for type: %s", cfg.Type)
	}
	return f(cfg)
}
