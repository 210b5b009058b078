// Package registry is the single source of truth for which object kinds
// exist and how they generate.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// RegistryError reports a definition that failed structural validation.
type RegistryError struct {
	Reason string
}

func (e *RegistryError) Error() string {
	return "registry: " + e.Reason
}

// ObjectTypeError reports a request for an unknown object type.
type ObjectTypeError struct {
	Name string
}

func (e *ObjectTypeError) Error() string {
	return fmt.Sprintf("unknown object type %q", e.Name)
}

// Registry holds the immutable type definitions. Writes happen at startup;
// reads dominate afterwards, hence the RWMutex. Construct one explicitly and
// inject it; there is no ambient global instance.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]TypeDefinition
	initialized bool
	logger      *zap.Logger
}

func New(logger *zap.Logger) *Registry {
	return &Registry{
		definitions: make(map[string]TypeDefinition),
		logger:      logger,
	}
}

// Register validates and stores a definition. Re-registering an existing name
// overwrites it; that is logged, not fatal.
func (r *Registry) Register(def TypeDefinition) error {
	if err := validateDefinition(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[def.Name]; exists {
		r.logger.Warn("overwriting existing object type definition", zap.String("type", def.Name))
	}
	r.definitions[def.Name] = def
	return nil
}

// Get returns the definition for name or an ObjectTypeError.
func (r *Registry) Get(name string) (TypeDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[name]
	if !ok {
		return TypeDefinition{}, &ObjectTypeError{Name: name}
	}
	return def, nil
}

// IsValidType reports whether name is registered.
func (r *Registry) IsValidType(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.definitions[name]
	return ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StatsByCategory counts registered types per category.
func (r *Registry) StatsByCategory() map[Category]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[Category]int)
	for _, def := range r.definitions {
		stats[def.Category]++
	}
	return stats
}

// MarkInitialized flags the registry as ready. Called once at startup after
// the built-in definitions are registered.
func (r *Registry) MarkInitialized() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initialized = true
}

// Initialized reports whether MarkInitialized has been called.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}
