package surface

import (
	"errors"
	"sort"
	"sync"
)

// Factory adapts a Descriptor into a Target. Factories that do not
// recognize the descriptor's reference type return ErrRefUnsupported so
// acquisition can fall through to the next provider.
type Factory func(desc Descriptor) (Target, error)

// Entry represents a registered surface provider.
type Entry struct {
	// Name is the unique identifier for this provider.
	Name string

	// Priority determines selection order (higher = preferred).
	// Platform providers sit near 100, software providers near 10.
	Priority int

	// Factory adapts descriptors into targets.
	Factory Factory

	// Available reports if the provider can work on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered surface providers.
//
// Platform integrations register themselves without changes to the core
// library:
//
//	func init() {
//	    surface.Register("metal", 100, metalFactory, metalAvailable)
//	}
//
// Acquisition walks providers in priority order:
//
//	target, err := surface.Acquire(desc)
//	// or pin a specific provider:
//	target, err := surface.AcquireByName("memory", desc)
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and Acquire.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// Register adds a provider to the global registry.
//
// If available is nil, the provider is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a provider from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered provider names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of all available providers sorted by priority.
func Available() []string {
	return globalRegistry.Available()
}

// Acquire adapts the descriptor using the best available provider.
func Acquire(desc Descriptor) (Target, error) {
	return globalRegistry.Acquire(desc)
}

// AcquireByName adapts the descriptor using a specific named provider.
func AcquireByName(name string, desc Descriptor) (Target, error) {
	return globalRegistry.AcquireByName(name, desc)
}

// Register adds a provider to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*Entry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &Entry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a provider from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered provider names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available providers sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Acquire walks available providers in priority order. Providers that
// decline the reference (ErrRefUnsupported) are skipped silently; the last
// real failure is returned when nothing succeeds.
func (r *Registry) Acquire(desc Descriptor) (Target, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoProviderAvailable
	}

	var lastErr error
	for _, name := range available {
		t, err := r.AcquireByName(name, desc)
		if err == nil {
			return t, nil
		}
		if errors.Is(err, ErrRefUnsupported) {
			continue
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoProviderAvailable
}

// AcquireByName adapts the descriptor using a specific provider.
func (r *Registry) AcquireByName(name string, desc Descriptor) (Target, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &ProviderNotFoundError{Name: name}
	}

	if !entry.Available() {
		return nil, &ProviderUnavailableError{Name: name}
	}

	return entry.Factory(desc)
}

// sortedNames returns provider names sorted by priority (highest first).
// If onlyAvailable is true, filters to available providers only.
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Errors.
var (
	// ErrNoProviderAvailable is returned when no surface providers are
	// registered or available on the current system.
	ErrNoProviderAvailable = errors.New("surface: no provider available")

	// ErrRefUnsupported is returned by factories that do not recognize the
	// descriptor's reference type. Acquire treats it as "try the next one".
	ErrRefUnsupported = errors.New("surface: reference type unsupported")
)

// ProviderNotFoundError indicates a named provider is not registered.
type ProviderNotFoundError struct {
	Name string
}

func (e *ProviderNotFoundError) Error() string {
	return "surface: provider not found: " + e.Name
}

// ProviderUnavailableError indicates a provider exists but is not available.
type ProviderUnavailableError struct {
	Name string
}

func (e *ProviderUnavailableError) Error() string {
	return "surface: provider unavailable: " + e.Name
}

// init registers the built-in memory provider.
func init() {
	Register("memory", 10, newMemoryTarget, nil)
}
