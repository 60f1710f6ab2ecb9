// Package registry maps module and distro names to their implementations.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// ResolutionError is returned when a name does not match a registered
// entry. It is never retried and no alternative names are tried.
type ResolutionError struct {
	Kind string // "module", "distro", ...
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q not found: %v", e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("%s %q not registered", e.Kind, e.Name)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Registry is a concurrency-safe name -> T table.
type Registry[T any] struct {
	kind    string
	mu      sync.RWMutex
	entries map[string]T
}

func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:    kind,
		entries: make(map[string]T),
	}
}

// Register adds or replaces the entry for name.
func (r *Registry[T]) Register(name string, entry T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = entry
}

// Resolve returns the entry for name or a *ResolutionError.
func (r *Registry[T]) Resolve(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[name]
	if !ok {
		var zero T
		return zero, &ResolutionError{Kind: r.kind, Name: name}
	}
	return entry, nil
}

// Names lists registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
