package descriptor

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry holds named custom types and enums so that annotation text and
// reflect.Type descriptors can refer to them.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Descriptor
	byType map[reflect.Type]Descriptor
}

// DefaultRegistry is consulted by the package-level Normalize.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Descriptor),
		byType: make(map[reflect.Type]Descriptor),
	}
}

// RegisterType adds a custom scalar type under name.
func (r *Registry) RegisterType(name string, t reflect.Type) (Type, error) {
	if name == "" {
		return Type{}, fmt.Errorf("descriptor: register type: name is required")
	}
	if t == nil {
		return Type{}, fmt.Errorf("descriptor: register type %q: type is required", name)
	}
	if _, ok := builtinNames[name]; ok {
		return Type{}, fmt.Errorf("descriptor: register type %q: shadows a built-in type", name)
	}
	d := TypeOf(t)
	if d.Kind == KindCustom {
		d.Name = name
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = d
	if d.Kind == KindCustom {
		r.byType[t] = d
	}
	return d, nil
}

// RegisterEnum adds e under its name and member type.
func (r *Registry) RegisterEnum(e *Enum) error {
	if e == nil || e.Name == "" {
		return fmt.Errorf("descriptor: register enum: name is required")
	}
	if len(e.Members) == 0 {
		return fmt.Errorf("descriptor: register enum %q: no members", e.Name)
	}
	if _, ok := builtinNames[e.Name]; ok {
		return fmt.Errorf("descriptor: register enum %q: shadows a built-in type", e.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[e.Name] = e
	if e.Go != nil {
		r.byType[e.Go] = e
	}
	return nil
}

// Register adds T to r under name.
func Register[T any](r *Registry, name string) (Type, error) {
	return r.RegisterType(name, reflect.TypeFor[T]())
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// LookupType returns the descriptor registered for a Go type.
func (r *Registry) LookupType(t reflect.Type) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byType[t]
	return d, ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
