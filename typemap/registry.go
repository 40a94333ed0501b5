package typemap

import (
	"sort"

	"github.com/teranos/cxxbind/errors"
)

// Registry maps qualified native names to strategies.
// It is populated before generation and read-only afterwards.
type Registry struct {
	maps map[string]TypeMap
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{maps: make(map[string]TypeMap)}
}

// Register installs tm under every name in names.
// Returns an error, and registers nothing, if any name is empty or already taken.
func (r *Registry) Register(names []string, tm TypeMap) error {
	if tm == nil {
		return errors.New("typemap: nil strategy")
	}
	if len(names) == 0 {
		return errors.New("typemap: strategy registered without names")
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return errors.New("typemap: empty name")
		}
		if _, exists := r.maps[name]; exists || seen[name] {
			return errors.WithHint(
				errors.Newf("typemap: [%s] already registered", name),
				"each qualified name may be covered by exactly one strategy",
			)
		}
		seen[name] = true
	}

	for _, name := range names {
		r.maps[name] = tm
	}
	return nil
}

// Lookup returns the strategy registered for the exact qualified name
func (r *Registry) Lookup(name string) (TypeMap, bool) {
	if r == nil {
		return nil, false
	}
	tm, ok := r.maps[name]
	return tm, ok
}

// Names returns every registered name, sorted
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.maps))
	for name := range r.maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.maps)
}

// Entry is one row of the static registration table
type Entry struct {
	Names []string
	New   func() TypeMap
}

// Build creates a registry from one or more registration tables, in order
func Build(tables ...[]Entry) (*Registry, error) {
	r := NewRegistry()
	for _, table := range tables {
		for _, e := range table {
			if e.New == nil {
				return nil, errors.Newf("typemap: entry %v has no constructor", e.Names)
			}
			if err := r.Register(e.Names, e.New()); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}
