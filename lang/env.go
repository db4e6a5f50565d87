package lang

import (
	"iter"
	"maps"
	"slices"
)

// Environment is a lexical scope: a table of bindings chained to the scope
// that encloses it.
//
// Lookups walk outward through the chain. Writes always go to the receiver's
// own table, so declaring a name in an inner scope shadows, and never
// modifies, a binding of the same name further out.
//
// Environments are shared by reference. A closure keeps the live scope it
// was declared in, observing later bindings made there.
type Environment struct {
	values map[string]any
	parent *Environment
}

// NewEnvironment returns an empty scope enclosed by parent, which may be nil.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{values: make(map[string]any), parent: parent}
}

// Child returns a new empty scope enclosed by e.
func (e *Environment) Child() *Environment { return NewEnvironment(e) }

// Parent returns the enclosing scope, or nil for a root scope.
func (e *Environment) Parent() *Environment { return e.parent }

// Get returns the value bound to name in the nearest scope that binds it.
// It fails with [ErrNameNotFound] when no scope in the chain does.
func (e *Environment) Get(name string) (any, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}

	return nil, ErrNameNotFound.Errorf("%q", name)
}

// Lookup is like [Environment.Get] but reports a missing name with false.
func (e *Environment) Lookup(name string) (any, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.values[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Set binds name to value in e itself, replacing any binding e already has.
func (e *Environment) Set(name string, value any) {
	e.values[name] = value
}

// Has reports whether e itself, ignoring enclosing scopes, binds name.
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]

	return ok
}

// Local returns an iterator over the bindings of e itself in name order.
func (e *Environment) Local() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range slices.Sorted(maps.Keys(e.values)) {
			if !yield(k, e.values[k]) {
				return
			}
		}
	}
}

// Names returns the sorted set of names visible from e.
func (e *Environment) Names() []string {
	seen := make(map[string]struct{})

	for s := e; s != nil; s = s.parent {
		for k := range s.values {
			seen[k] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Depth returns the number of scopes enclosing e.
func (e *Environment) Depth() int {
	n := 0
	for s := e.parent; s != nil; s = s.parent {
		n++
	}

	return n
}
