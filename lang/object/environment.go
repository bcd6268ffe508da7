package object

import (
	"maps"
	"slices"
)

// Environment maps names to values within one scope and links to the scope
// that encloses it.
//
// Lookups walk outward; bindings always land in the receiver. An inner
// scope therefore never mutates an outer one, only shadows it.
type Environment struct {
	store map[string]Object
	outer *Environment
}

// NewEnvironment returns an empty top-level scope.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// NewEnclosedEnvironment returns an empty scope nested in outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer

	return env
}

// Get returns the value bound to name in the nearest scope that binds it.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if obj, ok := env.store[name]; ok {
			return obj, true
		}
	}

	return nil, false
}

// Set binds name to val in e and returns val.
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val

	return val
}

// Outer returns the enclosing scope, or nil for a top-level scope.
func (e *Environment) Outer() *Environment { return e.outer }

// Names returns every name visible from e, sorted.
func (e *Environment) Names() []string {
	seen := make(map[string]struct{})
	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
