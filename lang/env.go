package lang

import (
	"fmt"
	"log/slog"
	"strings"
)

// Env is a lexical environment frame: a set of symbol-to-value bindings plus
// an optional outer frame consulted when a lookup misses locally. Closures
// capture the Env in which they were created; calling one creates a fresh
// child Env with the closure's params bound.
type Env struct {
	data  map[string]*Value
	outer *Env
}

// NewEnv creates a top-level environment with no outer frame.
func NewEnv() *Env {
	return &Env{data: make(map[string]*Value)}
}

// NewChildEnv creates an environment nested inside outer, binding each name
// in binds to the corresponding value in exprs. A bind name of "&" marks the
// following name as a rest parameter: it is bound to a list of every
// remaining expr, including when that list is empty. It is an error for "&"
// to appear without a following name.
func NewChildEnv(outer *Env, binds []string, exprs []*Value) (*Env, error) {
	e := &Env{data: make(map[string]*Value, len(binds)), outer: outer}

	for i := 0; i < len(binds); i++ {
		if binds[i] == "&" {
			if i+1 >= len(binds) {
				return nil, NewError("'&' must be followed by a rest parameter name")
			}

			rest := exprs[min(i, len(exprs)):]
			e.data[binds[i+1]] = NewList(rest...)

			return e, nil
		}

		var v *Value
		if i < len(exprs) {
			v = exprs[i]
		} else {
			v = Nil
		}

		e.data[binds[i]] = v
	}

	return e, nil
}

// Set binds name to v in e directly, shadowing any outer binding.
func (e *Env) Set(name string, v *Value) { e.data[name] = v }

// Find returns the innermost environment frame that directly defines name,
// or nil if no frame in the chain does.
func (e *Env) Find(name string) *Env {
	for cur := e; cur != nil; cur = cur.outer {
		if _, ok := cur.data[name]; ok {
			return cur
		}
	}

	return nil
}

// Get resolves name by walking outward from e. It reports an unresolved
// symbol as an *Error, matching the host-diagnostic error kind used
// throughout this package.
func (e *Env) Get(name string) (*Value, error) {
	frame := e.Find(name)
	if frame == nil {
		return nil, NewError(fmt.Sprintf("'%s' not found", name)).With(slog.String("symbol", name))
	}

	return frame.data[name], nil
}

// symbolsDeep collects every symbol bound anywhere in e's frame chain,
// innermost first, used by the REPL's completion. Duplicate names across
// frames are reported once, favoring the innermost binding's position.
func (e *Env) symbolsDeep() []string {
	seen := make(map[string]struct{})

	var names []string

	for cur := e; cur != nil; cur = cur.outer {
		for k := range cur.data {
			if _, ok := seen[k]; ok {
				continue
			}

			seen[k] = struct{}{}

			names = append(names, k)
		}
	}

	return names
}

// Symbols returns every symbol visible from e, sorted.
func Symbols(e *Env) []string {
	names := e.symbolsDeep()

	// Simple insertion sort keeps this dependency-free; completion lists are
	// small (tens to low hundreds of bindings).
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && strings.Compare(names[j-1], names[j]) > 0; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}

	return names
}
