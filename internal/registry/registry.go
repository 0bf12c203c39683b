// Package registry describes the functions a RecordFunction or Infix
// expression may call: how many parameters they take, what their outputs
// are named, and whether they can produce more than one output row.
//
// Grounded on the function table in eve-native's parser.rs (FUNCTION_INFO)
// plus the operator surface implied by the Infix/Inequality AST nodes.
//
// SPDX-License-Identifier: Apache-2.0
package registry

import "fmt"

// Info describes one callable function's parameter and output names, in
// declaration order. IsMulti marks functions (like string/split) that can
// bind more than one output per invocation and therefore lower to a
// MultiFunction constraint rather than a Function constraint.
type Info struct {
	Params  []string
	Outputs []string
	IsMulti bool
}

// GetIndex returns the position of name within either Params or Outputs.
// Returns -1 if name is not a parameter or output of this function.
func (i Info) GetIndex(name string) (idx int, isOutput bool, ok bool) {
	for ix, p := range i.Params {
		if p == name {
			return ix, false, true
		}
	}
	for ix, o := range i.Outputs {
		if o == name {
			return ix, true, true
		}
	}
	return -1, false, false
}

func single(params ...string) Info {
	return Info{Params: params, Outputs: []string{"degrees"}}
}

// Registry is a mutable, lookup-by-name table of Info. The default table
// seeds the two functions eve-native's FUNCTION_INFO defines explicitly
// (math/sin, math/cos) plus the multi-output string/split, then fills out
// the rest of the operator surface the Infix/Inequality/AttributeAccess
// nodes exercise so those lower without an "unknown function" error.
type Registry struct {
	functions map[string]Info
}

// New returns the default registry.
func New() *Registry {
	r := &Registry{functions: make(map[string]Info)}
	r.register("math/sin", single("degrees"))
	r.register("math/cos", single("degrees"))
	r.register("string/split", Info{
		Params:  []string{"text", "by"},
		Outputs: []string{"token", "index"},
		IsMulti: true,
	})

	r.register("+", Info{Params: []string{"a", "b"}, Outputs: []string{"result"}})
	r.register("-", Info{Params: []string{"a", "b"}, Outputs: []string{"result"}})
	r.register("*", Info{Params: []string{"a", "b"}, Outputs: []string{"result"}})
	r.register("/", Info{Params: []string{"a", "b"}, Outputs: []string{"result"}})
	r.register("%", Info{Params: []string{"a", "b"}, Outputs: []string{"result"}})
	r.register("concat", Info{Params: []string{"chunks"}, Outputs: []string{"result"}})
	r.register("gen_id", Info{Params: []string{"parts"}, Outputs: []string{"id"}})

	return r
}

func (r *Registry) register(name string, info Info) { r.functions[name] = info }

// Lookup returns the Info for name, or false if no such function exists.
func (r *Registry) Lookup(name string) (Info, bool) {
	info, ok := r.functions[name]
	return info, ok
}

// Register adds or overrides a function definition, used by internal/config
// to load registry overrides from ligature.toml.
func (r *Registry) Register(name string, info Info) { r.functions[name] = info }

// MustLookup panics if name is not registered; used only at call sites that
// have already validated the name exists (e.g. after a successful Lookup).
func (r *Registry) MustLookup(name string) Info {
	info, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("registry: unknown function %q", name))
	}
	return info
}

// IsComparisonOp reports whether op is one of the Inequality/AttributeInequality
// comparison operators, lowered to a Filter constraint rather than a Function.
func IsComparisonOp(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "contains", "!contains":
		return true
	default:
		return false
	}
}

// IsArithmeticOp reports whether op is one of the Infix arithmetic operators,
// lowered to a Function("op", [l, r], out) constraint.
func IsArithmeticOp(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%":
		return true
	default:
		return false
	}
}
