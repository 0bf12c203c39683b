// Package ir implements the middle of the compiler: equality gathering,
// unification, lowering, sub-block stitching and register compaction, all
// operating on a per-scope Compilation value. Grounded on the Compilation
// struct and its methods.
//
// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"ligature/internal/constraint"
)

// childIDOffset separates a child scope's register numbering from its
// parent's, so registers can be merged back without collision before the
// compactor runs. Matches Compilation::new_child.
const childIDOffset = 10000

// SubBlockKind distinguishes the three shapes a nested scope can take.
type SubBlockKind int

const (
	SubNot SubBlockKind = iota
	SubIfBranch
	SubIf
)

// SubBlock is one nested scope belonging to a parent Compilation, plus the
// bookkeeping the stitcher needs to wire it back into the parent's
// constraint list.
type SubBlock struct {
	Kind      SubBlockKind
	Child     *Compilation
	Output    []constraint.Field // IfBranch: the branch's result field(s)
	Exclusive bool                // If: true once any else arm was seen
	Branches  []int               // If: indices into the parent's SubBlocks for each branch
}

// EqPair is one equality gathered between two fields, consumed by Unify.
type EqPair struct {
	A, B constraint.Field
}

// Compilation is one compiled scope: the top-level block, or a nested
// Not/If/IfBranch scope. id doubles as both this scope's unique identity
// and the starting point for its own register numbering, so merging a
// child's registers into the parent never collides before compaction.
type Compilation struct {
	ID      int
	nextReg int
	IsChild bool

	Vars             map[string]int
	Equalities       []EqPair
	VarValues        map[string]constraint.Field
	UnifiedRegisters map[int]int
	Provided         *bitset.BitSet
	RequiredFields   []constraint.Field
	Constraints      []constraint.Constraint
	SubBlocks        []*SubBlock

	BlockName string
}

// New returns a fresh top-level Compilation.
func New(id int, blockName string) *Compilation {
	return &Compilation{
		ID:               id,
		nextReg:          id,
		Vars:             make(map[string]int),
		VarValues:        make(map[string]constraint.Field),
		UnifiedRegisters: make(map[int]int),
		Provided:         bitset.New(64),
		BlockName:        blockName,
	}
}

// NewChild returns a fresh nested Compilation belonging to parent, offset
// far enough in register-id-space to never collide with the parent's own
// registers before compaction rewrites everything densely.
func (c *Compilation) NewChild() *Compilation {
	child := New(c.ID+childIDOffset, c.BlockName)
	child.IsChild = true
	return child
}

// GetRegister returns the register assigned to name in this scope,
// allocating a fresh one the first time name is seen.
func (c *Compilation) GetRegister(name string) int {
	if r, ok := c.Vars[name]; ok {
		return r
	}
	c.nextReg++
	c.Vars[name] = c.nextReg
	return c.nextReg
}

// GetUnifiedRegister resolves reg through the unifier's canonical mapping,
// following chains until a fixed point (unify already collapses this to a
// single hop, but callers before unification runs may see longer chains).
func (c *Compilation) GetUnifiedRegister(reg int) int {
	seen := map[int]bool{}
	for {
		if seen[reg] {
			return reg
		}
		seen[reg] = true
		next, ok := c.UnifiedRegisters[reg]
		if !ok || next == reg {
			return reg
		}
		reg = next
	}
}

// Provide marks reg as having a concrete value or binding available in this
// scope, for IsProvided/GetInputs bookkeeping.
func (c *Compilation) Provide(reg int) {
	c.Provided.Set(uint(reg))
}

// IsProvided reports whether reg already has a value bound in this scope
// (used by OutputRecord's needs_id check: an identity register that is
// already provided does not need a synthesized gen_id).
func (c *Compilation) IsProvided(reg int) bool {
	return c.Provided.Test(uint(reg))
}

// GetValue returns the concrete Field a variable resolved to after
// unification, if any.
func (c *Compilation) GetValue(name string) (constraint.Field, bool) {
	f, ok := c.VarValues[name]
	return f, ok
}

// AddEquality records an equality to be resolved by Unify. The operand
// registers are always recorded as required fields too, in parent and child
// scopes alike: a child scope that equates one of its own registers to
// something must be able to ask its parent for that value to exist.
func (c *Compilation) AddEquality(a, b constraint.Field) {
	c.Equalities = append(c.Equalities, EqPair{A: a, B: b})
	if a.IsRegister {
		c.RequiredFields = append(c.RequiredFields, a)
	}
	if b.IsRegister {
		c.RequiredFields = append(c.RequiredFields, b)
	}
}

// Emit appends a lowered constraint to this scope's output.
func (c *Compilation) Emit(ct constraint.Constraint) {
	c.Constraints = append(c.Constraints, ct)
}

// registerSet collects every register a haystack of constraints mentions.
func registerSet(cs []constraint.Constraint) map[int]bool {
	set := make(map[int]bool)
	for _, c := range cs {
		for _, r := range c.Registers() {
			set[r] = true
		}
	}
	return set
}

// outputRegisterSet collects every register a haystack of constraints
// produces (as opposed to merely reads).
func outputRegisterSet(cs []constraint.Constraint) map[int]bool {
	set := make(map[int]bool)
	for _, c := range cs {
		for _, r := range c.OutputRegisters() {
			set[r] = true
		}
	}
	return set
}

// GetInputs returns the registers this scope needs from an ancestor: the
// union of its own constraints' registers and its RequiredFields,
// intersected with what the haystack (ancestor constraints) actually
// provides as outputs. Mirrors Compilation::get_inputs. The result is
// sorted by register number so the AntiScan/IntermediateScan keys built
// from it are stable across compiler runs, independent of Go's randomized
// map iteration order.
func (c *Compilation) GetInputs(haystack []constraint.Constraint) []int {
	own := registerSet(c.Constraints)
	for _, f := range c.RequiredFields {
		if f.IsRegister {
			own[f.Register] = true
		}
	}
	avail := outputRegisterSet(haystack)
	var out []int
	for r := range own {
		if avail[r] {
			out = append(out, r)
		}
	}
	sort.Ints(out)
	return out
}

// getInputConstraints returns the subset of haystack whose output registers
// intersect inputs, i.e. the ancestor constraints a sub-block actually
// depends on.
func getInputConstraints(inputs []int, haystack []constraint.Constraint) []constraint.Constraint {
	want := make(map[int]bool, len(inputs))
	for _, r := range inputs {
		want[r] = true
	}
	var out []constraint.Constraint
	for _, c := range haystack {
		for _, r := range c.OutputRegisters() {
			if want[r] {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
