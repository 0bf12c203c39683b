package ir

import (
	"fmt"
	"sort"

	"ligature/internal/constraint"
	"ligature/internal/interner"
)

// Stitch wires every sub-block's constraints back into its parent,
// bottom-up, via AntiScan/IntermediateScan/IntermediateInsert. Grounded on
// Node::sub_block. Call after Unify and after every
// sub-block's own statements have been lowered (Lowerer.lowerNot/lowerIf
// populate sb.Child.Constraints and, for If branches, sb.Output). in interns
// the block-qualified tag strings used as AntiScan/IntermediateScan keys.
func Stitch(comp *Compilation, in *interner.Interner) {
	for _, child := range childCompilations(comp) {
		Stitch(child, in)
	}
	for i, sb := range comp.SubBlocks {
		switch sb.Kind {
		case SubNot:
			stitchNot(comp, sb, i, in)
		case SubIf:
			stitchIf(comp, sb, i, in)
		}
	}
}

func childCompilations(comp *Compilation) []*Compilation {
	var out []*Compilation
	for _, sb := range comp.SubBlocks {
		if sb.Child != nil {
			out = append(out, sb.Child)
		}
	}
	return out
}

// stitchNot implements SubBlock::Not: compute the inputs the negated
// pattern needs from its parent, gather the ancestor constraints that
// satisfy them, prepend those ancestor constraints ahead of the
// sub-block's own constraints, emit an AntiScan keyed on [tag, inputs...]
// into the parent, and an IntermediateInsert marking a match as "found"
// at the end of the sub-block's own (now-extended) constraint list.
func stitchNot(parent *Compilation, sb *SubBlock, subBlockIdx int, in *interner.Interner) {
	child := sb.Child
	inputs := child.GetInputs(parent.Constraints)
	related := getInputConstraints(inputs, parent.Constraints)

	tag := in.String(fmt.Sprintf("%s|sub_block|not|%d", parent.BlockName, subBlockIdx))
	key := make([]constraint.Field, 0, len(inputs)+1)
	key = append(key, constraint.Val(tag))
	for _, r := range inputs {
		key = append(key, constraint.Reg(r))
	}

	parent.Emit(constraint.MakeAntiScan(key))

	combined := make([]constraint.Constraint, 0, len(related)+len(child.Constraints)+1)
	combined = append(combined, related...)
	combined = append(combined, child.Constraints...)
	combined = append(combined, constraint.MakeIntermediateInsert(key, nil, true))
	child.Constraints = combined
}

// stitchIf implements SubBlock::If: union every branch's inputs (including
// their own nested sub-block inputs and required fields), compute the
// ancestor constraints every branch shares, emit a single IntermediateScan
// into the parent keyed on [if_id, allInputs...] with the if's output
// registers, then for an exclusive chain give every branch after the first
// an AntiScan against every earlier branch's taken-marker and make every
// branch but the last emit its own IntermediateInsert marker (both keyed on
// the branch tag plus allInputs, so later branches only fire for inputs no
// earlier branch matched), and
// unconditionally append an IntermediateInsert of the branch's own result
// to every branch.
func stitchIf(parent *Compilation, sb *SubBlock, ifIdx int, in *interner.Interner) {
	inputSet := map[int]bool{}
	var related []constraint.Constraint
	relatedSeen := map[int]bool{}

	for _, branchIdx := range sb.Branches {
		branch := parent.SubBlocks[branchIdx]
		child := branch.Child
		for _, r := range child.GetInputs(parent.Constraints) {
			inputSet[r] = true
		}
		for _, f := range child.RequiredFields {
			if f.IsRegister {
				inputSet[f.Register] = true
			}
		}
	}

	var allInputs []int
	for r := range inputSet {
		allInputs = append(allInputs, r)
	}
	sort.Ints(allInputs)
	for _, c := range getInputConstraints(allInputs, parent.Constraints) {
		key := relatedKey(c)
		if !relatedSeen[key] {
			relatedSeen[key] = true
			related = append(related, c)
		}
	}

	var outputs []constraint.Field
	for _, branchIdx := range sb.Branches {
		outputs = append(outputs, parent.SubBlocks[branchIdx].Output...)
	}

	ifID := fmt.Sprintf("%s|sub_block|if|%d", parent.BlockName, ifIdx)
	ifTag := in.String(ifID)
	ifKey := make([]constraint.Field, 0, len(allInputs)+1)
	ifKey = append(ifKey, constraint.Val(ifTag))
	for _, r := range allInputs {
		ifKey = append(ifKey, constraint.Reg(r))
	}
	parent.Emit(constraint.MakeIntermediateScan(ifKey, outputs))

	for i, branchIdx := range sb.Branches {
		branch := parent.SubBlocks[branchIdx]
		child := branch.Child

		combined := make([]constraint.Constraint, 0, len(related)+len(child.Constraints))
		combined = append(combined, related...)
		combined = append(combined, child.Constraints...)

		if sb.Exclusive {
			for j := 0; j < i; j++ {
				earlierTag := in.String(fmt.Sprintf("%s|branch|%d", ifID, j))
				earlierKey := append([]constraint.Field{constraint.Val(earlierTag)}, ifKey[1:]...)
				combined = append(combined, constraint.MakeAntiScan(earlierKey))
			}
			if i < len(sb.Branches)-1 {
				branchTag := in.String(fmt.Sprintf("%s|branch|%d", ifID, i))
				branchKey := append([]constraint.Field{constraint.Val(branchTag)}, ifKey[1:]...)
				combined = append(combined, constraint.MakeIntermediateInsert(branchKey, nil, true))
			}
		}

		combined = append(combined, constraint.MakeIntermediateInsert(ifKey, branch.Output, false))
		child.Constraints = combined
	}
}

// relatedKey produces a cheap dedup key for an ancestor constraint so the
// same Scan isn't pulled into `related` twice across overlapping branches.
func relatedKey(c constraint.Constraint) int {
	h := int(c.Kind) * 1000003
	for _, r := range c.Registers() {
		h = h*1000003 + r
	}
	return h
}
