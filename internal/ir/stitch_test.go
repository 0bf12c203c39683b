package ir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ligature/internal/constraint"
	"ligature/internal/interner"
)

func TestStitchNotEmitsAntiScanAndIntermediateInsert(t *testing.T) {
	parent := New(0, "t")
	r1 := parent.GetRegister("n")
	parent.Emit(constraint.MakeScan(constraint.Val(1), constraint.Val(2), constraint.Reg(r1)))

	child := parent.NewChild()
	child.Vars["n"] = r1
	child.RequiredFields = []constraint.Field{constraint.Reg(r1)}
	child.Emit(constraint.MakeScan(constraint.Val(3), constraint.Val(4), constraint.Reg(r1)))

	parent.SubBlocks = append(parent.SubBlocks, &SubBlock{Kind: SubNot, Child: child})

	Stitch(parent, interner.New())

	require.Len(t, parent.Constraints, 2)
	require.Equal(t, constraint.AntiScanKind, parent.Constraints[1].Kind)

	last := child.Constraints[len(child.Constraints)-1]
	require.Equal(t, constraint.IntermediateInsertKind, last.Kind)
	require.True(t, last.Negate)
}

func TestStitchIfEmitsIntermediateScanAndPerBranchInsert(t *testing.T) {
	parent := New(0, "t")
	r1 := parent.GetRegister("a")
	parent.Emit(constraint.MakeScan(constraint.Val(1), constraint.Val(2), constraint.Reg(r1)))

	branchA := parent.NewChild()
	branchA.Vars["a"] = r1
	branchA.RequiredFields = []constraint.Field{constraint.Reg(r1)}
	branchA.Emit(constraint.MakeFilter(">", constraint.Reg(r1), constraint.Val(17)))

	branchB := parent.NewChild()
	branchB.Vars["a"] = r1
	branchB.RequiredFields = []constraint.Field{constraint.Reg(r1)}

	parent.SubBlocks = append(parent.SubBlocks,
		&SubBlock{Kind: SubIfBranch, Child: branchA, Output: []constraint.Field{constraint.Val(10)}},
		&SubBlock{Kind: SubIfBranch, Child: branchB, Output: []constraint.Field{constraint.Val(20)}},
		&SubBlock{Kind: SubIf, Exclusive: true, Branches: []int{0, 1}},
	)

	Stitch(parent, interner.New())

	require.Len(t, parent.Constraints, 2)
	require.Equal(t, constraint.IntermediateScanKind, parent.Constraints[1].Kind)

	branchALast := branchA.Constraints[len(branchA.Constraints)-1]
	require.Equal(t, constraint.IntermediateInsertKind, branchALast.Kind)
	require.False(t, branchALast.Negate)

	foundExclusionMarker := false
	for _, c := range branchA.Constraints {
		if c.Kind == constraint.IntermediateInsertKind && c.Negate {
			foundExclusionMarker = true
		}
	}
	require.True(t, foundExclusionMarker, "non-final exclusive branch must mark itself taken")
}
