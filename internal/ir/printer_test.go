package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ligature/internal/constraint"
	"ligature/internal/ir"
)

func TestPrintBlocksRendersNameAndConstraintLines(t *testing.T) {
	comp := &ir.Compilation{}
	comp.Constraints = []constraint.Constraint{
		constraint.MakeScan(constraint.Reg(0), constraint.Val(1), constraint.Reg(2)),
		constraint.MakeFilter(">", constraint.Reg(2), constraint.Val(17)),
	}
	blocks := []ir.Block{{Name: "doc.md|block|0", Compilation: comp}}

	out := ir.PrintBlocks(blocks)

	require.Contains(t, out, "block doc.md|block|0")
	require.Contains(t, out, "Scan(reg0, val1, reg2)")
	require.Contains(t, out, "Filter(reg2 > val17)")
}

func TestPrintBlocksRendersEveryConstraintKind(t *testing.T) {
	comp := &ir.Compilation{}
	comp.Constraints = []constraint.Constraint{
		constraint.MakeAntiScan([]constraint.Field{constraint.Val(1), constraint.Reg(0)}),
		constraint.MakeIntermediateScan([]constraint.Field{constraint.Val(1)}, []constraint.Field{constraint.Reg(1)}),
		constraint.MakeIntermediateInsert([]constraint.Field{constraint.Val(1)}, nil, true),
		constraint.MakeInsert(constraint.Reg(0), constraint.Val(1), constraint.Val(2), true),
		constraint.MakeRemove(constraint.Reg(0), constraint.Val(1), constraint.Val(2), false),
		constraint.MakeRemoveAttribute(constraint.Reg(0), constraint.Val(1), false),
		constraint.MakeRemoveEntity(constraint.Reg(0), true),
		constraint.MakeFunction("concat", []constraint.Field{constraint.Val(1)}, constraint.Reg(2)),
		constraint.MakeMultiFunction("string/split", []constraint.Field{constraint.Val(1)}, []constraint.Field{constraint.Reg(2)}),
		constraint.MakeProject([]constraint.Field{constraint.Reg(0)}),
		constraint.MakeWatch("remote", []constraint.Field{constraint.Reg(0)}),
	}
	blocks := []ir.Block{{Name: "doc.md|block|0", Compilation: comp}}

	out := ir.PrintBlocks(blocks)

	for _, want := range []string{
		"AntiScan(", "IntermediateScan(", "IntermediateInsert(", "Insert(", "Remove(",
		"RemoveAttribute(", "RemoveEntity(", "Function(", "MultiFunction(", "Project(", "Watch(",
	} {
		require.Contains(t, out, want)
	}
}
