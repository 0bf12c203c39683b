package ir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ligature/internal/constraint"
)

func TestCompactAssignsDenseZeroBasedRegisters(t *testing.T) {
	comp := New(0, "t")
	r1 := comp.GetRegister("a")
	r2 := comp.GetRegister("b")
	comp.Emit(constraint.MakeScan(constraint.Reg(r1), constraint.Val(1), constraint.Reg(r2)))

	Compact(comp)

	require.Len(t, comp.Constraints, 1)
	scan := comp.Constraints[0]
	require.Equal(t, constraint.Reg(0), scan.Entity)
	require.Equal(t, constraint.Reg(1), scan.Value)
}

func TestCompactReplacesUnifiedValueRegisterWithLiteral(t *testing.T) {
	comp := New(0, "t")
	r1 := comp.GetRegister("a")
	r2 := comp.GetRegister("b")
	comp.AddEquality(constraint.Reg(r1), constraint.Val(42))
	Unify(comp)
	comp.Emit(constraint.MakeScan(constraint.Reg(r1), constraint.Val(1), constraint.Reg(r2)))

	Compact(comp)

	scan := comp.Constraints[0]
	require.False(t, scan.Entity.IsRegister)
	require.Equal(t, uint32(42), scan.Entity.Value)
}

func TestCompactSameRegisterMapsToSameDenseSlot(t *testing.T) {
	comp := New(0, "t")
	r1 := comp.GetRegister("a")
	comp.Emit(constraint.MakeFilter("==", constraint.Reg(r1), constraint.Reg(r1)))

	Compact(comp)

	f := comp.Constraints[0]
	require.Equal(t, f.Left, f.Right)
}

func TestCompactRecursesIntoChildScopes(t *testing.T) {
	parent := New(0, "t")
	r1 := parent.GetRegister("a")
	child := parent.NewChild()
	cr1 := child.GetRegister("x")
	child.Emit(constraint.MakeFilter("==", constraint.Reg(cr1), constraint.Val(3)))
	parent.SubBlocks = append(parent.SubBlocks, &SubBlock{Kind: SubNot, Child: child})
	parent.Emit(constraint.MakeFilter("==", constraint.Reg(r1), constraint.Val(1)))

	Compact(parent)

	require.Equal(t, constraint.Reg(0), parent.Constraints[0].Left)
	require.Equal(t, constraint.Reg(0), child.Constraints[0].Left)
}
