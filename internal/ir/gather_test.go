package ir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ligature/internal/ast"
	"ligature/internal/interner"
)

func TestGatherRecordAssignsSubjectRegisterAndAttributeEquality(t *testing.T) {
	g := NewGatherer(interner.New())
	rec := &ast.Record{
		Attrs: []ast.Node{
			&ast.AttributeEquality{Attr: "name", Value: &ast.Variable{Name: "n"}},
		},
	}
	comp := New(0, "t")
	g.gatherRecord(rec, comp)

	require.NotEmpty(t, rec.Var)
	require.Contains(t, comp.Vars, "n")
}

func TestGatherOutputEqualityAddsEquality(t *testing.T) {
	g := NewGatherer(interner.New())
	comp := New(0, "t")
	oeq := &ast.OutputEquality{Name: "total", Value: &ast.IntLiteral{Value: 5}}
	g.gatherOutputEquality(oeq, comp)

	require.Len(t, comp.Equalities, 1)
	require.Contains(t, comp.Vars, "total")
}

func TestGatherNotCreatesChildSubBlockAndImportsVars(t *testing.T) {
	g := NewGatherer(interner.New())
	comp := New(0, "t")
	comp.GetRegister("n")

	notNode := &ast.Not{
		Body: []ast.Node{
			&ast.Record{Attrs: []ast.Node{
				&ast.AttributeEquality{Attr: "name", Value: &ast.Variable{Name: "n"}},
			}},
		},
	}
	g.gatherNot(notNode, comp)

	require.Len(t, comp.SubBlocks, 1)
	require.Equal(t, SubNot, comp.SubBlocks[0].Kind)
	require.Equal(t, 0, notNode.SubBlockIndex)
	child := comp.SubBlocks[0].Child
	require.True(t, child.IsChild)
	require.Equal(t, comp.Vars["n"], child.Vars["n"])
}

func TestGatherIfCreatesBranchSubBlocksAndFinalIfMarker(t *testing.T) {
	g := NewGatherer(interner.New())
	comp := New(0, "t")

	ifNode := &ast.If{
		Exclusive: true,
		Branches: []ast.Node{
			&ast.IfBranch{Body: nil, Result: &ast.RawString{Value: "adult"}},
			&ast.IfBranch{Body: nil, Result: &ast.RawString{Value: "minor"}},
		},
	}
	g.gatherIf(ifNode, comp, nil)

	require.Len(t, comp.SubBlocks, 3)
	require.Equal(t, SubIfBranch, comp.SubBlocks[0].Kind)
	require.Equal(t, SubIfBranch, comp.SubBlocks[1].Kind)
	final := comp.SubBlocks[2]
	require.Equal(t, SubIf, final.Kind)
	require.True(t, final.Exclusive)
	require.Equal(t, []int{0, 1}, final.Branches)
	require.Equal(t, 2, ifNode.SubBlockIndex)
}

func TestGatherEmbeddedStringAllocatesFreshResultVarOnce(t *testing.T) {
	g := NewGatherer(interner.New())
	comp := New(0, "t")
	es := &ast.EmbeddedString{Chunks: []ast.Node{&ast.RawString{Value: "hi "}, &ast.Variable{Name: "n"}}}

	first := g.gatherExpr(es, comp)
	require.NotEmpty(t, es.ResultVar)

	second := g.gatherExpr(es, comp)
	require.Equal(t, first, second, "second gather must reuse the already-assigned ResultVar register")
}
