package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ligature/internal/constraint"
	"ligature/internal/interner"
	"ligature/internal/ir"
	"ligature/internal/parser"
	"ligature/internal/registry"
)

func compileSource(t *testing.T, source string) []ir.Block {
	t.Helper()
	block, p := parser.ParseSource(source)
	require.Empty(t, p.Errors())

	reg := registry.New()
	in := interner.New()
	builder := ir.NewBuilder(reg, in)
	blocks := builder.BuildBlock(block, 0, "test.md")
	require.Empty(t, builder.Errors())
	return blocks
}

func findKind(t *testing.T, cs []constraint.Constraint, kind constraint.Kind) constraint.Constraint {
	t.Helper()
	for _, c := range cs {
		if c.Kind == kind {
			return c
		}
	}
	t.Fatalf("no constraint of kind %v found among %d constraints", kind, len(cs))
	return constraint.Constraint{}
}

func TestBuildSimpleSearchBindProducesScanAndInsert(t *testing.T) {
	blocks := compileSource(t, `
search
  [#person name: n]
bind
  [#greeting person: n]
end
`)
	require.Len(t, blocks, 1)
	cs := blocks[0].Compilation.Constraints

	scan := findKind(t, cs, constraint.ScanKind)
	require.True(t, scan.Entity.IsRegister)

	insert := findKind(t, cs, constraint.InsertKind)
	require.False(t, insert.Commit)
}

func TestBuildCommitSectionSetsCommitFlag(t *testing.T) {
	blocks := compileSource(t, `
search
  [#person name: n]
commit
  [#archived person: n]
end
`)
	cs := blocks[0].Compilation.Constraints
	insert := findKind(t, cs, constraint.InsertKind)
	require.True(t, insert.Commit)
}

func TestBuildNotBlockProducesAntiScanAndChildBlock(t *testing.T) {
	blocks := compileSource(t, `
search
  [#person name: n]
  not([#banned name: n])
bind
  [#active person: n]
end
`)
	require.Len(t, blocks, 2)
	parentCs := blocks[0].Compilation.Constraints
	findKind(t, parentCs, constraint.AntiScanKind)

	childCs := blocks[1].Compilation.Constraints
	findKind(t, childCs, constraint.ScanKind)
	findKind(t, childCs, constraint.IntermediateInsertKind)
}

func TestBuildIfElseProducesIntermediateScanAndBranchBlocks(t *testing.T) {
	blocks := compileSource(t, `
search
  [#person age: a]
bind
  label = if [#person age: a] a > 17 then "adult" else "minor" end
end
`)
	require.Len(t, blocks, 3)
	parentCs := blocks[0].Compilation.Constraints
	findKind(t, parentCs, constraint.IntermediateScanKind)

	branch0 := blocks[1].Compilation.Constraints
	findKind(t, branch0, constraint.IntermediateInsertKind)
}

func TestBuildRecordUpdateBracketRHSLowersAsOutputRecordWithGenID(t *testing.T) {
	blocks := compileSource(t, `
search
  [#person name: n]
commit
  person.friend <- [#dog name: "Rex"]
end
`)
	cs := blocks[0].Compilation.Constraints

	genID := findKind(t, cs, constraint.FunctionKind)
	require.Equal(t, "gen_id", genID.Name)

	insertCount := 0
	for _, c := range cs {
		if c.Kind == constraint.InsertKind {
			insertCount++
		}
	}
	require.GreaterOrEqual(t, insertCount, 2, "expected an Insert linking person.friend and an Insert for the dog's own name attribute")
}

func TestBuildRecordUpdateRemoveAttributeOnNone(t *testing.T) {
	blocks := compileSource(t, `
search
  [#person name: n]
commit
  person.nickname := none
end
`)
	cs := blocks[0].Compilation.Constraints
	findKind(t, cs, constraint.RemoveAttributeKind)
}

func TestBuildRecordUpdateRemoveEntityOnBareNone(t *testing.T) {
	blocks := compileSource(t, `
search
  [#person name: n]
commit
  person := none
end
`)
	cs := blocks[0].Compilation.Constraints
	findKind(t, cs, constraint.RemoveEntityKind)
}

func TestBuildMultiValuedAttributeProducesOneScanPerElement(t *testing.T) {
	blocks := compileSource(t, `
search
  [#person nickname: ("alice" "ali")]
bind
  [#out]
end
`)
	cs := blocks[0].Compilation.Constraints
	count := 0
	for _, c := range cs {
		if c.Kind == constraint.ScanKind {
			count++
		}
	}
	require.GreaterOrEqual(t, count, 3)
}

func TestBuildRegistersAreCompactedDenselyFromZero(t *testing.T) {
	blocks := compileSource(t, `
search
  [#person name: n]
bind
  [#greeting person: n]
end
`)
	cs := blocks[0].Compilation.Constraints
	seen := map[int]bool{}
	maxReg := -1
	for _, c := range cs {
		for _, r := range c.Registers() {
			seen[r] = true
			if r > maxReg {
				maxReg = r
			}
		}
		for _, r := range c.OutputRegisters() {
			seen[r] = true
		}
	}
	require.NotEmpty(t, seen)
	for r := range seen {
		require.GreaterOrEqual(t, r, 0)
	}
	for r := 0; r <= maxReg; r++ {
		require.True(t, seen[r], "register %d is unused below the maximum %d", r, maxReg)
	}
}

func TestBuildBlockNamingConvention(t *testing.T) {
	blocks := compileSource(t, `
search
  [#person name: n]
  not([#banned name: n])
bind
  [#active person: n]
end
`)
	require.Equal(t, "test.md|block|0", blocks[0].Name)
	require.Equal(t, "test.md|block|0|sub_block|0", blocks[1].Name)
}
