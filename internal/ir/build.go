package ir

import (
	"fmt"

	"ligature/internal/ast"
	"ligature/internal/errors"
	"ligature/internal/interner"
	"ligature/internal/registry"
)

// Block is one named, fully-compiled compilation unit: either a top-level
// block from the source document, or one of its sub-blocks (a negated
// pattern or an if/else branch).
type Block struct {
	Name       string
	Compilation *Compilation
}

// Builder runs the full pipeline (gather, unify, lower, stitch, compact)
// over a parsed document and flattens every scope into a named Block list.
type Builder struct {
	registry *registry.Registry
	interner *interner.Interner
	errs     []errors.CompilerError
}

func NewBuilder(reg *registry.Registry, in *interner.Interner) *Builder {
	return &Builder{registry: reg, interner: in}
}

func (b *Builder) Errors() []errors.CompilerError { return b.errs }

// BuildDoc compiles every block in doc, returning one Block per top-level
// block plus its sub-blocks, in document order.
func (b *Builder) BuildDoc(doc *ast.Doc) []Block {
	var out []Block
	for i, blk := range doc.Blocks {
		out = append(out, b.BuildBlock(blk, i, doc.File)...)
	}
	return out
}

// BuildBlock runs the full pipeline for one parsed block and names every
// scope that results: "{file}|block|{n}" for the top level, and
// "{file}|block|{n}|sub_block|{k}" for its k-th sub-block, where k counts
// sub-blocks within this block (not a constant, which never-increments and
// leaves every sub-block of a block sharing one suffix).
func (b *Builder) BuildBlock(blk *ast.Block, index int, file string) []Block {
	name := fmt.Sprintf("%s|block|%d", file, index)

	gatherer := NewGatherer(b.interner)
	comp := gatherer.GatherBlock(blk, index*childIDOffset*100, name)

	Unify(comp)

	lowerer := NewLowerer(b.registry, b.interner)
	lowerer.LowerBlock(blk, comp)
	b.errs = append(b.errs, lowerer.Errors()...)

	Stitch(comp, b.interner)
	Compact(comp)

	var out []Block
	out = append(out, Block{Name: name, Compilation: comp})

	subCounter := 0
	var walk func(c *Compilation)
	walk = func(c *Compilation) {
		for _, sb := range c.SubBlocks {
			if sb.Child == nil {
				continue
			}
			subName := fmt.Sprintf("%s|sub_block|%d", name, subCounter)
			subCounter++
			out = append(out, Block{Name: subName, Compilation: sb.Child})
			walk(sb.Child)
		}
	}
	walk(comp)

	return out
}
