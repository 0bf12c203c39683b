package ir

import (
	"fmt"

	"ligature/internal/ast"
	"ligature/internal/constraint"
	"ligature/internal/interner"
)

// Gatherer walks a parsed ast.Block, assigning registers to every variable
// reference, inventing synthetic names for anonymous sub-expressions
// (string interpolation, infix math, records, record-functions), and
// recording every equality and nested scope it finds along the way.
// Grounded on Node::gather_equalities.
type Gatherer struct {
	interner *interner.Interner
	genID    int
}

func NewGatherer(in *interner.Interner) *Gatherer {
	return &Gatherer{interner: in}
}

func (g *Gatherer) fresh(prefix string) string {
	g.genID++
	return fmt.Sprintf("__eve_%s%d", prefix, g.genID)
}

// GatherBlock processes a parsed block's search and update sections into a
// root Compilation, ready for Unify.
func (g *Gatherer) GatherBlock(block *ast.Block, id int, name string) *Compilation {
	comp := New(id, name)
	if block.Search != nil {
		for _, stmt := range block.Search.Statements {
			g.gatherStatement(stmt, comp)
		}
	}
	if block.Update != nil {
		g.gatherStatement(block.Update, comp)
	}
	return comp
}

// gatherStatement handles search/update statements that do not themselves
// produce a usable value (records, equalities, updates, control forms).
func (g *Gatherer) gatherStatement(n ast.Node, comp *Compilation) {
	switch v := n.(type) {
	case *ast.Search:
		for _, s := range v.Statements {
			g.gatherStatement(s, comp)
		}
	case *ast.BindSection:
		for _, s := range v.Statements {
			g.gatherStatement(s, comp)
		}
	case *ast.CommitSection:
		for _, s := range v.Statements {
			g.gatherStatement(s, comp)
		}
	case *ast.Project:
		for _, val := range v.Values {
			g.gatherExpr(val, comp)
		}
	case *ast.Watch:
		for _, val := range v.Values {
			g.gatherExpr(val, comp)
		}
	case *ast.Equality:
		g.gatherEquality(v, comp)
	case *ast.OutputEquality:
		g.gatherOutputEquality(v, comp)
	case *ast.Inequality:
		g.gatherExpr(v.Left, comp)
		g.gatherExpr(v.Right, comp)
	case *ast.Record:
		g.gatherRecord(v, comp)
	case *ast.OutputRecord:
		g.gatherOutputRecord(v, comp)
	case *ast.RecordSet:
		for _, r := range v.Records {
			g.gatherStatement(r, comp)
		}
	case *ast.RecordUpdate:
		g.gatherRecordUpdate(v, comp)
	case *ast.Not:
		g.gatherNot(v, comp)
	case *ast.If:
		g.gatherIf(v, comp, nil)
	default:
		g.gatherExpr(n, comp)
	}
}

// gatherExpr handles nodes that resolve to a single Field value.
func (g *Gatherer) gatherExpr(n ast.Node, comp *Compilation) constraint.Field {
	switch v := n.(type) {
	case *ast.IntLiteral:
		return constraint.Val(g.interner.Number(float64(v.Value)))
	case *ast.FloatLiteral:
		return constraint.Val(g.interner.Number(float64(v.Value)))
	case *ast.RawString:
		return constraint.Val(g.interner.String(v.Value))
	case *ast.Tag:
		return constraint.Val(g.interner.String(v.Name))
	case *ast.NoneLiteral:
		return constraint.Val(interner.Absent)
	case *ast.Variable:
		return constraint.Reg(comp.GetRegister(v.Name))
	case *ast.GeneratedVariable:
		return constraint.Reg(comp.GetRegister(v.Name))
	case *ast.EmbeddedString:
		if v.ResultVar == "" {
			v.ResultVar = g.fresh("concat")
		}
		for _, chunk := range v.Chunks {
			g.gatherExpr(chunk, comp)
		}
		return constraint.Reg(comp.GetRegister(v.ResultVar))
	case *ast.Infix:
		if v.Result == "" {
			v.Result = g.fresh("infix")
		}
		g.gatherExpr(v.Left, comp)
		g.gatherExpr(v.Right, comp)
		return constraint.Reg(comp.GetRegister(v.Result))
	case *ast.ExprSet:
		var last constraint.Field
		for _, it := range v.Items {
			last = g.gatherExpr(it, comp)
		}
		return last
	case *ast.RecordFunction:
		return g.gatherRecordFunction(v, comp)
	case *ast.Record:
		g.gatherRecord(v, comp)
		return constraint.Reg(comp.GetRegister(v.Var))
	case *ast.OutputRecord:
		g.gatherOutputRecord(v, comp)
		return constraint.Reg(comp.GetRegister(v.Var))
	case *ast.RecordSet:
		var last constraint.Field
		for _, r := range v.Records {
			last = g.gatherExpr(r, comp)
		}
		return last
	case *ast.AttributeAccess:
		name := synthAttrAccessName(v.Path)
		return constraint.Reg(comp.GetRegister(name))
	case *ast.MutatingAttributeAccess:
		name := synthAttrAccessName(v.Path)
		return constraint.Reg(comp.GetRegister(name))
	default:
		return constraint.Field{}
	}
}

func synthAttrAccessName(path []string) string {
	name := "attr_access"
	for _, seg := range path {
		name += "|" + seg
	}
	return name
}

func (g *Gatherer) gatherRecordFunction(rf *ast.RecordFunction, comp *Compilation) constraint.Field {
	for _, p := range rf.Params {
		g.gatherExpr(p, comp)
	}
	if len(rf.Outputs) == 0 {
		name := g.fresh("infix")
		rf.Outputs = []ast.Node{&ast.Variable{Pos: rf.Pos, Name: name}}
	}
	for _, o := range rf.Outputs {
		g.gatherExpr(o, comp)
	}
	if v, ok := rf.Outputs[0].(*ast.Variable); ok {
		return constraint.Reg(comp.GetRegister(v.Name))
	}
	return g.gatherExpr(rf.Outputs[0], comp)
}

func (g *Gatherer) gatherEquality(eq *ast.Equality, comp *Compilation) {
	if rf, ok := eq.Right.(*ast.RecordFunction); ok && len(rf.Outputs) == 0 {
		rf.Outputs = []ast.Node{eq.Left}
	}
	left := g.gatherExpr(eq.Left, comp)
	right := g.gatherExpr(eq.Right, comp)
	comp.AddEquality(left, right)
}

func (g *Gatherer) gatherOutputEquality(oeq *ast.OutputEquality, comp *Compilation) {
	if rec, ok := oeq.Value.(*ast.OutputRecord); ok {
		if rec.Var == "" {
			rec.Var = oeq.Name
		}
	}
	left := constraint.Reg(comp.GetRegister(oeq.Name))
	right := g.gatherExpr(oeq.Value, comp)
	comp.AddEquality(left, right)
}

func (g *Gatherer) gatherRecord(rec *ast.Record, comp *Compilation) {
	if rec.Var == "" {
		rec.Var = g.fresh("record")
	}
	for _, a := range rec.Attrs {
		switch at := a.(type) {
		case *ast.AttributeEquality:
			g.gatherExpr(at.Value, comp)
		case *ast.AttributeInequality:
			g.gatherExpr(at.Right, comp)
		case *ast.Attribute:
			comp.GetRegister(at.Name)
		}
	}
}

func (g *Gatherer) gatherOutputRecord(rec *ast.OutputRecord, comp *Compilation) {
	if rec.Var == "" {
		rec.Var = g.fresh("output_record")
	}
	for _, a := range rec.Attrs {
		switch at := a.(type) {
		case *ast.AttributeEquality:
			g.gatherExpr(at.Value, comp)
		case *ast.Attribute:
			comp.GetRegister(at.Name)
		}
	}
}

func (g *Gatherer) gatherRecordUpdate(ru *ast.RecordUpdate, comp *Compilation) {
	switch rec := ru.Record.(type) {
	case *ast.MutatingAttributeAccess:
		name := synthAttrAccessName(rec.Path)
		comp.GetRegister(name)
	case *ast.Variable:
		comp.GetRegister(rec.Name)
	}
	g.gatherExpr(ru.Value, comp)
}

func (g *Gatherer) gatherNot(n *ast.Not, comp *Compilation) {
	child := comp.NewChild()
	importParentVars(comp, child)
	for _, stmt := range n.Body {
		g.gatherStatement(stmt, child)
	}
	comp.SubBlocks = append(comp.SubBlocks, &SubBlock{Kind: SubNot, Child: child})
	n.SubBlockIndex = len(comp.SubBlocks) - 1
}

func (g *Gatherer) gatherIf(n *ast.If, comp *Compilation, _ []ast.Node) {
	startIdx := len(comp.SubBlocks)
	var branchIdxs []int
	for _, b := range n.Branches {
		branch := b.(*ast.IfBranch)
		child := comp.NewChild()
		importParentVars(comp, child)
		for _, stmt := range branch.Body {
			g.gatherStatement(stmt, child)
		}
		out := g.gatherExpr(branch.Result, child)
		sb := &SubBlock{Kind: SubIfBranch, Child: child, Output: []constraint.Field{out}}
		comp.SubBlocks = append(comp.SubBlocks, sb)
		branch.SubBlockIndex = len(comp.SubBlocks) - 1
		branchIdxs = append(branchIdxs, branch.SubBlockIndex)
	}
	comp.SubBlocks = append(comp.SubBlocks, &SubBlock{
		Kind: SubIf, Exclusive: n.Exclusive, Branches: branchIdxs,
	})
	n.SubBlockIndex = len(comp.SubBlocks) - 1
	_ = startIdx
}

// importParentVars seeds a child scope's Vars with every variable the
// parent already knows, so the child reuses the parent's register for each
// such name; it copies the name-to-register map only and records no
// equalities. Mirrors the "import vars"
// step at the start of Node::unify's sub-block recursion, performed here
// at gather time so the child's own gathering sees the same registers.
func importParentVars(parent, child *Compilation) {
	for name, reg := range parent.Vars {
		child.Vars[name] = reg
	}
}
