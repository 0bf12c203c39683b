package ir

import (
	"fmt"

	"ligature/internal/ast"
	"ligature/internal/constraint"
	"ligature/internal/errors"
	"ligature/internal/interner"
	"ligature/internal/registry"
	"ligature/token"
)

// Lowerer reads a unified Compilation's AST and emits the flat Constraint
// list for it, recursing into sub-blocks via the Stitcher. Grounded on
// Node::compile.
type Lowerer struct {
	reg      *registry.Registry
	interner *interner.Interner
	errs     []errors.CompilerError
}

func NewLowerer(reg *registry.Registry, in *interner.Interner) *Lowerer {
	return &Lowerer{reg: reg, interner: in}
}

func (l *Lowerer) Errors() []errors.CompilerError { return l.errs }

func (l *Lowerer) errorf(pos token.Position, code, format string, args ...interface{}) {
	l.errs = append(l.errs, errors.New(code, fmt.Sprintf(format, args...), pos).Build())
}

// LowerBlock lowers every statement in a block's search and update
// sections into comp's Constraints.
func (l *Lowerer) LowerBlock(block *ast.Block, comp *Compilation) {
	if block.Search != nil {
		for _, s := range block.Search.Statements {
			l.lowerStatement(s, comp)
		}
	}
	if block.Update != nil {
		l.lowerStatement(block.Update, comp)
	}
}

func (l *Lowerer) resolve(comp *Compilation, f constraint.Field) constraint.Field {
	if !f.IsRegister {
		return f
	}
	canon := comp.GetUnifiedRegister(f.Register)
	return resolveField(comp, constraint.Reg(canon))
}

func (l *Lowerer) exprField(n ast.Node, comp *Compilation) constraint.Field {
	switch v := n.(type) {
	case *ast.IntLiteral:
		return constraint.Val(l.interner.Number(float64(v.Value)))
	case *ast.FloatLiteral:
		return constraint.Val(l.interner.Number(float64(v.Value)))
	case *ast.RawString:
		return constraint.Val(l.interner.String(v.Value))
	case *ast.Tag:
		return constraint.Val(l.interner.String(v.Name))
	case *ast.NoneLiteral:
		return constraint.Val(interner.Absent)
	case *ast.Variable:
		return l.resolve(comp, constraint.Reg(comp.GetRegister(v.Name)))
	case *ast.GeneratedVariable:
		return l.resolve(comp, constraint.Reg(comp.GetRegister(v.Name)))
	case *ast.EmbeddedString:
		return l.lowerEmbeddedString(v, comp)
	case *ast.Infix:
		return l.lowerInfix(v, comp)
	case *ast.AttributeAccess:
		return l.lowerAttributeAccess(v, comp)
	case *ast.RecordFunction:
		return l.lowerRecordFunction(v, comp)
	case *ast.Record:
		l.lowerRecord(v, comp)
		return l.resolve(comp, constraint.Reg(comp.GetRegister(v.Var)))
	case *ast.OutputRecord:
		l.lowerOutputRecord(v, comp)
		return l.resolve(comp, constraint.Reg(comp.GetRegister(v.Var)))
	case *ast.ExprSet:
		var last constraint.Field
		for _, it := range v.Items {
			last = l.exprField(it, comp)
		}
		return last
	default:
		return constraint.Field{}
	}
}

func (l *Lowerer) lowerStatement(n ast.Node, comp *Compilation) {
	switch v := n.(type) {
	case *ast.Search:
		for _, s := range v.Statements {
			l.lowerStatement(s, comp)
		}
	case *ast.BindSection:
		for _, s := range v.Statements {
			l.lowerStatement(s, comp)
		}
	case *ast.CommitSection:
		for _, s := range v.Statements {
			l.lowerStatement(s, comp)
		}
	case *ast.Project:
		var fs []constraint.Field
		for _, val := range v.Values {
			fs = append(fs, l.exprField(val, comp))
		}
		comp.Emit(constraint.MakeProject(fs))
	case *ast.Watch:
		var fs []constraint.Field
		for _, val := range v.Values {
			fs = append(fs, l.exprField(val, comp))
		}
		comp.Emit(constraint.MakeWatch(v.Name, fs))
	case *ast.Inequality:
		l.lowerInequality(v, comp)
	case *ast.Equality:
		l.lowerEqualityStatement(v, comp)
	case *ast.OutputEquality:
		l.exprField(v.Value, comp)
	case *ast.Record:
		l.lowerRecord(v, comp)
	case *ast.OutputRecord:
		l.lowerOutputRecord(v, comp)
	case *ast.RecordSet:
		for _, r := range v.Records {
			l.lowerStatement(r, comp)
		}
	case *ast.RecordUpdate:
		l.lowerRecordUpdate(v, comp)
	case *ast.Not:
		l.lowerNot(v, comp)
	case *ast.If:
		l.lowerIf(v, comp)
	default:
		l.exprField(n, comp)
	}
}

func (l *Lowerer) lowerInequality(v *ast.Inequality, comp *Compilation) {
	left := l.exprField(v.Left, comp)
	right := l.exprField(v.Right, comp)
	comp.Emit(constraint.MakeFilter(v.Op, left, right))
}

func (l *Lowerer) lowerEqualityStatement(v *ast.Equality, comp *Compilation) {
	l.exprField(v.Left, comp)
	l.exprField(v.Right, comp)
}

// lowerEmbeddedString emits Function("concat", chunkFields, out) for a
// `{{ }}`-interpolated string, resolving out to a fresh register when the
// unifier pinned the result to a literal Value (a concat result is always
// addressed by register downstream).
func (l *Lowerer) lowerEmbeddedString(v *ast.EmbeddedString, comp *Compilation) constraint.Field {
	var chunkFields []constraint.Field
	for _, c := range v.Chunks {
		chunkFields = append(chunkFields, l.exprField(c, comp))
	}
	out := l.resolve(comp, constraint.Reg(comp.GetRegister(v.ResultVar)))
	if !out.IsRegister {
		fresh := comp.GetRegister(fmt.Sprintf("%s_out", v.ResultVar))
		comp.Emit(constraint.MakeFilter("==", constraint.Reg(fresh), out))
		out = constraint.Reg(fresh)
	}
	comp.Emit(constraint.MakeFunction("concat", chunkFields, out))
	return out
}

func (l *Lowerer) lowerInfix(v *ast.Infix, comp *Compilation) constraint.Field {
	left := l.exprField(v.Left, comp)
	right := l.exprField(v.Right, comp)
	out := l.resolve(comp, constraint.Reg(comp.GetRegister(v.Result)))
	if !out.IsRegister {
		fresh := comp.GetRegister(fmt.Sprintf("%s_out", v.Result))
		comp.Emit(constraint.MakeFilter("==", constraint.Reg(fresh), out))
		out = constraint.Reg(fresh)
	}
	comp.Emit(constraint.MakeFunction(v.Op, []constraint.Field{left, right}, out))
	return out
}

// lowerAttributeAccess emits a chained Scan per path segment:
// `a.b.c` -> Scan(a, "b", r1), Scan(r1, "c", r2).
func (l *Lowerer) lowerAttributeAccess(v *ast.AttributeAccess, comp *Compilation) constraint.Field {
	if len(v.Path) == 0 {
		return constraint.Field{}
	}
	subject := l.resolve(comp, constraint.Reg(comp.GetRegister(v.Path[0])))
	for i := 1; i < len(v.Path); i++ {
		name := synthAttrAccessName(v.Path[:i+1])
		next := l.resolve(comp, constraint.Reg(comp.GetRegister(name)))
		comp.Emit(constraint.MakeScan(subject, constraint.Val(l.interner.String(v.Path[i])), next))
		subject = next
	}
	return subject
}

func (l *Lowerer) lowerRecordFunction(rf *ast.RecordFunction, comp *Compilation) constraint.Field {
	info, ok := l.reg.Lookup(rf.Op)
	if !ok {
		l.errorf(rf.Pos, errors.ErrorUndefinedFunction, "undefined function %q", rf.Op)
		return constraint.Field{}
	}

	params := make([]constraint.Field, len(info.Params))
	for _, p := range rf.Params {
		ae, ok := p.(*ast.AttributeEquality)
		if !ok {
			continue
		}
		idx, isOutput, found := info.GetIndex(ae.Attr)
		if !found || isOutput {
			continue
		}
		params[idx] = l.exprField(ae.Value, comp)
	}

	outputs := make([]constraint.Field, len(info.Outputs))
	for i, o := range rf.Outputs {
		if i >= len(outputs) {
			break
		}
		outputs[i] = l.exprField(o, comp)
	}

	if info.IsMulti {
		comp.Emit(constraint.MakeMultiFunction(rf.Op, params, outputs))
	} else {
		out := constraint.Field{}
		if len(outputs) > 0 {
			out = outputs[0]
		}
		comp.Emit(constraint.MakeFunction(rf.Op, params, out))
	}
	if len(outputs) > 0 {
		return outputs[0]
	}
	return constraint.Field{}
}

// lowerRecord emits one Scan per attribute. A RecordSet/ExprSet attribute
// value desugars to one Scan per element, all sharing the record's subject
// register (the multi-valued disjunction rule).
func (l *Lowerer) lowerRecord(rec *ast.Record, comp *Compilation) {
	subject := l.resolve(comp, constraint.Reg(comp.GetRegister(rec.Var)))
	for _, a := range rec.Attrs {
		switch at := a.(type) {
		case *ast.AttributeEquality:
			l.emitMultiValued(comp, subject, at.Attr, at.Value, constraint.MakeScan, nil)
		case *ast.AttributeInequality:
			right := l.exprField(at.Right, comp)
			name := "attr_access|" + at.Attr
			reg := l.resolve(comp, constraint.Reg(comp.GetRegister(name)))
			comp.Emit(constraint.MakeScan(subject, constraint.Val(l.interner.String(at.Attr)), reg))
			comp.Emit(constraint.MakeFilter(at.Op, reg, right))
		case *ast.Attribute:
			val := l.resolve(comp, constraint.Reg(comp.GetRegister(at.Name)))
			comp.Emit(constraint.MakeScan(subject, constraint.Val(l.interner.String(at.Name)), val))
		}
	}
}

// emitMultiValued implements the shared RecordSet/ExprSet-as-attribute-value
// rule for both Record (emit fn = Scan) and OutputRecord (emit fn = Insert)
// contexts: the first element is "the" value, the rest each get their own
// constraint sharing the subject register.
func (l *Lowerer) emitMultiValued(
	comp *Compilation, subject constraint.Field, attr string, value ast.Node,
	emit func(e, a, v constraint.Field) constraint.Constraint,
	emitCommit func(e, a, v constraint.Field) constraint.Constraint,
) {
	attrField := constraint.Val(l.interner.String(attr))
	values := l.flattenMultiValue(value, comp)
	for _, v := range values {
		if emitCommit != nil {
			comp.Emit(emitCommit(subject, attrField, v))
		} else {
			comp.Emit(emit(subject, attrField, v))
		}
	}
}

func (l *Lowerer) flattenMultiValue(value ast.Node, comp *Compilation) []constraint.Field {
	switch v := value.(type) {
	case *ast.RecordSet:
		var out []constraint.Field
		for _, r := range v.Records {
			out = append(out, l.exprField(r, comp))
		}
		return out
	case *ast.ExprSet:
		var out []constraint.Field
		for _, it := range v.Items {
			out = append(out, l.flattenMultiValue(it, comp)...)
		}
		return out
	default:
		return []constraint.Field{l.exprField(value, comp)}
	}
}

// lowerOutputRecord emits one Insert per attribute (same multi-valued
// handling as Record, via Insert instead of Scan) and, if the record's
// subject register was not otherwise provided, a synthesized identity:
// Function("gen_id", identityAttrs, subject). Pipe resets which attributes
// contribute to identity, matching identity_contributing/identity_attrs.
func (l *Lowerer) lowerOutputRecord(rec *ast.OutputRecord, comp *Compilation) {
	subject := l.resolve(comp, constraint.Reg(comp.GetRegister(rec.Var)))
	commit := rec.Output == ast.Commit

	var identityAttrs []constraint.Field
	contributing := true

	for _, a := range rec.Attrs {
		switch at := a.(type) {
		case *ast.Pipe:
			contributing = false
		case *ast.AttributeEquality:
			attrField := constraint.Val(l.interner.String(at.Attr))
			values := l.flattenMultiValue(at.Value, comp)
			for _, v := range values {
				comp.Emit(constraint.MakeInsert(subject, attrField, v, commit))
				if contributing {
					identityAttrs = append(identityAttrs, attrField, v)
				}
			}
		case *ast.Attribute:
			attrField := constraint.Val(l.interner.String(at.Name))
			val := l.resolve(comp, constraint.Reg(comp.GetRegister(at.Name)))
			comp.Emit(constraint.MakeInsert(subject, attrField, val, commit))
			if contributing {
				identityAttrs = append(identityAttrs, attrField, val)
			}
		}
	}

	if subject.IsRegister && !comp.IsProvided(subject.Register) {
		comp.Emit(constraint.MakeFunction("gen_id", identityAttrs, subject))
		comp.Provide(subject.Register)
	}
}

// lowerRecordUpdate resolves the mutated (entity, attribute) pair and
// matches (op, attr-present, value-present) to the right Remove*/Insert
// combination. A `none` value on the right-hand side of `:=` means "remove
// the attribute" (or the whole entity, if no attribute segment remains).
func (l *Lowerer) lowerRecordUpdate(ru *ast.RecordUpdate, comp *Compilation) {
	commit := ru.Output == ast.Commit

	var entity constraint.Field
	var attr constraint.Field
	hasAttr := false

	switch rec := ru.Record.(type) {
	case *ast.MutatingAttributeAccess:
		if len(rec.Path) == 0 {
			return
		}
		if len(rec.Path) == 1 {
			entity = l.resolve(comp, constraint.Reg(comp.GetRegister(rec.Path[0])))
		} else {
			subject := l.resolve(comp, constraint.Reg(comp.GetRegister(rec.Path[0])))
			for i := 1; i < len(rec.Path)-1; i++ {
				name := synthAttrAccessName(rec.Path[:i+1])
				next := l.resolve(comp, constraint.Reg(comp.GetRegister(name)))
				comp.Emit(constraint.MakeScan(subject, constraint.Val(l.interner.String(rec.Path[i])), next))
				subject = next
			}
			entity = subject
			attr = constraint.Val(l.interner.String(rec.Path[len(rec.Path)-1]))
			hasAttr = true
		}
	case *ast.Variable:
		entity = l.resolve(comp, constraint.Reg(comp.GetRegister(rec.Name)))
	}

	_, isNone := ru.Value.(*ast.NoneLiteral)

	switch {
	case isNone && hasAttr:
		comp.Emit(constraint.MakeRemoveAttribute(entity, attr, commit))
	case isNone && !hasAttr:
		comp.Emit(constraint.MakeRemoveEntity(entity, commit))
	case ru.Op == "-=" && hasAttr:
		val := l.exprField(ru.Value, comp)
		comp.Emit(constraint.MakeRemove(entity, attr, val, commit))
	case ru.Op == ":=" && hasAttr:
		val := l.exprField(ru.Value, comp)
		comp.Emit(constraint.MakeRemoveAttribute(entity, attr, commit))
		comp.Emit(constraint.MakeInsert(entity, attr, val, commit))
	case hasAttr:
		val := l.exprField(ru.Value, comp)
		comp.Emit(constraint.MakeInsert(entity, attr, val, commit))
	default:
		l.errorf(ru.Pos, errors.ErrorInvalidUpdate, "update on %s has no attribute segment", ru.Record)
	}
}

func (l *Lowerer) lowerNot(n *ast.Not, comp *Compilation) {
	if n.SubBlockIndex < 0 || n.SubBlockIndex >= len(comp.SubBlocks) {
		l.errorf(n.Pos, errors.ErrorMissingSubBlock, "not() references a sub-block that was never gathered")
		return
	}
	sb := comp.SubBlocks[n.SubBlockIndex]
	l.LowerBlockStatements(sb.Child, n.Body)
}

// LowerBlockStatements lowers a list of statements into comp (used for
// sub-block bodies, which are not wrapped in a *ast.Block).
func (l *Lowerer) LowerBlockStatements(comp *Compilation, stmts []ast.Node) {
	for _, s := range stmts {
		l.lowerStatement(s, comp)
	}
}

// lowerIf recurses into every branch's sub-block, normalizing each
// branch's output: if it resolved directly (or via VarValues) to a literal
// Value, it is always rebound to a fresh `if_output<n>` register plus
// a Filter equality, rather than conflating the value-vs-register cases.
// This always-allocate rule is this compiler's chosen resolution for
// branches whose result is a pinned literal rather than a register.
func (l *Lowerer) lowerIf(n *ast.If, comp *Compilation) {
	if n.SubBlockIndex < 0 || n.SubBlockIndex >= len(comp.SubBlocks) {
		l.errorf(n.Pos, errors.ErrorMissingSubBlock, "if references a sub-block that was never gathered")
		return
	}
	for _, b := range n.Branches {
		branch := b.(*ast.IfBranch)
		if branch.SubBlockIndex < 0 || branch.SubBlockIndex >= len(comp.SubBlocks) {
			l.errorf(branch.Pos, errors.ErrorOrphanBranch, "if-branch compiled outside its parent if")
			continue
		}
		sb := comp.SubBlocks[branch.SubBlockIndex]
		l.LowerBlockStatements(sb.Child, branch.Body)
		out := l.exprField(branch.Result, sb.Child)
		if !out.IsRegister {
			fresh := sb.Child.GetRegister(fmt.Sprintf("if_output%d", branch.SubBlockIndex))
			sb.Child.Emit(constraint.MakeFilter("==", constraint.Reg(fresh), out))
			out = constraint.Reg(fresh)
		}
		sb.Output = []constraint.Field{out}
	}
}
