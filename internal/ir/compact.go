package ir

import "ligature/internal/constraint"

// Compact is the register compactor: rebuilds a dense
// register numbering for comp's own constraints, starting at 0, replacing
// any register that unification pinned to a concrete value with that
// Value field directly and assigning a fresh dense register to everything
// else. Recurses into every sub-block independently, since each scope
// gets its own dense numbering. Grounded on Compilation::reassign_registers.
func Compact(comp *Compilation) {
	mapping := map[int]constraint.Field{}
	next := 0

	assign := func(reg int) constraint.Field {
		canon := comp.GetUnifiedRegister(reg)
		if f, ok := mapping[canon]; ok {
			return f
		}
		if v, ok := valueForRegister(comp, canon); ok {
			mapping[canon] = v
			return v
		}
		f := constraint.Reg(next)
		next++
		mapping[canon] = f
		return f
	}

	comp.Constraints = remapConstraints(comp.Constraints, assign)

	for _, sb := range comp.SubBlocks {
		if sb.Child != nil {
			Compact(sb.Child)
		}
	}
}

func valueForRegister(comp *Compilation, canon int) (constraint.Field, bool) {
	for name, r := range comp.Vars {
		if comp.GetUnifiedRegister(r) == canon {
			if v, ok := comp.VarValues[name]; ok {
				return v, true
			}
		}
	}
	return constraint.Field{}, false
}

func remapField(f constraint.Field, assign func(int) constraint.Field) constraint.Field {
	if !f.IsRegister {
		return f
	}
	return assign(f.Register)
}

func remapFields(fs []constraint.Field, assign func(int) constraint.Field) []constraint.Field {
	out := make([]constraint.Field, len(fs))
	for i, f := range fs {
		out[i] = remapField(f, assign)
	}
	return out
}

func remapConstraints(cs []constraint.Constraint, assign func(int) constraint.Field) []constraint.Constraint {
	out := make([]constraint.Constraint, len(cs))
	for i, c := range cs {
		nc := c
		switch c.Kind {
		case constraint.ScanKind, constraint.InsertKind, constraint.RemoveKind, constraint.RemoveAttributeKind:
			nc.Entity = remapField(c.Entity, assign)
			nc.Attribute = remapField(c.Attribute, assign)
			nc.Value = remapField(c.Value, assign)
		case constraint.RemoveEntityKind:
			nc.Entity = remapField(c.Entity, assign)
		case constraint.AntiScanKind, constraint.IntermediateScanKind, constraint.IntermediateInsertKind:
			nc.Key = remapFields(c.Key, assign)
			nc.Outputs = remapFields(c.Outputs, assign)
		case constraint.FilterKind:
			nc.Left = remapField(c.Left, assign)
			nc.Right = remapField(c.Right, assign)
		case constraint.FunctionKind:
			nc.Params = remapFields(c.Params, assign)
			nc.Output = remapField(c.Output, assign)
		case constraint.MultiFunctionKind:
			nc.Params = remapFields(c.Params, assign)
			nc.MultiOutputs = remapFields(c.MultiOutputs, assign)
		case constraint.ProjectKind, constraint.WatchKind:
			nc.Fields = remapFields(c.Fields, assign)
		}
		out[i] = nc
	}
	return out
}
