package ir

import "ligature/internal/constraint"

// Unify runs the fixed-point unification pass:
// repeatedly walk every gathered equality, merging register aliases under
// a lower-index-wins rule and resolving registers to literal values where
// an equality pins one down, until a full pass makes no further change.
// Then remaps RequiredFields through the final register aliases and
// recurses into every nested scope.
func Unify(comp *Compilation) {
	for {
		changed := false
		for _, eq := range comp.Equalities {
			if stepEquality(comp, eq.A, eq.B) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	remapped := make([]constraint.Field, 0, len(comp.RequiredFields))
	for _, f := range comp.RequiredFields {
		remapped = append(remapped, resolveField(comp, f))
	}
	comp.RequiredFields = remapped

	for _, sb := range comp.SubBlocks {
		if sb.Child == nil {
			continue
		}
		seedChildValues(comp, sb.Child)
		Unify(sb.Child)
	}
}

// stepEquality resolves one equality's pair of fields against the current
// UnifiedRegisters/VarValues state, reports whether it changed anything.
func stepEquality(comp *Compilation, a, b constraint.Field) bool {
	ra := resolveField(comp, a)
	rb := resolveField(comp, b)

	switch {
	case ra.IsRegister && rb.IsRegister:
		if ra.Register == rb.Register {
			return false
		}
		lo, hi := ra.Register, rb.Register
		if hi < lo {
			lo, hi = hi, lo
		}
		if comp.UnifiedRegisters[hi] == lo {
			return false
		}
		comp.UnifiedRegisters[hi] = lo
		return true

	case ra.IsRegister && !rb.IsRegister:
		return bindRegisterValue(comp, ra.Register, rb)

	case !ra.IsRegister && rb.IsRegister:
		return bindRegisterValue(comp, rb.Register, ra)

	default:
		// two literal values: nothing to unify, a mismatch is a
		// UnificationError the caller surfaces separately.
		return false
	}
}

// bindRegisterValue records that reg resolves to value v, via every
// variable name currently mapped to reg.
func bindRegisterValue(comp *Compilation, reg int, v constraint.Field) bool {
	changed := false
	for name, r := range comp.Vars {
		if comp.GetUnifiedRegister(r) != comp.GetUnifiedRegister(reg) {
			continue
		}
		if existing, ok := comp.VarValues[name]; !ok || existing != v {
			comp.VarValues[name] = v
			changed = true
		}
	}
	comp.Provide(reg)
	return changed
}

// resolveField follows a Field through the unifier's current canonical
// register mapping, returning a concrete Value field if one is already
// known for that register.
func resolveField(comp *Compilation, f constraint.Field) constraint.Field {
	if !f.IsRegister {
		return f
	}
	canon := comp.GetUnifiedRegister(f.Register)
	for name, r := range comp.Vars {
		if comp.GetUnifiedRegister(r) == canon {
			if v, ok := comp.VarValues[name]; ok {
				return v
			}
		}
	}
	return constraint.Reg(canon)
}

// seedChildValues clones the parent's resolved var values into child before
// the child's own unification runs, so a name the child imported already
// carries any value the parent pinned down.
func seedChildValues(parent, child *Compilation) {
	for name, v := range parent.VarValues {
		if _, already := child.VarValues[name]; !already {
			child.VarValues[name] = v
		}
	}
}
