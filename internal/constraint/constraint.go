package constraint

// Kind enumerates the constraint shapes a lowered block can contain.
type Kind int

const (
	ScanKind Kind = iota
	AntiScanKind
	IntermediateScanKind
	IntermediateInsertKind
	InsertKind
	RemoveKind
	RemoveAttributeKind
	RemoveEntityKind
	FilterKind
	FunctionKind
	MultiFunctionKind
	ProjectKind
	WatchKind
)

func (k Kind) String() string {
	switch k {
	case ScanKind:
		return "Scan"
	case AntiScanKind:
		return "AntiScan"
	case IntermediateScanKind:
		return "IntermediateScan"
	case IntermediateInsertKind:
		return "IntermediateInsert"
	case InsertKind:
		return "Insert"
	case RemoveKind:
		return "Remove"
	case RemoveAttributeKind:
		return "RemoveAttribute"
	case RemoveEntityKind:
		return "RemoveEntity"
	case FilterKind:
		return "Filter"
	case FunctionKind:
		return "Function"
	case MultiFunctionKind:
		return "MultiFunction"
	case ProjectKind:
		return "Project"
	case WatchKind:
		return "Watch"
	default:
		return "Unknown"
	}
}

// Constraint is a single lowered operation. Only the fields relevant to Kind
// are populated; the rest are left zero. This mirrors the tagged-union shape
// of the original compiler's constraint enum without needing a Go sum type.
type Constraint struct {
	Kind Kind

	// Scan / Insert / Remove / RemoveAttribute
	Entity    Field
	Attribute Field
	Value     Field
	Commit    bool // Insert/Remove: bind vs commit output

	// RemoveEntity
	// (Entity populated above)

	// AntiScan / IntermediateScan / IntermediateInsert
	Key     []Field
	Outputs []Field // IntermediateScan output registers, IntermediateInsert extra fields
	Negate  bool    // IntermediateInsert: true for the inserts AntiScans test (a not() body, an if branch's "taken" marker), false for an if branch's result

	// Filter
	Op    string
	Left  Field
	Right Field

	// Function / MultiFunction
	Name   string
	Params []Field
	Output Field   // Function's single output register/value
	MultiOutputs []Field // MultiFunction's output registers

	// Project
	Fields []Field

	// Watch
	WatchName string
}

// Registers returns every register this constraint reads or writes.
func (c Constraint) Registers() []int {
	var out []int
	add := func(f Field) {
		out = append(out, f.Registers()...)
	}
	switch c.Kind {
	case ScanKind, InsertKind, RemoveKind, RemoveAttributeKind:
		add(c.Entity)
		add(c.Attribute)
		add(c.Value)
	case RemoveEntityKind:
		add(c.Entity)
	case AntiScanKind, IntermediateScanKind, IntermediateInsertKind:
		for _, f := range c.Key {
			add(f)
		}
		for _, f := range c.Outputs {
			add(f)
		}
	case FilterKind:
		add(c.Left)
		add(c.Right)
	case FunctionKind:
		for _, f := range c.Params {
			add(f)
		}
		add(c.Output)
	case MultiFunctionKind:
		for _, f := range c.Params {
			add(f)
		}
		for _, f := range c.MultiOutputs {
			add(f)
		}
	case ProjectKind, WatchKind:
		for _, f := range c.Fields {
			add(f)
		}
	}
	return out
}

// OutputRegisters returns the subset of Registers that this constraint
// produces (as opposed to merely reads), used by the stitcher to compute
// ancestor-constraint relatedness.
func (c Constraint) OutputRegisters() []int {
	switch c.Kind {
	case ScanKind:
		return c.Value.Registers()
	case IntermediateScanKind:
		var out []int
		for _, f := range c.Outputs {
			out = append(out, f.Registers()...)
		}
		return out
	case FunctionKind:
		return c.Output.Registers()
	case MultiFunctionKind:
		var out []int
		for _, f := range c.MultiOutputs {
			out = append(out, f.Registers()...)
		}
		return out
	default:
		return nil
	}
}

// -- constructors -------------------------------------------------------

func MakeScan(e, a, v Field) Constraint {
	return Constraint{Kind: ScanKind, Entity: e, Attribute: a, Value: v}
}

func MakeInsert(e, a, v Field, commit bool) Constraint {
	return Constraint{Kind: InsertKind, Entity: e, Attribute: a, Value: v, Commit: commit}
}

func MakeRemove(e, a, v Field, commit bool) Constraint {
	return Constraint{Kind: RemoveKind, Entity: e, Attribute: a, Value: v, Commit: commit}
}

func MakeRemoveAttribute(e, a Field, commit bool) Constraint {
	return Constraint{Kind: RemoveAttributeKind, Entity: e, Attribute: a, Commit: commit}
}

func MakeRemoveEntity(e Field, commit bool) Constraint {
	return Constraint{Kind: RemoveEntityKind, Entity: e, Commit: commit}
}

func MakeAntiScan(key []Field) Constraint {
	return Constraint{Kind: AntiScanKind, Key: key}
}

func MakeIntermediateScan(key []Field, outputs []Field) Constraint {
	return Constraint{Kind: IntermediateScanKind, Key: key, Outputs: outputs}
}

func MakeIntermediateInsert(key []Field, extra []Field, negate bool) Constraint {
	return Constraint{Kind: IntermediateInsertKind, Key: key, Outputs: extra, Negate: negate}
}

func MakeFilter(op string, l, r Field) Constraint {
	return Constraint{Kind: FilterKind, Op: op, Left: l, Right: r}
}

func MakeFunction(name string, params []Field, output Field) Constraint {
	return Constraint{Kind: FunctionKind, Name: name, Params: params, Output: output}
}

func MakeMultiFunction(name string, params []Field, outputs []Field) Constraint {
	return Constraint{Kind: MultiFunctionKind, Name: name, Params: params, MultiOutputs: outputs}
}

func MakeProject(fields []Field) Constraint {
	return Constraint{Kind: ProjectKind, Fields: fields}
}

func MakeWatch(name string, fields []Field) Constraint {
	return Constraint{Kind: WatchKind, WatchName: name, Fields: fields}
}
