package ir

import (
	"fmt"
	"strings"

	"ligature/internal/constraint"
)

// PrintBlocks renders a compiled Block list as text: one section per
// block naming it, then one line per constraint. Grounded on the
// make_block println! trace, reproduced here as a reusable formatter
// rather than bare stdout writes so both the CLI and the REPL can reuse it.
func PrintBlocks(blocks []Block) string {
	var sb strings.Builder
	for _, blk := range blocks {
		fmt.Fprintf(&sb, "block %s\n", blk.Name)
		for _, c := range blk.Compilation.Constraints {
			fmt.Fprintf(&sb, "  %s\n", printConstraint(c))
		}
	}
	return sb.String()
}

func printConstraint(c constraint.Constraint) string {
	switch c.Kind {
	case constraint.ScanKind:
		return fmt.Sprintf("Scan(%s, %s, %s)", c.Entity, c.Attribute, c.Value)
	case constraint.AntiScanKind:
		return fmt.Sprintf("AntiScan(%s)", printFields(c.Key))
	case constraint.IntermediateScanKind:
		return fmt.Sprintf("IntermediateScan(%s -> %s)", printFields(c.Key), printFields(c.Outputs))
	case constraint.IntermediateInsertKind:
		return fmt.Sprintf("IntermediateInsert(%s, %s, negate=%v)", printFields(c.Key), printFields(c.Outputs), c.Negate)
	case constraint.InsertKind:
		return fmt.Sprintf("Insert(%s, %s, %s, commit=%v)", c.Entity, c.Attribute, c.Value, c.Commit)
	case constraint.RemoveKind:
		return fmt.Sprintf("Remove(%s, %s, %s, commit=%v)", c.Entity, c.Attribute, c.Value, c.Commit)
	case constraint.RemoveAttributeKind:
		return fmt.Sprintf("RemoveAttribute(%s, %s, commit=%v)", c.Entity, c.Attribute, c.Commit)
	case constraint.RemoveEntityKind:
		return fmt.Sprintf("RemoveEntity(%s, commit=%v)", c.Entity, c.Commit)
	case constraint.FilterKind:
		return fmt.Sprintf("Filter(%s %s %s)", c.Left, c.Op, c.Right)
	case constraint.FunctionKind:
		return fmt.Sprintf("Function(%s, %s, %s)", c.Name, printFields(c.Params), c.Output)
	case constraint.MultiFunctionKind:
		return fmt.Sprintf("MultiFunction(%s, %s, %s)", c.Name, printFields(c.Params), printFields(c.MultiOutputs))
	case constraint.ProjectKind:
		return fmt.Sprintf("Project(%s)", printFields(c.Fields))
	case constraint.WatchKind:
		return fmt.Sprintf("Watch(%s, %s)", c.WatchName, printFields(c.Fields))
	default:
		return "Unknown"
	}
}

func printFields(fs []constraint.Field) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
