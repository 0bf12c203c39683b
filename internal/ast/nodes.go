package ast

import (
	"fmt"
	"strings"

	"ligature/token"
)

// -- literals and references -------------------------------------------------

// IntLiteral is an integer literal; interned as a number at gather time.
type IntLiteral struct {
	Pos   token.Position
	Value int32
}

func (n *IntLiteral) NodePos() token.Position    { return n.Pos }
func (n *IntLiteral) NodeEndPos() token.Position { return n.Pos }
func (n *IntLiteral) String() string             { return fmt.Sprintf("%d", n.Value) }

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	Pos   token.Position
	Value float32
}

func (n *FloatLiteral) NodePos() token.Position    { return n.Pos }
func (n *FloatLiteral) NodeEndPos() token.Position { return n.Pos }
func (n *FloatLiteral) String() string             { return fmt.Sprintf("%g", n.Value) }

// RawString is a double-quoted string literal with no `{{ }}` interpolation.
type RawString struct {
	Pos   token.Position
	Value string
}

func (n *RawString) NodePos() token.Position    { return n.Pos }
func (n *RawString) NodeEndPos() token.Position { return n.Pos }
func (n *RawString) String() string             { return fmt.Sprintf("%q", n.Value) }

// EmbeddedString is a string literal containing one or more `{{ expr }}`
// segments. Chunks alternate *RawString and arbitrary expression nodes.
// ResultVar is filled in by equality gathering with a fresh `__eve_concat<id>`
// name; the lowerer emits Function("concat", chunks, reg) against it.
type EmbeddedString struct {
	Pos, EndPos token.Position
	Chunks      []Node
	ResultVar   string
}

func (n *EmbeddedString) NodePos() token.Position    { return n.Pos }
func (n *EmbeddedString) NodeEndPos() token.Position { return n.EndPos }
func (n *EmbeddedString) String() string {
	parts := make([]string, len(n.Chunks))
	for i, c := range n.Chunks {
		parts[i] = c.String()
	}
	return "\"" + strings.Join(parts, "") + "\""
}

// NoneLiteral is the `none` keyword, used on the right of `:=` to request an
// attribute or entity removal.
type NoneLiteral struct {
	Pos token.Position
}

func (n *NoneLiteral) NodePos() token.Position    { return n.Pos }
func (n *NoneLiteral) NodeEndPos() token.Position { return n.Pos }
func (n *NoneLiteral) String() string             { return "none" }

// Pipe marks the end of identity-contributing attributes inside an output
// record (see OutputRecord).
type Pipe struct {
	Pos token.Position
}

func (n *Pipe) NodePos() token.Position    { return n.Pos }
func (n *Pipe) NodeEndPos() token.Position { return n.Pos }
func (n *Pipe) String() string             { return "|" }

// Tag is a `#name` shorthand meaning `tag = "name"`.
type Tag struct {
	Pos  token.Position
	Name string
}

func (n *Tag) NodePos() token.Position    { return n.Pos }
func (n *Tag) NodeEndPos() token.Position { return n.Pos }
func (n *Tag) String() string             { return "#" + n.Name }

// Variable is a source-level identifier reference.
type Variable struct {
	Pos  token.Position
	Name string
}

func (n *Variable) NodePos() token.Position    { return n.Pos }
func (n *Variable) NodeEndPos() token.Position { return n.Pos }
func (n *Variable) String() string             { return n.Name }

// GeneratedVariable references a synthetic register invented during
// equality gathering (e.g. an `attr_access|...` chain register).
type GeneratedVariable struct {
	Pos  token.Position
	Name string
}

func (n *GeneratedVariable) NodePos() token.Position    { return n.Pos }
func (n *GeneratedVariable) NodeEndPos() token.Position { return n.Pos }
func (n *GeneratedVariable) String() string             { return n.Name }

// Attribute is a bare `name` inside a record pattern: binds `name` as both
// the attribute key and the variable for its value.
type Attribute struct {
	Pos  token.Position
	Name string
}

func (n *Attribute) NodePos() token.Position    { return n.Pos }
func (n *Attribute) NodeEndPos() token.Position { return n.Pos }
func (n *Attribute) String() string             { return n.Name }

// AttributeEquality is `name: expr` / `name = expr` inside a record.
type AttributeEquality struct {
	Pos, EndPos token.Position
	Attr        string
	Value       Node
}

func (n *AttributeEquality) NodePos() token.Position    { return n.Pos }
func (n *AttributeEquality) NodeEndPos() token.Position { return n.EndPos }
func (n *AttributeEquality) String() string             { return fmt.Sprintf("%s: %s", n.Attr, n.Value) }

// AttributeInequality is `name cmp expr` inside a record pattern.
type AttributeInequality struct {
	Pos, EndPos token.Position
	Attr        string
	Op          string
	Right       Node
}

func (n *AttributeInequality) NodePos() token.Position    { return n.Pos }
func (n *AttributeInequality) NodeEndPos() token.Position { return n.EndPos }
func (n *AttributeInequality) String() string {
	return fmt.Sprintf("%s %s %s", n.Attr, n.Op, n.Right)
}

// AttributeAccess is a read-only `a.b.c` chain.
type AttributeAccess struct {
	Pos, EndPos token.Position
	Path        []string
}

func (n *AttributeAccess) NodePos() token.Position    { return n.Pos }
func (n *AttributeAccess) NodeEndPos() token.Position { return n.EndPos }
func (n *AttributeAccess) String() string             { return strings.Join(n.Path, ".") }

// MutatingAttributeAccess is the left-hand side of an update op (`:=`, `+=`,
// `-=`, `<-`): the same dotted-path shape, lowered two segments short.
type MutatingAttributeAccess struct {
	Pos, EndPos token.Position
	Path        []string
}

func (n *MutatingAttributeAccess) NodePos() token.Position    { return n.Pos }
func (n *MutatingAttributeAccess) NodeEndPos() token.Position { return n.EndPos }
func (n *MutatingAttributeAccess) String() string             { return strings.Join(n.Path, ".") }

// -- expressions --------------------------------------------------------------

// Inequality is a standalone binary comparison used as a search statement.
type Inequality struct {
	Pos, EndPos token.Position
	Left, Right Node
	Op          string
}

func (n *Inequality) NodePos() token.Position    { return n.Pos }
func (n *Inequality) NodeEndPos() token.Position { return n.EndPos }
func (n *Inequality) String() string             { return fmt.Sprintf("%s %s %s", n.Left, n.Op, n.Right) }

// Equality is `left = right`, gathered into the owning scope's equality
// list and later resolved by the unifier.
type Equality struct {
	Pos, EndPos token.Position
	Left, Right Node
}

func (n *Equality) NodePos() token.Position    { return n.Pos }
func (n *Equality) NodeEndPos() token.Position { return n.EndPos }
func (n *Equality) String() string             { return fmt.Sprintf("%s = %s", n.Left, n.Right) }

// OutputEquality is the bare `name = value` bind/commit shorthand: binds a
// fresh variable directly to an output record, an if-expression or any other
// expression.
type OutputEquality struct {
	Pos, EndPos token.Position
	Name        string
	Value       Node
	Output      OutputType
}

func (n *OutputEquality) NodePos() token.Position    { return n.Pos }
func (n *OutputEquality) NodeEndPos() token.Position { return n.EndPos }
func (n *OutputEquality) String() string             { return fmt.Sprintf("%s = %s", n.Name, n.Value) }

// ExprSet is a parenthesized list `(e1 e2 ...)`, used for disjunctive
// attribute values and multi-output if-expressions.
type ExprSet struct {
	Pos, EndPos token.Position
	Items       []Node
}

func (n *ExprSet) NodePos() token.Position    { return n.Pos }
func (n *ExprSet) NodeEndPos() token.Position { return n.EndPos }
func (n *ExprSet) String() string {
	parts := make([]string, len(n.Items))
	for i, it := range n.Items {
		parts[i] = it.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Infix is a binary arithmetic expression. Result is filled in by equality
// gathering with a fresh `__eve_infix<id>` register name.
type Infix struct {
	Pos, EndPos token.Position
	Op          string
	Left, Right Node
	Result      string
}

func (n *Infix) NodePos() token.Position    { return n.Pos }
func (n *Infix) NodeEndPos() token.Position { return n.EndPos }
func (n *Infix) String() string             { return fmt.Sprintf("%s %s %s", n.Left, n.Op, n.Right) }

// -- records -------------------------------------------------------------

// Record is a pattern `[...]` used in a search section. Var is filled in
// by equality gathering with a fresh `__eve_record<id>` subject register.
type Record struct {
	Pos, EndPos token.Position
	Var         string
	Attrs       []Node
}

func (n *Record) NodePos() token.Position    { return n.Pos }
func (n *Record) NodeEndPos() token.Position { return n.EndPos }
func (n *Record) String() string {
	parts := make([]string, len(n.Attrs))
	for i, a := range n.Attrs {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// RecordSet is a juxtaposed sequence of record patterns (`[#a] [#b]`), used
// as a disjunctive attribute value.
type RecordSet struct {
	Pos, EndPos token.Position
	Records     []Node
}

func (n *RecordSet) NodePos() token.Position    { return n.Pos }
func (n *RecordSet) NodeEndPos() token.Position { return n.EndPos }
func (n *RecordSet) String() string {
	parts := make([]string, len(n.Records))
	for i, r := range n.Records {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

// RecordFunction is `op[params...]`, optionally bound to one or more
// outputs via `out = op[params]` / `(a b) = op[params]`.
type RecordFunction struct {
	Pos, EndPos token.Position
	Op          string
	Params      []Node
	Outputs     []Node
}

func (n *RecordFunction) NodePos() token.Position    { return n.Pos }
func (n *RecordFunction) NodeEndPos() token.Position { return n.EndPos }
func (n *RecordFunction) String() string {
	parts := make([]string, len(n.Params))
	for i, p := range n.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s[%s]", n.Op, strings.Join(parts, " "))
}

// OutputRecord is `[...]` appearing in a bind/commit section: emits Insert
// constraints per attribute, plus a synthesized identity (gen_id) when its
// subject is not otherwise provided.
type OutputRecord struct {
	Pos, EndPos token.Position
	Var         string
	Attrs       []Node
	Output      OutputType
}

func (n *OutputRecord) NodePos() token.Position    { return n.Pos }
func (n *OutputRecord) NodeEndPos() token.Position { return n.EndPos }
func (n *OutputRecord) String() string {
	parts := make([]string, len(n.Attrs))
	for i, a := range n.Attrs {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// RecordUpdate is a mutating statement: `record op value`, where op is one
// of `:=`, `+=`, `-=`, `<-`.
type RecordUpdate struct {
	Pos, EndPos token.Position
	Record      Node
	Op          string
	Value       Node
	Output      OutputType
}

func (n *RecordUpdate) NodePos() token.Position    { return n.Pos }
func (n *RecordUpdate) NodeEndPos() token.Position { return n.EndPos }
func (n *RecordUpdate) String() string {
	return fmt.Sprintf("%s %s %s", n.Record, n.Op, n.Value)
}

// -- control forms ---------------------------------------------------------

// Not is a negated sub-pattern. SubBlockIndex is filled in by equality
// gathering with the index of its child scope in the parent's sub-blocks.
type Not struct {
	Pos, EndPos   token.Position
	SubBlockIndex int
	Body          []Node
}

func (n *Not) NodePos() token.Position    { return n.Pos }
func (n *Not) NodeEndPos() token.Position { return n.EndPos }
func (n *Not) String() string {
	parts := make([]string, len(n.Body))
	for i, s := range n.Body {
		parts[i] = s.String()
	}
	return "not(" + strings.Join(parts, " ") + ")"
}

// IfBranch is one `if ... then ...` / `else if ... then ...` / `else ...`
// arm of an If. Never compiled standalone; compiling one outside its
// parent If's sub_blocks entry is a StitcherError.
type IfBranch struct {
	Pos, EndPos   token.Position
	SubBlockIndex int
	Exclusive     bool
	Body          []Node
	Result        Node
}

func (n *IfBranch) NodePos() token.Position    { return n.Pos }
func (n *IfBranch) NodeEndPos() token.Position { return n.EndPos }
func (n *IfBranch) String() string             { return fmt.Sprintf("if ... then %s", n.Result) }

// If is a full if/else-if/else chain. Exclusive is true iff any `else` arm
// was seen; exclusive chains get "first matching branch wins" semantics.
type If struct {
	Pos, EndPos   token.Position
	SubBlockIndex int
	Exclusive     bool
	Outputs       []Node
	Branches      []Node
}

func (n *If) NodePos() token.Position    { return n.Pos }
func (n *If) NodeEndPos() token.Position { return n.EndPos }
func (n *If) String() string             { return fmt.Sprintf("if (%d branches)", len(n.Branches)) }

// -- sections and blocks ----------------------------------------------------

type Search struct {
	Pos, EndPos token.Position
	Statements  []Node
}

func (n *Search) NodePos() token.Position    { return n.Pos }
func (n *Search) NodeEndPos() token.Position { return n.EndPos }
func (n *Search) String() string             { return "search" }

type BindSection struct {
	Pos, EndPos token.Position
	Statements  []Node
}

func (n *BindSection) NodePos() token.Position    { return n.Pos }
func (n *BindSection) NodeEndPos() token.Position { return n.EndPos }
func (n *BindSection) String() string             { return "bind" }

type CommitSection struct {
	Pos, EndPos token.Position
	Statements  []Node
}

func (n *CommitSection) NodePos() token.Position    { return n.Pos }
func (n *CommitSection) NodeEndPos() token.Position { return n.EndPos }
func (n *CommitSection) String() string             { return "commit" }

type Project struct {
	Pos, EndPos token.Position
	Values      []Node
}

func (n *Project) NodePos() token.Position    { return n.Pos }
func (n *Project) NodeEndPos() token.Position { return n.EndPos }
func (n *Project) String() string             { return "project" }

type Watch struct {
	Pos, EndPos token.Position
	Name        string
	Values      []Node
}

func (n *Watch) NodePos() token.Position    { return n.Pos }
func (n *Watch) NodeEndPos() token.Position { return n.EndPos }
func (n *Watch) String() string             { return "watch " + n.Name }

// Block is one `search? (bind|commit|project|watch) end` unit.
type Block struct {
	Pos, EndPos token.Position
	Search      *Search
	Update      Node
}

func (n *Block) NodePos() token.Position    { return n.Pos }
func (n *Block) NodeEndPos() token.Position { return n.EndPos }
func (n *Block) String() string             { return "block" }

// Doc is the top-level parse result: every block found in a source document,
// in source order, with intervening prose discarded.
type Doc struct {
	File   string
	Blocks []*Block
}

func (n *Doc) NodePos() token.Position    { return token.Position{Line: 1, Column: 1} }
func (n *Doc) NodeEndPos() token.Position { return token.Position{Line: 1, Column: 1} }
func (n *Doc) String() string             { return fmt.Sprintf("doc %s (%d blocks)", n.File, len(n.Blocks)) }
