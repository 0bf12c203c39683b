package parser

import (
	"strings"

	"ligature/internal/ast"
	"ligature/token"
)

// recordMode selects which kind of bracketed node parseOneRecord builds:
// a search-section Record, or a bind/commit-section OutputRecord.
type recordMode int

const (
	modeSearch recordMode = iota
	modeBind
	modeCommit
)

// parseRecordOrSet parses one or more juxtaposed `[...]` record patterns in
// search-section mode. Two or more in a row (`[#a] [#b]`) form a RecordSet,
// the disjunctive multi-valued attribute form. This is reached only from
// parsePrimary, i.e. positions where a bracket literal is a search pattern
// (expressions, not-bodies, if-conditions); bind/commit sections build their
// output records via parseRecordOrSetMode directly, and a RecordUpdate's
// right-hand side goes through parseUpdateValue instead.
func (p *Parser) parseRecordOrSet(output ast.OutputType) ast.Node {
	return p.parseRecordOrSetMode(modeSearch)
}

func (p *Parser) parseRecordOrSetMode(mode recordMode) ast.Node {
	first := p.parseOneRecord(mode)
	if !p.check(token.LBRACKET) {
		return first
	}
	records := []ast.Node{first}
	for p.check(token.LBRACKET) {
		records = append(records, p.parseOneRecord(mode))
	}
	return &ast.RecordSet{Pos: first.NodePos(), EndPos: records[len(records)-1].NodeEndPos(), Records: records}
}

// parseOneRecord parses a single `[ attr... ]` pattern, producing a Record
// or OutputRecord depending on mode; both share the same attribute grammar.
func (p *Parser) parseOneRecord(mode recordMode) ast.Node {
	start := p.peek().Position
	p.advance() // [
	var attrs []ast.Node
	for !p.check(token.RBRACKET) && !p.isAtEnd() {
		attrs = append(attrs, p.parseRecordAttr())
	}
	end := p.peek().Position
	p.consume(token.RBRACKET, "expected ] to close record")

	switch mode {
	case modeBind:
		return &ast.OutputRecord{Pos: start, EndPos: end, Attrs: attrs, Output: ast.Bind}
	case modeCommit:
		return &ast.OutputRecord{Pos: start, EndPos: end, Attrs: attrs, Output: ast.Commit}
	default:
		return &ast.Record{Pos: start, EndPos: end, Attrs: attrs}
	}
}

// parseRecordAttr parses one attribute slot: a bare name, `#tag`, a pipe
// marker, or a name paired with `:`/`=`/a comparison operator and a value.
func (p *Parser) parseRecordAttr() ast.Node {
	tok := p.peek()
	switch tok.Type {
	case token.TAG:
		p.advance()
		return &ast.AttributeEquality{
			Pos: tok.Position, EndPos: tok.Position, Attr: "tag",
			Value: &ast.RawString{Pos: tok.Position, Value: strings.TrimPrefix(tok.Lexeme, "#")},
		}
	case token.PIPE:
		p.advance()
		return &ast.Pipe{Pos: tok.Position}
	case token.IDENT:
		name := p.advance()
		switch {
		case p.check(token.COLON) || p.check(token.EQUAL):
			p.advance()
			val := p.ParseExpr()
			return &ast.AttributeEquality{Pos: name.Position, EndPos: val.NodeEndPos(), Attr: name.Lexeme, Value: val}
		case isAttrComparison(p.peek().Type):
			op := p.advance()
			val := p.ParseExpr()
			return &ast.AttributeInequality{
				Pos: name.Position, EndPos: val.NodeEndPos(), Attr: name.Lexeme, Op: op.Type.String(), Right: val,
			}
		default:
			return &ast.Attribute{Pos: name.Position, Name: name.Lexeme}
		}
	default:
		p.advance()
		p.reportError("expected an attribute inside record")
		return &ast.Attribute{Pos: tok.Position, Name: "<error>"}
	}
}

func isAttrComparison(t token.Type) bool {
	switch t {
	case token.EQUAL_EQUAL, token.NOT_EQUAL, token.LESS, token.LESS_EQUAL,
		token.GREATER, token.GREATER_EQUAL, token.CONTAINS, token.NOT_CONTAINS:
		return true
	default:
		return false
	}
}

// parseMutatingChain parses the left-hand side of a RecordUpdate: a dotted
// path ending in an update operator, distinguished from a plain
// AttributeAccess only by what follows it.
func (p *Parser) parseMutatingChain() ast.Node {
	start := p.peek().Position
	first, _ := p.consume(token.IDENT, "expected identifier")
	path := []string{first.Lexeme}
	end := first.Position
	for p.match(token.DOT) {
		seg, _ := p.consume(token.IDENT, "expected identifier after .")
		path = append(path, seg.Lexeme)
		end = seg.Position
	}
	return &ast.MutatingAttributeAccess{Pos: start, EndPos: end, Path: path}
}

// parseRecordUpdate parses a full `record.path op value` statement.
func (p *Parser) parseRecordUpdate(output ast.OutputType) ast.Node {
	lhs := p.parseMutatingChain()
	opTok := p.peek()
	switch opTok.Type {
	case token.COLON_EQUAL, token.PLUS_EQUAL, token.MINUS_EQUAL, token.ARROW:
		p.advance()
	default:
		p.reportError("expected an update operator (:=, +=, -=, <-)")
		return lhs
	}
	rhs := p.parseUpdateValue(output)
	return &ast.RecordUpdate{
		Pos: lhs.NodePos(), EndPos: rhs.NodeEndPos(), Record: lhs, Op: opTok.Type.String(), Value: rhs, Output: output,
	}
}

// parseUpdateValue parses the right-hand side of a record update. A bracket
// literal there is tried as an output record first, in the update's own
// bind/commit mode: `p.friend <- [#dog name: "Rex"]` creates a new linked
// entity rather than matching an existing one, so its `[...]` must lower
// through the gen_id/Insert path, not the search-pattern one. Any other
// expression falls back to the ordinary expression grammar.
func (p *Parser) parseUpdateValue(output ast.OutputType) ast.Node {
	if p.check(token.LBRACKET) {
		mode := modeBind
		if output == ast.Commit {
			mode = modeCommit
		}
		return p.parseRecordOrSetMode(mode)
	}
	return p.ParseExpr()
}
