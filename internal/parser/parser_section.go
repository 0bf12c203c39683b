package parser

import (
	"ligature/internal/ast"
	"ligature/token"
)

// ParseSource scans and parses a single block's source text (already
// isolated from its surrounding Markdown prose by internal/doc) into an
// *ast.Block. Errors are collected on the returned Parser, not raised.
func ParseSource(source string) (*ast.Block, *Parser) {
	sc := NewScanner(source)
	toks, scanErrs := sc.ScanTokens()
	p := NewParser(toks)
	for _, e := range scanErrs {
		p.errors = append(p.errors, ParseError{Message: e.Message, Position: e.Position, Length: e.Length})
	}
	block := p.parseBlock()
	return block, p
}

// parseBlock parses `search? (bind|commit|project|watch)+ end`.
func (p *Parser) parseBlock() *ast.Block {
	start := p.peek().Position
	block := &ast.Block{Pos: start}

	if p.check(token.SEARCH) {
		block.Search = p.parseSearchSection()
	}

	for !p.check(token.END) && !p.isAtEnd() {
		switch p.peek().Type {
		case token.BIND:
			block.Update = p.parseBindSection()
		case token.COMMIT:
			block.Update = p.parseCommitSection()
		case token.PROJECT:
			block.Update = p.parseProjectSection()
		case token.WATCH:
			block.Update = p.parseWatchSection()
		default:
			p.reportError("expected bind, commit, project or watch section")
			p.advance()
		}
	}

	end := p.peek().Position
	p.consume(token.END, "expected end to close block")
	block.EndPos = end
	return block
}

func (p *Parser) parseSearchSection() *ast.Search {
	start := p.advance().Position // search
	var stmts []ast.Node
	for !p.atSectionBoundary() {
		stmts = append(stmts, p.parseSearchStatement())
	}
	return &ast.Search{Pos: start, EndPos: p.peek().Position, Statements: stmts}
}

func (p *Parser) atSectionBoundary() bool {
	switch p.peek().Type {
	case token.BIND, token.COMMIT, token.PROJECT, token.WATCH, token.END, token.EOF:
		return true
	default:
		return false
	}
}

// parseSearchStatement parses one statement inside a search section: a
// Not, an If, a bare record/record-set, or a standalone equality/inequality.
func (p *Parser) parseSearchStatement() ast.Node {
	switch p.peek().Type {
	case token.NOT:
		return p.parseNot()
	case token.IF:
		return p.parseIf()
	default:
		left := p.ParseExpr()
		if p.check(token.EQUAL) {
			p.advance()
			right := p.ParseExpr()
			return &ast.Equality{Pos: left.NodePos(), EndPos: right.NodeEndPos(), Left: left, Right: right}
		}
		return left
	}
}

func (p *Parser) parseNot() *ast.Not {
	start := p.advance().Position // not
	p.consume(token.LPAREN, "expected ( after not")
	var body []ast.Node
	for !p.check(token.RPAREN) && !p.isAtEnd() {
		body = append(body, p.parseSearchStatement())
	}
	end := p.peek().Position
	p.consume(token.RPAREN, "expected ) to close not")
	return &ast.Not{Pos: start, EndPos: end, Body: body}
}

// parseIf parses a full `if ... then ... (else if ... then ...)* (else ...)?`
// chain into an ast.If whose Branches are ast.IfBranch nodes. Exclusive is
// set when any else arm is present.
func (p *Parser) parseIf() *ast.If {
	start := p.peek().Position
	node := &ast.If{Pos: start}
	exclusive := false

	branch := p.parseIfBranch()
	node.Branches = append(node.Branches, branch)

	for p.check(token.ELSE) {
		p.advance()
		if p.check(token.IF) {
			p.advance()
			node.Branches = append(node.Branches, p.parseIfBranchBody(false))
		} else {
			exclusive = true
			node.Branches = append(node.Branches, p.parseIfBranchBody(true))
			break
		}
	}

	node.Exclusive = exclusive
	last := node.Branches[len(node.Branches)-1]
	node.EndPos = last.NodeEndPos()
	return node
}

// parseIfBranch parses the leading `if <search> then <result>` arm.
func (p *Parser) parseIfBranch() *ast.IfBranch {
	p.consume(token.IF, "expected if")
	return p.parseIfBranchBody(false)
}

// parseIfBranchBody parses `<search> then <result>`, or for a bare else
// arm (noSearch), just `<result>`.
func (p *Parser) parseIfBranchBody(noSearch bool) *ast.IfBranch {
	start := p.peek().Position
	var body []ast.Node
	if !noSearch {
		for !p.check(token.THEN) && !p.isAtEnd() {
			body = append(body, p.parseSearchStatement())
		}
		p.consume(token.THEN, "expected then after if condition")
	}
	result := p.ParseExpr()
	return &ast.IfBranch{Pos: start, EndPos: result.NodeEndPos(), Body: body, Result: result}
}

func (p *Parser) parseBindSection() *ast.BindSection {
	start := p.advance().Position // bind
	var stmts []ast.Node
	for !p.atSectionBoundary() {
		stmts = append(stmts, p.parseOutputStatement(modeBind, ast.Bind))
	}
	return &ast.BindSection{Pos: start, EndPos: p.peek().Position, Statements: stmts}
}

func (p *Parser) parseCommitSection() *ast.CommitSection {
	start := p.advance().Position // commit
	var stmts []ast.Node
	for !p.atSectionBoundary() {
		stmts = append(stmts, p.parseOutputStatement(modeCommit, ast.Commit))
	}
	return &ast.CommitSection{Pos: start, EndPos: p.peek().Position, Statements: stmts}
}

// parseOutputStatement parses one statement inside a bind/commit section:
// a mutating update (`path op value`), a bare `name = value` shorthand
// (OutputEquality, whose value is an output record, an if-expression or any
// other expression), or a standalone `[...]` output record.
func (p *Parser) parseOutputStatement(mode recordMode, output ast.OutputType) ast.Node {
	if p.check(token.IDENT) && isMutatingLookahead(p, 1) {
		return p.parseRecordUpdate(output)
	}
	if p.check(token.IDENT) && p.tokens[p.current+1].Type == token.EQUAL {
		name := p.advance()
		p.advance() // =
		var val ast.Node
		switch {
		case p.check(token.LBRACKET):
			val = p.parseRecordOrSetMode(mode)
		case p.check(token.IF):
			val = p.parseIf()
		default:
			val = p.ParseExpr()
		}
		return &ast.OutputEquality{Pos: name.Position, EndPos: val.NodeEndPos(), Name: name.Lexeme, Value: val, Output: output}
	}
	if p.check(token.LBRACKET) {
		return p.parseRecordOrSetMode(mode)
	}
	p.reportError("expected an output record, equality or update statement")
	tok := p.advance()
	return &ast.NoneLiteral{Pos: tok.Position}
}

// isMutatingLookahead reports whether the dotted-path starting at the
// current identifier is eventually followed by an update operator rather
// than `=` or end-of-attribute, distinguishing a RecordUpdate's LHS from a
// plain `name = [...]` OutputEquality.
func isMutatingLookahead(p *Parser, offset int) bool {
	i := p.current + offset
	for i < len(p.tokens) && p.tokens[i].Type == token.DOT {
		i += 2
	}
	if i >= len(p.tokens) {
		return false
	}
	switch p.tokens[i].Type {
	case token.COLON_EQUAL, token.PLUS_EQUAL, token.MINUS_EQUAL, token.ARROW:
		return true
	default:
		return false
	}
}

func (p *Parser) parseProjectSection() *ast.Project {
	start := p.advance().Position // project
	var vals []ast.Node
	for !p.atSectionBoundary() {
		vals = append(vals, p.ParseExpr())
	}
	return &ast.Project{Pos: start, EndPos: p.peek().Position, Values: vals}
}

func (p *Parser) parseWatchSection() *ast.Watch {
	start := p.advance().Position // watch
	name, _ := p.consume(token.IDENT, "expected watcher name")
	var vals []ast.Node
	for !p.atSectionBoundary() {
		vals = append(vals, p.ParseExpr())
	}
	return &ast.Watch{Pos: start, EndPos: p.peek().Position, Name: name.Lexeme, Values: vals}
}
