package parser

import (
	"strconv"
	"strings"

	"ligature/internal/ast"
	"ligature/token"
)

// binaryPrecedence is a precedence-climbing table scoped to the operators
// this grammar actually has: comparisons bind looser than arithmetic, and
// arithmetic follows the usual +/- vs */ /% split.
var binaryPrecedence = map[token.Type]int{
	token.EQUAL_EQUAL:    1,
	token.NOT_EQUAL:      1,
	token.LESS:           1,
	token.LESS_EQUAL:     1,
	token.GREATER:        1,
	token.GREATER_EQUAL:  1,
	token.CONTAINS:       1,
	token.NOT_CONTAINS:   1,
	token.PLUS:           2,
	token.MINUS:          2,
	token.STAR:           3,
	token.SLASH:          3,
	token.PERCENT:        3,
}

func opText(t token.Type) string { return t.String() }

// ParseExpr parses a full expression via precedence climbing, starting from
// a primary/postfix term.
func (p *Parser) ParseExpr() ast.Node {
	return p.parsePrattExpr(0)
}

func (p *Parser) parsePrattExpr(minPrec int) ast.Node {
	left := p.parsePrimary()
	for {
		prec, ok := binaryPrecedence[p.peek().Type]
		if !ok || prec < minPrec {
			break
		}
		opTok := p.advance()
		right := p.parsePrattExpr(prec + 1)
		pos, end := left.NodePos(), right.NodeEndPos()
		if isComparison(opTok.Type) {
			left = &ast.Inequality{Pos: pos, EndPos: end, Left: left, Right: right, Op: opText(opTok.Type)}
		} else {
			left = &ast.Infix{Pos: pos, EndPos: end, Op: opText(opTok.Type), Left: left, Right: right}
		}
	}
	return left
}

func isComparison(t token.Type) bool {
	switch t {
	case token.EQUAL_EQUAL, token.NOT_EQUAL, token.LESS, token.LESS_EQUAL,
		token.GREATER, token.GREATER_EQUAL, token.CONTAINS, token.NOT_CONTAINS:
		return true
	default:
		return false
	}
}

// parsePrimary parses a primary/postfix term: literals, tags, variables,
// parenthesized expr-sets, bracketed records/record-sets, and attribute
// access chains built by trailing `.name` suffixes.
func (p *Parser) parsePrimary() ast.Node {
	tok := p.peek()
	switch tok.Type {
	case token.INT:
		p.advance()
		n, _ := strconv.ParseInt(tok.Lexeme, 10, 32)
		return &ast.IntLiteral{Pos: tok.Position, Value: int32(n)}
	case token.FLOAT:
		p.advance()
		f, _ := strconv.ParseFloat(tok.Lexeme, 32)
		return &ast.FloatLiteral{Pos: tok.Position, Value: float32(f)}
	case token.STRING:
		p.advance()
		return p.parseStringLiteral(tok)
	case token.TAG:
		p.advance()
		return &ast.Tag{Pos: tok.Position, Name: strings.TrimPrefix(tok.Lexeme, "#")}
	case token.NONE:
		p.advance()
		return &ast.NoneLiteral{Pos: tok.Position}
	case token.LPAREN:
		return p.parseExprSet()
	case token.LBRACKET:
		return p.parseRecordOrSet(ast.Bind)
	case token.IDENT:
		return p.parseIdentOrChain()
	default:
		p.advance()
		p.reportError("expected an expression")
		return &ast.NoneLiteral{Pos: tok.Position}
	}
}

// parseExprSet parses a parenthesized `(e1 e2 ...)` disjunction.
func (p *Parser) parseExprSet() ast.Node {
	start := p.peek().Position
	p.advance() // (
	var items []ast.Node
	for !p.check(token.RPAREN) && !p.isAtEnd() {
		items = append(items, p.ParseExpr())
	}
	end := p.peek().Position
	p.consume(token.RPAREN, "expected ) to close expression set")
	return &ast.ExprSet{Pos: start, EndPos: end, Items: items}
}

// parseIdentOrChain parses a bare identifier, a record-function
// `op[params]`, or an attribute-access chain `a.b.c`.
func (p *Parser) parseIdentOrChain() ast.Node {
	tok := p.advance()
	if p.check(token.LBRACKET) {
		return p.parseRecordFunctionCall(tok)
	}
	var node ast.Node = &ast.Variable{Pos: tok.Position, Name: tok.Lexeme}
	if p.check(token.DOT) {
		path := []string{tok.Lexeme}
		end := tok.Position
		for p.match(token.DOT) {
			seg, _ := p.consume(token.IDENT, "expected identifier after .")
			path = append(path, seg.Lexeme)
			end = seg.Position
		}
		return &ast.AttributeAccess{Pos: tok.Position, EndPos: end, Path: path}
	}
	return node
}

// parseRecordFunctionCall parses `op[p1 p2 ...]`, called once the parser
// has already consumed the operator identifier and sees `[`.
func (p *Parser) parseRecordFunctionCall(opTok token.Token) ast.Node {
	p.advance() // [
	var params []ast.Node
	for !p.check(token.RBRACKET) && !p.isAtEnd() {
		params = append(params, p.parseAttributeOrValue())
	}
	end := p.peek().Position
	p.consume(token.RBRACKET, "expected ] to close function parameters")
	return &ast.RecordFunction{Pos: opTok.Position, EndPos: end, Op: opTok.Lexeme, Params: params}
}

// parseAttributeOrValue parses one slot inside `[...]`: either a bare
// `name:` value pair or a standalone expression (used for record-function
// parameter lists, which are themselves attribute-equality pairs).
func (p *Parser) parseAttributeOrValue() ast.Node {
	if p.check(token.IDENT) && (p.tokens[p.current+1].Type == token.COLON || p.tokens[p.current+1].Type == token.EQUAL) {
		name := p.advance()
		p.advance() // : or =
		val := p.ParseExpr()
		return &ast.AttributeEquality{Pos: name.Position, EndPos: val.NodeEndPos(), Attr: name.Lexeme, Value: val}
	}
	return p.ParseExpr()
}

func stripQuotes(s string) string { return strings.Trim(s, "\"") }
