package parser

import (
	"strings"

	"ligature/internal/ast"
	"ligature/token"
)

// parseStringLiteral splits a scanned STRING token's raw lexeme on `{{ }}`
// interpolation markers. A string with no interpolation markers becomes a
// plain RawString; one with at least one marker becomes an EmbeddedString
// whose Chunks alternate RawString and a reparsed sub-expression.
func (p *Parser) parseStringLiteral(tok token.Token) ast.Node {
	raw := tok.Lexeme
	if !strings.Contains(raw, "{{") {
		return &ast.RawString{Pos: tok.Position, Value: raw}
	}

	var chunks []ast.Node
	pos := tok.Position
	rest := raw
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			if rest != "" {
				chunks = append(chunks, &ast.RawString{Pos: pos, Value: rest})
			}
			break
		}
		if start > 0 {
			chunks = append(chunks, &ast.RawString{Pos: pos, Value: rest[:start]})
		}
		end := strings.Index(rest[start:], "}}")
		if end < 0 {
			p.reportError("unterminated {{ interpolation in string literal")
			break
		}
		exprSrc := rest[start+2 : start+end]
		chunks = append(chunks, p.parseEmbeddedExpr(exprSrc, pos))
		rest = rest[start+end+2:]
	}

	return &ast.EmbeddedString{Pos: tok.Position, EndPos: tok.Position, Chunks: chunks}
}

// parseEmbeddedExpr re-scans and re-parses a `{{ ... }}` fragment as a
// nested expression, sharing the outer parser's error collection.
func (p *Parser) parseEmbeddedExpr(src string, pos token.Position) ast.Node {
	sc := NewScanner(strings.TrimSpace(src))
	toks, scanErrs := sc.ScanTokens()
	for _, e := range scanErrs {
		p.errors = append(p.errors, ParseError{Message: e.Message, Position: pos, Length: e.Length})
	}
	sub := NewParser(toks)
	expr := sub.ParseExpr()
	p.errors = append(p.errors, sub.errors...)
	return expr
}
