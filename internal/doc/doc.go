// Package doc implements the Markdown-envelope reader: a source file is
// prose with embedded `search? (bind|commit|project|watch) end` code
// regions, and only the regions matter to the compiler. Grounded on the
// markdown/surrounded_block/maybe_block combinators.
//
// SPDX-License-Identifier: Apache-2.0
package doc

import (
	"strings"

	"ligature/internal/ast"
	"ligature/internal/errors"
	"ligature/internal/parser"
	"ligature/token"
)

// sectionStarts is checked, word-boundary-at-start-of-line, to find where a
// code region begins inside a prose document.
var sectionStarts = []string{"search", "bind", "commit", "project", "watch"}

// Read splits source into its block regions and parses each one
// independently. A block whose parse fails still contributes its
// CompilerErrors to the returned diagnostics; parsing continues with the next block rather than
// aborting the whole document.
func Read(filename, source string) (*ast.Doc, []errors.CompilerError) {
	doc := &ast.Doc{File: filename}
	var diags []errors.CompilerError

	offset := 0
	remaining := source
	line := 1

	for {
		start, lineAtStart := findBlockStart(remaining, line)
		if start < 0 {
			break
		}
		end := findBlockEnd(remaining, start)
		if end < 0 {
			diags = append(diags, errors.New(
				errorsTrailingBlockCode(), "unterminated block: missing end", token.Position{
					Line: lineAtStart, Column: 1, Offset: offset + start,
				}).Build())
			break
		}

		blockSrc := remaining[start : end+len("end")]
		blockLine := lineAtStart
		block, p := parser.ParseSource(blockSrc)
		for _, se := range p.Errors() {
			diags = append(diags, errors.New(
				errorsExpectedTokenCode(), se.Message, adjustPosition(se.Position, blockLine, blockSrc),
			).WithLength(se.Length).Build())
		}
		if block != nil {
			doc.Blocks = append(doc.Blocks, block)
		}

		consumed := end + len("end")
		line += strings.Count(remaining[:consumed], "\n")
		offset += consumed
		remaining = remaining[consumed:]
	}

	return doc, diags
}

// findBlockStart scans for the next line whose first non-whitespace token
// is one of the block-opening keywords, returning its byte offset and the
//1-indexed line number it starts on, or -1 if none remain.
func findBlockStart(s string, startLine int) (int, int) {
	lines := strings.SplitAfter(s, "\n")
	offset := 0
	line := startLine
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		for _, kw := range sectionStarts {
			if trimmed == kw || strings.HasPrefix(trimmed, kw+" ") || strings.HasPrefix(trimmed, kw+"\t") {
				return offset, line
			}
		}
		offset += len(l)
		line++
	}
	return -1, 0
}

// findBlockEnd finds the offset of the start of the closing `end` keyword
// for the block beginning at start, accounting for nested not(...)/if/else
// forms which do not themselves use the `end` keyword (they use `)`/`then`),
// so a simple "next bare end line" search is sufficient.
func findBlockEnd(s string, start int) int {
	rest := s[start:]
	lines := strings.SplitAfter(rest, "\n")
	offset := 0
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "end" || strings.HasPrefix(trimmed, "end ") || strings.HasPrefix(trimmed, "end\t") {
			return start + offset + strings.Index(l, "end")
		}
		offset += len(l)
	}
	return -1
}

func adjustPosition(pos token.Position, blockStartLine int, blockSrc string) token.Position {
	return token.Position{
		Line:   blockStartLine + pos.Line - 1,
		Column: pos.Column,
		Offset: pos.Offset,
	}
}

func errorsTrailingBlockCode() string { return errors.ErrorUnterminatedBlock }
func errorsExpectedTokenCode() string { return errors.ErrorExpectedToken }
