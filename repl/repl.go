// Package repl is a line-at-a-time driver over the full compiler pipeline:
// each line is parsed as its own document, compiled, and the resulting
// constraint blocks (or diagnostics) are printed immediately.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"ligature/internal/doc"
	"ligature/internal/errors"
	"ligature/internal/interner"
	"ligature/internal/ir"
	"ligature/internal/registry"
)

const PROMPT = ">> "

func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	reg := registry.New()

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		line := scanner.Text()
		parsed, diags := doc.Read("repl", line)

		it := interner.New()
		builder := ir.NewBuilder(reg, it)
		blocks := builder.BuildDoc(parsed)
		diags = append(diags, builder.Errors()...)

		if len(diags) > 0 {
			reporter := errors.NewReporter("repl", line)
			for _, d := range diags {
				fmt.Fprint(out, reporter.Format(d))
			}
			continue
		}

		fmt.Fprint(out, ir.PrintBlocks(blocks))
	}
}
