// Package lsp exposes the compiler's diagnostics over the Language Server
// Protocol: parse/scan errors on open or change, nothing else (no
// completion/semantic-tokens model, since there is no type system to drive
// them).
//
// SPDX-License-Identifier: Apache-2.0
package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"ligature/internal/errors"
)

// ConvertDiagnostics transforms compiler diagnostics into LSP diagnostics.
func ConvertDiagnostics(diags []errors.CompilerError) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, d := range diags {
		length := d.Length
		if length <= 0 {
			length = 1
		}
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(max0(d.Position.Line - 1)),
					Character: uint32(max0(d.Position.Column - 1)),
				},
				End: protocol.Position{
					Line:      uint32(max0(d.Position.Line - 1)),
					Character: uint32(max0(d.Position.Column - 1 + length)),
				},
			},
			Severity: severityFor(d.Level),
			Code:     codeValue(d.Code),
			Source:   ptrString("ligature"),
			Message:  d.Message,
		})
	}
	return out
}

func severityFor(level errors.Level) *protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return ptrSeverity(protocol.DiagnosticSeverityWarning)
	case errors.Note, errors.Help:
		return ptrSeverity(protocol.DiagnosticSeverityInformation)
	default:
		return ptrSeverity(protocol.DiagnosticSeverityError)
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func codeValue(code string) interface{} {
	if code == "" {
		return nil
	}
	return code
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }
func ptrString(s string) *string                                            { return &s }
