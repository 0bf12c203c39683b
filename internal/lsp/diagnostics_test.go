package lsp

import (
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"ligature/internal/errors"
	"ligature/token"
)

func TestConvertDiagnosticsMapsPositionToZeroBasedRange(t *testing.T) {
	diags := []errors.CompilerError{
		{Level: errors.Error, Code: "E0100", Message: "expected ]", Position: token.Position{Line: 3, Column: 5}, Length: 2},
	}

	out := ConvertDiagnostics(diags)
	require.Len(t, out, 1)

	d := out[0]
	require.Equal(t, uint32(2), d.Range.Start.Line)
	require.Equal(t, uint32(4), d.Range.Start.Character)
	require.Equal(t, uint32(6), d.Range.End.Character)
	require.Equal(t, "expected ]", d.Message)
	require.NotNil(t, d.Code)
}

func TestConvertDiagnosticsDefaultsZeroLengthToOne(t *testing.T) {
	diags := []errors.CompilerError{
		{Level: errors.Error, Position: token.Position{Line: 1, Column: 1}, Length: 0},
	}
	out := ConvertDiagnostics(diags)
	require.Equal(t, uint32(1), out[0].Range.End.Character)
}

func TestConvertDiagnosticsSeverityByLevel(t *testing.T) {
	cases := []struct {
		level errors.Level
		want  protocol.DiagnosticSeverity
	}{
		{errors.Error, protocol.DiagnosticSeverityError},
		{errors.Warning, protocol.DiagnosticSeverityWarning},
		{errors.Note, protocol.DiagnosticSeverityInformation},
		{errors.Help, protocol.DiagnosticSeverityInformation},
	}
	for _, c := range cases {
		out := ConvertDiagnostics([]errors.CompilerError{{Level: c.level, Position: token.Position{Line: 1, Column: 1}}})
		require.Equal(t, c.want, *out[0].Severity)
	}
}

func TestConvertDiagnosticsEmptyInputYieldsEmptyOutput(t *testing.T) {
	require.Empty(t, ConvertDiagnostics(nil))
}
