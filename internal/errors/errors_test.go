package errors_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ligature/internal/errors"
	"ligature/token"
)

func TestBuilderBuildsError(t *testing.T) {
	pos := token.Position{Line: 2, Column: 5}
	err := errors.New(errors.ErrorUndefinedFunction, "unknown function foo", pos).
		WithLength(3).
		WithSuggestion("did you mean bar?").
		WithNote("foo is not registered").
		WithHelp("add a [registry.functions.foo] entry").
		Build()

	require.Equal(t, errors.Error, err.Level)
	require.Equal(t, errors.ErrorUndefinedFunction, err.Code)
	require.Equal(t, 3, err.Length)
	require.Len(t, err.Suggestions, 1)
	require.Equal(t, "did you mean bar?", err.Suggestions[0].Message)
	require.Contains(t, err.Notes, "foo is not registered")
	require.Equal(t, "add a [registry.functions.foo] entry", err.HelpText)
}

func TestBuilderBuildsWarning(t *testing.T) {
	warn := errors.NewWarning(errors.WarningUnusedVariable, "n is never read", token.Position{Line: 1, Column: 1}).Build()
	require.Equal(t, errors.Warning, warn.Level)
	require.True(t, errors.IsWarning(warn.Code))
}

func TestCompilerErrorStringFormat(t *testing.T) {
	err := errors.New(errors.ErrorExpectedToken, "expected ]", token.Position{Line: 3, Column: 7}).Build()
	require.Equal(t, "E0100:3:7: error: expected ]", err.Error())
}

func TestGetErrorCategory(t *testing.T) {
	require.Equal(t, "Scanner", errors.GetErrorCategory(errors.ErrorUnterminatedString))
	require.Equal(t, "Parser", errors.GetErrorCategory(errors.ErrorExpectedToken))
	require.Equal(t, "Unification", errors.GetErrorCategory(errors.ErrorConflictingValues))
	require.Equal(t, "Lowering", errors.GetErrorCategory(errors.ErrorUnresolvedVariable))
	require.Equal(t, "Registry", errors.GetErrorCategory(errors.ErrorUndefinedFunction))
	require.Equal(t, "Stitcher", errors.GetErrorCategory(errors.ErrorMissingSubBlock))
	require.Equal(t, "Warning", errors.GetErrorCategory(errors.WarningUnusedVariable))
	require.Equal(t, "Unknown", errors.GetErrorCategory("bogus"))
}

func TestReporterFormatIncludesCaretAndMessage(t *testing.T) {
	source := "search\n[#person name\nbind\nend\n"
	reporter := errors.NewReporter("doc.md", source)
	err := errors.New(errors.ErrorExpectedToken, "expected ]", token.Position{Line: 2, Column: 13}).
		WithLength(1).Build()

	out := reporter.Format(err)
	require.Contains(t, out, "E0100")
	require.Contains(t, out, "expected ]")
	require.Contains(t, out, "doc.md:2:13")
	require.True(t, strings.Contains(out, "^"))
}
