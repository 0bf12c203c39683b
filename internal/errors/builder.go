package errors

import "ligature/token"

// Builder provides a fluent interface for constructing a CompilerError,
// used by each compiler stage (scanner, parser, unifier, lowerer, registry,
// stitcher) so every diagnostic carries a consistent shape.
type Builder struct {
	err CompilerError
}

// New starts a Builder for an error at pos with the given stage code.
func New(code, message string, pos token.Position) *Builder {
	return &Builder{err: CompilerError{Level: Error, Code: code, Message: message, Position: pos, Length: 1}}
}

// NewWarning starts a Builder for a warning at pos.
func NewWarning(code, message string, pos token.Position) *Builder {
	return &Builder{err: CompilerError{Level: Warning, Code: code, Message: message, Position: pos, Length: 1}}
}

func (b *Builder) WithLength(length int) *Builder {
	b.err.Length = length
	return b
}

func (b *Builder) WithSuggestion(message string) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

func (b *Builder) WithReplacement(message, replacement string, pos token.Position, length int) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message: message, Replacement: replacement, Position: pos, Length: length,
	})
	return b
}

func (b *Builder) WithNote(note string) *Builder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *Builder) WithHelp(help string) *Builder {
	b.err.HelpText = help
	return b
}

func (b *Builder) Build() CompilerError {
	return b.err
}
