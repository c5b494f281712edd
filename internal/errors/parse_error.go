package errors

import (
	"github.com/alecthomas/participle/v2"

	"bfrs/token"
)

// FormatParseError renders a participle parse error (always, for this
// grammar, an unbalanced bracket — token.Parse has nothing else to reject)
// the same way cmd/kanso-cli's reportParseError did for the teacher
// language: caret pointing at the exact column, via the shared
// ErrorReporter.
func FormatParseError(filename, source string, err error) string {
	pe, ok := err.(participle.Error)
	if !ok {
		return NewErrorReporter(filename, source).FormatError(CompilerError{
			Level:   Error,
			Code:    CodeUnbalancedBrackets,
			Message: err.Error(),
		})
	}

	pos := pe.Position()
	cerr := NewUnbalancedBracketsError(token.Position{
		Filename: pos.Filename,
		Line:     pos.Line,
		Column:   pos.Column,
		Offset:   pos.Offset,
	}, pe.Message())

	return NewErrorReporter(filename, source).FormatError(cerr)
}
