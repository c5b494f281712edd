package errors

import (
	"fmt"

	"bfrs/token"
)

// Level is the severity of a CompilerError.
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
	Help    Level = "help"
)

// CompilerError is a structured, positioned diagnostic. It implements the
// error interface so it can be returned and wrapped like any other Go
// error, while still carrying enough structure for ErrorReporter to render
// it Rust-style and for tests to assert on Code rather than on rendered
// text.
type CompilerError struct {
	Level    Level
	Code     string
	Message  string
	Position token.Position
	Length   int
	Notes    []string
	HelpText string
}

func (e CompilerError) Error() string {
	if e.Position.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Position)
}

// NewInputIOError reports a file that could not be read. It carries no
// source position: the failure happened before any source existed to point
// into.
func NewInputIOError(path string, cause error) CompilerError {
	return CompilerError{
		Level:   Error,
		Code:    CodeInputIO,
		Message: fmt.Sprintf("cannot read %q: %s", path, cause),
	}
}

// NewUnbalancedBracketsError reports a "[" or "]" with no match, at the
// position the parser detected the imbalance.
func NewUnbalancedBracketsError(pos token.Position, detail string) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     CodeUnbalancedBrackets,
		Message:  "unbalanced brackets",
		Position: pos,
		Length:   1,
		HelpText: detail,
	}
}

// NewInternalInvariantError reports a pass producing IR that violates one of
// the §3 invariants. pass names the offending pass; nodeDesc names the node
// (its id and kind) so the diagnostic is actionable without a debugger.
func NewInternalInvariantError(pass, nodeDesc, detail string) CompilerError {
	return CompilerError{
		Level:   Error,
		Code:    CodeInternalInvariant,
		Message: fmt.Sprintf("pass %q produced an invariant violation at %s", pass, nodeDesc),
		Notes:   []string{detail},
		HelpText: "this is a compiler bug, not a problem with the input program; " +
			"please file an issue with the source that triggered it",
	}
}
