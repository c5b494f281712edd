package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"bfrs/token"
)

func TestFormatErrorIncludesCodeAndPosition(t *testing.T) {
	r := NewErrorReporter("t.bf", "+[->+<\n-]")
	out := r.FormatError(NewUnbalancedBracketsError(token.Position{Line: 1, Column: 7}, "missing ]"))

	assert.Contains(t, out, CodeUnbalancedBrackets)
	assert.Contains(t, out, "t.bf:1:7")
	assert.Contains(t, out, "missing ]")
}

func TestFormatErrorWithoutPositionSkipsLocationLine(t *testing.T) {
	r := NewErrorReporter("t.bf", "")
	out := r.FormatError(NewInputIOError("missing.bf", assertErr("no such file")))

	assert.Contains(t, out, CodeInputIO)
	assert.False(t, strings.Contains(out, "-->"))
}

func TestInternalInvariantErrorCarriesNotes(t *testing.T) {
	err := NewInternalInvariantError("closed-form", "node#42 (Mul)", "coefficient outside [0,255]")
	assert.Equal(t, CodeInternalInvariant, err.Code)
	assert.Contains(t, err.Notes, "coefficient outside [0,255]")
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

func assertErr(msg string) error { return simpleErr(msg) }
