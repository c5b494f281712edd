package lsp

import (
	"github.com/alecthomas/participle/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// diagnostics.go converts a BF parse failure into an LSP diagnostic.
// Grounded on the teacher's internal/lsp/diagnostics.go ConvertParseErrors:
// the same Position -> protocol.Diagnostic shape, narrowed to bfrs's single
// error kind a live editing session can actually hit — unbalanced brackets
// (spec.md §7's UnbalancedBrackets). InternalInvariant never reaches this
// path: it is a compiler bug, not something typing in an editor produces,
// and InputIO cannot happen once the file is already open in the editor.
func convertParseError(err error) []protocol.Diagnostic {
	pe, ok := err.(participle.Error)
	if !ok {
		return []protocol.Diagnostic{{
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("bfrs"),
			Message:  err.Error(),
		}}
	}

	pos := pe.Position()
	line := uint32(0)
	if pos.Line > 0 {
		line = uint32(pos.Line - 1)
	}
	col := uint32(0)
	if pos.Column > 0 {
		col = uint32(pos.Column - 1)
	}

	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("bfrs"),
		Message:  pe.Message(),
	}}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }
func ptrString(s string) *string                                            { return &s }
