package errors

// Error codes for the bfrs compiler driver (spec.md §7).
//
// Error code ranges:
// E1001-E1099: input/IO errors
// E1100-E1199: tokenization and bracket-matching errors
// E1200-E1299: internal invariant violations (always fatal, never user error)

const (
	// CodeInputIO: the source file could not be read.
	CodeInputIO = "E1001"

	// CodeUnbalancedBrackets: a "[" without a matching "]" or vice versa.
	CodeUnbalancedBrackets = "E1100"

	// CodeInternalInvariant: a pass produced IR violating a §3 invariant.
	// This must abort compilation — silent miscompilation of BF is worse
	// than failing loudly (spec.md §7).
	CodeInternalInvariant = "E1200"
)
