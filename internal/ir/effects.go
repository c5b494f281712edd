package ir

// effects.go implements the effectful-token half of the data model (spec.md
// §3): Output, Input and GuardShift, the three things a Block can do
// besides compute a Delta. Grounded on the teacher's internal/ir/types.go
// pattern of a small tagged Effect interface rather than a type switch on a
// concrete struct.

// Effect is the tag interface every Block side effect implements.
type Effect interface {
	EffectKind() string
}

// OutputEffect prints a run of cell values in order. emit_output merges
// consecutive outputs into one effect (spec.md §4.3) so the printer can
// render a single `print(...)` call instead of a run of one-value ones.
type OutputEffect struct {
	Values []NodeID
}

func (*OutputEffect) EffectKind() string { return "Output" }

// InputEffect reads one byte from standard input into the cell at
// SinkOffset (relative to the block's entry pointer position), invalidating
// whatever Delta entry was previously pending there.
type InputEffect struct {
	SinkOffset int
	Index      int // matches the InputByte(i) node's index
}

func (*InputEffect) EffectKind() string { return "Input" }

// GuardShiftEffect asserts that Offset is within the tape's known-reachable
// region given prior guards in the same basic region (spec.md §3 invariant
// 3). The printer may omit these from the textual dump ("shift guards
// removed") but they remain part of the IR.
type GuardShiftEffect struct {
	Offset int
}

func (*GuardShiftEffect) EffectKind() string { return "GuardShift" }
