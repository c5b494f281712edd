package ir

// offset.go implements the Tape-Offset Arithmetic component (spec.md §2):
// signed tape offsets, shift composition, and guard-range tracking. Kept
// separate from Block/CFG so the arithmetic itself — which every other
// component in this package depends on — stays easy to audit in isolation.

// wrap reduces an integer cell value into the unsigned 8-bit range with
// defined wrap-around (spec.md §3: "cells are unsigned 8-bit with defined
// wrap-around on overflow").
func wrap(x int) byte {
	m := x % 256
	if m < 0 {
		m += 256
	}
	return byte(m)
}

// composeShift combines two signed pointer shifts. Shifts form a group
// under addition; this helper exists mainly so call sites read as "compose"
// rather than a bare "+", matching how the spec talks about shift
// composition as its own operation.
func composeShift(a, b int) int {
	return a + b
}

// GuardRange tracks the minimum and maximum tape offsets, relative to a
// region's entry pointer position, known to be reachable because a
// GuardShift effect vouched for them (spec.md §3 invariant 5: "guards
// accumulate the minimum and maximum offsets ever touched").
type GuardRange struct {
	set      bool
	Min, Max int
}

// Extend folds offset into the range, returning true if the range grew
// (the range was unset or offset lay outside it). An offset already inside
// the range returns false even if it was never passed to Extend itself.
// Block.emitGuard keeps GuardShift idempotent within a block with its own
// per-offset set and calls Extend only to widen the range.
func (g *GuardRange) Extend(offset int) bool {
	if !g.set {
		g.set = true
		g.Min, g.Max = offset, offset
		return true
	}
	changed := false
	if offset < g.Min {
		g.Min = offset
		changed = true
	}
	if offset > g.Max {
		g.Max = offset
		changed = true
	}
	return changed
}

// Covers reports whether offset already lies within a previously-extended
// range, i.e. a GuardShift(offset) here would be redundant.
func (g *GuardRange) Covers(offset int) bool {
	return g.set && offset >= g.Min && offset <= g.Max
}
