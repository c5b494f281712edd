package ir

// block.go implements the Block component (spec.md §4.3): an effectful
// region, owning an ordered effect list and a sparse Delta map from tape
// offset (relative to the block's entry pointer position) to the pure node
// describing that cell's value at block exit.

// BlockID identifies a Block for the lifetime of the Arena it was built in
// (Copy nodes reference it; it is never reused, mirroring NodeID).
type BlockID int

// Block is owned and mutable while the Builder is constructing it (tree
// variant, spec.md §3 Lifecycle); once frozen it is treated as an immutable
// operand of its enclosing control node.
type Block struct {
	ID      BlockID
	Effects []Effect
	Delta   map[int]NodeID // offset -> pure node id, sparse
	Shift   int            // net pointer shift accumulated so far
	Guards  GuardRange

	frozen         bool
	guardedOffsets map[int]bool
}

func newBlock(id BlockID) *Block {
	return &Block{
		ID:             id,
		Delta:          make(map[int]NodeID),
		guardedOffsets: make(map[int]bool),
	}
}

func (*Block) isCtrlNode() {}

// IsEmpty reports whether the block has accumulated no effects and no
// deltas and has not shifted — i.e. it would be elided rather than emitted
// (spec.md §4.4: "The Builder never emits two adjacent Blocks").
func (b *Block) IsEmpty() bool {
	return len(b.Effects) == 0 && len(b.Delta) == 0 && b.Shift == 0
}

// currentValue resolves the value of the cell at logicalOffset (relative to
// the pointer's current position, i.e. after b.Shift) as of right now in
// the stream: the pending Delta entry if one exists, otherwise a fresh
// Copy of this block's own entry state at that absolute offset.
func (b *Block) currentValue(a *Arena, logicalOffset int) NodeID {
	abs := composeShift(b.Shift, logicalOffset)
	if v, ok := b.Delta[abs]; ok {
		return v
	}
	return a.Copy(abs, b.ID)
}

// emitAdd composes a constant-k addition into the cell at logicalOffset
// (spec.md §4.3: emit_add).
func (b *Block) emitAdd(a *Arena, logicalOffset int, k byte) {
	abs := composeShift(b.Shift, logicalOffset)
	cur := b.currentValue(a, logicalOffset)
	b.Delta[abs] = a.Add(cur, a.Const(k))
}

// emitShift folds k into the block's running shift; all subsequent
// logical offsets are interpreted relative to the new shift (spec.md §4.3:
// emit_shift).
func (b *Block) emitShift(k int) {
	b.Shift = composeShift(b.Shift, k)
}

// emitOutput reads the current cell value and appends it to the block's
// trailing Output effect, merging with one already in progress (spec.md
// §4.3: emit_output).
func (b *Block) emitOutput(a *Arena) {
	v := b.currentValue(a, 0)
	if n := len(b.Effects); n > 0 {
		if out, ok := b.Effects[n-1].(*OutputEffect); ok {
			out.Values = append(out.Values, v)
			return
		}
	}
	b.Effects = append(b.Effects, &OutputEffect{Values: []NodeID{v}})
}

// emitInput reads a fresh input byte into the current cell, invalidating
// any pending Delta entry there, and appends an Input effect (spec.md §4.3:
// emit_input). nextIndex assigns the monotonic input index.
func (b *Block) emitInput(a *Arena, nextIndex func() int) {
	abs := composeShift(b.Shift, 0)
	idx := nextIndex()
	b.Delta[abs] = a.InputByte(idx)
	b.Effects = append(b.Effects, &InputEffect{SinkOffset: abs, Index: idx})
}

// emitGuard asserts logicalOffset (relative to the current pointer
// position) is reachable, recording it relative to the block's entry,
// idempotently within the block (spec.md §4.3: emit_guard).
func (b *Block) emitGuard(logicalOffset int) {
	abs := composeShift(b.Shift, logicalOffset)
	if b.guardedOffsets[abs] {
		return
	}
	b.guardedOffsets[abs] = true
	b.Guards.Extend(abs)
	b.Effects = append(b.Effects, &GuardShiftEffect{Offset: abs})
}

// freeze marks the block immutable. The tree variant does not enforce this
// at the type level (no CtrlNode is ever literally read-only in Go), and
// nothing reads the flag: copy propagation (pass_copyprop.go) rewrites a
// frozen block's Delta entries in place, while the other passes build new
// blocks instead.
func (b *Block) freeze() *Block {
	b.frozen = true
	return b
}

// hasNonGuardEffects reports whether the block performs any Output or
// Input; GuardShift effects are not counted. Used by the closed-form pass (spec.md §4.5 precondition 4,
// which permits guards) and the peeling pass (which refuses to peel a body
// containing non-guard effects — see DESIGN.md Open Question resolution).
func (b *Block) hasNonGuardEffects() bool {
	for _, e := range b.Effects {
		switch e.(type) {
		case *OutputEffect, *InputEffect:
			return true
		}
	}
	return false
}
