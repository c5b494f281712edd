package ir

// compose.go lets pass_closedform.go and pass_peel.go see past a loop body
// that collapsed to a *Seq (spec.md §8's 4-cell-multiply and move-right
// compound examples both do this: an inner loop gets rewritten to an *If
// before the outer Loop is ever visited, leaving the outer body as
// Block/If/Block/If/Block rather than the single *Block both passes are
// literally specified against).
//
// resolveBlock folds such a Seq into one synthetic Block expressing the
// sequence's whole net per-iteration effect, so the existing, unmodified
// precondition checks in both passes get a real shot at the compound
// examples instead of being skipped outright. Composition is conservative:
// any child that is not a plain Block or a self-zeroing closed-form If, or
// that carries guard state, makes the whole Seq unflattenable, and the
// caller falls back to leaving the Loop untouched — exactly the previous
// behavior. A Seq a pass genuinely cannot express as one affine step (the
// 4-cell multiply's outer body is a case where the per-iteration effect on
// one offset depends on another offset's value rather than on the counter
// alone) is still correctly left as a residual Loop: composing it produces
// a Delta shape matchAffineTerm does not recognize, so tryClosedForm simply
// declines, which is the only sound outcome without a full symbolic
// loop-of-a-loop solver.
func resolveBlock(a *Arena, body CtrlNode) (*Block, bool) {
	switch v := body.(type) {
	case *Block:
		return v, true
	case *Seq:
		return flattenSeq(a, v)
	default:
		return nil, false
	}
}

// asComposableBlock recognizes the two shapes a loop body Seq built by this
// package ever contains: a plain Block, or an If with no Else whose Then is
// a closed-form rewrite's synthesized block (Delta[0] == Const(0), and no
// other entry a constant). That shape is safe to run unconditionally: when
// the guard's counter is already
// zero, Then's own arithmetic degenerates to the identity (every other
// entry adds coeff*0, and Delta[0] merely reaffirms the zero it already
// is), so dropping the guard does not change the result for any counter
// value, guarded or not.
func asComposableBlock(a *Arena, n CtrlNode) (*Block, bool) {
	switch v := n.(type) {
	case *Block:
		return v, true
	case *If:
		if v.Else != nil {
			return nil, false
		}
		then, ok := v.Then.(*Block)
		if !ok {
			return nil, false
		}
		zero, ok := then.Delta[0]
		if !ok {
			return nil, false
		}
		if n := a.Get(zero); n.Kind != KConst || n.Const != 0 {
			return nil, false
		}
		// A constant at any other offset (e.g. a cleared cell) would be
		// written even when the counter is zero, so it is not the identity.
		for offset, val := range then.Delta {
			if offset != 0 && a.Get(val).Kind == KConst {
				return nil, false
			}
		}
		return then, true
	default:
		return nil, false
	}
}

// flattenSeq composes seq's children, in order, into one synthetic Block.
func flattenSeq(a *Arena, seq *Seq) (*Block, bool) {
	if len(seq.Children) == 0 {
		return nil, false
	}
	pieces := make([]*Block, 0, len(seq.Children))
	for _, c := range seq.Children {
		blk, ok := asComposableBlock(a, c)
		if !ok {
			return nil, false
		}
		if blk.Guards.set || blk.hasNonGuardEffects() {
			return nil, false
		}
		pieces = append(pieces, blk)
	}
	return composeBlocks(a, pieces), true
}

// composeBlocks builds one Block expressing the net effect of running every
// piece in order, each piece's own Delta re-based by the running shift
// accumulated from the pieces before it. A piece's Delta entries are all
// relative to that piece's own entry — i.e. simultaneous, not sequential —
// so every entry is computed from a snapshot of the composite's state taken
// before any of this piece's own writes land, then merged in together.
func composeBlocks(a *Arena, pieces []*Block) *Block {
	composite := newBlock(a.NewBlockID())
	state := map[int]NodeID{}
	shift := 0

	for _, p := range pieces {
		pre := make(map[int]NodeID, len(state))
		for k, v := range state {
			pre[k] = v
		}
		pieceShift := shift
		remap := func(n Node) (NodeID, bool) {
			if n.Kind == KCopy && n.Block == p.ID {
				abs := n.Offset + pieceShift
				if v, ok := pre[abs]; ok {
					return v, true
				}
				return a.Copy(abs, composite.ID), true
			}
			return 0, false
		}

		updates := make(map[int]NodeID, len(p.Delta))
		for offset, val := range p.Delta {
			updates[offset+pieceShift] = substitute(a, val, remap)
		}
		for abs, val := range updates {
			state[abs] = val
		}
		for _, e := range p.Effects {
			if g, ok := e.(*GuardShiftEffect); ok {
				composite.Effects = append(composite.Effects, &GuardShiftEffect{Offset: g.Offset + pieceShift})
			}
		}
		shift += p.Shift
	}

	composite.Shift = shift
	for offset, val := range state {
		composite.Delta[offset] = val
	}
	composite.freeze()
	return composite
}
