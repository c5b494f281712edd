package ir

// pass_peel.go implements Recursive Quasi-Invariant Loop Peeling (spec.md
// §4.6): runs first in the fixed pipeline order (spec.md §5), hoisting
// statements out of a loop body that become loop-invariant after their
// first iteration, so that a loop which is not affine as written may become
// affine (and so eligible for pass_closedform.go) once the invariant noise
// is peeled away.
//
// A Delta[o] entry is quasi-invariant when it is:
//   - Const(k): the cell is unconditionally reset to a fixed value every
//     iteration, or
//   - Copy(o', B) with o' != o: the cell is unconditionally copied from a
//     different offset, which (spec.md §4.6) itself stops changing after the
//     first iteration copies it forward.
//
// Peeling wraps Loop(B) as If(cond, Seq(B, Loop(cond', B'))), where B is
// reused verbatim as the one-shot peeled prefix (it already computes exactly
// one iteration relative to its own entry) and B' is B with the invariant
// entries dropped and every remaining expression re-pointed from B's id to
// B''s own fresh id via substitute/remapBlock. Dropping an invariant entry
// from B' is sound precisely because any later reference to Copy(o, B') —
// via B''s own Delta or the rewritten loop condition — denotes "the value
// entering this iteration", which by construction already equals what the
// peel wrote, whether or not B' re-derives it.
//
// This repeats against the residual body until no further invariant is
// found, bounded by the original body's Delta size (spec.md §8 property 4:
// peeling either converges within a number of steps bounded by the body's
// Delta size, or halts with the loop unchanged) — so one call to tryPeel
// performs the full recursive peel spec.md §4.6 describes, rather than
// relying on the pipeline's outer fixpoint to re-discover later rounds.
//
// Open Question resolution (spec.md §9, "do not guess"): whether peeling
// may duplicate Output/Input effects into the peeled iteration is left
// unstated by the spec; this pass takes the stated safe default and refuses
// to peel any body with non-guard effects at all, matching the closed-form
// pass's own precondition.
//
// B itself may be resolveBlock's synthetic flattening of a Seq (see
// compose.go) rather than a body the Builder produced directly — this is
// what lets the move-right compound example in spec.md §8 peel away its
// shift-register cells (each becomes Const(0) or Copy(o',B) after its inner
// loops are closed-form-rewritten and the Seq they left behind is composed).
func PeelPass(p *Program) bool {
	return transformProgram(p, func(a *Arena, n CtrlNode) (CtrlNode, bool) {
		loop, ok := n.(*Loop)
		if !ok {
			return nil, false
		}
		return tryPeel(a, loop)
	})
}

func tryPeel(a *Arena, loop *Loop) (CtrlNode, bool) {
	body, ok := resolveBlock(a, loop.Body)
	if !ok {
		return loop, false
	}
	if body.hasNonGuardEffects() {
		return loop, false
	}

	// Recomputed fresh against body.ID rather than trusted from loop.Cond:
	// for a plain *Block body this is the very id loop.Cond already holds
	// (hash-consing guarantees it), but when body came from resolveBlock's
	// Seq-flattening it is a brand-new synthetic Block that loop.Cond never
	// heard of — and the original first piece loop.Cond does reference is
	// discarded, not reused, by this rewrite.
	entryCond := a.IsNonZero(a.Copy(0, body.ID))

	var peeled []CtrlNode
	cur := body
	cond := entryCond
	bound := len(body.Delta) + 1

	for i := 0; i < bound; i++ {
		invariant := quasiInvariantOffsets(a, cur)
		if len(invariant) == 0 {
			break
		}

		next := newBlock(a.NewBlockID())
		remap := remapBlock(a, cur.ID, next.ID)
		for offset, val := range cur.Delta {
			if invariant[offset] {
				continue
			}
			next.Delta[offset] = substitute(a, val, remap)
		}
		next.Shift = cur.Shift
		next.Guards = cur.Guards
		for _, e := range cur.Effects {
			if g, ok := e.(*GuardShiftEffect); ok {
				next.Effects = append(next.Effects, g)
			}
		}
		next.freeze()

		peeled = append(peeled, cur)
		cond = substitute(a, cond, remap)
		cur = next
	}

	if len(peeled) == 0 {
		return loop, false
	}

	residual := &Loop{Cond: cond, Body: cur, EntryBlock: cur.ID}
	children := append(peeled, CtrlNode(residual))
	return &If{Cond: entryCond, Then: &Seq{Children: children}}, true
}

// quasiInvariantOffsets returns the set of Delta offsets in blk matching one
// of the two loop-invariant-after-one-iteration shapes named in spec.md
// §4.6.
func quasiInvariantOffsets(a *Arena, blk *Block) map[int]bool {
	inv := make(map[int]bool)
	for offset, val := range blk.Delta {
		n := a.Get(val)
		switch {
		case n.Kind == KConst:
			inv[offset] = true
		case n.Kind == KCopy && n.Block == blk.ID && n.Offset != offset:
			inv[offset] = true
		}
	}
	return inv
}
