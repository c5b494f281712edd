package ir

// pass_copyprop.go implements Copy Propagation (spec.md §4.7): runs last in
// the fixed pipeline order (spec.md §5), substituting known constants —
// typically the Const(0) a closed-form rewrite left behind — into whatever
// Copy node in a following Block reads that same cell.
//
// "Known constant" here is tracked as a running map, keyed by tape offset
// relative to the current pointer position, threaded through a single Seq's
// children in order: a Block either overwrites an offset with a fresh
// expression (folding it back to a known constant if every input it depends
// on was itself known — substitute already reruns the idealizer, so this
// falls out for free) or leaves it untouched (the prior fact survives,
// re-indexed across the block's own net shift). An If contributes a forced
// fact only in the one shape this compiler's own rewrites produce: Cond is
// IsNonZero(Copy(o, _)) and Then unconditionally sets that same offset o to
// Const(0) — on that shape, o is 0 after the If on every path regardless of
// which branch ran, which is exactly the scenario spec.md §8 names
// (`[->+<]`'s `if p[0] != 0 { ...; p[0] = 0 }`able to feed a later block).
// Any other Cond/Then shape, or an If with an Else, contributes nothing —
// this compiler never produces an Else, so that case is deliberately left
// unhandled rather than guessed at.
//
// Propagation into a Loop's body is restricted to offsets the body never
// writes at all: Copy(o, body) denotes "this iteration's entry value" for
// every iteration uniformly, so a fact true only of the value entering
// iteration 1 may not be substituted for offsets the loop can overwrite —
// only for ones it provably never touches, where the pre-loop fact holds on
// every iteration alike. Facts do not survive past a Loop: this pass makes
// no attempt at reasoning about a loop's exit state.
func CopyPropPass(p *Program) bool {
	_, _, changed := copyPropNode(p.Arena, p.Root, map[int]byte{})
	return changed
}

// copyPropNode rewrites n using facts known to hold at its entry and
// returns (possibly same) n, the facts known to hold at its exit, and
// whether anything changed.
func copyPropNode(a *Arena, n CtrlNode, known map[int]byte) (CtrlNode, map[int]byte, bool) {
	switch v := n.(type) {
	case *Block:
		return copyPropBlock(a, v, known)

	case *Seq:
		changed := false
		cur := known
		for i, c := range v.Children {
			nc, out, ch := copyPropNode(a, c, cur)
			if ch {
				v.Children[i] = nc
				changed = true
			}
			cur = out
		}
		return v, cur, changed

	case *If:
		changed := false
		if nt, _, ch := copyPropNode(a, v.Then, known); ch {
			v.Then = nt
			changed = true
		}
		if v.Else != nil {
			if ne, _, ch := copyPropNode(a, v.Else, known); ch {
				v.Else = ne
				changed = true
			}
		}
		return v, forcedByIf(a, v), changed

	case *Loop:
		inner := loopEntryFacts(v, known)
		nb, _, changed := copyPropNode(a, v.Body, inner)
		if changed {
			v.Body = nb
		}
		return v, map[int]byte{}, changed

	default:
		return n, known, false
	}
}

func copyPropBlock(a *Arena, b *Block, known map[int]byte) (CtrlNode, map[int]byte, bool) {
	changed := false
	remap := func(n Node) (NodeID, bool) {
		if n.Kind == KCopy && n.Block == b.ID {
			if c, ok := known[n.Offset]; ok {
				return a.Const(c), true
			}
		}
		return 0, false
	}
	for offset, val := range b.Delta {
		nv := substitute(a, val, remap)
		if nv != val {
			b.Delta[offset] = nv
			changed = true
		}
	}

	out := make(map[int]byte)
	for offset, c := range known {
		if _, overwritten := b.Delta[offset]; !overwritten {
			out[offset-b.Shift] = c
		}
	}
	for offset, val := range b.Delta {
		if n := a.Get(val); n.Kind == KConst {
			out[offset-b.Shift] = n.Const
		}
	}
	return b, out, changed
}

// forcedByIf returns the facts guaranteed to hold after ifNode regardless
// of which branch executed, per the single shape described above.
func forcedByIf(a *Arena, ifNode *If) map[int]byte {
	out := make(map[int]byte)
	if ifNode.Else != nil {
		return out
	}
	then, ok := ifNode.Then.(*Block)
	if !ok {
		return out
	}
	cond := a.Get(ifNode.Cond)
	if cond.Kind != KIsNonZero {
		return out
	}
	guard := a.Get(cond.Children[0])
	if guard.Kind != KCopy {
		return out
	}
	val, ok := then.Delta[guard.Offset]
	if !ok {
		return out
	}
	if n := a.Get(val); n.Kind == KConst && n.Const == 0 {
		out[guard.Offset] = 0
	}
	return out
}

// loopEntryFacts filters known down to the offsets loop's body never
// writes at all — the only ones a pre-loop fact remains valid for across
// every iteration.
func loopEntryFacts(loop *Loop, known map[int]byte) map[int]byte {
	body, ok := loop.Body.(*Block)
	if !ok {
		return nil
	}
	out := make(map[int]byte)
	for offset, c := range known {
		if _, touched := body.Delta[offset]; !touched {
			out[offset] = c
		}
	}
	return out
}
