package ir

// pass_closedform.go implements the Add-Loop -> Closed-Form rewrite (spec.md
// §4.5): recognizing an affine, unit-step counted loop and replacing it with
// an unconditional closed-form update guarded by a single If, eliminating
// the loop entirely. Runs second in the fixed pipeline order (spec.md §5),
// after peeling has had a chance to split off any non-affine prefix/suffix
// iterations.
//
// Eligibility (spec.md §4.5 preconditions), checked directly against the
// shapes the Add/Mul idealization in node.go actually produces rather than
// against an independent symbolic evaluator:
//  1. The loop body is a single Block (no nested control flow) — or a Seq of
//     pieces compose.go can flatten into one (this is how the 4-cell
//     multiply and move-right compound examples in spec.md §8 get their
//     outer loop's inner loops folded away first, leaving a Seq of Blocks
//     and already-rewritten Ifs for resolveBlock to compose before these
//     preconditions are even checked).
//  2. The body's net pointer shift is zero (it returns to where it started).
//  3. Delta[0] is exactly Add(Copy(0,B), Const(255)) — the counter decrements
//     by exactly one every iteration, unconditionally.
//  4. Every other touched offset o has Delta[o] of the shape Const(0) (the
//     cell is unconditionally cleared every iteration) or Add(Copy(o,B),
//     Const(step)) — a fixed per-iteration increment, independent of the
//     counter's value. Over the k iterations the counter survives, that
//     accumulates to step*k, which is exactly the Mul(Const(step),
//     Copy(0,enter)) the rewrite below introduces — the multiplication by
//     the counter is a property of the closed form, not of any single
//     iteration's raw Delta entry.
//  5. The body performs no Output or Input (guards are permitted and carried
//     forward unchanged) — enforced via Block.hasNonGuardEffects.
//
// A loop failing any check is left exactly as-is; this pass makes no
// attempt at partial rewriting.
func ClosedFormPass(p *Program) bool {
	return transformProgram(p, func(a *Arena, n CtrlNode) (CtrlNode, bool) {
		loop, ok := n.(*Loop)
		if !ok {
			return nil, false
		}
		return tryClosedForm(a, loop)
	})
}

// affineTerm describes one non-counter Delta entry that matched the
// eligible shape.
type affineTerm struct {
	offset int
	coeff  byte // meaningful only when !clear
	clear  bool
}

func tryClosedForm(a *Arena, loop *Loop) (CtrlNode, bool) {
	body, ok := resolveBlock(a, loop.Body)
	if !ok {
		return loop, false
	}
	if body.Shift != 0 {
		return loop, false
	}
	if body.hasNonGuardEffects() {
		return loop, false
	}

	counter, ok := body.Delta[0]
	if !ok || !isUnitDecrement(a, counter, body.ID) {
		return loop, false
	}

	var terms []affineTerm
	for offset, val := range body.Delta {
		if offset == 0 {
			continue
		}
		coeff, clear, ok := matchAffineTerm(a, val, offset, body.ID)
		if !ok {
			return loop, false
		}
		terms = append(terms, affineTerm{offset: offset, coeff: coeff, clear: clear})
	}
	sortTerms(terms)

	// then replaces loop in the tree, so then's entry is the same program
	// point as the loop's entry; every Copy below is built against then.ID
	// rather than body.ID so the reference survives once body is discarded
	// (body never appears in the rewritten tree at all).
	then := newBlock(a.NewBlockID())
	then.Delta[0] = a.Const(0)
	for _, t := range terms {
		if t.clear {
			then.Delta[t.offset] = a.Const(0)
			continue
		}
		then.Delta[t.offset] = a.Add(a.Copy(t.offset, then.ID), a.Mul(a.Const(t.coeff), a.Copy(0, then.ID)))
	}
	then.Guards = body.Guards
	for _, e := range body.Effects {
		if g, ok := e.(*GuardShiftEffect); ok {
			then.Effects = append(then.Effects, g)
		}
	}
	then.freeze()

	cond := a.IsNonZero(a.Copy(0, then.ID))
	return &If{Cond: cond, Then: then}, true
}

// isUnitDecrement reports whether val is exactly Add(Copy(0,body), Const(255)),
// i.e. the counter cell decrements by one, unconditionally, every iteration.
func isUnitDecrement(a *Arena, val NodeID, body BlockID) bool {
	n := a.Get(val)
	if n.Kind != KAdd || len(n.Children) != 2 {
		return false
	}
	var sawCopy0, saw255 bool
	for _, ch := range n.Children {
		cn := a.Get(ch)
		switch {
		case cn.Kind == KCopy && cn.Offset == 0 && cn.Block == body:
			sawCopy0 = true
		case cn.Kind == KConst && cn.Const == 255:
			saw255 = true
		}
	}
	return sawCopy0 && saw255
}

// matchAffineTerm reports whether val has the shape required of a non-counter
// Delta entry under an eligible loop: Const(0) (clear), the bare Copy(o,B)
// (zero net step), or Add(Copy(o,B), Const(step)) — a fixed per-iteration
// increment that does not reference the counter at all.
func matchAffineTerm(a *Arena, val NodeID, offset int, body BlockID) (coeff byte, clear bool, ok bool) {
	n := a.Get(val)

	if n.Kind == KConst && n.Const == 0 {
		return 0, true, true
	}
	// A net-zero per-iteration effect (e.g. "+-" at the same offset) idealizes
	// away to the bare Copy, which is a valid zero-step affine term.
	if n.Kind == KCopy && n.Offset == offset && n.Block == body {
		return 0, false, true
	}

	if n.Kind != KAdd || len(n.Children) != 2 {
		return 0, false, false
	}
	var sawCell, sawStep bool
	var step byte
	for _, ch := range n.Children {
		cn := a.Get(ch)
		switch {
		case cn.Kind == KCopy && cn.Offset == offset && cn.Block == body:
			sawCell = true
		case cn.Kind == KConst:
			step = cn.Const
			sawStep = true
		default:
			return 0, false, false
		}
	}
	if sawCell && sawStep {
		return step, false, true
	}
	return 0, false, false
}

func sortTerms(ts []affineTerm) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j-1].offset > ts[j].offset; j-- {
			ts[j-1], ts[j] = ts[j], ts[j-1]
		}
	}
}
