package ir

// substitute.go provides the one generic pure-node rewrite every pass that
// needs to replace leaves inside an expression tree is built on: rebuild the
// tree through the idealizing factories in node.go so the result stays
// canonical (hash-consed, re-folded) rather than a raw structural copy.
// Used by the peeling pass (§4.6, re-pointing Copy nodes at a new Block
// after a peel) and by copy propagation (§4.7, replacing Copy nodes with
// the constants they now resolve to).

// replacer is offered each node bottom-up; returning ok=true substitutes its
// result for that subtree without recursing further into it.
type replacer func(n Node) (NodeID, bool)

// substitute rewrites id by applying repl to every reachable node. Leaves
// (Const, Copy, Input, True, False) are only ever rewritten by repl itself;
// Add/Mul/IsZero/IsNonZero/IsEven are rebuilt from their (possibly rewritten)
// children through the normal factories, so constant folding and coefficient
// combination re-run on the rewritten operands automatically.
//
// Every id repl actually rewrites is recorded in a.Eclasses: substitute is
// the one chokepoint every rewrite pass (peeling's block-id remap, copy
// propagation's constant folding, compose.go's piece composition for the
// closed-form and peeling passes) runs through, so it is where the arena's equivalence
// history (spec.md §4.1's e-graph-introspection hook) actually gets
// populated.
func substitute(a *Arena, id NodeID, repl replacer) NodeID {
	n := a.Get(id)
	if nn, ok := repl(n); ok {
		if nn != id {
			a.recordEquivalence(id, nn)
		}
		return nn
	}
	switch n.Kind {
	case KAdd:
		args := make([]NodeID, len(n.Children))
		for i, c := range n.Children {
			args[i] = substitute(a, c, repl)
		}
		out := a.Add(args...)
		if out != id {
			a.recordEquivalence(id, out)
		}
		return out
	case KMul:
		args := make([]NodeID, len(n.Children))
		for i, c := range n.Children {
			args[i] = substitute(a, c, repl)
		}
		out := a.Mul(args...)
		if out != id {
			a.recordEquivalence(id, out)
		}
		return out
	case KIsZero:
		out := a.IsZero(substitute(a, n.Children[0], repl))
		if out != id {
			a.recordEquivalence(id, out)
		}
		return out
	case KIsNonZero:
		out := a.IsNonZero(substitute(a, n.Children[0], repl))
		if out != id {
			a.recordEquivalence(id, out)
		}
		return out
	case KIsEven:
		out := a.IsEven(substitute(a, n.Children[0], repl))
		if out != id {
			a.recordEquivalence(id, out)
		}
		return out
	default:
		return id
	}
}

// remapBlock returns a replacer that re-points every Copy reading from
// oldBlock to read the same offset from newBlock instead, leaving every
// other node untouched.
func remapBlock(a *Arena, oldBlock, newBlock BlockID) replacer {
	return func(n Node) (NodeID, bool) {
		if n.Kind == KCopy && n.Block == oldBlock {
			return a.Copy(n.Offset, newBlock), true
		}
		return 0, false
	}
}
