package ir

// transform.go provides the one structural recursion every rewrite pass in
// this package is built on: a post-order walk over Seq/If/Loop/Block that
// lets a pass replace any node it recognizes, bottom-up, without each pass
// re-implementing CFG traversal. Passes differ only in which node kinds
// their callback acts on.

// Rewriter is called once per control node, after its children (if any)
// have already been rewritten. Returning ok=false leaves n in place.
type Rewriter func(a *Arena, n CtrlNode) (replacement CtrlNode, ok bool)

// transform walks n bottom-up, applying f at every node, and reports
// whether any replacement happened anywhere in the subtree.
func transform(a *Arena, n CtrlNode, f Rewriter) (CtrlNode, bool) {
	changed := false
	switch v := n.(type) {
	case *Block:
		// leaf: nothing to recurse into.
	case *Seq:
		for i, c := range v.Children {
			nc, ch := transform(a, c, f)
			if ch {
				v.Children[i] = nc
				changed = true
			}
		}
	case *If:
		if nc, ch := transform(a, v.Then, f); ch {
			v.Then = nc
			changed = true
		}
		if v.Else != nil {
			if nc, ch := transform(a, v.Else, f); ch {
				v.Else = nc
				changed = true
			}
		}
	case *Loop:
		if nc, ch := transform(a, v.Body, f); ch {
			v.Body = nc
			changed = true
		}
	}

	if nn, ok := f(a, n); ok {
		return nn, true
	}
	return n, changed
}

// transformProgram runs f over p's whole tree and reports whether anything
// changed. It is the entry point pipeline.go's passes call.
func transformProgram(p *Program, f Rewriter) bool {
	root, changed := transform(p.Arena, p.Root, f)
	p.Root = root.(*Seq)
	return changed
}
