package ir

import (
	"fmt"

	bferrors "bfrs/internal/errors"
)

// validate.go implements the InternalInvariant self-check (spec.md §7):
// after every pass runs, the pipeline re-checks the IR it produced against
// spec.md §3's invariants and aborts loudly rather than let a miscompiled
// program reach the printer.
//
// Invariant 1 as literally stated — "Delta[o] only references Copy(_,
// this_block)" — describes what the Builder alone guarantees; the
// closed-form and peeling rewrites deliberately construct a new Block whose
// Delta references an *earlier* Block's entry (spec.md §4.5's own B' reads
// Copy(o, enter) where enter is the original loop body, not B' itself), so
// treating that literally would reject the spec's own worked example. What
// actually must never happen is a Copy referencing a Block that was never
// constructed at all — a dangling reference, which only a pass bug could
// produce. That is what Validate checks, alongside general NodeID/BlockID
// well-formedness and invariant 5's Min<=Max sanity.
//
// Invariant 3 (GuardShift must dominate subsequent same-offset access) is
// not fully checked here: the Builder never emits a GuardShift from raw BF
// tokens at all (spec.md's eight tokens have no guard-producing lexeme), so
// GuardRange stays unset for every Block this compiler actually produces.
// Full dominance checking is left for whatever future pass starts emitting
// guards; Validate only checks the range's own Min<=Max consistency.
func Validate(p *Program) error {
	blocks := collectBlocks(p.Root, make(map[BlockID]*Block))

	var err error
	walkCtrl(p.Root, func(n CtrlNode) {
		if err != nil {
			return
		}
		switch v := n.(type) {
		case *Block:
			if v.Guards.set && v.Guards.Min > v.Guards.Max {
				err = bferrors.NewInternalInvariantError("validate",
					fmt.Sprintf("Block(%d)", v.ID),
					fmt.Sprintf("guard range is inverted: min=%d max=%d", v.Guards.Min, v.Guards.Max))
				return
			}
			for _, val := range v.Delta {
				if e := checkReachableNodes(p.Arena, val, blocks); e != nil {
					err = e
					return
				}
			}
			for _, eff := range v.Effects {
				if out, ok := eff.(*OutputEffect); ok {
					for _, val := range out.Values {
						if e := checkReachableNodes(p.Arena, val, blocks); e != nil {
							err = e
							return
						}
					}
				}
			}
		case *If:
			if e := checkReachableNodes(p.Arena, v.Cond, blocks); e != nil {
				err = e
			}
		case *Loop:
			if e := checkReachableNodes(p.Arena, v.Cond, blocks); e != nil {
				err = e
			}
		}
	})
	return err
}

// collectBlocks gathers every Block appearing anywhere in the tree, keyed
// by id, so checkReachableNodes can tell a legitimate (if earlier) Block
// reference from a dangling one.
func collectBlocks(n CtrlNode, out map[BlockID]*Block) map[BlockID]*Block {
	switch v := n.(type) {
	case *Block:
		out[v.ID] = v
	case *Seq:
		for _, c := range v.Children {
			collectBlocks(c, out)
		}
	case *If:
		collectBlocks(v.Then, out)
		if v.Else != nil {
			collectBlocks(v.Else, out)
		}
	case *Loop:
		collectBlocks(v.Body, out)
	}
	return out
}

// walkCtrl visits every control node in the tree, Block included.
func walkCtrl(n CtrlNode, visit func(CtrlNode)) {
	visit(n)
	switch v := n.(type) {
	case *Seq:
		for _, c := range v.Children {
			walkCtrl(c, visit)
		}
	case *If:
		walkCtrl(v.Then, visit)
		if v.Else != nil {
			walkCtrl(v.Else, visit)
		}
	case *Loop:
		walkCtrl(v.Body, visit)
	}
}

// checkReachableNodes walks every pure node reachable from id and confirms
// every KCopy it finds names a Block that was actually constructed.
func checkReachableNodes(a *Arena, id NodeID, blocks map[BlockID]*Block) error {
	if int(id) < 0 || int(id) >= a.Len() {
		return bferrors.NewInternalInvariantError("validate", fmt.Sprintf("NodeID(%d)", id),
			"node id is out of the arena's bounds")
	}
	n := a.Get(id)
	if n.Kind == KCopy {
		if _, ok := blocks[n.Block]; !ok {
			return bferrors.NewInternalInvariantError("validate", fmt.Sprintf("Copy(%d, block %d)", n.Offset, n.Block),
				"references a Block that does not exist in the compiled program")
		}
	}
	for _, c := range n.Children {
		if err := checkReachableNodes(a, c, blocks); err != nil {
			return err
		}
	}
	return nil
}
