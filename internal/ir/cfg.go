package ir

// cfg.go implements the structured control-flow graph (spec.md §3, §4 row
// "Structured CFG (Seq/If/Loop)"): owned control nodes composed of Blocks.
// Tagged variants over subclassing (spec.md §9): CtrlNode is a narrow
// marker interface: the node itself (*Block, *Seq, *If, *Loop) IS the tag,
// checked with a type switch at each pass rather than through a class
// hierarchy.

// CtrlNode is any node that can appear as a child of Seq, as the branches
// of If, or as the body of Loop.
type CtrlNode interface {
	isCtrlNode()
}

// Seq is an ordered sequence of control nodes (spec.md §3).
type Seq struct {
	Children []CtrlNode
}

func (*Seq) isCtrlNode() {}

// If is a structured conditional. Else may be nil: every If produced by
// this compiler (only the closed-form and peeling passes produce one; the
// Builder never does) has no Else branch — BF's only source of branching is its loop construct,
// which never needs one — but the field exists because spec.md §3 names
// If(cond, then, else) generally.
type If struct {
	Cond NodeID
	Then CtrlNode
	Else CtrlNode
}

func (*If) isCtrlNode() {}

// Loop is a structured while-loop. Cond is evaluated at the entry of Body
// on every iteration; EntryBlock names the Block whose entry state Cond's
// Copy nodes (and, after peeling, the residual body's) are expressed
// relative to — for an unpeeled, freshly-built loop this is Body's own
// first Block (spec.md §4.4: the condition is IsZero(Copy(0,
// entry-block)) negated, where "entry-block" is the body's own block, since
// Copy(offset, block) is defined relative to block's own entry).
type Loop struct {
	Cond       NodeID
	Body       CtrlNode
	EntryBlock BlockID
}

func (*Loop) isCtrlNode() {}

// Program is the top-level compiled artifact: a single top-level Seq
// (spec.md §2 "Data flow") plus the Arena owning every pure node it
// references.
type Program struct {
	Arena *Arena
	Root  *Seq
}
