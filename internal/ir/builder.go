package ir

import (
	"bfrs/token"
)

// builder.go implements the Builder component (spec.md §4.4, §4.8):
// stream-directed construction of the CFG from a flat, already
// bracket-balanced token stream. It is a push-down automaton whose states
// are {Block-open, Loop-opening} — If-opening (spec.md §4.8 names it too)
// is never reached from raw tokens: BF has no If-producing lexeme, so that
// state only exists for the rewrite passes that introduce If nodes later.

// frame is one level of the Builder's control stack: the sequence of
// control nodes accumulated so far at this nesting depth, plus the Block
// currently absorbing +-<>.,  tokens.
type frame struct {
	children []CtrlNode
	block    *Block

	isLoop bool
	cond   NodeID // meaningful only when isLoop
}

// Builder is a single-use, single-threaded constructor: one Builder builds
// exactly one Program (spec.md §5: no concurrency, no shared mutable state
// across compilations).
type Builder struct {
	arena        *Arena
	nextInputIdx int
	stack        []*frame
}

// NewBuilder creates a Builder with a fresh Arena and an empty root frame.
func NewBuilder() *Builder {
	b := &Builder{arena: NewArena()}
	b.stack = []*frame{{block: b.newBlock()}}
	return b
}

func (b *Builder) newBlock() *Block {
	return newBlock(b.arena.NewBlockID())
}

func (b *Builder) top() *frame { return b.stack[len(b.stack)-1] }

// closeBlock freezes the current frame's accumulator block and appends it
// to the frame's children, unless it is empty — the Builder never emits two
// adjacent Blocks (spec.md §4.4).
func (b *Builder) closeBlock() {
	f := b.top()
	if !f.block.IsEmpty() {
		f.children = append(f.children, f.block.freeze())
	}
}

// Build consumes the token stream and returns the compiled Program. The
// stream is assumed already bracket-balanced (token.Parse guarantees this);
// Build still defends against a malformed stream with an internal-invariant
// panic rather than silently miscompiling, consistent with spec.md §7's
// "fail loudly" stance — but this is a belt-and-suspenders check, not a
// user-facing error path.
func (b *Builder) Build(stream token.Stream) *Program {
	for _, tok := range stream {
		switch tok.Kind {
		case token.Inc:
			b.top().block.emitAdd(b.arena, 0, 1)
		case token.Dec:
			b.top().block.emitAdd(b.arena, 0, 255)
		case token.Right:
			b.top().block.emitShift(1)
		case token.Left:
			b.top().block.emitShift(-1)
		case token.Output:
			b.top().block.emitOutput(b.arena)
		case token.Input:
			b.top().block.emitInput(b.arena, b.allocInput)
		case token.LoopOpen:
			b.openLoop()
		case token.LoopClose:
			b.closeLoop()
		}
	}
	b.closeBlock()
	if len(b.stack) != 1 {
		panic("ir: builder finished with unbalanced frames despite a balanced token stream")
	}
	return &Program{Arena: b.arena, Root: &Seq{Children: b.top().children}}
}

func (b *Builder) allocInput() int {
	i := b.nextInputIdx
	b.nextInputIdx++
	return i
}

// openLoop freezes the current accumulator, then opens a new frame whose
// Block is the loop body's first child. The Loop's condition is
// IsNonZero(Copy(0, body)) — "while the cell is nonzero" (spec.md §4.4) —
// computed against the body block's own entry, since that is exactly what
// Copy(offset, block) means (spec.md §3).
func (b *Builder) openLoop() {
	b.closeBlock()
	body := b.newBlock()
	cond := b.arena.IsNonZero(b.arena.Copy(0, body.ID))
	b.stack = append(b.stack, &frame{block: body, isLoop: true, cond: cond})
}

// closeLoop freezes the body's trailing accumulator, collapses the body
// frame's children into a single CtrlNode (a bare *Block when the body is
// exactly one Block, matching the §4.5 precondition shape directly; a *Seq
// otherwise), and appends the resulting Loop to the parent frame. A fresh
// Block follows it, resuming Block-open state.
func (b *Builder) closeLoop() {
	b.closeBlock()
	loopFrame := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	body := collapse(loopFrame.children)
	loop := &Loop{Cond: loopFrame.cond, Body: body, EntryBlock: bodyEntryBlock(loopFrame.children)}

	parent := b.top()
	parent.children = append(parent.children, loop)
	parent.block = b.newBlock()
}

// collapse turns a frame's accumulated children into one CtrlNode: the
// bare element when there is exactly one (the common case spec.md's
// rewrite passes are written against), a Seq otherwise, or an empty Seq for
// a loop whose body never executed any token (e.g. "[]" alone, which still
// needs a body node to hang the (infinite, never-taken) loop off of).
func collapse(children []CtrlNode) CtrlNode {
	switch len(children) {
	case 0:
		return &Seq{}
	case 1:
		return children[0]
	default:
		return &Seq{Children: children}
	}
}

// bodyEntryBlock names the first Block among the body's children, or the
// zero BlockID when there is none. There is none whenever the Block
// openLoop seeds is still empty when the first nested loop opens or the
// loop closes (e.g. "+[]"), since closeBlock elides an empty Block.
func bodyEntryBlock(children []CtrlNode) BlockID {
	for _, c := range children {
		if blk, ok := c.(*Block); ok {
			return blk.ID
		}
	}
	return 0
}
