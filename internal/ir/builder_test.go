package ir

import (
	"testing"

	"bfrs/token"
)

func mustParse(t *testing.T, src string) token.Stream {
	t.Helper()
	stream, err := token.Parse("test.bf", src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return stream
}

func TestBuildSingleIncrement(t *testing.T) {
	p := NewBuilder().Build(mustParse(t, "+"))
	if len(p.Root.Children) != 1 {
		t.Fatalf("expected 1 top-level child, got %d", len(p.Root.Children))
	}
	blk, ok := p.Root.Children[0].(*Block)
	if !ok {
		t.Fatalf("expected *Block, got %T", p.Root.Children[0])
	}
	if len(blk.Delta) != 1 {
		t.Fatalf("expected 1 delta entry, got %d", len(blk.Delta))
	}
	n := p.Arena.Get(blk.Delta[0])
	if n.Kind != KAdd {
		t.Fatalf("expected an Add node, got %s", n.Kind)
	}
}

func TestBuildEmptyProgramHasNoChildren(t *testing.T) {
	p := NewBuilder().Build(mustParse(t, "this is just a comment"))
	if len(p.Root.Children) != 0 {
		t.Fatalf("expected no children for an all-comment program, got %d", len(p.Root.Children))
	}
}

func TestBuildSimpleLoopIsSingleBlockBody(t *testing.T) {
	p := NewBuilder().Build(mustParse(t, "[-]"))
	if len(p.Root.Children) != 1 {
		t.Fatalf("expected 1 top-level child, got %d", len(p.Root.Children))
	}
	loop, ok := p.Root.Children[0].(*Loop)
	if !ok {
		t.Fatalf("expected *Loop, got %T", p.Root.Children[0])
	}
	body, ok := loop.Body.(*Block)
	if !ok {
		t.Fatalf("expected loop body to collapse to a single *Block, got %T", loop.Body)
	}
	if body.Shift != 0 {
		t.Fatalf("expected zero net shift, got %d", body.Shift)
	}
	cond := p.Arena.Get(loop.Cond)
	if cond.Kind != KIsNonZero {
		t.Fatalf("expected loop condition to be IsNonZero, got %s", cond.Kind)
	}
}

func TestBuildEmptyLoopBodyIsNotABlock(t *testing.T) {
	// "[]" never executes a token in its body; collapse() must produce an
	// empty Seq rather than try to elide the Loop itself — an empty-bodied
	// Loop must still survive unrewritten (spec.md §8's "+[]" scenario).
	p := NewBuilder().Build(mustParse(t, "+[]"))
	if len(p.Root.Children) != 2 {
		t.Fatalf("expected 2 top-level children (the '+' block and the loop), got %d", len(p.Root.Children))
	}
	loop, ok := p.Root.Children[1].(*Loop)
	if !ok {
		t.Fatalf("expected second child to be *Loop, got %T", p.Root.Children[1])
	}
	if _, ok := loop.Body.(*Block); ok {
		t.Fatalf("expected an empty loop body to collapse to *Seq, not *Block")
	}
}

func TestBuildNeverEmitsTwoAdjacentEmptyBlocks(t *testing.T) {
	// Between the two loops there are no +-<>., tokens, so the Builder must
	// not insert an empty Block between them (spec.md §4.4).
	p := NewBuilder().Build(mustParse(t, "[-][-]"))
	if len(p.Root.Children) != 2 {
		t.Fatalf("expected exactly 2 children (no elided empty block between the loops), got %d", len(p.Root.Children))
	}
	for i, c := range p.Root.Children {
		if _, ok := c.(*Loop); !ok {
			t.Fatalf("child %d: expected *Loop, got %T", i, c)
		}
	}
}

func TestBuildNestedLoops(t *testing.T) {
	p := NewBuilder().Build(mustParse(t, "[>[-]<-]"))
	outer, ok := p.Root.Children[0].(*Loop)
	if !ok {
		t.Fatalf("expected outer *Loop, got %T", p.Root.Children[0])
	}
	seq, ok := outer.Body.(*Seq)
	if !ok {
		t.Fatalf("expected outer body to be *Seq (shift + inner loop + shift/dec), got %T", outer.Body)
	}
	var sawInner bool
	for _, c := range seq.Children {
		if _, ok := c.(*Loop); ok {
			sawInner = true
		}
	}
	if !sawInner {
		t.Fatalf("expected a nested *Loop among the outer body's children")
	}
}

func TestBuildMoveRightUsesSymbolicCopyForCounter(t *testing.T) {
	p := NewBuilder().Build(mustParse(t, "[->+<]"))
	loop := p.Root.Children[0].(*Loop)
	body := loop.Body.(*Block)

	counter := p.Arena.Get(body.Delta[0])
	if counter.Kind != KAdd {
		t.Fatalf("expected Delta[0] to be an Add, got %s", counter.Kind)
	}
	var sawConst255, sawCopy0 bool
	for _, c := range counter.Children {
		n := p.Arena.Get(c)
		if n.Kind == KConst && n.Const == 255 {
			sawConst255 = true
		}
		if n.Kind == KCopy && n.Offset == 0 && n.Block == body.ID {
			sawCopy0 = true
		}
	}
	if !sawConst255 || !sawCopy0 {
		t.Fatalf("expected Delta[0] == Add(Copy(0,B), Const(255)), got children %v", counter.Children)
	}

	neighbor := p.Arena.Get(body.Delta[1])
	if neighbor.Kind != KAdd {
		t.Fatalf("expected Delta[1] to be an Add, got %s", neighbor.Kind)
	}
}
