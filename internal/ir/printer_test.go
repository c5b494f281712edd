package ir

import (
	"strings"
	"testing"
)

func TestPrintStraightLineBlock(t *testing.T) {
	a := NewArena()
	b := newBlock(a.NewBlockID())
	b.Delta[0] = a.Add(a.Copy(0, b.ID), a.Const(3))
	b.freeze()
	p := &Program{Arena: a, Root: &Seq{Children: []CtrlNode{b}}}

	out := Print(p)
	if !strings.Contains(out, "p[0] = p[0] + 3;") {
		t.Fatalf("expected a rendered assignment, got:\n%s", out)
	}
}

func TestPrintClosedFormIf(t *testing.T) {
	a := NewArena()
	body := newBlock(a.NewBlockID())
	cond := a.IsNonZero(a.Copy(0, body.ID))
	then := newBlock(a.NewBlockID())
	then.Delta[0] = a.Const(0)
	then.Delta[1] = a.Add(a.Copy(1, body.ID), a.Mul(a.Const(2), a.Copy(0, body.ID)))
	then.freeze()
	ifNode := &If{Cond: cond, Then: then}
	p := &Program{Arena: a, Root: &Seq{Children: []CtrlNode{ifNode}}}

	out := Print(p)
	if !strings.Contains(out, "if (") || !strings.Contains(out, "!= 0") {
		t.Fatalf("expected an if-guard rendering, got:\n%s", out)
	}
	if !strings.Contains(out, "p[0] = 0;") {
		t.Fatalf("expected the counter cleared, got:\n%s", out)
	}
	if !strings.Contains(out, "2 * p[0]") {
		t.Fatalf("expected the multiply-by-counter term, got:\n%s", out)
	}
}

func TestPrintHoistsSelfOverwrittenReadOffset(t *testing.T) {
	a := NewArena()
	b := newBlock(a.NewBlockID())
	// p[1] is overwritten with a value derived from its own pre-block
	// reading, AND that pre-block value is also read by p[2]'s new value:
	// the hoist must capture it before the overwrite.
	b.Delta[1] = a.Add(a.Copy(1, b.ID), a.Const(1))
	b.Delta[2] = a.Copy(1, b.ID)
	b.freeze()
	p := &Program{Arena: a, Root: &Seq{Children: []CtrlNode{b}}}

	out := Print(p)
	if !strings.Contains(out, "let c1 = p[1];") {
		t.Fatalf("expected a hoisted temp for p[1], got:\n%s", out)
	}
	if !strings.Contains(out, "p[2] = c1;") {
		t.Fatalf("expected p[2]'s assignment to use the hoisted temp, got:\n%s", out)
	}
	if !strings.Contains(out, "p[1] = c1 + 1;") {
		t.Fatalf("expected p[1]'s own overwrite to read the hoisted temp too, got:\n%s", out)
	}
}

func TestPrintLoopRendersWhileGuard(t *testing.T) {
	a := NewArena()
	body := newBlock(a.NewBlockID())
	body.Delta[0] = a.Add(a.Copy(0, body.ID), a.Const(255))
	body.freeze()
	loop := &Loop{Cond: a.IsNonZero(a.Copy(0, body.ID)), Body: body, EntryBlock: body.ID}
	p := &Program{Arena: a, Root: &Seq{Children: []CtrlNode{loop}}}

	out := Print(p)
	if !strings.Contains(out, "while (") {
		t.Fatalf("expected a while-guard rendering, got:\n%s", out)
	}
}
