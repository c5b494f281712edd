package ir

import (
	"testing"

	"bfrs/token"
)

func buildAndClosedForm(t *testing.T, src string) (*Program, bool) {
	t.Helper()
	stream, err := token.Parse("test.bf", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := NewBuilder().Build(stream)
	changed := ClosedFormPass(p)
	return p, changed
}

func TestClosedFormClearLoop(t *testing.T) {
	p, changed := buildAndClosedForm(t, "[-]")
	if !changed {
		t.Fatalf("expected [-] to be rewritten")
	}
	ifNode, ok := p.Root.Children[0].(*If)
	if !ok {
		t.Fatalf("expected *If, got %T", p.Root.Children[0])
	}
	cond := p.Arena.Get(ifNode.Cond)
	if cond.Kind != KIsNonZero {
		t.Fatalf("expected IsNonZero guard, got %s", cond.Kind)
	}
	then, ok := ifNode.Then.(*Block)
	if !ok {
		t.Fatalf("expected *Block then-branch, got %T", ifNode.Then)
	}
	val := p.Arena.Get(then.Delta[0])
	if val.Kind != KConst || val.Const != 0 {
		t.Fatalf("expected p[0] = 0, got %+v", val)
	}
}

func TestClosedFormMoveAndAdd(t *testing.T) {
	p, changed := buildAndClosedForm(t, "[->+<]")
	if !changed {
		t.Fatalf("expected [->+<] to be rewritten")
	}
	ifNode := p.Root.Children[0].(*If)
	then := ifNode.Then.(*Block)

	zero := p.Arena.Get(then.Delta[0])
	if zero.Kind != KConst || zero.Const != 0 {
		t.Fatalf("expected p[0] = 0, got %+v", zero)
	}

	neighbor := p.Arena.Get(then.Delta[1])
	if neighbor.Kind != KAdd || len(neighbor.Children) != 2 {
		t.Fatalf("expected p[1] = p[1] + p[0_entry], got %+v", neighbor)
	}
	var sawOldSelf, sawCounter bool
	for _, c := range neighbor.Children {
		n := p.Arena.Get(c)
		if n.Kind == KCopy && n.Offset == 1 {
			sawOldSelf = true
		}
		if n.Kind == KCopy && n.Offset == 0 {
			sawCounter = true
		}
	}
	if !sawOldSelf || !sawCounter {
		t.Fatalf("expected p[1]'s new value to combine its own old value and the counter's entry value")
	}
}

func TestClosedFormThreeCellMultiplyTemplate(t *testing.T) {
	p, changed := buildAndClosedForm(t, "[>+>+<<-]")
	if !changed {
		t.Fatalf("expected the 3-cell multiply template to be rewritten")
	}
	then := p.Root.Children[0].(*If).Then.(*Block)
	if zero := p.Arena.Get(then.Delta[0]); zero.Kind != KConst || zero.Const != 0 {
		t.Fatalf("expected counter cleared, got %+v", zero)
	}
	for _, offset := range []int{1, 2} {
		val := p.Arena.Get(then.Delta[offset])
		if val.Kind != KAdd {
			t.Fatalf("expected offset %d incremented by the counter's entry value, got %+v", offset, val)
		}
	}
}

func TestClosedFormRefusesLoopWithOutput(t *testing.T) {
	p, changed := buildAndClosedForm(t, "[-.]")
	if changed {
		t.Fatalf("expected a loop with Output to be left unrewritten")
	}
	if _, ok := p.Root.Children[0].(*Loop); !ok {
		t.Fatalf("expected the Loop to survive unchanged, got %T", p.Root.Children[0])
	}
}

func TestClosedFormRefusesNonUnitCounterStep(t *testing.T) {
	// counter decrements by 2 per iteration: not eligible per spec.md §4.5.
	p, changed := buildAndClosedForm(t, "[--]")
	if changed {
		t.Fatalf("expected a non-unit-step counter loop to be left unrewritten")
	}
	if _, ok := p.Root.Children[0].(*Loop); !ok {
		t.Fatalf("expected the Loop to survive unchanged, got %T", p.Root.Children[0])
	}
}

func TestClosedFormPreservesInfiniteLoop(t *testing.T) {
	// "+[]": the loop body never executes a token, so it never collapses to
	// a *Block at all; closed-form must not touch it (spec.md §8).
	p, changed := buildAndClosedForm(t, "+[]")
	if changed {
		t.Fatalf("expected '+[]' to be left entirely unrewritten")
	}
	if _, ok := p.Root.Children[1].(*Loop); !ok {
		t.Fatalf("expected the infinite loop to survive, got %T", p.Root.Children[1])
	}
}
