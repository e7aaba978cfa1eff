package expr

import (
	"testing"

	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/symbols"
)

func sp() position.Span { return position.Span{} }

func TestFoldBinaryArithmetic(t *testing.T) {
	e := NewBinary("+", NewConstInt(2, sp()), NewConstInt(3, sp()), sp())

	folded := Fold(e)

	v, ok := folded.ConstInt()
	if !ok || v != 5 {
		t.Fatalf("Fold(2+3) = %v (ok=%v), want 5", v, ok)
	}
}

func TestFoldPreservesRootPosition(t *testing.T) {
	root := position.Span{Start: position.Position{Filename: "f", Line: 1, Column: 1, Offset: 0}}
	e := NewBinary("*", NewConstInt(2, sp()), NewConstInt(3, sp()), root)

	folded := Fold(e)
	if folded.Span != root {
		t.Fatalf("folded span = %v, want %v", folded.Span, root)
	}
}

func TestFoldDoesNotFoldNonConstantOperands(t *testing.T) {
	id := NewIdentifier("x", sp())
	e := NewBinary("+", id, NewConstInt(1, sp()), sp())

	folded := Fold(e)
	if folded.IsConstant() {
		t.Fatal("expression with a non-constant operand must not fold")
	}
}

func TestFoldDivisionByZeroLeavesNodeUnfolded(t *testing.T) {
	e := NewBinary("/", NewConstInt(1, sp()), NewConstInt(0, sp()), sp())

	folded := Fold(e)
	if folded.IsConstant() {
		t.Fatal("division by zero must not be folded into a constant")
	}
}

func TestFreeSymbolsDeduplicates(t *testing.T) {
	sym := symbols.NewSymbol("x", symbols.KindVariable, nil, sp())
	id1 := &Expression{Kind: KindIdentifier, Operator: "x", Symbol: sym}
	id2 := &Expression{Kind: KindIdentifier, Operator: "x", Symbol: sym}
	e := NewBinary("+", id1, id2, sp())

	free := FreeSymbols(e)
	if len(free) != 1 || free[0] != sym {
		t.Fatalf("FreeSymbols = %v, want single entry %v", free, sym)
	}
}

func TestSubstituteReplacesIdentifierOccurrences(t *testing.T) {
	sym := symbols.NewSymbol("N", symbols.KindParameter, nil, sp())
	body := NewBinary("+", &Expression{Kind: KindIdentifier, Operator: "N", Symbol: sym}, NewConstInt(1, sp()), sp())

	got := Substitute(body, sym, NewConstInt(3, sp()))

	folded := Fold(got)

	v, ok := folded.ConstInt()
	if !ok || v != 4 {
		t.Fatalf("substituted+folded = %v (ok=%v), want 4", v, ok)
	}

	// original tree is untouched
	if body.Sub[0].Kind != KindIdentifier {
		t.Fatal("Substitute must not mutate the original expression")
	}
}
