package document

import (
	"testing"

	"github.com/tair-project/tair/internal/symbols"
)

func TestAddEdgeRecordsPlacementOrder(t *testing.T) {
	tmpl := NewTemplate("P", symbols.NewFrame(nil), sp(), true)

	l0 := tmpl.AddLocation(symbols.NewSymbol("L0", symbols.KindLocation, nil, sp()), nil, nil, sp())
	l1 := tmpl.AddLocation(symbols.NewSymbol("L1", symbols.KindLocation, nil, sp()), nil, nil, sp())

	e0 := tmpl.AddEdge(l0, l1, false, "", sp())
	e1 := tmpl.AddEdge(l1, l0, false, "", sp())

	if e0.Number != 0 || e1.Number != 1 {
		t.Fatalf("edge numbers = %d, %d, want 0, 1", e0.Number, e1.Number)
	}
}

func TestAddInstanceLineTracksIndex(t *testing.T) {
	tmpl := NewTemplate("Scenario", symbols.NewFrame(nil), sp(), false)

	l1 := tmpl.AddInstanceLine(symbols.NewSymbol("A", symbols.KindInstanceLine, nil, sp()), sp())
	l2 := tmpl.AddInstanceLine(symbols.NewSymbol("B", symbols.KindInstanceLine, nil, sp()), sp())

	if l1.Index != 0 || l2.Index != 1 {
		t.Fatalf("instance line indices = %d, %d, want 0, 1", l1.Index, l2.Index)
	}
}

func TestNewTemplateOwnsItsOwnFrame(t *testing.T) {
	params := symbols.NewFrame(nil)
	n := symbols.NewSymbol("N", symbols.KindParameter, nil, sp())
	params.Add(n)

	tmpl := NewTemplate("P", params, sp(), true)

	if tmpl.Parameters != params {
		t.Fatal("Template.Parameters should be the frame passed to NewTemplate")
	}

	if tmpl.Frame.Parent != params {
		t.Fatal("Template's own declaration frame should be a child of its parameter frame")
	}
}
