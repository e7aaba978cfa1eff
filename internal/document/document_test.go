package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tair-project/tair/internal/diagnostic"
	"github.com/tair-project/tair/internal/expr"
	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/symbols"
	"github.com/tair-project/tair/internal/types"
)

func sp() position.Span { return position.Span{} }

func TestNewDocumentHasDefaultSupportedMethods(t *testing.T) {
	d := New()

	m := d.GetSupportedMethods()
	if !m.Symbolic || !m.Stochastic || !m.Concrete {
		t.Fatalf("GetSupportedMethods() = %+v, want all true", m)
	}
}

func TestAddStringIfNewDeduplicates(t *testing.T) {
	d := New()

	i1 := d.AddStringIfNew("x")
	i2 := d.AddStringIfNew("y")
	i3 := d.AddStringIfNew("x")

	if i1 != 0 || i2 != 1 || i3 != 0 {
		t.Fatalf("got indices %d %d %d, want 0 1 0", i1, i2, i3)
	}

	if len(d.GetStrings()) != 2 {
		t.Fatalf("GetStrings() has %d entries, want 2", len(d.GetStrings()))
	}
}

func TestChanPriorityBeginThenAdd(t *testing.T) {
	d := New()

	head := expr.NewIdentifier("a", sp())
	tail := expr.NewIdentifier("b", sp())

	d.BeginChanPriority(head)
	d.AddChanPriority('<', tail)

	if len(d.ChanPriorities) != 1 {
		t.Fatalf("ChanPriorities has %d entries, want 1", len(d.ChanPriorities))
	}

	cp := d.ChanPriorities[0]
	if cp.Head != head || len(cp.Tail) != 1 || cp.Tail[0].Separator != '<' || cp.Tail[0].Expr != tail {
		t.Fatalf("unexpected ChanPriority contents: %+v", cp)
	}
}

func TestAddChanPriorityWithoutBeginPanics(t *testing.T) {
	d := New()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling AddChanPriority before BeginChanPriority")
		}
	}()

	d.AddChanPriority('<', expr.NewIdentifier("a", sp()))
}

func TestAddErrorAccumulatesOnSink(t *testing.T) {
	d := New()

	d.AddError(diagnostic.UnknownIdentifier, position.Position{Line: 1, Column: 1}, "", "x")

	if !d.HasErrors() {
		t.Fatal("expected HasErrors() to be true")
	}

	if len(d.Errors()) != 1 {
		t.Fatalf("Errors() has %d entries, want 1", len(d.Errors()))
	}
}

// compatibilityResult bundles the outcome of checking one format version
// against several constraints, so the whole batch can be asserted in one
// cmp.Diff instead of a run of individual if-statements.
type compatibilityResult struct {
	WithinRange bool
	AboveRange  bool
}

func TestFormatVersionCompatibility(t *testing.T) {
	d := New()

	if err := d.SetFormatVersion("4.1.0"); err != nil {
		t.Fatalf("SetFormatVersion failed: %v", err)
	}

	var got compatibilityResult

	var err error

	got.WithinRange, err = d.CompatibleWith(">= 4.0, < 5.0")
	if err != nil {
		t.Fatalf("CompatibleWith failed: %v", err)
	}

	got.AboveRange, err = d.CompatibleWith(">= 5.0")
	if err != nil {
		t.Fatalf("CompatibleWith failed: %v", err)
	}

	want := compatibilityResult{WithinRange: true, AboveRange: false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("compatibility results differ (-want +got):\n%s", diff)
	}
}

func TestNoFormatVersionIsCompatibleWithEverything(t *testing.T) {
	d := New()

	ok, err := d.CompatibleWith(">= 99.0")
	if err != nil {
		t.Fatalf("CompatibleWith failed: %v", err)
	}

	if !ok {
		t.Fatal("expected a document with no format version to be considered compatible")
	}
}

// TestMinimalTA builds the end-to-end "Minimal TA" scenario: template P
// with locations L0, L1, edge L0->L1 guarded by x>1 and synchronized on
// c!, instantiated once and registered as a process.
func TestMinimalTA(t *testing.T) {
	d := New()

	clockSym := symbols.NewSymbol("x", symbols.KindClock, types.New(types.Clock), sp())
	if _, err := d.Globals.Frame.Add(clockSym); err != nil {
		t.Fatalf("Add(x) failed: %v", err)
	}

	d.Globals.AddVariable(clockSym, nil, sp())

	chanSym := symbols.NewSymbol("c", symbols.KindChannel, types.New(types.Channel), sp())
	if _, err := d.Globals.Frame.Add(chanSym); err != nil {
		t.Fatalf("Add(c) failed: %v", err)
	}

	params := symbols.NewFrame(nil)
	tmpl := d.AddTemplate("P", params, sp(), true)

	l0Sym := symbols.NewSymbol("L0", symbols.KindLocation, nil, sp())
	l1Sym := symbols.NewSymbol("L1", symbols.KindLocation, nil, sp())

	l0 := tmpl.AddLocation(l0Sym, nil, nil, sp())
	l1 := tmpl.AddLocation(l1Sym, nil, nil, sp())
	tmpl.Init = l0Sym

	guard := expr.NewBinary(">", expr.NewIdentifier("x", sp()), expr.NewConstInt(1, sp()), sp())
	guard.Sub[0].Symbol = clockSym

	sync := expr.NewSync(expr.NewIdentifier("c", sp()), "!", sp())
	sync.Channel().Symbol = chanSym

	edge := tmpl.AddEdge(l0, l1, true, "c", sp())
	edge.Guard = guard
	edge.Sync = sync

	inst := NewInstance("p", tmpl, sp())
	d.AddInstance(inst)
	d.AddProcess(inst)

	if len(d.Processes) != 1 {
		t.Fatalf("Processes has %d entries, want 1", len(d.Processes))
	}

	if len(tmpl.Locations) != 2 || len(tmpl.Edges) != 1 {
		t.Fatalf("template has %d locations and %d edges, want 2 and 1", len(tmpl.Locations), len(tmpl.Edges))
	}

	if d.HasErrors() {
		t.Fatalf("expected zero errors, got %v", d.Errors())
	}
}

func TestEquivalentIgnoresPositions(t *testing.T) {
	build := func(file string) *Document {
		d := New()
		clockSym := symbols.NewSymbol("x", symbols.KindClock, types.New(types.Clock), sp())
		d.Globals.Frame.Add(clockSym)
		d.Globals.AddVariable(clockSym, nil, position.Span{Start: position.Position{Filename: file, Line: 1, Column: 1}})

		return d
	}

	a := build("a.xml")
	b := build("b.xml")

	if !Equivalent(a, b) {
		t.Fatal("expected documents differing only in source position to be Equivalent")
	}
}

// TestEquivalentComparesLSCContent builds two otherwise-identical LSC
// templates that differ only in whether a message is anchored in the
// prechart, and checks that Equivalent notices: the timed-automata shape
// (locations, edges) says nothing about LSC content, which lives in its
// own slices on Template.
func TestEquivalentComparesLSCContent(t *testing.T) {
	build := func(inPrechart bool) *Document {
		d := New()
		tmpl := d.AddTemplate("Scenario", symbols.NewFrame(nil), sp(), false)

		userSym := symbols.NewSymbol("User", symbols.KindInstance, nil, sp())
		serverSym := symbols.NewSymbol("Server", symbols.KindInstance, nil, sp())
		user := tmpl.AddInstanceLine(userSym, sp())
		server := tmpl.AddInstanceLine(serverSym, sp())

		tmpl.AddMessage(user, server, 1, inPrechart)

		return d
	}

	a := build(true)
	b := build(false)

	if Equivalent(a, b) {
		t.Fatal("expected documents differing in LSC message prechart membership not to be Equivalent")
	}

	c := build(true)
	if !Equivalent(a, c) {
		t.Fatal("expected identically-built LSC documents to be Equivalent")
	}
}
