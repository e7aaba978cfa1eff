package document

import (
	"testing"

	"github.com/tair-project/tair/internal/symbols"
)

func TestAddFunctionInitializesChangesAndDepends(t *testing.T) {
	decls := NewDeclarations(symbols.NewFrame(nil))

	sym := symbols.NewSymbol("f", symbols.KindFunction, nil, sp())
	fn := decls.AddFunction(sym, sp())

	if fn.Changes == nil || fn.Depends == nil {
		t.Fatal("AddFunction must initialize Changes and Depends")
	}

	if sym.Data != fn {
		t.Fatal("symbol's Data must point back to the Function")
	}
}

func TestAddGanttAppendsCopy(t *testing.T) {
	decls := NewDeclarations(symbols.NewFrame(nil))

	g := &Gantt{Name: "chart", Parameters: symbols.NewFrame(nil)}
	decls.AddGantt(g)

	if len(decls.Gantt) != 1 || decls.Gantt[0].Name != "chart" {
		t.Fatalf("unexpected Gantt contents: %+v", decls.Gantt)
	}
}

func TestAddIODeclReturnsMutableHandle(t *testing.T) {
	decls := NewDeclarations(symbols.NewFrame(nil))

	io := decls.AddIODecl()
	io.InstanceName = "p"

	if decls.IODecls[0].InstanceName != "p" {
		t.Fatal("mutation via the returned handle should be visible in Declarations.IODecls")
	}
}
