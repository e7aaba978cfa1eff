package document

import (
	"github.com/tair-project/tair/internal/expr"
	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/stmt"
	"github.com/tair-project/tair/internal/symbols"
)

// Variable is a declared variable or clock. Data on its Symbol points
// back to this Variable.
type Variable struct {
	Symbol *symbols.Symbol
	Init   *expr.Expression // nil when uninitialized
	Decl   position.Span
}

// Function is a declared function. Changes/Depends are filled in by the
// checker while visiting the body; Locals holds the function's own local
// variables (its Body's block frame holds the same symbols).
type Function struct {
	Symbol  *symbols.Symbol
	Body    *stmt.Block
	Changes map[*symbols.Symbol]bool
	Depends map[*symbols.Symbol]bool
	Locals  []*Variable
	Decl    position.Span
}

// NewFunction returns an empty Function ready to receive locals and a body.
func NewFunction(sym *symbols.Symbol, decl position.Span) *Function {
	return &Function{
		Symbol:  sym,
		Changes: map[*symbols.Symbol]bool{},
		Depends: map[*symbols.Symbol]bool{},
		Decl:    decl,
	}
}

// Progress is one progress measure: `guard : measure`.
type Progress struct {
	Guard   *expr.Expression
	Measure *expr.Expression
}

// IODecl is an I/O declaration used by the CSP-style external interface
// checking: an instance name plus its input/output/csp expression lists.
type IODecl struct {
	InstanceName string
	Params       []*expr.Expression
	Inputs       []*expr.Expression
	Outputs      []*expr.Expression
	CSP          []*expr.Expression
}

// GanttMap is one `bool-expr -> int-expr` entry of a gantt chart, with its
// own select-parameter frame.
type GanttMap struct {
	Parameters *symbols.Frame
	Predicate  *expr.Expression
	Mapping    *expr.Expression
}

// Gantt is a named gantt chart entry: a select-parameter frame plus a list
// of predicate/mapping pairs.
type Gantt struct {
	Name       string
	Parameters *symbols.Frame
	Mapping    []GanttMap
}

// Declarations groups the members every template and the document's own
// globals share: a frame, locally declared variables, functions, progress
// measures, I/O declarations, and gantt charts.
type Declarations struct {
	Frame     *symbols.Frame
	Variables []*Variable
	Functions []*Function
	Progress  []Progress
	IODecls   []*IODecl
	Gantt     []*Gantt
}

// NewDeclarations returns a Declarations rooted at frame.
func NewDeclarations(frame *symbols.Frame) *Declarations {
	return &Declarations{Frame: frame}
}

// AddVariable appends v to the declarations. The caller is responsible
// for having already added v.Symbol to Frame (Frame.Add performs the
// duplicate-name check); AddVariable only records the declaration.
func (d *Declarations) AddVariable(sym *symbols.Symbol, init *expr.Expression, decl position.Span) *Variable {
	v := &Variable{Symbol: sym, Init: init, Decl: decl}
	sym.Data = v
	d.Variables = append(d.Variables, v)

	return v
}

// AddFunction appends a new, bodyless Function to the declarations. The
// caller fills in Body once the function's statements have been parsed.
func (d *Declarations) AddFunction(sym *symbols.Symbol, decl position.Span) *Function {
	f := NewFunction(sym, decl)
	sym.Data = f
	d.Functions = append(d.Functions, f)

	return f
}

// AddProgressMeasure appends a progress measure.
func (d *Declarations) AddProgressMeasure(guard, measure *expr.Expression) {
	d.Progress = append(d.Progress, Progress{Guard: guard, Measure: measure})
}

// AddIODecl appends and returns a fresh IODecl for the caller to populate.
func (d *Declarations) AddIODecl() *IODecl {
	decl := &IODecl{}
	d.IODecls = append(d.IODecls, decl)

	return decl
}

// AddGantt appends a copy of g (matching Document::addGantt's copy-and-move
// semantics: the caller's Gantt value is owned by the declarations from
// this point on).
func (d *Declarations) AddGantt(g *Gantt) {
	cp := *g
	d.Gantt = append(d.Gantt, &cp)
}
