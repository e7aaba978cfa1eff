package document

import (
	"github.com/tair-project/tair/internal/expr"
	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/symbols"
)

// Instance is a partial or complete instantiation of a template. Every
// Template embeds an Instance of itself; a complete instance is simply a
// partial instance with no unbound parameters.
//
// Parameters lists unbound parameters first, then bound ones, so that
// Parameters.Size() - Unbound gives the number of bound (inherited or
// supplied) parameters. Mapping binds each bound parameter's symbol to
// the expression supplying its value.
type Instance struct {
	Symbol     *symbols.Symbol
	Parameters *symbols.Frame
	Mapping    map[*symbols.Symbol]*expr.Expression
	Template   *Template // the template this instance was created from, nil for the template's own self-instance
	Restricted map[*symbols.Symbol]bool
	Arguments  int // number of arguments supplied by this instantiation step
	Unbound    int // number of parameters still free
	Decl       position.Span
}

func newInstance(name string, params *symbols.Frame, decl position.Span) *Instance {
	sym := symbols.NewSymbol(name, symbols.KindInstance, nil, decl)

	return &Instance{
		Symbol:     sym,
		Parameters: params,
		Mapping:    map[*symbols.Symbol]*expr.Expression{},
		Restricted: map[*symbols.Symbol]bool{},
		Decl:       decl,
	}
}

// NewInstance returns a fresh, fully unbound Instance of templ.
func NewInstance(name string, templ *Template, decl position.Span) *Instance {
	inst := newInstance(name, templ.Parameters, decl)
	inst.Template = templ
	inst.Unbound = templ.Parameters.Size()

	return inst
}

// InstanceLine is an LSC instance line: an Instance plus its position
// within the enclosing template's ordered list of lines.
type InstanceLine struct {
	*Instance
	Index int
}
