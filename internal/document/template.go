package document

import (
	"github.com/tair-project/tair/internal/expr"
	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/symbols"
)

// Location is one automaton location (a "state" in UTAP's own vocabulary).
// Invariant holds the invariant expression; ExponentialRate is the rate
// passed to AddLocation. CostRate is filled in by the checker when it
// splits rate sub-expressions (`clock' == expr`) out of Invariant, which it
// then replaces with the remaining conjuncts.
type Location struct {
	Symbol          *symbols.Symbol
	Name            *expr.Expression // position-carrying name literal, may be nil
	Invariant       *expr.Expression
	ExponentialRate *expr.Expression
	CostRate        *expr.Expression
	Index           int // declaration order within the template
	Urgent          bool
	Committed       bool
	Decl            position.Span
}

// Branchpoint lets multiple edges share a source location, guard, and
// channel without being full locations; they are resolved away before a
// model reaches a backend.
type Branchpoint struct {
	Symbol *symbols.Symbol
	Index  int
	Decl   position.Span
}

// Edge is a transition between two locations or branchpoints. Exactly one
// of Src/SrcBranch is set, and exactly one of Dst/DstBranch is set (the
// testable property from the guard checks).
type Edge struct {
	Src         *Location
	SrcBranch   *Branchpoint
	Dst         *Location
	DstBranch   *Branchpoint
	Select      *symbols.Frame // non-deterministic select parameters
	Guard       *expr.Expression
	Sync        *expr.Expression
	Assign      *expr.Expression
	Prob        *expr.Expression // probabilistic-edge probability, nil if not probabilistic
	ActionName  string           // synchronization action name cache
	SelectValues []int32         // enumerated select values after the checker resolves them
	Number      int              // placement in input order
	Control     bool             // controllable edge
	Decl        position.Span
}

// Template is a partial or complete instance of itself (every template is
// also its own trivial instance), plus its own declarations and automaton
// body. IsTA distinguishes a timed-automaton template from an LSC
// template, which instead owns InstanceLines/Messages/Conditions/Updates.
type Template struct {
	*Instance
	*Declarations

	Init         *symbols.Symbol // initial location, nil until set
	TemplateSet  *symbols.Frame
	Locations    []*Location
	Branchpoints []*Branchpoint
	Edges        []*Edge
	DynamicEvals []*expr.Expression

	// LSC-only members; empty/zero for IsTA templates.
	InstanceLines []*InstanceLine
	Messages      []*Message
	Conditions    []*Condition
	Updates       []*Update

	Type string // textual TA kind tag, e.g. for stochastic automata
	Mode string

	IsTA         bool
	HasPrechart  bool
	Dynamic      bool
	DynamicIndex int
	Defined      bool
}

// NewTemplate returns a Template that is its own (unbound) instance.
func NewTemplate(name string, params *symbols.Frame, decl position.Span, isTA bool) *Template {
	inst := newInstance(name, params, decl)
	t := &Template{
		Instance:     inst,
		Declarations: NewDeclarations(symbols.NewFrame(params)),
		IsTA:         isTA,
		Defined:      true,
	}
	inst.Symbol.Data = t

	return t
}

// AddLocation appends and returns a new Location.
func (t *Template) AddLocation(sym *symbols.Symbol, invariant, rate *expr.Expression, decl position.Span) *Location {
	loc := &Location{Symbol: sym, Invariant: invariant, ExponentialRate: rate, Index: len(t.Locations), Decl: decl}
	sym.Data = loc
	t.Locations = append(t.Locations, loc)

	return loc
}

// AddBranchpoint appends and returns a new Branchpoint.
func (t *Template) AddBranchpoint(sym *symbols.Symbol, decl position.Span) *Branchpoint {
	bp := &Branchpoint{Symbol: sym, Index: len(t.Branchpoints), Decl: decl}
	sym.Data = bp
	t.Branchpoints = append(t.Branchpoints, bp)

	return bp
}

// AddEdge appends and returns a new Edge between two locations. It sets
// only Src and Dst; SrcBranch and DstBranch stay nil.
func (t *Template) AddEdge(src, dst *Location, control bool, actname string, decl position.Span) *Edge {
	e := &Edge{Src: src, Dst: dst, Control: control, ActionName: actname, Number: len(t.Edges), Decl: decl}
	t.Edges = append(t.Edges, e)

	return e
}

// AddInstanceLine appends and returns a new LSC instance line.
func (t *Template) AddInstanceLine(sym *symbols.Symbol, decl position.Span) *InstanceLine {
	il := &InstanceLine{Instance: newInstance(sym.Name, symbols.NewFrame(nil), decl), Index: len(t.InstanceLines)}
	il.Symbol = sym
	sym.Data = il
	t.InstanceLines = append(t.InstanceLines, il)

	return il
}

// AddMessage appends and returns a new message between two instance lines.
func (t *Template) AddMessage(src, dst *InstanceLine, loc int, inPrechart bool) *Message {
	m := &Message{Number: len(t.Messages), Location: loc, Src: src, Dst: dst, InPrechart: inPrechart}
	t.Messages = append(t.Messages, m)

	return m
}

// AddCondition appends and returns a new condition anchored on one or more
// instance lines.
func (t *Template) AddCondition(anchors []*InstanceLine, loc int, inPrechart, isHot bool) *Condition {
	c := &Condition{Number: len(t.Conditions), Location: loc, Anchors: anchors, InPrechart: inPrechart, IsHot: isHot}
	t.Conditions = append(t.Conditions, c)

	return c
}

// AddUpdate appends and returns a new update anchored on one instance line.
func (t *Template) AddUpdate(anchor *InstanceLine, loc int, inPrechart bool) *Update {
	u := &Update{Number: len(t.Updates), Location: loc, Anchor: anchor, InPrechart: inPrechart}
	t.Updates = append(t.Updates, u)

	return u
}

// AddDynamicEval appends a dynamic-instantiation evaluation expression and
// returns its index.
func (t *Template) AddDynamicEval(e *expr.Expression) int {
	t.DynamicEvals = append(t.DynamicEvals, e)

	return len(t.DynamicEvals) - 1
}
