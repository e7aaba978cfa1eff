// Package builder implements the flat, declarative construction contract
// front-ends use to populate a document.Document: addVariable,
// addTemplate, addLocation, addEdge, addSync/addGuard/addAssign,
// addInstance, addProcess, addQuery, channel priorities, progress
// measures, I/O declarations, gantt charts, and the before/after update
// expressions.
//
// The Builder keeps a small amount of mutable "current context" state
// (current template, current frame, current function) so that a front-end
// can drive it the way a recursive-descent parser naturally would: begin
// a template, add its locations and edges, end the template, move on to
// the next declaration. All semantic validation beyond duplicate-name
// rejection is left to package checker; the Builder's own errors are
// exactly the hard-structural ones a parser cannot recover from (calling
// addLocation outside of a template, a duplicate name in the active
// frame).
package builder

import (
	"errors"
	"fmt"

	"github.com/tair-project/tair/internal/diagnostic"
	"github.com/tair-project/tair/internal/document"
	"github.com/tair-project/tair/internal/expr"
	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/stmt"
	"github.com/tair-project/tair/internal/symbols"
	"github.com/tair-project/tair/internal/types"
)

// ErrNoActiveTemplate is returned when a template-scoped call is made
// without a preceding BeginTemplate.
var ErrNoActiveTemplate = errors.New("builder: no active template")

// ErrNoActiveFunction is returned when a function-scoped call is made
// without a preceding BeginFunction.
var ErrNoActiveFunction = errors.New("builder: no active function")

// ErrUnknownLocation is returned when AddEdge references a location name
// not yet declared in the active template.
var ErrUnknownLocation = errors.New("builder: unknown location or branchpoint")

// Options configures Builder behavior.
type Options struct {
	// AllowShadowing, when false (the default), still records a warning
	// for a shadowing declaration but never turns it into a hard error;
	// the field exists so a front-end embedding stricter tooling can wire
	// its own policy on top without touching this package.
	AllowShadowing bool
}

// DefaultOptions returns the zero-value Options, which already matches
// the specified shadow-is-a-warning-not-an-error behavior.
func DefaultOptions() Options { return Options{} }

// Builder drives construction of a single document.Document.
type Builder struct {
	Document *document.Document
	Options  Options

	currentTemplate *document.Template
	currentFrame    *symbols.Frame
	currentFunction *document.Function
}

// New returns a Builder that populates doc, starting in the global scope.
func New(doc *document.Document, opts Options) *Builder {
	return &Builder{Document: doc, Options: opts, currentFrame: doc.Globals.Frame}
}

func (b *Builder) declare(sym *symbols.Symbol, decl position.Span) error {
	shadowed, err := b.currentFrame.Add(sym)
	if err != nil {
		b.Document.AddError(diagnostic.DuplicateDefinition, decl.Start, "", sym.Name)

		return fmt.Errorf("builder: declare %q: %w", sym.Name, err)
	}

	if shadowed {
		b.Document.AddWarning(diagnostic.ShadowsAVariable, decl.Start, "", sym.Name)
	}

	b.Document.SetModified(true)

	return nil
}

// AddVariable declares a variable or clock in the active scope (global,
// template, or function-local, depending on what was most recently
// begun).
func (b *Builder) AddVariable(name string, typ *types.Type, init *expr.Expression, decl position.Span) (*document.Variable, error) {
	sym := symbols.NewSymbol(name, symbols.KindVariable, typ, decl)
	if err := b.declare(sym, decl); err != nil {
		return nil, err
	}

	target := b.Document.Globals
	if b.currentFunction != nil {
		v := &document.Variable{Symbol: sym, Init: init, Decl: decl}
		sym.Data = v
		b.currentFunction.Locals = append(b.currentFunction.Locals, v)

		return v, nil
	}

	if b.currentTemplate != nil {
		target = b.currentTemplate.Declarations
	}

	return target.AddVariable(sym, init, decl), nil
}

// BeginTemplate starts a new template and makes it the active scope for
// subsequent AddLocation/AddEdge/AddVariable/AddFunction calls.
func (b *Builder) BeginTemplate(name string, params *symbols.Frame, decl position.Span, isTA bool) *document.Template {
	t := b.Document.AddTemplate(name, params, decl, isTA)
	b.currentTemplate = t
	b.currentFrame = t.Frame
	b.Document.SetModified(true)

	return t
}

// EndTemplate closes the active template, returning scope to global.
func (b *Builder) EndTemplate() {
	b.currentTemplate = nil
	b.currentFrame = b.Document.Globals.Frame
}

// AddLocation declares a location in the active template.
func (b *Builder) AddLocation(name string, invariant, rate *expr.Expression, decl position.Span) (*document.Location, error) {
	if b.currentTemplate == nil {
		return nil, ErrNoActiveTemplate
	}

	sym := symbols.NewSymbol(name, symbols.KindLocation, nil, decl)
	if err := b.declare(sym, decl); err != nil {
		return nil, err
	}

	return b.currentTemplate.AddLocation(sym, invariant, rate, decl), nil
}

// SetInit marks loc as the active template's initial location.
func (b *Builder) SetInit(loc *document.Location) error {
	if b.currentTemplate == nil {
		return ErrNoActiveTemplate
	}

	b.currentTemplate.Init = loc.Symbol
	b.Document.SetModified(true)

	return nil
}

// AddBranchpoint declares a branchpoint in the active template.
func (b *Builder) AddBranchpoint(name string, decl position.Span) (*document.Branchpoint, error) {
	if b.currentTemplate == nil {
		return nil, ErrNoActiveTemplate
	}

	sym := symbols.NewSymbol(name, symbols.KindBranchpoint, nil, decl)
	if err := b.declare(sym, decl); err != nil {
		return nil, err
	}

	return b.currentTemplate.AddBranchpoint(sym, decl), nil
}

// AddEdge adds an edge between two already-declared locations of the
// active template. Both endpoints must name locations; the Builder has no
// call for edges anchored at a branchpoint.
func (b *Builder) AddEdge(srcName, dstName string, control bool, actname string, decl position.Span) (*document.Edge, error) {
	if b.currentTemplate == nil {
		return nil, ErrNoActiveTemplate
	}

	src := b.findLocation(srcName)
	dst := b.findLocation(dstName)

	if src == nil || dst == nil {
		return nil, fmt.Errorf("%w: %q, %q", ErrUnknownLocation, srcName, dstName)
	}

	edge := b.currentTemplate.AddEdge(src, dst, control, actname, decl)
	b.Document.SetModified(true)

	return edge, nil
}

func (b *Builder) findLocation(name string) *document.Location {
	for _, l := range b.currentTemplate.Locations {
		if l.Symbol.Name == name {
			return l
		}
	}

	return nil
}

// AddSync attaches a synchronization expression to edge.
func (b *Builder) AddSync(edge *document.Edge, sync *expr.Expression) {
	edge.Sync = sync
	b.Document.SetModified(true)
}

// AddGuard attaches a guard expression to edge.
func (b *Builder) AddGuard(edge *document.Edge, guard *expr.Expression) {
	edge.Guard = guard
	b.Document.SetModified(true)
}

// AddAssign attaches an assignment expression to edge.
func (b *Builder) AddAssign(edge *document.Edge, assign *expr.Expression) {
	edge.Assign = assign
	b.Document.SetModified(true)
}

// AddProb marks edge as a probabilistic edge with the given probability
// expression, one of a group of edges sharing the same source that a
// probabilistic-choice backend picks between at run time.
func (b *Builder) AddProb(edge *document.Edge, prob *expr.Expression) {
	edge.Prob = prob
	b.Document.SetModified(true)
}

// BeginFunction declares a function in the active scope and makes it the
// current function context, so that subsequent AddVariable calls declare
// locals instead of scope members.
func (b *Builder) BeginFunction(name string, typ *types.Type, decl position.Span) (*document.Function, error) {
	sym := symbols.NewSymbol(name, symbols.KindFunction, typ, decl)
	if err := b.declare(sym, decl); err != nil {
		return nil, err
	}

	target := b.Document.Globals
	if b.currentTemplate != nil {
		target = b.currentTemplate.Declarations
	}

	fn := target.AddFunction(sym, decl)
	b.currentFunction = fn
	b.currentFrame = symbols.NewFrame(b.currentFrame)

	return fn, nil
}

// EndFunction attaches body to the active function and returns scope to
// its enclosing template or the global scope.
func (b *Builder) EndFunction(body *stmt.Block) error {
	if b.currentFunction == nil {
		return ErrNoActiveFunction
	}

	b.currentFunction.Body = body
	b.currentFunction = nil
	b.Document.SetModified(true)

	if b.currentTemplate != nil {
		b.currentFrame = b.currentTemplate.Frame
	} else {
		b.currentFrame = b.Document.Globals.Frame
	}

	return nil
}

// AddInstance registers inst in the document's instance list.
func (b *Builder) AddInstance(inst *document.Instance) {
	b.Document.AddInstance(inst)
	b.Document.SetModified(true)
}

// AddProcess registers inst as a fully bound process.
func (b *Builder) AddProcess(inst *document.Instance) {
	b.Document.AddProcess(inst)
	b.Document.SetModified(true)
}

// AddQuery appends a query.
func (b *Builder) AddQuery(q document.Query) {
	b.Document.AddQuery(q)
	b.Document.SetModified(true)
}

// BeginChanPriority starts a channel-priority declaration.
func (b *Builder) BeginChanPriority(head *expr.Expression) {
	b.Document.BeginChanPriority(head)
	b.Document.SetModified(true)
}

// AddChanPriority extends the open channel-priority declaration.
func (b *Builder) AddChanPriority(sep byte, e *expr.Expression) {
	b.Document.AddChanPriority(sep, e)
	b.Document.SetModified(true)
}

// AddProgressMeasure declares a progress measure in the active scope.
func (b *Builder) AddProgressMeasure(guard, measure *expr.Expression) {
	if b.currentTemplate != nil {
		b.currentTemplate.AddProgressMeasure(guard, measure)
	} else {
		b.Document.Globals.AddProgressMeasure(guard, measure)
	}

	b.Document.SetModified(true)
}

// AddIODecl declares a fresh I/O declaration in the active scope.
func (b *Builder) AddIODecl() *document.IODecl {
	b.Document.SetModified(true)

	if b.currentTemplate != nil {
		return b.currentTemplate.AddIODecl()
	}

	return b.Document.Globals.AddIODecl()
}

// AddGantt declares a gantt chart in the active scope.
func (b *Builder) AddGantt(g *document.Gantt) {
	if b.currentTemplate != nil {
		b.currentTemplate.AddGantt(g)
	} else {
		b.Document.Globals.AddGantt(g)
	}

	b.Document.SetModified(true)
}

// SetBeforeUpdate sets the document's before-update expression.
func (b *Builder) SetBeforeUpdate(e *expr.Expression) {
	b.Document.BeforeUpdate = e
	b.Document.SetModified(true)
}

// SetAfterUpdate sets the document's after-update expression.
func (b *Builder) SetAfterUpdate(e *expr.Expression) {
	b.Document.AfterUpdate = e
	b.Document.SetModified(true)
}

// MarkLocationUrgent flags loc as urgent: any transition leaving it is
// taken as soon as it is enabled, without letting time pass.
func (b *Builder) MarkLocationUrgent(loc *document.Location) {
	loc.Urgent = true
	b.Document.SetModified(true)
}

// MarkLocationCommitted flags loc as committed: time cannot pass while
// any process is in a committed location, and an outgoing edge from one
// must be taken next.
func (b *Builder) MarkLocationCommitted(loc *document.Location) {
	loc.Committed = true
	b.Document.SetModified(true)
}
