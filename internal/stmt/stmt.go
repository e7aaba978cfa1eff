// Package stmt implements the statement AST used in function bodies:
// block, assignment, if/else, while, do-while, for, for-each-range, return,
// and empty statements. Each concrete type mirrors the AST/visitor idiom
// the checker and instantiation engine also use for expressions, but as
// distinct Go types per kind (rather than one variadic node) since the
// statement set is small, fixed, and heterogeneous in shape.
package stmt

import (
	"github.com/tair-project/tair/internal/expr"
	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/symbols"
)

// Statement is the common interface implemented by every statement node.
type Statement interface {
	Span() position.Span
	Accept(v Visitor) any
	stmtNode()
}

// Block is `{ decls...; statements... }`; it owns the frame holding its
// local variables.
type Block struct {
	Frame *symbols.Frame
	Body  []Statement
	span  position.Span
}

func NewBlock(frame *symbols.Frame, body []Statement, span position.Span) *Block {
	return &Block{Frame: frame, Body: body, span: span}
}

func (b *Block) Span() position.Span  { return b.span }
func (b *Block) Accept(v Visitor) any { return v.VisitBlock(b) }
func (*Block) stmtNode()              {}

// Assign is a single assignment `target = value`.
type Assign struct {
	Target *expr.Expression
	Value  *expr.Expression
	span   position.Span
}

func NewAssign(target, value *expr.Expression, span position.Span) *Assign {
	return &Assign{Target: target, Value: value, span: span}
}

func (a *Assign) Span() position.Span  { return a.span }
func (a *Assign) Accept(v Visitor) any { return v.VisitAssign(a) }
func (*Assign) stmtNode()              {}

// If is `if (Guard) Then [else Else]`; Else is nil when absent.
type If struct {
	Guard *expr.Expression
	Then  Statement
	Else  Statement
	span  position.Span
}

func NewIf(guard *expr.Expression, then, els Statement, span position.Span) *If {
	return &If{Guard: guard, Then: then, Else: els, span: span}
}

func (i *If) Span() position.Span  { return i.span }
func (i *If) Accept(v Visitor) any { return v.VisitIf(i) }
func (*If) stmtNode()              {}

// While is `while (Guard) Body`.
type While struct {
	Guard *expr.Expression
	Body  Statement
	span  position.Span
}

func NewWhile(guard *expr.Expression, body Statement, span position.Span) *While {
	return &While{Guard: guard, Body: body, span: span}
}

func (w *While) Span() position.Span  { return w.span }
func (w *While) Accept(v Visitor) any { return v.VisitWhile(w) }
func (*While) stmtNode()              {}

// DoWhile is `do Body while (Guard)`.
type DoWhile struct {
	Guard *expr.Expression
	Body  Statement
	span  position.Span
}

func NewDoWhile(body Statement, guard *expr.Expression, span position.Span) *DoWhile {
	return &DoWhile{Guard: guard, Body: body, span: span}
}

func (d *DoWhile) Span() position.Span  { return d.span }
func (d *DoWhile) Accept(v Visitor) any { return v.VisitDoWhile(d) }
func (*DoWhile) stmtNode()              {}

// For is a C-style `for (Init; Guard; Post) Body`. Init and Post are
// statements (typically Assign or Empty) rather than bare expressions, so
// they can be visited uniformly with the rest of the tree.
type For struct {
	Init  Statement
	Guard *expr.Expression
	Post  Statement
	Body  Statement
	span  position.Span
}

func NewFor(init Statement, guard *expr.Expression, post, body Statement, span position.Span) *For {
	return &For{Init: init, Guard: guard, Post: post, Body: body, span: span}
}

func (f *For) Span() position.Span  { return f.span }
func (f *For) Accept(v Visitor) any { return v.VisitFor(f) }
func (*For) stmtNode()              {}

// ForEachRange is `for (Var : Range) Body`, iterating Var over a bounded
// integer or scalar range.
type ForEachRange struct {
	Var   *symbols.Symbol
	Range *expr.Expression
	Body  Statement
	span  position.Span
}

func NewForEachRange(v *symbols.Symbol, rng *expr.Expression, body Statement, span position.Span) *ForEachRange {
	return &ForEachRange{Var: v, Range: rng, Body: body, span: span}
}

func (f *ForEachRange) Span() position.Span  { return f.span }
func (f *ForEachRange) Accept(v Visitor) any { return v.VisitForEachRange(f) }
func (*ForEachRange) stmtNode()              {}

// Return is `return [Value]`; Value is nil for a bare return in a void function.
type Return struct {
	Value *expr.Expression
	span  position.Span
}

func NewReturn(value *expr.Expression, span position.Span) *Return {
	return &Return{Value: value, span: span}
}

func (r *Return) Span() position.Span  { return r.span }
func (r *Return) Accept(v Visitor) any { return v.VisitReturn(r) }
func (*Return) stmtNode()              {}

// Empty is the no-op statement `;`.
type Empty struct{ span position.Span }

func NewEmpty(span position.Span) *Empty { return &Empty{span: span} }

func (e *Empty) Span() position.Span  { return e.span }
func (e *Empty) Accept(v Visitor) any { return v.VisitEmpty(e) }
func (*Empty) stmtNode()              {}
