// Package checker implements the single-pass, error-accumulating type and
// consistency checker described in the document model: it resolves every
// identifier, assigns a type to every expression, validates guards,
// invariants, synchronizations, and assignments, and records the
// cross-cutting document flags (hasStrictInvariants, stopsClock,
// hasUrgentTransition, hasStrictLowerBoundOnControllableEdges,
// hasGuardOnRecvBroadcast) that later phases rely on.
//
// Checking never returns a Go error for a semantic problem: every failure
// is appended to the document's diagnostic sink and checking continues,
// so a single run surfaces a full batch of diagnostics rather than
// stopping at the first one. Checking twice in a row without an
// intervening Builder mutation is a no-op: Check consults
// Document.IsModified and returns immediately when nothing has changed
// since the last run.
package checker

import (
	"sort"
	"strings"

	"github.com/tair-project/tair/internal/diagnostic"
	"github.com/tair-project/tair/internal/document"
	"github.com/tair-project/tair/internal/expr"
	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/stmt"
	"github.com/tair-project/tair/internal/symbols"
	"github.com/tair-project/tair/internal/types"
	"github.com/tair-project/tair/internal/visit"
)

// Checker validates a single document.Document in place.
type Checker struct {
	doc *document.Document
}

// New returns a Checker bound to doc.
func New(doc *document.Document) *Checker {
	return &Checker{doc: doc}
}

// Check runs the full validation pass, annotating expressions with types
// and symbols and appending diagnostics to the document. It is a no-op if
// the document has not been modified since the previous call.
func (c *Checker) Check() {
	if !c.doc.IsModified() {
		return
	}

	p := &pass{doc: c.doc}

	p.checkPriorities()
	visit.Walk(c.doc, p)

	c.doc.SetModified(false)
}

// pass drives a single walk of the document, implementing visit.Visitor.
// Embedding visit.BaseVisitor means it only needs to override the member
// kinds it actually validates.
type pass struct {
	visit.BaseVisitor

	doc *document.Document
}

func (p *pass) VisitDeclarations(d *document.Declarations) {
	for _, v := range d.Variables {
		if v.Init != nil {
			p.typeExpr(d.Frame, v.Init)
		}
	}

	for _, ioDecl := range d.IODecls {
		for _, e := range ioDecl.Params {
			p.typeExpr(d.Frame, e)
		}

		for _, e := range ioDecl.Inputs {
			p.typeExpr(d.Frame, e)
		}

		for _, e := range ioDecl.Outputs {
			p.typeExpr(d.Frame, e)
		}

		for _, e := range ioDecl.CSP {
			p.typeExpr(d.Frame, e)
		}
	}

	for _, prog := range d.Progress {
		p.typeExpr(d.Frame, prog.Guard)
		p.typeExpr(d.Frame, prog.Measure)
	}

	for _, g := range d.Gantt {
		for _, m := range g.Mapping {
			frame := m.Parameters
			if frame == nil {
				frame = d.Frame
			}

			p.typeExpr(frame, m.Predicate)
			p.typeExpr(frame, m.Mapping)
		}
	}
}

func (p *pass) VisitTemplate(t *document.Template) bool {
	p.checkInitLocation(t)
	p.checkLSC(t)

	return true
}

func (p *pass) VisitLocation(t *document.Template, loc *document.Location) {
	p.checkInvariant(t.Frame, loc)

	if loc.ExponentialRate != nil {
		p.typeExpr(t.Frame, loc.ExponentialRate)
		p.markStochasticConstruct()
	}

	if loc.Urgent || loc.Committed {
		p.doc.SetUrgentTransition()
	}
}

func (p *pass) VisitEdge(t *document.Template, e *document.Edge) {
	p.checkEdge(t, e)
}

func (p *pass) VisitFunction(_ *document.Declarations, fn *document.Function) {
	p.checkFunction(fn)
}

func (p *pass) VisitInstance(inst *document.Instance) {
	p.checkInstanceShape(inst)
}

func (p *pass) VisitProcess(inst *document.Instance) {
	p.checkInstanceShape(inst)
}

func (p *pass) VisitQuery(q *document.Query) {
	p.checkQuery(q)
}

// typeExpr assigns e.Type (and, for identifiers, e.Symbol) by recursing
// over its sub-expressions, resolving names against frame. It is the
// single entry point every other check routes expression handling
// through, so every expression in the document gets exactly one type
// assignment per check pass.
func (p *pass) typeExpr(frame *symbols.Frame, e *expr.Expression) *types.Type {
	if e == nil {
		return types.New(types.Void)
	}

	switch e.Kind {
	case expr.KindConst:
		e.Type = p.typeConst(e)
	case expr.KindIdentifier:
		e.Type = p.typeIdentifier(frame, e)
	case expr.KindUnary:
		e.Type = p.typeUnary(frame, e)
	case expr.KindBinary:
		e.Type = p.typeBinaryNode(frame, e)
	case expr.KindTernary:
		p.typeExpr(frame, e.Sub[0])
		e.Type = promote(p.typeExpr(frame, e.Sub[1]), p.typeExpr(frame, e.Sub[2]))
	case expr.KindCall:
		e.Type = p.typeCall(frame, e)
	case expr.KindDot:
		e.Type = p.typeDot(frame, e)
	case expr.KindSubscript:
		e.Type = p.typeSubscript(frame, e)
	case expr.KindComma:
		p.typeExpr(frame, e.Sub[0])
		e.Type = p.typeExpr(frame, e.Sub[1])
	case expr.KindSync:
		p.typeExpr(frame, e.Channel())
		e.Type = types.New(types.Void)
	case expr.KindInlineIf:
		p.typeExpr(frame, e.Sub[0])
		e.Type = promote(p.typeExpr(frame, e.Sub[1]), p.typeExpr(frame, e.Sub[2]))
	case expr.KindDeadlock:
		e.Type = types.New(types.Bool)
	case expr.KindForall, expr.KindExists:
		p.typeExpr(e.BoundFrame, e.Predicate())
		e.Type = types.New(types.Bool)
	case expr.KindSum:
		e.Type = p.typeExpr(e.BoundFrame, e.Body())
		p.typeExpr(e.BoundFrame, e.Predicate())
	case expr.KindList:
		e.Type = p.typeList(frame, e)
	default:
		e.Type = types.New(types.Void)
	}

	return e.Type
}

func (p *pass) typeConst(e *expr.Expression) *types.Type {
	if _, ok := e.ConstBool(); ok {
		return types.New(types.Bool)
	}

	if _, ok := e.ConstDouble(); ok {
		return types.New(types.Double)
	}

	return types.New(types.Int)
}

func (p *pass) typeIdentifier(frame *symbols.Frame, e *expr.Expression) *types.Type {
	sym, ok := frame.Resolve(e.Name())
	if !ok {
		p.doc.AddError(diagnostic.UnknownIdentifier, e.Span.Start, "", e.Name())

		return types.New(types.Void)
	}

	e.Symbol = sym

	return sym.Type
}

func (p *pass) typeUnary(frame *symbols.Frame, e *expr.Expression) *types.Type {
	operand := p.typeExpr(frame, e.Sub[0])

	if e.Operator == "!" {
		return types.New(types.Bool)
	}

	// "'" is the clock-rate marker (`clock' == expr`); its own type is the
	// clock's type, extraction happens in checkInvariant.
	return operand
}

func (p *pass) typeBinaryNode(frame *symbols.Frame, e *expr.Expression) *types.Type {
	if e.Operator == "=" {
		return p.typeAssign(frame, e)
	}

	lt := p.typeExpr(frame, e.Sub[0])
	rt := p.typeExpr(frame, e.Sub[1])

	switch e.Operator {
	case "+", "-", "*", "/", "%":
		if isDouble(lt) || isDouble(rt) {
			return types.New(types.Double)
		}

		return types.New(types.Int)
	case "&&", "||", "==", "!=", "<", "<=", ">", ">=":
		return types.New(types.Bool)
	case "&", "|", "^", "<<", ">>":
		return types.New(types.Int)
	default:
		p.doc.AddError(diagnostic.InvalidType, e.Span.Start, "", e.Operator)

		return types.New(types.Void)
	}
}

// typeAssign types an assignment represented as KindBinary with Operator
// "=" (no other convention for assignment expressions exists in package
// expr; this one is introduced here since Edge.Assign holds a raw
// expression, not a stmt.Assign). Its own type is the value's type,
// matching C-family assignment-expression semantics.
func (p *pass) typeAssign(frame *symbols.Frame, e *expr.Expression) *types.Type {
	target, value := e.Sub[0], e.Sub[1]

	p.typeExpr(frame, target)
	vt := p.typeExpr(frame, value)

	if !isLValue(target) {
		p.doc.AddError(diagnostic.BadAssignment, e.Span.Start, e.String())
	}

	return vt
}

func (p *pass) typeCall(frame *symbols.Frame, e *expr.Expression) *types.Type {
	calleeType := p.typeExpr(frame, e.Callee())

	for _, a := range e.Args() {
		p.typeExpr(frame, a)
	}

	if calleeType == nil || !calleeType.Is(types.Function) {
		p.doc.AddError(diagnostic.InvalidType, e.Span.Start, "", e.Callee().String())

		return types.New(types.Void)
	}

	return calleeType.Get(len(calleeType.Params))
}

func (p *pass) typeDot(frame *symbols.Frame, e *expr.Expression) *types.Type {
	recordType := p.typeExpr(frame, e.Sub[0])

	if recordType == nil || !recordType.Is(types.Record) {
		p.doc.AddError(diagnostic.IsNotAStruct, e.Span.Start, "", e.Sub[0].String())

		return types.New(types.Void)
	}

	for i := 0; i < recordType.SubCount(); i++ {
		if recordType.GetLabel(i) == e.Label {
			return recordType.Get(i)
		}
	}

	p.doc.AddError(diagnostic.HasNoMember, e.Span.Start, "", e.Label)

	return types.New(types.Void)
}

func (p *pass) typeSubscript(frame *symbols.Frame, e *expr.Expression) *types.Type {
	arrType := p.typeExpr(frame, e.Sub[0])
	p.typeExpr(frame, e.Sub[1])

	if arrType == nil || !arrType.Is(types.Array) {
		p.doc.AddError(diagnostic.InvalidType, e.Span.Start, "", e.Sub[0].String())

		return types.New(types.Void)
	}

	return arrType.Get(0)
}

func (p *pass) typeList(frame *symbols.Frame, e *expr.Expression) *types.Type {
	var elemType *types.Type

	for _, s := range e.Sub {
		elemType = p.typeExpr(frame, s)
	}

	if elemType == nil {
		elemType = types.New(types.Int)
	}

	return types.CreateArray(elemType, nil)
}

func promote(a, b *types.Type) *types.Type {
	if a == nil {
		return b
	}

	if b == nil {
		return a
	}

	if a.Is(types.Double) || b.Is(types.Double) {
		return types.New(types.Double)
	}

	return a
}

func isDouble(t *types.Type) bool { return t != nil && t.Is(types.Double) }

func isLValue(e *expr.Expression) bool {
	switch e.Kind {
	case expr.KindIdentifier:
		return true
	case expr.KindDot, expr.KindSubscript:
		return isLValue(e.Sub[0])
	default:
		return false
	}
}

// isClockRef reports whether e is a resolved reference to a clock-typed
// symbol. Symbol.Kind is not a reliable signal here: the Builder records
// every declaration (clocks included) with symbols.KindVariable and
// leaves the clock/non-clock distinction entirely to the declared type.
func isClockRef(e *expr.Expression) bool {
	return e.Kind == expr.KindIdentifier && e.Symbol != nil && e.Symbol.Type != nil && e.Symbol.Type.Is(types.Clock)
}

// splitConjuncts flattens a chain of "&&" nodes into its operands, in
// left-to-right order.
func splitConjuncts(e *expr.Expression) []*expr.Expression {
	if e == nil {
		return nil
	}

	if e.Kind == expr.KindBinary && e.Operator == "&&" {
		return append(splitConjuncts(e.Sub[0]), splitConjuncts(e.Sub[1])...)
	}

	return []*expr.Expression{e}
}

// recombineConjuncts is splitConjuncts's inverse, used to rebuild an
// invariant after rate sub-expressions have been extracted out of it.
func recombineConjuncts(list []*expr.Expression) *expr.Expression {
	if len(list) == 0 {
		return nil
	}

	result := list[0]
	for _, c := range list[1:] {
		result = expr.NewBinary("&&", result, c, result.Span.Union(c.Span))
	}

	return result
}

// splitCommaSeq flattens a chain of comma-sequenced assignments (the
// shape Edge.Assign takes for a multi-assignment update) into its
// operands, in left-to-right (evaluation) order.
func splitCommaSeq(e *expr.Expression) []*expr.Expression {
	if e == nil {
		return nil
	}

	if e.Kind == expr.KindComma {
		return append(splitCommaSeq(e.Sub[0]), splitCommaSeq(e.Sub[1])...)
	}

	return []*expr.Expression{e}
}

func containsSideEffect(e *expr.Expression) bool {
	found := false
	e.Walk(func(n *expr.Expression) bool {
		if n.Kind == expr.KindBinary && n.Operator == "=" {
			found = true

			return false
		}

		return true
	})

	return found
}

func containsClockRate(e *expr.Expression) bool {
	found := false
	e.Walk(func(n *expr.Expression) bool {
		if n.Kind == expr.KindUnary && n.Operator == "'" {
			found = true

			return false
		}

		return true
	})

	return found
}

// hasStrictLowerBoundOnClock reports whether e contains a strict
// lower-bound clock comparison (`clock > expr`); `clock >= expr` is a
// non-strict lower bound and does not count.
func hasStrictLowerBoundOnClock(e *expr.Expression) bool {
	strict := false
	e.Walk(func(n *expr.Expression) bool {
		if n.Kind == expr.KindBinary && n.Operator == ">" && isClockRef(n.Sub[0]) {
			strict = true
		}

		return true
	})

	return strict
}

// hasStrictUpperBoundOnClock reports whether e contains a strict
// upper-bound clock comparison (`clock < expr`).
func hasStrictUpperBoundOnClock(e *expr.Expression) bool {
	strict := false
	e.Walk(func(n *expr.Expression) bool {
		if n.Kind == expr.KindBinary && n.Operator == "<" && isClockRef(n.Sub[0]) {
			strict = true
		}

		return true
	})

	return strict
}

// guardHasClockConstraint reports whether e compares a clock against
// anything at all, regardless of strictness or direction.
func guardHasClockConstraint(e *expr.Expression) bool {
	if e == nil {
		return false
	}

	found := false
	e.Walk(func(n *expr.Expression) bool {
		if n.Kind != expr.KindBinary {
			return true
		}

		switch n.Operator {
		case "<", "<=", ">", ">=", "==", "!=":
			if isClockRef(n.Sub[0]) || isClockRef(n.Sub[1]) {
				found = true
			}
		}

		return true
	})

	return found
}

// extractRate recognizes a rate conjunct of the shape `clock' == expr`
// (KindBinary "==" over a KindUnary "'" clock reference) and returns the
// resolved clock symbol and rate expression.
func (p *pass) extractRate(frame *symbols.Frame, conjunct *expr.Expression) (rateExpr *expr.Expression, ok bool) {
	if conjunct.Kind != expr.KindBinary || conjunct.Operator != "==" {
		return nil, false
	}

	lhs := conjunct.Sub[0]
	if lhs.Kind != expr.KindUnary || lhs.Operator != "'" {
		return nil, false
	}

	clockExpr := lhs.Sub[0]
	p.typeExpr(frame, clockExpr)

	if !isClockRef(clockExpr) {
		return nil, false
	}

	rate := conjunct.Sub[1]
	p.typeExpr(frame, rate)

	return rate, true
}

// checkInvariant validates a location's invariant, splitting it into
// conjuncts, extracting rate sub-expressions into the location's
// CostRate field, checking the rest are boolean, and recording
// hasStrictInvariants/stopsClock as it goes.
func (p *pass) checkInvariant(frame *symbols.Frame, loc *document.Location) {
	if loc.Invariant == nil {
		return
	}

	var kept []*expr.Expression

	var rates []*expr.Expression

	for _, c := range splitConjuncts(loc.Invariant) {
		if rate, ok := p.extractRate(frame, c); ok {
			rates = append(rates, rate)

			continue
		}

		t := p.typeExpr(frame, c)
		if t == nil || !t.Is(types.Bool) {
			p.doc.AddError(diagnostic.BadInvariant, c.Span.Start, c.String())

			continue
		}

		if hasStrictUpperBoundOnClock(c) {
			p.doc.RecordStrictInvariant()
		}

		kept = append(kept, c)
	}

	loc.Invariant = recombineConjuncts(kept)

	if len(rates) > 0 {
		loc.CostRate = recombineConjuncts(rates)
		p.markStochasticConstruct()

		for _, rate := range rates {
			if v, ok := rate.ConstInt(); ok && v == 0 {
				p.doc.RecordStopWatch()
			}

			if v, ok := rate.ConstDouble(); ok && v == 0 {
				p.doc.RecordStopWatch()
			}
		}
	}
}

// markStochasticConstruct downgrades the document's Symbolic supported-
// method flag once a construct outside plain symbolic TA semantics is
// seen: a rate (cost or exponential) on a location, or a probabilistic
// edge. It is idempotent; once cleared the flag stays cleared for the
// rest of the check.
func (p *pass) markStochasticConstruct() {
	m := p.doc.GetSupportedMethods()
	if !m.Symbolic {
		return
	}

	m.Symbolic = false
	p.doc.SetSupportedMethods(m)
}

// checkGuard validates an edge's guard: boolean, no side effects, no
// clock-rate markers, and (for controllable edges) records a strict
// lower-bound clock constraint.
func (p *pass) checkGuard(frame *symbols.Frame, e *document.Edge) {
	if e.Guard == nil {
		return
	}

	t := p.typeExpr(frame, e.Guard)
	if t == nil || !t.Is(types.Bool) {
		p.doc.AddError(diagnostic.BadGuard, e.Guard.Span.Start, e.Guard.String())

		return
	}

	if containsSideEffect(e.Guard) || containsClockRate(e.Guard) {
		p.doc.AddError(diagnostic.BadGuard, e.Guard.Span.Start, e.Guard.String())

		return
	}

	if e.Control && hasStrictLowerBoundOnClock(e.Guard) {
		p.doc.RecordStrictLowerBoundOnControllableEdges()
	}
}

// checkSync validates an edge's synchronization expression and records
// hasGuardOnRecvBroadcast when a broadcast receiver's guard constrains a
// clock.
func (p *pass) checkSync(frame *symbols.Frame, e *document.Edge) {
	if e.Sync == nil {
		return
	}

	chanType := p.typeExpr(frame, e.Sync.Channel())
	if chanType == nil || !chanType.Is(types.Channel) {
		p.doc.AddError(diagnostic.BadSync, e.Sync.Span.Start, e.Sync.String())

		return
	}

	if chanType.HasQualifier(types.QualUrgent) {
		p.doc.SetUrgentTransition()
	}

	if chanType.HasQualifier(types.QualBroadcast) && e.Sync.IsReceive() && guardHasClockConstraint(e.Guard) {
		p.doc.ClockGuardRecvBroadcast()
	}
}

// checkAssignExpr validates an edge's assignment expression: a
// comma-sequenced list of KindBinary "=" nodes, each with an l-value
// target.
func (p *pass) checkAssignExpr(frame *symbols.Frame, e *expr.Expression) {
	for _, part := range splitCommaSeq(e) {
		if part.Kind != expr.KindBinary || part.Operator != "=" {
			p.typeExpr(frame, part)
			p.doc.AddError(diagnostic.BadAssignment, part.Span.Start, part.String())

			continue
		}

		p.typeExpr(frame, part)
	}
}

// checkProb validates a probabilistic edge's probability expression: it
// must type as a number (int or double). The checker does not attempt to
// prove a static 0-1 range since the expression may depend on runtime
// state; a probabilistic edge is itself a construct outside plain
// symbolic TA semantics, so its mere presence downgrades Symbolic
// regardless of whether the expression type-checks.
func (p *pass) checkProb(frame *symbols.Frame, e *document.Edge) {
	if e.Prob == nil {
		return
	}

	p.markStochasticConstruct()

	t := p.typeExpr(frame, e.Prob)
	if t == nil || (!t.Is(types.Int) && !t.Is(types.Double)) {
		p.doc.AddError(diagnostic.BadProbability, e.Prob.Span.Start, e.Prob.String())
	}
}

// checkSelectValues resolves e.Select's declared bounds, when they are
// constant, into the concrete list of values a backend would enumerate
// the select over. Only array-shaped select types with a constant-foldable
// size are resolved; anything else (a symbolic or non-constant bound)
// leaves SelectValues empty, which callers must treat as "not resolved"
// rather than "empty range".
func (p *pass) checkSelectValues(e *document.Edge) {
	if e.Select == nil {
		return
	}

	e.SelectValues = nil

	for _, sym := range e.Select.Symbols() {
		if sym.Type == nil || !sym.Type.Is(types.Array) {
			continue
		}

		size, ok := sym.Type.Size.(*expr.Expression)
		if !ok {
			continue
		}

		bound, ok := size.ConstInt()
		if !ok {
			continue
		}

		for v := int64(0); v < bound; v++ {
			e.SelectValues = append(e.SelectValues, int32(v))
		}
	}
}

func (p *pass) checkEdge(t *document.Template, e *document.Edge) {
	frame := t.Frame
	if e.Select != nil {
		frame = e.Select
	}

	p.checkGuard(frame, e)
	p.checkSync(frame, e)
	p.checkProb(frame, e)
	p.checkSelectValues(e)

	if e.Assign != nil {
		p.checkAssignExpr(frame, e.Assign)
	}

	if e.Src != nil && (e.Src.Urgent || e.Src.Committed) {
		p.doc.SetUrgentTransition()
	}
}

func (p *pass) checkFunction(fn *document.Function) {
	if fn.Body == nil {
		return
	}

	p.checkBlock(fn.Body, fn)
}

func (p *pass) checkBlock(block *stmt.Block, fn *document.Function) {
	for _, s := range block.Body {
		p.checkStmt(block.Frame, s, fn)
	}
}

func (p *pass) checkStmt(frame *symbols.Frame, s stmt.Statement, fn *document.Function) {
	switch n := s.(type) {
	case *stmt.Block:
		p.checkBlock(n, fn)
	case *stmt.Assign:
		p.checkAssignStmt(frame, n, fn)
	case *stmt.If:
		p.typeExpr(frame, n.Guard)
		p.checkStmt(frame, n.Then, fn)

		if n.Else != nil {
			p.checkStmt(frame, n.Else, fn)
		}
	case *stmt.While:
		p.typeExpr(frame, n.Guard)
		p.checkStmt(frame, n.Body, fn)
	case *stmt.DoWhile:
		p.checkStmt(frame, n.Body, fn)
		p.typeExpr(frame, n.Guard)
	case *stmt.For:
		if n.Init != nil {
			p.checkStmt(frame, n.Init, fn)
		}

		if n.Guard != nil {
			p.typeExpr(frame, n.Guard)
		}

		if n.Post != nil {
			p.checkStmt(frame, n.Post, fn)
		}

		p.checkStmt(frame, n.Body, fn)
	case *stmt.ForEachRange:
		p.typeExpr(frame, n.Range)
		p.checkStmt(frame, n.Body, fn)
	case *stmt.Return:
		if n.Value != nil {
			p.typeExpr(frame, n.Value)
		}
	case *stmt.Empty:
	}
}

func (p *pass) checkAssignStmt(frame *symbols.Frame, a *stmt.Assign, fn *document.Function) {
	p.typeExpr(frame, a.Target)
	p.typeExpr(frame, a.Value)

	if !isLValue(a.Target) {
		p.doc.AddError(diagnostic.BadAssignment, a.Span().Start, a.Target.String())

		return
	}

	p.recordChangesDepends(fn, a.Target, a.Value)
}

// recordChangesDepends populates fn.Changes with target's own symbol and
// fn.Depends with every free symbol read by value (and by any
// non-trivial sub-expression of target, e.g. an array index).
func (p *pass) recordChangesDepends(fn *document.Function, target, value *expr.Expression) {
	if fn == nil {
		return
	}

	if target.Symbol != nil {
		fn.Changes[target.Symbol] = true
	}

	for _, s := range expr.FreeSymbols(value) {
		fn.Depends[s] = true
	}

	for _, s := range expr.FreeSymbols(target) {
		if s != target.Symbol {
			fn.Depends[s] = true
		}
	}
}

func (p *pass) checkPriorities() {
	frame := p.doc.Globals.Frame

	for i := range p.doc.ChanPriorities {
		cp := &p.doc.ChanPriorities[i]

		p.checkPriorityOperand(frame, cp.Head)

		for _, entry := range cp.Tail {
			p.checkPriorityOperand(frame, entry.Expr)
		}
	}
}

func (p *pass) checkPriorityOperand(frame *symbols.Frame, e *expr.Expression) {
	if e == nil {
		return
	}

	t := p.typeExpr(frame, e)
	if t == nil {
		return
	}

	for t.Is(types.Array) {
		t = t.Get(0)
	}

	if !t.Is(types.Channel) {
		p.doc.AddError(diagnostic.BadPriorityList, e.Span.Start, e.String())
	}
}

// recognizedQueryOptions are the option names spec'd as having a defined
// effect; anything else is a backend-specific pass-through, preserved
// verbatim without complaint.
var recognizedQueryOptions = map[string]bool{
	"--diagnostic":      true,
	"--track-resources": true,
	"--learning-runs":   true,
	"--discretization":  true,
}

func (p *pass) checkQuery(q *document.Query) {
	if strings.TrimSpace(q.Formula) == "" {
		p.doc.AddError(diagnostic.BadQuery, position.Position{Filename: q.Location, Line: 1, Column: 1}, q.Formula)
	}
}

func (p *pass) checkInitLocation(t *document.Template) {
	if !t.IsTA || t.Init == nil {
		return
	}

	for _, loc := range t.Locations {
		if loc.Symbol == t.Init {
			return
		}
	}

	p.doc.AddError(diagnostic.InvalidType, t.Decl.Start, "init location", t.Init.Name)
}

// checkInstanceShape validates the (parameters.size == unbound + bound)
// invariant and that every bound (non-unbound-prefix) parameter has a
// mapping entry.
func (p *pass) checkInstanceShape(inst *document.Instance) {
	total := inst.Parameters.Size()

	if inst.Unbound < 0 || inst.Unbound > total {
		p.doc.AddError(diagnostic.InvalidType, inst.Decl.Start, "instance shape", inst.Symbol.Name)

		return
	}

	params := inst.Parameters.Symbols()
	for i := inst.Unbound; i < total; i++ {
		if _, ok := inst.Mapping[params[i]]; !ok {
			p.doc.AddError(diagnostic.InvalidType, inst.Decl.Start, "unmapped bound parameter", params[i].Name)
		}
	}
}

// checkLSC validates that within an LSC template's ordered
// messages/conditions/updates, prechart items never follow a mainchart
// item once sorted by Y-location: the prechart is a strict prefix of the
// chart, which is what lets a cut's IsInPrechart be well-defined purely
// from its members.
func (p *pass) checkLSC(t *document.Template) {
	if t.IsTA {
		return
	}

	type item struct {
		loc        int
		inPrechart bool
	}

	var items []item

	for _, m := range t.Messages {
		items = append(items, item{m.Location, m.InPrechart})
	}

	for _, cnd := range t.Conditions {
		items = append(items, item{cnd.Location, cnd.InPrechart})
	}

	for _, u := range t.Updates {
		items = append(items, item{u.Location, u.InPrechart})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].loc < items[j].loc })

	seenMainchart := false

	for _, it := range items {
		if it.inPrechart && seenMainchart {
			p.doc.AddError(diagnostic.InconsistentLSC, t.Decl.Start, "", t.Symbol.Name)

			return
		}

		if !it.inPrechart {
			seenMainchart = true
		}
	}
}
