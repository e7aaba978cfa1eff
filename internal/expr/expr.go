// Package expr implements the expression AST. Construction is purely
// structural: no type is assigned and no identifier is resolved until the
// checker visits the tree. Nodes are immutable after construction except
// for the two fields the checker mutates in place during resolution
// (Type and Symbol).
package expr

import (
	"fmt"
	"strings"

	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/symbols"
	"github.com/tair-project/tair/internal/types"
)

// Kind tags an Expression node.
type Kind int

const (
	KindConst Kind = iota
	KindIdentifier
	KindUnary
	KindBinary
	KindTernary
	KindCall
	KindDot
	KindSubscript
	KindComma
	KindSync
	KindInlineIf
	KindDeadlock
	KindForall
	KindExists
	KindSum
	KindList
)

func (k Kind) String() string {
	names := [...]string{
		"const", "identifier", "unary", "binary", "ternary", "call", "dot",
		"subscript", "comma", "sync", "inline-if", "deadlock", "forall",
		"exists", "sum", "list",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "unknown"
	}

	return names[k]
}

// ConstKind identifies which field of a constant node's value is valid.
type ConstKind int

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstInt
	ConstDouble
)

// Expression is the single node type for the whole expression algebra: a
// kind tag, an ordered list of sub-expressions, and kind-specific payload
// fields (Operator, Label, constant value, resolved Symbol). This mirrors
// UTAP's own expression_t, which is likewise one variadic-arity node type
// rather than one Go type per operator.
type Expression struct {
	Symbol     *symbols.Symbol // resolved symbol, set by the checker on KindIdentifier nodes
	Type       *types.Type     // assigned by the checker; nil before checking
	BoundFrame *symbols.Frame  // bound-variable frame for KindForall/KindExists/KindSum
	doubleVal  float64
	Operator   string // "+", "-", "&&", "!", "?", ... depending on Kind
	Label      string // record field name for KindDot
	Sub        []*Expression
	Span       position.Span
	intVal     int64
	Kind       Kind
	constKind  ConstKind
	boolVal    bool
}

// NewConstBool, NewConstInt, and NewConstDouble build literal nodes.
func NewConstBool(v bool, span position.Span) *Expression {
	return &Expression{Kind: KindConst, constKind: ConstBool, boolVal: v, Span: span}
}

func NewConstInt(v int64, span position.Span) *Expression {
	return &Expression{Kind: KindConst, constKind: ConstInt, intVal: v, Span: span}
}

func NewConstDouble(v float64, span position.Span) *Expression {
	return &Expression{Kind: KindConst, constKind: ConstDouble, doubleVal: v, Span: span}
}

// NewIdentifier builds an unresolved reference to name; the checker later
// sets Symbol and Type.
func NewIdentifier(name string, span position.Span) *Expression {
	return &Expression{Kind: KindIdentifier, Operator: name, Span: span}
}

// Name returns the referenced identifier text (valid for KindIdentifier
// before resolution; after resolution, Symbol.Name is authoritative).
func (e *Expression) Name() string { return e.Operator }

// NewUnary builds a prefix operator node ("-", "!", ...).
func NewUnary(op string, operand *Expression, span position.Span) *Expression {
	return &Expression{Kind: KindUnary, Operator: op, Sub: []*Expression{operand}, Span: span}
}

// NewBinary builds an infix operator node.
func NewBinary(op string, lhs, rhs *Expression, span position.Span) *Expression {
	return &Expression{Kind: KindBinary, Operator: op, Sub: []*Expression{lhs, rhs}, Span: span}
}

// NewTernary builds cond ? t : f.
func NewTernary(cond, t, f *Expression, span position.Span) *Expression {
	return &Expression{Kind: KindTernary, Sub: []*Expression{cond, t, f}, Span: span}
}

// NewCall builds callee(args...).
func NewCall(callee *Expression, args []*Expression, span position.Span) *Expression {
	return &Expression{Kind: KindCall, Sub: append([]*Expression{callee}, args...), Span: span}
}

// Callee and Args decompose a KindCall node.
func (e *Expression) Callee() *Expression { return e.Sub[0] }
func (e *Expression) Args() []*Expression { return e.Sub[1:] }

// NewDot builds record.label.
func NewDot(record *Expression, label string, span position.Span) *Expression {
	return &Expression{Kind: KindDot, Operator: label, Label: label, Sub: []*Expression{record}, Span: span}
}

// NewSubscript builds array[index].
func NewSubscript(array, index *Expression, span position.Span) *Expression {
	return &Expression{Kind: KindSubscript, Sub: []*Expression{array, index}, Span: span}
}

// NewComma builds the sequencing expression lhs, rhs (value and type of rhs).
func NewComma(lhs, rhs *Expression, span position.Span) *Expression {
	return &Expression{Kind: KindComma, Sub: []*Expression{lhs, rhs}, Span: span}
}

// NewSync builds a synchronization expression: chan! or chan?.
func NewSync(channel *Expression, direction string, span position.Span) *Expression {
	return &Expression{Kind: KindSync, Operator: direction, Sub: []*Expression{channel}, Span: span}
}

// Channel returns the synchronized-on channel expression of a KindSync node.
func (e *Expression) Channel() *Expression { return e.Sub[0] }

// IsSend and IsReceive classify a KindSync node's direction.
func (e *Expression) IsSend() bool    { return e.Kind == KindSync && e.Operator == "!" }
func (e *Expression) IsReceive() bool { return e.Kind == KindSync && e.Operator == "?" }

// NewInlineIf builds the (guard, then, else) form used in inline-if updates.
func NewInlineIf(guard, then, els *Expression, span position.Span) *Expression {
	return &Expression{Kind: KindInlineIf, Sub: []*Expression{guard, then, els}, Span: span}
}

// NewDeadlock builds the deadlock predicate.
func NewDeadlock(span position.Span) *Expression {
	return &Expression{Kind: KindDeadlock, Span: span}
}

// NewQuantifier builds forall/exists/sum over the symbol bound in frame,
// with predicate and (for sum) a value body. body is nil for forall/exists.
func NewQuantifier(kind Kind, frame *symbols.Frame, predicate, body *Expression, span position.Span) *Expression {
	sub := []*Expression{predicate}
	if body != nil {
		sub = append(sub, body)
	}

	return &Expression{Kind: kind, BoundFrame: frame, Sub: sub, Span: span}
}

// Predicate and Body decompose a quantifier node; Body is nil for
// forall/exists.
func (e *Expression) Predicate() *Expression { return e.Sub[0] }
func (e *Expression) Body() *Expression {
	if len(e.Sub) < 2 {
		return nil
	}

	return e.Sub[1]
}

// NewList builds a list-literal expression.
func NewList(elems []*Expression, span position.Span) *Expression {
	return &Expression{Kind: KindList, Sub: elems, Span: span}
}

// IsConstant reports whether e is a literal (post constant-folding, any
// node reduced to KindConst).
func (e *Expression) IsConstant() bool { return e.Kind == KindConst && e.constKind != ConstNone }

// ConstInt, ConstBool, and ConstDouble return a constant node's folded
// value; ok is false if e is not constant or not of the requested kind.
func (e *Expression) ConstInt() (v int64, ok bool) {
	if e.Kind == KindConst && e.constKind == ConstInt {
		return e.intVal, true
	}

	return 0, false
}

func (e *Expression) ConstBool() (v bool, ok bool) {
	if e.Kind == KindConst && e.constKind == ConstBool {
		return e.boolVal, true
	}

	return false, false
}

func (e *Expression) ConstDouble() (v float64, ok bool) {
	if e.Kind == KindConst && e.constKind == ConstDouble {
		return e.doubleVal, true
	}

	return 0, false
}

// Walk visits e and every sub-expression in pre-order (root first, then
// each Sub in order); visit returning false skips e's children but not its
// siblings. This is the expression-level traversal primitive the checker
// and instantiation engine build on; the document-wide, kind-dispatching
// Visitor lives in package visit.
func (e *Expression) Walk(visit func(*Expression) bool) {
	if e == nil {
		return
	}

	if !visit(e) {
		return
	}

	for _, s := range e.Sub {
		s.Walk(visit)
	}
}

// Substitute returns a structurally new tree with every identifier bound to
// old rewritten to a (deep-copied) replacement subtree. Used by the
// instantiation engine when binding template parameters to arguments.
func Substitute(e *Expression, old *symbols.Symbol, replacement *Expression) *Expression {
	if e == nil {
		return nil
	}

	if e.Kind == KindIdentifier && e.Symbol == old {
		return clone(replacement)
	}

	cp := *e
	if e.Sub != nil {
		cp.Sub = make([]*Expression, len(e.Sub))
		for i, s := range e.Sub {
			cp.Sub[i] = Substitute(s, old, replacement)
		}
	}

	return &cp
}

func clone(e *Expression) *Expression {
	if e == nil {
		return nil
	}

	cp := *e
	if e.Sub != nil {
		cp.Sub = make([]*Expression, len(e.Sub))
		for i, s := range e.Sub {
			cp.Sub[i] = clone(s)
		}
	}

	return &cp
}

// FreeSymbols returns the set (as a slice, deduplicated by identity) of
// symbols referenced by identifier nodes anywhere in e. Used by the
// instantiation engine's restricted-parameter closure and restriction
// check.
func FreeSymbols(e *Expression) []*symbols.Symbol {
	seen := map[*symbols.Symbol]bool{}

	var out []*symbols.Symbol

	e.Walk(func(n *Expression) bool {
		if n.Kind == KindIdentifier && n.Symbol != nil && !seen[n.Symbol] {
			seen[n.Symbol] = true

			out = append(out, n.Symbol)
		}

		return true
	})

	return out
}

// String renders e for diagnostics and type-string formatting; it is not a
// round-trippable pretty-printer (that lives outside this library's scope).
func (e *Expression) String() string {
	if e == nil {
		return ""
	}

	switch e.Kind {
	case KindConst:
		switch e.constKind {
		case ConstBool:
			return fmt.Sprintf("%t", e.boolVal)
		case ConstInt:
			return fmt.Sprintf("%d", e.intVal)
		case ConstDouble:
			return fmt.Sprintf("%g", e.doubleVal)
		default:
			return "<const>"
		}
	case KindIdentifier:
		return e.Operator
	case KindUnary:
		return e.Operator + e.Sub[0].String()
	case KindBinary:
		return fmt.Sprintf("(%s %s %s)", e.Sub[0], e.Operator, e.Sub[1])
	case KindTernary:
		return fmt.Sprintf("(%s ? %s : %s)", e.Sub[0], e.Sub[1], e.Sub[2])
	case KindCall:
		args := make([]string, len(e.Args()))
		for i, a := range e.Args() {
			args[i] = a.String()
		}

		return fmt.Sprintf("%s(%s)", e.Callee(), strings.Join(args, ", "))
	case KindDot:
		return fmt.Sprintf("%s.%s", e.Sub[0], e.Label)
	case KindSubscript:
		return fmt.Sprintf("%s[%s]", e.Sub[0], e.Sub[1])
	case KindComma:
		return fmt.Sprintf("%s, %s", e.Sub[0], e.Sub[1])
	case KindSync:
		return fmt.Sprintf("%s%s", e.Sub[0], e.Operator)
	case KindInlineIf:
		return fmt.Sprintf("(%s ? %s : %s)", e.Sub[0], e.Sub[1], e.Sub[2])
	case KindDeadlock:
		return "deadlock"
	case KindForall, KindExists, KindSum:
		return fmt.Sprintf("%s(...)", e.Kind)
	case KindList:
		parts := make([]string, len(e.Sub))
		for i, s := range e.Sub {
			parts[i] = s.String()
		}

		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<expr>"
	}
}
