package expr

// Fold reduces sub-trees of e whose operands are all literals into a single
// constant node, preserving the source position of the root of each folded
// sub-tree. It does not require type information: only unary/binary nodes
// over already-constant operands are folded, and unrecognized operators or
// mixed/invalid operand kinds are left untouched for the checker to reject.
func Fold(e *Expression) *Expression {
	if e == nil {
		return nil
	}

	if e.Kind != KindConst && len(e.Sub) > 0 {
		cp := *e
		cp.Sub = make([]*Expression, len(e.Sub))
		for i, s := range e.Sub {
			cp.Sub[i] = Fold(s)
		}
		e = &cp
	}

	switch e.Kind {
	case KindUnary:
		return foldUnary(e)
	case KindBinary:
		return foldBinary(e)
	default:
		return e
	}
}

func foldUnary(e *Expression) *Expression {
	operand := e.Sub[0]
	if !operand.IsConstant() {
		return e
	}

	switch e.Operator {
	case "-":
		if v, ok := operand.ConstInt(); ok {
			return NewConstInt(-v, e.Span)
		}

		if v, ok := operand.ConstDouble(); ok {
			return NewConstDouble(-v, e.Span)
		}
	case "!":
		if v, ok := operand.ConstBool(); ok {
			return NewConstBool(!v, e.Span)
		}
	case "+":
		cp := *operand
		cp.Span = e.Span

		return &cp
	}

	return e
}

func foldBinary(e *Expression) *Expression {
	lhs, rhs := e.Sub[0], e.Sub[1]
	if !lhs.IsConstant() || !rhs.IsConstant() {
		return e
	}

	if lb, ok := lhs.ConstBool(); ok {
		if rb, ok := rhs.ConstBool(); ok {
			return foldBoolBinary(e, lb, rb)
		}
	}

	li, liok := lhs.ConstInt()
	ri, riok := rhs.ConstInt()

	if liok && riok {
		if folded, ok := foldIntBinary(e, li, ri); ok {
			return folded
		}

		return e
	}

	ld, ldok := asDouble(lhs)
	rd, rdok := asDouble(rhs)

	if ldok && rdok {
		if folded, ok := foldDoubleBinary(e, ld, rd); ok {
			return folded
		}
	}

	return e
}

func asDouble(e *Expression) (float64, bool) {
	if v, ok := e.ConstDouble(); ok {
		return v, true
	}

	if v, ok := e.ConstInt(); ok {
		return float64(v), true
	}

	return 0, false
}

func foldIntBinary(e *Expression, l, r int64) (*Expression, bool) {
	switch e.Operator {
	case "+":
		return NewConstInt(l+r, e.Span), true
	case "-":
		return NewConstInt(l-r, e.Span), true
	case "*":
		return NewConstInt(l*r, e.Span), true
	case "/":
		if r == 0 {
			return nil, false
		}

		return NewConstInt(l/r, e.Span), true
	case "%":
		if r == 0 {
			return nil, false
		}

		return NewConstInt(l%r, e.Span), true
	case "==":
		return NewConstBool(l == r, e.Span), true
	case "!=":
		return NewConstBool(l != r, e.Span), true
	case "<":
		return NewConstBool(l < r, e.Span), true
	case "<=":
		return NewConstBool(l <= r, e.Span), true
	case ">":
		return NewConstBool(l > r, e.Span), true
	case ">=":
		return NewConstBool(l >= r, e.Span), true
	default:
		return nil, false
	}
}

func foldDoubleBinary(e *Expression, l, r float64) (*Expression, bool) {
	switch e.Operator {
	case "+":
		return NewConstDouble(l+r, e.Span), true
	case "-":
		return NewConstDouble(l-r, e.Span), true
	case "*":
		return NewConstDouble(l*r, e.Span), true
	case "/":
		if r == 0 {
			return nil, false
		}

		return NewConstDouble(l/r, e.Span), true
	case "==":
		return NewConstBool(l == r, e.Span), true
	case "!=":
		return NewConstBool(l != r, e.Span), true
	case "<":
		return NewConstBool(l < r, e.Span), true
	case "<=":
		return NewConstBool(l <= r, e.Span), true
	case ">":
		return NewConstBool(l > r, e.Span), true
	case ">=":
		return NewConstBool(l >= r, e.Span), true
	default:
		return nil, false
	}
}

func foldBoolBinary(e *Expression, l, r bool) *Expression {
	switch e.Operator {
	case "&&":
		return NewConstBool(l && r, e.Span)
	case "||":
		return NewConstBool(l || r, e.Span)
	case "==":
		return NewConstBool(l == r, e.Span)
	case "!=":
		return NewConstBool(l != r, e.Span)
	default:
		return e
	}
}
