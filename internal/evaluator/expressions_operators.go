package evaluator

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/typesystem"
	"github.com/shopspring/decimal"
)

func (e *Evaluator) evalBinary(n *ast.BinaryExpression) *object.Fault {
	if n.Operator == "&&" || n.Operator == "||" {
		return e.evalLogical(n)
	}
	if f := e.eval(n.Left); f != nil {
		return f
	}
	if f := e.eval(n.Right); f != nil {
		return f
	}
	right := e.pop()
	left := e.pop()

	v, f := e.binaryOp(n.Operator, left, right)
	if f != nil {
		return f.At(n.Token)
	}
	e.push(v)
	return nil
}

// evalLogical short-circuits: the right operand runs only when needed.
func (e *Evaluator) evalLogical(n *ast.BinaryExpression) *object.Fault {
	left, f := e.condition(n.Left)
	if f != nil {
		return f
	}
	if (n.Operator == "&&" && !left) || (n.Operator == "||" && left) {
		e.push(object.NativeBool(left))
		return nil
	}
	right, f := e.condition(n.Right)
	if f != nil {
		return f
	}
	e.push(object.NativeBool(right))
	return nil
}

func (e *Evaluator) binaryOp(op string, left, right object.Object) (object.Object, *object.Fault) {
	if op == "==" || op == "!=" {
		l, r, f := e.normalize(op, left, right)
		if f != nil {
			return nil, f
		}
		eq := object.Equal(l, r)
		if op == "!=" {
			eq = !eq
		}
		return object.NativeBool(eq), nil
	}

	if op == "+" {
		if ls, ok := left.(*object.String); ok {
			if rs, ok := right.(*object.String); ok {
				return ls.Concat(rs), nil
			}
		}
	}

	l, r, f := e.normalize(op, left, right)
	if f != nil {
		return nil, f
	}
	switch op {
	case "+", "-", "*", "/":
		a, ok := l.(object.Arithmetic)
		if !ok {
			return nil, unsupported(op, l, r)
		}
		switch op {
		case "+":
			return a.Add(r)
		case "-":
			return a.Sub(r)
		case "*":
			return a.Mul(r)
		default:
			return a.Div(r)
		}
	case "<", "<=", ">", ">=":
		o, ok := l.(object.Ordered)
		if !ok {
			return nil, unsupported(op, l, r)
		}
		var res bool
		switch op {
		case "<":
			res, f = o.Less(r)
		case "<=":
			res, f = o.LessEq(r)
		case ">":
			res, f = o.Greater(r)
		default:
			res, f = o.GreaterEq(r)
		}
		if f != nil {
			return nil, f
		}
		return object.NativeBool(res), nil
	}
	return nil, unsupported(op, l, r)
}

// normalize brings both operands to a common representation:
// int with decimal becomes decimal, a currency on the right is converted
// to the left currency, and number * currency is swapped to currency * number.
func (e *Evaluator) normalize(op string, l, r object.Object) (object.Object, object.Object, *object.Fault) {
	switch lv := l.(type) {
	case *object.Integer:
		switch rv := r.(type) {
		case *object.Decimal:
			return &object.Decimal{Value: decimal.NewFromInt(lv.Value)}, rv, nil
		case *object.Currency:
			if op == "*" {
				return rv, lv, nil
			}
		}
	case *object.Decimal:
		switch rv := r.(type) {
		case *object.Integer:
			return lv, &object.Decimal{Value: decimal.NewFromInt(rv.Value)}, nil
		case *object.Currency:
			if op == "*" {
				return rv, lv, nil
			}
		}
	case *object.Currency:
		if rv, ok := r.(*object.Currency); ok && rv.Code != lv.Code {
			conv, f := rv.ConvertTo(typesystem.Currency(lv.Code), e.registry.Rates)
			if f != nil {
				return nil, nil, f
			}
			return lv, conv, nil
		}
	}
	return l, r, nil
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpression) *object.Fault {
	if f := e.eval(n.Right); f != nil {
		return f
	}
	v := e.pop()
	switch n.Operator {
	case "-":
		neg, ok := v.(object.Negatable)
		if !ok {
			return unsupported(n.Operator, v, nil).At(n.Token)
		}
		res, f := neg.Negate()
		if f != nil {
			return f.At(n.Token)
		}
		e.push(res)
		return nil
	case "!":
		b, ok := v.(*object.Boolean)
		if !ok {
			return unsupported(n.Operator, v, nil).At(n.Token)
		}
		e.push(object.NativeBool(!b.Value))
		return nil
	}
	return unsupported(n.Operator, v, nil).At(n.Token)
}

func (e *Evaluator) evalConversion(n *ast.ConversionExpression) *object.Fault {
	if f := e.eval(n.Value); f != nil {
		return f
	}
	v := e.pop()
	target, err := e.registry.ResolveType(n.Target)
	if err != nil {
		return object.NewFault(object.FaultUnsupportedOperation, "%s", err).At(n.Target.Token)
	}
	conv, ok := v.(object.Convertible)
	if !ok {
		return object.NewFault(object.FaultUnsupportedOperation, "cannot convert %s to %s", v.RuntimeType(), target).At(n.Token)
	}
	res, f := conv.ConvertTo(target, e.registry.Rates)
	if f != nil {
		return f.At(n.Token)
	}
	e.push(res)
	return nil
}

func unsupported(op string, l, r object.Object) *object.Fault {
	if r == nil {
		return object.NewFault(object.FaultUnsupportedOperation, "operator %s not supported for %s", op, l.RuntimeType())
	}
	return object.NewFault(object.FaultUnsupportedOperation, "operator %s not supported for %s and %s",
		op, l.RuntimeType(), r.RuntimeType())
}
