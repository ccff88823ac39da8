package analyzer

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/typesystem"
)

// expr returns the type of e and records it in TypeMap.
// A nil type marks an expression whose error has already been reported;
// checks that see it stay silent so one mistake yields one diagnostic.
func (w *walker) expr(e ast.Expression) typesystem.Type {
	t := w.exprType(e)
	if t != nil {
		w.TypeMap[e] = t
	}
	return t
}

func (w *walker) exprType(e ast.Expression) typesystem.Type {
	switch n := e.(type) {
	case *ast.Identifier:
		t, ok := w.scope.Lookup(n.Value)
		if !ok {
			w.bail(diagnostics.NewError(diagnostics.ErrA001, n.Token, "undefined: %s", n.Value))
		}
		return t
	case *ast.IntegerLiteral:
		return typesystem.Int
	case *ast.DecimalLiteral:
		return typesystem.Decimal
	case *ast.BooleanLiteral:
		return typesystem.Bool
	case *ast.StringLiteral:
		return typesystem.String
	case *ast.CurrencyLiteral:
		if !w.registry.IsCurrency(n.Code) {
			w.errorf(diagnostics.ErrA002, n.Token, "unknown currency %s", n.Code)
			return nil
		}
		return typesystem.Currency(n.Code)
	case *ast.NullLiteral:
		return typesystem.Null
	case *ast.TypeLiteral:
		t := w.resolveType(n.Type)
		if t == nil {
			return nil
		}
		return typesystem.TType{Type: t}
	case *ast.BinaryExpression:
		return w.binary(n)
	case *ast.UnaryExpression:
		return w.unary(n)
	case *ast.ConversionExpression:
		return w.conversion(n)
	case *ast.LambdaExpression:
		return w.lambda(n)
	case *ast.CallExpression:
		return w.call(n)
	case *ast.MethodCallExpression:
		return w.methodCall(n)
	case *ast.PropertyExpression:
		if p := w.propertyOf(n); p != nil {
			return p.Type
		}
		return nil
	case *ast.IndexExpression:
		return w.index(n)
	case *ast.NewExpression:
		return w.construct(n)
	case *ast.BlockStatement:
		w.errorf(diagnostics.ErrA003, n.Token, "a block is not an expression")
		return nil
	}
	w.errorf(diagnostics.ErrA003, e.GetToken(), "unsupported expression %T", e)
	return nil
}

func isArithmetic(op string) bool {
	return op == "+" || op == "-" || op == "*" || op == "/"
}

func isOrdering(op string) bool {
	return op == "<" || op == "<=" || op == ">" || op == ">="
}

func (w *walker) binary(n *ast.BinaryExpression) typesystem.Type {
	l := w.expr(n.Left)
	r := w.expr(n.Right)
	if l == nil || r == nil {
		return nil
	}
	if t := binaryResult(n.Operator, l, r); t != nil {
		return t
	}
	w.typeError(n.Token, types(l, r), expectedOperands(n.Operator, l),
		"operator %s not defined for %s and %s", n.Operator, l, r)
	return nil
}

// binaryResult implements the operator table. It returns nil for invalid operands.
func binaryResult(op string, l, r typesystem.Type) typesystem.Type {
	numeric := typesystem.IsNumeric(l) && typesystem.IsNumeric(r)
	currencies := typesystem.IsCurrency(l) && typesystem.IsCurrency(r)
	switch {
	case isArithmetic(op):
		switch {
		case typesystem.IsInt(l) && typesystem.IsInt(r):
			return typesystem.Int
		case numeric:
			return typesystem.Decimal
		case currencies && (op == "+" || op == "-"):
			return l
		case typesystem.IsCurrency(l) && typesystem.IsNumeric(r) && (op == "*" || op == "/"):
			return l
		case typesystem.IsNumeric(l) && typesystem.IsCurrency(r) && op == "*":
			return r
		case op == "+" && typesystem.IsString(l) && typesystem.IsString(r):
			return typesystem.String
		}
	case isOrdering(op):
		if numeric || currencies {
			return typesystem.Bool
		}
	case op == "==" || op == "!=":
		switch {
		case numeric, currencies:
			return typesystem.Bool
		case typesystem.Equal(l, r):
			return typesystem.Bool
		case typesystem.IsNull(l) && typesystem.IsReference(r), typesystem.IsNull(r) && typesystem.IsReference(l):
			return typesystem.Bool
		}
	case op == "&&" || op == "||":
		if typesystem.IsBool(l) && typesystem.IsBool(r) {
			return typesystem.Bool
		}
	}
	return nil
}

func expectedOperands(op string, l typesystem.Type) []typesystem.Type {
	switch {
	case isArithmetic(op), isOrdering(op):
		if typesystem.IsCurrency(l) {
			return types(l, typesystem.Int, typesystem.Decimal)
		}
		return types(typesystem.Int, typesystem.Decimal)
	case op == "&&" || op == "||":
		return types(typesystem.Bool)
	}
	return types(l)
}

func (w *walker) unary(n *ast.UnaryExpression) typesystem.Type {
	t := w.expr(n.Right)
	if t == nil {
		return nil
	}
	switch n.Operator {
	case "-":
		if typesystem.IsNumeric(t) || typesystem.IsCurrency(t) {
			return t
		}
		w.typeError(n.Token, types(t), types(typesystem.Int, typesystem.Decimal), "cannot negate %s", t)
	case "!":
		if typesystem.IsBool(t) {
			return t
		}
		w.typeError(n.Token, types(t), types(typesystem.Bool), "cannot apply ! to %s", t)
	default:
		w.errorf(diagnostics.ErrA003, n.Token, "unknown operator %s", n.Operator)
	}
	return nil
}

func convertible(t typesystem.Type) bool {
	return typesystem.IsNumeric(t) || typesystem.IsCurrency(t)
}

func (w *walker) conversion(n *ast.ConversionExpression) typesystem.Type {
	src := w.expr(n.Value)
	dst := w.resolveType(n.Target)
	if src == nil || dst == nil {
		return dst
	}
	if !convertible(src) || !convertible(dst) {
		w.typeError(n.Token, types(src, dst), types(typesystem.Int, typesystem.Decimal),
			"cannot convert %s to %s", src, dst)
		return nil
	}
	return dst
}

// lambda checks a delegate literal. The body is checked in a child of the
// current scope, the scope it will run in.
func (w *walker) lambda(n *ast.LambdaExpression) typesystem.Type {
	pt := w.resolveType(n.Parameter.Type)

	w.scope.Push()
	defer w.scope.Pop()
	w.scope.Define(n.Parameter.Name, pt)

	var result typesystem.Type
	if block := n.BlockBody(); block != nil {
		outer := w.fn
		w.fn = &funcContext{lambda: true}
		defer func() { w.fn = outer }()
		w.checkBlock(block)
		result = w.fn.inferred
		if result == nil {
			result = typesystem.None
		}
	} else {
		result = w.expr(n.Body)
	}
	if pt == nil {
		return nil
	}
	return object.LambdaType(pt, result)
}

func isLambda(t typesystem.Type) bool {
	return typesystem.IsGeneric(t, config.LambdaClassName)
}
