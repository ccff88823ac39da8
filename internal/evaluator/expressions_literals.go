package evaluator

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/typesystem"
)

// eval computes expr and pushes its value. On a fault nothing is pushed.
func (e *Evaluator) eval(expr ast.Expression) *object.Fault {
	switch n := expr.(type) {
	case *ast.Identifier:
		v, ok := e.scope.Lookup(n.Value)
		if !ok {
			return object.NewFault(object.FaultUnresolvedVariable, "undefined: %s", n.Value).At(n.Token)
		}
		e.push(v)
	case *ast.IntegerLiteral:
		e.push(&object.Integer{Value: n.Value})
	case *ast.DecimalLiteral:
		e.push(&object.Decimal{Value: n.Value})
	case *ast.BooleanLiteral:
		e.push(object.NativeBool(n.Value))
	case *ast.StringLiteral:
		e.push(&object.String{Value: n.Value})
	case *ast.CurrencyLiteral:
		e.push(&object.Currency{Code: n.Code, Amount: n.Amount})
	case *ast.NullLiteral:
		e.push(object.NULL)
	case *ast.TypeLiteral:
		t, err := e.registry.ResolveType(n.Type)
		if err != nil {
			return object.NewFault(object.FaultUnsupportedOperation, "%s", err).At(n.Token)
		}
		e.push(&object.TypeValue{Wrapped: t})
	case *ast.LambdaExpression:
		return e.evalLambda(n)
	case *ast.BinaryExpression:
		return e.evalBinary(n)
	case *ast.UnaryExpression:
		return e.evalUnary(n)
	case *ast.ConversionExpression:
		return e.evalConversion(n)
	case *ast.CallExpression:
		return e.evalCall(n)
	case *ast.MethodCallExpression:
		return e.evalMethodCall(n)
	case *ast.PropertyExpression:
		return e.evalProperty(n)
	case *ast.IndexExpression:
		return e.evalIndex(n)
	case *ast.NewExpression:
		return e.evalNew(n)
	default:
		return object.NewFault(object.FaultUnsupportedOperation, "unsupported expression %T", expr).At(expr.GetToken())
	}
	return nil
}

// evalLambda creates a delegate. Nothing is captured: the body sees the
// scope of whoever invokes it.
func (e *Evaluator) evalLambda(n *ast.LambdaExpression) *object.Fault {
	pt, err := e.registry.ResolveType(n.Parameter.Type)
	if err != nil {
		return object.NewFault(object.FaultUnsupportedOperation, "%s", err).At(n.Parameter.Token)
	}
	var result typesystem.Type
	if lt, ok := e.TypeMap[n].(typesystem.TApp); ok {
		result = lt.Result
	}
	e.push(&object.Delegate{Param: n.Parameter.Name, ParamType: pt, Result: result, Body: n.Body})
	return nil
}
