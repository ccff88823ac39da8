package evaluator

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/typesystem"
	"github.com/shopspring/decimal"
)

func (e *Evaluator) execVarDeclaration(s *ast.VarDeclaration) *object.Fault {
	var declared typesystem.Type
	if !s.Type.IsVar() {
		t, err := e.registry.ResolveType(s.Type)
		if err != nil {
			return object.NewFault(object.FaultUnsupportedOperation, "%s", err).At(s.Type.Token)
		}
		declared = t
	}

	var v object.Object
	if s.Value == nil {
		v = zeroValue(declared)
	} else {
		if f := e.eval(s.Value); f != nil {
			return f
		}
		v = e.pop()
		if _, null := v.(*object.Null); null && typesystem.IsReference(declared) {
			v = object.NullReference(declared)
		}
	}
	if err := e.scope.Declare(s.Name, v); err != nil {
		return object.NewFault(object.FaultUnresolvedVariable, "%s", err).At(s.Token)
	}
	return nil
}

// zeroValue is the value of a variable declared without an initializer.
func zeroValue(t typesystem.Type) object.Object {
	switch {
	case t == nil:
		return object.NULL
	case typesystem.IsReference(t):
		return object.NullReference(t)
	case typesystem.IsInt(t):
		return &object.Integer{Value: 0}
	case typesystem.IsDecimal(t):
		return &object.Decimal{Value: decimal.Zero}
	case typesystem.IsBool(t):
		return object.FALSE
	case typesystem.IsString(t):
		return &object.String{Value: ""}
	case typesystem.IsCurrency(t):
		return &object.Currency{Code: t.Identity(), Amount: decimal.Zero}
	}
	return object.NULL
}

// execAssign evaluates the target's receiver and index before the value.
func (e *Evaluator) execAssign(s *ast.AssignStatement) *object.Fault {
	switch t := s.Target.(type) {
	case *ast.Identifier:
		if f := e.eval(s.Value); f != nil {
			return f
		}
		v := e.pop()
		if _, null := v.(*object.Null); null {
			if cur, ok := e.scope.Lookup(t.Value); ok {
				if ref, ok := cur.(*object.Reference); ok {
					v = object.NullReference(ref.Class)
				}
			}
		}
		if err := e.scope.Assign(t.Value, v); err != nil {
			return object.NewFault(object.FaultUnresolvedVariable, "%s", err).At(t.Token)
		}
		return nil

	case *ast.IndexExpression:
		coll, i, f := e.indexTarget(t)
		if f != nil {
			return f
		}
		if f := e.eval(s.Value); f != nil {
			return f
		}
		return coll.SetAt(i, e.pop()).At(t.Token)

	case *ast.PropertyExpression:
		self, prop, f := e.propertyTarget(t)
		if f != nil {
			return f
		}
		if prop.Set == nil {
			return object.NewFault(object.FaultUnresolvedProperty, "property %s is read-only", t.Property).At(t.Token)
		}
		if f := e.eval(s.Value); f != nil {
			return f
		}
		return prop.Set(self, e.pop()).At(t.Token)
	}
	return object.NewFault(object.FaultUnsupportedOperation, "cannot assign to %T", s.Target).At(s.Token)
}
