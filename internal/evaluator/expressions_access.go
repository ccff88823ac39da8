package evaluator

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/symbols"
)

// receiver evaluates the object of a member access and dereferences it.
func (e *Evaluator) receiver(expr ast.Expression) (object.Referent, *symbols.Class, *object.Fault) {
	if f := e.eval(expr); f != nil {
		return nil, nil, f
	}
	self, f := deref(e.pop())
	if f != nil {
		return nil, nil, f.At(expr.GetToken())
	}
	class, err := e.registry.Class(self.Base().Class)
	if err != nil {
		return nil, nil, object.NewFault(object.FaultUnresolvedMethod, "%s", err).At(expr.GetToken())
	}
	return self, class, nil
}

func (e *Evaluator) evalMethodCall(n *ast.MethodCallExpression) *object.Fault {
	self, class, f := e.receiver(n.Object)
	if f != nil {
		return f
	}
	args, f := e.evalArgs(n.Arguments)
	if f != nil {
		return f
	}
	ts := e.argTypes(n.Arguments, args)
	fn, ok := class.Method(n.Method, ts)
	if !ok || !fn.IsNative() {
		return object.NewFault(object.FaultUnresolvedMethod, "%s has no method %s",
			class.Type, symbols.NewSignature(n.Method, ts...)).At(n.Token)
	}
	v, f := fn.Native(e.native(self), args)
	if f != nil {
		return f.At(n.Token)
	}
	e.push(v)
	return nil
}

// propertyTarget resolves the receiver and descriptor of a property access.
func (e *Evaluator) propertyTarget(n *ast.PropertyExpression) (object.Referent, *symbols.Property, *object.Fault) {
	self, class, f := e.receiver(n.Object)
	if f != nil {
		return nil, nil, f
	}
	p, ok := class.Property(n.Property)
	if !ok {
		return nil, nil, object.NewFault(object.FaultUnresolvedProperty, "%s has no property %s", class.Type, n.Property).At(n.Token)
	}
	return self, p, nil
}

func (e *Evaluator) evalProperty(n *ast.PropertyExpression) *object.Fault {
	self, p, f := e.propertyTarget(n)
	if f != nil {
		return f
	}
	e.push(p.Get(self))
	return nil
}

// indexTarget evaluates the collection and the index of an index expression.
func (e *Evaluator) indexTarget(n *ast.IndexExpression) (*object.Collection, int64, *object.Fault) {
	if f := e.eval(n.Left); f != nil {
		return nil, 0, f
	}
	if f := e.eval(n.Index); f != nil {
		e.pop()
		return nil, 0, f
	}
	idx := e.pop()
	target, f := deref(e.pop())
	if f != nil {
		return nil, 0, f.At(n.Left.GetToken())
	}
	coll, ok := target.(*object.Collection)
	if !ok {
		return nil, 0, object.NewFault(object.FaultUnsupportedOperation, "cannot index %s", target.Base().Class).At(n.Token)
	}
	i, ok := idx.(*object.Integer)
	if !ok {
		return nil, 0, object.NewFault(object.FaultUnsupportedOperation, "index must be int, got %s", idx.RuntimeType()).At(n.Index.GetToken())
	}
	return coll, i.Value, nil
}

func (e *Evaluator) evalIndex(n *ast.IndexExpression) *object.Fault {
	coll, i, f := e.indexTarget(n)
	if f != nil {
		return f
	}
	v, f := coll.At(i)
	if f != nil {
		return f.At(n.Token)
	}
	e.push(v)
	return nil
}
