package evaluator

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/object"
)

func (e *Evaluator) execIf(s *ast.IfStatement) object.Object {
	ok, f := e.condition(s.Condition)
	if f != nil {
		return f
	}
	if ok {
		return e.execBlock(s.Consequence)
	}
	if s.Alternative != nil {
		return e.exec(s.Alternative)
	}
	return nil
}

func (e *Evaluator) execWhile(s *ast.WhileStatement) object.Object {
	for {
		ok, f := e.condition(s.Condition)
		if f != nil {
			return f
		}
		if !ok {
			return nil
		}
		if res := e.execBlock(s.Body); isSignal(res) {
			return res
		}
	}
}

// execForeach iterates a snapshot of the collection, so the body may add or
// delete items without affecting the iteration.
func (e *Evaluator) execForeach(s *ast.ForeachStatement) object.Object {
	if f := e.eval(s.Collection); f != nil {
		return f
	}
	target, f := deref(e.pop())
	if f != nil {
		return f.At(s.Collection.GetToken())
	}
	coll, ok := target.(*object.Collection)
	if !ok {
		return object.NewFault(object.FaultUnsupportedOperation, "cannot iterate %s", target.Base().Class).At(s.Collection.GetToken())
	}

	items := append([]object.Object(nil), coll.Items...)
	for _, item := range items {
		if res := e.iterate(s, item); isSignal(res) {
			return res
		}
	}
	return nil
}

// iterate runs one pass of a foreach body. The loop variable lives in its own
// frame and the body block gets a child of it.
func (e *Evaluator) iterate(s *ast.ForeachStatement, item object.Object) object.Object {
	e.scope.Push()
	defer e.scope.Pop()
	e.scope.Define(s.VarName, item)
	return e.execBlock(s.Body)
}

// deref resolves a reference value to its target.
func deref(v object.Object) (object.Referent, *object.Fault) {
	switch r := v.(type) {
	case *object.Reference:
		return r.Deref()
	case *object.Null:
		return nil, object.NewFault(object.FaultNullReference, "null reference")
	}
	return nil, object.NewFault(object.FaultUnsupportedOperation, "%s is not a reference", v.RuntimeType())
}
