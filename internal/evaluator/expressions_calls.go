package evaluator

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/symbols"
	"github.com/funvibe/tally/internal/typesystem"
)

// evalArgs evaluates arguments left to right and returns them in order.
func (e *Evaluator) evalArgs(exprs []ast.Expression) ([]object.Object, *object.Fault) {
	for _, a := range exprs {
		if f := e.eval(a); f != nil {
			return nil, f
		}
	}
	args := make([]object.Object, len(exprs))
	for i := len(exprs) - 1; i >= 0; i-- {
		args[i] = e.pop()
	}
	return args, nil
}

// argTypes prefers the verified static types so overloads resolve the same
// way they did during verification.
func (e *Evaluator) argTypes(exprs []ast.Expression, args []object.Object) []typesystem.Type {
	ts := make([]typesystem.Type, len(args))
	for i, a := range args {
		if t, ok := e.TypeMap[exprs[i]]; ok && t != nil {
			ts[i] = t
		} else {
			ts[i] = a.RuntimeType()
		}
	}
	return ts
}

func (e *Evaluator) evalCall(n *ast.CallExpression) *object.Fault {
	if v, ok := e.scope.Lookup(n.Function); ok {
		return e.evalDelegateCall(n, v)
	}

	args, f := e.evalArgs(n.Arguments)
	if f != nil {
		return f
	}
	ts := e.argTypes(n.Arguments, args)
	fn, ok := e.registry.Function(n.Function, ts)
	if !ok {
		return object.NewFault(object.FaultUnresolvedFunction, "no function %s", symbols.NewSignature(n.Function, ts...)).At(n.Token)
	}
	res, f := e.callFunction(fn, args)
	if f != nil {
		return f.At(n.Token)
	}
	e.push(res)
	return nil
}

func (e *Evaluator) evalDelegateCall(n *ast.CallExpression, v object.Object) *object.Fault {
	d, ok := v.(*object.Delegate)
	if !ok {
		if object.IsNull(v) {
			return object.NewFault(object.FaultNullReference, "%s is null", n.Function).At(n.Token)
		}
		return object.NewFault(object.FaultUnresolvedFunction, "%s is not callable", n.Function).At(n.Token)
	}
	if len(n.Arguments) != 1 {
		return object.NewFault(object.FaultUnresolvedFunction, "lambda %s takes exactly one argument, got %d", n.Function, len(n.Arguments)).At(n.Token)
	}
	args, f := e.evalArgs(n.Arguments)
	if f != nil {
		return f
	}
	res, f := e.invokeDelegate(d, args[0])
	if f != nil {
		return f.At(n.Token)
	}
	e.push(res)
	return nil
}

// enter accounts for one more nested call.
func (e *Evaluator) enter() *object.Fault {
	if e.MaxCallDepth > 0 && e.depth >= e.MaxCallDepth {
		return object.NewFault(object.FaultStackOverflow, "call depth exceeds %d", e.MaxCallDepth)
	}
	e.depth++
	return nil
}

// callFunction runs a native or user function. A user function body runs in
// a fresh root scope holding only its parameters.
func (e *Evaluator) callFunction(fn *symbols.Function, args []object.Object) (object.Object, *object.Fault) {
	if fn.IsNative() {
		return fn.Native(e.native(nil), args)
	}
	if f := e.enter(); f != nil {
		return nil, f
	}
	defer func() { e.depth-- }()

	base, height := e.scope.Depth(), len(e.stack)
	e.scope.PushRoot()
	defer e.scope.Unwind(base)

	for i, p := range fn.Decl.Parameters {
		v := args[i]
		if _, null := v.(*object.Null); null && typesystem.IsReference(fn.Signature.Params[i]) {
			v = object.NullReference(fn.Signature.Params[i])
		}
		e.scope.Define(p.Name, v)
	}
	e.Logger.Debug("call", "function", fn.Signature.String(), "depth", e.depth)

	res := e.execBlock(fn.Decl.Body)
	if res == nil && !typesystem.IsNone(fn.Returns) {
		return nil, object.NewFault(object.FaultUnsupportedOperation,
			"function %s ended without returning a value", fn.Decl.Name)
	}
	return e.result(res, height)
}

// invokeDelegate runs a lambda body in a child of the caller's current scope.
func (e *Evaluator) invokeDelegate(d *object.Delegate, arg object.Object) (object.Object, *object.Fault) {
	if f := e.enter(); f != nil {
		return nil, f
	}
	defer func() { e.depth-- }()

	base, height := e.scope.Depth(), len(e.stack)
	e.scope.Push()
	defer e.scope.Unwind(base)
	e.scope.Define(d.Param, arg)

	if block, ok := d.Body.(*ast.BlockStatement); ok {
		return e.result(e.execBlock(block), height)
	}
	if f := e.eval(d.Body); f != nil {
		e.stack = e.stack[:height]
		return nil, f
	}
	return e.pop(), nil
}

// result turns the control value of a body into a call result. On a fault
// the value stack is cut back to height.
func (e *Evaluator) result(res object.Object, height int) (object.Object, *object.Fault) {
	switch r := res.(type) {
	case *object.Fault:
		if len(e.stack) > height {
			e.stack = e.stack[:height]
		}
		return nil, r
	case *ReturnValue:
		return r.Value, nil
	}
	return object.EMPTY, nil
}

func (e *Evaluator) evalNew(n *ast.NewExpression) *object.Fault {
	args, f := e.evalArgs(n.Arguments)
	if f != nil {
		return f
	}
	ts := e.argTypes(n.Arguments, args)

	proto, ok := e.registry.Prototype(n.Class.Name)
	if !ok {
		return object.NewFault(object.FaultUnresolvedConstructor, "unknown class %s", n.Class.Name).At(n.Token)
	}
	var param typesystem.Type
	if n.Class.Param != nil {
		var err error
		if param, err = e.registry.ResolveType(n.Class.Param); err != nil {
			return object.NewFault(object.FaultUnresolvedConstructor, "%s", err).At(n.Class.Token)
		}
	} else {
		param = proto.InferParam(ts)
	}
	class, err := proto.Instantiate(param)
	if err != nil {
		return object.NewFault(object.FaultUnresolvedConstructor, "%s", err).At(n.Token)
	}
	ctor, ok := class.Constructor(ts)
	if !ok || !ctor.IsNative() {
		return object.NewFault(object.FaultUnresolvedConstructor, "no constructor %s",
			symbols.NewSignature(n.Class.String(), ts...)).At(n.Token)
	}
	v, f := ctor.Native(e.native(nil), args)
	if f != nil {
		return f.At(n.Token)
	}
	e.push(v)
	return nil
}
