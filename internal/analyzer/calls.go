package analyzer

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/symbols"
	"github.com/funvibe/tally/internal/typesystem"
)

// args types every argument. ok is false when one of them already failed.
func (w *walker) args(exprs []ast.Expression) (ts []typesystem.Type, ok bool) {
	ts = make([]typesystem.Type, len(exprs))
	ok = true
	for i, e := range exprs {
		ts[i] = w.expr(e)
		if ts[i] == nil {
			ok = false
		}
	}
	return ts, ok
}

// checkArgs compares arguments against a resolved signature beyond identity,
// so a lambda with the wrong result type is caught.
func (w *walker) checkArgs(sig symbols.Signature, exprs []ast.Expression, ts []typesystem.Type) {
	if sig.Variadic {
		for i, t := range ts {
			if typesystem.IsNone(t) {
				w.typeError(exprs[i].GetToken(), types(t), nil, "void value used as an argument")
			}
		}
		return
	}
	for i, p := range sig.Params {
		if !compatible(p, ts[i]) {
			w.typeError(exprs[i].GetToken(), types(ts[i]), types(p), "argument %d of %s", i+1, sig.Name)
		}
	}
}

func (w *walker) call(n *ast.CallExpression) typesystem.Type {
	ts, ok := w.args(n.Arguments)

	if t, found := w.scope.Lookup(n.Function); found {
		if t == nil {
			return nil
		}
		if !isLambda(t) {
			w.typeError(n.Token, types(t), types(typesystem.TApp{Name: config.LambdaClassName}), "%s is not callable", n.Function)
			return nil
		}
		lt := t.(typesystem.TApp)
		if len(ts) != 1 {
			w.errorf(diagnostics.ErrA006, n.Token, "lambda %s takes exactly one argument, got %d", n.Function, len(ts))
			return lt.Result
		}
		if ok && !compatible(lt.Param, ts[0]) {
			w.typeError(n.Arguments[0].GetToken(), types(ts[0]), types(lt.Param), "argument of %s", n.Function)
		}
		return lt.Result
	}

	if !ok {
		return nil
	}
	fn, found := w.registry.Function(n.Function, ts)
	if !found {
		w.report(diagnostics.NewError(diagnostics.ErrA006, n.Token, "no function %s", symbols.NewSignature(n.Function, ts...)).
			WithTypes(ts, candidateTypes(w.registry.Functions.Candidates(n.Function))))
		return nil
	}
	w.checkArgs(fn.Signature, n.Arguments, ts)
	return fn.Returns
}

// classOf returns the class descriptor of a receiver type, reporting when there is none.
func (w *walker) classOf(e ast.Expression, t typesystem.Type) *symbols.Class {
	if !typesystem.IsReference(t) {
		w.typeError(e.GetToken(), types(t), nil, "%s has no members", t)
		return nil
	}
	class, err := w.registry.Class(t)
	if err != nil {
		w.errorf(diagnostics.ErrA006, e.GetToken(), "%s", err)
		return nil
	}
	return class
}

func (w *walker) methodCall(n *ast.MethodCallExpression) typesystem.Type {
	recv := w.expr(n.Object)
	ts, ok := w.args(n.Arguments)
	if recv == nil || !ok {
		return nil
	}
	class := w.classOf(n.Object, recv)
	if class == nil {
		return nil
	}
	fn, found := class.Method(n.Method, ts)
	if !found {
		w.report(diagnostics.NewError(diagnostics.ErrA006, n.Token, "%s has no method %s",
			class.Type, symbols.NewSignature(n.Method, ts...)).
			WithTypes(ts, candidateTypes(class.Methods.Candidates(n.Method))))
		return nil
	}
	w.checkArgs(fn.Signature, n.Arguments, ts)
	return fn.Returns
}

// propertyOf resolves a property access, returning nil after reporting.
func (w *walker) propertyOf(n *ast.PropertyExpression) *symbols.Property {
	recv := w.expr(n.Object)
	if recv == nil {
		return nil
	}
	class := w.classOf(n.Object, recv)
	if class == nil {
		return nil
	}
	p, ok := class.Property(n.Property)
	if !ok {
		w.errorf(diagnostics.ErrA006, n.Token, "%s has no property %s", class.Type, n.Property)
		return nil
	}
	return p
}

func (w *walker) index(n *ast.IndexExpression) typesystem.Type {
	ct := w.expr(n.Left)
	it := w.expr(n.Index)
	if it != nil && !typesystem.IsInt(it) {
		w.typeError(n.Index.GetToken(), types(it), types(typesystem.Int), "index must be int")
	}
	if ct == nil {
		return nil
	}
	if !typesystem.IsGeneric(ct, config.CollectionClassName) {
		w.typeError(n.Left.GetToken(), types(ct), types(typesystem.TApp{Name: config.CollectionClassName}),
			"cannot index %s", ct)
		return nil
	}
	return typesystem.ParamOf(ct)
}

func (w *walker) construct(n *ast.NewExpression) typesystem.Type {
	ts, ok := w.args(n.Arguments)
	proto, found := w.registry.Prototype(n.Class.Name)
	if !found {
		w.errorf(diagnostics.ErrA002, n.Class.Token, "unknown class %s", n.Class.Name)
		return nil
	}
	if !ok {
		return nil
	}

	var param typesystem.Type
	if n.Class.Param != nil {
		if param = w.resolveType(n.Class.Param); param == nil {
			return nil
		}
	} else {
		param = proto.InferParam(ts)
	}
	class, err := proto.Instantiate(param)
	if err != nil {
		w.errorf(diagnostics.ErrA005, n.Class.Token, "cannot instantiate %s: %s", n.Class, err)
		return nil
	}
	ctor, found := class.Constructor(ts)
	if !found {
		w.report(diagnostics.NewError(diagnostics.ErrA006, n.Token, "no constructor %s",
			symbols.NewSignature(n.Class.String(), ts...)).
			WithTypes(ts, candidateTypes(class.Constructors.Candidates(class.Name))))
		return nil
	}
	w.checkArgs(ctor.Signature, n.Arguments, ts)
	return class.Type
}

// candidateTypes flattens the parameter lists of the candidates for the expected set.
func candidateTypes(sigs []symbols.Signature) []typesystem.Type {
	var out []typesystem.Type
	for _, s := range sigs {
		out = append(out, s.Params...)
	}
	return out
}
