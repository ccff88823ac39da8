package analyzer

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/typesystem"
)

func (w *walker) checkBlock(block *ast.BlockStatement) {
	w.scope.Push()
	defer w.scope.Pop()
	for _, stmt := range block.Statements {
		w.checkStatement(stmt)
	}
}

func (w *walker) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		w.checkBlock(s)
	case *ast.VarDeclaration:
		w.checkVarDeclaration(s)
	case *ast.AssignStatement:
		w.checkAssign(s)
	case *ast.IfStatement:
		w.expectBool(s.Condition, "if condition")
		w.checkBlock(s.Consequence)
		if s.Alternative != nil {
			w.checkStatement(s.Alternative)
		}
	case *ast.WhileStatement:
		w.expectBool(s.Condition, "while condition")
		w.checkBlock(s.Body)
	case *ast.ForeachStatement:
		w.checkForeach(s)
	case *ast.ReturnStatement:
		w.checkReturn(s)
	case *ast.ExpressionStatement:
		w.expr(s.Expression)
	case *ast.TransferToStatement:
		w.checkTransfer(s.Account, s.Amount, s.Percentage, s.Target)
	case *ast.TransferFromStatement:
		w.checkTransfer(s.Account, s.Amount, s.Percentage, s.Source)
	default:
		w.errorf(diagnostics.ErrA003, stmt.GetToken(), "unsupported statement %T", stmt)
	}
}

func (w *walker) expectBool(e ast.Expression, what string) {
	t := w.expr(e)
	if t != nil && !typesystem.IsBool(t) {
		w.typeError(e.GetToken(), types(t), types(typesystem.Bool), "%s must be bool", what)
	}
}

func (w *walker) checkVarDeclaration(s *ast.VarDeclaration) {
	var declared typesystem.Type
	if s.Type.IsVar() {
		if s.Value == nil {
			w.errorf(diagnostics.ErrA005, s.Token, "cannot infer the type of %s without an initializer", s.Name)
		} else {
			declared = w.expr(s.Value)
		}
		switch {
		case declared == nil:
		case typesystem.IsNull(declared):
			w.errorf(diagnostics.ErrA005, s.Token, "cannot infer the type of %s from null", s.Name)
			declared = nil
		case typesystem.IsNone(declared):
			w.typeError(s.Value.GetToken(), types(declared), nil, "%s is initialized with a value of type void", s.Name)
			declared = nil
		}
	} else {
		declared = w.resolveType(s.Type)
		if s.Value != nil {
			vt := w.expr(s.Value)
			if declared != nil && vt != nil && !compatible(declared, vt) {
				w.typeError(s.Value.GetToken(), types(vt), types(declared),
					"cannot initialize %s %s with %s", declared, s.Name, vt)
			}
		}
		if declared != nil && typesystem.IsNone(declared) {
			w.errorf(diagnostics.ErrA003, s.Token, "variable %s cannot be void", s.Name)
		}
	}
	if err := w.scope.Declare(s.Name, declared); err != nil {
		w.errorf(diagnostics.ErrA004, s.Token, "%s is already declared in this scope", s.Name)
	}
}

func (w *walker) checkAssign(s *ast.AssignStatement) {
	var target typesystem.Type
	switch t := s.Target.(type) {
	case *ast.Identifier:
		target = w.expr(t)
	case *ast.IndexExpression:
		target = w.expr(t)
	case *ast.PropertyExpression:
		if prop := w.propertyOf(t); prop != nil {
			target = prop.Type
			w.TypeMap[t] = target
			if prop.Set == nil {
				w.errorf(diagnostics.ErrA003, t.Token, "property %s is read-only", t.Property)
			}
		}
	default:
		w.errorf(diagnostics.ErrA003, s.Token, "cannot assign to %T", s.Target)
		w.expr(s.Value)
		return
	}
	vt := w.expr(s.Value)
	if target != nil && vt != nil && !compatible(target, vt) {
		w.typeError(s.Value.GetToken(), types(vt), types(target), "cannot assign %s to %s", vt, target)
	}
}

func (w *walker) checkForeach(s *ast.ForeachStatement) {
	ct := w.expr(s.Collection)
	var elem typesystem.Type
	if ct != nil {
		if typesystem.IsGeneric(ct, config.CollectionClassName) {
			elem = typesystem.ParamOf(ct)
		} else {
			w.typeError(s.Collection.GetToken(), types(ct), types(typesystem.TApp{Name: config.CollectionClassName}),
				"foreach needs a collection")
		}
	}
	vt := w.resolveType(s.VarType)
	if vt != nil && elem != nil && !typesystem.Equal(vt, elem) {
		w.typeError(s.VarType.GetToken(), types(vt), types(elem), "loop variable %s has the wrong type", s.VarName)
	}
	if vt == nil {
		vt = elem
	}

	w.scope.Push()
	defer w.scope.Pop()
	w.scope.Define(s.VarName, vt)
	w.checkBlock(s.Body)
}

func (w *walker) checkReturn(s *ast.ReturnStatement) {
	if w.fn == nil {
		w.errorf(diagnostics.ErrA007, s.Token, "return outside of a function")
		return
	}
	w.fn.sawReturn = true

	var vt typesystem.Type = typesystem.None
	if s.Value != nil {
		vt = w.expr(s.Value)
		if vt == nil {
			return
		}
	}

	if w.fn.lambda {
		if w.fn.inferred == nil {
			w.fn.inferred = vt
			return
		}
		if !compatible(w.fn.inferred, vt) {
			w.typeError(s.Token, types(vt), types(w.fn.inferred), "lambda returns both %s and %s", w.fn.inferred, vt)
		}
		return
	}

	want := w.fn.returns
	switch {
	case typesystem.IsNone(want) && s.Value != nil:
		w.report(diagnostics.NewError(diagnostics.ErrA007, s.Token, "void function cannot return a value").
			WithTypes(types(vt), types(want)))
	case !typesystem.IsNone(want) && s.Value == nil:
		w.report(diagnostics.NewError(diagnostics.ErrA007, s.Token, "missing return value").
			WithTypes(nil, types(want)))
	case !compatible(want, vt):
		w.typeError(s.Value.GetToken(), types(vt), types(want), "cannot return %s from a function returning %s", vt, want)
	}
}
