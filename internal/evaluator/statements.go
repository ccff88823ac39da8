package evaluator

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/object"
)

// exec runs one statement. It returns nil to continue, a *ReturnValue to
// unwind to the enclosing call or an *object.Fault to abort the run.
func (e *Evaluator) exec(stmt ast.Statement) object.Object {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		return e.execBlock(s)
	case *ast.VarDeclaration:
		return fault(e.execVarDeclaration(s))
	case *ast.AssignStatement:
		return fault(e.execAssign(s))
	case *ast.IfStatement:
		return e.execIf(s)
	case *ast.WhileStatement:
		return e.execWhile(s)
	case *ast.ForeachStatement:
		return e.execForeach(s)
	case *ast.ReturnStatement:
		return e.execReturn(s)
	case *ast.ExpressionStatement:
		if f := e.eval(s.Expression); f != nil {
			return f
		}
		e.pop()
		return nil
	case *ast.TransferToStatement:
		return fault(e.execTransferTo(s))
	case *ast.TransferFromStatement:
		return fault(e.execTransferFrom(s))
	}
	return object.NewFault(object.FaultUnsupportedOperation, "unsupported statement %T", stmt).At(stmt.GetToken())
}

// fault converts a possibly nil *Fault to a control value without producing
// a typed nil interface.
func fault(f *object.Fault) object.Object {
	if f == nil {
		return nil
	}
	return f
}

// execBlock runs statements in a fresh child scope. The scope is left on
// every exit path, including returns and faults.
func (e *Evaluator) execBlock(b *ast.BlockStatement) object.Object {
	e.scope.Push()
	defer e.scope.Pop()
	return e.execStatements(b.Statements)
}

func (e *Evaluator) execStatements(stmts []ast.Statement) object.Object {
	for _, stmt := range stmts {
		if res := e.exec(stmt); isSignal(res) {
			return res
		}
	}
	return nil
}

func (e *Evaluator) execReturn(s *ast.ReturnStatement) object.Object {
	if s.Value == nil {
		return &ReturnValue{Value: object.EMPTY}
	}
	if f := e.eval(s.Value); f != nil {
		return f
	}
	return &ReturnValue{Value: e.pop()}
}

// condition evaluates a boolean expression.
func (e *Evaluator) condition(expr ast.Expression) (bool, *object.Fault) {
	if f := e.eval(expr); f != nil {
		return false, f
	}
	v := e.pop()
	b, ok := v.(*object.Boolean)
	if !ok {
		return false, object.NewFault(object.FaultUnsupportedOperation, "condition is %s, not bool", v.RuntimeType()).At(expr.GetToken())
	}
	return b.Value, nil
}
