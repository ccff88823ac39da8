package object

import (
	"fmt"

	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/typesystem"
)

// Delegate is a lambda value: one typed parameter and a body.
// It captures nothing; a call runs in a child of the caller's current scope.
type Delegate struct {
	Param     string
	ParamType typesystem.Type
	Result    typesystem.Type
	Body      ast.Expression // Expression or *ast.BlockStatement
}

// LambdaType is the type of delegates over param returning result.
func LambdaType(param, result typesystem.Type) typesystem.Type {
	return typesystem.TApp{Name: config.LambdaClassName, Param: param, Result: result}
}

func (d *Delegate) Type() ObjectType { return DELEGATE_OBJ }
func (d *Delegate) Inspect() string {
	return fmt.Sprintf("(%s %s) => %s", d.ParamType, d.Param, resultName(d.Result))
}
func (d *Delegate) RuntimeType() typesystem.Type { return LambdaType(d.ParamType, d.Result) }

// Eq is identity.
func (d *Delegate) Eq(other Object) bool {
	o, ok := other.(*Delegate)
	return ok && o == d
}

func resultName(t typesystem.Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}
