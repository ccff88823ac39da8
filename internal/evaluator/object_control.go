package evaluator

import (
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/typesystem"
)

// ReturnValue carries the value of a return statement out of nested blocks.
// Value is EMPTY for a bare return.
type ReturnValue struct {
	Value object.Object
}

func (rv *ReturnValue) Type() object.ObjectType { return "RETURN_VALUE" }
func (rv *ReturnValue) Inspect() string        { return rv.Value.Inspect() }
func (rv *ReturnValue) RuntimeType() typesystem.Type {
	return rv.Value.RuntimeType()
}

// isSignal reports a control value that must stop the enclosing statement list.
func isSignal(obj object.Object) bool {
	switch obj.(type) {
	case *ReturnValue, *object.Fault:
		return true
	}
	return false
}
