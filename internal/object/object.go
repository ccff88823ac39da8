package object

import (
	"github.com/funvibe/tally/internal/typesystem"
	"github.com/shopspring/decimal"
)

type ObjectType string

const (
	INTEGER_OBJ   = "INTEGER"
	DECIMAL_OBJ   = "DECIMAL"
	BOOLEAN_OBJ   = "BOOLEAN"
	STRING_OBJ    = "STRING"
	CURRENCY_OBJ  = "CURRENCY"
	TYPE_OBJ      = "TYPE"
	REFERENCE_OBJ = "REFERENCE"
	NULL_OBJ      = "NULL"
	EMPTY_OBJ     = "EMPTY"
	DELEGATE_OBJ  = "DELEGATE"
	FAULT_OBJ     = "FAULT"
)

// Object is a runtime value.
type Object interface {
	Type() ObjectType
	Inspect() string
	RuntimeType() typesystem.Type
}

// Arithmetic is implemented by values supporting + - * /.
// Operands are expected to be normalised by the caller; a mismatched
// operand yields an UnsupportedOperation fault.
type Arithmetic interface {
	Add(other Object) (Object, *Fault)
	Sub(other Object) (Object, *Fault)
	Mul(other Object) (Object, *Fault)
	Div(other Object) (Object, *Fault)
}

// Ordered is implemented by values supporting < <= > >=.
type Ordered interface {
	Greater(other Object) (bool, *Fault)
	GreaterEq(other Object) (bool, *Fault)
	Less(other Object) (bool, *Fault)
	LessEq(other Object) (bool, *Fault)
}

// Equatable is implemented by values supporting == and !=.
type Equatable interface {
	Eq(other Object) bool
}

// Converter supplies exchange rates for currency conversions.
type Converter interface {
	Rate(from, to string) (decimal.Decimal, bool)
}

// Convertible is implemented by values that can be converted with `as`.
type Convertible interface {
	ConvertTo(target typesystem.Type, rates Converter) (Object, *Fault)
}

// Equal compares two values. Values without the Equatable capability are never equal.
func Equal(a, b Object) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(Equatable); ok {
		return eq.Eq(b)
	}
	return false
}

// Singletons
var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NULL  = &Null{}
	EMPTY = &Empty{}
)

// NativeBool returns the shared boolean object for b.
func NativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// IsNull reports the null value and references without a target.
func IsNull(obj Object) bool {
	switch o := obj.(type) {
	case *Null:
		return true
	case *Reference:
		return o.Target == nil
	}
	return false
}
