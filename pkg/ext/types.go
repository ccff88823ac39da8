// Package ext is the surface for hosts that add native functions and classes
// to Tally. Registrations are global and apply to every run created after them.
package ext

import (
	"github.com/funvibe/tally/internal/native"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/symbols"
	"github.com/funvibe/tally/internal/typesystem"
	"github.com/shopspring/decimal"
)

// Object types aliases
type Object = object.Object
type Fault = object.Fault
type FaultKind = object.FaultKind
type Integer = object.Integer
type Decimal = object.Decimal
type Boolean = object.Boolean
type String = object.String
type Currency = object.Currency
type Reference = object.Reference
type Instance = object.Instance
type Account = object.Account
type Collection = object.Collection
type Delegate = object.Delegate
type Referent = object.Referent

// Descriptor aliases
type Type = typesystem.Type
type Call = symbols.Call
type NativeFunc = symbols.NativeFunc
type Function = symbols.Function
type Class = symbols.Class
type Prototype = symbols.Prototype
type Property = symbols.Property

// Re-export fault kinds
const (
	FaultOverflow             = object.FaultOverflow
	FaultZeroDivision         = object.FaultZeroDivision
	FaultNullReference        = object.FaultNullReference
	FaultIndexOutOfRange      = object.FaultIndexOutOfRange
	FaultUnsupportedOperation = object.FaultUnsupportedOperation
	FaultRateLookup           = object.FaultRateLookup
)

// Re-export constants
var (
	TRUE  = object.TRUE
	FALSE = object.FALSE
	NULL  = object.NULL
	EMPTY = object.EMPTY

	IntType     Type = typesystem.Int
	DecimalType Type = typesystem.Decimal
	BoolType    Type = typesystem.Bool
	StringType  Type = typesystem.String
	Void        Type = typesystem.None
)

// CurrencyType is the type of amounts in code.
func CurrencyType(code string) Type { return typesystem.Currency(code) }

// AccountType is the type of accounts holding code.
func AccountType(code string) Type { return object.AccountType(code) }

// CollectionType is the type of collections of elem.
func CollectionType(elem Type) Type { return object.CollectionType(elem) }

// RegisterFunction adds a native free function with fixed parameters.
func RegisterFunction(name string, returns Type, fn NativeFunc, params ...Type) {
	native.RegisterFunction(func() *Function {
		return &Function{Signature: symbols.NewSignature(name, params...), Returns: returns, Native: fn}
	})
}

// RegisterVariadic adds a native free function that accepts any arguments.
func RegisterVariadic(name string, returns Type, fn NativeFunc) {
	native.RegisterFunction(func() *Function {
		return &Function{Signature: symbols.VariadicSignature(name), Returns: returns, Native: fn}
	})
}

// RegisterClass adds a native class. factory is called once per run.
func RegisterClass(name string, factory func() *Prototype) {
	native.RegisterClass(name, factory)
}

// SimpleClass is a prototype for a class without a generic parameter.
// build receives the class descriptor to fill with constructors, methods and properties.
func SimpleClass(name string, build func(c *Class)) *Prototype {
	return &Prototype{
		Name: name,
		Build: func(param Type) (*Class, error) {
			if param != nil {
				return nil, symbols.ErrBadParameter
			}
			c := symbols.NewClass(name, typesystem.TApp{Name: name}, nil)
			build(c)
			return c, nil
		},
	}
}

// Reset removes every host registration.
// Used for testing.
func Reset() { native.ClearHost() }

// Helpers for creating objects

func NewFault(kind FaultKind, format string, args ...interface{}) *Fault {
	return object.NewFault(kind, format, args...)
}

func NewInstance(class Type) *Instance { return object.NewInstance(class) }

func NewReference(target object.Referent) *Reference { return object.NewReference(target) }

func NewCurrency(amount decimal.Decimal, code string) *Currency {
	return &Currency{Amount: amount, Code: code}
}

// ToTally converts a plain Go value to a Tally value.
// Values with no Tally counterpart yield nil.
func ToTally(val interface{}) Object {
	if val == nil {
		return NULL
	}

	switch v := val.(type) {
	case Object:
		return v
	case int:
		return &Integer{Value: int64(v)}
	case int64:
		return &Integer{Value: v}
	case int32:
		return &Integer{Value: int64(v)}
	case float64:
		return &Decimal{Value: decimal.NewFromFloat(v)}
	case decimal.Decimal:
		return &Decimal{Value: v}
	case bool:
		return object.NativeBool(v)
	case string:
		return &String{Value: v}
	}
	return nil
}
