package typesystem

import (
	"github.com/funvibe/tally/internal/config"
)

// Type is the interface for all type descriptors.
//
// The set of implementations is closed: TCon, TApp, TType and TNone.
// Descriptors are immutable values and are compared by Identity only.
type Type interface {
	// String renders the full type, including generic parameters.
	String() string
	// Identity is the name used for equality and signature keys.
	Identity() string
	typeNode()
}

// Kind classifies basic types.
type Kind int

const (
	KindInt Kind = iota
	KindDecimal
	KindBool
	KindString
	KindCurrency
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindCurrency:
		return "currency"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// TCon is a basic type: a builtin scalar or a currency code.
type TCon struct {
	Name string
	Kind Kind
}

func (t TCon) String() string   { return t.Name }
func (t TCon) Identity() string { return t.Name }
func (TCon) typeNode()          {}

// TApp is a generic type parametrized by a single type, e.g. Collection<int>.
// Result is only set for delegate types (Lambda<T>) and records the body type.
type TApp struct {
	Name   string
	Param  Type
	Result Type
}

func (t TApp) String() string {
	if t.Param == nil {
		return t.Name
	}
	return t.Name + "<" + t.Param.String() + ">"
}

// Identity deliberately ignores Param and Result: Collection<int> and
// Collection<string> are the same type for equality and signature matching.
func (t TApp) Identity() string { return t.Name }
func (TApp) typeNode()          {}

// TType is the type of a type value, e.g. the argument of Collection(int).
type TType struct {
	Type Type
}

func (t TType) String() string {
	if t.Type == nil {
		return config.TypeTypeName
	}
	return config.TypeTypeName + "<" + t.Type.String() + ">"
}
func (t TType) Identity() string { return config.TypeTypeName }
func (TType) typeNode()          {}

// TNone is the type of statements and of functions declared void.
type TNone struct{}

func (TNone) String() string   { return config.VoidTypeName }
func (TNone) Identity() string { return config.VoidTypeName }
func (TNone) typeNode()        {}

// Builtin basic types.
var (
	Int     = TCon{Name: config.IntTypeName, Kind: KindInt}
	Decimal = TCon{Name: config.DecimalTypeName, Kind: KindDecimal}
	Bool    = TCon{Name: config.BoolTypeName, Kind: KindBool}
	String  = TCon{Name: config.StringTypeName, Kind: KindString}
	Null    = TCon{Name: config.NullTypeName, Kind: KindNull}
	None    = TNone{}
)

// Currency returns the basic type of a currency code.
func Currency(code string) TCon {
	return TCon{Name: code, Kind: KindCurrency}
}

// Equal compares two descriptors by identity. Two nil types are equal.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Identity() == b.Identity()
}

// KindOf returns the kind of a basic type and false for any other descriptor.
func KindOf(t Type) (Kind, bool) {
	if c, ok := t.(TCon); ok {
		return c.Kind, true
	}
	return 0, false
}

func IsInt(t Type) bool     { return is(t, KindInt) }
func IsDecimal(t Type) bool { return is(t, KindDecimal) }
func IsBool(t Type) bool    { return is(t, KindBool) }
func IsString(t Type) bool  { return is(t, KindString) }
func IsCurrency(t Type) bool {
	return is(t, KindCurrency)
}
func IsNull(t Type) bool { return is(t, KindNull) }

// IsNumeric reports int or decimal.
func IsNumeric(t Type) bool { return IsInt(t) || IsDecimal(t) }

// IsNone reports the statement/void type.
func IsNone(t Type) bool {
	_, ok := t.(TNone)
	return ok
}

func is(t Type, k Kind) bool {
	kind, ok := KindOf(t)
	return ok && kind == k
}

// IsGeneric reports whether t is the generic type with the given constructor name.
func IsGeneric(t Type, name string) bool {
	app, ok := t.(TApp)
	return ok && app.Name == name
}

// ParamOf returns the parametrizing type of a generic descriptor.
func ParamOf(t Type) Type {
	if app, ok := t.(TApp); ok {
		return app.Param
	}
	return nil
}

// IsReference reports whether values of t are reference-like and may hold null.
func IsReference(t Type) bool {
	_, ok := t.(TApp)
	return ok
}

// Assignable reports whether a value of type src may be stored where dst is expected.
// It is identity equality plus null into any reference type.
func Assignable(dst, src Type) bool {
	if IsNull(src) && IsReference(dst) {
		return true
	}
	return Equal(dst, src)
}
