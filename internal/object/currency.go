package object

import (
	"github.com/funvibe/tally/internal/typesystem"
	"github.com/shopspring/decimal"
)

// Currency is an amount tagged with a currency code.
type Currency struct {
	Code   string
	Amount decimal.Decimal
}

func NewCurrency(amount string, code string) *Currency {
	return &Currency{Code: code, Amount: decimal.RequireFromString(amount)}
}

func (c *Currency) Type() ObjectType             { return CURRENCY_OBJ }
func (c *Currency) Inspect() string              { return c.Amount.StringFixed(2) + " " + c.Code }
func (c *Currency) RuntimeType() typesystem.Type { return typesystem.Currency(c.Code) }

// same returns the amount of other when it is a currency with the same code.
func (c *Currency) same(op string, other Object) (decimal.Decimal, *Fault) {
	o, ok := other.(*Currency)
	if !ok || o.Code != c.Code {
		return decimal.Decimal{}, unsupported(op, c, other)
	}
	return o.Amount, nil
}

// scalar returns the numeric value of an int or decimal operand.
func (c *Currency) scalar(op string, other Object) (decimal.Decimal, *Fault) {
	switch o := other.(type) {
	case *Integer:
		return decimal.NewFromInt(o.Value), nil
	case *Decimal:
		return o.Value, nil
	}
	return decimal.Decimal{}, unsupported(op, c, other)
}

func (c *Currency) Add(other Object) (Object, *Fault) {
	v, f := c.same("+", other)
	if f != nil {
		return nil, f
	}
	return &Currency{Code: c.Code, Amount: c.Amount.Add(v)}, nil
}

func (c *Currency) Sub(other Object) (Object, *Fault) {
	v, f := c.same("-", other)
	if f != nil {
		return nil, f
	}
	return &Currency{Code: c.Code, Amount: c.Amount.Sub(v)}, nil
}

func (c *Currency) Mul(other Object) (Object, *Fault) {
	v, f := c.scalar("*", other)
	if f != nil {
		return nil, f
	}
	return &Currency{Code: c.Code, Amount: c.Amount.Mul(v)}, nil
}

func (c *Currency) Div(other Object) (Object, *Fault) {
	v, f := c.scalar("/", other)
	if f != nil {
		return nil, f
	}
	if v.IsZero() {
		return nil, zeroDivision()
	}
	return &Currency{Code: c.Code, Amount: c.Amount.Div(v)}, nil
}

func (c *Currency) Negate() (Object, *Fault) {
	return &Currency{Code: c.Code, Amount: c.Amount.Neg()}, nil
}

func (c *Currency) Greater(other Object) (bool, *Fault) {
	v, f := c.same(">", other)
	return f == nil && c.Amount.GreaterThan(v), f
}
func (c *Currency) GreaterEq(other Object) (bool, *Fault) {
	v, f := c.same(">=", other)
	return f == nil && c.Amount.GreaterThanOrEqual(v), f
}
func (c *Currency) Less(other Object) (bool, *Fault) {
	v, f := c.same("<", other)
	return f == nil && c.Amount.LessThan(v), f
}
func (c *Currency) LessEq(other Object) (bool, *Fault) {
	v, f := c.same("<=", other)
	return f == nil && c.Amount.LessThanOrEqual(v), f
}

func (c *Currency) Eq(other Object) bool {
	o, ok := other.(*Currency)
	return ok && o.Code == c.Code && o.Amount.Equal(c.Amount)
}

// ConvertTo converts to int or decimal (amount only) or to another currency.
// A conversion to the same code never consults the rates.
func (c *Currency) ConvertTo(target typesystem.Type, rates Converter) (Object, *Fault) {
	kind, _ := typesystem.KindOf(target)
	switch {
	case typesystem.IsInt(target):
		return truncate(c.Amount)
	case typesystem.IsDecimal(target):
		return &Decimal{Value: c.Amount}, nil
	case kind == typesystem.KindCurrency:
		code := target.Identity()
		if code == c.Code {
			return c, nil
		}
		if rates == nil {
			return nil, NewFault(FaultRateLookup, "no conversion table for %s/%s", c.Code, code)
		}
		rate, ok := rates.Rate(c.Code, code)
		if !ok {
			return nil, NewFault(FaultRateLookup, "no exchange rate for %s/%s", c.Code, code)
		}
		return &Currency{Code: code, Amount: c.Amount.Mul(rate)}, nil
	}
	return nil, badConversion(c, target)
}

// TypeValue is a type used as a value.
type TypeValue struct {
	Wrapped typesystem.Type
}

func (t *TypeValue) Type() ObjectType { return TYPE_OBJ }
func (t *TypeValue) Inspect() string  { return t.Wrapped.String() }
func (t *TypeValue) RuntimeType() typesystem.Type {
	return typesystem.TType{Type: t.Wrapped}
}

func (t *TypeValue) Eq(other Object) bool {
	o, ok := other.(*TypeValue)
	return ok && typesystem.Equal(t.Wrapped, o.Wrapped)
}

// Null
type Null struct{}

func (n *Null) Type() ObjectType             { return NULL_OBJ }
func (n *Null) Inspect() string              { return "null" }
func (n *Null) RuntimeType() typesystem.Type { return typesystem.Null }
func (n *Null) Eq(other Object) bool         { return IsNull(other) }

// Empty is the value of statements.
type Empty struct{}

func (e *Empty) Type() ObjectType             { return EMPTY_OBJ }
func (e *Empty) Inspect() string              { return "" }
func (e *Empty) RuntimeType() typesystem.Type { return typesystem.None }
