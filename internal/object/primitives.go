package object

import (
	"fmt"
	"math"

	"github.com/funvibe/tally/internal/typesystem"
	"github.com/shopspring/decimal"
)

// Negatable is implemented by values supporting unary minus.
type Negatable interface {
	Negate() (Object, *Fault)
}

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
	hundred  = decimal.NewFromInt(100)
)

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType             { return INTEGER_OBJ }
func (i *Integer) Inspect() string              { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) RuntimeType() typesystem.Type { return typesystem.Int }

func (i *Integer) Add(other Object) (Object, *Fault) {
	o, ok := other.(*Integer)
	if !ok {
		return nil, unsupported("+", i, other)
	}
	r := i.Value + o.Value
	if (i.Value > 0 && o.Value > 0 && r < 0) || (i.Value < 0 && o.Value < 0 && r >= 0) {
		return nil, overflow(i, "+", o)
	}
	return &Integer{Value: r}, nil
}

func (i *Integer) Sub(other Object) (Object, *Fault) {
	o, ok := other.(*Integer)
	if !ok {
		return nil, unsupported("-", i, other)
	}
	if (o.Value > 0 && i.Value < math.MinInt64+o.Value) || (o.Value < 0 && i.Value > math.MaxInt64+o.Value) {
		return nil, overflow(i, "-", o)
	}
	return &Integer{Value: i.Value - o.Value}, nil
}

func (i *Integer) Mul(other Object) (Object, *Fault) {
	o, ok := other.(*Integer)
	if !ok {
		return nil, unsupported("*", i, other)
	}
	if i.Value == 0 || o.Value == 0 {
		return &Integer{Value: 0}, nil
	}
	r := i.Value * o.Value
	if r/o.Value != i.Value || (i.Value == -1 && o.Value == math.MinInt64) || (o.Value == -1 && i.Value == math.MinInt64) {
		return nil, overflow(i, "*", o)
	}
	return &Integer{Value: r}, nil
}

func (i *Integer) Div(other Object) (Object, *Fault) {
	o, ok := other.(*Integer)
	if !ok {
		return nil, unsupported("/", i, other)
	}
	if o.Value == 0 {
		return nil, zeroDivision()
	}
	if i.Value == math.MinInt64 && o.Value == -1 {
		return nil, overflow(i, "/", o)
	}
	return &Integer{Value: i.Value / o.Value}, nil
}

func (i *Integer) Negate() (Object, *Fault) {
	if i.Value == math.MinInt64 {
		return nil, NewFault(FaultOverflow, "integer overflow: -(%d)", i.Value)
	}
	return &Integer{Value: -i.Value}, nil
}

func (i *Integer) compare(op string, other Object) (int, *Fault) {
	o, ok := other.(*Integer)
	if !ok {
		return 0, unsupported(op, i, other)
	}
	switch {
	case i.Value < o.Value:
		return -1, nil
	case i.Value > o.Value:
		return 1, nil
	}
	return 0, nil
}

func (i *Integer) Greater(other Object) (bool, *Fault) {
	c, f := i.compare(">", other)
	return c > 0, f
}
func (i *Integer) GreaterEq(other Object) (bool, *Fault) {
	c, f := i.compare(">=", other)
	return c >= 0, f
}
func (i *Integer) Less(other Object) (bool, *Fault) {
	c, f := i.compare("<", other)
	return c < 0, f
}
func (i *Integer) LessEq(other Object) (bool, *Fault) {
	c, f := i.compare("<=", other)
	return c <= 0, f
}

func (i *Integer) Eq(other Object) bool {
	switch o := other.(type) {
	case *Integer:
		return i.Value == o.Value
	case *Decimal:
		return decimal.NewFromInt(i.Value).Equal(o.Value)
	}
	return false
}

func (i *Integer) ConvertTo(target typesystem.Type, rates Converter) (Object, *Fault) {
	kind, _ := typesystem.KindOf(target)
	switch {
	case typesystem.IsInt(target):
		return i, nil
	case typesystem.IsDecimal(target):
		return &Decimal{Value: decimal.NewFromInt(i.Value)}, nil
	case kind == typesystem.KindCurrency:
		return &Currency{Code: target.Identity(), Amount: decimal.NewFromInt(i.Value)}, nil
	}
	return nil, badConversion(i, target)
}

// Decimal
type Decimal struct {
	Value decimal.Decimal
}

func NewDecimal(s string) *Decimal {
	return &Decimal{Value: decimal.RequireFromString(s)}
}

func (d *Decimal) Type() ObjectType             { return DECIMAL_OBJ }
func (d *Decimal) Inspect() string              { return d.Value.String() }
func (d *Decimal) RuntimeType() typesystem.Type { return typesystem.Decimal }

func (d *Decimal) operand(op string, other Object) (decimal.Decimal, *Fault) {
	o, ok := other.(*Decimal)
	if !ok {
		return decimal.Decimal{}, unsupported(op, d, other)
	}
	return o.Value, nil
}

func (d *Decimal) Add(other Object) (Object, *Fault) {
	v, f := d.operand("+", other)
	if f != nil {
		return nil, f
	}
	return &Decimal{Value: d.Value.Add(v)}, nil
}

func (d *Decimal) Sub(other Object) (Object, *Fault) {
	v, f := d.operand("-", other)
	if f != nil {
		return nil, f
	}
	return &Decimal{Value: d.Value.Sub(v)}, nil
}

func (d *Decimal) Mul(other Object) (Object, *Fault) {
	v, f := d.operand("*", other)
	if f != nil {
		return nil, f
	}
	return &Decimal{Value: d.Value.Mul(v)}, nil
}

func (d *Decimal) Div(other Object) (Object, *Fault) {
	v, f := d.operand("/", other)
	if f != nil {
		return nil, f
	}
	if v.IsZero() {
		return nil, zeroDivision()
	}
	return &Decimal{Value: d.Value.Div(v)}, nil
}

func (d *Decimal) Negate() (Object, *Fault) {
	return &Decimal{Value: d.Value.Neg()}, nil
}

func (d *Decimal) Greater(other Object) (bool, *Fault) {
	v, f := d.operand(">", other)
	return f == nil && d.Value.GreaterThan(v), f
}
func (d *Decimal) GreaterEq(other Object) (bool, *Fault) {
	v, f := d.operand(">=", other)
	return f == nil && d.Value.GreaterThanOrEqual(v), f
}
func (d *Decimal) Less(other Object) (bool, *Fault) {
	v, f := d.operand("<", other)
	return f == nil && d.Value.LessThan(v), f
}
func (d *Decimal) LessEq(other Object) (bool, *Fault) {
	v, f := d.operand("<=", other)
	return f == nil && d.Value.LessThanOrEqual(v), f
}

func (d *Decimal) Eq(other Object) bool {
	switch o := other.(type) {
	case *Decimal:
		return d.Value.Equal(o.Value)
	case *Integer:
		return d.Value.Equal(decimal.NewFromInt(o.Value))
	}
	return false
}

func (d *Decimal) ConvertTo(target typesystem.Type, rates Converter) (Object, *Fault) {
	kind, _ := typesystem.KindOf(target)
	switch {
	case typesystem.IsInt(target):
		return truncate(d.Value)
	case typesystem.IsDecimal(target):
		return d, nil
	case kind == typesystem.KindCurrency:
		return &Currency{Code: target.Identity(), Amount: d.Value}, nil
	}
	return nil, badConversion(d, target)
}

// truncate drops the fractional part, faulting outside the int64 range.
func truncate(v decimal.Decimal) (Object, *Fault) {
	t := v.Truncate(0)
	if t.GreaterThan(maxInt64) || t.LessThan(minInt64) {
		return nil, NewFault(FaultOverflow, "%s does not fit in int", v)
	}
	return &Integer{Value: t.IntPart()}, nil
}

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType             { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string              { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) RuntimeType() typesystem.Type { return typesystem.Bool }

func (b *Boolean) Eq(other Object) bool {
	o, ok := other.(*Boolean)
	return ok && o.Value == b.Value
}

// String
type String struct {
	Value string
}

func (s *String) Type() ObjectType             { return STRING_OBJ }
func (s *String) Inspect() string              { return s.Value }
func (s *String) RuntimeType() typesystem.Type { return typesystem.String }

func (s *String) Eq(other Object) bool {
	o, ok := other.(*String)
	return ok && o.Value == s.Value
}

// Concat joins two strings. It backs + on strings.
func (s *String) Concat(other *String) *String {
	return &String{Value: s.Value + other.Value}
}

func overflow(left Object, op string, right Object) *Fault {
	return NewFault(FaultOverflow, "integer overflow: %s %s %s", left.Inspect(), op, right.Inspect())
}

func badConversion(v Object, target typesystem.Type) *Fault {
	return NewFault(FaultUnsupportedOperation, "cannot convert %s to %s", v.RuntimeType(), target)
}
