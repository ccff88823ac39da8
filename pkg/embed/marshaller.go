package tally

import (
	"fmt"
	"math"
	"reflect"

	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/typesystem"
	"github.com/shopspring/decimal"
)

// Money is the Go form of a currency value.
type Money struct {
	Amount decimal.Decimal
	Code   string
}

func (m Money) String() string { return m.Amount.StringFixed(2) + " " + m.Code }

var (
	objectType  = reflect.TypeOf((*object.Object)(nil)).Elem()
	decimalType = reflect.TypeOf(decimal.Decimal{})
	moneyType   = reflect.TypeOf(Money{})
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Marshaller handles conversion between Go and Tally values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to a Tally Object.
func (m *Marshaller) ToValue(val interface{}) (object.Object, error) {
	if val == nil {
		return object.NULL, nil
	}

	// Check if already an Object
	if obj, ok := val.(object.Object); ok {
		return obj, nil
	}
	switch v := val.(type) {
	case decimal.Decimal:
		return &object.Decimal{Value: v}, nil
	case Money:
		return &object.Currency{Amount: v.Amount, Code: v.Code}, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &object.Integer{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("%d does not fit in int", v.Uint())
		}
		return &object.Integer{Value: int64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &object.Decimal{Value: decimal.NewFromFloat(v.Float())}, nil
	case reflect.Bool:
		return object.NativeBool(v.Bool()), nil
	case reflect.String:
		return &object.String{Value: v.String()}, nil
	case reflect.Slice, reflect.Array:
		return m.sliceToCollection(v)
	case reflect.Ptr:
		if v.IsNil() {
			return object.NULL, nil
		}
	}
	return nil, fmt.Errorf("cannot convert %T to a Tally value", val)
}

// FromValue converts a Tally Object to a Go value.
// targetType is optional; if provided, tries to convert to that type.
func (m *Marshaller) FromValue(obj object.Object, targetType reflect.Type) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}

	// If target type is object.Object, return as is
	if targetType == objectType {
		return obj, nil
	}

	switch o := obj.(type) {
	case *object.Integer:
		if targetType != nil {
			if targetType == decimalType {
				return decimal.NewFromInt(o.Value), nil
			}
			switch targetType.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
				reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				return reflect.ValueOf(o.Value).Convert(targetType).Interface(), nil
			case reflect.Float32, reflect.Float64:
				return reflect.ValueOf(float64(o.Value)).Convert(targetType).Interface(), nil
			}
		}
		return int(o.Value), nil // Default to int
	case *object.Decimal:
		if targetType != nil {
			switch targetType.Kind() {
			case reflect.Float32, reflect.Float64:
				return reflect.ValueOf(o.Value.InexactFloat64()).Convert(targetType).Interface(), nil
			}
		}
		return o.Value, nil
	case *object.Currency:
		if targetType == decimalType {
			return o.Amount, nil
		}
		return Money{Amount: o.Amount, Code: o.Code}, nil
	case *object.Boolean:
		return o.Value, nil
	case *object.String:
		return o.Value, nil
	case *object.TypeValue:
		return o.Wrapped.String(), nil
	case *object.Reference:
		if o.Target == nil {
			return nil, nil
		}
		if c, ok := o.Target.(*object.Collection); ok {
			return m.collectionToSlice(c, targetType)
		}
		return o.Target, nil
	case *object.Null, *object.Empty:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported type for conversion: %s", o.Type())
	}
}

func (m *Marshaller) sliceToCollection(v reflect.Value) (object.Object, error) {
	elem, err := tallyType(v.Type().Elem())
	if err != nil {
		return nil, err
	}
	items := make([]object.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		val, err := m.ToValue(v.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		items[i] = val
	}
	return object.NewReference(object.NewCollection(elem, items...)), nil
}

func (m *Marshaller) collectionToSlice(c *object.Collection, targetType reflect.Type) (interface{}, error) {
	// If targetType is nil, default to []interface{}
	elemType := reflect.TypeOf((*interface{})(nil)).Elem()
	if targetType != nil && targetType.Kind() == reflect.Slice {
		elemType = targetType.Elem()
	}

	slice := reflect.MakeSlice(reflect.SliceOf(elemType), 0, c.Len())
	for _, el := range c.Items {
		val, err := m.FromValue(el, elemType)
		if err != nil {
			return nil, err
		}
		if val == nil {
			slice = reflect.Append(slice, reflect.Zero(elemType))
			continue
		}
		rv := reflect.ValueOf(val)
		switch {
		case rv.Type().AssignableTo(elemType):
			slice = reflect.Append(slice, rv)
		case rv.Type().ConvertibleTo(elemType):
			slice = reflect.Append(slice, rv.Convert(elemType))
		default:
			return nil, fmt.Errorf("cannot convert %s to %s", rv.Type(), elemType)
		}
	}
	return slice.Interface(), nil
}

// tallyType maps a Go type to the Tally type its values marshal to.
func tallyType(t reflect.Type) (typesystem.Type, error) {
	switch t {
	case decimalType:
		return typesystem.Decimal, nil
	case moneyType:
		return nil, fmt.Errorf("%s has no fixed currency", t)
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return typesystem.Int, nil
	case reflect.Float32, reflect.Float64:
		return typesystem.Decimal, nil
	case reflect.Bool:
		return typesystem.Bool, nil
	case reflect.String:
		return typesystem.String, nil
	case reflect.Slice, reflect.Array:
		elem, err := tallyType(t.Elem())
		if err != nil {
			return nil, err
		}
		return object.CollectionType(elem), nil
	}
	return nil, fmt.Errorf("no Tally type for Go type %s", t)
}
