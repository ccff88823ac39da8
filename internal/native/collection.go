package native

import (
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/symbols"
	"github.com/funvibe/tally/internal/typesystem"
)

// CollectionPrototype builds Collection<T>. Without a written parameter T is
// taken from the type argument of the constructor: Collection(int).
func CollectionPrototype() *symbols.Prototype {
	return &symbols.Prototype{
		Name:  config.CollectionClassName,
		Build: buildCollection,
		Infer: func(args []typesystem.Type) typesystem.Type {
			if len(args) == 1 {
				if tt, ok := args[0].(typesystem.TType); ok {
					return tt.Type
				}
			}
			return nil
		},
	}
}

func buildCollection(elem typesystem.Type) (*symbols.Class, error) {
	if elem == nil || typesystem.IsNone(elem) {
		return nil, symbols.ErrBadParameter
	}
	t := object.CollectionType(elem)
	c := symbols.NewClass(config.CollectionClassName, t, elem)

	c.AddConstructor(func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
		return object.NewReference(object.NewCollection(elem)), nil
	}, typesystem.TType{Type: elem})

	c.AddProperty(&symbols.Property{
		Name: config.CountPropertyName,
		Type: typesystem.Int,
		Get: func(self object.Referent) object.Object {
			return &object.Integer{Value: int64(self.(*object.Collection).Len())}
		},
	})

	c.AddMethod(config.AddMethodName, typesystem.None, func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
		call.Self.(*object.Collection).Add(args[0])
		return object.EMPTY, nil
	}, elem)

	c.AddMethod(config.DeleteMethodName, typesystem.None, func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
		if f := call.Self.(*object.Collection).Delete(args[0].(*object.Integer).Value); f != nil {
			return nil, f
		}
		return object.EMPTY, nil
	}, typesystem.Int)

	c.AddMethod(config.FirstMethodName, elem, func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
		return call.Self.(*object.Collection).First()
	})

	c.AddMethod(config.LastMethodName, elem, func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
		return call.Self.(*object.Collection).Last()
	})

	c.AddMethod(config.CopyMethodName, t, func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
		return object.NewReference(call.Self.(*object.Collection).Copy()), nil
	})

	c.AddMethod(config.WhereMethodName, t, func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
		pred, ok := args[0].(*object.Delegate)
		if !ok {
			return nil, object.NewFault(object.FaultNullReference, "Where called with a null lambda")
		}
		out, f := call.Self.(*object.Collection).Where(func(item object.Object) (bool, *object.Fault) {
			v, f := call.Invoke(pred, item)
			if f != nil {
				return false, f
			}
			b, ok := v.(*object.Boolean)
			if !ok {
				return false, object.NewFault(object.FaultUnsupportedOperation, "Where lambda returned %s, not bool", v.RuntimeType())
			}
			return b.Value, nil
		})
		if f != nil {
			return nil, f
		}
		return object.NewReference(out), nil
	}, object.LambdaType(elem, typesystem.Bool))

	return c, nil
}

// LambdaPrototype gives the written type Lambda<T>: a predicate over T.
// Lambda values are created by lambda literals, never by constructors.
func LambdaPrototype() *symbols.Prototype {
	return &symbols.Prototype{
		Name: config.LambdaClassName,
		Build: func(param typesystem.Type) (*symbols.Class, error) {
			if param == nil || typesystem.IsNone(param) {
				return nil, symbols.ErrBadParameter
			}
			return symbols.NewClass(config.LambdaClassName, object.LambdaType(param, typesystem.Bool), param), nil
		},
	}
}
