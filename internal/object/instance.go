package object

import (
	"fmt"

	"github.com/funvibe/tally/internal/typesystem"
	"github.com/google/uuid"
)

// Referent is anything a Reference can point to.
type Referent interface {
	Base() *Instance
	Inspect() string
}

// Instance is a mutable object created by a constructor.
// Values of class type are passed around as References to it.
type Instance struct {
	ID         uuid.UUID
	Class      typesystem.Type
	Properties map[string]Object
}

func NewInstance(class typesystem.Type) *Instance {
	return &Instance{
		ID:         uuid.New(),
		Class:      class,
		Properties: make(map[string]Object),
	}
}

func (in *Instance) Base() *Instance { return in }

func (in *Instance) Inspect() string {
	return fmt.Sprintf("%s#%s", in.Class, in.ID.String()[:8])
}

// Get returns a property value.
func (in *Instance) Get(name string) (Object, bool) {
	v, ok := in.Properties[name]
	return v, ok
}

// Set stores a property value in place.
func (in *Instance) Set(name string, v Object) {
	in.Properties[name] = v
}

// Reference is a nullable, non-owning handle to an instance.
// Equality compares instance identity.
type Reference struct {
	Class  typesystem.Type
	Target Referent
}

// NewReference wraps a referent. Class is taken from the instance.
func NewReference(target Referent) *Reference {
	return &Reference{Class: target.Base().Class, Target: target}
}

// NullReference is an unbound handle of the given class type.
func NullReference(class typesystem.Type) *Reference {
	return &Reference{Class: class}
}

func (r *Reference) Type() ObjectType { return REFERENCE_OBJ }
func (r *Reference) Inspect() string {
	if r.Target == nil {
		return "null"
	}
	return r.Target.Inspect()
}
func (r *Reference) RuntimeType() typesystem.Type { return r.Class }

func (r *Reference) Eq(other Object) bool {
	switch o := other.(type) {
	case *Reference:
		if r.Target == nil || o.Target == nil {
			return r.Target == nil && o.Target == nil
		}
		return r.Target.Base() == o.Target.Base()
	case *Null:
		return r.Target == nil
	}
	return false
}

// Deref returns the target or a NullReference fault.
func (r *Reference) Deref() (Referent, *Fault) {
	if r.Target == nil {
		return nil, NewFault(FaultNullReference, "null reference of type %s", r.Class)
	}
	return r.Target, nil
}
