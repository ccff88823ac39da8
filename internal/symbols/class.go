package symbols

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/typesystem"
)

var (
	// ErrUnknownClass is returned for a class name with no prototype.
	ErrUnknownClass = errors.New("unknown class")
	// ErrBadParameter is returned when a generic parameter is missing or of the wrong kind.
	ErrBadParameter = errors.New("invalid generic parameter")
)

// Call is the context handed to native callables.
type Call struct {
	Out    io.Writer
	Rates  object.Converter
	Logger *slog.Logger

	// Self is the receiver of a method or property access, nil for free functions.
	Self object.Referent

	// Invoke runs a delegate with one argument in the caller's scope.
	Invoke func(d *object.Delegate, arg object.Object) (object.Object, *object.Fault)
}

// NativeFunc implements a host-provided function, method or constructor.
type NativeFunc func(call *Call, args []object.Object) (object.Object, *object.Fault)

// Function is a resolved callable: either a user declaration or a native.
type Function struct {
	Signature Signature
	Returns   typesystem.Type
	Decl      *ast.FunctionDeclaration
	Native    NativeFunc
}

func (f *Function) IsNative() bool { return f.Native != nil }

// Property is a named member of a class. Set is nil for read-only properties.
type Property struct {
	Name string
	Type typesystem.Type
	Get  func(self object.Referent) object.Object
	Set  func(self object.Referent, v object.Object) *object.Fault
}

// Class is an instantiated class descriptor.
type Class struct {
	Name         string
	Type         typesystem.Type
	Param        typesystem.Type
	Constructors *Table[*Function]
	Methods      *Table[*Function]
	Properties   map[string]*Property
}

func NewClass(name string, t, param typesystem.Type) *Class {
	return &Class{
		Name:         name,
		Type:         t,
		Param:        param,
		Constructors: NewTable[*Function](),
		Methods:      NewTable[*Function](),
		Properties:   make(map[string]*Property),
	}
}

// AddConstructor registers a constructor returning the class type.
func (c *Class) AddConstructor(fn NativeFunc, params ...typesystem.Type) {
	sig := NewSignature(c.Name, params...)
	c.Constructors.Set(sig, &Function{Signature: sig, Returns: c.Type, Native: fn})
}

// AddMethod registers a method.
func (c *Class) AddMethod(name string, returns typesystem.Type, fn NativeFunc, params ...typesystem.Type) {
	sig := NewSignature(name, params...)
	c.Methods.Set(sig, &Function{Signature: sig, Returns: returns, Native: fn})
}

// AddProperty registers a property.
func (c *Class) AddProperty(p *Property) {
	c.Properties[p.Name] = p
}

func (c *Class) Constructor(args []typesystem.Type) (*Function, bool) {
	fn, _, ok := c.Constructors.Resolve(c.Name, args)
	return fn, ok
}

func (c *Class) Method(name string, args []typesystem.Type) (*Function, bool) {
	fn, _, ok := c.Methods.Resolve(name, args)
	return fn, ok
}

func (c *Class) Property(name string) (*Property, bool) {
	p, ok := c.Properties[name]
	return p, ok
}

// Prototype produces class descriptors per generic parameter.
type Prototype struct {
	Name string

	// Build creates the class for param. param is nil when none was written.
	Build func(param typesystem.Type) (*Class, error)

	// Infer derives the parameter from constructor argument types when none
	// was written, e.g. Collection(int) -> Collection<int>. Optional.
	Infer func(args []typesystem.Type) typesystem.Type

	cache map[string]*Class
}

// Instantiate returns the class for param, building it on first use.
func (p *Prototype) Instantiate(param typesystem.Type) (*Class, error) {
	k := ""
	if param != nil {
		k = param.String()
	}
	if c, ok := p.cache[k]; ok {
		return c, nil
	}
	c, err := p.Build(param)
	if err != nil {
		return nil, fmt.Errorf("%s<%s>: %w", p.Name, k, err)
	}
	if p.cache == nil {
		p.cache = make(map[string]*Class)
	}
	p.cache[k] = c
	return c, nil
}

// InferParam applies Infer when present.
func (p *Prototype) InferParam(args []typesystem.Type) typesystem.Type {
	if p.Infer == nil {
		return nil
	}
	return p.Infer(args)
}
