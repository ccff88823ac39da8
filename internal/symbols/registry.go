package symbols

import (
	"fmt"
	"sort"

	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/typesystem"
)

// Registry is the union of native and user callables and classes for one run.
type Registry struct {
	Functions *Table[*Function]
	Classes   map[string]*Prototype
	Rates     *config.ConversionTable

	user map[string]*ast.FunctionDeclaration // user-declared functions by signature key
}

func NewRegistry(rates *config.ConversionTable) *Registry {
	return &Registry{
		Functions: NewTable[*Function](),
		Classes:   make(map[string]*Prototype),
		Rates:     rates,
		user:      make(map[string]*ast.FunctionDeclaration),
	}
}

// AddNative registers a host function. Natives must be added before user functions.
func (r *Registry) AddNative(fn *Function) {
	r.Functions.Set(fn.Signature, fn)
}

// AddClass registers a class prototype.
func (r *Registry) AddClass(p *Prototype) {
	r.Classes[p.Name] = p
}

// DeclareFunction adds a user function. A user function shadows a native with
// the same signature; two user functions with the same signature are an error.
// Declaring the same declaration again is a no-op, so both passes may declare.
func (r *Registry) DeclareFunction(fn *Function) error {
	k := fn.Signature.Key()
	if prev, ok := r.user[k]; ok {
		if prev != nil && prev == fn.Decl {
			return nil
		}
		return fmt.Errorf("function %s: %w", fn.Signature, ErrDuplicate)
	}
	r.user[k] = fn.Decl
	r.Functions.Set(fn.Signature, fn)
	return nil
}

// UserFunction builds the descriptor of a declared function.
func (r *Registry) UserFunction(decl *ast.FunctionDeclaration) (*Function, error) {
	params := make([]typesystem.Type, len(decl.Parameters))
	for i, p := range decl.Parameters {
		t, err := r.ResolveType(p.Type)
		if err != nil {
			return nil, err
		}
		params[i] = t
	}
	ret, err := r.ResolveType(decl.ReturnType)
	if err != nil {
		return nil, err
	}
	return &Function{Signature: NewSignature(decl.Name, params...), Returns: ret, Decl: decl}, nil
}

// DeclareProgram declares every function of prog and returns the first error.
func (r *Registry) DeclareProgram(prog *ast.Program) error {
	for _, decl := range prog.Functions {
		fn, err := r.UserFunction(decl)
		if err != nil {
			return err
		}
		if err := r.DeclareFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

// Function resolves a free function call.
func (r *Registry) Function(name string, args []typesystem.Type) (*Function, bool) {
	fn, _, ok := r.Functions.Resolve(name, args)
	return fn, ok
}

// Prototype looks up a class prototype by name.
func (r *Registry) Prototype(name string) (*Prototype, bool) {
	p, ok := r.Classes[name]
	return p, ok
}

// Class returns the instantiated class descriptor of a class type.
func (r *Registry) Class(t typesystem.Type) (*Class, error) {
	app, ok := t.(typesystem.TApp)
	if !ok {
		return nil, fmt.Errorf("%s: %w", t, ErrUnknownClass)
	}
	p, ok := r.Classes[app.Name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", app.Name, ErrUnknownClass)
	}
	return p.Instantiate(app.Param)
}

// IsCurrency reports whether code is a currency of the conversion table.
func (r *Registry) IsCurrency(code string) bool {
	return r.Rates.HasCurrency(code)
}

// ResolveType maps a written type to its descriptor. A nil name is void.
// "var" is not a type and must be handled by the caller.
func (r *Registry) ResolveType(tn *ast.TypeName) (typesystem.Type, error) {
	if tn == nil {
		return typesystem.None, nil
	}
	if tn.Param == nil {
		switch tn.Name {
		case config.VoidTypeName:
			return typesystem.None, nil
		case config.IntTypeName:
			return typesystem.Int, nil
		case config.DecimalTypeName:
			return typesystem.Decimal, nil
		case config.BoolTypeName:
			return typesystem.Bool, nil
		case config.StringTypeName:
			return typesystem.String, nil
		}
		if r.IsCurrency(tn.Name) {
			return typesystem.Currency(tn.Name), nil
		}
	}
	if tn.Name == config.TypeTypeName {
		if tn.Param == nil {
			return typesystem.TType{}, nil
		}
		inner, err := r.ResolveType(tn.Param)
		if err != nil {
			return nil, err
		}
		return typesystem.TType{Type: inner}, nil
	}
	p, ok := r.Classes[tn.Name]
	if !ok {
		return nil, typesystem.NewUnknownTypeError(tn.String())
	}
	var param typesystem.Type
	if tn.Param != nil {
		var err error
		if param, err = r.ResolveType(tn.Param); err != nil {
			return nil, err
		}
	}
	class, err := p.Instantiate(param)
	if err != nil {
		return nil, err
	}
	return class.Type, nil
}

// ClassNames lists registered classes, sorted.
func (r *Registry) ClassNames() []string {
	out := make([]string, 0, len(r.Classes))
	for name := range r.Classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
