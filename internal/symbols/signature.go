package symbols

import (
	"strings"

	"github.com/funvibe/tally/internal/typesystem"
)

// Signature identifies a function, method or constructor.
// A variadic signature matches on name alone.
type Signature struct {
	Name     string
	Params   []typesystem.Type
	Variadic bool
}

func NewSignature(name string, params ...typesystem.Type) Signature {
	return Signature{Name: name, Params: params}
}

func VariadicSignature(name string) Signature {
	return Signature{Name: name, Variadic: true}
}

// Key is the canonical form used by resolution tables: name(int,decimal) or name(...).
func (s Signature) Key() string {
	return key(s.Name, s.Params, s.Variadic)
}

func (s Signature) String() string {
	if s.Variadic {
		return s.Key()
	}
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.String()
	}
	return s.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Equal compares names and, for fixed arity, parameter identities in order.
func (s Signature) Equal(o Signature) bool {
	return s.Key() == o.Key()
}

// Accepts reports whether args can be passed to s.
// A null argument is accepted by any reference-typed parameter.
func (s Signature) Accepts(args []typesystem.Type) bool {
	if s.Variadic {
		return true
	}
	if len(args) != len(s.Params) {
		return false
	}
	for i, p := range s.Params {
		if !typesystem.Assignable(p, args[i]) {
			return false
		}
	}
	return true
}

func key(name string, params []typesystem.Type, variadic bool) string {
	if variadic {
		return name + "(...)"
	}
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString("(")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(",")
		}
		if p == nil {
			sb.WriteString("?")
			continue
		}
		sb.WriteString(p.Identity())
	}
	sb.WriteString(")")
	return sb.String()
}
