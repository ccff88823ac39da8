package symbols

import (
	"errors"
	"fmt"
	"sort"

	"github.com/funvibe/tally/internal/typesystem"
)

// ErrDuplicate is returned when a signature is added twice to a table.
var ErrDuplicate = errors.New("duplicate signature")

type entry[F any] struct {
	sig Signature
	fn  F
}

// Table maps signatures to callables of type F.
type Table[F any] struct {
	fixed    map[string]entry[F]
	variadic map[string]entry[F]
	byName   map[string][]string // name -> fixed keys, in insertion order
}

func NewTable[F any]() *Table[F] {
	return &Table[F]{
		fixed:    make(map[string]entry[F]),
		variadic: make(map[string]entry[F]),
		byName:   make(map[string][]string),
	}
}

// Add inserts fn under sig, failing if sig is already present.
func (t *Table[F]) Add(sig Signature, fn F) error {
	if t.Contains(sig) {
		return fmt.Errorf("%s: %w", sig.Key(), ErrDuplicate)
	}
	t.Set(sig, fn)
	return nil
}

// Set inserts fn under sig, replacing an existing entry.
func (t *Table[F]) Set(sig Signature, fn F) {
	if sig.Variadic {
		t.variadic[sig.Name] = entry[F]{sig: sig, fn: fn}
		return
	}
	k := sig.Key()
	if _, ok := t.fixed[k]; !ok {
		t.byName[sig.Name] = append(t.byName[sig.Name], k)
	}
	t.fixed[k] = entry[F]{sig: sig, fn: fn}
}

// Contains reports whether exactly sig is present.
func (t *Table[F]) Contains(sig Signature) bool {
	if sig.Variadic {
		_, ok := t.variadic[sig.Name]
		return ok
	}
	_, ok := t.fixed[sig.Key()]
	return ok
}

// Has reports whether any signature with the given name is present.
func (t *Table[F]) Has(name string) bool {
	_, v := t.variadic[name]
	return v || len(t.byName[name]) > 0
}

// Resolve finds the callable for a call with the given argument types.
// An exact fixed-arity match wins, then a fixed-arity match accepting null
// arguments, then a variadic match on the name.
func (t *Table[F]) Resolve(name string, args []typesystem.Type) (F, Signature, bool) {
	if e, ok := t.fixed[key(name, args, false)]; ok {
		return e.fn, e.sig, true
	}
	for _, k := range t.byName[name] {
		e := t.fixed[k]
		if e.sig.Accepts(args) {
			return e.fn, e.sig, true
		}
	}
	if e, ok := t.variadic[name]; ok {
		return e.fn, e.sig, true
	}
	var zero F
	return zero, Signature{}, false
}

// Merge copies every entry of other into t. Entries of other win.
func (t *Table[F]) Merge(other *Table[F]) {
	if other == nil {
		return
	}
	for _, k := range other.keys() {
		e, ok := other.fixed[k]
		if !ok {
			e = other.variadic[k]
		}
		t.Set(e.sig, e.fn)
	}
}

// Signatures lists every signature, sorted by key.
func (t *Table[F]) Signatures() []Signature {
	out := make([]Signature, 0, len(t.fixed)+len(t.variadic))
	for _, e := range t.fixed {
		out = append(out, e.sig)
	}
	for _, e := range t.variadic {
		out = append(out, e.sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Candidates lists the signatures registered under name.
func (t *Table[F]) Candidates(name string) []Signature {
	var out []Signature
	for _, k := range t.byName[name] {
		out = append(out, t.fixed[k].sig)
	}
	if e, ok := t.variadic[name]; ok {
		out = append(out, e.sig)
	}
	return out
}

func (t *Table[F]) keys() []string {
	out := make([]string, 0, len(t.fixed)+len(t.variadic))
	for name := range t.byName {
		out = append(out, t.byName[name]...)
	}
	for name := range t.variadic {
		out = append(out, name)
	}
	return out
}
