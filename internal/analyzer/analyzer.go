package analyzer

import (
	"errors"

	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/scope"
	"github.com/funvibe/tally/internal/symbols"
	"github.com/funvibe/tally/internal/token"
	"github.com/funvibe/tally/internal/typesystem"
)

// Analyzer is the static type verifier. It assigns a type to every
// expression, checks every statement and reports problems to a handler
// without stopping at the first one.
type Analyzer struct {
	registry *symbols.Registry
	handler  diagnostics.Handler
	File     string
	TypeMap  map[ast.Node]typesystem.Type // Type of every visited expression
	count    int
}

// New creates an Analyzer. User functions are declared into registry.
func New(registry *symbols.Registry, handler diagnostics.Handler) *Analyzer {
	return &Analyzer{
		registry: registry,
		handler:  handler,
		TypeMap:  make(map[ast.Node]typesystem.Type),
	}
}

// Count is the number of diagnostics reported by the last Analyze.
func (a *Analyzer) Count() int { return a.count }

// Analyze verifies prog. It returns the handler's error when the handler
// aborted the run and nil otherwise; diagnostics go to the handler.
func (a *Analyzer) Analyze(prog *ast.Program) (err error) {
	w := &walker{
		registry: a.registry,
		handler:  a.handler,
		file:     a.File,
		scope:    scope.New[typesystem.Type](),
		TypeMap:  a.TypeMap,
	}
	if w.file == "" {
		w.file = prog.File
	}
	defer func() {
		a.count = w.count
		if r := recover(); r != nil {
			ab, ok := r.(abort)
			if !ok {
				panic(r)
			}
			err = ab.err
		}
	}()
	w.checkProgram(prog)
	return nil
}

// bailOut unwinds the current function after an error that makes further
// checks of its body meaningless.
type bailOut struct{}

// abort unwinds the whole verification when the handler refuses more diagnostics.
type abort struct{ err error }

type funcContext struct {
	returns   typesystem.Type // declared return type; nil for lambdas
	lambda    bool
	inferred  typesystem.Type // first return type seen in a lambda block
	sawReturn bool
}

type walker struct {
	registry *symbols.Registry
	handler  diagnostics.Handler
	file     string
	scope    *scope.Chain[typesystem.Type]
	fn       *funcContext
	TypeMap  map[ast.Node]typesystem.Type
	count    int
}

func (w *walker) report(err *diagnostics.DiagnosticError) {
	if err.File == "" {
		err.File = w.file
	}
	w.count++
	if w.handler == nil {
		return
	}
	if e := w.handler.Handle(err); e != nil {
		panic(abort{err: e})
	}
}

func (w *walker) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	w.report(diagnostics.NewError(code, tok, format, args...))
}

func (w *walker) typeError(tok token.Token, got, want []typesystem.Type, format string, args ...interface{}) {
	w.report(diagnostics.NewTypeError(tok, got, want, format, args...))
}

// bail reports err and abandons the current function.
func (w *walker) bail(err *diagnostics.DiagnosticError) {
	w.report(err)
	panic(bailOut{})
}

func types(ts ...typesystem.Type) []typesystem.Type { return ts }

func (w *walker) checkProgram(prog *ast.Program) {
	declared := make([]*symbols.Function, len(prog.Functions))
	hasMain := false
	for i, decl := range prog.Functions {
		declared[i] = w.declareFunction(decl)
		hasMain = hasMain || decl.Name == config.EntryFunctionName
	}

	if !hasMain {
		w.errorf(diagnostics.ErrA008, prog.GetToken(), "program has no %s() function", config.EntryFunctionName)
	}

	for i, decl := range prog.Functions {
		if declared[i] != nil {
			w.checkFunction(decl, declared[i])
		}
	}
}

// declareFunction resolves the signature of decl and adds it to the registry.
// It returns nil when the signature cannot be resolved.
func (w *walker) declareFunction(decl *ast.FunctionDeclaration) *symbols.Function {
	ok := true
	for _, p := range decl.Parameters {
		if w.resolveType(p.Type) == nil {
			ok = false
		}
	}
	if w.resolveType(decl.ReturnType) == nil {
		ok = false
	}
	if !ok {
		return nil
	}
	fn, err := w.registry.UserFunction(decl)
	if err != nil {
		w.errorf(diagnostics.ErrA002, decl.Token, "%s", err)
		return nil
	}
	if err := w.registry.DeclareFunction(fn); err != nil {
		w.errorf(diagnostics.ErrA004, decl.Token, "function %s is already declared", fn.Signature)
		return nil
	}
	return fn
}

// resolveType maps a written type, reporting A002 on failure.
func (w *walker) resolveType(tn *ast.TypeName) typesystem.Type {
	if tn.IsVar() {
		w.errorf(diagnostics.ErrA005, tn.Token, "var is only allowed in local declarations")
		return nil
	}
	t, err := w.registry.ResolveType(tn)
	if err != nil {
		var unknown *typesystem.UnknownTypeError
		if errors.As(err, &unknown) {
			w.errorf(diagnostics.ErrA002, tn.GetToken(), "unknown type %s", unknown.Name)
		} else {
			w.errorf(diagnostics.ErrA005, tn.GetToken(), "cannot resolve type %s: %s", tn, err)
		}
		return nil
	}
	return t
}

func (w *walker) checkFunction(decl *ast.FunctionDeclaration, fn *symbols.Function) {
	depth := w.scope.Depth()
	outer := w.fn
	w.scope.PushRoot()
	w.fn = &funcContext{returns: fn.Returns}
	defer func() {
		w.scope.Unwind(depth)
		w.fn = outer
		if r := recover(); r != nil {
			if _, ok := r.(bailOut); !ok {
				panic(r)
			}
		}
	}()

	if decl.Name == config.EntryFunctionName && len(decl.Parameters) > 0 {
		w.errorf(diagnostics.ErrA008, decl.Token, "%s() must not take parameters", config.EntryFunctionName)
	}
	for i, p := range decl.Parameters {
		if err := w.scope.Declare(p.Name, fn.Signature.Params[i]); err != nil {
			w.errorf(diagnostics.ErrA004, p.Token, "parameter %s is declared twice", p.Name)
		}
	}
	if decl.Body != nil {
		w.checkBlock(decl.Body)
	}
	if !typesystem.IsNone(fn.Returns) && !w.fn.sawReturn {
		w.report(diagnostics.NewError(diagnostics.ErrA007, decl.Token,
			"function %s must return a value", decl.Name).WithTypes(nil, types(fn.Returns)))
	}
}

// compatible is assignability plus, for delegates with known results, equal result types.
func compatible(dst, src typesystem.Type) bool {
	if dst == nil || src == nil {
		return true
	}
	if !typesystem.Assignable(dst, src) {
		return false
	}
	d, dok := dst.(typesystem.TApp)
	s, sok := src.(typesystem.TApp)
	if dok && sok && d.Name == config.LambdaClassName && d.Result != nil && s.Result != nil {
		return typesystem.Equal(d.Result, s.Result)
	}
	return true
}
