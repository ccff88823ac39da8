package evaluator

import (
	"io"
	"log/slog"
	"os"

	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/scope"
	"github.com/funvibe/tally/internal/symbols"
	"github.com/funvibe/tally/internal/typesystem"
)

// Evaluator walks a verified program and computes a value for every node.
//
// Every expression pushes exactly one value on the value stack and the
// caller pops it. Statements return a control signal instead: nil to
// continue, a *ReturnValue travelling to the enclosing call, or an
// *object.Fault travelling to Run.
type Evaluator struct {
	registry *symbols.Registry
	handler  diagnostics.Handler

	Out          io.Writer
	Logger       *slog.Logger
	MaxCallDepth int
	File         string

	// TypeMap from the verifier, used to annotate delegates. Optional.
	TypeMap map[ast.Node]typesystem.Type

	stack []object.Object
	scope *scope.Chain[object.Object]
	depth int
}

func New(registry *symbols.Registry, handler diagnostics.Handler) *Evaluator {
	return &Evaluator{
		registry:     registry,
		handler:      handler,
		Out:          os.Stdout,
		Logger:       slog.Default(),
		MaxCallDepth: config.DefaultMaxCallDepth,
		scope:        scope.New[object.Object](),
	}
}

func (e *Evaluator) push(v object.Object) { e.stack = append(e.stack, v) }

func (e *Evaluator) pop() object.Object {
	v := e.stack[len(e.stack)-1]
	e.stack[len(e.stack)-1] = nil
	e.stack = e.stack[:len(e.stack)-1]
	return v
}

// StackSize is the number of values on the value stack.
func (e *Evaluator) StackSize() int { return len(e.stack) }

// ScopeDepth is the number of live scope frames.
func (e *Evaluator) ScopeDepth() int { return e.scope.Depth() }

// Run evaluates prog starting from main(). A fault is reported once to the
// handler as an R001 diagnostic and returned.
func (e *Evaluator) Run(prog *ast.Program) *object.Fault {
	_, f := e.Call(prog, config.EntryFunctionName)
	return f
}

// Call declares the functions of prog and runs the one named name with args.
// Hosts use it to call into a verified program directly.
func (e *Evaluator) Call(prog *ast.Program, name string, args ...object.Object) (object.Object, *object.Fault) {
	if e.File == "" {
		e.File = prog.File
	}
	v, f := e.call(prog, name, args)
	if f != nil {
		e.report(f)
	}
	return v, f
}

func (e *Evaluator) call(prog *ast.Program, name string, args []object.Object) (object.Object, *object.Fault) {
	if err := e.registry.DeclareProgram(prog); err != nil {
		return nil, object.NewFault(object.FaultUnresolvedFunction, "%s", err)
	}
	ts := make([]typesystem.Type, len(args))
	for i, a := range args {
		ts[i] = a.RuntimeType()
	}
	fn, ok := e.registry.Function(name, ts)
	if !ok || fn.Decl == nil {
		return nil, object.NewFault(object.FaultUnresolvedFunction, "no function %s", symbols.NewSignature(name, ts...))
	}
	return e.callFunction(fn, args)
}

func (e *Evaluator) report(f *object.Fault) {
	e.Logger.Debug("evaluation faulted", "kind", f.Kind.String(), "pos", f.Token.String(), "msg", f.Message)
	if e.handler == nil {
		return
	}
	err := diagnostics.NewError(diagnostics.ErrR001, f.Token, "%s: %s", f.Kind, f.Message)
	err.File = e.File
	_ = e.handler.Handle(err)
}

// native builds the context handed to natives.
func (e *Evaluator) native(self object.Referent) *symbols.Call {
	return &symbols.Call{
		Out:    e.Out,
		Rates:  e.registry.Rates,
		Logger: e.Logger,
		Self:   self,
		Invoke: e.invokeDelegate,
	}
}
