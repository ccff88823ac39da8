// Package tally embeds the Tally interpreter in Go programs.
//
// Programs are built as ASTs (see the ast builders) and go through the same
// two passes as anywhere else: verification, then evaluation of main().
package tally

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/funvibe/tally/internal/analyzer"
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/evaluator"
	"github.com/funvibe/tally/internal/native"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/pipeline"
	"github.com/funvibe/tally/internal/symbols"
	"github.com/funvibe/tally/internal/typesystem"
)

type (
	Program         = ast.Program
	Settings        = config.Settings
	ConversionTable = config.ConversionTable
	Diagnostic      = diagnostics.DiagnosticError
	Handler         = diagnostics.Handler
	Fault           = object.Fault
)

// Options configure an Interpreter. Zero fields take defaults.
type Options struct {
	Settings Settings
	Rates    *ConversionTable
	Out      io.Writer
	Logger   *slog.Logger

	// Handler sees every diagnostic. Without one, a collector stopping at
	// Settings.MaxDiagnostics is used.
	Handler Handler
}

// Interpreter runs Tally programs with a fixed configuration and a set of
// Go functions bound as natives.
type Interpreter struct {
	opts       Options
	marshaller *Marshaller
	bindings   []*symbols.Function
}

// Error is returned when a program does not verify or faults at run time.
type Error struct {
	Diagnostics []*Diagnostic
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("errors during run:")
	for _, d := range e.Diagnostics {
		sb.WriteString("\n")
		sb.WriteString(d.Error())
	}
	return sb.String()
}

// New creates an Interpreter.
func New(opts Options) *Interpreter {
	if opts.Settings == (Settings{}) {
		opts.Settings = config.DefaultSettings()
	}
	if opts.Logger == nil {
		opts.Logger = opts.Settings.Logger()
	}
	if opts.Rates == nil {
		opts.Rates = config.NewConversionTable()
	}
	return &Interpreter{opts: opts, marshaller: NewMarshaller()}
}

// NewFromFile creates an Interpreter from a settings file. The conversion
// table named by the settings is loaded too.
func NewFromFile(path string) (*Interpreter, error) {
	s, err := config.LoadSettings(path)
	if err != nil {
		return nil, err
	}
	rates, err := s.ConversionTable()
	if err != nil {
		return nil, err
	}
	return New(Options{Settings: s, Rates: rates}), nil
}

// Rates returns the conversion table programs run with.
func (in *Interpreter) Rates() *ConversionTable { return in.opts.Rates }

// Bind registers a Go function as a native free function named name.
// Parameters and results must be ints, floats, decimals, bools, strings or
// slices of those. A trailing error result turns into a fault.
func (in *Interpreter) Bind(name string, fn interface{}) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("bind %s: %T is not a function", name, fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return fmt.Errorf("bind %s: variadic functions are not supported", name)
	}

	params := make([]typesystem.Type, t.NumIn())
	for i := range params {
		p, err := tallyType(t.In(i))
		if err != nil {
			return fmt.Errorf("bind %s: parameter %d: %w", name, i, err)
		}
		params[i] = p
	}

	outs := t.NumOut()
	withErr := outs > 0 && t.Out(outs-1) == errorType
	if withErr {
		outs--
	}
	var returns typesystem.Type = typesystem.None
	switch outs {
	case 0:
	case 1:
		r, err := tallyType(t.Out(0))
		if err != nil {
			return fmt.Errorf("bind %s: result: %w", name, err)
		}
		returns = r
	default:
		return fmt.Errorf("bind %s: at most one result besides error is supported", name)
	}

	in.bindings = append(in.bindings, &symbols.Function{
		Signature: symbols.NewSignature(name, params...),
		Returns:   returns,
		Native: func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
			return in.callHost(v, withErr, args)
		},
	})
	return nil
}

func (in *Interpreter) callHost(fn reflect.Value, withErr bool, args []object.Object) (object.Object, *object.Fault) {
	fnType := fn.Type()
	goArgs := make([]reflect.Value, len(args))
	for i, arg := range args {
		val, err := in.marshaller.FromValue(arg, fnType.In(i))
		if err != nil {
			return nil, object.NewFault(object.FaultUnsupportedOperation, "argument %d: %s", i, err)
		}
		if val == nil {
			goArgs[i] = reflect.Zero(fnType.In(i))
		} else {
			goArgs[i] = reflect.ValueOf(val)
		}
	}

	results := fn.Call(goArgs)
	if withErr {
		last := results[len(results)-1]
		results = results[:len(results)-1]
		if !last.IsNil() {
			err := last.Interface().(error)
			var f *object.Fault
			if errors.As(err, &f) {
				return nil, f
			}
			return nil, object.NewFault(object.FaultUnsupportedOperation, "%s", err)
		}
	}
	if len(results) == 0 {
		return object.EMPTY, nil
	}
	obj, err := in.marshaller.ToValue(results[0].Interface())
	if err != nil {
		return nil, object.NewFault(object.FaultUnsupportedOperation, "result: %s", err)
	}
	return obj, nil
}

// context prepares a pipeline context for prog with the bindings registered.
func (in *Interpreter) context(prog *Program) *pipeline.PipelineContext {
	ctx := pipeline.NewContext(prog)
	ctx.Settings = in.opts.Settings
	ctx.Rates = in.opts.Rates
	ctx.Out = in.opts.Out
	ctx.Logger = in.opts.Logger
	ctx.Handler = in.opts.Handler
	if ctx.Handler == nil {
		ctx.Handler = diagnostics.NewCollector(in.opts.Settings.MaxDiagnostics)
	}

	ctx.Registry = native.NewRegistry(in.opts.Rates)
	for _, fn := range in.bindings {
		ctx.Registry.AddNative(fn)
	}
	return ctx
}

func failed(ctx *pipeline.PipelineContext) error {
	if !ctx.HasErrors() {
		return nil
	}
	return &Error{Diagnostics: ctx.Errors}
}

// Check verifies prog without running it.
func (in *Interpreter) Check(prog *Program) error {
	ctx := pipeline.New(&analyzer.SemanticAnalyzerProcessor{}).Run(in.context(prog))
	return failed(ctx)
}

// Run verifies prog and runs its main().
func (in *Interpreter) Run(prog *Program) error {
	p := pipeline.New(
		&analyzer.SemanticAnalyzerProcessor{},
		&evaluator.EvaluatorProcessor{},
	)
	return failed(p.Run(in.context(prog)))
}

// Call verifies prog and calls the function named name with args converted
// to Tally values. The result is converted back to Go.
func (in *Interpreter) Call(prog *Program, name string, args ...interface{}) (interface{}, error) {
	ctx := pipeline.New(&analyzer.SemanticAnalyzerProcessor{}).Run(in.context(prog))
	if err := failed(ctx); err != nil {
		return nil, err
	}

	tallyArgs := make([]object.Object, len(args))
	for i, arg := range args {
		obj, err := in.marshaller.ToValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		tallyArgs[i] = obj
	}

	eval := evaluator.New(ctx.Registry, diagnostics.HandlerFunc(ctx.Report))
	eval.File = ctx.FilePath
	eval.TypeMap = ctx.TypeMap
	if ctx.Settings.MaxCallDepth > 0 {
		eval.MaxCallDepth = ctx.Settings.MaxCallDepth
	}
	eval.Logger = ctx.Logger
	if ctx.Out != nil {
		eval.Out = ctx.Out
	}
	result, f := eval.Call(prog, name, tallyArgs...)
	if f != nil {
		return nil, failed(ctx)
	}
	return in.marshaller.FromValue(result, nil)
}
