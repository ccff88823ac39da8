package pipeline

import (
	"io"
	"log/slog"

	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/symbols"
	"github.com/funvibe/tally/internal/typesystem"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// PipelineContext carries the program and everything the stages share.
type PipelineContext struct {
	FilePath string
	AstRoot  *ast.Program
	Settings config.Settings
	Rates    *config.ConversionTable

	// Registry is built by the verifier and reused by the evaluator.
	Registry *symbols.Registry

	// Handler receives every diagnostic as it is reported. Optional.
	Handler diagnostics.Handler

	Out    io.Writer
	Logger *slog.Logger

	Errors  []*diagnostics.DiagnosticError
	TypeMap map[ast.Node]typesystem.Type

	// Aborted is set when the handler refused further diagnostics.
	Aborted bool
}

// NewContext creates a context for prog with default settings.
func NewContext(prog *ast.Program) *PipelineContext {
	ctx := &PipelineContext{
		AstRoot:  prog,
		Settings: config.DefaultSettings(),
		Logger:   slog.Default(),
	}
	if prog != nil {
		ctx.FilePath = prog.File
	}
	return ctx
}

// Report records err and forwards it to Handler.
// The handler's verdict is returned so callers can unwind on abort.
func (ctx *PipelineContext) Report(err *diagnostics.DiagnosticError) error {
	if err.File == "" {
		err.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, err)
	if ctx.Handler == nil {
		return nil
	}
	if abort := ctx.Handler.Handle(err); abort != nil {
		ctx.Aborted = true
		return abort
	}
	return nil
}

// HasErrors reports whether any diagnostic was recorded.
func (ctx *PipelineContext) HasErrors() bool { return len(ctx.Errors) > 0 }
