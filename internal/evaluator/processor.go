package evaluator

import (
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/native"
	"github.com/funvibe/tally/internal/pipeline"
)

// EvaluatorProcessor runs main() of a verified program. It does nothing when
// an earlier stage reported diagnostics.
type EvaluatorProcessor struct{}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.HasErrors() || ctx.Aborted {
		return ctx
	}
	if ctx.Registry == nil {
		ctx.Registry = native.NewRegistry(ctx.Rates)
	}

	eval := New(ctx.Registry, diagnostics.HandlerFunc(ctx.Report))
	eval.File = ctx.FilePath
	eval.TypeMap = ctx.TypeMap
	if ctx.Settings.MaxCallDepth > 0 {
		eval.MaxCallDepth = ctx.Settings.MaxCallDepth
	}
	if ctx.Out != nil {
		eval.Out = ctx.Out
	}
	if ctx.Logger != nil {
		eval.Logger = ctx.Logger
	}

	if f := eval.Run(ctx.AstRoot); f != nil {
		eval.Logger.Info("run aborted", "file", ctx.FilePath, "fault", f.Kind.String())
	}
	return ctx
}
