package analyzer

import (
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/native"
	"github.com/funvibe/tally/internal/pipeline"
)

// SemanticAnalyzerProcessor runs the verifier as a pipeline stage.
type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.Aborted {
		return ctx
	}
	if ctx.Registry == nil {
		ctx.Registry = native.NewRegistry(ctx.Rates)
	}

	analyzer := New(ctx.Registry, diagnostics.HandlerFunc(ctx.Report))
	analyzer.File = ctx.FilePath
	if err := analyzer.Analyze(ctx.AstRoot); err != nil && ctx.Logger != nil {
		ctx.Logger.Warn("verification aborted", "file", ctx.FilePath, "diagnostics", analyzer.Count(), "reason", err)
	}
	ctx.TypeMap = analyzer.TypeMap
	if ctx.Logger != nil {
		ctx.Logger.Debug("verification finished", "file", ctx.FilePath, "diagnostics", analyzer.Count())
	}
	return ctx
}
