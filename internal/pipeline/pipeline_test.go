package pipeline_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/tally/internal/analyzer"
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/evaluator"
	"github.com/funvibe/tally/internal/pipeline"
	"github.com/shopspring/decimal"
)

func rates(t *testing.T) *config.ConversionTable {
	t.Helper()
	table := config.NewConversionTable()
	if err := table.SetRate("USD", "PLN", decimal.NewFromInt(4)); err != nil {
		t.Fatal(err)
	}
	return table
}

func runPipeline(t *testing.T, prog *ast.Program, handler diagnostics.Handler) (*pipeline.PipelineContext, string) {
	t.Helper()
	var out bytes.Buffer
	ctx := pipeline.NewContext(prog)
	ctx.Rates = rates(t)
	ctx.Out = &out
	ctx.Handler = handler
	p := pipeline.New(
		&analyzer.SemanticAnalyzerProcessor{},
		&evaluator.EvaluatorProcessor{},
	)
	return p.Run(ctx), out.String()
}

func TestVerifiedProgramRuns(t *testing.T) {
	prog := ast.Prog(ast.Fn(nil, "main", nil,
		ast.Var(ast.TG("Account", ast.T("PLN")), "a", ast.New(ast.TG("Account", ast.T("PLN")), ast.Money("10", "PLN"))),
		ast.ReceiveFrom(ast.Ident("a"), ast.Money("10", "USD"), nil),
		ast.Expr(ast.Call("print", ast.Prop(ast.Ident("a"), "Balance"))),
	))
	ctx, out := runPipeline(t, prog, nil)
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Errors)
	}
	if out != "50\n" {
		t.Errorf("output = %q, want %q", out, "50\n")
	}
	if ctx.TypeMap == nil || ctx.Registry == nil {
		t.Error("verifier must leave its type map and registry in the context")
	}
}

func TestDiagnosticsStopEvaluation(t *testing.T) {
	prog := ast.Prog(ast.Fn(nil, "main", nil,
		ast.Expr(ast.Call("print", ast.Str("before"))),
		ast.Var(ast.T("int"), "x", ast.Str("nope")),
	))
	collector := diagnostics.NewCollector(0)
	ctx, out := runPipeline(t, prog, collector)
	if out != "" {
		t.Errorf("a program with diagnostics must not run, got %q", out)
	}
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.ErrA003 {
		t.Fatalf("errors = %v", ctx.Errors)
	}
	if len(collector.Errors()) != 1 {
		t.Error("handler must see every diagnostic")
	}
}

func TestRuntimeFaultIsReported(t *testing.T) {
	prog := ast.Prog(ast.Fn(nil, "main", nil,
		ast.Var(ast.T("int"), "zero", ast.Int(0)),
		ast.Expr(ast.Call("print", ast.Bin(ast.Int(1), "/", ast.Ident("zero")))),
	))
	ctx, _ := runPipeline(t, prog, nil)
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.ErrR001 {
		t.Fatalf("errors = %v", ctx.Errors)
	}
}

func TestAbortSkipsEvaluation(t *testing.T) {
	prog := ast.Prog(ast.Fn(nil, "main", nil,
		ast.Var(ast.T("int"), "a", ast.Str("x")),
		ast.Var(ast.T("int"), "b", ast.Str("y")),
		ast.Var(ast.T("int"), "c", ast.Str("z")),
	))
	ctx, _ := runPipeline(t, prog, diagnostics.NewCollector(2))
	if !ctx.Aborted {
		t.Error("context must record the abort")
	}
	if len(ctx.Errors) != 2 {
		t.Errorf("got %d diagnostics, want 2", len(ctx.Errors))
	}
}

func TestProcessorFunc(t *testing.T) {
	called := 0
	p := pipeline.New(pipeline.ProcessorFunc(func(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
		called++
		return ctx
	}))
	p.Run(pipeline.NewContext(nil))
	if called != 1 {
		t.Errorf("called %d times", called)
	}
}

func TestForeachBodyMayShadowLoopVariable(t *testing.T) {
	coll := ast.TG("Collection", ast.T("int"))
	prog := ast.Prog(ast.Fn(nil, "main", nil,
		ast.Var(coll, "c", ast.New(ast.T("Collection"), ast.TypeLit(ast.T("int")))),
		ast.Expr(ast.Method(ast.Ident("c"), "Add", ast.Int(1))),
		ast.Foreach(ast.T("int"), "x", ast.Ident("c"),
			ast.Var(ast.T("int"), "x", ast.Int(5)),
			ast.Expr(ast.Call("print", ast.Ident("x"))),
		),
	))
	ctx, out := runPipeline(t, prog, nil)
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Errors)
	}
	if out != "5\n" {
		t.Errorf("output = %q, want %q", out, "5\n")
	}
}

func TestFunctionEndingWithoutReturn(t *testing.T) {
	program := func(flag bool) *ast.Program {
		return ast.Prog(
			ast.Fn(ast.T("int"), "f", ast.Params(ast.Param(ast.T("bool"), "b")),
				ast.If(ast.Ident("b"), ast.Block(ast.Return(ast.Int(1))), nil),
			),
			ast.Fn(nil, "main", nil,
				ast.Var(ast.T("int"), "x", ast.Call("f", ast.Bool(flag))),
				ast.Expr(ast.Call("print", ast.Str("x="), ast.Ident("x"))),
			),
		)
	}

	ctx, out := runPipeline(t, program(true), nil)
	if ctx.HasErrors() || out != "x= 1\n" {
		t.Fatalf("f(true): output %q, errors %v", out, ctx.Errors)
	}

	ctx, out = runPipeline(t, program(false), nil)
	if out != "" {
		t.Errorf("nothing may print after the fault, got %q", out)
	}
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.ErrR001 {
		t.Fatalf("errors = %v", ctx.Errors)
	}
	if !strings.Contains(ctx.Errors[0].Message, "function f ended without returning a value") {
		t.Errorf("message = %q", ctx.Errors[0].Message)
	}
}
