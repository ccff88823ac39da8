package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/native"
	"github.com/funvibe/tally/internal/object"
	"github.com/shopspring/decimal"
)

func testRates(t *testing.T) *config.ConversionTable {
	t.Helper()
	table := config.NewConversionTable()
	for pair, rate := range map[[2]string]string{
		{"USD", "PLN"}: "4",
		{"PLN", "USD"}: "0.25",
		{"CHF", "PLN"}: "4.5",
	} {
		if err := table.SetRate(pair[0], pair[1], decimal.RequireFromString(rate)); err != nil {
			t.Fatal(err)
		}
	}
	return table
}

type runResult struct {
	out   string
	fault *object.Fault
	eval  *Evaluator
	diags *diagnostics.Collector
}

func run(t *testing.T, prog *ast.Program) runResult {
	t.Helper()
	var out bytes.Buffer
	diags := diagnostics.NewCollector(10)
	e := New(native.NewRegistry(testRates(t)), diags)
	e.Out = &out
	e.MaxCallDepth = 50
	f := e.Run(prog)
	return runResult{out: out.String(), fault: f, eval: e, diags: diags}
}

func mainOnly(body ...ast.Statement) *ast.Program {
	return ast.Prog(ast.Fn(nil, "main", nil, body...))
}

func printOf(args ...ast.Expression) ast.Statement {
	return ast.Expr(ast.Call("print", args...))
}

func pln() *ast.TypeName { return ast.TG("Account", ast.T("PLN")) }

func TestEndToEndPrint(t *testing.T) {
	prog := ast.Prog(
		ast.Fn(ast.T("int"), "f", nil, ast.Return(ast.Bin(ast.Int(1), "+", ast.Int(1)))),
		ast.Fn(nil, "main", nil, printOf(ast.Call("f"))),
	)
	res := run(t, prog)
	if res.fault != nil {
		t.Fatalf("unexpected fault: %v", res.fault)
	}
	if res.out != "2\n" {
		t.Errorf("output = %q, want %q", res.out, "2\n")
	}
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
		want string
	}{
		{"int arithmetic", ast.Bin(ast.Int(7), "/", ast.Int(2)), "3"},
		{"int promoted to decimal", ast.Bin(ast.Int(1), "+", ast.Dec("2.5")), "3.5"},
		{"string concat", ast.Bin(ast.Str("a"), "+", ast.Str("b")), "ab"},
		{"currency converted to left code", ast.Bin(ast.Money("10", "USD"), "+", ast.Money("4", "PLN")), "11.00 USD"},
		{"number times currency", ast.Bin(ast.Int(2), "*", ast.Money("3", "PLN")), "6.00 PLN"},
		{"currency divided", ast.Bin(ast.Money("9", "PLN"), "/", ast.Int(2)), "4.50 PLN"},
		{"currency comparison across codes", ast.Bin(ast.Money("1", "USD"), "==", ast.Money("4", "PLN")), "true"},
		{"ordering", ast.Bin(ast.Dec("1.5"), "<", ast.Int(2)), "true"},
		{"negation", ast.Unary("-", ast.Money("5", "CHF")), "-5.00 CHF"},
		{"not", ast.Unary("!", ast.Bool(false)), "true"},
		{"conversion to currency", ast.As(ast.Money("10", "USD"), ast.T("PLN")), "40.00 PLN"},
		{"conversion truncates", ast.As(ast.Dec("7.9"), ast.T("int")), "7"},
		{"null equals null", ast.Bin(ast.Null(), "==", ast.Null()), "true"},
		{"str", ast.Call("str", ast.Int(1), ast.Bool(true)), "1 true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, mainOnly(printOf(tt.expr)))
			if res.fault != nil {
				t.Fatalf("unexpected fault: %v", res.fault)
			}
			if got := strings.TrimSuffix(res.out, "\n"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFaults(t *testing.T) {
	coll := ast.TG("Collection", ast.T("int"))
	tests := []struct {
		name string
		prog *ast.Program
		kind object.FaultKind
	}{
		{"overflow", mainOnly(printOf(ast.Bin(ast.Int(9223372036854775807), "+", ast.Int(1)))), object.FaultOverflow},
		{"division by zero", mainOnly(printOf(ast.Bin(ast.Int(1), "/", ast.Int(0)))), object.FaultZeroDivision},
		{"missing rate", mainOnly(printOf(ast.Bin(ast.Money("1", "CHF"), "+", ast.Money("1", "PLN")))), object.FaultRateLookup},
		{"index out of range", mainOnly(
			ast.Var(coll, "c", ast.New(ast.T("Collection"), ast.TypeLit(ast.T("int")))),
			ast.Expr(ast.Method(ast.Ident("c"), "Add", ast.Int(1))),
			printOf(ast.Index(ast.Ident("c"), ast.Int(3))),
		), object.FaultIndexOutOfRange},
		{"null method receiver", mainOnly(
			ast.Var(coll, "c", nil),
			ast.Expr(ast.Method(ast.Ident("c"), "Add", ast.Int(1))),
		), object.FaultNullReference},
		{"null collection in foreach", mainOnly(
			ast.Var(coll, "c", ast.Null()),
			ast.Foreach(ast.T("int"), "x", ast.Ident("c")),
		), object.FaultNullReference},
		{"stack overflow", ast.Prog(
			ast.Fn(ast.T("int"), "r", ast.Params(ast.Param(ast.T("int"), "n")),
				ast.Return(ast.Call("r", ast.Bin(ast.Ident("n"), "+", ast.Int(1))))),
			ast.Fn(nil, "main", nil, printOf(ast.Call("r", ast.Int(0)))),
		), object.FaultStackOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.prog)
			if res.fault == nil {
				t.Fatalf("expected %s fault, output %q", tt.kind, res.out)
			}
			if res.fault.Kind != tt.kind {
				t.Errorf("fault kind = %s, want %s (%s)", res.fault.Kind, tt.kind, res.fault.Message)
			}
			if got := res.eval.ScopeDepth(); got != 1 {
				t.Errorf("scope depth after fault = %d, want 1", got)
			}
			if got := res.eval.StackSize(); got != 0 {
				t.Errorf("value stack after fault holds %d values", got)
			}
		})
	}
}

func TestFaultIsReportedOnce(t *testing.T) {
	prog := mainOnly(
		ast.Var(pln(), "a", nil),
		ast.SendTo(ast.At(ast.Ident("a"), 3, 5), ast.Money("1000", "PLN"), nil),
	)
	res := run(t, prog)
	if res.fault == nil || res.fault.Kind != object.FaultNullReference {
		t.Fatalf("expected NullReference, got %v", res.fault)
	}
	if res.fault.Token.Line != 3 || res.fault.Token.Column != 5 {
		t.Errorf("fault at %s, want 3:5", res.fault.Token)
	}
	errs := res.diags.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(errs))
	}
	if errs[0].Code != diagnostics.ErrR001 || !strings.HasPrefix(errs[0].Message, "NullReference: ") {
		t.Errorf("diagnostic = %v", errs[0])
	}
}

func TestTransfers(t *testing.T) {
	usd := ast.TG("Account", ast.T("USD"))
	tests := []struct {
		name string
		body []ast.Statement
		want string
	}{
		{
			"fund then withdraw a percentage",
			[]ast.Statement{
				ast.Var(pln(), "a", ast.New(pln(), ast.Int(100000))),
				ast.ReceiveFrom(ast.Ident("a"), ast.Money("100", "CHF"), nil),
				printOf(ast.Prop(ast.Ident("a"), "Balance")),
				ast.SendPercentTo(ast.Ident("a"), ast.Int(10), nil),
				printOf(ast.Prop(ast.Ident("a"), "Balance")),
			},
			"100450\n90405\n",
		},
		{
			"send to another currency",
			[]ast.Statement{
				ast.Var(pln(), "a", ast.New(pln(), ast.Int(1000))),
				ast.Var(usd, "b", ast.New(usd)),
				ast.SendTo(ast.Ident("a"), ast.Money("400", "PLN"), ast.Ident("b")),
				printOf(ast.Prop(ast.Ident("a"), "Balance"), ast.Prop(ast.Ident("b"), "Balance")),
			},
			"600 100\n",
		},
		{
			"receive a percentage of the source",
			[]ast.Statement{
				ast.Var(pln(), "a", ast.New(pln())),
				ast.Var(usd, "b", ast.New(usd, ast.Int(200))),
				ast.ReceivePercentFrom(ast.Ident("a"), ast.Int(50), ast.Ident("b")),
				printOf(ast.Prop(ast.Ident("a"), "Balance"), ast.Prop(ast.Ident("b"), "Balance")),
			},
			"400 100\n",
		},
		{
			"receive a percentage of itself",
			[]ast.Statement{
				ast.Var(pln(), "a", ast.New(pln(), ast.Int(80))),
				ast.ReceivePercentFrom(ast.Ident("a"), ast.Dec("12.5"), nil),
				printOf(ast.Prop(ast.Ident("a"), "Balance")),
			},
			"90\n",
		},
		{
			"copy is independent",
			[]ast.Statement{
				ast.Var(pln(), "a", ast.New(pln(), ast.Int(10), ast.Str("main"))),
				ast.Var(ast.T("var"), "b", ast.Method(ast.Ident("a"), "Copy")),
				ast.SendTo(ast.Ident("b"), ast.Money("4", "PLN"), nil),
				ast.Assign(ast.Prop(ast.Ident("b"), "Name"), ast.Str("copy")),
				printOf(ast.Prop(ast.Ident("a"), "Balance"), ast.Prop(ast.Ident("a"), "Name"),
					ast.Prop(ast.Ident("b"), "Balance"), ast.Prop(ast.Ident("b"), "Name"),
					ast.Bin(ast.Ident("a"), "==", ast.Ident("b"))),
			},
			"10 main 6 copy false\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, mainOnly(tt.body...))
			if res.fault != nil {
				t.Fatalf("unexpected fault: %v", res.fault)
			}
			if res.out != tt.want {
				t.Errorf("output = %q, want %q", res.out, tt.want)
			}
		})
	}
}

func TestLambdaSeesCallerScope(t *testing.T) {
	lambda := ast.TG("Lambda", ast.T("int"))
	prog := ast.Prog(
		ast.Fn(ast.T("bool"), "g", ast.Params(ast.Param(lambda, "p")),
			ast.Var(ast.T("int"), "limit", ast.Int(10)),
			ast.Return(ast.Call("p", ast.Int(5))),
		),
		ast.Fn(nil, "main", nil,
			ast.Var(ast.T("int"), "limit", ast.Int(2)),
			ast.Var(ast.T("var"), "f", ast.Lambda(ast.Param(ast.T("int"), "x"),
				ast.Bin(ast.Ident("x"), ">", ast.Ident("limit")))),
			printOf(ast.Call("f", ast.Int(5)), ast.Call("g", ast.Ident("f"))),
		),
	)
	res := run(t, prog)
	if res.fault != nil {
		t.Fatalf("unexpected fault: %v", res.fault)
	}
	if res.out != "true false\n" {
		t.Errorf("output = %q, want %q", res.out, "true false\n")
	}
}

func TestCollections(t *testing.T) {
	coll := ast.TG("Collection", ast.T("int"))
	fill := []ast.Statement{
		ast.Var(coll, "c", ast.New(ast.T("Collection"), ast.TypeLit(ast.T("int")))),
		ast.Var(ast.T("int"), "i", ast.Int(1)),
		ast.While(ast.Bin(ast.Ident("i"), "<=", ast.Int(5)),
			ast.Expr(ast.Method(ast.Ident("c"), "Add", ast.Ident("i"))),
			ast.Assign(ast.Ident("i"), ast.Bin(ast.Ident("i"), "+", ast.Int(1))),
		),
	}
	tests := []struct {
		name string
		body []ast.Statement
		want string
	}{
		{"foreach sums", []ast.Statement{
			ast.Var(ast.T("int"), "sum", nil),
			ast.Foreach(ast.T("int"), "x", ast.Ident("c"),
				ast.Assign(ast.Ident("sum"), ast.Bin(ast.Ident("sum"), "+", ast.Ident("x")))),
			printOf(ast.Ident("sum")),
		}, "15"},
		{"where with block lambda", []ast.Statement{
			printOf(ast.Prop(ast.Method(ast.Ident("c"), "Where", ast.Lambda(ast.Param(ast.T("int"), "x"),
				ast.Block(ast.Return(ast.Bin(ast.Ident("x"), ">", ast.Int(2)))))), "Count")),
		}, "3"},
		{"index assignment", []ast.Statement{
			ast.Assign(ast.Index(ast.Ident("c"), ast.Int(0)), ast.Int(42)),
			printOf(ast.Method(ast.Ident("c"), "First"), ast.Method(ast.Ident("c"), "Last")),
		}, "42 5"},
		{"foreach over a snapshot", []ast.Statement{
			ast.Foreach(ast.T("int"), "x", ast.Ident("c"),
				ast.Expr(ast.Method(ast.Ident("c"), "Delete", ast.Int(0)))),
			printOf(ast.Prop(ast.Ident("c"), "Count")),
		}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := append(append([]ast.Statement(nil), fill...), tt.body...)
			res := run(t, mainOnly(body...))
			if res.fault != nil {
				t.Fatalf("unexpected fault: %v", res.fault)
			}
			if got := strings.TrimSuffix(res.out, "\n"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortCircuit(t *testing.T) {
	prog := ast.Prog(
		ast.Fn(ast.T("bool"), "boom", nil, printOf(ast.Str("boom")), ast.Return(ast.Bool(true))),
		ast.Fn(nil, "main", nil,
			ast.If(ast.Bin(ast.Bool(false), "&&", ast.Call("boom")), ast.Block(printOf(ast.Str("and"))), nil),
			ast.If(ast.Bin(ast.Bool(true), "||", ast.Call("boom")), ast.Block(printOf(ast.Str("or"))), nil),
		),
	)
	res := run(t, prog)
	if res.fault != nil {
		t.Fatalf("unexpected fault: %v", res.fault)
	}
	if res.out != "or\n" {
		t.Errorf("output = %q, want %q", res.out, "or\n")
	}
}

func TestReturnUnwindsNestedBlocks(t *testing.T) {
	prog := ast.Prog(
		ast.Fn(ast.T("int"), "find", ast.Params(ast.Param(ast.T("int"), "limit")),
			ast.Var(ast.T("int"), "i", ast.Int(0)),
			ast.While(ast.Bool(true),
				ast.If(ast.Bin(ast.Ident("i"), "==", ast.Ident("limit")),
					ast.Block(ast.Block(ast.Return(ast.Bin(ast.Ident("i"), "*", ast.Int(10))))),
					ast.Block(ast.Assign(ast.Ident("i"), ast.Bin(ast.Ident("i"), "+", ast.Int(1))))),
			),
			ast.Return(ast.Int(-1)),
		),
		ast.Fn(nil, "main", nil,
			printOf(ast.Call("find", ast.Int(3))),
			ast.If(ast.Bool(false), ast.Block(), ast.Block(ast.Return(nil))),
			printOf(ast.Str("unreachable")),
		),
	)
	res := run(t, prog)
	if res.fault != nil {
		t.Fatalf("unexpected fault: %v", res.fault)
	}
	if res.out != "30\n" {
		t.Errorf("output = %q, want %q", res.out, "30\n")
	}
	if got := res.eval.ScopeDepth(); got != 1 {
		t.Errorf("scope depth after run = %d, want 1", got)
	}
	if got := res.eval.StackSize(); got != 0 {
		t.Errorf("value stack after run holds %d values", got)
	}
}

func TestZeroValues(t *testing.T) {
	prog := mainOnly(
		ast.Var(ast.T("int"), "i", nil),
		ast.Var(ast.T("decimal"), "d", nil),
		ast.Var(ast.T("bool"), "b", nil),
		ast.Var(ast.T("PLN"), "m", nil),
		ast.Var(pln(), "a", nil),
		printOf(ast.Ident("i"), ast.Ident("d"), ast.Ident("b"), ast.Ident("m"),
			ast.Bin(ast.Ident("a"), "==", ast.Null())),
	)
	res := run(t, prog)
	if res.fault != nil {
		t.Fatalf("unexpected fault: %v", res.fault)
	}
	if res.out != "0 0 false 0.00 PLN true\n" {
		t.Errorf("output = %q", res.out)
	}
}

func TestCallByName(t *testing.T) {
	prog := ast.Prog(
		ast.Fn(ast.T("int"), "add", ast.Params(ast.Param(ast.T("int"), "a"), ast.Param(ast.T("int"), "b")),
			ast.Return(ast.Bin(ast.Ident("a"), "+", ast.Ident("b")))),
		ast.Fn(nil, "main", nil),
	)
	e := New(native.NewRegistry(testRates(t)), nil)
	v, f := e.Call(prog, "add", &object.Integer{Value: 40}, &object.Integer{Value: 2})
	if f != nil {
		t.Fatalf("unexpected fault: %v", f)
	}
	if v.Inspect() != "42" {
		t.Errorf("add(40, 2) = %s", v.Inspect())
	}
	if _, f := e.Call(prog, "add", &object.String{Value: "x"}); f == nil || f.Kind != object.FaultUnresolvedFunction {
		t.Errorf("expected UnresolvedFunction, got %v", f)
	}
}

func TestMissingReturnFaults(t *testing.T) {
	prog := ast.Prog(
		ast.Fn(ast.T("int"), "f", nil,
			ast.Var(ast.T("int"), "unused", ast.Int(1)),
		),
		ast.Fn(nil, "main", nil, printOf(ast.Call("f"))),
	)
	res := run(t, prog)
	if res.fault == nil || res.fault.Kind != object.FaultUnsupportedOperation {
		t.Fatalf("fault = %v, want UnsupportedOperation", res.fault)
	}
	if res.out != "" {
		t.Errorf("output = %q", res.out)
	}
}

func TestLambdaResultUnknownWithoutTypes(t *testing.T) {
	prog := mainOnly(
		ast.Var(ast.T("var"), "f", ast.Lambda(ast.Param(ast.T("int"), "x"),
			ast.Bin(ast.Ident("x"), "*", ast.Int(2)))),
		printOf(ast.Ident("f"), ast.Call("f", ast.Int(4))),
	)
	res := run(t, prog)
	if res.fault != nil {
		t.Fatalf("unexpected fault: %v", res.fault)
	}
	if res.out != "(int x) => ? 8\n" {
		t.Errorf("output = %q", res.out)
	}
}
