package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/diagnostics"
	"github.com/funvibe/tally/internal/native"
	"github.com/go-test/deep"
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

// analyzeProgram verifies prog against the builtin registry and returns
// every diagnostic in report order.
func analyzeProgram(t *testing.T, prog *ast.Program) ([]*diagnostics.DiagnosticError, *Analyzer) {
	t.Helper()
	diags := diagnostics.NewCollector(0)
	a := New(native.NewRegistry(testRates(t)), diags)
	if err := a.Analyze(prog); err != nil {
		t.Fatalf("unexpected abort: %v", err)
	}
	return diags.Errors(), a
}

func codes(errs []*diagnostics.DiagnosticError) []diagnostics.ErrorCode {
	out := make([]diagnostics.ErrorCode, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func messages(errs []*diagnostics.DiagnosticError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// expectCodes asserts the exact sequence of diagnostic codes.
func expectCodes(t *testing.T, prog *ast.Program, want ...diagnostics.ErrorCode) []*diagnostics.DiagnosticError {
	t.Helper()
	errs, _ := analyzeProgram(t, prog)
	if want == nil {
		want = []diagnostics.ErrorCode{}
	}
	if diff := deep.Equal(codes(errs), want); diff != nil {
		t.Fatalf("diagnostics differ: %v\ngot:\n%s", diff, messages(errs))
	}
	return errs
}

func mainOnly(body ...ast.Statement) *ast.Program {
	return ast.Prog(ast.Fn(nil, "main", nil, body...))
}

func pln() *ast.TypeName { return ast.TG("Account", ast.T("PLN")) }

func newPLN(args ...ast.Expression) ast.Expression { return ast.New(pln(), args...) }

// ---------------------------------------------------------------------------
// Programs that verify cleanly
// ---------------------------------------------------------------------------

func TestValidPrograms(t *testing.T) {
	coll := ast.TG("Collection", ast.T("int"))
	lambda := ast.TG("Lambda", ast.T("int"))
	tests := []struct {
		name string
		prog *ast.Program
	}{
		{"return of a sum", ast.Prog(
			ast.Fn(ast.T("int"), "f", nil, ast.Return(ast.Bin(ast.Int(1), "+", ast.Int(1)))),
			ast.Fn(nil, "main", nil, ast.Expr(ast.Call("print", ast.Call("f")))),
		)},
		{"transfers", mainOnly(
			ast.Var(pln(), "a", newPLN(ast.Money("100", "PLN"), ast.Str("main"))),
			ast.Var(ast.TG("Account", ast.T("USD")), "b", ast.New(ast.TG("Account", ast.T("USD")))),
			ast.SendTo(ast.Ident("a"), ast.Money("10", "USD"), ast.Ident("b")),
			ast.SendPercentTo(ast.Ident("a"), ast.Dec("2.5"), nil),
			ast.ReceiveFrom(ast.Ident("a"), ast.Money("1", "CHF"), nil),
			ast.ReceivePercentFrom(ast.Ident("b"), ast.Int(50), ast.Ident("a")),
			ast.Assign(ast.Prop(ast.Ident("a"), "Name"), ast.Str("renamed")),
			ast.Expr(ast.Call("print", ast.Prop(ast.Ident("a"), "Balance"), ast.Prop(ast.Ident("b"), "Currency"))),
		)},
		{"collections and inference", mainOnly(
			ast.Var(ast.T("var"), "c", ast.New(ast.T("Collection"), ast.TypeLit(ast.T("int")))),
			ast.Expr(ast.Method(ast.Ident("c"), "Add", ast.Int(1))),
			ast.Var(ast.T("int"), "n", ast.Prop(ast.Ident("c"), "Count")),
			ast.Assign(ast.Index(ast.Ident("c"), ast.Int(0)), ast.Ident("n")),
			ast.Var(coll, "big", ast.Method(ast.Ident("c"), "Where",
				ast.Lambda(ast.Param(ast.T("int"), "x"), ast.Bin(ast.Ident("x"), ">", ast.Int(1))))),
			ast.Foreach(ast.T("int"), "x", ast.Ident("big"),
				ast.Expr(ast.Call("print", ast.Ident("x")))),
		)},
		{"lambda passed to a function", ast.Prog(
			ast.Fn(ast.T("bool"), "g", ast.Params(ast.Param(lambda, "p")),
				ast.Return(ast.Call("p", ast.Int(5)))),
			ast.Fn(nil, "main", nil,
				ast.Var(ast.T("int"), "limit", ast.Int(2)),
				ast.Var(ast.T("var"), "f", ast.Lambda(ast.Param(ast.T("int"), "x"),
					ast.Block(ast.Return(ast.Bin(ast.Ident("x"), ">", ast.Ident("limit")))))),
				ast.Expr(ast.Call("print", ast.Call("g", ast.Ident("f")))),
			),
		)},
		{"null references", mainOnly(
			ast.Var(pln(), "a", ast.Null()),
			ast.If(ast.Bin(ast.Ident("a"), "==", ast.Null()),
				ast.Block(ast.Assign(ast.Ident("a"), newPLN(ast.Int(1)))), nil),
		)},
		{"currency arithmetic and conversion", mainOnly(
			ast.Var(ast.T("PLN"), "m", ast.Bin(ast.Money("1", "PLN"), "+", ast.Money("1", "USD"))),
			ast.Var(ast.T("PLN"), "twice", ast.Bin(ast.Int(2), "*", ast.Ident("m"))),
			ast.Var(ast.T("decimal"), "d", ast.As(ast.Ident("twice"), ast.T("decimal"))),
			ast.Var(ast.T("bool"), "b", ast.Bin(ast.Bin(ast.Ident("d"), ">", ast.Int(1)), "&&", ast.Unary("!", ast.Bool(false)))),
			ast.Var(ast.T("string"), "s", ast.Bin(ast.Str("a"), "+", ast.Call("str", ast.Ident("b")))),
		)},
		{"recursion and loops", ast.Prog(
			ast.Fn(ast.T("int"), "fact", ast.Params(ast.Param(ast.T("int"), "n")),
				ast.If(ast.Bin(ast.Ident("n"), "<=", ast.Int(1)), ast.Block(ast.Return(ast.Int(1))), nil),
				ast.Return(ast.Bin(ast.Ident("n"), "*", ast.Call("fact", ast.Bin(ast.Ident("n"), "-", ast.Int(1)))))),
			ast.Fn(nil, "main", nil,
				ast.Var(ast.T("int"), "i", ast.Int(0)),
				ast.While(ast.Bin(ast.Ident("i"), "<", ast.Int(3)),
					ast.Assign(ast.Ident("i"), ast.Bin(ast.Ident("i"), "+", ast.Int(1)))),
				ast.Expr(ast.Call("print", ast.Call("fact", ast.Ident("i")))),
			),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCodes(t, tt.prog)
		})
	}
}

// ---------------------------------------------------------------------------
// One diagnostic per mistake
// ---------------------------------------------------------------------------

func TestDiagnostics(t *testing.T) {
	acct := ast.Var(pln(), "a", newPLN())
	tests := []struct {
		name string
		prog *ast.Program
		want []diagnostics.ErrorCode
	}{
		// A001
		{"undefined identifier", mainOnly(ast.Expr(ast.Call("print", ast.Ident("x")))),
			[]diagnostics.ErrorCode{diagnostics.ErrA001}},

		// A002
		{"unknown type", mainOnly(ast.Var(ast.T("Foo"), "v", nil)),
			[]diagnostics.ErrorCode{diagnostics.ErrA002}},
		{"unknown currency", mainOnly(ast.Expr(ast.Call("print", ast.Money("1", "EUR")))),
			[]diagnostics.ErrorCode{diagnostics.ErrA002}},
		{"unknown class", mainOnly(ast.Expr(ast.New(ast.T("Ledger")))),
			[]diagnostics.ErrorCode{diagnostics.ErrA002}},

		// A003
		{"initializer mismatch", mainOnly(ast.Var(ast.T("int"), "x", ast.Str("s"))),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"if condition", mainOnly(ast.If(ast.Int(1), ast.Block(), nil)),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"while condition", mainOnly(ast.While(ast.Str("s"))),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"foreach variable type", mainOnly(
			ast.Var(ast.TG("Collection", ast.T("int")), "c", ast.New(ast.T("Collection"), ast.TypeLit(ast.T("int")))),
			ast.Foreach(ast.T("string"), "s", ast.Ident("c")),
		), []diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"foreach over a scalar", mainOnly(ast.Foreach(ast.T("int"), "x", ast.Int(3))),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"transfer of a plain number", mainOnly(acct, ast.SendTo(ast.Ident("a"), ast.Int(5), nil)),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"percentage given as currency", mainOnly(acct, ast.SendPercentTo(ast.Ident("a"), ast.Money("5", "PLN"), nil)),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"transfer on a non account", mainOnly(
			ast.Var(ast.T("int"), "n", ast.Int(1)),
			ast.ReceiveFrom(ast.Ident("n"), ast.Money("5", "PLN"), nil),
		), []diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"transfer to a non account", mainOnly(acct, ast.SendTo(ast.Ident("a"), ast.Money("5", "PLN"), ast.Int(1))),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"operator operands", mainOnly(ast.Expr(ast.Call("print", ast.Bin(ast.Int(1), "+", ast.Bool(true))))),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"currency times currency", mainOnly(ast.Expr(ast.Call("print", ast.Bin(ast.Money("1", "PLN"), "*", ast.Money("1", "PLN"))))),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"negated bool", mainOnly(ast.Expr(ast.Call("print", ast.Unary("-", ast.Bool(true))))),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"not on int", mainOnly(ast.Expr(ast.Call("print", ast.Unary("!", ast.Int(1))))),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"string conversion", mainOnly(ast.Expr(ast.Call("print", ast.As(ast.Str("1"), ast.T("int"))))),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"read-only property", mainOnly(acct, ast.Assign(ast.Prop(ast.Ident("a"), "Balance"), ast.Dec("5"))),
			[]diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"lambda result", ast.Prog(
			ast.Fn(nil, "g", ast.Params(ast.Param(ast.TG("Lambda", ast.T("int")), "p"))),
			ast.Fn(nil, "main", nil, ast.Expr(ast.Call("g",
				ast.Lambda(ast.Param(ast.T("int"), "x"), ast.Bin(ast.Ident("x"), "+", ast.Int(1)))))),
		), []diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"return type", ast.Prog(
			ast.Fn(ast.T("int"), "f", nil, ast.Return(ast.Str("s"))),
			ast.Fn(nil, "main", nil),
		), []diagnostics.ErrorCode{diagnostics.ErrA003}},
		{"void variable", ast.Prog(
			ast.Fn(nil, "g", nil),
			ast.Fn(nil, "main", nil, ast.Var(ast.T("var"), "v", ast.Call("g"))),
		), []diagnostics.ErrorCode{diagnostics.ErrA003}},

		// A004
		{"redeclared local", mainOnly(
			ast.Var(ast.T("int"), "x", ast.Int(1)),
			ast.Var(ast.T("int"), "x", ast.Int(2)),
		), []diagnostics.ErrorCode{diagnostics.ErrA004}},
		{"duplicate function", ast.Prog(
			ast.Fn(nil, "g", nil),
			ast.Fn(nil, "g", nil),
			ast.Fn(nil, "main", nil),
		), []diagnostics.ErrorCode{diagnostics.ErrA004}},
		{"duplicate parameter", ast.Prog(
			ast.Fn(nil, "g", ast.Params(ast.Param(ast.T("int"), "a"), ast.Param(ast.T("int"), "a"))),
			ast.Fn(nil, "main", nil),
		), []diagnostics.ErrorCode{diagnostics.ErrA004}},

		// A005
		{"var without initializer", mainOnly(ast.Var(ast.T("var"), "x", nil)),
			[]diagnostics.ErrorCode{diagnostics.ErrA005}},
		{"var from null", mainOnly(ast.Var(ast.T("var"), "x", ast.Null())),
			[]diagnostics.ErrorCode{diagnostics.ErrA005}},
		{"account without currency", mainOnly(ast.Var(ast.T("Account"), "a", nil)),
			[]diagnostics.ErrorCode{diagnostics.ErrA005}},
		{"var parameter", ast.Prog(
			ast.Fn(nil, "g", ast.Params(ast.Param(ast.T("var"), "x"))),
			ast.Fn(nil, "main", nil),
		), []diagnostics.ErrorCode{diagnostics.ErrA005}},

		// A006
		{"unknown function", mainOnly(ast.Expr(ast.Call("nope"))),
			[]diagnostics.ErrorCode{diagnostics.ErrA006}},
		{"wrong argument types", ast.Prog(
			ast.Fn(nil, "g", ast.Params(ast.Param(ast.T("int"), "n"))),
			ast.Fn(nil, "main", nil, ast.Expr(ast.Call("g", ast.Str("s")))),
		), []diagnostics.ErrorCode{diagnostics.ErrA006}},
		{"unknown method", mainOnly(acct, ast.Expr(ast.Method(ast.Ident("a"), "Close"))),
			[]diagnostics.ErrorCode{diagnostics.ErrA006}},
		{"unknown property", mainOnly(acct, ast.Expr(ast.Call("print", ast.Prop(ast.Ident("a"), "Owner")))),
			[]diagnostics.ErrorCode{diagnostics.ErrA006}},
		{"unknown constructor", mainOnly(ast.Expr(newPLN(ast.Bool(true)))),
			[]diagnostics.ErrorCode{diagnostics.ErrA006}},
		{"lambda arity", mainOnly(
			ast.Var(ast.T("var"), "f", ast.Lambda(ast.Param(ast.T("int"), "x"), ast.Bool(true))),
			ast.Expr(ast.Call("f", ast.Int(1), ast.Int(2))),
		), []diagnostics.ErrorCode{diagnostics.ErrA006}},

		// A007
		{"missing return", ast.Prog(
			ast.Fn(ast.T("int"), "f", nil),
			ast.Fn(nil, "main", nil),
		), []diagnostics.ErrorCode{diagnostics.ErrA007}},
		{"value from void", ast.Prog(
			ast.Fn(nil, "g", nil, ast.Return(ast.Int(1))),
			ast.Fn(nil, "main", nil),
		), []diagnostics.ErrorCode{diagnostics.ErrA007}},
		{"bare return in int function", ast.Prog(
			ast.Fn(ast.T("int"), "f", nil, ast.Return(nil)),
			ast.Fn(nil, "main", nil),
		), []diagnostics.ErrorCode{diagnostics.ErrA007}},

		// A008
		{"no main", ast.Prog(ast.Fn(nil, "g", nil)),
			[]diagnostics.ErrorCode{diagnostics.ErrA008}},
		{"main with parameters", ast.Prog(
			ast.Fn(nil, "main", ast.Params(ast.Param(ast.T("int"), "x"))),
		), []diagnostics.ErrorCode{diagnostics.ErrA008}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCodes(t, tt.prog, tt.want...)
		})
	}
}

func TestTypeErrorCarriesTypes(t *testing.T) {
	errs := expectCodes(t, mainOnly(ast.Var(ast.T("int"), "x", ast.At(ast.Str("s"), 2, 13))),
		diagnostics.ErrA003)
	e := errs[0]
	if e.Token.Line != 2 || e.Token.Column != 13 {
		t.Errorf("position = %s, want 2:13", e.Token)
	}
	if len(e.Offending) != 1 || e.Offending[0].String() != "string" {
		t.Errorf("offending = %v", e.Offending)
	}
	if len(e.Expected) != 1 || e.Expected[0].String() != "int" {
		t.Errorf("expected = %v", e.Expected)
	}
}

func TestUnresolvedIdentifierAbandonsFunction(t *testing.T) {
	prog := ast.Prog(
		ast.Fn(nil, "main", nil,
			ast.Expr(ast.Call("print", ast.Ident("x"))),
			ast.Var(ast.T("int"), "y", ast.Str("not checked")),
		),
		ast.Fn(nil, "g", nil,
			ast.Var(ast.T("int"), "z", ast.Bool(true)),
		),
	)
	expectCodes(t, prog, diagnostics.ErrA001, diagnostics.ErrA003)
}

func TestHandlerAbort(t *testing.T) {
	prog := mainOnly(
		ast.Var(ast.T("int"), "a", ast.Bool(true)),
		ast.Var(ast.T("int"), "b", ast.Bool(true)),
		ast.Var(ast.T("int"), "c", ast.Bool(true)),
		ast.Var(ast.T("int"), "d", ast.Bool(true)),
	)
	diags := diagnostics.NewCollector(2)
	a := New(native.NewRegistry(testRates(t)), diags)
	err := a.Analyze(prog)
	if !errors.Is(err, diagnostics.ErrAborted) {
		t.Fatalf("Analyze() = %v, want ErrAborted", err)
	}
	if got := len(diags.Errors()); got != 2 {
		t.Errorf("collected %d diagnostics, want 2", got)
	}
	if a.Count() != 2 {
		t.Errorf("Count() = %d, want 2", a.Count())
	}
}

func TestTypeMap(t *testing.T) {
	sum := ast.Bin(ast.Int(1), "+", ast.Dec("1.5"))
	lambda := ast.Lambda(ast.Param(ast.T("int"), "x"), ast.Block(ast.Return(ast.Bin(ast.Ident("x"), ">", ast.Int(0)))))
	money := ast.Bin(ast.Int(3), "*", ast.Money("2", "USD"))
	prog := mainOnly(
		ast.Var(ast.T("decimal"), "d", sum),
		ast.Var(ast.T("var"), "f", lambda),
		ast.Var(ast.T("USD"), "m", money),
	)
	errs, a := analyzeProgram(t, prog)
	if len(errs) > 0 {
		t.Fatalf("unexpected diagnostics:\n%s", messages(errs))
	}
	tests := []struct {
		node ast.Node
		want string
	}{
		{sum, "decimal"},
		{lambda, "Lambda<int>"},
		{money, "USD"},
	}
	for _, tt := range tests {
		got, ok := a.TypeMap[tt.node]
		if !ok {
			t.Errorf("%T has no type", tt.node)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%T typed %s, want %s", tt.node, got, tt.want)
		}
	}
}
