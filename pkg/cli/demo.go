package cli

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/shopspring/decimal"
)

// demoRates is used when no settings file names a conversion table.
func demoRates() *config.ConversionTable {
	table := config.NewConversionTable()
	for _, r := range []struct{ from, to, rate string }{
		{"USD", "PLN", "4"},
		{"PLN", "USD", "0.25"},
		{"EUR", "PLN", "4.25"},
		{"PLN", "EUR", "0.235"},
	} {
		_ = table.SetRate(r.from, r.to, decimal.RequireFromString(r.rate))
	}
	return table
}

// demoProgram is
//
//	void main() {
//	    Account<PLN> savings = Account<PLN>(1000 PLN, "savings");
//	    Account<USD> travel = Account<USD>(0, "travel");
//	    savings >> 10% to travel;
//	    savings << 2%;
//	    Collection<int> fees = Collection(int);
//	    fees.Add(3); fees.Add(12); fees.Add(7);
//	    print(savings.Name, savings.Balance, travel.Name, travel.Balance);
//	    print("large fees:", fees.Where((int f) => f > 5).Count);
//	}
func demoProgram() *ast.Program {
	pln := ast.TG("Account", ast.T("PLN"))
	usd := ast.TG("Account", ast.T("USD"))
	ints := ast.TG("Collection", ast.T("int"))
	savings, travel, fees := ast.Ident("savings"), ast.Ident("travel"), ast.Ident("fees")

	prog := ast.Prog(ast.Fn(nil, "main", nil,
		ast.Var(pln, "savings", ast.New(pln, ast.Money("1000", "PLN"), ast.Str("savings"))),
		ast.Var(usd, "travel", ast.New(usd, ast.Int(0), ast.Str("travel"))),
		ast.SendPercentTo(savings, ast.Int(10), travel),
		ast.ReceivePercentFrom(savings, ast.Int(2), nil),
		ast.Var(ints, "fees", ast.New(ast.T("Collection"), ast.TypeLit(ast.T("int")))),
		ast.Expr(ast.Method(fees, "Add", ast.Int(3))),
		ast.Expr(ast.Method(fees, "Add", ast.Int(12))),
		ast.Expr(ast.Method(fees, "Add", ast.Int(7))),
		ast.Expr(ast.Call("print",
			ast.Prop(savings, "Name"), ast.Prop(savings, "Balance"),
			ast.Prop(travel, "Name"), ast.Prop(travel, "Balance"))),
		ast.Expr(ast.Call("print", ast.Str("large fees:"),
			ast.Prop(ast.Method(fees, "Where",
				ast.Lambda(ast.Param(ast.T("int"), "f"), ast.Bin(ast.Ident("f"), ">", ast.Int(5)))), "Count"))),
	))
	prog.File = "demo" + config.SourceFileExt
	return prog
}
