package analyzer

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/typesystem"
)

var anyAccount = typesystem.TApp{Name: config.AccountClassName}

// checkTransfer validates `acct >> amount [to other]` and `acct << amount [from other]`.
func (w *walker) checkTransfer(account, amount ast.Expression, percentage bool, other ast.Expression) {
	w.expectAccount(account)

	at := w.expr(amount)
	if at != nil {
		if percentage {
			if !typesystem.IsNumeric(at) {
				w.typeError(amount.GetToken(), types(at), types(typesystem.Int, typesystem.Decimal),
					"percentage must be int or decimal")
			}
		} else if !typesystem.IsCurrency(at) {
			w.typeError(amount.GetToken(), types(at), nil, "transferred amount must be a currency value")
		}
	}

	if other != nil {
		w.expectAccount(other)
	}
}

func (w *walker) expectAccount(e ast.Expression) {
	t := w.expr(e)
	if t != nil && !typesystem.IsGeneric(t, config.AccountClassName) {
		w.typeError(e.GetToken(), types(t), types(anyAccount), "expected an account")
	}
}
