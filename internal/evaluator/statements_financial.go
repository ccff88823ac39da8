package evaluator

import (
	"github.com/funvibe/tally/internal/ast"
	"github.com/funvibe/tally/internal/object"
)

// account evaluates expr to an account, faulting on null.
func (e *Evaluator) account(expr ast.Expression) (*object.Account, *object.Fault) {
	if f := e.eval(expr); f != nil {
		return nil, f
	}
	target, f := deref(e.pop())
	if f != nil {
		return nil, f.At(expr.GetToken())
	}
	acct, ok := target.(*object.Account)
	if !ok {
		return nil, object.NewFault(object.FaultUnsupportedOperation, "%s is not an account", target.Base().Class).At(expr.GetToken())
	}
	return acct, nil
}

// optionalAccount evaluates the counterpart of a transfer, which may be absent.
func (e *Evaluator) optionalAccount(expr ast.Expression) (*object.Account, *object.Fault) {
	if expr == nil {
		return nil, nil
	}
	return e.account(expr)
}

func (e *Evaluator) amount(expr ast.Expression) (object.Object, *object.Fault) {
	if f := e.eval(expr); f != nil {
		return nil, f
	}
	return e.pop(), nil
}

// execTransferTo runs `acct >> amount [to target]`. A percentage is taken of
// the sending account's balance.
func (e *Evaluator) execTransferTo(s *ast.TransferToStatement) *object.Fault {
	acct, f := e.account(s.Account)
	if f != nil {
		return f
	}
	amount, f := e.amount(s.Amount)
	if f != nil {
		return f
	}
	target, f := e.optionalAccount(s.Target)
	if f != nil {
		return f
	}

	if s.Percentage {
		if amount, f = acct.PercentOf(amount); f != nil {
			return f.At(s.Amount.GetToken())
		}
	}
	if f := acct.Withdraw(amount, target, e.registry.Rates); f != nil {
		return f.At(s.Token)
	}
	e.logTransfer(s.Token.String(), ">>", acct, target, amount)
	return nil
}

// execTransferFrom runs `acct << amount [from source]`. A percentage is taken
// of the source's balance, or of the receiving account's own balance when
// there is no source.
func (e *Evaluator) execTransferFrom(s *ast.TransferFromStatement) *object.Fault {
	acct, f := e.account(s.Account)
	if f != nil {
		return f
	}
	amount, f := e.amount(s.Amount)
	if f != nil {
		return f
	}
	source, f := e.optionalAccount(s.Source)
	if f != nil {
		return f
	}

	if s.Percentage {
		base := acct
		if source != nil {
			base = source
		}
		pct, f := base.PercentOf(amount)
		if f != nil {
			return f.At(s.Amount.GetToken())
		}
		amount = &object.Currency{Code: base.Code, Amount: pct.Value}
	}

	if source == nil {
		f = acct.Fund(amount, e.registry.Rates)
	} else {
		f = source.Withdraw(amount, acct, e.registry.Rates)
	}
	if f != nil {
		return f.At(s.Token)
	}
	e.logTransfer(s.Token.String(), "<<", acct, source, amount)
	return nil
}

func (e *Evaluator) logTransfer(pos, op string, acct, other *object.Account, amount object.Object) {
	attrs := []any{"pos", pos, "op", op, "account", acct.ID, "amount", amount.Inspect(), "balance", acct.Balance().StringFixed(2)}
	if other != nil {
		attrs = append(attrs, "counterpart", other.ID, "counterpart_balance", other.Balance().StringFixed(2))
	}
	e.Logger.Debug("transfer", attrs...)
}
