package object

import (
	"fmt"

	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/typesystem"
	"github.com/shopspring/decimal"
)

// Account holds a balance in a single currency.
// The balance lives in the Balance property as a Decimal.
type Account struct {
	*Instance
	Code string
}

// AccountType is the class type of accounts in code.
func AccountType(code string) typesystem.Type {
	return typesystem.TApp{Name: config.AccountClassName, Param: typesystem.Currency(code)}
}

func NewAccount(code string, balance decimal.Decimal, name string) *Account {
	a := &Account{Instance: NewInstance(AccountType(code)), Code: code}
	a.Set(config.BalancePropertyName, &Decimal{Value: balance})
	a.Set(config.NamePropertyName, &String{Value: name})
	a.Set(config.CurrencyPropertyName, &TypeValue{Wrapped: typesystem.Currency(code)})
	return a
}

func (a *Account) Inspect() string {
	return fmt.Sprintf("%s(%s %s)", a.Class, a.Balance().StringFixed(2), a.Code)
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	if d, ok := a.Properties[config.BalancePropertyName].(*Decimal); ok {
		return d.Value
	}
	return decimal.Zero
}

func (a *Account) setBalance(v decimal.Decimal) {
	a.Set(config.BalancePropertyName, &Decimal{Value: v})
}

// Name returns the account's display name.
func (a *Account) Name() string {
	if s, ok := a.Properties[config.NamePropertyName].(*String); ok {
		return s.Value
	}
	return ""
}

// normalize turns an amount into a decimal in the account's currency.
// Plain numbers are taken to be in the account's currency already.
func (a *Account) normalize(amount Object, rates Converter) (decimal.Decimal, *Fault) {
	switch v := amount.(type) {
	case *Integer:
		return decimal.NewFromInt(v.Value), nil
	case *Decimal:
		return v.Value, nil
	case *Currency:
		conv, f := v.ConvertTo(typesystem.Currency(a.Code), rates)
		if f != nil {
			return decimal.Decimal{}, f
		}
		return conv.(*Currency).Amount, nil
	}
	return decimal.Decimal{}, NewFault(FaultUnsupportedOperation, "cannot move %s on %s", amount.RuntimeType(), a.Class)
}

// Fund adds amount to the balance after converting it to the account's currency.
func (a *Account) Fund(amount Object, rates Converter) *Fault {
	v, f := a.normalize(amount, rates)
	if f != nil {
		return f
	}
	a.setBalance(a.Balance().Add(v))
	return nil
}

// Withdraw subtracts amount from the balance. When target is not nil it is
// funded with the same original amount.
func (a *Account) Withdraw(amount Object, target *Account, rates Converter) *Fault {
	v, f := a.normalize(amount, rates)
	if f != nil {
		return f
	}
	if target != nil {
		if _, ok := amount.(*Currency); !ok {
			amount = &Currency{Code: a.Code, Amount: v}
		}
		if f := target.Fund(amount, rates); f != nil {
			return f
		}
	}
	a.setBalance(a.Balance().Sub(v))
	return nil
}

// PercentOf returns balance * pct / 100.
func (a *Account) PercentOf(pct Object) (*Decimal, *Fault) {
	var p decimal.Decimal
	switch v := pct.(type) {
	case *Integer:
		p = decimal.NewFromInt(v.Value)
	case *Decimal:
		p = v.Value
	default:
		return nil, NewFault(FaultUnsupportedOperation, "percentage must be numeric, got %s", pct.RuntimeType())
	}
	return &Decimal{Value: a.Balance().Mul(p).Div(hundred)}, nil
}

// Copy creates a new account with the same currency, balance and name.
func (a *Account) Copy() *Account {
	return NewAccount(a.Code, a.Balance(), a.Name())
}
