package native

import (
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/symbols"
	"github.com/funvibe/tally/internal/typesystem"
	"github.com/shopspring/decimal"
)

// AccountPrototype builds Account<C> for a currency C.
func AccountPrototype() *symbols.Prototype {
	return &symbols.Prototype{
		Name:  config.AccountClassName,
		Build: buildAccount,
	}
}

func buildAccount(param typesystem.Type) (*symbols.Class, error) {
	if !typesystem.IsCurrency(param) {
		return nil, symbols.ErrBadParameter
	}
	code := param.Identity()
	t := object.AccountType(code)
	c := symbols.NewClass(config.AccountClassName, t, param)

	open := func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
		balance := decimal.Zero
		name := ""
		if len(args) > 0 {
			b, f := amountOf(args[0], code, call.Rates)
			if f != nil {
				return nil, f
			}
			balance = b
		}
		if len(args) > 1 {
			name = args[1].(*object.String).Value
		}
		acct := object.NewAccount(code, balance, name)
		if call.Logger != nil {
			call.Logger.Debug("account opened", "id", acct.ID, "currency", code, "balance", balance.String())
		}
		return object.NewReference(acct), nil
	}

	c.AddConstructor(open)
	for _, amount := range []typesystem.Type{typesystem.Int, typesystem.Decimal, param} {
		c.AddConstructor(open, amount)
		c.AddConstructor(open, amount, typesystem.String)
	}

	c.AddProperty(&symbols.Property{
		Name: config.CurrencyPropertyName,
		Type: typesystem.TType{Type: param},
		Get: func(self object.Referent) object.Object {
			return &object.TypeValue{Wrapped: param}
		},
	})
	c.AddProperty(&symbols.Property{
		Name: config.BalancePropertyName,
		Type: typesystem.Decimal,
		Get: func(self object.Referent) object.Object {
			return &object.Decimal{Value: self.(*object.Account).Balance()}
		},
	})
	c.AddProperty(&symbols.Property{
		Name: config.NamePropertyName,
		Type: typesystem.String,
		Get: func(self object.Referent) object.Object {
			return &object.String{Value: self.(*object.Account).Name()}
		},
		Set: func(self object.Referent, v object.Object) *object.Fault {
			self.Base().Set(config.NamePropertyName, v)
			return nil
		},
	})

	c.AddMethod(config.CopyMethodName, t, func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
		return object.NewReference(call.Self.(*object.Account).Copy()), nil
	})
	return c, nil
}

// amountOf reads an opening balance given as int, decimal or currency.
func amountOf(v object.Object, code string, rates object.Converter) (decimal.Decimal, *object.Fault) {
	conv, ok := v.(object.Convertible)
	if !ok {
		return decimal.Decimal{}, object.NewFault(object.FaultUnsupportedOperation, "invalid opening balance %s", v.RuntimeType())
	}
	c, f := conv.ConvertTo(typesystem.Currency(code), rates)
	if f != nil {
		return decimal.Decimal{}, f
	}
	return c.(*object.Currency).Amount, nil
}
