package ast

import (
	"github.com/funvibe/tally/internal/token"
	"github.com/shopspring/decimal"
)

// Identifier represents a variable reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// IntegerLiteral represents an integer literal.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

// DecimalLiteral represents a literal with a fractional part, e.g. 2.50
type DecimalLiteral struct {
	Token token.Token
	Value decimal.Decimal
}

func (dl *DecimalLiteral) expressionNode()       {}
func (dl *DecimalLiteral) TokenLiteral() string  { return dl.Token.Lexeme }
func (dl *DecimalLiteral) GetToken() token.Token { return dl.Token }

// BooleanLiteral represents boolean literals true/false.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()       {}
func (b *BooleanLiteral) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BooleanLiteral) GetToken() token.Token { return b.Token }

// StringLiteral represents a string literal.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

// CurrencyLiteral is an amount tagged with a currency code: 100 PLN
type CurrencyLiteral struct {
	Token  token.Token
	Amount decimal.Decimal
	Code   string
}

func (cl *CurrencyLiteral) expressionNode()       {}
func (cl *CurrencyLiteral) TokenLiteral() string  { return cl.Token.Lexeme }
func (cl *CurrencyLiteral) GetToken() token.Token { return cl.Token }

// NullLiteral is the null reference.
type NullLiteral struct {
	Token token.Token
}

func (nl *NullLiteral) expressionNode()       {}
func (nl *NullLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NullLiteral) GetToken() token.Token { return nl.Token }

// TypeLiteral uses a type as a value, e.g. the argument of Collection(int).
type TypeLiteral struct {
	Token token.Token
	Type  *TypeName
}

func (tl *TypeLiteral) expressionNode()       {}
func (tl *TypeLiteral) TokenLiteral() string  { return tl.Token.Lexeme }
func (tl *TypeLiteral) GetToken() token.Token { return tl.Token }

// BinaryExpression: left op right
type BinaryExpression struct {
	Token    token.Token // The operator token
	Operator string
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) expressionNode()       {}
func (be *BinaryExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BinaryExpression) GetToken() token.Token { return be.Token }

// UnaryExpression: -x, !x
type UnaryExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (ue *UnaryExpression) expressionNode()       {}
func (ue *UnaryExpression) TokenLiteral() string  { return ue.Token.Lexeme }
func (ue *UnaryExpression) GetToken() token.Token { return ue.Token }

// CallExpression calls a free function or a variable holding a lambda: f(1, 2)
type CallExpression struct {
	Token     token.Token // The function name token
	Function  string
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// MethodCallExpression: items.Add(3)
type MethodCallExpression struct {
	Token     token.Token // The '.' token
	Object    Expression
	Method    string
	Arguments []Expression
}

func (mc *MethodCallExpression) expressionNode()       {}
func (mc *MethodCallExpression) TokenLiteral() string  { return mc.Token.Lexeme }
func (mc *MethodCallExpression) GetToken() token.Token { return mc.Token }

// PropertyExpression: acct.Balance
type PropertyExpression struct {
	Token    token.Token // The '.' token
	Object   Expression
	Property string
}

func (pe *PropertyExpression) expressionNode()       {}
func (pe *PropertyExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PropertyExpression) GetToken() token.Token { return pe.Token }

// IndexExpression represents indexing, e.g. items[i]
type IndexExpression struct {
	Token token.Token // The '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }

// NewExpression constructs a native class instance.
// Account<PLN>(100 PLN), Collection(int), Collection<int>(int)
type NewExpression struct {
	Token     token.Token
	Class     *TypeName
	Arguments []Expression
}

func (ne *NewExpression) expressionNode()       {}
func (ne *NewExpression) TokenLiteral() string  { return ne.Token.Lexeme }
func (ne *NewExpression) GetToken() token.Token { return ne.Token }

// ConversionExpression converts a value: price as USD, total as int
type ConversionExpression struct {
	Token  token.Token // The 'as' token
	Value  Expression
	Target *TypeName
}

func (ce *ConversionExpression) expressionNode()       {}
func (ce *ConversionExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *ConversionExpression) GetToken() token.Token { return ce.Token }

// LambdaExpression: (int x) => x > 2  or  (int x) => { return x * 2; }
// Body is an Expression or a *BlockStatement.
type LambdaExpression struct {
	Token     token.Token
	Parameter *Parameter
	Body      Expression
}

func (le *LambdaExpression) expressionNode()       {}
func (le *LambdaExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LambdaExpression) GetToken() token.Token { return le.Token }

// BlockBody returns the body as a block, or nil when it is a single expression.
func (le *LambdaExpression) BlockBody() *BlockStatement {
	b, _ := le.Body.(*BlockStatement)
	return b
}
