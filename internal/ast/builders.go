package ast

import (
	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/token"
	"github.com/shopspring/decimal"
)

// Builders for hosts and tests that assemble programs without a parser.
// Nodes carry the lexeme but no position; use At to place a node.

func tok(lexeme string) token.Token { return token.Token{Lexeme: lexeme} }

// Positioned is implemented by every node built here.
type Positioned interface {
	setToken(t token.Token)
}

// At sets the line and column of a built node and returns it.
func At[N Positioned](n N, line, col int) N {
	n.setToken(token.Token{Line: line, Column: col})
	return n
}

func Prog(fns ...*FunctionDeclaration) *Program {
	return &Program{Functions: fns}
}

// Fn declares a function. ret is nil for void.
func Fn(ret *TypeName, name string, params []*Parameter, body ...Statement) *FunctionDeclaration {
	if ret == nil {
		ret = T(config.VoidTypeName)
	}
	return &FunctionDeclaration{Token: ret.Token, Name: name, Parameters: params, ReturnType: ret, Body: Block(body...)}
}

func Params(ps ...*Parameter) []*Parameter { return ps }

func Param(t *TypeName, name string) *Parameter {
	return &Parameter{Token: tok(name), Name: name, Type: t}
}

// T names a type; TG names a generic type.
func T(name string) *TypeName { return &TypeName{Token: tok(name), Name: name} }

func TG(name string, param *TypeName) *TypeName {
	return &TypeName{Token: tok(name), Name: name, Param: param}
}

func Block(stmts ...Statement) *BlockStatement {
	return &BlockStatement{Token: tok("{"), Statements: stmts}
}

// Var declares a local; value may be nil.
func Var(t *TypeName, name string, value Expression) *VarDeclaration {
	return &VarDeclaration{Token: t.Token, Type: t, Name: name, Value: value}
}

func Assign(target, value Expression) *AssignStatement {
	return &AssignStatement{Token: tok("="), Target: target, Value: value}
}

func If(cond Expression, then *BlockStatement, otherwise Statement) *IfStatement {
	return &IfStatement{Token: tok("if"), Condition: cond, Consequence: then, Alternative: otherwise}
}

func While(cond Expression, body ...Statement) *WhileStatement {
	return &WhileStatement{Token: tok("while"), Condition: cond, Body: Block(body...)}
}

func Foreach(t *TypeName, name string, coll Expression, body ...Statement) *ForeachStatement {
	return &ForeachStatement{Token: tok("foreach"), VarType: t, VarName: name, Collection: coll, Body: Block(body...)}
}

// Return builds a return statement; value may be nil.
func Return(value Expression) *ReturnStatement {
	return &ReturnStatement{Token: tok("return"), Value: value}
}

func Expr(e Expression) *ExpressionStatement {
	return &ExpressionStatement{Token: e.GetToken(), Expression: e}
}

// SendTo builds acct >> amount [to target].
func SendTo(acct, amount, target Expression) *TransferToStatement {
	return &TransferToStatement{Token: tok(">>"), Account: acct, Amount: amount, Target: target}
}

// SendPercentTo builds acct >> pct% [to target].
func SendPercentTo(acct, pct, target Expression) *TransferToStatement {
	s := SendTo(acct, pct, target)
	s.Percentage = true
	return s
}

// ReceiveFrom builds acct << amount [from source].
func ReceiveFrom(acct, amount, source Expression) *TransferFromStatement {
	return &TransferFromStatement{Token: tok("<<"), Account: acct, Amount: amount, Source: source}
}

// ReceivePercentFrom builds acct << pct% [from source].
func ReceivePercentFrom(acct, pct, source Expression) *TransferFromStatement {
	s := ReceiveFrom(acct, pct, source)
	s.Percentage = true
	return s
}

func Ident(name string) *Identifier { return &Identifier{Token: tok(name), Value: name} }

func Int(v int64) *IntegerLiteral {
	return &IntegerLiteral{Token: tok(decimal.NewFromInt(v).String()), Value: v}
}

// Dec parses a decimal literal; it panics on malformed input.
func Dec(s string) *DecimalLiteral {
	return &DecimalLiteral{Token: tok(s), Value: decimal.RequireFromString(s)}
}

func Bool(v bool) *BooleanLiteral {
	lex := "false"
	if v {
		lex = "true"
	}
	return &BooleanLiteral{Token: tok(lex), Value: v}
}

func Str(s string) *StringLiteral { return &StringLiteral{Token: tok(`"` + s + `"`), Value: s} }

// Money builds a currency literal such as 100 PLN.
func Money(amount, code string) *CurrencyLiteral {
	return &CurrencyLiteral{Token: tok(amount), Amount: decimal.RequireFromString(amount), Code: code}
}

func Null() *NullLiteral { return &NullLiteral{Token: tok("null")} }

func TypeLit(t *TypeName) *TypeLiteral { return &TypeLiteral{Token: t.Token, Type: t} }

func Bin(left Expression, op string, right Expression) *BinaryExpression {
	return &BinaryExpression{Token: tok(op), Operator: op, Left: left, Right: right}
}

func Unary(op string, right Expression) *UnaryExpression {
	return &UnaryExpression{Token: tok(op), Operator: op, Right: right}
}

func Call(name string, args ...Expression) *CallExpression {
	return &CallExpression{Token: tok(name), Function: name, Arguments: args}
}

func Method(obj Expression, name string, args ...Expression) *MethodCallExpression {
	return &MethodCallExpression{Token: tok("."), Object: obj, Method: name, Arguments: args}
}

func Prop(obj Expression, name string) *PropertyExpression {
	return &PropertyExpression{Token: tok("."), Object: obj, Property: name}
}

func Index(left, index Expression) *IndexExpression {
	return &IndexExpression{Token: tok("["), Left: left, Index: index}
}

func New(class *TypeName, args ...Expression) *NewExpression {
	return &NewExpression{Token: class.Token, Class: class, Arguments: args}
}

func As(value Expression, target *TypeName) *ConversionExpression {
	return &ConversionExpression{Token: tok("as"), Value: value, Target: target}
}

// Lambda builds (T x) => body; body is an expression or a *BlockStatement.
func Lambda(param *Parameter, body Expression) *LambdaExpression {
	return &LambdaExpression{Token: tok("=>"), Parameter: param, Body: body}
}

func (n *FunctionDeclaration) setToken(t token.Token)   { n.Token = merge(n.Token, t) }
func (n *Parameter) setToken(t token.Token)             { n.Token = merge(n.Token, t) }
func (n *TypeName) setToken(t token.Token)              { n.Token = merge(n.Token, t) }
func (n *BlockStatement) setToken(t token.Token)        { n.Token = merge(n.Token, t) }
func (n *VarDeclaration) setToken(t token.Token)        { n.Token = merge(n.Token, t) }
func (n *AssignStatement) setToken(t token.Token)       { n.Token = merge(n.Token, t) }
func (n *IfStatement) setToken(t token.Token)           { n.Token = merge(n.Token, t) }
func (n *WhileStatement) setToken(t token.Token)        { n.Token = merge(n.Token, t) }
func (n *ForeachStatement) setToken(t token.Token)      { n.Token = merge(n.Token, t) }
func (n *ReturnStatement) setToken(t token.Token)       { n.Token = merge(n.Token, t) }
func (n *ExpressionStatement) setToken(t token.Token)   { n.Token = merge(n.Token, t) }
func (n *TransferToStatement) setToken(t token.Token)   { n.Token = merge(n.Token, t) }
func (n *TransferFromStatement) setToken(t token.Token) { n.Token = merge(n.Token, t) }
func (n *Identifier) setToken(t token.Token)            { n.Token = merge(n.Token, t) }
func (n *IntegerLiteral) setToken(t token.Token)        { n.Token = merge(n.Token, t) }
func (n *DecimalLiteral) setToken(t token.Token)        { n.Token = merge(n.Token, t) }
func (n *BooleanLiteral) setToken(t token.Token)        { n.Token = merge(n.Token, t) }
func (n *StringLiteral) setToken(t token.Token)         { n.Token = merge(n.Token, t) }
func (n *CurrencyLiteral) setToken(t token.Token)       { n.Token = merge(n.Token, t) }
func (n *NullLiteral) setToken(t token.Token)           { n.Token = merge(n.Token, t) }
func (n *TypeLiteral) setToken(t token.Token)           { n.Token = merge(n.Token, t) }
func (n *BinaryExpression) setToken(t token.Token)      { n.Token = merge(n.Token, t) }
func (n *UnaryExpression) setToken(t token.Token)       { n.Token = merge(n.Token, t) }
func (n *CallExpression) setToken(t token.Token)        { n.Token = merge(n.Token, t) }
func (n *MethodCallExpression) setToken(t token.Token)  { n.Token = merge(n.Token, t) }
func (n *PropertyExpression) setToken(t token.Token)    { n.Token = merge(n.Token, t) }
func (n *IndexExpression) setToken(t token.Token)       { n.Token = merge(n.Token, t) }
func (n *NewExpression) setToken(t token.Token)         { n.Token = merge(n.Token, t) }
func (n *ConversionExpression) setToken(t token.Token)  { n.Token = merge(n.Token, t) }
func (n *LambdaExpression) setToken(t token.Token)      { n.Token = merge(n.Token, t) }

// merge keeps the lexeme of old and takes the position of pos.
func merge(old, pos token.Token) token.Token {
	pos.Lexeme = old.Lexeme
	return pos
}
