package ast

import (
	"github.com/funvibe/tally/internal/token"
)

// BlockStatement represents a list of statements within curly braces.
// It is also an Expression so it can serve as a lambda body.
type BlockStatement struct {
	Token      token.Token // {
	Statements []Statement
}

func (bs *BlockStatement) statementNode()        {}
func (bs *BlockStatement) expressionNode()       {}
func (bs *BlockStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token { return bs.Token }

// VarDeclaration declares a local: `decimal x = 1.5;`, `var y = f();`, `Account<PLN> a;`.
type VarDeclaration struct {
	Token token.Token // The type token
	Type  *TypeName
	Name  string
	Value Expression // Optional initializer
}

func (vd *VarDeclaration) statementNode()        {}
func (vd *VarDeclaration) TokenLiteral() string  { return vd.Token.Lexeme }
func (vd *VarDeclaration) GetToken() token.Token { return vd.Token }

// AssignStatement stores into an identifier, an index or a property.
// x = 1; items[0] = 2; acct.Name = "savings";
type AssignStatement struct {
	Token  token.Token // The '=' token
	Target Expression
	Value  Expression
}

func (as *AssignStatement) statementNode()        {}
func (as *AssignStatement) TokenLiteral() string  { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token { return as.Token }

// IfStatement: if (cond) { ... } else { ... }
// Alternative is a *BlockStatement or a nested *IfStatement.
type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement
}

func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

// WhileStatement: while (cond) { ... }
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()        {}
func (ws *WhileStatement) TokenLiteral() string  { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token { return ws.Token }

// ForeachStatement: foreach (int x in items) { ... }
type ForeachStatement struct {
	Token      token.Token
	VarType    *TypeName
	VarName    string
	Collection Expression
	Body       *BlockStatement
}

func (fs *ForeachStatement) statementNode()        {}
func (fs *ForeachStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForeachStatement) GetToken() token.Token { return fs.Token }

// ReturnStatement: return; or return expr;
type ReturnStatement struct {
	Token token.Token
	Value Expression // nil for a bare return
}

func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

// ExpressionStatement is a statement that consists of a single expression.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

// TransferToStatement moves money out of an account.
//
//	acct >> 100 PLN;           withdraw
//	acct >> 100 PLN to other;  withdraw and fund other
//	acct >> 10%;               withdraw 10% of the balance
type TransferToStatement struct {
	Token      token.Token // The '>>' token
	Account    Expression
	Amount     Expression
	Percentage bool
	Target     Expression // Optional receiving account
}

func (ts *TransferToStatement) statementNode()        {}
func (ts *TransferToStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *TransferToStatement) GetToken() token.Token { return ts.Token }

// TransferFromStatement moves money into an account.
//
//	acct << 100 PLN;             fund
//	acct << 100 PLN from other;  withdraw from other into acct
//	acct << 5%;                  add 5% of the balance
//	acct << 5% from other;       move 5% of other's balance into acct
type TransferFromStatement struct {
	Token      token.Token // The '<<' token
	Account    Expression
	Amount     Expression
	Percentage bool
	Source     Expression // Optional paying account
}

func (ts *TransferFromStatement) statementNode()        {}
func (ts *TransferFromStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *TransferFromStatement) GetToken() token.Token { return ts.Token }
