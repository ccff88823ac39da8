package ast

import (
	"strings"

	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/token"
)

// Node is the base interface for all AST nodes.
//
// The set of node types is closed: the verifier and the evaluator each
// dispatch on it with a single type switch.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node handed over by the parser: an ordered set of functions.
type Program struct {
	File      string // Source file path
	Functions []*FunctionDeclaration
}

func (p *Program) TokenLiteral() string {
	if len(p.Functions) > 0 {
		return p.Functions[0].TokenLiteral()
	}
	return ""
}
func (p *Program) GetToken() token.Token {
	if p == nil || len(p.Functions) == 0 {
		return token.Token{}
	}
	return p.Functions[0].Token
}

// Function returns the first declaration named name.
func (p *Program) Function(name string) *FunctionDeclaration {
	for _, fn := range p.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// FunctionDeclaration represents a function definition.
// int add(int a, int b) { return a + b; }
type FunctionDeclaration struct {
	Token      token.Token // The return type token
	Name       string
	Parameters []*Parameter
	ReturnType *TypeName // void for procedures
	Body       *BlockStatement
}

func (fd *FunctionDeclaration) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FunctionDeclaration) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// Parameter is a typed function or lambda parameter.
type Parameter struct {
	Token token.Token
	Name  string
	Type  *TypeName
}

func (p *Parameter) TokenLiteral() string { return p.Token.Lexeme }
func (p *Parameter) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// TypeName is a written type: int, PLN, Collection<int>, Account<USD>, var.
type TypeName struct {
	Token token.Token
	Name  string
	Param *TypeName // Generic parameter, nil when absent
}

func (tn *TypeName) TokenLiteral() string { return tn.Token.Lexeme }
func (tn *TypeName) GetToken() token.Token {
	if tn == nil {
		return token.Token{}
	}
	return tn.Token
}

// IsVar reports the inferred declaration type.
func (tn *TypeName) IsVar() bool {
	return tn != nil && tn.Name == config.VarKeyword
}

func (tn *TypeName) String() string {
	if tn == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(tn.Name)
	if tn.Param != nil {
		sb.WriteString("<")
		sb.WriteString(tn.Param.String())
		sb.WriteString(">")
	}
	return sb.String()
}
