// Package ast defines the syntax tree produced by the parser.
//
// Every node keeps the token that introduced it. String renders a node as
// canonical, fully parenthesized source; absent children render as the empty
// string so that partially parsed programs can still be printed.
package ast

import (
	"strings"

	"github.com/ardnew/saiyan/lang/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement is a node that appears in a statement list.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of every parse.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}

	return ""
}

func (p *Program) String() string { return join(p.Statements) }

// LetStatement binds Name to Value in the current scope: let <name> = <value>;
type LetStatement struct {
	Token token.Token
	Name  *Identifier
	Value Expression
}

func (*LetStatement) statementNode()         {}
func (s *LetStatement) TokenLiteral() string { return s.Token.Literal }

func (s *LetStatement) String() string {
	var b strings.Builder

	b.WriteString(s.TokenLiteral())
	b.WriteByte(' ')
	b.WriteString(str(s.Name))
	b.WriteString(" = ")
	b.WriteString(str(s.Value))
	b.WriteByte(';')

	return b.String()
}

// ReturnStatement exits the enclosing function (or program) with Value.
type ReturnStatement struct {
	Token token.Token
	Value Expression
}

func (*ReturnStatement) statementNode()         {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }

func (s *ReturnStatement) String() string {
	if isNil(s.Value) {
		return s.TokenLiteral() + ";"
	}

	return s.TokenLiteral() + " " + s.Value.String() + ";"
}

// ExpressionStatement is an expression evaluated for its value.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (*ExpressionStatement) statementNode()         {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExpressionStatement) String() string       { return str(s.Expression) }

// BlockStatement is a braced statement list.
type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

func (*BlockStatement) statementNode()         {}
func (s *BlockStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BlockStatement) String() string       { return join(s.Statements) }

// Identifier names a binding.
type Identifier struct {
	Token token.Token
	Value string
}

func (*Identifier) expressionNode()        {}
func (e *Identifier) TokenLiteral() string { return e.Token.Literal }
func (e *Identifier) String() string       { return e.Value }

// IntegerLiteral is a decimal integer constant.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (*IntegerLiteral) expressionNode()        {}
func (e *IntegerLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *IntegerLiteral) String() string       { return e.Token.Literal }

// Boolean is the literal true or false.
type Boolean struct {
	Token token.Token
	Value bool
}

func (*Boolean) expressionNode()        {}
func (e *Boolean) TokenLiteral() string { return e.Token.Literal }
func (e *Boolean) String() string       { return e.Token.Literal }

// PrefixExpression applies a unary operator: (<op><right>)
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (*PrefixExpression) expressionNode()        {}
func (e *PrefixExpression) TokenLiteral() string { return e.Token.Literal }

func (e *PrefixExpression) String() string {
	return "(" + e.Operator + str(e.Right) + ")"
}

// InfixExpression applies a binary operator: (<left> <op> <right>)
type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (*InfixExpression) expressionNode()        {}
func (e *InfixExpression) TokenLiteral() string { return e.Token.Literal }

func (e *InfixExpression) String() string {
	return "(" + str(e.Left) + " " + e.Operator + " " + str(e.Right) + ")"
}

// IfExpression selects Consequence when Condition is truthy and Alternative
// (which may be nil) otherwise.
type IfExpression struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement
}

func (*IfExpression) expressionNode()        {}
func (e *IfExpression) TokenLiteral() string { return e.Token.Literal }

func (e *IfExpression) String() string {
	s := "if " + str(e.Condition) + " " + str(e.Consequence)
	if e.Alternative != nil {
		s += " else " + e.Alternative.String()
	}

	return s
}

// FunctionLiteral is an anonymous function: fn(<params>) { <body> }
type FunctionLiteral struct {
	Token      token.Token
	Parameters []*Identifier
	Body       *BlockStatement
}

func (*FunctionLiteral) expressionNode()        {}
func (e *FunctionLiteral) TokenLiteral() string { return e.Token.Literal }

func (e *FunctionLiteral) String() string {
	return e.TokenLiteral() + "(" + join(e.Parameters, ", ") + ") " + str(e.Body)
}

// CallExpression applies Function to Arguments.
type CallExpression struct {
	Token     token.Token // (
	Function  Expression
	Arguments []Expression
}

func (*CallExpression) expressionNode()        {}
func (e *CallExpression) TokenLiteral() string { return e.Token.Literal }

func (e *CallExpression) String() string {
	return str(e.Function) + "(" + join(e.Arguments, ", ") + ")"
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Program:
		return v == nil
	case *LetStatement:
		return v == nil
	case *ReturnStatement:
		return v == nil
	case *ExpressionStatement:
		return v == nil
	case *BlockStatement:
		return v == nil
	case *Identifier:
		return v == nil
	case *IntegerLiteral:
		return v == nil
	case *Boolean:
		return v == nil
	case *PrefixExpression:
		return v == nil
	case *InfixExpression:
		return v == nil
	case *IfExpression:
		return v == nil
	case *FunctionLiteral:
		return v == nil
	case *CallExpression:
		return v == nil
	default:
		return false
	}
}

func str(n Node) string {
	if isNil(n) {
		return ""
	}

	return n.String()
}

func join[N Node](nodes []N, sep ...string) string {
	var b strings.Builder

	for i, n := range nodes {
		if i > 0 && len(sep) > 0 {
			b.WriteString(sep[0])
		}

		b.WriteString(str(n))
	}

	return b.String()
}
