// Package parser builds an [ast.Program] from a token stream using top-down
// operator precedence (Pratt) parsing.
//
// Parsing never stops at the first problem. Each failure appends a
// diagnostic and the parser moves on to the next statement, so one call to
// [Parser.ParseProgram] reports every independent error in the input.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ardnew/saiyan/lang/ast"
	"github.com/ardnew/saiyan/lang/lexer"
	"github.com/ardnew/saiyan/lang/token"
	"github.com/ardnew/saiyan/log"
)

// Precedence orders binding power from loosest to tightest.
type Precedence int

const (
	_ Precedence = iota
	LOWEST
	EQUALS      // == !=
	LESSGREATER // < >
	SUM         // + -
	PRODUCT     // * /
	PREFIX      // -x !x
	CALL        // f(x)
)

var precedences = map[token.Kind]Precedence{
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.LPAREN:   CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Diagnostic is one parse failure and the position of the token that
// caused it.
type Diagnostic struct {
	Message string
	Pos     token.Position
}

func (d Diagnostic) String() string { return d.Message }

// LogValue implements [slog.LogValuer].
func (d Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("message", d.Message),
		slog.String("position", d.Pos.String()),
	)
}

// Parser holds a two-token window over a [lexer.Lexer] and the diagnostics
// recorded so far.
type Parser struct {
	l      *lexer.Lexer
	logger log.Logger

	cur  token.Token
	peek token.Token

	diagnostics []Diagnostic

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn
}

// Option configures a [Parser].
type Option func(*Parser)

// WithLogger sets the logger that receives trace events.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// New returns a Parser reading tokens from l.
func New(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{
		l:         l,
		prefixFns: make(map[token.Kind]prefixParseFn),
		infixFns:  make(map[token.Kind]infixParseFn),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.FUNCTION, p.parseFunctionLiteral)

	for _, k := range []token.Kind{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH,
		token.EQ, token.NOT_EQ, token.LT, token.GT,
	} {
		p.registerInfix(k, p.parseInfixExpression)
	}

	p.registerInfix(token.LPAREN, p.parseCallExpression)

	// Fill cur and peek.
	p.nextToken()
	p.nextToken()

	return p
}

// ParseString parses src with a fresh lexer and parser.
func ParseString(src string, opts ...Option) (*ast.Program, []Diagnostic) {
	p := New(lexer.New(src), opts...)
	prog := p.ParseProgram()

	return prog, p.Diagnostics()
}

// Errors returns the diagnostic messages in the order they were recorded.
func (p *Parser) Errors() []string {
	msgs := make([]string, len(p.diagnostics))
	for i, d := range p.diagnostics {
		msgs[i] = d.Message
	}

	return msgs
}

// Diagnostics returns the recorded diagnostics with their positions.
func (p *Parser) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), p.diagnostics...)
}

func (p *Parser) registerPrefix(k token.Kind, fn prefixParseFn) { p.prefixFns[k] = fn }
func (p *Parser) registerInfix(k token.Kind, fn infixParseFn)   { p.infixFns[k] = fn }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

// expectPeek advances when the next token has kind k and records a
// diagnostic otherwise.
func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekIs(k) {
		p.nextToken()

		return true
	}

	p.fail(p.peek.Pos, "expected next token to be %s, got %s", k, p.peek.Kind)

	return false
}

func (p *Parser) fail(pos token.Position, format string, args ...any) {
	d := Diagnostic{Message: fmt.Sprintf(format, args...), Pos: pos}
	p.diagnostics = append(p.diagnostics, d)
	p.logger.Debug("parse error", slog.Any("diagnostic", d))
}

func (p *Parser) peekPrecedence() Precedence {
	if prec, ok := precedences[p.peek.Kind]; ok {
		return prec
	}

	return LOWEST
}

func (p *Parser) curPrecedence() Precedence {
	if prec, ok := precedences[p.cur.Kind]; ok {
		return prec
	}

	return LOWEST
}

// ParseProgram parses statements until EOF. The returned program is never
// nil; statements that failed to parse are omitted.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Statements: []ast.Statement{}}

	for !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}

		p.nextToken()
	}

	p.logger.Trace("parsed program",
		slog.Int("statements", len(prog.Statements)),
		slog.Int("diagnostics", len(p.diagnostics)))

	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case token.LET:
		if s := p.parseLetStatement(); s != nil {
			return s
		}
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		if s := p.parseExpressionStatement(); s != nil {
			return s
		}
	}

	// Avoid returning a typed nil inside the interface.
	return nil
}

func (p *Parser) parseLetStatement() *ast.LetStatement {
	stmt := &ast.LetStatement{Token: p.cur}

	if !p.expectPeek(token.IDENT) {
		return nil
	}

	stmt.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}

	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)

	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.cur}

	if p.peekIs(token.SEMICOLON) || p.peekIs(token.EOF) || p.peekIs(token.RBRACE) {
		if p.peekIs(token.SEMICOLON) {
			p.nextToken()
		}

		return stmt
	}

	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)

	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.cur}

	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		if p.peekIs(token.SEMICOLON) {
			p.nextToken()
		}

		return nil
	}

	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

// parseExpression is the Pratt loop: parse a prefix form for the current
// token, then fold infix operators that bind tighter than prec.
func (p *Parser) parseExpression(prec Precedence) ast.Expression {
	prefix := p.prefixFns[p.cur.Kind]
	if prefix == nil {
		p.fail(p.cur.Pos, "no prefix parse function for %s", p.cur.Kind)

		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekIs(token.SEMICOLON) && prec < p.peekPrecedence() {
		infix := p.infixFns[p.peek.Kind]
		if infix == nil {
			return left
		}

		p.nextToken()

		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	v, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		p.fail(p.cur.Pos, "could not parse %s as int", p.cur.Literal)

		return nil
	}

	return &ast.IntegerLiteral{Token: p.cur, Value: v}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.cur, Value: p.curIs(token.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.cur, Operator: p.cur.Literal}

	p.nextToken()

	expr.Right = p.parseExpression(PREFIX)
	if expr.Right == nil {
		return nil
	}

	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Token: p.cur, Operator: p.cur.Literal, Left: left}

	prec := p.curPrecedence()
	p.nextToken()

	expr.Right = p.parseExpression(prec)
	if expr.Right == nil {
		return nil
	}

	return expr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return expr
}

func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.cur}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	p.nextToken()

	expr.Condition = p.parseExpression(LOWEST)
	if expr.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) || !p.expectPeek(token.LBRACE) {
		return nil
	}

	expr.Consequence = p.parseBlockStatement()

	if p.peekIs(token.ELSE) {
		p.nextToken()

		if !p.expectPeek(token.LBRACE) {
			return nil
		}

		expr.Alternative = p.parseBlockStatement()
	}

	return expr
}

// parseBlockStatement parses statements up to the closing brace. The current
// token must be the opening brace; on return it is the closing brace (or EOF
// if the block is unterminated).
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.cur, Statements: []ast.Statement{}}

	p.nextToken()

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}

		p.nextToken()
	}

	if p.curIs(token.EOF) {
		p.fail(p.cur.Pos, "expected next token to be %s, got %s", token.RBRACE, token.EOF)
	}

	return block
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	fn := &ast.FunctionLiteral{Token: p.cur}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}

	fn.Parameters = params

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	fn.Body = p.parseBlockStatement()

	return fn
}

func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	params := []*ast.Identifier{}

	if p.peekIs(token.RPAREN) {
		p.nextToken()

		return params, true
	}

	if !p.expectPeek(token.IDENT) {
		return nil, false
	}

	params = append(params, &ast.Identifier{Token: p.cur, Value: p.cur.Literal})

	for p.peekIs(token.COMMA) {
		p.nextToken()

		if !p.expectPeek(token.IDENT) {
			return nil, false
		}

		params = append(params, &ast.Identifier{Token: p.cur, Value: p.cur.Literal})
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}

	return params, true
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.cur, Function: fn}

	args, ok := p.parseCallArguments()
	if !ok {
		return nil
	}

	expr.Arguments = args

	return expr
}

func (p *Parser) parseCallArguments() ([]ast.Expression, bool) {
	args := []ast.Expression{}

	if p.peekIs(token.RPAREN) {
		p.nextToken()

		return args, true
	}

	p.nextToken()

	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil, false
	}

	args = append(args, arg)

	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()

		arg = p.parseExpression(LOWEST)
		if arg == nil {
			return nil, false
		}

		args = append(args, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}

	return args, true
}
