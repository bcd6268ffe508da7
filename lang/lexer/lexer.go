// Package lexer converts source text into a stream of [token.Token].
package lexer

import (
	"iter"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/saiyan/lang/token"
)

// Lexer scans a source string one token at a time. It never fails: bytes
// that start no token become [token.ILLEGAL], and once the input is
// exhausted every call yields [token.EOF].
type Lexer struct {
	input string
	pos   int  // offset of ch
	next  int  // offset after ch
	ch    rune // current rune, or eof
	line  int
	col   int
}

const eof = -1

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.advance()

	return l
}

// NextToken consumes and returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	pos := token.Position{Offset: l.pos, Line: l.line, Column: l.col}
	single := func(k token.Kind) token.Token {
		lit := l.input[l.pos:l.next]
		l.advance()

		return token.Token{Kind: k, Literal: lit, Pos: pos}
	}
	double := func(k token.Kind) token.Token {
		start := l.pos
		l.advance()
		l.advance()

		return token.Token{Kind: k, Literal: l.input[start:l.pos], Pos: pos}
	}

	switch l.ch {
	case eof:
		return token.Token{Kind: token.EOF, Pos: pos}
	case '=':
		if l.peek() == '=' {
			return double(token.EQ)
		}

		return single(token.ASSIGN)
	case '!':
		if l.peek() == '=' {
			return double(token.NOT_EQ)
		}

		return single(token.BANG)
	case '+':
		return single(token.PLUS)
	case '-':
		return single(token.MINUS)
	case '*':
		return single(token.ASTERISK)
	case '/':
		return single(token.SLASH)
	case '<':
		return single(token.LT)
	case '>':
		return single(token.GT)
	case ',':
		return single(token.COMMA)
	case ';':
		return single(token.SEMICOLON)
	case '(':
		return single(token.LPAREN)
	case ')':
		return single(token.RPAREN)
	case '{':
		return single(token.LBRACE)
	case '}':
		return single(token.RBRACE)
	}

	switch {
	case isLetter(l.ch):
		lit := l.scan(isLetter)

		return token.Token{Kind: token.LookupIdent(lit), Literal: lit, Pos: pos}
	case isDigit(l.ch):
		return token.Token{Kind: token.INT, Literal: l.scan(isDigit), Pos: pos}
	default:
		return single(token.ILLEGAL)
	}
}

// All yields the remaining tokens, ending with the first [token.EOF].
func (l *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := l.NextToken()
			if !yield(tok) || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// Tokenize returns every token of input including the trailing EOF.
func Tokenize(input string) []token.Token {
	var toks []token.Token
	for tok := range New(input).All() {
		toks = append(toks, tok)
	}

	return toks
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}

	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = eof
		l.col++

		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += w
	l.col++
}

func (l *Lexer) peek() rune {
	if l.next >= len(l.input) {
		return eof
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.next:])

	return r
}

func (l *Lexer) scan(accept func(rune) bool) string {
	start := l.pos
	for accept(l.ch) {
		l.advance()
	}

	return l.input[start:l.pos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.advance()
	}
}

func isLetter(r rune) bool { return r == '_' || (r != eof && unicode.IsLetter(r)) }

func isDigit(r rune) bool { return '0' <= r && r <= '9' }
