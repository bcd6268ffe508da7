// Package token defines the lexical vocabulary of the language.
package token

import "strconv"

// Kind classifies a token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	IDENT
	INT

	ASSIGN
	PLUS
	MINUS
	BANG
	ASTERISK
	SLASH
	LT
	GT
	EQ
	NOT_EQ

	COMMA
	SEMICOLON
	LPAREN
	RPAREN
	LBRACE
	RBRACE

	FUNCTION
	LET
	TRUE
	FALSE
	IF
	ELSE
	RETURN

	numKinds
)

var kindName = [numKinds]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	IDENT:     "IDENT",
	INT:       "INT",
	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	BANG:      "!",
	ASTERISK:  "*",
	SLASH:     "/",
	LT:        "<",
	GT:        ">",
	EQ:        "==",
	NOT_EQ:    "!=",
	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	FUNCTION:  "FUNCTION",
	LET:       "LET",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	IF:        "IF",
	ELSE:      "ELSE",
	RETURN:    "RETURN",
}

// String returns the source spelling of operator and delimiter kinds and the
// upper-case category name of every other kind. Diagnostics embed it.
func (k Kind) String() string {
	if k >= 0 && k < numKinds {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return FUNCTION <= k && k <= RETURN }

// Position locates a token in its source. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether p was set by a lexer.
func (p Position) IsValid() bool { return p.Line > 0 }

// Token is one lexeme: its kind, its exact source text, and where it starts.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Position
}

func (t Token) String() string {
	return t.Kind.String() + "(" + strconv.Quote(t.Literal) + ")"
}

var keywords = map[string]Kind{
	"fn":     FUNCTION,
	"let":    LET,
	"true":   TRUE,
	"false":  FALSE,
	"if":     IF,
	"else":   ELSE,
	"return": RETURN,
}

// LookupIdent returns the keyword kind spelled by ident, or [IDENT].
func LookupIdent(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}

	return IDENT
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}

	return words
}
