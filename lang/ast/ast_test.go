package ast

import (
	"strings"
	"testing"

	"github.com/ardnew/saiyan/lang/token"
)

func ident(name string) *Identifier {
	return &Identifier{Token: token.Token{Kind: token.IDENT, Literal: name}, Value: name}
}

func integer(lit string, v int64) *IntegerLiteral {
	return &IntegerLiteral{Token: token.Token{Kind: token.INT, Literal: lit}, Value: v}
}

func infix(l Expression, op string, r Expression) *InfixExpression {
	return &InfixExpression{Token: token.Token{Literal: op}, Left: l, Operator: op, Right: r}
}

func block(stmts ...Statement) *BlockStatement {
	return &BlockStatement{Token: token.Token{Kind: token.LBRACE, Literal: "{"}, Statements: stmts}
}

func exprStmt(e Expression) *ExpressionStatement {
	return &ExpressionStatement{Token: token.Token{Literal: e.TokenLiteral()}, Expression: e}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "let",
			node: &LetStatement{
				Token: token.Token{Kind: token.LET, Literal: "let"},
				Name:  ident("myVar"),
				Value: ident("anotherVar"),
			},
			want: "let myVar = anotherVar;",
		},
		{
			name: "let missing value",
			node: &LetStatement{Token: token.Token{Kind: token.LET, Literal: "let"}, Name: ident("x")},
			want: "let x = ;",
		},
		{
			name: "return",
			node: &ReturnStatement{Token: token.Token{Kind: token.RETURN, Literal: "return"}, Value: integer("5", 5)},
			want: "return 5;",
		},
		{
			name: "bare return",
			node: &ReturnStatement{Token: token.Token{Kind: token.RETURN, Literal: "return"}},
			want: "return;",
		},
		{
			name: "prefix",
			node: &PrefixExpression{Token: token.Token{Literal: "-"}, Operator: "-", Right: ident("a")},
			want: "(-a)",
		},
		{
			name: "infix",
			node: infix(ident("a"), "+", infix(ident("b"), "*", ident("c"))),
			want: "(a + (b * c))",
		},
		{
			name: "infix missing right",
			node: infix(ident("a"), "+", nil),
			want: "(a + )",
		},
		{
			name: "if else",
			node: &IfExpression{
				Token:       token.Token{Kind: token.IF, Literal: "if"},
				Condition:   infix(ident("x"), "<", ident("y")),
				Consequence: block(exprStmt(ident("x"))),
				Alternative: block(exprStmt(ident("y"))),
			},
			want: "if (x < y) x else y",
		},
		{
			name: "function",
			node: &FunctionLiteral{
				Token:      token.Token{Kind: token.FUNCTION, Literal: "fn"},
				Parameters: []*Identifier{ident("x"), ident("y")},
				Body:       block(exprStmt(infix(ident("x"), "+", ident("y")))),
			},
			want: "fn(x, y) (x + y)",
		},
		{
			name: "call",
			node: &CallExpression{
				Token:     token.Token{Kind: token.LPAREN, Literal: "("},
				Function:  ident("add"),
				Arguments: []Expression{integer("1", 1), infix(integer("2", 2), "*", integer("3", 3))},
			},
			want: "add(1, (2 * 3))",
		},
		{
			name: "program",
			node: &Program{Statements: []Statement{
				&LetStatement{Token: token.Token{Kind: token.LET, Literal: "let"}, Name: ident("x"), Value: integer("5", 5)},
				exprStmt(ident("x")),
			}},
			want: "let x = 5;x",
		},
		{
			name: "empty program",
			node: &Program{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgram_TokenLiteral(t *testing.T) {
	if got := (&Program{}).TokenLiteral(); got != "" {
		t.Errorf("empty program literal = %q", got)
	}

	p := &Program{Statements: []Statement{
		&ReturnStatement{Token: token.Token{Kind: token.RETURN, Literal: "return"}},
	}}
	if got := p.TokenLiteral(); got != "return" {
		t.Errorf("TokenLiteral() = %q, want %q", got, "return")
	}
}

func TestWalk(t *testing.T) {
	prog := &Program{Statements: []Statement{
		exprStmt(infix(ident("a"), "+", infix(ident("b"), "*", ident("c")))),
	}}

	var kinds []string
	for n := range All(prog) {
		kinds = append(kinds, Kind(n))
	}

	want := "Program ExpressionStatement InfixExpression Identifier InfixExpression Identifier Identifier"
	if got := strings.Join(kinds, " "); got != want {
		t.Errorf("pre-order = %q, want %q", got, want)
	}

	n := 0
	for range All(prog) {
		n++
		if n == 3 {
			break
		}
	}

	if n != 3 {
		t.Errorf("early stop visited %d nodes", n)
	}

	var idents []string
	Walk(prog, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			idents = append(idents, id.Value)
		}

		_, isInfix := n.(*InfixExpression)

		return !isInfix || len(idents) == 0
	})

	if strings.Join(idents, ",") != "a" {
		t.Errorf("pruned walk visited %v", idents)
	}
}

func TestToMap(t *testing.T) {
	prog := &Program{Statements: []Statement{
		&LetStatement{Token: token.Token{Kind: token.LET, Literal: "let"}, Name: ident("x"), Value: infix(integer("1", 1), "+", nil)},
	}}

	m := ToMap(prog)
	if m["kind"] != "Program" {
		t.Fatalf("kind = %v", m["kind"])
	}

	stmts, ok := m["statements"].([]any)
	if !ok || len(stmts) != 1 {
		t.Fatalf("statements = %#v", m["statements"])
	}

	let := stmts[0].(map[string]any)
	if let["kind"] != "LetStatement" {
		t.Errorf("statement kind = %v", let["kind"])
	}

	value := let["value"].(map[string]any)
	if value["operator"] != "+" {
		t.Errorf("operator = %v", value["operator"])
	}

	if _, ok := value["right"]; ok {
		t.Error("absent child was encoded")
	}

	if left := value["left"].(map[string]any); left["value"] != int64(1) {
		t.Errorf("left value = %#v", left["value"])
	}

	if ToMap(nil) != nil {
		t.Error("ToMap(nil) != nil")
	}
}

func TestFprint(t *testing.T) {
	prog := &Program{Statements: []Statement{
		exprStmt(&PrefixExpression{Token: token.Token{Literal: "!"}, Operator: "!", Right: &Boolean{Token: token.Token{Kind: token.TRUE, Literal: "true"}, Value: true}}),
	}}

	var b strings.Builder
	if err := Fprint(&b, prog); err != nil {
		t.Fatal(err)
	}

	want := "Program\n  ExpressionStatement\n    PrefixExpression !\n      Boolean true\n"
	if b.String() != want {
		t.Errorf("Fprint =\n%s\nwant\n%s", b.String(), want)
	}
}
