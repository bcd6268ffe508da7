package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind returns the variant name of n ("InfixExpression", "Program", ...).
func Kind(n Node) string {
	name := fmt.Sprintf("%T", n)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	return name
}

// ToMap converts the tree rooted at n into maps, slices, and scalars
// suitable for JSON or YAML encoding. Each map carries the node's "kind";
// absent children are omitted.
func ToMap(n Node) map[string]any {
	if isNil(n) {
		return nil
	}

	m := map[string]any{"kind": Kind(n)}

	list := func(key string, nodes []Node) {
		items := make([]any, 0, len(nodes))
		for _, c := range nodes {
			items = append(items, ToMap(c))
		}

		m[key] = items
	}
	child := func(key string, c Node) {
		if !isNil(c) {
			m[key] = ToMap(c)
		}
	}

	switch n := n.(type) {
	case *Program:
		list("statements", statements(n.Statements))
	case *LetStatement:
		child("name", n.Name)
		child("value", n.Value)
	case *ReturnStatement:
		child("value", n.Value)
	case *ExpressionStatement:
		child("expression", n.Expression)
	case *BlockStatement:
		list("statements", statements(n.Statements))
	case *Identifier:
		m["value"] = n.Value
	case *IntegerLiteral:
		m["value"] = n.Value
	case *Boolean:
		m["value"] = n.Value
	case *PrefixExpression:
		m["operator"] = n.Operator
		child("right", n.Right)
	case *InfixExpression:
		m["operator"] = n.Operator
		child("left", n.Left)
		child("right", n.Right)
	case *IfExpression:
		child("condition", n.Condition)
		child("consequence", n.Consequence)
		child("alternative", n.Alternative)
	case *FunctionLiteral:
		params := make([]any, len(n.Parameters))
		for i, p := range n.Parameters {
			params[i] = p.Value
		}

		m["parameters"] = params
		child("body", n.Body)
	case *CallExpression:
		child("function", n.Function)

		args := make([]Node, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = a
		}

		list("arguments", args)
	}

	return m
}

func statements(ss []Statement) []Node {
	out := make([]Node, len(ss))
	for i, s := range ss {
		out[i] = s
	}

	return out
}

// Fprint writes an indented outline of the tree rooted at n, one node per
// line, each labeled with its kind and, for leaves and operators, its value.
func Fprint(w io.Writer, n Node) error {
	var b strings.Builder

	var visit func(Node, int)
	visit = func(n Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(Kind(n))

		switch n := n.(type) {
		case *Identifier:
			b.WriteString(" " + n.Value)
		case *IntegerLiteral:
			b.WriteString(" " + strconv.FormatInt(n.Value, 10))
		case *Boolean:
			b.WriteString(" " + strconv.FormatBool(n.Value))
		case *PrefixExpression:
			b.WriteString(" " + n.Operator)
		case *InfixExpression:
			b.WriteString(" " + n.Operator)
		}

		b.WriteByte('\n')

		for _, c := range Children(n) {
			visit(c, depth+1)
		}
	}

	if !isNil(n) {
		visit(n, 0)
	}

	_, err := io.WriteString(w, b.String())

	return err
}
