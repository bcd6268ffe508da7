package ast

import "iter"

// Children returns the direct, non-nil children of n in source order.
func Children(n Node) []Node {
	var out []Node

	add := func(c Node) {
		if !isNil(c) {
			out = append(out, c)
		}
	}

	switch n := n.(type) {
	case *Program:
		for _, s := range n.Statements {
			add(s)
		}
	case *LetStatement:
		add(n.Name)
		add(n.Value)
	case *ReturnStatement:
		add(n.Value)
	case *ExpressionStatement:
		add(n.Expression)
	case *BlockStatement:
		for _, s := range n.Statements {
			add(s)
		}
	case *PrefixExpression:
		add(n.Right)
	case *InfixExpression:
		add(n.Left)
		add(n.Right)
	case *IfExpression:
		add(n.Condition)
		add(n.Consequence)
		add(n.Alternative)
	case *FunctionLiteral:
		for _, p := range n.Parameters {
			add(p)
		}

		add(n.Body)
	case *CallExpression:
		add(n.Function)
		for _, a := range n.Arguments {
			add(a)
		}
	}

	return out
}

// Walk calls fn for n and then, if fn returns true, for each child of n,
// depth-first.
func Walk(n Node, fn func(Node) bool) {
	if isNil(n) || !fn(n) {
		return
	}

	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// All yields every node of the tree rooted at n in pre-order.
func All(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		stop := false
		Walk(n, func(c Node) bool {
			if stop || !yield(c) {
				stop = true
			}

			return !stop
		})
	}
}
