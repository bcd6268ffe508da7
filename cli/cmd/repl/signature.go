package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/saiyan/lang/object"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the call whose argument list contains the cursor.
type functionCall struct {
	name     string // identifier before the open paren
	argIndex int    // 0-based argument under the cursor
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed "name(" before cursor and
// counts the top-level commas between it and the cursor.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	open, depth := -1, 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
	}

	if open < 0 {
		return functionCall{}
	}

	name, _, _ := wordBounds(input[:open], open)
	if name == "" {
		return functionCall{}
	}

	arg := 0
	depth = 0

	for i := open + 1; i < cursor; i++ {
		switch input[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				arg++
			}
		}
	}

	return functionCall{name: name, argIndex: arg, inCall: true}
}

// signature returns the parameter names of the function bound to name in
// env. ok is false when name is unbound or not a function.
func signature(env *object.Environment, name string) (params []string, ok bool) {
	if env == nil {
		return nil, false
	}

	obj, found := env.Get(name)
	if !found {
		return nil, false
	}

	fn, isFn := obj.(*object.Function)
	if !isFn {
		return nil, false
	}

	params = make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		params[i] = p.Value
	}

	return params, true
}

// renderSignatureHint renders "name(a, b)" with parameter current emphasized.
func renderSignatureHint(name string, params []string, current int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == current {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
