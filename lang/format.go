package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/saiyan/lang/ast"
	"github.com/ardnew/saiyan/lang/lexer"
)

// Format writes the canonical source of each statement of prog on its own
// line.
func Format(_ context.Context, w io.Writer, prog *ast.Program) error {
	for _, stmt := range prog.Statements {
		if _, err := fmt.Fprintln(w, stmt.String()); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the tree of prog as JSON. A positive indent selects
// multi-line output with that many spaces per level.
func FormatJSON(_ context.Context, w io.Writer, prog *ast.Program, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ast.ToMap(prog), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ast.ToMap(prog))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the tree of prog as YAML. A positive indent selects block
// style with that many spaces per level; otherwise flow style is used.
func FormatYAML(ctx context.Context, w io.Writer, prog *ast.Program, indent int) error {
	opts := []yaml.EncodeOption{yaml.Flow(true)}
	if indent > 0 {
		opts = []yaml.EncodeOption{yaml.Indent(indent), yaml.IndentSequence(true)}
	}

	data, err := yaml.MarshalContext(ctx, ast.ToMap(prog), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// FormatTree writes an indented outline of the nodes of prog.
func FormatTree(_ context.Context, w io.Writer, prog *ast.Program) error {
	return ast.Fprint(w, prog)
}

// FormatTokens writes one line per token of src: position, kind, and the
// quoted literal.
func FormatTokens(_ context.Context, w io.Writer, src string) error {
	for tok := range lexer.New(src).All() {
		if _, err := fmt.Fprintf(w, "%-7s %-8s %q\n", tok.Pos, tok.Kind, tok.Literal); err != nil {
			return err
		}
	}

	return nil
}
