package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/saiyan/lang"
	"github.com/ardnew/saiyan/lang/ast"
	"github.com/ardnew/saiyan/log"
)

// Fmt parses source and prints it in the chosen representation.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as source, one statement per line (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Format the syntax tree as an indented outline."`
	Tokens Tokens `cmd:""                    help:"List the tokens of the source."`
}

// input is the positional source list shared by every fmt subcommand.
type input struct {
	Source []string `arg:"" help:"Source file(s) or '-' for stdin." name:"source" optional:""`

	stdout io.Writer
}

func (in *input) writer() io.Writer {
	if in.stdout == nil {
		return os.Stdout
	}

	return in.stdout
}

// program opens and parses the sources. A program with diagnostics is an
// error: formatting a partial tree would silently drop input.
func (in *input) program(ctx context.Context, format string) (*ast.Program, error) {
	srcs, err := openSources(ctx, in.Source)
	if err != nil {
		return nil, err
	}
	defer srcs.Close()

	prog, err := lang.ParseReader(ctx, srcs, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, ErrFormat.Wrap(err).With(slog.String("format", format))
	}

	return prog, nil
}

// Native prints one reconstructed statement per line.
type Native struct{ input }

// Run executes the native format command.
func (f *Native) Run(ctx context.Context) error {
	prog, err := f.program(ctx, "native")
	if err != nil {
		return err
	}

	return lang.Format(ctx, f.writer(), prog)
}

// JSON prints the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width, 0 for compact output." short:"i"`

	input
}

// Run executes the json format command.
func (f *JSON) Run(ctx context.Context) error {
	prog, err := f.program(ctx, "json")
	if err != nil {
		return err
	}

	return lang.FormatJSON(ctx, f.writer(), prog, f.Indent)
}

// YAML prints the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width, 0 for flow style." short:"i"`

	input
}

// Run executes the yaml format command.
func (f *YAML) Run(ctx context.Context) error {
	prog, err := f.program(ctx, "yaml")
	if err != nil {
		return err
	}

	return lang.FormatYAML(ctx, f.writer(), prog, f.Indent)
}

// AST prints the syntax tree as an indented outline.
type AST struct{ input }

// Run executes the ast format command.
func (f *AST) Run(ctx context.Context) error {
	prog, err := f.program(ctx, "ast")
	if err != nil {
		return err
	}

	return lang.FormatTree(ctx, f.writer(), prog)
}

// Tokens lists the tokens of the source, one per line. Input that does not
// parse is still tokenized.
type Tokens struct{ input }

// Run executes the tokens format command.
func (f *Tokens) Run(ctx context.Context) error {
	srcs, err := openSources(ctx, f.Source)
	if err != nil {
		return err
	}
	defer srcs.Close()

	data, err := io.ReadAll(srcs)
	if err != nil {
		return ErrFormat.Wrap(lang.ErrReadInput.Wrap(err)).With(slog.String("format", "tokens"))
	}

	return lang.FormatTokens(ctx, f.writer(), string(data))
}
