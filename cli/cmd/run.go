package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/ardnew/saiyan/lang"
	"github.com/ardnew/saiyan/lang/object"
	"github.com/ardnew/saiyan/log"
)

// Run evaluates source files in a single session.
type Run struct {
	Lines        bool `help:"Read one line at a time, printing diagnostics and then each value." short:"l"`
	Echo         bool `help:"Print each parsed statement instead of evaluating it."              short:"e"`
	Color        bool `default:"true" help:"Colorize diagnostics and values." negatable:""`
	MaxCallDepth int  `default:"${maxCallDepth}" help:"Maximum nested function calls."`

	Source []string `arg:"" help:"Source file(s) or '-' for stdin." name:"source" optional:""`

	stdout io.Writer
	stderr io.Writer
}

// palette colors the read loop's output.
type palette struct {
	diag, value, fail *color.Color
}

func (r *Run) palette() palette {
	p := palette{
		diag:  color.New(color.FgRed),
		value: color.New(color.FgGreen),
		fail:  color.New(color.FgHiRed, color.Bold),
	}

	for _, c := range []*color.Color{p.diag, p.value, p.fail} {
		if r.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (r *Run) writers() (stdout, stderr io.Writer) {
	stdout, stderr = r.stdout, r.stderr
	if stdout == nil {
		stdout = color.Output
	}

	if stderr == nil {
		stderr = color.Error
	}

	return stdout, stderr
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources(ctx, r.Source)
	if err != nil {
		return err
	}
	defer srcs.Close()

	log.DebugContext(ctx, "run",
		slog.Any("sources", srcs.Names()),
		slog.Bool("lines", r.Lines),
		slog.Bool("echo", r.Echo))

	session := lang.NewSession(
		lang.WithLogger(log.Default()),
		lang.WithMaxCallDepth(r.MaxCallDepth),
	)

	if r.Lines {
		return r.loop(ctx, session, srcs)
	}

	return r.whole(ctx, session, srcs)
}

// whole parses all sources as one program. Diagnostics are reported with
// source snippets and fail the command, as does a runtime error.
func (r *Run) whole(ctx context.Context, session *lang.Session, src io.Reader) error {
	stdout, stderr := r.writers()
	pal := r.palette()

	prog, err := lang.ParseReader(ctx, src, lang.WithLogger(log.Default()))
	if err != nil {
		if pe, ok := lang.AsParseError(err); ok {
			for i := range pe.Diagnostics {
				pal.diag.Fprintln(stderr, pe.Diagnostics[i].String())
				fmt.Fprint(stderr, pe.Snippet(i))
			}
		}

		return ErrRun.Wrap(err)
	}

	if r.Echo {
		return lang.Format(ctx, stdout, prog)
	}

	obj := session.EvalProgram(ctx, prog)
	if rerr := lang.RuntimeError(obj); rerr != nil {
		pal.fail.Fprintln(stderr, obj.Inspect())

		return ErrRun.Wrap(rerr)
	}

	if obj != nil {
		pal.value.Fprintln(stdout, obj.Inspect())
	}

	return nil
}

// loop feeds src to the session one line at a time. Each line prints its
// diagnostics one per line, then either its reconstructed statements (echo)
// or its value. Failures are reported and the loop continues.
func (r *Run) loop(ctx context.Context, session *lang.Session, src io.Reader) error {
	stdout, _ := r.writers()
	pal := r.palette()

	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		if err := context.Cause(ctx); err != nil {
			return err
		}

		line := scanner.Text()

		if r.Echo {
			prog, err := lang.ParseString(ctx, line, lang.WithLogger(log.Default()))
			printDiagnostics(stdout, pal, err)

			for _, stmt := range prog.Statements {
				fmt.Fprintln(stdout, stmt.String())
			}

			continue
		}

		obj, err := session.Eval(ctx, line)
		if err != nil {
			printDiagnostics(stdout, pal, err)

			continue
		}

		printValue(stdout, pal, obj)
	}

	if err := scanner.Err(); err != nil {
		return ErrRun.Wrap(lang.ErrReadInput.Wrap(err))
	}

	return nil
}

func printDiagnostics(w io.Writer, pal palette, err error) {
	if pe, ok := lang.AsParseError(err); ok {
		for _, msg := range pe.Messages() {
			pal.diag.Fprintln(w, "\t"+msg)
		}
	} else if err != nil {
		pal.fail.Fprintln(w, err.Error())
	}
}

func printValue(w io.Writer, pal palette, obj object.Object) {
	switch {
	case obj == nil:
	case object.IsError(obj):
		pal.fail.Fprintln(w, obj.Inspect())
	default:
		pal.value.Fprintln(w, obj.Inspect())
	}
}
