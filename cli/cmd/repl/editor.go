package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ardnew/saiyan/lang"
	"github.com/ardnew/saiyan/lang/object"
	"github.com/ardnew/saiyan/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It writes the session bindings as
// let statements to a temporary file, opens $EDITOR on it, and evaluates the
// result in a fresh session. On a parse error the user is asked to re-edit;
// declining returns [ErrEditDeclined].
type editCommand struct {
	ctxFunc    func() context.Context
	session    *lang.Session
	newSession func() *lang.Session
	logger     log.Logger

	result *lang.Session // nil when the edit was cancelled
	value  object.Object

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-evaluate-retry loop.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "saiyan-edit-*.sai")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	_, err = io.WriteString(f, bindingsSource(c.session.Env()))
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	for {
		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		session := c.newSession()
		value, err := session.Eval(ctx, string(data))

		c.logger.TraceContext(ctx, "repl edit parsed",
			slog.Int("bytes", len(data)),
			slog.Bool("ok", err == nil))

		if err == nil {
			c.result, c.value = session, value

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", err)

		if pe, ok := lang.AsParseError(err); ok {
			for i := range pe.Diagnostics {
				fmt.Fprint(c.stderr, pe.Snippet(i))
			}
		}

		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// bindingsSource renders the top-level bindings of env as let statements that
// rebuild them when evaluated. Values without a literal form are skipped,
// and a closure loses any scope other than the top level.
func bindingsSource(env *object.Environment) string {
	var b strings.Builder

	for _, name := range env.Names() {
		obj, _ := env.Get(name)

		switch obj := obj.(type) {
		case *object.Integer:
			fmt.Fprintf(&b, "let %s = %s;\n", name, integerSource(obj.Value))
		case *object.Boolean, *object.Function:
			fmt.Fprintf(&b, "let %s = %s;\n", name, obj.Inspect())
		}
	}

	return b.String()
}

// integerSource returns an expression evaluating to v. The magnitude of
// math.MinInt64 has no literal, so it is written as a subtraction.
func integerSource(v int64) string {
	if v == math.MinInt64 {
		return "(-9223372036854775807 - 1)"
	}

	return strconv.FormatInt(v, 10)
}

func runEditor(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
