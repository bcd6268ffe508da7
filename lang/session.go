package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/saiyan/lang/ast"
	"github.com/ardnew/saiyan/lang/eval"
	"github.com/ardnew/saiyan/lang/object"
	"github.com/ardnew/saiyan/log"
)

// Session evaluates a sequence of inputs against one top-level environment,
// so each input sees the bindings made by those before it.
//
// A Session is not safe for concurrent use.
type Session struct {
	cfg  config
	env  *object.Environment
	eval *eval.Evaluator
}

// NewSession returns a Session with an empty environment.
func NewSession(opts ...Option) *Session {
	cfg := makeConfig(opts...)

	return &Session{
		cfg:  cfg,
		env:  object.NewEnvironment(),
		eval: cfg.evaluator(),
	}
}

// Env returns the top-level environment of s.
func (s *Session) Env() *object.Environment { return s.env }

// Eval parses src and evaluates it in the session environment.
//
// A parse failure returns a nil result and a [*ParseError], and nothing is
// evaluated. Otherwise the error is nil and the result is the value of the
// last statement, nil if it produced none, or an [*object.Error] if
// evaluation failed.
func (s *Session) Eval(ctx context.Context, src string) (object.Object, error) {
	prog, err := parse(ctx, src, s.cfg)
	if err != nil {
		return nil, err
	}

	return s.EvalProgram(ctx, prog), nil
}

// EvalReader reads, parses, and evaluates all of r like [Session.Eval].
func (s *Session) EvalReader(ctx context.Context, r io.Reader) (object.Object, error) {
	prog, err := ParseReader(ctx, r, WithLogger(s.cfg.logger), WithCache(s.cfg.cache))
	if err != nil {
		return nil, err
	}

	return s.EvalProgram(ctx, prog), nil
}

// EvalProgram evaluates a program that parsed without diagnostics.
func (s *Session) EvalProgram(ctx context.Context, prog *ast.Program) object.Object {
	obj := s.eval.Eval(ctx, prog, s.env)

	if s.cfg.logger.Enabled(ctx, log.LevelTrace) {
		result := "<none>"
		if obj != nil {
			result = obj.Inspect()
		}

		s.cfg.logger.TraceContext(ctx, "evaluated",
			slog.Int("statements", len(prog.Statements)),
			slog.String("result", result))
	}

	return obj
}
