package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/saiyan/lang/ast"
	"github.com/ardnew/saiyan/lang/eval"
	"github.com/ardnew/saiyan/lang/lexer"
	"github.com/ardnew/saiyan/lang/parser"
	"github.com/ardnew/saiyan/log"
)

type config struct {
	logger   log.Logger
	maxDepth int
	cache    bool
}

// Option configures parsing and evaluation.
type Option func(*config)

// WithLogger sets the logger that receives trace events from every stage.
// The zero logger, the default, discards them.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMaxCallDepth bounds nested function calls during evaluation.
func WithMaxCallDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithCache controls whether [ParseReader] consults the process-wide parse
// cache. It is enabled by default.
func WithCache(enable bool) Option {
	return func(c *config) { c.cache = enable }
}

func makeConfig(opts ...Option) config {
	c := config{maxDepth: eval.DefaultMaxCallDepth, cache: true}

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

func (c config) evaluator() *eval.Evaluator {
	return eval.New(eval.WithLogger(c.logger), eval.WithMaxCallDepth(c.maxDepth))
}

// ParseString parses src. When the parser records diagnostics, the returned
// program holds whatever could be recovered and the error is a
// [*ParseError]; such a program must not be evaluated.
func ParseString(ctx context.Context, src string, opts ...Option) (*ast.Program, error) {
	return parse(ctx, src, makeConfig(opts...))
}

// ParseReader reads all of r and parses it like [ParseString]. Results are
// cached by content hash unless disabled with [WithCache].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*ast.Program, error) {
	cfg := makeConfig(opts...)

	// Read ahead asynchronously while the previous chunk is consumed.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	cfg.logger.TraceContext(ctx, "read input", slog.Int("bytes", len(data)))

	if !cfg.cache {
		return parse(ctx, string(data), cfg)
	}

	return parseCached(ctx, string(data), cfg)
}

func parse(ctx context.Context, src string, cfg config) (*ast.Program, error) {
	p := parser.New(lexer.New(src), parser.WithLogger(cfg.logger))
	prog := p.ParseProgram()

	if diags := p.Diagnostics(); len(diags) > 0 {
		err := &ParseError{Diagnostics: diags, Source: src}
		cfg.logger.DebugContext(ctx, "parse failed", slog.Any("diagnostics", err))

		return prog, err
	}

	return prog, nil
}
