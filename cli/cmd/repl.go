package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/saiyan/cli/cmd/repl"
	"github.com/ardnew/saiyan/lang"
	"github.com/ardnew/saiyan/log"
)

// Repl starts the interactive shell.
type Repl struct {
	History      bool `default:"true"            help:"Persist input history in the cache directory." negatable:""`
	MaxCallDepth int  `default:"${maxCallDepth}" help:"Maximum nested function calls."`

	Preload []string `arg:"" help:"Source file(s) evaluated before the first prompt." name:"preload" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()

	newSession := func() *lang.Session {
		return lang.NewSession(
			lang.WithLogger(logger),
			lang.WithMaxCallDepth(r.MaxCallDepth),
		)
	}

	session := newSession()

	if len(r.Preload) > 0 {
		if err := preload(ctx, session, r.Preload); err != nil {
			return err
		}
	}

	history := repl.NewHistory("")
	if dir := kongVar(ctx, CacheIdentifier, ""); r.History && dir != "" {
		history = repl.NewHistory(filepath.Join(dir, repl.HistoryFile))
		if err := history.Load(); err != nil {
			logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
		}
	}

	return repl.Run(ctx, repl.Config{
		Session:    session,
		NewSession: newSession,
		History:    history,
		Logger:     logger,
	})
}

// preload evaluates the named files in session. A parse failure or runtime
// error stops the shell from starting.
func preload(ctx context.Context, session *lang.Session, paths []string) error {
	srcs, err := openSources(ctx, paths)
	if err != nil {
		return err
	}
	defer srcs.Close()

	obj, err := session.EvalReader(ctx, srcs)
	if err != nil {
		return ErrRun.Wrap(err).With(slog.Any("preload", paths))
	}

	if rerr := lang.RuntimeError(obj); rerr != nil {
		return ErrRun.Wrap(rerr).With(slog.Any("preload", paths))
	}

	return nil
}
