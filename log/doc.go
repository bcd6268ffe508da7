// Package log wraps [log/slog] with a small, concurrency-safe logger used by
// every saiyan package.
//
// A [Logger] is created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
// The zero [Logger] discards everything, so library packages can hold one
// without checking for nil.
//
// Package-level functions ([Info], [Debug], ...) write through a default
// logger that [Config] replaces. Methods without a context argument use
// [DefaultContextProvider].
//
// Pretty output (the default) colorizes keys, values, and levels with
// github.com/fatih/color. Disable it with [WithPretty] when writing to files.
package log
