package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// kongVar returns the kong variable name, or def when there is no kong
// context or the variable is unset.
func kongVar(ctx context.Context, name, def string) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		if v, ok := ktx.Model.Vars()[name]; ok && v != "" {
			return v
		}
	}

	return def
}

type sourcePathsKey struct{}

// WithSourceFiles returns a new context.Context carrying the global source
// paths. Commands given no paths of their own read these instead.
func WithSourceFiles(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, sourcePathsKey{}, paths)
}

func sourcePathsFrom(ctx context.Context) []string {
	paths, _ := ctx.Value(sourcePathsKey{}).([]string)

	return paths
}

// stdinSource names standard input in a source list.
const stdinSource = "-"

// Sources reads the concatenation of several source files, each separated by
// a newline so a statement cannot run on into the next file.
type Sources struct {
	names  []string
	closer []io.Closer
	reader io.Reader
}

// Names returns the sources in read order; standard input is "-".
func (s *Sources) Names() []string { return s.names }

func (s *Sources) Read(p []byte) (int, error) { return s.reader.Read(p) }

// Close closes every opened file. Standard input is left open.
func (s *Sources) Close() error {
	var first error

	for _, c := range s.closer {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}

	s.closer = nil

	return first
}

// fileKey identifies a file by device and inode, so the same file reached
// through a symlink or a relative path is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens the sources named by paths, or the global sources in ctx
// when paths is empty, or standard input when both are empty.
//
// Duplicate files are read once. Every "-" collapses into a single read of
// standard input placed after all regular files.
func openSources(ctx context.Context, paths []string) (*Sources, error) {
	if len(paths) == 0 {
		paths = sourcePathsFrom(ctx)
	}

	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	var (
		srcs     Sources
		readers  []io.Reader
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		file, dup, err := openUniqueFile(path, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrOpenSource.Wrap(err).With(slog.String("path", path))
		}

		if dup {
			continue
		}

		srcs.names = append(srcs.names, path)
		srcs.closer = append(srcs.closer, file)
		readers = append(readers, file, strings.NewReader("\n"))
	}

	if hasStdin {
		srcs.names = append(srcs.names, stdinSource)
		readers = append(readers, os.Stdin)
	}

	srcs.reader = io.MultiReader(readers...)

	return &srcs, nil
}

// openUniqueFile opens path unless a file with the same identity was opened
// before, in which case dup is true and file is nil.
func openUniqueFile(path string, seen map[fileKey]struct{}) (file *os.File, dup bool, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if info.IsDir() {
		return nil, false, ErrIsDirectory
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, true, nil
		}

		seen[key] = struct{}{}
	}

	file, err = os.Open(resolved)

	return file, false, err
}

func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
