package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alecthomas/kong"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func readSources(t *testing.T, ctx context.Context, paths []string) (string, []string) {
	t.Helper()

	srcs, err := openSources(ctx, paths)
	if err != nil {
		t.Fatalf("openSources(%q): %v", paths, err)
	}
	defer srcs.Close()

	data, err := io.ReadAll(srcs)
	if err != nil {
		t.Fatalf("read sources: %v", err)
	}

	return string(data), srcs.Names()
}

// withStdin replaces os.Stdin with a pipe carrying content.
func withStdin(t *testing.T, content string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	old := os.Stdin
	os.Stdin = r

	t.Cleanup(func() {
		os.Stdin = old
		r.Close()
	})

	go func() {
		defer w.Close()
		io.WriteString(w, content)
	}()
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.sai", "let a = 1;")
	second := writeFile(t, dir, "second.sai", "a")

	link := filepath.Join(dir, "link.sai")
	if err := os.Symlink(first, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		paths     []string
		wantData  string
		wantNames []string
	}{
		{"single", []string{first}, "let a = 1;\n", []string{first}},
		{"separated", []string{first, second}, "let a = 1;\na\n", []string{first, second}},
		{"duplicate", []string{first, first}, "let a = 1;\n", []string{first}},
		{"symlink", []string{first, link}, "let a = 1;\n", []string{first}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, names := readSources(t, t.Context(), tt.paths)
			if data != tt.wantData {
				t.Errorf("data = %q, want %q", data, tt.wantData)
			}

			if !slices.Equal(names, tt.wantNames) {
				t.Errorf("names = %q, want %q", names, tt.wantNames)
			}
		})
	}
}

func TestOpenSources_RelativeAndAbsolute(t *testing.T) {
	dir := t.TempDir()
	abs := writeFile(t, dir, "prog.sai", "1")

	t.Chdir(dir)

	data, _ := readSources(t, t.Context(), []string{"prog.sai", abs})
	if data != "1\n" {
		t.Errorf("data = %q", data)
	}
}

func TestOpenSources_StdinLast(t *testing.T) {
	file := writeFile(t, t.TempDir(), "file.sai", "file")
	withStdin(t, "stdin")

	data, names := readSources(t, t.Context(), []string{"-", file, "-"})
	if data != "file\nstdin" {
		t.Errorf("data = %q", data)
	}

	if !slices.Equal(names, []string{file, "-"}) {
		t.Errorf("names = %q", names)
	}
}

func TestOpenSources_Defaults(t *testing.T) {
	global := writeFile(t, t.TempDir(), "global.sai", "g")

	ctx := WithSourceFiles(t.Context(), []string{global})

	if data, _ := readSources(t, ctx, nil); data != "g\n" {
		t.Errorf("global sources: %q", data)
	}

	withStdin(t, "from stdin")

	if data, _ := readSources(t, t.Context(), nil); data != "from stdin" {
		t.Errorf("stdin default: %q", data)
	}
}

func TestOpenSources_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.sai", "1")

	tests := []struct {
		name  string
		paths []string
		is    error
	}{
		{"missing", []string{good, filepath.Join(dir, "missing.sai")}, os.ErrNotExist},
		{"directory", []string{dir}, ErrIsDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := openSources(t.Context(), tt.paths)
			if !errors.Is(err, ErrOpenSource) || !errors.Is(err, tt.is) {
				t.Errorf("error = %v", err)
			}
		})
	}
}

func TestKongVar(t *testing.T) {
	if got := kongVar(t.Context(), CacheIdentifier, "fallback"); got != "fallback" {
		t.Errorf("without kong context = %q", got)
	}

	var cli struct{}

	parser, err := kong.New(&cli, kong.Vars{CacheIdentifier: "/tmp/cache"})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(t.Context(), ktx)

	if got := kongVar(ctx, CacheIdentifier, ""); got != "/tmp/cache" {
		t.Errorf("kongVar = %q", got)
	}

	if got := kongVar(ctx, "unset", "def"); got != "def" {
		t.Errorf("unset var = %q", got)
	}
}
