package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/saiyan/log"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, baseConfig)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// withHome points the configuration and cache directories into a temporary
// directory.
func withHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))

	return home
}

// captureStdout returns what fn writes to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	old := os.Stdout
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	os.Stdout = old
	w.Close()

	return <-done
}

func TestRun_Fmt(t *testing.T) {
	withHome(t)

	src := filepath.Join(t.TempDir(), "prog.sai")
	if err := os.WriteFile(src, []byte("let x = 1 + 2 * 3;"), 0o600); err != nil {
		t.Fatal(err)
	}

	var err error

	out := captureStdout(t, func() {
		err = Run(t.Context(), func(int) {}, "--no-log-pretty", "fmt", src)
	})
	if err != nil {
		t.Fatal(err)
	}

	if out != "let x = (1 + (2 * 3));\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRun_GlobalSource(t *testing.T) {
	withHome(t)

	src := filepath.Join(t.TempDir(), "prog.sai")
	if err := os.WriteFile(src, []byte("fn(x) { x }"), 0o600); err != nil {
		t.Fatal(err)
	}

	var err error

	out := captureStdout(t, func() {
		err = Run(t.Context(), func(int) {}, "-s", src, "fmt", "tokens")
	})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, `"fn"`) {
		t.Errorf("output = %q", out)
	}
}

func TestLogConfig_Scan(t *testing.T) {
	original := log.Default()
	t.Cleanup(func() {
		log.Config(
			log.WithLevel(original.Level()),
			log.WithFormat(original.Format()),
			log.WithPretty(true),
			log.WithCaller(false),
		)
	})

	tests := []struct {
		name   string
		args   []string
		level  logLevel
		format logFormat
		pretty bool
		caller bool
	}{
		{"separate values", []string{"--log-level", "debug", "--log-format", "text"}, "debug", "text", true, false},
		{"assigned values", []string{"run", "--log-level=warn", "--log-format=json"}, "warn", "json", true, false},
		{"negated booleans", []string{"--no-log-pretty", "--log-caller"}, "", "", false, true},
		{"assigned booleans", []string{"--log-pretty=false", "--no-log-caller=false"}, "", "", false, true},
		{"invalid boolean", []string{"--log-pretty=maybe"}, "", "", true, false},
		{"after terminator", []string{"--", "--log-level=error"}, "", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.level || f.Format != tt.format {
				t.Errorf("level=%q format=%q", f.Level, f.Format)
			}

			if f.Pretty != tt.pretty || f.Caller != tt.caller {
				t.Errorf("pretty=%v caller=%v", f.Pretty, f.Caller)
			}
		})
	}
}

func TestLogConfig_Vars(t *testing.T) {
	var f logConfig

	vars := f.vars()
	if vars["logLevelEnum"] != "trace,debug,info,warn,error" {
		t.Errorf("logLevelEnum = %q", vars["logLevelEnum"])
	}

	if vars["logFormatEnum"] != "json,text" {
		t.Errorf("logFormatEnum = %q", vars["logFormatEnum"])
	}
}
