package repl

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load missing file: %v", err)
	}

	steps := []struct {
		line string
		mode inputMode
	}{
		{"let x = 1;", modeEval},
		{"env", modeCtrl},
		{"  ", modeEval},
		{"x + 1", modeEval},
		{"x + 1", modeEval},
		{"let x = 1;", modeEval},
	}

	for _, s := range steps {
		if err := h.Add(s.line, s.mode); err != nil {
			t.Fatalf("Add(%q): %v", s.line, err)
		}
	}

	want := []string{"env", "x + 1", "let x = 1;"}
	if got := h.Lines(); !slices.Equal(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "C:env\nE:x + 1\nE:let x = 1;\n" {
		t.Errorf("file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if got := reloaded.Lines(); !slices.Equal(got, want) {
		t.Errorf("reloaded = %q, want %q", got, want)
	}

	if _, mode, err := reloaded.Entry(0); err != nil || mode != modeCtrl {
		t.Errorf("Entry(0) mode = %v, %v", mode, err)
	}

	if _, _, err := reloaded.Entry(3); err != ErrOutOfBounds {
		t.Errorf("Entry(3) error = %v", err)
	}
}

func TestHistory_LegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)
	if err := os.WriteFile(path, []byte("1 + 2\n\nC:quit\nE:\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if got := h.Lines(); !slices.Equal(got, []string{"1 + 2", "quit"}) {
		t.Errorf("Lines() = %q", got)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("1", modeEval); err != nil {
		t.Fatal(err)
	}

	if err := h.Load(); err != nil || h.Len() != 0 {
		t.Errorf("Load on memory history = %d entries, %v", h.Len(), err)
	}
}
