package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// HistoryFile is the base name of the history file in the cache directory.
const HistoryFile = "history.utf8"

// historyEntry is one submitted line and the mode it was submitted in.
type historyEntry struct {
	line string
	mode inputMode
}

// History is the list of submitted lines, oldest first, persisted one entry
// per line with a mode prefix ("E:" eval, "C:" command).
//
// A History with an empty path is kept in memory only.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []historyEntry
}

// NewHistory returns an empty History persisted at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries of h with those in its file. A missing file is
// an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if e, ok := parseEntry(scanner.Text()); ok {
			h.entries = append(h.entries, e)
		}
	}

	return scanner.Err()
}

func parseEntry(text string) (historyEntry, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return historyEntry{}, false
	}

	for _, mode := range []inputMode{modeEval, modeCtrl} {
		if line, ok := strings.CutPrefix(text, mode.historyPrefix()); ok {
			return historyEntry{line: line, mode: mode}, line != ""
		}
	}

	// Unprefixed lines are expressions.
	return historyEntry{line: text, mode: modeEval}, true
}

func (e historyEntry) String() string { return e.mode.historyPrefix() + e.line }

// Add appends line to the history. Repeating the most recent entry is a
// no-op; an older duplicate is moved to the end.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	e := historyEntry{line: line, mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	i := slices.Index(h.entries, e)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, e)

	switch {
	case h.path == "":
		return nil
	case i >= 0:
		return h.rewrite()
	default:
		return h.append(e)
	}
}

// Entry returns the i'th entry, oldest first.
func (h *History) Entry(i int) (line string, mode inputMode, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", modeEval, ErrOutOfBounds
	}

	return h.entries[i].line, h.entries[i].mode, nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Lines returns the text of every entry, oldest first.
func (h *History) Lines() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	lines := make([]string, len(h.entries))
	for i, e := range h.entries {
		lines[i] = e.line
	}

	return lines
}

// append writes e to the end of the file. h.mu must be held.
func (h *History) append(e historyEntry) error {
	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	_, err = file.WriteString(e.String() + "\n")

	return errors.Join(err, file.Close())
}

// rewrite replaces the file with the current entries. h.mu must be held.
func (h *History) rewrite() error {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	for _, e := range h.entries {
		if _, err := w.WriteString(e.String() + "\n"); err != nil {
			return errors.Join(err, file.Close())
		}
	}

	return errors.Join(w.Flush(), file.Close())
}
