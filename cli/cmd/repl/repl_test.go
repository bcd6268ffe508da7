package repl

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/saiyan/lang"
	"github.com/ardnew/saiyan/lang/object"
	"github.com/ardnew/saiyan/log"
)

func testModel(t *testing.T) model {
	t.Helper()

	return newModel(t.Context(), Config{
		Session:    lang.NewSession(),
		NewSession: func() *lang.Session { return lang.NewSession() },
		History:    NewHistory(""),
	})
}

func typeText(m model, text string) model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})

	return next.(model)
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})

	return next.(model), cmd
}

func TestModel_EvalPersistsBindings(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "let sq = fn(n) { n * n };")
	m, _ = press(m, tea.KeyEnter)

	m = typeText(m, "let x = sq(7);")
	m, _ = press(m, tea.KeyEnter)

	obj, ok := m.session.Env().Get("x")
	if !ok {
		t.Fatal("x not bound")
	}

	if got := obj.(*object.Integer).Value; got != 49 {
		t.Errorf("x = %d, want 49", got)
	}

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	if got := m.history.Lines(); len(got) != 2 {
		t.Errorf("history = %q", got)
	}
}

func TestModel_ParseErrorLeavesSessionUntouched(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "let y = 1; let = 2;")
	m, cmd := press(m, tea.KeyEnter)

	if cmd == nil {
		t.Fatal("no output command for a parse error")
	}

	if _, ok := m.session.Env().Get("y"); ok {
		t.Error("statement with diagnostics was evaluated")
	}
}

func TestModel_CommandMode(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "let a = 1;")
	m, _ = press(m, tea.KeyEnter)

	m = typeText(m, "pending")
	m, _ = press(m, tea.KeyEsc)

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("mode=%v input=%q after Esc", m.mode, m.input.Value())
	}

	m = typeText(m, "he")
	m, _ = press(m, tea.KeyEsc)

	if m.mode != modeEval || m.input.Value() != "pending" {
		t.Errorf("eval input not restored: mode=%v input=%q", m.mode, m.input.Value())
	}

	m, _ = press(m, tea.KeyEsc)
	if m.input.Value() != "he" {
		t.Errorf("command input not restored: %q", m.input.Value())
	}

	m.input.SetValue("")
	m = typeText(m, "reset")
	m, _ = press(m, tea.KeyEnter)

	if names := m.session.Env().Names(); len(names) != 0 {
		t.Errorf("reset kept bindings %v", names)
	}

	m = typeText(m, "quit")

	m, cmd := press(m, tea.KeyEnter)
	if !m.quitting || cmd == nil {
		t.Error("quit did not quit")
	}
}

func TestModel_Completion(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "let counter = 0;")
	m, _ = press(m, tea.KeyEnter)

	m = typeText(m, "cou")
	if len(m.matches) == 0 || m.matches[0].Str != "counter" {
		t.Fatalf("matches = %v", m.matches)
	}

	m, _ = press(m, tea.KeyTab)
	if got := m.input.Value(); got != "counter" {
		t.Errorf("after Tab input = %q", got)
	}

	m = typeText(m, " + retu")
	m, _ = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "counter + return" {
		t.Errorf("after second Tab input = %q", got)
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := testModel(t)

	for _, line := range []string{"1 + 1", "2 + 2"} {
		m = typeText(m, line)
		m, _ = press(m, tea.KeyEnter)
	}

	m, _ = press(m, tea.KeyEsc)
	m = typeText(m, "env")
	m, _ = press(m, tea.KeyEnter)
	m, _ = press(m, tea.KeyEsc)

	m, _ = press(m, tea.KeyUp)
	if m.input.Value() != "env" || m.mode != modeCtrl {
		t.Fatalf("Up: input=%q mode=%v", m.input.Value(), m.mode)
	}

	m, _ = press(m, tea.KeyShiftUp)
	if m.input.Value() != "env" {
		t.Errorf("Shift+Up left command history: %q", m.input.Value())
	}

	m, _ = press(m, tea.KeyUp)
	if m.input.Value() != "2 + 2" || m.mode != modeEval {
		t.Errorf("Up: input=%q mode=%v", m.input.Value(), m.mode)
	}

	if m.historyIdx != 1 || !strings.Contains(m.View(), "/3") {
		t.Errorf("history position %d, view %q", m.historyIdx, m.View())
	}

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("Down past newest: input=%q idx=%d", m.input.Value(), m.historyIdx)
	}
}

func TestModel_SignatureHint(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "let add = fn(left, right) { left + right };")
	m, _ = press(m, tea.KeyEnter)

	m = typeText(m, "add(1, ")

	view := m.View()
	if !strings.Contains(view, "left") || !strings.Contains(view, "right") {
		t.Errorf("view lacks signature: %q", view)
	}
}

func TestModel_Trace(t *testing.T) {
	var buf bytes.Buffer

	m := newModel(t.Context(), Config{
		Session: lang.NewSession(),
		History: NewHistory(""),
		Logger:  log.Make(&buf, log.WithLevel(log.LevelTrace), log.WithPretty(false)),
	})

	m = typeText(m, "3")
	press(m, tea.KeyEnter)

	out := buf.String()
	if !strings.Contains(out, "repl keypress") || !strings.Contains(out, `"value":"3"`) {
		t.Errorf("missing trace events: %s", out)
	}
}

func TestRun_NoSession(t *testing.T) {
	if err := Run(t.Context(), Config{}); err != ErrNoSession {
		t.Errorf("Run without session = %v", err)
	}
}
