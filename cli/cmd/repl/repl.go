package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/saiyan/lang"
	"github.com/ardnew/saiyan/lang/object"
	"github.com/ardnew/saiyan/log"
)

// editDoneMsg is sent when an edit produced a new session.
type editDoneMsg struct {
	session *lang.Session
	value   object.Object
}

// editCancelledMsg is sent when the user left the editor empty.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after an error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = ">> "
	ctrlPrompt = " : "
)

const helpMessage = `
Commands (press Esc to toggle command mode):

  help     Print this message
  env      List bindings
  edit     Edit the bindings in $EDITOR and re-evaluate them
  reset    Discard all bindings
  clear    Clear screen
  quit     Exit

Usage:
  Type a statement to evaluate it; let bindings persist between lines
  Completions appear as you type; Tab / Shift-Tab cycle through them
  Up/Down walk the history, Shift+Up/Shift+Down within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit`

// inputMode selects how a submitted line is interpreted.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

func (m inputMode) historyPrefix() string {
	if m == modeCtrl {
		return "C:"
	}

	return "E:"
}

func (m inputMode) prompt() string {
	if m == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(evalPrompt)
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Config holds what the shell needs from its caller.
type Config struct {
	// Session evaluates input. It must not be nil.
	Session *lang.Session
	// NewSession returns an empty session for reset and edit. When nil,
	// [lang.NewSession] is called with no options.
	NewSession func() *lang.Session
	// History stores submitted lines. When nil, history is kept in memory.
	History *History
	Logger  log.Logger
}

// model is the Bubble Tea model for the shell.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	session    *lang.Session
	newSession func() *lang.Session
	logger     log.Logger
	history    *History
	historyIdx int

	matches      fuzzy.Matches // ranked completions for the current word
	wordStart    int           // byte offset of the current word
	wordEnd      int
	suggIdx      int // selected completion while tabbing
	tabActive    bool
	preTabText   string
	preTabCursor int

	width    int
	quitting bool
	mode     inputMode
	stash    [2]stashed // per-mode input kept across toggles
}

type stashed struct {
	text   string
	cursor int
}

// Run starts the interactive shell and blocks until it exits.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.Session == nil {
		return ErrNoSession
	}

	if cfg.History == nil {
		cfg.History = NewHistory("")
	}

	if cfg.NewSession == nil {
		cfg.NewSession = func() *lang.Session { return lang.NewSession() }
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.History.path),
		slog.Int("history_len", cfg.History.Len()))

	p := tea.NewProgram(newModel(ctx, cfg), tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config) model {
	ti := textinput.New()
	ti.Prompt = modeEval.prompt()
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    cfg.Session,
		newSession: cfg.NewSession,
		logger:     cfg.Logger,
		history:    cfg.History,
		historyIdx: cfg.History.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(evalPrompt)-2, 1)

		return m, nil

	case editDoneMsg:
		m.session = msg.session
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("bindings", len(m.session.Env().Names())))

		cmds := []tea.Cmd{tea.Println(resultStyle.Render("bindings updated"))}
		if msg.value != nil {
			cmds = append(cmds, tea.Println(renderValue(msg.value)))
		}

		return m, tea.Sequence(cmds...)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("edit: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine is the line under the input: history position, usage hint,
// signature of the enclosing call, or completions.
func (m model) hintLine() string {
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(pos + "/" + strconv.Itoa(m.history.Len()))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			return hintStyle.Render("Type a statement or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if m.mode == modeEval && !m.tabActive {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			if params, ok := signature(m.session.Env(), call.name); ok {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width, m.isFunction)
}

// isFunction reports whether name is bound to a function in the session.
func (m model) isFunction(name string) bool {
	_, ok := signature(m.session.Env(), name)

	return ok
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Accept the candidate without submitting.
			m.tabActive = false
			refreshMatches(&m, true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(+1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(+1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(+1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchMode(modeCtrl), nil
		}

		return m.switchMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Editing and cursor keys recompute matches without auto-completing.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle selects the next (dir > 0) or previous completion. A sole candidate
// is accepted immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = -1
		if dir < 0 {
			m.suggIdx = 0
		}
	}

	m.suggIdx = ((m.suggIdx+dir)%n + n) % n
	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord substitutes the word under the cursor and moves the
// cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(replacement))
	m.wordEnd = m.wordStart + len(replacement)
}

// refreshMatches recomputes completions. With autoConfirm, a sole candidate
// equal to the typed word is accepted so the bar disappears.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if autoConfirm && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.stash = [2]stashed{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "repl history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.command(input)
	}

	return m, tea.Sequence(
		tea.Println(promptStyle.Render(evalPrompt)+inputStyle.Render(input)),
		m.evaluate(input),
	)
}

// evaluate runs input in the session and prints diagnostics or the value.
func (m model) evaluate(input string) tea.Cmd {
	ctx := m.ctxFunc()

	obj, err := m.session.Eval(ctx, input)
	if err != nil {
		m.logger.TraceContext(ctx, "repl eval", slog.Any("error", err))

		pe, ok := lang.AsParseError(err)
		if !ok {
			return tea.Println(errorStyle.Render(err.Error()))
		}

		lines := make([]string, 0, len(pe.Diagnostics))
		for _, msg := range pe.Messages() {
			lines = append(lines, errorStyle.Render("  "+msg))
		}

		return tea.Println(strings.Join(lines, "\n"))
	}

	if obj == nil {
		return nil
	}

	m.logger.TraceContext(ctx, "repl eval",
		slog.String("type", string(obj.Type())),
		slog.String("value", obj.Inspect()))

	return tea.Println(renderValue(obj))
}

func renderValue(obj object.Object) string {
	if object.IsError(obj) {
		return errorStyle.Render(obj.Inspect())
	}

	return resultStyle.Render(obj.Inspect())
}

func (m model) command(input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", fields[0]),
		slog.Any("args", fields[1:]))

	switch fields[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "env", "list":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "reset":
		m.session = m.newSession()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("bindings cleared")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(errorStyle.Render("unknown command: " + fields[0] + " (try 'help')"))
	}
}

func (m model) listBindings() string {
	env := m.session.Env()

	names := env.Names()
	if len(names) == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	var b strings.Builder

	for _, name := range names {
		obj, _ := env.Get(name)
		fmt.Fprintf(&b, "  %-*s %s\n", width, name, hintStyle.Render(preview(obj)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctxFunc:    m.ctxFunc,
		session:    m.session,
		newSession: m.newSession,
		logger:     m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.result == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{session: cmd.result, value: cmd.value}
		}
	})
}

// historyStep moves through history by dir. With sameMode, entries from the
// other mode are skipped; otherwise the mode follows the entry. Stepping past
// the newest entry clears the input.
func (m model) historyStep(dir int, sameMode bool) model {
	n := m.history.Len()

	for i := m.historyIdx + dir; 0 <= i && i < n; i += dir {
		line, mode, err := m.history.Entry(i)
		if err != nil || (sameMode && mode != m.mode) {
			continue
		}

		if mode != m.mode {
			m = m.switchMode(mode)
		}

		m.historyIdx = i
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < n {
		m.historyIdx = n
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchMode changes the input mode, keeping each mode's pending input.
func (m model) switchMode(mode inputMode) model {
	m.stash[m.mode] = stashed{text: m.input.Value(), cursor: m.input.Position()}
	m.mode = mode

	m.input.Prompt = mode.prompt()
	m.input.SetValue(m.stash[mode].text)
	m.input.SetCursor(m.stash[mode].cursor)
	m.tabActive = false
	refreshMatches(&m, false)

	return m
}
