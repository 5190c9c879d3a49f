// Package repl implements an interactive prompt that evaluates SassScript
// expressions and runs statements against a live compilation.
package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/log"
)

// editDoneMsg is sent when an edit compiled successfully.
type editDoneMsg struct {
	session *lang.Session
	script  string
}

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a
// compile error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails for another reason.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this help
  vars     List global variables
  css      Print the stylesheet compiled so far
  edit     Edit the entered statements in $EDITOR
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type an expression to evaluate it, e.g. lighten(#800, 20%)
  Type $name: value to assign a global variable
  Type a rule or @-directive to add it to the stylesheet
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between eval and command modes
  Use Up/Down for history, Shift+Up/Shift+Down within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

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

// Config describes the compilation the prompt works in.
type Config struct {
	// New starts an empty session.
	New func() (*lang.Session, error)
	// Preload runs in every session before the entered statements.
	Preload []lang.Source
	// CacheDir holds the history file. Empty keeps history in memory.
	CacheDir string
	Logger   log.Logger
}

// rebuild returns a new session holding the preloaded sources followed by
// script.
func (c Config) rebuild(script string) (*lang.Session, error) {
	s, err := c.New()
	if err != nil {
		return nil, err
	}

	for _, src := range c.Preload {
		if err := s.Run(src); err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(script) != "" {
		if err := s.Run(lang.NewSource("", script)); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	cfg          Config
	input        textinput.Model
	session      *lang.Session
	script       string // statements entered so far
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // ranked best-first
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the prompt and blocks until the user quits.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Int("preload", len(cfg.Preload)),
	)

	s, err := cfg.rebuild("")
	if err != nil {
		return err
	}

	var history *History
	if cfg.CacheDir != "" {
		history = NewHistory(filepath.Join(cfg.CacheDir, baseHistory))
	} else {
		history = NewHistory("")
	}

	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	m := newModel(ctx, cfg, s, history)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	cfg Config,
	s *lang.Session,
	history *History,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		cfg:        cfg,
		input:      ti,
		session:    s,
		history:    history,
		historyIdx: history.Len(),
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
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		m.session = msg.session
		m.script = msg.script

		return m, tea.Println(resultStyle.Render("✔ stylesheet rebuilt"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
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
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint returns the line shown below the input.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type an expression or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if call := detectFunctionCall(input, m.input.Position()); call.inCall && m.mode == modeEval {
		if params, ok := m.session.Signature(call.name); ok {
			return renderSignatureHint(call.name, params, call.argIndex)
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without executing.
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// cycle moves the completion selection by step, starting tab-cycling if
// needed. A single candidate is accepted immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n
	case step > 0:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = n - 1
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word with replacement and moves
// the cursor after it.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// candidates returns the completions for the current mode.
func (m *model) candidates() []string {
	if m.mode == modeCtrl {
		return ctrlCommands
	}

	return m.session.Names()
}

// refreshMatches recomputes the completions for the current input. With
// autoConfirm, a word that already equals its sole candidate is accepted.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = complete(
		m.input.Value(), m.input.Position(), m.candidates(),
	)

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) submit() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(line, m.mode); err != nil {
		m.cfg.Logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.command(line)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(line))

	result, err := m.execute(line)

	m.cfg.Logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", line),
		slog.Bool("success", err == nil),
	)

	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	if result == "" {
		return m, echo
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(result)))
}

// execute runs one line of eval-mode input. "$name: value" assigns a
// global variable, a line holding a block or starting with "@" runs as a
// statement, and anything else is evaluated as an expression. Assignments
// and statements are appended to the script.
func (m *model) execute(line string) (string, error) {
	line = strings.TrimSpace(strings.TrimSuffix(line, ";"))

	if name, text, ok := assignment(line); ok {
		if err := m.session.Assign(name, text); err != nil {
			return "", err
		}

		m.record(line + ";")

		v, err := m.session.Evaluate("$" + name)
		if err != nil {
			return "", err
		}

		return "$" + name + ": " + m.session.Inspect(v), nil
	}

	if strings.HasPrefix(line, "@") || strings.ContainsAny(line, "{}") {
		stmt := line
		if !strings.HasSuffix(stmt, "}") {
			stmt += ";"
		}

		if err := m.session.Run(lang.NewSource("", stmt)); err != nil {
			return "", err
		}

		m.record(stmt)

		return "", nil
	}

	v, err := m.session.Evaluate(line)
	if err != nil {
		return "", err
	}

	return m.session.Inspect(v), nil
}

func (m *model) record(stmt string) {
	if m.script != "" {
		m.script += "\n"
	}

	m.script += stmt
}

// assignment splits "$name: text" into name and text.
func assignment(line string) (name, text string, ok bool) {
	lhs, text, ok := strings.Cut(line, ":")
	if !ok || !strings.HasPrefix(lhs, "$") {
		return "", "", false
	}

	name = strings.TrimSpace(lhs[1:])
	if name == "" || strings.IndexFunc(name, func(r rune) bool { return !isNameRune(r) }) >= 0 {
		return "", "", false
	}

	return name, strings.TrimSpace(text), true
}

func (m model) command(line string) (model, tea.Cmd) {
	parts := strings.Fields(line)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(line))

	m.cfg.Logger.TraceContext(
		m.ctxFunc(),
		"repl command",
		slog.String("command", parts[0]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.variables()))

	case "css":
		var b strings.Builder
		if err := m.session.Render(&b); err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
		}

		return m, tea.Sequence(echo, tea.Println(strings.TrimRight(b.String(), "\n")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"))
	}
}

// variables lists the global variables and their values, by name.
func (m model) variables() string {
	vars := maps.Collect(m.session.Variables())

	var b strings.Builder

	for _, name := range slices.Sorted(maps.Keys(vars)) {
		b.WriteString("  $" + name + ": " + hintStyle.Render(preview(m.session.Inspect(vars[name]), vars[name])) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// preview shortens a rendered value for listing.
func preview(text string, v value.Value) string {
	const maxPreview = 40

	if len(text) > maxPreview {
		text = text[:maxPreview-3] + "..."
	}

	if text == "" {
		return "(" + v.Kind().String() + ")"
	}

	return text
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		script:  m.script,
		rebuild: m.cfg.rebuild,
		ctxFunc: m.ctxFunc,
		logger:  m.cfg.Logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.session == nil {
			return editCancelledMsg{}
		}

		return editDoneMsg{session: cmd.session, script: cmd.newScript}
	})
}

// historyStep moves through history by dir (-1 older, +1 newer). With
// inMode, entries of the other mode are skipped; otherwise the mode
// follows the entry.
func (m model) historyStep(dir int, inMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Get(i)
		if err != nil {
			break
		}

		if inMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refreshMatches(false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)
	}

	return m
}

// switchToMode switches to mode, keeping each mode's input separately.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	m.refreshMatches(false)

	return m
}
