package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ecoscript/lang"
	"github.com/ardnew/ecoscript/log"
)

const ctrlPrompt = ": "

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this help
  names    List global names
  reset    Discard buffered input
  clear    Clear screen
  quit     Exit

Usage:
  Enter statements to run them; "exit" also quits
  An open block continues on the next line after "... "
  Indented lines are held until an empty line or a line at column 1
  Press Tab / Shift-Tab to cycle through completions
  Use Up/Down for history, Shift+Up/Shift+Down within the current mode
  Press Ctrl+C to interrupt a running program or clear the line
  Press Ctrl+C or Ctrl+D on an empty line to exit
`
}

// inputMode distinguishes program input from front-end commands.
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
	outputStyle     = lipgloss.NewStyle()
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// evalDoneMsg carries the outcome of feeding a line to the session.
type evalDoneMsg struct {
	err    error
	result Result
}

// model is the Bubble Tea model of the terminal interface.
//
// Lines are fed to the session in a command, so the interface stays
// responsive and Ctrl+C can cancel a long evaluation. Only one line is in
// flight at a time.
type model struct {
	ctx          context.Context //nolint:containedctx
	cancel       context.CancelFunc
	flush        func()
	session      *Session
	history      *History
	logger       log.Logger
	input        textinput.Model
	matches      fuzzy.Matches
	preTabText   string
	evalText     string
	ctrlText     string
	historyIdx   int
	wordStart    int
	wordEnd      int
	suggIdx      int
	preTabCursor int
	evalCursor   int
	ctrlCursor   int
	width        int
	mode         inputMode
	busy         bool
	tabActive    bool
	quitting     bool
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(session.Prompt())
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		session:    session,
		history:    history,
		logger:     logger,
		input:      ti,
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
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-2, 1)

		return m, nil

	case evalDoneMsg:
		return m.evalDone(msg)
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

	input := m.input.Value()

	switch {
	case m.busy:
		b.WriteString(hintStyle.Render("running (Ctrl+C to interrupt)"))

	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render(m.hint()))

	case len(m.matches) > 0:
		isFunc := m.isCallable
		if m.mode == modeCtrl {
			isFunc = nil
		}

		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width, isFunc,
		))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) hint() string {
	switch {
	case m.mode == modeCtrl:
		return "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
	case m.session.Pending():
		return "Continue the program, or enter an empty line to run it"
	default:
		return "Enter a statement or press Esc for commands"
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress",
		slog.String("key", msg.String()))

	if m.busy {
		if msg.Type == tea.KeyCtrlC && m.cancel != nil {
			m.cancel()
		}

		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		switch {
		case m.input.Value() != "":
			m.input.SetValue("")
		case m.session.Pending():
			m.session.Reset()
			m.input.Prompt = m.prompt()
		default:
			m.quitting = true

			return m, tea.Quit
		}

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
			// Lock in the current candidate without executing.
			m.tabActive = false
			refreshMatches(&m, true)

			return m, nil
		}

		return m.executeInput()

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
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key edits or moves without auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves through the completion candidates by step. A single
// candidate is completed immediately.
func (m model) cycle(step int) model {
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

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the word being completed and moves the
// cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])

	m.wordEnd = m.wordStart + len(replacement)
	m.input.SetCursor(m.wordEnd)
}

// refreshMatches recomputes completions for the current input. With
// autoConfirm, a word that already equals its only candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

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

func (m model) executeInput() (model, tea.Cmd) {
	line := strings.TrimRight(m.input.Value(), " \t")

	m.input.SetValue("")
	m.tabActive = false
	m.matches = nil

	if m.mode == modeCtrl {
		m.ctrlText, m.ctrlCursor = "", 0

		if strings.TrimSpace(line) == "" {
			return m, nil
		}

		m.addHistory(line, modeCtrl)

		return m.executeCommand(strings.TrimSpace(line))
	}

	if line == "" && !m.session.Pending() {
		return m, nil
	}

	m.addHistory(line, modeEval)

	echo := tea.Println(m.prompt() + inputStyle.Render(line))

	ctx, cancel := context.WithCancel(m.ctx)
	m.busy = true
	m.cancel = cancel

	m.logger.TraceContext(m.ctx, "repl feed", slog.String("input", line))

	session, flush := m.session, m.flush
	feed := func() tea.Msg {
		defer cancel()

		res, err := session.Feed(ctx, line)
		if flush != nil {
			flush()
		}

		return evalDoneMsg{result: res, err: err}
	}

	return m, tea.Sequence(echo, feed)
}

func (m model) evalDone(msg evalDoneMsg) (model, tea.Cmd) {
	m.busy = false
	m.cancel = nil
	m.input.Prompt = m.prompt()
	m.historyIdx = m.history.Len()

	switch {
	case msg.err != nil:
		m.logger.TraceContext(m.ctx, "repl feed failed", slog.Any("error", msg.err))

		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))

	case msg.result.Status == StatusExit:
		m.quitting = true

		return m, tea.Quit

	case msg.result.Status == StatusDone && msg.result.Value != nil:
		return m, tea.Println(resultStyle.Render(lang.Repr(msg.result.Value)))
	}

	return m, nil
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctx, "repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "n", "names":
		return m, tea.Sequence(echo, tea.Println(m.listNames()))

	case "r", "reset":
		m.session.Reset()

		return m, echo

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

// listNames renders the global bindings with their types.
func (m model) listNames() string {
	var b strings.Builder

	global := m.session.Evaluator().Global()

	for _, name := range global.Names() {
		v, _ := global.Lookup(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(lang.TypeName(v)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m *model) addHistory(line string, mode inputMode) {
	if err := m.history.Add(line, mode); err != nil {
		m.logger.DebugContext(m.ctx, "history not saved", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
}

// historyStep moves through history by step. Without sameMode, the input
// mode follows the recalled entry. Stepping past the newest entry clears
// the input.
func (m model) historyStep(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode changes the input mode, keeping each mode's pending input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.input.Prompt = m.prompt()

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}

func (m model) prompt() string {
	if m.mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(m.session.Prompt())
}
