package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/wordy/lang"
	"github.com/ardnew/wordy/log"
)

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")
)

// editDoneMsg is sent when the editor returns parseable source.
type editDoneMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit fails or is declined.
type editErrorMsg struct{ err error }

const (
	prompt         = "➜ "
	continuePrompt = "… "
	commandPrefix  = ":"
	defaultWidth   = 80
)

const helpMessage = `
Commands:

  :help    Print this cruft
  :vars    List variables and their values
  :funcs   List declared functions
  :reset   Forget all variables and functions
  :edit    Edit the session source in $EDITOR and run it again
  :clear   Clear screen
  :quit    Exit REPL

Usage:
  Type statements; input runs once it ends with # or its braces balance
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down arrows for history navigation
  Press Esc to discard an incomplete statement
  Press Ctrl+C on empty line or Ctrl+D to exit`

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	continueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
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

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx          context.Context
	input        textinput.Model
	session      *Session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
}

// Run starts the REPL. When preload is non-nil its statements run before the
// first prompt. History is kept under cacheDir.
func Run(
	ctx context.Context,
	preload io.Reader,
	cacheDir string,
	logger log.Logger,
	opts ...lang.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Bool("has_source", preload != nil),
	)

	session := NewSession(append([]lang.Option{lang.WithLogger(logger)}, opts...)...)

	if preload != nil {
		data, err := io.ReadAll(preload)
		if err != nil {
			return lang.ErrReadInput.Wrap(err)
		}

		if _, err := session.Load(ctx, string(data)); err != nil {
			return err
		}

		logger.TraceContext(ctx, "repl source loaded",
			slog.Int("variables", len(session.Variables())),
			slog.Int("functions", len(session.Functions())),
		)
	}

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded", slog.Int("entry_count", history.Len()))

	p := tea.NewProgram(newModel(ctx, session, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
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
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil

	case editDoneMsg:
		results, err := m.session.Replace(m.ctx, msg.source)
		if err != nil {
			return m, tea.Println(errorStyle.Render("error: " + err.Error()))
		}

		return m, tea.Sequence(
			tea.Println(resultStyle.Render("✔ session replaced")),
			printResults(results),
		)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

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

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())))

	case strings.TrimSpace(input) == "" && m.session.AwaitingElse():
		b.WriteString(hintStyle.Render("Continue with elseCondition or press Enter to run the block"))

	case strings.TrimSpace(input) == "" && m.session.Pending():
		b.WriteString(hintStyle.Render("Continue the statement or press Esc to discard it"))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Type a statement or :help for commands"))

	case call.inCall && renderSignatureHint(m.session, call) != "":
		b.WriteString(renderSignatureHint(m.session, call))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.session, m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && !m.session.Pending() {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.session.Discard()
		m = m.setPrompt()
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
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tabActive = false
		m.refreshMatches(true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)

			return m, nil
		}

		if m.session.Pending() {
			m.session.Discard()
			m = m.setPrompt()

			return m, tea.Println(hintStyle.Render("statement discarded"))
		}

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
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

// cycle moves the tab selection by step and substitutes the selected
// candidate for the current word. A sole candidate is accepted at once.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord substitutes replacement for the current word and moves the
// cursor after it.
func (m *model) replaceWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input. With
// autoConfirm set, a word that already equals its sole candidate is accepted
// so the bar clears.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = completions(m.session, m.input.Value(), m.input.Position())

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

func (m model) setPrompt() model {
	if m.session.Pending() {
		m.input.Prompt = continueStyle.Render(continuePrompt)
	} else {
		m.input.Prompt = promptStyle.Render(prompt)
	}

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	line := m.input.Value()
	if strings.TrimSpace(line) == "" && !m.session.Pending() {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	if cmd, ok := strings.CutPrefix(strings.TrimSpace(line), commandPrefix); ok &&
		(!m.session.Pending() || m.session.AwaitingElse()) {
		_, _ = m.history.Write(line)
		m.historyIdx = m.history.Len()

		if !m.session.AwaitingElse() {
			return m.executeCommand(cmd)
		}

		results, err := m.session.Flush(m.ctx)
		m = m.setPrompt()
		held := printResults(results)

		if err != nil {
			held = tea.Sequence(held, tea.Println(errorStyle.Render("error: "+err.Error())))
		}

		var run tea.Cmd

		m, run = m.executeCommand(cmd)

		return m, tea.Sequence(held, run)
	}

	_, _ = m.history.Write(line)
	m.historyIdx = m.history.Len()

	echo := tea.Println(m.input.Prompt + inputStyle.Render(line))

	results, ready, err := m.session.Feed(m.ctx, line)
	m = m.setPrompt()

	if !ready {
		return m, echo
	}

	m.logger.TraceContext(m.ctx, "repl eval",
		slog.Int("results", len(results)),
		slog.Bool("failed", err != nil),
	)

	if err != nil {
		return m, tea.Sequence(
			echo,
			printResults(results),
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	return m, tea.Sequence(echo, printResults(results))
}

// printResults prints outputs in the result style and every other record in
// the hint style.
func printResults(results lang.Results) tea.Cmd {
	var cmds []tea.Cmd

	for r := range results.All() {
		switch r.Kind {
		case lang.ResultOutput:
			cmds = append(cmds, tea.Println(resultStyle.Render(r.Text)))
		case lang.ResultReturn:
			cmds = append(cmds, tea.Println(hintStyle.Render("← "+r.Text)))
		default:
			cmds = append(cmds, tea.Println(hintStyle.Render(r.Text)))
		}
	}

	return tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(commandPrefix+input))

	m.logger.TraceContext(m.ctx, "repl command", slog.String("command", parts[0]))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(listing(m.session.Variables(), "no variables")))

	case "f", "funcs":
		return m, tea.Sequence(echo, tea.Println(listing(m.session.Functions(), "no functions")))

	case "r", "reset":
		m.session.Reset()
		m = m.setPrompt()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("session reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try :help)"),
		)
	}
}

func listing(lines []string, empty string) string {
	if len(lines) == 0 {
		return hintStyle.Render("  " + empty)
	}

	return "  " + strings.Join(lines, "\n  ")
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{ctx: m.ctx, session: m.session, logger: m.logger}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.source == "":
			return editCancelledMsg{}
		default:
			return editDoneMsg{source: cmd.source}
		}
	})
}

// historyMove steps through history by delta. Moving past the newest entry
// clears the input.
func (m model) historyMove(delta int) model {
	idx := m.historyIdx + delta
	if idx < 0 {
		return m
	}

	if idx >= m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)

		return m
	}

	if entry, err := m.history.Entry(idx); err == nil {
		m.historyIdx = idx
		m.input.SetValue(entry)
		m.input.SetCursor(len(entry))
		m.refreshMatches(false)
	}

	return m
}
