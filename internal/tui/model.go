package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/conversation"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/engine"
)

const (
	promptText = "casegraph> "
	// maxLines bounds the transcript kept in memory.
	maxLines = 2000
	// chromeHeight is the number of rows below the transcript.
	chromeHeight = 3
)

// Asker answers one question within a session.
type Asker interface {
	Ask(ctx context.Context, session *conversation.Session, question string) (*engine.Response, error)
}

// Renderer formats a response for the transcript.
type Renderer func(resp *engine.Response) string

// Config holds the collaborators of the chat view.
type Config struct {
	Asker  Asker
	Render Renderer
	Logger *slog.Logger
}

// Model is the bubbletea model of the chat view. All turns share one session;
// a question asked while another is running supersedes it.
type Model struct {
	ctx     context.Context
	asker   Asker
	render  Renderer
	logger  *slog.Logger
	session *conversation.Session

	input   textinput.Model
	output  viewport.Model
	help    help.Model
	keys    KeyMap
	styles  Styles
	history *History

	lines    []string
	pending  int
	width    int
	height   int
	quitting bool
}

// New creates the chat view. The context bounds every turn.
func New(ctx context.Context, cfg Config) Model {
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask about people, organizations, locations or crimes"
	ti.Prompt = promptText
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 500
	ti.Width = 80
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.Style = styles.Frame

	render := cfg.Render
	if render == nil {
		render = func(resp *engine.Response) string { return resp.Answer }
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return Model{
		ctx:     ctx,
		asker:   cfg.Asker,
		render:  render,
		logger:  logger,
		session: conversation.NewSession(),
		input:   ti,
		output:  vp,
		help:    help.New(),
		keys:    DefaultKeyMap(),
		styles:  styles,
		history: NewHistory(defaultHistorySize),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case answerMsg:
		m.pending--
		m.appendLines(m.render(msg.resp), "")
		return m, nil

	case turnErrMsg:
		m.pending--
		if graphrag.IsStaleTurn(msg.err) {
			// A newer question replaced this one; its answer is on the way.
			return m, nil
		}
		m.logger.Warn("turn failed", "session_id", m.session.ID, "error", msg.err)
		m.appendLines(m.styles.Error.Render(graphrag.UserMessage(msg.err)), "")
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			return m.submit()

		case key.Matches(msg, m.keys.Previous):
			if q, ok := m.history.Previous(); ok {
				m.input.SetValue(q)
				m.input.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, m.keys.Next):
			q, _ := m.history.Next()
			m.input.SetValue(q)
			m.input.CursorEnd()
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			m.lines = nil
			m.output.SetContent("")
			return m, nil

		case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	switch strings.ToLower(question) {
	case "":
		return m, nil
	case "exit", "quit":
		m.quitting = true
		return m, tea.Quit
	}

	m.history.Add(question)
	m.appendLines(m.styles.Question.Render("> " + question))
	m.pending++
	return m, m.ask(question)
}

// ask runs one turn off the update loop.
func (m Model) ask(question string) tea.Cmd {
	ctx, asker, session := m.ctx, m.asker, m.session
	return func() tea.Msg {
		resp, err := asker.Ask(ctx, session, question)
		if err != nil {
			return turnErrMsg{question: question, err: err}
		}
		return answerMsg{question: question, resp: resp}
	}
}

func (m *Model) appendLines(lines ...string) {
	m.lines = append(m.lines, lines...)
	if excess := len(m.lines) - maxLines; excess > 0 {
		m.lines = m.lines[excess:]
	}
	m.output.SetContent(strings.Join(m.lines, "\n"))
	m.output.GotoBottom()
}

func (m *Model) resize() {
	frameW, frameH := m.styles.Frame.GetFrameSize()
	m.output.Width = max(m.width-frameW, 10)
	m.output.Height = max(m.height-chromeHeight-frameH, 3)
	m.input.Width = max(m.width-len(promptText)-1, 10)
	m.help.Width = m.width
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	status := ""
	if m.pending > 0 {
		status = m.styles.Status.Render(fmt.Sprintf("searching the case graph (%d pending)", m.pending))
	}
	return strings.Join([]string{
		m.output.View(),
		status,
		m.input.View(),
		m.help.View(m.keys),
	}, "\n")
}

// Transcript returns the transcript lines currently shown.
func (m Model) Transcript() []string {
	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out
}
