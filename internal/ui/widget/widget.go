// Package widget is the full-screen rendition of the course assistant
// chat widget.
package widget

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/arin/tutor-cli/internal/conversation"
)

const title = "AI Assistant"

// Model is the bubbletea model of one mounted widget. Its conversation
// lives exactly as long as the model.
type Model struct {
	ctx       context.Context
	cancel    context.CancelFunc
	transport conversation.Transport
	state     *conversation.State

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	events   <-chan tea.Msg

	// failed holds the turns that carry the failure message.
	failed    map[int]bool
	roundText bool

	width int
}

// New mounts a widget. Cancelling ctx, or quitting, stops any reply that
// is still streaming.
func New(ctx context.Context, transport conversation.Transport) *Model {
	ctx, cancel := context.WithCancel(ctx)

	ti := textinput.New()
	ti.Placeholder = "Type your message..."
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := &Model{
		ctx:       ctx,
		cancel:    cancel,
		transport: transport,
		failed:    map[int]bool{},
		input:     ti,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		width:     80,
	}
	m.state = conversation.New(
		conversation.WithLogger(log.Logger.With().Str("component", "widget").Logger()),
		conversation.WithObserver(m.observe),
	)
	return m
}

// observe marks a round's turn as failed when the stream broke before
// any text arrived.
func (m *Model) observe(c conversation.Change) {
	switch c.Kind {
	case conversation.TurnAppended:
		if c.Turn.Origin == conversation.OriginAssistant {
			m.roundText = false
		}
	case conversation.TurnUpdated:
		m.roundText = true
	case conversation.RoundFailed:
		if !m.roundText {
			m.failed[c.Index] = true
		}
	}
}

// State exposes the widget's conversation.
func (m *Model) State() *conversation.State { return m.state }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		}

	case streamStartedMsg:
		m.events = msg.events
		return m, waitFor(m.events)

	case chunkMsg:
		m.state.OnBytes(msg)
		m.refresh()
		return m, waitFor(m.events)

	case streamEndMsg:
		m.state.OnStreamEnd()
		m.events = nil
		m.refresh()
		return m, m.input.Focus()

	case streamErrMsg:
		m.state.OnTransportError(msg.err)
		m.events = nil
		m.refresh()
		return m, m.input.Focus()

	case spinner.TickMsg:
		if !m.state.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	if !m.state.Pending() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.state.SetInput(m.input.Value())
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) submit() tea.Cmd {
	text := m.input.Value()
	if err := m.state.Submit(text); err != nil {
		if !errors.Is(err, conversation.ErrEmptySubmission) && !errors.Is(err, conversation.ErrPending) {
			log.Error().Err(err).Msg("submit failed")
		}
		return nil
	}
	m.input.Reset()
	m.input.Blur()
	m.refresh()
	return tea.Batch(startRound(m.ctx, m.transport, text), m.spinner.Tick)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.input.Width = max(width-4, 10)
	m.viewport.Width = width
	// Header, input line and help line.
	m.viewport.Height = max(height-3, 1)
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) renderTranscript() string {
	bubbleWidth := max(m.width*4/5, 10)
	live, streaming := m.state.Live()

	var b strings.Builder
	for i, t := range m.state.Turns() {
		text := t.Text
		if streaming && i == live && text == "" {
			text = m.spinner.View()
		}

		var line string
		switch {
		case t.Origin == conversation.OriginUser:
			bubble := userStyle.MaxWidth(bubbleWidth).Render(wrap(text, bubbleWidth-2))
			line = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, bubble)
		case m.failed[i]:
			line = failStyle.Render(wrap(text, bubbleWidth-2))
		default:
			line = botStyle.Render(wrap(text, bubbleWidth-2))
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(line)
	}
	return b.String()
}

// View implements tea.Model.
func (m *Model) View() string {
	header := headerStyle.Width(m.width).Render("🤖 " + title)
	help := helpStyle.Render("enter send • esc quit")
	if m.state.Pending() {
		help = helpStyle.Render("replying… • esc quit")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), m.input.View(), help)
}

// Run mounts the widget full-screen and blocks until the user quits.
func Run(ctx context.Context, transport conversation.Transport) error {
	m := New(ctx, transport)
	defer m.cancel()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 1)).Render(text)
}
