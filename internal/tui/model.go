// Package tui is the interactive chat view. The bubbletea event loop owns
// the controller; network calls run as commands and come back as messages.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iksnae/captain-session/internal"
)

const helpText = `/new                  start a new session
/switch <id>          switch to a session
/sessions             list sessions
/orders               list tracked orders
/login <name> [email] sign in
/logout               sign out
/help                 show this help
/quit                 leave`

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

type sendDoneMsg struct {
	res internal.SendResult
}

type historyMsg struct {
	res internal.HistoryResult
}

// Model is the chat screen
type Model struct {
	ctx        context.Context
	ctrl       *internal.Controller
	transcript *internal.Transcript

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width    int
	height   int
	ready    bool
	revision int
	inFlight int
	panel    string
}

// New creates the chat model. transcript must be the controller's view.
func New(ctx context.Context, ctrl *internal.Controller, transcript *internal.Transcript) Model {
	input := textinput.New()
	input.Placeholder = "Ask Captain about a shipment, or /help"
	input.Prompt = "› "
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:        ctx,
		ctrl:       ctrl,
		transcript: transcript,
		viewport:   viewport.New(80, 20),
		input:      input,
		spinner:    sp,
		width:      80,
		height:     24,
		revision:   -1,
	}
}

// Run starts the chat screen and blocks until the user quits
func Run(ctx context.Context, ctrl *internal.Controller, transcript *internal.Transcript) error {
	p := tea.NewProgram(New(ctx, ctrl, transcript), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init loads history for the active session
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.loadHistory(m.ctrl.BeginHistory()))
}

// Update handles one event
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.ready = true
		m.revision = -1

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := m.input.Value()
			m.input.Reset()
			cmd := m.submit(text)
			m.sync()
			return m, cmd
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case sendDoneMsg:
		m.inFlight--
		m.ctrl.CompleteSend(msg.res)

	case historyMsg:
		m.ctrl.ApplyHistory(msg.res)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.sync()
	return m, tea.Batch(cmds...)
}

// submit handles one line of input
func (m *Model) submit(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/") {
		return m.command(text)
	}

	out, ok := m.ctrl.BeginSend(text)
	if !ok {
		return nil
	}
	m.panel = ""
	m.inFlight++
	return m.deliver(out)
}

func (m *Model) command(line string) tea.Cmd {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case "/quit", "/exit":
		return tea.Quit
	case "/help":
		m.panel = helpText
	case "/new":
		s := m.ctrl.CreateSession()
		m.panel = ""
		m.transcript.Notify("Started " + s.ID)
	case "/switch":
		if len(args) != 1 {
			m.transcript.Notify("usage: /switch <session id>")
			return nil
		}
		req, err := m.ctrl.SwitchTo(args[0])
		if err != nil {
			return nil
		}
		m.panel = ""
		return m.loadHistory(req)
	case "/sessions":
		m.panel = m.sessionsPanel()
	case "/orders":
		m.panel = m.ordersPanel()
	case "/login":
		if len(args) == 0 {
			m.transcript.Notify("usage: /login <name> [email]")
			return nil
		}
		form := internal.LoginForm{Name: args[0]}
		if len(args) > 1 {
			form.Email = args[1]
		}
		req, err := m.ctrl.Login(form)
		if err != nil {
			return nil
		}
		return m.loadHistory(req)
	case "/logout":
		return m.loadHistory(m.ctrl.Logout())
	default:
		m.transcript.Notify(fmt.Sprintf("unknown command %s, try /help", name))
	}
	return nil
}

func (m Model) deliver(out internal.Outbound) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return sendDoneMsg{res: ctrl.Deliver(ctx, out)}
	}
}

func (m Model) loadHistory(req internal.HistoryRequest) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return historyMsg{res: ctrl.FetchHistory(ctx, req)}
	}
}

func (m Model) sessionsPanel() string {
	list, activeID := m.transcript.Sessions()
	lines := make([]string, 0, len(list))
	for _, s := range list {
		lines = append(lines, internal.FormatSession(s, s.ID == activeID))
	}
	return strings.Join(lines, "\n")
}

func (m Model) ordersPanel() string {
	orders := m.transcript.Orders()
	if len(orders) == 0 {
		return "No orders tracked in this session"
	}
	lines := make([]string, 0, len(orders))
	for _, o := range orders {
		lines = append(lines, internal.FormatOrder(o))
	}
	return strings.Join(lines, "\n")
}

// sync redraws the viewport when the transcript changed, pinned to the bottom
func (m *Model) sync() {
	m.resize()
	rev := m.transcript.Revision()
	if rev == m.revision {
		return
	}
	m.revision = rev
	m.viewport.SetContent(m.transcript.String(m.viewport.Width - 2))
	m.viewport.GotoBottom()
}

func (m *Model) resize() {
	reserved := 3 // header, input, status
	if m.panel != "" {
		reserved += lipgloss.Height(panelStyle.Render(m.panel))
	}
	h := m.height - reserved
	if h < 3 {
		h = 3
	}
	if m.viewport.Width != m.width || m.viewport.Height != h {
		m.viewport.Width = m.width
		m.viewport.Height = h
		m.revision = -1
	}
	m.input.Width = m.width - 4
}

// View renders the screen
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	active := m.ctrl.Sessions().Active()
	user := m.ctrl.Sessions().User()
	header := headerStyle.Width(m.width).Render(fmt.Sprintf("Captain · %s · %s · orders: %d",
		active.Label, user.Name, len(m.transcript.Orders())))

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.panel != "" {
		b.WriteString(panelStyle.Render(m.panel))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.status())
	return b.String()
}

func (m Model) status() string {
	notice := m.transcript.Notice()
	if m.inFlight > 0 {
		return m.spinner.View() + " " + statusStyle.Render(internal.PendingText+"  "+notice)
	}
	return statusStyle.Render(notice)
}
