// Package cli is a terminal chat transport for local use without the panel.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/internal/service/session"
	"github.com/sandevgo/cadpilot/pkg/log"
)

const cliSessionID = "cli"

var (
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	botStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

type Chat struct {
	session *session.Session
	program *tea.Program
}

func NewChat(chat *session.Session) *Chat {
	return &Chat{session: chat}
}

func (c *Chat) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting cli chat")

	c.program = tea.NewProgram(newModel(ctx, c.session), tea.WithAltScreen())
	if _, err := c.program.Run(); err != nil {
		return fmt.Errorf("cli chat: %w", err)
	}
	return nil
}

func (c *Chat) Shutdown(ctx context.Context) error {
	if c.program != nil {
		c.program.Quit()
	}
	return nil
}

type replyMsg string

type model struct {
	ctx      context.Context
	session  *session.Session
	viewport viewport.Model
	input    textinput.Model
	lines    []string
	waiting  bool
	ready    bool
}

func newModel(ctx context.Context, chat *session.Session) model {
	ti := textinput.New()
	ti.Placeholder = "Describe the geometry to create..."
	ti.Focus()
	ti.CharLimit = 4000

	return model{
		ctx:     ctx,
		session: chat,
		input:   ti,
		lines: []string{
			faintStyle.Render(core.AppName + " — type a request, /docs <topic> for reference, ctrl+c to quit"),
		},
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-3)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 3
		}
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				break
			}
			m.input.Reset()
			m.waiting = true
			m.lines = append(m.lines, userStyle.Render("you › ")+text)
			m.refresh()
			return m, m.ask(text)
		}

	case replyMsg:
		m.waiting = false
		m.lines = append(m.lines, botStyle.Render("pilot › ")+string(msg), "")
		m.refresh()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m model) ask(text string) tea.Cmd {
	return func() tea.Msg {
		reply := m.session.HandleMessage(m.ctx, cliSessionID, session.Inbound{Text: text})
		return replyMsg(reply)
	}
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	status := ""
	if m.waiting {
		status = faintStyle.Render(" thinking...")
	}
	return m.viewport.View() + "\n" + m.input.View() + status + "\n"
}
