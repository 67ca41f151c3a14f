// Package tui provides an interactive renderer for the debug watch client,
// built on bubbletea the way the container's own TUI is.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/noirtty/noirtty-server/internal/terminal"
	"github.com/noirtty/noirtty-server/internal/watchclient"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))

type frameMsg terminal.ServerMessage
type watchErrMsg struct{ err error }

// WatchModel renders a live frame stream for one session inside a
// bubbletea program.
type WatchModel struct {
	client    *watchclient.Client
	sessionID string
	frames    chan terminal.ServerMessage
	errs      chan error

	viewport viewport.Model
	ready    bool
	lastErr  error
}

// NewWatchModel wires a Client into a WatchModel by registering its frame
// and error callbacks; the Client need not be connected yet.
func NewWatchModel(client *watchclient.Client, sessionID string) *WatchModel {
	m := &WatchModel{
		client:    client,
		sessionID: sessionID,
		frames:    make(chan terminal.ServerMessage, 16),
		errs:      make(chan error, 1),
	}
	client.OnFrame(func(msg terminal.ServerMessage) {
		select {
		case m.frames <- msg:
		default:
		}
	})
	client.OnError(func(err error) {
		select {
		case m.errs <- err:
		default:
		}
	})
	return m
}

func (m *WatchModel) Init() tea.Cmd {
	return tea.Batch(waitForFrame(m.frames), waitForErr(m.errs))
}

func waitForFrame(ch <-chan terminal.ServerMessage) tea.Cmd {
	return func() tea.Msg { return frameMsg(<-ch) }
}

func waitForErr(ch <-chan error) tea.Cmd {
	return func() tea.Msg { return watchErrMsg{err: <-ch} }
}

func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-1)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 1
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case frameMsg:
		if m.ready {
			m.viewport.SetContent(watchclient.RenderFrame(terminal.ServerMessage(msg).Frame()))
		}
		return m, waitForFrame(m.frames)
	case watchErrMsg:
		m.lastErr = msg.err
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *WatchModel) View() string {
	if !m.ready {
		return "initializing...\n"
	}
	header := headerStyle.Render(fmt.Sprintf("watching session %s (q to quit)", m.sessionID))
	return header + "\n" + m.viewport.View()
}

// Err returns the error that ended the program, if any.
func (m *WatchModel) Err() error { return m.lastErr }
