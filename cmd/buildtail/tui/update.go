package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tuanbt/buildtail/internal/action"
)

func (m Model) Init() tea.Cmd {
	return m.Surface.Flush()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if err := m.State.Resize(msg.Width); err != nil {
			m.Failures++
			m.Logger.Warn("resize failed", "width", msg.Width, "error", err)
		}
		return m, m.Surface.Flush()

	case ActionMsg:
		if err := m.State.Dispatch(msg.Action); err != nil {
			m.Failures++
			m.Logger.Warn("dispatch failed", "action", action.Name(msg.Action), "error", err)
		}
		return m, m.Surface.Flush()

	case FeedDoneMsg:
		m.Done = true
		m.Err = msg.Err
		if msg.Err != nil {
			m.Logger.Error("feed failed", "error", msg.Err)
		}
		// Pending prints must reach the terminal before the program exits.
		return m, tea.Sequence(m.Surface.Flush(), tea.Quit)

	case spinner.TickMsg:
		return m, m.Surface.Update(msg)
	}

	return m, nil
}
