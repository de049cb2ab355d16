package tui

import (
	"strings"

	"github.com/tuanbt/buildtail/internal/style"
)

func (m Model) View() string {
	if m.Quitting || m.Done {
		return ""
	}

	view := m.Surface.View()
	if view == "" {
		return style.StyleLogLine.Render("waiting for build steps...")
	}

	// Keep the newest widgets when the terminal is too short.
	if m.Height > 0 {
		lines := strings.Split(view, "\n")
		if len(lines) > m.Height {
			view = strings.Join(lines[len(lines)-m.Height:], "\n")
		}
	}
	return view
}
