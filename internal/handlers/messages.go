package handlers

import (
	"github.com/tuanbt/buildtail/internal/action"
	"github.com/tuanbt/buildtail/internal/state"
	"github.com/tuanbt/buildtail/internal/style"
)

// Messages prints free-standing diagnostics above the live indicators.
// It lives for the whole run.
type Messages struct {
	level action.Verbosity
}

// NewMessages prints messages at level or more severe.
func NewMessages(level action.Verbosity) *Messages {
	return &Messages{level: level}
}

func (m *Messages) Name() string { return "messages" }

func (m *Messages) OnAction(s *state.State, a action.Action) (state.Result, error) {
	msg, ok := a.(action.Message)
	if !ok || msg.Level > m.level {
		return state.Continue, nil
	}

	switch {
	case msg.Level <= action.LevelError:
		s.Println(style.StyleError.Render("error: ") + msg.Text)
	case msg.Level == action.LevelWarn:
		s.Println(style.StyleWarn.Render("warning: ") + msg.Text)
	case msg.Level == action.LevelNotice:
		s.Println(style.StyleNotice.Render(msg.Text))
	default:
		s.Println(msg.Text)
	}
	return state.Continue, nil
}

func (m *Messages) OnResize(*state.State) error { return nil }
