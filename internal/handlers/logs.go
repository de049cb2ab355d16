package handlers

import (
	"github.com/tuanbt/buildtail/internal/action"
	"github.com/tuanbt/buildtail/internal/render"
	"github.com/tuanbt/buildtail/internal/state"
	"github.com/tuanbt/buildtail/internal/style"
)

func logStyle(width int) style.Spec {
	return style.Template(width, false, func(int) string { return "  {msg}" }, nil)
}

// Logs keeps a short tail of a step's build output under its indicator.
type Logs struct {
	id     action.ID
	widget *render.Widget
}

// NewLogs creates an empty log tail of n lines for start.
func NewLogs(l *state.Lease, start action.Start, n int) (*Logs, error) {
	w, err := l.Add(render.NewLines(n).WithStyle(logStyle(l.Width())))
	if err != nil {
		return nil, err
	}
	return &Logs{id: start.ID, widget: w}, nil
}

func (h *Logs) Name() string { return "logs " + h.id.String() }

// Lines returns the lines currently shown.
func (h *Logs) Lines() []string { return h.widget.Lines() }

func (h *Logs) OnAction(_ *state.State, a action.Action) (state.Result, error) {
	switch a := a.(type) {
	case action.Result:
		if a.ID == h.id && a.Kind.IsLogLine() {
			h.widget.PushLine(a.Text)
		}
	case action.Stop:
		if a.ID == h.id {
			return state.Close, nil
		}
	}
	return state.Continue, nil
}

func (h *Logs) OnResize(s *state.State) error {
	h.widget.SetStyle(logStyle(s.Width()))
	return nil
}
