package handlers

import (
	"time"

	"github.com/tuanbt/buildtail/internal/action"
	"github.com/tuanbt/buildtail/internal/render"
	"github.com/tuanbt/buildtail/internal/state"
	"github.com/tuanbt/buildtail/internal/style"
)

const unknownTick = time.Second

func unknownStyle(width int) style.Spec {
	return style.Template(width, true,
		func(int) string { return "{msg} {spinner} {wide_bar}" },
		func(int) string { return "" },
	).WithTickChars("…  ")
}

// Unknown renders a generic busy indicator for a step no specific handler claims.
type Unknown struct {
	id     action.ID
	label  string
	widget *render.Widget
}

// NewUnknown creates the indicator for start on the leased surface.
// The label is read from the start text once; resizes only restyle it.
func NewUnknown(l *state.Lease, start action.Start) (*Unknown, error) {
	label := Capitalize(start.Text)

	w, err := l.Add(render.NewSpinner().
		WithStyle(unknownStyle(l.Width())).
		WithMessage(label).
		WithFinish(render.FinishClear))
	if err != nil {
		return nil, err
	}
	w.EnableSteadyTick(unknownTick)

	return &Unknown{id: start.ID, label: label, widget: w}, nil
}

func (u *Unknown) Name() string { return "unknown " + u.id.String() }

// Label returns the displayed label.
func (u *Unknown) Label() string { return u.label }

// Widget returns the indicator owned by the handler.
func (u *Unknown) Widget() *render.Widget { return u.widget }

func (u *Unknown) OnAction(_ *state.State, a action.Action) (state.Result, error) {
	if action.IsStopFor(a, u.id) {
		return state.Close, nil
	}
	return state.Continue, nil
}

func (u *Unknown) OnResize(s *state.State) error {
	u.widget.SetStyle(unknownStyle(s.Width()))
	return nil
}
