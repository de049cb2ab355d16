package handlers

import (
	"time"

	"github.com/tuanbt/buildtail/internal/action"
	"github.com/tuanbt/buildtail/internal/render"
	"github.com/tuanbt/buildtail/internal/state"
	"github.com/tuanbt/buildtail/internal/style"
)

// Narrow terminals drop the phase column.
const phaseMinWidth = 60

func buildStyle(width int) style.Spec {
	return style.Template(width, true, func(int) string { return "{spinner} {msg}" }, nil).
		WithTickChars("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏✓")
}

// Build shows a spinner for a running derivation build and its current phase.
type Build struct {
	id     action.ID
	label  string
	phase  string
	widget *render.Widget
}

// NewBuild creates the indicator for a build step.
func NewBuild(l *state.Lease, start action.Start, tick time.Duration) (*Build, error) {
	b := &Build{id: start.ID, label: Capitalize(start.Text)}

	w, err := l.Add(render.NewSpinner().
		WithStyle(buildStyle(l.Width())).
		WithMessage(b.message(l.Width())).
		WithFinish(render.FinishClear))
	if err != nil {
		return nil, err
	}
	w.EnableSteadyTick(tick)
	b.widget = w
	return b, nil
}

func (b *Build) Name() string { return "build " + b.id.String() }

// Phase returns the last phase reported for the build.
func (b *Build) Phase() string { return b.phase }

func (b *Build) message(width int) string {
	if b.phase == "" || width < phaseMinWidth {
		return style.StyleLabel.Render(b.label)
	}
	return style.StyleLabel.Render(b.label) + " " + style.StylePhase.Render("("+b.phase+")")
}

func (b *Build) OnAction(_ *state.State, a action.Action) (state.Result, error) {
	switch a := a.(type) {
	case action.Result:
		if a.ID == b.id && a.Kind == action.ResultSetPhase {
			b.phase = a.Text
			b.widget.SetMessage(b.message(b.widget.Style().Width))
		}
	case action.Stop:
		if a.ID == b.id {
			return state.Close, nil
		}
	}
	return state.Continue, nil
}

func (b *Build) OnResize(s *state.State) error {
	b.widget.SetStyle(buildStyle(s.Width()))
	b.widget.SetMessage(b.message(s.Width()))
	return nil
}
