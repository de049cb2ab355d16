package handlers

import (
	"github.com/muesli/termenv"

	"github.com/tuanbt/buildtail/internal/action"
	"github.com/tuanbt/buildtail/internal/render"
	"github.com/tuanbt/buildtail/internal/state"
	"github.com/tuanbt/buildtail/internal/style"
)

func progressStyle(width int) style.Spec {
	return style.Template(width, false,
		func(int) string { return "{msg} " },
		func(w int) string {
			if w < 40 {
				return "{pos}/{len}"
			}
			return "{wide_bar} {pos}/{len}"
		},
	)
}

// Progress draws a determinate bar for aggregate steps such as copy-paths and builds.
// The final counts stay on screen after the step stops.
type Progress struct {
	id     action.ID
	widget *render.Widget
	failed int64
}

// NewProgress creates the bar for start.
func NewProgress(l *state.Lease, start action.Start, profile termenv.Profile) (*Progress, error) {
	w, err := l.Add(render.NewBar(0).
		WithColorProfile(profile).
		WithStyle(progressStyle(l.Width())).
		WithMessage(Capitalize(start.Text)).
		WithFinish(render.FinishLeave))
	if err != nil {
		return nil, err
	}
	return &Progress{id: start.ID, widget: w}, nil
}

func (p *Progress) Name() string { return "progress " + p.id.String() }

// Widget returns the bar owned by the handler.
func (p *Progress) Widget() *render.Widget { return p.widget }

// Failed returns the number of failed items reported so far.
func (p *Progress) Failed() int64 { return p.failed }

func (p *Progress) OnAction(_ *state.State, a action.Action) (state.Result, error) {
	switch a := a.(type) {
	case action.Result:
		if a.ID != p.id {
			break
		}
		switch a.Kind {
		case action.ResultProgress:
			p.widget.SetLength(a.Progress.Expected)
			p.widget.SetPosition(a.Progress.Done)
			p.failed = a.Progress.Failed
		case action.ResultSetExpected:
			p.widget.SetLength(a.Progress.Expected)
		}
	case action.Stop:
		if a.ID == p.id {
			return state.Close, nil
		}
	}
	return state.Continue, nil
}

func (p *Progress) OnResize(s *state.State) error {
	p.widget.SetStyle(progressStyle(s.Width()))
	return nil
}
