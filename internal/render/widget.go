// Package render owns the terminal drawing context: the ordered set of live
// widgets and the column width they render at.
package render

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/muesli/termenv"

	"github.com/tuanbt/buildtail/internal/style"
)

// Kind is the type of indicator a widget draws.
type Kind int

const (
	// KindSpinner is an indeterminate "busy" indicator.
	KindSpinner Kind = iota
	// KindBar is a determinate progress bar.
	KindBar
	// KindLines is a tail of text lines.
	KindLines
)

// Finish controls what remains on screen once a widget is removed.
type Finish int

const (
	// FinishClear removes the widget without a trace.
	FinishClear Finish = iota
	// FinishLeave prints the widget's final frame as a persistent line.
	FinishLeave
)

// Widget is a single progress indicator drawn on a Surface.
// A widget belongs to at most one surface at a time.
type Widget struct {
	kind   Kind
	style  style.Spec
	msg    string
	finish Finish

	spinner spinner.Model
	ticking bool

	bar    progress.Model
	pos    int64
	length int64

	lines    []string
	maxLines int

	surface *Surface
}

// NewSpinner returns an indeterminate indicator.
func NewSpinner() *Widget {
	return &Widget{
		kind:    KindSpinner,
		spinner: spinner.New(spinner.WithSpinner(spinner.Line)),
	}
}

// NewBar returns a determinate indicator with the given length.
func NewBar(length int64) *Widget {
	return &Widget{
		kind:   KindBar,
		length: length,
		bar:    newBarModel(),
	}
}

func newBarModel(opts ...progress.Option) progress.Model {
	opts = append([]progress.Option{
		progress.WithSolidFill(style.BarFull),
		progress.WithoutPercentage(),
	}, opts...)
	b := progress.New(opts...)
	b.EmptyColor = style.BarEmpty
	return b
}

// NewLines returns a widget showing the last n lines pushed to it.
func NewLines(n int) *Widget {
	if n < 1 {
		n = 1
	}
	return &Widget{kind: KindLines, maxLines: n}
}

// WithStyle sets the style and returns w for chaining.
func (w *Widget) WithStyle(s style.Spec) *Widget {
	w.SetStyle(s)
	return w
}

// WithMessage sets the message and returns w for chaining.
func (w *Widget) WithMessage(msg string) *Widget {
	w.msg = msg
	return w
}

// WithFinish sets the finish behaviour and returns w for chaining.
func (w *Widget) WithFinish(f Finish) *Widget {
	w.finish = f
	return w
}

// WithColorProfile forces the color profile of a bar widget.
func (w *Widget) WithColorProfile(p termenv.Profile) *Widget {
	if w.kind == KindBar {
		w.bar = newBarModel(progress.WithColorProfile(p))
	}
	return w
}

// SetStyle replaces the widget style. Spinner frames follow the style's tick chars.
func (w *Widget) SetStyle(s style.Spec) {
	w.style = s
	if w.kind != KindSpinner {
		return
	}
	frames := s.Frames()
	if len(frames) == 0 || sameFrames(frames, w.spinner.Spinner.Frames) {
		return
	}
	// A fresh model resets the frame index; ticks of the old model are dropped
	// by the surface since they carry the old id.
	w.spinner = spinner.New(spinner.WithSpinner(spinner.Spinner{
		Frames: frames,
		FPS:    w.spinner.Spinner.FPS,
	}))
	if w.ticking && w.surface != nil {
		w.surface.queue(w.spinner.Tick)
	}
}

// EnableSteadyTick animates the widget every d until it is removed.
func (w *Widget) EnableSteadyTick(d time.Duration) {
	if w.kind != KindSpinner || d <= 0 {
		return
	}
	w.spinner.Spinner.FPS = d
	if w.ticking {
		return
	}
	w.ticking = true
	if w.surface != nil {
		w.surface.queue(w.spinner.Tick)
	}
}

// SetMessage replaces the displayed message.
func (w *Widget) SetMessage(msg string) { w.msg = msg }

// SetLength sets the total of a bar.
func (w *Widget) SetLength(n int64) { w.length = n }

// SetPosition sets the current position of a bar.
func (w *Widget) SetPosition(n int64) { w.pos = n }

// PushLine appends a line to a lines widget, dropping the oldest beyond capacity.
func (w *Widget) PushLine(line string) {
	if w.kind != KindLines {
		return
	}
	w.lines = append(w.lines, line)
	if over := len(w.lines) - w.maxLines; over > 0 {
		w.lines = append(w.lines[:0], w.lines[over:]...)
	}
}

func (w *Widget) Kind() Kind        { return w.kind }
func (w *Widget) Style() style.Spec { return w.style }
func (w *Widget) Message() string   { return w.msg }
func (w *Widget) Finish() Finish    { return w.finish }
func (w *Widget) Position() int64   { return w.pos }
func (w *Widget) Length() int64     { return w.length }
func (w *Widget) Ticking() bool     { return w.ticking }
func (w *Widget) Attached() bool    { return w.surface != nil }
func (w *Widget) SpinnerID() int    { return w.spinner.ID() }
func (w *Widget) Lines() []string   { return append([]string(nil), w.lines...) }

// TickInterval returns the animation cadence of a spinner.
func (w *Widget) TickInterval() time.Duration { return w.spinner.Spinner.FPS }

// View renders the widget's current frame.
func (w *Widget) View() string {
	return w.render(false)
}

// FinalView renders the frame left behind by FinishLeave.
func (w *Widget) FinalView() string {
	return w.render(true)
}

func (w *Widget) render(final bool) string {
	if w.kind == KindLines {
		if len(w.lines) == 0 {
			return ""
		}
		out := make([]string, len(w.lines))
		for i, line := range w.lines {
			out[i] = w.style.Render(style.Fields{Msg: line})
		}
		return strings.Join(out, "\n")
	}

	f := style.Fields{
		Msg: w.msg,
		Pos: w.pos,
		Len: w.length,
	}
	switch w.kind {
	case KindSpinner:
		if final {
			f.Spinner = w.style.FinishFrame()
		} else {
			f.Spinner = w.spinner.View()
		}
	case KindBar:
		f.Bar = w.renderBar
	}
	return w.style.Render(f)
}

func (w *Widget) renderBar(width int) string {
	b := w.bar
	b.Width = width
	return b.ViewAs(w.fraction())
}

func (w *Widget) fraction() float64 {
	if w.length <= 0 {
		return 0
	}
	f := float64(w.pos) / float64(w.length)
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

func sameFrames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
