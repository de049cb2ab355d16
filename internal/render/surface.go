package render

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	// ErrSurfaceFull is returned when the surface is at capacity.
	ErrSurfaceFull = errors.New("render surface is full")

	// ErrWidgetAttached is returned when adding a widget that already lives on a surface.
	ErrWidgetAttached = errors.New("widget is already attached to a surface")

	// ErrNilWidget is returned when adding a nil widget.
	ErrNilWidget = errors.New("widget is nil")
)

// Observer is notified of changes to the surface.
type Observer interface {
	WidgetAdded(w *Widget)
	WidgetRemoved(w *Widget)
	Printed(line string)
}

// Option configures a Surface.
type Option func(*Surface)

// WithCapacity caps the number of live widgets. Zero means unlimited.
func WithCapacity(n int) Option {
	return func(s *Surface) { s.capacity = n }
}

// WithObserver registers an observer for surface changes.
func WithObserver(o Observer) Option {
	return func(s *Surface) { s.observer = o }
}

// Surface owns the live widgets in a stable vertical order and the width they
// render at. Widgets are only ever appended; removal is explicit.
type Surface struct {
	width    int
	widgets  []*Widget
	capacity int
	observer Observer

	prints []tea.Cmd
	ticks  []tea.Cmd
}

// NewSurface creates an empty surface for the given width.
func NewSurface(width int, opts ...Option) *Surface {
	s := &Surface{width: width}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Width returns the current column width.
func (s *Surface) Width() int { return s.width }

// SetWidth updates the column width.
func (s *Surface) SetWidth(width int) {
	if width < 0 {
		width = 0
	}
	s.width = width
}

// Len returns the number of live widgets.
func (s *Surface) Len() int { return len(s.widgets) }

// Widgets returns the live widgets in draw order.
func (s *Surface) Widgets() []*Widget {
	return append([]*Widget(nil), s.widgets...)
}

// Contains reports whether w is live on this surface.
func (s *Surface) Contains(w *Widget) bool {
	return s.indexOf(w) >= 0
}

// Add appends w below the existing widgets.
func (s *Surface) Add(w *Widget) (*Widget, error) {
	if w == nil {
		return nil, ErrNilWidget
	}
	if w.surface != nil {
		return nil, ErrWidgetAttached
	}
	if s.capacity > 0 && len(s.widgets) >= s.capacity {
		return nil, ErrSurfaceFull
	}

	s.widgets = append(s.widgets, w)
	w.surface = s
	if w.ticking {
		s.queue(w.spinner.Tick)
	}
	if s.observer != nil {
		s.observer.WidgetAdded(w)
	}
	return w, nil
}

// Remove detaches w from the surface. It returns false if w was not live here,
// so removing a widget twice has no further effect.
func (s *Surface) Remove(w *Widget) bool {
	if !s.detach(w) {
		return false
	}

	if w.finish == FinishLeave {
		s.Println(w.FinalView())
	}
	if s.observer != nil {
		s.observer.WidgetRemoved(w)
	}
	return true
}

// Discard detaches w without printing its final frame or notifying the
// observer. It is used for widgets whose owner never came to exist.
func (s *Surface) Discard(w *Widget) bool {
	return s.detach(w)
}

func (s *Surface) detach(w *Widget) bool {
	idx := s.indexOf(w)
	if idx < 0 {
		return false
	}
	last := len(s.widgets) - 1
	copy(s.widgets[idx:], s.widgets[idx+1:])
	s.widgets[last] = nil
	s.widgets = s.widgets[:last]
	w.surface = nil
	return true
}

// Println prints a persistent line above the live widgets.
func (s *Surface) Println(line string) {
	s.prints = append(s.prints, tea.Println(line))
	if s.observer != nil {
		s.observer.Printed(line)
	}
}

// Update routes animation ticks to the widget they belong to.
// Ticks for widgets that are no longer live are dropped, ending their animation.
func (s *Surface) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || tick.ID == 0 {
		return nil
	}
	for _, w := range s.widgets {
		if w.kind == KindSpinner && w.ticking && w.spinner.ID() == tick.ID {
			var cmd tea.Cmd
			w.spinner, cmd = w.spinner.Update(tick)
			return cmd
		}
	}
	return nil
}

// Flush returns the commands queued since the last call. Persistent prints
// keep their order among themselves; ticks run independently of them.
func (s *Surface) Flush() tea.Cmd {
	if len(s.prints) == 0 && len(s.ticks) == 0 {
		return nil
	}
	cmds := s.ticks
	if len(s.prints) > 0 {
		cmds = append(cmds, tea.Sequence(s.prints...))
	}
	s.prints = nil
	s.ticks = nil
	return tea.Batch(cmds...)
}

// View renders every live widget, one block per widget, in draw order.
func (s *Surface) View() string {
	views := make([]string, 0, len(s.widgets))
	for _, w := range s.widgets {
		if v := w.View(); v != "" {
			views = append(views, v)
		}
	}
	return strings.Join(views, "\n")
}

func (s *Surface) queue(cmd tea.Cmd) {
	s.ticks = append(s.ticks, cmd)
}

func (s *Surface) indexOf(w *Widget) int {
	for i, live := range s.widgets {
		if live == w {
			return i
		}
	}
	return -1
}
