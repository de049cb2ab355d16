// Package state routes build-step actions and terminal resizes to the live set
// of handlers, and owns the render surface those handlers draw on.
package state

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/tuanbt/buildtail/internal/action"
	"github.com/tuanbt/buildtail/internal/render"
)

// Result is a handler's verdict after seeing an action.
type Result int

const (
	// Continue keeps the handler live.
	Continue Result = iota
	// Close retires the handler and releases its widgets.
	Close
)

func (r Result) String() string {
	if r == Close {
		return "close"
	}
	return "continue"
}

// Handler owns zero or more widgets and reacts to actions and resizes.
// Callbacks run on the dispatch loop and must return promptly.
type Handler interface {
	OnAction(s *State, a action.Action) (Result, error)
	OnResize(s *State) error
}

// HandlerFunc adapts a function to a Handler that ignores resizes.
type HandlerFunc func(s *State, a action.Action) (Result, error)

func (f HandlerFunc) OnAction(s *State, a action.Action) (Result, error) { return f(s, a) }
func (f HandlerFunc) OnResize(*State) error                              { return nil }

// Named lets a handler report a name for logs and errors.
type Named interface {
	Name() string
}

type entry struct {
	handler Handler
	widgets []*render.Widget
	name    string
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger used for handler lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *State) { s.logger = logger }
}

// State is the single authority over the live handler set. It owns the render
// surface and the terminal width, and is the only component that adds or
// removes handlers. State is not safe for concurrent use; all calls come from
// one dispatch loop.
type State struct {
	surface *render.Surface
	width   int
	logger  *slog.Logger

	live    []*entry
	pending []*entry
	busy    bool
}

// New creates a State drawing on surface. The initial width is the surface width.
func New(surface *render.Surface, opts ...Option) *State {
	s := &State{
		surface: surface,
		width:   surface.Width(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Width returns the current terminal width.
func (s *State) Width() int { return s.width }

// Len returns the number of live handlers, including those registered during
// the current pass.
func (s *State) Len() int { return len(s.live) + len(s.pending) }

// Logger returns the state's logger.
func (s *State) Logger() *slog.Logger { return s.logger }

// Println prints a persistent line above the live widgets.
func (s *State) Println(line string) { s.surface.Println(line) }

// AddWidget places w on the surface and hands it to the caller.
// The state keeps no ownership of the widget until it is passed to Register.
func (s *State) AddWidget(w *render.Widget) (*render.Widget, error) {
	return s.surface.Add(w)
}

// Register adds h to the live set together with the widgets it owns. The
// widgets are removed from the surface when h retires.
//
// Registration during a dispatch or resize pass takes effect once the pass
// ends, so h does not see the event that caused its creation.
func (s *State) Register(h Handler, widgets ...*render.Widget) {
	e := &entry{handler: h, widgets: widgets, name: handlerName(h)}
	if s.busy {
		s.pending = append(s.pending, e)
		return
	}
	s.live = append(s.live, e)
	s.logger.Debug("handler registered", "handler", e.name, "widgets", len(widgets))
}

// Plug builds a handler inside a widget lease and registers it. If build fails,
// every widget it leased is removed and nothing is registered.
func (s *State) Plug(build func(l *Lease) (Handler, error)) error {
	l := &Lease{state: s}
	h, err := build(l)
	if err != nil {
		l.release()
		return fmt.Errorf("failed to construct handler: %w", err)
	}
	s.Register(h, l.widgets...)
	return nil
}

// Dispatch delivers a to every live handler in one pass. Handlers that return
// Close are retired after the pass. On the first callback error the pass stops
// and the remaining handlers are skipped for this action; the failing handler
// stays live.
func (s *State) Dispatch(a action.Action) error {
	if s.busy {
		return ErrReentrant
	}
	s.busy = true

	var closing []*entry
	var err error
	for i, e := range s.live {
		res, herr := e.handler.OnAction(s, a)
		if herr != nil {
			err = &HandlerError{Op: "action", Action: a, Index: i, Handler: e.name, Err: herr}
			break
		}
		if res == Close {
			closing = append(closing, e)
		}
	}

	s.busy = false
	s.retire(closing)
	s.flushPending()
	return err
}

// Resize records the new width, applies it to the surface, then lets every
// live handler restyle in one pass.
func (s *State) Resize(width int) error {
	if s.busy {
		return ErrReentrant
	}
	if width < 0 {
		width = 0
	}
	s.width = width
	s.surface.SetWidth(width)
	s.busy = true

	var err error
	for i, e := range s.live {
		if herr := e.handler.OnResize(s); herr != nil {
			err = &HandlerError{Op: "resize", Index: i, Handler: e.name, Err: herr}
			break
		}
	}

	s.busy = false
	s.flushPending()
	return err
}

func (s *State) retire(closing []*entry) {
	if len(closing) == 0 {
		return
	}
	done := make(map[*entry]bool, len(closing))
	for _, e := range closing {
		done[e] = true
		for _, w := range e.widgets {
			s.surface.Remove(w)
		}
		s.logger.Debug("handler retired", "handler", e.name)
	}

	kept := s.live[:0]
	for _, e := range s.live {
		if !done[e] {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(s.live); i++ {
		s.live[i] = nil
	}
	s.live = kept
}

func (s *State) flushPending() {
	for _, e := range s.pending {
		s.live = append(s.live, e)
		s.logger.Debug("handler registered", "handler", e.name, "widgets", len(e.widgets))
	}
	s.pending = nil
}

func handlerName(h Handler) string {
	if n, ok := h.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", h)
}

// Lease collects the widgets a handler creates while it is being constructed.
type Lease struct {
	state   *State
	widgets []*render.Widget
}

// Width returns the current terminal width.
func (l *Lease) Width() int { return l.state.width }

// Add places w on the surface and records it as owned by the handler under construction.
func (l *Lease) Add(w *render.Widget) (*render.Widget, error) {
	added, err := l.state.AddWidget(w)
	if err != nil {
		return nil, err
	}
	l.widgets = append(l.widgets, added)
	return added, nil
}

func (l *Lease) release() {
	for _, w := range l.widgets {
		l.state.surface.Discard(w)
	}
	l.widgets = nil
}
