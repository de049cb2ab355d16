package handlers

import (
	"fmt"

	"github.com/tuanbt/buildtail/internal/action"
	"github.com/tuanbt/buildtail/internal/state"
)

// Factory builds a handler for a freshly started step. Widgets must be
// created through the lease so they are released if construction fails.
type Factory func(l *state.Lease, start action.Start) (state.Handler, error)

func adapt[H state.Handler](build func(*state.Lease, action.Start) (H, error)) Factory {
	return func(l *state.Lease, start action.Start) (state.Handler, error) {
		h, err := build(l, start)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
}

// UnknownFactory builds the fallback indicator.
func UnknownFactory() Factory {
	return adapt(NewUnknown)
}

// LogsFactory builds a log tail of n lines.
func LogsFactory(n int) Factory {
	return adapt(func(l *state.Lease, start action.Start) (*Logs, error) {
		return NewLogs(l, start, n)
	})
}

// DefaultRoutes returns the routing table used by the reporter.
func DefaultRoutes(opts Options) map[action.StepKind][]Factory {
	opts = opts.withDefaults()

	build := adapt(func(l *state.Lease, start action.Start) (*Build, error) {
		return NewBuild(l, start, opts.TickInterval)
	})
	progress := adapt(func(l *state.Lease, start action.Start) (*Progress, error) {
		return NewProgress(l, start, opts.Profile)
	})

	return map[action.StepKind][]Factory{
		action.KindBuild:     {build, LogsFactory(opts.LogLines)},
		action.KindCopyPaths: {progress},
		action.KindBuilds:    {progress},
	}
}

// DefaultFallback returns the handlers spawned for steps without a route.
func DefaultFallback(opts Options) []Factory {
	opts = opts.withDefaults()
	return []Factory{UnknownFactory(), LogsFactory(opts.LogLines)}
}

// Router is the process-wide handler that spawns step handlers when a step
// starts. It never closes.
type Router struct {
	routes   map[action.StepKind][]Factory
	fallback []Factory
	hidden   map[action.StepKind]bool
	started  map[action.ID]bool
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRoutes replaces the routing table.
func WithRoutes(routes map[action.StepKind][]Factory) RouterOption {
	return func(r *Router) { r.routes = routes }
}

// WithFallback replaces the handlers spawned for unrouted kinds.
func WithFallback(f ...Factory) RouterOption {
	return func(r *Router) { r.fallback = f }
}

// WithHidden suppresses every handler for the given kinds.
func WithHidden(kinds ...action.StepKind) RouterOption {
	return func(r *Router) {
		for _, k := range kinds {
			r.hidden[k] = true
		}
	}
}

// NewRouter creates a router with the default routes.
func NewRouter(opts Options, ropts ...RouterOption) *Router {
	r := &Router{
		routes:   DefaultRoutes(opts),
		fallback: DefaultFallback(opts),
		hidden:   make(map[action.StepKind]bool),
		started:  make(map[action.ID]bool),
	}
	for _, opt := range ropts {
		opt(r)
	}
	return r
}

func (r *Router) Name() string { return "router" }

// Active returns the number of steps the router spawned handlers for that
// have not stopped yet.
func (r *Router) Active() int { return len(r.started) }

func (r *Router) OnAction(s *state.State, a action.Action) (state.Result, error) {
	switch a := a.(type) {
	case action.Start:
		return state.Continue, r.spawn(s, a)
	case action.Stop:
		delete(r.started, a.ID)
	}
	return state.Continue, nil
}

func (r *Router) OnResize(*state.State) error { return nil }

func (r *Router) spawn(s *state.State, start action.Start) error {
	if r.hidden[start.Kind] {
		return nil
	}
	// A second start for a live step keeps the existing handlers.
	if r.started[start.ID] {
		s.Logger().Debug("ignoring duplicate start", "id", uint64(start.ID), "kind", start.Kind.String())
		return nil
	}

	factories, ok := r.routes[start.Kind]
	if !ok {
		factories = r.fallback
	}
	if len(factories) == 0 {
		return nil
	}
	r.started[start.ID] = true

	for _, f := range factories {
		err := s.Plug(func(l *state.Lease) (state.Handler, error) {
			return f(l, start)
		})
		if err != nil {
			return fmt.Errorf("failed to start %s step %s: %w", start.Kind, start.ID, err)
		}
	}
	s.Logger().Debug("step started", "id", uint64(start.ID), "kind", start.Kind.String(), "handlers", len(factories))
	return nil
}
