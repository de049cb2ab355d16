package tui

import (
	"log/slog"

	"github.com/muesli/termenv"

	"github.com/tuanbt/buildtail/internal/config"
	"github.com/tuanbt/buildtail/internal/render"
	"github.com/tuanbt/buildtail/internal/reporter"
	"github.com/tuanbt/buildtail/internal/state"
)

// Model is the bubbletea model. Its Update method is the single loop through
// which every action, resize and animation tick reaches the dispatcher.
type Model struct {
	State   *state.State
	Surface *render.Surface
	Logger  *slog.Logger

	Width  int
	Height int

	// Failures counts dispatch errors; they are logged and the run continues.
	Failures int

	Done     bool
	Err      error
	Quitting bool
}

// New creates a model rendering at width until the first window size arrives.
func New(cfg *config.Config, logger *slog.Logger, width int, profile termenv.Profile) Model {
	surface := reporter.NewSurface(cfg, width)
	return Model{
		State:   reporter.NewState(cfg, logger, surface, profile),
		Surface: surface,
		Logger:  logger,
		Width:   width,
	}
}
