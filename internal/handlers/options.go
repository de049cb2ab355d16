// Package handlers holds the concrete handlers plugged into the dispatcher:
// the per-step indicators, the log tail, the message printer and the router
// that spawns them when a step starts.
package handlers

import (
	"time"

	"github.com/muesli/termenv"

	"github.com/tuanbt/buildtail/internal/action"
)

// Options tunes the handlers spawned by the router.
type Options struct {
	// LogLines is the number of build log lines kept per step.
	LogLines int

	// TickInterval is the spinner cadence of build steps.
	TickInterval time.Duration

	// Profile is the color profile used for progress bars.
	Profile termenv.Profile

	// MessageLevel is the least severe message that gets printed.
	MessageLevel action.Verbosity
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		LogLines:     5,
		TickInterval: 100 * time.Millisecond,
		Profile:      termenv.TrueColor,
		MessageLevel: action.LevelInfo,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LogLines <= 0 {
		o.LogLines = d.LogLines
	}
	if o.TickInterval <= 0 {
		o.TickInterval = d.TickInterval
	}
	return o
}
