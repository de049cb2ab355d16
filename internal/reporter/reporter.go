// Package reporter assembles the dispatcher, the surface and the process-wide
// handlers from configuration, and drives them without a terminal in plain mode.
package reporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/tuanbt/buildtail/internal/action"
	"github.com/tuanbt/buildtail/internal/config"
	"github.com/tuanbt/buildtail/internal/handlers"
	"github.com/tuanbt/buildtail/internal/render"
	"github.com/tuanbt/buildtail/internal/state"
)

// HandlerOptions derives handler tuning from cfg for the given color profile.
func HandlerOptions(cfg *config.Config, profile termenv.Profile) handlers.Options {
	if cfg.NoColor {
		profile = termenv.Ascii
	}
	return handlers.Options{
		LogLines:     cfg.LogLines,
		TickInterval: time.Duration(cfg.SpinnerIntervalMS) * time.Millisecond,
		Profile:      profile,
		MessageLevel: cfg.Verbosity(),
	}
}

// NewSurface creates the render surface for width, capped by cfg.
func NewSurface(cfg *config.Config, width int, opts ...render.Option) *render.Surface {
	if cfg.MaxWidgets > 0 {
		opts = append(opts, render.WithCapacity(cfg.MaxWidgets))
	}
	return render.NewSurface(width, opts...)
}

// NewState creates a dispatcher on surface with the router and message
// printer registered.
func NewState(cfg *config.Config, logger *slog.Logger, surface *render.Surface, profile termenv.Profile) *state.State {
	opts := HandlerOptions(cfg, profile)

	s := state.New(surface, state.WithLogger(logger))
	s.Register(handlers.NewMessages(opts.MessageLevel))
	s.Register(handlers.NewRouter(opts, handlers.WithHidden(cfg.Hidden()...)))
	return s
}

// Stats counts what a plain run processed.
type Stats struct {
	Actions int
	Errors  int
}

// RunPlain drives a dispatcher from in until in is closed or ctx is cancelled,
// writing one line per started and finished step to w. Dispatch errors are
// logged and the run continues.
func RunPlain(ctx context.Context, cfg *config.Config, logger *slog.Logger, in <-chan action.Action, w io.Writer) (Stats, error) {
	p := &printer{w: w}
	surface := NewSurface(cfg, cfg.DefaultWidth, render.WithObserver(p))
	s := NewState(cfg, logger, surface, termenv.Ascii)

	var stats Stats
	for {
		select {
		case <-ctx.Done():
			return stats, nil
		case a, ok := <-in:
			if !ok {
				return stats, p.err
			}
			stats.Actions++
			if err := s.Dispatch(a); err != nil {
				stats.Errors++
				logger.Warn("dispatch failed", "action", action.Name(a), "error", err)
			}
			// No program consumes the commands; drop them to keep the queues bounded.
			surface.Flush()
			if p.err != nil {
				return stats, fmt.Errorf("failed to write output: %w", p.err)
			}
		}
	}
}

// printer renders surface changes as plain lines.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) WidgetAdded(w *render.Widget) {
	if w.Kind() == render.KindLines {
		return
	}
	p.line("▶ " + w.Message())
}

func (p *printer) WidgetRemoved(w *render.Widget) {
	// FinishLeave widgets report through Printed.
	if w.Kind() == render.KindLines || w.Finish() == render.FinishLeave {
		return
	}
	p.line("✓ " + w.Message())
}

func (p *printer) Printed(line string) {
	p.line(line)
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, ansi.Strip(s))
}
