package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/tuanbt/buildtail/cmd/buildtail/tui"
	"github.com/tuanbt/buildtail/internal/action"
	"github.com/tuanbt/buildtail/internal/config"
	"github.com/tuanbt/buildtail/internal/feed"
	"github.com/tuanbt/buildtail/internal/logger"
	"github.com/tuanbt/buildtail/internal/producer"
	"github.com/tuanbt/buildtail/internal/reporter"
)

var version = "dev"

type options struct {
	configPath string
	mode       string
	follow     bool
	logLevel   string
}

// source fills out with actions and returns when the feed ends.
type source func(ctx context.Context, out chan<- action.Action, logger *slog.Logger) error

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "buildtail [file]",
		Short: "Render live build progress from an action feed",
		Long: "buildtail reads build-step actions as JSON lines from a file or stdin\n" +
			"and renders one live indicator per running step.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return execute(cmd.Context(), opts, fileSource(path, opts.follow), path == "-")
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "buildtail.json", "Path to config file (JSON or YAML)")
	root.PersistentFlags().StringVar(&opts.mode, "mode", "", "Renderer: auto, tty or plain (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	root.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Keep reading the file as it grows")

	root.AddCommand(newRunCmd(opts), newVersionCmd())
	return root
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run -- <command> [args...]",
		Short: "Run a build command and render the feed it writes to stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd.Context(), opts, commandSource(args), false)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "buildtail %s\n", version)
		},
	}
}

func fileSource(path string, follow bool) source {
	return func(ctx context.Context, out chan<- action.Action, log *slog.Logger) error {
		if path == "-" {
			_, err := feed.Read(ctx, os.Stdin, out, log)
			return err
		}
		if follow {
			return feed.Follow(ctx, path, out, log)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open feed: %w", err)
		}
		defer f.Close()
		_, err = feed.Read(ctx, f, out, log)
		return err
	}
}

func commandSource(command []string) source {
	return func(ctx context.Context, out chan<- action.Action, log *slog.Logger) error {
		return producer.New(command, out, log).Run(ctx)
	}
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.mode != "" {
		cfg.Mode = opts.mode
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func execute(parent context.Context, opts *options, src source, feedOnStdin bool) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdout := int(os.Stdout.Fd())
	mode := cfg.Mode
	if mode == config.ModeAuto {
		mode = config.ModePlain
		if term.IsTerminal(stdout) {
			mode = config.ModeTTY
		}
	}

	width := cfg.DefaultWidth
	if w, _, err := term.GetSize(stdout); err == nil && w > 0 {
		width = w
	}

	if mode == config.ModePlain {
		log := logger.NewConsoleLogger(cfg, os.Stderr)
		cfg.DefaultWidth = width
		return runPlain(ctx, cfg, log, src, os.Stdout)
	}

	log, cleanup, err := logger.NewFileLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer cleanup()
	return runTTY(ctx, cfg, log, src, width, feedOnStdin)
}

func runPlain(ctx context.Context, cfg *config.Config, log *slog.Logger, src source, w io.Writer) error {
	g, gctx := errgroup.WithContext(ctx)
	actions := make(chan action.Action, 256)

	g.Go(func() error {
		defer close(actions)
		return ignoreCancel(gctx, src(gctx, actions, log))
	})
	// The reporter drains everything the source sent, even after a source error.
	g.Go(func() error {
		stats, err := reporter.RunPlain(ctx, cfg, log, actions, w)
		log.Debug("plain run finished", "actions", stats.Actions, "errors", stats.Errors)
		return err
	})

	return g.Wait()
}

func runTTY(ctx context.Context, cfg *config.Config, log *slog.Logger, src source, width int, feedOnStdin bool) error {
	profile := termenv.EnvColorProfile()
	model := tui.New(cfg, log, width, profile)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if feedOnStdin {
		// stdin carries the feed; keys come from the terminal itself.
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(model, progOpts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	actions := make(chan action.Action, 256)

	srcErr := make(chan error, 1)

	g.Go(func() error {
		defer close(actions)
		err := ignoreCancel(ctx, src(ctx, actions, log))
		srcErr <- err
		return err
	})
	g.Go(func() error {
		for a := range actions {
			p.Send(tui.ActionMsg{Action: a})
		}
		p.Send(tui.FeedDoneMsg{Err: <-srcErr})
		return nil
	})
	g.Go(func() error {
		// The user may quit before the feed ends.
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// ignoreCancel drops errors caused by the run being cancelled, such as a
// producer killed after the user quit.
func ignoreCancel(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
