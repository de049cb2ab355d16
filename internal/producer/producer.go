// Package producer runs the build command whose standard output is the action feed.
package producer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/tuanbt/buildtail/internal/action"
	"github.com/tuanbt/buildtail/internal/feed"
)

// stopGrace is how long Stop waits after an interrupt before killing the process.
const stopGrace = 5 * time.Second

// Producer manages the lifecycle of a child process emitting a JSON-lines feed
// on stdout. Lines written to stderr are forwarded as messages.
type Producer struct {
	command []string
	dir     string
	out     chan<- action.Action
	logger  *slog.Logger

	cmd     *exec.Cmd
	readers sync.WaitGroup
	mu      sync.Mutex

	isRunning atomic.Bool
	sent      atomic.Int64

	waitOnce sync.Once
	waitErr  error
}

// Option configures a Producer.
type Option func(*Producer)

// WithDir sets the working directory of the child process.
func WithDir(dir string) Option {
	return func(p *Producer) { p.dir = dir }
}

// New prepares a producer for command. Decoded actions are sent to out.
func New(command []string, out chan<- action.Action, logger *slog.Logger, opts ...Option) *Producer {
	p := &Producer{
		command: command,
		out:     out,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the child process. Cancelling ctx kills it.
func (p *Producer) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.command) == 0 {
		return fmt.Errorf("no producer command given")
	}
	if p.cmd != nil {
		return fmt.Errorf("producer is already started")
	}

	p.logger.Info("starting producer", "command", p.command)

	cmd := exec.CommandContext(ctx, p.command[0], p.command[1:]...)
	cmd.Dir = p.dir
	cmd.Env = os.Environ()
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = stopGrace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdout.Close()
		return fmt.Errorf("failed to create stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start producer: %w", err)
	}

	p.cmd = cmd
	p.isRunning.Store(true)

	p.readers.Add(2)
	go p.readFeed(ctx, stdout)
	go p.readStderr(ctx, stderr)

	p.logger.Info("producer started", "pid", cmd.Process.Pid)
	return nil
}

// Wait blocks until the child exits and its output is drained.
// A non-zero exit is reported as an error wrapping *exec.ExitError.
func (p *Producer) Wait() error {
	p.mu.Lock()
	cmd := p.cmd
	p.mu.Unlock()
	if cmd == nil {
		return fmt.Errorf("producer is not started")
	}

	p.waitOnce.Do(func() {
		p.readers.Wait()
		err := cmd.Wait()
		p.isRunning.Store(false)
		if err != nil {
			p.logger.Warn("producer exited", "error", err)
			p.waitErr = fmt.Errorf("producer failed: %w", err)
			return
		}
		p.logger.Info("producer exited normally", "actions", p.sent.Load())
	})
	return p.waitErr
}

// Run starts the child and waits for it.
func (p *Producer) Run(ctx context.Context) error {
	if err := p.Start(ctx); err != nil {
		return err
	}
	return p.Wait()
}

// Stop interrupts the child, killing it if it has not exited after a grace period.
func (p *Producer) Stop() error {
	p.mu.Lock()
	cmd := p.cmd
	p.mu.Unlock()

	if cmd == nil || !p.isRunning.Load() {
		return nil
	}

	p.logger.Info("stopping producer")
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to interrupt producer: %w", err)
	}

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Debug("producer stopped gracefully")
	case <-time.After(stopGrace):
		p.logger.Warn("force killing producer")
		cmd.Process.Kill()
	}
	return nil
}

// IsAlive reports whether the child is running.
func (p *Producer) IsAlive() bool {
	return p.isRunning.Load()
}

// Sent returns the number of actions decoded from stdout. It is final once Wait returns.
func (p *Producer) Sent() int64 {
	return p.sent.Load()
}

// ExitCode returns the exit code of a finished child, or -1.
func (p *Producer) ExitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.cmd.ProcessState == nil {
		return -1
	}
	return p.cmd.ProcessState.ExitCode()
}

func (p *Producer) readFeed(ctx context.Context, r io.Reader) {
	defer p.readers.Done()

	n, err := feed.Read(ctx, r, p.out, p.logger)
	p.sent.Add(int64(n))
	if err != nil && ctx.Err() == nil {
		p.logger.Debug("read error", "source", "stdout", "error", err)
	}
	// Keep the pipe drained so the child never blocks on a full buffer.
	io.Copy(io.Discard, r)
}

func (p *Producer) readStderr(ctx context.Context, r io.Reader) {
	defer p.readers.Done()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		select {
		case p.out <- action.Message{Level: action.LevelInfo, Text: line}:
		case <-ctx.Done():
			io.Copy(io.Discard, r)
			return
		}
	}
	if err := scanner.Err(); err != nil {
		p.logger.Debug("read error", "source", "stderr", "error", err)
	}
}
