package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tuanbt/buildtail/internal/action"
)

// pollInterval rechecks the file when no filesystem event arrives, for
// filesystems where notifications are unreliable.
const pollInterval = 500 * time.Millisecond

// Follow decodes actions from a growing file, like tail -f. It returns nil when
// ctx is cancelled or the file is removed or renamed away.
func Follow(ctx context.Context, path string, out chan<- action.Action, logger *slog.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open feed file: %w", err)
	}
	defer file.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so removal and recreation are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	t := &tail{reader: bufio.NewReader(file), out: out, logger: logger}
	if err := t.drain(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				if err := t.drain(ctx); err != nil {
					return err
				}
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("feed file went away", "path", path, "op", event.Op.String())
				if err := t.drain(ctx); err != nil {
					return err
				}
				if len(t.partial) > 0 {
					logger.Debug("dropping unterminated last line", "path", path, "line", t.lineNo+1, "bytes", len(t.partial))
				}
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher failed: %w", err)

		case <-ticker.C:
			if err := t.drain(ctx); err != nil {
				return err
			}
		}
	}
}

type tail struct {
	reader  *bufio.Reader
	partial []byte
	lineNo  int
	out     chan<- action.Action
	logger  *slog.Logger
}

// drain emits every complete line available. A trailing partial line is kept
// until the rest of it is written.
func (t *tail) drain(ctx context.Context) error {
	for {
		chunk, err := t.reader.ReadBytes('\n')
		t.partial = append(t.partial, chunk...)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read feed file: %w", err)
		}

		t.lineNo++
		line := t.partial
		t.partial = nil
		if _, err := emit(ctx, line, t.out, t.logger, t.lineNo); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}
