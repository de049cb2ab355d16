package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tuanbt/buildtail/internal/action"
)

// maxLineSize bounds a single feed line. Build logs occasionally carry very long lines.
const maxLineSize = 1 << 20

// Read decodes actions from r and sends them to out until r is exhausted or
// ctx is cancelled. Malformed lines are logged and skipped. It returns the
// number of actions sent. out is not closed.
func Read(ctx context.Context, r io.Reader, out chan<- action.Action, logger *slog.Logger) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	sent := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		ok, err := emit(ctx, scanner.Bytes(), out, logger, lineNo)
		if err != nil {
			return sent, err
		}
		if ok {
			sent++
		}
	}
	if err := scanner.Err(); err != nil {
		return sent, fmt.Errorf("failed to read feed: %w", err)
	}
	return sent, nil
}

// emit decodes one line and sends it. It reports whether an action was sent.
func emit(ctx context.Context, line []byte, out chan<- action.Action, logger *slog.Logger, lineNo int) (bool, error) {
	a, err := Decode(line)
	if errors.Is(err, ErrEmptyLine) {
		return false, nil
	}
	if err != nil {
		logger.Warn("skipping malformed feed line", "line", lineNo, "error", err)
		return false, nil
	}

	select {
	case out <- a:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
