package state

import (
	"errors"
	"fmt"

	"github.com/tuanbt/buildtail/internal/action"
)

// ErrReentrant is returned when Dispatch or Resize is called from inside a handler callback.
var ErrReentrant = errors.New("state: dispatch called from inside a handler callback")

// HandlerError reports a handler callback failure together with the event that
// triggered it and the handler that failed.
type HandlerError struct {
	// Op is "action" or "resize".
	Op string

	// Action is the action being dispatched. Nil for resize.
	Action action.Action

	// Index is the handler's position in the live set.
	Index int

	// Handler is the handler's name.
	Handler string

	Err error
}

func (e *HandlerError) Error() string {
	if e.Action != nil {
		return fmt.Sprintf("handler %d (%s) failed on %s: %v", e.Index, e.Handler, action.Name(e.Action), e.Err)
	}
	return fmt.Sprintf("handler %d (%s) failed on %s: %v", e.Index, e.Handler, e.Op, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
