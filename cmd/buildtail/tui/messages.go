// Package tui provides the interactive terminal renderer for buildtail.
package tui

import "github.com/tuanbt/buildtail/internal/action"

// ActionMsg carries one action from the feed into the dispatch loop.
type ActionMsg struct {
	Action action.Action
}

// FeedDoneMsg signals that the feed ended. Err is nil on a clean end of input.
// The TUI prints any pending lines and quits when receiving this message.
type FeedDoneMsg struct {
	Err error
}
