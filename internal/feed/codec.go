// Package feed moves actions between processes as JSON lines, one action per line:
//
//	{"action":"start","id":1,"kind":"build","text":"building hello-2.12"}
//	{"action":"result","id":1,"result":"build-log-line","text":"checking for gcc... yes"}
//	{"action":"stop","id":1}
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tuanbt/buildtail/internal/action"
)

var (
	// ErrEmptyLine is returned by Decode for blank lines.
	ErrEmptyLine = errors.New("feed: empty line")

	// ErrUnknownAction is returned for records with an unrecognised action name.
	ErrUnknownAction = errors.New("feed: unknown action")
)

type record struct {
	Action   string `json:"action"`
	ID       uint64 `json:"id,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Text     string `json:"text,omitempty"`
	Parent   uint64 `json:"parent,omitempty"`
	Level    string `json:"level,omitempty"`
	Result   string `json:"result,omitempty"`
	Done     int64  `json:"done,omitempty"`
	Expected int64  `json:"expected,omitempty"`
	Running  int64  `json:"running,omitempty"`
	Failed   int64  `json:"failed,omitempty"`
}

// Decode parses one feed line.
func Decode(line []byte) (action.Action, error) {
	if strings.TrimSpace(string(line)) == "" {
		return nil, ErrEmptyLine
	}

	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse feed line: %w", err)
	}

	level := action.LevelInfo
	if rec.Level != "" {
		v, err := action.ParseVerbosity(rec.Level)
		if err != nil {
			return nil, err
		}
		level = v
	}

	switch rec.Action {
	case "start":
		return action.Start{
			ID:     action.ID(rec.ID),
			Kind:   action.ParseStepKind(rec.Kind),
			Text:   rec.Text,
			Parent: action.ID(rec.Parent),
			Level:  level,
		}, nil
	case "stop":
		return action.Stop{ID: action.ID(rec.ID)}, nil
	case "msg":
		return action.Message{Level: level, Text: rec.Text}, nil
	case "result":
		kind, ok := action.ParseResultKind(rec.Result)
		if !ok {
			return nil, fmt.Errorf("unknown result kind %q", rec.Result)
		}
		return action.Result{
			ID:   action.ID(rec.ID),
			Kind: kind,
			Text: rec.Text,
			Progress: action.Progress{
				Done:     rec.Done,
				Expected: rec.Expected,
				Running:  rec.Running,
				Failed:   rec.Failed,
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, rec.Action)
	}
}

// Encode renders a as one feed line without the trailing newline.
func Encode(a action.Action) ([]byte, error) {
	rec := record{Action: action.Name(a)}

	switch a := a.(type) {
	case action.Start:
		rec.ID = uint64(a.ID)
		rec.Kind = a.Kind.String()
		rec.Text = a.Text
		rec.Parent = uint64(a.Parent)
		rec.Level = a.Level.String()
	case action.Stop:
		rec.ID = uint64(a.ID)
	case action.Message:
		rec.Level = a.Level.String()
		rec.Text = a.Text
	case action.Result:
		rec.ID = uint64(a.ID)
		rec.Result = a.Kind.String()
		rec.Text = a.Text
		rec.Done = a.Progress.Done
		rec.Expected = a.Progress.Expected
		rec.Running = a.Progress.Running
		rec.Failed = a.Progress.Failed
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}

	return json.Marshal(rec)
}
