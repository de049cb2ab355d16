package reporter

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/tuanbt/buildtail/internal/action"
	"github.com/tuanbt/buildtail/internal/config"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModePlain
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func feed(actions ...action.Action) <-chan action.Action {
	ch := make(chan action.Action, len(actions))
	for _, a := range actions {
		ch <- a
	}
	close(ch)
	return ch
}

func TestRunPlain(t *testing.T) {
	in := feed(
		action.Message{Level: action.LevelInfo, Text: "these 2 derivations will be built"},
		action.Start{ID: 1, Kind: action.KindBuild, Text: "hello-2.12"},
		action.Result{ID: 1, Kind: action.ResultSetPhase, Text: "buildPhase"},
		action.Result{ID: 1, Kind: action.ResultBuildLogLine, Text: "gcc -O2 hello.c"},
		action.Start{ID: 2, Kind: action.KindUnknown, Text: "querying cache"},
		action.Start{ID: 3, Kind: action.KindQueryPathInfo, Text: "hidden"},
		action.Stop{ID: 2},
		action.Stop{ID: 1},
	)

	var out bytes.Buffer
	stats, err := RunPlain(context.Background(), testConfig(), testLogger(), in, &out)
	if err != nil {
		t.Fatalf("RunPlain failed: %v", err)
	}
	if stats.Actions != 8 || stats.Errors != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}

	want := []string{
		"these 2 derivations will be built",
		"▶ Hello-2.12",
		"▶ Querying cache",
		"✓ Querying cache",
		"✓ Hello-2.12 (buildPhase)",
	}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(got), out.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if strings.Contains(out.String(), "hidden") {
		t.Error("hidden kinds should not be reported")
	}
}

func TestRunPlainProgressLeavesCounts(t *testing.T) {
	in := feed(
		action.Start{ID: 5, Kind: action.KindCopyPaths, Text: "copying 4 paths"},
		action.Result{ID: 5, Kind: action.ResultProgress, Progress: action.Progress{Done: 4, Expected: 4}},
		action.Stop{ID: 5},
	)

	var out bytes.Buffer
	if _, err := RunPlain(context.Background(), testConfig(), testLogger(), in, &out); err != nil {
		t.Fatalf("RunPlain failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.String())
	}
	if !strings.HasPrefix(lines[1], "Copying 4 paths") || !strings.HasSuffix(lines[1], "4/4") {
		t.Errorf("unexpected final line %q", lines[1])
	}
}

func TestRunPlainKeepsGoingOnErrors(t *testing.T) {
	cfg := testConfig()
	cfg.MaxWidgets = 1

	in := feed(
		action.Start{ID: 1, Kind: action.KindUnknown, Text: "first"},
		action.Start{ID: 2, Kind: action.KindUnknown, Text: "second"},
		action.Stop{ID: 1},
	)

	var out bytes.Buffer
	stats, err := RunPlain(context.Background(), cfg, testLogger(), in, &out)
	if err != nil {
		t.Fatalf("RunPlain failed: %v", err)
	}
	// The first start cannot fit its log tail, the second cannot fit anything.
	if stats.Errors != 2 || stats.Actions != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if !strings.Contains(out.String(), "✓ First") {
		t.Errorf("expected first step to finish, got %q", out.String())
	}
}

func TestRunPlainCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make(chan action.Action)
	if _, err := RunPlain(ctx, testConfig(), testLogger(), in, io.Discard); err != nil {
		t.Errorf("expected clean return on cancel, got %v", err)
	}
}

func TestNewStateRegistersProcessHandlers(t *testing.T) {
	surface := NewSurface(testConfig(), 80)
	s := NewState(testConfig(), testLogger(), surface, termenv.Ascii)
	if s.Len() != 2 {
		t.Errorf("expected router and message handlers, got %d", s.Len())
	}
	if s.Width() != 80 {
		t.Errorf("expected width 80, got %d", s.Width())
	}
}

func TestHandlerOptionsNoColor(t *testing.T) {
	cfg := testConfig()
	cfg.NoColor = true
	if opts := HandlerOptions(cfg, termenv.TrueColor); opts.Profile != termenv.Ascii {
		t.Errorf("expected ascii profile, got %v", opts.Profile)
	}
}
