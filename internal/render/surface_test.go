package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/tuanbt/buildtail/internal/style"
)

type recorder struct {
	added   []string
	removed []string
	printed []string
}

func (r *recorder) WidgetAdded(w *Widget)   { r.added = append(r.added, w.Message()) }
func (r *recorder) WidgetRemoved(w *Widget) { r.removed = append(r.removed, w.Message()) }
func (r *recorder) Printed(line string)     { r.printed = append(r.printed, line) }

func msgStyle(width int) style.Spec {
	return style.Template(width, true, func(int) string { return "{msg}" }, nil)
}

func TestSurfaceAddKeepsOrder(t *testing.T) {
	s := NewSurface(80)

	for _, name := range []string{"a", "b", "c"} {
		if _, err := s.Add(NewSpinner().WithMessage(name).WithStyle(msgStyle(80))); err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
	}

	if s.Len() != 3 {
		t.Fatalf("expected 3 widgets, got %d", s.Len())
	}
	if got := s.View(); got != "a\nb\nc" {
		t.Errorf("unexpected view %q", got)
	}
}

func TestSurfaceRemoveExplicit(t *testing.T) {
	rec := &recorder{}
	s := NewSurface(80, WithObserver(rec))

	a, _ := s.Add(NewSpinner().WithMessage("a").WithStyle(msgStyle(80)))
	b, _ := s.Add(NewSpinner().WithMessage("b").WithStyle(msgStyle(80)))

	if !s.Remove(a) {
		t.Fatal("expected first removal to succeed")
	}
	if s.Remove(a) {
		t.Error("expected second removal to be a no-op")
	}
	if a.Attached() {
		t.Error("removed widget should be detached")
	}
	if !s.Contains(b) || s.Len() != 1 {
		t.Errorf("expected only b to remain, got %d widgets", s.Len())
	}
	if len(rec.removed) != 1 || rec.removed[0] != "a" {
		t.Errorf("expected one removal notification, got %v", rec.removed)
	}
	if len(rec.added) != 2 {
		t.Errorf("expected two add notifications, got %v", rec.added)
	}
}

func TestSurfaceCapacity(t *testing.T) {
	s := NewSurface(80, WithCapacity(1))

	if _, err := s.Add(NewSpinner()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Add(NewSpinner()); !errors.Is(err, ErrSurfaceFull) {
		t.Errorf("expected ErrSurfaceFull, got %v", err)
	}
}

func TestSurfaceRejectsAttachedWidget(t *testing.T) {
	a := NewSurface(80)
	b := NewSurface(80)
	w := NewSpinner()

	if _, err := a.Add(w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.Add(w); !errors.Is(err, ErrWidgetAttached) {
		t.Errorf("expected ErrWidgetAttached, got %v", err)
	}
	if _, err := a.Add(nil); !errors.Is(err, ErrNilWidget) {
		t.Errorf("expected ErrNilWidget, got %v", err)
	}
}

func TestSurfaceTickStopsAfterRemoval(t *testing.T) {
	s := NewSurface(80)
	w := NewSpinner().WithStyle(msgStyle(80).WithTickChars("…  "))
	if _, err := s.Add(w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.EnableSteadyTick(time.Second)

	if w.TickInterval() != time.Second {
		t.Errorf("expected 1s tick, got %v", w.TickInterval())
	}
	if cmd := s.Flush(); cmd == nil {
		t.Fatal("expected an initial tick command")
	}

	tick := spinner.TickMsg{ID: w.SpinnerID()}
	if cmd := s.Update(tick); cmd == nil {
		t.Error("expected live widget to schedule its next tick")
	}

	s.Remove(w)
	if cmd := s.Update(tick); cmd != nil {
		t.Error("expected no further ticks after removal")
	}
}

func TestSurfaceIgnoresForeignTicks(t *testing.T) {
	s := NewSurface(80)
	w := NewSpinner()
	s.Add(w)
	w.EnableSteadyTick(time.Second)

	if cmd := s.Update(spinner.TickMsg{ID: w.SpinnerID() + 1000}); cmd != nil {
		t.Error("expected tick for unknown spinner to be dropped")
	}
	if cmd := s.Update(spinner.TickMsg{}); cmd != nil {
		t.Error("expected tick without id to be dropped")
	}
}

func TestSurfaceFinishLeavePrints(t *testing.T) {
	rec := &recorder{}
	s := NewSurface(80, WithObserver(rec))

	leave, _ := s.Add(NewBar(4).WithMessage("copy").WithStyle(
		style.Template(80, false, func(int) string { return "{msg} {pos}/{len}" }, nil),
	).WithFinish(FinishLeave))
	leave.SetPosition(4)
	transient, _ := s.Add(NewSpinner().WithMessage("tmp").WithStyle(msgStyle(80)))

	s.Remove(transient)
	if len(rec.printed) != 0 {
		t.Errorf("FinishClear should not print, got %v", rec.printed)
	}

	s.Remove(leave)
	if len(rec.printed) != 1 || rec.printed[0] != "copy 4/4" {
		t.Errorf("expected final line %q, got %v", "copy 4/4", rec.printed)
	}
	if cmd := s.Flush(); cmd == nil {
		t.Error("expected a print command to be queued")
	}
	if cmd := s.Flush(); cmd != nil {
		t.Error("expected flush to drain the queue")
	}
}

func TestSurfaceDiscardIsSilent(t *testing.T) {
	rec := &recorder{}
	s := NewSurface(80, WithObserver(rec))

	bar, _ := s.Add(NewBar(10).WithMessage("copy").WithStyle(
		style.Template(80, false, func(int) string { return "{msg} {pos}/{len}" }, nil),
	).WithFinish(FinishLeave))

	if !s.Discard(bar) {
		t.Fatal("expected discard to detach a live widget")
	}
	if bar.Attached() || s.Len() != 0 {
		t.Error("widget should be detached")
	}
	if len(rec.printed) != 0 || len(rec.removed) != 0 {
		t.Errorf("discard should not print or notify, got printed=%v removed=%v", rec.printed, rec.removed)
	}
	if s.Discard(bar) {
		t.Error("second discard should be a no-op")
	}
}

func TestSurfaceRemoveClearsBackingSlot(t *testing.T) {
	s := NewSurface(80)
	a, _ := s.Add(NewSpinner().WithMessage("a"))
	s.Add(NewSpinner().WithMessage("b"))

	s.Remove(a)
	backing := s.widgets[:cap(s.widgets)]
	if backing[1] != nil {
		t.Error("removed slot should not keep a widget reachable")
	}
	if s.Len() != 1 || s.widgets[0].Message() != "b" {
		t.Errorf("unexpected widgets after removal: %d", s.Len())
	}
}

func TestSurfaceSetWidth(t *testing.T) {
	s := NewSurface(80)
	s.SetWidth(120)
	if s.Width() != 120 {
		t.Errorf("expected 120, got %d", s.Width())
	}
	s.SetWidth(-1)
	if s.Width() != 0 {
		t.Errorf("expected negative width to clamp to 0, got %d", s.Width())
	}
}

func TestLinesWidgetTail(t *testing.T) {
	w := NewLines(2).WithStyle(msgStyle(80))
	if w.View() != "" {
		t.Errorf("expected empty view, got %q", w.View())
	}

	w.PushLine("one")
	w.PushLine("two")
	w.PushLine("three")

	if got := w.View(); got != "two\nthree" {
		t.Errorf("unexpected view %q", got)
	}
	if lines := w.Lines(); len(lines) != 2 {
		t.Errorf("expected 2 lines, got %v", lines)
	}
}

func TestSurfaceSkipsEmptyViews(t *testing.T) {
	s := NewSurface(80)
	s.Add(NewSpinner().WithMessage("a").WithStyle(msgStyle(80)))
	s.Add(NewLines(3).WithStyle(msgStyle(80)))
	s.Add(NewSpinner().WithMessage("b").WithStyle(msgStyle(80)))

	if got := s.View(); got != "a\nb" {
		t.Errorf("unexpected view %q", got)
	}
}

func TestBarRendersWithinWidth(t *testing.T) {
	w := NewBar(10).WithStyle(style.Template(40, false, func(int) string { return "{msg} {wide_bar}" }, nil))
	w.SetMessage("fetch")
	w.SetPosition(5)

	view := w.View()
	if !strings.HasPrefix(view, "fetch ") {
		t.Errorf("unexpected view %q", view)
	}
	if strings.Count(view, "█") != 17 {
		t.Errorf("expected half of the 34 column bar filled, got %q", view)
	}
}
