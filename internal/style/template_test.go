package style

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func fixed(s string) func(int) string {
	return func(int) string { return s }
}

func TestTemplateDeterministic(t *testing.T) {
	a := Template(80, true, fixed("{msg} {spinner} {wide_bar}"), fixed(""))
	b := Template(80, true, fixed("{msg} {spinner} {wide_bar}"), fixed(""))
	if !a.Equal(b) {
		t.Fatalf("expected equal specs, got %+v and %+v", a, b)
	}

	c := Template(40, true, fixed("{msg} {spinner} {wide_bar}"), fixed(""))
	if a.Equal(c) {
		t.Error("specs for different widths should differ")
	}
}

func TestTemplatePassesWidth(t *testing.T) {
	var seen []int
	prefix := func(w int) string { seen = append(seen, w); return "{msg}" }
	suffix := func(w int) string {
		seen = append(seen, w)
		if w < 20 {
			return ""
		}
		return " {pos}/{len}"
	}

	narrow := Template(10, false, prefix, suffix)
	if narrow.Template != "{msg}" {
		t.Errorf("expected suffix dropped on narrow width, got %q", narrow.Template)
	}
	wide := Template(60, false, prefix, suffix)
	if wide.Template != "{msg} {pos}/{len}" {
		t.Errorf("unexpected template %q", wide.Template)
	}
	if len(seen) != 4 || seen[0] != 10 || seen[3] != 60 {
		t.Errorf("unexpected widths passed: %v", seen)
	}
}

func TestTemplateNegativeWidth(t *testing.T) {
	s := Template(-5, true, nil, nil)
	if s.Width != 0 || s.Template != "" {
		t.Errorf("expected zero spec, got %+v", s)
	}
}

func TestRenderPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		template string
		spinner  bool
		fields   Fields
		want     string
	}{
		{
			name:     "message and spinner",
			template: "{msg} {spinner}",
			spinner:  true,
			fields:   Fields{Msg: "Build", Spinner: "…"},
			want:     "Build …",
		},
		{
			name:     "spinner hidden",
			template: "{msg} {spinner}",
			spinner:  false,
			fields:   Fields{Msg: "Build", Spinner: "…"},
			want:     "Build ",
		},
		{
			name:     "counters",
			template: "{pos}/{len} {percent}",
			fields:   Fields{Pos: 3, Len: 4},
			want:     "3/4 75%",
		},
		{
			name:     "unknown placeholder kept",
			template: "{msg} {eta}",
			fields:   Fields{Msg: "x"},
			want:     "x {eta}",
		},
		{
			name:     "message is not expanded",
			template: "{msg}",
			fields:   Fields{Msg: "{wide_bar}"},
			want:     "{wide_bar}",
		},
		{
			name:     "unterminated brace",
			template: "{msg} {oops",
			fields:   Fields{Msg: "m"},
			want:     "m {oops",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Template(80, tt.spinner, fixed(tt.template), nil)
			if got := s.Render(tt.fields); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderWideBarFillsWidth(t *testing.T) {
	s := Template(30, true, fixed("{msg} {wide_bar}"), nil)
	bar := func(w int) string { return strings.Repeat("#", w) }

	got := s.Render(Fields{Msg: "Build", Bar: bar})
	if ansi.StringWidth(got) != 30 {
		t.Fatalf("expected 30 columns, got %d (%q)", ansi.StringWidth(got), got)
	}
	if !strings.HasPrefix(got, "Build ") || strings.Count(got, "#") != 24 {
		t.Errorf("unexpected render %q", got)
	}
}

func TestRenderTruncatesToWidth(t *testing.T) {
	s := Template(8, false, fixed("{msg}"), nil)
	got := s.Render(Fields{Msg: "building something long"})
	if ansi.StringWidth(got) > 8 {
		t.Errorf("expected at most 8 columns, got %q", got)
	}
	if got != "building" {
		t.Errorf("expected %q, got %q", "building", got)
	}
}

func TestRenderZeroWidthNoTruncate(t *testing.T) {
	s := Template(0, false, fixed("{msg} {wide_bar}"), nil)
	if got := s.Render(Fields{Msg: "long message"}); got != "long message " {
		t.Errorf("unexpected render %q", got)
	}
}

func TestTickChars(t *testing.T) {
	s := Template(80, true, nil, nil).WithTickChars("…  ")
	frames := s.Frames()
	if len(frames) != 2 || frames[0] != "…" || frames[1] != " " {
		t.Errorf("unexpected frames %q", frames)
	}
	if s.FinishFrame() != " " {
		t.Errorf("unexpected finish frame %q", s.FinishFrame())
	}

	plain := Template(80, true, nil, nil)
	if plain.Frames() != nil || plain.FinishFrame() != "" {
		t.Error("expected no frames without tick chars")
	}
	if plain.Equal(s) {
		t.Error("tick chars should affect equality")
	}
}
