// Package style computes how widgets are laid out for a given terminal width.
package style

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// FixedBarWidth is the width of a {bar} placeholder.
const FixedBarWidth = 20

// Spec is a computed widget style. It is a plain value: the same inputs always
// produce the same Spec, and rendering with it has no side effects.
type Spec struct {
	// Width is the column budget for one rendered line. Zero disables truncation.
	Width int

	// Template holds placeholders: {msg} {spinner} {bar} {wide_bar} {pos} {len} {percent}.
	Template string

	// ShowSpinner controls whether {spinner} renders the current frame.
	ShowSpinner bool

	tickChars []string
}

// Template builds a Spec for width from a prefix and suffix template.
// prefix and suffix receive the width so they can drop segments on narrow terminals.
func Template(width int, showSpinner bool, prefix, suffix func(width int) string) Spec {
	if width < 0 {
		width = 0
	}

	var b strings.Builder
	if prefix != nil {
		b.WriteString(prefix(width))
	}
	if suffix != nil {
		b.WriteString(suffix(width))
	}

	return Spec{
		Width:       width,
		Template:    b.String(),
		ShowSpinner: showSpinner,
	}
}

// WithTickChars returns a copy of s animating through the runes of chars.
// The last rune is the finish frame and is not part of the animation.
func (s Spec) WithTickChars(chars string) Spec {
	s.tickChars = nil
	for _, r := range chars {
		s.tickChars = append(s.tickChars, string(r))
	}
	return s
}

// Frames returns the animation frames, or nil if no tick chars were set.
func (s Spec) Frames() []string {
	if len(s.tickChars) < 2 {
		return s.tickChars
	}
	return s.tickChars[:len(s.tickChars)-1]
}

// FinishFrame returns the frame shown once the animation stops.
func (s Spec) FinishFrame() string {
	if len(s.tickChars) == 0 {
		return ""
	}
	return s.tickChars[len(s.tickChars)-1]
}

// Equal reports whether two specs render identically.
func (s Spec) Equal(o Spec) bool {
	if s.Width != o.Width || s.Template != o.Template || s.ShowSpinner != o.ShowSpinner {
		return false
	}
	if len(s.tickChars) != len(o.tickChars) {
		return false
	}
	for i := range s.tickChars {
		if s.tickChars[i] != o.tickChars[i] {
			return false
		}
	}
	return true
}

// Fields are the values substituted into a template.
type Fields struct {
	Msg     string
	Spinner string
	Pos     int64
	Len     int64

	// Bar renders a bar of the given width. Nil renders blank space.
	Bar func(width int) string
}

type segment struct {
	text        string
	placeholder bool
}

func parse(template string) []segment {
	var segs []segment
	for template != "" {
		open := strings.IndexByte(template, '{')
		if open < 0 {
			segs = append(segs, segment{text: template})
			break
		}
		end := strings.IndexByte(template[open:], '}')
		if end < 0 {
			segs = append(segs, segment{text: template})
			break
		}
		if open > 0 {
			segs = append(segs, segment{text: template[:open]})
		}
		segs = append(segs, segment{text: template[open+1 : open+end], placeholder: true})
		template = template[open+end+1:]
	}
	return segs
}

// Render expands the template with f and fits the result into s.Width columns.
func (s Spec) Render(f Fields) string {
	segs := parse(s.Template)
	parts := make([]string, len(segs))
	wide := 0
	used := 0

	for i, seg := range segs {
		if !seg.placeholder {
			parts[i] = seg.text
			used += ansi.StringWidth(seg.text)
			continue
		}
		switch seg.text {
		case "msg":
			parts[i] = f.Msg
		case "spinner":
			if s.ShowSpinner {
				parts[i] = f.Spinner
			}
		case "pos":
			parts[i] = fmt.Sprintf("%d", f.Pos)
		case "len":
			parts[i] = fmt.Sprintf("%d", f.Len)
		case "percent":
			parts[i] = fmt.Sprintf("%d%%", percent(f.Pos, f.Len))
		case "bar":
			parts[i] = renderBar(f.Bar, FixedBarWidth)
		case "wide_bar":
			wide++
			continue
		default:
			parts[i] = "{" + seg.text + "}"
		}
		used += ansi.StringWidth(parts[i])
	}

	if wide > 0 {
		each := 0
		if s.Width > used {
			each = (s.Width - used) / wide
		}
		for i, seg := range segs {
			if seg.placeholder && seg.text == "wide_bar" {
				parts[i] = renderBar(f.Bar, each)
			}
		}
	}

	line := strings.Join(parts, "")
	if s.Width > 0 && ansi.StringWidth(line) > s.Width {
		line = ansi.Truncate(line, s.Width, "")
	}
	return line
}

func renderBar(bar func(int) string, width int) string {
	if width <= 0 {
		return ""
	}
	if bar == nil {
		return strings.Repeat(" ", width)
	}
	return bar(width)
}

func percent(pos, length int64) int64 {
	if length <= 0 {
		return 0
	}
	if pos >= length {
		return 100
	}
	if pos <= 0 {
		return 0
	}
	return pos * 100 / length
}
