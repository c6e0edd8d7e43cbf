// Package preview renders a thought map as styled terminal text.
//
// Text runs keep their bold, italic and underline styles; each thought is
// drawn as a bordered box in its theme colors. With color disabled the
// same layout is produced as plain text.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/thoughtmap/internal/document"
	"github.com/dshills/thoughtmap/internal/engine/attr"
	"github.com/dshills/thoughtmap/internal/theme"
	"github.com/dshills/thoughtmap/internal/thought"
)

// Options control rendering.
type Options struct {
	// Color enables styles and colors.
	Color bool
	// MaxWidth caps the width of a thought box in cells. Zero means no cap.
	MaxWidth int
}

// Renderer turns thoughts into strings.
type Renderer struct {
	opts  Options
	theme theme.Theme
}

// New creates a renderer for thoughts drawn with th.
func New(th theme.Theme, opts Options) *Renderer {
	return &Renderer{opts: opts, theme: th}
}

func color(c theme.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

// Runs renders text with its style runs applied.
func (r *Renderer) Runs(text string, runs []attr.Run) string {
	if !r.opts.Color || len(runs) == 0 {
		return text
	}
	rs := []rune(text)
	var b strings.Builder
	for _, run := range runs {
		st := lipgloss.NewStyle().
			Bold(run.Has(attr.Bold)).
			Italic(run.Has(attr.Italic)).
			Underline(run.Has(attr.Underline))
		lines := strings.Split(string(rs[run.Start:run.End]), "\n")
		for i, line := range lines {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(st.Render(line))
			}
		}
	}
	return b.String()
}

// Body returns the inside of a thought's box.
func (r *Renderer) Body(t *thought.Thought) string {
	switch c := t.Content().(type) {
	case *thought.TextContent:
		return r.Runs(c.Text(), c.Runs())
	case *thought.LabelContent:
		return r.Runs(c.Text(), c.Runs())
	case *thought.DrawingContent:
		strokes, points := 0, 0
		for _, p := range c.Points() {
			points++
			if p.Kind == thought.PointBegin {
				strokes++
			}
		}
		return fmt.Sprintf("%s: %d strokes, %d points", t.Title(), strokes, points)
	case *thought.ImageContent:
		if c.File == "" {
			return t.Title()
		}
		return fmt.Sprintf("[%s %dx%d]", c.File, c.Width, c.Height)
	}
	return ""
}

// Note renders an extended note with each line marked. It is empty when
// the thought has no note.
func (r *Renderer) Note(t *thought.Thought) string {
	note := t.Extended()
	if note == "" {
		return ""
	}
	lines := strings.Split(note, "\n")
	for i, line := range lines {
		lines[i] = "» " + line
	}
	out := strings.Join(lines, "\n")
	if r.opts.Color {
		out = lipgloss.NewStyle().Faint(true).Italic(true).Render(out)
	}
	return out
}

// Thought renders one thought as a box. Primary thoughts get a thick
// border and selected ones a double border; labels only show a border
// while their edge is visible. An extended note is drawn under the body.
func (r *Renderer) Thought(t *thought.Thought) string {
	border := lipgloss.RoundedBorder()
	switch {
	case t.IsSelected():
		border = lipgloss.DoubleBorder()
	case t.IsPrimary():
		border = lipgloss.ThickBorder()
	}
	st := lipgloss.NewStyle().Padding(0, 1)
	if lc, ok := t.Content().(*thought.LabelContent); !ok || lc.Edge {
		st = st.Border(border)
	}
	if r.opts.MaxWidth > 0 {
		st = st.MaxWidth(r.opts.MaxWidth)
	}
	if r.opts.Color {
		st = st.Foreground(color(t.TextColor())).BorderForeground(color(t.Foreground()))
		if t.IsSelected() {
			st = st.BorderForeground(color(r.theme.SelectedBorder))
		}
		if t.IsPrimary() {
			st = st.Background(color(r.theme.Primary.Background))
		}
	}
	body := r.Body(t)
	if note := r.Note(t); note != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, note)
	}
	return st.Render(body)
}

// Map renders the title, every thought and the links of m.
func (r *Renderer) Map(m *document.Map) string {
	var parts []string
	if m.Title != "" {
		parts = append(parts, lipgloss.NewStyle().Bold(r.opts.Color).Render(m.Title))
	}
	for _, t := range m.Thoughts() {
		parts = append(parts, r.Thought(t))
	}
	if links := m.Links(); len(links) > 0 {
		lines := make([]string, 0, len(links))
		for _, l := range links {
			lines = append(lines, fmt.Sprintf("%s -> %s", l.Parent.Title(), l.Child.Title()))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
