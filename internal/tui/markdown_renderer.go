package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minMarkdownWidth keeps narrow terminals from wrapping every word.
const minMarkdownWidth = 24

// markdownRenderer turns card details into styled terminal text. The glamour renderer is
// rebuilt only when the wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render returns source rendered at width, or the raw source when glamour fails.
func (r *markdownRenderer) render(source string, width int) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}
	if r == nil {
		return source
	}
	width = max(width, minMarkdownWidth)
	if r.renderer == nil || r.width != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return source
		}
		r.renderer = renderer
		r.width = width
	}
	out, err := r.renderer.Render(source)
	if err != nil {
		return source
	}
	return strings.TrimRight(out, "\n")
}
