package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"snowthaw/internal/domain"
	"snowthaw/internal/highlight"
)

const snowflake = "❄"

// RenderHighlighted styles text with base and every keyword occurrence with mark
func RenderHighlighted(p *highlight.Projector, text, keyword string, base, mark lipgloss.Style) string {
	var b strings.Builder
	for _, span := range p.Highlight(text, keyword) {
		if span.Matched {
			b.WriteString(mark.Render(span.Text))
		} else {
			b.WriteString(base.Render(span.Text))
		}
	}
	return b.String()
}

// HitRenderer handles rendering of search hits
type HitRenderer struct {
	styles    *Styles
	projector *highlight.Projector
}

// NewHitRenderer creates a new hit renderer
func NewHitRenderer(styles *Styles, projector *highlight.Projector) *HitRenderer {
	return &HitRenderer{
		styles:    styles,
		projector: projector,
	}
}

// RenderHit renders a hit as a title row followed by its highlighted snippet
func (r *HitRenderer) RenderHit(hit domain.SearchHit, keyword string, isSelected bool, width int) string {
	nameStyle := r.styles.HitName
	typeStyle := r.styles.HitType
	snippetStyle := r.styles.Snippet
	markStyle := r.styles.Highlight
	marker := "  "
	if isSelected {
		bg := r.styles.SelectionBg.GetBackground()
		nameStyle = nameStyle.Background(bg)
		typeStyle = typeStyle.Background(bg)
		snippetStyle = snippetStyle.Background(bg)
		markStyle = markStyle.Background(bg)
		marker = "> "
	}

	title := marker + typeStyle.Render(snowflake) + " " + nameStyle.Render(hit.Name)
	if hit.Type != "" {
		title += " " + typeStyle.Render("["+hit.Type+"]")
	}

	// Snippets are single-line already; wrap them to the available width
	snippet := RenderHighlighted(r.projector, hit.Snippet, keyword, snippetStyle, markStyle)
	if width > 8 {
		snippet = lipgloss.NewStyle().Width(width - 4).Render(snippet)
	}
	lines := strings.Split(snippet, "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}

	return title + "\n" + strings.Join(lines, "\n")
}
