package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"snowthaw/internal/highlight"
	"snowthaw/internal/search"
)

// UI strings
const (
	AppTitle      = "雪绒镇"
	KeywordLabel  = "关键词："
	GlobalHint    = "（全局搜索）"
	LoadingText   = "搜索中..."
	FailedText    = "搜索失败，请稍后再试。"
	NoMatchesText = "没有找到匹配的内容。"
	IdleText      = "按 / 输入关键词开始搜索。"
	PrevPageText  = "上一页"
	NextPageText  = "下一页"
	helpHintText  = "Press ? for help"
	defaultWidth  = 80
	defaultHeight = 24
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Search        search.View
	Selected      int
	InputMode     string // "", "query" or "filter"
	TextInput     string // rendered text input while editing the query
	FilterCursor  int
	Spinner       string
	StatusMessage string
	Help          string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	hitRender   *HitRenderer
	panelRender *FilterPanelRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(projector *highlight.Projector) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		hitRender:   NewHitRenderer(styles, projector),
		panelRender: NewFilterPanelRenderer(styles),
	}
}

// Styles exposes the palette for content rendered outside the main screen
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = defaultWidth
	}
	height := state.Height
	if height <= 0 {
		height = defaultHeight
	}
	innerWidth := width - 4 // main container padding

	content := &strings.Builder{}
	content.WriteString(r.renderTitle(state, innerWidth))
	content.WriteString("\n\n")
	content.WriteString(r.renderKeywordLine(state))
	content.WriteString("\n")

	if state.InputMode == "filter" {
		content.WriteString(r.panelRender.RenderPanel(state.Search.Filters, state.FilterCursor))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(r.renderResults(state, innerWidth))

	if state.StatusMessage != "" {
		content.WriteString("\n\n")
		content.WriteString(r.styles.StatusError.Render(state.StatusMessage))
	}

	helpText := state.Help
	if helpText == "" {
		helpText = helpHintText
	}
	helpText = r.styles.Help.Render(helpText)

	// Push help to the bottom
	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := height - 2
	if padding := availableLines - currentLines - 1; padding > 0 {
		content.WriteString(strings.Repeat("\n", padding))
	}
	content.WriteString("\n")
	content.WriteString(helpText)

	return r.styles.Main.MaxHeight(height).Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState, width int) string {
	logo := r.styles.Title.Render(snowflake + " " + AppTitle)
	if !state.Search.Loading {
		return logo
	}

	indicator := r.styles.Dim.Render(strings.TrimSpace(state.Spinner + " " + LoadingText))
	padding := width - lipgloss.Width(logo) - lipgloss.Width(indicator)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + indicator
}

func (r *Renderer) renderKeywordLine(state ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Label.Render(KeywordLabel))

	if state.InputMode == "query" {
		b.WriteString(state.TextInput)
	} else {
		b.WriteString(r.styles.Keyword.Render(state.Search.Query))
	}
	b.WriteString("  ")

	tags := state.Search.Filters.Tags()
	if len(tags) == 0 {
		b.WriteString(r.styles.Hint.Render(GlobalHint))
		return b.String()
	}
	for i, tag := range tags {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(r.styles.TypeTag.Render(tag))
	}
	return b.String()
}

func (r *Renderer) renderResults(state ViewState, width int) string {
	view := state.Search
	var blocks []string

	switch {
	case view.Query == "":
		return r.styles.Hint.Render(IdleText)
	case view.Loading:
		blocks = append(blocks, r.styles.Status.Render(LoadingText))
	case view.Failed:
		return r.styles.StatusError.Render(FailedText)
	case view.NoMatches:
		return r.styles.Status.Render(NoMatchesText)
	}

	for i, hit := range view.Items {
		blocks = append(blocks, r.hitRender.RenderHit(hit, view.Query, i == state.Selected, width))
	}

	if view.PageCount > 1 {
		blocks = append(blocks, r.renderPagination(view.Page, view.PageCount))
	}

	return strings.Join(blocks, "\n\n")
}

// renderPagination renders the pager row, dimming the directions that are not available
func (r *Renderer) renderPagination(page, count int) string {
	prev := r.styles.PageInfo.Render("‹ " + PrevPageText)
	if page <= 1 {
		prev = r.styles.Dim.Render("‹ " + PrevPageText)
	}
	next := r.styles.PageInfo.Render(NextPageText + " ›")
	if page >= count {
		next = r.styles.Dim.Render(NextPageText + " ›")
	}
	info := r.styles.PageInfo.Render(PageLabel(page, count))
	return prev + "   " + info + "   " + next
}

// PageLabel formats the page indicator
func PageLabel(page, count int) string {
	return fmt.Sprintf("第 %d / %d 页", page, count)
}
