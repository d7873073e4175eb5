package views

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"snowthaw/internal/domain"
	"snowthaw/internal/highlight"
	"snowthaw/internal/search"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func hits(n int) []domain.SearchHit {
	out := make([]domain.SearchHit, n)
	for i := range out {
		out[i] = domain.SearchHit{ID: string(rune('a' + i)), Type: "逆闻", Name: "雪夜", Snippet: "窗外下雪了"}
	}
	return out
}

func render(state ViewState) string {
	state.Width = 100
	state.Height = 60
	return plain(NewRenderer(highlight.NewProjector(4)).Render(state))
}

func TestRenderIdle(t *testing.T) {
	out := render(ViewState{})
	assert.Contains(t, out, AppTitle)
	assert.Contains(t, out, KeywordLabel)
	assert.Contains(t, out, GlobalHint)
	assert.Contains(t, out, IdleText)
	assert.Contains(t, out, helpHintText)
}

func TestRenderFilterTags(t *testing.T) {
	out := render(ViewState{Search: search.View{
		Query:   "雪",
		Filters: domain.NewFilterSet(domain.CategoryRumors, domain.CategoryMainStory),
		State:   search.StateDebouncing,
	}})
	assert.NotContains(t, out, GlobalHint)
	assert.Less(t, strings.Index(out, "主线剧情"), strings.Index(out, "逆闻"))
}

func TestRenderStates(t *testing.T) {
	tests := []struct {
		name string
		view search.View
		want string
		not  string
	}{
		{"loading", search.View{Query: "雪", Loading: true, State: search.StateLoading}, LoadingText, FailedText},
		{"failed", search.View{Query: "雪", Failed: true, Err: errors.New("boom"), State: search.StateFailed}, FailedText, NoMatchesText},
		{"no matches", search.View{Query: "雪", NoMatches: true, State: search.StateReady}, NoMatchesText, FailedText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(ViewState{Search: tt.view})
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, tt.not)
			assert.NotContains(t, out, "boom")
		})
	}
}

func TestRenderHitsAndPagination(t *testing.T) {
	view := search.View{
		Query:     "雪",
		State:     search.StateReady,
		Items:     hits(2),
		Page:      2,
		PageCount: 2,
		Total:     8,
		Hits:      8,
	}
	out := render(ViewState{Search: view, Selected: 1})
	assert.Equal(t, 2, strings.Count(out, "雪夜"))
	assert.Contains(t, out, "窗外下雪了")
	assert.Contains(t, out, "[逆闻]")
	assert.Contains(t, out, "第 2 / 2 页")
	assert.Equal(t, 1, strings.Count(out, "> "+snowflake))

	view.PageCount = 1
	view.Page = 1
	out = render(ViewState{Search: view})
	assert.NotContains(t, out, "第 1 / 1 页")
}

func TestRenderFilterPanel(t *testing.T) {
	out := render(ViewState{
		InputMode:    "filter",
		FilterCursor: 2,
		Search:       search.View{Filters: domain.NewFilterSet(domain.CategoryPhone)},
	})
	for _, c := range domain.Categories() {
		assert.Contains(t, out, c.String())
	}
	assert.Contains(t, out, "> 3 "+snowflake+" 逆闻")
	assert.Equal(t, 1, strings.Count(out, "已选"))
}

func TestRenderHighlighted(t *testing.T) {
	mark := lipgloss.NewStyle().Bold(true)
	out := RenderHighlighted(highlight.NewProjector(2), "AbcABC", "abc", lipgloss.NewStyle(), mark)
	assert.Equal(t, "AbcABC", plain(out))
}

func TestPageLabel(t *testing.T) {
	assert.Equal(t, "第 3 / 7 页", PageLabel(3, 7))
}
