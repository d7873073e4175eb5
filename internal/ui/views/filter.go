package views

import (
	"fmt"
	"strings"

	"snowthaw/internal/domain"
)

// FilterPanelRenderer renders the category panel
type FilterPanelRenderer struct {
	styles *Styles
}

func NewFilterPanelRenderer(styles *Styles) *FilterPanelRenderer {
	return &FilterPanelRenderer{styles: styles}
}

// RenderPanel lists every category with its shortcut and whether it is selected
func (r *FilterPanelRenderer) RenderPanel(filters domain.FilterSet, cursor int) string {
	var lines []string
	for i, c := range domain.Categories() {
		marker := "  "
		label := c.String()
		if i == cursor {
			marker = "> "
			label = r.styles.PanelActive.Render(label)
		}
		line := fmt.Sprintf("%s%d %s %s", marker, i+1, snowflake, label)
		if filters.Has(c) {
			line += "  " + r.styles.Check.Render("已选")
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", r.styles.Help.Render("space 选择 · c 清空 · esc 收起"))
	return r.styles.Panel.Render(strings.Join(lines, "\n"))
}
