package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"snowthaw/internal/domain"
	"snowthaw/internal/ui/input/types"
)

// FilterMode drives the category panel. It keeps its own cursor.
type FilterMode struct {
	cursor int
}

func NewFilterMode() *FilterMode {
	return &FilterMode{}
}

func (m *FilterMode) Name() string {
	return "filter"
}

// Cursor is the index of the highlighted category
func (m *FilterMode) Cursor() int {
	return m.cursor
}

func (m *FilterMode) Enter(ctx types.Context) []types.Action {
	m.cursor = 0
	return nil
}

func (m *FilterMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *FilterMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	categories := domain.Categories()

	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "f", "q":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeBrowse}}, true
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil, true
	case "down", "j":
		if m.cursor < len(categories)-1 {
			m.cursor++
		}
		return nil, true
	case " ", "enter":
		return []types.Action{types.ToggleFilterAction{Category: categories[m.cursor]}}, true
	case "c":
		if ctx.Filters().IsEmpty() {
			return nil, true
		}
		return []types.Action{types.ClearFiltersAction{}}, true
	case "1", "2", "3", "4", "5":
		i := int(msg.String()[0] - '1')
		m.cursor = i
		return []types.Action{types.ToggleFilterAction{Category: categories[i]}}, true
	}

	return nil, false
}
