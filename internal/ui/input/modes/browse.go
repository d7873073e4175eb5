package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"snowthaw/internal/ui/input/types"
)

// BrowseMode moves around the result pages
type BrowseMode struct{}

func NewBrowseMode() *BrowseMode {
	return &BrowseMode{}
}

func (m *BrowseMode) Name() string {
	return "browse"
}

func (m *BrowseMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *BrowseMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *BrowseMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft, tea.KeyPgUp:
		return []types.Action{types.PageAction{Direction: "prev"}}, true

	case tea.KeyRight, tea.KeyPgDown:
		return []types.Action{types.PageAction{Direction: "next"}}, true

	case tea.KeyHome:
		return []types.Action{types.PageAction{Direction: "first"}}, true

	case tea.KeyEnd:
		return []types.Action{types.PageAction{Direction: "last"}}, true

	case tea.KeyEnter:
		if ctx.ItemCount() > 0 {
			return []types.Action{types.OpenStoryAction{}}, true
		}
		return nil, false
	}

	switch msg.String() {
	case "q":
		return []types.Action{types.QuitAction{}}, true
	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeQuery, Data: ctx.Query()}}, true
	case "f":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter}}, true
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "h":
		return []types.Action{types.PageAction{Direction: "prev"}}, true
	case "l":
		return []types.Action{types.PageAction{Direction: "next"}}, true
	case "g":
		return []types.Action{types.PageAction{Direction: "first"}}, true
	case "G":
		return []types.Action{types.PageAction{Direction: "last"}}, true
	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true
	}

	return nil, false
}
