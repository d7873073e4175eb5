package modes

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"snowthaw/internal/ui/input/types"
)

// QueryMode edits the search keyword. The handler forwards every edit as it is typed,
// so leaving the line never discards anything: esc and ↓ just return to the results,
// enter forces a fresh search with what is there.
type QueryMode struct {
	textInput *textinput.Model
}

func NewQueryMode(ti *textinput.Model) *QueryMode {
	return &QueryMode{textInput: ti}
}

func (m *QueryMode) Name() string {
	return "query"
}

func (m *QueryMode) Enter(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Prompt = "" // the label is drawn by the view
		m.textInput.Focus()
	}
	return nil
}

func (m *QueryMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
	}
	return nil
}

func (m *QueryMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeBrowse}}, true
	case "down":
		if ctx.ItemCount() == 0 {
			return nil, true
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeBrowse}}, true
	case "enter":
		return []types.Action{
			types.SubmitTextAction{Text: strings.TrimSpace(m.value()), Mode: types.ModeQuery},
			types.ChangeModeAction{Mode: types.ModeBrowse},
		}, true
	}
	// everything else is typed into the line by the handler
	return nil, false
}

func (m *QueryMode) value() string {
	if m.textInput == nil {
		return ""
	}
	return m.textInput.Value()
}
