package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"snowthaw/internal/ui/input/modes"
	"snowthaw/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared text input for text modes
	filter      *modes.FilterMode
}

func New() *Handler {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 100

	h := &Handler{
		currentMode: types.ModeBrowse,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
		filter:      modes.NewFilterMode(),
	}

	h.modes[types.ModeBrowse] = modes.NewBrowseMode()
	h.modes[types.ModeQuery] = modes.NewQueryMode(h.textInput)
	h.modes[types.ModeFilter] = h.filter

	return h
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	var cmd tea.Cmd
	var allActions []types.Action

	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			allActions = append(allActions, action)
			continue
		}

		if h.modes[h.currentMode] != nil {
			allActions = append(allActions, h.modes[h.currentMode].Exit(ctx)...)
		}

		oldMode := h.currentMode
		h.currentMode = changeMode.Mode

		// Text modes start from the data they were opened with
		if h.isTextMode(h.currentMode) {
			h.textInput.Reset()
			if text, ok := changeMode.Data.(string); ok {
				h.textInput.SetValue(text)
				h.textInput.CursorEnd()
			}
			cmd = textinput.Blink
		} else if h.isTextMode(oldMode) {
			h.textInput.Blur()
		}

		if h.modes[h.currentMode] != nil {
			allActions = append(allActions, h.modes[h.currentMode].Enter(ctx)...)
		}
	}

	// Unhandled keys in a text mode go to the text input
	if h.isTextMode(h.currentMode) && !consumed {
		*h.textInput, cmd = h.textInput.Update(msg)
		allActions = append(allActions, types.UpdateTextAction{Text: h.textInput.Value()})
	}

	return allActions, cmd
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeBrowse
	}
	return h.currentMode
}

// TextInput returns the shared input while a text mode is active
func (h *Handler) TextInput() *textinput.Model {
	if h.isTextMode(h.currentMode) {
		return h.textInput
	}
	return nil
}

// FilterCursor is the highlighted row of the category panel
func (h *Handler) FilterCursor() int {
	return h.filter.Cursor()
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeQuery
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeBrowse
	h.textInput.Reset()
	h.textInput.Blur()
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
