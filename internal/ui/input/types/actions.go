package types

import "snowthaw/internal/domain"

// Selection within the current page
type NavigateAction struct {
	Direction string // "up", "down"
}

func (a NavigateAction) Type() string { return "navigate" }

// Page movement
type PageAction struct {
	Direction string // "next", "prev", "first", "last"
}

func (a PageAction) Type() string { return "page" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

// Filter actions
type ToggleFilterAction struct {
	Category domain.Category
}

func (a ToggleFilterAction) Type() string { return "toggle_filter" }

type ClearFiltersAction struct{}

func (a ClearFiltersAction) Type() string { return "clear_filters" }

// OpenStoryAction opens the full story of the selected hit
type OpenStoryAction struct{}

func (a OpenStoryAction) Type() string { return "open_story" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool
}

func (a QuitAction) Type() string { return "quit" }
