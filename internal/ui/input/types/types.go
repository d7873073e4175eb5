package types

import (
	tea "github.com/charmbracelet/bubbletea"

	"snowthaw/internal/domain"
)

// Mode represents an input mode
type Mode int

const (
	ModeBrowse Mode = iota
	ModeQuery
	ModeFilter
)

func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeQuery:
		return "query"
	case ModeFilter:
		return "filter"
	}
	return "unknown"
}

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	SelectedIndex() int
	ItemCount() int
	Page() int
	PageCount() int
	Query() string
	Filters() domain.FilterSet
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether to consume the event
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}
