package input

import (
	"snowthaw/internal/domain"
	"snowthaw/internal/search"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	View     search.View
	Selected int
}

// SelectedIndex returns the highlighted hit on the current page
func (c *ModelContext) SelectedIndex() int {
	return c.Selected
}

// ItemCount returns the number of hits on the current page
func (c *ModelContext) ItemCount() int {
	return len(c.View.Items)
}

func (c *ModelContext) Page() int {
	return c.View.Page
}

func (c *ModelContext) PageCount() int {
	return c.View.PageCount
}

// Query returns the committed query text
func (c *ModelContext) Query() string {
	return c.View.Query
}

func (c *ModelContext) Filters() domain.FilterSet {
	return c.View.Filters
}
