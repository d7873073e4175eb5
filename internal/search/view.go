package search

import (
	"snowthaw/internal/domain"
	"snowthaw/internal/paginate"
)

// View is the read-only projection handed to the presentation layer
type View struct {
	Query   string
	Filters domain.FilterSet
	State   State

	Loading   bool
	Failed    bool
	Err       error
	NoMatches bool

	Items     []domain.SearchHit
	Page      int
	PageCount int
	Total     int // total reported by the service
	Hits      int // hits held locally
}

// View recomputes the projection from the current state
func (c *Controller) View() View {
	var hits []domain.SearchHit
	total := 0
	if c.results != nil {
		hits = c.results.Hits
		total = c.results.Total
	}
	page := paginate.Paginate(hits, c.pageSize, c.page)

	state := c.State()
	return View{
		Query:     c.query,
		Filters:   c.filters,
		State:     state,
		Loading:   c.outstanding != 0,
		Failed:    state == StateFailed,
		Err:       c.err,
		NoMatches: state == StateReady && c.results != nil && len(hits) == 0,
		Items:     page.Items,
		Page:      page.Current,
		PageCount: page.Count,
		Total:     total,
		Hits:      len(hits),
	}
}
