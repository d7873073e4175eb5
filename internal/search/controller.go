// Package search holds the incremental query controller.
//
// The controller is driven by a bubbletea event loop: every mutation happens inside the
// host model's Update, timer fires arrive as messages posted through Options.Post and
// gateway calls run as tea.Cmds whose results come back as messages. Only the response to
// the newest issued request is ever applied; older ones are dropped when they arrive.
package search

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"snowthaw/internal/debounce"
	"snowthaw/internal/domain"
	"snowthaw/internal/eventbus"
	"snowthaw/internal/gateway"
	"snowthaw/internal/log"
	"snowthaw/internal/paginate"
)

// State is the controller's lifecycle state, derived from its fields
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Options configures a Controller
type Options struct {
	// Delay is the debounce quiet period
	Delay time.Duration
	// PageSize is the number of hits per page
	PageSize int
	// Post hands a message to the host event loop. It is called from timer goroutines.
	Post func(tea.Msg)
	// Bus receives lifecycle events; optional
	Bus eventbus.EventBus
	// Logger defaults to the "controller" logger
	Logger *log.Logger
}

// Controller owns the query, the filter set, request identity and the visible results
type Controller struct {
	gateway   gateway.Gateway
	delay     time.Duration
	pageSize  int
	post      func(tea.Msg)
	bus       eventbus.EventBus
	logger    *log.Logger
	scheduler *debounce.Scheduler

	query   string
	filters domain.FilterSet

	armToken    uint64
	armed       bool
	sequence    uint64 // last issued request
	outstanding uint64 // request whose response may still be applied, 0 for none

	results *domain.ResultSet
	err     error
	page    int
}

// New creates an idle controller
func New(gw gateway.Gateway, opts Options) *Controller {
	if opts.Delay <= 0 {
		opts.Delay = debounce.DefaultDelay
	}
	if opts.PageSize < 1 {
		opts.PageSize = paginate.DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = log.ForService("controller")
	}
	if opts.Post == nil {
		opts.Logger.Warnf("no event loop attached, debounced searches will never fire")
		opts.Post = func(tea.Msg) {}
	}
	return &Controller{
		gateway:   gw,
		delay:     opts.Delay,
		pageSize:  opts.PageSize,
		post:      opts.Post,
		bus:       opts.Bus,
		logger:    opts.Logger,
		scheduler: debounce.New(),
		page:      1,
	}
}

// SetQuery stores the trimmed text. An empty query clears everything and issues nothing.
func (c *Controller) SetQuery(text string) {
	query := strings.TrimSpace(text)
	c.query = query

	if query == "" {
		c.clear()
		return
	}
	c.arm()
}

// ToggleFilter flips one category. The search is re-armed only when a query is present.
func (c *Controller) ToggleFilter(cat domain.Category) {
	if !cat.Valid() {
		return
	}
	c.filters = c.filters.Toggle(cat)
	if c.query != "" {
		c.arm()
	}
}

// SetFilters replaces the whole filter set
func (c *Controller) SetFilters(filters domain.FilterSet) {
	if filters == c.filters {
		return
	}
	c.filters = filters
	if c.query != "" {
		c.arm()
	}
}

// GoToPage moves to page n, clamped to the available pages
func (c *Controller) GoToPage(n int) {
	c.page = paginate.Clamp(n, c.pageCount())
}

// NextPage moves forward one page if possible
func (c *Controller) NextPage() { c.GoToPage(c.page + 1) }

// PrevPage moves back one page if possible
func (c *Controller) PrevPage() { c.GoToPage(c.page - 1) }

// LastPage moves to the final page
func (c *Controller) LastPage() { c.GoToPage(c.pageCount()) }

// Query returns the normalized query text
func (c *Controller) Query() string { return c.query }

// Filters returns the active filter set
func (c *Controller) Filters() domain.FilterSet { return c.filters }

// State derives the lifecycle state
func (c *Controller) State() State {
	switch {
	case c.query == "":
		return StateIdle
	case c.armed:
		return StateDebouncing
	case c.outstanding != 0:
		return StateLoading
	case c.err != nil:
		return StateFailed
	default:
		return StateReady
	}
}

// Update consumes the controller's own messages. The bool reports whether msg belonged
// to the controller.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case debounceFiredMsg:
		if !c.armed || msg.token != c.armToken {
			return nil, true
		}
		c.armed = false
		return c.fireSearch(), true

	case responseMsg:
		c.applyResponse(msg)
		return nil, true
	}
	return nil, false
}

// Close stops the pending timer
func (c *Controller) Close() {
	c.scheduler.Cancel()
}

func (c *Controller) arm() {
	c.armToken++
	c.armed = true
	token := c.armToken
	c.scheduler.Arm(c.delay, func() {
		c.post(debounceFiredMsg{token: token})
	})
}

func (c *Controller) clear() {
	c.scheduler.Cancel()
	c.armed = false
	c.outstanding = 0
	c.results = nil
	c.err = nil
	c.page = 1
	c.publish(domain.QueryClearedEvent{})
}

func (c *Controller) fireSearch() tea.Cmd {
	if c.query == "" {
		return nil
	}

	c.sequence++
	seq := c.sequence
	c.outstanding = seq
	c.err = nil

	query, filters := c.query, c.filters
	gw := c.gateway

	c.logger.Debugf("issuing request %d for %q [%s]", seq, query, filters)
	c.publish(domain.SearchIssuedEvent{Sequence: seq, Query: query, Filters: filters})

	return func() tea.Msg {
		resp, err := gw.Search(context.Background(), query, filters)
		return responseMsg{seq: seq, query: query, filters: filters, resp: resp, err: err}
	}
}

func (c *Controller) applyResponse(msg responseMsg) {
	if msg.seq != c.outstanding {
		c.logger.Debugf("discarding stale response %d (newest %d)", msg.seq, c.sequence)
		c.publish(domain.SearchDiscardedEvent{Sequence: msg.seq, Newest: c.sequence})
		return
	}
	c.outstanding = 0
	c.page = 1

	if msg.err != nil {
		c.logger.Warnf("request %d for %q failed: %v", msg.seq, msg.query, msg.err)
		c.err = msg.err
		c.results = &domain.ResultSet{Sequence: msg.seq, Query: msg.query, Filters: msg.filters}
		c.publish(domain.SearchFailedEvent{Sequence: msg.seq, Query: msg.query, Err: msg.err})
		return
	}

	rs := &domain.ResultSet{Sequence: msg.seq, Query: msg.query, Filters: msg.filters}
	if msg.resp != nil {
		rs.Hits = msg.resp.Results
		rs.Total = msg.resp.Total
	}
	c.err = nil
	c.results = rs
	c.logger.Debugf("applied request %d: %d hits", msg.seq, len(rs.Hits))
	c.publish(domain.SearchAppliedEvent{Sequence: msg.seq, Query: msg.query, Hits: len(rs.Hits)})
}

func (c *Controller) pageCount() int {
	return paginate.PageCount(c.results.Len(), c.pageSize)
}

func (c *Controller) publish(event domain.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}
