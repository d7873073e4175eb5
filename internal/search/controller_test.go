package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowthaw/internal/domain"
	"snowthaw/internal/eventbus"
	"snowthaw/internal/gateway"
)

const testDelay = 30 * time.Millisecond

type reply struct {
	resp *gateway.Response
	err  error
}

type call struct {
	query   string
	filters domain.FilterSet
	reply   chan reply
}

// fakeGateway blocks every Search until the test answers the call
type fakeGateway struct {
	calls chan *call
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: make(chan *call, 16)}
}

func (g *fakeGateway) Search(ctx context.Context, query string, filters domain.FilterSet) (*gateway.Response, error) {
	c := &call{query: query, filters: filters, reply: make(chan reply, 1)}
	g.calls <- c
	r := <-c.reply
	return r.resp, r.err
}

func (g *fakeGateway) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(time.Second):
		t.Fatal("expected a gateway call")
		return nil
	}
}

func (g *fakeGateway) assertNoCall(t *testing.T) {
	t.Helper()
	select {
	case c := <-g.calls:
		t.Fatalf("unexpected gateway call for %q", c.query)
	default:
	}
}

type harness struct {
	t      *testing.T
	ctrl   *Controller
	gw     *fakeGateway
	posted chan tea.Msg
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, gw: newFakeGateway(), posted: make(chan tea.Msg, 16)}
	h.ctrl = New(h.gw, Options{
		Delay:    testDelay,
		PageSize: 6,
		Post:     func(msg tea.Msg) { h.posted <- msg },
	})
	t.Cleanup(h.ctrl.Close)
	return h
}

// waitFire waits for the debounce message and hands it to the controller
func (h *harness) waitFire() tea.Cmd {
	h.t.Helper()
	select {
	case msg := <-h.posted:
		cmd, handled := h.ctrl.Update(msg)
		require.True(h.t, handled)
		return cmd
	case <-time.After(time.Second):
		h.t.Fatal("debounce never fired")
		return nil
	}
}

func (h *harness) assertNoFire(wait time.Duration) {
	h.t.Helper()
	select {
	case msg := <-h.posted:
		h.t.Fatalf("unexpected message %#v", msg)
	case <-time.After(wait):
	}
}

// start runs cmd the way bubbletea would, off the event loop
func start(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	return out
}

func receive(t *testing.T, ch <-chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("command never completed")
		return nil
	}
}

func hits(prefix string, n int) []domain.SearchHit {
	out := make([]domain.SearchHit, n)
	for i := range out {
		out[i] = domain.SearchHit{
			ID:      fmt.Sprintf("%s-%d", prefix, i+1),
			Type:    "逆闻",
			Name:    fmt.Sprintf("%s %d", prefix, i+1),
			Snippet: "雪绒镇",
		}
	}
	return out
}

func ok(h []domain.SearchHit) reply {
	return reply{resp: &gateway.Response{Total: len(h), Results: h}}
}

func TestEmptyQueryIsIdle(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetQuery("   ")
	v := h.ctrl.View()
	assert.Equal(t, StateIdle, v.State)
	assert.Empty(t, v.Items)
	assert.False(t, v.Loading)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 1, v.PageCount)

	h.assertNoFire(3 * testDelay)
	h.gw.assertNoCall(t)
}

func TestQueryIsTrimmed(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetQuery("  雪绒 ")
	assert.Equal(t, "雪绒", h.ctrl.Query())
	assert.Equal(t, StateDebouncing, h.ctrl.State())

	cmd := h.waitFire()
	require.NotNil(t, cmd)
	done := start(cmd)
	c := h.gw.next(t)
	assert.Equal(t, "雪绒", c.query)
	c.reply <- ok(nil)
	receive(t, done)
}

func TestRapidTypingIssuesOneCall(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetQuery("")
	assert.Equal(t, StateIdle, h.ctrl.State())

	h.ctrl.SetQuery("雪")
	h.ctrl.SetQuery("雪绒")
	assert.Equal(t, StateDebouncing, h.ctrl.State())

	cmd := h.waitFire()
	require.NotNil(t, cmd)
	h.assertNoFire(3 * testDelay)

	assert.Equal(t, StateLoading, h.ctrl.State())
	assert.True(t, h.ctrl.View().Loading)

	done := start(cmd)
	c := h.gw.next(t)
	assert.Equal(t, "雪绒", c.query)
	h.gw.assertNoCall(t)

	c.reply <- ok(hits("hit", 8))
	h.ctrl.Update(receive(t, done))

	v := h.ctrl.View()
	assert.Equal(t, StateReady, v.State)
	assert.False(t, v.Loading)
	assert.Len(t, v.Items, 6)
	assert.Equal(t, "hit-1", v.Items[0].ID)
	assert.Equal(t, "hit-6", v.Items[5].ID)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 2, v.PageCount)

	h.ctrl.GoToPage(5)
	v = h.ctrl.View()
	assert.Equal(t, 2, v.Page)
	assert.Len(t, v.Items, 2)
	assert.Equal(t, "hit-7", v.Items[0].ID)
}

func TestNewestResponseWinsOverLateOlderOne(t *testing.T) {
	h := newHarness(t)

	var pending []<-chan tea.Msg
	var calls []*call
	for _, q := range []string{"雪", "雪绒", "雪绒镇"} {
		h.ctrl.SetQuery(q)
		cmd := h.waitFire()
		require.NotNil(t, cmd)
		pending = append(pending, start(cmd))
		calls = append(calls, h.gw.next(t))
	}

	// Sequence 3 completes first
	calls[2].reply <- ok(hits("three", 3))
	h.ctrl.Update(receive(t, pending[2]))

	v := h.ctrl.View()
	require.Len(t, v.Items, 3)
	assert.Equal(t, "three-1", v.Items[0].ID)
	assert.False(t, v.Loading)

	// Sequence 2 arrives late and must not replace it, nor can sequence 1's failure
	calls[1].reply <- ok(hits("two", 5))
	h.ctrl.Update(receive(t, pending[1]))
	calls[0].reply <- reply{err: &gateway.NetworkError{Err: errors.New("reset")}}
	h.ctrl.Update(receive(t, pending[0]))

	v = h.ctrl.View()
	assert.Equal(t, StateReady, v.State)
	require.Len(t, v.Items, 3)
	assert.Equal(t, "three-1", v.Items[0].ID)
	assert.False(t, v.Failed)
}

func TestOlderResponseIgnoredWhileNewerOutstanding(t *testing.T) {
	h := newHarness(t)

	// earlier results on page 2 stay on screen while newer searches run
	h.ctrl.SetQuery("x")
	done := start(h.waitFire())
	h.gw.next(t).reply <- ok(hits("x", 8))
	h.ctrl.Update(receive(t, done))
	h.ctrl.GoToPage(2)

	h.ctrl.SetQuery("a")
	first := start(h.waitFire())
	c1 := h.gw.next(t)
	assert.True(t, h.ctrl.View().Loading)

	h.ctrl.SetQuery("ab")
	second := start(h.waitFire())
	c2 := h.gw.next(t)

	v := h.ctrl.View()
	assert.True(t, v.Loading, "loading moves to the newer request")
	assert.Equal(t, StateLoading, v.State)
	assert.Equal(t, 2, v.Page)

	c1.reply <- ok(hits("a", 2))
	h.ctrl.Update(receive(t, first))

	v = h.ctrl.View()
	assert.True(t, v.Loading, "late older response must not clear loading")
	assert.Equal(t, StateLoading, h.ctrl.State())
	assert.Equal(t, 2, v.Page)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "x-7", v.Items[0].ID)

	c2.reply <- ok(hits("ab", 1))
	h.ctrl.Update(receive(t, second))

	v = h.ctrl.View()
	assert.False(t, v.Loading)
	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, "ab-1", v.Items[0].ID)
}

func TestNetworkFailureSetsError(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetQuery("雪")
	done := start(h.waitFire())
	h.gw.next(t).reply <- ok(hits("old", 4))
	h.ctrl.Update(receive(t, done))
	require.Len(t, h.ctrl.View().Items, 4)

	h.ctrl.SetQuery("雪绒")
	done = start(h.waitFire())
	h.gw.next(t).reply <- reply{err: &gateway.NetworkError{Err: errors.New("connection refused")}}
	h.ctrl.Update(receive(t, done))

	v := h.ctrl.View()
	assert.Equal(t, StateFailed, v.State)
	assert.True(t, v.Failed)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Items)
	assert.False(t, v.NoMatches)
	assert.True(t, errors.Is(v.Err, gateway.ErrSearchFailed))
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetQuery("无")
	done := start(h.waitFire())
	h.gw.next(t).reply <- ok(nil)
	h.ctrl.Update(receive(t, done))

	v := h.ctrl.View()
	assert.Equal(t, StateReady, v.State)
	assert.True(t, v.NoMatches)
	assert.False(t, v.Failed)
}

func TestClearingQueryDropsInFlightResponse(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetQuery("雪")
	done := start(h.waitFire())
	c := h.gw.next(t)

	h.ctrl.SetQuery("")
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.False(t, h.ctrl.View().Loading)

	c.reply <- ok(hits("late", 3))
	h.ctrl.Update(receive(t, done))

	v := h.ctrl.View()
	assert.Equal(t, StateIdle, v.State)
	assert.Empty(t, v.Items)
}

func TestClearingQueryCancelsPendingDebounce(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetQuery("雪")
	h.ctrl.SetQuery("")
	h.assertNoFire(3 * testDelay)
	h.gw.assertNoCall(t)
}

func TestSupersededFireIsIgnored(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetQuery("雪")
	var stale tea.Msg
	select {
	case stale = <-h.posted:
	case <-time.After(time.Second):
		t.Fatal("debounce never fired")
	}

	// The user typed again before the fire reached the loop
	h.ctrl.SetQuery("雪绒")
	cmd, handled := h.ctrl.Update(stale)
	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, StateDebouncing, h.ctrl.State())

	done := start(h.waitFire())
	c := h.gw.next(t)
	assert.Equal(t, "雪绒", c.query)
	c.reply <- ok(nil)
	h.ctrl.Update(receive(t, done))
}

func TestToggleFilterWithoutQueryDoesNotSearch(t *testing.T) {
	h := newHarness(t)

	h.ctrl.ToggleFilter(domain.CategoryRumors)
	assert.True(t, h.ctrl.Filters().Has(domain.CategoryRumors))
	assert.Equal(t, StateIdle, h.ctrl.State())
	h.assertNoFire(3 * testDelay)
}

func TestToggleFilterRearmsWithFilters(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetQuery("雪")
	h.ctrl.ToggleFilter(domain.CategoryPhone)
	h.ctrl.ToggleFilter(domain.CategoryMainStory)

	done := start(h.waitFire())
	c := h.gw.next(t)
	assert.Equal(t, domain.NewFilterSet(domain.CategoryMainStory, domain.CategoryPhone), c.filters)
	c.reply <- ok(hits("f", 1))
	h.ctrl.Update(receive(t, done))
	h.assertNoFire(2 * testDelay)

	h.ctrl.ToggleFilter(domain.CategoryPhone)
	assert.Equal(t, StateDebouncing, h.ctrl.State())
	done = start(h.waitFire())
	c = h.gw.next(t)
	assert.Equal(t, domain.NewFilterSet(domain.CategoryMainStory), c.filters)
	c.reply <- ok(nil)
	h.ctrl.Update(receive(t, done))
}

func TestNewResultsResetPage(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetQuery("a")
	done := start(h.waitFire())
	h.gw.next(t).reply <- ok(hits("a", 20))
	h.ctrl.Update(receive(t, done))

	h.ctrl.LastPage()
	assert.Equal(t, 4, h.ctrl.View().Page)
	h.ctrl.PrevPage()
	assert.Equal(t, 3, h.ctrl.View().Page)

	h.ctrl.SetQuery("ab")
	done = start(h.waitFire())
	h.gw.next(t).reply <- ok(hits("ab", 20))
	h.ctrl.Update(receive(t, done))
	assert.Equal(t, 1, h.ctrl.View().Page)

	h.ctrl.PrevPage()
	assert.Equal(t, 1, h.ctrl.View().Page)
}

func TestUnrelatedMessagesAreNotHandled(t *testing.T) {
	h := newHarness(t)
	cmd, handled := h.ctrl.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, handled)
	assert.Nil(t, cmd)
}

func TestLifecycleEventsArePublished(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	seen := make(chan domain.EventType, 16)
	for _, et := range eventbus.SearchEvents {
		bus.Subscribe(et, func(e eventbus.DomainEvent) { seen <- e.Type() })
	}

	gw := newFakeGateway()
	posted := make(chan tea.Msg, 4)
	ctrl := New(gw, Options{Delay: testDelay, Post: func(m tea.Msg) { posted <- m }, Bus: bus})
	defer ctrl.Close()

	ctrl.SetQuery("雪")
	cmd, _ := ctrl.Update(<-posted)
	done := start(cmd)
	gw.next(t).reply <- ok(hits("e", 1))
	ctrl.Update(receive(t, done))
	ctrl.SetQuery("")

	var got []domain.EventType
	require.Eventually(t, func() bool {
		for {
			select {
			case et := <-seen:
				got = append(got, et)
			default:
				return len(got) == 3
			}
		}
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.EventType{
		domain.EventSearchIssued,
		domain.EventSearchApplied,
		domain.EventQueryCleared,
	}, got)
}
