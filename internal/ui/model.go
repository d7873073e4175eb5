// Package ui is the interactive search screen.
package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"snowthaw/internal/domain"
	"snowthaw/internal/gateway"
	"snowthaw/internal/highlight"
	"snowthaw/internal/log"
	"snowthaw/internal/search"
	"snowthaw/internal/ui/input"
	inputtypes "snowthaw/internal/ui/input/types"
	"snowthaw/internal/ui/views"
)

const storyTimeout = 15 * time.Second

// Status line texts
const (
	storyMissingText = "这篇内容已不存在。"
	storyFailedText  = "无法加载全文，请稍后再试。"
	pagerFailedText  = "无法打开阅读器。"
)

// Options seeds the screen
type Options struct {
	Query   string
	Filters domain.FilterSet
}

// pageKey identifies what the result list is showing
type pageKey struct {
	query string
	page  int
	hits  int
	total int
}

// Model represents the UI state
type Model struct {
	ctrl     *search.Controller
	articles gateway.ArticleSource
	logger   *log.Logger
	opts     Options

	width       int
	height      int
	selected    int     // hit index on the current page
	shown       pageKey // page the selection belongs to
	status      string
	inPagerMode bool // tracks if we're currently in pager mode

	keys         keyMap
	help         help.Model
	spinner      spinner.Model
	projector    *highlight.Projector
	renderer     *views.Renderer
	inputHandler *input.Handler

	// Program reference for terminal management
	program *tea.Program
	pager   *Pager
}

// NewModel creates a new UI model around a search controller
func NewModel(ctrl *search.Controller, articles gateway.ArticleSource, opts Options) *Model {
	projector := highlight.NewProjector(64)
	return &Model{
		ctrl:         ctrl,
		articles:     articles,
		logger:       log.ForService("ui"),
		opts:         opts,
		keys:         newKeyMap(),
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		projector:    projector,
		renderer:     views.NewRenderer(projector),
		inputHandler: input.New(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPager(p)
}

// Init applies the seeded query and starts the spinner
func (m *Model) Init() tea.Cmd {
	if !m.opts.Filters.IsEmpty() {
		m.ctrl.SetFilters(m.opts.Filters)
	}
	if m.opts.Query != "" {
		m.ctrl.SetQuery(m.opts.Query)
	}
	return m.spinner.Tick
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.ctrl.Update(msg); ok {
		m.syncSelection()
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		m.status = ""

		ctx := &input.ModelContext{View: m.ctrl.View(), Selected: m.selected}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		m.syncSelection()
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case storyLoadedMsg:
		return m, m.showInPager(RenderStory(m.projector, m.renderer.Styles(), msg.card, m.ctrl.Query()))

	case storyFailedMsg:
		m.logger.Warnf("loading story %s: %v", msg.id, msg.err)
		if errors.Is(msg.err, gateway.ErrNotFound) {
			m.status = storyMissingText
		} else {
			m.status = storyFailedText
		}

	case pagerClosedMsg:
		if msg.err != nil {
			m.logger.Errorf("pager: %v", msg.err)
			m.status = pagerFailedText
		}

	case pauseRenderingMsg:
		m.inPagerMode = true

	case resumeRenderingMsg:
		m.inPagerMode = false

	default:
		return m, m.inputHandler.Update(msg)
	}

	return m, nil
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		items := len(m.ctrl.View().Items)
		switch a.Direction {
		case "up":
			if m.selected > 0 {
				m.selected--
			}
		case "down":
			if m.selected < items-1 {
				m.selected++
			}
		}

	case inputtypes.PageAction:
		switch a.Direction {
		case "next":
			m.ctrl.NextPage()
		case "prev":
			m.ctrl.PrevPage()
		case "first":
			m.ctrl.GoToPage(1)
		case "last":
			m.ctrl.LastPage()
		}

	case inputtypes.UpdateTextAction:
		// Cursor movement also reports the text; only real edits re-arm the search
		if strings.TrimSpace(a.Text) != m.ctrl.Query() {
			m.ctrl.SetQuery(a.Text)
		}

	case inputtypes.SubmitTextAction:
		m.ctrl.SetQuery(a.Text)

	case inputtypes.ToggleFilterAction:
		m.ctrl.ToggleFilter(a.Category)

	case inputtypes.ClearFiltersAction:
		m.ctrl.SetFilters(0)

	case inputtypes.OpenStoryAction:
		return m.loadStory()

	case inputtypes.ToggleHelpAction:
		return m.showInPager(RenderHelpContent(m.keys))

	case inputtypes.QuitAction:
		m.ctrl.Close()
		return tea.Quit
	}
	return nil
}

// syncSelection puts the cursor back on the first hit when the visible page changed
func (m *Model) syncSelection() {
	view := m.ctrl.View()
	key := pageKey{query: view.Query, page: view.Page, hits: view.Hits, total: view.Total}
	if key != m.shown {
		m.shown = key
		m.selected = 0
	}
	if m.selected >= len(view.Items) {
		m.selected = max(0, len(view.Items)-1)
	}
}

// loadStory fetches the full card behind the selected hit
func (m *Model) loadStory() tea.Cmd {
	items := m.ctrl.View().Items
	if m.articles == nil || m.selected >= len(items) {
		return nil
	}
	hit := items[m.selected]
	articles := m.articles

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storyTimeout)
		defer cancel()

		card, err := articles.Article(ctx, hit.ID)
		if err != nil {
			return storyFailedMsg{id: hit.ID, err: err}
		}
		return storyLoadedMsg{card: card}
	}
}

// showInPager returns a command that pages content with ov, pausing and resuming rendering
func (m *Model) showInPager(content string) tea.Cmd {
	if m.program == nil {
		m.status = pagerFailedText
		return nil
	}
	program, pager := m.program, m.pager

	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := pager.Show(content)
		program.Send(resumeRenderingMsg{})
		return pagerClosedMsg{err: err}
	}
}

// View renders the screen
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Search:        m.ctrl.View(),
		Selected:      m.selected,
		FilterCursor:  m.inputHandler.FilterCursor(),
		Spinner:       m.spinner.View(),
		StatusMessage: m.status,
		Help:          m.help.View(m.keys),
	}
	switch mode := m.inputHandler.CurrentMode(); mode {
	case inputtypes.ModeQuery:
		state.InputMode = mode.String()
		state.TextInput = m.inputHandler.TextInput().View()
	case inputtypes.ModeFilter:
		state.InputMode = mode.String()
	}

	return m.renderer.Render(state)
}
