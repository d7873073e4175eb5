package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"snowthaw/internal/domain"
	"snowthaw/internal/highlight"
	"snowthaw/internal/ui/views"
)

// keyMap documents the browse bindings. Matching is done by the input modes.
type keyMap struct {
	Query  key.Binding
	Filter key.Binding
	Up     key.Binding
	Down   key.Binding
	Prev   key.Binding
	Next   key.Binding
	First  key.Binding
	Last   key.Binding
	Open   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Query:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "edit keyword")),
		Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "categories")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous hit")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next hit")),
		Prev:   key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "previous page")),
		Next:   key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
		First:  key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first page")),
		Last:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last page")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read story")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Query, k.Filter, k.Next, k.Open, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Query, k.Filter},
		{k.Up, k.Down, k.Open},
		{k.Prev, k.Next, k.First, k.Last},
		{k.Help, k.Quit},
	}
}

var helpSections = []string{"Search", "Results", "Pages", "Other"}

// RenderHelpContent renders the full key reference for the pager
func RenderHelpContent(keys keyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("153")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(10)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	help.WriteString(titleStyle.Render(views.AppTitle + " Help"))
	help.WriteString("\n")

	for i, group := range keys.FullHelp() {
		help.WriteString(sectionStyle.Render(helpSections[i]))
		help.WriteString("\n")
		for _, b := range group {
			h := b.Help()
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
		}
	}

	help.WriteString(sectionStyle.Render("Category panel"))
	help.WriteString("\n")
	for _, line := range [][2]string{
		{"↑/↓", "move"},
		{"space", "toggle category"},
		{"1-5", "toggle category directly"},
		{"c", "clear categories"},
		{"esc", "close panel"},
	} {
		help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(line[0]), descStyle.Render(line[1])))
	}

	help.WriteString(sectionStyle.Render("Keyword"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("enter"), descStyle.Render("search now")))
	help.WriteString(fmt.Sprintf("  %s %s", keyStyle.Render("esc/↓"), descStyle.Render("back to results")))

	return help.String()
}

// RenderStory renders a card for the pager with the keyword highlighted
func RenderStory(p *highlight.Projector, styles *views.Styles, card *domain.Card, keyword string) string {
	var b strings.Builder
	b.WriteString(styles.HitName.Render(card.Name))
	if card.Type != "" {
		b.WriteString("  ")
		b.WriteString(styles.HitType.Render("[" + card.Type + "]"))
	}
	b.WriteString("\n\n")

	for i, line := range strings.Split(card.Story, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(views.RenderHighlighted(p, line, keyword, lipgloss.NewStyle(), styles.Highlight))
	}
	return b.String()
}

// Pager hands the terminal to ov to page long content
type Pager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPager creates a pager bound to program
func NewPager(program *tea.Program) *Pager {
	return &Pager{
		program: program,
	}
}

// Show pages content with ov until the user quits it
func (p *Pager) Show(content string) error {
	if p == nil || p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Don't write the document back to our screen on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
