package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Dim         lipgloss.Style
	Label       lipgloss.Style
	Keyword     lipgloss.Style
	TypeTag     lipgloss.Style
	Hint        lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Panel       lipgloss.Style
	PanelActive lipgloss.Style
	Check       lipgloss.Style
	HitName     lipgloss.Style
	HitType     lipgloss.Style
	Snippet     lipgloss.Style
	Highlight   lipgloss.Style
	SelectionBg lipgloss.Style
	PageInfo    lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("153")),
		Dim:     lipgloss.NewStyle().Faint(true),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
		Keyword: lipgloss.NewStyle().Bold(true),
		TypeTag: lipgloss.NewStyle().
			Foreground(lipgloss.Color("17")).
			Background(lipgloss.Color("153")).
			Padding(0, 1),
		Hint:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Help:        lipgloss.NewStyle().Faint(true),
		Main:        lipgloss.NewStyle().Padding(1, 2),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("110")).
			Padding(0, 1),
		PanelActive: lipgloss.NewStyle().Foreground(lipgloss.Color("153")).Bold(true),
		Check:       lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		HitName:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		HitType:     lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
		Snippet:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		PageInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
