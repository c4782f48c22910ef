package browse

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arcanaland/cardtags/internal/tags"
)

// Styles holds the gallery's lipgloss styles
type Styles struct {
	Search     lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
	Card       lipgloss.Style
	CardHover  lipgloss.Style
	Name       lipgloss.Style
	Caption    lipgloss.Style
	GroupTitle lipgloss.Style
	Preview    lipgloss.Style
}

// DefaultStyles returns the dark gallery palette
func DefaultStyles() Styles {
	return Styles{
		Search: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6366f1")).
			Padding(0, 1),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")).Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1),
		CardHover: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#a5b4fc")).
			Padding(0, 1),
		Name:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c7d2fe")),
		Caption:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#d1d5db")),
		GroupTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("#d1d5db")).Faint(true),
		Preview: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#ffffff")),
	}
}

// Chip returns the style for a tag chip of the given group
func (s Styles) Chip(style tags.Style) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(style.Background)).
		Foreground(lipgloss.Color(style.Foreground)).
		Padding(0, 1)
}

// flow packs rendered chips into lines no wider than width
func flow(chips []string, width int) string {
	var lines []string
	var line string
	for _, chip := range chips {
		switch {
		case line == "":
			line = chip
		case lipgloss.Width(line)+1+lipgloss.Width(chip) <= width:
			line += " " + chip
		default:
			lines = append(lines, line)
			line = chip
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
