package prompt

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const defaultWrapWidth = 72

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3B82F6")).
			Padding(0, 1)
	versionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A3E635")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	countdownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")).Bold(true)
	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2)
)

// notesRenderer returns a markdown renderer for release notes. "plain"
// disables styling, as does any renderer setup failure.
func notesRenderer(style string, width int) func(string) string {
	fallback := func(input string) string {
		return strings.TrimSpace(input)
	}

	style = strings.ToLower(strings.TrimSpace(style))
	if style == "" {
		style = "dark"
	}
	if style == "plain" {
		return fallback
	}
	if width <= 0 {
		width = defaultWrapWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}
