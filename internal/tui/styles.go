// Package tui is the interactive employee browser.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/noah-isme/employee-admin-client/internal/models"
)

var (
	lightForeground = lipgloss.Color("#101F38")
	lightMuted      = lipgloss.Color("#6b7280")
	lightBorder     = lipgloss.Color("#dce0e5")
	lightAccent     = lipgloss.Color("#1565c0")

	darkForeground = lipgloss.Color("#f2f2f2")
	darkMuted      = lipgloss.Color("#9ca3af")
	darkBorder     = lipgloss.Color("#2a3850")
	darkAccent     = lipgloss.Color("#8BC34A")

	colorSuccess = lipgloss.Color("#2e7d32")
	colorError   = lipgloss.Color("#e53935")
)

// Styles are the lipgloss styles of one theme mode.
type Styles struct {
	Mode     models.ThemeMode
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds the styles for mode.
func NewStyles(mode models.ThemeMode) Styles {
	fg, muted, border, accent := lightForeground, lightMuted, lightBorder, lightAccent
	if mode == models.ThemeDark {
		fg, muted, border, accent = darkForeground, darkMuted, darkBorder, darkAccent
	} else {
		mode = models.ThemeLight
	}
	return Styles{
		Mode:     mode,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(fg),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Accent:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		Card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1).Width(26),
		Selected: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1).Width(26),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(colorSuccess).Padding(0, 1),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(colorError).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}

// Notification renders n with its severity colour.
func (s Styles) Notification(n models.Notification) string {
	if n.Severity == models.SeverityError {
		return s.Error.Render(n.Message)
	}
	return s.Success.Render(n.Message)
}
