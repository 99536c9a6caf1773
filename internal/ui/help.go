// Package ui provides terminal user interface components for the streaks app.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay is a full-screen keyboard reference toggled with '?'.
type HelpOverlay struct {
	styles  *Styles
	keys    HelpKeyMap
	visible bool
	width   int
	height  int
}

// NewHelpOverlay creates a help overlay.
func NewHelpOverlay(styles *Styles) *HelpOverlay {
	return &HelpOverlay{
		styles: styles,
		keys:   DefaultHelpKeyMap(),
	}
}

// SetSize sets the overlay dimensions.
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Toggle flips overlay visibility.
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// IsVisible reports whether the overlay is shown.
func (h *HelpOverlay) IsVisible() bool {
	return h.visible
}

// Update handles messages while the overlay is visible. Returns true when the
// message was consumed.
func (h *HelpOverlay) Update(msg tea.Msg) bool {
	if !h.visible {
		return false
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, h.keys.Close) {
			h.visible = false
		}
		return true
	}
	return false
}

type helpRow struct {
	keys string
	desc string
}

// View renders the overlay centered in the available space.
func (h *HelpOverlay) View() string {
	var b strings.Builder

	b.WriteString(h.styles.TitleStyle.Render(" Keyboard Reference "))
	b.WriteString("\n\n")

	b.WriteString(h.renderSection("Global", []helpRow{
		{"tab", "switch pane"},
		{"1 / 2", "jump to trackers / statistics"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}))

	b.WriteString(h.renderSection("Trackers", []helpRow{
		{"j/k, ↑/↓", "move cursor"},
		{"d, enter, space", "toggle completion"},
		{"a", "add tracker"},
		{"e", "edit tracker"},
		{"x", "delete tracker"},
		{"p", "pin / unpin"},
		{"/", "search"},
		{"f", "cycle filter"},
		{"h/l, ←/→", "previous / next day"},
		{"t", "jump to today"},
	}))

	b.WriteString(h.renderSection("Input Mode", []helpRow{
		{"enter", "confirm"},
		{"esc", "cancel"},
	}))

	b.WriteString("\n" + h.styles.HelpStyle.Render("press ? or esc to close"))

	box := h.styles.PaneFocusedStyle.Padding(1, 3).Render(b.String())
	if h.width > 0 && h.height > 0 {
		return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (h *HelpOverlay) renderSection(title string, rows []helpRow) string {
	var b strings.Builder
	b.WriteString(h.styles.GroupTitleStyle.Render(title))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("  ")
		b.WriteString(h.styles.HelpKeyStyle.Render(padRight(row.keys, 16)))
		b.WriteString(h.styles.HelpStyle.Render(row.desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
