// Package ui provides terminal user interface components for the streaks app.
package ui

import (
	"fmt"
	"strings"

	"streaks/internal/stats"

	tea "github.com/charmbracelet/bubbletea"
)

// StatsPane shows the aggregate statistics for the whole tracker history.
type StatsPane struct {
	engine  *stats.Engine
	styles  *Styles
	focused bool
	width   int
	height  int

	data   stats.StatisticsData
	loaded bool
}

// NewStatsPane creates a new statistics pane.
func NewStatsPane(engine *stats.Engine, styles *Styles) *StatsPane {
	return &StatsPane{
		engine: engine,
		styles: styles,
	}
}

// LoadStatsCmd returns a command that computes current statistics.
func (p *StatsPane) LoadStatsCmd() tea.Cmd {
	return calcStatsCmd(p.engine)
}

// SetSize sets the pane dimensions.
func (p *StatsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *StatsPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *StatsPane) IsFocused() bool {
	return p.focused
}

// Data returns the last computed statistics.
func (p *StatsPane) Data() stats.StatisticsData {
	return p.data
}

// Update handles messages for the statistics pane.
func (p *StatsPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case statsCalculatedMsg:
		p.data = msg.data
		p.loaded = true
		return nil
	}
	return nil
}

// View renders the statistics pane.
func (p *StatsPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("📊 STATISTICS"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n\n")

	if !p.loaded {
		b.WriteString("  " + p.styles.PlaceholderStyle.Render("Calculating...") + "\n")
	} else {
		b.WriteString(p.renderMetric("Best period", stats.FormatMetric(p.data.BestPeriod), "days"))
		b.WriteString(p.renderMetric("Perfect days", stats.FormatMetric(p.data.PerfectDays), ""))
		b.WriteString(p.renderMetric("Trackers completed", stats.FormatMetric(p.data.CompletedTrackers), ""))
		b.WriteString(p.renderMetric("Average value", stats.FormatAverage(p.data.AverageValue), "per day"))
	}

	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(content)
}

func (p *StatsPane) renderMetric(label, value, unit string) string {
	line := fmt.Sprintf("  %s %s",
		p.styles.StatValueStyle.Render(value),
		p.styles.StatLabelStyle.Render(label))
	if unit != "" {
		line += " " + p.styles.StatLabelStyle.Render(unit)
	}
	return line + "\n"
}
