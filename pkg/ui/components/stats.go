// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds stream statistics for display.
type Stats struct {
	UpdatesReceived int64
	Reconnects      int64
	AvgLatencyMs    float64
	Errors          int64
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	if s.stats.Errors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Updates received: %s  │  Reconnects: %s  │  Avg latency: %s  │  Errors: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.UpdatesReceived)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Reconnects)),
			valueStyle.Render(fmt.Sprintf("%.0fms", s.stats.AvgLatencyMs)),
			errorsDisplay,
		)
}
