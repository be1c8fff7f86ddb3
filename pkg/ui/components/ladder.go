// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// LevelRow represents one price/volume level in the ladder.
type LevelRow struct {
	Price  float64
	Volume string
}

// LadderComponent renders a two-sided bid/ask orderbook ladder.
type LadderComponent struct {
	bids    []LevelRow
	asks    []LevelRow
	maxRows int
}

// NewLadderComponent creates a new ladder component showing up to
// maxRows levels per side.
func NewLadderComponent(maxRows int) *LadderComponent {
	return &LadderComponent{maxRows: maxRows}
}

// Set replaces the displayed bid/ask levels.
func (l *LadderComponent) Set(bids, asks []LevelRow) {
	l.bids = truncate(bids, l.maxRows)
	l.asks = truncate(asks, l.maxRows)
}

// Clear empties the ladder.
func (l *LadderComponent) Clear() {
	l.bids = nil
	l.asks = nil
}

func truncate(rows []LevelRow, max int) []LevelRow {
	if len(rows) <= max {
		return rows
	}
	return rows[:max]
}

// View renders the ladder component: asks and bids side by side in two
// columns, row i holding the i-th level of each side in the order given
// to Set.
func (l *LadderComponent) View() string {
	if len(l.bids) == 0 && len(l.asks) == 0 {
		return "No orderbook data yet..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	askStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	bidStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	result := headerStyle.Render(fmt.Sprintf("LADDER (top %d)\n", l.maxRows))
	result += "┌─────────────────────┬─────────────────────┐\n"
	result += "│        Asks         │        Bids         │\n"
	result += "├─────────────────────┼─────────────────────┤\n"

	rows := len(l.asks)
	if len(l.bids) > rows {
		rows = len(l.bids)
	}
	for i := 0; i < rows; i++ {
		askCell := "                     "
		if i < len(l.asks) {
			askCell = askStyle.Render(fmt.Sprintf("%10.6f %8s", l.asks[i].Price, l.asks[i].Volume))
		}
		bidCell := "                     "
		if i < len(l.bids) {
			bidCell = bidStyle.Render(fmt.Sprintf("%10.6f %8s", l.bids[i].Price, l.bids[i].Volume))
		}
		result += fmt.Sprintf("│ %-19s │ %-19s │\n", askCell, bidCell)
	}

	result += "└─────────────────────┴─────────────────────┘"
	return result
}
