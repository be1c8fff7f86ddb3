// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MarketComponent renders a best-bid/best-ask/spread summary line for
// the market currently being watched.
type MarketComponent struct {
	pair    string
	hops    int
	bestBid float64
	bestAsk float64
	hasBid  bool
	hasAsk  bool
}

// NewMarketComponent creates a new market summary component.
func NewMarketComponent() *MarketComponent {
	return &MarketComponent{pair: "?-?"}
}

// SetPair sets the base-quote pair name shown in the header.
func (m *MarketComponent) SetPair(pair string) {
	m.pair = pair
}

// SetHops sets the hop bound used for the current query.
func (m *MarketComponent) SetHops(hops int) {
	m.hops = hops
}

// Update records the best bid/ask seen on the current ladder.
func (m *MarketComponent) Update(bestBid, bestAsk float64, hasBid, hasAsk bool) {
	m.bestBid, m.bestAsk, m.hasBid, m.hasAsk = bestBid, bestAsk, hasBid, hasAsk
}

// View renders the market summary component.
func (m *MarketComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	bidStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	askStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("MARKET %s (hops=%d)", m.pair, m.hops)))
	b.WriteString("\n\n")

	if !m.hasBid && !m.hasAsk {
		b.WriteString(dimStyle.Render("  no path found at this hop bound"))
		return b.String()
	}

	if m.hasBid {
		b.WriteString(fmt.Sprintf("  best bid: %s\n", bidStyle.Render(fmt.Sprintf("%.6f", m.bestBid))))
	} else {
		b.WriteString(dimStyle.Render("  best bid: none\n"))
	}

	if m.hasAsk {
		b.WriteString(fmt.Sprintf("  best ask: %s\n", askStyle.Render(fmt.Sprintf("%.6f", m.bestAsk))))
	} else {
		b.WriteString(dimStyle.Render("  best ask: none\n"))
	}

	if m.hasBid && m.hasAsk && m.bestBid > 0 {
		spreadBps := (m.bestAsk - m.bestBid) / m.bestBid * 10000
		b.WriteString(fmt.Sprintf("  spread: %s\n", dimStyle.Render(fmt.Sprintf("%.1f bps", spreadBps))))
	}

	return b.String()
}
