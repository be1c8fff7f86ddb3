// Package ui provides the Bubble Tea TUI for the pricegraph ladder
// viewer.
package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pricegraph/pricegraph/pkg/ui/components"
)

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	market components.MarketComponent
	ladder *components.LadderComponent
	status *components.StatusComponent
	stats  *components.StatsComponent

	keys KeyMap

	pair  string
	hops  int
	atoms bool

	ready    bool
	quitting bool
	paused   bool
	width    int
	height   int

	connected  bool
	lastUpdate time.Time
	errorMsg   string
	errors     []errorEntry
	logs       []string

	updatesReceived int64
	reconnects      int64
	errorCount      int64
}

// New creates a new TUI model watching the given market with the
// given initial hop bound.
func New(pair string, hops int) Model {
	return Model{
		market: *components.NewMarketComponent(),
		ladder: components.NewLadderComponent(10),
		status: components.NewStatusComponent(),
		stats:  components.NewStatsComponent(),
		keys:   DefaultKeyMap(),
		pair:   pair,
		hops:   hops,
		logs:   make([]string, 0, 10),
		errors: make([]errorEntry, 0, 3),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// HopsChanged, if set, is called with the new value whenever the user
// changes the hop bound.
var HopsChanged func(hops int)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.errors = make([]errorEntry, 0, 3)
			m.errorMsg = ""
			return m, nil
		case key.Matches(msg, m.keys.Atoms):
			m.atoms = !m.atoms
			return m, nil
		case key.Matches(msg, m.keys.HopsUp):
			m.hops++
			if HopsChanged != nil {
				go HopsChanged(m.hops)
			}
			return m, nil
		case key.Matches(msg, m.keys.HopsDown):
			if m.hops > 0 {
				m.hops--
				if HopsChanged != nil {
					go HopsChanged(m.hops)
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		return m, tickCmd()

	case LadderMsg:
		if m.paused {
			return m, nil
		}
		bids := toRows(msg.Bids)
		asks := toRows(msg.Asks)
		m.ladder.Set(bids, asks)

		m.market.SetPair(msg.Market)
		m.market.SetHops(m.hops)
		var bestBid, bestAsk float64
		hasBid, hasAsk := len(bids) > 0, len(asks) > 0
		if hasBid {
			bestBid = bids[0].Price
		}
		if hasAsk {
			bestAsk = asks[0].Price
		}
		m.market.Update(bestBid, bestAsk, hasBid, hasAsk)

		m.updatesReceived++
		m.lastUpdate = time.Now()
		m.stats.Update(components.Stats{
			UpdatesReceived: m.updatesReceived,
			Reconnects:      m.reconnects,
			Errors:          m.errorCount,
		})

	case ConnectionStatusMsg:
		m.connected = msg.Connected
		m.status.Update(components.ConnectionStatus{
			Name:       "price service",
			Connected:  msg.Connected,
			LastUpdate: time.Now(),
		})
		if !msg.Connected {
			m.reconnects++
		}

	case ErrorMsg:
		m.errorMsg = msg.Error.Error()
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.errorCount++
		m.errors = append(m.errors, errorEntry{Message: msg.Error.Error(), Timestamp: time.Now()})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)
	}

	return m, nil
}

func toRows(in []LadderEntry) []components.LevelRow {
	rows := make([]components.LevelRow, len(in))
	for i, e := range in {
		rows[i] = components.LevelRow{Price: e.Price, Volume: e.Volume}
	}
	return rows
}

func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logs = append(logs, fmt.Sprintf("[%s] %s: %s", timestamp, level, message))
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	var b strings.Builder

	title := TitleStyle.Render(" pricegraph ladder viewer ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	leftCol := m.market.View() + "\n\n" + m.status.View()
	rightCol := m.ladder.View() + "\n\n" + m.stats.View()

	if m.width > 100 {
		left := BoxStyle.Width(m.width/2 - 2).Render(leftCol)
		right := BoxStyle.Width(m.width/2 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}
	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedError := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (c: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	helpText := "q: quit • p: pause • [/]: hops • a: atoms • c: clear errors"
	if m.paused {
		pauseStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
		b.WriteString(pauseStyle.Render("PAUSED"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	pairStr := "market: " + m.pair
	parts = append(parts, pairStr)
	parts = append(parts, fmt.Sprintf("hops: %s", strconv.Itoa(m.hops)))
	parts = append(parts, fmt.Sprintf("atoms: %v", m.atoms))

	if m.connected {
		parts = append(parts, StatusConnected.Render("● connected"))
	} else {
		parts = append(parts, StatusDisconnected.Render("○ disconnected"))
	}

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("updated %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// Run starts the Bubble Tea program.
func Run(pair string, hops int) error {
	Program = tea.NewProgram(New(pair, hops), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
