// Package ui provides the Bubble Tea TUI for the pricegraph ladder
// viewer.
package ui

import "time"

// Message types for TUI updates.

// LadderMsg is sent when a fresh bid/ask ladder snapshot arrives over
// the stream.
type LadderMsg struct {
	Market string
	Bids   []LadderEntry
	Asks   []LadderEntry
}

// LadderEntry is one price/volume level decoded from the stream payload.
type LadderEntry struct {
	Price  float64
	Volume string // pre-formatted by the server (atoms string or float text)
}

// ConnectionStatusMsg is sent when the stream connection state changes.
type ConnectionStatusMsg struct {
	Connected bool
	Status    string
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically to drive animations.
type TickMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// errorEntry pairs an error with the time it was recorded, used by the
// model's persistent error panel.
type errorEntry struct {
	Message   string
	Timestamp time.Time
}
