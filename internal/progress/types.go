// Package progress renders the watch command's connection status on the
// terminal: a spinner while connecting, a mark once the event stream is up.
package progress

// ConnectionState is the state of the event stream as shown to the user
type ConnectionState int

const (
	// StateConnecting indicates the first connection attempt is in progress
	StateConnecting ConnectionState = iota
	// StateConnected indicates the event stream is live
	StateConnected
	// StateReconnecting indicates the stream dropped and is being retried
	StateReconnecting
	// StateStopped indicates the display has been shut down
	StateStopped
)

// String returns the string representation of ConnectionState
func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether stderr is a terminal (vs pipe/redirect)
	IsTTY bool
	// SupportsColor indicates whether terminal supports ANSI color codes
	SupportsColor bool
	// SupportsUnicode indicates whether terminal supports Unicode characters
	SupportsUnicode bool
	// Width is the terminal width in columns (0 if unknown/pipe); status
	// lines are cut to fit
	Width int
}

// StatusSymbols is the character set of the status line
type StatusSymbols struct {
	// Connected marks a live stream ("✓" or "[OK]")
	Connected string
	// Lost marks a dropped stream ("✗" or "[FAIL]")
	Lost string
	// Ellipsis ends a message cut to the terminal width
	Ellipsis string
	// SpinnerSet is the index into spinner.CharSets
	SpinnerSet int
}
