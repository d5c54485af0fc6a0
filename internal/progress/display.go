package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// StatusDisplay shows the event stream connection state. It is safe for
// concurrent use; Subscribe reports state changes from its own goroutine.
type StatusDisplay struct {
	capabilities TerminalCapabilities
	symbols      StatusSymbols
	out          io.Writer
	target       string

	mu      sync.Mutex
	state   ConnectionState
	spinner *spinner.Spinner
}

// NewStatusDisplay creates a display writing to stderr. target names the
// server being watched.
func NewStatusDisplay(caps TerminalCapabilities, target string) *StatusDisplay {
	return NewStatusDisplayTo(os.Stderr, caps, target)
}

// NewStatusDisplayTo creates a display writing to out.
func NewStatusDisplayTo(out io.Writer, caps TerminalCapabilities, target string) *StatusDisplay {
	return &StatusDisplay{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          out,
		target:       target,
		state:        StateStopped,
	}
}

// State returns the currently displayed state
func (d *StatusDisplay) State() ConnectionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Connecting starts the initial "connecting" indicator.
func (d *StatusDisplay) Connecting() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transition(StateConnecting, fmt.Sprintf("Connecting to %s", d.target))
}

// SetConnected reports a connect (true) or a lost stream (false). It has
// the shape Subscribe expects for its state callback.
func (d *StatusDisplay) SetConnected(connected bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if connected {
		d.stopSpinner()
		d.state = StateConnected
		d.printMarked(d.symbols.Connected, color.FgGreen, fmt.Sprintf("Watching %s for idle sessions", d.target))
		return
	}
	if d.state == StateReconnecting {
		return
	}
	if d.state == StateConnected {
		d.printMarked(d.symbols.Lost, color.FgRed, fmt.Sprintf("Lost connection to %s", d.target))
	}
	d.transition(StateReconnecting, fmt.Sprintf("Reconnecting to %s", d.target))
}

// Stop clears any spinner. Further updates are still printed.
func (d *StatusDisplay) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopSpinner()
	d.state = StateStopped
}

// transition switches to a waiting state. Caller holds mu.
func (d *StatusDisplay) transition(state ConnectionState, msg string) {
	d.stopSpinner()
	d.state = state

	if !d.capabilities.IsTTY {
		fmt.Fprintln(d.out, msg+"...")
		return
	}
	// spinner frame plus one space
	msg = fit(msg, d.capabilities.Width, 2, d.symbols.Ellipsis)
	d.spinner = spinner.New(
		spinner.CharSets[d.symbols.SpinnerSet],
		100*time.Millisecond,
	)
	d.spinner.Writer = d.out
	d.spinner.Suffix = " " + msg
	d.spinner.Start()
}

// stopSpinner stops the spinner if running. Caller holds mu.
func (d *StatusDisplay) stopSpinner() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

// printMarked prints one symbol-prefixed line cut to the terminal width.
// Caller holds mu.
func (d *StatusDisplay) printMarked(symbol string, attr color.Attribute, msg string) {
	msg = fit(msg, d.capabilities.Width, runewidth.StringWidth(symbol)+1, d.symbols.Ellipsis)
	fmt.Fprintf(d.out, "%s %s\n", d.mark(symbol, attr), msg)
}

// mark colors a symbol when the terminal supports it
func (d *StatusDisplay) mark(symbol string, attr color.Attribute) string {
	if !d.capabilities.SupportsColor {
		return symbol
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(symbol)
}
