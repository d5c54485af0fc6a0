package progress

import (
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// ASCIIEnv forces ASCII symbols when set to "1"
const ASCIIEnv = "OPENCODE_NOTIFY_ASCII"

// DetectTerminalCapabilities inspects f, the stream the status line is
// written to. NO_COLOR and ASCIIEnv are honored.
func DetectTerminalCapabilities(f *os.File) TerminalCapabilities {
	var caps TerminalCapabilities
	if f == nil {
		return caps
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return caps
	}

	caps.IsTTY = true
	caps.SupportsColor = os.Getenv("NO_COLOR") == ""
	caps.SupportsUnicode = os.Getenv(ASCIIEnv) != "1"
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		caps.Width = w
	}
	return caps
}

// SelectSymbols picks status-line symbols for caps
func SelectSymbols(caps TerminalCapabilities) StatusSymbols {
	if !caps.SupportsUnicode {
		return StatusSymbols{Connected: "[OK]", Lost: "[FAIL]", Ellipsis: "...", SpinnerSet: 9}
	}
	// 14: braille dots
	return StatusSymbols{Connected: "✓", Lost: "✗", Ellipsis: "…", SpinnerSet: 14}
}

// fit cuts msg so that msg plus reserved leading columns fits in width.
// A zero width (pipe, unknown) leaves msg untouched.
func fit(msg string, width, reserved int, ellipsis string) string {
	if width <= 0 {
		return msg
	}
	avail := width - reserved
	if avail <= runewidth.StringWidth(ellipsis) {
		return msg
	}
	return runewidth.Truncate(msg, avail, ellipsis)
}
