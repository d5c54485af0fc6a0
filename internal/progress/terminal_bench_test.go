package progress_test

import (
	"os"
	"testing"

	"github.com/ariel-frischer/opencode-notify/internal/progress"
)

func BenchmarkDetectTerminalCapabilities(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = progress.DetectTerminalCapabilities(os.Stderr)
	}
}

func BenchmarkSelectSymbols(b *testing.B) {
	caps := progress.TerminalCapabilities{
		IsTTY:           true,
		SupportsColor:   true,
		SupportsUnicode: true,
		Width:           80,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = progress.SelectSymbols(caps)
	}
}
