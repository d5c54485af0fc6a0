package cli

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrintPlainVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	printPlainVersion(&buf)

	assert.Contains(t, buf.String(), "opencode-notify "+Version)
	assert.Contains(t, buf.String(), "commit: "+Commit)
	assert.Contains(t, buf.String(), "go: "+runtime.Version())
	assert.Contains(t, buf.String(), "platform: "+runtime.GOOS+"/"+runtime.GOARCH)
}

func TestPrintPrettyVersion(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printPrettyVersion(&buf)

	assert.Contains(t, buf.String(), "opencode-notify "+Version)
	assert.Contains(t, buf.String(), SourceURL)
}
