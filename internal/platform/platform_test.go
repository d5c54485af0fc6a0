package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromGOOS(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		goos     string
		expected Platform
	}{
		"darwin":  {goos: "darwin", expected: Darwin},
		"linux":   {goos: "linux", expected: Linux},
		"windows": {goos: "windows", expected: Windows},
		"freebsd": {goos: "freebsd", expected: Unsupported},
		"plan9":   {goos: "plan9", expected: Unsupported},
		"empty":   {goos: "", expected: Unsupported},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FromGOOS(tt.goos))
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()
	assert.Equal(t, FromGOOS(runtime.GOOS), Detect())
}

func TestSupported(t *testing.T) {
	t.Parallel()
	assert.True(t, Darwin.Supported())
	assert.True(t, Linux.Supported())
	assert.True(t, Windows.Supported())
	assert.False(t, Unsupported.Supported())
	assert.False(t, Platform("beos").Supported())
}

func TestDefaultSoundPath(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		platform Platform
		expected string
	}{
		"darwin":      {platform: Darwin, expected: DefaultDarwinSound},
		"linux":       {platform: Linux, expected: DefaultLinuxSound},
		"windows":     {platform: Windows, expected: DefaultWindowsSound},
		"unsupported": {platform: Unsupported, expected: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, DefaultSoundPath(tt.platform))
		})
	}
}
