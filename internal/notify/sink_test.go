package notify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/opencode-notify/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSound(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
	return path
}

func TestExecSink_Notify(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		platform    platform.Platform
		wantCommand string
		wantArgs    func(t *testing.T, args []string)
	}{
		"darwin uses osascript with escaped quotes": {
			platform:    platform.Darwin,
			wantCommand: "osascript",
			wantArgs: func(t *testing.T, args []string) {
				require.Len(t, args, 2)
				assert.Equal(t, "-e", args[0])
				assert.Equal(t, `display notification "say \"hi\"" with title "Open\\Code"`, args[1])
			},
		},
		"linux passes argv to notify-send": {
			platform:    platform.Linux,
			wantCommand: "notify-send",
			wantArgs: func(t *testing.T, args []string) {
				assert.Equal(t, []string{`Open\Code`, `say "hi"`}, args)
			},
		},
		"windows builds a powershell toast": {
			platform:    platform.Windows,
			wantCommand: "powershell",
			wantArgs: func(t *testing.T, args []string) {
				require.Len(t, args, 5)
				assert.Equal(t, "-Command", args[3])
				assert.Contains(t, args[4], `CreateTextNode('say "hi"')`)
				assert.Contains(t, args[4], "CreateToastNotifier('opencode-notify')")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			runner := NewMockRunner()
			sink := NewExecSinkWithRunner(runner, nil)

			err := sink.Notify(context.Background(), tt.platform, `Open\Code`, `say "hi"`)
			require.NoError(t, err)
			require.Len(t, runner.Calls, 1)
			assert.Equal(t, tt.wantCommand, runner.Calls[0].Name)
			tt.wantArgs(t, runner.Calls[0].Args)
		})
	}
}

func TestExecSink_NotifyUnsupportedIsNoop(t *testing.T) {
	t.Parallel()
	runner := NewMockRunner()
	sink := NewExecSinkWithRunner(runner, nil)

	require.NoError(t, sink.Notify(context.Background(), platform.Unsupported, "t", "m"))
	assert.Empty(t, runner.Calls)
}

func TestExecSink_NotifyReturnsCommandError(t *testing.T) {
	t.Parallel()
	runner := NewMockRunner().WithError("notify-send", errMockCommand)
	sink := NewExecSinkWithRunner(runner, nil)

	err := sink.Notify(context.Background(), platform.Linux, "t", "m")
	require.Error(t, err)
	assert.ErrorIs(t, err, errMockCommand)
}

func TestExecSink_PlaySound(t *testing.T) {
	t.Parallel()
	sound := writeSound(t, "ding.wav")

	tests := map[string]struct {
		platform platform.Platform
		runner   *MockRunner
		want     []string
	}{
		"darwin plays with afplay": {
			platform: platform.Darwin,
			runner:   NewMockRunner(),
			want:     []string{"afplay"},
		},
		"linux plays with paplay": {
			platform: platform.Linux,
			runner:   NewMockRunner(),
			want:     []string{"paplay"},
		},
		"linux falls back to aplay": {
			platform: platform.Linux,
			runner:   NewMockRunner().WithError("paplay", errMockCommand),
			want:     []string{"paplay", "aplay"},
		},
		"linux swallows fallback failure": {
			platform: platform.Linux,
			runner: NewMockRunner().
				WithError("paplay", errMockCommand).
				WithError("aplay", errMockCommand),
			want: []string{"paplay", "aplay"},
		},
		"windows plays with powershell": {
			platform: platform.Windows,
			runner:   NewMockRunner(),
			want:     []string{"powershell"},
		},
		"unsupported does nothing": {
			platform: platform.Unsupported,
			runner:   NewMockRunner(),
			want:     []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			sink := NewExecSinkWithRunner(tt.runner, nil)
			sink.PlaySound(context.Background(), tt.platform, sound)
			assert.Equal(t, tt.want, tt.runner.Names())
		})
	}
}

func TestExecSink_PlaySoundSkipsInvalidFile(t *testing.T) {
	t.Parallel()
	runner := NewMockRunner()
	sink := NewExecSinkWithRunner(runner, nil)

	sink.PlaySound(context.Background(), platform.Linux, "/path/to/nonexistent/file.wav")
	sink.PlaySound(context.Background(), platform.Linux, "")
	assert.Empty(t, runner.Calls)
}

func TestRequiredTools(t *testing.T) {
	t.Parallel()
	visual, sound := RequiredTools(platform.Linux)
	assert.Equal(t, "notify-send", visual)
	assert.Equal(t, []string{"paplay", "aplay"}, sound)

	visual, sound = RequiredTools(platform.Unsupported)
	assert.Empty(t, visual)
	assert.Empty(t, sound)
}

func TestToolAvailable(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		tool     string
		expected bool
	}{
		"should find go in test environment": {tool: "go", expected: true},
		"should not find nonexistent tool":   {tool: "nonexistent_tool_12345", expected: false},
		"empty string returns false":         {tool: "", expected: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ToolAvailable(tt.tool))
		})
	}
}
