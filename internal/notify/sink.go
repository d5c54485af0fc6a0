package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"github.com/ariel-frischer/opencode-notify/internal/platform"
)

// Sink performs the OS-specific notification actions.
type Sink interface {
	// Notify surfaces a desktop notification carrying title and message.
	Notify(ctx context.Context, p platform.Platform, title, message string) error

	// PlaySound plays the audio file at path. Failures are swallowed.
	PlaySound(ctx context.Context, p platform.Platform, path string)
}

// Runner runs an external command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner runs commands with os/exec
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// ExecSink implements Sink by shelling out to native OS tools
type ExecSink struct {
	runner Runner
	logger *slog.Logger
}

// NewExecSink creates a sink backed by os/exec.
func NewExecSink(logger *slog.Logger) *ExecSink {
	return NewExecSinkWithRunner(execRunner{}, logger)
}

// NewExecSinkWithRunner creates a sink with a custom command runner (for testing).
func NewExecSinkWithRunner(runner Runner, logger *slog.Logger) *ExecSink {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ExecSink{runner: runner, logger: logger}
}

// Notify issues the platform's notification command.
// Unsupported platforms are a no-op.
func (s *ExecSink) Notify(ctx context.Context, p platform.Platform, title, message string) error {
	name, args := notifyCommand(p, title, message)
	if name == "" {
		return nil
	}
	if err := s.runner.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}

// PlaySound plays path with the platform's audio tool. On Linux a failed
// paplay falls back to aplay.
func (s *ExecSink) PlaySound(ctx context.Context, p platform.Platform, path string) {
	validated := ValidateSoundFile(path, s.logger)
	if validated == "" {
		return
	}

	switch p {
	case platform.Darwin:
		s.runQuietly(ctx, "afplay", validated)
	case platform.Linux:
		if err := s.runner.Run(ctx, "paplay", validated); err != nil {
			s.logger.Debug("paplay failed, trying aplay", "path", validated, "error", err)
			s.runQuietly(ctx, "aplay", validated)
		}
	case platform.Windows:
		script := fmt.Sprintf(`
$player = New-Object System.Media.SoundPlayer
$player.SoundLocation = '%s'
$player.PlaySync()
`, escapeForPowerShell(validated))
		s.runQuietly(ctx, "powershell", powershellArgs(script)...)
	}
}

func (s *ExecSink) runQuietly(ctx context.Context, name string, args ...string) {
	if err := s.runner.Run(ctx, name, args...); err != nil {
		s.logger.Debug("sound playback failed", "command", name, "error", err)
	}
}

// notifyCommand builds the command line for a visual notification.
// It returns an empty name for unsupported platforms.
func notifyCommand(p platform.Platform, title, message string) (string, []string) {
	switch p {
	case platform.Darwin:
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(message), escapeAppleScript(title))
		return "osascript", []string{"-e", script}
	case platform.Linux:
		return "notify-send", []string{title, message}
	case platform.Windows:
		script := fmt.Sprintf(`
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$textNodes = $template.GetElementsByTagName('text')
$textNodes.Item(0).AppendChild($template.CreateTextNode('%s')) | Out-Null
$textNodes.Item(1).AppendChild($template.CreateTextNode('%s')) | Out-Null
$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('opencode-notify').Show($toast)
`, escapeForPowerShell(title), escapeForPowerShell(message))
		return "powershell", powershellArgs(script)
	default:
		return "", nil
	}
}

func powershellArgs(script string) []string {
	return []string{"-ExecutionPolicy", "Bypass", "-NoProfile", "-Command", script}
}

// RequiredTools lists the commands a platform needs for notifications and sound.
func RequiredTools(p platform.Platform) (visual string, sound []string) {
	switch p {
	case platform.Darwin:
		return "osascript", []string{"afplay"}
	case platform.Linux:
		return "notify-send", []string{"paplay", "aplay"}
	case platform.Windows:
		return "powershell", []string{"powershell"}
	default:
		return "", nil
	}
}

// ToolAvailable checks if a command-line tool is available in PATH
func ToolAvailable(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}
