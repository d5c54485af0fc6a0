// Package health implements the doctor checks: can this machine show a
// notification, play a sound, and reach the OpenCode server.
package health

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/ariel-frischer/opencode-notify/internal/notify"
	"github.com/ariel-frischer/opencode-notify/internal/platform"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Pinger reports whether the OpenCode server answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options selects what RunHealthChecks inspects.
type Options struct {
	Platform  platform.Platform
	PlaySound bool
	SoundPath string
	ServerURL string
	// Server is pinged when non-nil
	Server Pinger
	// LookPath reports whether a tool is on PATH; defaults to notify.ToolAvailable
	LookPath func(name string) bool
}

// RunHealthChecks runs all health checks and returns a report
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = notify.ToolAvailable
	}

	report := &HealthReport{
		Checks: make([]CheckResult, 0, 5),
		Passed: true,
	}
	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed {
			report.Passed = false
		}
	}

	add(CheckPlatform(opts.Platform))
	if opts.Platform.Supported() {
		add(CheckNotifier(opts.Platform, lookPath))
		if opts.PlaySound {
			add(CheckSoundPlayer(opts.Platform, lookPath))
			add(CheckSoundFile(opts.SoundPath))
		}
	}
	if opts.Server != nil {
		add(CheckServer(ctx, opts.Server, opts.ServerURL))
	}

	return report
}

// CheckPlatform checks that the OS has a notification mechanism
func CheckPlatform(p platform.Platform) CheckResult {
	if !p.Supported() {
		return CheckResult{
			Name:    "Platform",
			Passed:  false,
			Message: fmt.Sprintf("%s is not supported, notifications are disabled", p),
		}
	}
	return CheckResult{
		Name:    "Platform",
		Passed:  true,
		Message: fmt.Sprintf("%s supported", p),
	}
}

// CheckNotifier checks that the notification command is installed
func CheckNotifier(p platform.Platform, lookPath func(string) bool) CheckResult {
	tool, _ := notify.RequiredTools(p)
	if !lookPath(tool) {
		return CheckResult{
			Name:    "Notifier",
			Passed:  false,
			Message: fmt.Sprintf("%s not found in PATH", tool),
		}
	}
	return CheckResult{
		Name:    "Notifier",
		Passed:  true,
		Message: fmt.Sprintf("%s found", tool),
	}
}

// CheckSoundPlayer checks that at least one sound player is installed
func CheckSoundPlayer(p platform.Platform, lookPath func(string) bool) CheckResult {
	_, tools := notify.RequiredTools(p)
	for _, tool := range tools {
		if lookPath(tool) {
			return CheckResult{
				Name:    "Sound player",
				Passed:  true,
				Message: fmt.Sprintf("%s found", tool),
			}
		}
	}
	return CheckResult{
		Name:    "Sound player",
		Passed:  false,
		Message: fmt.Sprintf("none of %s found in PATH", strings.Join(tools, ", ")),
	}
}

// CheckSoundFile checks that the configured sound exists and has a playable extension
func CheckSoundFile(path string) CheckResult {
	if path == "" {
		return CheckResult{
			Name:    "Sound file",
			Passed:  false,
			Message: "no sound file configured",
		}
	}
	if notify.ValidateSoundFile(path, nil) == "" {
		return CheckResult{
			Name:    "Sound file",
			Passed:  false,
			Message: fmt.Sprintf("%s is missing or not a supported audio file", path),
		}
	}
	return CheckResult{
		Name:    "Sound file",
		Passed:  true,
		Message: path,
	}
}

// CheckServer checks that the OpenCode server answers
func CheckServer(ctx context.Context, server Pinger, url string) CheckResult {
	if err := server.Ping(ctx); err != nil {
		return CheckResult{
			Name:    "OpenCode server",
			Passed:  false,
			Message: fmt.Sprintf("%s unreachable: %v", url, err),
		}
	}
	return CheckResult{
		Name:    "OpenCode server",
		Passed:  true,
		Message: fmt.Sprintf("%s reachable", url),
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	var b strings.Builder
	for _, check := range report.Checks {
		if check.Passed {
			fmt.Fprintf(&b, "%s %s: %s\n", green("✓"), check.Name, check.Message)
		} else {
			fmt.Fprintf(&b, "%s %s: %s\n", red("✗"), check.Name, check.Message)
		}
	}
	return b.String()
}
