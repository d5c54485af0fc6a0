package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/opencode-notify/internal/health"
	"github.com/ariel-frischer/opencode-notify/internal/opencode"
	"github.com/ariel-frischer/opencode-notify/internal/platform"
)

const doctorPingTimeout = 3 * time.Second

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that notifications can be delivered",
	Long: `Run health checks to verify that notifications can be shown on this machine.

This command checks:
  - the platform is supported (macOS, Linux, Windows)
  - the notification tool is installed (osascript, notify-send, powershell)
  - the sound player and sound file, when playSound is enabled
  - the OpenCode server answers at serverURL

Each check will display a ✓ if passed or ✗ with an error message if failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(commandContext(cmd), doctorPingTimeout)
		defer cancel()

		report := health.RunHealthChecks(ctx, health.Options{
			Platform:  platform.Detect(),
			PlaySound: cfg.PlaySound,
			SoundPath: cfg.SoundPath,
			ServerURL: cfg.ServerURL,
			Server:    opencode.New(cfg.ServerURL),
		})
		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

		if !report.Passed {
			return NewExitError(ExitMissingDependency)
		}
		return nil
	},
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)
}
