// opencode-notify - Desktop notifications for idle OpenCode sessions
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/opencode-notify

// Package cli provides the Cobra-based commands for opencode-notify: the
// watch loop that turns OpenCode server events into desktop notifications,
// and the helpers around it (test, config, doctor, version).
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/opencode-notify/internal/config"
)

// Command group IDs for organizing help output
const (
	GroupWatching      = "watching"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "opencode-notify",
	Short: "Desktop notifications when OpenCode is waiting for you",
	Long: `opencode-notify watches a running OpenCode server and shows a desktop
notification (optionally with a sound) when a session goes idle and stays idle.

Running without a subcommand is the same as 'opencode-notify watch'.

Source: https://github.com/ariel-frischer/opencode-notify`,
	Example: `  # Watch the local OpenCode server
  opencode-notify

  # Watch a server on another port
  opencode-notify watch --server http://127.0.0.1:4000

  # Check that notifications can be shown
  opencode-notify doctor
  opencode-notify test`,
	SilenceUsage: true,
	RunE:         runWatch,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupWatching, Title: "Watching:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})
	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultProjectConfigPath, "Path to project config file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	addWatchFlags(rootCmd)
}

// loadConfig loads configuration honoring the --config flag
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// newLogger builds the process logger. --debug wins over the configured level.
func newLogger(cmd *cobra.Command, w io.Writer, cfg *config.Configuration) *slog.Logger {
	level := cfg.SlogLevel()
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
