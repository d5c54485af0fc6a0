package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/opencode-notify/internal/notify"
	"github.com/ariel-frischer/opencode-notify/internal/platform"
)

// newSink builds the sink used by the test command. Replaced in tests.
var newSink = func(logger *slog.Logger) notify.Sink {
	return notify.NewExecSink(logger)
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Long: `Send one notification using the configured title, message and sound,
without waiting for an OpenCode session.`,
	Example: `  opencode-notify test
  opencode-notify test --sound`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func init() {
	testCmd.GroupID = GroupWatching
	testCmd.Flags().Bool("sound", false, "Play the sound even if playSound is false")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cmd.ErrOrStderr(), cfg)
	forceSound, _ := cmd.Flags().GetBool("sound")
	return sendTest(cmd, platform.Detect(), newSink(logger), cfg.Title, cfg.Message, cfg.PlaySound || forceSound, cfg.SoundPath)
}

func sendTest(cmd *cobra.Command, p platform.Platform, sink notify.Sink, title, message string, sound bool, soundPath string) error {
	out := cmd.OutOrStdout()
	if !p.Supported() {
		fmt.Fprintf(out, "Notifications are not supported on %s\n", p)
		return NewExitError(ExitMissingDependency)
	}

	ctx := commandContext(cmd)
	if err := sink.Notify(ctx, p, title, message); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	fmt.Fprintf(out, "Sent %q notification\n", title)

	if sound && soundPath != "" {
		sink.PlaySound(ctx, p, soundPath)
		fmt.Fprintf(out, "Played %s\n", soundPath)
	}
	return nil
}
