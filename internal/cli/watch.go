package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/opencode-notify/internal/config"
	"github.com/ariel-frischer/opencode-notify/internal/notify"
	"github.com/ariel-frischer/opencode-notify/internal/opencode"
	"github.com/ariel-frischer/opencode-notify/internal/progress"
	"github.com/ariel-frischer/opencode-notify/internal/scheduler"
	"github.com/ariel-frischer/opencode-notify/internal/todo"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an OpenCode server and notify on idle sessions",
	Long: `Connect to the OpenCode server's event stream and show a desktop
notification when a session has stayed idle for idleConfirmationDelay
milliseconds. Sessions with unfinished todos are skipped unless
skipIfIncompleteTodos is false.

The stream is reconnected automatically if the server restarts.
Stop with Ctrl+C.`,
	Example: `  opencode-notify watch
  opencode-notify watch --server http://127.0.0.1:4000 --debug`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.GroupID = GroupWatching
	addWatchFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func addWatchFlags(cmd *cobra.Command) {
	cmd.Flags().String("server", "", "OpenCode server URL (overrides serverURL)")
	cmd.Flags().Bool("quiet", false, "Do not show connection status")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.ServerURL = server
	}

	logger := newLogger(cmd, cmd.ErrOrStderr(), cfg)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var onState func(bool)
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		status := progress.NewStatusDisplay(progress.DetectTerminalCapabilities(os.Stderr), cfg.ServerURL)
		status.Connecting()
		defer status.Stop()
		onState = status.SetConnected
	}

	return watch(ctx, cfg, notify.NewExecSink(logger), logger, onState)
}

// watch wires the OpenCode client, todo gate and scheduler together and runs
// until ctx is cancelled. Cancellation is a clean exit.
func watch(ctx context.Context, cfg *config.Configuration, sink notify.Sink, logger *slog.Logger, onState func(bool), opts ...scheduler.Option) error {
	client := opencode.New(cfg.ServerURL)

	var gate todo.Checker
	if cfg.SkipIfIncompleteTodos {
		gate = todo.NewGate(client, logger)
	}

	sched := scheduler.New(cfg.Scheduler(), sink, gate, append([]scheduler.Option{scheduler.WithLogger(logger)}, opts...)...)
	defer sched.Close()

	if !sched.Platform().Supported() {
		logger.Warn("platform not supported, notifications are disabled", "platform", sched.Platform())
	}
	logger.Info("watching OpenCode server",
		"server", cfg.ServerURL,
		"delay", cfg.Delay(),
		"skip_incomplete_todos", cfg.SkipIfIncompleteTodos,
		"sound", cfg.PlaySound)

	err := client.Subscribe(ctx, logger, sched.Handle, onState)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Info("stopped watching", "tracked_sessions", sched.Sessions())
		return nil
	}
	if err != nil {
		return fmt.Errorf("watching %s: %w", cfg.ServerURL, err)
	}
	return nil
}
