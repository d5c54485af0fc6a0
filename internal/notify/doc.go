// Package notify surfaces desktop notifications and plays sounds through the
// host operating system's own tools.
//
// Only os/exec is used to reach the OS, which keeps the binary CGO_ENABLED=0
// compatible:
//
//   - macOS: osascript for visual notifications, afplay for sound
//   - Linux: notify-send for visual notifications, paplay (then aplay) for sound
//   - Windows: PowerShell for toast notifications and sound
//
// Sound playback is best-effort and never returns an error. Visual
// notification errors are returned so the caller can decide whether to
// continue with the sound.
//
// # Usage
//
//	sink := notify.NewExecSink(logger)
//	if err := sink.Notify(ctx, platform.Detect(), "OpenCode", "Agent is ready for input"); err == nil {
//		sink.PlaySound(ctx, platform.Detect(), platform.DefaultSoundPath(platform.Detect()))
//	}
package notify
