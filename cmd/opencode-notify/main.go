// opencode-notify - Desktop notifications for idle OpenCode sessions
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/opencode-notify

package main

import (
	"os"

	"github.com/ariel-frischer/opencode-notify/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
