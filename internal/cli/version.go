package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/opencode-notify"

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for opencode-notify",
	Example: `  # Show version info
  opencode-notify version

  # Plain output (for scripts)
  opencode-notify version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			printPlainVersion(cmd.OutOrStdout())
		} else {
			printPrettyVersion(cmd.OutOrStdout())
		}
	},
}

func init() {
	versionCmd.GroupID = GroupConfiguration
	versionCmd.Flags().Bool("plain", false, "Plain output without formatting")
	rootCmd.AddCommand(versionCmd)
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "opencode-notify %s\n", Version)
	fmt.Fprintf(w, "commit: %s\n", Commit)
	fmt.Fprintf(w, "built: %s\n", BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints a colored, labelled version block
func printPrettyVersion(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", cyan("opencode-notify"), white(Version))
	fmt.Fprintf(w, "  %s %s\n", dim("Commit:  "), Commit)
	fmt.Fprintf(w, "  %s %s\n", dim("Built:   "), BuildDate)
	fmt.Fprintf(w, "  %s %s\n", dim("Go:      "), runtime.Version())
	fmt.Fprintf(w, "  %s %s/%s\n", dim("Platform:"), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "  %s %s\n", dim("Source:  "), SourceURL)
}
