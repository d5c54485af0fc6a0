package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultProjectConfigPath is the project-level config read unless --config says otherwise.
const DefaultProjectConfigPath = ".opencode/notify.json"

// UserConfigPath returns the user-level config file:
// $XDG_CONFIG_HOME/opencode-notify/config.yml, falling back to
// ~/.config/opencode-notify/config.yml.
func UserConfigPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "opencode-notify", "config.yml"), nil
}
