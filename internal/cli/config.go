package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cfgpkg "github.com/ariel-frischer/opencode-notify/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit configuration",
	Long: `Show the effective configuration, or read and write keys in the user config.

Sources, lowest to highest priority:
  defaults < user config < project config (--config) < .env < OPENCODE_NOTIFY_* env`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), cfg)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user-level config
(~/.config/opencode-notify/config.yml). The value is validated against the
key's type first.`,
	Example: `  opencode-notify config set playSound true
  opencode-notify config set idleConfirmationDelay 3000
  opencode-notify config set title "OpenCode is done"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cfgpkg.UserConfigPath()
		if err != nil {
			return err
		}
		return setConfig(cmd.OutOrStdout(), path, args[0], args[1])
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Get a value from the user-level config, falling back to the default.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cfgpkg.UserConfigPath()
		if err != nil {
			return err
		}
		return getConfig(cmd.OutOrStdout(), path, args[0])
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all available configuration keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		listKeys(cmd.OutOrStdout())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		userPath, err := cfgpkg.UserConfigPath()
		if err != nil {
			return err
		}
		projectPath, _ := cmd.Flags().GetString("config")
		fmt.Fprintf(cmd.OutOrStdout(), "user:    %s\nproject: %s\n", userPath, projectPath)
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func showConfig(out io.Writer, cfg *cfgpkg.Configuration) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func setConfig(out io.Writer, path, key, value string) error {
	if _, err := cfgpkg.GetKeySchema(key); err != nil {
		return formatUnknownKeyError(key)
	}
	if err := cfgpkg.SetConfigValue(path, key, value); err != nil {
		return fmt.Errorf("setting config value: %w", err)
	}
	fmt.Fprintf(out, "Set %s = %s in user config (%s)\n", key, value, path)
	return nil
}

func getConfig(out io.Writer, path, key string) error {
	schema, err := cfgpkg.GetKeySchema(key)
	if err != nil {
		return formatUnknownKeyError(key)
	}
	value, found, err := cfgpkg.GetConfigValue(path, key)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(out, "%s: %v (default)\n", key, schema.Default)
		return nil
	}
	fmt.Fprintf(out, "%s: %s (from user config)\n", key, value)
	return nil
}

func listKeys(out io.Writer) {
	for _, key := range cfgpkg.SortedKeys() {
		schema := cfgpkg.KnownKeys[key]
		typ := schema.Type.String()
		if len(schema.AllowedValues) > 0 {
			typ = strings.Join(schema.AllowedValues, "|")
		}
		fmt.Fprintf(out, "%-22s %-24s %s (default: %v)\n", key, typ, schema.Description, schema.Default)
	}
}

func formatUnknownKeyError(key string) error {
	return fmt.Errorf("unknown configuration key %q; run 'opencode-notify config keys' to list valid keys", key)
}
