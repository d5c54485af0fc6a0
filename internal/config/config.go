// Package config loads the opencode-notify configuration.
//
// Sources, lowest to highest priority:
//
//	defaults < user config < project config < .env < OPENCODE_NOTIFY_* environment
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/opencode-notify/internal/platform"
	"github.com/ariel-frischer/opencode-notify/internal/scheduler"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "OPENCODE_NOTIFY_"

// Configuration is the resolved opencode-notify configuration
type Configuration struct {
	Title                 string `koanf:"title" json:"title" yaml:"title"`
	Message               string `koanf:"message" json:"message" yaml:"message"`
	PlaySound             bool   `koanf:"playSound" json:"playSound" yaml:"playSound"`
	SoundPath             string `koanf:"soundPath" json:"soundPath" yaml:"soundPath"`
	IdleConfirmationDelay int    `koanf:"idleConfirmationDelay" json:"idleConfirmationDelay" yaml:"idleConfirmationDelay"` // milliseconds
	SkipIfIncompleteTodos bool   `koanf:"skipIfIncompleteTodos" json:"skipIfIncompleteTodos" yaml:"skipIfIncompleteTodos"`
	ServerURL             string `koanf:"serverURL" json:"serverURL" yaml:"serverURL" validate:"required,url"`
	LogLevel              string `koanf:"logLevel" json:"logLevel" yaml:"logLevel" validate:"oneof=debug info warn error"`
}

// Load loads configuration from user, project, .env and environment sources.
// projectConfigPath may be empty or point at a missing file.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadForPlatform(projectConfigPath, platform.Detect())
}

// LoadForPlatform is Load with an explicit platform for the default sound path.
func LoadForPlatform(projectConfigPath string, p platform.Platform) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("applying default %s: %w", key, err)
		}
	}

	if userPath, err := UserConfigPath(); err == nil {
		if err := loadFile(k, userPath); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		// A JSON sibling is accepted for users coming from the plugin config.
		if err := loadFile(k, strings.TrimSuffix(userPath, filepath.Ext(userPath))+".json"); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	if projectConfigPath != "" {
		if err := loadFile(k, projectConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load project config: %w", err)
		}
	}

	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.SoundPath = expandHomePath(cfg.SoundPath)
	if cfg.SoundPath == "" {
		cfg.SoundPath = platform.DefaultSoundPath(p)
	}

	return &cfg, nil
}

// loadFile merges a JSON or YAML file into k. Missing files are skipped.
func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		parser = YAMLParser()
	default:
		parser = json.Parser()
	}
	return k.Load(file.Provider(path), parser)
}

// envKeys maps the upper snake-case env suffix to the camelCase config key
var envKeys = func() map[string]string {
	m := make(map[string]string)
	for key := range KnownKeys {
		m[toSnake(key)] = key
	}
	return m
}()

// envTransform converts environment variable names to config keys.
// Example: OPENCODE_NOTIFY_PLAY_SOUND -> playSound. Unknown names return ""
// and are dropped by koanf.
func envTransform(s string) string {
	return envKeys[strings.ToLower(strings.TrimPrefix(s, EnvPrefix))]
}

// toSnake converts camelCase to snake_case: serverURL -> server_url
func toSnake(s string) string {
	var b strings.Builder
	prevUpper := false
	for i, r := range s {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 && !prevUpper {
			b.WriteByte('_')
		}
		prevUpper = upper
		b.WriteRune(r | 0x20)
	}
	return b.String()
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// Delay returns the idle confirmation delay as a duration.
func (c *Configuration) Delay() time.Duration {
	return time.Duration(c.IdleConfirmationDelay) * time.Millisecond
}

// Scheduler converts the configuration into scheduler settings.
func (c *Configuration) Scheduler() scheduler.Config {
	return scheduler.Config{
		Title:                 c.Title,
		Message:               c.Message,
		PlaySound:             c.PlaySound,
		SoundPath:             c.SoundPath,
		IdleConfirmationDelay: c.Delay(),
		SkipIfIncompleteTodos: c.SkipIfIncompleteTodos,
	}
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to info.
func (c *Configuration) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
