package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ariel-frischer/opencode-notify/internal/opencode"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Key name (e.g., "playSound")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"title": {
		Path:        "title",
		Type:        TypeString,
		Description: "Notification title",
		Default:     "OpenCode",
	},
	"message": {
		Path:        "message",
		Type:        TypeString,
		Description: "Notification body",
		Default:     "Agent is ready for input",
	},
	"playSound": {
		Path:        "playSound",
		Type:        TypeBool,
		Description: "Play a sound along with the notification",
		Default:     false,
	},
	"soundPath": {
		Path:        "soundPath",
		Type:        TypeString,
		Description: "Sound file to play (empty uses the platform default)",
		Default:     "",
	},
	"idleConfirmationDelay": {
		Path:        "idleConfirmationDelay",
		Type:        TypeInt,
		Description: "Milliseconds a session must stay idle before notifying",
		Default:     1500,
	},
	"skipIfIncompleteTodos": {
		Path:        "skipIfIncompleteTodos",
		Type:        TypeBool,
		Description: "Do not notify while the session has unfinished todos",
		Default:     true,
	},
	"serverURL": {
		Path:        "serverURL",
		Type:        TypeString,
		Description: "Base URL of the OpenCode server",
		Default:     opencode.DefaultServerURL,
	},
	"logLevel": {
		Path:          "logLevel",
		Type:          TypeEnum,
		AllowedValues: []string{"debug", "info", "warn", "error"},
		Description:   "Log verbosity",
		Default:       "info",
	},
}

// SortedKeys returns the known keys in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for key := range KnownKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(key string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[key]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: key}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}

	switch schema.Type {
	case TypeBool:
		switch strings.ToLower(value) {
		case "true":
			return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
		case "false":
			return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
		}
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	case TypeInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return ParsedValue{}, fmt.Errorf("invalid non-negative integer: %q", value)
		}
		return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
	case TypeEnum:
		for _, allowed := range schema.AllowedValues {
			if value == allowed {
				return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
			}
		}
		return ParsedValue{}, fmt.Errorf("invalid value: %q (valid options: %s)",
			value, strings.Join(schema.AllowedValues, ", "))
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}
