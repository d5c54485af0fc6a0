package config

import (
	"fmt"

	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// yamlParser is a koanf.Parser backed by yaml.v3
type yamlParser struct{}

// YAMLParser returns a koanf parser for YAML config files.
func YAMLParser() koanf.Parser {
	return &yamlParser{}
}

// Unmarshal parses YAML bytes into a nested map.
func (p *yamlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return out, nil
}

// Marshal encodes a map as YAML.
func (p *yamlParser) Marshal(m map[string]interface{}) ([]byte, error) {
	return yaml.Marshal(m)
}
