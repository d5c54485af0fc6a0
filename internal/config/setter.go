package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SetConfigValue sets a key in a YAML config file, preserving the rest of the
// document. The value is validated against the key schema first. The file is
// created if it doesn't exist.
func SetConfigValue(filePath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return fmt.Errorf("validating value: %w", err)
	}

	root, err := loadOrCreateYAML(filePath)
	if err != nil {
		return err
	}
	if err := setValue(root, key, parsed.Parsed); err != nil {
		return fmt.Errorf("setting value: %w", err)
	}

	content, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := writeAtomically(filePath, content); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// GetConfigValue returns the raw value of key in a YAML file, and whether it is set.
func GetConfigValue(filePath, key string) (string, bool, error) {
	root, err := loadOrCreateYAML(filePath)
	if err != nil {
		return "", false, err
	}
	mapNode := documentMap(root)
	if mapNode == nil {
		return "", false, nil
	}
	if i := findKeyIndex(mapNode, key); i >= 0 {
		return mapNode.Content[i+1].Value, true, nil
	}
	return "", false, nil
}

// setValue sets key at the top level of the document mapping.
func setValue(root *yaml.Node, key string, value interface{}) error {
	mapNode := documentMap(root)
	if mapNode == nil {
		return fmt.Errorf("root node must be a mapping, got %v", root.Kind)
	}

	if i := findKeyIndex(mapNode, key); i >= 0 {
		setScalarValue(mapNode.Content[i+1], value)
		return nil
	}

	valueNode := &yaml.Node{}
	setScalarValue(valueNode, value)
	mapNode.Content = append(mapNode.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, valueNode)
	return nil
}

// documentMap returns the top-level mapping node, creating it for an empty document.
func documentMap(root *yaml.Node) *yaml.Node {
	switch root.Kind {
	case 0:
		root.Kind = yaml.DocumentNode
		fallthrough
	case yaml.DocumentNode:
		if len(root.Content) == 0 {
			root.Content = append(root.Content, &yaml.Node{Kind: yaml.MappingNode})
		}
		if root.Content[0].Kind != yaml.MappingNode {
			return nil
		}
		return root.Content[0]
	case yaml.MappingNode:
		return root
	default:
		return nil
	}
}

// findKeyIndex finds the index of a key in a mapping node's content.
// Returns -1 if the key is not found.
func findKeyIndex(node *yaml.Node, key string) int {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// setScalarValue sets the value and tag of a scalar node.
func setScalarValue(node *yaml.Node, value interface{}) {
	node.Kind = yaml.ScalarNode
	node.Content = nil
	switch v := value.(type) {
	case bool:
		node.Tag = "!!bool"
		node.Value = fmt.Sprintf("%t", v)
	case int:
		node.Tag = "!!int"
		node.Value = fmt.Sprintf("%d", v)
	case string:
		node.Tag = "!!str"
		node.Value = v
	default:
		node.Tag = ""
		node.Value = fmt.Sprintf("%v", v)
	}
}

// loadOrCreateYAML loads a YAML file or creates an empty document node.
func loadOrCreateYAML(filePath string) (*yaml.Node, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &yaml.Node{
				Kind:    yaml.DocumentNode,
				Content: []*yaml.Node{{Kind: yaml.MappingNode}},
			}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return &root, nil
}

// writeAtomically writes content to a file atomically using a temporary file and rename.
// Creates parent directories if they don't exist.
func writeAtomically(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmpFile, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	tmpPath = ""
	return nil
}
