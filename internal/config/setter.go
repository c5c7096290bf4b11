package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmragsdale/git-journal/internal/fsutil"
)

// ErrEmptyKeyPath is returned when a dotted key path is empty.
var ErrEmptyKeyPath = errors.New("empty key path")

// ParseKeyPath splits a dotted key path into its segments.
func ParseKeyPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyKeyPath
	}
	return strings.Split(path, "."), nil
}

// SetConfigValue validates value against the schema of key and writes it to
// the YAML file at configPath, creating the file and its directory as
// needed. Existing keys and comments are kept.
func SetConfigValue(configPath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return err
	}

	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return err
	}

	var root yaml.Node
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if len(strings.TrimSpace(string(data))) > 0 {
			if err := yaml.Unmarshal(data, &root); err != nil {
				return fmt.Errorf("parsing %s: %w", configPath, err)
			}
		}
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("reading %s: %w", configPath, err)
	}

	if err := SetNestedValue(&root, keyPath, parsed); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	out, err := yaml.Marshal(&root)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", configPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := fsutil.WriteFileAtomic(configPath, out); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	return nil
}

// SetNestedValue sets keyPath to value inside root, creating intermediate
// mappings. An empty root becomes a document with a single mapping.
func SetNestedValue(root *yaml.Node, keyPath []string, value interface{}) error {
	if len(keyPath) == 0 {
		return ErrEmptyKeyPath
	}

	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("unexpected YAML root kind %d", root.Kind)
	}

	var valueNode yaml.Node
	if err := valueNode.Encode(value); err != nil {
		return fmt.Errorf("encoding value: %w", err)
	}

	node := root.Content[0]
	for i, segment := range keyPath {
		if node.Kind != yaml.MappingNode {
			return fmt.Errorf("%s is not a mapping", strings.Join(keyPath[:i], "."))
		}

		last := i == len(keyPath)-1
		child := mappingValue(node, segment)
		switch {
		case child != nil && last:
			valueNode.HeadComment = child.HeadComment
			valueNode.LineComment = child.LineComment
			valueNode.FootComment = child.FootComment
			*child = valueNode
		case child != nil:
			node = child
		case last:
			node.Content = append(node.Content, keyNode(segment), &valueNode)
		default:
			next := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, keyNode(segment), next)
			node = next
		}
	}
	return nil
}

// GetNestedValue returns the node at keyPath, or nil when absent.
func GetNestedValue(root *yaml.Node, keyPath []string) *yaml.Node {
	if len(keyPath) == 0 || root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}

	node := root.Content[0]
	for _, segment := range keyPath {
		if node.Kind != yaml.MappingNode {
			return nil
		}
		node = mappingValue(node, segment)
		if node == nil {
			return nil
		}
	}
	return node
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
