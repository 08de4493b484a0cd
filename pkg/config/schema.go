package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/pelletier/go-toml/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/goldencheck-config.schema.json
var schemaJSON []byte

// Schema returns the JSON schema for configuration files.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// ValidateFile validates a configuration file against the schema. The format
// is taken from the extension; anything but .json and .toml is read as YAML.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path is a user-selected config file
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return ValidateConfig(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// ValidateConfig validates configuration data in the given format ("yaml",
// "yml", "json" or "toml") against the schema.
func ValidateConfig(data []byte, format string) error {
	doc, err := toJSON(data, format)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("%w: schema validation failed:\n%s", ErrInvalid, strings.Join(problems, "\n"))
	}
	return nil
}

func toJSON(data []byte, format string) ([]byte, error) {
	var doc any
	switch format {
	case "json":
		return data, nil
	case "toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: failed to parse TOML: %v", ErrInvalid, err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalid, err)
		}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return out, nil
}
