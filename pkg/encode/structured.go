package encode

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// YAML serializes v as YAML with two-space indentation.
func YAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}
	return buf.Bytes(), nil
}

// TOML serializes v as TOML. v must encode to a table (struct or map).
func TOML(v any) ([]byte, error) {
	out, err := toml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("toml encode: %w", err)
	}
	return out, nil
}

// XML re-indents an XML document so that formatting noise does not show up
// in golden diffs.
func XML(input []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(input); err != nil {
		return nil, fmt.Errorf("XML is not well-formed: %w", err)
	}
	doc.Indent(2)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to format XML: %w", err)
	}
	return buf.Bytes(), nil
}
