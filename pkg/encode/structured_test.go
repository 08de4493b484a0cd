package encode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAML(t *testing.T) {
	out, err := YAML(map[string]any{"b": []int{1, 2}, "a": "x"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "a: x\nb:\n"))
	assert.Contains(t, string(out), "- 1\n")
}

func TestTOML(t *testing.T) {
	type cfg struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
	}
	out, err := TOML(cfg{Name: "golden", Count: 2})
	require.NoError(t, err)
	assert.Regexp(t, `name = ['"]golden['"]`, string(out))
	assert.Contains(t, string(out), "count = 2")
}

func TestXML_Reindents(t *testing.T) {
	out, err := XML([]byte(`<root><child a="1"><leaf>x</leaf></child></root>`))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "<root>", lines[0])
	assert.Equal(t, "  <child a=\"1\">", lines[1])
	assert.Equal(t, "    <leaf>x</leaf>", lines[2])
}

func TestXML_Malformed(t *testing.T) {
	_, err := XML([]byte("<root attr=></root>"))
	assert.Error(t, err)
}
