package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name string `json:"name"`
	Age  int    `json:"age,omitzero"`
	Bio  string `json:"bio,omitempty"`
}

func TestTable_Basic(t *testing.T) {
	out, err := Table([]person{{Name: "alice", Age: 30}, {Name: "bob smith", Age: 4}}, TableOptions{})
	require.NoError(t, err)

	want := "age name        \n" +
		"^^^^^^^^^^^^^^^^\n" +
		"30  alice       \n" +
		"4   \"bob smith\" \n"
	assert.Equal(t, want, out)
}

func TestTable_OverflowBelowRow(t *testing.T) {
	out, err := Table([]person{{Name: "al", Bio: "a very long biography"}}, TableOptions{MaxColumnLength: 5})
	require.NoError(t, err)

	want := "name \n" +
		"^^^^^\n" +
		"al   \n" +
		"\tbio: \"a very long biography\"\n" +
		"\n"
	assert.Equal(t, want, out)
}

func TestTable_NestedProperties(t *testing.T) {
	rows := []map[string]any{
		{"a": map[string]any{"b": 1}, "c": "x"},
	}
	out, err := Table(rows, TableOptions{Properties: []string{"a.b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, "a.b c \n^^^^^^\n1   x \n", out)
}

func TestTable_MissingPropertyRendersBlank(t *testing.T) {
	out, err := Table([]person{{Name: "x"}}, TableOptions{Properties: []string{"name", "nope"}})
	require.NoError(t, err)
	assert.Equal(t, "name nope \n^^^^^^^^^^\nx         \n", out)
}

func TestTable_SkipsNilRows(t *testing.T) {
	out, err := Table([]*person{nil, {Name: "x"}, nil}, TableOptions{})
	require.NoError(t, err)
	assert.Equal(t, "name \n^^^^^\nx    \n", out)
}

func TestTable_RowCap(t *testing.T) {
	rows := make([]person, MaxTableRows+1)
	_, err := Table(rows, TableOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentLimit)

	_, err = Table(rows[:10], TableOptions{})
	assert.NoError(t, err)
}

func TestTable_RejectsNonObjects(t *testing.T) {
	_, err := Table([]int{1, 2}, TableOptions{})
	assert.ErrorIs(t, err, ErrNotTabular)

	_, err = Table(42, TableOptions{})
	assert.ErrorIs(t, err, ErrNotTabular)
}

func TestCanBeUnquoted(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"plain", true},
		{"with space", false},
		{"a|b", false},
		{"a,b", false},
		{"tab\there", false},
		{"nbsp here", false},
		{"", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, canBeUnquoted(tt.in), tt.in)
	}
}
