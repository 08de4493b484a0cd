package encode

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/mattn/go-runewidth"
)

// MaxTableRows bounds Table input; diffing larger tables is impractical.
const MaxTableRows = 100_000

// DefaultMaxColumnLength is used when TableOptions.MaxColumnLength is zero.
const DefaultMaxColumnLength = 40

// ErrContentLimit is returned when the input exceeds MaxTableRows.
var ErrContentLimit = errors.New("content limit exceeded")

// ErrNotTabular is returned when rows are not a slice of JSON objects.
var ErrNotTabular = errors.New("table rows must serialize to JSON objects")

// TableOptions configures Table.
type TableOptions struct {
	// Properties selects and orders the columns. Dotted paths (A.B.C) read
	// nested objects. Empty means every property, narrowest column first.
	Properties []string
	// MaxColumnLength moves values wider than this below the row.
	MaxColumnLength int
	// NormalizePropertyOrder sorts object keys before rendering.
	NormalizePropertyOrder bool
	// Marshal options are passed through to the row serializer.
	Marshal []json.Options
}

// Table renders rows (a slice or array) as a fixed-width text table.
// Each row is serialized to a JSON object; nil rows are skipped.
func Table(rows any, opts TableOptions) (string, error) {
	rv := reflect.ValueOf(rows)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", fmt.Errorf("%w: got %T", ErrNotTabular, rows)
	}
	maxCol := opts.MaxColumnLength
	if maxCol <= 0 {
		maxCol = DefaultMaxColumnLength
	}

	count := 0
	for i := 0; i < rv.Len(); i++ {
		if !isNil(rv.Index(i)) {
			count++
		}
	}
	if count > MaxTableRows {
		return "", fmt.Errorf("%w: tables are limited to %d rows (got %d), otherwise diffing the output takes approximately infinite time", ErrContentLimit, MaxTableRows, count)
	}

	objects := make([][]member, 0, count)
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i)
		if isNil(item) {
			continue
		}
		raw, err := json.Marshal(item.Interface(), marshalOptions(opts.Marshal)...)
		if err != nil {
			return "", fmt.Errorf("table row %d: %w", i, err)
		}
		if opts.NormalizePropertyOrder {
			if raw, err = sortKeys(raw); err != nil {
				return "", fmt.Errorf("table row %d: %w", i, err)
			}
		}
		if jsontext.Value(raw).Kind() != '{' {
			return "", fmt.Errorf("%w: row %d is %s", ErrNotTabular, i, jsontext.Value(raw).Kind())
		}
		obj, err := parseObject(raw)
		if err != nil {
			return "", fmt.Errorf("table row %d: %w", i, err)
		}
		objects = append(objects, obj)
	}

	return renderTable(objects, opts.Properties, maxCol)
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

func renderTable(rows [][]member, properties []string, maxCol int) (string, error) {
	widths := map[string]int{}
	var order []string
	observe := func(name string, w int) {
		existing, ok := widths[name]
		if !ok {
			order = append(order, name)
		}
		if !ok || existing < w {
			widths[name] = w
		}
	}

	for _, row := range rows {
		if properties == nil {
			for _, m := range row {
				observe(m.name, runewidth.StringWidth(maybeUnquoted(m.value)))
			}
			continue
		}
		for _, p := range properties {
			if v := property(row, p); v != nil {
				observe(p, runewidth.StringWidth(maybeUnquoted(v)))
			}
		}
	}
	for _, p := range properties {
		observe(p, 0)
	}
	for name, w := range widths {
		if hw := runewidth.StringWidth(name); hw > w {
			widths[name] = hw
		}
	}

	maxNameWidth := 0
	for name, w := range widths {
		if w > maxCol {
			maxNameWidth = max(maxNameWidth, runewidth.StringWidth(name))
		}
	}

	candidates := properties
	if candidates == nil {
		candidates = append([]string(nil), order...)
		sort.SliceStable(candidates, func(i, j int) bool { return widths[candidates[i]] < widths[candidates[j]] })
	}
	var columns []string
	for _, c := range candidates {
		if widths[c] <= maxCol {
			columns = append(columns, c)
		}
	}

	var b strings.Builder
	for _, c := range columns {
		b.WriteString(c)
		b.WriteString(strings.Repeat(" ", widths[c]-runewidth.StringWidth(c)+1))
	}
	rowLength := b.Len()
	b.WriteString("\n")
	b.WriteString(strings.Repeat("^", rowLength))
	b.WriteString("\n")

	for _, row := range rows {
		for _, c := range columns {
			value := ""
			if v := property(row, c); v != nil {
				value = maybeUnquoted(v)
			}
			b.WriteString(value)
			b.WriteString(strings.Repeat(" ", widths[c]-runewidth.StringWidth(value)+1))
		}
		b.WriteString("\n")

		overflow := false
		writeOverflow := func(name string, v jsontext.Value) {
			overflow = true
			b.WriteString("\t")
			b.WriteString(name)
			b.WriteString(strings.Repeat(" ", max(0, maxNameWidth-runewidth.StringWidth(name))))
			b.WriteString(": ")
			b.WriteString(maybeUnquoted(v))
			b.WriteString("\n")
		}
		if properties == nil {
			for _, m := range row {
				if isBlank(m.value) || widths[m.name] <= maxCol {
					continue
				}
				writeOverflow(m.name, m.value)
			}
		} else {
			for _, p := range properties {
				v := property(row, p)
				if v == nil || widths[p] <= maxCol {
					continue
				}
				writeOverflow(p, v)
			}
		}
		if overflow {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// property resolves a dotted path. null and empty strings count as missing.
func property(row []member, path string) jsontext.Value {
	parts := strings.Split(path, ".")
	members := row
	for i, part := range parts {
		var found jsontext.Value
		for _, m := range members {
			if m.name == part {
				found = m.value
				break
			}
		}
		if found == nil {
			return nil
		}
		if i == len(parts)-1 {
			if isBlank(found) {
				return nil
			}
			return found
		}
		if found.Kind() != '{' {
			return nil
		}
		nested, err := parseObject(found)
		if err != nil {
			return nil
		}
		members = nested
	}
	return nil
}

func isBlank(v jsontext.Value) bool {
	switch v.Kind() {
	case 'n':
		return true
	case '"':
		return string(v) == `""`
	default:
		return false
	}
}

// maybeUnquoted prints strings bare unless that would make the table
// ambiguous; everything else keeps its JSON form.
func maybeUnquoted(v jsontext.Value) string {
	if v.Kind() == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil && canBeUnquoted(s) {
			return s
		}
	}
	return string(v)
}

func canBeUnquoted(s string) bool {
	if strings.ContainsAny(s, "|,\r\n \t") {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
