package encode

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// JSONIndent is the indentation used for golden JSON files.
const JSONIndent = "\t"

// JSONOptions configures JSON.
type JSONOptions struct {
	// NormalizePropertyOrder sorts the keys of every object. Without it
	// struct fields keep their declaration order.
	NormalizePropertyOrder bool
	// Marshal options are passed through to the serializer.
	Marshal []json.Options
}

// JSON serializes v as tab-indented JSON.
func JSON(v any, opts JSONOptions) ([]byte, error) {
	mopts := marshalOptions(opts.Marshal)
	if !opts.NormalizePropertyOrder {
		out, err := json.Marshal(v, append(mopts, jsontext.WithIndent(JSONIndent))...)
		if err != nil {
			return nil, fmt.Errorf("json encode: %w", err)
		}
		return out, nil
	}

	raw, err := json.Marshal(v, mopts...)
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	sorted, err := sortKeys(raw)
	if err != nil {
		return nil, fmt.Errorf("json normalize: %w", err)
	}
	return indent(sorted)
}

func marshalOptions(extra []json.Options) []json.Options {
	return append([]json.Options{json.Deterministic(true)}, extra...)
}

func indent(v jsontext.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf, jsontext.WithIndent(JSONIndent))
	if err := enc.WriteValue(v); err != nil {
		return nil, fmt.Errorf("json indent: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

type member struct {
	name  string
	value jsontext.Value
}

// parseObject returns the members of a JSON object in document order.
func parseObject(raw jsontext.Value) ([]member, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind() != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok.Kind())
	}
	var members []member
	for dec.PeekKind() != '}' {
		tok, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		// the token is only valid until the next decoder call
		name := tok.String()
		val, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		members = append(members, member{name: name, value: append(jsontext.Value(nil), val...)})
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	return members, nil
}

func parseArray(raw jsontext.Value) ([]jsontext.Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	var items []jsontext.Value
	for dec.PeekKind() != ']' {
		val, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		items = append(items, append(jsontext.Value(nil), val...))
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	return items, nil
}

// sortKeys recursively orders object members by name. Scalars are copied
// verbatim so numbers keep their exact representation.
func sortKeys(raw jsontext.Value) (jsontext.Value, error) {
	switch raw.Kind() {
	case '{':
		members, err := parseObject(raw)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(members, func(i, j int) bool { return members[i].name < members[j].name })
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, m := range members {
			if i > 0 {
				buf.WriteByte(',')
			}
			name, err := json.Marshal(m.name)
			if err != nil {
				return nil, err
			}
			buf.Write(name)
			buf.WriteByte(':')
			v, err := sortKeys(m.value)
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case '[':
		items, err := parseArray(raw)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			v, err := sortKeys(item)
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return raw, nil
	}
}
