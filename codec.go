// FILE: nabeghe/configurator-go/codec.go
package configurator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported section file formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Codec serializes a section's key/value mapping to and from its file
// representation. Marshal receives the write order of the top-level keys;
// Unmarshal reports the document order of the top-level keys, so iteration
// order survives a save/load cycle.
type Codec interface {
	// Format returns the codec name, also used as the struct tag for Scan.
	Format() string

	// Ext returns the section file extension, including the dot.
	Ext() string

	Marshal(values map[string]any, keys []string) ([]byte, error)
	Unmarshal(data []byte) (map[string]any, []string, error)
}

// Formats lists the built-in codec names.
func Formats() []string {
	return []string{FormatTOML, FormatJSON, FormatYAML}
}

// codecFor resolves a format name to its built-in codec. The empty name
// selects TOML.
func codecFor(format string) (Codec, bool) {
	switch strings.ToLower(format) {
	case "", FormatTOML:
		return tomlCodec{}, true
	case FormatJSON:
		return jsonCodec{}, true
	case FormatYAML:
		return yamlCodec{}, true
	default:
		return nil, false
	}
}

// tomlCodec reads and writes TOML section files.
type tomlCodec struct{}

func (tomlCodec) Format() string { return FormatTOML }
func (tomlCodec) Ext() string    { return ".toml" }

// Marshal encodes keys one at a time to control document order. TOML
// requires inline values before tables, so table-valued keys are emitted
// after scalar keys, each group keeping the requested order.
func (tomlCodec) Marshal(values map[string]any, keys []string) ([]byte, error) {
	var scalars, tables []string
	for _, k := range keys {
		if isTOMLTable(values[k]) {
			tables = append(tables, k)
		} else {
			scalars = append(scalars, k)
		}
	}

	var buf bytes.Buffer
	for _, k := range append(scalars, tables...) {
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(map[string]any{k: values[k]}); err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", k, err)
		}
		buf.WriteByte('\n')
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// isTOMLTable reports whether a value serializes as a TOML table or an
// array of tables.
func isTOMLTable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return true
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return false
		}
		elem := rv.Index(0)
		if elem.Kind() == reflect.Interface {
			elem = elem.Elem()
		}
		return elem.Kind() == reflect.Map || elem.Kind() == reflect.Struct
	default:
		return false
	}
}

func (tomlCodec) Unmarshal(data []byte) (map[string]any, []string, error) {
	values := make(map[string]any)
	md, err := toml.Decode(string(data), &values)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	// md.Keys reports every key in document order, nested ones as
	// multi-segment paths. The first segment names the top-level key; with
	// dotted keys or nested table headers it never appears on its own.
	seen := make(map[string]bool, len(values))
	keys := make([]string, 0, len(values))
	for _, key := range md.Keys() {
		if len(key) == 0 || seen[key[0]] {
			continue
		}
		seen[key[0]] = true
		keys = append(keys, key[0])
	}
	return values, keys, nil
}

// jsonCodec reads and writes JSON section files.
type jsonCodec struct{}

func (jsonCodec) Format() string { return FormatJSON }
func (jsonCodec) Ext() string    { return ".json" }

// Marshal writes the top-level object by hand; the stdlib encoder would
// sort map keys.
func (jsonCodec) Marshal(values map[string]any, keys []string) ([]byte, error) {
	var raw bytes.Buffer
	raw.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			raw.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", k, err)
		}
		vb, err := json.Marshal(values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to encode value for key %q: %w", k, err)
		}
		raw.Write(kb)
		raw.WriteByte(':')
		raw.Write(vb)
	}
	raw.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format JSON: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Unmarshal decodes with UseNumber to preserve numeric precision, then
// walks the token stream once more to recover the document order of the
// top-level keys.
func (jsonCodec) Unmarshal(data []byte) (map[string]any, []string, error) {
	values := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		return nil, nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	keys, err := topLevelJSONKeys(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return values, keys, nil
}

func topLevelJSONKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("top-level value is not an object")
	}

	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in key position", tok)
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
		if err := skipJSONValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// skipJSONValue consumes one complete value from the decoder, tracking
// nesting depth for objects and arrays.
func skipJSONValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// yamlCodec reads and writes YAML section files.
type yamlCodec struct{}

func (yamlCodec) Format() string { return FormatYAML }
func (yamlCodec) Ext() string    { return ".yaml" }

// Marshal builds the document from yaml nodes; plain map marshaling would
// sort the keys.
func (yamlCodec) Marshal(values map[string]any, keys []string) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{}
		if values[k] == nil {
			valNode.Kind = yaml.ScalarNode
			valNode.Tag = "!!null"
			valNode.Value = "null"
		} else if err := valNode.Encode(values[k]); err != nil {
			return nil, fmt.Errorf("failed to encode value for key %q: %w", k, err)
		}
		root.Content = append(root.Content, keyNode, valNode)
	}
	data, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return data, nil
}

func (yamlCodec) Unmarshal(data []byte) (map[string]any, []string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return make(map[string]any), nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("top-level value is not a mapping")
	}

	values := make(map[string]any, len(root.Content)/2)
	keys := make([]string, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		var value any
		if err := root.Content[i+1].Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("failed to decode value for key %q: %w", keyNode.Value, err)
		}
		if _, exists := values[keyNode.Value]; !exists {
			keys = append(keys, keyNode.Value)
		}
		values[keyNode.Value] = value
	}
	return values, keys, nil
}
