package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Params holds a screen template's parameter value lists. Key order is
// preserved from the source document so template expansion is deterministic
// and follows the order the config author wrote.
type Params struct {
	keys   []string
	values map[string][]string
}

// NewParams builds Params from ordered key/value pairs. Repeated keys keep
// their first position and take the last value.
func NewParams(pairs ...ParamPair) *Params {
	p := &Params{values: make(map[string][]string)}
	for _, pair := range pairs {
		p.Set(pair.Key, pair.Values)
	}
	return p
}

// ParamPair is one named value list.
type ParamPair struct {
	Key    string
	Values []string
}

// Set adds or replaces a parameter, preserving first-seen key order.
func (p *Params) Set(key string, values []string) {
	if p.values == nil {
		p.values = make(map[string][]string)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = values
}

// Keys returns parameter names in declaration order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	return p.keys
}

// Values returns the value list for a key.
func (p *Params) Values(key string) []string {
	if p == nil {
		return nil
	}
	return p.values[key]
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// UnmarshalJSON decodes a JSON object while recording key order.
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("params: expected object, got %v", tok)
	}

	p.keys = nil
	p.values = make(map[string][]string)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("params: expected string key, got %v", keyTok)
		}

		var values []string
		if err := dec.Decode(&values); err != nil {
			return fmt.Errorf("params: values for %q must be a string list: %w", key, err)
		}
		p.Set(key, values)
	}

	// Consume closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the parameters as an object in declaration order.
func (p *Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(p.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML mapping; yaml.Node content preserves source
// order natively.
func (p *Params) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("params: expected mapping, got %v", node.Tag)
	}

	p.keys = nil
	p.values = make(map[string][]string)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		var values []string
		if err := valNode.Decode(&values); err != nil {
			return fmt.Errorf("params: values for %q must be a string list: %w", keyNode.Value, err)
		}
		p.Set(keyNode.Value, values)
	}
	return nil
}

// MarshalYAML encodes the parameters as a mapping in declaration order.
func (p *Params) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range p.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(p.values[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}
