package tree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes p as
// {"conditions":[...],"example_accessions":[...],"descendants":{...}}
// keeping descendant names in insertion order.
func (p *Pretty) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	field := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if p.HasSelf() {
		if err := field("conditions", nonNil(p.Conditions)); err != nil {
			return nil, err
		}
		if err := field("example_accessions", nonNil(p.ExampleAccessions)); err != nil {
			return nil, err
		}
	}
	if p.Descendants.Len() > 0 {
		if err := field("descendants", p.Descendants); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes d as a JSON object in insertion order.
func (d *Descendants) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range d.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(d.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the nested form, preserving descendant order.
// Unknown keys are ignored.
func (p *Pretty) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	return p.decode(dec)
}

func (p *Pretty) decode(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v, expected object key", tok)
		}
		switch key {
		case "conditions":
			if err := dec.Decode(&p.Conditions); err != nil {
				return fmt.Errorf("invalid conditions: %w", err)
			}
		case "example_accessions":
			if err := dec.Decode(&p.ExampleAccessions); err != nil {
				return fmt.Errorf("invalid example_accessions: %w", err)
			}
		case "descendants":
			if err := p.decodeDescendants(dec); err != nil {
				return err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
		}
	}
	return expectDelim(dec, '}')
}

func (p *Pretty) decodeDescendants(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	d := NewDescendants()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v, expected haplogroup name", tok)
		}
		child := &Pretty{}
		if err := child.decode(dec); err != nil {
			return fmt.Errorf("descendant %q: %w", name, err)
		}
		d.Set(name, child)
	}
	if d.Len() > 0 {
		p.Descendants = d
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("unexpected token %v, expected %q", tok, want)
	}
	return nil
}

// MarshalYAML encodes p as an ordered YAML mapping with the same keys as the
// JSON form.
func (p *Pretty) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if p.HasSelf() {
		if err := appendYAML(node, "conditions", nonNil(p.Conditions)); err != nil {
			return nil, err
		}
		if err := appendYAML(node, "example_accessions", nonNil(p.ExampleAccessions)); err != nil {
			return nil, err
		}
	}
	if p.Descendants.Len() > 0 {
		desc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for name, child := range p.Descendants.All() {
			if err := appendYAML(desc, name, child); err != nil {
				return nil, err
			}
		}
		node.Content = append(node.Content, yamlKey("descendants"), desc)
	}
	return node, nil
}

func appendYAML(mapping *yaml.Node, key string, value any) error {
	var v yaml.Node
	if err := v.Encode(value); err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	mapping.Content = append(mapping.Content, yamlKey(key), &v)
	return nil
}

func yamlKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
