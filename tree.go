package gdpr

import (
	"bytes"
	"encoding/xml"

	jsoniter "github.com/json-iterator/go"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

var treeJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Tree is an ordered mapping produced by normalization.
// Values are scalars, nil, nested *Tree, []any, or opaque leaves.
//
// Tree keeps key order through JSON, XML, YAML, and MessagePack encoding.
type Tree struct {
	keys   []string
	values map[string]any
}

// NewTree returns an empty tree sized for n keys.
func NewTree(n int) *Tree {
	return &Tree{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// Set stores value under key. Re-setting a key keeps its original position.
func (t *Tree) Set(key string, value any) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (any, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (t *Tree) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of keys.
func (t *Tree) Len() int {
	return len(t.keys)
}

// Range calls fn for each key in order until fn returns false.
func (t *Tree) Range(fn func(key string, value any) bool) {
	for _, k := range t.keys {
		if !fn(k, t.values[k]) {
			return
		}
	}
}

// Map converts the tree into plain maps and slices, dropping key order.
func (t *Tree) Map() map[string]any {
	out := make(map[string]any, len(t.keys))
	for _, k := range t.keys {
		out[k] = plain(t.values[k])
	}
	return out
}

func plain(v any) any {
	switch val := v.(type) {
	case *Tree:
		return val.Map()
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the tree as a JSON object in key order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := treeJSON.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := treeJSON.Marshal(t.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalXML encodes each key as a child element. List values repeat the element.
func (t *Tree) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, k := range t.keys {
		if err := encodeXMLValue(e, k, t.values[k]); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func encodeXMLValue(e *xml.Encoder, name string, v any) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	switch val := v.(type) {
	case nil:
		return e.EncodeElement("", start)
	case []any:
		for _, elem := range val {
			if err := encodeXMLValue(e, name, elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return e.EncodeElement(v, start)
	}
}

// MarshalYAML encodes the tree as a YAML mapping node in key order.
func (t *Tree) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range t.keys {
		val := &yaml.Node{}
		if err := val.Encode(t.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			val,
		)
	}
	return node, nil
}

// EncodeMsgpack encodes the tree as a MessagePack map in key order.
func (t *Tree) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(t.keys)); err != nil {
		return err
	}
	for _, k := range t.keys {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := enc.Encode(t.values[k]); err != nil {
			return err
		}
	}
	return nil
}
