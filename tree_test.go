package gdpr

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

func sampleTree() *Tree {
	inner := NewTree(1)
	inner.Set("city", "Oslo")

	t := NewTree(4)
	t.Set("name", "Ada")
	t.Set("status", nil)
	t.Set("address", inner)
	t.Set("tags", []any{"a", 2})
	return t
}

func TestTree_Set(t *testing.T) {
	tree := NewTree(0)
	tree.Set("b", 1)
	tree.Set("a", 2)
	tree.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, tree.Keys())
	assert.Equal(t, 2, tree.Len())
	v, ok := tree.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = tree.Get("c")
	assert.False(t, ok)
}

func TestTree_Range(t *testing.T) {
	var keys []string
	sampleTree().Range(func(key string, _ any) bool {
		keys = append(keys, key)
		return key != "status"
	})
	assert.Equal(t, []string{"name", "status"}, keys)
}

func TestTree_Map(t *testing.T) {
	assert.Equal(t, map[string]any{
		"name":    "Ada",
		"status":  nil,
		"address": map[string]any{"city": "Oslo"},
		"tags":    []any{"a", 2},
	}, sampleTree().Map())
}

func TestTree_MarshalJSON(t *testing.T) {
	data, err := sampleTree().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ada","status":null,"address":{"city":"Oslo"},"tags":["a",2]}`, string(data))

	empty, err := NewTree(0).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestTree_MarshalXML(t *testing.T) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	require.NoError(t, enc.EncodeElement(sampleTree(), xml.StartElement{Name: xml.Name{Local: "user"}}))
	require.NoError(t, enc.Flush())

	assert.Equal(t,
		`<user><name>Ada</name><status></status><address><city>Oslo</city></address><tags>a</tags><tags>2</tags></user>`,
		buf.String())
}

func TestTree_MarshalYAML(t *testing.T) {
	data, err := yaml.Marshal(sampleTree())
	require.NoError(t, err)
	assert.Equal(t, "name: Ada\nstatus: null\naddress:\n    city: Oslo\ntags:\n    - a\n    - 2\n", string(data))
}

func TestTree_EncodeMsgpack(t *testing.T) {
	data, err := msgpack.Marshal(sampleTree())
	require.NoError(t, err)

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	n, err := dec.DecodeMapLen()
	require.NoError(t, err)
	require.Equal(t, 4, n)

	var keys []string
	for i := 0; i < n; i++ {
		k, err := dec.DecodeString()
		require.NoError(t, err)
		keys = append(keys, k)
		require.NoError(t, dec.Skip())
	}
	assert.Equal(t, []string{"name", "status", "address", "tags"}, keys)
}
