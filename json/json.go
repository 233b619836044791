// Package json provides a JSON codec backed by json-iterator.
package json

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/zoobzio/gdpr"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonCodec implements gdpr.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec. Trees keep their key order.
func New() gdpr.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}
