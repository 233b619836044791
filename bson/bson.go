// Package bson provides a BSON codec implementation.
//
// Normalized trees encode as ordered documents. BSON requires a document at
// the top level, so a normalized list is stored under the "items" key.
package bson

import (
	"github.com/zoobzio/gdpr"
	"go.mongodb.org/mongo-driver/bson"
)

// ItemsKey holds a top-level list in its wrapping document.
const ItemsKey = "items"

// bsonCodec implements gdpr.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() gdpr.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	switch val := v.(type) {
	case *gdpr.Tree:
		return bson.Marshal(Document(val))
	case []any:
		return bson.Marshal(bson.D{{Key: ItemsKey, Value: toBSON(val)}})
	default:
		return bson.Marshal(v)
	}
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

// Document converts a tree into an ordered BSON document.
func Document(t *gdpr.Tree) bson.D {
	doc := make(bson.D, 0, t.Len())
	t.Range(func(key string, value any) bool {
		doc = append(doc, bson.E{Key: key, Value: toBSON(value)})
		return true
	})
	return doc
}

func toBSON(v any) any {
	switch val := v.(type) {
	case *gdpr.Tree:
		return Document(val)
	case []any:
		out := make(bson.A, len(val))
		for i, e := range val {
			out[i] = toBSON(e)
		}
		return out
	default:
		return v
	}
}
