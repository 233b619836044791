package bson

import (
	"testing"

	"github.com/zoobzio/gdpr"
	"go.mongodb.org/mongo-driver/bson"
)

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/bson")
	}
}

func TestMarshalTree_KeyOrder(t *testing.T) {
	c := New()

	inner := gdpr.NewTree(1)
	inner.Set("city", "Oslo")
	tree := gdpr.NewTree(3)
	tree.Set("zeta", "z")
	tree.Set("alpha", inner)
	tree.Set("tags", []any{"a", nil})

	data, err := c.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored bson.D
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(restored) != 3 {
		t.Fatalf("document length = %d, want 3", len(restored))
	}
	for i, want := range []string{"zeta", "alpha", "tags"} {
		if restored[i].Key != want {
			t.Errorf("key[%d] = %q, want %q", i, restored[i].Key, want)
		}
	}
	nested, ok := restored[1].Value.(bson.D)
	if !ok || len(nested) != 1 || nested[0].Value != "Oslo" {
		t.Errorf("nested = %#v, want {city: Oslo}", restored[1].Value)
	}
}

func TestMarshalList(t *testing.T) {
	c := New()

	data, err := c.Marshal([]any{"a", "b"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored struct {
		Items []string `bson:"items"`
	}
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(restored.Items) != 2 || restored.Items[1] != "b" {
		t.Errorf("items = %v, want [a b]", restored.Items)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v struct{}
	if err := c.Unmarshal([]byte("invalid bson"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
