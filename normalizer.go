package gdpr

import (
	"reflect"
)

// ObjectNormalizer turns one tagged object into a Tree of its marked fields.
//
// Normalization is shallow: nested objects and collections are stored raw and
// left to the Serializer, which dispatches them again.
type ObjectNormalizer struct {
	reader *Reader
	kind   Kind
}

// NewObjectNormalizer creates an ObjectNormalizer for fields carrying kind.
func NewObjectNormalizer(reader *Reader, kind Kind) *ObjectNormalizer {
	return &ObjectNormalizer{reader: reader, kind: kind}
}

// Supports reports whether v is a non-nil struct (or pointer to one) with at
// least one field carrying the normalizer's kind, or implements Exportable.
func (n *ObjectNormalizer) Supports(v any) bool {
	if _, ok := v.(Exportable); ok && n.kind == KindExport {
		return !isNil(v)
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return false
	}
	return n.reader.Supports(rv.Type(), n.kind)
}

// Normalize maps each marked field of v to its key, in declaration order.
// Scalar values pass through the marker's value map. A nil Tree from an
// Exportable is treated as empty.
func (n *ObjectNormalizer) Normalize(v any) (*Tree, error) {
	if e, ok := v.(Exportable); ok && n.kind == KindExport && !isNil(v) {
		tree, err := e.Export()
		if err != nil {
			return nil, err
		}
		if tree == nil {
			return NewTree(0), nil
		}
		return tree, nil
	}

	markers, err := n.reader.Fields(reflect.TypeOf(v), n.kind)
	if err != nil {
		return nil, err
	}

	tree := NewTree(len(markers))
	if len(markers) == 0 {
		return tree, nil
	}

	pv, err := addressable(v, markers[0].Field)
	if err != nil {
		return nil, err
	}
	for _, m := range markers {
		raw, err := valueOf(pv, m.Field)
		if err != nil {
			return nil, err
		}
		tree.Set(m.Key(), MapValue(m, raw))
	}
	return tree, nil
}

// indirect unwraps interfaces and pointers. Nil yields the zero Value.
func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// isNil reports whether v is nil or a nil pointer, map, slice, or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
