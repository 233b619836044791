package gdpr

import (
	"context"
	"reflect"
	"strconv"
	"time"
)

// ValueKind classifies a value for dispatch.
type ValueKind int

const (
	// ValueScalar is nil, a string, boolean, number, or byte slice.
	ValueScalar ValueKind = iota
	// ValueTaggedObject is a struct with at least one marked field.
	ValueTaggedObject
	// ValueIterable is a slice, array, or map.
	ValueIterable
	// ValueOpaque is anything else; it passes through unchanged.
	ValueOpaque
)

func (k ValueKind) String() string {
	switch k {
	case ValueScalar:
		return "scalar"
	case ValueTaggedObject:
		return "tagged-object"
	case ValueIterable:
		return "iterable"
	case ValueOpaque:
		return "opaque"
	default:
		return "ValueKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Serializer normalizes whole object graphs by dispatching every value to
// the ObjectNormalizer or IterableNormalizer.
//
// Serializers hold no per-call state and are safe for concurrent use.
type Serializer struct {
	reader    *Reader
	kind      Kind
	objects   *ObjectNormalizer
	iterables *IterableNormalizer
}

// SerializerOption configures a Serializer.
type SerializerOption func(*Serializer)

// WithReader sets the metadata reader. Defaults to DefaultReader().
func WithReader(r *Reader) SerializerOption {
	return func(s *Serializer) {
		s.reader = r
	}
}

// WithKind sets the marker kind to normalize. Defaults to KindExport.
func WithKind(k Kind) SerializerOption {
	return func(s *Serializer) {
		s.kind = k
	}
}

// NewSerializer creates a Serializer.
func NewSerializer(opts ...SerializerOption) *Serializer {
	s := &Serializer{
		reader: DefaultReader(),
		kind:   KindExport,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.objects = NewObjectNormalizer(s.reader, s.kind)
	s.iterables = NewIterableNormalizer()
	return s
}

// Classify determines the dispatch kind of v.
// Values whose markers are malformed classify as ValueOpaque.
func (s *Serializer) Classify(v any) ValueKind {
	kind, err := s.classify(v)
	if err != nil {
		return ValueOpaque
	}
	return kind
}

func (s *Serializer) classify(v any) (ValueKind, error) {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return ValueScalar, nil
	}
	if _, ok := scalarKey(rv.Interface()); ok {
		return ValueScalar, nil
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return ValueScalar, nil
	}
	if _, ok := v.(Exportable); ok && s.kind == KindExport {
		return ValueTaggedObject, nil
	}
	if rv.Kind() == reflect.Struct {
		markers, err := s.reader.Fields(rv.Type(), s.kind)
		if err != nil {
			return ValueOpaque, err
		}
		if len(markers) > 0 {
			return ValueTaggedObject, nil
		}
		return ValueOpaque, nil
	}
	if s.iterables.Supports(v) {
		return ValueIterable, nil
	}
	return ValueOpaque, nil
}

// Normalize converts v into plain data: *Tree for tagged objects, []any for
// iterables (nil for nil slices and maps), and scalars or opaque values
// unchanged. Trees returned by Exportable values are copied, not modified.
//
// A value reached again while it is still being normalized returns a
// CyclicGraphError. Shared references outside the active chain are
// normalized each time they appear.
func (s *Serializer) Normalize(ctx context.Context, v any) (any, error) {
	start := time.Now()
	typ := typeOfValue(v)
	emitNormalizeStart(ctx, typ, s.kind)

	w := &walk{s: s, active: make(map[identity]struct{})}
	out, err := w.normalize(v, nil)

	emitNormalizeComplete(ctx, typ, s.kind, time.Since(start), w.objects, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// identity names a reference-typed value for cycle detection.
type identity struct {
	typ reflect.Type
	ptr uintptr
	n   int
}

// walk carries the active call chain of one Normalize call.
type walk struct {
	s       *Serializer
	active  map[identity]struct{}
	objects int
}

func (w *walk) normalize(v any, path []string) (any, error) {
	kind, err := w.s.classify(v)
	if err != nil {
		return nil, err
	}

	switch kind {
	case ValueScalar:
		rv := indirect(reflect.ValueOf(v))
		if !rv.IsValid() {
			return nil, nil
		}
		return rv.Interface(), nil

	case ValueTaggedObject:
		release, err := w.enter(v, path)
		if err != nil {
			return nil, err
		}
		defer release()

		tree, err := w.s.objects.Normalize(v)
		if err != nil {
			return nil, err
		}
		w.objects++
		// Exportable trees belong to the caller; build a fresh one.
		out := NewTree(tree.Len())
		for _, k := range tree.keys {
			nv, err := w.normalize(tree.values[k], appendPath(path, k))
			if err != nil {
				return nil, err
			}
			out.Set(k, nv)
		}
		return out, nil

	case ValueIterable:
		// Nil slices and maps stay null; empty ones become [].
		if rv := indirect(reflect.ValueOf(v)); (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.IsNil() {
			return nil, nil
		}
		release, err := w.enter(v, path)
		if err != nil {
			return nil, err
		}
		defer release()

		return w.s.iterables.Normalize(v, func(i int, elem any) (any, error) {
			return w.normalize(elem, appendPath(path, "["+strconv.Itoa(i)+"]"))
		})

	default:
		return v, nil
	}
}

// enter marks v as active, failing if it already is.
func (w *walk) enter(v any, path []string) (func(), error) {
	id, ok := identityOf(v)
	if !ok {
		return func() {}, nil
	}
	if _, seen := w.active[id]; seen {
		return nil, &CyclicGraphError{Type: typeName(id.typ), Path: path}
	}
	w.active[id] = struct{}{}
	return func() { delete(w.active, id) }, nil
}

// identityOf returns the identity of pointers, maps, and non-empty slices.
func identityOf(v any) (identity, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map:
		if rv.IsNil() {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer(), n: rv.Len()}, true
	default:
		return identity{}, false
	}
}

func appendPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}

func typeOfValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	return typeName(reflect.TypeOf(v))
}
