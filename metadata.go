package gdpr

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
	"golang.org/x/sync/singleflight"
)

// cacheKey combines type and marker kind for cache lookup.
type cacheKey struct {
	typ  reflect.Type
	kind Kind
}

// Reader discovers which fields of a type carry a marker kind.
//
// Results are cached per (type, kind) for the lifetime of the Reader. Markers
// declared with Register or LoadYAML take precedence over struct tags and
// must be declared before the first lookup of the type they describe.
//
// Readers are safe for concurrent use.
type Reader struct {
	mu    sync.RWMutex
	cache map[cacheKey][]Marker

	// Explicit declarations, by type and by type name (rt.String()).
	declared       map[cacheKey][]Marker
	declaredByName map[string]map[Kind][]Marker

	group singleflight.Group
}

// NewReader creates an empty Reader.
func NewReader() *Reader {
	return &Reader{
		cache:          make(map[cacheKey][]Marker),
		declared:       make(map[cacheKey][]Marker),
		declaredByName: make(map[string]map[Kind][]Marker),
	}
}

var defaultReader = NewReader()

// DefaultReader returns the process-wide Reader used when none is configured.
func DefaultReader() *Reader {
	return defaultReader
}

// Fields returns the fields of rt carrying kind, in declaration order.
// Pointer types resolve to their element type; non-struct types have no fields.
// The returned slice is shared and must not be modified.
func (r *Reader) Fields(rt reflect.Type, kind Kind) ([]Marker, error) {
	if !IsValidKind(kind) {
		return nil, &MetadataError{Kind: kind, Reason: "unknown marker kind"}
	}
	rt = structType(rt)
	if rt == nil {
		return nil, nil
	}

	key := cacheKey{typ: rt, kind: kind}

	// Fast path: read-lock cache check
	r.mu.RLock()
	if cached, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	// Slow path: one scan per key, shared by concurrent callers
	v, err, _ := r.group.Do(fmt.Sprintf("%p|%s", rt, kind), func() (any, error) {
		r.mu.RLock()
		cached, ok := r.cache[key]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		markers, err := r.scan(rt, kind)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[key] = markers
		r.mu.Unlock()

		emitMetadataScanned(context.Background(), typeName(rt), kind, len(markers))
		return markers, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Marker), nil
}

// Supports reports whether rt has at least one field carrying kind.
func (r *Reader) Supports(rt reflect.Type, kind Kind) bool {
	markers, err := r.Fields(rt, kind)
	return err == nil && len(markers) > 0
}

// Register declares the markers of kind for rt, replacing any struct tags.
// Registering with no markers declares that rt has no fields of that kind.
func (r *Reader) Register(rt reflect.Type, kind Kind, markers ...Marker) error {
	if !IsValidKind(kind) {
		return &MetadataError{Kind: kind, Reason: "unknown marker kind"}
	}
	st := structType(rt)
	if st == nil {
		return &MetadataError{Kind: kind, Type: fmt.Sprint(rt), Reason: "markers can only be declared on struct types"}
	}
	declared, err := resolveDeclared(st, kind, markers)
	if err != nil {
		return err
	}

	key := cacheKey{typ: st, kind: kind}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.declared[key] = declared
	delete(r.cache, key)
	return nil
}

// declareByName records markers for a type known only by name (rt.String()).
func (r *Reader) declareByName(name string, kind Kind, markers []Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byKind, ok := r.declaredByName[name]
	if !ok {
		byKind = make(map[Kind][]Marker)
		r.declaredByName[name] = byKind
	}
	byKind[kind] = markers
	for key := range r.cache {
		if key.typ.String() == name && key.kind == kind {
			delete(r.cache, key)
		}
	}
}

// Reset clears cached lookups and declarations.
// This is primarily useful for test isolation.
func (r *Reader) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[cacheKey][]Marker)
	r.declared = make(map[cacheKey][]Marker)
	r.declaredByName = make(map[string]map[Kind][]Marker)
}

// Prepare registers T with sentinel and warms the reader cache for every
// builtin marker kind, surfacing tag errors at startup.
func Prepare[T any](r *Reader) error {
	sentinel.Scan[T]()
	rt := reflect.TypeFor[T]()
	for _, kind := range []Kind{KindExport, KindAnonymize} {
		if _, err := r.Fields(rt, kind); err != nil {
			return err
		}
	}
	return nil
}

// scan builds the marker list for a struct type.
func (r *Reader) scan(rt reflect.Type, kind Kind) ([]Marker, error) {
	r.mu.RLock()
	declared, ok := r.declared[cacheKey{typ: rt, kind: kind}]
	named, hasNamed := r.declaredByName[rt.String()][kind]
	r.mu.RUnlock()
	if ok {
		return declared, nil
	}
	if hasNamed {
		return resolveDeclared(rt, kind, named)
	}

	var markers []Marker
	if err := scanTags(rt, kind, nil, map[reflect.Type]bool{rt: true}, &markers); err != nil {
		return nil, err
	}
	return shallowest(markers), nil
}

// scanTags walks struct fields, descending into embedded structs.
func scanTags(rt reflect.Type, kind Kind, parent []int, visiting map[reflect.Type]bool, out *[]Marker) error {
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		index := append(append([]int{}, parent...), i)

		val, tagged := sf.Tag.Lookup(string(kind))
		if !tagged {
			if sf.Anonymous {
				if et := structType(sf.Type); et != nil && !visiting[et] {
					visiting[et] = true
					if err := scanTags(et, kind, index, visiting, out); err != nil {
						return err
					}
					delete(visiting, et)
				}
			}
			continue
		}

		m, err := parseMarker(kind, sf, val, index)
		if err != nil {
			return &MetadataError{Type: typeName(rt), Kind: kind, Field: sf.Name, Reason: err.Error()}
		}
		*out = append(*out, m)
	}
	return nil
}

// shallowest drops promoted fields shadowed by a shallower field of the same name.
func shallowest(markers []Marker) []Marker {
	depth := make(map[string]int, len(markers))
	for _, m := range markers {
		if d, ok := depth[m.Field]; !ok || len(m.index) < d {
			depth[m.Field] = len(m.index)
		}
	}
	out := markers[:0]
	seen := make(map[string]bool, len(markers))
	for _, m := range markers {
		if len(m.index) != depth[m.Field] || seen[m.Field] {
			continue
		}
		seen[m.Field] = true
		out = append(out, m)
	}
	return out
}

// resolveDeclared validates declared markers and attaches field index paths.
// A declared field missing from rt keeps a nil index and fails on access.
func resolveDeclared(rt reflect.Type, kind Kind, markers []Marker) ([]Marker, error) {
	out := make([]Marker, 0, len(markers))
	seen := make(map[string]bool, len(markers))
	for _, m := range markers {
		if m.Field == "" {
			return nil, &MetadataError{Type: typeName(rt), Kind: kind, Reason: "declared marker has no field"}
		}
		if seen[m.Field] {
			return nil, &MetadataError{Type: typeName(rt), Kind: kind, Field: m.Field, Reason: "field declared twice"}
		}
		seen[m.Field] = true
		if kind == KindAnonymize && m.Type == "" {
			return nil, &MetadataError{Type: typeName(rt), Kind: kind, Field: m.Field, Reason: errMissingType.Error()}
		}
		if sf, ok := rt.FieldByName(m.Field); ok {
			m.index = sf.Index
		} else {
			m.index = nil
		}
		out = append(out, m)
	}
	return out, nil
}

// structType unwraps pointers and returns nil for non-struct types.
func structType(rt reflect.Type) reflect.Type {
	if rt == nil {
		return nil
	}
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil
	}
	return rt
}

// typeName prefers the name sentinel recorded for the type.
func typeName(rt reflect.Type) string {
	if rt == nil {
		return "<nil>"
	}
	if meta, ok := sentinel.Lookup(rt.String()); ok && meta.TypeName != "" {
		return meta.TypeName
	}
	return rt.String()
}
