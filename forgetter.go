package gdpr

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// Forgetter anonymizes personal data in place, driven by gdpr.anonymize markers.
//
// Each marked field is passed to the anonymizer bound to its type and the
// result is written back. The object and collection types recurse into
// nested values instead. Each object is visited at most once per call, so
// shared and cyclic references terminate.
//
// Structs held by value in an interface or map are replaced by an
// anonymized copy.
//
// Forgetters hold no per-call state and are safe for concurrent use.
type Forgetter struct {
	reader   *Reader
	registry *Registry
}

// ForgetterOption configures a Forgetter.
type ForgetterOption func(*Forgetter)

// WithMetadata sets the metadata reader. Defaults to DefaultReader().
func WithMetadata(r *Reader) ForgetterOption {
	return func(f *Forgetter) {
		f.reader = r
	}
}

// WithRegistry sets the anonymizer registry. Defaults to NewRegistry().
func WithRegistry(r *Registry) ForgetterOption {
	return func(f *Forgetter) {
		f.registry = r
	}
}

// NewForgetter creates a Forgetter.
func NewForgetter(opts ...ForgetterOption) *Forgetter {
	f := &Forgetter{reader: DefaultReader()}
	for _, opt := range opts {
		opt(f)
	}
	if f.registry == nil {
		f.registry = NewRegistry()
	}
	return f
}

// Registry returns the anonymizer registry in use.
func (f *Forgetter) Registry() *Registry {
	return f.registry
}

// Anonymize rewrites the marked fields of obj, which must be a non-nil
// pointer to a struct.
func (f *Forgetter) Anonymize(ctx context.Context, obj any) error {
	start := time.Now()
	typ := typeOfValue(obj)
	emitAnonymizeStart(ctx, typ)

	w := &forget{f: f, visited: make(map[identity]struct{})}
	err := w.root(obj)

	emitAnonymizeComplete(ctx, typ, time.Since(start), w.objects, w.anonymized, err)
	return err
}

// forget carries the visited set of one Anonymize call.
type forget struct {
	f          *Forgetter
	visited    map[identity]struct{}
	objects    int
	anonymized int
}

func (w *forget) root(obj any) error {
	pv := reflect.ValueOf(obj)
	for pv.Kind() == reflect.Interface && !pv.IsNil() {
		pv = pv.Elem()
	}
	if pv.Kind() != reflect.Ptr || pv.IsNil() || pv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a pointer to a struct", ErrNotSettable, obj)
	}
	return w.object(pv)
}

// object anonymizes the struct pv points to.
func (w *forget) object(pv reflect.Value) error {
	id := identity{typ: pv.Type(), ptr: pv.Pointer()}
	if _, seen := w.visited[id]; seen {
		return nil
	}
	w.visited[id] = struct{}{}
	w.objects++

	if a, ok := pv.Interface().(Anonymizable); ok {
		return a.Anonymize(w.f.registry)
	}

	markers, err := w.f.reader.Fields(pv.Type(), KindAnonymize)
	if err != nil {
		return err
	}
	for _, m := range markers {
		switch m.Type {
		case AnonymizeObject, AnonymizeCollection:
			err = w.descend(pv, m)
		default:
			err = w.field(pv, m)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// field replaces one scalar field with its anonymized value.
// Fields promoted through a nil embedded pointer hold nothing and are skipped.
func (w *forget) field(pv reflect.Value, m Marker) error {
	a, ok := w.f.registry.Lookup(m.Type)
	if !ok {
		return newConfigError(ErrMissingAnonymizer, m.Type, m.Field)
	}
	if unreachable(pv, m.Field) {
		return nil
	}
	raw, err := valueOf(pv, m.Field)
	if err != nil {
		return err
	}
	out, err := a.Anonymize(raw, m.Options)
	if err != nil {
		return newTransformError(ErrAnonymize, m.Type, m.Field, err)
	}
	if err := setValueOf(pv, m.Field, out); err != nil {
		return newTransformError(ErrAnonymize, m.Type, m.Field, err)
	}
	w.anonymized++
	return nil
}

// descend recurses into the nested object or collection held by a field.
func (w *forget) descend(pv reflect.Value, m Marker) error {
	fv, ok, err := fieldOf(pv, m.Field)
	if err != nil || !ok {
		return err
	}
	if m.Type == AnonymizeObject {
		err = w.nested(fv)
	} else {
		err = w.collection(fv)
	}
	if err != nil {
		return newTransformError(ErrAnonymize, m.Type, m.Field, err)
	}
	return nil
}

// nested anonymizes a struct, pointer to struct, or interface holding one.
// Nil values are skipped.
func (w *forget) nested(v reflect.Value) error {
	if v.Kind() == reflect.Interface {
		if held := heldStruct(v); held.IsValid() {
			return w.replace(v, held)
		}
	}
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch {
	case v.Kind() == reflect.Ptr && v.IsNil():
		return nil
	case v.Kind() == reflect.Ptr && v.Elem().Kind() == reflect.Struct:
		return w.object(v)
	case v.Kind() == reflect.Struct && v.CanAddr():
		return w.object(v.Addr())
	case v.Kind() == reflect.Struct:
		return fmt.Errorf("%w: %s is not addressable", ErrNotSettable, v.Type())
	default:
		return fmt.Errorf("%s is not an object", v.Type())
	}
}

// collection anonymizes every object element of a slice, array, or map.
// Scalar elements are left untouched.
func (w *forget) collection(v reflect.Value) error {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := w.element(v.Index(i)); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return nil
	case reflect.Map:
		for _, key := range v.MapKeys() {
			elem := v.MapIndex(key)
			if held := heldStruct(elem); held.IsValid() {
				// Map values are not addressable: anonymize a copy and store it back.
				cp, err := w.copied(held)
				if err != nil {
					return fmt.Errorf("[%v]: %w", key, err)
				}
				v.SetMapIndex(key, cp)
				continue
			}
			if err := w.element(elem); err != nil {
				return fmt.Errorf("[%v]: %w", key, err)
			}
		}
		return nil
	case reflect.Invalid:
		return nil
	default:
		return fmt.Errorf("%s is not a collection", v.Type())
	}
}

// heldStruct returns the struct stored directly in a map value or held by
// value in an interface, or the zero Value.
func heldStruct(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	return v
}

// copied anonymizes a copy of the unaddressable struct v and returns it.
func (w *forget) copied(v reflect.Value) (reflect.Value, error) {
	cp := reflect.New(v.Type())
	cp.Elem().Set(v)
	if err := w.object(cp); err != nil {
		return reflect.Value{}, err
	}
	return cp.Elem(), nil
}

// replace swaps the struct held by value in the interface slot for an
// anonymized copy.
func (w *forget) replace(slot, held reflect.Value) error {
	if !slot.CanSet() {
		return fmt.Errorf("%w: %s held by value in an interface", ErrNotSettable, held.Type())
	}
	cp, err := w.copied(held)
	if err != nil {
		return err
	}
	slot.Set(cp)
	return nil
}

// element dispatches one collection element.
func (w *forget) element(e reflect.Value) error {
	if e.Kind() == reflect.Interface {
		if held := heldStruct(e); held.IsValid() {
			return w.replace(e, held)
		}
	}
	inner := e
	for inner.Kind() == reflect.Interface && !inner.IsNil() {
		inner = inner.Elem()
	}
	switch inner.Kind() {
	case reflect.Ptr:
		if inner.IsNil() {
			return nil
		}
		switch inner.Elem().Kind() {
		case reflect.Struct:
			return w.object(inner)
		case reflect.Slice, reflect.Array, reflect.Map:
			return w.collection(inner)
		}
		return nil
	case reflect.Struct:
		return w.nested(e)
	case reflect.Slice, reflect.Array, reflect.Map:
		return w.collection(inner)
	default:
		return nil
	}
}
