package gdpr

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
)

// Delegate normalizes one element of an iterable through the surrounding pipeline.
type Delegate func(index int, elem any) (any, error)

// IterableNormalizer normalizes slices, arrays, and maps element by element.
type IterableNormalizer struct{}

// NewIterableNormalizer creates an IterableNormalizer.
func NewIterableNormalizer() *IterableNormalizer {
	return &IterableNormalizer{}
}

// Supports reports whether v is a slice, array, or map, empty or not.
// Byte slices are scalar leaves, not iterables.
func (n *IterableNormalizer) Supports(v any) bool {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

// Normalize hands each element to next and collects the results in order.
// Map values are visited in sorted key order; the keys are dropped.
func (n *IterableNormalizer) Normalize(v any, next Delegate) ([]any, error) {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return []any{}, nil
	}

	var elems []reflect.Value
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems = make([]reflect.Value, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i)
		}
	case reflect.Map:
		keys := rv.MapKeys()
		slices.SortFunc(keys, compareKeys)
		elems = make([]reflect.Value, len(keys))
		for i, k := range keys {
			elems[i] = rv.MapIndex(k)
		}
	default:
		return nil, fmt.Errorf("%T is not iterable", v)
	}

	out := make([]any, len(elems))
	for i, e := range elems {
		normalized, err := next(i, e.Interface())
		if err != nil {
			return nil, err
		}
		out[i] = normalized
	}
	return out, nil
}

// compareKeys orders map keys of the same kind deterministically.
func compareKeys(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	default:
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	}
}
