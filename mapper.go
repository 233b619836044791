package gdpr

import (
	"reflect"
	"strconv"
)

// MapValue applies the marker's value map to raw.
//
// Non-scalar values and markers without a value map return raw unchanged.
// A scalar found in the map returns its replacement; a scalar missing from
// an active map returns nil, so unmapped values are never exported as-is.
func MapValue(m Marker, raw any) any {
	key, ok := scalarKey(raw)
	if !ok || m.ValueMap == nil {
		return raw
	}
	if mapped, ok := m.ValueMap[key]; ok {
		return mapped
	}
	return nil
}

// IsScalar reports whether v is a string, boolean, or number (named types included).
func IsScalar(v any) bool {
	_, ok := scalarKey(v)
	return ok
}

// scalarKey returns the canonical string form of a scalar.
func scalarKey(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	default:
		return "", false
	}
}
