package gdpr

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"
	"unsafe"
)

var errorType = reflect.TypeFor[error]()

// Value returns the current value of field on obj.
//
// A getter named after the field (Field or GetField, exported form) is
// preferred; otherwise the field is read directly, including unexported
// fields. The field is resolved against the runtime type of obj.
func Value(obj any, field string) (any, error) {
	pv, err := addressable(obj, field)
	if err != nil {
		return nil, err
	}
	return valueOf(pv, field)
}

// SetValue writes value into field of obj, which must be a non-nil pointer to a struct.
//
// A setter named SetField (exported form) taking one argument is preferred;
// otherwise the field is written directly, including unexported fields.
func SetValue(obj any, field string, value any) error {
	pv := reflect.ValueOf(obj)
	for pv.Kind() == reflect.Interface && !pv.IsNil() {
		pv = pv.Elem()
	}
	if pv.Kind() != reflect.Ptr || pv.IsNil() || pv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a pointer to a struct", ErrNotSettable, obj)
	}
	return setValueOf(pv, field, value)
}

// addressable returns a pointer to the struct behind obj, copying values
// passed by value so unexported fields and pointer-receiver getters resolve.
func addressable(obj any, field string) (reflect.Value, error) {
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Interface || rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}, &NoSuchFieldError{Type: rv.Type().String(), Field: field}
		}
		if rv.Kind() == reflect.Ptr && rv.Elem().Kind() == reflect.Struct {
			return rv, nil
		}
		rv = rv.Elem()
	}
	switch {
	case !rv.IsValid():
		return reflect.Value{}, &NoSuchFieldError{Type: "<nil>", Field: field}
	case rv.Kind() == reflect.Struct:
		cp := reflect.New(rv.Type())
		cp.Elem().Set(rv)
		return cp, nil
	default:
		return reflect.Value{}, &NoSuchFieldError{Type: rv.Type().String(), Field: field}
	}
}

// valueOf reads field from the struct pv points to.
func valueOf(pv reflect.Value, field string) (any, error) {
	for _, name := range getterNames(field) {
		m := pv.MethodByName(name)
		if !m.IsValid() {
			continue
		}
		mt := m.Type()
		if mt.NumIn() != 0 {
			continue
		}
		switch {
		case mt.NumOut() == 1:
			return m.Call(nil)[0].Interface(), nil
		case mt.NumOut() == 2 && mt.Out(1) == errorType:
			out := m.Call(nil)
			if err, _ := out[1].Interface().(error); err != nil {
				return nil, err
			}
			return out[0].Interface(), nil
		}
	}

	fv, ok, err := fieldOf(pv, field)
	if err != nil || !ok {
		return nil, err
	}
	return fv.Interface(), nil
}

// setValueOf writes field on the struct pv points to.
func setValueOf(pv reflect.Value, field string, value any) error {
	if m := pv.MethodByName("Set" + exportName(field)); m.IsValid() && isSetter(m.Type()) {
		arg, err := convertTo(value, m.Type().In(0))
		if err != nil {
			return err
		}
		if out := m.Call([]reflect.Value{arg}); len(out) == 1 {
			if err, _ := out[0].Interface().(error); err != nil {
				return err
			}
		}
		return nil
	}

	fv, ok, err := fieldOf(pv, field)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s is promoted through a nil embedded pointer", ErrNotSettable, field)
	}
	arg, err := convertTo(value, fv.Type())
	if err != nil {
		return err
	}
	fv.Set(arg)
	return nil
}

// fieldOf resolves field by name and returns a readable, settable value.
// ok is false when the field is promoted through a nil embedded pointer.
func fieldOf(pv reflect.Value, field string) (reflect.Value, bool, error) {
	st := pv.Elem().Type()
	sf, found := st.FieldByName(field)
	if !found {
		return reflect.Value{}, false, &NoSuchFieldError{Type: typeName(st), Field: field}
	}
	fv, err := pv.Elem().FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, false, nil
	}
	if !fv.CanSet() {
		fv = reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
	}
	return fv, true, nil
}

// unreachable reports whether field is promoted through a nil embedded
// pointer, so there is no storage behind it.
func unreachable(pv reflect.Value, field string) bool {
	sf, found := pv.Elem().Type().FieldByName(field)
	if !found {
		return false
	}
	_, err := pv.Elem().FieldByIndexErr(sf.Index)
	return err != nil
}

// convertTo adapts value to t. Integers are never converted to strings.
func convertTo(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if t.Kind() == reflect.String && v.Kind() != reflect.String {
		return reflect.Value{}, fmt.Errorf("%w: cannot assign %s to %s", ErrNotSettable, v.Type(), t)
	}
	if v.Type().ConvertibleTo(t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot assign %s to %s", ErrNotSettable, v.Type(), t)
}

// getterNames returns candidate getter names for field: Field, then GetField.
// A method cannot share its name with an exported field, so that form is skipped.
func getterNames(field string) []string {
	exported := exportName(field)
	if exported == field {
		return []string{"Get" + exported}
	}
	return []string{exported, "Get" + exported}
}

// isSetter reports whether mt has the shape func(v) or func(v) error.
func isSetter(mt reflect.Type) bool {
	if mt.NumIn() != 1 {
		return false
	}
	return mt.NumOut() == 0 || (mt.NumOut() == 1 && mt.Out(0) == errorType)
}

func exportName(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	if r == utf8.RuneError {
		return field
	}
	return string(unicode.ToUpper(r)) + field[size:]
}
