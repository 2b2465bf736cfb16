package nest

import (
	"math"
	"reflect"
)

// IsObject reports whether v is a keyed container: *Object, a map keyed by
// a string kind, or a struct (or pointer to one).
func IsObject(v any) bool {
	switch t := v.(type) {
	case *Object:
		return t != nil
	case map[string]any:
		return t != nil
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Map:
		return !rv.IsNil() && rv.Type().Key().Kind() == reflect.String
	case reflect.Struct:
		return true
	}
	return false
}

// IsArray reports whether v is a non-nil slice or an array. []byte is not
// an array: it canonicalizes to a string.
func IsArray(v any) bool {
	if s, ok := v.([]any); ok {
		return s != nil
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice:
		return !rv.IsNil() && rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

// IsContainer reports whether v can be descended into by a path segment.
func IsContainer(v any) bool {
	return IsObject(v) || IsArray(v)
}

// IsEmpty reports whether v is nil or a container/string with no entries.
func IsEmpty(v any) bool {
	return Size(v) == 0 && !isScalarValue(v)
}

// Size returns the entry count of a container or the length of a string.
// Scalars report 0.
func Size(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		return len([]rune(t))
	case *Object:
		return t.Len()
	case Object:
		return t.Len()
	case map[string]any:
		return len(t)
	case []any:
		return len(t)
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return 0
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len()
	case reflect.Struct:
		return len(fieldsFor(rv.Type()))
	}
	return 0
}

// isScalarValue reports whether v is a non-nil value that is neither a
// container nor a string.
func isScalarValue(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(string); ok {
		return false
	}
	return !IsContainer(v) && !isNilValue(reflect.ValueOf(v))
}

// isFalsy mirrors the falsy values of the JSON data model: nil, false, zero,
// NaN, the empty string and typed nils. Empty containers are truthy.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0 || math.IsNaN(t)
	case *Object:
		return t == nil
	case map[string]any:
		return t == nil
	case []any:
		return t == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String:
		return rv.Len() == 0
	}
	return isNilValue(rv)
}

// isNilValue reports whether rv is a nil pointer, map, slice, interface,
// func or channel.
func isNilValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Invalid:
		return true
	}
	return false
}

// indirect dereferences pointers and interfaces until a non-pointer value or
// a nil is reached.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
