package nest

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Normalize converts v into the canonical model: nil, bool, float64,
// string, []any and *Object. The result shares no containers with v.
//
// The conversion follows JSON value rules:
//
//   - NaN and ±Inf become nil; every numeric kind becomes float64.
//   - Functions, channels, complex numbers and unsafe pointers have no
//     representation: they are omitted from objects and become nil inside
//     arrays. At the top level they fail with ErrUnsupportedValue.
//   - json.Marshaler output is decoded (time.Time becomes its RFC 3339
//     string); encoding.TextMarshaler becomes a string; []byte becomes a
//     base64 string; nil pointers, maps and slices become nil.
//   - Structs become objects of their exported fields named by json tag,
//     honoring "-" and omitempty and promoting untagged embedded structs.
//   - Go maps become objects with keys in ascending order. Object keeps its
//     insertion order.
//   - Types implementing Normalizer supply their own model value.
//
// A container reached again while it is still being converted fails with
// ErrCyclicStructure. Shared references that do not form a cycle are copied
// once per occurrence.
func Normalize(v any) (any, error) {
	n := &normalizer{active: make(map[visitKey]struct{})}
	out, ok, err := n.value(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return out, nil
}

// visitKey identifies a container on the active conversion path.
type visitKey struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// normalizer carries the active path for cycle detection and error context.
type normalizer struct {
	active map[visitKey]struct{}
	path   []string
}

// value converts one value. ok is false when v has no representation.
func (n *normalizer) value(v any) (any, bool, error) {
	switch t := v.(type) {
	case nil:
		return nil, true, nil
	case bool:
		return t, true, nil
	case string:
		return t, true, nil
	case float64:
		return finite(t), true, nil
	case int:
		return float64(t), true, nil
	case int64:
		return float64(t), true, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, false, fmt.Errorf("%w: number %q at %s", ErrUnsupportedValue, string(t), n.where())
		}
		return finite(f), true, nil
	case *Object:
		if t == nil {
			return nil, true, nil
		}
		return n.object(t)
	case Object:
		return n.object(&t)
	case map[string]any:
		if t == nil {
			return nil, true, nil
		}
		return n.stringMap(t)
	case []any:
		if t == nil {
			return nil, true, nil
		}
		return n.array(reflect.ValueOf(t))
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, true, nil
	}

	switch t := v.(type) {
	case Normalizer:
		out, err := t.Normalize()
		if err != nil {
			return nil, false, fmt.Errorf("normalize %T at %s: %w", v, n.where(), err)
		}
		if _, same := out.(Normalizer); same {
			return nil, false, fmt.Errorf("%w: %T normalizes to a Normalizer", ErrUnsupportedValue, v)
		}
		return n.value(out)
	case json.Marshaler:
		data, err := t.MarshalJSON()
		if err != nil {
			return nil, false, fmt.Errorf("marshal %T at %s: %w", v, n.where(), err)
		}
		out, err := decodeCanonical(data)
		if err != nil {
			return nil, false, fmt.Errorf("decode %T at %s: %w", v, n.where(), err)
		}
		return out, true, nil
	case encoding.TextMarshaler:
		text, err := t.MarshalText()
		if err != nil {
			return nil, false, fmt.Errorf("marshal %T at %s: %w", v, n.where(), err)
		}
		return string(text), true, nil
	}

	return n.reflectValue(rv)
}

// reflectValue converts the kinds not covered by the fast paths.
func (n *normalizer) reflectValue(rv reflect.Value) (any, bool, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true, nil
	case reflect.Float32, reflect.Float64:
		return finite(rv.Float()), true, nil
	case reflect.String:
		return rv.String(), true, nil

	case reflect.Ptr:
		if rv.IsNil() {
			return nil, true, nil
		}
		leave, err := n.enter(rv, 0)
		if err != nil {
			return nil, false, err
		}
		defer leave()
		return n.value(rv.Elem().Interface())

	case reflect.Interface:
		if rv.IsNil() {
			return nil, true, nil
		}
		return n.value(rv.Elem().Interface())

	case reflect.Map:
		if rv.IsNil() {
			return nil, true, nil
		}
		return n.reflectMap(rv)

	case reflect.Slice:
		if rv.IsNil() {
			return nil, true, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return base64.StdEncoding.EncodeToString(rv.Bytes()), true, nil
		}
		return n.array(rv)

	case reflect.Array:
		return n.array(rv)

	case reflect.Struct:
		return n.structValue(rv)
	}

	// Func, Chan, Complex64, Complex128, UnsafePointer.
	return nil, false, nil
}

func (n *normalizer) object(o *Object) (any, bool, error) {
	// Keyed by the entry map so copies of an Object held by value are the
	// same container.
	if o.values != nil {
		leave, err := n.enter(reflect.ValueOf(o.values), 0)
		if err != nil {
			return nil, false, err
		}
		defer leave()
	}

	out := NewObject()
	var rangeErr error
	o.Range(func(key string, value any) bool {
		nv, ok, err := n.member(key, value)
		if err != nil {
			rangeErr = err
			return false
		}
		if ok {
			out.Set(key, nv)
		}
		return true
	})
	if rangeErr != nil {
		return nil, false, rangeErr
	}
	return out, true, nil
}

func (n *normalizer) stringMap(m map[string]any) (any, bool, error) {
	leave, err := n.enter(reflect.ValueOf(m), 0)
	if err != nil {
		return nil, false, err
	}
	defer leave()

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := NewObject()
	for _, k := range keys {
		nv, ok, err := n.member(k, m[k])
		if err != nil {
			return nil, false, err
		}
		if ok {
			out.Set(k, nv)
		}
	}
	return out, true, nil
}

func (n *normalizer) reflectMap(rv reflect.Value) (any, bool, error) {
	leave, err := n.enter(rv, 0)
	if err != nil {
		return nil, false, err
	}
	defer leave()

	type entry struct {
		key   string
		value reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, false, fmt.Errorf("%w at %s", err, n.where())
		}
		entries = append(entries, entry{key: key, value: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	out := NewObject()
	for _, e := range entries {
		nv, ok, err := n.member(e.key, e.value.Interface())
		if err != nil {
			return nil, false, err
		}
		if ok {
			out.Set(e.key, nv)
		}
	}
	return out, true, nil
}

func (n *normalizer) array(rv reflect.Value) (any, bool, error) {
	if rv.Kind() == reflect.Slice && rv.Len() > 0 {
		leave, err := n.enter(rv, rv.Len())
		if err != nil {
			return nil, false, err
		}
		defer leave()
	}

	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		n.path = append(n.path, strconv.Itoa(i))
		nv, ok, err := n.value(rv.Index(i).Interface())
		n.path = n.path[:len(n.path)-1]
		if err != nil {
			return nil, false, err
		}
		if ok {
			out[i] = nv
		}
	}
	return out, true, nil
}

func (n *normalizer) structValue(rv reflect.Value) (any, bool, error) {
	out := NewObject()
	for _, f := range fieldsFor(rv.Type()) {
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			// Nil embedded pointer: its promoted fields are absent.
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		nv, ok, err := n.member(f.name, fv.Interface())
		if err != nil {
			return nil, false, err
		}
		if ok {
			out.Set(f.name, nv)
		}
	}
	return out, true, nil
}

// member converts an object member value with key pushed onto the path.
func (n *normalizer) member(key string, value any) (any, bool, error) {
	n.path = append(n.path, key)
	defer func() { n.path = n.path[:len(n.path)-1] }()
	return n.value(value)
}

// enter marks a reference container as active and returns the func that
// clears the mark. Reaching an active container again is a cycle.
func (n *normalizer) enter(rv reflect.Value, length int) (func(), error) {
	key := visitKey{ptr: rv.Pointer(), typ: rv.Type(), len: length}
	if _, ok := n.active[key]; ok {
		return nil, fmt.Errorf("%w at %s", ErrCyclicStructure, n.where())
	}
	n.active[key] = struct{}{}
	return func() { delete(n.active, key) }, nil
}

// where renders the current path for error messages.
func (n *normalizer) where() string {
	if len(n.path) == 0 {
		return "<root>"
	}
	return strconv.Quote(strings.Join(n.path, Separator))
}

// mapKey renders a map key as an object member name.
func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if k.Kind() == reflect.Ptr && k.IsNil() {
			return "", nil
		}
		text, err := tm.MarshalText()
		if err != nil {
			return "", err
		}
		return string(text), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("%w: map key of type %s", ErrUnsupportedValue, k.Type())
}

// finite maps NaN and infinities to nil.
func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// isEmptyValue reports whether a struct field counts as empty for omitempty.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
