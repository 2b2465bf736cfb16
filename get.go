package nest

import (
	"reflect"
)

// Get resolves path against root and returns the value found and whether
// it is present.
//
// Traversal stops with (nil, false) as soon as a segment is missing or the
// current value is not a container; an invalid path also reports not found.
// A key that is present but holds nil reports (nil, true). Get never
// modifies root.
func Get(root any, path string) (any, bool) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, false
	}
	return p.Get(root)
}

// Has reports whether path resolves to a present value in root.
func Has(root any, path string) bool {
	_, ok := Get(root, path)
	return ok
}

// Get resolves the path against root. See the package-level Get.
func (p Path) Get(root any) (any, bool) {
	if len(p) == 0 {
		return nil, false
	}
	current := root
	for _, seg := range p {
		next, ok := child(current, seg)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Has reports whether the path resolves to a present value in root.
func (p Path) Has(root any) bool {
	_, ok := p.Get(root)
	return ok
}

// child looks up one segment in a container value.
func child(current any, seg string) (any, bool) {
	switch c := current.(type) {
	case nil:
		return nil, false
	case *Object:
		return c.Get(seg)
	case Object:
		return c.Get(seg)
	case map[string]any:
		v, ok := c[seg]
		return v, ok
	case []any:
		i, ok := parseIndex(seg)
		if !ok || i >= len(c) {
			return nil, false
		}
		return c[i], true
	}

	rv := indirect(reflect.ValueOf(current))
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()
		if kt.Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(seg).Convert(kt))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		i, ok := parseIndex(seg)
		if !ok || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		for _, f := range fieldsFor(rv.Type()) {
			if f.name != seg {
				continue
			}
			fv, err := rv.FieldByIndexErr(f.index)
			if err != nil {
				return nil, false
			}
			return fv.Interface(), true
		}
	}
	return nil, false
}
