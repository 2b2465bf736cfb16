package nest

import (
	"context"
	"reflect"
)

// Set writes value at path inside root and returns root.
//
// Every segment but the last is walked; a segment that is absent or holds a
// falsy value (nil, false, zero, NaN, "" or a typed nil) is replaced by a new
// empty mapping before descending. Note that falsy leaves are overwritten:
// Set(root, "a.b", 1) on {"a": 0} yields {"a": {"b": 1}}. Intermediate
// positions are always created as mappings, never as slices; address slice
// elements through a slice that already exists.
//
// The final segment is overwritten without merging.
//
// root is mutated in place and returned, so callers may use either. The one
// exception is a root []any that has to grow to reach an index: the grown
// slice is returned. Slices below the root are grown and stored back into
// their parent.
//
// Set fails, leaving root unmodified, when the path is invalid
// (ErrInvalidPath), when a truthy non-container sits on the path or root is
// not a writable container (ErrNotContainer), when a slice is addressed by a
// non-index segment or grown past MaxIndex (ErrInvalidIndex), or when a
// typed map cannot hold the value (ErrTypeMismatch). All failures are
// *PathError.
func Set(root any, path string, value any) (any, error) {
	p, err := ParsePath(path)
	if err != nil {
		emitSetFailed(context.Background(), path, err)
		return root, err
	}
	return p.Set(root, value)
}

// Set writes value at the path inside root. See the package-level Set.
func (p Path) Set(root any, value any) (any, error) {
	if len(p) == 0 {
		err := newPathError(ErrInvalidPath, "", -1, "")
		emitSetFailed(context.Background(), "", err)
		return root, err
	}

	_, isMap := root.(map[string]any)
	updated, err := p.assign(root, 0, value, !isMap)
	if err != nil {
		emitSetFailed(context.Background(), p.String(), err)
		return root, err
	}
	return updated, nil
}

// assign writes value at p[i:] below container and returns the container,
// which differs from the input only when a slice had to grow. ordered
// selects the mapping type for created intermediates: *Object below an
// *Object, map[string]any below a Go map.
func (p Path) assign(container any, i int, value any, ordered bool) (any, error) {
	seg := p[i]
	last := i == len(p)-1

	switch c := container.(type) {
	case *Object:
		if c == nil {
			return container, p.fail(ErrNotContainer, i)
		}
		if last {
			c.Set(seg, value)
			return c, nil
		}
		next, _ := c.Get(seg)
		updated, err := p.descend(next, i, value, true)
		if err != nil {
			return c, err
		}
		c.Set(seg, updated)
		return c, nil

	case Object:
		// Written on a copy; the parent stores the returned value.
		updated, err := p.assign(&c, i, value, ordered)
		if err != nil {
			return container, err
		}
		return *updated.(*Object), nil

	case map[string]any:
		if c == nil {
			return container, p.fail(ErrNotContainer, i)
		}
		if last {
			c[seg] = value
			return c, nil
		}
		updated, err := p.descend(c[seg], i, value, false)
		if err != nil {
			return c, err
		}
		c[seg] = updated
		return c, nil

	case []any:
		if c == nil {
			return container, p.fail(ErrNotContainer, i)
		}
		idx, ok := parseIndex(seg)
		if !ok || (idx >= len(c) && idx > MaxIndex) {
			return c, p.fail(ErrInvalidIndex, i)
		}
		if last {
			c = grow(c, idx)
			c[idx] = value
			return c, nil
		}
		var next any
		if idx < len(c) {
			next = c[idx]
		}
		updated, err := p.descend(next, i, value, ordered)
		if err != nil {
			return c, err
		}
		c = grow(c, idx)
		c[idx] = updated
		return c, nil
	}

	return p.assignReflect(container, i, value)
}

// descend replaces a falsy next value with a fresh mapping and continues
// the walk one segment deeper.
func (p Path) descend(next any, i int, value any, ordered bool) (any, error) {
	if isFalsy(next) {
		next = freshMapping(ordered)
	}
	return p.assign(next, i+1, value, ordered)
}

// assignReflect handles maps keyed by a string kind with a non-interface
// element type, e.g. map[string]map[string]any.
func (p Path) assignReflect(container any, i int, value any) (any, error) {
	rv := reflect.ValueOf(container)
	if rv.Kind() != reflect.Map || rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
		return container, p.fail(ErrNotContainer, i)
	}

	key := reflect.ValueOf(p[i]).Convert(rv.Type().Key())
	elemType := rv.Type().Elem()

	if i == len(p)-1 {
		ev, ok := assignable(value, elemType)
		if !ok {
			return container, p.fail(ErrTypeMismatch, i)
		}
		rv.SetMapIndex(key, ev)
		return container, nil
	}

	var next any
	if mv := rv.MapIndex(key); mv.IsValid() {
		next = mv.Interface()
	}
	if isFalsy(next) {
		fresh, ok := freshFor(elemType)
		if !ok {
			return container, p.fail(ErrTypeMismatch, i)
		}
		next = fresh
	}
	updated, err := p.assign(next, i+1, value, false)
	if err != nil {
		return container, err
	}
	ev, ok := assignable(updated, elemType)
	if !ok {
		return container, p.fail(ErrTypeMismatch, i)
	}
	rv.SetMapIndex(key, ev)
	return container, nil
}

// fail builds a PathError for segment i.
func (p Path) fail(sentinel error, i int) error {
	return newPathError(sentinel, p.String(), i, p[i])
}

// grow extends s with nil holes so that idx is addressable.
func grow(s []any, idx int) []any {
	if idx < len(s) {
		return s
	}
	return append(s, make([]any, idx-len(s)+1)...)
}

// freshMapping returns an empty mapping of the requested family.
func freshMapping(ordered bool) any {
	if ordered {
		return NewObject()
	}
	return make(map[string]any)
}

// freshFor returns an empty mapping that can be stored in elemType.
func freshFor(elemType reflect.Type) (any, bool) {
	switch {
	case elemType.Kind() == reflect.Interface:
		m := make(map[string]any)
		return m, reflect.TypeOf(m).Implements(elemType)
	case elemType.Kind() == reflect.Map && elemType.Key().Kind() == reflect.String:
		return reflect.MakeMap(elemType).Interface(), true
	}
	return nil, false
}

// assignable converts v into a reflect.Value storable as t.
func assignable(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, true
	}
	return reflect.Value{}, false
}
