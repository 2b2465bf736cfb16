package nest

import (
	"fmt"
)

// Object is a string-keyed mapping that remembers insertion order.
//
// Insertion order is part of an Object's canonical form: two objects holding
// the same entries in a different order are not Equal. Setting an existing
// key keeps its original position.
//
// The zero value is an empty object ready to use.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{}
}

// ObjectOf builds an object from alternating keys and values:
//
//	nest.ObjectOf("id", 1, "name", "alice")
//
// It panics if the argument count is odd or a key is not a string.
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("nest: ObjectOf requires key/value pairs")
	}
	o := &Object{}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("nest: ObjectOf key %d is %T, not string", i/2, kv[i]))
		}
		o.Set(key, kv[i+1])
	}
	return o
}

// Get returns the value stored under key and whether it is present.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores value under key. New keys are appended; existing keys keep
// their position. Returns the object for chaining.
//
// Unlike the read methods, Set panics on a nil *Object, as assigning into a
// nil map does.
func (o *Object) Set(key string, value any) *Object {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Delete removes key, reporting whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order. The slice is a copy.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// String returns the canonical JSON text of the object, or a placeholder
// when the object cannot be serialized.
func (o *Object) String() string {
	data, err := Canonical(o)
	if err != nil {
		return fmt.Sprintf("<object: %v>", err)
	}
	return string(data)
}

// MarshalJSON encodes the object in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	return Canonical(o)
}

// UnmarshalJSON replaces the contents of o with the decoded object,
// keeping the key order of data.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := decodeCanonical(data)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("nest: cannot unmarshal %T into Object", v)
	}
	*o = *decoded
	return nil
}
