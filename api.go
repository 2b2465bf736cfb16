// Package nest provides dotted-path access into nested data and structural
// clone and equality defined by a canonical serialization round trip.
//
// # Paths
//
// A path is a dot-separated sequence of segments. Each segment is a map key,
// a struct field's JSON name, or a decimal array index:
//
//	v, ok := nest.Get(doc, "users.0.name")
//	doc, err := nest.Set(doc, "users.1.email", "bob@example.com")
//
// Get reports absence through its second result and never fails. Set creates
// missing or falsy intermediates as objects, grows arrays with nil holes,
// and returns the possibly replaced root. A failed Set returns a *PathError
// and leaves the root untouched.
//
// # Canonical Model
//
// Clone and Equal operate on the canonical model: nil, bool, float64,
// string, []any and *Object. *Object is an insertion-ordered map, so two
// objects with the same members in different order are not Equal. Go maps
// are converted with keys in ascending order.
//
//	c, _ := nest.Clone(doc)
//	nest.Equal(c, doc) // true
//
// Values without a JSON representation follow JSON rules: NaN and ±Inf
// become null, functions and channels are dropped from objects and become
// null in arrays. Structures that contain themselves fail with
// ErrCyclicStructure.
//
// # Codecs
//
// The root package ships the canonical JSON codec. The yaml, msgpack and
// bson subpackages provide order-preserving codecs over the same model.
// Use binds a codec to a cached Structural:
//
//	s := nest.Use(msgpack.New())
//	c, err := s.Clone(ctx, doc)
//
// # Observability
//
// Structural operations and rejected path writes emit capitan signals. See
// the Signal* and Key* variables.
package nest

import (
	"context"
	"errors"
)

// Canonical returns the canonical JSON text of v.
func Canonical(v any) ([]byte, error) {
	return Use(JSON()).Canonical(context.Background(), v)
}

// Clone returns a deep copy of v in the canonical model using the canonical
// JSON codec.
func Clone(v any) (any, error) {
	return Use(JSON()).Clone(context.Background(), v)
}

// CloneInto round-trips v through canonical JSON into dst.
func CloneInto(v, dst any) error {
	return Use(JSON()).CloneInto(context.Background(), v, dst)
}

// Equal reports whether a and b have identical canonical JSON text.
// Values that cannot be serialized are never equal; use EqualE to see why.
func Equal(a, b any) bool {
	ok, err := EqualE(a, b)
	return err == nil && ok
}

// EqualE is Equal with the serialization error exposed.
func EqualE(a, b any) (bool, error) {
	return Use(JSON()).Equal(context.Background(), a, b)
}

// Fingerprint returns the SHA-256 digest of v's canonical JSON text.
func Fingerprint(v any) (string, error) {
	return Use(JSON()).Fingerprint(context.Background(), v)
}

// Plain converts canonical model values to plain Go values, replacing each
// *Object with a map[string]any. Key order is lost. Other values are
// returned as is.
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		m := make(map[string]any, t.Len())
		t.Range(func(k string, val any) bool {
			m[k] = Plain(val)
			return true
		})
		return m
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Plain(val)
		}
		return out
	case map[string]any:
		if t == nil {
			return t
		}
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = Plain(val)
		}
		return m
	}
	return v
}

// IsCycle reports whether err was caused by a self-referencing structure.
func IsCycle(err error) bool {
	return errors.Is(err, ErrCyclicStructure)
}
