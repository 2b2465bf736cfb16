package nest

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// Structural provides clone, equality and fingerprinting defined through a
// canonical serialization round trip with a given Codec.
//
// Clone marshals a value and unmarshals the bytes into a fresh canonical
// model, so the copy shares nothing with the original and carries the
// codec's fidelity losses. Equal compares canonical bytes, which makes it
// sensitive to *Object key order.
//
// Structurals are safe for concurrent use. SetHasher may be called at any
// time.
type Structural struct {
	codec Codec

	mu     sync.RWMutex
	hasher Hasher
}

// NewStructural creates a Structural bound to codec. A nil codec selects
// the canonical JSON codec. Fingerprints default to SHA-256.
func NewStructural(codec Codec) *Structural {
	if codec == nil {
		codec = JSON()
	}
	s := &Structural{
		codec:  codec,
		hasher: SHA256Hasher(),
	}
	emitStructuralCreated(context.Background(), codec.ContentType())
	return s
}

// Codec returns the codec the Structural serializes with.
func (s *Structural) Codec() Codec {
	return s.codec
}

// SetHasher replaces the fingerprint hasher.
// Returns the Structural for chaining. Safe for concurrent use.
func (s *Structural) SetHasher(h Hasher) *Structural {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasher = h
	return s
}

// Canonical returns the canonical serialization of v.
func (s *Structural) Canonical(_ context.Context, v any) ([]byte, error) {
	return s.marshal(v)
}

// Clone returns an independent copy of v in the canonical model.
// Cycles fail with ErrCyclicStructure and values with no representation at
// the top level with ErrUnsupportedValue; nested unrepresentable values are
// dropped as described on Normalize.
func (s *Structural) Clone(ctx context.Context, v any) (any, error) {
	var out any
	if err := s.CloneInto(ctx, v, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CloneInto round-trips v through the codec into dst, which must be a
// non-nil pointer the codec can decode into.
func (s *Structural) CloneInto(ctx context.Context, v, dst any) error {
	start := time.Now()
	emitCloneStart(ctx, s.codec.ContentType())

	var retErr error
	var size int
	defer func() {
		emitCloneComplete(ctx, s.codec.ContentType(), size, time.Since(start), retErr)
	}()

	data, err := s.marshal(v)
	if err != nil {
		retErr = err
		return retErr
	}
	size = len(data)

	if err := s.codec.Unmarshal(data, dst); err != nil {
		retErr = newCodecError(ErrUnmarshal, err)
		return retErr
	}
	return nil
}

// Equal reports whether a and b have identical canonical serializations.
func (s *Structural) Equal(ctx context.Context, a, b any) (bool, error) {
	start := time.Now()

	var equal bool
	var retErr error
	defer func() {
		emitEqualComplete(ctx, s.codec.ContentType(), equal, time.Since(start), retErr)
	}()

	left, err := s.marshal(a)
	if err != nil {
		retErr = err
		return false, retErr
	}
	right, err := s.marshal(b)
	if err != nil {
		retErr = err
		return false, retErr
	}

	equal = bytes.Equal(left, right)
	return equal, nil
}

// Fingerprint returns the hasher digest of v's canonical serialization.
// Values that are Equal under this Structural share a fingerprint.
func (s *Structural) Fingerprint(ctx context.Context, v any) (string, error) {
	start := time.Now()

	var retErr error
	var size int
	defer func() {
		emitFingerprintComplete(ctx, s.codec.ContentType(), size, time.Since(start), retErr)
	}()

	data, err := s.marshal(v)
	if err != nil {
		retErr = err
		return "", retErr
	}
	size = len(data)

	s.mu.RLock()
	h := s.hasher
	s.mu.RUnlock()

	sum, err := h.Hash(data)
	if err != nil {
		retErr = err
		return "", retErr
	}
	return sum, nil
}

// marshal encodes v with the codec, wrapping failures in a CodecError.
func (s *Structural) marshal(v any) ([]byte, error) {
	data, err := s.codec.Marshal(v)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}
