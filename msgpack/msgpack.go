// Package msgpack provides an order-preserving MessagePack codec for nest.
package msgpack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"github.com/zoobzio/nest"
)

// msgpackCodec implements nest.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec. Objects are written as maps in insertion
// order and integral numbers in their most compact integer form.
func New() nest.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal normalizes v and encodes it as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	m, err := nest.Normalize(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encode(enc, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	model, err := decode(dec)
	if err != nil {
		return err
	}
	if _, err := dec.PeekCode(); !errors.Is(err, io.EOF) {
		return errors.New("msgpack: unexpected data after top-level value")
	}
	return nest.Populate(model, v)
}

// maxSafeInt is the largest magnitude below which every integer is exact.
const maxSafeInt = 1 << 53

func encode(enc *msgpack.Encoder, v any) error {
	switch t := v.(type) {
	case nil:
		return enc.EncodeNil()
	case bool:
		return enc.EncodeBool(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) <= maxSafeInt {
			return enc.EncodeInt(int64(t))
		}
		return enc.EncodeFloat64(t)
	case string:
		return enc.EncodeString(t)
	case []any:
		if err := enc.EncodeArrayLen(len(t)); err != nil {
			return err
		}
		for _, item := range t {
			if err := encode(enc, item); err != nil {
				return err
			}
		}
		return nil
	case *nest.Object:
		if err := enc.EncodeMapLen(t.Len()); err != nil {
			return err
		}
		var err error
		t.Range(func(k string, val any) bool {
			if err = enc.EncodeString(k); err != nil {
				return false
			}
			err = encode(enc, val)
			return err == nil
		})
		return err
	}
	return fmt.Errorf("%w: %T is not a model value", nest.ErrUnsupportedValue, v)
}

func decode(dec *msgpack.Decoder) (any, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		obj := nest.NewObject()
		for i := 0; i < n; i++ {
			k, err := dec.DecodeString()
			if err != nil {
				return nil, fmt.Errorf("msgpack: map key %d: %w", i, err)
			}
			v, err := decode(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(k, v)
		}
		return obj, nil
	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			v, err := decode(dec)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	// Scalars, binary and extensions (timestamps) are brought into the
	// model by Normalize.
	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, err
	}
	return nest.Normalize(v)
}
