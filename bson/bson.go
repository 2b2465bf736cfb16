// Package bson provides an order-preserving BSON codec for nest.
//
// BSON documents must be objects, so every value is wrapped in a
// single-field envelope {"v": value}. Numbers are stored as doubles.
package bson

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/zoobzio/nest"
	"go.mongodb.org/mongo-driver/bson"
)

// envelopeKey names the envelope field that carries the value.
const envelopeKey = "v"

// bsonCodec implements nest.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() nest.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal normalizes v and encodes it as an enveloped BSON document.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	m, err := nest.Normalize(v)
	if err != nil {
		return nil, err
	}
	value, err := toBSON(m)
	if err != nil {
		return nil, err
	}
	return bson.Marshal(bson.D{{Key: envelopeKey, Value: value}})
}

// Unmarshal decodes an enveloped BSON document into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	raw := bson.Raw(data)
	if err := raw.Validate(); err != nil {
		return err
	}
	value, err := raw.LookupErr(envelopeKey)
	if err != nil {
		return fmt.Errorf("bson: missing %q envelope field: %w", envelopeKey, err)
	}
	model, err := fromBSON(value)
	if err != nil {
		return err
	}
	return nest.Populate(model, v)
}

// toBSON converts a canonical model value into driver types.
func toBSON(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string:
		return t, nil
	case float64:
		if t == 0 {
			// Drops the sign of negative zero.
			return 0.0, nil
		}
		return t, nil
	case []any:
		out := make(bson.A, 0, len(t))
		for _, item := range t {
			bv, err := toBSON(item)
			if err != nil {
				return nil, err
			}
			out = append(out, bv)
		}
		return out, nil
	case *nest.Object:
		out := make(bson.D, 0, t.Len())
		var err error
		t.Range(func(k string, val any) bool {
			var bv any
			bv, err = toBSON(val)
			if err != nil {
				return false
			}
			out = append(out, bson.E{Key: k, Value: bv})
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T is not a model value", nest.ErrUnsupportedValue, v)
}

// fromBSON converts a raw BSON value into the canonical model, walking
// documents element by element so key order survives.
func fromBSON(rv bson.RawValue) (any, error) {
	switch rv.Type {
	case bson.TypeNull, bson.TypeUndefined:
		return nil, nil
	case bson.TypeBoolean:
		return rv.Boolean(), nil
	case bson.TypeDouble:
		return nest.Normalize(rv.Double())
	case bson.TypeInt32:
		return float64(rv.Int32()), nil
	case bson.TypeInt64:
		return float64(rv.Int64()), nil
	case bson.TypeString:
		return rv.StringValue(), nil
	case bson.TypeDateTime:
		return time.UnixMilli(rv.DateTime()).UTC().Format(time.RFC3339Nano), nil
	case bson.TypeObjectID:
		return rv.ObjectID().Hex(), nil
	case bson.TypeBinary:
		_, data := rv.Binary()
		return base64.StdEncoding.EncodeToString(data), nil
	case bson.TypeDecimal128:
		return rv.Decimal128().String(), nil
	case bson.TypeEmbeddedDocument:
		elems, err := rv.Document().Elements()
		if err != nil {
			return nil, err
		}
		obj := nest.NewObject()
		for _, e := range elems {
			val, err := fromBSON(e.Value())
			if err != nil {
				return nil, fmt.Errorf("bson: field %q: %w", e.Key(), err)
			}
			obj.Set(e.Key(), val)
		}
		return obj, nil
	case bson.TypeArray:
		values, err := rv.Array().Values()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(values))
		for _, item := range values {
			val, err := fromBSON(item)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: bson type %s", nest.ErrUnsupportedValue, rv.Type)
}
