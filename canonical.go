package nest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf8"
)

// jsonCodec implements Codec with canonical JSON.
type jsonCodec struct{}

// JSON returns the canonical JSON codec.
//
// Marshal output matches what a JavaScript JSON.stringify would produce for
// the normalized value: no insignificant whitespace, members in object
// order, shortest round-trip numbers with -0 written as 0, and no HTML
// escaping. Unmarshal into a *any yields canonical model values with
// objects as *Object in document order; any other destination is decoded
// with encoding/json.
func JSON() Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal normalizes v and encodes it as canonical JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	m, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	return appendCanonical(nil, m)
}

// Unmarshal decodes canonical JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	if target, ok := v.(*any); ok {
		out, err := decodeCanonical(data)
		if err != nil {
			return err
		}
		*target = out
		return nil
	}
	return json.Unmarshal(data, v)
}

// appendCanonical appends the canonical JSON text of a model value.
func appendCanonical(buf []byte, v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return append(buf, "null"...), nil
	case bool:
		return strconv.AppendBool(buf, t), nil
	case float64:
		return appendNumber(buf, t), nil
	case string:
		return appendString(buf, t), nil
	case []any:
		buf = append(buf, '[')
		for i, elem := range t {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendCanonical(buf, elem); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case *Object:
		buf = append(buf, '{')
		var err error
		first := true
		t.Range(func(key string, value any) bool {
			if !first {
				buf = append(buf, ',')
			}
			first = false
			buf = appendString(buf, key)
			buf = append(buf, ':')
			buf, err = appendCanonical(buf, value)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		return append(buf, '}'), nil
	}
	return nil, fmt.Errorf("%w: %T is not a model value", ErrUnsupportedValue, v)
}

// appendNumber formats f the way ECMAScript Number.prototype.toString does
// for finite values.
func appendNumber(buf []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(buf, "null"...)
	}
	if f == 0 {
		return append(buf, '0')
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs < 1e-6 || abs >= 1e21 {
		format = 'e'
	}
	buf = strconv.AppendFloat(buf, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(buf)
		if n >= 4 && buf[n-4] == 'e' && buf[n-3] == '-' && buf[n-2] == '0' {
			buf[n-2] = buf[n-1]
			buf = buf[:n-1]
		}
	}
	return buf
}

const hexDigits = "0123456789abcdef"

// appendString writes s as a JSON string with JSON.stringify escaping.
// Invalid UTF-8 is replaced with U+FFFD.
func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	start := 0
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			if b >= 0x20 && b != '"' && b != '\\' {
				i++
				continue
			}
			buf = append(buf, s[start:i]...)
			switch b {
			case '"', '\\':
				buf = append(buf, '\\', b)
			case '\b':
				buf = append(buf, '\\', 'b')
			case '\f':
				buf = append(buf, '\\', 'f')
			case '\n':
				buf = append(buf, '\\', 'n')
			case '\r':
				buf = append(buf, '\\', 'r')
			case '\t':
				buf = append(buf, '\\', 't')
			default:
				buf = append(buf, '\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			buf = append(buf, s[start:i]...)
			buf = append(buf, "\ufffd"...)
			i += size
			start = i
			continue
		}
		i += size
	}
	buf = append(buf, s[start:]...)
	return append(buf, '"')
}

// decodeCanonical parses one JSON document into model values, keeping
// object member order.
func decodeCanonical(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("nest: trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("nest: object key is %T", keyTok)
				}
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := make([]any, 0)
			for dec.More() {
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("nest: unexpected delimiter %q", t)
	default:
		// bool, float64, string or nil
		return t, nil
	}
}
