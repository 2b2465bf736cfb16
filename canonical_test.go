package nest

import (
	"errors"
	"math"
	"testing"
)

func TestAppendNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-42, "-42"},
		{0.5, "0.5"},
		{0.30000000000000004, "0.30000000000000004"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e300, "1.5e+300"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{-2.5e-8, "-2.5e-8"},
		{1e-100, "1e-100"},
		{9007199254740993, "9007199254740992"},
		{math.NaN(), "null"},
		{math.Inf(-1), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := string(appendNumber(nil, tt.in))
			if got != tt.want {
				t.Errorf("appendNumber(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAppendString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", `"hello"`},
		{"quote and backslash", `a"b\c`, `"a\"b\\c"`},
		{"short escapes", "\b\f\n\r\t", `"\b\f\n\r\t"`},
		{"control", "\x00\x1f", `"\u0000\u001f"`},
		{"html untouched", "<a href='x'>&</a>", `"<a href='x'>&</a>"`},
		{"line separator untouched", "h\u00e9llo \u2713 \u2028", "\"h\u00e9llo \u2713 \u2028\""},
		{"invalid utf8", "a\xffb", "\"a\ufffdb\""},
		{"delete untouched", "\x7f", "\"\x7f\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(appendString(nil, tt.in))
			if got != tt.want {
				t.Errorf("appendString(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestJSONCodec_Marshal(t *testing.T) {
	c := JSON()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"null", nil, "null"},
		{"object order", ObjectOf("b", 1, "a", []any{true, nil, "x"}), `{"b":1,"a":[true,null,"x"]}`},
		{"map sorted", map[string]any{"b": 1, "a": 2}, `{"a":2,"b":1}`},
		{"nested empty", ObjectOf("o", NewObject(), "l", []any{}), `{"o":{},"l":[]}`},
		{"nan member", ObjectOf("n", math.NaN()), `{"n":null}`},
		{"func member", ObjectOf("f", func() {}, "k", 1), `{"k":1}`},
		{"func element", []any{func() {}, 1}, `[null,1]`},
		{"bytes", []byte("hi"), `"aGk="`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestJSONCodec_MarshalUnsupported(t *testing.T) {
	c := JSON()

	for _, v := range []any{func() {}, make(chan int), complex(1, 2)} {
		if _, err := c.Marshal(v); !errors.Is(err, ErrUnsupportedValue) {
			t.Errorf("Marshal(%T) error = %v, want %v", v, err, ErrUnsupportedValue)
		}
	}
}

func TestJSONCodec_UnmarshalKeepsOrder(t *testing.T) {
	c := JSON()

	var v any
	if err := c.Unmarshal([]byte(` {"z": 1, "a": {"y": [1, 2.5, "s"], "x": null}} `), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	obj, ok := v.(*Object)
	if !ok {
		t.Fatalf("Unmarshal() = %T, want *Object", v)
	}
	if keys := obj.Keys(); len(keys) != 2 || keys[0] != "z" || keys[1] != "a" {
		t.Errorf("Keys() = %v, want [z a]", keys)
	}

	got, err := c.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if want := `{"z":1,"a":{"y":[1,2.5,"s"],"x":null}}`; string(got) != want {
		t.Errorf("Marshal(Unmarshal()) = %s, want %s", got, want)
	}
}

func TestJSONCodec_UnmarshalStruct(t *testing.T) {
	c := JSON()

	var dst struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}
	if err := c.Unmarshal([]byte(`{"name":"x","n":3}`), &dst); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if dst.Name != "x" || dst.N != 3 {
		t.Errorf("Unmarshal() = %+v", dst)
	}
}

func TestDecodeCanonical_Errors(t *testing.T) {
	inputs := []string{
		``,
		`{"a":`,
		`[1,]`,
		`{"a":1} {"b":2}`,
		`1 2`,
		`nul`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			if _, err := decodeCanonical([]byte(in)); err == nil {
				t.Errorf("decodeCanonical(%q) should fail", in)
			}
		})
	}
}

func TestDecodeCanonical_EmptyContainers(t *testing.T) {
	v, err := decodeCanonical([]byte(`{"l":[],"o":{}}`))
	if err != nil {
		t.Fatalf("decodeCanonical() error: %v", err)
	}
	obj := v.(*Object)
	l, _ := obj.Get("l")
	if arr, ok := l.([]any); !ok || arr == nil || len(arr) != 0 {
		t.Errorf("l = %#v, want empty non-nil []any", l)
	}
	o, _ := obj.Get("o")
	if inner, ok := o.(*Object); !ok || inner.Len() != 0 {
		t.Errorf("o = %#v, want empty *Object", o)
	}
}
