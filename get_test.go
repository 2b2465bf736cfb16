package nest_test

import (
	"testing"

	"github.com/zoobzio/nest"
)

type profile struct {
	Handle string `json:"handle"`
}

type account struct {
	ID      string            `json:"id"`
	Profile *profile          `json:"profile"`
	Scores  []int             `json:"scores"`
	Meta    map[string]string `json:"meta"`
	Secret  string            `json:"-"`
	Plain   string
}

func TestGet(t *testing.T) {
	doc := nest.ObjectOf(
		"a", nest.ObjectOf("b", 1.0, "n", nil),
		"list", []any{"x", nest.ObjectOf("y", true)},
		"plain", map[string]any{"k": "v"},
	)

	tests := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{"a.b", 1.0, true},
		{"a.n", nil, true},
		{"list.0", "x", true},
		{"list.1.y", true, true},
		{"plain.k", "v", true},
		{"a.c.d", nil, false},
		{"list.2", nil, false},
		{"list.x", nil, false},
		{"list.01", nil, false},
		{"a.b.c", nil, false},
		{"a.n.x", nil, false},
		{"a..b", nil, false},
		{"", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := nest.Get(doc, tt.path)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Get(%q) = %v, %v; want %v, %v", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGet_Structs(t *testing.T) {
	acct := &account{
		ID:      "a-1",
		Profile: &profile{Handle: "al"},
		Scores:  []int{7, 9},
		Meta:    map[string]string{"tier": "gold"},
		Secret:  "hidden",
		Plain:   "untagged",
	}

	tests := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{"id", "a-1", true},
		{"profile.handle", "al", true},
		{"scores.1", 9, true},
		{"meta.tier", "gold", true},
		{"Plain", "untagged", true},
		{"Secret", nil, false},
		{"ID", nil, false},
		{"scores.2", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := nest.Get(acct, tt.path)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Get(%q) = %v, %v; want %v, %v", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGet_NilPointerField(t *testing.T) {
	acct := account{ID: "a-2"}

	if _, ok := nest.Get(acct, "profile.handle"); ok {
		t.Error("Get through nil pointer should report not found")
	}
	v, ok := nest.Get(acct, "profile")
	if !ok {
		t.Fatal("Get(profile) should be present")
	}
	if p, _ := v.(*profile); p != nil {
		t.Errorf("Get(profile) = %v, want nil pointer", v)
	}
}

func TestGet_Arrays(t *testing.T) {
	arr := [3]string{"a", "b", "c"}
	if v, ok := nest.Get(arr, "2"); !ok || v != "c" {
		t.Errorf("Get(array, 2) = %v, %v; want c, true", v, ok)
	}

	raw := map[string]any{"bytes": []byte("hi")}
	if _, ok := nest.Get(raw, "bytes.0"); ok {
		t.Error("[]byte should not be indexable")
	}
}

func TestGet_NonContainerRoot(t *testing.T) {
	for _, root := range []any{nil, 1, "str", true} {
		if _, ok := nest.Get(root, "a"); ok {
			t.Errorf("Get(%#v, a) should report not found", root)
		}
	}
}

func TestHas(t *testing.T) {
	doc := map[string]any{"a": map[string]any{"b": nil}}

	if !nest.Has(doc, "a.b") {
		t.Error("Has(a.b) = false, want true for present nil")
	}
	if nest.Has(doc, "a.c") {
		t.Error("Has(a.c) = true, want false")
	}
	if !nest.MustParsePath("a").Has(doc) {
		t.Error("Path.Has(a) = false, want true")
	}
}

func TestGet_DoesNotModify(t *testing.T) {
	doc := nest.ObjectOf("a", nest.NewObject())
	before, _ := nest.Canonical(doc)

	nest.Get(doc, "a.b.c")

	after, _ := nest.Canonical(doc)
	if string(before) != string(after) {
		t.Errorf("Get modified root: %s -> %s", before, after)
	}
}
