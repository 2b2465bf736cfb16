// Package testing provides test utilities for nest.
package testing

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/nest"
	"github.com/zoobzio/nest/bson"
	"github.com/zoobzio/nest/msgpack"
	"github.com/zoobzio/nest/yaml"
)

// Address is a nested struct fixture.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip,omitempty"`
}

// Audit is embedded in User to exercise field promotion.
type Audit struct {
	CreatedAt time.Time `json:"created_at"`
	Revision  int       `json:"revision"`
}

// User is a struct fixture covering tags, pointers, slices and embedding.
type User struct {
	Audit
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Email    string            `json:"email,omitempty"`
	Tags     []string          `json:"tags"`
	Address  *Address          `json:"address"`
	Labels   map[string]string `json:"labels,omitempty"`
	Password string            `json:"-"`
}

// SampleUser returns a fully populated User.
func SampleUser() User {
	return User{
		Audit: Audit{
			CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			Revision:  3,
		},
		ID:      "u-1",
		Name:    "Alice",
		Email:   "alice@example.com",
		Tags:    []string{"admin", "ops"},
		Address: &Address{Street: "1 Main St", City: "Springfield"},
		Labels:  map[string]string{"team": "core", "region": "eu"},
	}
}

// SampleUserJSON is the canonical JSON text of SampleUser.
const SampleUserJSON = `{"created_at":"2024-01-02T03:04:05Z","revision":3,"id":"u-1","name":"Alice",` +
	`"email":"alice@example.com","tags":["admin","ops"],` +
	`"address":{"street":"1 Main St","city":"Springfield"},` +
	`"labels":{"region":"eu","team":"core"}}`

// SampleDocument returns an ordered nested document.
func SampleDocument() *nest.Object {
	return nest.ObjectOf(
		"service", "billing",
		"replicas", 3.0,
		"enabled", true,
		"owners", []any{
			nest.ObjectOf("name", "alice", "roles", []any{"admin"}),
			nest.ObjectOf("name", "bob", "roles", []any{}),
		},
		"limits", nest.ObjectOf("cpu", 0.5, "memory", "512Mi"),
		"notes", nil,
	)
}

// CyclicMap returns a map that contains itself.
func CyclicMap() map[string]any {
	m := map[string]any{"name": "loop"}
	m["self"] = m
	return m
}

// Codecs returns every codec shipped with nest, keyed by short name.
func Codecs() map[string]nest.Codec {
	return map[string]nest.Codec{
		"json":    nest.JSON(),
		"yaml":    yaml.New(),
		"msgpack": msgpack.New(),
		"bson":    bson.New(),
	}
}

// AssertCanonical fails tb when the canonical JSON text of v differs from
// want.
func AssertCanonical(tb testing.TB, v any, want string) {
	tb.Helper()
	got, err := nest.Canonical(v)
	if err != nil {
		tb.Fatalf("Canonical() error: %v", err)
	}
	if string(got) != want {
		tb.Errorf("Canonical() = %s, want %s", got, want)
	}
}

// AssertEqual fails tb when a and b are not structurally equal, reporting
// a diff of their plain forms.
func AssertEqual(tb testing.TB, a, b any) {
	tb.Helper()
	equal, err := nest.EqualE(a, b)
	if err != nil {
		tb.Fatalf("Equal() error: %v", err)
	}
	if !equal {
		pa, _ := nest.Clone(a)
		pb, _ := nest.Clone(b)
		tb.Errorf("values differ (-a +b):\n%s", cmp.Diff(nest.Plain(pa), nest.Plain(pb)))
	}
}
