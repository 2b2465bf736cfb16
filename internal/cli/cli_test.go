package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zoobzio/nest"
)

// run executes the root command with stdin and returns what it printed.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// --- get ---

func TestGet(t *testing.T) {
	cases := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"array element", `{"b":{"c":[1,2]}}`, []string{"get", "b.c.1"}, "2\n"},
		{"keeps key order", `{"z":1,"a":{"y":2,"x":3}}`, []string{"get", "a"}, `{"y":2,"x":3}` + "\n"},
		{"string quoted", `{"s":"hi"}`, []string{"get", "s"}, `"hi"` + "\n"},
		{"string raw", `{"s":"hi"}`, []string{"get", "s", "--raw"}, "hi\n"},
		{"null value", `{"n":null}`, []string{"get", "n"}, "null\n"},
		{"jsonpath", `{"users":[{"name":"a"},{"name":"b"}]}`, []string{"get", "--jsonpath", "$.users[*].name"}, `["a","b"]` + "\n"},
		{"yaml output", `{"a":{"k":true}}`, []string{"get", "a", "--to", "yaml"}, "k: true\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := run(t, c.stdin, c.args...)
			if err != nil {
				t.Fatalf("get error: %v", err)
			}
			if got != c.want {
				t.Errorf("get = %q, want %q", got, c.want)
			}
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := run(t, `{"a":1}`, "get", "b")
	if !errors.Is(err, errNotFound) {
		t.Errorf("get missing error = %v, want %v", err, errNotFound)
	}
}

func TestGet_InvalidPath(t *testing.T) {
	_, err := run(t, `{"a":1}`, "get", "a..b")
	if !errors.Is(err, nest.ErrInvalidPath) {
		t.Errorf("get a..b error = %v, want %v", err, nest.ErrInvalidPath)
	}
}

func TestGet_PathAndQueryExclusive(t *testing.T) {
	if _, err := run(t, `{}`, "get", "a", "--jsonpath", "$.a"); err == nil {
		t.Error("expected error when both path and --jsonpath are given")
	}
	if _, err := run(t, `{}`, "get"); err == nil {
		t.Error("expected error when neither path nor --jsonpath is given")
	}
}

func TestGet_FromYAMLFile(t *testing.T) {
	p := writeFile(t, "doc.yml", "service:\n  port: 8080\n")

	got, err := run(t, "", "get", "service.port", "--file", p)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got != "8080\n" {
		t.Errorf("get = %q, want %q", got, "8080\n")
	}
}

func TestGet_InvalidInput(t *testing.T) {
	_, err := run(t, `{"a":`, "get", "a")
	if err == nil {
		t.Error("expected error for truncated JSON input")
	}
}

// --- set ---

func TestSet(t *testing.T) {
	cases := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"creates intermediates", `{"a":1}`, []string{"set", "b.c", "2"}, `{"a":1,"b":{"c":2}}`},
		{"plain string", `{"a":1}`, []string{"set", "a", "hello"}, `{"a":"hello"}`},
		{"forced string", `{"a":1}`, []string{"set", "a", "12", "--string"}, `{"a":"12"}`},
		{"json object", `{}`, []string{"set", "a", `{"y":1,"x":2}`}, `{"a":{"y":1,"x":2}}`},
		{"grows array", `{"l":[1]}`, []string{"set", "l.3", "true"}, `{"l":[1,null,null,true]}`},
		{"overwrites falsy", `{"a":0}`, []string{"set", "a.b", "null"}, `{"a":{"b":null}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := run(t, c.stdin, c.args...)
			if err != nil {
				t.Fatalf("set error: %v", err)
			}
			if got != c.want+"\n" {
				t.Errorf("set = %q, want %q", got, c.want+"\n")
			}
		})
	}
}

func TestSet_NotContainer(t *testing.T) {
	_, err := run(t, `{"a":"x"}`, "set", "a.b", "1")
	if !errors.Is(err, nest.ErrNotContainer) {
		t.Errorf("set through string error = %v, want %v", err, nest.ErrNotContainer)
	}
}

func TestSet_IndexLimit(t *testing.T) {
	_, err := run(t, `{"l":[1]}`, "set", "l.99999999999", "1")
	if !errors.Is(err, nest.ErrInvalidIndex) {
		t.Errorf("set huge index error = %v, want %v", err, nest.ErrInvalidIndex)
	}
}

func TestSet_KeepsInputFormat(t *testing.T) {
	p := writeFile(t, "doc.yaml", "b: 1\na: 2\n")

	got, err := run(t, "", "set", "c", "3", "-f", p)
	if err != nil {
		t.Fatalf("set error: %v", err)
	}
	want := "b: 1\na: 2\nc: 3\n"
	if got != want {
		t.Errorf("set = %q, want %q", got, want)
	}
}

// --- equal ---

func TestEqual(t *testing.T) {
	jsonFile := writeFile(t, "a.json", `{"name":"x","tags":["p","q"]}`)
	yamlFile := writeFile(t, "b.yaml", "name: x\ntags:\n  - p\n  - q\n")
	reordered := writeFile(t, "c.json", `{"tags":["p","q"],"name":"x"}`)

	got, err := run(t, "", "equal", jsonFile, yamlFile)
	if err != nil {
		t.Fatalf("equal error: %v", err)
	}
	if got != "equal\n" {
		t.Errorf("equal = %q, want %q", got, "equal\n")
	}

	got, err = run(t, "", "equal", jsonFile, reordered)
	if !errors.Is(err, errDifferent) {
		t.Errorf("equal reordered error = %v, want %v", err, errDifferent)
	}
	if got != "different\n" {
		t.Errorf("equal = %q, want %q", got, "different\n")
	}
}

func TestEqual_Quiet(t *testing.T) {
	a := writeFile(t, "a.json", `[1]`)
	b := writeFile(t, "b.json", `[2]`)

	got, err := run(t, "", "equal", "-q", a, b)
	if !errors.Is(err, errDifferent) {
		t.Errorf("equal error = %v, want %v", err, errDifferent)
	}
	if got != "" {
		t.Errorf("equal -q printed %q, want nothing", got)
	}
}

// --- fingerprint ---

func TestFingerprint(t *testing.T) {
	got, err := run(t, `{ "a" : 1 }`, "fingerprint")
	if err != nil {
		t.Fatalf("fingerprint error: %v", err)
	}
	// sha256 of the canonical text {"a":1}
	want := "015abd7f5cc57a2dd94b7590f04ad8084273905ee33ec5cebeae62276a97f862\n"
	if got != want {
		t.Errorf("fingerprint = %q, want %q", got, want)
	}
}

func TestFingerprint_Algorithms(t *testing.T) {
	cases := []struct {
		algo    string
		wantLen int
	}{
		{"sha256", 64},
		{"sha512", 128},
		{"blake2b", 64},
	}
	for _, c := range cases {
		t.Run(c.algo, func(t *testing.T) {
			got, err := run(t, `[1,2]`, "fingerprint", "--algo", c.algo)
			if err != nil {
				t.Fatalf("fingerprint error: %v", err)
			}
			if n := len(strings.TrimSpace(got)); n != c.wantLen {
				t.Errorf("len(fingerprint) = %d, want %d", n, c.wantLen)
			}
		})
	}
}

func TestFingerprint_KeyFile(t *testing.T) {
	key := writeFile(t, "key", "secret")

	keyed, err := run(t, `{}`, "fingerprint", "--key-file", key)
	if err != nil {
		t.Fatalf("fingerprint error: %v", err)
	}
	plain, err := run(t, `{}`, "fingerprint", "--algo", "blake2b")
	if err != nil {
		t.Fatalf("fingerprint error: %v", err)
	}
	if keyed == plain {
		t.Error("keyed fingerprint should differ from unkeyed")
	}
}

func TestFingerprint_UnknownAlgo(t *testing.T) {
	if _, err := run(t, `{}`, "fingerprint", "--algo", "md5"); err == nil {
		t.Error("expected error for unknown digest")
	}
}

// --- convert ---

func TestConvert_JSONToYAML(t *testing.T) {
	got, err := run(t, `{"z":[1,"two"],"a":null}`, "convert", "--to", "yaml")
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	want := "z:\n    - 1\n    - two\na: null\n"
	if got != want {
		t.Errorf("convert = %q, want %q", got, want)
	}
}

func TestConvert_BinaryRoundTrip(t *testing.T) {
	for _, format := range []string{"msgpack", "bson"} {
		t.Run(format, func(t *testing.T) {
			encoded, err := run(t, `{"b":1,"a":[true,{"k":"v"}]}`, "convert", "--to", format)
			if err != nil {
				t.Fatalf("convert to %s error: %v", format, err)
			}

			got, err := run(t, encoded, "convert", "--format", format, "--to", "json")
			if err != nil {
				t.Fatalf("convert from %s error: %v", format, err)
			}
			want := `{"b":1,"a":[true,{"k":"v"}]}` + "\n"
			if got != want {
				t.Errorf("round trip = %q, want %q", got, want)
			}
		})
	}
}

func TestConvert_RequiresTarget(t *testing.T) {
	if _, err := run(t, `{}`, "convert"); err == nil {
		t.Error("expected error without --to")
	}
	if _, err := run(t, `{}`, "convert", "--to", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

// --- helpers ---

func TestResolveFormat(t *testing.T) {
	cases := []struct {
		path     string
		explicit string
		want     string
	}{
		{"doc.json", "", "json"},
		{"doc.YAML", "", "yaml"},
		{"doc.yml", "", "yml"},
		{"doc.bson", "", "bson"},
		{"doc.txt", "", "json"},
		{"", "", "json"},
		{"doc.json", "msgpack", "msgpack"},
	}
	for _, c := range cases {
		if got := resolveFormat(c.path, c.explicit); got != c.want {
			t.Errorf("resolveFormat(%q, %q) = %q, want %q", c.path, c.explicit, got, c.want)
		}
	}
}

func TestCodecFor(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"json", "application/json"},
		{"YAML", "application/yaml"},
		{"yml", "application/yaml"},
		{"mpk", "application/msgpack"},
		{"bson", "application/bson"},
	}
	for _, c := range cases {
		codec, err := codecFor(c.name)
		if err != nil {
			t.Errorf("codecFor(%q) error: %v", c.name, err)
			continue
		}
		if codec.ContentType() != c.want {
			t.Errorf("codecFor(%q) = %q, want %q", c.name, codec.ContentType(), c.want)
		}
	}

	if _, err := codecFor("xml"); err == nil {
		t.Error("codecFor(xml) should return error")
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		input    string
		asString bool
		want     any
	}{
		{"12", false, 12.0},
		{"true", false, true},
		{"null", false, nil},
		{`"quoted"`, false, "quoted"},
		{"bare", false, "bare"},
		{"12", true, "12"},
	}
	for _, c := range cases {
		if got := parseValue(c.input, c.asString); got != c.want {
			t.Errorf("parseValue(%q, %v) = %#v, want %#v", c.input, c.asString, got, c.want)
		}
	}
}
