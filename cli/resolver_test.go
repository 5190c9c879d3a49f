package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type configCLI struct {
	Style    string            `default:"nested"`
	Level    string            `default:"info"   name:"log-level"`
	Depth    int               `default:"1"`
	Strict   bool              `default:"true"   negatable:""`
	LoadPath []string          `                 sep:"none"`
	Define   map[string]string
}

func parseWithConfig(t *testing.T, doc string, args ...string) configCLI {
	t.Helper()

	res, err := resolve(baseConfig)(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	var c configCLI

	parser, err := kong.New(&c, kong.Resolvers(res))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatal(err)
	}

	return c
}

func TestResolveNested(t *testing.T) {
	c := parseWithConfig(t, `
config:
  style: compressed
  log_level: debug
  depth: 4
  strict: false
  load-path: [vendor, lib]
  define:
    gutter: 12px
`)

	if c.Style != "compressed" || c.Level != "debug" || c.Depth != 4 || c.Strict {
		t.Errorf("scalars = %+v", c)
	}

	if len(c.LoadPath) != 2 || c.LoadPath[0] != "vendor" || c.LoadPath[1] != "lib" {
		t.Errorf("load-path = %q", c.LoadPath)
	}

	if c.Define["gutter"] != "12px" {
		t.Errorf("define = %v", c.Define)
	}
}

func TestResolveTopLevel(t *testing.T) {
	if c := parseWithConfig(t, "style: expanded\n"); c.Style != "expanded" {
		t.Errorf("style = %q", c.Style)
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	c := parseWithConfig(t, "config:\n  style: compressed\n", "--style", "compact")
	if c.Style != "compact" {
		t.Errorf("style = %q, want flag value", c.Style)
	}
}

func TestResolveInvalid(t *testing.T) {
	for _, doc := range []string{"", ": : :\n\t- ["} {
		c := parseWithConfig(t, doc)
		if c.Style != "nested" || c.Depth != 1 {
			t.Errorf("config %q changed defaults: %+v", doc, c)
		}
	}
}

func TestFlagInput(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{in: uint64(3), want: "3"},
		{in: int64(-3), want: "-3"},
		{in: 1.5, want: "1.5"},
		{in: true, want: true},
		{in: "x", want: "x"},
		{in: nil, want: nil},
	}

	for _, tt := range tests {
		if got := flagInput(tt.in); got != tt.want {
			t.Errorf("flagInput(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
