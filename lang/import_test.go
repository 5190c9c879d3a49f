package lang

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/ardnew/scss/log"
	"github.com/ardnew/scss/pkg"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"vars", []string{"_vars.scss", "vars.scss"}},
		{"lib/vars", []string{"lib/_vars.scss", "lib/vars.scss"}},
		{"vars.scss", []string{"_vars.scss", "vars.scss"}},
		{"lib/_vars", []string{"lib/_vars.scss"}},
	}

	for _, tt := range tests {
		if got := Candidates(tt.name); !slices.Equal(got, tt.want) {
			t.Errorf("Candidates(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMapResolver(t *testing.T) {
	r := MapResolver{
		Files: map[string]string{
			"lib/_a.scss":   "a",
			"vendor/b.scss": "b",
			"_c.scss":       "c",
		},
		LoadPaths: []string{"vendor"},
	}

	tests := []struct {
		name     string
		from     string
		target   string
		wantPath string
		wantErr  bool
	}{
		{name: "relative to importer", from: "lib/main.scss", target: "a", wantPath: "lib/_a.scss"},
		{name: "load path", from: "main.scss", target: "b", wantPath: "vendor/b.scss"},
		{name: "anonymous importer", from: "", target: "c", wantPath: "_c.scss"},
		{name: "subdirectory", from: "", target: "lib/a", wantPath: "lib/_a.scss"},
		{name: "missing", from: "main.scss", target: "nope", wantErr: true},
		{name: "parent directory", from: "lib/main.scss", target: "../c", wantErr: true},
		{name: "absolute", from: "", target: "/etc/c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := r.Resolve(context.Background(), tt.from, tt.target)
			if tt.wantErr {
				if !errors.Is(err, pkg.ErrImport) {
					t.Errorf("error = %v, want ErrImport", err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if src.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", src.Path, tt.wantPath)
			}
		})
	}
}

func TestImport(t *testing.T) {
	files := map[string]string{
		"_vars.scss":  "$c: 1px;\n@mixin m { m: $c; }",
		"_r.scss":     ".r { x: 1; }",
		"_inner.scss": "x: 1;",
		"_a.scss":     ".a { a: 1; }",
		"_b.scss":     ".b { b: 1; }",
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "variables and mixins",
			text: "@import \"vars\";\n.a { w: $c; @include m; }",
			want: ".a {\n  w: 1px;\n  m: 1px;\n}\n",
		},
		{
			name: "repeated",
			text: "@import \"r\";\n@import \"r\";",
			want: ".r {\n  x: 1;\n}\n",
		},
		{
			name: "inside a rule",
			text: ".a { @import \"inner\"; }",
			want: ".a {\n  x: 1;\n}\n",
		},
		{
			name: "list",
			text: "@import \"a\", \"b\";",
			want: ".a {\n  a: 1;\n}\n\n.b {\n  b: 1;\n}\n",
		},
		{
			name: "url passthrough",
			text: "@import url(foo.css);",
			want: "@import url(foo.css);\n",
		},
		{
			name: "http passthrough",
			text: "@import \"http://example.com/x\";",
			want: "@import \"http://example.com/x\";\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compile(t, tt.text, WithStyle(Expanded), WithResolver(MapResolver{Files: files}))
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImportErrors(t *testing.T) {
	files := map[string]string{
		"_bad.scss": ".b {\n  w: $nope;\n}",
	}

	tests := []struct {
		name     string
		text     string
		resolver Resolver
		location string
	}{
		{
			name:     "error in imported file",
			text:     "\n@import \"bad\";",
			resolver: MapResolver{Files: files},
			location: "_bad.scss:2",
		},
		{
			name:     "missing",
			text:     "@import \"missing\";",
			resolver: MapResolver{Files: files},
			location: "main.scss:1",
		},
		{
			name:     "escaping path",
			text:     "@import \"../bad\";",
			resolver: MapResolver{Files: files},
			location: "main.scss:1",
		},
		{
			name: "resolver failure",
			text: "@import \"x\";",
			resolver: ResolverFunc(func(context.Context, string, string) (Source, error) {
				return Source{}, errors.New("boom")
			}),
			location: "main.scss:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := compileErr(t, tt.text, WithResolver(tt.resolver))

			want := pkg.ErrImport
			if tt.name == "error in imported file" {
				want = pkg.ErrName
			}

			if !errors.Is(err, want) {
				t.Fatalf("error = %v, want %v", err, want)
			}

			if loc := pkg.WrapError(err).Location(); loc != tt.location {
				t.Errorf("location = %q, want %q", loc, tt.location)
			}
		})
	}
}

func TestImportDepth(t *testing.T) {
	files := map[string]string{}
	for i := range 10 {
		files["_f"+strconv.Itoa(i)+".scss"] = "@import \"f" + strconv.Itoa(i+1) + "\";"
	}

	files["_f10.scss"] = ".deep { x: 1; }"

	resolver := WithResolver(MapResolver{Files: files})

	if got := compile(t, `@import "f0";`, WithStyle(Expanded), resolver); got != ".deep {\n  x: 1;\n}\n" {
		t.Errorf("got %q", got)
	}

	err := compileErr(t, `@import "f0";`, resolver, WithMaxDepth(4))
	if !errors.Is(err, pkg.ErrRecursion) {
		t.Errorf("error = %v, want ErrRecursion", err)
	}
}

func TestWarnUnused(t *testing.T) {
	files := map[string]string{
		"_used.scss":   "$u: 1;",
		"_unused.scss": "$v: 2;",
	}

	var buf bytes.Buffer

	compile(t, "@import \"used\";\n@import \"unused\";\n.a { w: $u; }",
		WithResolver(MapResolver{Files: files}),
		WithWarnUnused(true),
		WithLogger(log.Make(&buf, log.WithLevel(log.LevelWarn))),
	)

	out := buf.String()
	if !strings.Contains(out, "_unused.scss") {
		t.Errorf("log output %q does not report _unused.scss", out)
	}

	if strings.Contains(out, "_used.scss") {
		t.Errorf("log output %q reports _used.scss", out)
	}
}
