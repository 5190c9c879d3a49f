package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/ardnew/scss/pkg"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "none", text: "a: 1;", want: "a: 1;"},
		{name: "line comment", text: "a: 1; // one\nb: 2;", want: "a: 1;       \nb: 2;"},
		{name: "block comment", text: "a/* x */: 1;", want: "a       : 1;"},
		{name: "multiline block", text: "/* a\nb */c", want: "    \n    c"},
		{name: "unterminated block", text: "a /* b", want: "a     "},
		{name: "quoted markers", text: `a: "//x /* y */";`, want: `a: "//x /* y */";`},
		{name: "url", text: "a: url(http://x/y);", want: "a: url(http://x/y);"},
		{name: "quoted url", text: `a: url("//x") // c`, want: `a: url("//x")     `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripComments(tt.text); got != tt.want {
				t.Errorf("StripComments(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestStripCommentsKeepsLines(t *testing.T) {
	text := "/* a\n\n*/ .x {\n  // y\n  z: 1;\n}"

	got := StripComments(text)
	if strings.Count(got, "\n") != strings.Count(text, "\n") {
		t.Fatalf("newlines changed: %q", got)
	}

	var lines []int

	for b, err := range Locate(got, 1) {
		if err != nil {
			t.Fatal(err)
		}

		lines = append(lines, b.Line)
	}

	if len(lines) != 1 || lines[0] != 3 {
		t.Errorf("block lines = %v, want [3]", lines)
	}
}

func TestSourceKey(t *testing.T) {
	a := NewSource("", "a: 1;")
	b := NewSource("", "a: 1;")
	c := NewSource("", "a: 2;")

	if a.Key() != b.Key() {
		t.Errorf("equal texts have keys %q and %q", a.Key(), b.Key())
	}

	if a.Key() == c.Key() {
		t.Errorf("different texts share key %q", a.Key())
	}

	if !strings.HasPrefix(a.Key(), "string:") {
		t.Errorf("anonymous key = %q", a.Key())
	}

	if got := NewSource("x/y.scss", "").Key(); got != "x/y.scss" {
		t.Errorf("path key = %q", got)
	}

	if got := a.Name(); got != "<string>" {
		t.Errorf("Name() = %q", got)
	}
}

func TestReadSource(t *testing.T) {
	src, err := ReadSource(context.Background(), "in.scss", strings.NewReader(".a { b: c; }"))
	if err != nil {
		t.Fatal(err)
	}

	if src.Path != "in.scss" || src.Text != ".a { b: c; }" {
		t.Errorf("ReadSource = %+v", src)
	}

	_, err = ReadSource(context.Background(), "", iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, pkg.ErrReadInput) {
		t.Errorf("error = %v, want ErrReadInput", err)
	}
}
