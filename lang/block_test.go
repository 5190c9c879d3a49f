package lang

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/ardnew/scss/pkg"
)

func collect(t *testing.T, text string) []Block {
	t.Helper()

	var out []Block

	for b, err := range Locate(text, 1) {
		if err != nil {
			t.Fatalf("Locate(%q): %v", text, err)
		}

		out = append(out, b)
	}

	return out
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		headers []string
		bodies  []bool
		lines   []int
	}{
		{
			name:    "statements",
			text:    "$a: 1;\ncolor: red;",
			headers: []string{"$a: 1", "color: red"},
			bodies:  []bool{false, false},
			lines:   []int{1, 2},
		},
		{
			name:    "trailing statement without semicolon",
			text:    "a: 1; b: 2",
			headers: []string{"a: 1", "b: 2"},
			bodies:  []bool{false, false},
			lines:   []int{1, 1},
		},
		{
			name:    "nested block",
			text:    ".a {\n  .b { c: d; }\n}\n\n.e { f: g; }",
			headers: []string{".a", ".e"},
			bodies:  []bool{true, true},
			lines:   []int{1, 5},
		},
		{
			name:    "interpolation braces",
			text:    ".c#{$i} { w: #{$i}px; }",
			headers: []string{".c#{$i}"},
			bodies:  []bool{true},
			lines:   []int{1},
		},
		{
			name:    "quoted braces and semicolons",
			text:    `a { content: "}{;"; }`,
			headers: []string{"a"},
			bodies:  []bool{true},
			lines:   []int{1},
		},
		{
			name:    "semicolon in parentheses",
			text:    "a: url(x;y); b: 1;",
			headers: []string{"a: url(x;y)", "b: 1"},
			bodies:  []bool{false, false},
			lines:   []int{1, 1},
		},
		{
			name:    "leading blank lines",
			text:    "\n\n\n  a: 1;",
			headers: []string{"a: 1"},
			bodies:  []bool{false},
			lines:   []int{4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := collect(t, tt.text)
			if len(blocks) != len(tt.headers) {
				t.Fatalf("got %d blocks, want %d: %+v", len(blocks), len(tt.headers), blocks)
			}

			for i, b := range blocks {
				if b.Header != tt.headers[i] {
					t.Errorf("block %d header = %q, want %q", i, b.Header, tt.headers[i])
				}

				if b.HasBody != tt.bodies[i] {
					t.Errorf("block %d HasBody = %v, want %v", i, b.HasBody, tt.bodies[i])
				}

				if b.Line != tt.lines[i] {
					t.Errorf("block %d line = %d, want %d", i, b.Line, tt.lines[i])
				}
			}
		})
	}
}

func TestLocateBodyLine(t *testing.T) {
	blocks := collect(t, ".a\n{\n  b: 1;\n}")
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}

	b := blocks[0]
	if b.BodyLine != 2 {
		t.Errorf("BodyLine = %d, want 2", b.BodyLine)
	}

	inner := collect(t, b.Body)
	if len(inner) != 1 || inner[0].Header != "b: 1" {
		t.Fatalf("inner blocks = %+v", inner)
	}

	for ib, err := range Locate(b.Body, b.BodyLine) {
		if err != nil {
			t.Fatal(err)
		}

		if ib.Line != 3 {
			t.Errorf("inner line = %d, want 3", ib.Line)
		}
	}
}

func TestLocateErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
		msg  string
	}{
		{name: "unclosed brace", text: ".a {\n  b: 1;", line: 1, msg: "unclosed '{'"},
		{name: "stray brace", text: "a: 1;\n}", line: 2, msg: "unexpected '}'"},
		{name: "unterminated string", text: `a: "oops;`, line: 1, msg: "unterminated string"},
		{name: "unclosed paren", text: "a: f(1;\n", line: 1, msg: "unclosed '('"},
		{name: "stray paren", text: "\na: 1);", line: 2, msg: "unexpected ')'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got error

			for _, err := range Locate(tt.text, 1) {
				if err != nil {
					got = err
				}
			}

			if !errors.Is(got, pkg.ErrSyntax) {
				t.Fatalf("error = %v, want ErrSyntax", got)
			}

			if !strings.Contains(got.Error(), tt.msg) {
				t.Errorf("error = %q, want it to mention %q", got, tt.msg)
			}

			if loc := pkg.WrapError(got).Location(); loc != "line "+strconv.Itoa(tt.line) {
				t.Errorf("location = %q, want line %d", loc, tt.line)
			}
		})
	}
}

func TestLocateStop(t *testing.T) {
	n := 0

	for range Locate("a: 1; b: 2; c: 3;", 1) {
		n++
		if n == 2 {
			break
		}
	}

	if n != 2 {
		t.Errorf("iterated %d blocks, want 2", n)
	}
}

func FuzzLocate(f *testing.F) {
	f.Add(".a { b: c; }")
	f.Add(`a { content: "}"; }`)
	f.Add("@if $a { x: 1 } @else { x: 2 }")
	f.Add("#{")

	f.Fuzz(func(t *testing.T, text string) {
		for b, err := range Locate(text, 1) {
			if err != nil {
				if !errors.Is(err, pkg.ErrSyntax) {
					t.Fatalf("unexpected error kind: %v", err)
				}

				return
			}

			if b.Line < 1 {
				t.Fatalf("block %q on line %d", b.Header, b.Line)
			}
		}
	})
}

func BenchmarkLocate(b *testing.B) {
	text := strings.Repeat(".a { .b { color: red; width: 1px + 2px; } }\n", 200)

	b.ResetTimer()

	for b.Loop() {
		for _, err := range Locate(text, 1) {
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}
