package repl

import (
	"context"
	"strings"
	"testing"

	"github.com/ardnew/scss/lang"
)

func newTestModel(t *testing.T, preload ...lang.Source) *model {
	t.Helper()

	cfg := Config{
		New: func() (*lang.Session, error) {
			return lang.New().NewSession(context.Background())
		},
		Preload: preload,
	}

	s, err := cfg.rebuild("")
	if err != nil {
		t.Fatal(err)
	}

	m := newModel(context.Background(), cfg, s, NewHistory(""))

	return &m
}

func TestAssignment(t *testing.T) {
	tests := []struct {
		line     string
		wantName string
		wantText string
		wantOK   bool
	}{
		{line: "$gutter: 10px", wantName: "gutter", wantText: "10px", wantOK: true},
		{line: "$a:1px + 2px", wantName: "a", wantText: "1px + 2px", wantOK: true},
		{line: "a: 1"},
		{line: "$: 1"},
		{line: "$a b: 1"},
		{line: "$gutter"},
	}

	for _, tt := range tests {
		name, text, ok := assignment(tt.line)
		if name != tt.wantName || text != tt.wantText || ok != tt.wantOK {
			t.Errorf("assignment(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.line, name, text, ok, tt.wantName, tt.wantText, tt.wantOK)
		}
	}
}

func TestExecute(t *testing.T) {
	m := newTestModel(t, lang.NewSource("lib.scss", "@function double($x) { @return $x * 2; }"))

	steps := []struct {
		line string
		want string
	}{
		{line: "1px + 2px", want: "3px"},
		{line: "$gutter: 10px", want: "$gutter: 10px"},
		{line: "double($gutter)", want: "20px"},
		{line: "@mixin pad($n) { padding: $n; }", want: ""},
		{line: ".a { @include pad($gutter); }", want: ""},
	}

	for _, step := range steps {
		got, err := m.execute(step.line)
		if err != nil {
			t.Fatalf("execute(%q): %v", step.line, err)
		}

		if got != step.want {
			t.Errorf("execute(%q) = %q, want %q", step.line, got, step.want)
		}
	}

	if _, err := m.execute("$missing + 1"); err == nil {
		t.Error("undefined variable evaluated without error")
	}

	var css strings.Builder
	if err := m.session.Render(&css); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(css.String(), "padding: 10px") {
		t.Errorf("css = %q", css.String())
	}

	wantScript := "$gutter: 10px;\n@mixin pad($n) { padding: $n; }\n.a { @include pad($gutter); }"
	if m.script != wantScript {
		t.Errorf("script = %q, want %q", m.script, wantScript)
	}

	if params, ok := m.session.Signature("pad"); !ok || len(params) != 1 || params[0] != "$n" {
		t.Errorf("Signature(pad) = %v, %v", params, ok)
	}
}

func TestConfigRebuild(t *testing.T) {
	m := newTestModel(t, lang.NewSource("lib.scss", "$base: 2px;"))

	s, err := m.cfg.rebuild("$next: $base * 3;")
	if err != nil {
		t.Fatal(err)
	}

	v, err := s.Evaluate("$next")
	if err != nil {
		t.Fatal(err)
	}

	if got := s.Inspect(v); got != "6px" {
		t.Errorf("$next = %q, want 6px", got)
	}

	if _, err := m.cfg.rebuild(".a {"); err == nil {
		t.Error("rebuild accepted an unterminated block")
	}
}
