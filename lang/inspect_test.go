package lang

import (
	"context"
	"slices"
	"testing"
)

func TestSessionSignature(t *testing.T) {
	s, err := New().NewSession(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	text := `
@function scale($x, $factor: 2) { @return $x * $factor; }
@function total($first, $rest...) { @return $first; }
@mixin box($w) { width: $w; }
@mixin scale($unused, $a, $b) { margin: 0; }
`
	if err := s.Run(NewSource("", text)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		want   []string
		wantOK bool
	}{
		{name: "scale", want: []string{"$x", "$factor"}, wantOK: true},
		{name: "total", want: []string{"$first", "$rest..."}, wantOK: true},
		{name: "box", want: []string{"$w"}, wantOK: true},
		{name: "missing"},
	}

	for _, tt := range tests {
		got, ok := s.Signature(tt.name)
		if ok != tt.wantOK || !slices.Equal(got, tt.want) {
			t.Errorf("Signature(%q) = %q, %v, want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSessionInspect(t *testing.T) {
	s, err := New(WithPrecision(2)).NewSession(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		expr string
		want string
	}{
		{expr: "(10px / 3)", want: "3.33px"},
		{expr: "1 2 3", want: "1 2 3"},
	}

	for _, tt := range tests {
		v, err := s.Evaluate(tt.expr)
		if err != nil {
			t.Fatalf("Evaluate(%q): %v", tt.expr, err)
		}

		if got := s.Inspect(v); got != tt.want {
			t.Errorf("Inspect(%q) = %q, want %q", tt.expr, got, tt.want)
		}
	}
}
