package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"sentinel", ErrSyntax, ErrSyntax, true},
		{"wrapped", ErrName.Errorf("variable %s", "$x"), ErrName, true},
		{"with attrs", ErrValue.With(slog.Int("n", 1)), ErrValue, true},
		{"located", ErrDimension.Wrap(errors.New("px vs s")).Locate("a.scss", 3), ErrDimension, true},
		{"other sentinel", ErrName.Errorf("x"), ErrSyntax, false},
		{"fmt wrapped", fmt.Errorf("outer: %w", ErrImport.Errorf("missing")), ErrImport, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message only", ErrSyntax, "syntax error"},
		{"wrapped", ErrName.Errorf("variable $x"), "undefined name: variable $x"},
		{"located", ErrName.Errorf("variable $x").Locate("main.scss", 7), "main.scss:7: undefined name: variable $x"},
		{"innermost location wins", ErrValue.Locate("inner.scss", 2).Locate("outer.scss", 9), "inner.scss:2: invalid value"},
		{"position without file", ErrSyntax.WithPosition(Position{Line: 4, Column: 2}), "line 4: syntax error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	base := ErrType.Errorf("bad operands")
	if got := WrapError(fmt.Errorf("context: %w", base)); got != base {
		t.Errorf("WrapError() did not return the wrapped *Error")
	}

	plain := errors.New("plain")
	if got := WrapError(plain); !errors.Is(got, plain) {
		t.Errorf("WrapError() lost the plain error")
	}
}

func TestLogValue(t *testing.T) {
	err := ErrImport.Errorf("not found").
		With(slog.String("name", "foo")).
		Locate("main.scss", 1)

	v := err.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v, want group", v.Kind())
	}

	keys := make([]string, 0)
	for _, a := range v.Group() {
		keys = append(keys, a.Key)
	}

	got := strings.Join(keys, ",")
	if got != "error,cause,file,line,name" {
		t.Errorf("LogValue keys = %q", got)
	}
}

func TestSnippet(t *testing.T) {
	src := "a {\n  color: red\n}"
	got := Snippet(src, Position{Line: 2, Column: 3})
	want := "  2 |   color: red\n" + strings.Repeat(" ", 6) + "  ^\n"

	if got != want {
		t.Errorf("Snippet() = %q, want %q", got, want)
	}

	if got := Snippet(src, Position{Line: 9}); got != "" {
		t.Errorf("Snippet() out of range = %q, want empty", got)
	}
}
