package cmd

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "message and cause", err: ErrDefine.Wrap(io.EOF), want: "invalid definition: EOF"},
		{name: "message only", err: ErrDefine, want: "invalid definition"},
		{name: "cause only", err: NewError("").Wrap(io.EOF), want: "EOF"},
		{name: "empty", err: NewError(""), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := ErrOption.Wrap(io.EOF).With(slog.String("name", "style"))

	if !errors.Is(err, ErrOption) {
		t.Error("annotated error does not match its sentinel")
	}

	if !errors.Is(err, io.EOF) {
		t.Error("annotated error does not match its cause")
	}

	if errors.Is(err, ErrDefine) {
		t.Error("annotated error matches another sentinel")
	}

	if errors.Is(ErrOption, ErrOption.Wrap(io.EOF)) {
		t.Error("sentinel matches a wrapped copy")
	}
}

func TestErrorWithKeepsOriginal(t *testing.T) {
	base := NewError("base")
	annotated := base.With(slog.Int("line", 2))

	if n := len(base.attrs); n != 0 {
		t.Errorf("base attrs = %d, want 0", n)
	}

	v := annotated.LogValue()
	if v.Kind() != slog.KindGroup || len(v.Group()) != 2 {
		t.Errorf("LogValue() = %v", v)
	}
}
