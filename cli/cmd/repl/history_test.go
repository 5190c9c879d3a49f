package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func entries(t *testing.T, h *History) []Entry {
	t.Helper()

	out := make([]Entry, h.Len())

	for i := range out {
		e, err := h.Get(i)
		if err != nil {
			t.Fatal(err)
		}

		out[i] = e
	}

	return out
}

func TestHistoryAdd(t *testing.T) {
	h := NewHistory("")

	for _, e := range []Entry{
		{"1px + 1px", modeEval},
		{"vars", modeCtrl},
		{"  ", modeEval},
		{"$a: 1", modeEval},
		{"$a: 1", modeEval},
		{"1px + 1px", modeEval},
		{"vars", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	want := []Entry{
		{"vars", modeCtrl},
		{"$a: 1", modeEval},
		{"1px + 1px", modeEval},
		{"vars", modeEval},
	}

	got := entries(t, h)
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := h.Get(len(want)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Get past end: error = %v", err)
	}
}

func TestHistoryPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load missing file: %v", err)
	}

	h.Add("darken(red, 10%)", modeEval)
	h.Add("css", modeCtrl)
	h.Add("darken(red, 10%)", modeEval)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "C:css\nE:darken(red, 10%)\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatal(err)
	}

	got := entries(t, loaded)
	if len(got) != 2 || got[0] != (Entry{"css", modeCtrl}) || got[1] != (Entry{"darken(red, 10%)", modeEval}) {
		t.Errorf("loaded = %v", got)
	}
}

func TestDecodeEntry(t *testing.T) {
	tests := []struct {
		line string
		want Entry
	}{
		{"E:1 + 1", Entry{"1 + 1", modeEval}},
		{"C:quit", Entry{"quit", modeCtrl}},
		{"bare", Entry{"bare", modeEval}},
	}

	for _, tt := range tests {
		if got := decodeEntry(tt.line); got != tt.want {
			t.Errorf("decodeEntry(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
