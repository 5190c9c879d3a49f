package repl

import (
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{name: "no call", input: "$gutter", cursor: 7},
		{name: "open paren", input: "darken(", cursor: 7, wantName: "darken", wantInCall: true},
		{name: "first arg", input: "darken(#800", cursor: 11, wantName: "darken", wantInCall: true},
		{name: "second arg", input: "darken(#800,", cursor: 12, wantName: "darken", wantIndex: 1, wantInCall: true},
		{name: "hyphenated name", input: "adjust-hue(red, 1", cursor: 17, wantName: "adjust-hue", wantIndex: 1, wantInCall: true},
		{name: "nested closed call", input: "mix(rgb(1, 2, 3),", cursor: 17, wantName: "mix", wantIndex: 1, wantInCall: true},
		{name: "cursor inside nested call", input: "mix(rgb(1, 2, 3), red)", cursor: 10, wantName: "rgb", wantIndex: 1, wantInCall: true},
		{name: "after closed call", input: "round(1.5) + ", cursor: 13},
		{name: "bare parens", input: "(1, ", cursor: 4},
		{name: "cursor past end", input: "if(true", cursor: 99, wantName: "if", wantInCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.name != tt.wantName {
				t.Errorf("name = %q, want %q", got.name, tt.wantName)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("argIndex = %d, want %d", got.argIndex, tt.wantIndex)
			}

			if got.inCall != tt.wantInCall {
				t.Errorf("inCall = %v, want %v", got.inCall, tt.wantInCall)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name     string
		fn       string
		params   []string
		argIndex int
	}{
		{name: "no params", fn: "unique-id"},
		{name: "first param", fn: "darken", params: []string{"$color", "$amount"}},
		{name: "second param", fn: "darken", params: []string{"$color", "$amount"}, argIndex: 1},
		{name: "rest param", fn: "join", params: []string{"$items..."}, argIndex: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.fn, tt.params, tt.argIndex)

			for _, want := range append([]string{tt.fn}, tt.params...) {
				if !strings.Contains(got, want) {
					t.Errorf("hint %q lacks %q", got, want)
				}
			}
		})
	}
}
