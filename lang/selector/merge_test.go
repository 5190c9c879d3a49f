package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func equalMerge(a, b string) (string, bool) { return a, a == b }

func TestLongestCommonSubsequence(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want []Match[string]
	}{
		{
			name: "interleaved",
			a:    []string{"a", "b", "c", "d"},
			b:    []string{"b", "d", "e"},
			want: []Match[string]{{A: 1, B: 0, Merged: "b"}, {A: 3, B: 1, Merged: "d"}},
		},
		{
			name: "identical",
			a:    []string{"x", "y"},
			b:    []string{"x", "y"},
			want: []Match[string]{{A: 0, B: 0, Merged: "x"}, {A: 1, B: 1, Merged: "y"}},
		},
		{
			name: "disjoint",
			a:    []string{"x"},
			b:    []string{"y"},
		},
		{
			name: "empty",
			a:    nil,
			b:    []string{"y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LongestCommonSubsequence(tt.a, tt.b, equalMerge)
			if len(tt.want) == 0 {
				assert.Empty(t, got)

				return
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLongestCommonSubsequenceMergedValue(t *testing.T) {
	// pair items sharing a first letter and keep the longer
	merge := func(a, b string) (string, bool) {
		if a[0] != b[0] {
			return "", false
		}

		if len(b) > len(a) {
			return b, true
		}

		return a, true
	}

	got := LongestCommonSubsequence([]string{"ab", "x"}, []string{"q", "abc"}, merge)
	assert.Equal(t, []Match[string]{{A: 0, B: 1, Merged: "abc"}}, got)
}

func TestMergeAncestors(t *testing.T) {
	chain := func(text string) []Simple {
		if text == "" {
			return nil
		}

		return mustParse(t, text).Simples
	}

	render := func(chains [][]Simple) []string {
		out := make([]string, len(chains))
		for i, c := range chains {
			out[i] = renderChain(c, false)
		}

		return out
	}

	tests := []struct {
		name        string
		left, right string
		want        []string
	}{
		{"left empty", "", ".a", []string{".a"}},
		{"right empty", ".a", "", []string{".a"}},
		{"no common node", ".a", ".b", []string{".a .b", ".b .a"}},
		{"common root", ".r .a", ".r .b", []string{".r .a .b", ".r .b .a"}},
		{"common tail", ".a .r", ".b .r", []string{".a .b .r", ".b .a .r"}},
		{"one side only before match", ".a .r", ".r", []string{".a .r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(MergeAncestors(chain(tt.left), chain(tt.right))))
		})
	}
}

func TestWeaveBounded(t *testing.T) {
	a := mustParse(t, ".a").Simples
	b := mustParse(t, ".b").Simples

	got := weave([][]Simple{nil}, a, b)
	assert.Len(t, got, 2)

	got = weave([][]Simple{nil}, a, nil)
	assert.Len(t, got, 1)
}
