package selector

import "slices"

// Match is one element of a common subsequence: the indices of the paired
// items in each input and the item they merge into.
type Match[T any] struct {
	A, B   int
	Merged T
}

// LongestCommonSubsequence returns the longest common subsequence of a and
// b, in order. Items are paired when merge reports them compatible, and each
// pair is represented by the merged item merge returns.
func LongestCommonSubsequence[T any](a, b []T, merge func(x, y T) (T, bool)) []Match[T] {
	type cell struct {
		merged T
		ok     bool
	}

	eq := make([][]cell, len(a))
	for i := range a {
		eq[i] = make([]cell, len(b))
		for j := range b {
			eq[i][j].merged, eq[i][j].ok = merge(a[i], b[j])
		}
	}

	// length[i+1][j+1] is the LCS length of a[:i+1] and b[:j+1]
	length := make([][]int, len(a)+1)
	for i := range length {
		length[i] = make([]int, len(b)+1)
	}

	for i := range a {
		for j := range b {
			if eq[i][j].ok {
				length[i+1][j+1] = length[i][j] + 1
			} else {
				length[i+1][j+1] = max(length[i+1][j], length[i][j+1])
			}
		}
	}

	var out []Match[T]

	for i, j := len(a)-1, len(b)-1; i >= 0 && j >= 0; {
		switch {
		case eq[i][j].ok:
			out = append(out, Match[T]{A: i, B: j, Merged: eq[i][j].merged})
			i--
			j--
		case length[i+1][j] > length[i][j+1]:
			j--
		default:
			i--
		}
	}

	slices.Reverse(out)

	return out
}

// mergeSimples pairs two simple selectors when one is a superset of the
// other, yielding the more specific.
func mergeSimples(a, b Simple) (Simple, bool) {
	switch {
	case a.IsSupersetOf(b, false):
		return b, true
	case b.IsSupersetOf(a, false):
		return a, true
	default:
		return Simple{}, false
	}
}

// MergeAncestors returns the chains of simple selectors matching elements
// matched by both left and right. Runs the two chains share are merged;
// runs that conflict appear in both orders. Chains with nothing in common
// yield left+right and right+left rather than every interleaving.
func MergeAncestors(left, right []Simple) [][]Simple {
	if len(left) == 0 || len(right) == 0 {
		return [][]Simple{slices.Concat(left, right)}
	}

	out := [][]Simple{nil}
	lastA, lastB := 0, 0

	for _, m := range LongestCommonSubsequence(left, right, mergeSimples) {
		out = weave(out, left[lastA:m.A], right[lastB:m.B], m.Merged)
		lastA, lastB = m.A+1, m.B+1
	}

	return weave(out, left[lastA:], right[lastB:])
}

// weave appends a+b+suffix to each prefix, and also b+a+suffix when both
// a and b are non-empty.
func weave(prefixes [][]Simple, a, b []Simple, suffix ...Simple) [][]Simple {
	both := len(a) > 0 && len(b) > 0

	out := make([][]Simple, 0, len(prefixes)*2)

	for _, p := range prefixes {
		out = append(out, slices.Concat(p, a, b, suffix))
		if both {
			out = append(out, slices.Concat(p, b, a, suffix))
		}
	}

	return out
}
