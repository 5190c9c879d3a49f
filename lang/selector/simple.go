package selector

import (
	"slices"
	"strings"

	"github.com/ardnew/scss/pkg"
)

// Combinators joining a simple selector to the one before it.
const (
	Descendant = " "
	Child      = ">"
	Adjacent   = "+"
	Sibling    = "~"
)

// pseudoElements are the single-colon pseudo-elements inherited from CSS2.
var pseudoElements = map[string]bool{
	":before":       true,
	":after":        true,
	":first-line":   true,
	":first-letter": true,
}

// Simple is a combinator and the fragments that all apply to one element:
// element names, classes, ids, attribute tests and pseudo-classes.
//
// A Simple may hold no tokens at all; "body > { div {} }" nests a bare
// combinator.
type Simple struct {
	Combinator string
	Tokens     []string
}

// rank orders tokens canonically: element, #id, .class, %placeholder,
// [attribute], :pseudo-class, then pseudo-elements.
func rank(token string) int {
	switch {
	case token == "":
		return 0
	case pseudoElements[token] || strings.HasPrefix(token, "::"):
		return 6
	}

	switch token[0] {
	case '#':
		return 1
	case '.':
		return 2
	case '%':
		return 3
	case '[':
		return 4
	case ':':
		return 5
	default:
		return 0
	}
}

// NewSimple returns a simple selector with its tokens in canonical order.
func NewSimple(combinator string, tokens ...string) Simple {
	if combinator == "" {
		combinator = Descendant
	}

	out := slices.Clone(tokens)
	slices.SortStableFunc(out, func(a, b string) int { return rank(a) - rank(b) })

	return Simple{Combinator: combinator, Tokens: out}
}

// HasParentRef reports whether s contains "&" or the legacy "self".
func (s Simple) HasParentRef() bool {
	return slices.Contains(s.Tokens, "&") || slices.Contains(s.Tokens, "self")
}

// HasPlaceholder reports whether s contains a %placeholder token.
func (s Simple) HasPlaceholder() bool {
	return slices.ContainsFunc(s.Tokens, func(t string) bool {
		return strings.HasPrefix(t, "%")
	})
}

// Equal compares combinators and token sets.
func (s Simple) Equal(o Simple) bool {
	return s.key() == o.key()
}

func (s Simple) key() string {
	t := slices.Clone(s.Tokens)
	slices.Sort(t)
	t = slices.Compact(t)

	return s.Combinator + "\x00" + strings.Join(t, "\x00")
}

// IsSupersetOf reports whether s matches every element o matches.
// A descendant combinator is a superset of child, and a general sibling of
// adjacent. With soft set, a descendant combinator on s matches any
// combinator on o.
func (s Simple) IsSupersetOf(o Simple, soft bool) bool {
	combinator := s.Combinator == o.Combinator ||
		(s.Combinator == Descendant && (soft || o.Combinator == Child)) ||
		(s.Combinator == Sibling && o.Combinator == Adjacent)
	if !combinator {
		return false
	}

	for _, t := range s.Tokens {
		if !slices.Contains(o.Tokens, t) {
			return false
		}
	}

	return true
}

// combinatorSubsetOf reports whether specific matches a subset of general.
// The first simple selector of a chain always carries an implied descendant
// combinator, which holds for anything placed above it.
func combinatorSubsetOf(specific, general string, first bool) bool {
	return (first && general == Descendant) ||
		specific == general ||
		(specific == Child && general == Descendant) ||
		(specific == Adjacent && general == Sibling)
}

// replaceParent substitutes the parent chain for the first parent reference
// in s. The last parent merges into s; the rest precede it.
func (s Simple) replaceParent(parents []Simple) ([]Simple, error) {
	if len(parents) == 0 {
		return []Simple{s}, nil
	}

	ancestors := parents[:len(parents)-1]
	parent := parents[len(parents)-1]

	replaced := false
	tokens := make([]string, 0, len(s.Tokens)+len(parent.Tokens))

	for _, t := range s.Tokens {
		if !replaced && (t == "&" || t == "self") {
			replaced = true
			tokens = append(tokens, parent.Tokens...)

			continue
		}

		tokens = append(tokens, t)
	}

	if !replaced {
		return append(slices.Clone(parents), s), nil
	}

	chain := append(slices.Clone(ancestors), Simple{Combinator: parent.Combinator, Tokens: tokens})

	// our combinator moves to the root of the chain
	root := chain[0]
	if !combinatorSubsetOf(s.Combinator, root.Combinator, true) {
		return nil, pkg.ErrSyntax.Errorf(
			"cannot substitute parent %q into %q: combinators %q and %q conflict",
			renderChain(parents, false), s.Render(false), s.Combinator, root.Combinator)
	}

	chain[0] = Simple{Combinator: s.Combinator, Tokens: root.Tokens}

	return chain, nil
}

// MergeInto injects s, a selector being extended, into o, the selector of
// the extending block. The result is the union of their tokens, with the
// element name first and pseudo-elements last.
func (s Simple) MergeInto(o Simple) (Simple, error) {
	var combinator string

	switch {
	case s.Combinator == Descendant || s.Combinator == o.Combinator:
		combinator = o.Combinator
	case o.Combinator == Descendant:
		combinator = s.Combinator
	default:
		return Simple{}, pkg.ErrValue.Errorf(
			"cannot merge conflicting combinators %q and %q", s.Render(false), o.Render(false))
	}

	tokens := make([]string, 0, len(s.Tokens)+len(o.Tokens))

	for _, t := range slices.Concat(s.Tokens, o.Tokens) {
		if !slices.Contains(tokens, t) {
			tokens = append(tokens, t)
		}
	}

	return NewSimple(combinator, tokens...), nil
}

// Difference returns s without the tokens of o.
func (s Simple) Difference(o Simple) Simple {
	tokens := make([]string, 0, len(s.Tokens))

	for _, t := range s.Tokens {
		if !slices.Contains(o.Tokens, t) {
			tokens = append(tokens, t)
		}
	}

	return Simple{Combinator: s.Combinator, Tokens: tokens}
}

// Render returns the CSS text of s, preceded by its combinator unless that
// is a descendant combinator.
func (s Simple) Render(compress bool) string {
	text := strings.Join(s.Tokens, "")

	switch {
	case s.Combinator == Descendant:
		return text
	case text == "" || compress:
		return s.Combinator + text
	default:
		return s.Combinator + " " + text
	}
}
