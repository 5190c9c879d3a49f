// Package selector models CSS selectors structurally and implements the
// selector algebra behind nesting and @extend.
//
// A [Selector] is a chain of [Simple] selectors, each a combinator plus a set
// of fragments. Only the parts relevant to matching are understood; the text
// of each fragment is kept as written.
package selector

import (
	"regexp"
	"slices"
	"strings"

	"github.com/ardnew/scss/pkg"
)

// tokenizer matches one selector fragment or combinator at a time.
var tokenizer = regexp.MustCompile(`^(?:` +
	// pseudo-selectors, sometimes with arguments
	`:+[-\w]+(?:\(.+?\))?` +
	// combinators, including whitespace alone
	`|\s*[+>~,]\s*|\s+` +
	// attribute tests
	`|\[.+?\]` +
	// classes, ids and placeholders, with escaped characters
	`|[.#%](?:[-\w]|\\.)+` +
	// keyframe percentages
	`|[-.\d]+%` +
	// elements, the universal selector and the parent reference
	`|(?:[-\w]|\\.)+|\*|&` +
	// anything else up to whitespace or a comma
	`|[^\s,]+` +
	`)`)

// Selector is a chain of simple selectors.
type Selector struct {
	Simples []Simple
}

// New returns a selector of the given simple selectors.
func New(simples ...Simple) Selector { return Selector{Simples: simples} }

// Parse splits a comma-separated selector group into selectors.
func Parse(text string) ([]Selector, error) {
	text = strings.TrimSpace(text)

	var (
		out        []Selector
		simples    []Simple
		tokens     []string
		combinator = Descendant
	)

	promoteSimple := func() {
		if len(tokens) > 0 {
			simples = append(simples, NewSimple(combinator, tokens...))
			combinator = Descendant
			tokens = nil
		}
	}

	promoteSelector := func() {
		promoteSimple()

		if combinator != Descendant {
			simples = append(simples, NewSimple(combinator))
			combinator = Descendant
		}

		if len(simples) > 0 {
			out = append(out, Selector{Simples: simples})
		}

		simples = nil
	}

	for pos := 0; pos < len(text); {
		loc := tokenizer.FindStringIndex(text[pos:])
		if loc == nil || loc[1] == 0 {
			return nil, pkg.ErrSyntax.Errorf("cannot parse selector %q", text)
		}

		token := text[pos : pos+loc[1]]
		pos += loc[1]

		// a lone space is a combinator, not nothing
		if t := strings.TrimSpace(token); t != "" {
			token = t
		} else {
			token = Descendant
		}

		switch {
		case token == ",":
			promoteSelector()
		case token == Descendant:
			promoteSimple()
		case token == Child || token == Adjacent || token == Sibling:
			promoteSimple()

			combinator = token
		default:
			tokens = append(tokens, token)
		}
	}

	promoteSelector()

	return out, nil
}

// ParseOne parses text that must hold exactly one selector.
func ParseOne(text string) (Selector, error) {
	sels, err := Parse(text)
	if err != nil {
		return Selector{}, err
	}

	if len(sels) != 1 {
		return Selector{}, pkg.ErrSyntax.Errorf("expected one selector, got %d in %q", len(sels), text)
	}

	return sels[0], nil
}

// HasParentRef reports whether any simple selector references its parent.
func (s Selector) HasParentRef() bool {
	return slices.ContainsFunc(s.Simples, Simple.HasParentRef)
}

// HasPlaceholder reports whether any simple selector is a placeholder.
func (s Selector) HasPlaceholder() bool {
	return slices.ContainsFunc(s.Simples, Simple.HasPlaceholder)
}

// Equal compares s and o structurally.
func (s Selector) Equal(o Selector) bool {
	return slices.EqualFunc(s.Simples, o.Simples, Simple.Equal)
}

// Key returns a string identifying s up to token order.
func (s Selector) Key() string {
	keys := make([]string, len(s.Simples))
	for i, ss := range s.Simples {
		keys[i] = ss.key()
	}

	return strings.Join(keys, "\x01")
}

// WithParent nests s inside parent. Parent references in s are replaced by
// the parent chain; without any, s is appended to parent as a descendant.
func (s Selector) WithParent(parent Selector) (Selector, error) {
	var (
		simples []Simple
		sawRef  bool
	)

	for _, ss := range s.Simples {
		if !ss.HasParentRef() {
			simples = append(simples, ss)

			continue
		}

		replaced, err := ss.replaceParent(parent.Simples)
		if err != nil {
			return Selector{}, err
		}

		simples = append(simples, replaced...)
		sawRef = true
	}

	if !sawRef {
		simples = slices.Concat(parent.Simples, simples)
	}

	return Selector{Simples: simples}, nil
}

// LookupKey returns the element, class, id and placeholder tokens of s,
// sorted. Selectors made only of pseudo-classes and attribute tests have
// no key.
func (s Selector) LookupKey() []string {
	var parts []string

	for _, ss := range s.Simples {
		for _, t := range ss.Tokens {
			if t[0] != ':' && t[0] != '[' {
				parts = append(parts, t)
			}
		}
	}

	slices.Sort(parts)

	return slices.Compact(parts)
}

// IsSupersetOf reports whether s matches every element o matches: the last
// simple selectors correspond and the rest of s is found, in order, among
// the ancestors of o.
func (s Selector) IsSupersetOf(o Selector) bool {
	if len(s.Simples) == 0 {
		return true
	}

	if len(o.Simples) == 0 {
		return false
	}

	last := len(s.Simples) - 1
	if !s.Simples[last].IsSupersetOf(o.Simples[len(o.Simples)-1], false) {
		return false
	}

	i := 0

	for _, node := range o.Simples[:len(o.Simples)-1] {
		if i < last && s.Simples[i].IsSupersetOf(node, false) {
			i++
		}
	}

	return i == last
}

// BreakAround finds hinge within s and splits s into the simple selectors
// before it, the extra tokens s has on the hinge's last node, and the
// simple selectors after it. Given hinge X, "A + X.y B" splits into
// "A", "+ .y" and "B".
func (s Selector) BreakAround(hinge []Simple) (before []Simple, extras Simple, after []Simple, err error) {
	if len(hinge) == 0 {
		return nil, Simple{}, nil, pkg.ErrValue.Errorf("empty hinge")
	}

	start := slices.IndexFunc(s.Simples, func(node Simple) bool {
		// a descendant combinator here means any combinator
		return hinge[0].IsSupersetOf(node, true)
	})

	end := start + len(hinge) - 1
	if start < 0 || end >= len(s.Simples) {
		return nil, Simple{}, nil, s.hingeError(hinge)
	}

	for i, node := range hinge[1:] {
		if !node.IsSupersetOf(s.Simples[start+1+i], false) {
			return nil, Simple{}, nil, s.hingeError(hinge)
		}
	}

	extras = s.Simples[end].Difference(hinge[len(hinge)-1])

	return s.Simples[:start], extras, s.Simples[end+1:], nil
}

func (s Selector) hingeError(hinge []Simple) error {
	return pkg.ErrValue.Errorf("cannot find %q in %q", renderChain(hinge, false), s.Render(false))
}

// Substitute replaces target within s by replacement, returning one or two
// selectors.
//
// For a selector "a X b Y c", a target "X Y" and a replacement "q Z", the
// results are "a q X b Z c" and "q a X b Z c". Ancestors are never
// interleaved inside the target.
func (s Selector) Substitute(target, replacement Selector) ([]Selector, error) {
	if len(replacement.Simples) == 0 {
		return nil, pkg.ErrValue.Errorf("empty replacement selector")
	}

	before, extras, after, err := s.BreakAround(target.Simples)
	if err != nil {
		return nil, err
	}

	trail := replacement.Simples[:len(replacement.Simples)-1]
	focalReplacement := replacement.Simples[len(replacement.Simples)-1]

	focal, err := extras.MergeInto(focalReplacement)
	if err != nil {
		return nil, err
	}

	chains := MergeAncestors(before, trail)
	out := make([]Selector, len(chains))

	for i, chain := range chains {
		out[i] = Selector{Simples: slices.Concat(chain, []Simple{focal}, after)}
	}

	return out, nil
}

// Render returns the CSS text of s.
func (s Selector) Render(compress bool) string {
	return renderChain(s.Simples, compress)
}

func (s Selector) String() string { return s.Render(false) }

func renderChain(simples []Simple, compress bool) string {
	var b strings.Builder

	for _, ss := range simples {
		text := ss.Render(compress)
		if text == "" {
			continue
		}

		if b.Len() > 0 && (!compress || ss.Combinator == Descendant) {
			b.WriteByte(' ')
		}

		b.WriteString(text)
	}

	return b.String()
}

// RenderList joins a selector group.
func RenderList(sels []Selector, compress bool) string {
	parts := make([]string, len(sels))
	for i, s := range sels {
		parts[i] = s.Render(compress)
	}

	if compress {
		return strings.Join(parts, ",")
	}

	return strings.Join(parts, ", ")
}
