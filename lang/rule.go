package lang

import (
	"slices"
	"strings"

	"github.com/ardnew/scss/lang/selector"
)

// Header is one level of a rule's ancestry: a selector group, or an
// at-rule such as "@media print".
type Header struct {
	Selectors []selector.Selector
	Directive string
	Argument  string
}

// SelectorHeader returns a header for a selector group.
func SelectorHeader(sels ...selector.Selector) Header {
	return Header{Selectors: sels}
}

// AtRuleHeader returns a header for an at-rule block.
func AtRuleHeader(directive, argument string) Header {
	return Header{Directive: directive, Argument: strings.TrimSpace(argument)}
}

// IsSelector reports whether h is a selector group.
func (h Header) IsSelector() bool { return h.Directive == "" }

// Equal compares headers structurally.
func (h Header) Equal(o Header) bool {
	return h.Directive == o.Directive && h.Argument == o.Argument &&
		slices.EqualFunc(h.Selectors, o.Selectors, selector.Selector.Equal)
}

// Render returns the header text. Selectors are joined by sep and each is
// prefixed by super, when set.
func (h Header) Render(sep, super string, compress bool) string {
	if !h.IsSelector() {
		if h.Argument == "" {
			return h.Directive
		}

		return h.Directive + " " + h.Argument
	}

	parts := make([]string, len(h.Selectors))
	for i, s := range h.Selectors {
		parts[i] = s.Render(compress)
		if super != "" {
			parts[i] = super + " " + parts[i]
		}
	}

	return strings.Join(parts, sep)
}

// Property is an output declaration. A property without a value is
// emitted as its name alone, which is how body-less at-rules such as
// "@import url(x.css)" are carried.
type Property struct {
	Name     string
	Value    string
	HasValue bool
}

// Text returns the declaration with sp between the colon and the value.
func (p Property) Text(sp string) string {
	if !p.HasValue {
		return p.Name
	}

	return p.Name + ":" + sp + p.Value
}

// Rule is one block of output: the headers enclosing it and its
// declarations.
type Rule struct {
	Ancestry   []Header
	Properties []Property
	// Extends lists the selectors whose rules this rule's selectors are
	// added to.
	Extends []Extend

	// Position is the order of creation. Dependents holds the positions
	// the rule must render with; rules sort by the least of them.
	Position   int
	Dependents []int

	File   string
	Line   int
	Nested int
}

// Selectors returns the selector group of the innermost header, or nil
// when that header is an at-rule.
func (r *Rule) Selectors() []selector.Selector {
	if len(r.Ancestry) == 0 {
		return nil
	}

	if h := r.Ancestry[len(r.Ancestry)-1]; h.IsSelector() {
		return h.Selectors
	}

	return nil
}

// AddSelectors appends sels to the innermost selector group, skipping
// those already present. It reports how many were added.
func (r *Rule) AddSelectors(sels ...selector.Selector) int {
	if len(r.Ancestry) == 0 || !r.Ancestry[len(r.Ancestry)-1].IsSelector() {
		return 0
	}

	h := &r.Ancestry[len(r.Ancestry)-1]
	added := 0

	for _, s := range sels {
		if slices.ContainsFunc(h.Selectors, s.Equal) {
			continue
		}

		h.Selectors = append(h.Selectors, s)
		added++
	}

	return added
}

// IsEmpty reports whether the rule has nothing to render.
func (r *Rule) IsEmpty() bool {
	if len(r.Properties) == 0 {
		return true
	}

	for _, h := range r.Ancestry {
		if h.IsSelector() && len(h.Selectors) == 0 {
			return true
		}
	}

	return false
}

// order is the sort key of the rule.
func (r *Rule) order() int {
	if len(r.Dependents) == 0 {
		return r.Position
	}

	return slices.Min(r.Dependents)
}

// conditional lists the at-rules that merge with an enclosing at-rule of
// the same kind and wrap the selectors they appear in.
var conditional = map[string]bool{
	"@media":    true,
	"@supports": true,
}

// nest returns the ancestry of a rule nested in r with header h.
// Selector headers replace an innermost selector group, since their
// selectors already include the parents. A @media or @supports header
// merges with an enclosing one of its kind and is hoisted above any
// selector group.
func (r *Rule) nest(h Header) []Header {
	anc := slices.Clone(r.Ancestry)
	for i := range anc {
		anc[i].Selectors = slices.Clone(anc[i].Selectors)
	}

	switch {
	case h.IsSelector():
		if n := len(anc); n > 0 && anc[n-1].IsSelector() {
			anc[n-1] = h

			return anc
		}

		return append(anc, h)
	case conditional[h.Directive]:
		for i := len(anc) - 1; i >= 0; i-- {
			if anc[i].Directive == h.Directive {
				anc[i] = AtRuleHeader(h.Directive, anc[i].Argument+" and "+h.Argument)

				return anc
			}
		}

		i := slices.IndexFunc(anc, Header.IsSelector)
		if i < 0 {
			return append(anc, h)
		}

		return slices.Insert(anc, i, h)
	default:
		return append(anc, h)
	}
}
