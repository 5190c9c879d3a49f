package lang

import (
	"log/slog"
	"slices"

	"github.com/ardnew/scss/lang/selector"
)

// Extend is a pending "@extend target". Every rule whose selectors match
// Target receives the selectors of the extending rule.
type Extend struct {
	Target   selector.Selector
	Optional bool
}

// ruleIndex maps selector lookup keys to the rules carrying them.
type ruleIndex struct {
	keys map[string][]*Rule
	all  []*Rule
}

func newRuleIndex(rules []*Rule) *ruleIndex {
	ix := &ruleIndex{keys: map[string][]*Rule{}, all: rules}

	for _, r := range rules {
		ix.add(r, r.Selectors()...)
	}

	return ix
}

func (ix *ruleIndex) add(r *Rule, sels ...selector.Selector) {
	for _, sel := range sels {
		for _, k := range sel.LookupKey() {
			if !slices.Contains(ix.keys[k], r) {
				ix.keys[k] = append(ix.keys[k], r)
			}
		}
	}
}

// candidates returns the rules that may hold a selector matching target:
// those indexed under every lookup key of target, in creation order.
func (ix *ruleIndex) candidates(target selector.Selector) []*Rule {
	keys := target.LookupKey()
	if len(keys) == 0 {
		return ix.all
	}

	out := slices.Clone(ix.keys[keys[0]])

	for _, k := range keys[1:] {
		out = slices.DeleteFunc(out, func(r *Rule) bool {
			return !slices.Contains(ix.keys[k], r)
		})
	}

	slices.SortFunc(out, func(a, b *Rule) int { return a.Position - b.Position })

	return out
}

// matches reports whether sel contains a simple selector at least as
// specific as the last simple selector of target.
func matches(sel, target selector.Selector) bool {
	if len(target.Simples) == 0 {
		return false
	}

	focal := target.Simples[len(target.Simples)-1]

	return slices.ContainsFunc(sel.Simples, func(ss selector.Simple) bool {
		return focal.IsSupersetOf(ss, true)
	})
}

type pendingExtend struct {
	rule    *Rule
	extend  Extend
	matched bool
}

// resolveExtends applies every @extend, repeating until no rule gains a
// selector, then drops placeholder selectors.
func (s *Session) resolveExtends() {
	var pending []pendingExtend

	for _, r := range s.rules {
		for _, e := range r.Extends {
			pending = append(pending, pendingExtend{rule: r, extend: e})
		}
	}

	if len(pending) > 0 {
		ix := newRuleIndex(s.rules)

		for round := 0; round <= len(pending); round++ {
			added := 0

			for i := range pending {
				added += s.applyExtend(ix, &pending[i])
			}

			s.opts.logger.TraceContext(s.ctx, "extend",
				slog.Int("round", round),
				slog.Int("selectors_added", added),
			)

			if added == 0 {
				break
			}
		}

		for _, p := range pending {
			if !p.matched && !p.extend.Optional {
				s.opts.logger.WarnContext(s.ctx, "no rules match @extend target",
					slog.String("target", p.extend.Target.Render(false)),
					slog.String("file", p.rule.File),
					slog.Int("line", p.rule.Line),
				)
			}
		}
	}

	for _, r := range s.rules {
		removePlaceholders(r)
	}
}

// applyExtend adds the selectors of p.rule to every rule matching the
// target of p. It returns the number of selectors added.
func (s *Session) applyExtend(ix *ruleIndex, p *pendingExtend) int {
	target := p.extend.Target
	added := 0

	for _, r := range ix.candidates(target) {
		if r == p.rule {
			continue
		}

		var more []selector.Selector

		for _, sel := range r.Selectors() {
			if !matches(sel, target) {
				continue
			}

			for _, repl := range p.rule.Selectors() {
				subs, err := sel.Substitute(target, repl)
				if err != nil {
					continue
				}

				more = append(more, subs...)
			}
		}

		if len(more) == 0 {
			continue
		}

		p.matched = true

		if n := r.AddSelectors(more...); n > 0 {
			ix.add(r, more...)
			added += n
		}
	}

	return added
}

// removePlaceholders deletes placeholder selectors from every selector
// group of r. A group left empty makes the rule dead.
func removePlaceholders(r *Rule) {
	for i := range r.Ancestry {
		h := &r.Ancestry[i]
		if !h.IsSelector() {
			continue
		}

		h.Selectors = slices.DeleteFunc(h.Selectors, selector.Selector.HasPlaceholder)
	}
}
