package lang

import (
	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
)

// Inspect renders v the way the session would emit it. Values CSS cannot
// represent fall back to their text form.
func (s *Session) Inspect(v value.Value) string {
	if text, err := v.Render(s.valueOptions()); err == nil {
		return text
	}

	return value.Text(v)
}

// Signature returns the parameters of the function or mixin name declared
// in the root scope, each with its "$". A parameter receiving surplus
// arguments ends with "...". Functions win over mixins of the same name,
// and of several arities the smallest is reported.
func (s *Session) Signature(name string) ([]string, bool) {
	name = expr.NormalizeName(name)
	root := &s.ns.scopes[RootScope]

	for _, table := range []map[callKey]*Callable{root.functions, root.mixins} {
		var found *Callable

		arity := 0

		for k, c := range table {
			if k.name != name {
				continue
			}

			if found == nil || k.arity < arity {
				found, arity = c, k.arity
			}
		}

		if found != nil {
			return paramNames(found.Spec), true
		}
	}

	return nil, false
}

func paramNames(spec *expr.ArgSpec) []string {
	if spec == nil {
		return nil
	}

	names := make([]string, 0, len(spec.Params)+1)

	for _, p := range spec.Params {
		names = append(names, "$"+p.Name)
	}

	if spec.Slurp != "" {
		names = append(names, "$"+spec.Slurp+"...")
	}

	return names
}
