package expr

import (
	"slices"
	"strings"

	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

// NormalizeName folds the interchangeable "_" and "-" of a Sass name and
// strips a leading "$".
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimPrefix(name, "$"), "_", "-")
}

// NamedArg is a keyword argument.
type NamedArg struct {
	Name  string
	Value value.Value
}

// Args holds evaluated call arguments.
type Args struct {
	Positional []value.Value
	Named      []NamedArg
}

// Len returns the total number of arguments.
func (a Args) Len() int { return len(a.Positional) + len(a.Named) }

// Get returns the keyword argument name.
func (a Args) Get(name string) (value.Value, bool) {
	name = NormalizeName(name)

	for _, n := range a.Named {
		if n.Name == name {
			return n.Value, true
		}
	}

	return nil, false
}

// Packed returns the arguments as a single comma list argument, for calls
// that fall back to a one-argument overload.
func (a Args) Packed() Args {
	return Args{Positional: []value.Value{value.List{Items: a.Positional, Comma: true}}, Named: a.Named}
}

// Arg is one argument expression at a call site.
type Arg struct {
	// Name is set for keyword arguments.
	Name  string
	Value Node
	// Spread marks "$list..." arguments, expanded into several.
	Spread bool
}

// ArgList is the parsed argument list of a call.
type ArgList struct {
	Items []Arg
}

// Evaluate computes the arguments in division context. A spread list
// contributes its items as positional arguments and a spread map its pairs
// as keyword arguments.
func (l *ArgList) Evaluate(s Scope) (Args, error) {
	var out Args

	if l == nil {
		return out, nil
	}

	for _, a := range l.Items {
		v, err := Arithmetic(a.Value, s)
		if err != nil {
			return Args{}, err
		}

		switch {
		case a.Name != "":
			out.Named = append(out.Named, NamedArg{Name: a.Name, Value: v})
		case a.Spread:
			if m, ok := v.(value.Map); ok {
				for _, p := range m.Pairs {
					out.Named = append(out.Named, NamedArg{Name: NormalizeName(value.Text(p.Key)), Value: p.Value})
				}

				continue
			}

			out.Positional = append(out.Positional, value.Items(v)...)
		default:
			out.Positional = append(out.Positional, v)
		}
	}

	return out, nil
}

// Param is one declared parameter. Default is nil for required parameters.
type Param struct {
	Name    string
	Default Node
}

// ArgSpec is the parameter list of a mixin or function declaration.
type ArgSpec struct {
	Params []Param
	// Slurp names the parameter receiving surplus arguments, if any.
	Slurp string
	// Inject is set for the "(...)" form, which receives every argument of
	// the caller by name.
	Inject bool
}

// Required returns the number of parameters without defaults.
func (a *ArgSpec) Required() int {
	n := 0

	for _, p := range a.Params {
		if p.Default == nil {
			n++
		}
	}

	return n
}

// Arities returns every argument count the declaration accepts without
// surplus, and whether it also accepts any other count.
func (a *ArgSpec) Arities() (counts []int, variadic bool) {
	for n := a.Required(); n <= len(a.Params); n++ {
		counts = append(counts, n)
	}

	return counts, a.Slurp != "" || a.Inject
}

// Bind assigns args to the declared parameters through set. Defaults are
// evaluated in scope, after earlier parameters have been bound, so they may
// refer to them. Surplus positional arguments go to the slurp parameter as
// a comma list.
func (a *ArgSpec) Bind(args Args, scope Scope, set func(name string, v value.Value)) error {
	bound := make(map[string]bool, len(a.Params))
	named := slices.Clone(args.Named)

	for i, p := range a.Params {
		var (
			v  value.Value
			ok bool
		)

		switch {
		case i < len(args.Positional):
			v, ok = args.Positional[i], true
		default:
			for j, n := range named {
				if n.Name == p.Name {
					v, ok = n.Value, true
					named = slices.Delete(named, j, j+1)

					break
				}
			}
		}

		if !ok {
			if p.Default == nil {
				return pkg.ErrValue.Errorf("missing argument $%s", p.Name)
			}

			var err error
			if v, err = Arithmetic(p.Default, scope); err != nil {
				return err
			}
		}

		set(p.Name, v)
		bound[p.Name] = true
	}

	var surplus []value.Value
	if len(args.Positional) > len(a.Params) {
		surplus = args.Positional[len(a.Params):]
	}

	switch {
	case a.Inject:
		for _, n := range named {
			set(n.Name, n.Value)
		}

		return nil
	case a.Slurp != "":
		items := slices.Clone(surplus)
		for _, n := range named {
			items = append(items, n.Value)
		}

		set(a.Slurp, value.List{Items: items, Comma: true})

		return nil
	}

	if len(surplus) > 0 {
		return pkg.ErrValue.Errorf("expected at most %d arguments, got %d", len(a.Params), len(args.Positional))
	}

	for _, n := range named {
		if !bound[n.Name] {
			return pkg.ErrValue.Errorf("no parameter named $%s", n.Name)
		}
	}

	return nil
}
