// Package builtin provides the function library available to stylesheet
// expressions.
//
// A [Library] resolves functions by name and argument count. [Core] returns
// the standard color, number, string, list and map functions; [Registry.Define]
// adds user functions written as expr-lang expressions. Calls to names no
// library defines are rendered back as plain CSS functions by [CSS].
package builtin

import (
	"slices"
	"sort"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

// AnyArity registers a function for every argument count.
const AnyArity = -1

// Func implements a function over evaluated arguments.
type Func func(args expr.Args) (value.Value, error)

// Library resolves functions by name and arity.
type Library interface {
	// Lookup returns the function registered for exactly arity arguments, or
	// failing that the one registered with [AnyArity].
	Lookup(name string, arity int) (Func, bool)
	// Names returns every function name, sorted.
	Names() []string
}

type key struct {
	name  string
	arity int
}

// Registry is a mutable Library.
type Registry struct {
	funcs map[key]Func
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{funcs: map[key]Func{}}
}

// Register adds fn under name for each of arities, or for [AnyArity] when
// none are given. Later registrations replace earlier ones.
func (r *Registry) Register(name string, fn Func, arities ...int) {
	if len(arities) == 0 {
		arities = []int{AnyArity}
	}

	name = expr.NormalizeName(name)

	for _, n := range arities {
		r.funcs[key{name, n}] = fn
	}
}

func (r *Registry) Lookup(name string, arity int) (Func, bool) {
	name = expr.NormalizeName(name)

	if fn, ok := r.funcs[key{name, arity}]; ok {
		return fn, true
	}

	fn, ok := r.funcs[key{name, AnyArity}]

	return fn, ok
}

func (r *Registry) Names() []string {
	var names []string

	for k := range r.funcs {
		names = append(names, k.name)
	}

	sort.Strings(names)

	return slices.Compact(names)
}

// Chain searches each library in order.
type Chain []Library

func (c Chain) Lookup(name string, arity int) (Func, bool) {
	for _, l := range c {
		if fn, ok := l.Lookup(name, arity); ok {
			return fn, true
		}
	}

	return nil, false
}

func (c Chain) Names() []string {
	var names []string

	for _, l := range c {
		names = append(names, l.Names()...)
	}

	sort.Strings(names)

	return slices.Compact(names)
}

// Core returns a new Registry holding the standard functions.
func Core() *Registry {
	r := New()

	registerColor(r)
	registerNumber(r)
	registerString(r)
	registerList(r)
	registerMap(r)

	r.Register("if", func(args expr.Args) (value.Value, error) {
		cond, _ := arg(args, 0, "condition")
		t, _ := arg(args, 1, "if-true")

		if cond != nil && cond.Truthy() {
			return t, nil
		}

		if f, ok := arg(args, 2, "if-false"); ok {
			return f, nil
		}

		return value.Null{}, nil
	}, 2, 3)

	r.Register("type-of", func(args expr.Args) (value.Value, error) {
		v, err := required(args, 0, "value")
		if err != nil {
			return nil, err
		}

		return value.Bare(v.Kind().String()), nil
	}, 1)

	return r
}

// arg returns positional argument i, or the keyword argument name.
func arg(args expr.Args, i int, name string) (value.Value, bool) {
	if i < len(args.Positional) {
		return args.Positional[i], true
	}

	return args.Get(name)
}

func required(args expr.Args, i int, name string) (value.Value, error) {
	v, ok := arg(args, i, name)
	if !ok {
		return nil, pkg.ErrValue.Errorf("missing argument $%s", name)
	}

	return v, nil
}

func number(args expr.Args, i int, name string) (value.Number, error) {
	v, err := required(args, i, name)
	if err != nil {
		return value.Number{}, err
	}

	n, ok := v.(value.Number)
	if !ok {
		return value.Number{}, expected(name, "number", v)
	}

	return n, nil
}

func color(args expr.Args, i int, name string) (value.Color, error) {
	v, err := required(args, i, name)
	if err != nil {
		return value.Color{}, err
	}

	c, ok := v.(value.Color)
	if !ok {
		return value.Color{}, expected(name, "color", v)
	}

	return c, nil
}

func str(args expr.Args, i int, name string) (value.String, error) {
	v, err := required(args, i, name)
	if err != nil {
		return value.String{}, err
	}

	s, ok := v.(value.String)
	if !ok {
		return value.String{}, expected(name, "string", v)
	}

	return s, nil
}

func expected(name, kind string, v value.Value) error {
	return pkg.ErrType.Errorf("$%s: expected %s, got %s", name, kind, v.Kind())
}
