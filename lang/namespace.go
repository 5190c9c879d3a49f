package lang

import (
	"iter"
	"maps"
	"slices"

	"github.com/ardnew/scss/lang/builtin"
	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

// ScopeID addresses a scope in a [Namespace].
type ScopeID int

// RootScope is the global scope of every Namespace.
const RootScope ScopeID = 0

// AnyArity keys mixins and functions that accept any number of arguments.
const AnyArity = builtin.AnyArity

// SetFlags modify a variable assignment.
type SetFlags uint8

const (
	// Global writes the root scope.
	Global SetFlags = 1 << iota
	// Default skips the write when the name is bound to a non-null value.
	Default
	// Local writes the given scope even if an ancestor binds the name.
	Local
)

// Callable is a mixin or function declaration.
type Callable struct {
	Name string
	Spec *expr.ArgSpec
	Body string
	// File and Line locate the first line of Body.
	File string
	Line int
	// Scope is where the declaration appeared; calls derive from it.
	Scope ScopeID
	// Origin is the key of the declaring source.
	Origin string
}

type callKey struct {
	name  string
	arity int
}

type binding struct {
	value  value.Value
	origin string
}

type scope struct {
	parent    ScopeID
	extra     []ScopeID
	vars      map[string]binding
	mixins    map[callKey]*Callable
	functions map[callKey]*Callable
	imports   map[string]bool
}

// Namespace is an arena of lexical scopes. Scopes refer to their parent by
// index; a scope lives as long as the Namespace.
type Namespace struct {
	scopes []scope

	// Origin is the source whose code is running. Bindings remember it so
	// that unused imports can be reported.
	Origin string

	imported []string
	touched  map[string]bool
}

// NewNamespace returns a Namespace holding only the root scope.
func NewNamespace() *Namespace {
	return &Namespace{
		scopes:  []scope{{parent: -1}},
		touched: map[string]bool{},
	}
}

// Derive creates a child scope of id.
func (n *Namespace) Derive(id ScopeID) ScopeID {
	n.scopes = append(n.scopes, scope{parent: id})

	return ScopeID(len(n.scopes) - 1)
}

// DeriveFrom creates a child scope of id whose lookups fall back to the
// chains of extra, in order, when the chain of id has no binding.
func (n *Namespace) DeriveFrom(id ScopeID, extra ...ScopeID) ScopeID {
	child := n.Derive(id)
	n.scopes[child].extra = slices.Clone(extra)

	return child
}

// chain yields id and its ancestors, then the chains of any extra scopes
// attached along the way. Each scope is visited once.
func (n *Namespace) chain(id ScopeID) iter.Seq[*scope] {
	return func(yield func(*scope) bool) {
		seen := map[ScopeID]bool{}
		queue := []ScopeID{id}

		for len(queue) > 0 {
			var extra []ScopeID

			for cur := queue[0]; cur >= 0 && !seen[cur]; cur = n.scopes[cur].parent {
				seen[cur] = true

				if !yield(&n.scopes[cur]) {
					return
				}

				extra = append(extra, n.scopes[cur].extra...)
			}

			queue = append(queue[1:], extra...)
		}
	}
}

// Lookup returns the value of the variable name visible from id.
func (n *Namespace) Lookup(id ScopeID, name string) (value.Value, error) {
	name = expr.NormalizeName(name)

	for s := range n.chain(id) {
		if b, ok := s.vars[name]; ok {
			n.Touch(b.origin)

			return b.value, nil
		}
	}

	return nil, pkg.ErrName.Errorf("undefined variable $%s", name)
}

// Set assigns the variable name. Without flags the write targets the
// nearest scope, from id up through its parents, that already binds the
// name, or id itself when none does.
func (n *Namespace) Set(id ScopeID, name string, v value.Value, flags SetFlags) {
	name = expr.NormalizeName(name)

	if flags&Default != 0 {
		if old, err := n.Lookup(id, name); err == nil && !isNull(old) {
			return
		}
	}

	target := id

	switch {
	case flags&Global != 0:
		target = RootScope
	case flags&Local != 0:
	default:
		for cur := id; cur >= 0; cur = n.scopes[cur].parent {
			if _, ok := n.scopes[cur].vars[name]; ok {
				target = cur

				break
			}
		}
	}

	s := &n.scopes[target]
	if s.vars == nil {
		s.vars = map[string]binding{}
	}

	s.vars[name] = binding{value: v, origin: n.Origin}
}

// Variables yields every variable visible from id with its value, nearest
// binding first.
func (n *Namespace) Variables(id ScopeID) iter.Seq2[string, value.Value] {
	return func(yield func(string, value.Value) bool) {
		seen := map[string]bool{}

		for s := range n.chain(id) {
			for _, name := range slices.Sorted(maps.Keys(s.vars)) {
				if seen[name] {
					continue
				}

				seen[name] = true

				if !yield(name, s.vars[name].value) {
					return
				}
			}
		}
	}
}

func isNull(v value.Value) bool {
	switch v.Kind() {
	case value.KindNull, value.KindUndefined:
		return true
	}

	return false
}

// SetMixin registers c in scope id under each arity.
func (n *Namespace) SetMixin(id ScopeID, c *Callable, arities ...int) {
	s := &n.scopes[id]
	if s.mixins == nil {
		s.mixins = map[callKey]*Callable{}
	}

	for _, a := range arities {
		s.mixins[callKey{expr.NormalizeName(c.Name), a}] = c
	}
}

// SetFunction registers c in scope id under each arity.
func (n *Namespace) SetFunction(id ScopeID, c *Callable, arities ...int) {
	s := &n.scopes[id]
	if s.functions == nil {
		s.functions = map[callKey]*Callable{}
	}

	for _, a := range arities {
		s.functions[callKey{expr.NormalizeName(c.Name), a}] = c
	}
}

// Mixin finds the mixin name taking arity arguments, falling back to a
// variadic declaration.
func (n *Namespace) Mixin(id ScopeID, name string, arity int) (*Callable, bool) {
	return n.callable(id, name, arity, func(s *scope) map[callKey]*Callable { return s.mixins })
}

// Function finds the function name taking arity arguments, falling back to
// a variadic declaration.
func (n *Namespace) Function(id ScopeID, name string, arity int) (*Callable, bool) {
	return n.callable(id, name, arity, func(s *scope) map[callKey]*Callable { return s.functions })
}

func (n *Namespace) callable(
	id ScopeID,
	name string,
	arity int,
	table func(*scope) map[callKey]*Callable,
) (*Callable, bool) {
	name = expr.NormalizeName(name)

	for _, a := range []int{arity, AnyArity} {
		for s := range n.chain(id) {
			if c, ok := table(s)[callKey{name, a}]; ok {
				n.Touch(c.Origin)

				return c, true
			}
		}
	}

	return nil, false
}

// Callables yields the names of every mixin and function visible from id.
func (n *Namespace) Callables(id ScopeID) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := map[string]bool{}

		for s := range n.chain(id) {
			for _, m := range []map[callKey]*Callable{s.functions, s.mixins} {
				for k := range m {
					if seen[k.name] {
						continue
					}

					seen[k.name] = true

					if !yield(k.name) {
						return
					}
				}
			}
		}
	}
}

// MarkImported records that the source key was imported into id. It
// returns false if key was already imported anywhere in the chain of id.
func (n *Namespace) MarkImported(id ScopeID, key string) bool {
	for s := range n.chain(id) {
		if s.imports[key] {
			return false
		}
	}

	s := &n.scopes[id]
	if s.imports == nil {
		s.imports = map[string]bool{}
	}

	s.imports[key] = true

	if !slices.Contains(n.imported, key) {
		n.imported = append(n.imported, key)
	}

	return true
}

// Touch marks the source key as referenced.
func (n *Namespace) Touch(key string) {
	if key != "" {
		n.touched[key] = true
	}
}

// Unused returns the imported sources never referenced since import, in
// import order.
func (n *Namespace) Unused() []string {
	var out []string

	for _, key := range n.imported {
		if !n.touched[key] {
			out = append(out, key)
		}
	}

	return out
}
