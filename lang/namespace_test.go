package lang

import (
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

func lookup(t *testing.T, n *Namespace, id ScopeID, name string) value.Value {
	t.Helper()

	v, err := n.Lookup(id, name)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", name, err)
	}

	return v
}

func TestNamespaceSet(t *testing.T) {
	one, two, three := value.NewNumber(1, ""), value.NewNumber(2, ""), value.NewNumber(3, "")

	tests := []struct {
		name      string
		flags     SetFlags
		wantRoot  value.Value
		wantChild value.Value
	}{
		{name: "nearest binding", flags: 0, wantRoot: two, wantChild: two},
		{name: "local", flags: Local, wantRoot: one, wantChild: two},
		{name: "global", flags: Global, wantRoot: two, wantChild: two},
		{name: "default keeps bound", flags: Default, wantRoot: one, wantChild: one},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNamespace()
			n.Set(RootScope, "x", one, 0)

			child := n.Derive(RootScope)
			n.Set(child, "x", two, tt.flags)

			if got := lookup(t, n, RootScope, "x"); !value.Equal(got, tt.wantRoot) {
				t.Errorf("root $x = %v, want %v", got, tt.wantRoot)
			}

			if got := lookup(t, n, child, "x"); !value.Equal(got, tt.wantChild) {
				t.Errorf("child $x = %v, want %v", got, tt.wantChild)
			}
		})
	}

	t.Run("unbound stays local", func(t *testing.T) {
		n := NewNamespace()
		child := n.Derive(RootScope)
		n.Set(child, "y", three, 0)

		if _, err := n.Lookup(RootScope, "y"); !errors.Is(err, pkg.ErrName) {
			t.Errorf("root lookup error = %v, want ErrName", err)
		}
	})

	t.Run("default replaces null", func(t *testing.T) {
		n := NewNamespace()
		n.Set(RootScope, "z", value.Null{}, 0)
		n.Set(RootScope, "z", three, Default)

		if got := lookup(t, n, RootScope, "z"); !value.Equal(got, three) {
			t.Errorf("$z = %v, want 3", got)
		}
	})
}

func TestNamespaceNames(t *testing.T) {
	n := NewNamespace()
	n.Set(RootScope, "$font_size", value.NewNumber(12, "px"), 0)

	if got := lookup(t, n, RootScope, "font-size"); !value.Equal(got, value.NewNumber(12, "px")) {
		t.Errorf("$font-size = %v", got)
	}

	got := slices.Collect(maps.Keys(maps.Collect(n.Variables(RootScope))))
	if !slices.Equal(got, []string{"font-size"}) {
		t.Errorf("Variables = %v", got)
	}
}

func TestNamespaceDeriveFrom(t *testing.T) {
	n := NewNamespace()
	decl := n.Derive(RootScope)
	caller := n.Derive(RootScope)

	n.Set(caller, "c", value.Bare("caller"), Local)
	n.Set(decl, "d", value.Bare("decl"), Local)

	call := n.DeriveFrom(decl, caller)

	if got := lookup(t, n, call, "d"); value.Text(got) != "decl" {
		t.Errorf("$d = %v", got)
	}

	if got := lookup(t, n, call, "c"); value.Text(got) != "caller" {
		t.Errorf("$c = %v", got)
	}

	if _, err := n.Lookup(n.Derive(decl), "c"); err == nil {
		t.Error("plain derived scope sees the caller")
	}
}

func TestNamespaceCallables(t *testing.T) {
	n := NewNamespace()

	spec, err := expr.ParseArgSpec("$a, $b: 1")
	if err != nil {
		t.Fatal(err)
	}

	arities, variadic := spec.Arities()
	if variadic {
		t.Fatal("unexpected variadic spec")
	}

	m := &Callable{Name: "pad_box", Spec: spec}
	n.SetMixin(RootScope, m, arities...)

	tests := []struct {
		name  string
		arity int
		found bool
	}{
		{name: "pad-box", arity: 1, found: true},
		{name: "pad_box", arity: 2, found: true},
		{name: "pad-box", arity: 0, found: false},
		{name: "pad-box", arity: 3, found: false},
	}

	for _, tt := range tests {
		got, ok := n.Mixin(RootScope, tt.name, tt.arity)
		if ok != tt.found || (ok && got != m) {
			t.Errorf("Mixin(%q, %d) = %v, %v; want found %v", tt.name, tt.arity, got, ok, tt.found)
		}
	}

	if _, ok := n.Function(RootScope, "pad-box", 1); ok {
		t.Error("mixin found as a function")
	}

	v := &Callable{Name: "all"}
	n.SetFunction(n.Derive(RootScope), v, AnyArity)

	child := n.Derive(RootScope)
	if _, ok := n.Function(child, "all", 5); ok {
		t.Error("function leaked from a sibling scope")
	}

	names := slices.Sorted(n.Callables(RootScope))
	if !slices.Equal(names, []string{"pad-box"}) {
		t.Errorf("Callables = %v", names)
	}
}

func TestNamespaceImports(t *testing.T) {
	n := NewNamespace()
	child := n.Derive(RootScope)

	if !n.MarkImported(RootScope, "a") {
		t.Fatal("first import refused")
	}

	if n.MarkImported(child, "a") {
		t.Error("repeated import in a child scope accepted")
	}

	sibling := n.Derive(RootScope)
	if !n.MarkImported(n.Derive(child), "b") || !n.MarkImported(sibling, "b") {
		t.Error("import in unrelated scopes refused")
	}

	n.Origin = "a"
	n.Set(RootScope, "v", value.True, 0)
	n.Origin = ""

	if got := n.Unused(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Unused before use = %v", got)
	}

	lookup(t, n, RootScope, "v")

	if got := n.Unused(); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Unused after use = %v", got)
	}
}
