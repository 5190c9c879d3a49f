package builtin

import (
	"errors"
	"testing"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

// scope evaluates calls through a Library, falling back to plain CSS.
type scope struct {
	lib  Library
	vars map[string]value.Value
}

func (s scope) Variable(name string) (value.Value, error) {
	if v, ok := s.vars[name]; ok {
		return v, nil
	}

	return nil, pkg.ErrName.Errorf("undefined variable $%s", name)
}

func (s scope) Call(name string, args expr.Args) (value.Value, error) {
	if fn, ok := s.lib.Lookup(name, args.Len()); ok {
		return fn(args)
	}

	return CSS(name, args, value.DefaultOptions)
}

func (s scope) Strict() bool { return true }

func call(t *testing.T, lib Library, text string) (string, error) {
	t.Helper()

	n, err := expr.Parse(text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}

	v, err := n.Evaluate(scope{lib: lib})
	if err != nil {
		return "", err
	}

	return v.Render(value.DefaultOptions)
}

func TestCore(t *testing.T) {
	lib := Core()

	tests := []struct {
		text string
		want string
	}{
		{text: "rgb(255, 0, 0)", want: "red"},
		{text: "rgb(100%, 100%, 100%)", want: "white"},
		{text: "rgba(255, 0, 0, 0.5)", want: "rgba(255, 0, 0, 0.5)"},
		{text: "rgba(#000, .25)", want: "rgba(0, 0, 0, 0.25)"},
		{text: "hsl(120, 100%, 50%)", want: "lime"},
		{text: "mix(#000, #fff)", want: "gray"},
		{text: "red(#102030)", want: "16"},
		{text: "alpha(rgba(0, 0, 0, .5))", want: "0.5"},
		{text: "lightness(#fff)", want: "100%"},
		{text: "lighten(#000, 100%)", want: "white"},
		{text: "darken(white, 100%)", want: "black"},
		{text: "grayscale(#f00)", want: "gray"},
		{text: "grayscale(50%)", want: "grayscale(50%)"},
		{text: "invert(#000)", want: "white"},
		{text: "complement(red)", want: "aqua"},
		{text: "transparentize(black, .5)", want: "rgba(0, 0, 0, 0.5)"},
		{text: "ie-hex-str(#abc)", want: "#FFAABBCC"},
		{text: "percentage(.5)", want: "50%"},
		{text: "round(1.5px)", want: "2px"},
		{text: "floor(1.7)", want: "1"},
		{text: "ceil(1.2em)", want: "2em"},
		{text: "abs(-3)", want: "3"},
		{text: "min(3px, 1px, 2px)", want: "1px"},
		{text: "max(1, 5, 3)", want: "5"},
		{text: "min(100%, 10px)", want: "min(100%, 10px)"},
		{text: "unit(10px)", want: `"px"`},
		{text: "unitless(10)", want: "true"},
		{text: "comparable(1in, 2cm)", want: "true"},
		{text: "comparable(1px, 2s)", want: "false"},
		{text: "if(true, a, b)", want: "a"},
		{text: "if(null, a, b)", want: "b"},
		{text: "type-of(1px)", want: "number"},
		{text: "type-of(a b)", want: "list"},
		{text: `quote(abc)`, want: `"abc"`},
		{text: `unquote("a b")`, want: "a b"},
		{text: `str-length("hello")`, want: "5"},
		{text: `str-index("hello", "ll")`, want: "3"},
		{text: `str-slice("hello", 2, 4)`, want: `"ell"`},
		{text: `str-slice("hello", -3)`, want: `"llo"`},
		{text: `to-upper-case(abc)`, want: "ABC"},
		{text: "length(a b c)", want: "3"},
		{text: "length(a, b)", want: "2"},
		{text: "nth(a b c, 2)", want: "b"},
		{text: "nth(a b c, -1)", want: "c"},
		{text: "nth(a b c, last)", want: "c"},
		{text: "set-nth(a b c, 1, z)", want: "z b c"},
		{text: "join(a b, c d)", want: "a b c d"},
		{text: "join(a, b, comma)", want: "a, b"},
		{text: "append((a, b), c)", want: "a, b, c"},
		{text: "index(a b c, c)", want: "3"},
		{text: "index(a b c, d)", want: "false"},
		{text: "zip(1px 2px, solid dashed)", want: "1px solid, 2px dashed"},
		{text: "list-separator((a, b))", want: "comma"},
		{text: "map-get((a: 1, b: 2), b)", want: "2"},
		{text: "map-get((a: 1), c, 3)", want: "3"},
		{text: "map-keys((a: 1, b: 2))", want: "a, b"},
		{text: "map-values((a: 1, b: 2))", want: "1, 2"},
		{text: "map-has-key((a: 1), a)", want: "true"},
		{text: "map-get(map-merge((a: 1, b: 2), (b: 3, c: 4)), b)", want: "3"},
		{text: "map-keys(map-merge((a: 1, b: 2), (b: 3, c: 4)))", want: "a, b, c"},
		{text: "translate(10px, 20px)", want: "translate(10px, 20px)"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := call(t, lib, tt.text)
			if err != nil {
				t.Fatalf("%s: %v", tt.text, err)
			}

			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestCoreErrors(t *testing.T) {
	lib := Core()

	tests := []struct {
		text string
		want error
	}{
		{text: "red(1px)", want: pkg.ErrType},
		{text: "percentage(1px)", want: pkg.ErrValue},
		{text: "nth(a b, 0)", want: pkg.ErrValue},
		{text: "nth((), 1)", want: pkg.ErrValue},
		{text: "map-get(a, b)", want: pkg.ErrType},
		{text: "join(a, b, dots)", want: pkg.ErrValue},
		{text: "foo($a: 1)", want: pkg.ErrValue},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if _, err := call(t, lib, tt.text); !errors.Is(err, tt.want) {
				t.Errorf("%s error = %v, want %v", tt.text, err, tt.want)
			}
		})
	}
}

func TestLookupArity(t *testing.T) {
	r := New()
	r.Register("f", func(expr.Args) (value.Value, error) { return value.Bare("two"), nil }, 2)
	r.Register("f", func(expr.Args) (value.Value, error) { return value.Bare("any"), nil })

	tests := []struct {
		arity int
		want  string
	}{
		{arity: 2, want: "two"},
		{arity: 0, want: "any"},
		{arity: 5, want: "any"},
	}

	for _, tt := range tests {
		fn, ok := r.Lookup("f", tt.arity)
		if !ok {
			t.Fatalf("Lookup(f, %d) not found", tt.arity)
		}

		v, _ := fn(expr.Args{})
		if got := value.Text(v); got != tt.want {
			t.Errorf("Lookup(f, %d) = %q, want %q", tt.arity, got, tt.want)
		}
	}

	if _, ok := r.Lookup("g", 1); ok {
		t.Error("Lookup(g, 1) found an unregistered function")
	}
}

func TestLookupNormalizesName(t *testing.T) {
	if _, ok := Core().Lookup("map_get", 2); !ok {
		t.Error("map_get did not resolve to map-get")
	}
}

func TestChain(t *testing.T) {
	user := New()
	user.Register("round", func(expr.Args) (value.Value, error) { return value.Bare("mine"), nil }, 1)

	lib := Chain{user, Core()}

	got, err := call(t, lib, "round(1.2)")
	if err != nil {
		t.Fatal(err)
	}

	if got != "mine" {
		t.Errorf("round(1.2) = %q, want the user function", got)
	}

	names := lib.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("Names() not sorted and unique at %q, %q", names[i-1], names[i])
		}
	}
}

func TestDefine(t *testing.T) {
	tests := []struct {
		name string
		def  string
		text string
		want string
	}{
		{name: "keeps unit", def: "double(x)=x*2", text: "double(4px)", want: "8px"},
		{name: "two parameters", def: "sum($a, $b) = a + b", text: "sum(1, 2)", want: "3"},
		{name: "string result", def: `greet(who)="hi " + who`, text: "greet(bob)", want: "hi bob"},
		{name: "boolean result", def: "big(n)=n > 10", text: "big(11)", want: "true"},
		{name: "comparison chain", def: "clamp(n, lo, hi)=n < lo ? lo : (n > hi ? hi : n)", text: "clamp(15px, 0, 10)", want: "10px"},
		{name: "list argument", def: "count(xs)=len(xs)", text: "count((1 2 3))", want: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			if err := r.Define(tt.def); err != nil {
				t.Fatalf("Define(%q): %v", tt.def, err)
			}

			got, err := call(t, r, tt.text)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDefineRuntimeError(t *testing.T) {
	r := New()
	if err := r.Define("double(x)=x*2"); err != nil {
		t.Fatal(err)
	}

	if _, err := call(t, r, "double(a b)"); !errors.Is(err, pkg.ErrValue) {
		t.Errorf("double(a b) error = %v, want ErrValue", err)
	}
}

func TestDefineErrors(t *testing.T) {
	for _, def := range []string{
		"nobody",
		"f=1",
		"(x)=x",
		"f(x, x)=x",
		"f(x)=x +",
	} {
		t.Run(def, func(t *testing.T) {
			if err := New().Define(def); !errors.Is(err, pkg.ErrSyntax) {
				t.Errorf("Define(%q) error = %v, want ErrSyntax", def, err)
			}
		})
	}
}

func TestIsCSSFunction(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "linear-gradient", want: true},
		{name: "linear_gradient", want: true},
		{name: "-webkit-gradient", want: true},
		{name: "-x", want: false},
		{name: "darken", want: false},
	}

	for _, tt := range tests {
		if got := IsCSSFunction(tt.name); got != tt.want {
			t.Errorf("IsCSSFunction(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
