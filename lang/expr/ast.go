package expr

import (
	"errors"
	"strings"

	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

// Scope resolves the names an expression refers to.
type Scope interface {
	// Variable returns the value bound to name, or an error wrapping
	// [pkg.ErrName] when no binding exists.
	Variable(name string) (value.Value, error)
	// Call invokes the function name with evaluated arguments.
	Call(name string, args Args) (value.Value, error)
	// Strict reports whether undefined variables are errors. When false they
	// evaluate to [value.Undefined].
	Strict() bool
}

// Node is an immutable expression tree node.
type Node interface {
	// Evaluate computes the value of the node in scope s. A slash between
	// two literal numbers is kept as text.
	Evaluate(s Scope) (value.Value, error)

	eval(s Scope, divide bool) (value.Value, error)
}

// Arithmetic evaluates n in division context, where every slash divides.
// Variable assignments and function arguments are evaluated this way.
func Arithmetic(n Node, s Scope) (value.Value, error) { return n.eval(s, true) }

// Literal is a constant parsed from source. Text is the source spelling.
type Literal struct {
	Value value.Value
	Text  string
}

func (n *Literal) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *Literal) eval(s Scope, _ bool) (value.Value, error) {
	if n.Value.Kind() == value.KindUndefined && s.Strict() {
		return nil, pkg.ErrName.Errorf("undefined literal")
	}

	return n.Value, nil
}

// Variable is a reference to a $variable. Name excludes the "$".
type Variable struct {
	Name string
}

func (n *Variable) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *Variable) eval(s Scope, _ bool) (value.Value, error) {
	v, err := s.Variable(n.Name)
	if err == nil {
		return v, nil
	}

	if errors.Is(err, pkg.ErrName) && !s.Strict() {
		return value.Undefined{}, nil
	}

	return nil, err
}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Pos
)

// Unary applies a prefix + or - to its operand.
type Unary struct {
	Op UnaryOp
	X  Node
}

func (n *Unary) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *Unary) eval(s Scope, _ bool) (value.Value, error) {
	x, err := n.X.eval(s, true)
	if err != nil {
		return nil, err
	}

	if n.Op == Neg {
		return value.Neg(x)
	}

	return value.Pos(x)
}

// Binary applies an arithmetic or comparison operator.
type Binary struct {
	Op   value.Op
	X, Y Node
}

func (n *Binary) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *Binary) eval(s Scope, divide bool) (value.Value, error) {
	if n.Op == value.OpDiv && !divide {
		if text, ok := literalSlash(n.X, n.Y); ok {
			return value.Bare(text), nil
		}
	}

	x, err := n.X.eval(s, true)
	if err != nil {
		return nil, err
	}

	y, err := n.Y.eval(s, true)
	if err != nil {
		return nil, err
	}

	return value.Binary(n.Op, x, y)
}

// literalSlash returns "a/b" when both operands are literal numbers.
func literalSlash(x, y Node) (string, bool) {
	a, ok := x.(*Literal)
	if !ok || a.Value.Kind() != value.KindNumber {
		return "", false
	}

	b, ok := y.(*Literal)
	if !ok || b.Value.Kind() != value.KindNumber {
		return "", false
	}

	return a.Text + "/" + b.Text, true
}

// Any is "x or y". It yields the first truthy operand, or the last.
type Any struct {
	X, Y Node
}

func (n *Any) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *Any) eval(s Scope, _ bool) (value.Value, error) {
	x, err := n.X.eval(s, true)
	if err != nil || x.Truthy() {
		return x, err
	}

	return n.Y.eval(s, true)
}

// All is "x and y". It yields the first falsy operand, or the last.
type All struct {
	X, Y Node
}

func (n *All) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *All) eval(s Scope, _ bool) (value.Value, error) {
	x, err := n.X.eval(s, true)
	if err != nil || !x.Truthy() {
		return x, err
	}

	return n.Y.eval(s, true)
}

// Not is logical negation.
type Not struct {
	X Node
}

func (n *Not) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *Not) eval(s Scope, _ bool) (value.Value, error) {
	x, err := n.X.eval(s, true)
	if err != nil {
		return nil, err
	}

	return value.Not(x), nil
}

// Parens forces division inside its contents.
type Parens struct {
	X Node
}

func (n *Parens) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *Parens) eval(s Scope, _ bool) (value.Value, error) { return n.X.eval(s, true) }

// List is a comma- or space-separated list literal.
type List struct {
	Items []Node
	Comma bool
}

func (n *List) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *List) eval(s Scope, divide bool) (value.Value, error) {
	items := make([]value.Value, len(n.Items))

	for i, item := range n.Items {
		v, err := item.eval(s, divide)
		if err != nil {
			return nil, err
		}

		items[i] = v
	}

	return value.List{Items: items, Comma: n.Comma}, nil
}

// MapPair is one entry of a Map literal.
type MapPair struct {
	Key, Value Node
}

// Map is a parenthesised map literal.
type Map struct {
	Pairs []MapPair
}

func (n *Map) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *Map) eval(s Scope, _ bool) (value.Value, error) {
	pairs := make([]value.Pair, len(n.Pairs))

	for i, p := range n.Pairs {
		k, err := p.Key.eval(s, false)
		if err != nil {
			return nil, err
		}

		v, err := p.Value.eval(s, false)
		if err != nil {
			return nil, err
		}

		pairs[i] = value.Pair{Key: k, Value: v}
	}

	return value.NewMap(pairs...), nil
}

// Part is a segment of an Interpolation: literal text or an expression.
type Part struct {
	Text string
	Expr Node
}

// Interpolation splices the text of evaluated expressions between literal
// segments, as in "a#{$b}c".
type Interpolation struct {
	Parts  []Part
	Quoted bool
}

func (n *Interpolation) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *Interpolation) eval(s Scope, divide bool) (value.Value, error) {
	var b strings.Builder

	for _, p := range n.Parts {
		if p.Expr == nil {
			b.WriteString(p.Text)

			continue
		}

		v, err := p.Expr.eval(s, divide)
		if err != nil {
			return nil, err
		}

		b.WriteString(value.Text(v))
	}

	return value.String{Text: b.String(), Quoted: n.Quoted}, nil
}

// Call invokes a function.
type Call struct {
	Name string
	Args *ArgList
}

func (n *Call) Evaluate(s Scope) (value.Value, error) { return n.eval(s, false) }

func (n *Call) eval(s Scope, _ bool) (value.Value, error) {
	args, err := n.Args.Evaluate(s)
	if err != nil {
		return nil, err
	}

	return s.Call(n.Name, args)
}
