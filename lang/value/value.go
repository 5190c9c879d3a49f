// Package value implements the runtime values of the stylesheet language and
// the arithmetic, comparison and rendering rules between them.
//
// The set of variants is closed: [Null], [Undefined], [Boolean], [Number],
// [Color], [String], [List] and [Map]. Values are immutable; every operator
// returns a new Value. Binary operators are dispatched through a single
// table keyed on the operator and the kinds of both operands (see [Binary]).
package value

import "strings"

// Kind identifies the variant of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindUndefined
	KindBoolean
	KindNumber
	KindColor
	KindString
	KindList
	KindMap

	numKinds
)

// String returns the type name used by type-of().
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBoolean:
		return "bool"
	case KindNumber:
		return "number"
	case KindColor:
		return "color"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// DefaultPrecision is the number of decimal places numbers are rendered with.
const DefaultPrecision = 3

// Options controls how values are rendered as CSS text.
type Options struct {
	Precision int
	Compress  bool
}

// DefaultOptions renders uncompressed with [DefaultPrecision].
var DefaultOptions = Options{Precision: DefaultPrecision}

// Value is a runtime value.
type Value interface {
	Kind() Kind
	// Truthy reports whether the value counts as true in a condition.
	Truthy() bool
	// Render returns the CSS text of the value.
	Render(opts Options) (string, error)
}

// Text renders v for interpolation or concatenation: strings yield their
// unquoted text, lists join their items the same way, and anything that
// cannot be rendered yields "".
func Text(v Value) string {
	switch v := v.(type) {
	case String:
		return v.Text
	case List:
		parts := make([]string, 0, len(v.Items))

		for _, item := range v.Items {
			if item.Kind() == KindNull {
				continue
			}

			parts = append(parts, Text(item))
		}

		return strings.Join(parts, v.separator(false))
	default:
		s, err := v.Render(DefaultOptions)
		if err != nil {
			return ""
		}

		return s
	}
}

// Null is the absence of a value. It renders as nothing and is falsy.
type Null struct{}

func (Null) Kind() Kind { return KindNull }

func (Null) Truthy() bool { return false }

func (Null) Render(Options) (string, error) { return "", nil }

// Undefined stands in for an unbound variable in tolerant mode. It absorbs
// every operation and renders as nothing.
type Undefined struct{}

func (Undefined) Kind() Kind { return KindUndefined }

func (Undefined) Truthy() bool { return false }

func (Undefined) Render(Options) (string, error) { return "", nil }

// Boolean is true or false.
type Boolean bool

func (b Boolean) Kind() Kind { return KindBoolean }

func (b Boolean) Truthy() bool { return bool(b) }

func (b Boolean) Render(Options) (string, error) {
	if b {
		return "true", nil
	}

	return "false", nil
}

// True and False are the two Boolean values.
const (
	True  = Boolean(true)
	False = Boolean(false)
)

// Equal reports whether a and b are equal under the language's rules.
// Numbers with irreconcilable units are unequal rather than an error.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Null:
		return b.Kind() == KindNull
	case Undefined:
		return b.Kind() == KindUndefined
	case Boolean:
		bb, ok := b.(Boolean)

		return ok && a == bb
	case Number:
		bn, ok := b.(Number)

		return ok && a.Equal(bn)
	case Color:
		bc, ok := b.(Color)

		return ok && a.Equal(bc)
	case String:
		bs, ok := b.(String)

		return ok && a.Text == bs.Text
	case List:
		if bl, ok := b.(List); ok {
			return a.Equal(bl)
		}
		// a single-element list equals its element
		if len(a.Items) == 1 {
			return Equal(a.Items[0], b)
		}

		return false
	case Map:
		bm, ok := b.(Map)

		return ok && a.Equal(bm)
	default:
		return false
	}
}
