package value

import (
	"math"

	"github.com/ardnew/scss/pkg"
)

// Op is a binary operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var opSymbols = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opSymbols) {
		return "?"
	}

	return opSymbols[op]
}

type (
	opKey struct {
		op          Op
		left, right Kind
	}
	binaryFunc func(a, b Value) (Value, error)
)

// binaryTable holds every operator defined directly between two kinds.
var binaryTable = map[opKey]binaryFunc{}

func define(op Op, left, right Kind, fn binaryFunc) {
	binaryTable[opKey{op, left, right}] = fn
}

func init() {
	numeric := map[Op]func(a, b Number) (Number, error){
		OpAdd: Number.Add,
		OpSub: Number.Sub,
		OpMul: func(a, b Number) (Number, error) { return a.Mul(b), nil },
		OpDiv: Number.Div,
		OpMod: Number.Mod,
	}

	for op, fn := range numeric {
		define(op, KindNumber, KindNumber, func(a, b Value) (Value, error) {
			return fn(a.(Number), b.(Number))
		})
	}

	for op, want := range map[Op]func(c int) bool{
		OpLt: func(c int) bool { return c < 0 },
		OpLe: func(c int) bool { return c <= 0 },
		OpGt: func(c int) bool { return c > 0 },
		OpGe: func(c int) bool { return c >= 0 },
	} {
		define(op, KindNumber, KindNumber, func(a, b Value) (Value, error) {
			c, err := a.(Number).compare(b.(Number))
			if err != nil {
				return nil, err
			}

			return Boolean(want(c)), nil
		})
	}

	channel := map[Op]func(a, b float64) (float64, error){
		OpAdd: func(a, b float64) (float64, error) { return a + b, nil },
		OpSub: func(a, b float64) (float64, error) { return a - b, nil },
		OpMul: func(a, b float64) (float64, error) { return a * b, nil },
		OpDiv: func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, pkg.ErrValue.Errorf("division by zero")
			}

			return a / b, nil
		},
		OpMod: func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, pkg.ErrValue.Errorf("modulo by zero")
			}

			return math.Mod(a, b), nil
		},
	}

	for op, fn := range channel {
		define(op, KindColor, KindColor, func(a, b Value) (Value, error) {
			return a.(Color).zip(b.(Color), fn)
		})
		define(op, KindColor, KindNumber, func(a, b Value) (Value, error) {
			n := b.(Number)
			if !n.Unitless() {
				return nil, pkg.ErrType.Errorf("cannot apply %s to a color and %s", op, n.debug())
			}

			return a.(Color).channels(func(ch float64) (float64, error) {
				return fn(ch, n.Amount)
			})
		})
	}

	// addition and multiplication commute with a leading number
	for _, op := range []Op{OpAdd, OpMul} {
		define(op, KindNumber, KindColor, func(a, b Value) (Value, error) {
			return binaryTable[opKey{op, KindColor, KindNumber}](b, a)
		})
	}

	define(OpAdd, KindString, KindString, func(a, b Value) (Value, error) {
		return a.(String).concat(b.(String)), nil
	})
	define(OpMul, KindString, KindNumber, func(a, b Value) (Value, error) {
		return a.(String).repeat(b.(Number))
	})
}

// Binary applies op to a and b.
//
// Undefined absorbs any operation. Equality is defined between all values.
// A list operand applies op to each item. Otherwise the operator table is
// consulted, and failing that + - and / fall back to joining the operands'
// text.
func Binary(op Op, a, b Value) (Value, error) {
	if a.Kind() == KindUndefined || b.Kind() == KindUndefined {
		return Undefined{}, nil
	}

	switch op {
	case OpEq:
		return Boolean(Equal(a, b)), nil
	case OpNe:
		return Boolean(!Equal(a, b)), nil
	}

	if v, ok, err := elementwise(op, a, b); ok {
		return v, err
	}

	if fn, ok := binaryTable[opKey{op, a.Kind(), b.Kind()}]; ok {
		return fn(a, b)
	}

	return textual(op, a, b)
}

func elementwise(op Op, a, b Value) (Value, bool, error) {
	al, aok := a.(List)
	bl, bok := b.(List)

	var items []Value

	switch {
	case aok && bok:
		if len(al.Items) != len(bl.Items) {
			return nil, true, pkg.ErrType.Errorf(
				"cannot apply %s to lists of length %d and %d",
				op, len(al.Items), len(bl.Items))
		}

		items = make([]Value, len(al.Items))

		for i := range al.Items {
			v, err := Binary(op, al.Items[i], bl.Items[i])
			if err != nil {
				return nil, true, err
			}

			items[i] = v
		}

		return List{Items: items, Comma: al.Comma}, true, nil
	case aok:
		items = make([]Value, len(al.Items))

		for i, item := range al.Items {
			v, err := Binary(op, item, b)
			if err != nil {
				return nil, true, err
			}

			items[i] = v
		}

		return List{Items: items, Comma: al.Comma}, true, nil
	case bok:
		items = make([]Value, len(bl.Items))

		for i, item := range bl.Items {
			v, err := Binary(op, a, item)
			if err != nil {
				return nil, true, err
			}

			items[i] = v
		}

		return List{Items: items, Comma: bl.Comma}, true, nil
	}

	return nil, false, nil
}

func textual(op Op, a, b Value) (Value, error) {
	var sep string

	switch op {
	case OpAdd:
	case OpSub:
		sep = "-"
	case OpDiv:
		sep = "/"
	default:
		return nil, typeError(op, a, b)
	}

	if a.Kind() == KindNull || b.Kind() == KindNull ||
		a.Kind() == KindMap || b.Kind() == KindMap {
		return nil, typeError(op, a, b)
	}

	as, aq := textOf(a)
	bs, bq := textOf(b)

	return String{Text: as + sep + bs, Quoted: aq || bq}, nil
}

func textOf(v Value) (string, bool) {
	switch v := v.(type) {
	case String:
		return v.Text, v.Quoted
	case Number:
		if s, err := v.Render(DefaultOptions); err == nil {
			return s, false
		}

		return v.debug(), false
	default:
		return Text(v), false
	}
}

func typeError(op Op, a, b Value) error {
	return pkg.ErrType.Errorf("undefined operation: %s %s %s", a.Kind(), op, b.Kind())
}

// Neg implements unary minus.
func Neg(v Value) (Value, error) {
	switch v := v.(type) {
	case Undefined:
		return v, nil
	case Number:
		return v.Neg(), nil
	case String:
		return String{Text: "-" + v.Text, Quoted: v.Quoted}, nil
	default:
		return nil, pkg.ErrType.Errorf("cannot negate %s", v.Kind())
	}
}

// Pos implements unary plus.
func Pos(v Value) (Value, error) {
	switch v := v.(type) {
	case Undefined, Number:
		return v, nil
	case String:
		return String{Text: "+" + v.Text, Quoted: v.Quoted}, nil
	default:
		return nil, pkg.ErrType.Errorf("cannot apply unary + to %s", v.Kind())
	}
}

// Not implements logical negation.
func Not(v Value) Value {
	if v.Kind() == KindUndefined {
		return v
	}

	return Boolean(!v.Truthy())
}
