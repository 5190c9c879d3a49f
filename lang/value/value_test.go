package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/scss/pkg"
)

func render(t *testing.T, v Value, opts Options) string {
	t.Helper()

	s, err := v.Render(opts)
	require.NoError(t, err)

	return s
}

func mustHex(t *testing.T, text string) Color {
	t.Helper()

	c, err := ParseHex(text)
	require.NoError(t, err)

	return c
}

func TestBinaryNumbers(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
		want string
	}{
		{"convert to left unit", OpAdd, NewNumber(1, "in"), NewNumber(8, "pt"), "1.111in"},
		{"divide by unitless", OpDiv, NewNumber(1000, "px"), NewNumber(2, ""), "500px"},
		{"unitless takes unit", OpAdd, NewNumber(2, ""), NewNumber(3, "em"), "5em"},
		{"cancel units", OpDiv, NewNumber(10, "px"), NewNumber(2, "px"), "5"},
		{"modulo takes divisor sign", OpMod, NewNumber(-1, ""), NewNumber(3, ""), "2"},
		{"zero adopts other unit", OpAdd, NewNumber(0, "px"), NewNumber(2, "s"), "2s"},
		{"multiply", OpMul, NewNumber(3, "px"), NewNumber(1.5, ""), "4.5px"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Binary(tt.op, tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(t, got, DefaultOptions))
		})
	}
}

func TestBinaryErrors(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
		want error
	}{
		{"incompatible units", OpAdd, NewNumber(1, "px"), NewNumber(1, "s"), pkg.ErrDimension},
		{"ordering incompatible units", OpLt, NewNumber(1, "px"), NewNumber(1, "s"), pkg.ErrDimension},
		{"division by zero", OpDiv, NewNumber(1, ""), NewNumber(0, ""), pkg.ErrValue},
		{"null ordering", OpLt, Null{}, NewNumber(1, ""), pkg.ErrType},
		{"null addition", OpAdd, Null{}, NewNumber(1, ""), pkg.ErrType},
		{"boolean multiply", OpMul, True, NewNumber(2, ""), pkg.ErrType},
		{"list lengths differ", OpAdd,
			NewList(false, NewNumber(1, ""), NewNumber(2, "")),
			NewList(false, NewNumber(1, "")), pkg.ErrType},
		{"color alpha mismatch", OpAdd, RGBA(1, 1, 1, 0.5), RGBA(1, 1, 1, 1), pkg.ErrValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Binary(tt.op, tt.a, tt.b)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBinaryComparison(t *testing.T) {
	t.Run("equal across units", func(t *testing.T) {
		got, err := Binary(OpEq, NewNumber(1, "in"), NewNumber(96, "px"))
		require.NoError(t, err)
		assert.Equal(t, True, got)
	})

	t.Run("unequal units are not an error", func(t *testing.T) {
		got, err := Binary(OpEq, NewNumber(1, "px"), NewNumber(1, "s"))
		require.NoError(t, err)
		assert.Equal(t, False, got)
	})

	t.Run("strings compare by text", func(t *testing.T) {
		got, err := Binary(OpEq, Quoted("a"), Bare("a"))
		require.NoError(t, err)
		assert.Equal(t, True, got)
	})

	t.Run("ordering", func(t *testing.T) {
		got, err := Binary(OpGe, NewNumber(2, "cm"), NewNumber(20, "mm"))
		require.NoError(t, err)
		assert.Equal(t, True, got)
	})
}

func TestBinaryColors(t *testing.T) {
	got, err := Binary(OpAdd, mustHex(t, "#010203"), mustHex(t, "#040506"))
	require.NoError(t, err)
	assert.Equal(t, "#050709", render(t, got, DefaultOptions))

	got, err = Binary(OpMul, NewNumber(2, ""), mustHex(t, "#010203"))
	require.NoError(t, err)
	assert.Equal(t, "#020406", render(t, got, DefaultOptions))

	got, err = Binary(OpSub, mustHex(t, "#ffffff"), NewNumber(300, ""))
	require.NoError(t, err)
	assert.Equal(t, "black", render(t, got, DefaultOptions))
}

func TestBinaryStrings(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
		want String
	}{
		{"quoted wins", OpAdd, Quoted("a"), Bare("b"), Quoted("ab")},
		{"bare concat", OpAdd, Bare("a"), Bare("b"), Bare("ab")},
		{"number promoted", OpAdd, Bare("a"), NewNumber(1, "px"), Bare("a1px")},
		{"textual subtraction", OpSub, Bare("a"), Bare("b"), Bare("a-b")},
		{"textual division", OpDiv, Bare("a"), NewNumber(2, ""), Bare("a/2")},
		{"repeat", OpMul, Bare("ab"), NewNumber(3, ""), Bare("ababab")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Binary(tt.op, tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBinaryLists(t *testing.T) {
	l := NewList(false, NewNumber(1, "px"), NewNumber(2, "px"))

	got, err := Binary(OpAdd, l, NewNumber(1, ""))
	require.NoError(t, err)
	assert.Equal(t, "2px 3px", render(t, got, DefaultOptions))

	got, err = Binary(OpMul, l, l)
	require.NoError(t, err)
	assert.Len(t, Items(got), 2)
}

func TestBinaryUndefined(t *testing.T) {
	for _, op := range []Op{OpAdd, OpLt, OpEq} {
		got, err := Binary(op, Undefined{}, NewNumber(1, ""))
		require.NoError(t, err)
		assert.Equal(t, KindUndefined, got.Kind())
	}
}

func TestUnary(t *testing.T) {
	v, err := Neg(NewNumber(2, "px"))
	require.NoError(t, err)
	assert.Equal(t, "-2px", render(t, v, DefaultOptions))

	v, err = Neg(Bare("foo"))
	require.NoError(t, err)
	assert.Equal(t, Bare("-foo"), v)

	_, err = Neg(True)
	assert.ErrorIs(t, err, pkg.ErrType)

	assert.Equal(t, True, Not(Null{}))
	assert.Equal(t, False, Not(NewNumber(0, "")))
}

func TestNumberRender(t *testing.T) {
	tests := []struct {
		name string
		n    Number
		opts Options
		want string
	}{
		{"trailing zeros", NewNumber(1.5, "px"), DefaultOptions, "1.5px"},
		{"precision", NewNumber(1.0/3, ""), DefaultOptions, "0.333"},
		{"custom precision", NewNumber(1.0/3, ""), Options{Precision: 5}, "0.33333"},
		{"negative zero", NewNumber(-0.0001, ""), DefaultOptions, "0"},
		{"compressed leading zero", NewNumber(0.5, "em"), Options{Precision: 3, Compress: true}, ".5em"},
		{"compressed negative", NewNumber(-0.5, ""), Options{Precision: 3, Compress: true}, "-.5"},
		{"compressed zero length", NewNumber(0, "px"), Options{Precision: 3, Compress: true}, "0"},
		{"zero time keeps unit", NewNumber(0, "s"), Options{Precision: 3, Compress: true}, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.n, tt.opts))
		})
	}

	t.Run("compound unit", func(t *testing.T) {
		sq := NewNumber(2, "px").Mul(NewNumber(3, "px"))
		assert.Equal(t, "px*px", sq.Unit())

		_, err := sq.Render(DefaultOptions)
		assert.ErrorIs(t, err, pkg.ErrValue)
	})
}

func TestNumberConvert(t *testing.T) {
	turn, err := NewNumber(2*math.Pi, "rad").ConvertTo(NewNumber(0, "turn"))
	require.NoError(t, err)
	assert.InDelta(t, 1, turn.Amount, 1e-9)

	deg, err := NewNumber(0.5, "turn").ConvertTo(NewNumber(0, "deg"))
	require.NoError(t, err)
	assert.InDelta(t, 180, deg.Amount, 1e-9)

	_, err = NewNumber(1, "px").ConvertTo(NewNumber(0, "hz"))
	assert.ErrorIs(t, err, pkg.ErrDimension)
}

func TestColorRender(t *testing.T) {
	compress := Options{Precision: 3, Compress: true}

	white, ok := Named("white")
	require.True(t, ok)
	assert.Equal(t, "white", render(t, white, DefaultOptions))
	assert.Equal(t, "#fff", render(t, white, compress))

	assert.Equal(t, "#ABCDEF", render(t, mustHex(t, "#ABCDEF"), DefaultOptions))
	assert.Equal(t, "#abcdef", render(t, mustHex(t, "#ABCDEF"), compress))
	assert.Equal(t, "red", render(t, mustHex(t, "#ff0000"), compress))
	assert.Equal(t, "red", render(t, RGBA(255, 0, 0, 1), DefaultOptions))
	assert.Equal(t, "rgba(255, 0, 0, 0.5)", render(t, RGBA(255, 0, 0, 0.5), DefaultOptions))
	assert.Equal(t, "rgba(255,0,0,0.5)", render(t, RGBA(255, 0, 0, 0.5), compress))

	_, err := ParseHex("#12")
	assert.ErrorIs(t, err, pkg.ErrValue)
}

func TestColorHSL(t *testing.T) {
	c := HSLA(120, 1, 0.5, 1)
	assert.Equal(t, "lime", render(t, c, DefaultOptions))

	h, s, l := c.HSL()
	assert.InDelta(t, 120, h, 1e-9)
	assert.InDelta(t, 1, s, 1e-9)
	assert.InDelta(t, 0.5, l, 1e-9)
}

func TestStringRender(t *testing.T) {
	assert.Equal(t, `"a b"`, render(t, Quoted("a b"), DefaultOptions))
	assert.Equal(t, `'say "hi"'`, render(t, Quoted(`say "hi"`), DefaultOptions))
	assert.Equal(t, `"it's \"x\""`, render(t, Quoted(`it's "x"`), DefaultOptions))
	assert.Equal(t, "a b", render(t, Bare("a b"), DefaultOptions))
}

func TestListRender(t *testing.T) {
	l := NewList(true, NewNumber(1, "px"), Null{}, Bare("solid"))
	assert.Equal(t, "1px, solid", render(t, l, DefaultOptions))
	assert.Equal(t, "1px,solid", render(t, l, Options{Precision: 3, Compress: true}))

	_, err := NewList(false).Render(DefaultOptions)
	assert.ErrorIs(t, err, pkg.ErrValue)

	assert.Equal(t, "a b", Text(NewList(false, Quoted("a"), Bare("b"))))
}

func TestMap(t *testing.T) {
	a := NewMap(
		Pair{Bare("k"), NewNumber(1, "")},
		Pair{Bare("j"), NewNumber(2, "")},
	)
	b := NewMap(
		Pair{Quoted("k"), NewNumber(9, "")},
		Pair{Bare("x"), NewNumber(3, "")},
	)

	m := a.Merge(b)
	require.Len(t, m.Pairs, 3)

	v, ok := m.Get(Bare("k"))
	require.True(t, ok)
	assert.True(t, Equal(NewNumber(1, ""), v))

	_, ok = m.Get(Bare("missing"))
	assert.False(t, ok)

	_, err := m.Render(DefaultOptions)
	assert.ErrorIs(t, err, pkg.ErrValue)

	assert.Len(t, Items(m), 3)
}

func TestEqualSingleItemList(t *testing.T) {
	assert.True(t, Equal(NewList(false, NewNumber(1, "")), NewNumber(1, "")))
	assert.False(t, Equal(NewList(false), Null{}))
}

func TestTruthy(t *testing.T) {
	assert.False(t, Null{}.Truthy())
	assert.False(t, False.Truthy())
	assert.True(t, NewNumber(0, "").Truthy())
	assert.True(t, Bare("").Truthy())
	assert.True(t, NewList(false).Truthy())
}
