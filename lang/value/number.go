package value

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/scss/pkg"
)

// equalityPrecision is the number of decimals compared by equality and
// ordering, finer than any rendering precision.
const equalityPrecision = 8

// Number is an amount with a unit signature. Numer and Denom are sorted unit
// multisets: 3px*px/s has Numer {px, px} and Denom {s}.
type Number struct {
	Numer  []string
	Denom  []string
	Amount float64
}

// NewNumber returns a number with at most one unit. An empty unit yields a
// unitless number.
func NewNumber(amount float64, unit string) Number {
	if unit == "" {
		return Number{Amount: amount}
	}

	return Number{Amount: amount, Numer: []string{unit}}
}

// NewCompound returns a number with the given unit multisets, cancelling
// convertible units that appear in both.
func NewCompound(amount float64, numer, denom []string) Number {
	factor, n, d := cancelUnits(numer, denom)

	return Number{Amount: amount * factor, Numer: n, Denom: d}
}

func (n Number) Kind() Kind { return KindNumber }

// Truthy is always true; only false and null are falsy.
func (n Number) Truthy() bool { return true }

// Unitless reports whether n has no units.
func (n Number) Unitless() bool { return len(n.Numer) == 0 && len(n.Denom) == 0 }

// IsInteger reports whether the amount has no fractional part.
func (n Number) IsInteger() bool {
	return round(n.Amount, equalityPrecision) == math.Trunc(n.Amount)
}

// Int returns the amount truncated to an integer.
func (n Number) Int() int { return int(math.Round(round(n.Amount, equalityPrecision))) }

// Unit returns the unit signature, e.g. "px", "px*px/s" or "".
func (n Number) Unit() string {
	s := strings.Join(n.Numer, "*")
	if len(n.Denom) > 0 {
		s += "/" + strings.Join(n.Denom, "*")
	}

	return s
}

// WithUnit returns a number with the same amount and a single unit.
func (n Number) WithUnit(unit string) Number { return NewNumber(n.Amount, unit) }

// CompatibleWith reports whether n and o measure the same dimension.
func (n Number) CompatibleWith(o Number) bool {
	return compatible(n.Numer, n.Denom, o.Numer, o.Denom)
}

// ConvertTo expresses n in the units of o.
func (n Number) ConvertTo(o Number) (Number, error) {
	if !n.CompatibleWith(o) {
		return Number{}, pkg.ErrDimension.Errorf("cannot convert %s to %s", n.Unit(), o.Unit())
	}

	amount := n.Amount * unitFactor(n.Numer, n.Denom) / unitFactor(o.Numer, o.Denom)

	return Number{Amount: amount, Numer: o.Numer, Denom: o.Denom}, nil
}

// Neg returns -n.
func (n Number) Neg() Number {
	return Number{Amount: -n.Amount, Numer: n.Numer, Denom: n.Denom}
}

// Equal reports whether n and o have equal amounts in reconcilable units.
func (n Number) Equal(o Number) bool {
	c, err := n.compare(o)

	return err == nil && c == 0
}

// compare orders n and o. Unitless or zero operands skip conversion.
func (n Number) compare(o Number) (int, error) {
	a, b := n.Amount, o.Amount

	if !n.Unitless() && !o.Unitless() && a != 0 && b != 0 {
		conv, err := o.ConvertTo(n)
		if err != nil {
			return 0, err
		}

		b = conv.Amount
	}

	a, b = round(a, equalityPrecision), round(b, equalityPrecision)

	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	default:
		return 0, nil
	}
}

// additive implements + - and % between numbers. A unitless or zero operand
// takes the other's unit; otherwise the result keeps the left unit.
func (n Number) additive(o Number, fn func(a, b float64) float64) (Number, error) {
	switch {
	case o.Unitless():
		return Number{Amount: fn(n.Amount, o.Amount), Numer: n.Numer, Denom: n.Denom}, nil
	case n.Unitless():
		return Number{Amount: fn(n.Amount, o.Amount), Numer: o.Numer, Denom: o.Denom}, nil
	case n.Amount == 0 && !n.CompatibleWith(o):
		return Number{Amount: fn(0, o.Amount), Numer: o.Numer, Denom: o.Denom}, nil
	case o.Amount == 0 && !n.CompatibleWith(o):
		return Number{Amount: n.Amount, Numer: n.Numer, Denom: n.Denom}, nil
	}

	conv, err := o.ConvertTo(n)
	if err != nil {
		return Number{}, err
	}

	return Number{Amount: fn(n.Amount, conv.Amount), Numer: n.Numer, Denom: n.Denom}, nil
}

// Add returns n + o.
func (n Number) Add(o Number) (Number, error) {
	return n.additive(o, func(a, b float64) float64 { return a + b })
}

// Sub returns n - o.
func (n Number) Sub(o Number) (Number, error) {
	return n.additive(o, func(a, b float64) float64 { return a - b })
}

// Mod returns n modulo o with the sign of o, as CSS tooling expects.
func (n Number) Mod(o Number) (Number, error) {
	if o.Amount == 0 {
		return Number{}, pkg.ErrValue.Errorf("modulo by zero")
	}

	return n.additive(o, func(a, b float64) float64 {
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}

		return m
	})
}

// Mul returns n * o, combining unit multisets.
func (n Number) Mul(o Number) Number {
	numer := slices.Concat(n.Numer, o.Numer)
	denom := slices.Concat(n.Denom, o.Denom)

	return NewCompound(n.Amount*o.Amount, numer, denom)
}

// Div returns n / o, combining unit multisets.
func (n Number) Div(o Number) (Number, error) {
	if o.Amount == 0 {
		return Number{}, pkg.ErrValue.Errorf("division by zero")
	}

	numer := slices.Concat(n.Numer, o.Denom)
	denom := slices.Concat(n.Denom, o.Numer)

	return NewCompound(n.Amount/o.Amount, numer, denom), nil
}

// Render formats n with opts.Precision decimals, trailing zeros removed.
// Compound units cannot be expressed in CSS and are an error.
func (n Number) Render(opts Options) (string, error) {
	if len(n.Numer) > 1 || len(n.Denom) > 0 {
		return "", pkg.ErrValue.Errorf("%s is not a valid CSS value", n.debug())
	}

	unit := ""
	if len(n.Numer) == 1 {
		unit = n.Numer[0]
	}

	s := formatAmount(n.Amount, opts.Precision)

	if opts.Compress {
		if s == "0" && zeroableUnits[strings.ToLower(unit)] {
			return "0", nil
		}

		switch {
		case strings.HasPrefix(s, "0."):
			s = s[1:]
		case strings.HasPrefix(s, "-0."):
			s = "-" + s[2:]
		}
	}

	return s + unit, nil
}

// debug renders n including compound units, for diagnostics only.
func (n Number) debug() string {
	return formatAmount(n.Amount, DefaultPrecision) + n.Unit()
}

func formatAmount(amount float64, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}

	s := strconv.FormatFloat(round(amount, precision), 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}

	if s == "-0" {
		s = "0"
	}

	return s
}

func round(x float64, places int) float64 {
	p := math.Pow10(places)

	return math.Round(x*p) / p
}
