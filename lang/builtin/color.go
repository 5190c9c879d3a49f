package builtin

import (
	"fmt"
	"math"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
)

// fraction interprets n as a fraction of one: percentages are divided by
// 100 and unitless numbers by scale. The result is clamped to [0,1].
func fraction(n value.Number, scale float64) float64 {
	f := n.Amount / scale
	if n.Unit() == "%" {
		f = n.Amount / 100
	}

	return math.Max(0, math.Min(1, f))
}

// amount interprets the adjustment argument of lighten() and friends, where
// 10 and 10% both mean a tenth.
func amount(n value.Number) float64 { return n.Amount / 100 }

func numbers(args expr.Args, names ...string) ([]value.Number, error) {
	out := make([]value.Number, len(names))

	for i, name := range names {
		n, err := number(args, i, name)
		if err != nil {
			return nil, err
		}

		out[i] = n
	}

	return out, nil
}

func registerColor(r *Registry) {
	r.Register("rgb", func(args expr.Args) (value.Value, error) {
		n, err := numbers(args, "red", "green", "blue")
		if err != nil {
			return nil, err
		}

		return value.RGBA(fraction(n[0], 255)*255, fraction(n[1], 255)*255, fraction(n[2], 255)*255, 1), nil
	}, 3)

	r.Register("rgba", func(args expr.Args) (value.Value, error) {
		n, err := numbers(args, "red", "green", "blue", "alpha")
		if err != nil {
			return nil, err
		}

		return value.RGBA(fraction(n[0], 255)*255, fraction(n[1], 255)*255, fraction(n[2], 255)*255, fraction(n[3], 1)), nil
	}, 4)

	r.Register("rgba", func(args expr.Args) (value.Value, error) {
		c, err := color(args, 0, "color")
		if err != nil {
			return nil, err
		}

		a, err := number(args, 1, "alpha")
		if err != nil {
			return nil, err
		}

		return value.RGBA(c.R, c.G, c.B, fraction(a, 1)), nil
	}, 2)

	r.Register("hsl", func(args expr.Args) (value.Value, error) {
		n, err := numbers(args, "hue", "saturation", "lightness")
		if err != nil {
			return nil, err
		}

		return value.HSLA(n[0].Amount, fraction(n[1], 100), fraction(n[2], 100), 1), nil
	}, 3)

	r.Register("hsla", func(args expr.Args) (value.Value, error) {
		n, err := numbers(args, "hue", "saturation", "lightness", "alpha")
		if err != nil {
			return nil, err
		}

		return value.HSLA(n[0].Amount, fraction(n[1], 100), fraction(n[2], 100), fraction(n[3], 1)), nil
	}, 4)

	r.Register("mix", mix, 2, 3)

	channel := func(name string, fn func(c value.Color) value.Number) {
		r.Register(name, func(args expr.Args) (value.Value, error) {
			c, err := color(args, 0, "color")
			if err != nil {
				return nil, err
			}

			return fn(c), nil
		}, 1)
	}

	channel("red", func(c value.Color) value.Number { return value.NewNumber(math.Round(c.R), "") })
	channel("green", func(c value.Color) value.Number { return value.NewNumber(math.Round(c.G), "") })
	channel("blue", func(c value.Color) value.Number { return value.NewNumber(math.Round(c.B), "") })
	channel("alpha", func(c value.Color) value.Number { return value.NewNumber(c.A, "") })
	channel("hue", func(c value.Color) value.Number {
		h, _, _ := c.HSL()

		return value.NewNumber(h, "deg")
	})
	channel("saturation", func(c value.Color) value.Number {
		_, s, _ := c.HSL()

		return value.NewNumber(s*100, "%")
	})
	channel("lightness", func(c value.Color) value.Number {
		_, _, l := c.HSL()

		return value.NewNumber(l*100, "%")
	})

	// opacity(), grayscale() and invert() are also CSS filter functions,
	// which take a number.
	filter := func(name string, fn func(c value.Color) value.Value) {
		r.Register(name, func(args expr.Args) (value.Value, error) {
			v, err := required(args, 0, "color")
			if err != nil {
				return nil, err
			}

			c, ok := v.(value.Color)
			if !ok {
				return CSS(name, args, value.DefaultOptions)
			}

			return fn(c), nil
		}, 1)
	}

	filter("opacity", func(c value.Color) value.Value { return value.NewNumber(c.A, "") })
	filter("grayscale", func(c value.Color) value.Value { return adjustHSL(c, 0, -1, 0) })
	filter("greyscale", func(c value.Color) value.Value { return adjustHSL(c, 0, -1, 0) })
	filter("invert", func(c value.Color) value.Value { return value.RGBA(255-c.R, 255-c.G, 255-c.B, c.A) })

	r.Register("complement", func(args expr.Args) (value.Value, error) {
		c, err := color(args, 0, "color")
		if err != nil {
			return nil, err
		}

		return adjustHSL(c, 180, 0, 0), nil
	}, 1)

	r.Register("ie-hex-str", func(args expr.Args) (value.Value, error) {
		c, err := color(args, 0, "color")
		if err != nil {
			return nil, err
		}

		hex := fmt.Sprintf("#%02X%02X%02X%02X",
			int(math.Round(c.A*255)), int(math.Round(c.R)), int(math.Round(c.G)), int(math.Round(c.B)))

		return value.Bare(hex), nil
	}, 1)

	adjust := func(fn func(c value.Color, by value.Number) value.Color, names ...string) {
		for _, name := range names {
			r.Register(name, func(args expr.Args) (value.Value, error) {
				c, err := color(args, 0, "color")
				if err != nil {
					return nil, err
				}

				n, err := number(args, 1, "amount")
				if err != nil {
					return nil, err
				}

				return fn(c, n), nil
			}, 2)
		}
	}

	adjust(func(c value.Color, by value.Number) value.Color { return adjustHSL(c, 0, 0, amount(by)) }, "lighten")
	adjust(func(c value.Color, by value.Number) value.Color { return adjustHSL(c, 0, 0, -amount(by)) }, "darken")
	adjust(func(c value.Color, by value.Number) value.Color { return adjustHSL(c, 0, amount(by), 0) }, "saturate")
	adjust(func(c value.Color, by value.Number) value.Color { return adjustHSL(c, 0, -amount(by), 0) }, "desaturate")
	adjust(func(c value.Color, by value.Number) value.Color {
		return value.RGBA(c.R, c.G, c.B, c.A+fraction(by, 1))
	}, "opacify", "fade-in", "fadein")
	adjust(func(c value.Color, by value.Number) value.Color {
		return value.RGBA(c.R, c.G, c.B, c.A-fraction(by, 1))
	}, "transparentize", "fade-out", "fadeout")
	adjust(func(c value.Color, by value.Number) value.Color { return adjustHSL(c, by.Amount, 0, 0) }, "adjust-hue", "spin")
}

// adjustHSL shifts the hue by dh degrees and saturation and lightness by the
// given fractions.
func adjustHSL(c value.Color, dh, ds, dl float64) value.Color {
	h, s, l := c.HSL()

	return value.HSLA(h+dh, s+ds, l+dl, c.A)
}

// mix blends two colors, weighting the first by $weight (default 50%) and
// accounting for the difference in their opacity.
func mix(args expr.Args) (value.Value, error) {
	c1, err := color(args, 0, "color1")
	if err != nil {
		return nil, err
	}

	c2, err := color(args, 1, "color2")
	if err != nil {
		return nil, err
	}

	p := 0.5

	if v, ok := arg(args, 2, "weight"); ok {
		w, ok := v.(value.Number)
		if !ok {
			return nil, expected("weight", "number", v)
		}

		p = fraction(w, 100)
	}

	w := 2*p - 1
	a := c1.A - c2.A

	w1 := w
	if w*a != -1 {
		w1 = (w + a) / (1 + w*a)
	}

	w1 = (w1 + 1) / 2
	w2 := 1 - w1

	return value.RGBA(
		c1.R*w1+c2.R*w2,
		c1.G*w1+c2.G*w2,
		c1.B*w1+c2.B*w2,
		c1.A*p+c2.A*(1-p),
	), nil
}
