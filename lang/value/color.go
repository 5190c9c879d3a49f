package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/scss/pkg"
)

// Color is an RGBA color. Channels R, G and B range over [0,255] and A over
// [0,1]. A color parsed from source text remembers that text and renders it
// back unchanged unless output is compressed.
type Color struct {
	literal    string
	R, G, B, A float64
}

// colorKey is the 8-bit channel tuple used for name lookup.
type colorKey [4]float64

// colorNames maps channel tuples back to the first keyword naming them.
var colorNames = func() map[colorKey]string {
	m := make(map[colorKey]string, len(namedColors))

	for name, rgba := range namedColors {
		k := colorKey(rgba)
		if prev, ok := m[k]; !ok || name < prev {
			m[k] = name
		}
	}

	return m
}()

// RGBA returns a color with clamped channels.
func RGBA(r, g, b, a float64) Color {
	return Color{
		R: clamp(r, 0, 255),
		G: clamp(g, 0, 255),
		B: clamp(b, 0, 255),
		A: clamp(a, 0, 1),
	}
}

// HSLA returns the color for hue h in degrees and saturation s and
// lightness l as fractions in [0,1].
func HSLA(h, s, l, a float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	h /= 360
	s = clamp(s, 0, 1)
	l = clamp(l, 0, 1)

	var m2 float64
	if l <= 0.5 {
		m2 = l * (s + 1)
	} else {
		m2 = l + s - l*s
	}

	m1 := l*2 - m2

	return RGBA(
		hueToRGB(m1, m2, h+1.0/3)*255,
		hueToRGB(m1, m2, h)*255,
		hueToRGB(m1, m2, h-1.0/3)*255,
		a,
	)
}

func hueToRGB(m1, m2, h float64) float64 {
	switch {
	case h < 0:
		h++
	case h > 1:
		h--
	}

	switch {
	case h*6 < 1:
		return m1 + (m2-m1)*h*6
	case h*2 < 1:
		return m2
	case h*3 < 2:
		return m1 + (m2-m1)*(2.0/3-h)*6
	default:
		return m1
	}
}

// HSL returns the hue in degrees and saturation and lightness as fractions.
func (c Color) HSL() (h, s, l float64) {
	r, g, b := c.R/255, c.G/255, c.B/255
	hi := max(r, g, b)
	lo := min(r, g, b)
	l = (hi + lo) / 2

	if hi == lo {
		return 0, 0, l
	}

	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}

	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}

	return h * 60, s, l
}

// ParseHex parses #rgb, #rgba, #rrggbb or #rrggbbaa.
func ParseHex(text string) (Color, error) {
	hex := strings.TrimPrefix(text, "#")

	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}

		hex = b.String()
	case 6, 8:
	default:
		return Color{}, pkg.ErrValue.Errorf("invalid color %q", text)
	}

	ch := make([]float64, 4)
	ch[3] = 255

	for i := 0; i < len(hex)/2; i++ {
		n, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, pkg.ErrValue.Errorf("invalid color %q", text)
		}

		ch[i] = float64(n)
	}

	c := RGBA(ch[0], ch[1], ch[2], ch[3]/255)
	c.literal = text

	return c, nil
}

// Named returns the color for a CSS color keyword.
func Named(name string) (Color, bool) {
	rgba, ok := namedColors[strings.ToLower(name)]
	if !ok {
		return Color{}, false
	}

	c := RGBA(rgba[0], rgba[1], rgba[2], rgba[3])
	c.literal = name

	return c, true
}

// IsColorName reports whether name is a CSS color keyword.
func IsColorName(name string) bool {
	_, ok := namedColors[strings.ToLower(name)]

	return ok
}

func (c Color) Kind() Kind { return KindColor }

func (c Color) Truthy() bool { return true }

// Equal compares the 8-bit channels and alpha.
func (c Color) Equal(o Color) bool {
	return c.key() == o.key()
}

func (c Color) key() colorKey {
	return colorKey{
		math.Round(c.R), math.Round(c.G), math.Round(c.B),
		round(c.A, equalityPrecision),
	}
}

// Render returns the original literal when unmodified and not compressing.
// Otherwise candidates are, in order of preference, the color keyword, the
// short hex form, the hex form and rgba(); compression picks the shortest.
func (c Color) Render(opts Options) (string, error) {
	if !opts.Compress && c.literal != "" {
		return c.literal, nil
	}

	k := c.key()
	r, g, b := int(k[0]), int(k[1]), int(k[2])

	var candidates []string

	if name, ok := colorNames[k]; ok {
		candidates = append(candidates, name)
	}

	if k[3] == 1 {
		if r%17 == 0 && g%17 == 0 && b%17 == 0 {
			candidates = append(candidates, fmt.Sprintf("#%x%x%x", r/17, g/17, b/17))
		} else {
			candidates = append(candidates, fmt.Sprintf("#%02x%02x%02x", r, g, b))
		}
	} else {
		sp := " "
		if opts.Compress {
			sp = ""
		}

		alpha := strconv.FormatFloat(c.A, 'g', 2, 64)
		candidates = append(candidates,
			fmt.Sprintf("rgba(%d,%s%d,%s%d,%s%s)", r, sp, g, sp, b, sp, alpha))
	}

	if !opts.Compress {
		return candidates[0], nil
	}

	best := candidates[0]
	for _, s := range candidates[1:] {
		if len(s) < len(best) {
			best = s
		}
	}

	return best, nil
}

// channels applies fn to each color channel, keeping alpha.
func (c Color) channels(fn func(ch float64) (float64, error)) (Color, error) {
	var out [3]float64

	for i, ch := range [3]float64{c.R, c.G, c.B} {
		v, err := fn(ch)
		if err != nil {
			return Color{}, err
		}

		out[i] = v
	}

	return RGBA(out[0], out[1], out[2], c.A), nil
}

// zip applies fn channel-wise to c and o. Their alphas must match.
func (c Color) zip(o Color, fn func(a, b float64) (float64, error)) (Color, error) {
	if round(c.A, equalityPrecision) != round(o.A, equalityPrecision) {
		return Color{}, pkg.ErrValue.Errorf("alpha channels must be equal")
	}

	var out [3]float64

	a := [3]float64{c.R, c.G, c.B}
	b := [3]float64{o.R, o.G, o.B}

	for i := range a {
		v, err := fn(a[i], b[i])
		if err != nil {
			return Color{}, err
		}

		out[i] = v
	}

	return RGBA(out[0], out[1], out[2], c.A), nil
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
