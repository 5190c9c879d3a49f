package value

import (
	"math"
	"slices"
	"strings"
)

// conversion relates a unit to the base unit of its dimension.
type conversion struct {
	factor float64
	base   string
}

// baseUnits maps every convertible unit to its base unit. Units absent from
// the table form a dimension of their own.
var baseUnits = map[string]conversion{
	// Lengths
	"mm": {1, "mm"},
	"cm": {10, "mm"},
	"in": {25.4, "mm"},
	"px": {25.4 / 96, "mm"},
	"pt": {25.4 / 72, "mm"},
	"pc": {25.4 / 6, "mm"},

	// Angles
	"deg":  {1.0 / 360, "turn"},
	"grad": {1.0 / 400, "turn"},
	"rad":  {1 / (2 * math.Pi), "turn"},
	"turn": {1, "turn"},

	// Times
	"ms": {1, "ms"},
	"s":  {1000, "ms"},

	// Frequencies
	"hz":  {1, "hz"},
	"khz": {1000, "hz"},

	// Resolutions
	"dpi":  {1, "dpi"},
	"dpcm": {2.54, "dpi"},
	"dppx": {96, "dpi"},
}

// zeroableUnits may be dropped when the amount is zero and output is
// compressed.
var zeroableUnits = map[string]bool{
	"em": true, "ex": true, "ch": true, "rem": true,
	"vw": true, "vh": true, "vmin": true, "vmax": true,
	"cm": true, "mm": true, "in": true, "px": true, "pt": true, "pc": true,
}

func unitConversion(unit string) conversion {
	if c, ok := baseUnits[strings.ToLower(unit)]; ok {
		return c
	}

	return conversion{1, unit}
}

// toBase returns the factor converting a unit multiset to base units and the
// sorted base units.
func toBase(units []string) (float64, []string) {
	factor := 1.0
	base := make([]string, len(units))

	for i, u := range units {
		c := unitConversion(u)
		factor *= c.factor
		base[i] = c.base
	}

	slices.Sort(base)

	return factor, base
}

// unitFactor is the combined conversion factor of numer/denom to base units.
func unitFactor(numer, denom []string) float64 {
	n, _ := toBase(numer)
	d, _ := toBase(denom)

	return n / d
}

// compatible reports whether two unit signatures measure the same dimension.
func compatible(an, ad, bn, bd []string) bool {
	_, abn := toBase(an)
	_, abd := toBase(ad)
	_, bbn := toBase(bn)
	_, bbd := toBase(bd)

	return slices.Equal(abn, bbn) && slices.Equal(abd, bbd)
}

// cancelUnits removes units that appear on both sides of a fraction,
// converting between units of the same dimension. It returns the factor to
// apply to the amount and the remaining sorted units.
func cancelUnits(numer, denom []string) (float64, []string, []string) {
	factor := 1.0
	n := slices.Clone(numer)
	d := slices.Clone(denom)

	for i := 0; i < len(n); i++ {
		nc := unitConversion(n[i])

		j := slices.IndexFunc(d, func(u string) bool {
			return unitConversion(u).base == nc.base
		})
		if j < 0 {
			continue
		}

		factor *= nc.factor / unitConversion(d[j]).factor
		n = slices.Delete(n, i, i+1)
		d = slices.Delete(d, j, j+1)
		i--
	}

	slices.Sort(n)
	slices.Sort(d)

	return factor, n, d
}
