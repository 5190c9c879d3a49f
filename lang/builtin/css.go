package builtin

import (
	"strings"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

// cssFunctions are functions CSS itself defines. Calls to them pass
// through to the output without a diagnostic.
var cssFunctions = func() map[string]bool {
	names := []string{
		"attr", "counter", "counters", "url", "rgb", "rect", "calc", "min", "max",
		"cycle", "rgba", "hsl", "hsla", "local", "format", "image", "element",
		"linear-gradient", "radial-gradient", "repeating-linear-gradient",
		"repeating-radial-gradient", "conic-gradient", "repeating-conic-gradient",
		"perspective", "matrix", "matrix3d",
		"rotate", "rotateX", "rotateY", "rotateZ", "rotate3d",
		"translate", "translateX", "translateY", "translateZ", "translate3d",
		"scale", "scaleX", "scaleY", "scaleZ", "scale3d",
		"skew", "skewX", "skewY", "cubic-bezier", "steps",
		"grayscale", "sepia", "saturate", "hue-rotate", "invert", "opacity",
		"brightness", "contrast", "blur", "drop-shadow", "custom",
		"image-set", "cross-fade", "color-stop", "mask", "from", "to",
	}

	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}

	return m
}()

// IsCSSFunction reports whether name is a function CSS defines, or a vendor
// extension such as -webkit-gradient.
func IsCSSFunction(name string) bool {
	name = strings.ReplaceAll(name, "_", "-")

	return cssFunctions[name] || isVendorName(name)
}

func isVendorName(name string) bool {
	return len(name) > 1 && name[0] == '-' && strings.IndexByte(name[1:], '-') > 0
}

// CSS renders a call to name as plain CSS text. Keyword arguments have no
// CSS meaning and are an error.
func CSS(name string, args expr.Args, opts value.Options) (value.Value, error) {
	if len(args.Named) > 0 {
		return nil, pkg.ErrValue.Errorf("%s() does not take keyword arguments", name)
	}

	parts := make([]string, 0, len(args.Positional))

	for _, a := range args.Positional {
		s, err := a.Render(opts)
		if err != nil {
			return nil, err
		}

		parts = append(parts, s)
	}

	sep := ", "
	if opts.Compress {
		sep = ","
	}

	return value.Bare(name + "(" + strings.Join(parts, sep) + ")"), nil
}
