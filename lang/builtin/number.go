package builtin

import (
	"math"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

func registerNumber(r *Registry) {
	r.Register("percentage", func(args expr.Args) (value.Value, error) {
		n, err := number(args, 0, "value")
		if err != nil {
			return nil, err
		}

		if !n.Unitless() {
			return nil, pkg.ErrValue.Errorf("percentage() expects a unitless number, got %s", n.Unit())
		}

		return value.NewNumber(n.Amount*100, "%"), nil
	}, 1)

	for name, fn := range map[string]func(float64) float64{
		"round": math.Round,
		"ceil":  math.Ceil,
		"floor": math.Floor,
		"abs":   math.Abs,
	} {
		r.Register(name, func(args expr.Args) (value.Value, error) {
			n, err := number(args, 0, "value")
			if err != nil {
				return nil, err
			}

			n.Amount = fn(n.Amount)

			return n, nil
		}, 1)
	}

	r.Register("min", extremum("min", value.OpLt))
	r.Register("max", extremum("max", value.OpGt))

	r.Register("unit", func(args expr.Args) (value.Value, error) {
		n, err := number(args, 0, "number")
		if err != nil {
			return nil, err
		}

		return value.Quoted(n.Unit()), nil
	}, 1)

	r.Register("unitless", func(args expr.Args) (value.Value, error) {
		n, err := number(args, 0, "number")
		if err != nil {
			return nil, err
		}

		return value.Boolean(n.Unitless()), nil
	}, 1)

	r.Register("comparable", func(args expr.Args) (value.Value, error) {
		n, err := numbers(args, "number1", "number2")
		if err != nil {
			return nil, err
		}

		ok := n[0].Unitless() || n[1].Unitless() || n[0].CompatibleWith(n[1])

		return value.Boolean(ok), nil
	}, 2)
}

// extremum picks the argument that wins op against every other. Arguments
// that are not mutually comparable numbers leave the call to CSS, which has
// its own min() and max().
func extremum(name string, op value.Op) Func {
	return func(args expr.Args) (value.Value, error) {
		items := args.Positional
		if len(items) == 1 {
			items = value.Items(items[0])
		}

		if len(items) == 0 {
			return nil, pkg.ErrValue.Errorf("%s() expects at least one argument", name)
		}

		best := items[0]

		for _, v := range items {
			if v.Kind() != value.KindNumber {
				return CSS(name, args, value.DefaultOptions)
			}

			wins, err := value.Binary(op, v, best)
			if err != nil {
				return CSS(name, args, value.DefaultOptions)
			}

			if wins.Truthy() {
				best = v
			}
		}

		return best, nil
	}
}
