package builtin

import (
	"slices"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

func registerList(r *Registry) {
	r.Register("length", func(args expr.Args) (value.Value, error) {
		items := args.Positional
		if len(items) == 1 {
			items = value.Items(items[0])
		}

		return value.NewNumber(float64(len(items)), ""), nil
	})

	r.Register("nth", func(args expr.Args) (value.Value, error) {
		items, i, err := indexed(args)
		if err != nil {
			return nil, err
		}

		return items[i], nil
	}, 2)

	r.Register("set-nth", func(args expr.Args) (value.Value, error) {
		items, i, err := indexed(args)
		if err != nil {
			return nil, err
		}

		v, err := required(args, 2, "value")
		if err != nil {
			return nil, err
		}

		out := slices.Clone(items)
		out[i] = v

		return value.List{Items: out, Comma: isComma(args.Positional[0])}, nil
	}, 3)

	r.Register("join", func(args expr.Args) (value.Value, error) {
		a, err := required(args, 0, "list1")
		if err != nil {
			return nil, err
		}

		b, err := required(args, 1, "list2")
		if err != nil {
			return nil, err
		}

		comma, err := separator(args, 2, a)
		if err != nil {
			return nil, err
		}

		return value.List{Items: slices.Concat(value.Items(a), value.Items(b)), Comma: comma}, nil
	}, 2, 3)

	r.Register("append", func(args expr.Args) (value.Value, error) {
		a, err := required(args, 0, "list")
		if err != nil {
			return nil, err
		}

		v, err := required(args, 1, "val")
		if err != nil {
			return nil, err
		}

		comma, err := separator(args, 2, a)
		if err != nil {
			return nil, err
		}

		items := append(slices.Clone(value.Items(a)), v)

		return value.List{Items: items, Comma: comma}, nil
	}, 2, 3)

	r.Register("index", func(args expr.Args) (value.Value, error) {
		a, err := required(args, 0, "list")
		if err != nil {
			return nil, err
		}

		v, err := required(args, 1, "value")
		if err != nil {
			return nil, err
		}

		for i, item := range value.Items(a) {
			if value.Equal(item, v) {
				return value.NewNumber(float64(i+1), ""), nil
			}
		}

		return value.False, nil
	}, 2)

	r.Register("zip", func(args expr.Args) (value.Value, error) {
		lists := make([][]value.Value, len(args.Positional))
		n := -1

		for i, a := range args.Positional {
			lists[i] = value.Items(a)
			if n < 0 || len(lists[i]) < n {
				n = len(lists[i])
			}
		}

		out := make([]value.Value, 0, max(n, 0))

		for j := 0; j < n; j++ {
			row := make([]value.Value, len(lists))
			for i := range lists {
				row[i] = lists[i][j]
			}

			out = append(out, value.List{Items: row})
		}

		return value.List{Items: out, Comma: true}, nil
	})

	r.Register("list-separator", func(args expr.Args) (value.Value, error) {
		a, err := required(args, 0, "list")
		if err != nil {
			return nil, err
		}

		if isComma(a) {
			return value.Bare("comma"), nil
		}

		return value.Bare("space"), nil
	}, 1)
}

func isComma(v value.Value) bool {
	l, ok := v.(value.List)

	return ok && l.Comma
}

// indexed returns the items of the list argument and the 0-based position
// named by the index argument. Indices wrap around the list in both
// directions; "first" and "last" are accepted too.
func indexed(args expr.Args) ([]value.Value, int, error) {
	a, err := required(args, 0, "list")
	if err != nil {
		return nil, 0, err
	}

	items := value.Items(a)
	if len(items) == 0 {
		return nil, 0, pkg.ErrValue.Errorf("index out of bounds for empty list")
	}

	v, err := required(args, 1, "n")
	if err != nil {
		return nil, 0, err
	}

	switch n := v.(type) {
	case value.String:
		switch n.Text {
		case "first":
			return items, 0, nil
		case "last":
			return items, len(items) - 1, nil
		}
	case value.Number:
		if !n.Unitless() || !n.IsInteger() {
			break
		}

		i := n.Int()
		if i == 0 {
			return nil, 0, pkg.ErrValue.Errorf("list index 0 is invalid, indices start at 1")
		}

		if i > 0 {
			i--
		}

		i %= len(items)
		if i < 0 {
			i += len(items)
		}

		return items, i, nil
	}

	return nil, 0, pkg.ErrType.Errorf("invalid list index %s", value.Text(v))
}

// separator reads the optional $separator argument: comma, space or auto.
// Auto keeps the separator of the list, defaulting to comma for lists of
// fewer than two items.
func separator(args expr.Args, i int, list value.Value) (bool, error) {
	v, ok := arg(args, i, "separator")
	if !ok {
		v = value.Bare("auto")
	}

	switch value.Text(v) {
	case "comma":
		return true, nil
	case "space":
		return false, nil
	case "auto":
		if len(value.Items(list)) < 2 {
			return true, nil
		}

		return isComma(list), nil
	default:
		return false, pkg.ErrValue.Errorf("separator must be auto, comma or space")
	}
}
