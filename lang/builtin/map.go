package builtin

import (
	"slices"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
)

// asMap accepts a map or the empty list, which doubles as the empty map.
func asMap(args expr.Args, i int, name string) (value.Map, error) {
	v, err := required(args, i, name)
	if err != nil {
		return value.Map{}, err
	}

	switch m := v.(type) {
	case value.Map:
		return m, nil
	case value.List:
		if len(m.Items) == 0 {
			return value.Map{}, nil
		}
	}

	return value.Map{}, expected(name, "map", v)
}

func registerMap(r *Registry) {
	r.Register("map-get", func(args expr.Args) (value.Value, error) {
		m, err := asMap(args, 0, "map")
		if err != nil {
			return nil, err
		}

		k, err := required(args, 1, "key")
		if err != nil {
			return nil, err
		}

		if v, ok := m.Get(k); ok {
			return v, nil
		}

		if d, ok := arg(args, 2, "default"); ok {
			return d, nil
		}

		return value.Null{}, nil
	}, 2, 3)

	r.Register("map-merge", func(args expr.Args) (value.Value, error) {
		out := value.Map{}

		for i := len(args.Positional) - 1; i >= 0; i-- {
			m, err := asMap(args, i, "map")
			if err != nil {
				return nil, err
			}

			// later maps win, so merge them first
			out = out.Merge(m)
		}

		return reorder(out, args), nil
	})

	r.Register("map-keys", func(args expr.Args) (value.Value, error) {
		m, err := asMap(args, 0, "map")
		if err != nil {
			return nil, err
		}

		return value.List{Items: m.Keys(), Comma: true}, nil
	}, 1)

	r.Register("map-values", func(args expr.Args) (value.Value, error) {
		m, err := asMap(args, 0, "map")
		if err != nil {
			return nil, err
		}

		values := make([]value.Value, len(m.Pairs))
		for i, p := range m.Pairs {
			values[i] = p.Value
		}

		return value.List{Items: values, Comma: true}, nil
	}, 1)

	r.Register("map-has-key", func(args expr.Args) (value.Value, error) {
		m, err := asMap(args, 0, "map")
		if err != nil {
			return nil, err
		}

		k, err := required(args, 1, "key")
		if err != nil {
			return nil, err
		}

		_, ok := m.Get(k)

		return value.Boolean(ok), nil
	}, 2)
}

// reorder lists the merged pairs in order of first appearance across the
// arguments, so keys of the first map come first.
func reorder(merged value.Map, args expr.Args) value.Map {
	var pairs []value.Pair

	for _, a := range args.Positional {
		m, ok := a.(value.Map)
		if !ok {
			continue
		}

		for _, p := range m.Pairs {
			if slices.ContainsFunc(pairs, func(q value.Pair) bool { return value.Equal(q.Key, p.Key) }) {
				continue
			}

			v, _ := merged.Get(p.Key)
			pairs = append(pairs, value.Pair{Key: p.Key, Value: v})
		}
	}

	return value.Map{Pairs: pairs}
}
