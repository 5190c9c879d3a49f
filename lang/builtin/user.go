package builtin

import (
	"log/slog"
	"slices"
	"strings"

	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

// Define registers a user function written as "name(a, b)=expression",
// where expression is an expr-lang expression over the parameters.
//
// Arguments reach the expression as Go values: numbers as float64, strings
// as their text, lists as slices and maps as map[string]any. A numeric
// result takes the unit of the first argument that has one, so
// "double(x)=x*2" maps 4px to 8px. Names other than the parameters
// evaluate to nil.
func (r *Registry) Define(def string) error {
	sig, body, ok := strings.Cut(def, "=")
	if !ok {
		return pkg.ErrSyntax.Errorf("function definition %q: expected name(params)=expression", def)
	}

	name, params, err := parseSignature(strings.TrimSpace(sig))
	if err != nil {
		return err
	}

	// Parameters have no static type; operators are checked when the
	// function runs.
	program, err := exprlang.Compile(strings.TrimSpace(body), exprlang.AllowUndefinedVariables())
	if err != nil {
		return pkg.ErrSyntax.Wrap(err).With(slog.String("function", name))
	}

	r.Register(name, func(args expr.Args) (value.Value, error) {
		run := make(map[string]any, len(params))
		unit := ""

		for i, p := range params {
			v, err := required(args, i, p)
			if err != nil {
				return nil, err
			}

			if n, ok := v.(value.Number); ok && unit == "" {
				unit = n.Unit()
			}

			run[p] = toGo(v)
		}

		out, err := vm.Run(program, run)
		if err != nil {
			return nil, pkg.ErrValue.Wrap(err).With(slog.String("function", name))
		}

		return fromGo(out, unit)
	}, len(params))

	return nil
}

func parseSignature(sig string) (string, []string, error) {
	open := strings.IndexByte(sig, '(')
	if open <= 0 || !strings.HasSuffix(sig, ")") {
		return "", nil, pkg.ErrSyntax.Errorf("function signature %q: expected name(params)", sig)
	}

	name := strings.TrimSpace(sig[:open])

	var params []string

	if inner := strings.TrimSpace(sig[open+1 : len(sig)-1]); inner != "" {
		for _, p := range strings.Split(inner, ",") {
			p = strings.TrimPrefix(strings.TrimSpace(p), "$")
			if p == "" || slices.Contains(params, p) {
				return "", nil, pkg.ErrSyntax.Errorf("function signature %q: invalid parameter list", sig)
			}

			params = append(params, p)
		}
	}

	return name, params, nil
}

func toGo(v value.Value) any {
	switch v := v.(type) {
	case value.Number:
		return v.Amount
	case value.String:
		return v.Text
	case value.Boolean:
		return bool(v)
	case value.List:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = toGo(item)
		}

		return out
	case value.Map:
		out := make(map[string]any, len(v.Pairs))
		for _, p := range v.Pairs {
			out[value.Text(p.Key)] = toGo(p.Value)
		}

		return out
	case value.Null, value.Undefined:
		return nil
	default:
		return value.Text(v)
	}
}

func fromGo(v any, unit string) (value.Value, error) {
	switch v := v.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Boolean(v), nil
	case int:
		return value.NewNumber(float64(v), unit), nil
	case int64:
		return value.NewNumber(float64(v), unit), nil
	case float64:
		return value.NewNumber(v, unit), nil
	case string:
		return value.Bare(v), nil
	case []any:
		items := make([]value.Value, len(v))

		for i, item := range v {
			x, err := fromGo(item, unit)
			if err != nil {
				return nil, err
			}

			items[i] = x
		}

		return value.List{Items: items, Comma: true}, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		pairs := make([]value.Pair, 0, len(keys))

		for _, k := range keys {
			x, err := fromGo(v[k], unit)
			if err != nil {
				return nil, err
			}

			pairs = append(pairs, value.Pair{Key: value.Bare(k), Value: x})
		}

		return value.Map{Pairs: pairs}, nil
	default:
		return nil, pkg.ErrType.Errorf("unsupported result type %T", v)
	}
}
