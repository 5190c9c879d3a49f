package builtin

import (
	"strings"
	"unicode/utf8"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
)

func registerString(r *Registry) {
	// unquote() and quote() accept several arguments and join them, as
	// stylesheets written for older compilers expect.
	r.Register("unquote", func(args expr.Args) (value.Value, error) {
		return value.Bare(joined(args)), nil
	})
	r.Register("e", func(args expr.Args) (value.Value, error) {
		return value.Bare(joined(args)), nil
	}, 1)
	r.Register("escape", func(args expr.Args) (value.Value, error) {
		return value.Bare(joined(args)), nil
	}, 1)
	r.Register("quote", func(args expr.Args) (value.Value, error) {
		return value.Quoted(joined(args)), nil
	})

	r.Register("str-length", func(args expr.Args) (value.Value, error) {
		s, err := str(args, 0, "string")
		if err != nil {
			return nil, err
		}

		return value.NewNumber(float64(utf8.RuneCountInString(s.Text)), ""), nil
	}, 1)

	r.Register("str-index", func(args expr.Args) (value.Value, error) {
		s, err := str(args, 0, "string")
		if err != nil {
			return nil, err
		}

		sub, err := str(args, 1, "substring")
		if err != nil {
			return nil, err
		}

		i := strings.Index(s.Text, sub.Text)
		if i < 0 {
			return value.Null{}, nil
		}

		return value.NewNumber(float64(utf8.RuneCountInString(s.Text[:i])+1), ""), nil
	}, 2)

	r.Register("str-slice", func(args expr.Args) (value.Value, error) {
		s, err := str(args, 0, "string")
		if err != nil {
			return nil, err
		}

		start, err := number(args, 1, "start-at")
		if err != nil {
			return nil, err
		}

		runes := []rune(s.Text)
		end := len(runes)

		if v, ok := arg(args, 2, "end-at"); ok {
			n, ok := v.(value.Number)
			if !ok {
				return nil, expected("end-at", "number", v)
			}

			end = position(n.Int(), len(runes))
		}

		i := max(position(start.Int(), len(runes))-1, 0)
		end = min(end, len(runes))

		if i >= end {
			return value.String{Quoted: s.Quoted}, nil
		}

		return value.String{Text: string(runes[i:end]), Quoted: s.Quoted}, nil
	}, 2, 3)

	caseFunc := func(fn func(string) string) Func {
		return func(args expr.Args) (value.Value, error) {
			s, err := str(args, 0, "string")
			if err != nil {
				return nil, err
			}

			return value.String{Text: fn(s.Text), Quoted: s.Quoted}, nil
		}
	}

	r.Register("to-upper-case", caseFunc(strings.ToUpper), 1)
	r.Register("to-lower-case", caseFunc(strings.ToLower), 1)
}

func joined(args expr.Args) string {
	parts := make([]string, len(args.Positional))
	for i, a := range args.Positional {
		parts[i] = value.Text(a)
	}

	return strings.Join(parts, " ")
}

// position converts a 1-based index that may count from the end (-1 is the
// last element) into a 1-based index from the start.
func position(i, n int) int {
	if i < 0 {
		return n + i + 1
	}

	return i
}
