package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/pkg"
)

// Eval evaluates a SassScript expression, optionally after running
// stylesheets whose variables, mixins and functions it may use.
type Eval struct {
	Options `embed:""`

	Source []string `help:"Stylesheet run before evaluating, or '-' for stdin." placeholder:"FILE" short:"f"`

	Expr []string `arg:"" help:"Expression to evaluate." name:"expr"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := e.session(ctx)
	if err != nil {
		return err
	}

	if len(e.Source) > 0 {
		inputs, err := open(e.Source)
		if err != nil {
			return err
		}

		defer closeAll(inputs)

		for _, in := range inputs {
			src, err := lang.ReadSource(ctx, in.path, in.r)
			if err != nil {
				return err
			}

			if err := s.Run(src); err != nil {
				return err
			}
		}
	}

	text := strings.Join(e.Expr, " ")

	v, err := s.Evaluate(text)
	if err != nil {
		return pkg.WrapError(err).
			With(
				slog.String("command", "eval"),
				slog.String("expr", text),
			)
	}

	_, err = fmt.Fprintln(os.Stdout, s.Inspect(v))

	return err
}
