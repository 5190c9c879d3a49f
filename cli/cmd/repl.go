package cmd

import (
	"context"

	"github.com/ardnew/scss/cli/cmd/repl"
	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/log"
)

// Repl starts an interactive prompt over a live compilation.
type Repl struct {
	Options `embed:""`

	Files []string `arg:"" help:"Stylesheets run before the prompt opens, or '-' for stdin." name:"file" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var preload []lang.Source

	if len(r.Files) > 0 {
		inputs, err := open(r.Files)
		if err != nil {
			return err
		}

		defer closeAll(inputs)

		for _, in := range inputs {
			src, err := lang.ReadSource(ctx, in.path, in.r)
			if err != nil {
				return err
			}

			preload = append(preload, src)
		}
	}

	return repl.Run(ctx, repl.Config{
		New:      func() (*lang.Session, error) { return r.session(ctx) },
		Preload:  preload,
		CacheDir: kongVar(ctx, CacheIdentifier),
		Logger:   log.Default(),
	})
}
