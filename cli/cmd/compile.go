package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/log"
	"github.com/ardnew/scss/pkg"
)

// Compile compiles stylesheets to CSS.
type Compile struct {
	Options `embed:""`

	LiveErrors    bool   `help:"Render a failed compile as CSS that displays the error."`
	SuperSelector string `help:"Prefix every emitted selector."                           placeholder:"SELECTOR"`
	Output        string `help:"Write CSS to a file instead of stdout."                                          short:"o" type:"path"`

	Files []string `arg:"" default:"-" help:"Stylesheet file(s) or '-' for stdin." name:"file" optional:""`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts, err := c.compilerOptions(ctx)
	if err != nil {
		return err
	}

	compiler := lang.New(append(opts,
		lang.WithLiveErrors(c.LiveErrors),
		lang.WithSuperSelector(c.SuperSelector),
	)...)

	inputs, err := open(c.Files)
	if err != nil {
		return err
	}

	defer closeAll(inputs)

	out, closeOut, err := create(c.Output)
	if err != nil {
		return err
	}

	defer closeOut()

	w := bufio.NewWriter(out)

	for _, in := range inputs {
		src, err := lang.ReadSource(ctx, in.path, in.r)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "compile", slog.String("source", src.Name()))

		if err := compiler.CompileTo(ctx, src, w); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}

// open opens the named inputs, failing if any cannot be read.
func open(sources []string) ([]input, error) {
	inputs, failed := openInputs(sources)
	if len(failed) > 0 {
		closeAll(inputs)

		return nil, pkg.ErrReadInput.
			Errorf("cannot open %s", strings.Join(failed, ", ")).
			With(slog.Any("files", failed))
	}

	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	return inputs, nil
}

func closeAll(inputs []input) {
	for _, in := range inputs {
		in.Close()
	}
}

// create opens path for writing, or stdout if path is empty.
func create(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, pkg.ErrWriteOutput.Wrap(err).
			With(slog.String("file", path))
	}

	return file, func() { file.Close() }, nil
}
