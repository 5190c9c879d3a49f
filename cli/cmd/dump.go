package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/pkg"
)

// Dump compiles stylesheets and prints the global variables and resolved
// rules as structured data instead of CSS.
type Dump struct {
	Options `embed:""`

	Format string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})."                         short:"m"`
	Indent int    `default:"2"                     help:"Indent width; 0 selects compact flow output."`
	Output string `                                help:"Write to a file instead of stdout."               short:"o" type:"path"`

	Files []string `arg:"" default:"-" help:"Stylesheet file(s) or '-' for stdin." name:"file" optional:""`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := d.session(ctx)
	if err != nil {
		return err
	}

	inputs, err := open(d.Files)
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

	out, closeOut, err := create(d.Output)
	if err != nil {
		return err
	}

	defer closeOut()

	return writeMap(ctx, out, s.ToMap(), d.Format, d.Indent)
}

// writeMap encodes m to w as JSON or YAML.
func writeMap(ctx context.Context, w io.Writer, m map[string]any, format string, indent int) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "json":
		if indent > 0 {
			data, err = json.MarshalIndent(m, "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(m)
		}

		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

	default:
		var opts []yaml.EncodeOption
		if indent > 0 {
			opts = append(opts, yaml.Indent(indent))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		data, err = yaml.MarshalContext(ctx, m, opts...)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err).With(slog.Int("indent", indent))
		}
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	if _, err := w.Write(data); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}
