package cmd

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/lang/builtin"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/log"
)

// Vars returns the kong variables interpolated into the compiler flags.
func Vars() kong.Vars {
	return kong.Vars{
		"styleEnum":     strings.Join(slices.Collect(lang.Styles()), ","),
		"debugInfoEnum": "none,comments,comment,media",
		"precision":     strconv.Itoa(value.DefaultPrecision),
	}
}

// Options are the compiler flags shared by every command that compiles or
// evaluates stylesheets.
type Options struct {
	Style      string            `default:"nested"       enum:"${styleEnum}"     help:"Output style (${enum})."                                                                                                                   short:"t"`
	Precision  int               `default:"${precision}"                         help:"Decimal places of emitted numbers."`
	LoadPath   []string          `                                               help:"Directory searched by @import, before the SASS_PATH directories." name:"load-path"              placeholder:"DIR"               sep:"none" short:"I"`
	Strict     bool              `default:"true"                                 help:"Fail on undefined variables."                                                      negatable:""`
	DebugInfo  string            `default:"none"         enum:"${debugInfoEnum}" help:"Annotate rules with their source line (${enum})."`
	WarnUnused bool              `default:"false"                                help:"Warn about imports whose definitions are never used."`
	Define     map[string]string `                                               help:"Bind a global variable to an expression."                                                       placeholder:"NAME=EXPR"                    short:"D"`
	Function   []string          `                                               help:"Define a function as an expression over its parameters."                                        placeholder:"NAME(PARAMS)=EXPR" sep:"none" short:"F"`
}

// library returns the builtin functions extended by the --function
// definitions.
func (o *Options) library() (builtin.Library, error) {
	lib := builtin.Core()

	for _, def := range o.Function {
		if err := lib.Define(def); err != nil {
			return nil, ErrDefine.
				With(slog.String("function", def)).
				Wrap(err)
		}
	}

	return lib, nil
}

// compilerOptions translates the flags into compiler options.
func (o *Options) compilerOptions(ctx context.Context) ([]lang.Option, error) {
	style, ok := lang.ParseStyle(o.Style)
	if !ok {
		return nil, ErrOption.With(slog.String("style", o.Style))
	}

	info, ok := lang.ParseDebugInfo(o.DebugInfo)
	if !ok {
		return nil, ErrOption.With(slog.String("debug-info", o.DebugInfo))
	}

	lib, err := o.library()
	if err != nil {
		return nil, err
	}

	paths := LoadPaths(o.LoadPath...)

	log.DebugContext(ctx, "compiler options",
		slog.String("style", style.String()),
		slog.Int("precision", o.Precision),
		slog.Any("load_paths", paths),
		slog.Bool("strict", o.Strict),
		slog.String("debug_info", info.String()),
	)

	opts := []lang.Option{
		lang.WithStyle(style),
		lang.WithPrecision(o.Precision),
		lang.WithStrict(o.Strict),
		lang.WithDebugInfo(info),
		lang.WithWarnUnused(o.WarnUnused),
		lang.WithLibrary(lib),
		lang.WithResolver(FileResolver{LoadPaths: paths}),
		lang.WithLogger(log.Default()),
	}

	for _, name := range slices.Sorted(maps.Keys(o.Define)) {
		opts = append(opts, lang.WithDefine(strings.TrimPrefix(name, "$"), o.Define[name]))
	}

	return opts, nil
}

// session starts a compilation configured by the flags.
func (o *Options) session(ctx context.Context, extra ...lang.Option) (*lang.Session, error) {
	opts, err := o.compilerOptions(ctx)
	if err != nil {
		return nil, err
	}

	return lang.New(append(opts, extra...)...).NewSession(ctx)
}
