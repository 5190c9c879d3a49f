package lang

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/scss/lang/builtin"
	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/log"
	"github.com/ardnew/scss/pkg"
)

// DefaultMaxDepth is the default ceiling on nested expansion: rules within
// rules, mixin includes, function calls and imports.
// Users may modify this before compiling to change the default.
var DefaultMaxDepth = 64

// maxIterations bounds a single @while loop.
const maxIterations = 1 << 16

type define struct {
	name, text string
}

type options struct {
	style          Style
	precision      int
	resolver       Resolver
	library        builtin.Library
	strict         bool
	liveErrors     bool
	debugInfo      DebugInfo
	maxDepth       int
	variables      map[string]value.Value
	defines        []define
	superSelector  string
	warnUnused     bool
	controlScoping bool
	logger         log.Logger // zero value discards
}

// Option configures a [Compiler].
type Option func(*options)

// WithStyle sets the output style.
func WithStyle(style Style) Option {
	return func(o *options) {
		o.style = style
	}
}

// WithPrecision sets the number of decimal places numbers render with.
func WithPrecision(precision int) Option {
	return func(o *options) {
		o.precision = precision
	}
}

// WithResolver sets the collaborator that loads @import targets.
// Without one, every non-CSS @import fails.
func WithResolver(r Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithLibrary sets the builtin function library. The default is
// [builtin.Core].
func WithLibrary(lib builtin.Library) Option {
	return func(o *options) {
		o.library = lib
	}
}

// WithStrict selects the undefined-variable policy. Strict compilation,
// the default, fails on undefined variables; otherwise they evaluate to
// [value.Undefined].
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithLiveErrors makes Compile render a failure as CSS that displays the
// error, instead of returning it.
func WithLiveErrors(live bool) Option {
	return func(o *options) {
		o.liveErrors = live
	}
}

// WithDebugInfo annotates each rule with the file and line it came from.
func WithDebugInfo(info DebugInfo) Option {
	return func(o *options) {
		o.debugInfo = info
	}
}

// WithMaxDepth sets the ceiling on nested expansion.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithVariables pre-seeds global variables.
func WithVariables(vars map[string]value.Value) Option {
	return func(o *options) {
		if o.variables == nil {
			o.variables = make(map[string]value.Value, len(vars))
		}

		maps.Copy(o.variables, vars)
	}
}

// WithDefine pre-seeds the global variable name with the value of the
// expression text, evaluated when a session starts.
func WithDefine(name, text string) Option {
	return func(o *options) {
		o.defines = append(o.defines, define{name: name, text: text})
	}
}

// WithSuperSelector prefixes every emitted selector.
func WithSuperSelector(sel string) Option {
	return func(o *options) {
		o.superSelector = strings.TrimSpace(sel)
	}
}

// WithWarnUnused logs imported sources whose contents were never used.
func WithWarnUnused(warn bool) Option {
	return func(o *options) {
		o.warnUnused = warn
	}
}

// WithControlScoping gives every @if, @for, @each and @while body a scope
// of its own. By default control directives share the enclosing scope.
func WithControlScoping(scoped bool) Option {
	return func(o *options) {
		o.controlScoping = scoped
	}
}

// WithLogger sets the structured logger for @warn, @debug and diagnostics.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyDefaults(o *options) {
	o.style = Nested
	o.precision = value.DefaultPrecision
	o.library = builtin.Core()
	o.strict = true
	o.maxDepth = DefaultMaxDepth
}

func applyOptions(o *options, opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// Compiler compiles stylesheets with a fixed configuration. A Compiler is
// safe for concurrent use; each compilation runs in a session of its own.
type Compiler struct {
	opts options
}

// New returns a Compiler configured by opts.
func New(opts ...Option) *Compiler {
	c := &Compiler{}

	applyDefaults(&c.opts)
	applyOptions(&c.opts, opts...)

	return c
}

// Compile compiles src to CSS.
func Compile(ctx context.Context, src Source, opts ...Option) (string, error) {
	return New(opts...).Compile(ctx, src)
}

// Compile compiles src to CSS.
func (c *Compiler) Compile(ctx context.Context, src Source) (string, error) {
	var b strings.Builder

	err := c.compile(ctx, src, &b)
	if err == nil {
		return b.String(), nil
	}

	if !c.opts.liveErrors {
		return "", err
	}

	c.opts.logger.ErrorContext(ctx, "compile failed", slog.Any("error", err))

	return LiveError(err), nil
}

// CompileTo compiles src and writes the CSS to w.
func (c *Compiler) CompileTo(ctx context.Context, src Source, w io.Writer) error {
	css, err := c.Compile(ctx, src)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, css); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (c *Compiler) compile(ctx context.Context, src Source, w io.Writer) error {
	s, err := c.NewSession(ctx)
	if err != nil {
		return err
	}

	if err := s.Run(src); err != nil {
		return err
	}

	return s.Render(w)
}

// Session is one compilation. It owns every scope, rule and parsed
// expression created while compiling and is discarded afterwards.
// A Session is not safe for concurrent use.
type Session struct {
	ctx  context.Context
	opts options

	ns       *Namespace
	root     *Rule
	rules    []*Rule
	resolved bool
	sources  map[string]Source

	exprs    memo[expr.Node]
	assigns  memo[assignment]
	interps  memo[expr.Node]
	argLists memo[*expr.ArgList]
	argSpecs memo[*expr.ArgSpec]
}

// NewSession starts a compilation with the configuration of c. Variables
// given by [WithVariables] and [WithDefine] are bound in the root scope.
func (c *Compiler) NewSession(ctx context.Context) (*Session, error) {
	s := &Session{
		ctx:     ctx,
		opts:    c.opts,
		ns:      NewNamespace(),
		root:    &Rule{Dependents: []int{0}},
		sources: map[string]Source{},
	}

	s.rules = []*Rule{s.root}

	for _, name := range slices.Sorted(maps.Keys(c.opts.variables)) {
		s.ns.Set(RootScope, name, c.opts.variables[name], Global)
	}

	for _, d := range c.opts.defines {
		if err := s.Assign(d.name, d.text); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Run expands src into rules.
func (s *Session) Run(src Source) error {
	key := src.Key()

	s.sources[key] = src
	s.ns.Origin = key
	s.ns.MarkImported(RootScope, key)
	s.ns.Touch(key)

	if s.root.File == "" {
		s.root.File = src.Name()
	}

	f := frame{
		rule:   s.root,
		scope:  RootScope,
		file:   src.Name(),
		origin: key,
	}

	s.opts.logger.TraceContext(s.ctx, "expand", slog.String("source", src.Name()))

	if _, err := s.expand(f, StripComments(src.Text), 1); err != nil {
		return err
	}

	s.resolved = false

	s.opts.logger.TraceContext(s.ctx, "expanded", slog.Int("rules", len(s.rules)))

	if s.opts.warnUnused {
		for _, key := range s.ns.Unused() {
			s.opts.logger.WarnContext(s.ctx, "unused @import", slog.String("source", s.sources[key].Name()))
		}
	}

	return nil
}

// Evaluate computes the expression text in the root scope. Every slash
// divides.
func (s *Session) Evaluate(text string) (value.Value, error) {
	n, err := s.exprs.get(text, expr.Parse)
	if err != nil {
		return nil, err
	}

	f := frame{rule: s.root, scope: RootScope}

	return expr.Arithmetic(n, evalScope{s: s, f: &f})
}

// Assign binds the global variable name to the value of the expression
// text. The text may end with !default.
func (s *Session) Assign(name, text string) error {
	f := frame{rule: s.root, scope: RootScope}

	return s.assign(&f, name, text)
}

// Variables yields the global variables and their values.
func (s *Session) Variables() iter.Seq2[string, value.Value] {
	return s.ns.Variables(RootScope)
}

// Names returns every variable, mixin and function name known to the
// session, including the builtin library, sorted. Variables carry "$".
func (s *Session) Names() []string {
	var names []string

	for name := range s.ns.Variables(RootScope) {
		names = append(names, "$"+name)
	}

	names = append(names, slices.Collect(s.ns.Callables(RootScope))...)
	names = append(names, s.opts.library.Names()...)

	slices.Sort(names)

	return slices.Compact(names)
}

// Render resolves @extend, orders the rules and writes them as CSS to w.
func (s *Session) Render(w io.Writer) error {
	css := s.render(s.Rules())

	s.opts.logger.TraceContext(s.ctx, "render", slog.Int("bytes", len(css)))

	if _, err := io.WriteString(w, css); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (s *Session) valueOptions() value.Options {
	return value.Options{
		Precision: s.opts.precision,
		Compress:  s.opts.style == Compressed,
	}
}

// newRule records a rule nested in f's rule with the given ancestry.
func (s *Session) newRule(f *frame, ancestry []Header, line int) *Rule {
	pos := len(s.rules)
	r := &Rule{
		Ancestry:   ancestry,
		Position:   pos,
		Dependents: []int{pos},
		File:       f.file,
		Line:       line,
		Nested:     f.rule.Nested + 1,
	}

	s.rules = append(s.rules, r)
	s.resolved = false

	return r
}

// LiveError renders err as CSS that shows the message at the top of the
// page: a comment followed by a body:before rule.
func LiveError(err error) string {
	msg := err.Error()

	var b strings.Builder

	b.WriteString("/*\n")
	b.WriteString(strings.ReplaceAll(msg, "*/", "* /"))
	b.WriteString("\n*/\n\nbody:before {\n")
	b.WriteString("  content: \"")
	b.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\A `).Replace(msg))
	b.WriteString("\";\n")
	b.WriteString("  white-space: pre;\n")
	b.WriteString("  display: block;\n")
	b.WriteString("  padding: 1em;\n")
	b.WriteString("  border: 2px solid red;\n")
	b.WriteString("  font-family: monospace;\n")
	b.WriteString("}\n")

	return b.String()
}
