package lang

import (
	"log/slog"
	"strings"

	"github.com/ardnew/scss/lang/builtin"
	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

// splitCall separates "name(args)" into the name and the text between the
// outer parentheses. A bare name has no arguments.
func splitCall(text string) (name, args string, err error) {
	text = strings.TrimSpace(text)

	open := strings.IndexByte(text, '(')
	if open < 0 {
		return text, "", nil
	}

	end := strings.LastIndexByte(text, ')')
	if end < open {
		return "", "", pkg.ErrSyntax.Errorf("unclosed '(' in %q", text)
	}

	if rest := strings.TrimSpace(text[end+1:]); rest != "" {
		return "", "", pkg.ErrSyntax.Errorf("unexpected %q after %q", rest, text[:end+1])
	}

	return strings.TrimSpace(text[:open]), text[open+1 : end], nil
}

// declare registers a @mixin or @function in the scope of f under every
// argument count its parameters accept.
func (s *Session) declare(f *frame, b Block, arg string, function bool) error {
	kind := "@mixin"
	if function {
		kind = "@function"
	}

	if err := requireBody(b, kind); err != nil {
		return err
	}

	name, params, err := splitCall(arg)
	if err != nil {
		return err
	}

	if name == "" {
		return pkg.ErrSyntax.Errorf("%s without a name", kind)
	}

	spec, err := s.argSpecs.get(params, expr.ParseArgSpec)
	if err != nil {
		return err
	}

	c := &Callable{
		Name:   name,
		Spec:   spec,
		Body:   b.Body,
		File:   f.file,
		Line:   b.BodyLine,
		Scope:  f.scope,
		Origin: f.origin,
	}

	arities, variadic := spec.Arities()
	if variadic {
		arities = append(arities, AnyArity)
	}

	if function {
		s.ns.SetFunction(f.scope, c, arities...)
	} else {
		s.ns.SetMixin(f.scope, c, arities...)
	}

	s.opts.logger.TraceContext(s.ctx, "declare",
		slog.String("kind", kind),
		slog.String("name", name),
		slog.Any("arities", arities),
	)

	return nil
}

// callScope derives the scope a call to c runs in. Declarations taking
// "(...)" also see the scope of the caller.
func (s *Session) callScope(c *Callable, caller ScopeID) ScopeID {
	if c.Spec.Inject {
		return s.ns.DeriveFrom(c.Scope, caller)
	}

	return s.ns.Derive(c.Scope)
}

// bind assigns args to the parameters of c in the scope of the callee
// frame f, where defaults are evaluated.
func (s *Session) bind(f *frame, c *Callable, args expr.Args) error {
	return c.Spec.Bind(args, evalScope{s: s, f: f}, func(name string, v value.Value) {
		s.ns.Set(f.scope, name, v, Local)
	})
}

// include expands a mixin into the rule of f.
func (s *Session) include(f *frame, b Block, arg string) error {
	name, text, err := splitCall(arg)
	if err != nil {
		return err
	}

	list, err := s.argLists.get(text, expr.ParseArgList)
	if err != nil {
		return err
	}

	args, err := list.Evaluate(evalScope{s: s, f: f})
	if err != nil {
		return err
	}

	m, ok := s.ns.Mixin(f.scope, name, args.Len())
	if !ok && args.Len() != 1 {
		if m, ok = s.ns.Mixin(f.scope, name, 1); ok {
			args = args.Packed()
		}
	}

	if !ok {
		return pkg.ErrName.Errorf("undefined mixin %s with %d arguments", name, args.Len())
	}

	callee := frame{
		rule:   f.rule,
		scope:  s.callScope(m, f.scope),
		file:   m.File,
		origin: m.Origin,
		prefix: f.prefix,
		depth:  f.depth + 1,
	}

	if b.HasBody {
		callee.content = &content{
			body:   b.Body,
			line:   b.BodyLine,
			file:   f.file,
			origin: f.origin,
			scope:  f.scope,
			outer:  f.content,
		}
	}

	if err := s.bind(&callee, m, args); err != nil {
		return err
	}

	s.opts.logger.TraceContext(s.ctx, "include",
		slog.String("mixin", name),
		slog.Int("args", args.Len()),
		slog.Int("depth", callee.depth),
	)

	_, err = s.expand(callee, m.Body, m.Line)

	return err
}

// expandContent expands the body passed to the enclosing @include.
func (s *Session) expandContent(f *frame) error {
	c := f.content
	if c == nil {
		s.opts.logger.ErrorContext(s.ctx, "@content outside a mixin",
			slog.String("file", f.file),
		)

		return nil
	}

	child := frame{
		rule:    f.rule,
		scope:   s.ns.Derive(c.scope),
		file:    c.file,
		origin:  c.origin,
		prefix:  f.prefix,
		content: c.outer,
		depth:   f.depth + 1,
	}

	_, err := s.expand(child, c.body, c.line)

	return err
}

// call resolves a function call: a user @function, then the library, then
// the one-argument overload of either with the arguments packed into a
// list. Anything else is rendered back as a CSS function.
func (s *Session) call(f *frame, name string, args expr.Args) (value.Value, error) {
	n := args.Len()

	if fn, ok := s.ns.Function(f.scope, name, n); ok {
		return s.invoke(f, fn, args)
	}

	if fn, ok := s.opts.library.Lookup(name, n); ok {
		return fn(args)
	}

	if n != 1 {
		packed := args.Packed()

		if fn, ok := s.ns.Function(f.scope, name, 1); ok {
			return s.invoke(f, fn, packed)
		}

		if fn, ok := s.opts.library.Lookup(name, 1); ok {
			return fn(packed)
		}
	}

	if !builtin.IsCSSFunction(name) {
		s.opts.logger.DebugContext(s.ctx, "unknown function rendered as CSS",
			slog.String("name", name),
			slog.Int("args", n),
		)
	}

	return builtin.CSS(name, args, s.valueOptions())
}

// invoke runs a user function body. Properties and rules are not allowed
// inside; the value of the first @return reached is the result, or null
// when none is.
func (s *Session) invoke(f *frame, fn *Callable, args expr.Args) (value.Value, error) {
	callee := frame{
		rule:     &Rule{},
		scope:    s.callScope(fn, f.scope),
		file:     fn.File,
		origin:   fn.Origin,
		depth:    f.depth + 1,
		function: true,
	}

	if err := s.bind(&callee, fn, args); err != nil {
		return nil, err
	}

	flow, err := s.expand(callee, fn.Body, fn.Line)
	if err != nil {
		return nil, err
	}

	if !flow.Return {
		return value.Null{}, nil
	}

	return flow.Value, nil
}
