package lang

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/lang/selector"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

// frame is the state in which one body is expanded.
type frame struct {
	rule  *Rule
	scope ScopeID
	// file names the source of the body for diagnostics; origin is its key.
	file   string
	origin string
	// prefix is prepended to property names inside nested properties,
	// e.g. "font-" within "font: { … }".
	prefix string
	// content is the body passed to the innermost @include.
	content  *content
	depth    int
	function bool
}

// content is the body of an @include, expanded by @content in the scope of
// the caller.
type content struct {
	body   string
	line   int
	file   string
	origin string
	scope  ScopeID
	outer  *content
}

// Flow reports how expansion of a body ended. A @return stops expansion
// of every enclosing body up to the function call.
type Flow struct {
	Return bool
	Value  value.Value
}

// ifChain tracks whether an @else may follow and whether an earlier
// branch of the chain ran.
type ifChain struct {
	open  bool
	taken bool
}

var (
	legacyAssign = regexp.MustCompile(`^\$?[-\w]+\s*=[^=]`)
	nestedProp   = regexp.MustCompile(`^(?:[-\w]+|#\{[^}]*\})+:(?:\s|$)`)
	xcssExtends  = regexp.MustCompile(`(?i)\s+extends\s+`)
	forRange     = regexp.MustCompile(`(?is)^\$([-\w]+)\s+from\s+(.+?)\s+(through|to)\s+(.+)$`)
	eachIn       = regexp.MustCompile(`(?is)^(.+?)\s+in\s+(.+)$`)
	optionalFlag = regexp.MustCompile(`(?i)\s*!optional\b`)
)

func located(err error, file string, line int) error {
	return pkg.WrapError(err).Locate(file, line)
}

// expand dispatches every block of text into f.
func (s *Session) expand(f frame, text string, line int) (Flow, error) {
	if f.depth > s.opts.maxDepth {
		return Flow{}, pkg.ErrRecursion.
			Errorf("nesting deeper than %d", s.opts.maxDepth).
			Locate(f.file, line)
	}

	prev := s.ns.Origin
	s.ns.Origin = f.origin

	defer func() { s.ns.Origin = prev }()

	var chain ifChain

	for b, err := range Locate(text, line) {
		if err != nil {
			return Flow{}, located(err, f.file, 0)
		}

		if err := s.ctx.Err(); err != nil {
			return Flow{}, err
		}

		flow, err := s.dispatch(&f, b, &chain)
		if err != nil {
			return Flow{}, located(err, f.file, b.Line)
		}

		if flow.Return {
			return flow, nil
		}
	}

	return Flow{}, nil
}

func splitDirective(header string) (name, arg string) {
	i := strings.IndexFunc(header, func(r rune) bool {
		return unicode.IsSpace(r) || r == '('
	})
	if i < 0 {
		return strings.ToLower(header), ""
	}

	return strings.ToLower(header[:i]), strings.TrimSpace(header[i:])
}

func (s *Session) dispatch(f *frame, b Block, chain *ifChain) (Flow, error) {
	if !strings.HasPrefix(b.Header, "@") {
		*chain = ifChain{}

		switch {
		case b.HasBody && nestedProp.MatchString(b.Header):
			return Flow{}, s.nestedProperty(f, b)
		case b.HasBody:
			return Flow{}, s.nested(f, b)
		default:
			return Flow{}, s.property(f, b.Header)
		}
	}

	name, arg := splitDirective(b.Header)

	if name == "@else" {
		return s.elseDirective(f, b, arg, chain)
	}

	*chain = ifChain{}

	switch name {
	case "@if":
		return s.ifDirective(f, b, arg, chain)
	case "@for":
		return s.forDirective(f, b, arg)
	case "@each":
		return s.eachDirective(f, b, arg)
	case "@while":
		return s.whileDirective(f, b, arg, chain)
	case "@mixin":
		return Flow{}, s.declare(f, b, arg, false)
	case "@function":
		return Flow{}, s.declare(f, b, arg, true)
	case "@include":
		return Flow{}, s.include(f, b, arg)
	case "@content":
		return Flow{}, s.expandContent(f)
	case "@return":
		return s.returnDirective(f, arg)
	case "@extend":
		return Flow{}, s.extend(f, arg)
	case "@import":
		return Flow{}, s.importDirective(f, arg)
	case "@option":
		return Flow{}, s.option(arg)
	case "@warn", "@debug", "@print":
		return Flow{}, s.message(f, b, name, arg)
	case "@variables", "@vars":
		return Flow{}, s.variables(f, b)
	default:
		return Flow{}, s.atRule(f, b, name, arg)
	}
}

// evalScope resolves expression names against a frame.
type evalScope struct {
	s *Session
	f *frame
}

func (e evalScope) Variable(name string) (value.Value, error) {
	return e.s.ns.Lookup(e.f.scope, name)
}

func (e evalScope) Call(name string, args expr.Args) (value.Value, error) {
	return e.s.call(e.f, name, args)
}

func (e evalScope) Strict() bool { return e.s.opts.strict }

// evaluate computes text in division context.
func (s *Session) evaluate(f *frame, text string) (value.Value, error) {
	n, err := s.exprs.get(text, expr.Parse)
	if err != nil {
		return nil, err
	}

	return expr.Arithmetic(n, evalScope{s: s, f: f})
}

// interpolate replaces every "#{…}" in text.
func (s *Session) interpolate(f *frame, text string) (string, error) {
	if !strings.Contains(text, "#{") {
		return text, nil
	}

	n, err := s.interps.get(text, expr.ParseInterpolation)
	if err != nil {
		return "", err
	}

	v, err := n.Evaluate(evalScope{s: s, f: f})
	if err != nil {
		return "", err
	}

	return v.Render(s.valueOptions())
}

// assign evaluates text and binds it to the variable name.
func (s *Session) assign(f *frame, name, text string) error {
	name = expr.NormalizeName(strings.TrimSpace(name))

	a, err := s.assigns.get(strings.TrimSpace(text), parseAssignment)
	if err != nil {
		return err
	}

	var flags SetFlags

	if a.flags.Default {
		if old, err := s.ns.Lookup(f.scope, name); err == nil && !isNull(old) {
			return nil
		}

		flags |= Default
	}

	if a.flags.Global {
		flags |= Global
	}

	v, err := expr.Arithmetic(a.node, evalScope{s: s, f: f})
	if err != nil {
		return err
	}

	if isConstant(name) {
		if _, err := s.ns.Lookup(f.scope, name); err == nil {
			s.opts.logger.WarnContext(s.ctx, "redefining constant",
				slog.String("name", "$"+name),
				slog.String("file", f.file),
			)
		}
	}

	s.ns.Set(f.scope, name, v, flags)

	return nil
}

func isConstant(name string) bool {
	return strings.ToUpper(name) == name && strings.ToLower(name) != name
}

// colonIndex returns the offset of the first ':' outside "#{…}".
func colonIndex(text string) int {
	depth := 0

	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '#' && i+1 < len(text) && text[i+1] == '{':
			depth++
			i++
		case text[i] == '}' && depth > 0:
			depth--
		case text[i] == ':' && depth == 0:
			return i
		}
	}

	return -1
}

// property handles a statement: a variable assignment or a declaration.
func (s *Session) property(f *frame, stmt string) error {
	if strings.HasPrefix(stmt, "$") {
		name, text, ok := strings.Cut(stmt, ":")
		if !ok {
			if !legacyAssign.MatchString(stmt) {
				return pkg.ErrSyntax.Errorf("expected ':' in %q", stmt)
			}

			name, text, _ = strings.Cut(stmt, "=")
		}

		return s.assign(f, name, text)
	}

	if legacyAssign.MatchString(stmt) {
		name, text, _ := strings.Cut(stmt, "=")

		return s.assign(f, name, text)
	}

	if f.function {
		return pkg.ErrSyntax.Errorf("declaration %q inside a function", stmt)
	}

	i := colonIndex(stmt)
	if i < 0 {
		name, err := s.interpolate(f, stmt)
		if err != nil {
			return err
		}

		f.rule.Properties = append(f.rule.Properties, Property{Name: name})

		return nil
	}

	return s.declaration(f, stmt[:i], stmt[i+1:])
}

// declaration appends the declaration name: raw to the rule of f.
func (s *Session) declaration(f *frame, name, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	name, err := s.interpolate(f, strings.TrimSpace(name))
	if err != nil {
		return err
	}

	n, err := s.exprs.get(raw, expr.Parse)
	if err != nil {
		return err
	}

	v, err := n.Evaluate(evalScope{s: s, f: f})
	if err != nil {
		return err
	}

	if isNull(v) {
		return nil
	}

	text, err := v.Render(s.valueOptions())
	if err != nil {
		return err
	}

	if text == "" {
		return nil
	}

	f.rule.Properties = append(f.rule.Properties, Property{
		Name:     f.prefix + name,
		Value:    text,
		HasValue: true,
	})

	s.ns.Touch(f.origin)

	return nil
}

// nestedProperty expands "font: { family: x; }" as "font-family: x".
func (s *Session) nestedProperty(f *frame, b Block) error {
	i := colonIndex(b.Header)

	name, err := s.interpolate(f, b.Header[:i])
	if err != nil {
		return err
	}

	if f.function {
		return pkg.ErrSyntax.Errorf("declaration %q inside a function", name)
	}

	if err := s.declaration(f, name, b.Header[i+1:]); err != nil {
		return err
	}

	child := *f
	child.prefix = f.prefix + name + "-"
	child.depth++

	_, err = s.expand(child, b.Body, b.BodyLine)

	return err
}

// nested expands a selector block into a new rule.
func (s *Session) nested(f *frame, b Block) error {
	if f.function {
		return pkg.ErrSyntax.Errorf("rule %q inside a function", b.Header)
	}

	header, err := s.interpolate(f, b.Header)
	if err != nil {
		return err
	}

	var parents []string

	if loc := xcssExtends.FindStringIndex(header); loc != nil {
		s.opts.logger.WarnContext(s.ctx, "the xCSS 'a extends b' syntax is deprecated; use 'a { @extend b; }'",
			slog.String("file", f.file),
			slog.Int("line", b.Line),
		)

		parents = strings.Split(header[loc[1]:], "&")
		header = header[:loc[0]]
	}

	sels, err := selector.Parse(header)
	if err != nil {
		return err
	}

	sels, err = withParents(f.rule.Selectors(), sels)
	if err != nil {
		return err
	}

	r := s.newRule(f, f.rule.nest(SelectorHeader(sels...)), b.Line)

	for _, p := range parents {
		targets, err := selector.Parse(strings.TrimSpace(p))
		if err != nil {
			return err
		}

		for _, t := range targets {
			r.Extends = append(r.Extends, Extend{Target: t})
		}
	}

	s.ns.Touch(f.origin)

	child := frame{
		rule:    r,
		scope:   s.ns.Derive(f.scope),
		file:    f.file,
		origin:  f.origin,
		content: f.content,
		depth:   f.depth + 1,
	}

	_, err = s.expand(child, b.Body, b.BodyLine)

	return err
}

// withParents resolves every child against every parent, parent-major.
func withParents(parents, children []selector.Selector) ([]selector.Selector, error) {
	if len(parents) == 0 {
		for _, c := range children {
			if c.HasParentRef() {
				return nil, pkg.ErrSyntax.Errorf("parent reference in top-level selector %q", c.Render(false))
			}
		}

		return children, nil
	}

	out := make([]selector.Selector, 0, len(parents)*len(children))

	for _, p := range parents {
		for _, c := range children {
			sel, err := c.WithParent(p)
			if err != nil {
				return nil, err
			}

			out = append(out, sel)
		}
	}

	return out, nil
}

// atRule handles any at-rule without a dedicated directive. Without a body
// it is carried verbatim as a declaration; with one it opens a block.
func (s *Session) atRule(f *frame, b Block, name, arg string) error {
	if !b.HasBody {
		text, err := s.interpolate(f, b.Header)
		if err != nil {
			return err
		}

		f.rule.Properties = append(f.rule.Properties, Property{Name: text})

		return nil
	}

	if f.function {
		return pkg.ErrSyntax.Errorf("%s inside a function", name)
	}

	arg, err := s.interpolate(f, arg)
	if err != nil {
		return err
	}

	r := s.newRule(f, f.rule.nest(AtRuleHeader(name, arg)), b.Line)

	s.ns.Touch(f.origin)

	child := frame{
		rule:    r,
		scope:   s.ns.Derive(f.scope),
		file:    f.file,
		origin:  f.origin,
		content: f.content,
		depth:   f.depth + 1,
	}

	_, err = s.expand(child, b.Body, b.BodyLine)

	return err
}

func (s *Session) condition(f *frame, text string) (bool, error) {
	if text == "" {
		return false, pkg.ErrSyntax.Errorf("missing condition")
	}

	v, err := s.evaluate(f, text)
	if err != nil {
		return false, err
	}

	return v.Truthy(), nil
}

// control expands the body of a control directive.
func (s *Session) control(f *frame, b Block, bind func(ScopeID)) (Flow, error) {
	child := *f
	child.depth++

	if s.opts.controlScoping {
		child.scope = s.ns.Derive(f.scope)
	}

	if bind != nil {
		bind(child.scope)
	}

	return s.expand(child, b.Body, b.BodyLine)
}

func requireBody(b Block, name string) error {
	if !b.HasBody {
		return pkg.ErrSyntax.Errorf("%s requires a body", name)
	}

	return nil
}

func (s *Session) ifDirective(f *frame, b Block, cond string, chain *ifChain) (Flow, error) {
	if err := requireBody(b, "@if"); err != nil {
		return Flow{}, err
	}

	ok, err := s.condition(f, cond)
	if err != nil {
		return Flow{}, err
	}

	*chain = ifChain{open: true, taken: ok}

	if !ok {
		return Flow{}, nil
	}

	return s.control(f, b, nil)
}

func (s *Session) elseDirective(f *frame, b Block, arg string, chain *ifChain) (Flow, error) {
	if !chain.open {
		return Flow{}, pkg.ErrSyntax.Errorf("@else without @if")
	}

	if err := requireBody(b, "@else"); err != nil {
		return Flow{}, err
	}

	cond, isElseIf := strings.CutPrefix(arg, "if")
	isElseIf = isElseIf && (cond == "" || cond[0] == ' ' || cond[0] == '(' || cond[0] == '\t')

	if !isElseIf {
		taken := chain.taken
		*chain = ifChain{}

		if taken {
			return Flow{}, nil
		}

		return s.control(f, b, nil)
	}

	if chain.taken {
		return Flow{}, nil
	}

	ok, err := s.condition(f, strings.TrimSpace(cond))
	if err != nil {
		return Flow{}, err
	}

	if !ok {
		return Flow{}, nil
	}

	chain.taken = true

	return s.control(f, b, nil)
}

func (s *Session) forDirective(f *frame, b Block, arg string) (Flow, error) {
	if err := requireBody(b, "@for"); err != nil {
		return Flow{}, err
	}

	m := forRange.FindStringSubmatch(arg)
	if m == nil {
		return Flow{}, pkg.ErrSyntax.Errorf("expected '$var from a through b' in @for, got %q", arg)
	}

	from, err := s.number(f, m[2])
	if err != nil {
		return Flow{}, err
	}

	to, err := s.number(f, m[4])
	if err != nil {
		return Flow{}, err
	}

	start, end := from.Int(), to.Int()

	step := 1
	if end < start {
		step = -1
	}

	if strings.EqualFold(m[3], "to") {
		end -= step
	}

	if (end-start)*step+1 > maxIterations {
		return Flow{}, pkg.ErrRecursion.Errorf("@for exceeds %d iterations", maxIterations)
	}

	for i := start; (end-i)*step >= 0; i += step {
		n := value.NewNumber(float64(i), from.Unit())

		flow, err := s.control(f, b, func(id ScopeID) {
			s.ns.Set(id, m[1], n, Local)
		})
		if err != nil || flow.Return {
			return flow, err
		}
	}

	return Flow{}, nil
}

func (s *Session) number(f *frame, text string) (value.Number, error) {
	v, err := s.evaluate(f, text)
	if err != nil {
		return value.Number{}, err
	}

	n, ok := v.(value.Number)
	if !ok {
		return value.Number{}, pkg.ErrType.Errorf("expected a number, got %s", v.Kind())
	}

	return n, nil
}

func (s *Session) eachDirective(f *frame, b Block, arg string) (Flow, error) {
	if err := requireBody(b, "@each"); err != nil {
		return Flow{}, err
	}

	m := eachIn.FindStringSubmatch(arg)
	if m == nil {
		return Flow{}, pkg.ErrSyntax.Errorf("expected '$var in list' in @each, got %q", arg)
	}

	var names []string

	for name := range strings.SplitSeq(m[1], ",") {
		names = append(names, expr.NormalizeName(strings.TrimSpace(name)))
	}

	unpack := len(names) > 1
	if names[len(names)-1] == "" {
		names = names[:len(names)-1]
	}

	if len(names) == 0 || names[0] == "" {
		return Flow{}, pkg.ErrSyntax.Errorf("missing variable in @each")
	}

	list, err := s.evaluate(f, m[2])
	if err != nil {
		return Flow{}, err
	}

	if isNull(list) {
		return Flow{}, nil
	}

	for _, item := range value.Items(list) {
		flow, err := s.control(f, b, func(id ScopeID) {
			if !unpack {
				s.ns.Set(id, names[0], item, Local)

				return
			}

			parts := value.Items(item)

			for j, name := range names {
				var v value.Value = value.Null{}
				if j < len(parts) {
					v = parts[j]
				}

				s.ns.Set(id, name, v, Local)
			}
		})
		if err != nil || flow.Return {
			return flow, err
		}
	}

	return Flow{}, nil
}

func (s *Session) whileDirective(f *frame, b Block, cond string, chain *ifChain) (Flow, error) {
	if err := requireBody(b, "@while"); err != nil {
		return Flow{}, err
	}

	for n := 0; ; n++ {
		ok, err := s.condition(f, cond)
		if err != nil {
			return Flow{}, err
		}

		if n == 0 {
			*chain = ifChain{open: true, taken: ok}
		}

		if !ok {
			return Flow{}, nil
		}

		if n >= maxIterations {
			return Flow{}, pkg.ErrRecursion.Errorf("@while exceeds %d iterations", maxIterations)
		}

		flow, err := s.control(f, b, nil)
		if err != nil || flow.Return {
			return flow, err
		}
	}
}

func (s *Session) returnDirective(f *frame, arg string) (Flow, error) {
	if !f.function {
		return Flow{}, pkg.ErrSyntax.Errorf("@return outside a function")
	}

	v, err := s.evaluate(f, arg)
	if err != nil {
		return Flow{}, err
	}

	return Flow{Return: true, Value: v}, nil
}

// extend records the selectors the rule of f extends.
func (s *Session) extend(f *frame, arg string) error {
	optional := optionalFlag.MatchString(arg)
	arg = optionalFlag.ReplaceAllString(arg, "")

	text, err := s.interpolate(f, strings.TrimSpace(arg))
	if err != nil {
		return err
	}

	if len(f.rule.Selectors()) == 0 {
		return pkg.ErrSyntax.Errorf("@extend %s outside a rule", text)
	}

	targets, err := selector.Parse(text)
	if err != nil {
		return err
	}

	for _, t := range targets {
		f.rule.Extends = append(f.rule.Extends, Extend{Target: t, Optional: optional})
	}

	return nil
}

// option adjusts the session from "@option key: value, …".
func (s *Session) option(arg string) error {
	for item := range strings.SplitSeq(arg, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		key, val, hasVal := strings.Cut(item, ":")
		key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
		val = strings.TrimSpace(val)

		switch key {
		case "style":
			style, ok := ParseStyle(val)
			if !ok {
				return pkg.ErrValue.Errorf("unknown style %q", val)
			}

			s.opts.style = style
		case "compress":
			on, err := parseSwitch(key, val, hasVal)
			if err != nil {
				return err
			}

			s.opts.style = Legacy
			if on {
				s.opts.style = Compressed
			}
		case "warn_unused":
			on, err := parseSwitch(key, val, hasVal)
			if err != nil {
				return err
			}

			s.opts.warnUnused = on
		case "control_scoping":
			on, err := parseSwitch(key, val, hasVal)
			if err != nil {
				return err
			}

			s.opts.controlScoping = on
		default:
			return pkg.ErrValue.Errorf("unknown @option %q", key)
		}
	}

	return nil
}

func parseSwitch(key, val string, hasVal bool) (bool, error) {
	if !hasVal {
		return true, nil
	}

	switch strings.ToLower(val) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off", "undefined":
		return false, nil
	}

	return false, pkg.ErrValue.Errorf("@option %s expects a boolean, got %q", key, val)
}

// message logs the value of a @warn, @debug or @print directive.
func (s *Session) message(f *frame, b Block, name, arg string) error {
	v, err := s.evaluate(f, arg)
	if err != nil {
		return err
	}

	attrs := []slog.Attr{
		slog.String("message", value.Text(v)),
		slog.String("file", f.file),
		slog.Int("line", b.Line),
	}

	switch name {
	case "@warn":
		s.opts.logger.WarnContext(s.ctx, "@warn", attrs...)
	case "@debug":
		s.opts.logger.DebugContext(s.ctx, "@debug", attrs...)
	default:
		s.opts.logger.InfoContext(s.ctx, "@print", attrs...)
	}

	return nil
}

// variables assigns each "name: value" statement of the body.
func (s *Session) variables(f *frame, b Block) error {
	if err := requireBody(b, "@variables"); err != nil {
		return err
	}

	for v, err := range Locate(b.Body, b.BodyLine) {
		if err != nil {
			return err
		}

		name, text, ok := strings.Cut(v.Header, ":")
		if !ok || v.HasBody {
			return located(pkg.ErrSyntax.Errorf("expected 'name: value' in @variables, got %q", v.Header), f.file, v.Line)
		}

		if err := s.assign(f, name, text); err != nil {
			return located(err, f.file, v.Line)
		}
	}

	return nil
}
