package expr

import (
	"strconv"
	"strings"

	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

// Flags are the trailing "!" flags of a variable assignment.
type Flags struct {
	Default  bool
	Global   bool
	Optional bool
}

type parser struct {
	sc   *Scanner
	text string
}

func newParser(text string) (*parser, error) {
	sc, err := NewScanner(text)
	if err != nil {
		return nil, err
	}

	return &parser{sc: sc, text: text}, nil
}

// Parse parses a complete expression.
func Parse(text string) (Node, error) {
	n, flags, err := ParseAssignment(text)
	if err != nil {
		return nil, err
	}

	if flags != (Flags{}) {
		return nil, pkg.ErrSyntax.Errorf("unexpected flag in %q", text)
	}

	return n, nil
}

// ParseAssignment parses the right-hand side of a variable assignment,
// which may end with !default, !global or !optional.
func ParseAssignment(text string) (Node, Flags, error) {
	var flags Flags

	p, err := newParser(text)
	if err != nil {
		return nil, flags, err
	}

	n, err := p.commaList()
	if err != nil {
		return nil, flags, err
	}

	for {
		tok, ok := p.sc.Accept(Flag)
		if !ok {
			break
		}

		switch strings.ToLower(tok.Text) {
		case "!default":
			flags.Default = true
		case "!global":
			flags.Global = true
		case "!optional":
			flags.Optional = true
		}
	}

	if _, err := p.sc.Scan(EOF); err != nil {
		return nil, flags, err
	}

	return n, flags, nil
}

// ParseArgList parses call arguments, the text between the parentheses of
// a call.
func ParseArgList(text string) (*ArgList, error) {
	p, err := newParser(text)
	if err != nil {
		return nil, err
	}

	return p.args(EOF)
}

// ParseArgSpec parses a declaration's parameter list, the text between the
// parentheses of "@mixin name(…)" or "@function name(…)".
func ParseArgSpec(text string) (*ArgSpec, error) {
	p, err := newParser(text)
	if err != nil {
		return nil, err
	}

	spec := &ArgSpec{}
	seen := map[string]bool{}
	optional := false

	for p.sc.Peek(0).Kind != EOF {
		if _, ok := p.sc.Accept(Ellipsis); ok {
			spec.Inject = true

			break
		}

		tok, err := p.sc.Scan(VariableToken)
		if err != nil {
			return nil, err
		}

		name := NormalizeName(tok.Text)
		if seen[name] {
			return nil, p.sc.errorf(tok, "duplicate parameter $%s", name)
		}

		seen[name] = true

		if _, ok := p.sc.Accept(Ellipsis); ok {
			spec.Slurp = name

			break
		}

		param := Param{Name: name}

		if _, ok := p.sc.Accept(Colon); ok {
			if param.Default, err = p.spaceList(); err != nil {
				return nil, err
			}

			optional = true
		} else if optional {
			return nil, p.sc.errorf(tok, "required parameter $%s follows optional parameters", name)
		}

		spec.Params = append(spec.Params, param)

		if _, ok := p.sc.Accept(Comma); !ok {
			break
		}
	}

	if _, err := p.sc.Scan(EOF); err != nil {
		return nil, err
	}

	return spec, nil
}

// ParseInterpolation parses free text that may contain "#{…}", such as a
// selector or property name. The result evaluates to an unquoted string.
func ParseInterpolation(text string) (Node, error) {
	parts, err := splitInterpolation(text, false)
	if err != nil {
		return nil, err
	}

	return interpolation(parts, text, false), nil
}

func (p *parser) commaList() (Node, error) {
	first, err := p.spaceList()
	if err != nil {
		return nil, err
	}

	items := []Node{first}

	for p.sc.Peek(0).Kind == Comma {
		p.sc.Scan()

		// trailing comma
		if !p.sc.Peek(0).Kind.startsOperand() {
			break
		}

		n, err := p.spaceList()
		if err != nil {
			return nil, err
		}

		items = append(items, n)
	}

	if len(items) == 1 {
		return first, nil
	}

	return &List{Items: items, Comma: true}, nil
}

func (p *parser) spaceList() (Node, error) {
	first, err := p.or()
	if err != nil {
		return nil, err
	}

	items := []Node{first}

	for p.sc.Peek(0).Kind.startsOperand() {
		n, err := p.or()
		if err != nil {
			return nil, err
		}

		items = append(items, n)
	}

	if len(items) == 1 {
		return first, nil
	}

	return &List{Items: items}, nil
}

func (p *parser) or() (Node, error) {
	x, err := p.and()
	if err != nil {
		return nil, err
	}

	for {
		if _, ok := p.sc.Accept(Or); !ok {
			return x, nil
		}

		y, err := p.and()
		if err != nil {
			return nil, err
		}

		x = &Any{X: x, Y: y}
	}
}

func (p *parser) and() (Node, error) {
	x, err := p.not()
	if err != nil {
		return nil, err
	}

	for {
		if _, ok := p.sc.Accept(And); !ok {
			return x, nil
		}

		y, err := p.not()
		if err != nil {
			return nil, err
		}

		x = &All{X: x, Y: y}
	}
}

func (p *parser) not() (Node, error) {
	if _, ok := p.sc.Accept(NotKeyword); ok {
		x, err := p.not()
		if err != nil {
			return nil, err
		}

		return &Not{X: x}, nil
	}

	return p.comparison()
}

var binaryOps = map[Kind]value.Op{
	Eq: value.OpEq, Ne: value.OpNe, Lt: value.OpLt, Le: value.OpLe, Gt: value.OpGt, Ge: value.OpGe,
	Add: value.OpAdd, Sub: value.OpSub, Mul: value.OpMul, Div: value.OpDiv, Mod: value.OpMod,
}

func (p *parser) comparison() (Node, error) {
	return p.binary(p.additive, Eq, Ne, Lt, Le, Gt, Ge)
}

func (p *parser) additive() (Node, error) {
	return p.binary(p.multiplicative, Add, Sub)
}

func (p *parser) multiplicative() (Node, error) {
	return p.binary(p.unary, Mul, Div, Mod)
}

// binary parses a left-associative chain of operators over operands
// produced by next.
func (p *parser) binary(next func() (Node, error), kinds ...Kind) (Node, error) {
	x, err := next()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.sc.Peek(0)
		if !p.isBinary(tok, kinds) {
			return x, nil
		}

		p.sc.Scan()

		y, err := next()
		if err != nil {
			return nil, err
		}

		x = &Binary{Op: binaryOps[tok.Kind], X: x, Y: y}
	}
}

// isBinary reports whether tok continues a chain of kinds. A minus preceded
// by space but not followed by one starts a negative list item instead.
func (p *parser) isBinary(tok Token, kinds []Kind) bool {
	for _, k := range kinds {
		if tok.Kind != k {
			continue
		}

		if k == Sub && tok.Space && !p.sc.Peek(1).Space {
			return false
		}

		return true
	}

	return false
}

func (p *parser) unary() (Node, error) {
	switch tok := p.sc.Peek(0); tok.Kind {
	case Sub, Add:
		p.sc.Scan()

		x, err := p.unary()
		if err != nil {
			return nil, err
		}

		op := Neg
		if tok.Kind == Add {
			op = Pos
		}

		return &Unary{Op: op, X: x}, nil
	default:
		return p.atom()
	}
}

func (p *parser) atom() (Node, error) {
	tok, err := p.sc.Scan(LParen, Number, Color, VariableToken, Function, RawCall, Word, String, Important)
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case LParen:
		return p.parens()
	case Number:
		return p.number(tok)
	case Color:
		c, err := value.ParseHex(tok.Text)
		if err != nil {
			return nil, p.sc.errorf(tok, "invalid color %q", tok.Text)
		}

		return &Literal{Value: c, Text: tok.Text}, nil
	case VariableToken:
		return &Variable{Name: NormalizeName(tok.Text)}, nil
	case Function:
		if _, err := p.sc.Scan(LParen); err != nil {
			return nil, err
		}

		args, err := p.args(RParen)
		if err != nil {
			return nil, err
		}

		return &Call{Name: tok.Text, Args: args}, nil
	case RawCall:
		parts, err := splitInterpolation(tok.Text, false)
		if err != nil {
			return nil, err
		}

		return interpolation(parts, tok.Text, false), nil
	case String:
		inner := tok.Text[1 : len(tok.Text)-1]

		parts, err := splitInterpolation(inner, true)
		if err != nil {
			return nil, err
		}

		return interpolation(parts, inner, true), nil
	case Important:
		return &Literal{Value: value.Bare("!important"), Text: tok.Text}, nil
	default:
		return p.word(tok)
	}
}

func (p *parser) word(tok Token) (Node, error) {
	if strings.Contains(tok.Text, "#{") {
		parts, err := splitInterpolation(tok.Text, false)
		if err != nil {
			return nil, err
		}

		return interpolation(parts, tok.Text, false), nil
	}

	return &Literal{Value: Keyword(tok.Text), Text: tok.Text}, nil
}

// Keyword returns the value of a bare word: a boolean, null, undefined, a
// color name or otherwise an unquoted string.
func Keyword(word string) value.Value {
	switch word {
	case "true":
		return value.True
	case "false":
		return value.False
	case "null":
		return value.Null{}
	case "undefined":
		return value.Undefined{}
	}

	if c, ok := value.Named(word); ok {
		return c
	}

	return value.Bare(word)
}

func (p *parser) number(tok Token) (Node, error) {
	end := strings.IndexFunc(tok.Text, func(r rune) bool {
		return !('0' <= r && r <= '9') && r != '.'
	})
	if end < 0 {
		end = len(tok.Text)
	}

	f, err := strconv.ParseFloat(tok.Text[:end], 64)
	if err != nil {
		return nil, p.sc.errorf(tok, "invalid number %q", tok.Text)
	}

	return &Literal{Value: value.NewNumber(f, tok.Text[end:]), Text: tok.Text}, nil
}

// parens parses the contents of "(…)" after the opening parenthesis: an
// empty list, a map, or a parenthesised expression.
func (p *parser) parens() (Node, error) {
	if _, ok := p.sc.Accept(RParen); ok {
		return &Parens{X: &List{}}, nil
	}

	first, err := p.spaceList()
	if err != nil {
		return nil, err
	}

	if _, ok := p.sc.Accept(Colon); ok {
		return p.mapLiteral(first)
	}

	items := []Node{first}

	for {
		if _, ok := p.sc.Accept(Comma); !ok {
			break
		}

		if p.sc.Peek(0).Kind == RParen {
			break
		}

		n, err := p.spaceList()
		if err != nil {
			return nil, err
		}

		items = append(items, n)
	}

	if _, err := p.sc.Scan(RParen); err != nil {
		return nil, err
	}

	if len(items) == 1 {
		return &Parens{X: first}, nil
	}

	return &Parens{X: &List{Items: items, Comma: true}}, nil
}

func (p *parser) mapLiteral(key Node) (Node, error) {
	m := &Map{}

	for {
		val, err := p.spaceList()
		if err != nil {
			return nil, err
		}

		m.Pairs = append(m.Pairs, MapPair{Key: key, Value: val})

		if _, ok := p.sc.Accept(Comma); !ok || p.sc.Peek(0).Kind == RParen {
			break
		}

		if key, err = p.spaceList(); err != nil {
			return nil, err
		}

		if _, err := p.sc.Scan(Colon); err != nil {
			return nil, err
		}
	}

	if _, err := p.sc.Scan(RParen); err != nil {
		return nil, err
	}

	return m, nil
}

// args parses call arguments up to and including the closing token end.
func (p *parser) args(end Kind) (*ArgList, error) {
	list := &ArgList{}

	for {
		if _, ok := p.sc.Accept(end); ok || end == EOF && p.sc.Peek(0).Kind == EOF {
			return list, nil
		}

		var arg Arg

		if p.sc.Peek(0).Kind == VariableToken && p.sc.Peek(1).Kind == Colon {
			tok, _ := p.sc.Scan()
			p.sc.Scan()

			arg.Name = NormalizeName(tok.Text)
		}

		n, err := p.spaceList()
		if err != nil {
			return nil, err
		}

		arg.Value = n

		if _, ok := p.sc.Accept(Ellipsis); ok {
			arg.Spread = true
		}

		list.Items = append(list.Items, arg)

		if _, ok := p.sc.Accept(Comma); !ok {
			if _, err := p.sc.Scan(end); err != nil {
				return nil, err
			}

			return list, nil
		}
	}
}

// splitInterpolation splits text around "#{…}" and parses each
// interpolated expression. Quoted text has its escaped quotes unescaped.
func splitInterpolation(text string, quoted bool) ([]Part, error) {
	var parts []Part

	for {
		i := strings.Index(text, "#{")
		if i < 0 {
			break
		}

		end, err := matchInterpolation(text, i)
		if err != nil {
			return nil, err
		}

		n, err := Parse(text[i+2 : end-1])
		if err != nil {
			return nil, err
		}

		if i > 0 {
			parts = append(parts, Part{Text: literalText(text[:i], quoted)})
		}

		parts = append(parts, Part{Expr: n})
		text = text[end:]
	}

	if text != "" || len(parts) == 0 {
		parts = append(parts, Part{Text: literalText(text, quoted)})
	}

	return parts, nil
}

func literalText(text string, quoted bool) string {
	if !quoted {
		return text
	}

	return strings.NewReplacer(`\"`, `"`, `\'`, `'`).Replace(text)
}

// interpolation returns a Literal for text without interpolated parts.
func interpolation(parts []Part, text string, quoted bool) Node {
	if len(parts) == 1 && parts[0].Expr == nil {
		if quoted {
			return &Literal{Value: value.Quoted(parts[0].Text), Text: text}
		}

		return &Literal{Value: value.Bare(parts[0].Text), Text: text}
	}

	return &Interpolation{Parts: parts, Quoted: quoted}
}
