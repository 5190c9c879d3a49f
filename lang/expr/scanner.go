package expr

import (
	"slices"
	"strings"

	"github.com/ardnew/scss/pkg"
)

// rawFunctions take their arguments verbatim; only interpolation applies.
var rawFunctions = map[string]bool{
	"url":          true,
	"calc":         true,
	"-webkit-calc": true,
	"-moz-calc":    true,
	"var":          true,
	"env":          true,
	"expression":   true,
}

// Scanner splits expression text into tokens and serves them to a
// predictive parser.
type Scanner struct {
	text   string
	tokens []Token
	next   int
}

// NewScanner tokenizes text.
func NewScanner(text string) (*Scanner, error) {
	l := lexer{text: text}
	if err := l.run(); err != nil {
		return nil, err
	}

	return &Scanner{text: text, tokens: l.tokens}, nil
}

// Peek returns the token n places ahead without consuming anything.
func (s *Scanner) Peek(n int) Token {
	if i := s.next + n; i < len(s.tokens) {
		return s.tokens[i]
	}

	return Token{Kind: EOF, Pos: len(s.text)}
}

// Scan consumes the next token. If restrict is not empty the token must be
// one of the given kinds.
func (s *Scanner) Scan(restrict ...Kind) (Token, error) {
	tok := s.Peek(0)

	if len(restrict) > 0 && !slices.Contains(restrict, tok.Kind) {
		return tok, s.errorf(tok, "expected %s, found %s", kindList(restrict), describe(tok))
	}

	if tok.Kind != EOF {
		s.next++
	}

	return tok, nil
}

// Accept consumes the next token if it is of kind k.
func (s *Scanner) Accept(k Kind) (Token, bool) {
	if tok := s.Peek(0); tok.Kind == k {
		s.next++

		return tok, true
	}

	return Token{}, false
}

func (s *Scanner) errorf(tok Token, format string, args ...any) error {
	return pkg.ErrSyntax.Errorf(format, args...).
		WithPosition(position(s.text, tok.Pos))
}

func kindList(kinds []Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}

	return strings.Join(names, " or ")
}

func describe(tok Token) string {
	if tok.Kind == EOF {
		return tok.Kind.String()
	}

	return "\"" + tok.Text + "\""
}

// position converts a byte offset of text to a line and column.
func position(text string, offset int) pkg.Position {
	offset = min(offset, len(text))
	line := 1 + strings.Count(text[:offset], "\n")
	col := offset - strings.LastIndexByte(text[:offset], '\n')

	return pkg.Position{Offset: offset, Line: line, Column: col}
}

type lexer struct {
	text   string
	pos    int
	space  bool
	tokens []Token
}

func (l *lexer) emit(k Kind, start int) {
	l.tokens = append(l.tokens, Token{Kind: k, Text: l.text[start:l.pos], Pos: start, Space: l.space})
	l.space = false
}

func (l *lexer) fail(start int, format string, args ...any) error {
	return pkg.ErrSyntax.Errorf(format, args...).WithPosition(position(l.text, start))
}

func (l *lexer) peek(n int) byte {
	if i := l.pos + n; i < len(l.text) {
		return l.text[i]
	}

	return 0
}

func (l *lexer) run() error {
	for l.pos < len(l.text) {
		c := l.text[l.pos]
		start := l.pos

		if isSpace(c) {
			l.pos++
			l.space = true

			continue
		}

		var err error

		switch {
		case c == '(' || c == '[':
			l.pos++
			l.emit(LParen, start)
		case c == ')' || c == ']':
			l.pos++
			l.emit(RParen, start)
		case c == ',':
			l.pos++
			l.emit(Comma, start)
		case c == ':':
			l.pos++
			l.emit(Colon, start)
		case c == '.' && l.peek(1) == '.' && l.peek(2) == '.':
			l.pos += 3
			l.emit(Ellipsis, start)
		case isDigit(c) || (c == '.' && isDigit(l.peek(1))):
			l.number()
		case c == '$':
			err = l.variable()
		case c == '"' || c == '\'':
			err = l.quoted()
		case c == '#' && l.peek(1) != '{':
			err = l.hash()
		case c == '-' && (isNameStart(l.peek(1)) || l.peek(1) == '-' || l.peek(1) == '\\' ||
			(l.peek(1) == '#' && l.peek(2) == '{')):
			err = l.word()
		case isNameStart(c) || c == '\\' || c == '#' || c == '&':
			err = l.word()
		case c == '!':
			err = l.bang()
		default:
			err = l.operator()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (l *lexer) operator() error {
	start := l.pos
	two := l.text[l.pos:min(l.pos+2, len(l.text))]

	switch two {
	case "==":
		l.pos += 2
		l.emit(Eq, start)

		return nil
	case "<=":
		l.pos += 2
		l.emit(Le, start)

		return nil
	case ">=":
		l.pos += 2
		l.emit(Ge, start)

		return nil
	}

	kinds := map[byte]Kind{'+': Add, '-': Sub, '*': Mul, '/': Div, '%': Mod, '<': Lt, '>': Gt}

	k, ok := kinds[l.text[l.pos]]
	if !ok {
		return l.fail(start, "unexpected character %q", l.text[l.pos])
	}

	l.pos++
	l.emit(k, start)

	return nil
}

func (l *lexer) bang() error {
	start := l.pos

	if l.peek(1) == '=' {
		l.pos += 2
		l.emit(Ne, start)

		return nil
	}

	l.pos++
	for l.pos < len(l.text) && isNameChar(l.text[l.pos]) {
		l.pos++
	}

	switch strings.ToLower(l.text[start:l.pos]) {
	case "!important":
		l.emit(Important, start)
	case "!default", "!global", "!optional":
		l.emit(Flag, start)
	default:
		return l.fail(start, "unknown flag %q", l.text[start:l.pos])
	}

	return nil
}

func (l *lexer) number() {
	start := l.pos

	for l.pos < len(l.text) && isDigit(l.text[l.pos]) {
		l.pos++
	}

	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		l.pos++
		for l.pos < len(l.text) && isDigit(l.text[l.pos]) {
			l.pos++
		}
	}

	switch {
	case l.peek(0) == '%':
		l.pos++
	case isLetter(l.peek(0)):
		for l.pos < len(l.text) && isLetter(l.text[l.pos]) {
			l.pos++
		}
	}

	l.emit(Number, start)
}

func (l *lexer) variable() error {
	start := l.pos
	l.pos++

	for l.pos < len(l.text) && isNameChar(l.text[l.pos]) {
		l.pos++
	}

	if l.pos == start+1 {
		return l.fail(start, "expected variable name after $")
	}

	l.emit(VariableToken, start)

	return nil
}

// hash scans a hex color, or a word such as an id when the digits are not
// a valid color.
func (l *lexer) hash() error {
	start := l.pos
	end := l.pos + 1

	for end < len(l.text) && isHex(l.text[end]) {
		end++
	}

	switch n := end - start - 1; {
	case (n == 3 || n == 4 || n == 6 || n == 8) && (end == len(l.text) || !isNameChar(l.text[end])):
		l.pos = end
		l.emit(Color, start)

		return nil
	default:
		return l.word()
	}
}

func (l *lexer) word() error {
	start := l.pos

	if l.text[l.pos] == '&' {
		l.pos++
		l.emit(Word, start)

		return nil
	}

	if l.text[l.pos] == '#' && l.peek(1) != '{' {
		l.pos++
	}

	plain := true

scan:
	for l.pos < len(l.text) {
		c := l.text[l.pos]

		switch {
		case isNameChar(c):
			l.pos++
		case c == '\\' && l.pos+1 < len(l.text):
			l.pos += 2
		case c == '#' && l.peek(1) == '{':
			end, err := matchInterpolation(l.text, l.pos)
			if err != nil {
				return err
			}

			l.pos = end
			plain = false
		default:
			break scan
		}
	}

	name := l.text[start:l.pos]

	if l.pos == start {
		return l.fail(start, "unexpected character %q", l.text[start])
	}

	if plain {
		switch name {
		case "and":
			l.emit(And, start)

			return nil
		case "or":
			l.emit(Or, start)

			return nil
		case "not":
			l.emit(NotKeyword, start)

			return nil
		}
	}

	if !plain || l.peek(0) != '(' {
		l.emit(Word, start)

		return nil
	}

	if rawFunctions[strings.ToLower(name)] {
		end, err := matchParen(l.text, l.pos)
		if err != nil {
			return err
		}

		inner := l.text[l.pos+1 : end-1]
		if !strings.EqualFold(name, "url") || !hasVariable(inner) {
			l.pos = end
			l.emit(RawCall, start)

			return nil
		}
	}

	l.emit(Function, start)

	return nil
}

func (l *lexer) quoted() error {
	start := l.pos

	end, err := matchQuote(l.text, l.pos)
	if err != nil {
		return err
	}

	l.pos = end
	l.emit(String, start)

	return nil
}

// matchQuote returns the offset just past the string starting at text[i].
// Interpolations inside the string may hold quotes of their own.
func matchQuote(text string, i int) (int, error) {
	q := text[i]

	for j := i + 1; j < len(text); j++ {
		switch c := text[j]; {
		case c == '\\':
			j++
		case c == '#' && j+1 < len(text) && text[j+1] == '{':
			end, err := matchInterpolation(text, j)
			if err != nil {
				return 0, err
			}

			j = end - 1
		case c == q:
			return j + 1, nil
		}
	}

	return 0, pkg.ErrSyntax.Errorf("unterminated string").WithPosition(position(text, i))
}

// matchInterpolation returns the offset just past the "#{…}" starting at
// text[i].
func matchInterpolation(text string, i int) (int, error) {
	return matchBalanced(text, i+1, '{', '}')
}

// matchParen returns the offset just past the parenthesised group starting
// at text[i].
func matchParen(text string, i int) (int, error) {
	return matchBalanced(text, i, '(', ')')
}

func matchBalanced(text string, i int, open, close byte) (int, error) {
	depth := 0

	for j := i; j < len(text); j++ {
		switch c := text[j]; {
		case c == '\\':
			j++
		case c == '"' || c == '\'':
			end, err := matchQuote(text, j)
			if err != nil {
				return 0, err
			}

			j = end - 1
		case c == '#' && j+1 < len(text) && text[j+1] == '{' && open != '{':
			end, err := matchInterpolation(text, j)
			if err != nil {
				return 0, err
			}

			j = end - 1
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return j + 1, nil
			}
		}
	}

	return 0, pkg.ErrSyntax.Errorf("missing %q", close).WithPosition(position(text, i))
}

// hasVariable reports whether text references a variable outside quotes.
func hasVariable(text string) bool {
	for j := 0; j < len(text); j++ {
		switch text[j] {
		case '"', '\'':
			end, err := matchQuote(text, j)
			if err != nil {
				return false
			}

			j = end - 1
		case '$':
			return true
		}
	}

	return false
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func isHex(c byte) bool { return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F') }

func isNameStart(c byte) bool { return isLetter(c) || c == '_' || c >= 0x80 }

func isNameChar(c byte) bool { return isNameStart(c) || isDigit(c) || c == '-' }
