package value

import (
	"strings"

	"github.com/ardnew/scss/pkg"
)

// String is text that was either quoted in source or written as a bare word.
type String struct {
	Text   string
	Quoted bool
}

// Quoted returns a quoted string.
func Quoted(text string) String { return String{Text: text, Quoted: true} }

// Bare returns an unquoted string.
func Bare(text string) String { return String{Text: text} }

func (s String) Kind() Kind { return KindString }

func (s String) Truthy() bool { return true }

// Render returns bare words verbatim and quoted strings in double quotes.
func (s String) Render(Options) (string, error) {
	if !s.Quoted {
		return s.Text, nil
	}

	return quote(s.Text), nil
}

func quote(text string) string {
	q := byte('"')
	if strings.ContainsRune(text, '"') && !strings.ContainsRune(text, '\'') {
		q = '\''
	}

	var b strings.Builder

	b.WriteByte(q)

	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == q:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\a `)
		default:
			b.WriteByte(c)
		}
	}

	b.WriteByte(q)

	return b.String()
}

// concat joins two strings; the result is quoted if either operand is.
func (s String) concat(o String) String {
	return String{Text: s.Text + o.Text, Quoted: s.Quoted || o.Quoted}
}

// repeat implements string * integer.
func (s String) repeat(n Number) (Value, error) {
	if !n.Unitless() || !n.IsInteger() || n.Amount < 0 {
		return nil, pkg.ErrType.Errorf("cannot multiply a string by %s", n.debug())
	}

	return String{Text: strings.Repeat(s.Text, n.Int()), Quoted: s.Quoted}, nil
}
