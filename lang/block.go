package lang

import (
	"iter"
	"strings"

	"github.com/ardnew/scss/pkg"
)

// Block is one statement of a rule body: either a bare statement ended by
// ";" or a header followed by a braced body.
type Block struct {
	// Line is the line of the first character of Header.
	Line   int
	Header string
	// Body is the text between the braces, untrimmed so that BodyLine
	// plus its newlines locates every character.
	Body     string
	BodyLine int
	HasBody  bool
}

// Locate splits text into blocks. The line of the first character of text
// is line. Braces inside quoted strings, parentheses and "#{…}" do not
// open or close blocks. The sequence stops after yielding an error, which
// wraps [pkg.ErrSyntax] for unbalanced input.
func Locate(text string, line int) iter.Seq2[Block, error] {
	return func(yield func(Block, error) bool) {
		l := locator{text: text, lines: newLineCounter(text, line)}
		l.run(yield)
	}
}

type locator struct {
	text  string
	lines *lineCounter
}

func (l *locator) run(yield func(Block, error) bool) {
	var (
		depth, paren, interp int
		quote                byte
		quoteAt, parenAt     int
		start, open          int
		header               string
	)

	for i := 0; i < len(l.text); i++ {
		c := l.text[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}

			continue
		}

		switch c {
		case '"', '\'':
			quote, quoteAt = c, i
		case '(':
			if paren == 0 {
				parenAt = i
			}

			paren++
		case ')':
			if paren == 0 {
				yield(Block{}, l.errorf(i, "unexpected ')'"))

				return
			}

			paren--
		case '{':
			switch {
			case paren > 0:
			case i > 0 && l.text[i-1] == '#':
				interp++
			default:
				if depth == 0 {
					header, open = l.text[start:i], i
				}

				depth++
			}
		case '}':
			switch {
			case paren > 0:
			case interp > 0:
				interp--
			case depth == 0:
				yield(Block{}, l.errorf(i, "unexpected '}'"))

				return
			default:
				depth--
				if depth > 0 {
					continue
				}

				b := Block{
					Line:     l.headerLine(start, header),
					Header:   strings.TrimSpace(header),
					Body:     l.text[open+1 : i],
					BodyLine: l.lines.at(open),
					HasBody:  true,
				}
				if !yield(b, nil) {
					return
				}

				start = i + 1
			}
		case ';':
			if depth > 0 || paren > 0 || interp > 0 {
				continue
			}

			if stmt := strings.TrimSpace(l.text[start:i]); stmt != "" {
				if !yield(Block{Line: l.headerLine(start, l.text[start:i]), Header: stmt}, nil) {
					return
				}
			}

			start = i + 1
		}
	}

	switch {
	case quote != 0:
		yield(Block{}, l.errorf(quoteAt, "unterminated string"))
	case paren > 0:
		yield(Block{}, l.errorf(parenAt, "unclosed '('"))
	case depth > 0:
		yield(Block{}, l.errorf(open, "unclosed '{'"))
	default:
		if stmt := strings.TrimSpace(l.text[start:]); stmt != "" {
			yield(Block{Line: l.headerLine(start, l.text[start:]), Header: stmt}, nil)
		}
	}
}

// headerLine returns the line of the first non-space character of header,
// which starts at offset start.
func (l *locator) headerLine(start int, header string) int {
	return l.lines.at(start + len(header) - len(strings.TrimLeft(header, " \t\r\n\f")))
}

func (l *locator) errorf(offset int, format string, args ...any) error {
	line := l.lines.at(offset)
	column := offset - strings.LastIndexByte(l.text[:offset], '\n')

	return pkg.ErrSyntax.Errorf(format, args...).WithPosition(pkg.Position{
		Offset: offset,
		Line:   line,
		Column: column,
	})
}

// lineCounter maps offsets to line numbers. Queries are cheapest when they
// arrive in increasing order, as the locator makes them.
type lineCounter struct {
	text   string
	offset int
	line   int
	first  int
}

func newLineCounter(text string, line int) *lineCounter {
	return &lineCounter{text: text, line: line, first: line}
}

func (c *lineCounter) at(offset int) int {
	if offset < c.offset {
		c.offset, c.line = 0, c.first
	}

	c.line += strings.Count(c.text[c.offset:offset], "\n")
	c.offset = offset

	return c.line
}
