package lang

import (
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// Source is one stylesheet: the path it was loaded from, if any, and its
// text.
type Source struct {
	Path string
	Text string
}

// NewSource returns a Source for text loaded from path.
func NewSource(path, text string) Source {
	return Source{Path: path, Text: text}
}

// Key identifies the source for import bookkeeping. Sources without a path
// are identified by a hash of their text.
func (s Source) Key() string {
	if s.Path != "" {
		return s.Path
	}

	return "string:" + strconv.FormatUint(xxh3.HashString(s.Text), 36)
}

// Name returns the path, or "<string>" for anonymous sources.
func (s Source) Name() string {
	if s.Path != "" {
		return s.Path
	}

	return "<string>"
}

// StripComments blanks out "/* … */" and "// …" comments, keeping every
// newline so offsets stay on their original line. Comment markers inside
// quoted strings and unquoted url(…) arguments are left alone.
func StripComments(text string) string {
	if !strings.Contains(text, "/*") && !strings.Contains(text, "//") {
		return text
	}

	b := []byte(text)

	var (
		quote byte
		url   bool
	)

	for i := 0; i < len(b); i++ {
		c := b[i]

		switch {
		case quote != 0:
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}

			continue
		case url:
			if c == ')' {
				url = false
			}

			continue
		}

		switch {
		case c == '"' || c == '\'':
			quote = c
		case c == '(' && i >= 3 && strings.EqualFold(string(b[i-3:i]), "url"):
			url = true
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				end = len(b)
			} else {
				end += i + 4
			}

			blank(b[i:end])
			i = end - 1
		case c == '/' && i+1 < len(b) && b[i+1] == '/':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				end = len(b)
			} else {
				end += i
			}

			blank(b[i:end])
			i = end - 1
		}
	}

	return string(b)
}

func blank(b []byte) {
	for i, c := range b {
		if c != '\n' {
			b[i] = ' '
		}
	}
}
