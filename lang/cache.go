package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/scss/lang/expr"
	"github.com/ardnew/scss/log"
	"github.com/ardnew/scss/pkg"
)

// memo caches the result of parsing text. Entries are keyed by the xxh3
// hash of the text and keep the text itself, so a hash collision is a
// miss rather than a wrong answer.
type memo[T any] struct {
	entries map[uint64]memoEntry[T]
	hits    int
}

type memoEntry[T any] struct {
	text string
	val  T
	err  error
}

func (m *memo[T]) get(text string, parse func(string) (T, error)) (T, error) {
	h := xxh3.HashString(text)

	if e, ok := m.entries[h]; ok && e.text == text {
		m.hits++

		return e.val, e.err
	}

	if m.entries == nil {
		m.entries = map[uint64]memoEntry[T]{}
	}

	v, err := parse(text)
	m.entries[h] = memoEntry[T]{text: text, val: v, err: err}

	return v, err
}

func (m *memo[T]) len() int { return len(m.entries) }

// assignment is a parsed variable assignment.
type assignment struct {
	node  expr.Node
	flags expr.Flags
}

func parseAssignment(text string) (assignment, error) {
	n, flags, err := expr.ParseAssignment(text)

	return assignment{node: n, flags: flags}, err
}

// CacheStats reports the sizes and hit counts of the session's parse
// caches.
func (s *Session) CacheStats() []slog.Attr {
	return []slog.Attr{
		slog.Int("expressions", s.exprs.len()+s.interps.len()+s.assigns.len()),
		slog.Int("arguments", s.argLists.len()+s.argSpecs.len()),
		slog.Int("hits", s.exprs.hits+s.interps.hits+s.assigns.hits+s.argLists.hits+s.argSpecs.hits),
	}
}

// ReadSource reads the whole of r as the source loaded from path. Reads
// are prefetched asynchronously.
func ReadSource(ctx context.Context, path string, r io.Reader) (Source, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return Source{}, pkg.ErrReadInput.Wrap(err).
			With(slog.String("source", sourceName(path)))
	}

	log.TraceContext(
		ctx,
		"read input",
		slog.String("source", sourceName(path)),
		slog.Int("source_bytes", len(data)),
		slog.String("source_hash", strconv.FormatUint(xxh3.Hash(data), 36)),
	)

	return NewSource(path, string(data)), nil
}

func sourceName(path string) string {
	if path == "" {
		return "<string>"
	}

	return path
}
