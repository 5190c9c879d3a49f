package log

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// consoleStyles color the parts of a console record. The renderer drops
// the colors when the output is not a color terminal.
type consoleStyles struct {
	faint   lipgloss.Style
	message lipgloss.Style
	levels  map[slog.Level]lipgloss.Style
	failure lipgloss.Style
}

func newConsoleStyles(w io.Writer) *consoleStyles {
	r := lipgloss.NewRenderer(w)

	level := func(color string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	}

	return &consoleStyles{
		faint:   r.NewStyle().Faint(true),
		message: r.NewStyle().Bold(true),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): level("8"),
			slog.LevelDebug:        level("4"),
			slog.LevelInfo:         level("2"),
			slog.LevelWarn:         level("3"),
			slog.LevelError:        level("1"),
		},
		failure: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (s *consoleStyles) level(l slog.Level) lipgloss.Style {
	for _, at := range []slog.Level{slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug} {
		if l >= at {
			return s.levels[at]
		}
	}

	return s.levels[slog.Level(LevelTrace)]
}

// consoleHandler writes one colored line per record:
//
//	15:04:05 WARN  unused import file=_grid.scss
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   slog.HandlerOptions
	layout string
	styles *consoleStyles
	attrs  string // preformatted by WithAttrs
	group  string // dotted prefix from WithGroup
}

func newConsoleHandler(w io.Writer, layout string, opts *slog.HandlerOptions) *consoleHandler {
	return &consoleHandler{
		mu:     &sync.Mutex{},
		w:      w,
		opts:   *opts,
		layout: layout,
		styles: newConsoleStyles(w),
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if h.layout != "" && !r.Time.IsZero() {
		b.WriteString(h.styles.faint.Render(r.Time.Format(h.layout)))
		b.WriteByte(' ')
	}

	name := strings.ToUpper(Level(r.Level).String())
	b.WriteString(h.styles.level(r.Level).Render(name))
	b.WriteString(strings.Repeat(" ", max(1, 6-len(name))))

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		b.WriteString(h.styles.faint.Render(filepath.Base(frame.File) + ":" + strconv.Itoa(frame.Line)))
		b.WriteByte(' ')
	}

	b.WriteString(h.styles.message.Render(r.Message))
	b.WriteString(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, h.group, a)

		return true
	})

	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, b.String())

	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var b strings.Builder

	b.WriteString(h.attrs)

	for _, a := range attrs {
		h.appendAttr(&b, h.group, a)
	}

	c := *h
	c.attrs = b.String()

	return &c
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group += name + "."

	return &c
}

func (h *consoleHandler) appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.appendAttr(b, prefix, ga)
		}

		return
	}

	b.WriteByte(' ')
	b.WriteString(h.styles.faint.Render(prefix + a.Key + "="))

	text := h.valueText(a.Value)
	if a.Key == "error" {
		text = h.styles.failure.Render(text)
	}

	b.WriteString(text)
}

func (h *consoleHandler) valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return quoteIfNeeded(v.String())
	case slog.KindTime:
		layout := h.layout
		if layout == "" {
			layout = time.RFC3339
		}

		return v.Time().Format(layout)
	default:
		return quoteIfNeeded(v.String())
	}
}

// quoteIfNeeded quotes s when it is empty or holds spaces, quotes, "=" or
// unprintable runes.
func quoteIfNeeded(s string) string {
	if s == "" || strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r)
	}) >= 0 {
		return strconv.Quote(s)
	}

	return s
}
