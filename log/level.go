package log

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Level is the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel shows compiler warnings and errors only.
const DefaultLevel = LevelWarn

var levelNames = []struct {
	level Level
	name  string
}{
	{LevelError, "error"},
	{LevelWarn, "warn"},
	{LevelInfo, "info"},
	{LevelDebug, "debug"},
	{LevelTrace, "trace"},
}

// String returns the lowercase name of l. Levels between the named ones
// are rendered relative to the nearest lower level, as "info+2".
func (l Level) String() string {
	for _, n := range levelNames {
		switch {
		case l == n.level:
			return n.name
		case l > n.level:
			return n.name + "+" + strconv.Itoa(int(l-n.level))
		}
	}

	return "trace" + strconv.Itoa(int(l-LevelTrace))
}

// Levels returns the level names from most to least verbose.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := len(levelNames) - 1; i >= 0; i-- {
			if !yield(levelNames[i].name) {
				return
			}
		}
	}
}

// ParseLevel parses a level name, case-insensitively, optionally followed
// by a signed offset as accepted by [slog.Level.UnmarshalText]. Anything
// else yields [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	if rest, ok := cutFold(s, "trace"); ok {
		if rest == "" {
			return LevelTrace
		}

		if n, err := strconv.Atoi(rest); err == nil {
			return LevelTrace + Level(n)
		}

		return DefaultLevel
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

func cutFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}

	return s[len(prefix):], true
}

// Format is the encoding of log records.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}

// Formats returns the format names.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatText, FormatJSON} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat parses "text" or "json". Anything else yields
// [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return DefaultFormat
	}
}
