// Package log wraps [log/slog] with the levels, formats and options used
// throughout scss.
//
// A [Logger] is an immutable value: [Logger.Wrap] and [Logger.With] return
// new loggers, and the zero Logger discards everything, so components can
// carry one without checking it.
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Warn("unused import", slog.String("file", "_grid.scss"))
//
// Besides slog's levels there is [LevelTrace], used for per-rule compiler
// tracing. Output is text or JSON; text output is colored by lipgloss when
// [WithPretty] is set and the terminal supports it.
//
// The package-level functions write to a default logger that the CLI
// configures with [Config].
package log
