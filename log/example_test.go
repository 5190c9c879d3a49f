package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/scss/log"
)

func Example() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false))

	logger.Warn("no rules match @extend target", slog.String("target", ".missing"))
	logger.Info("not shown below the default level")
	// Output:
	// level=WARN msg="no rules match @extend target" target=.missing
}

func Example_console() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithLevel(log.LevelDebug))

	logger.Debug("import resolved", slog.String("file", "_vars.scss"))
	// Output:
	// DEBUG import resolved file=_vars.scss
}
