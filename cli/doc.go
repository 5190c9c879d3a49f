// Package cli is the command line interface of scss.
//
// [Run] parses the arguments with kong and runs the selected command from
// package cmd; compile is the default, so
//
//	scss -t compressed -I vendor style.scss
//
// compiles style.scss. Flag defaults may be set in config.yaml (or
// config.json) under the user configuration directory, as written by
// "scss init". Logging is configured by the --log-* flags and, in builds
// with the pprof tag, profiling by --pprof-mode and --pprof-dir.
package cli
