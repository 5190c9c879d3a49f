// Package profile starts [github.com/pkg/profile] profilers selected by
// name. Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//	scss --pprof-mode=cpu --pprof-dir=/tmp/prof style.scss
//
// Without the tag [Modes] is empty and [Profiler.Start] does nothing.
package profile

// Tag is the build tag enabling profiling, also used as the name of the
// default profile directory.
const Tag = "pprof"
