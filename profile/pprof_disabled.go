//go:build !pprof

package profile

// Modes returns no modes without the pprof build tag.
func Modes() []string { return nil }

func start(Profiler) interface{ Stop() } { return nop{} }
