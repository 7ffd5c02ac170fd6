// Package profile starts optional runtime profiling of the wordy
// interpreter using [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	wordy --pprof-mode cpu run script.wdy
//	go tool pprof wordy ~/.cache/wordy/pprof/cpu.pprof
//
// Without the tag [Modes] is empty and [Profiler.Start] always returns a
// no-op [Stopper], so callers never need to check the build
// configuration.
//
// With the tag the package also imports [net/http/pprof], which
// registers the /debug/pprof/ handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
