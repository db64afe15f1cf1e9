// Package profile provides optional runtime profiling for webuild.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	webuild --pprof-mode cpu --pprof-dir ./prof site.blueprint
//
// Without the tag, [Modes] is empty and [Profiler.Start] always returns a
// no-op, so callers need no build constraints of their own.
//
// Profiles are written by [github.com/pkg/profile] into the configured
// directory as <mode>.pprof and can be inspected with:
//
//	go tool pprof -http=: ./prof/cpu.pprof
//
// The pprof build also registers the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
