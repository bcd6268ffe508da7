// Package profile provides optional runtime profiling for saiyan.
//
// Profiling is compiled in only with the "pprof" build tag, which wires
// [github.com/pkg/profile] and registers the [net/http/pprof] handlers.
// Without the tag every operation is a no-op and [Modes] is empty.
//
//	go build -tags pprof .
//	saiyan --pprof-mode=cpu run fib.sai
//	go tool pprof -http=: ~/.cache/saiyan/pprof/cpu.pprof
//
// Supported modes: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread, trace.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
