// Package profile provides optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling support is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without it, [Modes] is empty and [Profiler.Start] always returns a no-op
// [Stopper], so callers need no build constraints of their own.
//
// # Modes
//
//   - allocs:    memory allocations, all of them
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock time (fgprof)
//   - cpu:       CPU time
//   - goroutine: goroutine stacks
//   - heap:      live heap allocations
//   - mem:       memory allocations, sampled
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// # Usage
//
//	stop := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}.Start()
//	defer stop.Stop()
//
// The profile is written to Path when Stop is called. Analyze it with
//
//	go tool pprof -http=: cpu.pprof
//
// or, for the trace mode,
//
//	go tool trace trace.out
package profile
