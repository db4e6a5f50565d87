//go:build pprof

package profile

import (
	"maps"
	"slices"

	"github.com/pkg/profile"
)

// Enabled reports whether profiling support is compiled in.
const Enabled = true

//nolint:gochecknoglobals
var mode = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Modes returns the supported profiling modes in sorted order.
func Modes() []string {
	return slices.Sorted(maps.Keys(mode))
}

func start(p Profiler) Stopper {
	fn, ok := mode[p.Mode]
	if !ok {
		return nop{}
	}

	opts := []func(*profile.Profile){fn, profile.NoShutdownHook}

	if p.Path != "" {
		opts = append(opts, profile.ProfilePath(p.Path))
	}

	if p.Quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
