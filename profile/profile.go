package profile

// Profiler describes a profiling session.
type Profiler struct {
	// Mode names the profile to collect. See [Modes].
	Mode string
	// Path is the directory profiles are written to. Empty selects a
	// temporary directory.
	Path string
	// Quiet suppresses the profiler's own messages on stderr.
	Quiet bool
}

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// Start begins profiling and returns a [Stopper] that writes the profile.
// It returns a no-op Stopper when Mode is empty or unsupported, and always
// when built without the pprof tag.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return nop{}
	}

	return start(p)
}

type nop struct{}

func (nop) Stop() {}
