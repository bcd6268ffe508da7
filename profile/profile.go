package profile

import "slices"

// Profiler describes one profiling session.
type Profiler struct {
	// Mode selects what is profiled; see [Modes]. Empty disables profiling.
	Mode string
	// Path is the directory profile files are written to.
	Path string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling. The returned Stopper is always safe to call, even
// when p.Mode is empty, unknown, or the binary was built without [Tag].
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

// Enabled reports whether mode names a profile supported by this build.
func Enabled(mode string) bool {
	return slices.Contains(Modes(), mode)
}

type ignore struct{}

func (ignore) Stop() {}
