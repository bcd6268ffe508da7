//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// Modes returns the sorted profiling modes. The "quiet" option is not a mode
// and is omitted.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(mode))
	},
)

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

// control accumulates the options passed to [profile.Start].
type control []func(*profile.Profile)

type option func(control) control

func (c control) with(opts ...option) control {
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

func start(m, path string, quiet bool) Stopper {
	c := control(nil).with(withMode(m))
	if len(c) == 0 {
		return ignore{}
	}

	return profile.Start(c.with(withPath(path), withQuiet(quiet))...)
}

func withMode(m string) option {
	return func(c control) control {
		if fn, ok := mode[m]; ok {
			c = append(c, fn)
		}

		return c
	}
}

func withPath(p string) option {
	return func(c control) control {
		if p != "" {
			c = append(c, profile.ProfilePath(p))
		}

		return c
	}
}

func withQuiet(v bool) option {
	return func(c control) control {
		if v {
			c = append(c, profile.Quiet)
		}

		return c
	}
}
