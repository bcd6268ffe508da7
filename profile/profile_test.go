package profile

import (
	"slices"
	"testing"
)

func TestProfiler_StartDisabled(t *testing.T) {
	tests := []struct {
		name string
		p    Profiler
	}{
		{"zero", Profiler{}},
		{"unknown mode", Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.p.Start()
			if s == nil {
				t.Fatal("Start returned nil")
			}

			s.Stop()
		})
	}
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v is not sorted", modes)
	}

	if slices.Contains(modes, "quiet") || Enabled("quiet") {
		t.Error("quiet listed as a mode")
	}

	for _, m := range modes {
		if !Enabled(m) {
			t.Errorf("Enabled(%q) = false", m)
		}
	}
}
