package log

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{" debug ", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"info+2", LevelInfo + 2},
		{"verbose", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	got := slices.Collect(Levels())
	want := []string{"trace", "debug", "info", "warn", "error"}

	if !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}

	for _, name := range want {
		if s := ParseLevel(name).String(); s != name {
			t.Errorf("round trip %q = %q", name, s)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{" Text ", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"json", "text"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestConfig_Options(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatText),
		WithCaller(true),
		WithPretty(false),
		nil,
	)

	if c.level != LevelWarn {
		t.Errorf("level = %v, want %v", c.level, LevelWarn)
	}

	if c.format != FormatText {
		t.Errorf("format = %v, want %v", c.format, FormatText)
	}

	if !c.caller {
		t.Error("caller not enabled")
	}

	if c.pretty {
		t.Error("pretty not disabled")
	}

	if c.mutex == nil {
		t.Error("options did not create a mutex")
	}
}

func TestConfig_WithOutput_NilDiscards(t *testing.T) {
	c := WithOutput(nil)(config{})
	if c.output == nil {
		t.Fatal("nil writer not replaced")
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, time.March, 9, 14, 5, 6, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T14:05:06Z"},
		{"rfc-3339", "2024-03-09T14:05:06Z"},
		{"Kitchen", "2:05PM"},
		{"none", ""},
		{"", ""},
		{"   ", ""},
		{"2006/01/02", "2024/03/09"},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("format(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestConfig_Handler_OmitsTime(t *testing.T) {
	var buf strings.Builder

	l := Make(&buf, WithTimeLayout("none"), WithPretty(false), WithFormat(FormatText))
	l.Info("hello")

	if strings.Contains(buf.String(), "time=") {
		t.Errorf("time not omitted: %s", buf.String())
	}
}
