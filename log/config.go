package log

import (
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log record. It extends [slog.Level] with
// [LevelTrace], which the interpreter uses for per-node evaluation events.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is used when no level is configured or a level fails to parse.
const DefaultLevel = LevelInfo

var levelName = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

func (l Level) String() string {
	if s, ok := levelName[l]; ok {
		return s
	}

	return strings.ToLower(slog.Level(l).String())
}

// Levels yields the names of all predefined levels, most verbose first.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range []Level{
			LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError,
		} {
			if !yield(l.String()) {
				return
			}
		}
	}
}

// ParseLevel returns the level named by s. Names are case-insensitive and
// accept the offset syntax of [slog.Level.UnmarshalText] ("info+2").
// Unrecognized input yields [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format selects the record encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = FormatJSON

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}

// Formats yields the names of all supported formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatJSON, FormatText} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat returns the format named by s, or [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return DefaultFormat
	}
}

// FormatTime renders a record timestamp. An empty result omits the time.
type FormatTime func(time.Time) string

const (
	DefaultTimeLayout = time.RFC3339
	DefaultCaller     = false
	DefaultPretty     = true
)

type config struct {
	mutex      *sync.RWMutex
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	return apply(config{mutex: &sync.RWMutex{}}, append([]Option{WithDefaults(w)}, opts...)...)
}

// clone copies c with a fresh mutex so the copy can be mutated independently.
func (c config) clone(opts ...Option) config {
	c.mutex = &sync.RWMutex{}

	return apply(c, opts...)
}

// locked runs fn while holding the write lock of c, creating the lock if c
// has none.
func (c config) locked(fn func(*config)) config {
	if c.mutex == nil {
		c.mutex = &sync.RWMutex{}
	} else {
		c.mutex.Lock()
		defer c.mutex.Unlock()
	}

	fn(&c)

	return c
}

func (c config) handlerOptions() *slog.HandlerOptions {
	formatTime := c.formatTime
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return &slog.HandlerOptions{
		AddSource: c.caller,
		Level:     slog.Level(c.level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				if t, ok := a.Value.Any().(time.Time); ok {
					s := formatTime(t)
					if s == "" {
						return slog.Attr{}
					}

					a.Value = slog.StringValue(s)
				}

			case slog.LevelKey:
				if l, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
				}
			}

			return a
		},
	}
}

func (c config) handler() slog.Handler {
	out, opts := c.output, c.handlerOptions()
	if out == nil {
		return slog.DiscardHandler
	}

	switch {
	case c.pretty && c.format == FormatText:
		return newPrettyTextHandler(out, opts)
	case c.pretty && c.format == FormatJSON:
		return newPrettyJSONHandler(out, opts)
	case c.format == FormatText:
		return slog.NewTextHandler(out, opts)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(out, opts)
	default:
		return slog.DiscardHandler
	}
}

// WithDefaults resets every setting to its default and directs output to w
// ([io.Discard] if nil).
func WithDefaults(w io.Writer) Option {
	return func(c config) config {
		return c.locked(func(c *config) {
			if w == nil {
				w = io.Discard
			}

			c.output = w
			c.formatTime = makeFormatTimeFunc(DefaultTimeLayout)
			c.level = DefaultLevel
			c.format = DefaultFormat
			c.caller = DefaultCaller
			c.pretty = DefaultPretty
		})
	}
}

// WithOutput directs output to w ([io.Discard] if nil).
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		return c.locked(func(c *config) {
			if w == nil {
				w = io.Discard
			}

			c.output = w
		})
	}
}

// WithLevel discards records below level.
func WithLevel(level Level) Option {
	return func(c config) config {
		return c.locked(func(c *config) { c.level = level })
	}
}

// WithFormat selects the record encoding.
func WithFormat(format Format) Option {
	return func(c config) config {
		return c.locked(func(c *config) { c.format = format })
	}
}

// WithTimeLayout sets the timestamp layout. Named layouts from package time
// ("RFC3339", "Kitchen", "StampMilli", ...) are recognized case-insensitively;
// anything else is used verbatim. An empty layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	fn := makeFormatTimeFunc(layout)

	return func(c config) config {
		return c.locked(func(c *config) { c.formatTime = fn })
	}
}

// WithCaller includes the calling source location in each record.
func WithCaller(enable bool) Option {
	return func(c config) config {
		return c.locked(func(c *config) { c.caller = enable })
	}
}

// WithPretty enables colorized output.
func WithPretty(enable bool) Option {
	return func(c config) config {
		return c.locked(func(c *config) { c.pretty = enable })
	}
}

var namedLayout = map[string]string{
	"none":        "",
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"ms":          time.StampMilli,
	"stampmicro":  time.StampMicro,
	"us":          time.StampMicro,
	"stampnano":   time.StampNano,
	"ns":          time.StampNano,
}

func makeFormatTimeFunc(layout string) FormatTime {
	key := strings.Map(
		func(r rune) rune {
			if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
				return r
			}

			return -1
		},
		strings.ToLower(layout),
	)

	if std, ok := namedLayout[key]; ok {
		layout = std
	}

	if strings.TrimSpace(layout) == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
