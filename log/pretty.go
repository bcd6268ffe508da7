package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette holds the colors used by the pretty handlers. Colors are forced on
// because the handlers are only selected when the user asked for them.
type palette struct {
	key, str, num, time, dur, yes, no, null *color.Color
	level                                   map[slog.Level]*color.Color
}

//nolint:gochecknoglobals
var colors = sync.OnceValue(func() palette {
	mk := func(a ...color.Attribute) *color.Color {
		c := color.New(a...)
		c.EnableColor()

		return c
	}

	return palette{
		key:  mk(color.FgHiBlack),
		str:  mk(color.FgCyan),
		num:  mk(color.FgYellow),
		time: mk(color.FgBlue),
		dur:  mk(color.FgMagenta),
		yes:  mk(color.FgGreen),
		no:   mk(color.FgRed),
		null: mk(color.FgHiBlack),
		level: map[slog.Level]*color.Color{
			slog.Level(LevelTrace): mk(color.FgHiBlue),
			slog.LevelDebug:        mk(color.FgBlue),
			slog.LevelInfo:         mk(color.FgGreen),
			slog.LevelWarn:         mk(color.FgYellow),
			slog.LevelError:        mk(color.FgRed, color.Bold),
		},
	}
})

func (p palette) levelColor(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return p.level[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.level[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.level[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return p.level[slog.LevelDebug]
	default:
		return p.level[slog.Level(LevelTrace)]
	}
}

// value renders v in the color of its kind.
func (p palette) value(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return p.str.Sprint(v.String())
	case slog.KindInt64:
		return p.num.Sprint(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Sprint(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Sprint(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Sprint("true")
		}

		return p.no.Sprint("false")
	case slog.KindDuration:
		return p.dur.Sprint(v.Duration().String())
	case slog.KindTime:
		return p.time.Sprint(v.Time().Format(time.RFC3339))
	case slog.KindAny:
		switch a := v.Any().(type) {
		case nil:
			return p.null.Sprint("null")
		case slog.Level:
			return p.levelColor(a).Sprint(strings.ToUpper(Level(a).String()))
		case error:
			return p.no.Sprint(a.Error())
		}
	}

	return p.str.Sprint(v.String())
}

// prettyHandler carries the state shared by both pretty encodings.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

// fields returns the record header and attributes in output order, after
// ReplaceAttr and group qualification.
func (h *prettyHandler) fields(r slog.Record) []slog.Attr {
	head := []slog.Attr{}
	if !r.Time.IsZero() {
		head = append(head, slog.Time(slog.TimeKey, r.Time))
	}

	head = append(head, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			head = append(head,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	head = append(head, slog.String(slog.MessageKey, r.Message))

	out := make([]slog.Attr, 0, len(head)+len(h.attrs)+r.NumAttrs())

	for _, a := range head {
		if h.opts.ReplaceAttr != nil && a.Key != slog.LevelKey {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			out = append(out, a)
		}
	}

	prefix := strings.Join(h.groups, ".")
	qualify := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
			a = h.opts.ReplaceAttr(h.groups, a)
		}

		if a.Key == "" {
			return
		}

		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}

		out = append(out, a)
	}

	out = append(out, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		qualify(a)

		return true
	})

	return out
}

func (h *prettyHandler) write(b []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(b)

	return err
}

func (h *prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	c := *h

	prefix := strings.Join(h.groups, ".")

	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)
	if prefix != "" {
		for i := len(h.attrs); i < len(c.attrs); i++ {
			c.attrs[i].Key = prefix + "." + c.attrs[i].Key
		}
	}

	return c
}

func (h *prettyHandler) withGroup(name string) prettyHandler {
	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return c
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	p := colors()

	var buf bytes.Buffer

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(p.key.Sprint(a.Key))
		buf.WriteByte('=')
		buf.WriteString(p.value(a.Value))
	}

	buf.WriteByte('\n')

	return h.write(buf.Bytes())
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes an indented, colorized object per record. The
// output is meant for terminals and is not strict JSON.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	p := colors()

	var buf bytes.Buffer

	buf.WriteString("{\n")

	fields := h.fields(r)
	for i, a := range fields {
		buf.WriteString("  ")
		buf.WriteString(p.key.Sprint(a.Key))
		buf.WriteString(": ")
		buf.WriteString(p.value(a.Value))

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")

	return h.write(buf.Bytes())
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
