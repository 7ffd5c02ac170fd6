package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette colors the parts of a pretty record. Colors are suppressed when
// [color.NoColor] is set, which fatih/color does automatically when stdout
// is not a terminal.
type palette struct {
	key, text, number, boolean, null, duration, stamp *color.Color
	levels                                            map[Level]*color.Color
}

var colors = sync.OnceValue(func() palette {
	return palette{
		key:      color.New(color.FgHiBlack),
		text:     color.New(color.FgCyan),
		number:   color.New(color.FgYellow),
		boolean:  color.New(color.FgGreen),
		null:     color.New(color.FgHiBlack, color.Italic),
		duration: color.New(color.FgMagenta),
		stamp:    color.New(color.FgBlue),
		levels: map[Level]*color.Color{
			LevelTrace: color.New(color.FgHiMagenta),
			LevelDebug: color.New(color.FgBlue),
			LevelInfo:  color.New(color.FgGreen),
			LevelWarn:  color.New(color.FgYellow, color.Bold),
			LevelError: color.New(color.FgRed, color.Bold),
		},
	}
})

func (p palette) level(l slog.Level, quote bool) string {
	name := quoted(strings.ToUpper(Level(l).String()), quote)

	for _, want := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if Level(l) >= want {
			return p.levels[want].Sprint(name)
		}
	}

	return p.levels[LevelTrace].Sprint(name)
}

// prettyHandler is the state shared by the pretty text and JSON handlers:
// preformatted attributes from WithAttrs and the open group prefix.
type prettyHandler struct {
	cfg    config
	mu     *sync.Mutex
	attrs  []slog.Attr // qualified with their group prefix
	prefix string
}

func newPrettyHandler(cfg config) prettyHandler {
	return prettyHandler{cfg: cfg, mu: &sync.Mutex{}}
}

func (h prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.Level(h.cfg.level)
}

func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	h.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return h
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	if name != "" {
		h.prefix += name + "."
	}

	return h
}

// qualify resolves attrs and flattens groups into dotted keys under the
// open group prefix.
func (h prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	var out []slog.Attr

	var walk func(prefix string, attrs []slog.Attr)

	walk = func(prefix string, attrs []slog.Attr) {
		for _, a := range attrs {
			a.Value = a.Value.Resolve()

			if a.Equal(slog.Attr{}) {
				continue
			}

			if a.Value.Kind() == slog.KindGroup {
				sub := prefix
				if a.Key != "" {
					sub += a.Key + "."
				}

				walk(sub, a.Value.Group())

				continue
			}

			out = append(out, slog.Attr{Key: prefix + a.Key, Value: a.Value})
		}
	}

	walk(h.prefix, attrs)

	return out
}

// fields returns the built-in and user attributes of r in output order.
func (h prettyHandler) fields(r slog.Record) []slog.Attr {
	var head []slog.Attr

	if !r.Time.IsZero() {
		if stamp := h.cfg.formatTime(r.Time); stamp != "" {
			head = append(head, slog.String(slog.TimeKey, stamp))
		}
	}

	if h.cfg.caller && r.PC != 0 {
		if src := r.Source(); src != nil {
			head = append(head,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	head = append(head, slog.String(slog.MessageKey, r.Message))

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify([]slog.Attr{a})...)

		return true
	})

	return append(head, attrs...)
}

func (h prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.cfg.output.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct {
	prettyHandler
}

func newPrettyTextHandler(cfg config) *prettyTextHandler {
	return &prettyTextHandler{newPrettyHandler(cfg)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	p := colors()

	buf.WriteString(p.level(r.Level, false))

	for _, a := range h.fields(r) {
		buf.WriteByte(' ')

		if a.Key == slog.MessageKey {
			buf.WriteString(a.Value.String())

			continue
		}

		buf.WriteString(p.key.Sprint(a.Key + "="))
		buf.WriteString(p.value(a.Value, false))
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented, colorized JSON
// object.
type prettyJSONHandler struct {
	prettyHandler
}

func newPrettyJSONHandler(cfg config) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyHandler(cfg)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	p := colors()

	buf.WriteString("{\n  ")
	buf.WriteString(p.key.Sprint(strconv.Quote(slog.LevelKey)))
	buf.WriteString(": ")
	buf.WriteString(p.level(r.Level, true))

	for _, a := range h.fields(r) {
		buf.WriteString(",\n  ")
		buf.WriteString(p.key.Sprint(strconv.Quote(a.Key)))
		buf.WriteString(": ")
		buf.WriteString(p.value(a.Value, true))
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

// value renders v in the color of its kind. With quote set, strings are
// JSON-quoted.
func (p palette) value(v slog.Value, quote bool) string {
	switch v.Kind() {
	case slog.KindString:
		if quote {
			return p.text.Sprint(strconv.Quote(v.String()))
		}

		return p.text.Sprint(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return p.number.Sprint(v.String())

	case slog.KindBool:
		return p.boolean.Sprint(v.String())

	case slog.KindDuration:
		return p.duration.Sprint(quoted(v.Duration().String(), quote))

	case slog.KindTime:
		return p.stamp.Sprint(quoted(v.Time().Format(time.RFC3339Nano), quote))
	}

	a := v.Any()
	if a == nil {
		return p.null.Sprint("null")
	}

	if err, ok := a.(error); ok {
		return p.text.Sprint(quoted(err.Error(), quote))
	}

	if quote {
		if data, err := json.Marshal(a); err == nil {
			return p.text.Sprint(string(data))
		}
	}

	return p.text.Sprint(quoted(v.String(), quote))
}

func quoted(s string, quote bool) string {
	if quote {
		return strconv.Quote(s)
	}

	return s
}
