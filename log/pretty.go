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

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handlers. Styles are bound to a
// renderer for the handler's output, so colors are emitted only when that
// output is a terminal supporting them.
type palette struct {
	key, str, num, dur, tim, null lipgloss.Style
	yes, no                       lipgloss.Style
	level                         map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		dur:  fg("5"),
		tim:  fg("4"),
		null: fg("8"),
		yes:  fg("2"),
		no:   fg("1"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("4").Faint(true),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2"),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (p palette) levelStyle(l slog.Level) lipgloss.Style {
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

// value renders v without quoting.
func (p palette) value(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.tim.Render(v.Time().Format(time.RFC3339))
	case slog.KindAny:
		switch a := v.Any().(type) {
		case nil:
			return p.null.Render("null")
		case slog.Level:
			return p.levelStyle(a).Render(levelName(a))
		case error:
			return p.no.Render(a.Error())
		}
	}

	return p.str.Render(v.String())
}

// prettyHandler carries what the text and JSON pretty handlers share.
// Attributes added with WithAttrs are resolved once and prefixed with their
// group path.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    palette
	attrs  []slog.Attr
	prefix string
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) prettyHandler {
	return prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w, pal: newPalette(w)}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	out := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(out, h.attrs)

	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		a.Value = a.Value.Resolve()
		out = append(out, a)
	}

	h.attrs = out

	return h
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	if name != "" {
		h.prefix += name + "."
	}

	return h
}

// fields returns the built-in and user attributes of r in output order,
// after ReplaceAttr is applied.
func (h *prettyHandler) fields(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	add := func(groups []string, a slog.Attr) {
		a.Value = a.Value.Resolve()

		if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
			a = h.opts.ReplaceAttr(groups, a)
		}

		if !a.Equal(slog.Attr{}) {
			out = append(out, a)
		}
	}

	if !r.Time.IsZero() {
		add(nil, slog.Time(slog.TimeKey, r.Time))
	}

	// The level keeps its slog.Level value so that it is styled by severity.
	out = append(out, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if f, _ := runtimeFrame(r.PC); f != "" {
			add(nil, slog.String(slog.SourceKey, f))
		}
	}

	add(nil, slog.String(slog.MessageKey, r.Message))

	out = append(out, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.prefix + a.Key
		add(nil, a)

		return true
	})

	return out
}

func (h *prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one line per record of space-separated
// key=value pairs.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{newPrettyHandler(w, opts)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		writeTextAttr(&buf, h.pal, "", a)
	}

	return h.write(&buf)
}

func writeTextAttr(buf *bytes.Buffer, pal palette, prefix string, a slog.Attr) {
	if a.Value.Kind() == slog.KindGroup {
		for i, g := range a.Value.Group() {
			if i > 0 {
				buf.WriteByte(' ')
			}

			writeTextAttr(buf, pal, prefix+a.Key+".", g)
		}

		return
	}

	buf.WriteString(pal.key.Render(prefix + a.Key))
	buf.WriteByte('=')
	buf.WriteString(pal.value(a.Value))
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented JSON-like object
// with unquoted values.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyHandler(w, opts)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	writeJSONObject(&buf, h.pal, h.fields(r), 1)

	return h.write(&buf)
}

func writeJSONObject(buf *bytes.Buffer, pal palette, attrs []slog.Attr, depth int) {
	indent := strings.Repeat("  ", depth)

	buf.WriteString("{\n")

	for i, a := range attrs {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString(indent)
		buf.WriteString(pal.key.Render(a.Key))
		buf.WriteString(": ")

		if a.Value.Kind() == slog.KindGroup {
			writeJSONObject(buf, pal, a.Value.Group(), depth+1)
		} else {
			buf.WriteString(pal.value(a.Value))
		}
	}

	buf.WriteString("\n" + strings.Repeat("  ", depth-1) + "}")
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

// runtimeFrame returns "file:line" for pc.
func runtimeFrame(pc uintptr) (string, bool) {
	if pc == 0 {
		return "", false
	}

	src := slog.NewRecord(time.Time{}, 0, "", pc).Source()
	if src == nil || src.File == "" {
		return "", false
	}

	return fmt.Sprintf("%s:%d", src.File, src.Line), true
}
