package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// layout selects how prettyHandler arranges the fields of a record.
type layout int

const (
	textLayout layout = iota // key=value pairs on one line
	jsonLayout               // one "key": value pair per indented line
)

// palette holds the styles used to color each kind of value. Styles are
// bound to a renderer for the handler's writer, so colors are dropped when
// the writer is not a terminal.
type palette struct {
	key, str, num, yes, no, dur, when, null lipgloss.Style
	level                                   map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)

	color := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:  color("8"),
		str:  color("6"),
		num:  color("3"),
		yes:  color("2"),
		no:   color("1"),
		dur:  color("5"),
		when: color("4"),
		null: color("8"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): color("8"),
			slog.LevelDebug:        color("4"),
			slog.LevelInfo:         color("2"),
			slog.LevelWarn:         color("3").Bold(true),
			slog.LevelError:        color("1").Bold(true),
		},
	}
}

// levelStyle returns the style of the nearest named level at or below l.
func (p palette) levelStyle(l slog.Level) lipgloss.Style {
	best, found := slog.Level(LevelTrace), false

	for named := range p.level {
		if named <= l && (!found || named > best) {
			best, found = named, true
		}
	}

	return p.level[best]
}

func (p palette) value(v slog.Value) string {
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
		return p.when.Render(v.Time().Format(time.RFC3339))
	}

	switch a := v.Any().(type) {
	case nil:
		return p.null.Render("null")
	case slog.Level:
		return p.levelStyle(a).Render(a.String())
	case error:
		return p.str.Render(a.Error())
	default:
		return p.str.Render(fmt.Sprint(a))
	}
}

// prettyHandler is a colorized [slog.Handler]. Attribute groups are
// flattened into dotted keys.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    palette
	layout layout
	prefix string
	attrs  []slog.Attr
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	l layout,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		pal:    newPalette(w),
		layout: l,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	n := 0

	field := func(key, value string) {
		switch h.layout {
		case jsonLayout:
			if n > 0 {
				buf.WriteString(",\n")
			}

			buf.WriteString("  ")
			buf.WriteString(h.pal.key.Render(strconv.Quote(key)))
			buf.WriteString(": ")

		default:
			if n > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(h.pal.key.Render(key))
			buf.WriteByte('=')
		}

		buf.WriteString(value)
		n++
	}

	builtin := func(a slog.Attr) (slog.Attr, bool) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		return a, a.Key != ""
	}

	if h.layout == jsonLayout {
		buf.WriteString("{\n")
	}

	if !r.Time.IsZero() {
		if a, ok := builtin(slog.Time(slog.TimeKey, r.Time)); ok {
			field(a.Key, h.pal.value(a.Value))
		}
	}

	if a, ok := builtin(slog.Any(slog.LevelKey, r.Level)); ok {
		if a.Value.Kind() == slog.KindString {
			field(a.Key, h.pal.levelStyle(r.Level).Render(a.Value.String()))
		} else {
			field(a.Key, h.pal.value(a.Value))
		}
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			field(slog.SourceKey, h.pal.str.Render(fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	field(slog.MessageKey, h.pal.str.Render(r.Message))

	for _, a := range h.attrs {
		field(a.Key, h.pal.value(a.Value))
	}

	r.Attrs(func(a slog.Attr) bool {
		flatten(h.prefix, a, func(a slog.Attr) {
			field(a.Key, h.pal.value(a.Value))
		})

		return true
	})

	if h.layout == jsonLayout {
		buf.WriteString("\n}")
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)

	for _, a := range attrs {
		flatten(h.prefix, a, func(a slog.Attr) { c.attrs = append(c.attrs, a) })
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// flatten resolves a and calls fn with each leaf attribute, qualifying keys
// of nested groups with their group names.
func flatten(prefix string, a slog.Attr, fn func(slog.Attr)) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			flatten(prefix, g, fn)
		}

		return
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	a.Key = prefix + a.Key
	fn(a)
}
