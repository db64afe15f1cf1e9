package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/webuild/lang"
	"github.com/ardnew/webuild/log"
)

type (
	contextKey struct{}
	streamsKey struct{}
	loggerKey  struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type streams struct {
	in  io.Reader
	out io.Writer
}

// WithStreams returns a new context.Context whose commands read standard
// input from in and write rendered text to out.
func WithStreams(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in: in, out: out})
}

// streamsFrom returns the streams stored by WithStreams. Missing streams
// fall back to the kong application's stdout and the process's stdin.
func streamsFrom(ctx context.Context) streams {
	s, _ := ctx.Value(streamsKey{}).(streams)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout

		if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
			s.out = ktx.Stdout
		}
	}

	return s
}

// WithLogger returns a new context.Context whose commands log to l instead
// of the package-level logger.
func WithLogger(ctx context.Context, l log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func loggerFrom(ctx context.Context) log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(log.Logger); ok {
		return l
	}

	return log.Default()
}

// warnLogger returns a [lang.WarnFunc] that logs each warning at WARN level.
func warnLogger(ctx context.Context, l log.Logger) lang.WarnFunc {
	return func(w lang.Warning) {
		attrs := []slog.Attr{slog.String("kind", w.Kind.String())}

		if w.Pos.File != "" {
			attrs = append(attrs, slog.String("file", w.Pos.File))
		}

		if w.Pos.Line > 0 {
			attrs = append(attrs, slog.Int("line", w.Pos.Line))
		}

		l.WarnContext(ctx, w.Message, append(attrs, w.Attrs...)...)
	}
}
