package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardnew/webuild/lang"
	"github.com/ardnew/webuild/log"
	"github.com/ardnew/webuild/watch"
)

// Watch renders a root file, then renders it again whenever a file it
// depends on changes, until interrupted.
type Watch struct {
	Target `embed:""`

	Debounce time.Duration `help:"Quiet period before re-rendering" default:"100ms"`
}

// Run executes the watch command.
func (w *Watch) Run(ctx context.Context) error {
	if w.Input == lang.StdinName {
		return ErrWatchStdin
	}

	if err := w.check(); err != nil {
		return err
	}

	bound, err := w.bindings()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := loggerFrom(ctx)

	fw, err := watch.New(watch.WithDebounce(w.Debounce), watch.WithLogger(logger))
	if err != nil {
		return err
	}
	defer fw.Close()

	r := w.renderer(ctx, logger, lang.WithCache(lang.NewCache()))

	cycle := func(ctx context.Context) {
		w.rebuild(ctx, r, fw, logger, bound)
	}

	cycle(ctx)

	logger.InfoContext(ctx, "watching",
		slog.String("input", w.Input),
		slog.Int("files", len(fw.Files())),
	)

	return fw.Run(ctx, func(ctx context.Context, changed []string) {
		logger.InfoContext(ctx, "change detected", slog.Any("files", changed))
		cycle(ctx)
	})
}

// rebuild renders once and refreshes the watched file set from the current
// reference graph. Failures are logged so watching can continue; if the
// graph cannot be built, the previous file set is kept and the root added.
func (w *Watch) rebuild(
	ctx context.Context,
	r *lang.Renderer,
	fw *watch.Watcher,
	logger log.Logger,
	bound lang.Binding,
) {
	start := time.Now()

	if err := w.render(ctx, r, logger, bound); err != nil {
		logger.ErrorContext(ctx, "render failed", slog.Any("error", err))
	} else {
		logger.InfoContext(ctx, "rendered",
			slog.String("input", w.Input),
			slog.Duration("elapsed", time.Since(start)),
		)
	}

	files := append(fw.Files(), w.Input)

	if g, err := r.Dependencies(ctx, w.Input); err == nil {
		files = g.Files
	}

	if err := fw.Set(files...); err != nil {
		logger.ErrorContext(ctx, "watch failed", slog.Any("error", err))
	}
}
