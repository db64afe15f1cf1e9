package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/webuild/lang"
	"github.com/ardnew/webuild/log"
)

// Target holds the arguments shared by commands that render a root file.
type Target struct {
	Input    string   `arg:""      help:"Root file to render, or '-' for standard input"         name:"input"`
	Output   string   `arg:""      help:"Destination of the rendered text, or '-' for stdout"    name:"output"  optional:""`
	Bindings []string `arg:""      help:"Parameter bindings for a parametric root"               name:"binding" optional:"" placeholder:"NAME=VALUE"`
	Set      []string `short:"D"   help:"Bind a parameter of a parametric root (repeatable)"                                placeholder:"NAME=VALUE"`
	Dir      string   `short:"C"   help:"Directory blueprint outputs are written relative to"    name:"output-dir" default:"." type:"path"`
}

// bindings merges positional bindings and --set flags; flags win.
func (t *Target) bindings() (lang.Binding, error) {
	b, err := lang.ParseBindings(append(append([]string{}, t.Bindings...), t.Set...)...)
	if err != nil {
		return nil, ErrBinding.Wrap(err)
	}

	return b, nil
}

func (t *Target) check() error {
	if t.Input == "" {
		return ErrNoInput
	}

	if t.Input == lang.StdinName {
		return nil
	}

	if _, err := os.Stat(t.Input); err != nil {
		return ErrOpenInput.Wrap(err).With(slog.String("input", t.Input))
	}

	return nil
}

func (t *Target) renderer(ctx context.Context, logger log.Logger, opts ...lang.Option) *lang.Renderer {
	s := streamsFrom(ctx)

	return lang.NewRenderer(append([]lang.Option{
		lang.WithOutputDir(t.Dir),
		lang.WithEmitter(lang.FileEmitter{Dir: t.Dir, Stdout: s.out}),
		lang.WithStdin(s.in),
		lang.WithLogger(logger),
		lang.WithWarnFunc(warnLogger(ctx, logger)),
	}, opts...)...)
}

// render renders the target once with r and commits a non-Blueprint root's
// text to the output argument.
func (t *Target) render(ctx context.Context, r *lang.Renderer, logger log.Logger, bound lang.Binding) error {
	res, err := r.Render(ctx, t.Input, bound)
	if err != nil {
		return err
	}

	if res.Type == lang.TypeBlueprint {
		if t.Output != "" {
			warnLogger(ctx, logger)(lang.Warning{
				Kind:    lang.WarnIgnoredOutput,
				Message: "output argument ignored for " + lang.TypeBlueprint.String() + " input",
				Pos:     lang.Position{File: t.Input},
				Attrs:   []slog.Attr{slog.String("output", t.Output)},
			})
		}

		logger.InfoContext(ctx, "build complete",
			slog.String("input", t.Input),
			slog.Int("outputs", len(res.Outputs)),
		)

		return nil
	}

	name := t.Output
	if name == "" {
		name = lang.StdoutName
	}

	// The output argument is relative to the working directory, not the
	// blueprint output directory.
	e := lang.FileEmitter{Stdout: streamsFrom(ctx).out}
	if err := e.Emit(ctx, name, []byte(res.Text)); err != nil {
		return err
	}

	logger.DebugContext(ctx, "rendered",
		slog.String("input", t.Input),
		slog.String("type", res.Type.String()),
		slog.String("output", name),
	)

	return nil
}

// Render renders a root file.
//
// A Blueprint root writes each of its outputs; any other root writes its
// rendered text to OUTPUT, or to standard output if OUTPUT is absent or '-'.
type Render struct {
	Target `embed:""`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) error {
	if err := r.check(); err != nil {
		return err
	}

	bound, err := r.bindings()
	if err != nil {
		return err
	}

	logger := loggerFrom(ctx)

	return r.render(ctx, r.renderer(ctx, logger), logger, bound)
}
