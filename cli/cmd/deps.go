package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/webuild/lang"
)

// Deps lists the reference graph of a root file without rendering it.
type Deps struct {
	Input  string `arg:""    help:"Root file to inspect, or '-' for standard input" name:"input"`
	Format string `short:"f" help:"Output format (${enum})"                        default:"tree" enum:"tree,json,yaml"`
}

// Run executes the deps command.
func (d *Deps) Run(ctx context.Context) error {
	t := Target{Input: d.Input}
	if err := t.check(); err != nil {
		return err
	}

	logger := loggerFrom(ctx)
	s := streamsFrom(ctx)

	g, err := lang.NewRenderer(
		lang.WithStdin(s.in),
		lang.WithLogger(logger),
		lang.WithWarnFunc(warnLogger(ctx, logger)),
	).Dependencies(ctx, d.Input)
	if err != nil {
		return err
	}

	if g.Cycles() {
		logger.WarnContext(ctx, "reference cycle detected", slog.String("input", d.Input))
	}

	return writeGraph(s.out, g, d.Format)
}

func writeGraph(w io.Writer, g *lang.Graph, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(g); err != nil {
			return ErrEncodeGraph.Wrap(err).With(slog.String("format", format))
		}

	case "yaml":
		b, err := yaml.Marshal(g)
		if err != nil {
			return ErrEncodeGraph.Wrap(err).With(slog.String("format", format))
		}

		if _, err := w.Write(b); err != nil {
			return ErrEncodeGraph.Wrap(err).With(slog.String("format", format))
		}

	default:
		if _, err := fmt.Fprintln(w, graphTree(w, g)); err != nil {
			return ErrEncodeGraph.Wrap(err).With(slog.String("format", format))
		}
	}

	return nil
}

// graphTree renders g depth-first. Each file is expanded under its first
// reference only; later references and cycle edges are leaves.
func graphTree(w io.Writer, g *lang.Graph) *tree.Tree {
	r := lipgloss.NewRenderer(w)
	dim := r.NewStyle().Faint(true)
	verb := r.NewStyle().Bold(true)
	warn := r.NewStyle().Foreground(lipgloss.Color("3"))

	base := filepath.Dir(g.Root)
	rel := func(path string) string {
		if p, err := filepath.Rel(base, path); err == nil {
			return p
		}

		return path
	}

	expanded := map[string]bool{g.Root: true}

	var grow func(t *tree.Tree, from string) *tree.Tree

	grow = func(t *tree.Tree, from string) *tree.Tree {
		for _, e := range g.Children(from) {
			label := fmt.Sprintf("%s %s %s",
				verb.Render(e.Command), rel(e.Path), dim.Render(fmt.Sprintf("(line %d)", e.Line)))

			if e.Output != "" {
				label += dim.Render(" -> " + e.Output)
			}

			switch {
			case e.Cycle && expanded[e.Path]:
				t.Child(label + " " + warn.Render("[cycle]"))

			case expanded[e.Path]:
				t.Child(label + " " + dim.Render("[see above]"))

			default:
				expanded[e.Path] = true

				if len(g.Children(e.Path)) == 0 {
					t.Child(label)
				} else {
					t.Child(grow(tree.Root(label), e.Path))
				}
			}
		}

		return t
	}

	return grow(tree.Root(rel(g.Root)).EnumeratorStyle(dim), g.Root)
}
