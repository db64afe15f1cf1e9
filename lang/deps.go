package lang

import (
	"context"
	"log/slog"
	"slices"

	"github.com/edwingeng/deque"
)

// Edge is one invocation command and the file it resolves to.
type Edge struct {
	From      string `json:"from"             yaml:"from"`
	Line      int    `json:"line"             yaml:"line"`
	Command   string `json:"command"          yaml:"command"`
	Reference string `json:"reference"        yaml:"reference"`
	Path      string `json:"path"             yaml:"path"`
	Output    string `json:"output,omitempty" yaml:"output,omitempty"`
	Cycle     bool   `json:"cycle,omitempty"  yaml:"cycle,omitempty"`
}

// Graph is the reference graph reachable from a root file.
type Graph struct {
	Root  string   `json:"root"  yaml:"root"`
	Files []string `json:"files" yaml:"files"` // breadth-first order, root first
	Edges []Edge   `json:"edges" yaml:"edges"`
}

// Children returns the edges leaving path, in source order.
func (g *Graph) Children(path string) []Edge {
	var out []Edge

	for _, e := range g.Edges {
		if e.From == path {
			out = append(out, e)
		}
	}

	return out
}

// Dependencies walks the reference graph of the file at path breadth-first
// without rendering anything.
//
// Every file is expanded once. Edges that lie on a reference cycle are marked
// rather than failing the walk. Resolution, declaration and syntax errors are
// fatal, as they would be for Render.
func (r *Renderer) Dependencies(ctx context.Context, path string) (*Graph, error) {
	b := &build{Renderer: r}

	root, err := b.open(ctx, path, Position{})
	if err != nil {
		return nil, err
	}

	g := &Graph{Root: root.Path, Files: []string{root.Path}}
	seen := map[string]bool{root.Path: true}

	queue := deque.NewDeque()
	queue.PushBack(root)

	for queue.Len() != 0 {
		node, _ := queue.Front().(*Node)
		queue.PopFront()

		for _, inv := range node.Invocations() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			resolved, err := Resolve(inv.Reference, node.Dir, inv.Type)
			if err != nil {
				return nil, locate(err, inv.Pos)
			}

			_, canon, err := canonical(resolved)
			if err != nil {
				return nil, ErrReadInput.WithPosition(inv.Pos).Wrap(err).
					With(slog.String("path", resolved))
			}

			e := Edge{
				From:      node.Path,
				Line:      inv.Pos.Line,
				Command:   inv.Type.String(),
				Reference: inv.Reference,
				Path:      canon,
				Output:    inv.Output,
			}

			g.Edges = append(g.Edges, e)

			if seen[canon] {
				continue
			}

			seen[canon] = true
			g.Files = append(g.Files, canon)

			child, err := b.open(ctx, resolved, inv.Pos)
			if err != nil {
				return nil, err
			}

			if child.Type != inv.Type {
				return nil, ErrDeclaration.WithPosition(inv.Pos).
					Errorf("%s command references %s file", inv.Type, child.Type).
					With(slog.String("path", child.Path))
			}

			r.logger.TraceContext(ctx, "dependency",
				slog.String("from", e.From),
				slog.String("path", canon),
			)

			queue.PushBack(child)
		}
	}

	g.markCycles()

	return g, nil
}

// markCycles flags every edge whose target can reach its source.
func (g *Graph) markCycles() {
	for i := range g.Edges {
		g.Edges[i].Cycle = g.reaches(g.Edges[i].Path, g.Edges[i].From)
	}
}

// reaches reports whether to is reachable from from.
func (g *Graph) reaches(from, to string) bool {
	seen := map[string]bool{from: true}

	queue := deque.NewDeque()
	queue.PushBack(from)

	for queue.Len() != 0 {
		path, _ := queue.Front().(string)
		queue.PopFront()

		if path == to {
			return true
		}

		for _, e := range g.Children(path) {
			if !seen[e.Path] {
				seen[e.Path] = true
				queue.PushBack(e.Path)
			}
		}
	}

	return false
}

// Cycles reports whether any edge of g lies on a reference cycle.
func (g *Graph) Cycles() bool {
	return slices.ContainsFunc(g.Edges, func(e Edge) bool { return e.Cycle })
}
