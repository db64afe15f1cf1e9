package lang

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/webuild/log"
)

// Renderer renders source files.
//
// A Renderer carries configuration only. Every call to [Renderer.Render]
// starts from an empty parameter scope, an empty active-path stack and a
// zeroed default-output counter, so a Renderer may be reused and shared.
type Renderer struct {
	outDir string
	warn   WarnFunc
	logger log.Logger
	emit   Emitter
	cache  *Cache
	stdin  io.Reader
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithOutputDir sets the directory relative output paths are written to.
// It has no effect if [WithEmitter] is also given.
func WithOutputDir(dir string) Option {
	return func(r *Renderer) {
		r.outDir = dir
	}
}

// WithWarnFunc sets the receiver of warnings. Warnings are discarded if not
// provided.
func WithWarnFunc(fn WarnFunc) Option {
	return func(r *Renderer) {
		r.warn = fn
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithEmitter sets the destination of Blueprint-level outputs.
// The default is a [FileEmitter] rooted at the output directory.
func WithEmitter(e Emitter) Option {
	return func(r *Renderer) {
		r.emit = e
	}
}

// WithCache enables reuse of parsed files across renders.
func WithCache(c *Cache) Option {
	return func(r *Renderer) {
		r.cache = c
	}
}

// WithStdin sets the reader consumed when the root input is [StdinName].
func WithStdin(in io.Reader) Option {
	return func(r *Renderer) {
		r.stdin = in
	}
}

// NewRenderer returns a Renderer configured with opts.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{outDir: "."}

	for _, opt := range opts {
		opt(r)
	}

	if r.emit == nil {
		r.emit = FileEmitter{Dir: r.outDir}
	}

	if r.stdin == nil {
		r.stdin = os.Stdin
	}

	return r
}

// Result is the outcome of rendering a root file.
type Result struct {
	Type    FileType
	Text    string   // rendered text; always empty for a Blueprint root
	Outputs []string // names emitted by Blueprint-level invocations, in order
}

// Render renders the file at path with the top-level bindings bound.
//
// A Template, Fragment or Parametric root yields its text in the result.
// A Blueprint root is built instead: each of its outputs is written through
// the configured [Emitter] and listed in the result. Bindings only apply to
// a Parametric root.
//
// Any fatal error aborts the whole render. Outputs already emitted by
// earlier Blueprint commands remain in place.
func (r *Renderer) Render(
	ctx context.Context,
	path string,
	bound Binding,
) (*Result, error) {
	b := &build{Renderer: r}

	n, err := b.open(ctx, path, Position{})
	if err != nil {
		return nil, err
	}

	if n.Type != TypeParametric && len(bound) > 0 {
		b.notify(Warning{
			Kind:    WarnIgnoredBinding,
			Message: "bindings only apply to " + TypeParametric.String() + " files",
			Pos:     Position{File: n.Path},
			Attrs:   []slog.Attr{slog.String("type", n.Type.String())},
		})
	}

	text, err := b.render(ctx, n, bound, Position{File: n.Path})
	if err != nil {
		return nil, err
	}

	return &Result{Type: n.Type, Text: text, Outputs: b.outputs}, nil
}

// build is the state of one Render call.
type build struct {
	*Renderer

	stack   []string // canonical paths currently being rendered
	count   int      // next default output number
	outputs []string
}

func (b *build) notify(w Warning) {
	b.logger.Debug("warning", slog.Any("warning", w))

	if b.warn != nil {
		b.warn(w)
	}
}

// open reads and parses the file at path, referenced from pos.
func (b *build) open(ctx context.Context, path string, pos Position) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)

	if path == StdinName && len(b.stack) == 0 {
		data, err = io.ReadAll(b.stdin)
		if err != nil {
			return nil, ErrReadInput.WithPosition(pos).Wrap(err).
				With(slog.String("source", "stdin"))
		}

		return Parse(StdinName, dirOf(StdinName), data)
	}

	abs, canon, err := canonical(path)
	if err != nil {
		return nil, ErrReadInput.WithPosition(pos).Wrap(err).
			With(slog.String("path", path))
	}

	if err := b.enter(canon, pos); err != nil {
		return nil, err
	}

	data, err = os.ReadFile(canon)
	if err != nil {
		return nil, ErrReadInput.WithPosition(pos).Wrap(err).
			With(slog.String("path", path))
	}

	n, hit, err := b.cache.parse(canon, filepath.Dir(abs), data)
	if err != nil {
		return nil, err
	}

	b.logger.TraceContext(
		ctx,
		"open",
		slog.String("path", canon),
		slog.String("type", n.Type.String()),
		slog.Bool("cache_hit", hit),
		slog.Int("depth", len(b.stack)),
	)

	return n, nil
}

// enter fails if canon is already being rendered.
func (b *build) enter(canon string, pos Position) error {
	i := slices.Index(b.stack, canon)
	if i < 0 {
		return nil
	}

	chain := append(slices.Clone(b.stack[i:]), canon)

	return ErrCyclicReference.WithPosition(pos).
		Errorf("%s", strings.Join(chain, " -> ")).
		With(slog.Any("chain", chain))
}

// invoke resolves and opens the file named by inv within n.
func (b *build) invoke(ctx context.Context, n *Node, inv Invocation) (*Node, error) {
	path, err := Resolve(inv.Reference, n.Dir, inv.Type)
	if err != nil {
		return nil, locate(err, inv.Pos)
	}

	b.logger.TraceContext(
		ctx,
		"resolve",
		slog.String("reference", inv.Reference),
		slog.String("path", path),
		slog.String("from", inv.Pos.String()),
	)

	child, err := b.open(ctx, path, inv.Pos)
	if err != nil {
		return nil, err
	}

	if child.Type != inv.Type {
		return nil, ErrDeclaration.WithPosition(inv.Pos).
			Errorf("%s command references %s file", inv.Type, child.Type).
			With(slog.String("path", child.Path))
	}

	return child, nil
}

// render produces the text of n under bindings bound. The path of n must
// already have been checked against the active stack by open.
func (b *build) render(
	ctx context.Context,
	n *Node,
	bound Binding,
	pos Position,
) (string, error) {
	b.stack = append(b.stack, n.Path)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	for _, w := range n.notes {
		b.notify(w)
	}

	b.logger.TraceContext(
		ctx,
		"render",
		slog.String("path", n.Path),
		slog.String("type", n.Type.String()),
		slog.Int("bindings", len(bound)),
	)

	switch n.Type {
	case TypeBlueprint:
		return "", b.blueprint(ctx, n)
	case TypeTemplate:
		return b.template(ctx, n)
	case TypeFragment:
		return fragment(n), nil
	case TypeParametric:
		return b.parametric(n, bound, pos)
	default:
		return "", ErrDeclaration.WithPosition(Position{File: n.Path}).
			Errorf("invalid file type %s", n.Type)
	}
}

// blueprint renders every invocation of n and emits the results. Nested
// blueprints are built with an empty scope.
func (b *build) blueprint(ctx context.Context, n *Node) error {
	for _, s := range n.Body {
		inv := s.Invocation
		if inv == nil {
			continue
		}

		child, err := b.invoke(ctx, n, *inv)
		if err != nil {
			return err
		}

		if inv.Type == TypeBlueprint {
			if _, err := b.render(ctx, child, nil, inv.Pos); err != nil {
				return err
			}

			continue
		}

		name := inv.Output
		if name == "" {
			name = inv.Type.defaultOutputName(b.count)
			b.count++
		}

		text, err := b.render(ctx, child, inv.Bindings.Clone(), inv.Pos)
		if err != nil {
			return err
		}

		if err := b.emit.Emit(ctx, name, []byte(text)); err != nil {
			return locate(err, inv.Pos)
		}

		b.logger.DebugContext(
			ctx,
			"emit",
			slog.String("output", name),
			slog.String("source", child.Path),
			slog.Int("bytes", len(text)),
		)

		b.outputs = append(b.outputs, name)
	}

	return nil
}

// template concatenates the escape-processed text of n with the output of
// each inline invocation at its line position.
func (b *build) template(ctx context.Context, n *Node) (string, error) {
	var sb strings.Builder

	for _, s := range n.Body {
		if s.Invocation == nil {
			text, trailing := unescape(s.Line.Text)
			if trailing {
				b.trailingEscape(n, s.Line)
			}

			sb.WriteString(text)
			sb.WriteString(s.Line.EOL)

			continue
		}

		child, err := b.invoke(ctx, n, *s.Invocation)
		if err != nil {
			return "", err
		}

		text, err := b.render(ctx, child, s.Invocation.Bindings.Clone(), s.Invocation.Pos)
		if err != nil {
			return "", err
		}

		sb.WriteString(text)
	}

	return sb.String(), nil
}

// fragment returns the body of n verbatim.
func fragment(n *Node) string {
	var sb strings.Builder

	for _, s := range n.Body {
		sb.WriteString(s.Line.Text)
		sb.WriteString(s.Line.EOL)
	}

	return sb.String()
}

// parametric substitutes the parameters of n, resolved against bound, into
// its escape-processed text.
func (b *build) parametric(n *Node, bound Binding, pos Position) (string, error) {
	sc, err := resolveScope(n.Params, bound, pos, b.notify)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	for _, s := range n.Body {
		at := Position{File: n.Path, Line: s.Line.Number}

		text, trailing := substitute(s.Line.Text, func(name string) string {
			return sc.lookup(name, at)
		})
		if trailing {
			b.trailingEscape(n, s.Line)
		}

		sb.WriteString(text)
		sb.WriteString(s.Line.EOL)
	}

	return sb.String(), nil
}

func (b *build) trailingEscape(n *Node, l Line) {
	b.notify(Warning{
		Kind:    WarnTrailingEscape,
		Message: "escape character at end of line ignored",
		Pos:     Position{File: n.Path, Line: l.Number},
		Attrs:   l.attrs(),
	})
}
