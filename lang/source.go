package lang

import (
	"log/slog"
	"path/filepath"

	"github.com/segmentio/fasthash/fnv1a"
)

// StdinName is the input name denoting standard input.
const StdinName = "-"

// Stmt is one retained body line of a [Node].
//
// Text lines of Template and Parametric files, every line of a Fragment, and
// invocation commands are retained. NOOP and declaration commands are not,
// and Blueprint text is discarded outright.
type Stmt struct {
	Line       Line
	Invocation *Invocation // nil unless Line is an invocation command
}

// Node is a parsed source file.
type Node struct {
	Path   string // canonical path, or StdinName
	Dir    string // directory that relative references resolve against
	Type   FileType
	Body   []Stmt
	Params []Declaration // Parametric files only, in declaration order

	notes []Warning // parse-time warnings, replayed on every render
	sum   uint64    // content hash of the source bytes
}

// Parse reads source data of the file at path, whose references resolve
// against dir.
//
// Every structural error (declaration, availability, syntax) is detected
// here, before any of the file is rendered.
func Parse(path, dir string, data []byte) (*Node, error) {
	lines := splitLines(string(data))

	t, start, err := declaredType(path, lines)
	if err != nil {
		return nil, err
	}

	n := &Node{
		Path: path,
		Dir:  dir,
		Type: t,
		sum:  hashSource(data),
	}

	for i := start; i < len(lines); i++ {
		num := i + 1
		pos := Position{File: path, Line: num}

		if t == TypeFragment {
			n.Body = append(n.Body, Stmt{Line: Line{
				Number: num,
				Text:   lines[i].text,
				EOL:    lines[i].eol,
			}})

			continue
		}

		l, err := ScanLine(num, lines[i].text)
		if err != nil {
			return nil, locate(err, pos)
		}

		l.EOL = lines[i].eol

		if l.Kind == KindText {
			if t.Produces() {
				n.Body = append(n.Body, Stmt{Line: l})
			}

			continue
		}

		r, err := lookupRule(t, l, pos)
		if err != nil {
			return nil, err
		}

		switch {
		case l.IsNoop():

		case r.invokes.Valid():
			inv, err := parseInvocation(r, l, pos)
			if err != nil {
				return nil, err
			}

			n.Body = append(n.Body, Stmt{Line: l, Invocation: &inv})

		default:
			d, err := parseDeclaration(l, pos)
			if err != nil {
				return nil, err
			}

			n.declare(d)
		}
	}

	return n, nil
}

// declare records d unless its name is already declared, in which case the
// first declaration stands and a warning is noted.
func (n *Node) declare(d Declaration) {
	for _, prev := range n.Params {
		if prev.Name == d.Name {
			n.notes = append(n.notes, Warning{
				Kind:    WarnDuplicateParameter,
				Message: "parameter " + d.Name + " redeclared, keeping first declaration",
				Pos:     d.Pos,
				Attrs: []slog.Attr{
					slog.String("parameter", d.Name),
					slog.String("first", prev.Pos.String()),
				},
			})

			return
		}
	}

	n.Params = append(n.Params, d)
}

// Invocations returns the invocation commands of n in source order.
func (n *Node) Invocations() []Invocation {
	var invs []Invocation

	for _, s := range n.Body {
		if s.Invocation != nil {
			invs = append(invs, *s.Invocation)
		}
	}

	return invs
}

// hashSource returns the content hash identifying one revision of a file.
func hashSource(data []byte) uint64 { return fnv1a.HashBytes64(data) }

// dirOf returns the directory references from path resolve against.
func dirOf(path string) string {
	if path == StdinName {
		return "."
	}

	return filepath.Dir(path)
}
