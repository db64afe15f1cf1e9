package lang

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// StdoutName is the output name denoting standard output.
const StdoutName = "-"

// Emitter commits the rendered text of a Blueprint-level invocation to its
// output destination.
type Emitter interface {
	Emit(ctx context.Context, name string, data []byte) error
}

// EmitterFunc adapts a function to the [Emitter] interface.
type EmitterFunc func(ctx context.Context, name string, data []byte) error

// Emit calls f(ctx, name, data).
func (f EmitterFunc) Emit(ctx context.Context, name string, data []byte) error {
	return f(ctx, name, data)
}

// FileEmitter writes outputs to the file system.
//
// Relative names are interpreted relative to Dir, and missing parent
// directories are created. Each file is staged in a temporary file and
// renamed into place, so a failed write never leaves a partial file under
// the final name. The name [StdoutName] writes to Stdout instead.
type FileEmitter struct {
	Dir    string
	Stdout io.Writer // os.Stdout if nil
}

// Emit implements [Emitter].
func (e FileEmitter) Emit(_ context.Context, name string, data []byte) error {
	if name == StdoutName {
		w := e.Stdout
		if w == nil {
			w = os.Stdout
		}

		if _, err := w.Write(data); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("output", name))
		}

		return nil
	}

	path := e.Path(name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("output", path))
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("output", path))
	}

	return nil
}

// Path returns the file system path name is written to.
func (e FileEmitter) Path(name string) string {
	if filepath.IsAbs(name) || e.Dir == "" {
		return name
	}

	return filepath.Join(e.Dir, name)
}
