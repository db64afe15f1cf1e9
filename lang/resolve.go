package lang

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Resolve locates the file of type t referenced by name from a file residing
// in directory dir. Unless name is absolute, it is interpreted relative to
// dir; each of t's extensions is appended in turn and the first candidate
// naming an existing regular file (or symlink to one) wins.
//
// The declared type of the located file is not examined. If no candidate
// exists, Resolve returns an [ErrResolution] error listing every candidate in
// probe order.
func Resolve(name, dir string, t FileType) (string, error) {
	base := name
	if !filepath.IsAbs(base) {
		base = filepath.Join(dir, base)
	}

	exts := t.Extensions()
	candidates := make([]string, 0, len(exts))

	for _, ext := range exts {
		path := base + ext

		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}

		candidates = append(candidates, path)
	}

	err := ErrResolution.
		Errorf("no %s file named %q", t, name).
		With(slog.Any("candidates", candidates))

	if hint := suggestFile(filepath.Dir(base), filepath.Base(name)); hint != "" {
		err = err.With(slog.String("suggestion", hint))
	}

	return "", err
}

// suggestFile returns the entry of dir most similar to name, if any.
func suggestFile(dir, name string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	names := make([]string, 0, len(entries))

	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	return suggest(name, names)
}

// canonical returns the absolute form of path, which keeps any symlinks
// along it, and its symlink-free form.
//
// A file's references resolve against the directory of its absolute form,
// where it was referenced from; the canonical form identifies the file.
func canonical(path string) (abs, canon string, err error) {
	abs, err = filepath.Abs(path)
	if err != nil {
		return "", "", err
	}

	canon, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return "", "", err
	}

	return abs, canon, nil
}
