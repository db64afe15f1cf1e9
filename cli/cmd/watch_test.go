package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/ardnew/webuild/log"
)

func TestWatch_StdinRejected(t *testing.T) {
	t.Parallel()

	if _, _, err := run(t, &Watch{Target: Target{Input: "-"}}, ""); !errors.Is(err, ErrWatchStdin) {
		t.Errorf("expected ErrWatchStdin, got %v", err)
	}
}

func TestWatch_RerendersOnChange(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, site)
	dest := filepath.Join(dir, "page.html")

	w := &Watch{
		Target:   Target{Input: filepath.Join(dir, "page.template"), Output: dest, Dir: dir},
		Debounce: 20 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(WithLogger(t.Context(), log.Make(io.Discard)))
	done := make(chan error, 1)

	go func() { done <- w.Run(ctx) }()

	waitFor(t, dest, "<body>\n<svg/>\n</body>\n")

	// A change to a dependency, not the root, triggers the re-render.
	if err := os.WriteFile(filepath.Join(dir, "logo.fragment"), []byte("::FRAGMENT;\n<img/>\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, dest, "<body>\n<img/>\n</body>\n")

	cancel()

	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}

// Delivers a real signal to the process, so it must not run alongside the
// other watch tests.
func TestWatch_StopsOnSIGTERM(t *testing.T) {
	dir := writeTree(t, site)
	dest := filepath.Join(dir, "page.html")

	w := &Watch{
		Target:   Target{Input: filepath.Join(dir, "page.template"), Output: dest, Dir: dir},
		Debounce: 20 * time.Millisecond,
	}

	done := make(chan error, 1)

	go func() { done <- w.Run(WithLogger(t.Context(), log.Make(io.Discard))) }()

	// the first render happens after the signal handler is installed
	waitFor(t, dest, "<body>\n<svg/>\n</body>\n")

	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatal(err)
	}

	if err := proc.Signal(syscall.SIGTERM); err != nil {
		t.Skipf("cannot signal own process: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on SIGTERM")
	}
}

func waitFor(t *testing.T, path, want string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)

	for {
		b, err := os.ReadFile(path)
		if err == nil && string(b) == want {
			return
		}

		if time.Now().After(deadline) {
			t.Fatalf("%s = %q (%v), want %q", path, b, err, want)
		}

		time.Sleep(10 * time.Millisecond)
	}
}
