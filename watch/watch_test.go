package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func newWatcher(t *testing.T, files ...string) *Watcher {
	t.Helper()

	w, err := New(WithDebounce(50 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = w.Close() })

	if err := w.Set(files...); err != nil {
		t.Fatal(err)
	}

	return w
}

// start runs w until the test ends and returns the reported batches.
func start(t *testing.T, w *Watcher) <-chan []string {
	t.Helper()

	ctx, cancel := context.WithCancel(t.Context())
	batches := make(chan []string, 8)
	done := make(chan struct{})

	go func() {
		defer close(done)

		_ = w.Run(ctx, func(_ context.Context, changed []string) {
			batches <- changed
		})
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})

	return batches
}

func write(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func next(t *testing.T, batches <-chan []string) []string {
	t.Helper()

	select {
	case b := <-batches:
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")

		return nil
	}
}

func TestWatcher_CoalescesBurst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	page := filepath.Join(dir, "page.template")
	write(t, page, "::TEMPLATE;\n")

	batches := start(t, newWatcher(t, page))

	for i := range 5 {
		write(t, page, "::TEMPLATE;\n"+string(rune('a'+i))+"\n")
	}

	if got := next(t, batches); !slices.Equal(got, []string{page}) {
		t.Errorf("got %v", got)
	}

	select {
	case b := <-batches:
		t.Errorf("unexpected second batch %v", b)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	page := filepath.Join(dir, "page.template")
	other := filepath.Join(dir, "notes.txt")
	write(t, page, "::TEMPLATE;\n")

	batches := start(t, newWatcher(t, page))

	write(t, other, "scratch")
	write(t, page, "::TEMPLATE;\nchanged\n")

	if got := next(t, batches); !slices.Equal(got, []string{page}) {
		t.Errorf("got %v", got)
	}
}

func TestWatcher_SetReplacesFiles(t *testing.T) {
	t.Parallel()

	a := filepath.Join(t.TempDir(), "a.fragment")
	b := filepath.Join(t.TempDir(), "b.fragment")
	write(t, a, "::FRAGMENT;\n")
	write(t, b, "::FRAGMENT;\n")

	w := newWatcher(t, a)

	if err := w.Set(b); err != nil {
		t.Fatal(err)
	}

	if got := w.Files(); !slices.Equal(got, []string{b}) {
		t.Fatalf("Files() = %v", got)
	}

	batches := start(t, w)

	write(t, a, "::FRAGMENT;\nignored\n")
	write(t, b, "::FRAGMENT;\nseen\n")

	if got := next(t, batches); !slices.Equal(got, []string{b}) {
		t.Errorf("got %v", got)
	}
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	w := newWatcher(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := w.Run(ctx, func(context.Context, []string) {}); err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func TestWatcher_SetMissingDirectory(t *testing.T) {
	t.Parallel()

	w := newWatcher(t)

	if err := w.Set(filepath.Join(t.TempDir(), "gone", "x.template")); err == nil {
		t.Error("expected error for missing directory")
	}
}
