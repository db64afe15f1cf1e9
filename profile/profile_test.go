package profile

import "testing"

func TestNew_AppliesOptions(t *testing.T) {
	t.Parallel()

	p := New(WithMode("cpu"), WithPath("/tmp/prof"), WithQuiet(true))

	if p != (Profiler{Mode: "cpu", Path: "/tmp/prof", Quiet: true}) {
		t.Errorf("got %+v", p)
	}
}

func TestStart_EmptyModeIsNoop(t *testing.T) {
	t.Parallel()

	ctrl := New(WithPath(t.TempDir())).Start()
	if _, ok := ctrl.(ignore); !ok {
		t.Errorf("expected no-op, got %T", ctrl)
	}

	ctrl.Stop()
}

func TestStart_UnknownModeIsNoop(t *testing.T) {
	t.Parallel()

	ctrl := New(WithMode("bogus")).Start()
	if _, ok := ctrl.(ignore); !ok {
		t.Errorf("expected no-op, got %T", ctrl)
	}
}
