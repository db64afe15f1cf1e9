//go:build pprof

package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestModes_Sorted(t *testing.T) {
	m := Modes()
	if !slices.IsSorted(m) || !slices.Contains(m, "cpu") {
		t.Errorf("Modes() = %v", m)
	}
}

func TestStart_WritesProfile(t *testing.T) {
	dir := t.TempDir()

	New(WithMode("cpu"), WithPath(dir), WithQuiet(true)).Start().Stop()

	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Fatal(err)
	}
}
