//go:build pprof

package profile

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestStart_CPU(t *testing.T) {
	if !slices.Contains(Modes(), "cpu") {
		t.Fatalf("Modes() = %v, missing cpu", Modes())
	}

	dir := t.TempDir()

	Make(WithMode("cpu"), WithPath(dir), WithQuiet(true)).
		Start(context.Background()).
		Stop()

	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Errorf("expected cpu profile: %v", err)
	}
}
