// Package testutil provides helpers shared by tests that need small external
// processes to supervise.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// BuildHelper compiles the given main-package source into a test-scoped
// temporary directory and returns the absolute path to the executable. CGO is
// disabled for determinism.
func BuildHelper(t *testing.T, name, source string) string {
	t.Helper()

	dir := t.TempDir()
	src := filepath.Join(dir, name+".go")
	if err := os.WriteFile(src, []byte(source), 0o644); err != nil {
		t.Fatalf("write helper source: %v", err)
	}

	bin := filepath.Join(dir, name)
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	cmd := exec.Command("go", "build", "-o", bin, src)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build helper %s: %v\n%s", name, err, out)
	}
	return bin
}
