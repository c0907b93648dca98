package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// WriteFile creates path (and its parents) on the real filesystem with a
// small placeholder payload.
func WriteFile(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MemFS returns an in-memory filesystem populated with the given paths.
func MemFS(t testing.TB, paths ...string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, path := range paths {
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", path, err)
		}
		if err := afero.WriteFile(fs, path, []byte("media"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return fs
}
