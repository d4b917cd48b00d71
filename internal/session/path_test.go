package session

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUniquePathMissingFileUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.wav")
	if got := UniquePath(path); got != path {
		t.Fatalf("expected %q unchanged, got %q", path, got)
	}
}

func TestUniquePathCounts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wav")
	touch(t, path)

	got := UniquePath(path)
	if want := filepath.Join(dir, "a_1.wav"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	touch(t, filepath.Join(dir, "a_1.wav"))
	got = UniquePath(path)
	if want := filepath.Join(dir, "a_2.wav"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestUniquePathDefaultExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "take")
	touch(t, path)

	got := UniquePath(path)
	if want := filepath.Join(dir, "take_1.wav"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
