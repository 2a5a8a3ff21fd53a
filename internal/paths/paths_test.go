package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalizeMissingFile(t *testing.T) {
	// A path that does not exist should still become absolute.
	p := Canonicalize("does/not/exist.fs")
	if !filepath.IsAbs(p) {
		t.Fatalf("expected absolute path, got %s", p)
	}
}

func TestSamePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.go")
	if err := os.WriteFile(file, []byte("package a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	dotted := filepath.Join(dir, ".", "a.go")
	if !SamePath(file, dotted) {
		t.Fatalf("equivalent paths not matched: %s vs %s", file, dotted)
	}
	if SamePath(file, filepath.Join(dir, "b.go")) {
		t.Fatal("distinct paths matched")
	}
}
