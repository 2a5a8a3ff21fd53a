package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCompilation(t *testing.T) {
	t.Run("missing file yields default", func(t *testing.T) {
		cfg, err := loadCompilation(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Defines) != 0 || len(cfg.Flags) != 0 {
			t.Fatalf("expected empty default, got %+v", cfg)
		}
	})

	t.Run("reads project.toml from the root", func(t *testing.T) {
		dir := t.TempDir()
		content := "defines = [\"DEBUG\", \"TRACE\"]\nflags = [\"--nowarn:57\"]\n"
		if err := os.WriteFile(filepath.Join(dir, "project.toml"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := loadCompilation(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Defines) != 2 || cfg.Defines[0] != "DEBUG" {
			t.Errorf("Defines = %v", cfg.Defines)
		}
		if len(cfg.Flags) != 1 || cfg.Flags[0] != "--nowarn:57" {
			t.Errorf("Flags = %v", cfg.Flags)
		}
	})

	t.Run("malformed file errors", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "project.toml"), []byte("defines = not-a-list"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := loadCompilation(dir); err == nil {
			t.Fatal("expected error for malformed project.toml")
		}
	})
}
