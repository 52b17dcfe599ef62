package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configName)
	content := `
[cleanup]
vias = false
shorts = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Cleanup.Vias {
		t.Errorf("vias = true, want false from file")
	}
	if !cfg.Cleanup.Shorts {
		t.Errorf("shorts = false, want true from file")
	}
	// Keys the file does not set keep their defaults.
	if !cfg.Cleanup.Merge || !cfg.Cleanup.Dangling {
		t.Errorf("unset keys lost their defaults: %+v", cfg.Cleanup)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}

	bad := filepath.Join(t.TempDir(), configName)
	if err := os.WriteFile(bad, []byte("[cleanup\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Fatalf("expected an error for malformed TOML")
	}
}

func TestFindConfig(t *testing.T) {
	dir := t.TempDir()
	board := filepath.Join(dir, "demo.kicad_pcb")

	// Without a config file the defaults apply.
	cfg, err := findConfig("", board)
	if err != nil {
		t.Fatalf("findConfig failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}

	// A config next to the board is picked up.
	if err := os.WriteFile(filepath.Join(dir, configName), []byte("[cleanup]\ndangling = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = findConfig("", board)
	if err != nil {
		t.Fatalf("findConfig failed: %v", err)
	}
	if cfg.Cleanup.Dangling {
		t.Errorf("dangling = true, want false from the adjacent config")
	}
}

func TestOptionsMapping(t *testing.T) {
	cfg := Config{}
	cfg.Cleanup.Merge = true
	opts := cfg.Options()
	if !opts.MergeSegments || opts.CleanVias || opts.RemoveMisConnected || opts.DeleteDangling {
		t.Errorf("Options() = %+v", opts)
	}
	if !opts.Any() {
		t.Errorf("Any() = false with a pass enabled")
	}
}
