// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGlobalLoadCaches(t *testing.T) {
	t.Cleanup(ResetGlobal)
	t.Cleanup(Reset)
	SetConfigDirOverride(t.TempDir())

	first, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	second, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if first != second {
		t.Error("Load() should return the cached instance")
	}
}

func TestGlobalLoadFallsBackToDefaultsOnError(t *testing.T) {
	t.Cleanup(ResetGlobal)

	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "missing.cue"))

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load() should report the missing override file")
	}
	if cfg == nil {
		t.Fatal("Load() must return a usable config even on error")
	}
	if cfg.ScratchDir.OrDefault() != DefaultScratchDir {
		t.Errorf("fallback ScratchDir = %q", cfg.ScratchDir)
	}
}

func TestSetConfigFilePathOverrideClearsCache(t *testing.T) {
	t.Cleanup(ResetGlobal)
	t.Cleanup(Reset)
	SetConfigDirOverride(t.TempDir())

	if _, err := Load(); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "override.cue")
	if err := os.WriteFile(path, []byte(`scratch_dir: "overridden"`), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	SetConfigFilePathOverride(path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.ScratchDir != "overridden" {
		t.Errorf("ScratchDir = %q, want overridden", cfg.ScratchDir)
	}
}
