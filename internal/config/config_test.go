// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.ScratchDir.OrDefault() != DefaultScratchDir {
		t.Errorf("ScratchDir = %q, want %q", cfg.ScratchDir, DefaultScratchDir)
	}
	if cfg.UV.BinaryPath != "" {
		t.Errorf("BinaryPath = %q, want empty", cfg.UV.BinaryPath)
	}
	if cfg.UV.Quiet || cfg.UI.Verbose {
		t.Error("boolean defaults should be false")
	}
}

func TestLoadFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
scratch_dir: "tmp_envs"
uv: {
	binary_path: "/opt/uv/bin/uv"
	quiet: true
}
ui: verbose: true
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.ScratchDir != "tmp_envs" {
		t.Errorf("ScratchDir = %q", cfg.ScratchDir)
	}
	if cfg.UV.BinaryPath != "/opt/uv/bin/uv" {
		t.Errorf("BinaryPath = %q", cfg.UV.BinaryPath)
	}
	if !cfg.UV.Quiet {
		t.Error("Quiet should be true")
	}
	if !cfg.UI.Verbose {
		t.Error("Verbose should be true")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `uv: quiet: true`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if !cfg.UV.Quiet {
		t.Error("Quiet should be true")
	}
	if cfg.ScratchDir.OrDefault() != DefaultScratchDir {
		t.Errorf("ScratchDir = %q, want default", cfg.ScratchDir)
	}
}

func TestLoadExplicitConfigFile(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), `scratch_dir: "elsewhere"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.ScratchDir != "elsewhere" {
		t.Errorf("ScratchDir = %q", cfg.ScratchDir)
	}
}

func TestLoadExplicitConfigFileMissing(t *testing.T) {
	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Fatal("Load() should fail for a missing explicit config file")
	}
}

func TestLoadInvalidCUESyntax(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `scratch_dir: "unterminated`)

	if _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir}); err == nil {
		t.Fatal("Load() should fail on invalid CUE syntax")
	}
}

func TestLoadSchemaViolation(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `uv: quiet: "yes"`) // bool field given a string

	if _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir}); err == nil {
		t.Fatal("Load() should fail when the file violates the schema")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PYSPAN_UV_QUIET", "true")
	t.Setenv("PYSPAN_SCRATCH_DIR", "from_env")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !cfg.UV.Quiet {
		t.Error("PYSPAN_UV_QUIET should override the default")
	}
	if cfg.ScratchDir != "from_env" {
		t.Errorf("ScratchDir = %q, want from_env", cfg.ScratchDir)
	}
}

func TestLoadValidationFailure(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `uv: binary_path: "   "`)

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("Load() should reject a whitespace-only binary path")
	}
	if !errors.Is(err, ErrInvalidBinaryFilePath) {
		t.Errorf("error does not wrap ErrInvalidBinaryFilePath: %v", err)
	}
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); err == nil {
		t.Fatal("Load() should fail on a cancelled context")
	}
}

func TestGenerateCUERoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &Config{
		ScratchDir: "roundtrip_envs",
		UV:         UVConfig{BinaryPath: "/usr/local/bin/uv", Quiet: true},
		UI:         UIConfig{Verbose: true},
	}
	writeConfigFile(t, dir, GenerateCUE(want))

	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestConfigDirOverride(t *testing.T) {
	t.Cleanup(Reset)

	SetConfigDirOverride("/custom/config/dir")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() unexpected error: %v", err)
	}
	if dir != "/custom/config/dir" {
		t.Errorf("ConfigDir() = %q", dir)
	}
}
