// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestBinaryFilePathIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value BinaryFilePath
		valid bool
	}{
		{name: "empty means PATH lookup", value: "", valid: true},
		{name: "absolute path", value: "/usr/local/bin/uv", valid: true},
		{name: "whitespace only", value: "   ", valid: false},
		{name: "tab only", value: "\t", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.value.IsValid()
			if ok != tt.valid {
				t.Errorf("IsValid() = %v, want %v", ok, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidBinaryFilePath) {
				t.Errorf("error does not wrap ErrInvalidBinaryFilePath: %v", errs[0])
			}
		})
	}
}

func TestScratchDirNameIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value ScratchDirName
		valid bool
	}{
		{name: "empty means default", value: "", valid: true},
		{name: "bare name", value: "env_testing", valid: true},
		{name: "whitespace only", value: "  ", valid: false},
		{name: "contains slash", value: "a/b", valid: false},
		{name: "contains backslash", value: `a\b`, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.value.IsValid()
			if ok != tt.valid {
				t.Errorf("IsValid() = %v, want %v", ok, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidScratchDirName) {
				t.Errorf("error does not wrap ErrInvalidScratchDirName: %v", errs[0])
			}
		})
	}
}

func TestScratchDirNameOrDefault(t *testing.T) {
	t.Parallel()

	if got := ScratchDirName("").OrDefault(); got != DefaultScratchDir {
		t.Errorf("OrDefault() = %q, want %q", got, DefaultScratchDir)
	}
	if got := ScratchDirName("custom").OrDefault(); got != "custom" {
		t.Errorf("OrDefault() = %q, want custom", got)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}

	bad := &Config{
		ScratchDir: "a/b",
		UV:         UVConfig{BinaryPath: "  "},
	}
	err := bad.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error does not wrap ErrInvalidConfig: %v", err)
	}
	if !errors.Is(err, ErrInvalidBinaryFilePath) || !errors.Is(err, ErrInvalidScratchDirName) {
		t.Errorf("aggregate should carry both field errors: %v", err)
	}
}
