// SPDX-License-Identifier: MPL-2.0

package python

import (
	"errors"
	"testing"
)

func TestNewRuntimeInstall(t *testing.T) {
	t.Parallel()

	install, err := NewRuntimeInstall("cpython", "3.12.4", "/usr/bin/python3.12", "x86_64")
	if err != nil {
		t.Fatalf("NewRuntimeInstall() unexpected error: %v", err)
	}

	if install.Implementation != ImplementationCPython {
		t.Errorf("Implementation = %q, want cpython", install.Implementation)
	}
	if install.Version.Original() != "3.12.4" {
		t.Errorf("Version = %q, want 3.12.4", install.Version.Original())
	}
	if install.IsPrerelease() {
		t.Error("3.12.4 should not be a prerelease")
	}
	if got := install.String(); got != "cpython 3.12.4" {
		t.Errorf("String() = %q, want %q", got, "cpython 3.12.4")
	}
}

func TestNewRuntimeInstallPrerelease(t *testing.T) {
	t.Parallel()

	install, err := NewRuntimeInstall("cpython", "3.14.0rc1", "/opt/python3.14", "x86_64")
	if err != nil {
		t.Fatalf("NewRuntimeInstall() unexpected error: %v", err)
	}
	if !install.IsPrerelease() {
		t.Error("3.14.0rc1 should be a prerelease")
	}
}

func TestNewRuntimeInstallValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		impl    string
		version string
		exe     string
	}{
		{name: "empty implementation", impl: "", version: "3.12.0", exe: "/usr/bin/python"},
		{name: "empty executable", impl: "cpython", version: "3.12.0", exe: ""},
		{name: "unparseable version", impl: "cpython", version: "not-a-version", exe: "/usr/bin/python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewRuntimeInstall(tt.impl, tt.version, tt.exe, "x86_64")
			if err == nil {
				t.Fatal("NewRuntimeInstall() should return error")
			}
			if !errors.Is(err, ErrInvalidInstall) {
				t.Errorf("error does not wrap ErrInvalidInstall: %v", err)
			}
		})
	}
}

func TestRuntimeInstallKey(t *testing.T) {
	t.Parallel()

	a, _ := NewRuntimeInstall("cpython", "3.12.1", "/a", "x86_64")
	b, _ := NewRuntimeInstall("cpython", "3.12.9", "/b", "aarch64")
	c, _ := NewRuntimeInstall("pypy", "3.12.1", "/c", "x86_64")

	if a.key() != b.key() {
		t.Error("patch releases of one minor line should share a key")
	}
	if a.key() == c.key() {
		t.Error("different implementations should not share a key")
	}
}
