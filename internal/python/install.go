// SPDX-License-Identifier: MPL-2.0

package python

import (
	"errors"
	"fmt"

	goversion "github.com/hashicorp/go-version"
)

// Implementation names reported by the discovery tool.
const (
	// ImplementationCPython is the reference interpreter.
	ImplementationCPython Implementation = "cpython"
	// ImplementationPyPy is the alternate JIT implementation.
	ImplementationPyPy Implementation = "pypy"
)

// ErrInvalidInstall is the sentinel error wrapped by InvalidInstallError.
var ErrInvalidInstall = errors.New("invalid runtime install")

type (
	// Implementation identifies a Python implementation ("cpython", "pypy").
	Implementation string

	// RuntimeInstall is one discovered interpreter: implementation,
	// parsed version, executable path and architecture. Instances are
	// validated at construction and immutable afterwards.
	RuntimeInstall struct {
		Implementation Implementation
		Version        *goversion.Version
		Executable     string
		Arch           string
	}

	// InvalidInstallError is returned when a RuntimeInstall cannot be
	// constructed from discovery output.
	InvalidInstallError struct {
		Reason string
	}

	// minorKey identifies a (implementation, major, minor) line. The
	// resolver keeps at most one install per key.
	minorKey struct {
		impl  Implementation
		major int
		minor int
	}
)

// Error implements the error interface.
func (e *InvalidInstallError) Error() string {
	return fmt.Sprintf("invalid runtime install: %s", e.Reason)
}

// Unwrap returns ErrInvalidInstall so callers can use errors.Is for programmatic detection.
func (e *InvalidInstallError) Unwrap() error { return ErrInvalidInstall }

// String returns the implementation name.
func (i Implementation) String() string { return string(i) }

// NewRuntimeInstall validates and constructs a RuntimeInstall from raw
// discovery output.
func NewRuntimeInstall(impl, versionStr, executable, arch string) (RuntimeInstall, error) {
	if impl == "" {
		return RuntimeInstall{}, &InvalidInstallError{Reason: "empty implementation name"}
	}
	if executable == "" {
		return RuntimeInstall{}, &InvalidInstallError{Reason: "empty executable path"}
	}

	v, err := goversion.NewVersion(versionStr)
	if err != nil {
		return RuntimeInstall{}, &InvalidInstallError{
			Reason: fmt.Sprintf("unparseable version %q: %v", versionStr, err),
		}
	}

	return RuntimeInstall{
		Implementation: Implementation(impl),
		Version:        v,
		Executable:     executable,
		Arch:           arch,
	}, nil
}

// IsPrerelease returns true when the install is an alpha, beta or release
// candidate build.
func (r RuntimeInstall) IsPrerelease() bool {
	return r.Version.Prerelease() != ""
}

// String renders the install as "<implementation> <version>".
func (r RuntimeInstall) String() string {
	return fmt.Sprintf("%s %s", r.Implementation, r.Version.Original())
}

// key returns the (implementation, major, minor) identity of the install.
func (r RuntimeInstall) key() minorKey {
	segs := r.Version.Segments()
	return minorKey{impl: r.Implementation, major: segs[0], minor: segs[1]}
}
