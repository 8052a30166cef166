// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
)

// Resolution modes understood by the environment manager's dependency
// resolver.
const (
	// ResolutionHighest selects the highest compatible version of every
	// dependency. This is the manager's default and the mode used when
	// no override is requested.
	ResolutionHighest ResolutionMode = "highest"
	// ResolutionLowest selects the lowest compatible version of every
	// dependency, including transitive ones.
	ResolutionLowest ResolutionMode = "lowest"
	// ResolutionLowestDirect selects the lowest compatible version of
	// direct dependencies while transitive dependencies stay at highest.
	ResolutionLowestDirect ResolutionMode = "lowest-direct"
)

// ErrInvalidResolutionMode is the sentinel error wrapped by InvalidResolutionModeError.
var ErrInvalidResolutionMode = errors.New("invalid resolution mode")

type (
	// ResolutionMode is a dependency-version selection policy applied
	// during environment provisioning. The zero value ("") is valid and
	// means "use the manager's default" (equivalent to highest).
	ResolutionMode string

	// InvalidResolutionModeError is returned when a ResolutionMode is not
	// one of the recognized policies.
	InvalidResolutionModeError struct {
		Value ResolutionMode
	}
)

// Error implements the error interface.
func (e *InvalidResolutionModeError) Error() string {
	return fmt.Sprintf("invalid resolution mode %q (must be one of: highest, lowest, lowest-direct)", string(e.Value))
}

// Unwrap returns ErrInvalidResolutionMode so callers can use errors.Is for programmatic detection.
func (e *InvalidResolutionModeError) Unwrap() error { return ErrInvalidResolutionMode }

// Validate returns an error if the ResolutionMode is not a recognized policy.
func (m ResolutionMode) Validate() error {
	switch m {
	case "", ResolutionHighest, ResolutionLowest, ResolutionLowestDirect:
		return nil
	}
	return &InvalidResolutionModeError{Value: m}
}

// IsDefault returns true if the mode leaves the manager's resolver at its
// default behavior (no override flag needs to be passed).
func (m ResolutionMode) IsDefault() bool {
	return m == "" || m == ResolutionHighest
}

// String returns the string representation of the ResolutionMode. The zero
// value renders as "highest".
func (m ResolutionMode) String() string {
	if m == "" {
		return string(ResolutionHighest)
	}
	return string(m)
}
