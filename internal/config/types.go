// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultScratchDir is the scratch directory name used when the config
// file does not override it.
const DefaultScratchDir = "env_testing"

var (
	// ErrInvalidBinaryFilePath is returned when a BinaryFilePath value is whitespace-only.
	ErrInvalidBinaryFilePath = errors.New("invalid binary file path")
	// ErrInvalidScratchDirName is returned when a ScratchDirName value is invalid.
	ErrInvalidScratchDirName = errors.New("invalid scratch dir name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// BinaryFilePath represents a filesystem path to a binary executable.
	// The zero value ("") is valid and means "look up the binary on PATH".
	// Non-zero values must not be whitespace-only.
	BinaryFilePath string

	// InvalidBinaryFilePathError is returned when a BinaryFilePath value is
	// non-empty but whitespace-only. It wraps ErrInvalidBinaryFilePath for errors.Is().
	InvalidBinaryFilePathError struct {
		Value BinaryFilePath
	}

	// ScratchDirName is the directory name, relative to the project root,
	// that holds throwaway test environments. The zero value ("") is valid
	// and means "use the default". Non-zero values must be a bare name,
	// not a path.
	ScratchDirName string

	// InvalidScratchDirNameError is returned when a ScratchDirName value is
	// whitespace-only or contains a path separator. It wraps
	// ErrInvalidScratchDirName for errors.Is() compatibility.
	InvalidScratchDirNameError struct {
		Value ScratchDirName
	}

	// UVConfig configures the uv process boundary.
	UVConfig struct {
		// BinaryPath points at an explicit uv binary.
		BinaryPath BinaryFilePath `mapstructure:"binary_path"`
		// Quiet suppresses uv's own progress output.
		Quiet bool `mapstructure:"quiet"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Verbose enables debug-level logging.
		Verbose bool `mapstructure:"verbose"`
	}

	// Config is pyspan's tool configuration.
	Config struct {
		// ScratchDir holds throwaway test environments.
		ScratchDir ScratchDirName `mapstructure:"scratch_dir"`
		// UV configures the environment manager.
		UV UVConfig `mapstructure:"uv"`
		// UI configures terminal output.
		UI UIConfig `mapstructure:"ui"`
	}

	// InvalidConfigError aggregates every validation failure of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		Errs []error
	}
)

// Error implements the error interface.
func (e *InvalidBinaryFilePathError) Error() string {
	return fmt.Sprintf("invalid binary file path %q: must not be whitespace-only", string(e.Value))
}

// Unwrap returns ErrInvalidBinaryFilePath so callers can use errors.Is for programmatic detection.
func (e *InvalidBinaryFilePathError) Unwrap() error { return ErrInvalidBinaryFilePath }

// Error implements the error interface.
func (e *InvalidScratchDirNameError) Error() string {
	return fmt.Sprintf("invalid scratch dir name %q: must be a non-empty bare directory name", string(e.Value))
}

// Unwrap returns ErrInvalidScratchDirName so callers can use errors.Is for programmatic detection.
func (e *InvalidScratchDirNameError) Unwrap() error { return ErrInvalidScratchDirName }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap exposes ErrInvalidConfig and every aggregated field error so
// callers can use errors.Is for programmatic detection.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.Errs...)
}

// IsValid reports whether the BinaryFilePath is valid, returning the
// validation errors when it is not.
func (p BinaryFilePath) IsValid() (bool, []error) {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBinaryFilePathError{Value: p}}
	}
	return true, nil
}

// String returns the path as a plain string.
func (p BinaryFilePath) String() string { return string(p) }

// IsValid reports whether the ScratchDirName is valid, returning the
// validation errors when it is not.
func (n ScratchDirName) IsValid() (bool, []error) {
	if n == "" {
		return true, nil
	}
	if strings.TrimSpace(string(n)) == "" || strings.ContainsAny(string(n), `/\`) {
		return false, []error{&InvalidScratchDirNameError{Value: n}}
	}
	return true, nil
}

// OrDefault returns the configured name, or DefaultScratchDir when unset.
func (n ScratchDirName) OrDefault() string {
	if n == "" {
		return DefaultScratchDir
	}
	return string(n)
}

// String returns the name as a plain string.
func (n ScratchDirName) String() string { return string(n) }

// Validate checks every field of the Config, aggregating all failures
// into a single InvalidConfigError.
func (c *Config) Validate() error {
	var errs []error
	if ok, verrs := c.UV.BinaryPath.IsValid(); !ok {
		errs = append(errs, verrs...)
	}
	if ok, verrs := c.ScratchDir.IsValid(); !ok {
		errs = append(errs, verrs...)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{Errs: errs}
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ScratchDir: DefaultScratchDir,
		UV: UVConfig{
			BinaryPath: "", // resolved from PATH when empty
			Quiet:      false,
		},
		UI: UIConfig{
			Verbose: false,
		},
	}
}
