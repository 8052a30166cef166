// SPDX-License-Identifier: MPL-2.0

package uv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"pyspan/internal/issue"
	"pyspan/pkg/types"
)

// DefaultBinaryName is the binary searched on PATH when no explicit path
// is configured.
const DefaultBinaryName = "uv"

// ErrUVNotFound is returned when no uv binary can be located.
var ErrUVNotFound = errors.New("uv binary not found")

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// ToolOption configures a Tool.
	ToolOption func(*Tool)

	// Tool invokes the uv binary. The binary path is resolved once at
	// construction and threaded through every call; a non-zero exit of
	// any subcommand is surfaced as a CommandError carrying stderr.
	Tool struct {
		binaryPath  string
		quiet       bool
		execCommand ExecCommandFunc
	}

	// CommandError is returned when a uv invocation exits non-zero or
	// cannot be started at all.
	CommandError struct {
		// Args is the uv argument vector that failed (binary excluded).
		Args []string
		// Stderr is the captured standard error, if the invocation ran.
		Stderr string
		// Cause is the underlying exec error.
		Cause error
	}

	// PythonEntry is one row of `uv python list --output-format json`.
	// Entries with a non-empty Path are installed runtimes; entries with
	// only a URL are downloadable builds.
	PythonEntry struct {
		Key            string `json:"key"`
		Version        string `json:"version"`
		Implementation string `json:"implementation"`
		Path           string `json:"path"`
		URL            string `json:"url"`
		OS             string `json:"os"`
		Arch           string `json:"arch"`
	}

	// InstalledPackage is one row of `uv pip list --format json`.
	InstalledPackage struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	// PipInstallOptions describes one `uv pip install` invocation against
	// an environment directory.
	PipInstallOptions struct {
		// EnvDir is the virtual environment the install targets.
		EnvDir string
		// Project is the path installed in editable mode (usually ".").
		Project string
		// Extras are optional dependency groups appended to the editable
		// target ("-e .[extra1,extra2]").
		Extras []string
		// DevGroup additionally installs the "dev" dependency group.
		DevGroup bool
		// Resolution overrides the dependency resolution strategy.
		Resolution types.ResolutionMode
	}
)

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("uv %s: %v", strings.Join(e.Args, " "), e.Cause)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

// Unwrap returns the underlying exec error.
func (e *CommandError) Unwrap() error { return e.Cause }

// WithQuiet makes every uv invocation pass --quiet.
func WithQuiet(quiet bool) ToolOption {
	return func(t *Tool) { t.quiet = quiet }
}

// WithExecCommand overrides how child processes are created. Tests use
// this to stub the process boundary.
func WithExecCommand(f ExecCommandFunc) ToolOption {
	return func(t *Tool) { t.execCommand = f }
}

// NewTool creates a Tool for the given binary path. An empty path falls
// back to looking up "uv" on PATH; failure to find it returns
// ErrUVNotFound wrapped in an actionable error.
func NewTool(binaryPath string, opts ...ToolOption) (*Tool, error) {
	if binaryPath == "" {
		found, err := exec.LookPath(DefaultBinaryName)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("locate uv binary").
				WithSuggestion("Install uv and make sure it is on PATH").
				WithSuggestion("Or set uv.binary_path in the pyspan config file").
				Wrap(ErrUVNotFound).
				BuildError()
		}
		binaryPath = found
	} else if _, err := os.Stat(binaryPath); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("locate uv binary").
			WithResource(binaryPath).
			WithSuggestion("Check the uv.binary_path value in the pyspan config file").
			Wrap(ErrUVNotFound).
			BuildError()
	}

	t := &Tool{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// BinaryPath returns the resolved uv binary path.
func (t *Tool) BinaryPath() string { return t.binaryPath }

// commandArgs prepends the global flags to a subcommand argument vector.
func (t *Tool) commandArgs(args []string) []string {
	if t.quiet {
		return append([]string{"--quiet"}, args...)
	}
	return args
}

// run executes uv with the given args, inheriting the parent's stdout and
// stderr so progress output stays visible, and additionally tees stderr
// for error reporting.
func (t *Tool) run(ctx context.Context, args ...string) error {
	full := t.commandArgs(args)
	cmd := t.execCommand(ctx, t.binaryPath, full...)

	var stderr bytes.Buffer
	if t.quiet {
		cmd.Stdout = nil
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = io.MultiWriter(os.Stderr, &stderr)
	}

	if err := cmd.Run(); err != nil {
		return &CommandError{Args: full, Stderr: stderr.String(), Cause: err}
	}
	return nil
}

// output executes uv with the given args and returns its stdout. Stderr
// is always captured for error reporting; stdout is a parsing contract,
// never user-facing.
func (t *Tool) output(ctx context.Context, args ...string) ([]byte, error) {
	full := t.commandArgs(args)
	cmd := t.execCommand(ctx, t.binaryPath, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &CommandError{Args: full, Stderr: stderr.String(), Cause: err}
	}
	return stdout.Bytes(), nil
}

// ListPythons enumerates Python builds known to uv, both installed and
// downloadable. An empty result is not an error.
func (t *Tool) ListPythons(ctx context.Context) ([]PythonEntry, error) {
	out, err := t.output(ctx, pythonListArgs()...)
	if err != nil {
		return nil, err
	}
	return parsePythonList(out)
}

// InstallPythons downloads and installs the given version strings
// (e.g. "3.12", "3.13").
func (t *Tool) InstallPythons(ctx context.Context, versions []string) error {
	if len(versions) == 0 {
		return nil
	}
	return t.run(ctx, append([]string{"python", "install"}, versions...)...)
}

// CreateVenv creates an empty virtual environment at dir bound to the
// given interpreter executable.
func (t *Tool) CreateVenv(ctx context.Context, pythonExe, dir string) error {
	return t.run(ctx, "venv", "--python", pythonExe, dir)
}

// PipInstall installs a project into an environment in editable mode.
func (t *Tool) PipInstall(ctx context.Context, opts PipInstallOptions) error {
	return t.run(ctx, pipInstallArgs(opts)...)
}

// PipInstallPackage installs a single named package into an environment.
func (t *Tool) PipInstallPackage(ctx context.Context, envDir, name string) error {
	return t.run(ctx, "pip", "install", "--python", envDir, name)
}

// PipList returns the installed packages of an environment.
func (t *Tool) PipList(ctx context.Context, envDir string) ([]InstalledPackage, error) {
	out, err := t.output(ctx, "pip", "list", "--python", envDir, "--format", "json")
	if err != nil {
		return nil, err
	}

	var pkgs []InstalledPackage
	if err := json.Unmarshal(out, &pkgs); err != nil {
		return nil, fmt.Errorf("parse pip list output: %w", err)
	}
	return pkgs, nil
}

// pythonListArgs builds the discovery argument vector.
func pythonListArgs() []string {
	return []string{"python", "list", "--output-format", "json"}
}

// pipInstallArgs builds the editable-install argument vector for opts.
func pipInstallArgs(opts PipInstallOptions) []string {
	project := opts.Project
	if project == "" {
		project = "."
	}
	if len(opts.Extras) > 0 {
		project += "[" + strings.Join(opts.Extras, ",") + "]"
	}

	args := []string{"pip", "install", "--python", opts.EnvDir, "-e", project}
	if opts.DevGroup {
		args = append(args, "--group", "dev")
	}
	if !opts.Resolution.IsDefault() {
		args = append(args, "--resolution", opts.Resolution.String())
	}
	return args
}

// parsePythonList decodes the JSON contract of `uv python list`.
func parsePythonList(data []byte) ([]PythonEntry, error) {
	var entries []PythonEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse python list output: %w", err)
	}
	return entries, nil
}
