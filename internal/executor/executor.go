// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"pyspan/internal/issue"
	"pyspan/internal/provision"
	"pyspan/pkg/types"
)

// coveragePackage is the plugin whose terminal report interleaves badly
// with captured output; captured runs disable it.
const coveragePackage = "pytest-cov"

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(name string, arg ...string) *exec.Cmd

	// Options configure a single test run.
	Options struct {
		// Args are passed to the test runner verbatim, after the
		// built-in arguments.
		Args []string
		// Capture buffers the run's output instead of streaming it to
		// the terminal. Captured runs with the coverage plugin present
		// additionally pass --no-cov.
		Capture bool
	}

	// Result is the classified outcome of one test run.
	Result struct {
		// Env is the environment the suite ran in.
		Env *provision.Environment
		// Code is the run's exit code.
		Code types.ExitCode
		// Output is the captured stdout, empty when streaming.
		Output []byte
		// ErrOutput is the captured stderr, empty when streaming.
		ErrOutput []byte
	}

	// RunnerOption configures a Runner.
	RunnerOption func(*Runner)

	// Runner launches test suites. Runs are awaited to completion even
	// when the context is cancelled mid-run; the test runner handles
	// the terminal's interrupt signal itself and reports a cancelled
	// exit code. Cancellation is honored between runs.
	Runner struct {
		logger      *log.Logger
		execCommand ExecCommandFunc
	}
)

// WithExecCommand overrides how child processes are created. Tests use
// this to stub the process boundary.
func WithExecCommand(f ExecCommandFunc) RunnerOption {
	return func(r *Runner) { r.execCommand = f }
}

// NewRunner creates a Runner.
func NewRunner(logger *log.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		logger:      logger,
		execCommand: exec.Command,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the test suite in env. A non-zero test outcome is not an
// error; the caller reads Result.Code. An error is returned only when
// the run could not start or the context was already cancelled.
func (r *Runner) Run(ctx context.Context, env *provision.Environment, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Env: env, Code: types.ExitTestsCancelled}, err
	}

	args := runnerArgs(env, opts)
	r.logger.Debug("running test suite", "env", env, "args", args)

	cmd := r.execCommand(env.Python, args...)

	var stdout, stderr bytes.Buffer
	if opts.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	result := Result{Env: env}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			result.Code = types.ExitInternalError
			return result, issue.WrapWithContext(err, "run test suite", env.String())
		}
		code := exitErr.ExitCode()
		if code < 0 {
			// The runner died on a signal (OOM kill, segfault); there
			// is no test outcome to report.
			r.logger.Warn("test runner terminated by signal", "env", env, "state", exitErr.ProcessState)
			code = int(types.ExitInternalError)
		}
		result.Code = types.ExitCode(code)
	}

	result.Output = stdout.Bytes()
	result.ErrOutput = stderr.Bytes()
	return result, nil
}

// runnerArgs builds the interpreter argument vector for one run.
func runnerArgs(env *provision.Environment, opts Options) []string {
	args := []string{"-m", "pytest", "--color=yes"}
	if opts.Capture && env.HasPackage(coveragePackage) {
		args = append(args, "--no-cov")
	}
	return append(args, opts.Args...)
}
