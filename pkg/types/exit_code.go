// SPDX-License-Identifier: MPL-2.0

package types

import (
	"strconv"
)

// Exit codes emitted by pytest, plus the reserved sentinel for runs that
// resolved zero environments. The numeric ordering doubles as a severity
// ordering: a higher code always outranks a lower one during aggregation.
const (
	// ExitSuccess means all tests passed in every environment.
	ExitSuccess ExitCode = 0
	// ExitTestFailures means at least one test failed.
	ExitTestFailures ExitCode = 1
	// ExitTestsCancelled means a test session was interrupted by the user.
	ExitTestsCancelled ExitCode = 2
	// ExitInternalError means the test runner itself crashed.
	ExitInternalError ExitCode = 3
	// ExitUsageError means the test runner rejected its command line.
	ExitUsageError ExitCode = 4
	// ExitNoTests means the test runner collected no tests.
	ExitNoTests ExitCode = 5

	// ExitNoEnvironments is the reserved sentinel returned when zero
	// environments were resolved for the run. It is deliberately outside
	// the range a test runner can emit so callers can tell "nothing ran"
	// apart from "something ran and failed".
	ExitNoEnvironments ExitCode = 404
)

// ExitCode represents a process exit status code. The zero value (0)
// means success. Codes returned by a test runner are opaque to the
// executor; their meaning is a caller-level convention captured by the
// named constants in this package.
type ExitCode int

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// IsSentinel returns true if the exit code is the reserved
// no-environments sentinel rather than a code produced by a test run.
func (c ExitCode) IsSentinel() bool { return c == ExitNoEnvironments }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// MaxExitCode aggregates per-environment exit codes into one process
// result: the highest (most severe) code wins. Zero codes yields the
// ExitNoEnvironments sentinel. Negative codes mark abnormal process
// termination and rank as ExitInternalError so they can never be
// outvoted by a passing run.
func MaxExitCode(codes ...ExitCode) ExitCode {
	if len(codes) == 0 {
		return ExitNoEnvironments
	}
	max := ExitSuccess
	for _, c := range codes {
		if c < 0 {
			c = ExitInternalError
		}
		if c > max {
			max = c
		}
	}
	return max
}
