// SPDX-License-Identifier: MPL-2.0

// Package executor runs the project's test suite inside provisioned
// environments and classifies the outcome.
//
// Each run invokes the environment's interpreter as "python -m pytest"
// with color forced on, passes caller arguments through verbatim and
// maps the process exit code onto types.ExitCode. Output is either
// streamed to the parent's terminal or captured for later contiguous
// replay, which concurrent runs rely on to keep reports readable.
package executor
