// SPDX-License-Identifier: MPL-2.0

// Package orchestrate coordinates a full multi-environment test run.
//
// A run walks a fixed state machine: resolve the viable Python runtimes
// from the project's requires-python range, provision one environment
// per (runtime, resolution mode) pair, execute the test suite in each,
// and aggregate the per-environment exit codes into a single process
// result where the most severe code wins. Environments live under a
// scratch directory that is removed when the run ends, whichever way it
// ends.
package orchestrate
