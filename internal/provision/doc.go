// SPDX-License-Identifier: MPL-2.0

// Package provision builds isolated virtual environments for test runs.
//
// A Spec names the interpreter, resolution mode and dependency extras of
// one environment; Provisioner turns a Spec into a ready Environment by
// creating a venv, installing the project in editable mode and making
// sure a test runner is present. Environments are throwaway artifacts
// under a scratch directory and are removed wholesale after a run.
package provision
