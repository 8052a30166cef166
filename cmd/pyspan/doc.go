// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for pyspan.
//
// This package implements the Cobra command hierarchy for the pyspan
// CLI: the root command, the run command that drives a full
// multi-environment test run, and the versions and clean utilities.
package cmd
