// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates pyspan's tool configuration.
//
// Configuration lives in a CUE file (config.cue) in the platform config
// directory, validated against an embedded #Config schema before being
// merged into Viper alongside defaults and PYSPAN_* environment
// overrides. A missing config file is not an error; defaults apply.
package config
