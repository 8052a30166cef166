// SPDX-License-Identifier: MPL-2.0

// Package project loads the project descriptor (pyproject.toml) that
// declares the supported Python range and optional dependency groups.
//
// A missing descriptor or missing requires-python key is a fatal
// configuration error: nothing can be provisioned without knowing which
// versions the project supports.
package project
