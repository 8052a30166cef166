// SPDX-License-Identifier: MPL-2.0

// Package uv wraps the uv package manager as an external command.
//
// uv is treated as an opaque CLI: pyspan never reimplements dependency
// resolution or virtual-environment creation, it only shells out to the
// subcommands it needs (python list, python install, venv, pip install,
// pip list) and parses their machine-readable output.
//
// Tool holds the binary path resolved once at startup; nothing in this
// package reads ambient global state. The exec constructor is injectable
// so tests can stub the process boundary.
package uv
