// SPDX-License-Identifier: MPL-2.0

// Package python models Python runtime installs and resolves which of them
// a project's requires-python range selects.
//
// Catalog enumerates installs (and downloadable builds) through the uv
// tool. Resolver intersects a version constraint with the catalog,
// deduplicates to one install per (implementation, major, minor) keeping
// the newest patch, and returns the matrix in ascending version order.
// An empty matrix is a normal outcome, never an error; callers decide how
// to report it.
package python
