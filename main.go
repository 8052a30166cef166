// SPDX-License-Identifier: MPL-2.0

// pyspan runs a Python project's test suite across every installed
// interpreter that satisfies its requires-python range.
package main

import cmd "pyspan/cmd/pyspan"

func main() {
	cmd.Execute()
}
