// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"

	"pyspan/pkg/types"
)

func TestRunCommandFlags(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"extra", "resolution", "prereleases", "pypy", "install-missing", "parallel", "quiet"} {
		if runCmd.Flags().Lookup(name) == nil {
			t.Errorf("run command is missing --%s flag", name)
		}
	}
}

func TestRunCommandPassesArgsVerbatim(t *testing.T) {
	// SetInterspersed(false) means the first positional argument stops
	// flag parsing, so pytest flags survive untouched.
	if err := runCmd.Flags().Parse([]string{"tests/", "-k", "not slow", "--prereleases"}); err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	args := runCmd.Flags().Args()

	want := []string{"tests/", "-k", "not slow", "--prereleases"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestRunRejectsInvalidResolutionMode(t *testing.T) {
	runResolutions = []string{"fastest"}
	t.Cleanup(func() { runResolutions = nil })

	err := runRun(runCmd, nil)
	if err == nil {
		t.Fatal("runRun() should reject an unknown resolution mode")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error is not an ExitError: %v", err)
	}
	if exitErr.Code != types.ExitUsageError {
		t.Errorf("Code = %d, want %d", exitErr.Code, types.ExitUsageError)
	}
	if !errors.Is(err, types.ErrInvalidResolutionMode) {
		t.Errorf("error does not wrap ErrInvalidResolutionMode: %v", err)
	}
}
