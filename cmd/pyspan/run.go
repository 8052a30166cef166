// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"pyspan/internal/orchestrate"
	"pyspan/internal/uv"
	"pyspan/pkg/types"
)

// errNoEnvironments accompanies the reserved 404 exit code.
var errNoEnvironments = errors.New("no Python environments satisfy the project's requires-python range")

var (
	runExtras         []string
	runResolutions    []string
	runPrereleases    bool
	runPyPy           bool
	runInstallMissing bool
	runParallel       bool
	runQuiet          bool

	runCmd = &cobra.Command{
		Use:   "run [-- pytest args...]",
		Short: "Run the test suite in every viable Python environment",
		Long: `Run pytest across every Python version that satisfies the project's
requires-python range.

Each version gets its own throwaway virtual environment with the project
installed in editable mode. The command's exit code is the most severe
pytest exit code any environment produced; a run that resolves zero
environments exits with the reserved code 404.

Everything after the first positional argument (or after --) is passed
to pytest verbatim.`,
		Args: cobra.ArbitraryArgs,
		RunE: runRun,
	}
)

func init() {
	// The first positional argument ends flag parsing so pytest flags
	// pass through untouched.
	runCmd.Flags().SetInterspersed(false)

	runCmd.Flags().StringArrayVarP(&runExtras, "extra", "e", nil, "project extra to install into every environment (repeatable)")
	runCmd.Flags().StringArrayVar(&runResolutions, "resolution", nil, "dependency resolution mode: highest, lowest or lowest-direct (repeatable, multiplies the environment matrix)")
	runCmd.Flags().BoolVar(&runPrereleases, "prereleases", false, "include alpha/beta/rc interpreters")
	runCmd.Flags().BoolVar(&runPyPy, "pypy", false, "also test PyPy interpreters")
	runCmd.Flags().BoolVar(&runInstallMissing, "install-missing", false, "download interpreters for minor versions in range but not installed")
	runCmd.Flags().BoolVar(&runParallel, "parallel", false, "run environments concurrently with captured, per-environment output blocks")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "suppress uv progress output")
}

func runRun(cmd *cobra.Command, args []string) error {
	modes := make([]types.ResolutionMode, 0, len(runResolutions))
	for _, raw := range runResolutions {
		mode := types.ResolutionMode(raw)
		if err := mode.Validate(); err != nil {
			return &ExitError{Code: types.ExitUsageError, Err: err}
		}
		modes = append(modes, mode)
	}

	cfg := loadedConfig()
	logger := newLogger()

	tool, err := uv.NewTool(cfg.UV.BinaryPath.String(), uv.WithQuiet(cfg.UV.Quiet || runQuiet))
	if err != nil {
		return failure(types.ExitInternalError, err)
	}

	projectDir, err := os.Getwd()
	if err != nil {
		return &ExitError{Code: types.ExitInternalError, Err: err}
	}

	orch := orchestrate.NewOrchestrator(tool, logger, orchestrate.Options{
		Extras:         runExtras,
		Modes:          modes,
		Prereleases:    runPrereleases,
		PyPy:           runPyPy,
		InstallMissing: runInstallMissing,
		Parallel:       runParallel,
		RunnerArgs:     args,
		ScratchDirName: cfg.ScratchDir.OrDefault(),
	})

	code, err := orch.Run(cmd.Context(), projectDir)
	if err != nil {
		return failure(code, err)
	}
	if code.IsSentinel() {
		return failure(code, errNoEnvironments)
	}
	if !code.IsSuccess() {
		return &ExitError{Code: code}
	}
	return nil
}
