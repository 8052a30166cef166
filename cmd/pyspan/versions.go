// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyspan/internal/project"
	"pyspan/internal/python"
	"pyspan/internal/uv"
	"pyspan/pkg/types"
)

var (
	versionsPrereleases bool
	versionsPyPy        bool

	versionsCmd = &cobra.Command{
		Use:   "versions",
		Short: "Show which installed Python versions the project would be tested against",
		Long: `Show the resolved runtime matrix for the project in the current
directory without provisioning anything.

Every installed interpreter is listed; the ones a 'pyspan run' would use
are marked. Minor versions that satisfy the range but are only available
for download are listed separately.`,
		Args: cobra.NoArgs,
		RunE: runVersions,
	}
)

func init() {
	versionsCmd.Flags().BoolVar(&versionsPrereleases, "prereleases", false, "include alpha/beta/rc interpreters")
	versionsCmd.Flags().BoolVar(&versionsPyPy, "pypy", false, "also consider PyPy interpreters")
}

func runVersions(cmd *cobra.Command, _ []string) error {
	cfg := loadedConfig()
	logger := newLogger()

	tool, err := uv.NewTool(cfg.UV.BinaryPath.String(), uv.WithQuiet(true))
	if err != nil {
		return failure(types.ExitInternalError, err)
	}

	projectDir, err := os.Getwd()
	if err != nil {
		return &ExitError{Code: types.ExitInternalError, Err: err}
	}
	desc, err := project.Load(projectDir)
	if err != nil {
		return failure(types.ExitInternalError, err)
	}

	ctx := cmd.Context()
	catalog := python.NewCatalog(tool, logger)
	installs, err := catalog.Installs(ctx)
	if err != nil {
		return &ExitError{Code: types.ExitInternalError, Err: err}
	}
	downloadable, err := catalog.Downloadable(ctx)
	if err != nil {
		return &ExitError{Code: types.ExitInternalError, Err: err}
	}

	resolveOpts := python.ResolveOptions{Prereleases: versionsPrereleases}
	if versionsPyPy {
		resolveOpts.Implementations = []python.Implementation{
			python.ImplementationCPython,
			python.ImplementationPyPy,
		}
	}
	resolved := python.Resolver{}.Resolve(desc.Constraint, installs, resolveOpts)

	selected := make(map[string]bool, len(resolved))
	for _, install := range resolved {
		selected[install.Executable] = true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render(desc.String()))
	fmt.Fprintln(out)

	if len(installs) == 0 {
		fmt.Fprintln(out, WarningStyle.Render("No Python interpreters installed."))
	}
	for _, install := range installs {
		marker := SubtitleStyle.Render("  -")
		label := SubtitleStyle.Render(install.String())
		if selected[install.Executable] {
			marker = SuccessStyle.Render("  ✓")
			label = VersionStyle.Render(install.String())
		}
		fmt.Fprintf(out, "%s %s  %s\n", marker, label, VerboseStyle.Render(install.Executable))
	}

	missing := python.MissingMinorLines(desc.Constraint, installs, downloadable)
	if len(missing) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, WarningStyle.Render("Available for download (pyspan run --install-missing):"))
		for _, line := range missing {
			fmt.Fprintf(out, "  %s\n", VersionStyle.Render(line))
		}
	}

	if len(resolved) == 0 {
		return failure(types.ExitNoEnvironments, errNoEnvironments)
	}
	return nil
}
