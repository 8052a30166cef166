// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pyspan/internal/orchestrate"
	"pyspan/pkg/types"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove leftover scratch environments",
	Long: `Remove the scratch directory of the project in the current directory,
including virtual environments left behind by interrupted runs.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cfg := loadedConfig()

	projectDir, err := os.Getwd()
	if err != nil {
		return &ExitError{Code: types.ExitInternalError, Err: err}
	}

	scratchName := cfg.ScratchDir.OrDefault()
	if err := orchestrate.Clean(projectDir, scratchName); err != nil {
		return &ExitError{Code: types.ExitInternalError, Err: err}
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Removed ")+VersionStyle.Render(filepath.Join(projectDir, scratchName)))
	return nil
}
