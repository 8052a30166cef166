// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"pyspan/internal/config"
	"pyspan/internal/issue"
	"pyspan/internal/project"
	"pyspan/internal/provision"
	"pyspan/internal/python"
	"pyspan/internal/uv"
	"pyspan/pkg/types"
)

// issueFor maps a failure onto its issue catalog entry, or nil when no
// entry applies.
func issueFor(err error) *issue.Issue {
	switch {
	case errors.Is(err, uv.ErrUVNotFound):
		return issue.Get(issue.UVNotFoundId)
	case errors.Is(err, project.ErrDescriptorNotFound):
		return issue.Get(issue.DescriptorNotFoundId)
	case errors.Is(err, project.ErrConstraintMissing):
		return issue.Get(issue.ConstraintMissingId)
	case errors.Is(err, python.ErrDiscoveryFailed):
		return issue.Get(issue.DiscoveryFailedId)
	case errors.Is(err, provision.ErrProvisionFailed):
		return issue.Get(issue.ProvisionFailedId)
	case errors.Is(err, errNoEnvironments):
		return issue.Get(issue.NoEnvironmentsId)
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.Get(issue.ConfigLoadFailedId)
	}
	return nil
}

// failure renders the issue catalog help for err (when an entry exists)
// and converts it into an ExitError carrying code.
func failure(code types.ExitCode, err error) error {
	renderIssueFor(os.Stderr, err)
	return &ExitError{Code: code, Err: err}
}

// renderIssueFor prints the catalog help section matching err. Render
// failures are swallowed; the underlying error still reaches the user
// through the ExitError.
func renderIssueFor(stderr io.Writer, err error) {
	catalogEntry := issueFor(err)
	if catalogEntry == nil {
		return
	}
	rendered, renderErr := catalogEntry.Render("dark")
	if renderErr != nil {
		return
	}
	fmt.Fprint(stderr, rendered)
}
