// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"pyspan/internal/config"
	"pyspan/internal/issue"
	"pyspan/internal/project"
	"pyspan/internal/provision"
	"pyspan/internal/python"
	"pyspan/internal/uv"
	"pyspan/pkg/types"
)

func TestIssueFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{name: "uv missing", err: uv.ErrUVNotFound, want: issue.UVNotFoundId},
		{name: "wrapped uv missing", err: fmt.Errorf("startup: %w", uv.ErrUVNotFound), want: issue.UVNotFoundId},
		{name: "descriptor missing", err: project.ErrDescriptorNotFound, want: issue.DescriptorNotFoundId},
		{name: "constraint missing", err: project.ErrConstraintMissing, want: issue.ConstraintMissingId},
		{name: "discovery failed", err: fmt.Errorf("%w: exit status 2", python.ErrDiscoveryFailed), want: issue.DiscoveryFailedId},
		{name: "provisioning failed", err: &provision.ProvisioningError{Env: "cpython 3.12.4", Step: "create venv", Cause: errors.New("boom")}, want: issue.ProvisionFailedId},
		{name: "no environments", err: errNoEnvironments, want: issue.NoEnvironmentsId},
		{name: "invalid config", err: fmt.Errorf("load: %w", config.ErrInvalidConfig), want: issue.ConfigLoadFailedId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := issueFor(tt.err)
			if got == nil {
				t.Fatal("issueFor() = nil")
			}
			if got.Id() != tt.want {
				t.Errorf("issue id = %d, want %d", got.Id(), tt.want)
			}
		})
	}

	if issueFor(errors.New("some other failure")) != nil {
		t.Error("unrelated errors must not map to a catalog entry")
	}
}

func TestRenderIssueForUnknownError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	renderIssueFor(&out, errors.New("plain failure"))
	if out.Len() != 0 {
		t.Errorf("nothing should be rendered for uncatalogued errors, got %q", out.String())
	}
}

func TestFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := failure(types.ExitInternalError, cause)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("failure() did not return an ExitError: %v", err)
	}
	if exitErr.Code != types.ExitInternalError {
		t.Errorf("Code = %d", exitErr.Code)
	}
	if !errors.Is(err, cause) {
		t.Error("failure() should preserve the cause chain")
	}
}
