// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"pyspan/internal/python"
	"pyspan/internal/uv"
	"pyspan/pkg/types"
)

// TestRunnerPackage is installed into every environment that does not
// already pull it in through the project's dependencies.
const TestRunnerPackage = "pytest"

// ErrProvisionFailed is the sentinel error matched by errors.Is on any
// ProvisioningError.
var ErrProvisionFailed = errors.New("environment provisioning failed")

type (
	// envTool is the slice of the uv surface the provisioner needs.
	// Tests substitute a fake; production code passes *uv.Tool.
	envTool interface {
		CreateVenv(ctx context.Context, pythonExe, dir string) error
		PipInstall(ctx context.Context, opts uv.PipInstallOptions) error
		PipInstallPackage(ctx context.Context, envDir, name string) error
		PipList(ctx context.Context, envDir string) ([]uv.InstalledPackage, error)
	}

	// Spec describes one environment to build: which interpreter, which
	// dependency resolution mode and which optional dependency sets.
	Spec struct {
		// Install is the interpreter the environment is bound to.
		Install python.RuntimeInstall
		// Mode is the dependency resolution strategy.
		Mode types.ResolutionMode
		// Extras are the project extras to install ("-e .[extra]").
		Extras []string
		// DevGroup also installs the project's "dev" dependency group.
		DevGroup bool
	}

	// Environment is a provisioned virtual environment ready to run
	// tests. Its directory lives under the scratch root and is removed
	// after the run.
	Environment struct {
		// Dir is the virtual environment directory.
		Dir string
		// Spec is the build parameters the environment was created from.
		Spec Spec
		// Python is the path of the environment's interpreter.
		Python string

		packages map[string]string
	}

	// ProvisioningError reports which environment and which build step
	// failed. It matches ErrProvisionFailed under errors.Is.
	ProvisioningError struct {
		// Env identifies the environment being built.
		Env string
		// Step is the build step that failed ("create venv",
		// "install project", "list packages", "install test runner").
		Step string
		// Cause is the underlying error.
		Cause error
	}

	// DependencyListError reports a failed post-install package
	// inventory query. It is carried as the Cause of the surrounding
	// ProvisioningError so callers can tell a broken environment apart
	// from a failed install.
	DependencyListError struct {
		// Env identifies the environment whose inventory failed.
		Env string
		// Cause is the underlying error.
		Cause error
	}

	// Provisioner builds Environments through the uv tool.
	Provisioner struct {
		tool   envTool
		logger *log.Logger
	}
)

// Error implements the error interface.
func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provision %s: %s: %v", e.Env, e.Step, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ProvisioningError) Unwrap() error { return e.Cause }

// Is matches ErrProvisionFailed so callers can detect provisioning
// failures without depending on the concrete type.
func (e *ProvisioningError) Is(target error) bool {
	return target == ErrProvisionFailed
}

// Error implements the error interface.
func (e *DependencyListError) Error() string {
	return fmt.Sprintf("list packages in %s: %v", e.Env, e.Cause)
}

// Unwrap returns the underlying error.
func (e *DependencyListError) Unwrap() error { return e.Cause }

// Name returns the environment directory name for the spec, e.g.
// "cpython_3_12_4" or "cpython_3_12_4_lowest" for a non-default
// resolution mode.
func (s Spec) Name() string {
	version := strings.NewReplacer(".", "_", "-", "_").Replace(s.Install.Version.Original())
	name := fmt.Sprintf("%s_%s", s.Install.Implementation, version)
	if !s.Mode.IsDefault() {
		name += "_" + strings.ReplaceAll(s.Mode.String(), "-", "_")
	}
	return name
}

// String renders the spec for log and report output, e.g.
// "cpython 3.12.4" or "cpython 3.12.4 (lowest)".
func (s Spec) String() string {
	if s.Mode.IsDefault() {
		return s.Install.String()
	}
	return fmt.Sprintf("%s (%s)", s.Install, s.Mode)
}

// NewEnvironment assembles an Environment from its parts. Provision is
// the usual producer; tests build environments directly.
func NewEnvironment(dir string, spec Spec, pythonPath string, pkgs []uv.InstalledPackage) *Environment {
	env := &Environment{
		Dir:      dir,
		Spec:     spec,
		Python:   pythonPath,
		packages: make(map[string]string, len(pkgs)),
	}
	for _, pkg := range pkgs {
		env.packages[normalizePackageName(pkg.Name)] = pkg.Version
	}
	return env
}

// HasPackage reports whether the named package is installed in the
// environment. Names are compared in normalized form, so "pytest_cov",
// "pytest.cov" and "Pytest-Cov" all match "pytest-cov".
func (e *Environment) HasPackage(name string) bool {
	_, ok := e.packages[normalizePackageName(name)]
	return ok
}

// PackageVersion returns the installed version of the named package, or
// "" when it is not installed.
func (e *Environment) PackageVersion(name string) string {
	return e.packages[normalizePackageName(name)]
}

// String renders the environment identity for log output.
func (e *Environment) String() string { return e.Spec.String() }

// NewProvisioner creates a Provisioner backed by the given uv tool.
func NewProvisioner(tool *uv.Tool, logger *log.Logger) *Provisioner {
	return &Provisioner{tool: tool, logger: logger}
}

// newProvisioner is the injection seam used by tests.
func newProvisioner(tool envTool, logger *log.Logger) *Provisioner {
	return &Provisioner{tool: tool, logger: logger}
}

// Provision builds the environment described by spec under scratchDir,
// installing the project at projectDir in editable mode. The returned
// environment always has the test runner available.
func (p *Provisioner) Provision(ctx context.Context, spec Spec, projectDir, scratchDir string) (*Environment, error) {
	dir := filepath.Join(scratchDir, spec.Name())
	p.logger.Info("provisioning environment", "python", spec.Install, "mode", spec.Mode, "dir", dir)

	if err := p.tool.CreateVenv(ctx, spec.Install.Executable, dir); err != nil {
		return nil, &ProvisioningError{Env: spec.String(), Step: "create venv", Cause: err}
	}

	installOpts := uv.PipInstallOptions{
		EnvDir:     dir,
		Project:    projectDir,
		Extras:     spec.Extras,
		DevGroup:   spec.DevGroup,
		Resolution: spec.Mode,
	}
	if err := p.tool.PipInstall(ctx, installOpts); err != nil {
		return nil, &ProvisioningError{Env: spec.String(), Step: "install project", Cause: err}
	}

	pkgs, err := p.tool.PipList(ctx, dir)
	if err != nil {
		listErr := &DependencyListError{Env: spec.String(), Cause: err}
		return nil, &ProvisioningError{Env: spec.String(), Step: "list packages", Cause: listErr}
	}

	env := NewEnvironment(dir, spec, interpreterPath(runtime.GOOS, dir), pkgs)

	if !env.HasPackage(TestRunnerPackage) {
		p.logger.Debug("test runner not pulled in by project, installing", "package", TestRunnerPackage)
		if err := p.tool.PipInstallPackage(ctx, dir, TestRunnerPackage); err != nil {
			return nil, &ProvisioningError{Env: spec.String(), Step: "install test runner", Cause: err}
		}
		env.packages[TestRunnerPackage] = ""
	}

	return env, nil
}

// interpreterPath returns the interpreter location inside an environment
// directory for the given GOOS.
func interpreterPath(goos, dir string) string {
	if goos == "windows" {
		return filepath.Join(dir, "Scripts", "python.exe")
	}
	return filepath.Join(dir, "bin", "python")
}

// normalizePackageName folds a Python distribution name to its canonical
// comparison form: lowercase with runs of ".", "_" and "-" collapsed to
// a single "-".
func normalizePackageName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	prevSep := false
	for _, r := range strings.ToLower(name) {
		if r == '.' || r == '_' || r == '-' {
			prevSep = true
			continue
		}
		if prevSep && b.Len() > 0 {
			b.WriteByte('-')
		}
		prevSep = false
		b.WriteRune(r)
	}
	return b.String()
}
