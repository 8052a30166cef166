// SPDX-License-Identifier: MPL-2.0

package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	goversion "github.com/hashicorp/go-version"
	"golang.org/x/sync/errgroup"

	"pyspan/internal/executor"
	"pyspan/internal/issue"
	"pyspan/internal/project"
	"pyspan/internal/provision"
	"pyspan/internal/python"
	"pyspan/internal/uv"
	"pyspan/pkg/types"
)

// DefaultScratchDirName is the directory under the project root that
// holds the throwaway environments of a run.
const DefaultScratchDirName = "env_testing"

type (
	// runtimeCatalog enumerates the Python runtimes the environment
	// manager knows about.
	runtimeCatalog interface {
		Installs(ctx context.Context) ([]python.RuntimeInstall, error)
		Downloadable(ctx context.Context) ([]*goversion.Version, error)
	}

	// runtimeInstaller downloads missing Python versions.
	runtimeInstaller interface {
		InstallPythons(ctx context.Context, versions []string) error
	}

	// environmentBuilder turns a spec into a ready environment.
	environmentBuilder interface {
		Provision(ctx context.Context, spec provision.Spec, projectDir, scratchDir string) (*provision.Environment, error)
	}

	// suiteRunner executes the test suite in one environment.
	suiteRunner interface {
		Run(ctx context.Context, env *provision.Environment, opts executor.Options) (executor.Result, error)
	}

	// Dependencies are the collaborators a run needs. NewOrchestrator
	// wires the production set; tests substitute fakes field by field.
	Dependencies struct {
		Catalog     runtimeCatalog
		Installer   runtimeInstaller
		Provisioner environmentBuilder
		Runner      suiteRunner
		LoadProject func(dir string) (*project.Descriptor, error)
		Logger      *log.Logger
		Out         io.Writer
	}

	// Options configure a run.
	Options struct {
		// Extras are project extras installed into every environment.
		Extras []string
		// Modes are the dependency resolution modes to test. Empty means
		// the resolver's default mode only. Each mode multiplies the
		// environment set.
		Modes []types.ResolutionMode
		// Prereleases includes alpha/beta/rc runtimes in resolution.
		Prereleases bool
		// PyPy additionally tests PyPy runtimes.
		PyPy bool
		// InstallMissing downloads runtimes for minor lines that satisfy
		// the project's range but are not installed, then resolves again.
		InstallMissing bool
		// Parallel runs environments concurrently; output is captured
		// and replayed as one contiguous block per environment, in
		// completion order.
		Parallel bool
		// RunnerArgs are passed to the test runner verbatim.
		RunnerArgs []string
		// ScratchDirName overrides the scratch directory name.
		ScratchDirName string
	}

	// Orchestrator drives one or more runs over a fixed dependency set.
	Orchestrator struct {
		deps Dependencies
		opts Options

		mu    sync.Mutex
		state State
	}
)

// NewOrchestrator wires the production dependency set around a uv tool.
func NewOrchestrator(tool *uv.Tool, logger *log.Logger, opts Options) *Orchestrator {
	return New(Dependencies{
		Catalog:     python.NewCatalog(tool, logger),
		Installer:   tool,
		Provisioner: provision.NewProvisioner(tool, logger),
		Runner:      executor.NewRunner(logger),
		Logger:      logger,
	}, opts)
}

// New creates an Orchestrator from explicit dependencies. Zero fields
// get production defaults where one exists.
func New(deps Dependencies, opts Options) *Orchestrator {
	if deps.LoadProject == nil {
		deps.LoadProject = project.Load
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if opts.ScratchDirName == "" {
		opts.ScratchDirName = DefaultScratchDirName
	}
	return &Orchestrator{deps: deps, opts: opts, state: StateIdle}
}

// State returns the orchestrator's current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(next State) {
	o.mu.Lock()
	prev := o.state
	o.state = next
	o.mu.Unlock()
	o.deps.Logger.Debug("state transition", "from", prev, "to", next)
}

// Run executes the project's test suite across every viable environment
// and returns the aggregated exit code. A run that resolves zero
// environments returns the ExitNoEnvironments sentinel with a nil error;
// infrastructure failures return ExitInternalError alongside the error.
func (o *Orchestrator) Run(ctx context.Context, projectDir string) (types.ExitCode, error) {
	code, err := o.run(ctx, projectDir)
	if err != nil {
		o.setState(StateFailed)
		return code, err
	}
	o.setState(StateDone)
	return code, nil
}

func (o *Orchestrator) run(ctx context.Context, projectDir string) (types.ExitCode, error) {
	o.setState(StateResolving)

	desc, err := o.deps.LoadProject(projectDir)
	if err != nil {
		return types.ExitInternalError, err
	}
	o.deps.Logger.Info("testing project", "project", desc)

	resolved, err := o.resolveRuntimes(ctx, desc)
	if err != nil {
		return types.ExitInternalError, err
	}
	if len(resolved) == 0 {
		o.deps.Logger.Warn("no viable python runtime found",
			"requires-python", desc.RequiresPython)
		// Nothing to provision or execute; the empty run still
		// aggregates to the no-environments sentinel.
		o.setState(StateAggregating)
		return types.MaxExitCode(), nil
	}

	specs := o.environmentSpecs(desc, resolved)

	scratchRoot := filepath.Join(projectDir, o.opts.ScratchDirName)
	if err := os.MkdirAll(scratchRoot, 0o755); err != nil {
		return types.ExitInternalError, issue.WrapWithContext(err, "create scratch directory", scratchRoot)
	}
	runDir, err := os.MkdirTemp(scratchRoot, "run-")
	if err != nil {
		return types.ExitInternalError, issue.WrapWithContext(err, "create run directory", scratchRoot)
	}
	defer o.cleanup(scratchRoot, runDir)

	o.setState(StateProvisioning)
	envs := make([]*provision.Environment, 0, len(specs))
	for _, spec := range specs {
		env, err := o.deps.Provisioner.Provision(ctx, spec, projectDir, runDir)
		if err != nil {
			return types.ExitInternalError, err
		}
		envs = append(envs, env)
	}

	o.setState(StateExecuting)
	var results []executor.Result
	if o.opts.Parallel && len(envs) > 1 {
		results, err = o.runConcurrent(ctx, envs)
	} else {
		results, err = o.runSequential(ctx, envs)
	}
	if err != nil {
		return types.ExitInternalError, err
	}

	o.setState(StateAggregating)
	codes := make([]types.ExitCode, 0, len(results))
	for _, r := range results {
		codes = append(codes, r.Code)
	}
	code := types.MaxExitCode(codes...)
	o.report(results, code)
	return code, nil
}

// resolveRuntimes discovers installed runtimes and intersects them with
// the project's range, optionally installing missing minor lines first.
func (o *Orchestrator) resolveRuntimes(ctx context.Context, desc *project.Descriptor) ([]python.RuntimeInstall, error) {
	installs, err := o.deps.Catalog.Installs(ctx)
	if err != nil {
		return nil, err
	}

	if o.opts.InstallMissing {
		downloadable, err := o.deps.Catalog.Downloadable(ctx)
		if err != nil {
			return nil, err
		}
		missing := python.MissingMinorLines(desc.Constraint, installs, downloadable)
		if len(missing) > 0 {
			o.deps.Logger.Info("installing missing python versions", "versions", missing)
			if err := o.deps.Installer.InstallPythons(ctx, missing); err != nil {
				return nil, issue.WrapWithOperation(err, "install missing pythons")
			}
			installs, err = o.deps.Catalog.Installs(ctx)
			if err != nil {
				return nil, err
			}
		}
	}

	resolveOpts := python.ResolveOptions{Prereleases: o.opts.Prereleases}
	if o.opts.PyPy {
		resolveOpts.Implementations = []python.Implementation{
			python.ImplementationCPython,
			python.ImplementationPyPy,
		}
	}
	return python.Resolver{}.Resolve(desc.Constraint, installs, resolveOpts), nil
}

// environmentSpecs builds the full (runtime, mode) environment matrix.
func (o *Orchestrator) environmentSpecs(desc *project.Descriptor, resolved []python.RuntimeInstall) []provision.Spec {
	modes := o.opts.Modes
	if len(modes) == 0 {
		modes = []types.ResolutionMode{types.ResolutionHighest}
	}

	specs := make([]provision.Spec, 0, len(modes)*len(resolved))
	for _, mode := range modes {
		for _, install := range resolved {
			specs = append(specs, provision.Spec{
				Install:  install,
				Mode:     mode,
				Extras:   o.opts.Extras,
				DevGroup: desc.HasDevGroup,
			})
		}
	}
	return specs
}

// runSequential streams each suite's output directly to the terminal.
// A cancelled run keeps its cancelled result so the aggregate reflects
// the interruption; later environments do not start.
func (o *Orchestrator) runSequential(ctx context.Context, envs []*provision.Environment) ([]executor.Result, error) {
	results := make([]executor.Result, 0, len(envs))
	for _, env := range envs {
		fmt.Fprintf(o.deps.Out, "\n===== %s =====\n", env)

		result, err := o.deps.Runner.Run(ctx, env, executor.Options{Args: o.opts.RunnerArgs})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				results = append(results, result)
				break
			}
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// runConcurrent executes all suites at once with captured output and
// replays each environment's output as one contiguous block as it
// finishes.
func (o *Orchestrator) runConcurrent(ctx context.Context, envs []*provision.Environment) ([]executor.Result, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make([]executor.Result, 0, len(envs))

	for _, env := range envs {
		env := env
		g.Go(func() error {
			result, err := o.deps.Runner.Run(gctx, env, executor.Options{
				Args:    o.opts.RunnerArgs,
				Capture: true,
			})
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			o.flush(result)
			results = append(results, result)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// flush replays a captured run's output as one contiguous block. The
// caller holds the output lock.
func (o *Orchestrator) flush(result executor.Result) {
	fmt.Fprintf(o.deps.Out, "\n===== %s =====\n", result.Env)
	o.deps.Out.Write(result.Output)
	if len(result.ErrOutput) > 0 {
		o.deps.Out.Write(result.ErrOutput)
	}
}

// report logs the per-environment outcomes and the aggregate.
func (o *Orchestrator) report(results []executor.Result, code types.ExitCode) {
	for _, r := range results {
		o.deps.Logger.Info("suite finished", "env", r.Env, "exit", r.Code)
	}
	o.deps.Logger.Info("run finished", "environments", len(results), "exit", code)
}

// cleanup removes the run's environments. The scratch root itself goes
// too when this run was its only occupant.
func (o *Orchestrator) cleanup(scratchRoot, runDir string) {
	if err := os.RemoveAll(runDir); err != nil {
		o.deps.Logger.Warn("could not remove run directory", "dir", runDir, "err", err)
	}
	// Fails when another run's directories remain; that is fine.
	_ = os.Remove(scratchRoot)
}

// Clean removes the whole scratch directory tree under projectDir,
// including environments left behind by interrupted runs.
func Clean(projectDir, scratchDirName string) error {
	if scratchDirName == "" {
		scratchDirName = DefaultScratchDirName
	}
	dir := filepath.Join(projectDir, scratchDirName)
	if err := os.RemoveAll(dir); err != nil {
		return issue.WrapWithContext(err, "remove scratch directory", dir)
	}
	return nil
}
