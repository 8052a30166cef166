// SPDX-License-Identifier: MPL-2.0

package python

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	goversion "github.com/hashicorp/go-version"

	"pyspan/internal/issue"
	"pyspan/internal/uv"
)

// ErrDiscoveryFailed marks a failed runtime discovery invocation. An
// empty catalog is not a discovery failure.
var ErrDiscoveryFailed = errors.New("python discovery failed")

type (
	// pythonLister is the slice of the uv tool the catalog needs.
	pythonLister interface {
		ListPythons(ctx context.Context) ([]uv.PythonEntry, error)
	}

	// Catalog enumerates Python runtimes known to the environment
	// manager. The discovery command runs once per call; results are not
	// cached, callers snapshot them before acting.
	Catalog struct {
		tool   pythonLister
		logger *log.Logger
	}
)

// NewCatalog creates a Catalog backed by the given uv tool.
func NewCatalog(tool *uv.Tool, logger *log.Logger) *Catalog {
	return &Catalog{tool: tool, logger: logger}
}

// Installs returns every installed runtime the discovery tool reports.
// An empty result is normal and reported upstream as "no viable runtime";
// a failing discovery invocation is a fatal configuration error.
func (c *Catalog) Installs(ctx context.Context) ([]RuntimeInstall, error) {
	entries, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	var installs []RuntimeInstall
	for _, e := range entries {
		if e.Path == "" {
			continue // downloadable build, not installed
		}

		install, err := NewRuntimeInstall(e.Implementation, e.Version, e.Path, e.Arch)
		if err != nil {
			// Tolerate single odd rows (e.g. vendored builds with
			// nonstandard version strings) rather than failing the run.
			c.logger.Warn("skipping unparseable python install", "key", e.Key, "err", err)
			continue
		}
		installs = append(installs, install)
	}
	return installs, nil
}

// Downloadable returns the versions of CPython builds uv can install but
// that are not installed locally.
func (c *Catalog) Downloadable(ctx context.Context) ([]*goversion.Version, error) {
	entries, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	var versions []*goversion.Version
	for _, e := range entries {
		if e.Path != "" || e.URL == "" {
			continue
		}
		if Implementation(e.Implementation) != ImplementationCPython {
			continue
		}

		v, err := goversion.NewVersion(e.Version)
		if err != nil {
			c.logger.Warn("skipping unparseable downloadable build", "key", e.Key, "err", err)
			continue
		}
		versions = append(versions, v)
	}
	return versions, nil
}

func (c *Catalog) list(ctx context.Context) ([]uv.PythonEntry, error) {
	entries, err := c.tool.ListPythons(ctx)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("discover pythons").
			WithSuggestion("Run 'uv python list --output-format json' manually to see the raw failure").
			Wrap(fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)).
			BuildError()
	}
	return entries, nil
}
