// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goversion "github.com/hashicorp/go-version"
	"github.com/pelletier/go-toml/v2"

	"pyspan/internal/issue"
	"pyspan/internal/python"
)

// DescriptorName is the filename of the project descriptor.
const DescriptorName = "pyproject.toml"

var (
	// ErrDescriptorNotFound is returned when no pyproject.toml exists in
	// the project directory.
	ErrDescriptorNotFound = errors.New("project descriptor not found")

	// ErrConstraintMissing is returned when the descriptor has no
	// project.requires-python key.
	ErrConstraintMissing = errors.New("requires-python not declared")
)

type (
	// Descriptor is the parsed project metadata pyspan needs: the
	// supported Python range and whether a dev dependency group exists.
	// Immutable; loaded once per run.
	Descriptor struct {
		// Dir is the project directory the descriptor was loaded from.
		Dir string
		// Name is the declared project name, if any.
		Name string
		// RequiresPython is the raw constraint expression.
		RequiresPython string
		// Constraint is the parsed version constraint.
		Constraint goversion.Constraints
		// HasDevGroup reports whether a "dev" dependency group is
		// declared and should be installed into test environments.
		HasDevGroup bool
	}

	// pyprojectFile mirrors the subset of pyproject.toml pyspan reads.
	pyprojectFile struct {
		Project struct {
			Name           string `toml:"name"`
			RequiresPython string `toml:"requires-python"`
		} `toml:"project"`
		DependencyGroups map[string]any `toml:"dependency-groups"`
	}
)

// Load reads and validates the descriptor in dir.
func Load(dir string) (*Descriptor, error) {
	path := filepath.Join(dir, DescriptorName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, issue.NewErrorContext().
				WithOperation("load project descriptor").
				WithResource(path).
				WithSuggestion("Run pyspan from the project root (next to pyproject.toml)").
				Wrap(ErrDescriptorNotFound).
				BuildError()
		}
		return nil, issue.WrapWithContext(err, "load project descriptor", path)
	}

	var file pyprojectFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse project descriptor").
			WithResource(path).
			WithSuggestion("Check the TOML syntax of pyproject.toml").
			Wrap(err).
			BuildError()
	}

	if file.Project.RequiresPython == "" {
		return nil, issue.NewErrorContext().
			WithOperation("read requires-python").
			WithResource(path).
			WithSuggestion(`Declare the supported range, e.g. requires-python = ">=3.10"`).
			Wrap(ErrConstraintMissing).
			BuildError()
	}

	constraint, err := python.ParseRequiresPython(file.Project.RequiresPython)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse requires-python").
			WithResource(path).
			Wrap(err).
			BuildError()
	}

	_, hasDev := file.DependencyGroups["dev"]

	return &Descriptor{
		Dir:            dir,
		Name:           file.Project.Name,
		RequiresPython: file.Project.RequiresPython,
		Constraint:     constraint,
		HasDevGroup:    hasDev,
	}, nil
}

// String renders the descriptor identity for log output.
func (d *Descriptor) String() string {
	name := d.Name
	if name == "" {
		name = filepath.Base(d.Dir)
	}
	return fmt.Sprintf("%s (requires-python %s)", name, d.RequiresPython)
}
