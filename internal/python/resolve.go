// SPDX-License-Identifier: MPL-2.0

package python

import (
	"fmt"
	"sort"

	goversion "github.com/hashicorp/go-version"
)

type (
	// ResolveOptions control which candidates are eligible.
	ResolveOptions struct {
		// Prereleases includes alpha/beta/rc builds.
		Prereleases bool
		// Implementations is the allowed implementation set. Empty means
		// CPython only.
		Implementations []Implementation
	}

	// Resolver intersects a version constraint with a candidate set.
	// The zero value is ready to use.
	Resolver struct{}
)

// Resolve filters candidates to those matching the constraint and options,
// keeps the newest patch per (implementation, major, minor) line, and
// returns the survivors sorted by ascending version.
//
// Two properties callers rely on:
//   - the result is deterministic for a fixed candidate order: when two
//     candidates share an identity and patch ordering, the later one wins
//   - an empty result is valid and means "no viable runtime"
func (Resolver) Resolve(constraint goversion.Constraints, candidates []RuntimeInstall, opts ResolveOptions) []RuntimeInstall {
	allowed := make(map[Implementation]bool, len(opts.Implementations))
	for _, impl := range opts.Implementations {
		allowed[impl] = true
	}
	if len(allowed) == 0 {
		allowed[ImplementationCPython] = true
	}

	// Fold left-to-right so equal-version duplicates resolve
	// last-write-wins regardless of map iteration order.
	selected := make(map[minorKey]RuntimeInstall)
	for _, c := range candidates {
		if !allowed[c.Implementation] {
			continue
		}
		if c.IsPrerelease() && !opts.Prereleases {
			continue
		}
		if !constraint.Check(c.Version) {
			continue
		}

		key := c.key()
		if current, ok := selected[key]; ok && c.Version.LessThan(current.Version) {
			continue
		}
		selected[key] = c
	}

	result := make([]RuntimeInstall, 0, len(selected))
	for _, install := range selected {
		result = append(result, install)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Version.Equal(result[j].Version) {
			return result[i].Implementation < result[j].Implementation
		}
		return result[i].Version.LessThan(result[j].Version)
	})
	return result
}

// MissingMinorLines returns the "major.minor" strings of downloadable
// CPython builds that satisfy the constraint but have no corresponding
// installed minor line. The result feeds `uv python install`.
func MissingMinorLines(constraint goversion.Constraints, installed []RuntimeInstall, downloadable []*goversion.Version) []string {
	have := make(map[[2]int]bool)
	for _, inst := range installed {
		if inst.Implementation != ImplementationCPython {
			continue
		}
		segs := inst.Version.Segments()
		have[[2]int{segs[0], segs[1]}] = true
	}

	seen := make(map[[2]int]bool)
	var lines [][2]int
	for _, v := range downloadable {
		if !constraint.Check(v) {
			continue
		}
		segs := v.Segments()
		line := [2]int{segs[0], segs[1]}
		if have[line] || seen[line] {
			continue
		}
		seen[line] = true
		lines = append(lines, line)
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i][0] != lines[j][0] {
			return lines[i][0] < lines[j][0]
		}
		return lines[i][1] < lines[j][1]
	})

	missing := make([]string, 0, len(lines))
	for _, line := range lines {
		missing = append(missing, fmt.Sprintf("%d.%d", line[0], line[1]))
	}
	return missing
}
