// SPDX-License-Identifier: MPL-2.0

package python

import (
	"testing"

	goversion "github.com/hashicorp/go-version"
)

func mustInstall(t *testing.T, impl, version, exe string) RuntimeInstall {
	t.Helper()
	install, err := NewRuntimeInstall(impl, version, exe, "x86_64")
	if err != nil {
		t.Fatalf("NewRuntimeInstall(%s %s): %v", impl, version, err)
	}
	return install
}

func mustConstraint(t *testing.T, spec string) goversion.Constraints {
	t.Helper()
	c, err := ParseRequiresPython(spec)
	if err != nil {
		t.Fatalf("ParseRequiresPython(%q): %v", spec, err)
	}
	return c
}

func versionStrings(installs []RuntimeInstall) []string {
	out := make([]string, 0, len(installs))
	for _, i := range installs {
		out = append(out, i.Version.Original())
	}
	return out
}

func TestResolveKeepsNewestPatchPerMinorLine(t *testing.T) {
	t.Parallel()

	candidates := []RuntimeInstall{
		mustInstall(t, "cpython", "3.12.1", "/py/3.12.1"),
		mustInstall(t, "cpython", "3.12.6", "/py/3.12.6"),
		mustInstall(t, "cpython", "3.12.4", "/py/3.12.4"),
		mustInstall(t, "cpython", "3.11.9", "/py/3.11.9"),
	}

	got := Resolver{}.Resolve(mustConstraint(t, ">=3.10"), candidates, ResolveOptions{})

	if len(got) != 2 {
		t.Fatalf("got %d installs, want 2: %v", len(got), versionStrings(got))
	}
	if got[0].Version.Original() != "3.11.9" {
		t.Errorf("result[0] = %s, want 3.11.9 (ascending order)", got[0].Version.Original())
	}
	if got[1].Version.Original() != "3.12.6" {
		t.Errorf("result[1] = %s, want 3.12.6 (highest patch wins)", got[1].Version.Original())
	}
}

func TestResolveTieBreakLastDiscoveredWins(t *testing.T) {
	t.Parallel()

	first := mustInstall(t, "cpython", "3.12.4", "/first/python")
	second := mustInstall(t, "cpython", "3.12.4", "/second/python")

	got := Resolver{}.Resolve(mustConstraint(t, ">=3.10"), []RuntimeInstall{first, second}, ResolveOptions{})

	if len(got) != 1 {
		t.Fatalf("got %d installs, want 1", len(got))
	}
	if got[0].Executable != "/second/python" {
		t.Errorf("tie-break kept %q, want the later-discovered /second/python", got[0].Executable)
	}
}

func TestResolveIdempotent(t *testing.T) {
	t.Parallel()

	candidates := []RuntimeInstall{
		mustInstall(t, "cpython", "3.10.2", "/py/3.10.2"),
		mustInstall(t, "cpython", "3.12.6", "/py/3.12.6"),
		mustInstall(t, "cpython", "3.11.9", "/py/3.11.9"),
		mustInstall(t, "cpython", "3.10.14", "/py/3.10.14"),
	}
	constraint := mustConstraint(t, ">=3.9, <3.13")

	first := Resolver{}.Resolve(constraint, candidates, ResolveOptions{})
	second := Resolver{}.Resolve(constraint, candidates, ResolveOptions{})

	if len(first) != len(second) {
		t.Fatalf("resolution not idempotent: %d vs %d results", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("result[%d] differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestResolvePrereleasePolicy(t *testing.T) {
	t.Parallel()

	candidates := []RuntimeInstall{
		mustInstall(t, "cpython", "3.12.6", "/py/3.12.6"),
		mustInstall(t, "cpython", "3.14.0rc1", "/py/3.14.0rc1"),
	}
	constraint := mustConstraint(t, ">=3.10")

	defaultRun := Resolver{}.Resolve(constraint, candidates, ResolveOptions{})
	if len(defaultRun) != 1 || defaultRun[0].Version.Original() != "3.12.6" {
		t.Errorf("prereleases excluded by default, got %v", versionStrings(defaultRun))
	}

	withPre := Resolver{}.Resolve(constraint, candidates, ResolveOptions{Prereleases: true})
	if len(withPre) != 2 {
		t.Errorf("prereleases included on request, got %v", versionStrings(withPre))
	}
}

func TestResolveImplementationFilter(t *testing.T) {
	t.Parallel()

	candidates := []RuntimeInstall{
		mustInstall(t, "cpython", "3.12.6", "/py/cpython"),
		mustInstall(t, "pypy", "3.10.14", "/py/pypy"),
	}
	constraint := mustConstraint(t, ">=3.9")

	cpythonOnly := Resolver{}.Resolve(constraint, candidates, ResolveOptions{})
	if len(cpythonOnly) != 1 || cpythonOnly[0].Implementation != ImplementationCPython {
		t.Errorf("default should allow cpython only, got %v", cpythonOnly)
	}

	both := Resolver{}.Resolve(constraint, candidates, ResolveOptions{
		Implementations: []Implementation{ImplementationCPython, ImplementationPyPy},
	})
	if len(both) != 2 {
		t.Errorf("both implementations requested, got %v", both)
	}
	// Same minor line, different implementations: both survive.
	if both[0].Implementation == both[1].Implementation {
		t.Errorf("implementations should not collapse into one line: %v", both)
	}
}

func TestResolveEmptyResultIsValid(t *testing.T) {
	t.Parallel()

	got := Resolver{}.Resolve(mustConstraint(t, ">=3.20"), []RuntimeInstall{
		mustInstall(t, "cpython", "3.12.6", "/py/3.12.6"),
	}, ResolveOptions{})
	if len(got) != 0 {
		t.Errorf("unsatisfiable constraint should yield empty result, got %v", got)
	}

	if got := (Resolver{}.Resolve(mustConstraint(t, ">=3.9"), nil, ResolveOptions{})); len(got) != 0 {
		t.Errorf("empty candidate set should yield empty result, got %v", got)
	}
}

func TestMissingMinorLines(t *testing.T) {
	t.Parallel()

	installed := []RuntimeInstall{
		mustInstall(t, "cpython", "3.11.9", "/py/3.11.9"),
		mustInstall(t, "pypy", "3.10.14", "/py/pypy"), // pypy does not cover the cpython 3.10 line
	}
	downloadable := []*goversion.Version{
		goversion.Must(goversion.NewVersion("3.9.19")),
		goversion.Must(goversion.NewVersion("3.10.14")),
		goversion.Must(goversion.NewVersion("3.10.15")),
		goversion.Must(goversion.NewVersion("3.11.10")),
		goversion.Must(goversion.NewVersion("3.12.7")),
	}

	got := MissingMinorLines(mustConstraint(t, ">=3.10"), installed, downloadable)

	want := []string{"3.10", "3.12"}
	if len(got) != len(want) {
		t.Fatalf("MissingMinorLines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MissingMinorLines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
