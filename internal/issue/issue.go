// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	UVNotFoundId Id = iota + 1
	DescriptorNotFoundId
	ConstraintMissingId
	DiscoveryFailedId
	ProvisionFailedId
	NoEnvironmentsId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to look up the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.extLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	uvNotFoundIssue = &Issue{
		id: UVNotFoundId,
		mdMsg: `
# uv binary not found!

pyspan drives the 'uv' package manager to discover Python installs and
build virtual environments, but no uv binary could be located.

## Things you can try:
- Install uv:
~~~
$ curl -LsSf https://astral.sh/uv/install.sh | sh
~~~
- Make sure uv is on your PATH
- Point pyspan at an explicit binary in your config file:
~~~cue
uv: binary_path: "/opt/uv/bin/uv"
~~~`,
		extLinks: []HttpLink{"https://docs.astral.sh/uv/getting-started/installation/"},
	}

	descriptorNotFoundIssue = &Issue{
		id: DescriptorNotFoundId,
		mdMsg: `
# No pyproject.toml found!

pyspan reads the supported Python range from the project's pyproject.toml,
but no such file exists in the working directory.

## Things you can try:
- Run pyspan from the project root (next to pyproject.toml)
- Create a minimal pyproject.toml:
~~~toml
[project]
name = "myproject"
version = "0.1.0"
requires-python = ">=3.10"
~~~`,
	}

	constraintMissingIssue = &Issue{
		id: ConstraintMissingId,
		mdMsg: `
# No requires-python declared!

The pyproject.toml exists but has no 'project.requires-python' key, so
pyspan cannot decide which Python versions to test against.

## Things you can try:
- Declare the supported range:
~~~toml
[project]
requires-python = ">=3.10"
~~~
- Ranges work too:
~~~toml
requires-python = ">=3.10, <3.14"
~~~`,
	}

	discoveryFailedIssue = &Issue{
		id: DiscoveryFailedId,
		mdMsg: `
# Python discovery failed!

The 'uv python list' invocation used to enumerate installed Pythons
returned an error.

## Things you can try:
- Run the discovery command manually to see the raw failure:
~~~
$ uv python list --output-format json
~~~
- Upgrade uv; old releases lack the JSON output format:
~~~
$ uv self update
~~~`,
	}

	provisionFailedIssue = &Issue{
		id: ProvisionFailedId,
		mdMsg: `
# Environment provisioning failed!

Creating a test environment or installing the project into it failed.
The whole run is aborted: executing a partial matrix could hide a
regression in the environment that was never built.

## Common causes:
- The project does not build under the failing Python version
- A dependency has no compatible release for that version
- Lowest-resolution mode selected a floor pin that no longer installs

## Things you can try:
- Re-run with --verbose to see the full uv output
- Reproduce by hand:
~~~
$ uv venv --python 3.10 /tmp/check
$ uv pip install --python /tmp/check -e .
~~~`,
	}

	noEnvironmentsIssue = &Issue{
		id: NoEnvironmentsId,
		mdMsg: `
# No viable Python versions!

No installed Python satisfies the project's requires-python range, so
zero environments were built and zero tests ran. The process exits with
the reserved code 404 so CI cannot mistake this for a passing run.

## Things you can try:
- Install a matching Python through uv:
~~~
$ uv python install 3.12
~~~
- Or let pyspan install missing versions itself:
~~~
$ pyspan run --install-missing
~~~
- Include prereleases if the range only matches an unreleased Python:
~~~
$ pyspan run --prereleases
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the pyspan configuration file.

## Configuration file locations:
- Linux: ~/.config/pyspan/config.cue
- macOS: ~/Library/Application Support/pyspan/config.cue
- Windows: %APPDATA%\pyspan\config.cue

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
scratch_dir: "env_testing"

uv: {
  binary_path: "/usr/local/bin/uv"
  quiet:       true
}

ui: verbose: false
~~~`,
	}

	issues = map[Id]*Issue{
		uvNotFoundIssue.Id():         uvNotFoundIssue,
		descriptorNotFoundIssue.Id(): descriptorNotFoundIssue,
		constraintMissingIssue.Id():  constraintMissingIssue,
		discoveryFailedIssue.Id():    discoveryFailedIssue,
		provisionFailedIssue.Id():    provisionFailedIssue,
		noEnvironmentsIssue.Id():     noEnvironmentsIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
