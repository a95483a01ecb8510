// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	RegistryNotFoundId Id = iota + 1
	RegistryParseErrorId
	DuplicateComponentId
	DependencyCycleId
	MissingDependencyId
	ComponentNotFoundId
	ContentLookupFailedId
	NotARepositoryId
	PropertyCommandFailedId
	PropertyTemplateErrorId
	ConfigLoadFailedId
	InvalidPatternId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // reference documentation for the failing subsystem
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Title returns the first heading of the message without its trailing
// punctuation.
func (i *Issue) Title() string {
	for line := range strings.SplitSeq(string(i.mdMsg), "\n") {
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimRight(strings.TrimSpace(title), "!.")
		}
	}
	return ""
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	registryNotFoundIssue = &Issue{
		id: RegistryNotFoundId,
		mdMsg: `
# No component registry found!

avocado reads the registry from ` + "`components.json`" + ` in the directory you
pass (the current directory by default).

## Things you can try:
- Run the command from the repository root, or pass it explicitly:
~~~
$ avocado hash path/to/repo
~~~

- If your registry has another name, set it in your config file:
~~~cue
registry_file: "registry.json"
~~~`,
	}

	registryParseErrorIssue = &Issue{
		id: RegistryParseErrorId,
		mdMsg: `
# Failed to parse the component registry!

The registry must be a JSON array of objects. Every object needs a non-empty
` + "`dir`" + ` string and may list ` + "`dependencies`" + ` as an array of strings.

## Example registry:
~~~json
[
  {"dir": "lib/core"},
  {"dir": "svc/api", "dependencies": ["lib/core"]}
]
~~~

## Things you can try:
- Check the reported path (for example ` + "`[1].dependencies[0]`" + `) in the file
- Validate the file with a JSON linter`,
		extLinks: []HttpLink{"https://cuelang.org/docs/integrations/json/"},
	}

	duplicateComponentIssue = &Issue{
		id: DuplicateComponentId,
		mdMsg: `
# Duplicate component!

Two registry entries share the same ` + "`dir`" + `. Component ids must be unique.

## Things you can try:
- Merge the duplicated entries into one
- Check for entries that differ only by a trailing slash`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

The components listed in the error depend on each other, directly or through
other components, so no build order exists. Each entry shows the dependencies
that could not be resolved.

## Things you can try:
- Remove one of the edges of the cycle from the registry
- Extract the shared code into a new component both sides can depend on
- List what a component pulls in:
~~~
$ avocado deps <component>
~~~`,
	}

	missingDependencyIssue = &Issue{
		id: MissingDependencyId,
		mdMsg: `
# Missing dependency!

A component lists a dependency that is not declared in the registry.

## Things you can try:
- Add the missing component to the registry
- Fix the spelling of the dependency id
- List the declared components:
~~~
$ avocado ls
~~~`,
	}

	componentNotFoundIssue = &Issue{
		id: ComponentNotFoundId,
		mdMsg: `
# Component not found!

One or more of the requested components are not declared in the registry.

## Things you can try:
- List the declared components:
~~~
$ avocado ls
~~~
- Use the component's ` + "`dir`" + ` exactly as written in the registry`,
	}

	contentLookupFailedIssue = &Issue{
		id: ContentLookupFailedId,
		mdMsg: `
# Failed to look up a component's history!

avocado fingerprints a component with the id of the last commit that touched
its directory. That lookup failed.

## Things you can try:
- Commit the component's directory; untracked directories have no history
- Make sure the repository is not a shallow clone:
~~~
$ git fetch --unshallow
~~~
- Try the git command line backend:
~~~cue
vcs: backend: "git"
~~~`,
		extLinks: []HttpLink{"https://git-scm.com/docs/git-log"},
	}

	notARepositoryIssue = &Issue{
		id: NotARepositoryId,
		mdMsg: `
# Not a git repository!

Hashing needs the version history of the registry root, but no repository was
found there or in any parent directory.

## Things you can try:
- Run avocado inside the monorepo checkout
- Initialize a repository and commit your components:
~~~
$ git init && git add . && git commit -m "initial"
~~~`,
	}

	propertyCommandFailedIssue = &Issue{
		id: PropertyCommandFailedId,
		mdMsg: `
# Property command failed!

A property command exited with an error. Its standard error is printed above.

## Things you can try:
- Run the rendered command by hand from the registry root
- Use ` + "`--shell-property`" + ` for commands that need pipes or redirections
- Enable ` + "`--builtins`" + ` when the host lacks coreutils`,
	}

	propertyTemplateErrorIssue = &Issue{
		id: PropertyTemplateErrorId,
		mdMsg: `
# Invalid property template!

Property commands are Go templates rendered against the component's fields.
Referencing a field the component does not have is an error.

## Example:
~~~
$ avocado hash --property image='echo registry.local/{{.dir}}:{{.tree_sha_short}}'
~~~`,
		extLinks: []HttpLink{"https://pkg.go.dev/text/template"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show where avocado looks for its configuration:
~~~
$ avocado config path
~~~
- Write a fresh default configuration:
~~~
$ avocado config init
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	invalidPatternIssue = &Issue{
		id: InvalidPatternId,
		mdMsg: `
# Invalid match pattern!

Component patterns use doublestar globs: ` + "`*`" + ` matches within one path
segment and ` + "`**`" + ` matches across segments.

## Example:
~~~
$ avocado ls --match 'svc/**'
~~~`,
		extLinks: []HttpLink{"https://github.com/bmatcuk/doublestar#patterns"},
	}

	issues = map[Id]*Issue{
		registryNotFoundIssue.Id():      registryNotFoundIssue,
		registryParseErrorIssue.Id():    registryParseErrorIssue,
		duplicateComponentIssue.Id():    duplicateComponentIssue,
		dependencyCycleIssue.Id():       dependencyCycleIssue,
		missingDependencyIssue.Id():     missingDependencyIssue,
		componentNotFoundIssue.Id():     componentNotFoundIssue,
		contentLookupFailedIssue.Id():   contentLookupFailedIssue,
		notARepositoryIssue.Id():        notARepositoryIssue,
		propertyCommandFailedIssue.Id(): propertyCommandFailedIssue,
		propertyTemplateErrorIssue.Id(): propertyTemplateErrorIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		invalidPatternIssue.Id():        invalidPatternIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	ids := maps.Keys(issues)
	slices.Sort(ids)
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
