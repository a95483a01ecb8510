// SPDX-License-Identifier: MPL-2.0

package annotate

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/template"

	"github.com/avocado-build/avocado/pkg/component"
)

type (
	// Definition describes one property as written in config or on the
	// command line.
	Definition struct {
		Name     string
		Template string
		Shell    bool
	}

	// Registry holds the properties to compute, in the order they were added.
	// It is not safe for concurrent use.
	Registry struct {
		props    []property
		names    map[string]bool
		dir      string
		environ  []string
		stderr   io.Writer
		builtins bool
		trace    bool
		logger   *slog.Logger
	}

	// Option configures a Registry.
	Option func(*Registry)

	property struct {
		name  string
		tmpl  *template.Template
		shell bool
	}
)

// WithDir sets the working directory of property commands.
func WithDir(dir string) Option {
	return func(r *Registry) { r.dir = dir }
}

// WithEnviron replaces the base environment, which defaults to os.Environ().
func WithEnviron(env []string) Option {
	return func(r *Registry) { r.environ = env }
}

// WithStderr sets where command stderr goes. The default is os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(r *Registry) { r.stderr = w }
}

// WithBuiltins makes the portable built-in utilities available to shell
// properties.
func WithBuiltins(enabled bool) Option {
	return func(r *Registry) { r.builtins = enabled }
}

// WithTrace prints each shell command to stderr before it runs, like sh -x.
func WithTrace(enabled bool) Option {
	return func(r *Registry) { r.trace = enabled }
}

// WithLogger sets the logger for per-property debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		names:   make(map[string]bool),
		environ: os.Environ(),
		stderr:  os.Stderr,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add parses and registers a property. Names must be unique.
func (r *Registry) Add(name, tmpl string, shell bool) error {
	if r.names[name] {
		return &DuplicatePropertyError{Name: name}
	}
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return &TemplateError{Property: name, Err: err}
	}
	r.names[name] = true
	r.props = append(r.props, property{name: name, tmpl: t, shell: shell})
	return nil
}

// AddAll registers definitions in order, stopping at the first error.
func (r *Registry) AddAll(defs []Definition) error {
	for _, d := range defs {
		if err := r.Add(d.Name, d.Template, d.Shell); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered properties.
func (r *Registry) Len() int { return len(r.props) }

// Annotate runs every property for c and returns the results in registration
// order. All properties see c as it was passed in; results are not visible
// to later properties of the same component.
func (r *Registry) Annotate(ctx context.Context, c *component.Component) ([]component.Property, error) {
	if len(r.props) == 0 {
		return nil, nil
	}

	fields := c.Fields()
	env := append(append([]string{}, r.environ...), componentEnv(c)...)

	out := make([]component.Property, 0, len(r.props))
	for _, p := range r.props {
		var rendered bytes.Buffer
		if err := p.tmpl.Execute(&rendered, fields); err != nil {
			return nil, &TemplateError{Property: p.name, Component: c.ID, Err: err}
		}

		r.logger.Debug("running property command", "component", c.ID, "property", p.name, "shell", p.shell, "command", rendered.String())
		var (
			value string
			err   error
		)
		if p.shell {
			value, err = r.runShell(ctx, env, rendered.String())
		} else {
			value, err = r.runDirect(ctx, env, rendered.String())
		}
		if err != nil {
			return nil, withNames(err, p.name, c.ID)
		}
		out = append(out, component.Property{Name: p.name, Value: strings.TrimSpace(value)})
	}
	return out, nil
}
