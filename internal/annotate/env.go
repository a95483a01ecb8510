// SPDX-License-Identifier: MPL-2.0

package annotate

import (
	"regexp"
	"strings"

	"github.com/avocado-build/avocado/pkg/component"
)

// EnvPrefix starts the name of every variable derived from a component field.
const EnvPrefix = "AVOCADO_"

var nonEnvChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// EnvVarName returns the environment variable carrying a component field:
// EnvPrefix plus the key upper-cased, with every run of characters outside
// [a-zA-Z0-9_] replaced by one underscore.
func EnvVarName(key string) string {
	return strings.ToUpper(EnvPrefix + nonEnvChars.ReplaceAllString(key, "_"))
}

// componentEnv returns KEY=value pairs for the string fields of c.
func componentEnv(c *component.Component) []string {
	fields := c.StringFields()
	env := make([]string, 0, len(fields))
	for _, f := range fields {
		env = append(env, EnvVarName(f.Name)+"="+f.Value)
	}
	return env
}

// lookup returns a getter over KEY=value pairs. Later entries win.
func lookup(env []string) func(string) string {
	m := make(map[string]string, len(env))
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return func(name string) string { return m[name] }
}
