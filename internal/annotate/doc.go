// SPDX-License-Identifier: MPL-2.0

// Package annotate computes extra component properties by rendering a
// text/template per property against the component and running the result as
// a command. The trimmed standard output becomes the property value.
//
// A direct property is split into argv with shell quoting rules and executed
// without a shell. A shell property is run as a script by the mvdan/sh
// interpreter, optionally with portable built-in utilities.
//
// Commands see the process environment plus AVOCADO_<FIELD> variables for
// every string field of the component, see EnvVarName.
package annotate
