// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE validation utilities.
//
// Both the configuration file and the component registry are checked against
// embedded CUE schemas before they are decoded:
//
//  1. Compile the embedded schema
//  2. Compile (or extract, for JSON) the user data and unify it with the schema
//  3. Validate, formatting any CUE error with a JSON-path prefix
//
// # Usage
//
//	//go:embed registry_schema.cue
//	var schema []byte
//
//	if err := cueutil.ValidateJSON(schema, data, "#Registry", cueutil.WithFilename(path)); err != nil {
//	    return err // includes the path of the offending value, e.g. "[2].dir"
//	}
package cueutil
