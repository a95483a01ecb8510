// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

// Validate compiles CUE source data, unifies it with the schema definition at
// defPath and validates the result. The unified value is returned so callers
// can decode it.
func Validate(schema, data []byte, defPath string, opts ...Option) (cue.Value, error) {
	options := resolve(opts)
	if err := CheckFileSize(data, options.maxFileSize, options.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()
	root, err := lookupSchema(ctx, schema, defPath)
	if err != nil {
		return cue.Value{}, err
	}

	userValue := ctx.CompileBytes(data, cue.Filename(options.filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), options.filename)
	}
	return unifyAndValidate(root, userValue, options)
}

// ValidateJSON is Validate for JSON input. The data is extracted with the CUE
// JSON decoder so JSON-specific syntax errors carry file positions.
func ValidateJSON(schema, data []byte, defPath string, opts ...Option) error {
	options := resolve(opts)
	if err := CheckFileSize(data, options.maxFileSize, options.filename); err != nil {
		return err
	}

	ctx := cuecontext.New()
	root, err := lookupSchema(ctx, schema, defPath)
	if err != nil {
		return err
	}

	expr, err := cuejson.Extract(options.filename, data)
	if err != nil {
		return FormatError(err, options.filename)
	}
	userValue := ctx.BuildExpr(expr)
	if userValue.Err() != nil {
		return FormatError(userValue.Err(), options.filename)
	}
	_, err = unifyAndValidate(root, userValue, options)
	return err
}

func resolve(opts []Option) parseOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.filename == "" {
		options.filename = "<input>"
	}
	return options
}

func lookupSchema(ctx *cue.Context, schema []byte, defPath string) (cue.Value, error) {
	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	root := schemaValue.LookupPath(cue.ParsePath(defPath))
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, root.Err())
	}
	return root, nil
}

func unifyAndValidate(root, userValue cue.Value, options parseOptions) (cue.Value, error) {
	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return cue.Value{}, FormatError(err, options.filename)
	}
	return unified, nil
}
