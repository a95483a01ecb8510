// SPDX-License-Identifier: MPL-2.0

package component

import (
	"errors"
	"fmt"
	"io"
)

const (
	// FormatJSON writes the registry as JSON, the registry file format.
	FormatJSON Format = "json"
	// FormatYAML writes the registry as YAML for human consumption.
	FormatYAML Format = "yaml"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format selects the output encoding of a component list.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}
)

// IsValid returns whether the Format is one of the defined formats.
// The zero value is valid and means FormatJSON.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case "", FormatJSON, FormatYAML:
		return true, nil
	}
	return false, []error{&InvalidFormatError{Value: f}}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: json, yaml)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Encode writes components in the given format. Pretty only affects JSON;
// YAML is always indented.
func Encode(w io.Writer, components []*Component, format Format, pretty bool) error {
	if ok, errs := format.IsValid(); !ok {
		return errs[0]
	}
	if format == FormatYAML {
		return EncodeYAML(w, components)
	}
	return EncodeJSON(w, components, pretty)
}
