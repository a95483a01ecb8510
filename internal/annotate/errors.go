// SPDX-License-Identifier: MPL-2.0

package annotate

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateProperty is the sentinel error wrapped by DuplicatePropertyError.
	ErrDuplicateProperty = errors.New("duplicate property name")
	// ErrTemplate is the sentinel error wrapped by TemplateError.
	ErrTemplate = errors.New("invalid property template")
	// ErrCommandFailed is the sentinel error wrapped by CommandFailedError.
	ErrCommandFailed = errors.New("property command failed")
)

type (
	// DuplicatePropertyError is returned when a property name is added twice.
	DuplicatePropertyError struct {
		Name string
	}

	// TemplateError is returned when a property template does not parse or
	// cannot be rendered for a component.
	TemplateError struct {
		Property  string
		Component string
		Err       error
	}

	// CommandFailedError is returned when a property command cannot start or
	// exits with a non-zero status.
	CommandFailedError struct {
		Property  string
		Component string
		Command   string
		// ExitCode is the exit status, or -1 when the command did not run.
		ExitCode int
		Err      error
	}
)

func (e *DuplicatePropertyError) Error() string {
	return fmt.Sprintf("duplicate property name %q", e.Name)
}

// Unwrap returns ErrDuplicateProperty for errors.Is() compatibility.
func (e *DuplicatePropertyError) Unwrap() error { return ErrDuplicateProperty }

func (e *TemplateError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("property %q: %v", e.Property, e.Err)
	}
	return fmt.Sprintf("property %q of %q: %v", e.Property, e.Component, e.Err)
}

// Unwrap returns ErrTemplate and the template error.
func (e *TemplateError) Unwrap() []error { return []error{ErrTemplate, e.Err} }

func (e *CommandFailedError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("property %q of %q: command %q: %v", e.Property, e.Component, e.Command, e.Err)
	}
	return fmt.Sprintf("property %q of %q: command %q exited with code %d", e.Property, e.Component, e.Command, e.ExitCode)
}

// Unwrap returns ErrCommandFailed and the underlying cause, if any.
func (e *CommandFailedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCommandFailed}
	}
	return []error{ErrCommandFailed, e.Err}
}
