// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avocado-build/avocado/internal/annotate"
	"github.com/avocado-build/avocado/internal/treehash"
	"github.com/avocado-build/avocado/internal/vcs"
	"github.com/avocado-build/avocado/pkg/component"
)

const (
	// ObjectFormatSHA1 is the object format of classic git repositories.
	ObjectFormatSHA1 ObjectFormat = "sha1"
	// ObjectFormatSHA256 is the object format of repositories created with
	// --object-format=sha256.
	ObjectFormatSHA256 ObjectFormat = "sha256"

	// MaxJobs bounds hash.jobs.
	MaxJobs = 256
)

var (
	// ErrInvalidObjectFormat is the sentinel error wrapped by InvalidObjectFormatError.
	ErrInvalidObjectFormat = errors.New("invalid object format")
	// ErrInvalidJobs is the sentinel error wrapped by InvalidJobsError.
	ErrInvalidJobs = errors.New("invalid job count")
	// ErrInvalidProperty is the sentinel error wrapped by InvalidPropertyError.
	ErrInvalidProperty = errors.New("invalid property")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ObjectFormat names the hash function of the repository's object ids.
	ObjectFormat string

	// InvalidObjectFormatError is returned when an ObjectFormat value is not recognized.
	InvalidObjectFormatError struct {
		Value ObjectFormat
	}

	// InvalidJobsError is returned when hash.jobs is out of range.
	InvalidJobsError struct {
		Value int
	}

	// InvalidPropertyError is returned for a property entry that cannot be used.
	InvalidPropertyError struct {
		Index  int
		Name   string
		Reason string
	}

	// InvalidConfigError aggregates every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the complete avocado configuration.
	Config struct {
		RegistryFile string           `json:"registry_file" mapstructure:"registry_file"`
		VCS          VCSConfig        `json:"vcs" mapstructure:"vcs"`
		Hash         HashConfig       `json:"hash" mapstructure:"hash"`
		Output       OutputConfig     `json:"output" mapstructure:"output"`
		Properties   []PropertyConfig `json:"properties" mapstructure:"properties"`
		UI           UIConfig         `json:"ui" mapstructure:"ui"`
	}

	// VCSConfig selects how content identifiers are read.
	VCSConfig struct {
		Backend      vcs.Backend  `json:"backend" mapstructure:"backend"`
		ObjectFormat ObjectFormat `json:"object_format" mapstructure:"object_format"`
	}

	// HashConfig holds defaults for the hash command.
	HashConfig struct {
		Jobs               int  `json:"jobs" mapstructure:"jobs"`
		RemoveDependencies bool `json:"remove_dependencies" mapstructure:"remove_dependencies"`
		// Builtins makes the u-root core utilities available to shell properties.
		Builtins bool `json:"builtins" mapstructure:"builtins"`
	}

	// OutputConfig holds defaults for commands that print components.
	OutputConfig struct {
		Pretty bool             `json:"pretty" mapstructure:"pretty"`
		Format component.Format `json:"format" mapstructure:"format"`
	}

	// PropertyConfig is one property annotator.
	PropertyConfig struct {
		Name    string `json:"name" mapstructure:"name"`
		Command string `json:"command" mapstructure:"command"`
		Shell   bool   `json:"shell,omitempty" mapstructure:"shell"`
	}

	// UIConfig holds terminal output settings.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		RegistryFile: component.DefaultFileName,
		VCS: VCSConfig{
			Backend:      vcs.BackendGoGit,
			ObjectFormat: ObjectFormatSHA1,
		},
		Hash: HashConfig{
			Jobs: 1,
		},
		Output: OutputConfig{
			Format: component.FormatJSON,
		},
	}
}

// Definitions converts the configured properties for the annotate package.
func (c *Config) Definitions() []annotate.Definition {
	defs := make([]annotate.Definition, len(c.Properties))
	for i, p := range c.Properties {
		defs[i] = annotate.Definition{Name: p.Name, Template: p.Command, Shell: p.Shell}
	}
	return defs
}

// IsValid checks the constraints that hold for any source of values,
// including environment overrides that bypass the CUE schema.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.RegistryFile) == "" {
		errs = append(errs, errors.New("registry_file: must be non-empty"))
	}
	if ok, fieldErrs := c.VCS.Backend.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.VCS.ObjectFormat.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if c.Hash.Jobs < 1 || c.Hash.Jobs > MaxJobs {
		errs = append(errs, &InvalidJobsError{Value: c.Hash.Jobs})
	}
	if ok, fieldErrs := c.Output.Format.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	seen := make(map[string]bool, len(c.Properties))
	for i, p := range c.Properties {
		switch {
		case p.Name == "":
			errs = append(errs, &InvalidPropertyError{Index: i, Reason: "name is empty"})
		case component.IsKnownKey(p.Name):
			errs = append(errs, &InvalidPropertyError{Index: i, Name: p.Name, Reason: "name is reserved"})
		case seen[p.Name]:
			errs = append(errs, &InvalidPropertyError{Index: i, Name: p.Name, Reason: "name is already used"})
		case strings.TrimSpace(p.Command) == "":
			errs = append(errs, &InvalidPropertyError{Index: i, Name: p.Name, Reason: "command is empty"})
		}
		seen[p.Name] = true
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns the sentinel and every field error for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the object format name.
func (f ObjectFormat) String() string { return string(f) }

// IsValid returns whether the ObjectFormat is one of the defined formats.
// The zero value is valid and means ObjectFormatSHA1.
func (f ObjectFormat) IsValid() (bool, []error) {
	switch f {
	case "", ObjectFormatSHA1, ObjectFormatSHA256:
		return true, nil
	}
	return false, []error{&InvalidObjectFormatError{Value: f}}
}

// IDWidth returns the content identifier width in bytes.
func (f ObjectFormat) IDWidth() int {
	if f == ObjectFormatSHA256 {
		return treehash.SHA256IDWidth
	}
	return treehash.SHA1IDWidth
}

// Error implements the error interface.
func (e *InvalidObjectFormatError) Error() string {
	return fmt.Sprintf("invalid object format %q (valid: sha1, sha256)", e.Value)
}

// Unwrap returns ErrInvalidObjectFormat for errors.Is() compatibility.
func (e *InvalidObjectFormatError) Unwrap() error { return ErrInvalidObjectFormat }

// Error implements the error interface.
func (e *InvalidJobsError) Error() string {
	return fmt.Sprintf("invalid hash jobs %d (valid: 1 to %d)", e.Value, MaxJobs)
}

// Unwrap returns ErrInvalidJobs for errors.Is() compatibility.
func (e *InvalidJobsError) Unwrap() error { return ErrInvalidJobs }

// Error implements the error interface.
func (e *InvalidPropertyError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("properties[%d]: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("properties[%d] %q: %s", e.Index, e.Name, e.Reason)
}

// Unwrap returns ErrInvalidProperty for errors.Is() compatibility.
func (e *InvalidPropertyError) Unwrap() error { return ErrInvalidProperty }
