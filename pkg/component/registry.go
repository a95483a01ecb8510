// SPDX-License-Identifier: MPL-2.0

package component

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/avocado-build/avocado/pkg/cueutil"
)

// DefaultFileName is the registry file looked up in the registry root.
const DefaultFileName = "components.json"

//go:embed registry_schema.cue
var registrySchema []byte

// ErrMalformedRegistry is the sentinel error wrapped by DecodeError.
var ErrMalformedRegistry = errors.New("malformed registry")

// DecodeError is returned when the registry file cannot be read as a list of components.
type DecodeError struct {
	// File is the registry file path, or "<input>" for in-memory data.
	File string
	// Cause describes what was wrong.
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrMalformedRegistry, e.File, e.Cause)
}

// Unwrap returns ErrMalformedRegistry for errors.Is() compatibility.
func (e *DecodeError) Unwrap() []error { return []error{ErrMalformedRegistry, e.Cause} }

// Path returns the registry file path for a registry root directory.
func Path(root, fileName string) string {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return filepath.Join(root, fileName)
}

// Load reads and decodes the registry file of a registry root.
func Load(root, fileName string) ([]*Component, error) {
	path := Path(root, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return Decode(data, path)
}

// Decode validates data against the registry schema and decodes it.
// The filename is only used in error messages.
func Decode(data []byte, filename string) ([]*Component, error) {
	if filename == "" {
		filename = "<input>"
	}
	if err := cueutil.ValidateJSON(registrySchema, data, "#Registry", cueutil.WithFilename(filename)); err != nil {
		return nil, &DecodeError{File: filename, Cause: err}
	}

	var components []*Component
	if err := json.Unmarshal(data, &components); err != nil {
		return nil, &DecodeError{File: filename, Cause: err}
	}
	for i, c := range components {
		if c == nil {
			return nil, &DecodeError{File: filename, Cause: fmt.Errorf("[%d]: component is null", i)}
		}
	}
	return components, nil
}

// Find returns the component with the given id.
func Find(components []*Component, id string) (*Component, bool) {
	for _, c := range components {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// IDs returns the ids of components in order.
func IDs(components []*Component) []string {
	ids := make([]string, len(components))
	for i, c := range components {
		ids[i] = c.ID
	}
	return ids
}

// EncodeJSON writes components as a JSON array, indented when pretty is set.
// HTML characters are not escaped so values round-trip as written.
func EncodeJSON(w io.Writer, components []*Component, pretty bool) error {
	if components == nil {
		components = []*Component{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(components); err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
