// SPDX-License-Identifier: MPL-2.0

package component

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
)

// JSON keys of the fields the core understands.
const (
	KeyDir            = "dir"
	KeyDependencies   = "dependencies"
	KeyCommitSHA      = "commit_sha"
	KeyCommitSHAShort = "commit_sha_short"
	KeyTreeSHA        = "tree_sha"
	KeyTreeSHAShort   = "tree_sha_short"
)

// Lengths of the short forms of the hash fields, in hex characters.
const (
	CommitSHAShortLen = 8
	TreeSHAShortLen   = 16
)

// Component is one entry of the registry.
type Component struct {
	// ID is the unique component id. It doubles as the component's directory
	// relative to the registry root and is serialized as "dir".
	ID string
	// Dependencies lists the ids this component requires, in declaration order.
	Dependencies []string
	// CommitSHA is the content identifier of the component's own directory.
	CommitSHA string
	// CommitSHAShort is the first CommitSHAShortLen characters of CommitSHA.
	CommitSHAShort string
	// TreeSHA is the hex digest covering the component and its dependency closure.
	TreeSHA string
	// TreeSHAShort is the first TreeSHAShortLen characters of TreeSHA.
	TreeSHAShort string
	// Extra holds every other field in input order.
	Extra Extra
}

// IsKnownKey reports whether key is parsed into a typed Component field.
func IsKnownKey(key string) bool {
	switch key {
	case KeyDir, KeyDependencies, KeyCommitSHA, KeyCommitSHAShort, KeyTreeSHA, KeyTreeSHAShort:
		return true
	}
	return false
}

// SetHashes fills the hash fields and their short forms.
func (c *Component) SetHashes(commitSHA, treeSHA string) {
	c.CommitSHA = commitSHA
	c.CommitSHAShort = prefix(commitSHA, CommitSHAShortLen)
	c.TreeSHA = treeSHA
	c.TreeSHAShort = prefix(treeSHA, TreeSHAShortLen)
}

// Clone returns a deep copy of the component.
func (c *Component) Clone() *Component {
	out := *c
	out.Dependencies = slices.Clone(c.Dependencies)
	out.Extra = c.Extra.Clone()
	return &out
}

// StringFields returns every string-valued field in serialization order.
// Empty output fields are omitted, matching what MarshalJSON writes.
func (c *Component) StringFields() []Property {
	props := []Property{{Name: KeyDir, Value: c.ID}}
	for _, p := range []Property{
		{Name: KeyCommitSHA, Value: c.CommitSHA},
		{Name: KeyCommitSHAShort, Value: c.CommitSHAShort},
		{Name: KeyTreeSHA, Value: c.TreeSHA},
		{Name: KeyTreeSHAShort, Value: c.TreeSHAShort},
	} {
		if p.Value != "" {
			props = append(props, p)
		}
	}
	return append(props, c.Extra.Strings()...)
}

// Fields returns the component as a generic map, as seen by templates.
// Extra values are decoded; a value that fails to decode is skipped.
func (c *Component) Fields() map[string]any {
	m := make(map[string]any, 6+c.Extra.Len())
	for _, key := range c.Extra.Keys() {
		raw, _ := c.Extra.Get(key)
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		m[key] = v
	}
	m[KeyDir] = c.ID
	for key, v := range map[string]string{
		KeyCommitSHA:      c.CommitSHA,
		KeyCommitSHAShort: c.CommitSHAShort,
		KeyTreeSHA:        c.TreeSHA,
		KeyTreeSHAShort:   c.TreeSHAShort,
	} {
		if v != "" {
			m[key] = v
		}
	}
	if len(c.Dependencies) > 0 {
		m[KeyDependencies] = slices.Clone(c.Dependencies)
	}
	return m
}

// MarshalJSON writes the known fields first, then the extra fields in order.
func (c *Component) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value any) error {
		raw, ok := value.(json.RawMessage)
		if !ok {
			var err error
			raw, err = marshalValue(value)
			if err != nil {
				return fmt.Errorf("encode %q: %w", key, err)
			}
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := marshalValue(key) //nolint:errcheck // string keys always encode
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(raw)
		return nil
	}

	if err := write(KeyDir, c.ID); err != nil {
		return nil, err
	}
	if len(c.Dependencies) > 0 {
		if err := write(KeyDependencies, c.Dependencies); err != nil {
			return nil, err
		}
	}
	for _, p := range []Property{
		{Name: KeyCommitSHA, Value: c.CommitSHA},
		{Name: KeyCommitSHAShort, Value: c.CommitSHAShort},
		{Name: KeyTreeSHA, Value: c.TreeSHA},
		{Name: KeyTreeSHAShort, Value: c.TreeSHAShort},
	} {
		if p.Value == "" {
			continue
		}
		if err := write(p.Name, p.Value); err != nil {
			return nil, err
		}
	}
	for _, f := range c.Extra.fields {
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalValue encodes v like json.Marshal but leaves <, > and & as they are,
// so a value reads the same in the output as in the registry file.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// UnmarshalJSON reads a component object, keeping unknown fields in order.
func (c *Component) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("component must be a JSON object")
	}

	var out Component
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if err := out.setField(key, raw); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	*c = out
	return nil
}

func (c *Component) setField(key string, raw json.RawMessage) error {
	var target any
	switch key {
	case KeyDir:
		target = &c.ID
	case KeyDependencies:
		target = &c.Dependencies
	case KeyCommitSHA:
		target = &c.CommitSHA
	case KeyCommitSHAShort:
		target = &c.CommitSHAShort
	case KeyTreeSHA:
		target = &c.TreeSHA
	case KeyTreeSHAShort:
		target = &c.TreeSHAShort
	default:
		c.Extra.Set(key, raw)
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
