// SPDX-License-Identifier: MPL-2.0

package component

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type (
	// Extra is an ordered bag of fields that the core does not interpret.
	// Values are kept as raw JSON so they round-trip without reinterpretation.
	// The zero value is an empty bag ready for use.
	Extra struct {
		fields []field
	}

	field struct {
		key   string
		value json.RawMessage
	}

	// Property is a named string value produced by an annotator.
	Property struct {
		Name  string
		Value string
	}
)

// Len returns the number of fields in the bag.
func (e *Extra) Len() int { return len(e.fields) }

// Keys returns the field names in order.
func (e *Extra) Keys() []string {
	keys := make([]string, len(e.fields))
	for i, f := range e.fields {
		keys[i] = f.key
	}
	return keys
}

// Get returns the raw JSON value stored under key.
func (e *Extra) Get(key string) (json.RawMessage, bool) {
	for _, f := range e.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// Set stores a raw JSON value. An existing key keeps its position.
func (e *Extra) Set(key string, value json.RawMessage) {
	v := bytes.Clone(value)
	for i := range e.fields {
		if e.fields[i].key == key {
			e.fields[i].value = v
			return
		}
	}
	e.fields = append(e.fields, field{key: key, value: v})
}

// SetString stores a JSON string value.
func (e *Extra) SetString(key, value string) {
	raw, err := marshalValue(value)
	if err != nil {
		// Encoding a string never fails.
		panic(fmt.Sprintf("component: encode string: %v", err))
	}
	e.Set(key, raw)
}

// Merge applies properties in order using Set semantics.
func (e *Extra) Merge(props []Property) {
	for _, p := range props {
		e.SetString(p.Name, p.Value)
	}
}

// Strings returns the entries whose value is a JSON string, decoded, in order.
func (e *Extra) Strings() []Property {
	var out []Property
	for _, f := range e.fields {
		if len(f.value) == 0 || f.value[0] != '"' {
			continue
		}
		var s string
		if err := json.Unmarshal(f.value, &s); err != nil {
			continue
		}
		out = append(out, Property{Name: f.key, Value: s})
	}
	return out
}

// Clone returns a deep copy of the bag.
func (e *Extra) Clone() Extra {
	out := Extra{fields: make([]field, len(e.fields))}
	for i, f := range e.fields {
		out.fields[i] = field{key: f.key, value: bytes.Clone(f.value)}
	}
	return out
}
