// SPDX-License-Identifier: MPL-2.0

package treehash

import (
	"errors"
	"fmt"
)

var (
	// ErrContentLookup is the sentinel error wrapped by ContentLookupError.
	ErrContentLookup = errors.New("content lookup failed")
	// ErrDecode is the sentinel error wrapped by DecodeError.
	ErrDecode = errors.New("malformed content identifier")
	// ErrDepthOverflow is the sentinel error wrapped by DepthOverflowError.
	ErrDepthOverflow = errors.New("dependency depth overflow")
	// ErrMissingRecord is the sentinel error wrapped by MissingRecordError.
	ErrMissingRecord = errors.New("dependency not hashed yet")
)

type (
	// ContentLookupError is returned when the content source fails for a node.
	ContentLookupError struct {
		ID  string
		Err error
	}

	// DecodeError is returned when a content identifier is not hex of the
	// expected width.
	DecodeError struct {
		ID        string
		ContentID string
		Width     int
		Err       error
	}

	// DepthOverflowError is returned when a depth does not fit in 16 bits.
	DepthOverflowError struct {
		ID    string
		Depth int
	}

	// MissingRecordError is returned when a dependency has no record, which
	// only happens when nodes are not visited in dependency-first order.
	MissingRecordError struct {
		ID string
	}
)

func (e *ContentLookupError) Error() string {
	return fmt.Sprintf("content identifier for %q: %v", e.ID, e.Err)
}

// Unwrap returns ErrContentLookup and the underlying cause.
func (e *ContentLookupError) Unwrap() []error { return []error{ErrContentLookup, e.Err} }

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("content identifier %q of %q: %v", e.ContentID, e.ID, e.Err)
	}
	return fmt.Sprintf("content identifier %q of %q: want %d bytes, got %d", e.ContentID, e.ID, e.Width, len(e.ContentID)/2)
}

// Unwrap returns ErrDecode and the hex decoding error, if any.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}

func (e *DepthOverflowError) Error() string {
	return fmt.Sprintf("depth %d of %q exceeds %d", e.Depth, e.ID, MaxDepth)
}

// Unwrap returns ErrDepthOverflow for errors.Is() compatibility.
func (e *DepthOverflowError) Unwrap() error { return ErrDepthOverflow }

func (e *MissingRecordError) Error() string {
	return fmt.Sprintf("dependency %q has no tree hash yet", e.ID)
}

// Unwrap returns ErrMissingRecord for errors.Is() compatibility.
func (e *MissingRecordError) Unwrap() error { return ErrMissingRecord }
